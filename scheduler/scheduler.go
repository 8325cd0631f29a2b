package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"estatewatch/config"
	"estatewatch/pipeline"
)

// Triggerable lets the scheduler kick a background worker after a scrape
// without knowing its internals.
type Triggerable interface {
	Trigger()
}

type Scheduler struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}

	forecastWorker Triggerable
}

func New(cfg *config.Config, p *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		pipeline: p,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

// SetForecastWorker registers the worker to trigger after each scrape so
// forecasts follow fresh aggregates without waiting for their own tick.
func (s *Scheduler) SetForecastWorker(w Triggerable) {
	s.forecastWorker = w
}

func (s *Scheduler) Start(ctx context.Context) error {
	switch {
	case s.cfg.Scheduler.Cron != "":
		log.Printf("scheduler: cron %q", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() { s.runOnce(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()

	case s.cfg.Scheduler.Interval > 0:
		log.Printf("scheduler: interval %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runOnce(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()

	default:
		log.Println("scheduler: no schedule configured, waiting for manual runs")
	}

	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.pipeline.RunAll(ctx); err != nil {
		log.Printf("scheduler: scheduled run: %v", err)
	}
	if s.forecastWorker != nil {
		s.forecastWorker.Trigger()
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}
