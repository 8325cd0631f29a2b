package workers

import (
	"context"
	"log"
	"time"

	"estatewatch/pipeline"
)

// ForecastWorker recomputes forecast summaries in the background, on an
// interval and whenever triggered after a scrape. Forecasting reads only
// the aggregated table, so it runs independently of crawl timing.
type ForecastWorker struct {
	pipeline *pipeline.Pipeline
	trigger  chan struct{}
}

func NewForecastWorker(p *pipeline.Pipeline) *ForecastWorker {
	return &ForecastWorker{
		pipeline: p,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate recompute. Non-blocking; a pending
// trigger coalesces with the new one.
func (w *ForecastWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run loops until the context ends. An interval of zero disables the
// timer; the worker then only reacts to triggers.
func (w *ForecastWorker) Run(ctx context.Context, interval time.Duration) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			w.recompute(ctx)
		case <-w.trigger:
			w.recompute(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *ForecastWorker) recompute(ctx context.Context) {
	if err := w.pipeline.RunForecast(ctx); err != nil {
		log.Printf("forecast worker: %v", err)
	}
}
