package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatewatch/config"
	"estatewatch/httputil"
	"estatewatch/logging"
	"estatewatch/pipeline"
	"estatewatch/scheduler"
	"estatewatch/storage"
	"estatewatch/workers"
)

var (
	scrapeNow   = flag.Bool("scrape", false, "Run the scrape-to-aggregate pipeline once and exit")
	forecastNow = flag.Bool("forecast", false, "Recompute forecast summaries once and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logSink, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logSink.Close()
	}

	log.Printf("Starting estatewatch for %s (%d sites, target %d)",
		cfg.City, len(cfg.Sites), cfg.TargetCount)
	for id, site := range cfg.Sites {
		log.Printf("  - %s (%s, fetcher=%s)", site.Name, id, site.Fetcher)
	}

	clients := httputil.NewClients(cfg.ProxyURL, timeoutFor(cfg))

	ops, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer ops.Close()
	log.Printf("Operational database: %s", cfg.DBPath)

	ctx := context.Background()
	pipe := pipeline.New(cfg, clients, ops)

	// Optional sinks
	var pg *storage.PostgresStore
	if cfg.PostgresDSN != "" {
		pg, err = storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		log.Println("Postgres sink enabled")
	}
	var uploader *storage.S3Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("Failed to set up S3 uploader: %v", err)
		}
		log.Printf("S3 sink enabled: bucket %s", cfg.S3.Bucket)
	}
	pipe.SetSinks(pg, uploader)

	// One-shot modes
	if *scrapeNow || *forecastNow {
		if *scrapeNow {
			if err := pipe.RunAll(ctx); err != nil {
				log.Fatalf("Scrape failed: %v", err)
			}
		}
		if *forecastNow {
			if err := pipe.RunForecast(ctx); err != nil {
				log.Fatalf("Forecast failed: %v", err)
			}
		}
		log.Println("Done")
		return
	}

	// Daemon mode
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	forecastWorker := workers.NewForecastWorker(pipe)
	go forecastWorker.Run(ctx, cfg.Forecast.Interval)
	log.Println("Forecast worker started")

	sched := scheduler.New(cfg, pipe)
	sched.SetForecastWorker(forecastWorker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	cancel()
	log.Println("Goodbye!")
}

// timeoutFor picks the largest per-site timeout for the shared scraping
// client.
func timeoutFor(cfg *config.Config) time.Duration {
	max := 25
	for _, site := range cfg.Sites {
		if site.TimeoutSec > max {
			max = site.TimeoutSec
		}
	}
	return time.Duration(max) * time.Second
}
