package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"estatewatch/analyze"
	"estatewatch/clean"
	"estatewatch/config"
	"estatewatch/forecast"
	"estatewatch/httputil"
	"estatewatch/models"
	"estatewatch/scraper"
	"estatewatch/storage"
)

// Pipeline composes the stages in order: fetch, extract, clean, aggregate,
// export. Forecasting runs separately over the aggregated table so the two
// flows stay independent.
type Pipeline struct {
	cfg        *config.Config
	ops        *storage.SQLiteStore
	fetchers   map[string]scraper.Fetcher
	summarizer *forecast.Summarizer

	// Optional sinks
	pg       *storage.PostgresStore
	uploader *storage.S3Uploader
}

func New(cfg *config.Config, clients *httputil.Clients, ops *storage.SQLiteStore) *Pipeline {
	fetchers := make(map[string]scraper.Fetcher, len(cfg.Sites))
	for id, site := range cfg.Sites {
		fetchers[id] = scraper.NewFetcher(site, cfg.City, clients.Scraping)
	}

	gen := &analyze.SeriesGenerator{
		Days: cfg.Forecast.SeriesDays,
		Seed: cfg.Forecast.Seed,
	}

	return &Pipeline{
		cfg:        cfg,
		ops:        ops,
		fetchers:   fetchers,
		summarizer: forecast.NewSummarizer(forecast.NewLinearForecaster(), gen, cfg.Forecast.HorizonDays),
	}
}

// SetSinks wires the optional Postgres and S3 destinations.
func (p *Pipeline) SetSinks(pg *storage.PostgresStore, uploader *storage.S3Uploader) {
	p.pg = pg
	p.uploader = uploader
}

// RunAll scrapes every configured site in a stable order. A failing site
// does not stop the others.
func (p *Pipeline) RunAll(ctx context.Context) error {
	ids := make([]string, 0, len(p.fetchers))
	for id := range p.fetchers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var firstErr error
	for _, id := range ids {
		if err := p.RunSite(ctx, id); err != nil {
			log.Printf("pipeline: site %s: %v", id, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RunSite executes the scrape-to-aggregate flow for one site and persists
// every artifact. Partial fetch results are kept: a crawl that ends on a
// transport error still produces the tables for whatever was collected.
func (p *Pipeline) RunSite(ctx context.Context, siteID string) error {
	fetcher, ok := p.fetchers[siteID]
	if !ok {
		return fmt.Errorf("unknown site: %s", siteID)
	}

	run := &models.ScrapeRun{
		Source:    siteID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := p.ops.CreateRun(run)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.ID = runID

	p.log(run, models.LogLevelInfo, fmt.Sprintf("starting scrape, target %d", p.cfg.TargetCount))

	res, fetchErr := fetcher.Fetch(ctx, p.cfg.TargetCount)
	run.PagesFetched = res.Pages
	run.ListingsFound = len(res.Listings)
	run.StopReason = res.Stop
	if fetchErr != nil {
		run.ErrorsCount++
		p.log(run, models.LogLevelError, fmt.Sprintf("crawl ended with error: %v", fetchErr))
	}
	p.log(run, models.LogLevelInfo,
		fmt.Sprintf("crawl stopped (%s): %d listings over %d pages", res.Stop, len(res.Listings), res.Pages))

	if err := p.processListings(ctx, run, res.Listings); err != nil {
		run.ErrorsCount++
		run.Status = models.RunStatusFailed
		p.finishRun(run)
		return err
	}

	if fetchErr != nil {
		run.Status = models.RunStatusFailed
		p.finishRun(run)
		return fetchErr
	}

	run.Status = models.RunStatusCompleted
	p.finishRun(run)
	return nil
}

func (p *Pipeline) processListings(ctx context.Context, run *models.ScrapeRun, raw []models.RawListing) error {
	if err := storage.WriteRawListings(p.cfg.RawListingsPath(), raw); err != nil {
		return fmt.Errorf("write raw listings: %w", err)
	}

	cleaned := clean.Clean(raw)
	run.ListingsKept = len(cleaned)

	runDate := dateOnly(run.StartedAt)
	summaries := analyze.Aggregate(cleaned, runDate)
	run.Localities = len(summaries)
	stats := analyze.Stats(summaries)

	if err := storage.WriteLocalitySummaries(p.cfg.LocalitySummaryPath(), summaries); err != nil {
		return fmt.Errorf("write summaries: %w", err)
	}
	if err := storage.WriteLocalityStats(p.cfg.LocalityStatsPath(), stats); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	if p.pg != nil {
		if err := p.pg.InsertCleanedListings(ctx, cleaned); err != nil {
			p.log(run, models.LogLevelWarn, fmt.Sprintf("postgres listings: %v", err))
			run.ErrorsCount++
		}
		if err := p.pg.UpsertLocalitySummaries(ctx, summaries); err != nil {
			p.log(run, models.LogLevelWarn, fmt.Sprintf("postgres summaries: %v", err))
			run.ErrorsCount++
		}
	}

	if p.uploader != nil {
		datePart := runDate.Format("2006-01-02")
		for _, path := range []string{
			p.cfg.RawListingsPath(),
			p.cfg.LocalitySummaryPath(),
			p.cfg.LocalityStatsPath(),
		} {
			if err := p.uploader.UploadFile(ctx, datePart, path); err != nil {
				p.log(run, models.LogLevelWarn, fmt.Sprintf("s3 upload: %v", err))
				run.ErrorsCount++
			}
		}
	}

	p.log(run, models.LogLevelInfo,
		fmt.Sprintf("kept %d listings across %d localities", len(cleaned), len(summaries)))
	return nil
}

// RunForecast fits every locality in the aggregated table and writes the
// forecast artifacts. Reads from Postgres when wired (all runs), the
// summary CSV otherwise (latest run only).
func (p *Pipeline) RunForecast(ctx context.Context) error {
	var summaries []models.LocalitySummary
	var err error

	if p.pg != nil {
		summaries, err = p.pg.ListLocalitySummaries(ctx)
	} else {
		summaries, err = storage.ReadLocalitySummaries(p.cfg.LocalitySummaryPath())
	}
	if err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	if len(summaries) == 0 {
		log.Println("forecast: no locality summaries yet, nothing to do")
		return nil
	}

	forecasts := p.summarizer.Run(summaries, time.Now())
	log.Printf("forecast: %d localities forecast from %d summary rows", len(forecasts), len(summaries))

	if err := storage.WriteForecastSummaries(p.cfg.ForecastSummaryPath(), forecasts); err != nil {
		return fmt.Errorf("write forecasts: %w", err)
	}

	if p.pg != nil {
		if err := p.pg.UpsertForecastSummaries(ctx, forecasts); err != nil {
			log.Printf("forecast: postgres upsert: %v", err)
		}
	}
	if p.uploader != nil {
		datePart := dateOnly(time.Now()).Format("2006-01-02")
		if err := p.uploader.UploadFile(ctx, datePart, p.cfg.ForecastSummaryPath()); err != nil {
			log.Printf("forecast: s3 upload: %v", err)
		}
	}

	return nil
}

func (p *Pipeline) finishRun(run *models.ScrapeRun) {
	now := time.Now()
	run.FinishedAt = &now
	if err := p.ops.UpdateRun(run); err != nil {
		log.Printf("pipeline: update run %d: %v", run.ID, err)
	}
}

func (p *Pipeline) log(run *models.ScrapeRun, level models.LogLevel, message string) {
	log.Printf("[%s] %s: %s", level, run.Source, message)
	if err := p.ops.Log(&run.ID, level, message, run.Source); err != nil {
		log.Printf("pipeline: persist log: %v", err)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
