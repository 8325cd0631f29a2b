package storage

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"estatewatch/models"
)

// PostgresStore is the optional analytical sink. Enabled when a DSN is
// configured; the CSV artifacts remain the primary output either way.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cleaned_listings (
		id UUID PRIMARY KEY,
		locality TEXT NOT NULL,
		property_type TEXT NOT NULL,
		total_price DOUBLE PRECISION,
		area_sqft DOUBLE PRECISION,
		price_per_sqft DOUBLE PRECISION NOT NULL,
		scrape_date DATE NOT NULL,
		listing_url TEXT UNIQUE
	);

	CREATE TABLE IF NOT EXISTS locality_summary (
		locality TEXT NOT NULL,
		scrape_date DATE NOT NULL,
		avg_price_per_sqft DOUBLE PRECISION NOT NULL,
		median_price DOUBLE PRECISION NOT NULL,
		total_listings INTEGER NOT NULL,
		PRIMARY KEY (locality, scrape_date)
	);

	CREATE TABLE IF NOT EXISTS forecast_summary (
		locality TEXT PRIMARY KEY,
		current_price DOUBLE PRECISION NOT NULL,
		forecast_price DOUBLE PRECISION NOT NULL,
		pct_growth DOUBLE PRECISION NOT NULL,
		trend TEXT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_listings_locality ON cleaned_listings(locality);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// InsertCleanedListings upserts on listing URL so re-running a scrape does
// not duplicate rows. Unknown areas and prices are stored as NULL.
func (s *PostgresStore) InsertCleanedListings(ctx context.Context, rows []models.CleanedListing) error {
	for _, r := range rows {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO cleaned_listings
				(id, locality, property_type, total_price, area_sqft, price_per_sqft, scrape_date, listing_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (listing_url) DO UPDATE SET
				locality = EXCLUDED.locality,
				property_type = EXCLUDED.property_type,
				total_price = EXCLUDED.total_price,
				area_sqft = EXCLUDED.area_sqft,
				price_per_sqft = EXCLUDED.price_per_sqft,
				scrape_date = EXCLUDED.scrape_date`,
			r.ID, r.Locality, r.PropertyType,
			nullIfNaN(r.TotalPrice), nullIfNaN(r.AreaSqft), r.PricePerSqft,
			r.ScrapeDate, r.ListingURL)
		if err != nil {
			return fmt.Errorf("insert listing %s: %w", r.ListingURL, err)
		}
	}
	return nil
}

func (s *PostgresStore) UpsertLocalitySummaries(ctx context.Context, rows []models.LocalitySummary) error {
	for _, r := range rows {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO locality_summary
				(locality, scrape_date, avg_price_per_sqft, median_price, total_listings)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (locality, scrape_date) DO UPDATE SET
				avg_price_per_sqft = EXCLUDED.avg_price_per_sqft,
				median_price = EXCLUDED.median_price,
				total_listings = EXCLUDED.total_listings`,
			r.Locality, r.ScrapeDate, r.AvgPricePerSqft, r.MedianPrice, r.TotalListings)
		if err != nil {
			return fmt.Errorf("upsert summary %s: %w", r.Locality, err)
		}
	}
	return nil
}

func (s *PostgresStore) UpsertForecastSummaries(ctx context.Context, rows []models.ForecastSummary) error {
	for _, r := range rows {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO forecast_summary
				(locality, current_price, forecast_price, pct_growth, trend, computed_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (locality) DO UPDATE SET
				current_price = EXCLUDED.current_price,
				forecast_price = EXCLUDED.forecast_price,
				pct_growth = EXCLUDED.pct_growth,
				trend = EXCLUDED.trend,
				computed_at = EXCLUDED.computed_at`,
			r.Locality, r.CurrentPrice, r.ForecastPrice, r.PctGrowth, r.Trend)
		if err != nil {
			return fmt.Errorf("upsert forecast %s: %w", r.Locality, err)
		}
	}
	return nil
}

// ListLocalitySummaries returns every summary row, all scrape dates
// included, ordered for stable iteration.
func (s *PostgresStore) ListLocalitySummaries(ctx context.Context) ([]models.LocalitySummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT locality, scrape_date, avg_price_per_sqft, median_price, total_listings
		FROM locality_summary
		ORDER BY locality, scrape_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LocalitySummary
	for rows.Next() {
		var r models.LocalitySummary
		if err := rows.Scan(&r.Locality, &r.ScrapeDate, &r.AvgPricePerSqft, &r.MedianPrice, &r.TotalListings); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfNaN(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
