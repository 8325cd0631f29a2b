package models

import "time"

// LocalitySummary is one aggregated row per canonical locality per run.
// This is the durable artifact read by both the forecast step and the
// dashboard.
type LocalitySummary struct {
	Locality        string    `json:"locality" db:"locality"`
	AvgPricePerSqft float64   `json:"avg_price_per_sqft" db:"avg_price_per_sqft"`
	MedianPrice     float64   `json:"median_price" db:"median_price"`
	TotalListings   int       `json:"total_listings" db:"total_listings"`
	ScrapeDate      time.Time `json:"scrape_date" db:"scrape_date"`
}

// Market segments assigned by price rank
const (
	SegmentPremium    = "premium"
	SegmentMid        = "mid"
	SegmentAffordable = "affordable"
)

// LocalityStat ranks a locality by average price per sqft across the
// aggregated table. Exported alongside the summary for the dashboard's
// expensive/affordable views.
type LocalityStat struct {
	Locality        string  `json:"locality" db:"locality"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft" db:"avg_price_per_sqft"`
	TotalListings   int     `json:"total_listings" db:"total_listings"`
	PriceRank       int     `json:"price_rank" db:"price_rank"`
	Segment         string  `json:"segment" db:"segment"`
}

// Trend labels derived from forecasted percentage growth
const (
	TrendRising  = "Rising"
	TrendStable  = "Stable"
	TrendFalling = "Falling"
	TrendFlat    = "Flat"
)

// ForecastSummary is one row per locality with a long-enough series.
type ForecastSummary struct {
	Locality      string  `json:"locality" db:"locality"`
	CurrentPrice  float64 `json:"current_price" db:"current_price"`
	ForecastPrice float64 `json:"forecast_price" db:"forecast_price"`
	PctGrowth     float64 `json:"pct_growth" db:"pct_growth"`
	Trend         string  `json:"trend" db:"trend"`
}

// SeriesPoint is one observation of a daily price series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
