package analyze

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"estatewatch/models"
)

const (
	trendFraction = 0.05 // linear ramp across the series
	noiseFraction = 0.02 // stddev of the per-point Gaussian noise
)

// SeriesGenerator fabricates a daily price series around a locality's
// current average price: the mean avg_price_per_sqft plus a linear upward
// ramp and Gaussian noise. A stand-in for historical data the source
// doesn't have; not a measured trend.
type SeriesGenerator struct {
	Days int
	Seed uint64 // 0 picks a time-based seed; set for reproducible series
}

// Generate builds the synthetic series from a locality's summary rows.
// Returns nil when the mean price is undefined or non-positive.
func (g *SeriesGenerator) Generate(rows []models.LocalitySummary, now time.Time) []models.SeriesPoint {
	if len(rows) == 0 {
		return nil
	}

	prices := make([]float64, 0, len(rows))
	for _, r := range rows {
		prices = append(prices, r.AvgPricePerSqft)
	}
	current := stat.Mean(prices, nil)
	if !(current > 0) { // catches NaN as well
		return nil
	}

	days := g.Days
	if days <= 0 {
		days = 120
	}

	seed := g.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	noise := distuv.Normal{
		Mu:    0,
		Sigma: current * noiseFraction,
		Src:   rand.NewSource(seed),
	}

	end := now.Truncate(24 * time.Hour)
	out := make([]models.SeriesPoint, 0, days)
	for i := 0; i < days; i++ {
		ramp := 0.0
		if days > 1 {
			ramp = current * trendFraction * float64(i) / float64(days-1)
		}
		out = append(out, models.SeriesPoint{
			Date:  end.AddDate(0, 0, i-days+1),
			Value: current + ramp + noise.Rand(),
		})
	}

	return out
}
