package forecast

import (
	"log"
	"math"
	"sort"
	"time"

	"estatewatch/analyze"
	"estatewatch/models"
)

// minSeriesPoints is the shortest series worth fitting; localities below
// it are skipped, not failed.
const minSeriesPoints = 5

// Summarizer runs the per-locality forecast loop: synthetic series in,
// one ForecastSummary row out, sorted by descending growth.
type Summarizer struct {
	forecaster  Forecaster
	gen         *analyze.SeriesGenerator
	horizonDays int
}

func NewSummarizer(f Forecaster, gen *analyze.SeriesGenerator, horizonDays int) *Summarizer {
	return &Summarizer{
		forecaster:  f,
		gen:         gen,
		horizonDays: horizonDays,
	}
}

// Run forecasts every locality present in the summary table. The table may
// span multiple aggregation runs; rows are grouped by locality first. A
// failure for one locality skips that locality only.
func (s *Summarizer) Run(summaries []models.LocalitySummary, now time.Time) []models.ForecastSummary {
	groups := make(map[string][]models.LocalitySummary)
	for _, row := range summaries {
		groups[row.Locality] = append(groups[row.Locality], row)
	}

	localities := make([]string, 0, len(groups))
	for loc := range groups {
		localities = append(localities, loc)
	}
	sort.Strings(localities)

	out := make([]models.ForecastSummary, 0, len(localities))
	for _, loc := range localities {
		series := s.gen.Generate(groups[loc], now)
		if len(series) < minSeriesPoints {
			log.Printf("forecast: skipping %s: series too short (%d points)", loc, len(series))
			continue
		}

		preds, err := s.forecaster.FitPredict(series, s.horizonDays)
		if err != nil || len(preds) == 0 {
			log.Printf("forecast: %s: fit failed: %v", loc, err)
			continue
		}

		current := series[len(series)-1].Value
		forecastPrice := preds[len(preds)-1].Yhat
		growth := pctGrowth(current, forecastPrice)

		out = append(out, models.ForecastSummary{
			Locality:      loc,
			CurrentPrice:  round2(current),
			ForecastPrice: round2(forecastPrice),
			PctGrowth:     round2(growth),
			Trend:         TrendLabel(growth),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PctGrowth != out[j].PctGrowth {
			return out[i].PctGrowth > out[j].PctGrowth
		}
		return out[i].Locality < out[j].Locality
	})

	return out
}

func pctGrowth(current, forecast float64) float64 {
	if !(current > 0) {
		return 0
	}
	return (forecast - current) / current * 100
}

// TrendLabel buckets growth into the four-tier scheme, checked in order.
func TrendLabel(growth float64) string {
	switch {
	case growth > 7:
		return models.TrendRising
	case growth > 2:
		return models.TrendStable
	case growth < -2:
		return models.TrendFalling
	default:
		return models.TrendFlat
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
