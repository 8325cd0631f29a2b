package analyze

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"estatewatch/models"
)

// Aggregate groups cleaned listings by canonical locality and computes the
// summary row per locality: mean price per sqft (2 decimals), median total
// price (nearest rupee), and listing count, stamped with the run date.
// Output is sorted by locality so repeated runs over the same input are
// byte-identical apart from the stamp.
func Aggregate(listings []models.CleanedListing, runDate time.Time) []models.LocalitySummary {
	groups := make(map[string][]models.CleanedListing)
	for _, l := range listings {
		groups[l.Locality] = append(groups[l.Locality], l)
	}

	localities := make([]string, 0, len(groups))
	for loc := range groups {
		localities = append(localities, loc)
	}
	sort.Strings(localities)

	out := make([]models.LocalitySummary, 0, len(localities))
	for _, loc := range localities {
		rows := groups[loc]

		pps := make([]float64, 0, len(rows))
		prices := make([]float64, 0, len(rows))
		for _, r := range rows {
			pps = append(pps, r.PricePerSqft)
			if !math.IsNaN(r.TotalPrice) {
				prices = append(prices, r.TotalPrice)
			}
		}

		out = append(out, models.LocalitySummary{
			Locality:        loc,
			AvgPricePerSqft: round2(stat.Mean(pps, nil)),
			MedianPrice:     math.Round(median(prices)),
			TotalListings:   len(rows),
			ScrapeDate:      runDate,
		})
	}

	return out
}

// median interpolates between the two middle values for even-length input.
// gonum's Quantile uses the empirical CDF and would pick the lower of the
// two middle values instead, so the interpolating form is hand-rolled here.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
