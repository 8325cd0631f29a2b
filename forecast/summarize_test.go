package forecast

import (
	"testing"
	"time"

	"estatewatch/analyze"
	"estatewatch/models"
)

// bumpForecaster predicts a fixed absolute rise over the last observed
// value, so cheaper localities show larger percentage growth.
type bumpForecaster struct {
	delta float64
}

func (f *bumpForecaster) FitPredict(series []models.SeriesPoint, horizonDays int) ([]Prediction, error) {
	last := series[len(series)-1]
	out := make([]Prediction, 0, horizonDays)
	for d := 1; d <= horizonDays; d++ {
		out = append(out, Prediction{
			Date: last.Date.AddDate(0, 0, d),
			Yhat: last.Value + f.delta,
		})
	}
	return out, nil
}

func TestSummarizerOrdersByGrowth(t *testing.T) {
	gen := &analyze.SeriesGenerator{Days: 30, Seed: 11}
	s := NewSummarizer(&bumpForecaster{delta: 500}, gen, 90)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	summaries := []models.LocalitySummary{
		{Locality: "MANISH NAGAR", AvgPricePerSqft: 8000, TotalListings: 12},
		{Locality: "HINGNA", AvgPricePerSqft: 2000, TotalListings: 8},
		{Locality: "BESA", AvgPricePerSqft: 4000, TotalListings: 10},
	}

	got := s.Run(summaries, now)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}

	// A 500 rupee bump is the largest relative move for the cheapest
	// locality, so growth ordering is price ordering reversed.
	wantOrder := []string{"HINGNA", "BESA", "MANISH NAGAR"}
	for i, want := range wantOrder {
		if got[i].Locality != want {
			t.Fatalf("position %d = %q, want %q", i, got[i].Locality, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].PctGrowth > got[i-1].PctGrowth {
			t.Fatalf("not sorted by descending growth at index %d", i)
		}
	}
	for _, row := range got {
		if row.CurrentPrice <= 0 || row.ForecastPrice <= row.CurrentPrice {
			t.Errorf("%s: implausible prices %v -> %v", row.Locality, row.CurrentPrice, row.ForecastPrice)
		}
		if row.Trend == "" {
			t.Errorf("%s: missing trend label", row.Locality)
		}
	}
}

func TestSummarizerSkipsShortSeries(t *testing.T) {
	gen := &analyze.SeriesGenerator{Days: 3, Seed: 11} // below the fit minimum
	s := NewSummarizer(&bumpForecaster{delta: 500}, gen, 90)

	summaries := []models.LocalitySummary{
		{Locality: "BESA", AvgPricePerSqft: 4000, TotalListings: 10},
	}
	if got := s.Run(summaries, time.Now()); len(got) != 0 {
		t.Fatalf("got %d rows, want 0", len(got))
	}
}

func TestSummarizerSkipsDegenerateLocality(t *testing.T) {
	gen := &analyze.SeriesGenerator{Days: 30, Seed: 11}
	s := NewSummarizer(&bumpForecaster{delta: 500}, gen, 90)

	summaries := []models.LocalitySummary{
		{Locality: "GOOD", AvgPricePerSqft: 4000, TotalListings: 10},
		{Locality: "BAD", AvgPricePerSqft: 0, TotalListings: 2},
	}
	got := s.Run(summaries, time.Now())
	if len(got) != 1 || got[0].Locality != "GOOD" {
		t.Fatalf("got %+v, want only GOOD", got)
	}
}

func TestTrendLabel(t *testing.T) {
	tests := []struct {
		growth float64
		want   string
	}{
		{10, models.TrendRising},
		{7.01, models.TrendRising},
		{7, models.TrendStable},
		{2.5, models.TrendStable},
		{2, models.TrendFlat},
		{0, models.TrendFlat},
		{-2, models.TrendFlat},
		{-2.5, models.TrendFalling},
		{-10, models.TrendFalling},
	}

	for _, tt := range tests {
		if got := TrendLabel(tt.growth); got != tt.want {
			t.Errorf("TrendLabel(%v) = %q, want %q", tt.growth, got, tt.want)
		}
	}
}
