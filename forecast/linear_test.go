package forecast

import (
	"math"
	"testing"
	"time"

	"estatewatch/models"
)

func linearSeries(start time.Time, n int, base, slope float64) []models.SeriesPoint {
	out := make([]models.SeriesPoint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.SeriesPoint{
			Date:  start.AddDate(0, 0, i),
			Value: base + slope*float64(i),
		})
	}
	return out
}

func TestLinearForecasterRecoversTrend(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 60, 5000, 2) // 2 rupees/sqft per day

	preds, err := NewLinearForecaster().FitPredict(series, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(preds) != 30 {
		t.Fatalf("got %d predictions, want 30", len(preds))
	}

	// A noiseless line should be recovered almost exactly.
	last := preds[len(preds)-1]
	want := 5000 + 2*float64(60-1+30)
	if math.Abs(last.Yhat-want) > 1e-6 {
		t.Errorf("final Yhat = %v, want %v", last.Yhat, want)
	}

	wantDate := start.AddDate(0, 0, 60-1+30)
	if !last.Date.Equal(wantDate) {
		t.Errorf("final date = %v, want %v", last.Date, wantDate)
	}

	for i, p := range preds {
		if p.YhatLower > p.Yhat || p.Yhat > p.YhatUpper {
			t.Fatalf("prediction %d: bounds out of order: %v %v %v", i, p.YhatLower, p.Yhat, p.YhatUpper)
		}
	}
}

func TestLinearForecasterIntervalWidensWithNoise(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 40, 5000, 1)
	for i := range series {
		if i%2 == 0 {
			series[i].Value += 50
		} else {
			series[i].Value -= 50
		}
	}

	preds, err := NewLinearForecaster().FitPredict(series, 10)
	if err != nil {
		t.Fatal(err)
	}
	if width := preds[0].YhatUpper - preds[0].YhatLower; width < 100 {
		t.Errorf("interval width = %v, want at least the noise amplitude", width)
	}
}

func TestLinearForecasterRejectsBadInput(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	if _, err := NewLinearForecaster().FitPredict(linearSeries(start, 1, 5000, 0), 30); err == nil {
		t.Error("expected error for single-point series")
	}
	if _, err := NewLinearForecaster().FitPredict(linearSeries(start, 10, 5000, 0), 0); err == nil {
		t.Error("expected error for zero horizon")
	}
}
