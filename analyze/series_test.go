package analyze

import (
	"reflect"
	"testing"
	"time"

	"estatewatch/models"
)

func TestSeriesGeneratorDeterministic(t *testing.T) {
	gen := &SeriesGenerator{Days: 60, Seed: 42}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.LocalitySummary{
		{Locality: "BESA", AvgPricePerSqft: 4000},
		{Locality: "BESA", AvgPricePerSqft: 4200},
	}

	a := gen.Generate(rows, now)
	b := gen.Generate(rows, now)
	if len(a) != 60 {
		t.Fatalf("got %d points, want 60", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different series")
	}
}

func TestSeriesGeneratorShape(t *testing.T) {
	gen := &SeriesGenerator{Days: 120, Seed: 7}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.LocalitySummary{{Locality: "BESA", AvgPricePerSqft: 5000}}

	pts := gen.Generate(rows, now)
	if len(pts) != 120 {
		t.Fatalf("got %d points, want 120", len(pts))
	}

	end := now.Truncate(24 * time.Hour)
	if !pts[len(pts)-1].Date.Equal(end) {
		t.Errorf("last date = %v, want %v", pts[len(pts)-1].Date, end)
	}
	if !pts[0].Date.Equal(end.AddDate(0, 0, -119)) {
		t.Errorf("first date = %v, want %v", pts[0].Date, end.AddDate(0, 0, -119))
	}
	for i := 1; i < len(pts); i++ {
		if got := pts[i].Date.Sub(pts[i-1].Date); got != 24*time.Hour {
			t.Fatalf("gap at %d = %v, want 24h", i, got)
		}
	}

	// Noise is 2% of the base, ramp tops out at 5%. Everything should sit
	// well inside a 20% band around the base price.
	for i, p := range pts {
		if p.Value < 4000 || p.Value > 6000 {
			t.Errorf("point %d value %v outside sane band", i, p.Value)
		}
	}
}

func TestSeriesGeneratorRejectsBadInput(t *testing.T) {
	gen := &SeriesGenerator{Days: 30, Seed: 1}
	now := time.Now()

	if got := gen.Generate(nil, now); got != nil {
		t.Errorf("nil rows: got %d points, want nil", len(got))
	}
	rows := []models.LocalitySummary{{Locality: "X", AvgPricePerSqft: 0}}
	if got := gen.Generate(rows, now); got != nil {
		t.Errorf("zero price: got %d points, want nil", len(got))
	}
}
