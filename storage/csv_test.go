package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"estatewatch/models"
)

func TestLocalitySummariesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "locality_summary.csv")
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	want := []models.LocalitySummary{
		{Locality: "BESA", AvgPricePerSqft: 4000, MedianPrice: 4500000, TotalListings: 12, ScrapeDate: date},
		{Locality: "MANISH NAGAR", AvgPricePerSqft: 6123.45, MedianPrice: 8000000, TotalListings: 7, ScrapeDate: date},
	}

	if err := WriteLocalitySummaries(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLocalitySummaries(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadLocalitySummariesSkipsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locality_summary.csv")
	content := strings.Join([]string{
		"locality,avg_price_per_sqft,median_price,total_listings,scrape_date",
		"BESA,4000.00,4500000,12,2026-09-01",
		"BROKEN,not-a-number,4500000,12,2026-09-01",
		"ALSO BROKEN,4000.00,4500000,12,yesterday",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadLocalitySummaries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Locality != "BESA" {
		t.Fatalf("got %+v, want the single BESA row", got)
	}
}

func TestWriteRawListingsHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_listings.csv")
	rows := []models.RawListing{
		{
			LocalityText:     "MANISH NAGAR",
			PropertyTypeText: models.PropertyTypeFlat,
			PriceText:        "₹85 Lac",
			AreaText:         "1,450 sqft",
			PricePerSqftText: "₹5,862 per sqft",
			ScrapeDate:       time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
			ListingURL:       "https://x/p/1",
		},
	}
	if err := WriteRawListings(path, rows); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "locality,property_type,total_price,area_sqft,price_per_sqft,scrape_date,listing_url" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2026-09-01") {
		t.Errorf("row should carry the date only: %q", lines[1])
	}
}

func TestWriteForecastSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast_summary.csv")
	rows := []models.ForecastSummary{
		{Locality: "HINGNA", CurrentPrice: 2040.5, ForecastPrice: 2244.55, PctGrowth: 10, Trend: models.TrendRising},
	}
	if err := WriteForecastSummaries(path, rows); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[1] != "HINGNA,2040.50,2244.55,10.00,Rising" {
		t.Errorf("row = %q", lines[1])
	}
}
