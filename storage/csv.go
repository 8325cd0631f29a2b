package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"estatewatch/models"
)

const dateLayout = "2006-01-02"

// WriteRawListings writes the scraper output file. Numeric columns hold
// the raw text exactly as scraped; cleaning happens downstream.
func WriteRawListings(path string, rows []models.RawListing) error {
	return writeCSV(path,
		[]string{"locality", "property_type", "total_price", "area_sqft", "price_per_sqft", "scrape_date", "listing_url"},
		len(rows),
		func(i int) []string {
			r := rows[i]
			return []string{
				r.LocalityText,
				r.PropertyTypeText,
				r.PriceText,
				r.AreaText,
				r.PricePerSqftText,
				r.ScrapeDate.Format(dateLayout),
				r.ListingURL,
			}
		})
}

// WriteLocalitySummaries writes the cleaned aggregate file consumed by the
// dashboard and the forecast step.
func WriteLocalitySummaries(path string, rows []models.LocalitySummary) error {
	return writeCSV(path,
		[]string{"locality", "avg_price_per_sqft", "median_price", "total_listings", "scrape_date"},
		len(rows),
		func(i int) []string {
			r := rows[i]
			return []string{
				r.Locality,
				strconv.FormatFloat(r.AvgPricePerSqft, 'f', 2, 64),
				strconv.FormatFloat(r.MedianPrice, 'f', 0, 64),
				strconv.Itoa(r.TotalListings),
				r.ScrapeDate.Format(dateLayout),
			}
		})
}

// ReadLocalitySummaries loads the aggregate file back, e.g. when the
// forecast step runs in its own process.
func ReadLocalitySummaries(path string) ([]models.LocalitySummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]models.LocalitySummary, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		if len(rec) < 5 {
			continue
		}
		avg, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		median, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(rec[3])
		if err != nil {
			continue
		}
		date, err := time.Parse(dateLayout, rec[4])
		if err != nil {
			continue
		}
		out = append(out, models.LocalitySummary{
			Locality:        rec[0],
			AvgPricePerSqft: avg,
			MedianPrice:     median,
			TotalListings:   count,
			ScrapeDate:      date,
		})
	}
	return out, nil
}

// WriteLocalityStats writes the ranked locality table.
func WriteLocalityStats(path string, rows []models.LocalityStat) error {
	return writeCSV(path,
		[]string{"locality", "avg_price_per_sqft", "total_listings", "price_rank", "segment"},
		len(rows),
		func(i int) []string {
			r := rows[i]
			return []string{
				r.Locality,
				strconv.FormatFloat(r.AvgPricePerSqft, 'f', 2, 64),
				strconv.Itoa(r.TotalListings),
				strconv.Itoa(r.PriceRank),
				r.Segment,
			}
		})
}

// WriteForecastSummaries writes the forecast table, already sorted by
// descending growth.
func WriteForecastSummaries(path string, rows []models.ForecastSummary) error {
	return writeCSV(path,
		[]string{"locality", "current_price", "forecast_price", "pct_growth", "trend"},
		len(rows),
		func(i int) []string {
			r := rows[i]
			return []string{
				r.Locality,
				strconv.FormatFloat(r.CurrentPrice, 'f', 2, 64),
				strconv.FormatFloat(r.ForecastPrice, 'f', 2, 64),
				strconv.FormatFloat(r.PctGrowth, 'f', 2, 64),
				r.Trend,
			}
		})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
