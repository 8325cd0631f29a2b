package clean

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"estatewatch/models"
)

// Accepted price-per-sqft range, inclusive. Values outside are treated as
// scrape noise and dropped.
const (
	MinPricePerSqft = 500
	MaxPricePerSqft = 50000
)

// Clean runs the full cleaning sequence over raw listings: URL dedup,
// composite dedup, missing-field drop, numeric normalization, locality
// canonicalization, price-per-sqft backfill, and range filtering. The
// input is not mutated; step order matters because the backfill depends
// on the normalized numerics.
func Clean(raw []models.RawListing) []models.CleanedListing {
	rows := dropDuplicateURLs(raw)
	rows = dropDuplicateComposites(rows)
	rows = dropMissingFields(rows)

	out := make([]models.CleanedListing, 0, len(rows))
	var droppedLocality, droppedRange int

	for _, r := range rows {
		cl := models.CleanedListing{
			ID:           uuid.New(),
			Locality:     Canonicalize(r.LocalityText),
			PropertyType: r.PropertyTypeText,
			TotalPrice:   ParseCurrency(r.PriceText),
			AreaSqft:     ParseArea(r.AreaText),
			PricePerSqft: ParseCurrency(r.PricePerSqftText),
			ScrapeDate:   r.ScrapeDate,
			ListingURL:   r.ListingURL,
		}

		if cl.Locality == "" {
			droppedLocality++
			continue
		}

		if IsUnknown(cl.PricePerSqft) && !IsUnknown(cl.TotalPrice) && cl.AreaSqft > 0 {
			cl.PricePerSqft = cl.TotalPrice / cl.AreaSqft
		}

		if IsUnknown(cl.PricePerSqft) || cl.PricePerSqft < MinPricePerSqft || cl.PricePerSqft > MaxPricePerSqft {
			droppedRange++
			continue
		}

		out = append(out, cl)
	}

	log.Printf("clean: %d raw -> %d kept (%d empty locality, %d out-of-range)",
		len(raw), len(out), droppedLocality, droppedRange)
	return out
}

// dropDuplicateURLs keeps the first row for each non-empty listing URL.
func dropDuplicateURLs(rows []models.RawListing) []models.RawListing {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.RawListing, 0, len(rows))
	for _, r := range rows {
		if r.ListingURL != "" {
			if _, dup := seen[r.ListingURL]; dup {
				continue
			}
			seen[r.ListingURL] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// dropDuplicateComposites keeps the first row for each
// (price, locality, area) combination, compared on the raw text.
func dropDuplicateComposites(rows []models.RawListing) []models.RawListing {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.RawListing, 0, len(rows))
	for _, r := range rows {
		key := fmt.Sprintf("%s|%s|%s", r.PriceText, r.LocalityText, r.AreaText)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func dropMissingFields(rows []models.RawListing) []models.RawListing {
	out := make([]models.RawListing, 0, len(rows))
	for _, r := range rows {
		if r.PriceText == "" || r.LocalityText == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
