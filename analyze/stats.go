package analyze

import (
	"sort"

	"estatewatch/models"
)

const segmentSize = 5 // top/bottom slice exposed as premium/affordable

// Stats ranks localities by average price per sqft, most expensive first,
// and tags the five most expensive and five most affordable so the
// dashboard's comparison views don't have to recompute them.
func Stats(summaries []models.LocalitySummary) []models.LocalityStat {
	ranked := append([]models.LocalitySummary(nil), summaries...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgPricePerSqft != ranked[j].AvgPricePerSqft {
			return ranked[i].AvgPricePerSqft > ranked[j].AvgPricePerSqft
		}
		return ranked[i].Locality < ranked[j].Locality
	})

	out := make([]models.LocalityStat, 0, len(ranked))
	for i, s := range ranked {
		segment := models.SegmentMid
		if i < segmentSize {
			segment = models.SegmentPremium
		}
		if i >= len(ranked)-segmentSize && len(ranked) > segmentSize {
			segment = models.SegmentAffordable
		}

		out = append(out, models.LocalityStat{
			Locality:        s.Locality,
			AvgPricePerSqft: s.AvgPricePerSqft,
			TotalListings:   s.TotalListings,
			PriceRank:       i + 1,
			Segment:         segment,
		})
	}

	return out
}
