package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estatewatch/config"
	"estatewatch/models"
)

// typeKeywords map title substrings to property types. Checked in this
// order, first match wins; "house" before "penthouse" is the documented
// precedence, so a penthouse title resolves to House.
var typeKeywords = []struct {
	keyword string
	ptype   string
}{
	{"plot", models.PropertyTypePlot},
	{"house", models.PropertyTypeHouse},
	{"villa", models.PropertyTypeVilla},
	{"penthouse", models.PropertyTypePenthouse},
}

// Extractor pulls a RawListing out of each listing card using the site's
// per-field selector fallback chains.
type Extractor struct {
	sel     config.Selectors
	baseURL string
	city    string
}

func NewExtractor(site *config.SiteConfig, city string) *Extractor {
	return &Extractor{
		sel:     site.Selectors,
		baseURL: site.BaseURL,
		city:    strings.ToUpper(city),
	}
}

// Page extracts every card on a search-results page. Cards that fail to
// resolve a locality or URL are dropped individually; a bad card never
// aborts the page.
func (e *Extractor) Page(doc *goquery.Document, scrapeDate time.Time) []models.RawListing {
	var out []models.RawListing
	doc.Find(e.sel.Card).Each(func(_ int, card *goquery.Selection) {
		if l, ok := e.Card(card, scrapeDate); ok {
			out = append(out, l)
		}
	})
	return out
}

// CardCount reports how many listing cards the page contains, parsed or
// not. Zero cards is the crawl's exhaustion signal.
func (e *Extractor) CardCount(doc *goquery.Document) int {
	return doc.Find(e.sel.Card).Length()
}

// Card extracts one listing card. The second return is false when the
// record must be discarded (unresolved locality or missing URL).
func (e *Extractor) Card(card *goquery.Selection, scrapeDate time.Time) (models.RawListing, bool) {
	url := e.listingURL(card)
	title := firstText(card, e.sel.Title)
	locality := e.locality(card, title)

	if locality == models.LocalityUnknown || url == "" {
		return models.RawListing{}, false
	}

	return models.RawListing{
		LocalityText:     locality,
		PropertyTypeText: inferPropertyType(title),
		PriceText:        firstText(card, e.sel.Price),
		AreaText:         firstText(card, e.sel.Area),
		PricePerSqftText: firstText(card, e.sel.PricePerSqft),
		ScrapeDate:       scrapeDate,
		ListingURL:       url,
	}, true
}

func (e *Extractor) listingURL(card *goquery.Selection) string {
	for _, sel := range e.sel.Link {
		href, ok := card.Find(sel).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, "http") {
			href = e.baseURL + href
		}
		return href
	}
	return ""
}

// locality resolves the location text: the location selectors first, then
// the title's " in " suffix. The first comma segment is uppercased; the
// bare city name counts as unresolved.
func (e *Extractor) locality(card *goquery.Selection, title string) string {
	full := firstText(card, e.sel.Locality)
	if full == "" {
		if idx := strings.LastIndex(title, " in "); idx >= 0 {
			full = title[idx+len(" in "):]
		}
	}
	if full == "" {
		return models.LocalityUnknown
	}

	locality := strings.ToUpper(strings.TrimSpace(strings.SplitN(full, ",", 2)[0]))
	if locality == "" || locality == e.city {
		return models.LocalityUnknown
	}
	return locality
}

func inferPropertyType(title string) string {
	t := strings.ToLower(title)
	for _, tk := range typeKeywords {
		if strings.Contains(t, tk.keyword) {
			return tk.ptype
		}
	}
	return models.PropertyTypeFlat
}

// firstText walks a selector fallback chain and returns the first
// non-empty trimmed text match.
func firstText(card *goquery.Selection, chain []string) string {
	for _, sel := range chain {
		if text := strings.TrimSpace(card.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
