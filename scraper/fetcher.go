package scraper

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estatewatch/config"
	"estatewatch/models"
)

// FetchResult is what a crawl produced and why it stopped. Listings are
// partial but valid whenever Stop is StopError.
type FetchResult struct {
	Listings []models.RawListing
	Pages    int
	Stop     models.StopReason
}

// Fetcher crawls one site's paginated search results up to a target
// record count.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, targetCount int) (*FetchResult, error)
}

// NewFetcher picks the fetch strategy from the site config.
func NewFetcher(site *config.SiteConfig, city string, client *http.Client) Fetcher {
	switch site.Fetcher {
	case "browser":
		return NewBrowserFetcher(site, city)
	default:
		return NewHTTPFetcher(site, city, client)
	}
}

// HTTPFetcher is the default strategy: sequential GETs with browser-like
// headers, a referer chain, and randomized politeness delays. No retries;
// a failed page ends the crawl.
type HTTPFetcher struct {
	site      *config.SiteConfig
	city      string
	client    *http.Client
	extractor *Extractor
	rng       *rand.Rand
	sleep     func(time.Duration) // swapped out in tests
}

func NewHTTPFetcher(site *config.SiteConfig, city string, client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		site:      site,
		city:      city,
		client:    client,
		extractor: NewExtractor(site, city),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:     time.Sleep,
	}
}

func (f *HTTPFetcher) ID() string {
	return f.site.ID
}

// Fetch crawls pages until one of the termination conditions hits. The
// returned result is always non-nil; err is non-nil only for transport
// failures, and the result still carries whatever was collected.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetCount int) (*FetchResult, error) {
	res := &FetchResult{}
	scrapeDate := time.Now()

	f.warmUp(ctx)

	referer := f.site.BaseURL + "/"
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			res.Stop = models.StopError
			return res, err
		}

		pageURL := f.site.PageURL(f.city, page)
		doc, status, err := f.get(ctx, pageURL, referer)
		if err != nil {
			log.Printf("fetch: %s page %d: %v", f.site.ID, page, err)
			res.Stop = models.StopError
			return res, err
		}
		res.Pages++

		if status == http.StatusForbidden {
			log.Printf("fetch: %s blocked (403) at page %d", f.site.ID, page)
			res.Stop = models.StopBlocked
			return res, nil
		}

		if f.extractor.CardCount(doc) == 0 {
			log.Printf("fetch: %s exhausted at page %d", f.site.ID, page)
			res.Stop = models.StopExhausted
			return res, nil
		}

		for _, l := range f.extractor.Page(doc, scrapeDate) {
			res.Listings = append(res.Listings, l)
			if len(res.Listings) >= targetCount {
				log.Printf("fetch: %s reached target of %d at page %d", f.site.ID, targetCount, page)
				res.Stop = models.StopTargetReached
				return res, nil
			}
		}

		log.Printf("fetch: %s page %d: %d collected so far", f.site.ID, page, len(res.Listings))
		referer = pageURL
		f.sleep(f.delay())
	}
}

// warmUp primes the site root so the first search request arrives with a
// plausible session. Best effort; failure is tolerated.
func (f *HTTPFetcher) warmUp(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.site.BaseURL+"/", nil)
	if err != nil {
		return
	}
	setHeaders(req, "")
	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("fetch: %s warm-up failed, continuing: %v", f.site.ID, err)
		return
	}
	resp.Body.Close()
	f.sleep(2*time.Second + time.Duration(f.rng.Intn(2000))*time.Millisecond)
}

func (f *HTTPFetcher) get(ctx context.Context, url, referer string) (*goquery.Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	setHeaders(req, referer)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, resp.StatusCode, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parse page: %w", err)
	}
	return doc, resp.StatusCode, nil
}

// delay returns a politeness pause inside the configured bounds.
func (f *HTTPFetcher) delay() time.Duration {
	min := f.site.DelayMinSec
	span := f.site.DelayMaxSec - min
	if span <= 0 {
		return time.Duration(min) * time.Second
	}
	ms := min*1000 + f.rng.Intn(span*1000)
	return time.Duration(ms) * time.Millisecond
}

func setHeaders(req *http.Request, referer string) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
}
