package scraper

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"estatewatch/config"
	"estatewatch/models"
)

// BrowserFetcher drives a headless Chromium through the same crawl loop as
// the HTTP fetcher. For sites that challenge plain HTTP clients; selected
// with `fetcher: browser` in the site YAML. Termination semantics are
// identical.
type BrowserFetcher struct {
	site      *config.SiteConfig
	city      string
	extractor *Extractor
	rng       *rand.Rand
}

func NewBrowserFetcher(site *config.SiteConfig, city string) *BrowserFetcher {
	return &BrowserFetcher{
		site:      site,
		city:      city,
		extractor: NewExtractor(site, city),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *BrowserFetcher) ID() string {
	return f.site.ID
}

func (f *BrowserFetcher) Fetch(ctx context.Context, targetCount int) (*FetchResult, error) {
	res := &FetchResult{}
	scrapeDate := time.Now()

	pw, err := playwright.Run()
	if err != nil {
		res.Stop = models.StopError
		return res, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		res.Stop = models.StopError
		return res, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		res.Stop = models.StopError
		return res, fmt.Errorf("open page: %w", err)
	}

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			res.Stop = models.StopError
			return res, err
		}

		pageURL := f.site.PageURL(f.city, pageNum)
		resp, err := page.Goto(pageURL, playwright.PageGotoOptions{
			Timeout:   playwright.Float(60000),
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		if err != nil {
			log.Printf("fetch: %s page %d: %v", f.site.ID, pageNum, err)
			res.Stop = models.StopError
			return res, err
		}
		res.Pages++

		if resp != nil && resp.Status() == http.StatusForbidden {
			log.Printf("fetch: %s blocked (403) at page %d", f.site.ID, pageNum)
			res.Stop = models.StopBlocked
			return res, nil
		}

		html, err := page.Content()
		if err != nil {
			res.Stop = models.StopError
			return res, fmt.Errorf("read page content: %w", err)
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			res.Stop = models.StopError
			return res, fmt.Errorf("parse page: %w", err)
		}

		if f.extractor.CardCount(doc) == 0 {
			log.Printf("fetch: %s exhausted at page %d", f.site.ID, pageNum)
			res.Stop = models.StopExhausted
			return res, nil
		}

		for _, l := range f.extractor.Page(doc, scrapeDate) {
			res.Listings = append(res.Listings, l)
			if len(res.Listings) >= targetCount {
				res.Stop = models.StopTargetReached
				return res, nil
			}
		}

		log.Printf("fetch: %s page %d: %d collected so far", f.site.ID, pageNum, len(res.Listings))

		span := f.site.DelayMaxSec - f.site.DelayMinSec
		delay := f.site.DelayMinSec * 1000
		if span > 0 {
			delay += f.rng.Intn(span * 1000)
		}
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}
}
