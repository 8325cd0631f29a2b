package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"estatewatch/models"
)

func cardHTML(page, i int) string {
	return fmt.Sprintf(`<div class="mb-srp__card">
  <h2 class="mb-srp__card--title">2 BHK Flat for Sale in Besa, Nagpur</h2>
  <a class="mb-srp__card__link" href="/propertydetail/flat-p%d-i%d"></a>
  <span class="mb-srp__card--location">Besa, Nagpur</span>
  <div class="mb-srp__card__price--amount">&#8377;45 Lac</div>
  <div class="mb-srp__card__summary--value">1,000 sqft</div>
  <div class="mb-srp__card__price--size">&#8377;4,500 per sqft</div>
</div>`, page, i)
}

// pageServer serves cardsPerPage[page-1] cards per page and an empty
// result list once the slice runs out.
func pageServer(cardsPerPage []int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search") {
			fmt.Fprint(w, "<html><body>home</body></html>")
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var b strings.Builder
		b.WriteString("<html><body>")
		if page >= 1 && page <= len(cardsPerPage) {
			for i := 0; i < cardsPerPage[page-1]; i++ {
				b.WriteString(cardHTML(page, i))
			}
		}
		b.WriteString("</body></html>")
		fmt.Fprint(w, b.String())
	}))
}

func fetcherFor(srv *httptest.Server) *HTTPFetcher {
	site := testSite()
	site.BaseURL = srv.URL
	site.SearchURL = srv.URL + "/search?city=%s&page=%d"
	site.DelayMinSec = 1
	site.DelayMaxSec = 1

	f := NewHTTPFetcher(site, "Nagpur", srv.Client())
	f.sleep = func(time.Duration) {}
	return f
}

func TestHTTPFetcherTargetReached(t *testing.T) {
	srv := pageServer([]int{2, 2, 2})
	defer srv.Close()

	res, err := fetcherFor(srv).Fetch(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stop != models.StopTargetReached {
		t.Errorf("stop = %q, want %q", res.Stop, models.StopTargetReached)
	}
	if len(res.Listings) != 3 {
		t.Errorf("got %d listings, want 3", len(res.Listings))
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2", res.Pages)
	}

	seen := make(map[string]struct{})
	for _, l := range res.Listings {
		if _, dup := seen[l.ListingURL]; dup {
			t.Errorf("duplicate url %q", l.ListingURL)
		}
		seen[l.ListingURL] = struct{}{}
		if !strings.HasPrefix(l.ListingURL, srv.URL) {
			t.Errorf("relative url not absolutized: %q", l.ListingURL)
		}
	}
}

func TestHTTPFetcherExhausted(t *testing.T) {
	srv := pageServer([]int{2})
	defer srv.Close()

	res, err := fetcherFor(srv).Fetch(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stop != models.StopExhausted {
		t.Errorf("stop = %q, want %q", res.Stop, models.StopExhausted)
	}
	if len(res.Listings) != 2 {
		t.Errorf("got %d listings, want 2", len(res.Listings))
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2", res.Pages)
	}
}

func TestHTTPFetcherBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, "<html><body>home</body></html>")
	}))
	defer srv.Close()

	res, err := fetcherFor(srv).Fetch(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stop != models.StopBlocked {
		t.Errorf("stop = %q, want %q", res.Stop, models.StopBlocked)
	}
	if len(res.Listings) != 0 {
		t.Errorf("got %d listings, want 0", len(res.Listings))
	}
}

func TestHTTPFetcherCancelled(t *testing.T) {
	srv := pageServer([]int{2, 2})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := fetcherFor(srv).Fetch(ctx, 100)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res == nil {
		t.Fatal("result must be non-nil even on error")
	}
	if res.Stop != models.StopError {
		t.Errorf("stop = %q, want %q", res.Stop, models.StopError)
	}
}
