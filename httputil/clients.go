package httputil

import (
	"net/http"
	"net/url"
	"time"
)

type Clients struct {
	Scraping *http.Client // target sites, optionally proxied
	Direct   *http.Client // artifact sinks and other first-party calls
}

// NewClients builds the two HTTP clients. timeout applies to the scraping
// client; an empty proxyURL leaves it on the default transport.
func NewClients(proxyURL string, timeout time.Duration) *Clients {
	transport := http.DefaultTransport
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}

	return &Clients{
		Scraping: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Direct: &http.Client{Timeout: 30 * time.Second},
	}
}
