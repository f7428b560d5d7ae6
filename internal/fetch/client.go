// Package fetch turns URLs into parsed documents. Two fetchers share one
// per-host rate limiter: a plain HTTP client and a headless browser for
// boards that only render their listings client side.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Client struct {
	hc      *http.Client
	ua      string
	limiter *HostLimiter
}

func NewClient(ua string, timeout time.Duration, limiter *HostLimiter) *Client {
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		ua:      ua,
		limiter: limiter,
	}
}

// Get fetches one page and parses it. The limiter wait happens before the
// request so concurrent sources hitting the same host stay polite.
func (c *Client) Get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.5")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("get %s: status %d", rawURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}
