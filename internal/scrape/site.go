package scrape

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"recruitwatch/internal/config"
	"recruitwatch/internal/domain"
	"recruitwatch/internal/extract"
	"recruitwatch/internal/fetch"
)

// SiteSource scrapes one job board for every configured keyword. The board
// is pure configuration: URL template, pagination and selectors.
type SiteSource struct {
	site     config.Site
	keywords []string
	client   *fetch.Client
	browser  *fetch.Browser
	scroll   int
	log      *zap.Logger
}

func NewSiteSource(site config.Site, keywords []string, client *fetch.Client, browser *fetch.Browser, scrollRounds int, log *zap.Logger) *SiteSource {
	return &SiteSource{
		site:     site,
		keywords: keywords,
		client:   client,
		browser:  browser,
		scroll:   scrollRounds,
		log:      log.With(zap.String("site", site.Name)),
	}
}

func (s *SiteSource) Name() string { return s.site.Name }

// Fetch is best effort: a failed page is logged and the remaining keywords
// still run. It errors only when nothing could be fetched at all.
func (s *SiteSource) Fetch(ctx context.Context) ([]domain.JobRecord, error) {
	var out []domain.JobRecord
	seen := map[string]bool{}
	var failures, pagesOK int

	for _, kw := range s.keywords {
		searchURL := buildSearchURL(s.site.URLTemplate, kw)

		maxPages := 1
		if s.site.Pagination.Type == "param" {
			maxPages = s.site.Pagination.MaxPages
		}

		for page := 1; page <= maxPages; page++ {
			pageAddr := searchURL
			if page > 1 {
				pageAddr = pageURL(searchURL, s.site.Pagination.Param, page)
			}

			doc, err := s.fetchDoc(ctx, pageAddr)
			if err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
				failures++
				s.log.Warn("page fetch failed", zap.String("url", pageAddr), zap.Error(err))
				break
			}
			pagesOK++

			n := s.collect(doc, pageAddr, seen, &out)
			if n == 0 {
				// empty page ends pagination for this keyword
				break
			}
		}
	}

	if pagesOK == 0 && failures > 0 {
		return nil, fmt.Errorf("site %s: all %d page fetches failed", s.site.Name, failures)
	}
	return out, nil
}

func (s *SiteSource) fetchDoc(ctx context.Context, addr string) (*goquery.Document, error) {
	if s.site.Method == "browser" {
		rounds := 0
		if s.site.Pagination.Type == "infinite_scroll" {
			rounds = s.scroll
		}
		return s.browser.Get(ctx, addr, rounds)
	}
	return s.client.Get(ctx, addr)
}

// collect extracts every container on one page, resolving links against the
// site base URL (or the page URL when no base is configured) and deduping by
// canonical link within this source.
func (s *SiteSource) collect(doc *goquery.Document, pageAddr string, seen map[string]bool, out *[]domain.JobRecord) int {
	base := s.site.BaseURL
	if base == "" {
		base = pageAddr
	}

	found := 0
	doc.Find(s.site.Selectors.JobList).Each(func(_ int, container *goquery.Selection) {
		rec, ok := extract.ExtractRecord(container, &s.site.Selectors, s.site.Name)
		if !ok {
			return
		}
		found++

		rec.Link = canonicalizeURL(resolveLink(base, rec.Link))
		if seen[rec.Link] {
			return
		}
		seen[rec.Link] = true
		*out = append(*out, rec)
	})
	return found
}
