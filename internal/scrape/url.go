package scrape

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// canonicalizeURL normalizes a job link for dedup: lowercase scheme/host, no
// fragment, no tracking params, deterministic query order.
func canonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// resolveLink makes an extracted href absolute against the page it came
// from. Unparseable inputs pass through untouched.
func resolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Host == "" {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}

// buildSearchURL expands the {keyword} placeholder with a query-escaped
// keyword.
func buildSearchURL(template, keyword string) string {
	return strings.ReplaceAll(template, "{keyword}", url.QueryEscape(keyword))
}

// pageURL appends a page-number query parameter, respecting whether the
// search URL already carries a query string.
func pageURL(searchURL, param string, page int) string {
	u, err := url.Parse(searchURL)
	if err != nil {
		return searchURL
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
