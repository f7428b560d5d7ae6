// Package extract turns a declarative site configuration — filter predicates
// plus positional field rules — into job records pulled from parsed HTML.
// Everything here is a pure function over the document; per-item failures
// surface as absent records, never as errors.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recruitwatch/internal/domain"
)

// Strategy selects how fields are resolved for a site.
type Strategy string

const (
	StrategySimple     Strategy = "simple"
	StrategyStructured Strategy = "structured"
)

// Selectors is the per-site extraction configuration, loaded from YAML and
// read-only from then on. The simple strategy reads the direct field
// selectors; the structured strategy reads the Extraction block.
type Selectors struct {
	JobList string `yaml:"job_list"`
	Title   string `yaml:"title"`
	Company string `yaml:"company"`
	Link    string `yaml:"link"`
	Detail  string `yaml:"detail"`

	Extraction Extraction `yaml:"extraction"`
}

// Extraction is the structured-strategy block: one link filter shared by all
// fields, plus a positional rule per field.
type Extraction struct {
	Strategy   Strategy       `yaml:"strategy"`
	LinkFilter LinkFilterRule `yaml:"link_filter"`
	Title      *FieldRule     `yaml:"title"`
	Company    *FieldRule     `yaml:"company"`
}

// Validate reports structural configuration problems that make extraction
// impossible for the whole site. Per-item trouble is not a config error.
func (s *Selectors) Validate() error {
	if strings.TrimSpace(s.JobList) == "" {
		return fmt.Errorf("job_list selector is required")
	}
	switch s.Extraction.Strategy {
	case "", StrategySimple:
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("title selector is required for simple extraction")
		}
	case StrategyStructured:
		if s.Extraction.LinkFilter.IsZero() {
			return fmt.Errorf("structured extraction requires a link_filter")
		}
	default:
		return fmt.Errorf("unknown extraction strategy %q", s.Extraction.Strategy)
	}
	return nil
}

// ExtractRecord pulls one record out of a listing container. The bool is
// false when the container does not yield a valid record (no title or no
// link); callers skip it and move to the next container.
func ExtractRecord(container *goquery.Selection, sel *Selectors, source string) (domain.JobRecord, bool) {
	if sel.Extraction.Strategy == StrategyStructured {
		return extractStructured(container, sel, source)
	}
	return extractSimple(container, sel, source)
}

func extractSimple(container *goquery.Selection, sel *Selectors, source string) (domain.JobRecord, bool) {
	rec := domain.JobRecord{Source: source, Company: "Unknown"}

	if t, ok := selectText(container, sel.Title); ok {
		rec.Title = t
	}
	if c, ok := selectText(container, sel.Company); ok {
		rec.Company = c
	}

	linkSel := sel.Link
	if linkSel == "" {
		linkSel = sel.Title
	}
	if m, ok := compile(linkSel); ok {
		if href, exists := container.FindMatcher(m).First().Attr("href"); exists {
			rec.Link = strings.TrimSpace(href)
		}
	}

	if d, ok := selectText(container, sel.Detail); ok {
		rec.Detail = d
	}

	if !rec.Valid() {
		return domain.JobRecord{}, false
	}
	return rec, true
}

func extractStructured(container *goquery.Selection, sel *Selectors, source string) (domain.JobRecord, bool) {
	// Filter once and reuse: title and company must index into the same
	// candidate list or positional selection would drift between fields.
	candidates := FilterLinks(container, sel.Extraction.LinkFilter)

	titleRule := FieldRule{LinkIndex: 0}
	if sel.Extraction.Title != nil {
		titleRule = *sel.Extraction.Title
	}
	companyRule := FieldRule{LinkIndex: 1}
	if sel.Extraction.Company != nil {
		companyRule = *sel.Extraction.Company
	}

	rec := domain.JobRecord{Source: source, Company: "Unknown"}
	if t, ok := ExtractField(candidates, titleRule); ok {
		rec.Title = t
	}
	if href, ok := LinkHref(candidates, titleRule.LinkIndex); ok {
		rec.Link = href
	}
	if c, ok := ExtractField(candidates, companyRule); ok {
		rec.Company = c
	}
	if d, ok := selectText(container, sel.Detail); ok {
		rec.Detail = d
	}

	if !rec.Valid() {
		return domain.JobRecord{}, false
	}
	return rec, true
}

// selectText resolves a direct selector to the trimmed text of its first hit.
func selectText(container *goquery.Selection, selector string) (string, bool) {
	m, ok := compile(selector)
	if !ok {
		return "", false
	}
	first := container.FindMatcher(m).First()
	if first.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(nodeText(first))
	return text, text != ""
}
