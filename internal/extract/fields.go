package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FieldRule resolves one record field from the filtered candidate list: pick
// the candidate at LinkIndex, then refine it by descendant selector and class
// pattern. ClassPattern is a substring check against the class attribute, not
// an exact token match — markup tools append volatile suffixes to class names
// and the stable semantic fragment is all a configuration can rely on.
type FieldRule struct {
	LinkIndex          int    `yaml:"link_index"`
	DescendantSelector string `yaml:"descendant_selector"`
	ClassPattern       string `yaml:"class_pattern"`
	MaxLength          int    `yaml:"max_length"`
}

// ExtractField resolves a field's text from the filtered candidates. The bool
// reports presence; every failure mode (index out of range, malformed
// selector, ambiguous pattern miss, empty text) collapses to absent.
func ExtractField(candidates *goquery.Selection, rule FieldRule) (string, bool) {
	if rule.LinkIndex < 0 || rule.LinkIndex >= candidates.Length() {
		return "", false
	}
	node := fieldNode(candidates.Eq(rule.LinkIndex), rule)
	if node == nil {
		return "", false
	}
	text := strings.TrimSpace(nodeText(node))
	if text == "" {
		return "", false
	}
	if rule.MaxLength > 0 {
		if r := []rune(text); len(r) > rule.MaxLength {
			text = string(r[:rule.MaxLength])
		}
	}
	return text, true
}

// fieldNode picks the node whose text becomes the field value.
func fieldNode(link *goquery.Selection, rule FieldRule) *goquery.Selection {
	sel := strings.TrimSpace(rule.DescendantSelector)
	if sel == "" {
		return link
	}
	m, ok := compile(sel)
	if !ok {
		return nil
	}
	matches := link.FindMatcher(m)
	if matches.Length() == 0 {
		// no wrapper element under this candidate; the candidate's own text is the field
		return link
	}
	if rule.ClassPattern == "" {
		return matches.First()
	}
	var hit *goquery.Selection
	matches.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if class, _ := s.Attr("class"); strings.Contains(class, rule.ClassPattern) {
			hit = s
			return false
		}
		return true
	})
	if hit != nil {
		return hit
	}
	// pattern missed: fall back only when the selector alone was unambiguous
	if matches.Length() == 1 {
		return matches.First()
	}
	return nil
}

// LinkHref returns the href of the candidate at index, or absent.
func LinkHref(candidates *goquery.Selection, index int) (string, bool) {
	if index < 0 || index >= candidates.Length() {
		return "", false
	}
	href, ok := candidates.Eq(index).Attr("href")
	href = strings.TrimSpace(href)
	return href, ok && href != ""
}
