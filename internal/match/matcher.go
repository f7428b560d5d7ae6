// Package match scores job records against a keyword profile. Korean job
// titles vary compound-word spacing ("백엔드 개발자" vs "백엔드개발자"), so every
// comparison also runs against a spacing-stripped form of both sides.
package match

import (
	"sort"
	"strings"
	"unicode"

	"recruitwatch/internal/domain"
)

// titleWeight boosts a match found in the title over one in the detail text.
const titleWeight = 1.5

// minFuzzyRunes keeps very short keywords out of fuzzy comparison; exact
// containment still applies to them.
const minFuzzyRunes = 2

// KeywordSet holds the include and exclude terms for one matching pass. It is
// immutable during the pass; reloads build a new set.
type KeywordSet struct {
	Include []string
	Exclude []string
}

type Matcher struct {
	keywords  KeywordSet
	threshold float64
}

func NewMatcher(keywords KeywordSet, threshold float64) *Matcher {
	return &Matcher{keywords: keywords, threshold: threshold}
}

// Score evaluates one record against the keyword set. Exclusion is absolute:
// an exclude term anywhere in title or detail rejects the record no matter
// how strong the include matches are. The record score is the best single
// keyword score, not a sum.
func (m *Matcher) Score(rec domain.JobRecord) domain.MatchResult {
	res := domain.MatchResult{Record: rec}

	title := strings.ToLower(rec.Title)
	detail := strings.ToLower(rec.Detail)
	titleNorm := stripSpaces(title)
	detailNorm := stripSpaces(detail)

	for _, ex := range m.keywords.Exclude {
		exNorm := stripSpaces(strings.ToLower(ex))
		if exNorm == "" {
			continue
		}
		if strings.Contains(titleNorm, exNorm) || strings.Contains(detailNorm, exNorm) {
			res.Excluded = true
			return res
		}
	}

	for _, kw := range m.keywords.Include {
		kwLower := strings.ToLower(kw)
		kwNorm := stripSpaces(kwLower)
		if kwNorm == "" {
			continue
		}

		score := fieldScore(title, titleNorm, kwLower, kwNorm) * titleWeight
		if d := fieldScore(detail, detailNorm, kwLower, kwNorm); d > score {
			score = d
		}
		if score > 1 {
			score = 1
		}

		if score > res.Score {
			res.Score = score
		}
		if score >= m.threshold {
			res.MatchedKeywords = append(res.MatchedKeywords, kw)
		}
	}

	res.Matched = res.Score >= m.threshold
	return res
}

// FilterRecords keeps the records that matched, best score first. Ordering is
// stable so equal scores keep extraction order.
func (m *Matcher) FilterRecords(recs []domain.JobRecord) []domain.MatchResult {
	var out []domain.MatchResult
	for _, r := range recs {
		if res := m.Score(r); res.Matched {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// fieldScore scores one keyword against one field. Exact spacing-normalized
// containment wins outright; otherwise the best fuzzy ratio across the spaced
// and unspaced forms, gated on keyword length.
func fieldScore(text, textNorm, kw, kwNorm string) float64 {
	if textNorm == "" {
		return 0
	}
	if strings.Contains(textNorm, kwNorm) {
		return 1
	}
	if len([]rune(kwNorm)) < minFuzzyRunes {
		return 0
	}
	s := Ratio(text, kw)
	if n := Ratio(textNorm, kwNorm); n > s {
		s = n
	}
	return s
}

// stripSpaces removes every whitespace rune for spacing-insensitive compares.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
