package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recruitwatch/internal/domain"
)

func rec(title, detail string) domain.JobRecord {
	return domain.JobRecord{
		Title:   title,
		Detail:  detail,
		Company: "Test",
		Link:    "https://example.com/j/1",
		Source:  "test",
	}
}

func TestScoreExactKoreanMatch(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"백엔드 개발자"}}, 0.3)

	res := m.Score(rec("백엔드 개발자 채용", ""))
	require.True(t, res.Matched)
	require.Equal(t, 1.0, res.Score)
	require.Equal(t, []string{"백엔드 개발자"}, res.MatchedKeywords)
}

func TestScoreSpacingInvariant(t *testing.T) {
	spaced := NewMatcher(KeywordSet{Include: []string{"백엔드 개발자"}}, 0.3)
	unspaced := NewMatcher(KeywordSet{Include: []string{"백엔드개발자"}}, 0.3)

	a := spaced.Score(rec("백엔드개발자 채용", ""))
	b := unspaced.Score(rec("백엔드 개발자 채용", ""))

	require.True(t, a.Matched)
	require.True(t, b.Matched)
	require.Equal(t, a.Score, b.Score)
	require.Equal(t, 1.0, a.Score)
}

func TestScoreThresholdScenario(t *testing.T) {
	// exact spacing-normalized hit in the title: 1.0 × 1.5 clamped to 1.0
	m := NewMatcher(KeywordSet{Include: []string{"백엔드개발자"}}, 0.3)
	res := m.Score(rec("백엔드 개발자 채용", ""))
	require.True(t, res.Matched)
	require.Equal(t, 1.0, res.Score)
}

func TestScoreExclusionIsAbsolute(t *testing.T) {
	m := NewMatcher(KeywordSet{
		Include: []string{"Python"},
		Exclude: []string{"인턴"},
	}, 0.3)

	res := m.Score(rec("Python 백엔드 인턴", ""))
	require.True(t, res.Excluded)
	require.False(t, res.Matched)
	require.Zero(t, res.Score)

	// exclusion in detail alone also rejects
	res = m.Score(rec("Python 백엔드", "3개월 인턴 과정"))
	require.True(t, res.Excluded)
	require.False(t, res.Matched)
}

func TestScoreExcludeIsSpacingInsensitive(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"Python"}, Exclude: []string{"인 턴"}}, 0.3)
	res := m.Score(rec("Python 인턴 채용", ""))
	require.True(t, res.Excluded)
}

func TestScoreTitleOutweighsDetail(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"데이터엔지니어링"}}, 0.0)

	// identical fuzzy-strength text, once in title, once in detail
	inTitle := m.Score(rec("데이터엔지니어 채용", ""))
	inDetail := m.Score(rec("채용 공고", "데이터엔지니어 채용"))

	require.Greater(t, inTitle.Score, inDetail.Score)
}

func TestScoreBestKeywordWinsNotSum(t *testing.T) {
	strong := NewMatcher(KeywordSet{Include: []string{"백엔드 개발자"}}, 0.3)
	many := NewMatcher(KeywordSet{Include: []string{"백엔드 개발자", "백엔드", "개발자"}}, 0.3)

	r := rec("백엔드 개발자 채용", "")
	require.Equal(t, strong.Score(r).Score, many.Score(r).Score)
	require.Equal(t, 1.0, many.Score(r).Score)
	require.Len(t, many.Score(r).MatchedKeywords, 3)
}

func TestScoreKeywordInDetailOnly(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"데이터 엔지니어"}}, 0.3)
	res := m.Score(rec("Backend Developer", "데이터 엔지니어 경험 우대"))
	require.True(t, res.Matched)
	require.Equal(t, 1.0, res.Score)
}

func TestScoreShortKeywordNeverFuzzyMatches(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"고"}}, 0.1)

	// single-rune keyword: containment still works
	require.True(t, m.Score(rec("고급 개발자", "")).Matched)
	// but fuzzy comparison is skipped entirely
	require.Zero(t, m.Score(rec("개발자 채용", "")).Score)
}

func TestScoreUnrelatedKeywordStaysLow(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"프론트엔드"}}, 0.3)
	res := m.Score(rec("백엔드 개발자", ""))
	if res.Matched {
		require.Less(t, res.Score, 0.8)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"python"}}, 0.3)
	require.True(t, m.Score(rec("Python Developer", "")).Matched)
}

func TestFilterRecordsSortsByScore(t *testing.T) {
	m := NewMatcher(KeywordSet{Include: []string{"백엔드 개발자"}}, 0.3)

	out := m.FilterRecords([]domain.JobRecord{
		rec("백엔드 비슷한 무언가", ""),
		rec("백엔드 개발자 채용", ""),
		rec("완전히 다른 공고", ""),
	})

	require.NotEmpty(t, out)
	require.Equal(t, "백엔드 개발자 채용", out[0].Record.Title)
	for i := 1; i < len(out); i++ {
		require.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}
