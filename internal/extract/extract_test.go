package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const listingHTML = `
<ul>
  <li class="item">
    <h2 class="job-title"><a href="/recruit/1">백엔드 개발자</a></h2>
    <div class="corp">에이크미</div>
    <p class="summary">Python 백엔드 서버 개발</p>
  </li>
  <li class="item">
    <h2 class="job-title"><a href="/recruit/2">데이터 엔지니어</a></h2>
    <div class="corp">브라보텍</div>
    <p class="summary">Spark 데이터 파이프라인</p>
  </li>
  <li class="item">
    <div class="corp">타이틀 없는 회사</div>
  </li>
</ul>`

func simpleSelectors() *Selectors {
	return &Selectors{
		JobList: "li.item",
		Title:   "h2.job-title a",
		Company: "div.corp",
		Detail:  "p.summary",
	}
}

func TestExtractRecordSimple(t *testing.T) {
	doc := parseHTML(t, listingHTML)
	sel := simpleSelectors()

	items := doc.Find(sel.JobList)
	require.Equal(t, 3, items.Length())

	rec, ok := ExtractRecord(items.Eq(0), sel, "acme-board")
	require.True(t, ok)
	require.Equal(t, "백엔드 개발자", rec.Title)
	require.Equal(t, "에이크미", rec.Company)
	require.Equal(t, "/recruit/1", rec.Link)
	require.Equal(t, "Python 백엔드 서버 개발", rec.Detail)
	require.Equal(t, "acme-board", rec.Source)
}

func TestExtractRecordSimpleDropsMissingTitle(t *testing.T) {
	doc := parseHTML(t, listingHTML)
	sel := simpleSelectors()

	_, ok := ExtractRecord(doc.Find(sel.JobList).Eq(2), sel, "acme-board")
	require.False(t, ok)
}

func TestExtractRecordSimpleCompanyDefaultsToUnknown(t *testing.T) {
	doc := parseHTML(t, `<li class="item"><h2 class="job-title"><a href="/r/1">DevOps</a></h2></li>`)
	sel := simpleSelectors()

	rec, ok := ExtractRecord(doc.Find("li.item"), sel, "s")
	require.True(t, ok)
	require.Equal(t, "Unknown", rec.Company)
}

const structuredCardHTML = `
<div class="JobCard_root__x1f0a">
  <a href="/wd/1001"><span class="JobCard_title__a91xk">백엔드 개발자</span></a>
  <a href="/company/77" data-kind="logo"><img src="logo.png"></a>
  <a href="/wd/1001"><span class="JobCard_company__p3q7z">에이크미</span></a>
</div>`

func structuredSelectors() *Selectors {
	return &Selectors{
		JobList: "div[class*='JobCard_root']",
		Extraction: Extraction{
			Strategy: StrategyStructured,
			LinkFilter: LinkFilterRule{
				Selector: "a",
				Conditions: []Condition{
					{Name: "has_child", Arg: Arg{Bare: "span"}},
				},
			},
			Title:   &FieldRule{LinkIndex: 0, DescendantSelector: "span", ClassPattern: "title"},
			Company: &FieldRule{LinkIndex: 1, DescendantSelector: "span", ClassPattern: "company", MaxLength: 50},
		},
	}
}

func TestExtractRecordStructured(t *testing.T) {
	doc := parseHTML(t, structuredCardHTML)
	sel := structuredSelectors()

	rec, ok := ExtractRecord(doc.Find(sel.JobList), sel, "wanted")
	require.True(t, ok)
	require.Equal(t, "백엔드 개발자", rec.Title)
	require.Equal(t, "에이크미", rec.Company)
	require.Equal(t, "/wd/1001", rec.Link)
}

// Filtering happens once per container: indexes count filtered candidates,
// not original document positions.
func TestStructuredIndexesFilteredCandidates(t *testing.T) {
	html := `
<div class="card">
  <a href="/jobs/1"><span class="title">첫번째</span></a>
  <a href="/logo"><img src="x.png"></a>
  <a href="/jobs/2"><span class="title">세번째</span></a>
</div>`
	doc := parseHTML(t, html)
	sel := &Selectors{
		JobList: "div.card",
		Extraction: Extraction{
			Strategy: StrategyStructured,
			LinkFilter: LinkFilterRule{
				Selector:   "a",
				Conditions: []Condition{{Name: "has_child", Arg: Arg{Bare: "span.title"}}},
			},
			Title: &FieldRule{LinkIndex: 0, DescendantSelector: "span"},
		},
	}

	rec, ok := ExtractRecord(doc.Find("div.card"), sel, "s")
	require.True(t, ok)
	require.Equal(t, "첫번째", rec.Title)

	sel.Extraction.Title = &FieldRule{LinkIndex: 1, DescendantSelector: "span"}
	rec, ok = ExtractRecord(doc.Find("div.card"), sel, "s")
	require.True(t, ok)
	require.Equal(t, "세번째", rec.Title)
	require.Equal(t, "/jobs/2", rec.Link)
}

func TestExtractRecordStructuredEmptyCandidates(t *testing.T) {
	doc := parseHTML(t, `<div class="JobCard_root__x1f0a"><p>sold out</p></div>`)
	_, ok := ExtractRecord(doc.Find("div[class*='JobCard_root']"), structuredSelectors(), "wanted")
	require.False(t, ok)
}

func TestExtractRecordDeterministic(t *testing.T) {
	sel := structuredSelectors()
	var prev string
	for i := 0; i < 3; i++ {
		doc := parseHTML(t, structuredCardHTML)
		rec, ok := ExtractRecord(doc.Find(sel.JobList), sel, "wanted")
		require.True(t, ok)
		cur := fmt.Sprintf("%#v", rec)
		if i > 0 {
			require.Equal(t, prev, cur)
		}
		prev = cur
	}
}

func TestSelectorsValidate(t *testing.T) {
	require.NoError(t, simpleSelectors().Validate())
	require.NoError(t, structuredSelectors().Validate())

	missingList := &Selectors{Title: "h2"}
	require.Error(t, missingList.Validate())

	noTitle := &Selectors{JobList: "li"}
	require.Error(t, noTitle.Validate())

	structuredNoFilter := &Selectors{
		JobList:    "li",
		Extraction: Extraction{Strategy: StrategyStructured},
	}
	require.Error(t, structuredNoFilter.Validate())

	unknown := &Selectors{
		JobList:    "li",
		Extraction: Extraction{Strategy: "fancy"},
	}
	require.Error(t, unknown.Validate())
}

func TestSelectorsUnmarshalYAML(t *testing.T) {
	src := `
job_list: "div[class*='JobCard_root']"
detail: "p.summary"
extraction:
  strategy: structured
  link_filter:
    selector: "a"
    has_child: span
    not_has_attribute:
      name: data-kind
      value: logo
  title:
    link_index: 0
    descendant_selector: span
    class_pattern: title
  company:
    link_index: 1
    descendant_selector: span
    class_pattern: company
    max_length: 50
`
	var sel Selectors
	require.NoError(t, yaml.Unmarshal([]byte(src), &sel))
	require.Equal(t, StrategyStructured, sel.Extraction.Strategy)
	require.Len(t, sel.Extraction.LinkFilter.Conditions, 2)
	require.NotNil(t, sel.Extraction.Company)
	require.Equal(t, 50, sel.Extraction.Company.MaxLength)
	require.NoError(t, sel.Validate())
}
