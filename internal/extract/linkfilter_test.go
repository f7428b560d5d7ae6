package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const cardHTML = `
<div class="card">
  <a href="/jobs/1" class="job"><span class="title">백엔드 개발자</span></a>
  <a href="/company/acme" class="logo" data-kind="logo"><img src="acme.png"></a>
  <a href="/jobs/1" class="job"><span class="name">에이크미</span></a>
</div>`

func TestFilterLinksBareSelector(t *testing.T) {
	doc := parseHTML(t, cardHTML)
	card := doc.Find("div.card")

	links := FilterLinks(card, LinkFilterRule{Selector: "a.job"})
	require.Equal(t, 2, links.Length())
	// document order preserved
	require.Equal(t, "백엔드 개발자", links.Eq(0).Text())
	require.Equal(t, "에이크미", links.Eq(1).Text())
}

func TestFilterLinksDefaultsToAnchors(t *testing.T) {
	doc := parseHTML(t, cardHTML)
	links := FilterLinks(doc.Find("div.card"), LinkFilterRule{})
	require.Equal(t, 3, links.Length())
}

func TestFilterLinksConditionsAreANDed(t *testing.T) {
	doc := parseHTML(t, cardHTML)
	card := doc.Find("div.card")

	rule := LinkFilterRule{
		Selector: "a",
		Conditions: []Condition{
			{Name: "has_child", Arg: Arg{Bare: "span"}},
			{Name: "not_has_attribute", Arg: Arg{Bare: "data-kind"}},
		},
	}
	links := FilterLinks(card, rule)
	require.Equal(t, 2, links.Length())
}

func TestFilterLinksConflictingConditionsYieldEmpty(t *testing.T) {
	doc := parseHTML(t, cardHTML)
	card := doc.Find("div.card")

	rule := LinkFilterRule{
		Selector: "a",
		Conditions: []Condition{
			{Name: "has_attribute", Arg: Arg{Name: "data-kind", Value: "logo", HasValue: true}},
			{Name: "not_has_attribute", Arg: Arg{Name: "data-kind", Value: "logo", HasValue: true}},
		},
	}
	require.Zero(t, FilterLinks(card, rule).Length())
}

func TestFilterLinksEmptyIsNotAnError(t *testing.T) {
	doc := parseHTML(t, `<div class="card"><p>no links here</p></div>`)
	require.Zero(t, FilterLinks(doc.Find("div.card"), LinkFilterRule{Selector: "a"}).Length())
}

func TestFilterLinksMalformedBaseSelector(t *testing.T) {
	doc := parseHTML(t, cardHTML)
	require.Zero(t, FilterLinks(doc.Find("div.card"), LinkFilterRule{Selector: "a[["}).Length())
}

func TestLinkFilterRuleUnmarshalYAML(t *testing.T) {
	var simple LinkFilterRule
	require.NoError(t, yaml.Unmarshal([]byte(`"a.job-link"`), &simple))
	require.Equal(t, "a.job-link", simple.Selector)
	require.Empty(t, simple.Conditions)

	var full LinkFilterRule
	src := `
selector: "a"
has_child: 'span[data-sentry-element="Typography"]'
not_has_attribute:
  name: data-sentry-component
  value: CompanyLogo
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &full))
	require.Equal(t, "a", full.Selector)
	require.Len(t, full.Conditions, 2)
	require.Equal(t, "has_child", full.Conditions[0].Name)
	require.Equal(t, "not_has_attribute", full.Conditions[1].Name)
	require.Equal(t, "CompanyLogo", full.Conditions[1].Arg.Value)

	require.True(t, LinkFilterRule{}.IsZero())
	require.False(t, simple.IsZero())
}
