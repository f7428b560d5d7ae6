package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Arg is one filter-condition argument. In YAML it is either a bare scalar
// ("span.title", "data-qa") or a {name, value} mapping for attribute checks.
type Arg struct {
	Bare     string
	Name     string
	Value    string
	HasValue bool
}

func (a *Arg) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&a.Bare)
	case yaml.MappingNode:
		var aux struct {
			Name  string  `yaml:"name"`
			Value *string `yaml:"value"`
		}
		if err := n.Decode(&aux); err != nil {
			return err
		}
		a.Name = aux.Name
		if aux.Value != nil {
			a.Value = *aux.Value
			a.HasValue = true
		}
		return nil
	}
	return fmt.Errorf("filter condition: expected scalar or mapping, got %v", n.Kind)
}

// attr normalizes the two argument forms for attribute conditions.
func (a Arg) attr() (name, value string, hasValue bool) {
	if a.Name != "" {
		return a.Name, a.Value, a.HasValue
	}
	return a.Bare, "", false
}

// Evaluator checks one condition against one node.
type Evaluator func(node *goquery.Selection, arg Arg) bool

// evaluators is the closed set of condition names. New conditions register
// here; site configurations refer to them by name.
var evaluators = map[string]Evaluator{
	"has_child":         hasChild,
	"not_has_child":     notHasChild,
	"has_attribute":     hasAttribute,
	"not_has_attribute": notHasAttribute,
	"has_text":          hasText,
	"not_has_text":      notHasText,
}

// Evaluate runs one named condition against a node. Unknown condition names
// and selectors that do not compile both evaluate to false, so a single bad
// rule never aborts an extraction pass.
func Evaluate(node *goquery.Selection, name string, arg Arg) bool {
	eval, ok := evaluators[name]
	if !ok {
		return false
	}
	return eval(node, arg)
}

func hasChild(node *goquery.Selection, arg Arg) bool {
	m, ok := compile(arg.Bare)
	if !ok {
		return false
	}
	return node.FindMatcher(m).Length() > 0
}

func notHasChild(node *goquery.Selection, arg Arg) bool {
	m, ok := compile(arg.Bare)
	if !ok {
		return false
	}
	return node.FindMatcher(m).Length() == 0
}

func hasAttribute(node *goquery.Selection, arg Arg) bool {
	name, value, hasValue := arg.attr()
	if name == "" {
		return false
	}
	got, exists := node.Attr(name)
	if !exists {
		return false
	}
	if hasValue {
		return got == value
	}
	return true
}

// notHasAttribute holds when the attribute is absent, or present with a
// different value than the one specified.
func notHasAttribute(node *goquery.Selection, arg Arg) bool {
	name, value, hasValue := arg.attr()
	if name == "" {
		return false
	}
	got, exists := node.Attr(name)
	if !exists {
		return true
	}
	if hasValue {
		return got != value
	}
	return false
}

func hasText(node *goquery.Selection, arg Arg) bool {
	return arg.Bare != "" && strings.Contains(nodeText(node), arg.Bare)
}

func notHasText(node *goquery.Selection, arg Arg) bool {
	return !strings.Contains(nodeText(node), arg.Bare)
}

// compile parses a selector, reporting failure instead of panicking. An empty
// or malformed selector is a failed condition, not an error.
func compile(selector string) (goquery.Matcher, bool) {
	if strings.TrimSpace(selector) == "" {
		return nil, false
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, false
	}
	return m, true
}

// nodeText concatenates the visible text of a selection with each text node
// trimmed, the form the extraction rules compare against.
func nodeText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
