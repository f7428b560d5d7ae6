package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

// LinkFilterRule selects the candidate anchors inside one listing container.
// In YAML it is either a bare selector string (the backward-compatible simple
// form) or a mapping with a selector plus named conditions. Conditions are
// ANDed; a missing condition leaves that aspect unconstrained.
type LinkFilterRule struct {
	Selector   string
	Conditions []Condition
}

// Condition is one named filter condition with its argument.
type Condition struct {
	Name string
	Arg  Arg
}

func (r *LinkFilterRule) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&r.Selector)
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if key == "selector" {
				if err := n.Content[i+1].Decode(&r.Selector); err != nil {
					return err
				}
				continue
			}
			var arg Arg
			if err := n.Content[i+1].Decode(&arg); err != nil {
				return fmt.Errorf("link_filter condition %q: %w", key, err)
			}
			r.Conditions = append(r.Conditions, Condition{Name: key, Arg: arg})
		}
		return nil
	}
	return fmt.Errorf("link_filter: expected string or mapping, got %v", n.Kind)
}

func (r LinkFilterRule) IsZero() bool {
	return r.Selector == "" && len(r.Conditions) == 0
}

// FilterLinks applies the rule's base selector and then every condition to
// each hit, preserving document order. An empty result means "field
// unavailable" and is never an error.
func FilterLinks(container *goquery.Selection, rule LinkFilterRule) *goquery.Selection {
	base := strings.TrimSpace(rule.Selector)
	if base == "" {
		base = "a"
	}
	m, ok := compile(base)
	if !ok {
		return container.Slice(0, 0)
	}
	links := container.FindMatcher(m)
	if len(rule.Conditions) == 0 {
		return links
	}
	return links.FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, c := range rule.Conditions {
			if !Evaluate(s, c.Name, c.Arg) {
				return false
			}
		}
		return true
	})
}
