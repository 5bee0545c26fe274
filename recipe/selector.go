package recipe

import (
	"errors"

	"cssg/selector"
)

// Empty reports whether the spec names no fragments at all.
func (s SelectorSpec) Empty() bool {
	return s.Element == "" && s.ID == "" && s.PseudoElement == "" &&
		len(s.Classes) == 0 && len(s.Attributes) == 0 && len(s.PseudoClasses) == 0
}

// Build drives a selector builder with the spec's fragments. Fields are fed
// in stage order, so a structurally valid spec never trips the builder's
// ordering rules.
func (s SelectorSpec) Build() *selector.Builder {
	b := new(selector.Builder)
	if s.Element != "" {
		b.Element(s.Element)
	}
	if s.ID != "" {
		b.ID(s.ID)
	}
	for _, c := range s.Classes {
		b.Class(c)
	}
	for _, a := range s.Attributes {
		b.Attribute(a)
	}
	for _, p := range s.PseudoClasses {
		b.PseudoClass(p)
	}
	if s.PseudoElement != "" {
		b.PseudoElement(s.PseudoElement)
	}
	return b
}

// SelectorText renders the rule's full selector, folding the combine chain
// left to right. Every link must name at least one fragment.
func (rs *RuleSpec) SelectorText() (string, error) {
	if rs.Selector.Empty() {
		return "", errors.New("rule selector has no fragments")
	}
	b := rs.Selector.Build()
	for c := rs.Combine; c != nil; c = c.Combine {
		if c.Selector.Empty() {
			return "", errors.New("combined selector has no fragments")
		}
		comb := c.Combinator
		if comb == "" {
			comb = " "
		}
		b = selector.Combine(b, comb, c.Selector.Build())
	}
	return b.Result()
}
