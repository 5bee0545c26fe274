// Package stylesheet models generated CSS documents and renders them
// deterministically.
package stylesheet

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// escapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func escapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// URLValue renders a URL as a CSS url() token with double quoting.
func URLValue(url string) string {
	return fmt.Sprintf("url(\"%s\")", escapeDoubleQuoted(url))
}

// Rule is a single CSS rule: one or more selectors sharing a declaration block.
type Rule struct {
	Selectors  []string          // rendered selector texts, in recipe order
	Properties map[string]string // property name -> raw value
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value
	Src    string // src value (URL or local reference)
	Style  string // font-style: normal, italic
	Weight string // font-weight: normal, bold, 400, 700
}

// Import represents an @import with an optional media condition.
type Import struct {
	URL   string
	Media string
}

// MediaBlock represents a @media block with its raw condition and nested rules.
type MediaBlock struct {
	Condition string
	Rules     []Rule
}

// Item is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, FontFace, Import, or Raw is non-nil.
type Item struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	FontFace   *FontFace
	Import     *Import
	Raw        *string
}

// Stylesheet is an ordered CSS document under construction.
type Stylesheet struct {
	Items    []Item   // all top-level items in output order
	Warnings []string // non-fatal trouble collected while building
}

// AddImport appends an @import item.
func (s *Stylesheet) AddImport(url, media string) {
	s.Items = append(s.Items, Item{Import: &Import{URL: url, Media: media}})
}

// AddFontFace appends an @font-face item.
func (s *Stylesheet) AddFontFace(ff FontFace) {
	s.Items = append(s.Items, Item{FontFace: &ff})
}

// AddRule appends a rule item.
func (s *Stylesheet) AddRule(r Rule) {
	s.Items = append(s.Items, Item{Rule: &r})
}

// AddMediaBlock appends a @media item.
func (s *Stylesheet) AddMediaBlock(mb MediaBlock) {
	s.Items = append(s.Items, Item{MediaBlock: &mb})
}

// AddRaw appends a block of already rendered CSS text. It is written verbatim,
// used for included stylesheets that are carried through as is.
func (s *Stylesheet) AddRaw(text string) {
	s.Items = append(s.Items, Item{Raw: &text})
}

// Warnf records a non-fatal problem for later reporting.
func (s *Stylesheet) Warnf(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Imports returns all @import items in output order.
func (s *Stylesheet) Imports() []Import {
	var imports []Import
	for _, item := range s.Items {
		if item.Import != nil {
			imports = append(imports, *item.Import)
		}
	}
	return imports
}

// FontFaces returns all @font-face declarations in output order.
func (s *Stylesheet) FontFaces() []FontFace {
	var faces []FontFace
	for _, item := range s.Items {
		if item.FontFace != nil {
			faces = append(faces, *item.FontFace)
		}
	}
	return faces
}

// Rules returns all top-level rules in output order, excluding rules nested
// in media blocks.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// urlRewritePattern matches url() references in CSS values for RewriteURLs.
// Handles: url("path"), url('path'), url(path)
var urlRewritePattern = regexp.MustCompile(`url\s*\(\s*(?:["']([^"']*)["']|([^)"]*))\s*\)`)

// WriteTo writes the stylesheet to w in item order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = writeImport(w, item.Import)
		case item.FontFace != nil:
			n, err = writeFontFace(w, item.FontFace)
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule)
		case item.Raw != nil:
			n, err = fmt.Fprint(w, *item.Raw)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeImport writes a single @import line to w.
func writeImport(w io.Writer, imp *Import) (int, error) {
	if imp.Media != "" {
		return fmt.Fprintf(w, "@import url(\"%s\") %s;\n", escapeDoubleQuoted(imp.URL), imp.Media)
	}
	return fmt.Fprintf(w, "@import url(\"%s\");\n", escapeDoubleQuoted(imp.URL))
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", strings.Join(rule.Selectors, ",\n"))
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeProperties(w, rule.Properties, "  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeProperties writes property declarations sorted alphabetically.
func writeProperties(w io.Writer, props map[string]string, indent string) (int, error) {
	// Sort property names for deterministic output
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int
	for _, name := range names {
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, props[name])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeFontFace writes an @font-face block to w.
func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var total int
	n, err := fmt.Fprint(w, "@font-face {\n")
	total += n
	if err != nil {
		return total, err
	}

	// Write properties in a stable order
	if ff.Family != "" {
		n, err = fmt.Fprintf(w, "  font-family: \"%s\";\n", escapeDoubleQuoted(ff.Family))
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Src != "" {
		n, err = fmt.Fprintf(w, "  src: %s;\n", ff.Src)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Style != "" {
		n, err = fmt.Fprintf(w, "  font-style: %s;\n", ff.Style)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Weight != "" {
		n, err = fmt.Fprintf(w, "  font-weight: %s;\n", ff.Weight)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Condition)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		rule := &mb.Rules[i]
		n, err = fmt.Fprintf(w, "  %s {\n", strings.Join(rule.Selectors, ",\n  "))
		total += n
		if err != nil {
			return total, err
		}

		n, err = writeProperties(w, rule.Properties, "    ")
		total += n
		if err != nil {
			return total, err
		}

		n, err = fmt.Fprint(w, "  }\n")
		total += n
		if err != nil {
			return total, err
		}

		// Blank line between rules in a media block (except after last)
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// RewriteURLs walks all URL references in the stylesheet and applies fn to each.
// This covers @import URLs, @font-face src, and url() references in rule properties.
func (s *Stylesheet) RewriteURLs(fn func(originalURL string) string) {
	for i := range s.Items {
		item := &s.Items[i]

		switch {
		case item.Import != nil:
			item.Import.URL = fn(item.Import.URL)

		case item.FontFace != nil:
			item.FontFace.Src = rewriteURLsInValue(item.FontFace.Src, fn)

		case item.Rule != nil:
			rewriteURLsInProperties(item.Rule.Properties, fn)

		case item.MediaBlock != nil:
			for j := range item.MediaBlock.Rules {
				rewriteURLsInProperties(item.MediaBlock.Rules[j].Properties, fn)
			}
		}
	}
}

// rewriteURLsInProperties rewrites url() references in property values.
func rewriteURLsInProperties(props map[string]string, fn func(string) string) {
	for name, val := range props {
		if strings.Contains(val, "url(") {
			props[name] = rewriteURLsInValue(val, fn)
		}
	}
}

// rewriteURLsInValue replaces url() references in a CSS value string.
func rewriteURLsInValue(value string, fn func(string) string) string {
	return urlRewritePattern.ReplaceAllStringFunc(value, func(match string) string {
		sub := urlRewritePattern.FindStringSubmatch(match)
		if len(sub) < 3 {
			return match
		}
		// Group 1 is quoted URL, group 2 is unquoted URL
		originalURL := sub[1]
		if originalURL == "" {
			originalURL = sub[2]
		}
		originalURL = strings.TrimSpace(originalURL)
		newURL := fn(originalURL)
		return fmt.Sprintf("url(\"%s\")", escapeDoubleQuoted(newURL))
	})
}
