package stylesheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Format normalizes whitespace of hand-written CSS: one declaration per line,
// two-space indentation, blocks braced the same way generated output is.
// Selector text and declaration values pass through byte for byte, nothing is
// interpreted or validated. When the input cannot be tokenized the original
// data is returned unchanged together with a warning.
func Format(data []byte) ([]byte, []string) {
	var (
		warnings []string
		out      bytes.Buffer
		indent   int
	)

	writeIndent := func() {
		for range indent {
			out.WriteString("  ")
		}
	}

	input := parse.NewInput(bytes.NewReader(data))
	p := css.NewParser(input, false)

	for {
		gt, _, tok := p.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && err != io.EOF {
				warnings = append(warnings, fmt.Sprintf("unable to format css: %v", err))
				return data, warnings
			}
			return out.Bytes(), warnings

		case css.CommentGrammar:
			writeIndent()
			out.Write(tok)
			out.WriteString("\n")

		case css.AtRuleGrammar:
			writeIndent()
			out.Write(tok)
			if vals := joinValueTokens(p.Values()); vals != "" {
				out.WriteString(" ")
				out.WriteString(vals)
			}
			out.WriteString(";\n")

		case css.BeginAtRuleGrammar:
			writeIndent()
			out.Write(tok)
			if vals := joinValueTokens(p.Values()); vals != "" {
				out.WriteString(" ")
				out.WriteString(vals)
			}
			out.WriteString(" {\n")
			indent++

		case css.EndAtRuleGrammar:
			if indent > 0 {
				indent--
			}
			writeIndent()
			out.WriteString("}\n")

		case css.QualifiedRuleGrammar:
			// One selector of a comma-separated group, the last one arrives
			// as BeginRulesetGrammar.
			writeIndent()
			out.WriteString(selectorText(tok, p.Values()))
			out.WriteString(",\n")

		case css.BeginRulesetGrammar:
			writeIndent()
			out.WriteString(selectorText(tok, p.Values()))
			out.WriteString(" {\n")
			indent++

		case css.EndRulesetGrammar:
			if indent > 0 {
				indent--
			}
			writeIndent()
			out.WriteString("}\n")

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			writeIndent()
			out.Write(tok)
			out.WriteString(": ")
			out.WriteString(joinValueTokens(p.Values()))
			out.WriteString(";\n")

		case css.TokenGrammar:
			// Stray token outside any structure, keep as-is.
			out.Write(tok)
		}
	}
}

// ExtractURLs returns url() targets and @import targets found in CSS text, in
// order of appearance with duplicates removed. Scanning is token-level only.
func ExtractURLs(data []byte) []string {
	var (
		urls      []string
		seen      = make(map[string]bool)
		inImport  bool
		inURLFunc bool
	)

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))
	for {
		tt, text := l.Next()
		switch tt {
		case css.ErrorToken:
			return urls
		case css.AtKeywordToken:
			inImport = strings.EqualFold(string(text), "@import")
		case css.URLToken:
			// Unquoted form, the lexer hands over the whole url(...) token.
			add(unquoteURL(string(text)))
			inImport = false
		case css.FunctionToken:
			// Quoted form tokenizes as url( function + string + ).
			inURLFunc = strings.EqualFold(string(text), "url(")
		case css.StringToken:
			if inImport || inURLFunc {
				add(unquote(string(text)))
				inImport = false
			}
		case css.RightParenthesisToken:
			inURLFunc = false
		case css.SemicolonToken, css.LeftBraceToken:
			inImport = false
		}
	}
}

// selectorText renders selector tokens verbatim, collapsing whitespace runs
// to single spaces.
func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		if v.TokenType == css.WhitespaceToken {
			sb.WriteString(" ")
		} else {
			sb.Write(v.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// joinValueTokens builds a declaration value string from tokens, collapsing
// whitespace runs to single spaces.
func joinValueTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// unquoteURL extracts the target from a url(...) token.
func unquoteURL(s string) string {
	s = strings.TrimPrefix(s, "url(")
	s = strings.TrimSuffix(s, ")")
	return unquote(strings.TrimSpace(s))
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
