package selector

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Targeted whitespace cleanup applied after token reassembly: no spaces
// around brackets, equals signs, or the explicit combinators.
var (
	reBracketOpen  = regexp.MustCompile(`\s*\[\s*`)
	reBracketClose = regexp.MustCompile(`\s*\]\s*`)
	reEquals       = regexp.MustCompile(`\s*=\s*`)
	reCombinator   = regexp.MustCompile(`\s*([>+~,])\s*`)
)

// Normalize reduces a raw selector to its canonical form: whitespace
// collapsed, attribute values unquoted, combinator spacing removed, with a
// single space kept only where it acts as a descendant combinator. Input
// starting with a slash is treated as XPath and only has its bracket spacing
// reformatted. Normalize never fails; malformed input degrades to a
// best-effort canonical string and validity is judged later by Classify.
// Idempotent for CSS and single-predicate XPath; multi-predicate XPath gains
// a bracket per pass (see the bracket-rejoin quirk in normalizeXPath's test).
func Normalize(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return ""
	}
	if strings.HasPrefix(collapsed, "/") {
		return normalizeXPath(collapsed)
	}
	return normalizeCSS(collapsed)
}

// normalizeXPath reformats predicate brackets so each predicate sits flush
// against its brackets. It does not validate the XPath grammar.
func normalizeXPath(sel string) string {
	segs := strings.Split(sel, "[")
	if len(segs) < 2 {
		return strings.TrimSpace(sel)
	}
	preds := make([]string, 0, len(segs)-1)
	for _, seg := range segs[1:] {
		preds = append(preds, strings.TrimSpace(seg))
	}
	return strings.TrimSpace(segs[0]) + "[" + strings.Join(preds, "][")
}

// normalizeCSS retokenizes the selector and reassembles it without
// whitespace, except for a single space between two word-like tokens, which
// is the descendant combinator ("div span"). Quoted attribute values lose
// their quotes.
func normalizeCSS(sel string) string {
	lexer := css.NewLexer(parse.NewInputString(sel))

	var b strings.Builder
	var prev css.TokenType
	var prevData []byte
	havePrev := false
	sawSpace := false

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			// EOF or lex error; either way we emit what we have.
			break
		}
		if tt == css.WhitespaceToken {
			sawSpace = true
			continue
		}

		if havePrev && sawSpace && endsWord(prev, prevData) && beginsWord(tt, data) {
			b.WriteByte(' ')
		}
		sawSpace = false

		if tt == css.StringToken {
			b.WriteString(unquote(string(data)))
		} else {
			// Hash tokens already carry their '#', idents/numbers/dimensions
			// are literal, everything else serializes as its raw text.
			b.Write(data)
		}

		prev = tt
		prevData = data
		havePrev = true
	}

	out := b.String()
	out = reBracketOpen.ReplaceAllString(out, "[")
	out = reBracketClose.ReplaceAllString(out, "]")
	out = reEquals.ReplaceAllString(out, "=")
	out = reCombinator.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// endsWord and beginsWord together decide whether whitespace between two
// tokens is a descendant combinator that must survive as a single space.
// The lexer splits ".cls" into a '.' delimiter plus an ident, so the class
// and universal delimiters count as word starts.

func endsWord(tt css.TokenType, data []byte) bool {
	switch tt {
	case css.IdentToken, css.HashToken, css.DimensionToken, css.NumberToken,
		css.StringToken, css.RightBracketToken, css.RightParenthesisToken:
		return true
	case css.DelimToken:
		return len(data) == 1 && data[0] == '*'
	}
	return false
}

func beginsWord(tt css.TokenType, data []byte) bool {
	switch tt {
	case css.IdentToken, css.HashToken, css.DimensionToken, css.NumberToken,
		css.StringToken, css.LeftBracketToken, css.ColonToken:
		return true
	case css.DelimToken:
		return len(data) == 1 && (data[0] == '.' || data[0] == '*')
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
