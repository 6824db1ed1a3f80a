package cpp

import "strings"

// ReadCompleteLine pulls one logical line from src (backslash-newline
// already spliced by the LineSource) and tokenizes it in full, per §4.A/B.
// It does not decide what to do with the line — that is handleDirective's
// or the expander's job — it only turns source text into a TokenList plus
// whether the line is directive-led.
func ReadCompleteLine(src LineSource) (line *TokenList, isDirective bool, ok bool) {
	text, lineNo, have := src.NextLine()
	if !have {
		return nil, false, false
	}
	lb := NewLineBuffer(src.Name(), lineNo, text)
	tl := newTokenList()
	for {
		tok := lb.Tokenize()
		if tok.Kind == END {
			break
		}
		tl.Append(tok)
	}
	// A `#` starting a line is a directive regardless of how much
	// whitespace precedes it, matching the teacher's plain beginning-of-line
	// flag (cpp/lex.go) rather than imposing some indentation cutoff.
	isDirective = tl.Len() > 0 && tl.Get(0).Kind == HASH
	return tl, isDirective, true
}

// RefillExpandingLine pulls one more logical line from src and appends its
// tokens to line, used when a function-like macro invocation's argument
// list is still unbalanced at end of line (§4.D's needMore case). It
// returns false once src itself is exhausted, leaving the invocation
// genuinely unbalanced — the caller turns that into a fatal error.
func RefillExpandingLine(src LineSource, line *TokenList) bool {
	text, lineNo, ok := src.NextLine()
	if !ok {
		return false
	}
	lb := NewLineBuffer(src.Name(), lineNo, text)
	for {
		tok := lb.Tokenize()
		if tok.Kind == END {
			break
		}
		line.Append(tok)
	}
	return true
}

// spellRawLine reconstructs the approximate original spelling of a line of
// tokens, padding every token after the first with its LeadingWhitespace.
// Nothing in the package calls it at present; the #error/#warning
// diagnostics use directive.go's spellLine instead.
func spellRawLine(tl *TokenList) string {
	var b strings.Builder
	for i, t := range tl.All() {
		if i > 0 {
			for j := 0; j < t.LeadingWhitespace; j++ {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
