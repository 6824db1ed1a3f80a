package cpp

import (
	"io"
	"strings"
)

// handleDirective dispatches one `#`-led line, per §4.I. Directive lines
// never contribute tokens to the output; everything here either mutates
// the Preprocessor's state (macro table, conditional stack, source stack)
// or raises a diagnostic.
//
// A directive line inside an inactive conditional block is still parsed
// far enough to recognize #if/#ifdef/#ifndef/#elif/#else/#endif (so
// nesting tracks correctly), but everything else is ignored, matching
// in_active_block's role in the original preprocess_directive.
func handleDirective(p *Preprocessor, line *TokenList) {
	toks := line.All()
	if len(toks) < 2 {
		return
	}
	name := toks[1]
	rest := line.Copy()
	rest.Splice(0, 2, nil)

	switch name.Text {
	case "ifdef":
		handleIfdef(p, rest, false)
		return
	case "ifndef":
		handleIfdef(p, rest, true)
		return
	case "if":
		handleIf(p, rest)
		return
	case "elif":
		handleElif(p, rest)
		return
	case "else":
		must(p, toks[0].Pos, p.cond.Else())
		return
	case "endif":
		must(p, toks[0].Pos, p.cond.Endif())
		return
	}

	if !p.cond.InActiveBlock() {
		return
	}

	switch name.Text {
	case "define":
		handleDefine(p, rest)
	case "undef":
		handleUndef(p, rest)
	case "include":
		handleInclude(p, rest, toks[0].Pos)
	case "error":
		fail(toks[0].Pos, UnexpectedToken, "#error %s", spellLine(rest))
	case "warning":
		p.ctx.Warn(toks[0].Pos, "#warning %s", spellLine(rest))
	case "pragma":
		// Accepted and ignored: this core has no target-specific behavior
		// for any pragma to change.
	case "line":
		// Line-number/filename renumbering does not affect any observable
		// behavior of this core beyond diagnostics, so it is accepted and
		// ignored rather than implemented.
	default:
		fail(toks[0].Pos, UnexpectedToken, "unknown directive #%s", name.Text)
	}
}

func must(p *Preprocessor, pos FilePos, err error) {
	if err != nil {
		if fe, ok := err.(*FatalError); ok {
			fe.Pos = pos
			panic(fe)
		}
		panic(&FatalError{Kind: UnexpectedToken, Msg: err.Error(), Pos: pos})
	}
}

func spellLine(tl *TokenList) string {
	var b strings.Builder
	for i, t := range tl.All() {
		if i > 0 && t.LeadingWhitespace > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func handleIfdef(p *Preprocessor, rest *TokenList, negate bool) {
	if rest.IsEmpty() {
		fail(FilePos{}, BadDefined, "#ifdef/#ifndef requires an identifier")
	}
	name := rest.Get(0)
	defined := p.macros.IsDefined(name.Text)
	if negate {
		defined = !defined
	}
	p.cond.PushIf(defined)
}

// foldDefined replaces every `defined NAME` / `defined(NAME)` pair in an
// #if/#elif expression with a literal PREP_NUMBER "1" or "0", before the
// line is handed to the macro expander. This must happen first: the
// operand of `defined` is a raw identifier naming a macro, not a token to
// be macro-expanded itself, per the common treatment of 6.10.1.
func foldDefined(p *Preprocessor, line *TokenList) *TokenList {
	out := newTokenListCap(line.Len())
	toks := line.All()
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind != IDENTIFIER || t.Text != "defined" {
			out.Append(t)
			continue
		}
		var nameTok Token
		if i+1 < len(toks) && toks[i+1].Kind == LPAREN {
			if i+3 >= len(toks) || toks[i+2].Kind != IDENTIFIER || toks[i+3].Kind != RPAREN {
				fail(t.Pos, BadDefined, "malformed defined(...) operator")
			}
			nameTok = toks[i+2]
			i += 3
		} else if i+1 < len(toks) && toks[i+1].Kind == IDENTIFIER {
			nameTok = toks[i+1]
			i++
		} else {
			fail(t.Pos, BadDefined, "defined operator requires an identifier")
		}
		val := "0"
		if p.macros.IsDefined(nameTok.Text) {
			val = "1"
		}
		out.Append(Token{Kind: PREP_NUMBER, Text: val, Pos: t.Pos})
	}
	return out
}

func evalControllingExpr(p *Preprocessor, rest *TokenList) bool {
	folded := foldDefined(p, rest)
	if ok, needMore := Expand(folded, p.macros); !ok || needMore {
		fail(FilePos{}, UnexpectedToken, "malformed #if/#elif expression")
	}
	v, err := EvalIfExpr(folded)
	if err != nil {
		fail(FilePos{}, UnexpectedToken, "%s", err.Error())
	}
	return v != 0
}

func handleIf(p *Preprocessor, rest *TokenList) {
	p.cond.PushIf(p.cond.InActiveBlock() && evalControllingExprLazy(p, rest))
}

// evalControllingExprLazy avoids evaluating the expression at all when the
// enclosing block is already inactive: a skipped #if's condition may
// reference macros that were never defined on this branch, and the
// original preprocessor never evaluates expressions it doesn't need.
func evalControllingExprLazy(p *Preprocessor, rest *TokenList) bool {
	if !p.cond.InActiveBlock() {
		return false
	}
	return evalControllingExpr(p, rest)
}

func handleElif(p *Preprocessor, rest *TokenList) {
	cond := false
	if p.cond.ShouldEvalElif() {
		cond = evalControllingExpr(p, rest)
	}
	must(p, FilePos{}, p.cond.Elif(cond))
}

func handleDefine(p *Preprocessor, rest *TokenList) {
	if rest.IsEmpty() || rest.Get(0).Kind != IDENTIFIER {
		fail(FilePos{}, UnexpectedToken, "#define requires a macro name")
	}
	nameTok := rest.Get(0)
	if rest.Len() >= 2 && rest.Get(1).Kind == LPAREN && rest.Get(1).LeadingWhitespace == 0 {
		m, bodyStart := parseFuncMacroHeader(rest)
		m.Name = nameTok.Text
		m.Body = bodyBetween(rest, bodyStart)
		must(p, nameTok.Pos, p.macros.Define(m))
		return
	}
	body := newTokenListCap(rest.Len() - 1)
	for i := 1; i < rest.Len(); i++ {
		t := rest.Get(i)
		if i == 1 {
			t.LeadingWhitespace = 0
		}
		body.Append(t)
	}
	must(p, nameTok.Pos, p.macros.Define(&Macro{Name: nameTok.Text, Kind: ObjectLike, Body: body}))
}

func parseFuncMacroHeader(rest *TokenList) (*Macro, int) {
	m := &Macro{Kind: FunctionLike}
	i := 2 // skip name, '('
	for i < rest.Len() {
		t := rest.Get(i)
		if t.Kind == RPAREN {
			i++
			break
		}
		if t.Kind == COMMA {
			i++
			continue
		}
		if t.Kind == IDENTIFIER {
			m.Params = append(m.Params, t.Text)
		}
		i++
	}
	return m, i
}

func bodyBetween(rest *TokenList, start int) *TokenList {
	body := newTokenListCap(rest.Len() - start)
	for i := start; i < rest.Len(); i++ {
		t := rest.Get(i)
		if i == start {
			t.LeadingWhitespace = 0
		}
		body.Append(t)
	}
	return body
}

func handleUndef(p *Preprocessor, rest *TokenList) {
	if rest.IsEmpty() || rest.Get(0).Kind != IDENTIFIER {
		fail(FilePos{}, UnexpectedToken, "#undef requires a macro name")
	}
	p.macros.Undef(rest.Get(0).Text)
}

func handleInclude(p *Preprocessor, rest *TokenList, pos FilePos) {
	if rest.IsEmpty() {
		fail(pos, UnexpectedToken, "#include requires a header name")
	}
	first := rest.Get(0)
	var headerPath string
	var angled bool

	switch {
	case first.Kind == PREP_STRING:
		headerPath = strings.Trim(first.Text, `"`)
	case first.Kind == LSS:
		angled = true
		var b strings.Builder
		i := 1
		for i < rest.Len() && rest.Get(i).Kind != GTR {
			b.WriteString(rest.Get(i).Text)
			i++
		}
		if i >= rest.Len() {
			fail(pos, UnexpectedToken, "missing closing '>' in #include")
		}
		headerPath = b.String()
	default:
		// Not a literal header name yet: macro-expand and retry, so
		// `#include HEADER_NAME` works.
		expanded := rest.Copy()
		if ok, needMore := Expand(expanded, p.macros); !ok || needMore {
			fail(pos, UnexpectedToken, "malformed #include")
		}
		handleInclude(p, expanded, pos)
		return
	}

	requestingFile := p.currentFileName()
	var (
		resolvedPath string
		r            io.Reader
		err          error
	)
	if angled {
		resolvedPath, r, err = p.includes.IncludeAngled(requestingFile, headerPath)
	} else {
		resolvedPath, r, err = p.includes.IncludeQuote(requestingFile, headerPath)
	}
	if err != nil {
		fail(pos, IncludeNotFound, "%s", err.Error())
	}
	p.pushSource(NewFileLineSource(resolvedPath, r))
}
