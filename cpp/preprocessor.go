package cpp

import (
	"io"
	"strings"

	"github.com/andrewchambers/cc/intern"
)

// Preprocessor is the top-level driver of §4: a stack of LineSources (the
// current file plus whatever #includes are nested inside it), a macro
// table, a conditional-compilation stack, and a lookahead deque of fully
// expanded, fully converted tokens ready to hand to a consumer.
//
// Internal helpers signal failure by panicking with a *FatalError; every
// exported method recovers that panic at its own boundary and turns it
// into a normal Go error, following the teacher's cppbreakout pattern in
// cpp.go rather than threading an error return through every recursive
// helper in this package.
type Preprocessor struct {
	macros   *MacroTable
	cond     *CondStack
	includes IncludeSearcher
	ctx      *Context

	sources []LineSource

	lookahead []Token

	interner *intern.Interner

	// EmitMode is the `-E` toggle of §4.F/§6: when set, addToLookahead
	// stops merging adjacent STRING tokens and processOneLine appends a
	// NEWLINE token after every assembled line, so Preprocess produces a
	// faithful preprocessed-text token stream instead of the default
	// compiler-facing stream (which never sees NEWLINE and always sees
	// merged string literals).
	EmitMode bool
}

// New creates a Preprocessor with an empty macro table and conditional
// stack, ready to have sources pushed onto it.
func New(includes IncludeSearcher) *Preprocessor {
	return &Preprocessor{
		macros:   NewMacroTable(),
		cond:     NewCondStack(),
		includes: includes,
		ctx:      NewContext(),
		interner: intern.New(),
	}
}

// Macros exposes the macro table so a CLI driver can seed `-D` defines
// before the first Next call.
func (p *Preprocessor) Macros() *MacroTable {
	return p.macros
}

func (p *Preprocessor) Context() *Context {
	return p.ctx
}

// SetEmitMode turns the `-E` toggle on or off. It must be set before the
// first call to Next/Peek/Preprocess that should observe it, since it
// governs how already-flushed lookahead tokens were produced, not how
// they're read back.
func (p *Preprocessor) SetEmitMode(on bool) {
	p.EmitMode = on
}

func (p *Preprocessor) pushSource(ls LineSource) {
	p.sources = append(p.sources, ls)
}

func (p *Preprocessor) currentFileName() string {
	if len(p.sources) == 0 {
		return "<unknown>"
	}
	return p.sources[len(p.sources)-1].Name()
}

// PushFile opens a new top-level source to preprocess, e.g. the file named
// on the CLI driver's command line.
func (p *Preprocessor) PushFile(name string, r io.Reader) {
	p.pushSource(NewFileLineSource(name, r))
}

// PushSynthetic pushes a block of generated source text (e.g. the
// `#define` lines synthesized from a driver's `-D` flags) as a new
// top-of-stack source, processed to completion before whatever was
// already on the stack resumes.
func (p *Preprocessor) PushSynthetic(name, text string) {
	p.pushSource(NewFileLineSource(name, strings.NewReader(text)))
}

// InjectLine pushes one synthetic logical line (e.g. from a `-D NAME=VAL`
// flag) as if it were the next line of the current file, matching the
// original preprocessor's inject_line used for command-line defines.
func (p *Preprocessor) InjectLine(name, text string) {
	p.sources = append(p.sources, NewStringLineSource(name, text))
}

func boundary(f func()) error {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if fe, ok := r.(*FatalError); ok {
					err = fe
					return
				}
				panic(r)
			}
		}()
		f()
	}()
	return err
}

// Next consumes and returns the next fully preprocessed token, pulling and
// assembling more input as needed. ok is false only at true end of input.
func (p *Preprocessor) Next() (Token, bool, error) {
	var tok Token
	var ok bool
	err := boundary(func() {
		ok = p.fill(0)
		if ok {
			tok = p.lookahead[0]
			p.lookahead = p.lookahead[1:]
		}
	})
	return tok, ok, err
}

// Peek returns the next token without consuming it.
func (p *Preprocessor) Peek() (Token, bool, error) {
	return p.PeekAt(0)
}

// PeekAt returns the token n positions ahead without consuming any of
// them, pulling and assembling more input until the lookahead deque is
// deep enough or input is exhausted.
func (p *Preprocessor) PeekAt(n int) (Token, bool, error) {
	var tok Token
	var ok bool
	err := boundary(func() {
		ok = p.fill(n)
		if ok {
			tok = p.lookahead[n]
		}
	})
	return tok, ok, err
}

// Consume discards the next token, equivalent to Next without returning
// its value.
func (p *Preprocessor) Consume() error {
	_, _, err := p.Next()
	return err
}

// fill ensures the lookahead deque holds at least n+1 tokens, assembling
// and processing whole source lines until it does or input runs out. Once
// input is exhausted, a pending STRING at the back of the deque can no
// longer merge with anything else, so readiness falls back to a plain
// count check rather than isLookaheadReady's STRING caveat.
func (p *Preprocessor) fill(n int) bool {
	for !isLookaheadReady(p, n) {
		if !p.processOneLine() {
			return len(p.lookahead) > n
		}
	}
	return true
}

// processOneLine pulls the next logical line from the active source
// (popping exhausted sources and continuing with whatever included it),
// routes it to the directive handler or the expander, and returns false
// only once every source on the stack is exhausted.
func (p *Preprocessor) processOneLine() bool {
	for {
		if len(p.sources) == 0 {
			return false
		}
		top := p.sources[len(p.sources)-1]
		line, isDirective, ok := ReadCompleteLine(top)
		if !ok {
			p.sources = p.sources[:len(p.sources)-1]
			continue
		}
		if isDirective {
			handleDirective(p, line)
			p.emitNewline()
			return true
		}
		if !p.cond.InActiveBlock() {
			p.emitNewline()
			return true
		}
		for {
			completeOK, needMore := Expand(line, p.macros)
			if !needMore {
				if !completeOK {
					fail(firstPos(line), ArgumentCountMismatch, "macro argument count mismatch")
				}
				break
			}
			if !RefillExpandingLine(top, line) {
				fail(firstPos(line), UnbalancedInvocation, "unterminated macro invocation")
			}
		}
		for i := 0; i < line.Len(); i++ {
			t := ConvertPreprocessingToken(line.Get(i))
			if t.Kind == IDENTIFIER || t.Kind == STRING {
				t.Text = p.interner.Intern(t.Text)
			}
			line.Set(i, t)
		}
		addToLookahead(p, line)
		p.emitNewline()
		return true
	}
}

// emitNewline appends the NEWLINE token invariant 1 requires at the end of
// every assembled line, but only when EmitMode is on: outside -E mode the
// lookahead deque must never contain a NEWLINE (invariant 2), since the
// parser this core feeds has no use for line-end markers.
func (p *Preprocessor) emitNewline() {
	if !p.EmitMode {
		return
	}
	p.lookahead = append(p.lookahead, Token{Kind: NEWLINE})
}

func firstPos(line *TokenList) FilePos {
	if line.Len() == 0 {
		return FilePos{}
	}
	return line.Get(0).Pos
}

// Preprocess drains the entire input and returns every token produced, for
// the -E "preprocess only" CLI mode. It recovers internal FatalErrors at
// this single outer boundary, same as Next/Peek, so a caller driving the
// whole file through one call gets one error rather than one per line.
func (p *Preprocessor) Preprocess() (*TokenList, error) {
	out := newTokenList()
	err := boundary(func() {
		for {
			if !p.fill(0) {
				break
			}
			out.Append(p.lookahead[0])
			p.lookahead = p.lookahead[1:]
		}
		if cerr := p.cond.AtEOF(); cerr != nil {
			panic(cerr)
		}
	})
	return out, err
}
