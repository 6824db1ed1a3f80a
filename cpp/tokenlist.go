package cpp

// TokenList is the dynamic ordered sequence of Tokens used both as the
// logical line under assembly and as the scratch buffer the expander
// rewrites in place. It mirrors the dynamic array (`TokenArray`) the
// original preprocessor core is built around, rather than the teacher's
// container/list-backed tokenList: random access by index is central to
// the expander's splice-in-place algorithm (§4.D), and a slice gives that
// for free.
type TokenList struct {
	toks []Token
}

func newTokenList() *TokenList {
	return &TokenList{}
}

func newTokenListCap(n int) *TokenList {
	return &TokenList{toks: make([]Token, 0, n)}
}

func (tl *TokenList) Len() int {
	return len(tl.toks)
}

func (tl *TokenList) IsEmpty() bool {
	return len(tl.toks) == 0
}

func (tl *TokenList) Append(t Token) {
	tl.toks = append(tl.toks, t)
}

func (tl *TokenList) AppendList(other *TokenList) {
	tl.toks = append(tl.toks, other.toks...)
}

func (tl *TokenList) Get(i int) Token {
	return tl.toks[i]
}

func (tl *TokenList) Set(i int, t Token) {
	tl.toks[i] = t
}

func (tl *TokenList) PopBack() Token {
	n := len(tl.toks)
	t := tl.toks[n-1]
	tl.toks = tl.toks[:n-1]
	return t
}

func (tl *TokenList) Clear() {
	tl.toks = tl.toks[:0]
}

// Splice replaces the half-open range [i, j) with repl, shifting everything
// after it. This is the primitive the expander uses to rewrite a macro
// invocation or object-like macro name into its replacement list.
func (tl *TokenList) Splice(i, j int, repl []Token) {
	tail := append([]Token{}, tl.toks[j:]...)
	tl.toks = append(tl.toks[:i], repl...)
	tl.toks = append(tl.toks, tail...)
}

// Copy returns an independent copy of the list; tokens are values so a
// shallow slice copy is enough.
func (tl *TokenList) Copy() *TokenList {
	cp := make([]Token, len(tl.toks))
	copy(cp, tl.toks)
	return &TokenList{toks: cp}
}

// Slice returns the tokens in [i, j) without copying the backing array.
func (tl *TokenList) Slice(i, j int) []Token {
	return tl.toks[i:j]
}

// All returns every token in the list.
func (tl *TokenList) All() []Token {
	return tl.toks
}
