package cpp

import "testing"

func identTok(s string) Token { return Token{Kind: IDENTIFIER, Text: s, IsExpandable: true} }

func TestMacroTableDefineRedefine(t *testing.T) {
	mt := NewMacroTable()
	body := newTokenList()
	body.Append(Token{Kind: PREP_NUMBER, Text: "1"})
	if err := mt.Define(&Macro{Name: "X", Kind: ObjectLike, Body: body}); err != nil {
		t.Fatalf("first define failed: %s", err)
	}
	// identical redefinition is accepted
	body2 := newTokenList()
	body2.Append(Token{Kind: PREP_NUMBER, Text: "1"})
	if err := mt.Define(&Macro{Name: "X", Kind: ObjectLike, Body: body2}); err != nil {
		t.Errorf("identical redefinition should be accepted, got %s", err)
	}
	// incompatible redefinition is rejected
	body3 := newTokenList()
	body3.Append(Token{Kind: PREP_NUMBER, Text: "2"})
	if err := mt.Define(&Macro{Name: "X", Kind: ObjectLike, Body: body3}); err == nil {
		t.Errorf("incompatible redefinition should be rejected")
	}
}

func TestMacroTableUndefIsIdempotent(t *testing.T) {
	mt := NewMacroTable()
	mt.Undef("NEVER_DEFINED")
	if mt.IsDefined("NEVER_DEFINED") {
		t.Errorf("should not be defined")
	}
}

func TestStringize(t *testing.T) {
	arg := newTokenList()
	arg.Append(Token{Kind: IDENTIFIER, Text: "foo"})
	arg.Append(Token{Kind: ADD, Text: "+", LeadingWhitespace: 1})
	arg.Append(Token{Kind: IDENTIFIER, Text: "bar", LeadingWhitespace: 1})
	got := stringize(arg)
	want := `"foo + bar"`
	if got.Text != want {
		t.Errorf("got %q want %q", got.Text, want)
	}
}

// TestStringizeEscapesStringLiteralOperand covers #define STR(x) #x /
// STR("hi") -> "\"hi\"": the embedded quotes and backslashes of a
// string-literal argument must themselves be escaped, per C99 6.10.3.2,
// or the stringized result is not a valid C string literal.
func TestStringizeEscapesStringLiteralOperand(t *testing.T) {
	arg := newTokenList()
	arg.Append(Token{Kind: PREP_STRING, Text: `"hi"`})
	got := stringize(arg)
	want := `"\"hi\""`
	if got.Text != want {
		t.Errorf("got %q want %q", got.Text, want)
	}
}

func TestStringizeEscapesBackslashInStringLiteralOperand(t *testing.T) {
	arg := newTokenList()
	arg.Append(Token{Kind: PREP_STRING, Text: `"a\nb"`})
	got := stringize(arg)
	want := `"\"a\\nb\""`
	if got.Text != want {
		t.Errorf("got %q want %q", got.Text, want)
	}
}

func TestPasteProducesSingleToken(t *testing.T) {
	lhs := Token{Kind: IDENTIFIER, Text: "foo"}
	rhs := Token{Kind: IDENTIFIER, Text: "bar"}
	got := paste(lhs, rhs)
	if got.Kind != IDENTIFIER || got.Text != "foobar" {
		t.Errorf("got kind=%s text=%q", got.Kind, got.Text)
	}
}

func TestPasteNumberAndIdentifier(t *testing.T) {
	lhs := Token{Kind: PREP_NUMBER, Text: "1"}
	rhs := Token{Kind: IDENTIFIER, Text: "e5"}
	got := paste(lhs, rhs)
	if got.Text != "1e5" {
		t.Errorf("got %q want %q", got.Text, "1e5")
	}
}

func TestSubstituteStringizeAndPaste(t *testing.T) {
	mt := NewMacroTable()
	body := newTokenList()
	// #define CAT(a,b) a##b
	body.Append(Token{Kind: IDENTIFIER, Text: "a", IsExpandable: true})
	body.Append(Token{Kind: HASHHASH, Text: "##"})
	body.Append(Token{Kind: IDENTIFIER, Text: "b", IsExpandable: true})
	m := &Macro{Name: "CAT", Kind: FunctionLike, Params: []string{"a", "b"}, Body: body}

	argA := newTokenList()
	argA.Append(Token{Kind: IDENTIFIER, Text: "foo"})
	argB := newTokenList()
	argB.Append(Token{Kind: IDENTIFIER, Text: "bar"})

	repl := substitute(m, []*TokenList{argA, argB}, mt)
	if repl.Len() != 1 || repl.Get(0).Text != "foobar" {
		t.Errorf("got %v", repl.All())
	}
}

func TestSubstituteExpandsNonAdjacentParams(t *testing.T) {
	mt := NewMacroTable()
	inner := newTokenList()
	inner.Append(Token{Kind: PREP_NUMBER, Text: "99"})
	if err := mt.Define(&Macro{Name: "NINE", Kind: ObjectLike, Body: inner}); err != nil {
		t.Fatal(err)
	}

	body := newTokenList()
	body.Append(identTok("x"))
	m := &Macro{Name: "ID", Kind: FunctionLike, Params: []string{"x"}, Body: body}

	arg := newTokenList()
	arg.Append(identTok("NINE"))

	repl := substitute(m, []*TokenList{arg}, mt)
	if repl.Len() != 1 || repl.Get(0).Text != "99" {
		t.Errorf("expected macro-expanded argument, got %v", repl.All())
	}
}
