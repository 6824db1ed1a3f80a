package cpp

import "testing"

func TestLineBufferTokenize(t *testing.T) {
	cases := []struct {
		src  string
		want []tok
	}{
		{"foo", []tok{{"identifier", "foo"}}},
		{"123", []tok{{"prep-number", "123"}}},
		{"0x1p+1", []tok{{"prep-number", "0x1p+1"}}},
		{`"abc"`, []tok{{"prep-string", `"abc"`}}},
		{`'a'`, []tok{{"prep-char", `'a'`}}},
		{"a+b", []tok{{"identifier", "a"}, {"'+'", "+"}, {"identifier", "b"}}},
		{"a##b", []tok{{"identifier", "a"}, {"'##'", "##"}, {"identifier", "b"}}},
		{"<<=", []tok{{"'<<='", "<<="}}},
		{"...", []tok{{"'...'", "..."}}},
		{"->", []tok{{"'->'", "->"}}},
	}
	for _, tc := range cases {
		lb := NewLineBuffer("t.c", 1, tc.src)
		var got []tok
		for {
			token := lb.Tokenize()
			if token.Kind == END {
				break
			}
			got = append(got, tok{Kind: token.Kind.String(), Text: token.Text})
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v want %v", tc.src, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%q: token %d got %v want %v", tc.src, i, got[i], tc.want[i])
			}
		}
	}
}

func TestLineBufferLeadingWhitespace(t *testing.T) {
	lb := NewLineBuffer("t.c", 1, "a   b\tc")
	first := lb.Tokenize()
	second := lb.Tokenize()
	third := lb.Tokenize()
	if first.LeadingWhitespace != 0 {
		t.Errorf("first token: got leading ws %d want 0", first.LeadingWhitespace)
	}
	if second.LeadingWhitespace != 3 {
		t.Errorf("second token: got leading ws %d want 3", second.LeadingWhitespace)
	}
	if third.LeadingWhitespace != 4 {
		t.Errorf("third token: got leading ws %d want 4 (tab counts as 4)", third.LeadingWhitespace)
	}
}

func TestLineBufferKeywordsNotExpandable(t *testing.T) {
	lb := NewLineBuffer("t.c", 1, "if foo")
	kw := lb.Tokenize()
	ident := lb.Tokenize()
	if kw.Kind != IF || kw.IsExpandable {
		t.Errorf("keyword 'if' should not be expandable, got kind=%s expandable=%v", kw.Kind, kw.IsExpandable)
	}
	if ident.Kind != IDENTIFIER || !ident.IsExpandable {
		t.Errorf("identifier 'foo' should be expandable, got kind=%s expandable=%v", ident.Kind, ident.IsExpandable)
	}
}
