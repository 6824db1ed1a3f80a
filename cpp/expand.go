package cpp

// Expand implements §4.D: it rescans line left to right, replacing each
// expandable macro invocation with its substituted replacement list and
// continuing the scan from the start of what was just spliced in, so a
// macro that expands to another macro name is picked up without a second
// top-level call. It reports needMore == true when a function-like macro
// name is the last expandable token on the line with no following `(` yet
// decided — the assembler (RefillExpandingLine) must pull another physical
// line and retry before concluding the name is not being invoked.
func Expand(line *TokenList, mt *MacroTable) (ok bool, needMore bool) {
	i := 0
	for i < line.Len() {
		t := line.Get(i)
		if !t.IsExpandable || t.DisableExpand {
			i++
			continue
		}
		m, found := mt.Lookup(t.Text)
		if !found {
			i++
			continue
		}
		if m.Kind == ObjectLike {
			repl := substitute(m, nil, mt)
			markSelfReferences(repl, m.Name)
			line.Splice(i, i+1, repl.All())
			continue
		}

		// Function-like: only an invocation (name immediately followed by
		// `(`) expands. A bare reference to the name is left untouched,
		// per C99 6.10.3p10.
		j := i + 1
		if j >= line.Len() {
			return true, true
		}
		if line.Get(j).Kind != LPAREN {
			i++
			continue
		}
		args, rparen, complete := collectArgs(line, j)
		if !complete {
			return true, true
		}
		if len(m.Params) == 0 && len(args) == 1 && args[0].Len() == 0 {
			args = nil
		}
		if len(args) != len(m.Params) {
			return false, false
		}
		repl := substitute(m, args, mt)
		markSelfReferences(repl, m.Name)
		line.Splice(i, rparen+1, repl.All())
	}
	return true, false
}

// collectArgs walks a balanced-parenthesis argument list starting at the
// `(` found at index lparen, splitting on top-level commas. It returns
// complete == false if the line ends before the matching `)` is found, so
// the caller can ask for more input rather than erroring out.
func collectArgs(line *TokenList, lparen int) (args []*TokenList, rparen int, complete bool) {
	depth := 0
	cur := newTokenList()
	i := lparen
	for i < line.Len() {
		t := line.Get(i)
		switch t.Kind {
		case LPAREN:
			depth++
			if depth > 1 {
				cur.Append(t)
			}
		case RPAREN:
			depth--
			if depth == 0 {
				args = append(args, cur)
				return args, i, true
			}
			cur.Append(t)
		case COMMA:
			if depth == 1 {
				args = append(args, cur)
				cur = newTokenList()
			} else {
				cur.Append(t)
			}
		default:
			cur.Append(t)
		}
		i++
	}
	return nil, 0, false
}

// markSelfReferences sets DisableExpand on every occurrence of name within
// repl, implementing the flat single-flag hygiene of invariant 5: a macro's
// own name, reappearing in its own expansion, never re-expands, which is
// enough to stop direct and indirect self-recursion without the full
// hideset machinery the teacher's cpp.go uses.
func markSelfReferences(repl *TokenList, name string) {
	for i := 0; i < repl.Len(); i++ {
		t := repl.Get(i)
		if t.IsExpandable && t.Text == name {
			t.DisableExpand = true
			repl.Set(i, t)
		}
	}
}

// substitute builds a macro's replacement list for one invocation: params
// are swapped for their (generally expanded) arguments, `#` stringizes an
// adjacent parameter, and `##` pastes adjacent tokens. args is nil for an
// object-like macro.
func substitute(m *Macro, args []*TokenList, mt *MacroTable) *TokenList {
	raw := buildRawSubstitution(m, args, mt)
	return resolvePastes(raw)
}

func buildRawSubstitution(m *Macro, args []*TokenList, mt *MacroTable) *TokenList {
	body := m.Body
	n := body.Len()
	out := newTokenListCap(n)
	for i := 0; i < n; i++ {
		t := body.Get(i)
		if t.Kind == HASH && i+1 < n {
			if nt := body.Get(i + 1); nt.IsExpandable {
				if idx, ok := m.paramIndex(nt.Text); ok {
					out.Append(stringize(args[idx]))
					i++
					continue
				}
			}
		}
		if t.IsExpandable {
			if idx, ok := m.paramIndex(t.Text); ok {
				adjacentPaste := (i+1 < n && body.Get(i+1).Kind == HASHHASH) ||
					(i > 0 && body.Get(i-1).Kind == HASHHASH)
				if adjacentPaste {
					out.AppendList(args[idx].Copy())
				} else {
					expanded := args[idx].Copy()
					Expand(expanded, mt)
					out.AppendList(expanded)
				}
				continue
			}
		}
		out.Append(t)
	}
	return out
}

// resolvePastes performs the `##` concatenations in a raw substitution,
// chaining through runs like a##b##c left to right.
func resolvePastes(raw *TokenList) *TokenList {
	out := newTokenListCap(raw.Len())
	i := 0
	n := raw.Len()
	for i < n {
		t := raw.Get(i)
		if t.Kind == HASHHASH {
			i++
			continue
		}
		if i+1 < n && raw.Get(i+1).Kind == HASHHASH {
			if i+2 >= n {
				out.Append(t)
				i += 2
				continue
			}
			result := paste(t, raw.Get(i+2))
			j := i + 2
			for j+1 < n && raw.Get(j+1).Kind == HASHHASH && j+2 < n {
				result = paste(result, raw.Get(j+2))
				j += 2
			}
			out.Append(result)
			i = j + 1
			continue
		}
		out.Append(t)
		i++
	}
	return out
}
