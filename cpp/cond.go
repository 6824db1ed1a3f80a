package cpp

// condFrame is one level of a nested #if/#ifdef/#ifndef...#endif block.
type condFrame struct {
	// included is true while the lines under this frame's current branch
	// should pass through to the output/expander.
	included bool
	// hasSucceeded is true once some branch of this frame (the #if, an
	// #elif, or #else) has been taken, so later #elif branches in the same
	// frame are skipped even if their own condition would be true.
	hasSucceeded bool
	// parentActive records whether the enclosing frame was active when
	// this frame was pushed; a frame nested inside a skipped block can
	// never become active regardless of its own condition.
	parentActive bool
}

// CondStack is §4.I's conditional-compilation state: a stack of condFrame,
// queried by InActiveBlock before any line is handed to the expander.
type CondStack struct {
	frames []condFrame
}

func NewCondStack() *CondStack {
	return &CondStack{}
}

// InActiveBlock reports whether lines at the current nesting level should
// be processed. An empty stack (top level) is always active.
func (cs *CondStack) InActiveBlock() bool {
	if len(cs.frames) == 0 {
		return true
	}
	return cs.frames[len(cs.frames)-1].included
}

func (cs *CondStack) Depth() int {
	return len(cs.frames)
}

// PushIf opens a new #if/#ifdef/#ifndef frame with the evaluated condition
// of the opening branch.
func (cs *CondStack) PushIf(condTrue bool) {
	parentActive := cs.InActiveBlock()
	cs.frames = append(cs.frames, condFrame{
		included:     parentActive && condTrue,
		hasSucceeded: condTrue,
		parentActive: parentActive,
	})
}

// ShouldEvalElif reports whether an #elif's controlling expression needs
// evaluating at all: once the enclosing block is inactive, or this frame
// already took a branch, the expression is skipped entirely — so a later,
// unreachable #elif referencing an undefined macro never raises a spurious
// diagnostic.
func (cs *CondStack) ShouldEvalElif() bool {
	if len(cs.frames) == 0 {
		return false
	}
	f := cs.frames[len(cs.frames)-1]
	return f.parentActive && !f.hasSucceeded
}

// Elif evaluates an #elif branch against the frame on top of the stack.
// Returns an error if there is no open frame. An #elif that follows #else
// is not reported: the frame has already taken a branch by then, so the
// #elif is simply skipped.
func (cs *CondStack) Elif(condTrue bool) error {
	if len(cs.frames) == 0 {
		return &FatalError{Kind: UnterminatedConditional, Msg: "#elif without matching #if"}
	}
	f := &cs.frames[len(cs.frames)-1]
	if f.hasSucceeded {
		f.included = false
		return nil
	}
	f.included = f.parentActive && condTrue
	if condTrue {
		f.hasSucceeded = true
	}
	return nil
}

// Else flips to the else branch of the current frame.
func (cs *CondStack) Else() error {
	if len(cs.frames) == 0 {
		return &FatalError{Kind: UnterminatedConditional, Msg: "#else without matching #if"}
	}
	f := &cs.frames[len(cs.frames)-1]
	f.included = f.parentActive && !f.hasSucceeded
	f.hasSucceeded = true
	return nil
}

// Endif closes the innermost frame.
func (cs *CondStack) Endif() error {
	if len(cs.frames) == 0 {
		return &FatalError{Kind: UnterminatedConditional, Msg: "#endif without matching #if"}
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
	return nil
}

// AtEOF reports whether any #if block was left unclosed at end of input.
func (cs *CondStack) AtEOF() error {
	if len(cs.frames) != 0 {
		return &FatalError{Kind: UnterminatedConditional, Msg: "unterminated #if at end of file"}
	}
	return nil
}
