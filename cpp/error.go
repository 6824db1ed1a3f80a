package cpp

import "fmt"

// ErrorLoc pairs a diagnostic with the source location it refers to, so a
// caller like the caret-annotated reporter in cmd/lacc can print the
// offending line.
type ErrorLoc struct {
	Err error
	Pos FilePos
}

func ErrWithLoc(e error, pos FilePos) error {
	return ErrorLoc{Err: e, Pos: pos}
}

func (e ErrorLoc) Error() string {
	return fmt.Sprintf("%s at %s", e.Err, e.Pos)
}

func (e ErrorLoc) Location() FilePos { return e.Pos }

// Located is implemented by any error carrying a source position, so a
// caret-annotated reporter can print the offending line without caring
// whether the error came from ErrWithLoc or a *FatalError.
type Located interface {
	Location() FilePos
}

// FatalKind classifies the ways the core can refuse to continue, matching
// the diagnostics the original lacc preprocessor raises as fatal errors
// rather than as recoverable warnings.
type FatalKind int

const (
	UnbalancedInvocation FatalKind = iota
	BadDefined
	UnexpectedToken
	MacroRedefinition
	UnterminatedConditional
	IncludeNotFound
	ArgumentCountMismatch
)

var fatalKindToStr = map[FatalKind]string{
	UnbalancedInvocation:    "unbalanced macro invocation",
	BadDefined:              "malformed defined operator",
	UnexpectedToken:         "unexpected token",
	MacroRedefinition:       "macro redefinition",
	UnterminatedConditional: "unterminated conditional",
	IncludeNotFound:         "include file not found",
	ArgumentCountMismatch:   "macro argument count mismatch",
}

func (k FatalKind) String() string {
	if s, ok := fatalKindToStr[k]; ok {
		return s
	}
	return "error"
}

// FatalError is raised via panic at the point of detection and caught at
// the Preprocessor API boundary, following the teacher's cppbreakout
// pattern in cpp.go: internal recursive helpers don't thread an error
// return through every call, they just panic with a FatalError and the
// outermost Preprocess call recovers it into a normal Go error.
type FatalError struct {
	Kind FatalKind
	Msg  string
	Pos  FilePos
}

func (e *FatalError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.String()
}

func (e *FatalError) Location() FilePos { return e.Pos }

// fail panics with a located FatalError; Preprocess recovers it at the
// API boundary (the "breakout" in preprocessor.go).
func fail(pos FilePos, kind FatalKind, format string, args ...interface{}) {
	panic(&FatalError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos})
}

// Context accumulates diagnostics across a whole preprocess run without
// aborting on the first warning, mirroring context.c's verbose/warning/
// error trio: warnings are collected and reported, but only a fail() panic
// (wrapped into a FatalError) stops the run outright.
type Context struct {
	Warnings []error
	Verbose  bool
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) Warn(pos FilePos, format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, ErrWithLoc(fmt.Errorf(format, args...), pos))
}

func (c *Context) Logf(format string, args ...interface{}) {
	if c.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}
