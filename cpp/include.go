package cpp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IncludeSearcher resolves a header name found in an `#include` directive
// to a readable source, implementing §4.K. It is deliberately narrow: two
// methods, one per include form, both returning the resolved path (for
// diagnostics and nested quote-form lookups) plus a reader the caller owns
// and must close once the pushed LineSource is exhausted.
type IncludeSearcher interface {
	// IncludeQuote resolves #include "headerPath", searching relative to
	// requestingFile's directory before falling back to the angle-bracket
	// search path, per C99 6.10.2p3.
	IncludeQuote(requestingFile, headerPath string) (string, io.Reader, error)
	// IncludeAngled resolves #include <headerPath> against the configured
	// system search directories only.
	IncludeAngled(requestingFile, headerPath string) (string, io.Reader, error)
}

// StandardIncludeSearcher implements §4.K with a fixed, priority-ordered
// list of system include directories — the named simplification of
// "#include search policy beyond a priority-path searcher" this module's
// scope excludes (no compiler-builtin search paths, no MSVC-style
// environment-variable lookup).
type StandardIncludeSearcher struct {
	systemDirs []string
}

// NewStandardIncludeSearcher builds a searcher from a `;`-separated list of
// directories, in the priority order the CLI's `-I` flag lists them.
func NewStandardIncludeSearcher(includePaths string) IncludeSearcher {
	s := &StandardIncludeSearcher{}
	for _, dir := range strings.Split(includePaths, ";") {
		if dir != "" {
			s.systemDirs = append(s.systemDirs, dir)
		}
	}
	return s
}

func (s *StandardIncludeSearcher) IncludeQuote(requestingFile, headerPath string) (string, io.Reader, error) {
	candidate := filepath.Join(filepath.Dir(requestingFile), headerPath)
	if ok, err := regularFileExists(candidate); err != nil {
		return "", nil, err
	} else if !ok {
		return s.IncludeAngled(requestingFile, headerPath)
	}
	r, err := os.Open(candidate)
	return candidate, r, err
}

func (s *StandardIncludeSearcher) IncludeAngled(_, headerPath string) (string, io.Reader, error) {
	for _, dir := range s.systemDirs {
		candidate := filepath.Join(dir, headerPath)
		ok, err := regularFileExists(candidate)
		if err != nil {
			return "", nil, err
		}
		if ok {
			r, err := os.Open(candidate)
			return candidate, r, err
		}
	}
	return "", nil, fmt.Errorf("header %q not found in any of %v", headerPath, s.systemDirs)
}

func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
