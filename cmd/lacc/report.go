package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/andrewchambers/cc/cpp"
)

// reportError prints err and, when it carries a source location, prefixes
// it with "(file:line:col) error: " and follows it with the offending line
// and a caret under the column. An error without a file name is printed as
// the bare message. Adapted from the teacher's report.go.
func reportError(err error) {
	located, ok := err.(cpp.Located)
	if !ok || located.Location().File == "" {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "")
		return
	}
	pos := located.Location()
	fmt.Fprintf(os.Stderr, "(%s) error: %s\n", pos, err)
	fmt.Fprintln(os.Stderr, "")
	f, ferr := os.Open(pos.File)
	if ferr != nil {
		return
	}
	defer f.Close()
	b := bufio.NewReader(f)
	lineno := 1
	for {
		done := false
		line, rerr := b.ReadString('\n')
		if rerr != nil {
			done = true
		}
		if lineno == pos.Line {
			fmt.Fprintf(os.Stderr, "%s", line)
			linelen := 0
			for _, v := range line {
				switch v {
				case '\t':
					linelen += 4
				case '\n':
				default:
					linelen++
				}
			}
			for i := 0; i < linelen; i++ {
				if i+1 == pos.Col {
					fmt.Fprintf(os.Stderr, "%c", '^')
				} else {
					fmt.Fprintf(os.Stderr, "%c", ' ')
				}
			}
			fmt.Fprintln(os.Stderr, "")
		}
		lineno++
		if done {
			break
		}
	}
}
