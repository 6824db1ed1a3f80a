package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrewchambers/cc/cpp"
)

func printVersion() {
	fmt.Println("lacc-go version 0.01")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lacc [FLAGS] FILE.c")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// stringList collects repeated occurrences of a flag, e.g. -D NAME=VAL -D
// OTHER, matching the teacher's flag.Bool/flag.String style but for a
// multi-valued option flag.Var is built for.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func definesToSource(defines []string) string {
	var b strings.Builder
	for _, d := range defines {
		name, val := d, "1"
		if i := strings.IndexByte(d, '='); i >= 0 {
			name, val = d[:i], d[i+1:]
		}
		fmt.Fprintf(&b, "#define %s %s\n", name, val)
	}
	return b.String()
}

func newPreprocessor(includePaths string, defines []string) *cpp.Preprocessor {
	p := cpp.New(cpp.NewStandardIncludeSearcher(includePaths))
	if src := definesToSource(defines); src != "" {
		p.PushSynthetic("<command-line>", src)
	}
	return p
}

// dumpTokens drives the driver's debug mode (no flags): the fully expanded,
// converted compiler-facing token stream, one debug triple per line, never
// touching EmitMode — this is the stream a parser stage would consume, not
// the `-E` preprocessed-text rendering.
func dumpTokens(sourceFile string, includePaths string, defines []string, out io.Writer) error {
	f, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s for preprocessing: %w", sourceFile, err)
	}
	defer f.Close()

	p := newPreprocessor(includePaths, defines)
	p.PushFile(sourceFile, f)
	for {
		tok, ok, err := p.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fmt.Fprintf(out, "%s %q %s\n", tok.Kind, tok.Text, tok.Pos)
	}
	for _, w := range p.Context().Warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	return nil
}

// quoteStringLiteral re-escapes a STRING token's decoded text back into a
// quoted C string literal for -E output; ConvertPreprocessingToken already
// discarded the original quoting and escapes when it decoded the literal
// for compiler consumption.
func quoteStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// spellEmitToken renders one token for -E output. CHAR tokens keep their
// original quoted spelling (convertPrepChar never rewrites Token.Text), so
// only STRING needs re-quoting here.
func spellEmitToken(t cpp.Token) string {
	if t.Kind == cpp.STRING {
		return quoteStringLiteral(t.Text)
	}
	return t.Text
}

// renderPreprocessed writes an already-preprocessed -E token stream as
// text: each token indented by its recorded leading_whitespace, string
// literals re-quoted, and NEWLINE tokens rendered as actual newlines.
func renderPreprocessed(toks *cpp.TokenList, out io.Writer) {
	for _, tok := range toks.All() {
		if tok.Kind == cpp.NEWLINE {
			fmt.Fprint(out, "\n")
			continue
		}
		for i := 0; i < tok.LeadingWhitespace; i++ {
			fmt.Fprint(out, " ")
		}
		fmt.Fprint(out, spellEmitToken(tok))
	}
}

// emitPreprocessed implements the driver side of §4.F/§6's `preprocess`:
// run the core in -E mode (no string-literal merging, NEWLINE tokens
// preserved) and render the result as preprocessed source text.
func emitPreprocessed(sourceFile string, includePaths string, defines []string, out io.Writer) error {
	f, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s for preprocessing: %w", sourceFile, err)
	}
	defer f.Close()

	p := newPreprocessor(includePaths, defines)
	p.SetEmitMode(true)
	p.PushFile(sourceFile, f)
	toks, err := p.Preprocess()
	if err != nil {
		return err
	}
	renderPreprocessed(toks, out)
	for _, w := range p.Context().Warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	return nil
}

func tokenizeFile(sourceFile string, out io.Writer) error {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s for tokenizing: %w", sourceFile, err)
	}
	src := cpp.NewFileLineSource(sourceFile, strings.NewReader(string(data)))
	for {
		line, _, ok := cpp.ReadCompleteLine(src)
		if !ok {
			return nil
		}
		for _, tok := range line.All() {
			fmt.Fprintf(out, "%s %q %s\n", tok.Kind, tok.Text, tok.Pos)
		}
	}
}

func main() {
	flag.Usage = printUsage
	preprocessOnly := flag.Bool("E", false, "Preprocess only, print the resulting tokens.")
	tokenizeOnly := flag.Bool("T", false, "Tokenize only, without macro expansion (for debugging).")
	version := flag.Bool("version", false, "Print version info and exit.")
	outputPath := flag.String("o", "-", "File to write output to, - for stdout.")
	includePaths := flag.String("I", "", "A ; separated list of system include search paths.")
	var defines stringList
	flag.Var(&defines, "D", "Define NAME or NAME=VALUE, may be repeated.")
	flag.Parse()

	if *version {
		printVersion()
		return
	}
	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	input := flag.Args()[0]
	var output io.WriteCloser
	var err error
	if *outputPath == "-" {
		output = os.Stdout
	} else {
		output, err = os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open output file: %s\n", err)
			os.Exit(1)
		}
	}

	if *tokenizeOnly {
		err = tokenizeFile(input, output)
	} else if *preprocessOnly {
		err = emitPreprocessed(input, *includePaths, defines, output)
	} else {
		err = dumpTokens(input, *includePaths, defines, output)
	}
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}
