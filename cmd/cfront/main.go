// Command cfront tokenizes, parses, formats and graphs C source files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/KimNorgaard/go-cfront"
	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/formatter"
)

const (
	appName     = "cfront"
	historyFile = ".cfront_history"
	promptMain  = "c> "
	promptCont  = ".. "
)

// Exit codes.
const (
	exitOK    = 0
	exitDiags = 1
	exitUsage = 2
)

var debug = os.Getenv("CFRONTDEBUG") == "true"

func debugf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix(appName + ": ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitUsage)
	}

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, color: useColor()}
	cmd := os.Args[1]
	switch cmd {
	case "tokens":
		os.Exit(c.cmdTokens(os.Args[2:]))
	case "parse":
		os.Exit(c.cmdParse(os.Args[2:]))
	case "fmt":
		os.Exit(c.cmdFmt(os.Args[2:]))
	case "dot":
		os.Exit(c.cmdDot(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(cfront.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(exitOK)
	default:
		log.Printf("unknown command %q", cmd)
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `cfront %s

Usage:
  %s tokens [-format table|yaml] FILE       Print the token stream.
  %s parse  [-format tree|yaml] FILE        Print the syntax tree.
  %s fmt    [-indent N] [-o FILE] FILE      Pretty print a program.
  %s dot    [-o FILE] FILE                  Write the syntax tree as a Graphviz graph.
  %s repl                                   Parse declarations interactively.
  %s version                                Print the version.

FILE may be "-" to read standard input. Diagnostics go to standard error.
Exit status is 0 on success, 1 if errors were found and 2 on usage or I/O
errors. Set CFRONTDEBUG=true to log options and timings.
`, cfront.Version, appName, appName, appName, appName, appName, appName)
}

// cli holds the streams the sub-commands read from and write to.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	color  bool // colour diagnostics on stderr
}

// readInput reads the single file argument of a sub-command.
func (c *cli) readInput(fs *flag.FlagSet) (string, []byte, error) {
	if fs.NArg() != 1 {
		return "", nil, fmt.Errorf("%s: expected one input file, got %d", fs.Name(), fs.NArg())
	}
	name := fs.Arg(0)
	if name == "-" {
		src, err := io.ReadAll(c.stdin)
		return "<stdin>", src, err
	}
	src, err := os.ReadFile(name)
	return name, src, err
}

// createOutput opens the -o file, or standard output when path is empty.
func (c *cli) createOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{c.stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// useColor reports whether diagnostics on standard error may be coloured.
func useColor() bool {
	if os.Getenv("NO_COLOR") != "" || !liner.TerminalSupported() {
		return false
	}
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// report prints diags and returns the exit code they call for.
func (c *cli) report(src []byte, diags diag.List) int {
	if len(diags) > 0 {
		if err := cfront.Report(c.stderr, src, diags, c.color); err != nil {
			log.Print(err)
			return exitUsage
		}
	}
	if diags.HasErrors() {
		return exitDiags
	}
	return exitOK
}

// -----------------------------------------------------------------------------
// tokens
// -----------------------------------------------------------------------------

type tokenRecord struct {
	Token  string `yaml:"token"`
	Lexeme string `yaml:"lexeme"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

func (c *cli) cmdTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	format := fs.String("format", "table", "output format: table or yaml")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	name, src, err := c.readInput(fs)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	debugf("tokens: file=%s format=%s", name, *format)

	start := time.Now()
	toks, diags := cfront.Tokenize(src, cfront.Filename(name))
	debugf("tokens: %d tokens, %d diagnostics in %s", len(toks), len(diags), time.Since(start))

	records := make([]tokenRecord, 0, len(toks))
	for _, tok := range toks {
		records = append(records, tokenRecord{
			Token:  string(tok.Type),
			Lexeme: tok.Literal,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
		})
	}

	switch *format {
	case "table":
		w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Token\tLexeme\tLine#\tColumn#")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.Token, r.Lexeme, r.Line, r.Column)
		}
		if err := w.Flush(); err != nil {
			log.Print(err)
			return exitUsage
		}
	case "yaml":
		if err := writeYAML(c.stdout, records); err != nil {
			log.Print(err)
			return exitUsage
		}
	default:
		log.Printf("tokens: unknown format %q", *format)
		return exitUsage
	}

	return c.report(src, diags)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// -----------------------------------------------------------------------------
// parse
// -----------------------------------------------------------------------------

type parseResult struct {
	AST         string            `yaml:"ast"`
	Diagnostics []diag.Diagnostic `yaml:"diagnostics,omitempty"`
}

func (c *cli) cmdParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	format := fs.String("format", "tree", "output format: tree or yaml")
	maxErrors := fs.Int("max-errors", diag.DefaultLimit, "stop after this many errors (0 means no limit)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	name, src, err := c.readInput(fs)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	debugf("parse: file=%s format=%s max-errors=%d", name, *format, *maxErrors)

	start := time.Now()
	program, diags := cfront.Parse(src, cfront.Filename(name), cfront.MaxErrors(*maxErrors))
	debugf("parse: %d declarations, %d diagnostics in %s", len(program.Decls), len(diags), time.Since(start))

	switch *format {
	case "tree":
		writeTree(c.stdout, program, 0)
	case "yaml":
		res := parseResult{AST: program.String(), Diagnostics: diags}
		if err := writeYAML(c.stdout, res); err != nil {
			log.Print(err)
			return exitUsage
		}
		if diags.HasErrors() {
			return exitDiags
		}
		return exitOK
	default:
		log.Printf("parse: unknown format %q", *format)
		return exitUsage
	}

	return c.report(src, diags)
}

// writeTree prints an indented outline of the tree rooted at n.
func writeTree(w io.Writer, n ast.Node, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), formatter.Label(n))
	for _, c := range ast.Children(n) {
		writeTree(w, c, depth+1)
	}
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func (c *cli) cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	indent := fs.Int("indent", 4, "spaces per indentation level")
	out := fs.String("o", "", "write to `file` instead of standard output")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	name, src, err := c.readInput(fs)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	debugf("fmt: file=%s indent=%d out=%q", name, *indent, *out)

	start := time.Now()
	formatted, err := cfront.Format(src, cfront.Filename(name), cfront.Indent(*indent))
	debugf("fmt: done in %s", time.Since(start))
	if err != nil {
		var diags diag.List
		if errors.As(err, &diags) {
			return c.report(src, diags)
		}
		log.Print(err)
		return exitDiags
	}

	w, err := c.createOutput(*out)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	if _, err := w.Write(formatted); err != nil {
		w.Close()
		log.Print(err)
		return exitUsage
	}
	if err := w.Close(); err != nil {
		log.Print(err)
		return exitUsage
	}
	return exitOK
}

// -----------------------------------------------------------------------------
// dot
// -----------------------------------------------------------------------------

func (c *cli) cmdDot(args []string) int {
	fs := flag.NewFlagSet("dot", flag.ContinueOnError)
	out := fs.String("o", "", "write to `file` instead of standard output")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	name, src, err := c.readInput(fs)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	debugf("dot: file=%s out=%q", name, *out)

	program, diags := cfront.Parse(src, cfront.Filename(name))

	w, err := c.createOutput(*out)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	if err := formatter.WriteDOT(w, program); err != nil {
		w.Close()
		log.Print(err)
		return exitUsage
	}
	if err := w.Close(); err != nil {
		log.Print(err)
		return exitUsage
	}
	return c.report(src, diags)
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Printf("cfront %s\nEnter declarations; the tree of each is printed. Ctrl+D exits.\n", cfront.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	color := liner.TerminalSupported()
	for {
		src, ok := readDeclaration(ln)
		if !ok {
			fmt.Println()
			return exitOK
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		program, diags := cfront.Parse([]byte(src))
		if len(diags) > 0 {
			_ = cfront.Report(os.Stderr, []byte(src), diags, color)
		}
		for _, d := range program.Decls {
			fmt.Println(d.String())
		}
	}
}

// readDeclaration reads lines until they parse or fail for a reason other
// than running out of input. It returns false on end of input.
func readDeclaration(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Print(err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, diags := cfront.Parse([]byte(src))
		if !incomplete([]byte(src), diags) {
			return src, true
		}
	}
}

// incomplete reports whether the only trouble with src is that it ends too
// early: every error sits at the end of input or is an unterminated block
// comment.
func incomplete(src []byte, diags diag.List) bool {
	for _, d := range diags {
		if d.Severity < diag.Error {
			continue
		}
		atEnd := d.Lexeme == "" && d.Pos.Offset == len(src)
		openComment := d.Category == diag.Lexical && d.Lexeme == "/*"
		if !atEnd && !openComment {
			return false
		}
	}
	return diags.HasErrors()
}
