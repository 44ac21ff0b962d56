package cfront

import (
	"bytes"
	"fmt"
	"os"

	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/formatter"
	"github.com/KimNorgaard/go-cfront/internal/lexer"
	"github.com/KimNorgaard/go-cfront/internal/parser"
	"github.com/KimNorgaard/go-cfront/token"
)

// Version is the release of the module.
const Version = "0.3.0"

func (o *options) lexer(src []byte) *lexer.Lexer {
	return lexer.New(src,
		lexer.Filename(o.filename),
		lexer.Reporter(diag.NewReporter(o.maxErrors)),
	)
}

// Tokenize splits src into tokens. The result always ends with a single
// EOF token. Malformed input shows up as ILLEGAL tokens, each matched by a
// diagnostic in the returned list.
func Tokenize(src []byte, opts ...Option) ([]token.Token, diag.List) {
	l := newOptions(opts).lexer(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, l.Diagnostics()
}

// Parse parses src as a C translation unit. It returns the AST of every
// construct that could be parsed together with all lexical and syntax
// diagnostics, ordered by position. The program is never nil.
func Parse(src []byte, opts ...Option) (*ast.Program, diag.List) {
	o := newOptions(opts)
	p := parser.New(o.lexer(src), parser.MaxDepth(o.maxDepth))
	return p.ParseProgram()
}

// ParseFile reads and parses the named file. The file name is recorded in
// positions unless a Filename option overrides it. The error is only
// non-nil if the file could not be read.
func ParseFile(path string, opts ...Option) (*ast.Program, diag.List, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cfront: %w", err)
	}
	program, diags := Parse(src, append([]Option{Filename(path)}, opts...)...)
	return program, diags, nil
}

// Check parses src and returns its errors as a diag.List, or nil if there
// are none. Warnings alone do not make Check fail.
func Check(src []byte, opts ...Option) error {
	_, diags := Parse(src, opts...)
	return diags.Err()
}

// Format parses src and prints it back in canonical layout. Comments and
// preprocessor lines are not preserved. Input with errors is not formatted;
// the diagnostics are returned instead.
func Format(src []byte, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	p := parser.New(o.lexer(src), parser.MaxDepth(o.maxDepth))
	program, diags := p.ParseProgram()
	if err := diags.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := formatter.New(&buf, o.indent).Format(program); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
