// Package parser builds an AST from the token stream of a lexer. It is a
// recursive descent parser; expressions are parsed by precedence climbing.
//
// Syntax errors do not stop the parser. Each one is recorded in the
// lexer's diagnostic reporter, then the parser skips ahead to the next
// statement or declaration boundary and carries on.
package parser

import (
	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/lexer"
	"github.com/KimNorgaard/go-cfront/token"
)

// DefaultMaxDepth is the nesting depth at which parsing gives up.
const DefaultMaxDepth = 1000

type prefixParseFn func() ast.Expr

// Parser holds the state of the parser.
type Parser struct {
	l *lexer.Lexer
	r *diag.Reporter

	prevToken token.Token // last consumed token
	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn

	depth    int
	maxDepth int
	halted   bool
}

// Option configures a Parser.
type Option func(*Parser)

// MaxDepth sets the maximum nesting depth of statements and expressions.
// Values below one are ignored.
func MaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// New creates a new parser reading from l. Diagnostics are recorded in the
// lexer's reporter.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:        l,
		r:        l.Reporter(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	for _, t := range []token.Type{token.INT, token.FLOAT, token.CHAR, token.STRING, token.TRUE, token.FALSE, token.NULL} {
		p.registerPrefix(t, p.parseLiteral)
	}
	for _, t := range []token.Type{token.INC, token.DEC, token.ADD, token.SUB, token.NOT, token.BNOT, token.MUL, token.AND} {
		p.registerPrefix(t, p.parsePrefixExpression)
	}
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.SIZEOF, p.parseSizeof)
	p.registerPrefix(token.ILLEGAL, p.parseIllegal)

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram parses the whole input and returns the AST together with
// every lexical and syntax diagnostic, ordered by position. The AST holds
// all constructs that could be parsed, even when errors were found.
func (p *Parser) ParseProgram() (*ast.Program, diag.List) {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		start := p.curToken.Pos.Offset
		program.Decls = append(program.Decls, p.parseDeclaration()...)
		p.ensureProgress(start)
	}
	return program, p.r.List()
}

// The contract for all parse functions is that they are entered with
// p.curToken being the first token of the construct, and they return with
// p.curToken pointing to the token after the construct.

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	if p.halted || p.r.Full() {
		p.halt()
		return
	}
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// halt makes the parser see the end of input from now on.
func (p *Parser) halt() {
	p.halted = true
	eof := token.Token{Type: token.EOF, Pos: p.curToken.Pos}
	p.curToken = eof
	p.peekToken = eof
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// expect consumes the current token if it has type t and reports a syntax
// error naming what otherwise.
func (p *Parser) expect(t token.Type, what string) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorExpected(what)
	return false
}

// errorExpected reports that what was expected at the current token.
// Illegal tokens were already reported by the lexer and are not reported
// again, and nothing is reported once the parser has halted.
func (p *Parser) errorExpected(what string) {
	if p.halted || p.curTokenIs(token.ILLEGAL) {
		return
	}
	p.r.Errorf(diag.Syntax, p.curToken.Pos, p.curToken.Literal, "expected %s, found %s", what, p.curToken)
}

// enter increments the nesting depth. It returns false, after halting the
// parser, once the maximum depth is exceeded.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth <= p.maxDepth {
		return true
	}
	if !p.halted {
		p.r.Report(diag.Diagnostic{
			Severity: diag.Fatal,
			Category: diag.Syntax,
			Pos:      p.curToken.Pos,
			Lexeme:   p.curToken.Literal,
			Message:  "maximum nesting depth exceeded",
		})
		p.halt()
	}
	return false
}

func (p *Parser) leave() { p.depth-- }

// ensureProgress consumes the current token if nothing was consumed since
// the token at offset start, so every parse loop terminates.
func (p *Parser) ensureProgress(start int) {
	if !p.curTokenIs(token.EOF) && p.curToken.Pos.Offset == start {
		p.nextToken()
	}
}

// synchronize skips tokens after a syntax error. It stops after a ';' or
// after the '}' closing a brace opened while skipping, and before a '}'
// closing the enclosing block or a statement or declaration keyword that
// starts a line.
func (p *Parser) synchronize() {
	depth := 0
	for {
		switch p.curToken.Type {
		case token.EOF:
			return
		case token.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		default:
			if depth == 0 && p.startsLine() && isSyncKeyword(p.curToken.Type) {
				return
			}
		}
		p.nextToken()
	}
}

// startsLine reports whether the current token is the first on its line.
func (p *Parser) startsLine() bool {
	return !p.prevToken.Pos.IsValid() || p.curToken.Pos.Line > p.prevToken.Pos.Line
}

func isSyncKeyword(t token.Type) bool {
	if t.IsTypeKeyword() {
		return true
	}
	switch t {
	case token.STRUCT, token.UNION, token.IF, token.WHILE, token.DO, token.FOR, token.SWITCH,
		token.RETURN, token.BREAK, token.CONTINUE, token.CASE, token.DEFAULT:
		return true
	}
	return false
}
