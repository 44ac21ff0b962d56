package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/token"
)

// Lexer holds the state for tokenizing C source.
type Lexer struct {
	s *stream
	r *diag.Reporter

	prev token.Type // type of the last token returned
	bol  bool       // nothing but blanks since the start of the line
	done bool       // end of input reached, or lexing stopped on a fatal error
}

type config struct {
	filename string
	reporter *diag.Reporter
}

// Option configures a Lexer.
type Option func(*config)

// Filename sets the file name recorded in token positions.
func Filename(name string) Option {
	return func(c *config) { c.filename = name }
}

// Reporter makes the lexer record its diagnostics in r, typically shared
// with the parser.
func Reporter(r *diag.Reporter) Option {
	return func(c *config) { c.reporter = r }
}

// New creates and returns a new Lexer over input.
func New(input []byte, opts ...Option) *Lexer {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.reporter == nil {
		c.reporter = diag.NewReporter(0)
	}
	return &Lexer{s: newStream(c.filename, input), r: c.reporter, bol: true}
}

// Diagnostics returns the diagnostics recorded in the lexer's reporter.
func (l *Lexer) Diagnostics() diag.List { return l.r.List() }

// Reporter returns the reporter the lexer records its diagnostics in.
func (l *Lexer) Reporter() *diag.Reporter { return l.r }

// NextToken scans the input and returns the next token. Once the end of
// input is reached every call returns an EOF token at the same position.
func (l *Lexer) NextToken() token.Token {
	if l.done || !l.skipTrivia() {
		l.done = true
		return token.Token{Type: token.EOF, Pos: l.s.position(l.s.off)}
	}

	start := l.s.off
	tok := token.Token{Pos: l.s.position(start)}
	switch ch := l.s.ch; {
	case ch == eof:
		l.done = true
		tok.Type = token.EOF
		return tok
	case isLetter(ch):
		tok.Literal = l.readIdentifier()
		tok.Type = token.LookupIdent(tok.Literal)
	case isDigit(ch), ch == '.' && isDigit(rune(l.s.peek(1))):
		l.readNumber(&tok)
	case ch == '.' && isExponent(rune(l.s.peek(1))) && !l.afterOperand():
		l.readNumber(&tok)
	case ch == '\'':
		l.readCharLiteral(&tok)
	case ch == '"':
		l.readStringLiteral(&tok)
	default:
		l.readOperator(&tok)
	}

	if tok.Type == token.ILLEGAL {
		l.r.Errorf(diag.Lexical, tok.Pos, tok.Literal, "%s", tok.Err)
	}
	l.prev = tok.Type
	l.bol = false
	return tok
}

// skipTrivia skips blanks, comments, line continuations and preprocessor
// lines. It returns false if an unterminated block comment ended the input.
func (l *Lexer) skipTrivia() bool {
	for {
		switch l.s.ch {
		case '\n':
			l.bol = true
			l.s.next()
		case ' ', '\t', '\r', '\f', '\v':
			l.s.next()
		case '\\':
			if !l.skipContinuation() {
				return true
			}
		case '#':
			if !l.bol {
				return true
			}
			l.skipDirective()
		case '/':
			switch l.s.peek(1) {
			case '/':
				for l.s.ch != '\n' && l.s.ch != eof {
					l.s.next()
				}
			case '*':
				if !l.skipBlockComment() {
					return false
				}
			default:
				return true
			}
		default:
			return true
		}
	}
}

// skipContinuation skips a backslash directly followed by a newline.
func (l *Lexer) skipContinuation() bool {
	switch {
	case l.s.peek(1) == '\n':
		l.s.next()
		l.s.next()
	case l.s.peek(1) == '\r' && l.s.peek(2) == '\n':
		l.s.next()
		l.s.next()
		l.s.next()
	default:
		return false
	}
	return true
}

// skipBlockComment skips a /* */ comment. Comments do not nest.
func (l *Lexer) skipBlockComment() bool {
	start := l.s.off
	l.s.next() // consume '/'
	l.s.next() // consume '*'
	for l.s.ch != eof {
		if l.s.ch == '*' && l.s.peek(1) == '/' {
			l.s.next()
			l.s.next()
			return true
		}
		l.s.next()
	}
	l.r.Report(diag.Diagnostic{
		Severity: diag.Fatal,
		Category: diag.Lexical,
		Pos:      l.s.position(start),
		Lexeme:   "/*",
		Message:  "unterminated block comment",
	})
	return false
}

// skipDirective skips a preprocessor line. Macro expansion is not
// supported, so the line is reported and ignored.
func (l *Lexer) skipDirective() {
	start := l.s.off
	for l.s.ch != '\n' && l.s.ch != eof {
		if l.s.ch == '\\' && l.skipContinuation() {
			continue
		}
		l.s.next()
	}
	line := strings.TrimSpace(l.s.text(start))
	name := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if i := strings.IndexAny(name, " \t("); i >= 0 {
		name = name[:i]
	}
	l.r.Warnf(diag.Lexical, l.s.position(start), line, "preprocessor directive #%s ignored", name)
}

func (l *Lexer) readIdentifier() string {
	start := l.s.off
	for isLetter(l.s.ch) || isDigit(l.s.ch) {
		l.s.next()
	}
	return l.s.text(start)
}

// readOperator matches the longest operator or punctuator at the current
// position. Anything else becomes a one character ILLEGAL token.
func (l *Lexer) readOperator(tok *token.Token) {
	for n := token.MaxOperatorLen; n > 0; n-- {
		lit := l.s.lookahead(n)
		if len(lit) < n {
			continue
		}
		if typ, ok := token.LookupOperator(lit); ok {
			for range n {
				l.s.next()
			}
			tok.Type = typ
			tok.Literal = lit
			return
		}
	}

	ch := l.s.ch
	start := l.s.off
	l.s.next()
	tok.Type = token.ILLEGAL
	tok.Literal = l.s.text(start)
	switch {
	case ch == utf8.RuneError:
		tok.Err = "invalid UTF-8 encoding"
	case ch == '\\':
		tok.Err = "misplaced '\\'"
	default:
		tok.Err = fmt.Sprintf("unexpected character %q", ch)
	}
}

// afterOperand reports whether the previous token can end an operand, in
// which case a following '.' is member access.
func (l *Lexer) afterOperand() bool {
	switch l.prev {
	case token.IDENT, token.INT, token.FLOAT, token.CHAR, token.STRING,
		token.RPAREN, token.RBRACK, token.TRUE, token.FALSE, token.NULL:
		return true
	}
	return false
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isExponent(ch rune) bool {
	return ch == 'e' || ch == 'E'
}
