package lexer

import "github.com/KimNorgaard/go-cfront/token"

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'b':  '\b',
	'r':  '\r',
	'f':  '\f',
	'v':  '\v',
	'a':  '\a',
	'0':  0,
	'\\': '\\',
	'?':  '?',
	'\'': '\'',
	'"':  '"',
}

// readQuoted scans a literal delimited by quote, decoding escape sequences.
// The closing quote is the first unescaped one. A newline or the end of
// input before it leaves the literal unterminated; the token then stops at
// the end of the line and scanning resumes there.
func (l *Lexer) readQuoted(quote rune) (runes []rune, msg string, terminated bool) {
	l.s.next() // consume opening quote
	for {
		switch ch := l.s.ch; ch {
		case quote:
			l.s.next()
			return runes, msg, true
		case '\n', eof:
			return runes, msg, false
		case '\r':
			if l.s.peek(1) == '\n' {
				return runes, msg, false
			}
			runes = append(runes, ch)
			l.s.next()
		case '\\':
			l.s.next()
			if l.s.ch == '\n' || l.s.ch == eof || l.s.ch == '\r' && l.s.peek(1) == '\n' {
				return runes, msg, false
			}
			r, ok := escapes[l.s.ch]
			if !ok {
				if msg == "" {
					msg = "unknown escape sequence '\\" + string(l.s.ch) + "'"
				}
				r = l.s.ch
			}
			runes = append(runes, r)
			l.s.next()
		default:
			runes = append(runes, ch)
			l.s.next()
		}
	}
}

func (l *Lexer) readCharLiteral(tok *token.Token) {
	start := l.s.off
	runes, msg, terminated := l.readQuoted('\'')
	tok.Literal = l.s.text(start)
	switch {
	case !terminated:
		msg = "unterminated character literal"
	case msg != "":
	case len(runes) == 0:
		msg = "empty character literal"
	case len(runes) > 1:
		msg = "multi-character character literal"
	}
	if msg != "" {
		tok.Type = token.ILLEGAL
		tok.Err = msg
		return
	}
	tok.Type = token.CHAR
	tok.Value = runes[0]
}

func (l *Lexer) readStringLiteral(tok *token.Token) {
	start := l.s.off
	runes, msg, terminated := l.readQuoted('"')
	tok.Literal = l.s.text(start)
	if !terminated {
		msg = "unterminated string literal"
	}
	if msg != "" {
		tok.Type = token.ILLEGAL
		tok.Err = msg
		return
	}
	tok.Type = token.STRING
	tok.Value = string(runes)
}
