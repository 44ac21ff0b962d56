package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/token"
)

// readNumber scans an integer or floating constant. A malformed constant,
// including one with a suffix, becomes a single ILLEGAL token covering the
// whole run of letters, digits and periods so the next token starts on a
// clean boundary.
func (l *Lexer) readNumber(tok *token.Token) {
	start := l.s.off
	typ, msg := l.scanNumber()
	if msg == "" && (isLetter(l.s.ch) || isDigit(l.s.ch) || l.s.ch == '.') {
		msg = l.badTail(typ, start)
	}
	if msg != "" {
		l.skipNumberTail()
		tok.Type = token.ILLEGAL
		tok.Literal = l.s.text(start)
		tok.Err = msg
		return
	}

	tok.Literal = l.s.text(start)
	tok.Type = typ
	switch typ {
	case token.INT:
		v, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err == nil {
			tok.Value = v
			return
		}
		// Hexadecimal and octal constants may use the full unsigned range.
		if len(tok.Literal) > 1 && tok.Literal[0] == '0' {
			if u, err := strconv.ParseUint(tok.Literal, 0, 64); err == nil {
				tok.Value = u
				return
			}
		}
		tok.Type = token.ILLEGAL
		tok.Err = "integer literal out of range"
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if errors.Is(err, strconv.ErrRange) {
			l.r.Warnf(diag.Lexical, tok.Pos, tok.Literal, "floating constant out of range")
		}
		tok.Value = v
	}
}

// scanNumber consumes the longest well-formed prefix of a constant and
// returns its type, or a message describing why it is malformed.
func (l *Lexer) scanNumber() (token.Type, string) {
	if l.s.ch == '.' {
		l.s.next()
		if !isDigit(l.s.ch) {
			return token.ILLEGAL, "floating constant is missing an integer or fraction part"
		}
		l.digits()
		return l.exponent()
	}

	if l.s.ch == '0' && (l.s.peek(1) == 'x' || l.s.peek(1) == 'X') {
		l.s.next()
		l.s.next()
		if !isHexDigit(l.s.ch) {
			return token.ILLEGAL, "hexadecimal constant has no digits"
		}
		for isHexDigit(l.s.ch) {
			l.s.next()
		}
		return token.INT, ""
	}

	start := l.s.off
	l.digits()
	switch {
	case l.s.ch == '.':
		l.s.next()
		l.digits()
		return l.exponent()
	case isExponent(l.s.ch):
		return l.exponent()
	}

	lit := l.s.text(start)
	if len(lit) > 1 && lit[0] == '0' {
		if i := strings.IndexAny(lit, "89"); i >= 0 {
			return token.ILLEGAL, fmt.Sprintf("invalid digit %q in octal constant", lit[i])
		}
	}
	return token.INT, ""
}

// exponent scans an optional exponent of a floating constant.
func (l *Lexer) exponent() (token.Type, string) {
	if !isExponent(l.s.ch) {
		return token.FLOAT, ""
	}
	l.s.next()
	if l.s.ch == '+' || l.s.ch == '-' {
		l.s.next()
	}
	if !isDigit(l.s.ch) {
		return token.ILLEGAL, "exponent has no digits"
	}
	l.digits()
	if l.s.ch == '.' {
		return token.ILLEGAL, "exponent must be an integer"
	}
	return token.FLOAT, ""
}

func (l *Lexer) digits() {
	for isDigit(l.s.ch) {
		l.s.next()
	}
}

// badTail explains what is wrong with a constant that runs straight into
// letters, digits or a period.
func (l *Lexer) badTail(typ token.Type, start int) string {
	if l.s.ch == '.' {
		return "malformed numeric constant"
	}
	i := l.s.off
	for i < len(l.s.src) && (isLetter(rune(l.s.src[i])) || isDigit(rune(l.s.src[i]))) {
		i++
	}
	tail := string(l.s.src[l.s.off:i])
	if strings.Trim(tail, "uUlLfF") == "" {
		return fmt.Sprintf("unsupported suffix %q on numeric constant", tail)
	}
	if typ == token.INT && isDigit(rune(l.s.src[start])) && !strings.ContainsAny(l.s.text(start), "xX") {
		return "identifier cannot start with a digit"
	}
	return fmt.Sprintf("invalid character %q in numeric constant", tail[0])
}

// skipNumberTail consumes the rest of a malformed constant.
func (l *Lexer) skipNumberTail() {
	for {
		switch ch := l.s.ch; {
		case isLetter(ch), isDigit(ch), ch == '.':
			l.s.next()
		case (ch == '+' || ch == '-') && l.s.off > 0 && isExponent(rune(l.s.src[l.s.off-1])):
			l.s.next()
		default:
			return
		}
	}
}
