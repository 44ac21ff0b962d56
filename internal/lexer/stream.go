package lexer

import (
	"unicode/utf8"

	"github.com/KimNorgaard/go-cfront/token"
	mtoken "modernc.org/token"
)

const eof = -1

// stream is the character source of the lexer. It decodes one rune at a
// time from an in-memory buffer and records line starts in a
// modernc.org/token file so offsets can be turned into positions.
type stream struct {
	name string
	src  []byte
	file *mtoken.File

	off int  // offset of ch
	ch  rune // current character, eof at the end of input
	w   int  // width of ch in bytes
}

func newStream(name string, src []byte) *stream {
	s := &stream{name: name, src: src, file: mtoken.NewFile(name, len(src))}
	s.decode()
	return s
}

func (s *stream) decode() {
	if s.off >= len(s.src) {
		s.ch, s.w = eof, 0
		return
	}
	if c := s.src[s.off]; c < utf8.RuneSelf {
		s.ch, s.w = rune(c), 1
		return
	}
	// Invalid encodings decode as utf8.RuneError with a width of one, so a
	// bad byte is consumed on its own.
	s.ch, s.w = utf8.DecodeRune(s.src[s.off:])
}

// next advances to the following character.
func (s *stream) next() {
	if s.ch == eof {
		return
	}
	if s.ch == '\n' {
		s.file.AddLine(s.off + 1)
	}
	s.off += s.w
	s.decode()
}

// peek returns the byte n positions past the current character, or 0 past
// the end of input.
func (s *stream) peek(n int) byte {
	i := s.off + s.w + n - 1
	if s.w == 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// lookahead returns up to n bytes starting at the current character.
func (s *stream) lookahead(n int) string {
	end := min(s.off+n, len(s.src))
	return string(s.src[s.off:end])
}

// text returns the source between start and the current character.
func (s *stream) text(start int) string {
	return string(s.src[start:s.off])
}

// position resolves a byte offset that has already been scanned.
func (s *stream) position(off int) token.Position {
	p := s.file.PositionFor(mtoken.Pos(off+1), false)
	return token.Position{Filename: s.name, Offset: off, Line: p.Line, Column: p.Column}
}
