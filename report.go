package cfront

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-cfront/diag"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[1;31m"
	colorMagenta = "\x1b[1;35m"
	colorGreen   = "\x1b[1;32m"
)

// Report writes every diagnostic in diags to w, each followed by the source
// line it points into and a caret under the offending column:
//
//	x.c:1:5: syntax error: expected identifier, found 'break'
//	   1 | int break = 34;
//	     |     ^~~~~
//
// With color set the severity and the caret are highlighted with ANSI
// escapes.
func Report(w io.Writer, src []byte, diags diag.List, color bool) error {
	lines := strings.Split(string(src), "\n")

	var b strings.Builder
	for _, d := range diags {
		on, off := "", ""
		if color {
			on, off = severityColor(d.Severity), colorReset
		}
		fmt.Fprintf(&b, "%s: %s%s %s:%s %s\n", d.Pos, on, d.Category, d.Severity, off, d.Message)

		line := d.Pos.Line
		if line < 1 || line > len(lines) {
			continue
		}
		text := strings.TrimSuffix(lines[line-1], "\r")
		fmt.Fprintf(&b, "%4d | %s\n", line, text)

		if color {
			on = colorGreen
		}
		fmt.Fprintf(&b, "     | %s%s%s\n", caretPadding(text, d.Pos.Column), on+marker(text, d.Pos.Column, d.Lexeme), off)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func severityColor(s diag.Severity) string {
	if s == diag.Warning {
		return colorMagenta
	}
	return colorRed
}

// caretPadding returns the blanks that move a caret under column col of
// text. Tabs are kept so the caret lines up however wide they are shown.
func caretPadding(text string, col int) string {
	n := col - 1
	if n > len(text) {
		n = len(text)
	}
	if n < 0 {
		n = 0
	}
	pad := []byte(text[:n])
	for i, c := range pad {
		if c != '\t' {
			pad[i] = ' '
		}
	}
	return string(pad)
}

// marker returns the caret with a tail of '~' spanning the rest of lexeme
// on this line.
func marker(text string, col int, lexeme string) string {
	if i := strings.IndexByte(lexeme, '\n'); i >= 0 {
		lexeme = lexeme[:i]
	}
	width := len(lexeme)
	if rest := len(text) - (col - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}
	return "^" + strings.Repeat("~", width-1)
}
