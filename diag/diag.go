// Package diag collects the lexical and syntax diagnostics produced while
// reading a translation unit.
package diag

import (
	"fmt"
	"sort"

	"github.com/KimNorgaard/go-cfront/token"
)

// Severity ranks a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal // no further tokens can be produced
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText lets encoders print the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Category tells which stage found the problem.
type Category int

const (
	Lexical Category = iota
	Syntax
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText lets encoders print the category by name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Diagnostic represents a single problem found in the source.
type Diagnostic struct {
	Severity Severity       `yaml:"severity"`
	Category Category       `yaml:"category"`
	Pos      token.Position `yaml:"pos"`
	Message  string         `yaml:"message"`
	Lexeme   string         `yaml:"lexeme,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Category, d.Severity, d.Message)
}

// List is an ordered set of diagnostics. It implements the error interface
// so that all problems found in one run can be returned at once.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	}
	return fmt.Sprintf("%s (and %d more)", l[0], len(l)-1)
}

// HasErrors reports whether l holds anything more severe than a warning.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// Err returns l as an error if it holds errors, and nil otherwise.
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// Filter returns the diagnostics of the given category.
func (l List) Filter(c Category) List {
	var out List
	for _, d := range l {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders the list by source offset. Diagnostics at the same offset
// keep the order in which they were reported.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Pos.Offset < l[j].Pos.Offset
	})
}

// DefaultLimit is the number of errors a Reporter accepts by default.
const DefaultLimit = 100

// Reporter accumulates diagnostics up to a limit on the number of errors.
// Once the limit is hit a final diagnostic is appended and every later
// report is dropped; Full tells callers to stop.
type Reporter struct {
	list   List
	limit  int
	errors int
	full   bool
}

// NewReporter returns a Reporter accepting up to limit errors. A limit of
// zero or less means no limit.
func NewReporter(limit int) *Reporter {
	return &Reporter{limit: limit}
}

// Report records d.
func (r *Reporter) Report(d Diagnostic) {
	if r.full {
		return
	}
	r.list = append(r.list, d)
	if d.Severity < Error {
		return
	}
	r.errors++
	if r.limit > 0 && r.errors >= r.limit {
		r.full = true
		r.list = append(r.list, Diagnostic{
			Severity: Fatal,
			Category: d.Category,
			Pos:      d.Pos,
			Message:  fmt.Sprintf("too many errors (%d), giving up", r.errors),
		})
	}
}

// Errorf records an error at pos.
func (r *Reporter) Errorf(c Category, pos token.Position, lexeme, format string, args ...any) {
	r.Report(Diagnostic{Severity: Error, Category: c, Pos: pos, Lexeme: lexeme, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning at pos.
func (r *Reporter) Warnf(c Category, pos token.Position, lexeme, format string, args ...any) {
	r.Report(Diagnostic{Severity: Warning, Category: c, Pos: pos, Lexeme: lexeme, Message: fmt.Sprintf(format, args...)})
}

// Full reports whether the error limit was reached.
func (r *Reporter) Full() bool { return r.full }

// Errors returns the number of errors recorded so far.
func (r *Reporter) Errors() int { return r.errors }

// List returns the recorded diagnostics ordered by position. The
// diagnostic added on reaching the limit stays last.
func (r *Reporter) List() List {
	out := make(List, len(r.list))
	copy(out, r.list)
	if r.full {
		out[:len(out)-1].Sort()
	} else {
		out.Sort()
	}
	return out
}
