package cfront

import (
	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/parser"
)

// Option configures Tokenize, Parse, Check and Format.
type Option func(*options)

type options struct {
	filename  string
	maxErrors int
	maxDepth  int
	indent    *int
}

func newOptions(opts []Option) *options {
	o := &options{
		maxErrors: diag.DefaultLimit,
		maxDepth:  parser.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Filename sets the file name recorded in token and diagnostic positions.
func Filename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// MaxErrors sets the number of errors after which processing stops with a
// "too many errors" diagnostic. The default is 100; zero or less means no
// limit.
func MaxErrors(n int) Option {
	return func(o *options) {
		o.maxErrors = n
	}
}

// MaxDepth sets the maximum nesting depth of statements and expressions.
// This prevents stack overflows on pathological input. Values below one
// keep the default of 1000.
func MaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// Indent sets the number of spaces per indentation level used by Format.
// The default is 4; zero disables indentation.
func Indent(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.indent = &n
		}
	}
}
