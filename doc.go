/*
Package cfront lexes and parses a restricted dialect of C.

The accepted language covers what small teaching programs use: the basic
types (with signed, unsigned, short and long), bool with true and false,
pointers, arrays, struct and union, functions and prototypes, the usual
statements including do, switch and for with a declaration, and the full
C operator set with its precedence. NULL is a literal. Preprocessor lines
are skipped with a warning; macros are not expanded and nothing is type
checked.

The package is built for hostile input. Errors do not stop processing:

  - A malformed literal or stray character becomes a single ILLEGAL token
    and a lexical diagnostic, and lexing resumes right after it.
  - A syntax error is reported once, after which the parser skips to the
    next statement or declaration boundary.
  - The number of errors and the nesting depth are bounded, so every input
    terminates with a diagnostic rather than a crash.

Three entry points cover most uses.

Tokenize returns the token stream:

	toks, diags := cfront.Tokenize(src, cfront.Filename("prog.c"))
	for _, tok := range toks {
		fmt.Println(tok.Pos, tok.Type, tok.Literal)
	}

Parse returns the AST, which is never nil, along with every diagnostic:

	program, diags := cfront.Parse(src)
	if err := diags.Err(); err != nil {
		cfront.Report(os.Stderr, src, diags, false)
	}

Format prints a program in canonical layout, and refuses input with errors:

	out, err := cfront.Format(src, cfront.Indent(2))

The ast package defines the syntax tree. Every node renders as an
S-expression through its String method, which makes trees easy to compare
regardless of source layout.
*/
package cfront
