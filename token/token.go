package token

import "fmt"

// Type is the type of a token.
type Type string

// Position describes a location in the source.
type Position struct {
	Filename string
	Offset   int // byte offset, starting at 0
	Line     int // line number, starting at 1
	Column   int // column number in bytes, starting at 1
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string // exact source text
	Value   any    // decoded literal value: int64 (uint64 above its range), float64, rune or string
	Pos     Position
	Err     string // reason for an ILLEGAL token
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, INT, FLOAT, CHAR, STRING, ILLEGAL:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	}
	return "'" + t.Literal + "'"
}

// End returns the offset just past the token.
func (t Token) End() int { return t.Pos.Offset + len(t.Literal) }

// Class returns the lexical class of the token.
func (t Token) Class() Class { return t.Type.Class() }

// Radix returns the base of an integer literal: 16 for a 0x prefix, 8 for a
// leading zero and 10 otherwise. It returns 0 for every other token.
func (t Token) Radix() int {
	if t.Type != INT {
		return 0
	}
	lit := t.Literal
	switch {
	case len(lit) > 1 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X'):
		return 16
	case len(lit) > 1 && lit[0] == '0':
		return 8
	}
	return 10
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // An unknown or invalid token
	EOF     Type = "EOF"     // End of input

	// Literals
	IDENT  Type = "IDENT"  // main
	INT    Type = "INT"    // 12345, 017, 0xAF
	FLOAT  Type = "FLOAT"  // 3.14, 2.E-10
	CHAR   Type = "CHAR"   // 'a'
	STRING Type = "STRING" // "abc"

	// Punctuators
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACK    Type = "["
	RBRACK    Type = "]"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	SEMICOLON Type = ";"
	COMMA     Type = ","
	COLON     Type = ":"
	ELLIPSIS  Type = "..."

	// Operators
	PERIOD   Type = "."
	ARROW    Type = "->"
	QUESTION Type = "?"

	ADD Type = "+"
	SUB Type = "-"
	MUL Type = "*"
	QUO Type = "/"
	REM Type = "%"
	AND Type = "&"
	OR  Type = "|"
	XOR Type = "^"
	SHL Type = "<<"
	SHR Type = ">>"

	NOT  Type = "!"
	BNOT Type = "~"
	LAND Type = "&&"
	LOR  Type = "||"
	INC  Type = "++"
	DEC  Type = "--"

	EQL Type = "=="
	NEQ Type = "!="
	LSS Type = "<"
	GTR Type = ">"
	LEQ Type = "<="
	GEQ Type = ">="

	ASSIGN     Type = "="
	ADD_ASSIGN Type = "+="
	SUB_ASSIGN Type = "-="
	MUL_ASSIGN Type = "*="
	QUO_ASSIGN Type = "/="
	REM_ASSIGN Type = "%="
	AND_ASSIGN Type = "&="
	OR_ASSIGN  Type = "|="
	XOR_ASSIGN Type = "^="
	SHL_ASSIGN Type = "<<="
	SHR_ASSIGN Type = ">>="

	// Keywords
	BOOL     Type = "bool"
	BREAK    Type = "break"
	CASE     Type = "case"
	KCHAR    Type = "char"
	CONTINUE Type = "continue"
	DEFAULT  Type = "default"
	DO       Type = "do"
	DOUBLE   Type = "double"
	ELSE     Type = "else"
	FALSE    Type = "false"
	KFLOAT   Type = "float"
	FOR      Type = "for"
	IF       Type = "if"
	KINT     Type = "int"
	LONG     Type = "long"
	NULL     Type = "NULL"
	RETURN   Type = "return"
	SHORT    Type = "short"
	SIGNED   Type = "signed"
	SIZEOF   Type = "sizeof"
	STRUCT   Type = "struct"
	SWITCH   Type = "switch"
	TRUE     Type = "true"
	UNION    Type = "union"
	UNSIGNED Type = "unsigned"
	VOID     Type = "void"
	WHILE    Type = "while"
)

var keywords = map[string]Type{
	"bool":     BOOL,
	"break":    BREAK,
	"case":     CASE,
	"char":     KCHAR,
	"continue": CONTINUE,
	"default":  DEFAULT,
	"do":       DO,
	"double":   DOUBLE,
	"else":     ELSE,
	"false":    FALSE,
	"float":    KFLOAT,
	"for":      FOR,
	"if":       IF,
	"int":      KINT,
	"long":     LONG,
	"NULL":     NULL,
	"return":   RETURN,
	"short":    SHORT,
	"signed":   SIGNED,
	"sizeof":   SIZEOF,
	"struct":   STRUCT,
	"switch":   SWITCH,
	"true":     TRUE,
	"union":    UNION,
	"unsigned": UNSIGNED,
	"void":     VOID,
	"while":    WHILE,
}

// LookupIdent checks the keywords table for an identifier.
// If the identifier is a keyword, it returns the keyword's token type.
// Otherwise, it returns IDENT. The lookup is case-sensitive.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool {
	_, ok := keywords[string(t)]
	return ok
}

// IsTypeKeyword reports whether t names a basic type.
func (t Type) IsTypeKeyword() bool {
	switch t {
	case VOID, KCHAR, SHORT, KINT, LONG, KFLOAT, DOUBLE, BOOL, SIGNED, UNSIGNED:
		return true
	}
	return false
}

// operators lists every operator and punctuator, grouped by length so the
// lexer can try the longest spelling first.
var operators = [...]map[string]Type{
	1: {
		"(": LPAREN, ")": RPAREN, "[": LBRACK, "]": RBRACK, "{": LBRACE, "}": RBRACE,
		";": SEMICOLON, ",": COMMA, ":": COLON, ".": PERIOD, "?": QUESTION,
		"+": ADD, "-": SUB, "*": MUL, "/": QUO, "%": REM,
		"&": AND, "|": OR, "^": XOR, "!": NOT, "~": BNOT,
		"<": LSS, ">": GTR, "=": ASSIGN,
	},
	2: {
		"->": ARROW, "<<": SHL, ">>": SHR, "&&": LAND, "||": LOR, "++": INC, "--": DEC,
		"==": EQL, "!=": NEQ, "<=": LEQ, ">=": GEQ,
		"+=": ADD_ASSIGN, "-=": SUB_ASSIGN, "*=": MUL_ASSIGN, "/=": QUO_ASSIGN,
		"%=": REM_ASSIGN, "&=": AND_ASSIGN, "|=": OR_ASSIGN, "^=": XOR_ASSIGN,
	},
	3: {
		"<<=": SHL_ASSIGN, ">>=": SHR_ASSIGN, "...": ELLIPSIS,
	},
}

// MaxOperatorLen is the length of the longest operator spelling.
const MaxOperatorLen = len(operators) - 1

// LookupOperator returns the operator or punctuator spelled exactly s.
func LookupOperator(s string) (Type, bool) {
	if len(s) == 0 || len(s) > MaxOperatorLen {
		return ILLEGAL, false
	}
	t, ok := operators[len(s)][s]
	return t, ok
}

// Class is the coarse lexical category of a token.
type Class int

const (
	Invalid Class = iota
	EndOfInput
	IntegerLiteral
	FloatLiteral
	CharLiteral
	StringLiteral
	Identifier
	Keyword
	Operator
	Punctuator
)

var classNames = [...]string{
	Invalid:        "invalid",
	EndOfInput:     "end-of-input",
	IntegerLiteral: "integer-literal",
	FloatLiteral:   "float-literal",
	CharLiteral:    "char-literal",
	StringLiteral:  "string-literal",
	Identifier:     "identifier",
	Keyword:        "keyword",
	Operator:       "operator",
	Punctuator:     "punctuator",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Class returns the lexical category of the token type.
func (t Type) Class() Class {
	switch t {
	case ILLEGAL:
		return Invalid
	case EOF:
		return EndOfInput
	case INT:
		return IntegerLiteral
	case FLOAT:
		return FloatLiteral
	case CHAR:
		return CharLiteral
	case STRING:
		return StringLiteral
	case IDENT:
		return Identifier
	case LPAREN, RPAREN, LBRACK, RBRACK, LBRACE, RBRACE, SEMICOLON, COMMA, COLON, ELLIPSIS:
		return Punctuator
	}
	if t.IsKeyword() {
		return Keyword
	}
	if _, ok := LookupOperator(string(t)); ok {
		return Operator
	}
	return Invalid
}
