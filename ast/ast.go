// Package ast declares the types used to represent syntax trees for C
// source files.
//
// Every node embeds the token it starts at. Its String method renders a
// position-free S-expression, so two trees built from differently laid out
// source compare equal when their String results do.
package ast

import (
	"strings"

	"github.com/KimNorgaard/go-cfront/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token associated with the node.
	TokenLiteral() string
	// Pos returns the position of the first token of the node.
	Pos() token.Position
	// String returns a string representation of the node.
	String() string
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Type is a type expression.
type Type interface {
	Node
	typeNode()
}

// sexpr joins head and parts into a parenthesised list. Nil parts, passed as
// empty strings, print as "_".
func sexpr(head string, parts ...string) string {
	var out strings.Builder
	out.WriteString("(")
	out.WriteString(head)
	for _, p := range parts {
		out.WriteString(" ")
		if p == "" {
			p = "_"
		}
		out.WriteString(p)
	}
	out.WriteString(")")
	return out.String()
}

func str(n Node) string {
	if isNil(n) {
		return ""
	}
	return n.String()
}

func list[T Node](nodes []T) []string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return parts
}

// Program is the root node of a translation unit.
type Program struct {
	Decls []Decl
}

// TokenLiteral returns the literal value of the token associated with the node.
func (p *Program) TokenLiteral() string {
	if len(p.Decls) > 0 {
		return p.Decls[0].TokenLiteral()
	}
	return ""
}

// Pos returns the position of the first declaration.
func (p *Program) Pos() token.Position {
	if len(p.Decls) > 0 {
		return p.Decls[0].Pos()
	}
	return token.Position{}
}

// String returns a string representation of the node.
func (p *Program) String() string { return sexpr("program", list(p.Decls)...) }

// ---------------------------------------------------------------------------
// Declarations

// FunctionDecl is a function definition, or a prototype when Body is nil.
// Prototypes may also appear among the statements of a block.
type FunctionDecl struct {
	Token  token.Token // first token of the return type
	Type   Type        // return type
	Name   *Identifier
	Params []*Param
	Body   *Block
}

func (d *FunctionDecl) declNode()            {}
func (d *FunctionDecl) stmtNode()            {}
func (d *FunctionDecl) TokenLiteral() string { return d.Token.Literal }
func (d *FunctionDecl) Pos() token.Position  { return d.Token.Pos }
func (d *FunctionDecl) String() string {
	body := ";"
	if d.Body != nil {
		body = d.Body.String()
	}
	return sexpr("func", str(d.Type), str(d.Name), sexpr("params", list(d.Params)...), body)
}

// Param is a function parameter. Name is nil in unnamed prototype parameters.
type Param struct {
	Token token.Token
	Type  Type
	Name  *Identifier
}

func (p *Param) TokenLiteral() string { return p.Token.Literal }
func (p *Param) Pos() token.Position  { return p.Token.Pos }
func (p *Param) String() string {
	if p.Name == nil {
		return sexpr("param", str(p.Type))
	}
	return sexpr("param", str(p.Type), p.Name.String())
}

// VarDecl declares a single variable. A declaration with several
// declarators produces one VarDecl per name.
type VarDecl struct {
	Token token.Token // first token of the type specifiers
	Type  Type
	Name  *Identifier
	Init  Expr // nil if there is no initializer
}

func (d *VarDecl) declNode()            {}
func (d *VarDecl) stmtNode()            {}
func (d *VarDecl) TokenLiteral() string { return d.Token.Literal }
func (d *VarDecl) Pos() token.Position  { return d.Token.Pos }
func (d *VarDecl) String() string {
	if d.Init == nil {
		return sexpr("var", str(d.Type), str(d.Name))
	}
	return sexpr("var", str(d.Type), str(d.Name), d.Init.String())
}

// StructDecl defines a struct or union type.
type StructDecl struct {
	Token  token.Token // the struct or union keyword
	Union  bool
	Name   *Identifier // nil for an anonymous definition
	Fields []*VarDecl
}

func (d *StructDecl) declNode()            {}
func (d *StructDecl) stmtNode()            {}
func (d *StructDecl) TokenLiteral() string { return d.Token.Literal }
func (d *StructDecl) Pos() token.Position  { return d.Token.Pos }
func (d *StructDecl) String() string {
	return sexpr(d.Token.Literal, append([]string{str(d.Name)}, list(d.Fields)...)...)
}

// ---------------------------------------------------------------------------
// Types

// BasicType is a sequence of type keywords such as "unsigned int".
type BasicType struct {
	Token token.Token
	Names []string
}

func (t *BasicType) typeNode()            {}
func (t *BasicType) TokenLiteral() string { return t.Token.Literal }
func (t *BasicType) Pos() token.Position  { return t.Token.Pos }
func (t *BasicType) String() string       { return strings.Join(t.Names, " ") }

// PointerType is a pointer to Elem.
type PointerType struct {
	Token token.Token // the '*' token
	Elem  Type
}

func (t *PointerType) typeNode()            {}
func (t *PointerType) TokenLiteral() string { return t.Token.Literal }
func (t *PointerType) Pos() token.Position  { return t.Token.Pos }
func (t *PointerType) String() string       { return sexpr("ptr", str(t.Elem)) }

// ArrayType is an array of Elem. Len is nil for "[]".
type ArrayType struct {
	Token token.Token // the '[' token
	Elem  Type
	Len   Expr
}

func (t *ArrayType) typeNode()            {}
func (t *ArrayType) TokenLiteral() string { return t.Token.Literal }
func (t *ArrayType) Pos() token.Position  { return t.Token.Pos }
func (t *ArrayType) String() string {
	if t.Len == nil {
		return sexpr("array", str(t.Elem))
	}
	return sexpr("array", str(t.Elem), t.Len.String())
}

// StructType refers to a struct or union by tag. Def is set when the type
// is defined where it is used, as in a member, parameter or type name.
type StructType struct {
	Token token.Token // the struct or union keyword
	Union bool
	Name  *Identifier
	Def   *StructDecl
}

func (t *StructType) typeNode()            {}
func (t *StructType) TokenLiteral() string { return t.Token.Literal }
func (t *StructType) Pos() token.Position  { return t.Token.Pos }
func (t *StructType) String() string {
	if t.Def != nil {
		return t.Def.String()
	}
	if t.Name == nil {
		return t.Token.Literal
	}
	return t.Token.Literal + " " + t.Name.String()
}

// ---------------------------------------------------------------------------
// Statements

// Block is a braced statement list.
type Block struct {
	Token token.Token // the '{' token
	Stmts []Stmt
}

func (s *Block) stmtNode()            {}
func (s *Block) TokenLiteral() string { return s.Token.Literal }
func (s *Block) Pos() token.Position  { return s.Token.Pos }
func (s *Block) String() string       { return sexpr("block", list(s.Stmts)...) }

// If is an if statement. Else is nil without an else branch.
type If struct {
	Token token.Token
	Cond  Expr
	Then  Stmt
	Else  Stmt
}

func (s *If) stmtNode()            {}
func (s *If) TokenLiteral() string { return s.Token.Literal }
func (s *If) Pos() token.Position  { return s.Token.Pos }
func (s *If) String() string {
	if s.Else == nil {
		return sexpr("if", str(s.Cond), str(s.Then))
	}
	return sexpr("if", str(s.Cond), str(s.Then), s.Else.String())
}

// While is a while loop.
type While struct {
	Token token.Token
	Cond  Expr
	Body  Stmt
}

func (s *While) stmtNode()            {}
func (s *While) TokenLiteral() string { return s.Token.Literal }
func (s *While) Pos() token.Position  { return s.Token.Pos }
func (s *While) String() string       { return sexpr("while", str(s.Cond), str(s.Body)) }

// DoWhile is a do-while loop.
type DoWhile struct {
	Token token.Token
	Body  Stmt
	Cond  Expr
}

func (s *DoWhile) stmtNode()            {}
func (s *DoWhile) TokenLiteral() string { return s.Token.Literal }
func (s *DoWhile) Pos() token.Position  { return s.Token.Pos }
func (s *DoWhile) String() string       { return sexpr("do", str(s.Body), str(s.Cond)) }

// For is a for loop. Init holds either one ExprStmt or the VarDecls of a
// declaration; Cond and Post may be nil.
type For struct {
	Token token.Token
	Init  []Stmt
	Cond  Expr
	Post  Expr
	Body  Stmt
}

func (s *For) stmtNode()            {}
func (s *For) TokenLiteral() string { return s.Token.Literal }
func (s *For) Pos() token.Position  { return s.Token.Pos }
func (s *For) String() string {
	return sexpr("for", sexpr("init", list(s.Init)...), str(s.Cond), str(s.Post), str(s.Body))
}

// Switch is a switch statement.
type Switch struct {
	Token token.Token
	Tag   Expr
	Body  Stmt
}

func (s *Switch) stmtNode()            {}
func (s *Switch) TokenLiteral() string { return s.Token.Literal }
func (s *Switch) Pos() token.Position  { return s.Token.Pos }
func (s *Switch) String() string       { return sexpr("switch", str(s.Tag), str(s.Body)) }

// Case is a case or default label together with the statements that follow
// it up to the next label. Value is nil for default.
type Case struct {
	Token token.Token
	Value Expr
	Body  []Stmt
}

func (s *Case) stmtNode()            {}
func (s *Case) TokenLiteral() string { return s.Token.Literal }
func (s *Case) Pos() token.Position  { return s.Token.Pos }
func (s *Case) String() string {
	if s.Value == nil {
		return sexpr("default", list(s.Body)...)
	}
	return sexpr("case", append([]string{s.Value.String()}, list(s.Body)...)...)
}

// Return is a return statement. Value may be nil.
type Return struct {
	Token token.Token
	Value Expr
}

func (s *Return) stmtNode()            {}
func (s *Return) TokenLiteral() string { return s.Token.Literal }
func (s *Return) Pos() token.Position  { return s.Token.Pos }
func (s *Return) String() string {
	if s.Value == nil {
		return sexpr("return")
	}
	return sexpr("return", s.Value.String())
}

// Break is a break statement.
type Break struct {
	Token token.Token
}

func (s *Break) stmtNode()            {}
func (s *Break) TokenLiteral() string { return s.Token.Literal }
func (s *Break) Pos() token.Position  { return s.Token.Pos }
func (s *Break) String() string       { return "(break)" }

// Continue is a continue statement.
type Continue struct {
	Token token.Token
}

func (s *Continue) stmtNode()            {}
func (s *Continue) TokenLiteral() string { return s.Token.Literal }
func (s *Continue) Pos() token.Position  { return s.Token.Pos }
func (s *Continue) String() string       { return "(continue)" }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Token token.Token // the first token of the expression
	X     Expr
}

func (s *ExprStmt) stmtNode()            {}
func (s *ExprStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ExprStmt) Pos() token.Position  { return s.Token.Pos }
func (s *ExprStmt) String() string       { return sexpr("expr", str(s.X)) }

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Token token.Token
}

func (s *EmptyStmt) stmtNode()            {}
func (s *EmptyStmt) TokenLiteral() string { return s.Token.Literal }
func (s *EmptyStmt) Pos() token.Position  { return s.Token.Pos }
func (s *EmptyStmt) String() string       { return "(empty)" }

// ---------------------------------------------------------------------------
// Expressions

// BinaryExpr is a binary operation, including assignments and the comma
// operator.
type BinaryExpr struct {
	Token token.Token // the operator token
	Op    token.Type
	X     Expr
	Y     Expr
}

func (e *BinaryExpr) exprNode()            {}
func (e *BinaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *BinaryExpr) Pos() token.Position  { return e.X.Pos() }
func (e *BinaryExpr) String() string       { return sexpr(string(e.Op), str(e.X), str(e.Y)) }

// UnaryExpr is a prefix operation, or a postfix ++ or -- when Postfix is set.
type UnaryExpr struct {
	Token   token.Token // the operator token
	Op      token.Type
	X       Expr
	Postfix bool
}

func (e *UnaryExpr) exprNode()            {}
func (e *UnaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *UnaryExpr) Pos() token.Position {
	if e.Postfix {
		return e.X.Pos()
	}
	return e.Token.Pos
}
func (e *UnaryExpr) String() string {
	if e.Postfix {
		return sexpr("post"+string(e.Op), str(e.X))
	}
	return sexpr(string(e.Op), str(e.X))
}

// Call is a function call.
type Call struct {
	Token token.Token // the '(' token
	Fun   Expr
	Args  []Expr
}

func (e *Call) exprNode()            {}
func (e *Call) TokenLiteral() string { return e.Token.Literal }
func (e *Call) Pos() token.Position  { return e.Fun.Pos() }
func (e *Call) String() string {
	return sexpr("call", append([]string{str(e.Fun)}, list(e.Args)...)...)
}

// Index is an array subscript.
type Index struct {
	Token token.Token // the '[' token
	X     Expr
	Index Expr
}

func (e *Index) exprNode()            {}
func (e *Index) TokenLiteral() string { return e.Token.Literal }
func (e *Index) Pos() token.Position  { return e.X.Pos() }
func (e *Index) String() string       { return sexpr("index", str(e.X), str(e.Index)) }

// Member selects a field with '.' or, when Arrow is set, '->'.
type Member struct {
	Token token.Token
	X     Expr
	Name  *Identifier
	Arrow bool
}

func (e *Member) exprNode()            {}
func (e *Member) TokenLiteral() string { return e.Token.Literal }
func (e *Member) Pos() token.Position  { return e.X.Pos() }
func (e *Member) String() string       { return sexpr(e.Token.Literal, str(e.X), str(e.Name)) }

// Ternary is a conditional expression.
type Ternary struct {
	Token token.Token // the '?' token
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (e *Ternary) exprNode()            {}
func (e *Ternary) TokenLiteral() string { return e.Token.Literal }
func (e *Ternary) Pos() token.Position  { return e.Cond.Pos() }
func (e *Ternary) String() string       { return sexpr("?", str(e.Cond), str(e.Then), str(e.Else)) }

// Cast converts X to Type.
type Cast struct {
	Token token.Token // the '(' token
	Type  Type
	X     Expr
}

func (e *Cast) exprNode()            {}
func (e *Cast) TokenLiteral() string { return e.Token.Literal }
func (e *Cast) Pos() token.Position  { return e.Token.Pos }
func (e *Cast) String() string       { return sexpr("cast", str(e.Type), str(e.X)) }

// Sizeof is the size of a type or of an expression. Exactly one of Type and
// X is set.
type Sizeof struct {
	Token token.Token
	Type  Type
	X     Expr
}

func (e *Sizeof) exprNode()            {}
func (e *Sizeof) TokenLiteral() string { return e.Token.Literal }
func (e *Sizeof) Pos() token.Position  { return e.Token.Pos }
func (e *Sizeof) String() string {
	if e.Type != nil {
		return sexpr("sizeof", sexpr("type", e.Type.String()))
	}
	return sexpr("sizeof", str(e.X))
}

// InitList is a brace-enclosed initializer.
type InitList struct {
	Token token.Token // the '{' token
	Elems []Expr
}

func (e *InitList) exprNode()            {}
func (e *InitList) TokenLiteral() string { return e.Token.Literal }
func (e *InitList) Pos() token.Position  { return e.Token.Pos }
func (e *InitList) String() string       { return sexpr("init", list(e.Elems)...) }

// Literal is a constant: an integer, float, character or string literal,
// or one of true, false and NULL.
type Literal struct {
	Token token.Token
	Kind  token.Type
	Value any // decoded value, nil for NULL
}

func (e *Literal) exprNode()            {}
func (e *Literal) TokenLiteral() string { return e.Token.Literal }
func (e *Literal) Pos() token.Position  { return e.Token.Pos }
func (e *Literal) String() string       { return e.Token.Literal }

// Identifier is a name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (e *Identifier) exprNode()            {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) Pos() token.Position  { return e.Token.Pos }
func (e *Identifier) String() string       { return e.Value }
