// Package formatter writes ASTs back out, either as C source or as a
// Graphviz graph.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/internal/parser"
	"github.com/KimNorgaard/go-cfront/token"
)

const (
	defaultIndent = 4
)

// Formatter writes a C AST to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// New returns a new formatter that writes to w. A nil indentSpaces selects
// the default of four spaces; zero disables indentation.
func New(w io.Writer, indentSpaces *int) *Formatter {
	spaces := defaultIndent
	if indentSpaces != nil {
		spaces = *indentSpaces
	}
	var indentStr string
	if spaces > 0 {
		indentStr = strings.Repeat(" ", spaces)
	}
	return &Formatter{w: w, indent: indentStr}
}

// Format writes the C source representation of the AST node to the writer.
// A Program is terminated by a newline; other nodes are written as a
// fragment without one.
func (f *Formatter) Format(node ast.Node) error {
	f.err = nil
	f.depth = 0
	switch n := node.(type) {
	case *ast.Program:
		if len(n.Decls) > 0 {
			f.writeList(nodeList(n.Decls), true)
			f.write("\n")
		}
	case ast.Expr:
		f.write(f.expr(n, parser.PrecLowest))
	case ast.Type:
		f.write(f.typeName(n))
	case *ast.Param:
		f.write(f.declaration(n.Type, n.Name))
	default:
		f.writeNode(node)
	}
	return f.err
}

func (f *Formatter) write(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s)
}

func (f *Formatter) fail(format string, args ...any) {
	if f.err == nil {
		f.err = fmt.Errorf("cfront: "+format, args...)
	}
}

func (f *Formatter) writeIndent() {
	f.write(f.indentation())
}

func (f *Formatter) indentation() string {
	return strings.Repeat(f.indent, f.depth)
}

func nodeList[T ast.Node](items []T) []ast.Node {
	out := make([]ast.Node, len(items))
	for i, n := range items {
		out[i] = n
	}
	return out
}

// isDefinition reports whether n is set apart by blank lines at the top
// level.
func isDefinition(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.FunctionDecl:
		return n.Body != nil
	case *ast.StructDecl:
		return true
	}
	return false
}

// writeList writes declarations or statements one per line at the current
// depth, without a newline after the last one. Variables declared with an
// anonymous struct or union are folded back into its definition.
func (f *Formatter) writeList(nodes []ast.Node, topLevel bool) {
	var prev ast.Node
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if prev != nil {
			f.write("\n")
			if topLevel && (isDefinition(n) || isDefinition(prev)) {
				f.write("\n")
			}
		}
		f.writeIndent()
		if sd, ok := n.(*ast.StructDecl); ok && sd.Name == nil {
			vars := anonymousVars(nodes[i+1:])
			f.writeStructDecl(sd, vars)
			i += len(vars)
		} else {
			f.writeNode(n)
		}
		prev = n
	}
}

// anonymousVars returns the leading variables of nodes whose type is built
// on an anonymous struct or union.
func anonymousVars(nodes []ast.Node) []*ast.VarDecl {
	var vars []*ast.VarDecl
	for _, n := range nodes {
		v, ok := n.(*ast.VarDecl)
		if !ok {
			break
		}
		st, ok := baseType(v.Type).(*ast.StructType)
		if !ok || st.Name != nil {
			break
		}
		vars = append(vars, v)
	}
	return vars
}

func baseType(t ast.Type) ast.Type {
	for {
		switch tt := t.(type) {
		case *ast.ArrayType:
			t = tt.Elem
		case *ast.PointerType:
			t = tt.Elem
		default:
			return t
		}
	}
}

func (f *Formatter) writeNode(node ast.Node) {
	if f.err != nil {
		return
	}
	switch n := node.(type) {
	case *ast.FunctionDecl:
		f.write(f.declaration(n.Type, n.Name))
		f.write("(")
		for i, p := range n.Params {
			if i > 0 {
				f.write(", ")
			}
			f.write(f.declaration(p.Type, p.Name))
		}
		f.write(")")
		if n.Body == nil {
			f.write(";")
			return
		}
		f.write(" ")
		f.writeBlock(n.Body)

	case *ast.VarDecl:
		f.write(f.varDecl(n, true))
		f.write(";")

	case *ast.StructDecl:
		f.writeStructDecl(n, nil)

	case ast.Stmt:
		f.writeStmt(n)

	default:
		f.fail("unsupported node type for formatting: %T", n)
	}
}

// writeStructDecl writes a struct or union definition, followed by the
// declarators of vars and the closing ';'.
func (f *Formatter) writeStructDecl(sd *ast.StructDecl, vars []*ast.VarDecl) {
	f.write(f.structDef(sd))
	for i, v := range vars {
		if i > 0 {
			f.write(",")
		}
		f.write(" " + f.varDecl(v, false))
	}
	f.write(";")
}

// structDef renders a struct or union definition with its members one
// level deeper than the current depth. Consecutive members built on the
// same definition share one declaration.
func (f *Formatter) structDef(sd *ast.StructDecl) string {
	var b strings.Builder
	b.WriteString(sd.Token.Literal)
	if sd.Name != nil {
		b.WriteString(" " + sd.Name.Value)
	}
	if len(sd.Fields) == 0 {
		b.WriteString(" {}")
		return b.String()
	}
	b.WriteString(" {\n")
	f.depth++
	for i := 0; i < len(sd.Fields); {
		field := sd.Fields[i]
		n := 1
		if def := inlineDef(field.Type); def != nil {
			for i+n < len(sd.Fields) && inlineDef(sd.Fields[i+n].Type) == def {
				n++
			}
		}
		b.WriteString(f.indentation())
		b.WriteString(f.varDecl(field, true))
		for _, v := range sd.Fields[i+1 : i+n] {
			b.WriteString(", " + f.varDecl(v, false))
		}
		b.WriteString(";\n")
		i += n
	}
	f.depth--
	b.WriteString(f.indentation() + "}")
	return b.String()
}

// inlineDef returns the struct type under t if it carries its own
// definition.
func inlineDef(t ast.Type) *ast.StructType {
	st, ok := baseType(t).(*ast.StructType)
	if !ok || st.Def == nil {
		return nil
	}
	return st
}

// varDecl renders a variable declaration without its ';'. Without
// specifiers only the declarator and initializer are rendered.
func (f *Formatter) varDecl(v *ast.VarDecl, specifiers bool) string {
	var s string
	if specifiers {
		s = f.declaration(v.Type, v.Name)
	} else {
		_, s = f.declarator(v.Type, identName(v.Name))
	}
	if v.Init != nil {
		s += " = " + f.expr(v.Init, parser.PrecAssign)
	}
	return s
}

func identName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Value
}

// declarator splits t into its base type and the declarator of name. The
// outermost array dimension is written first, so (array (array int 3) 2)
// named a becomes "a[2][3]" over int.
func (f *Formatter) declarator(t ast.Type, name string) (ast.Type, string) {
	var dims strings.Builder
	for {
		arr, ok := t.(*ast.ArrayType)
		if !ok {
			break
		}
		dims.WriteString("[")
		if arr.Len != nil {
			dims.WriteString(f.expr(arr.Len, parser.PrecAssign))
		}
		dims.WriteString("]")
		t = arr.Elem
	}
	var stars string
	for {
		ptr, ok := t.(*ast.PointerType)
		if !ok {
			break
		}
		stars += "*"
		t = ptr.Elem
	}
	return t, stars + name + dims.String()
}

// specifiers renders a base type.
func (f *Formatter) specifiers(t ast.Type) string {
	switch t := t.(type) {
	case *ast.BasicType:
		return strings.Join(t.Names, " ")
	case *ast.StructType:
		if t.Def != nil {
			return f.structDef(t.Def)
		}
		if t.Name == nil {
			f.fail("anonymous %s type outside its definition", t.Token.Literal)
			return ""
		}
		return t.String()
	case nil:
		f.fail("missing type")
	default:
		f.fail("unsupported type for formatting: %T", t)
	}
	return ""
}

// declaration renders the specifiers and declarator of name.
func (f *Formatter) declaration(t ast.Type, name *ast.Identifier) string {
	base, decl := f.declarator(t, identName(name))
	spec := f.specifiers(base)
	if decl == "" {
		return spec
	}
	return spec + " " + decl
}

// typeName renders a type as written in casts and sizeof.
func (f *Formatter) typeName(t ast.Type) string {
	return f.declaration(t, nil)
}

func (f *Formatter) writeBlock(b *ast.Block) {
	if len(b.Stmts) == 0 {
		f.write("{}")
		return
	}
	f.write("{\n")
	f.depth++
	f.writeList(nodeList(b.Stmts), false)
	f.depth--
	f.write("\n")
	f.writeIndent()
	f.write("}")
}

// writeBody writes the statement controlled by if, while, do, for or
// switch. A block stays on the line of its header; any other statement goes
// on its own line one level deeper. It reports whether s was a block.
func (f *Formatter) writeBody(s ast.Stmt) bool {
	if b, ok := s.(*ast.Block); ok && b != nil {
		f.write(" ")
		f.writeBlock(b)
		return true
	}
	f.write("\n")
	f.depth++
	f.writeIndent()
	f.writeStmt(s)
	f.depth--
	return false
}

func (f *Formatter) writeStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		if n == nil {
			f.fail("missing statement")
			return
		}
		f.writeBlock(n)

	case *ast.VarDecl, *ast.StructDecl:
		f.writeNode(n)

	case *ast.If:
		f.write("if (" + f.expr(n.Cond, parser.PrecLowest) + ")")
		block := f.writeBody(n.Then)
		if n.Else == nil {
			return
		}
		if block {
			f.write(" else")
		} else {
			f.write("\n")
			f.writeIndent()
			f.write("else")
		}
		if elif, ok := n.Else.(*ast.If); ok {
			f.write(" ")
			f.writeStmt(elif)
			return
		}
		f.writeBody(n.Else)

	case *ast.While:
		f.write("while (" + f.expr(n.Cond, parser.PrecLowest) + ")")
		f.writeBody(n.Body)

	case *ast.DoWhile:
		f.write("do")
		if f.writeBody(n.Body) {
			f.write(" ")
		} else {
			f.write("\n")
			f.writeIndent()
		}
		f.write("while (" + f.expr(n.Cond, parser.PrecLowest) + ");")

	case *ast.For:
		f.write("for (" + f.forInit(n.Init) + ";")
		if n.Cond != nil {
			f.write(" " + f.expr(n.Cond, parser.PrecLowest))
		}
		f.write(";")
		if n.Post != nil {
			f.write(" " + f.expr(n.Post, parser.PrecLowest))
		}
		f.write(")")
		f.writeBody(n.Body)

	case *ast.Switch:
		f.write("switch (" + f.expr(n.Tag, parser.PrecLowest) + ")")
		f.writeBody(n.Body)

	case *ast.Case:
		if n.Value == nil {
			f.write("default:")
		} else {
			f.write("case " + f.expr(n.Value, parser.PrecTernary) + ":")
		}
		if len(n.Body) > 0 {
			f.write("\n")
			f.depth++
			f.writeList(nodeList(n.Body), false)
			f.depth--
		}

	case *ast.Return:
		if n.Value == nil {
			f.write("return;")
			return
		}
		f.write("return " + f.expr(n.Value, parser.PrecLowest) + ";")

	case *ast.Break:
		f.write("break;")

	case *ast.Continue:
		f.write("continue;")

	case *ast.ExprStmt:
		f.write(f.expr(n.X, parser.PrecLowest) + ";")

	case *ast.EmptyStmt:
		f.write(";")

	case nil:
		f.fail("missing statement")

	default:
		f.fail("unsupported node type for formatting: %T", n)
	}
}

// forInit renders the first clause of a for statement: nothing, an
// expression, or one declaration whose declarators share their specifiers.
func (f *Formatter) forInit(init []ast.Stmt) string {
	if len(init) == 0 {
		return ""
	}
	if es, ok := init[0].(*ast.ExprStmt); ok && len(init) == 1 {
		return f.expr(es.X, parser.PrecLowest)
	}

	var out strings.Builder
	var spec string
	for i, s := range init {
		v, ok := s.(*ast.VarDecl)
		if !ok {
			f.fail("unsupported for clause: %T", s)
			return ""
		}
		base, _ := f.declarator(v.Type, "")
		if i == 0 {
			spec = f.specifiers(base)
			out.WriteString(f.varDecl(v, true))
			continue
		}
		if got := f.specifiers(base); got != spec {
			f.fail("for clause mixes %q and %q declarations", spec, got)
			return ""
		}
		out.WriteString(", " + f.varDecl(v, false))
	}
	return out.String()
}

// precedence returns the binding strength of e as the parser sees it.
func precedence(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		return parser.Precedence(e.Op)
	case *ast.Ternary:
		return parser.PrecTernary
	case *ast.UnaryExpr:
		if e.Postfix {
			return parser.PrecPostfix
		}
		return parser.PrecUnary
	case *ast.Cast, *ast.Sizeof:
		return parser.PrecUnary
	case *ast.Call, *ast.Index, *ast.Member:
		return parser.PrecPostfix
	}
	return parser.PrecPostfix + 1
}

// expr renders e, parenthesized when it binds more loosely than prec.
func (f *Formatter) expr(e ast.Expr, prec int) string {
	s := f.rawExpr(e)
	if precedence(e) < prec {
		return "(" + s + ")"
	}
	return s
}

func (f *Formatter) rawExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		prec := parser.Precedence(n.Op)
		if prec == 0 {
			f.fail("unknown binary operator %q", n.Op)
			return ""
		}
		lprec, rprec := prec, prec+1
		if parser.RightAssociative(prec) {
			lprec, rprec = prec+1, prec
		}
		x, y := f.expr(n.X, lprec), f.expr(n.Y, rprec)
		if n.Op == token.COMMA {
			return x + ", " + y
		}
		return x + " " + string(n.Op) + " " + y

	case *ast.Ternary:
		return f.expr(n.Cond, parser.PrecTernary+1) + " ? " +
			f.expr(n.Then, parser.PrecLowest) + " : " +
			f.expr(n.Else, parser.PrecTernary)

	case *ast.UnaryExpr:
		op := string(n.Op)
		if n.Postfix {
			return f.expr(n.X, parser.PrecPostfix) + op
		}
		x := f.expr(n.X, parser.PrecUnary)
		// "- -x" must not become "--x", nor "& &x" "&&x".
		if x != "" && op != "" && strings.ContainsRune("+-&", rune(x[0])) && x[0] == op[len(op)-1] {
			return op + " " + x
		}
		return op + x

	case *ast.Cast:
		return "(" + f.typeName(n.Type) + ")" + f.expr(n.X, parser.PrecUnary)

	case *ast.Sizeof:
		if n.Type != nil {
			return "sizeof(" + f.typeName(n.Type) + ")"
		}
		x := f.expr(n.X, parser.PrecUnary)
		if _, ok := n.X.(*ast.Cast); ok {
			x = "(" + x + ")"
		}
		if strings.HasPrefix(x, "(") {
			return "sizeof" + x
		}
		return "sizeof " + x

	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = f.expr(a, parser.PrecAssign)
		}
		return f.expr(n.Fun, parser.PrecPostfix) + "(" + strings.Join(args, ", ") + ")"

	case *ast.Index:
		return f.expr(n.X, parser.PrecPostfix) + "[" + f.expr(n.Index, parser.PrecLowest) + "]"

	case *ast.Member:
		x := f.expr(n.X, parser.PrecPostfix)
		if lit, ok := n.X.(*ast.Literal); ok && (lit.Kind == token.INT || lit.Kind == token.FLOAT) {
			x = "(" + x + ")"
		}
		op := "."
		if n.Arrow {
			op = "->"
		}
		return x + op + identName(n.Name)

	case *ast.InitList:
		elems := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = f.expr(el, parser.PrecAssign)
		}
		return "{" + strings.Join(elems, ", ") + "}"

	case *ast.Literal:
		return n.Token.Literal

	case *ast.Identifier:
		if n == nil {
			f.fail("missing identifier")
			return ""
		}
		return n.Value

	case nil:
		f.fail("missing expression")

	default:
		f.fail("unsupported node type for formatting: %T", n)
	}
	return ""
}
