package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/KimNorgaard/go-cfront/ast"
)

// WriteDOT writes the tree rooted at node as a Graphviz digraph. Each node
// becomes a vertex labelled with its kind, operator, name or lexeme, with an
// edge to each of its children.
func WriteDOT(w io.Writer, node ast.Node) error {
	d := &dotWriter{w: bufio.NewWriter(w)}
	d.printf("digraph AST {\n")
	d.printf("\tnode [shape=box];\n")
	if node != nil {
		d.walk(node)
	}
	d.printf("}\n")
	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

type dotWriter struct {
	w    *bufio.Writer
	next int
	err  error
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// walk writes n and its subtree and returns the vertex id of n.
func (d *dotWriter) walk(n ast.Node) int {
	id := d.next
	d.next++
	d.printf("\tn%d [label=%s];\n", id, strconv.Quote(Label(n)))
	for _, c := range ast.Children(n) {
		child := d.walk(c)
		d.printf("\tn%d -> n%d;\n", id, child)
	}
	return id
}

// Label returns the text shown for n in a graph or outline of the tree: its
// kind, operator, name or lexeme.
func Label(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Program:
		return "program"
	case *ast.FunctionDecl:
		return "func"
	case *ast.Param:
		return "param"
	case *ast.VarDecl:
		return "var"
	case *ast.StructDecl, *ast.StructType, *ast.Member, *ast.Literal:
		return n.TokenLiteral()
	case *ast.BasicType:
		return n.String()
	case *ast.PointerType:
		return "ptr"
	case *ast.ArrayType:
		return "array"
	case *ast.Block:
		return "block"
	case *ast.If:
		return "if"
	case *ast.While:
		return "while"
	case *ast.DoWhile:
		return "do"
	case *ast.For:
		return "for"
	case *ast.Switch:
		return "switch"
	case *ast.Case:
		if n.Value == nil {
			return "default"
		}
		return "case"
	case *ast.Return:
		return "return"
	case *ast.Break:
		return "break"
	case *ast.Continue:
		return "continue"
	case *ast.ExprStmt:
		return "expr"
	case *ast.EmptyStmt:
		return "empty"
	case *ast.BinaryExpr:
		return string(n.Op)
	case *ast.UnaryExpr:
		if n.Postfix {
			return "post" + string(n.Op)
		}
		return string(n.Op)
	case *ast.Call:
		return "call"
	case *ast.Index:
		return "index"
	case *ast.Ternary:
		return "?:"
	case *ast.Cast:
		return "cast"
	case *ast.Sizeof:
		return "sizeof"
	case *ast.InitList:
		return "init"
	case *ast.Identifier:
		return n.Value
	}
	return fmt.Sprintf("%T", n)
}
