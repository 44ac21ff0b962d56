package ast

// Children returns the direct children of n in source order. Nil children
// are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, d := range n.Decls {
			add(d)
		}
	case *FunctionDecl:
		add(n.Type, n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *Param:
		add(n.Type, n.Name)
	case *VarDecl:
		add(n.Type, n.Name, n.Init)
	case *StructDecl:
		add(n.Name)
		for _, f := range n.Fields {
			add(f)
		}
	case *PointerType:
		add(n.Elem)
	case *ArrayType:
		add(n.Elem, n.Len)
	case *StructType:
		if n.Def != nil {
			add(n.Def)
		} else {
			add(n.Name)
		}
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *DoWhile:
		add(n.Body, n.Cond)
	case *For:
		for _, s := range n.Init {
			add(s)
		}
		add(n.Cond, n.Post, n.Body)
	case *Switch:
		add(n.Tag, n.Body)
	case *Case:
		add(n.Value)
		for _, s := range n.Body {
			add(s)
		}
	case *Return:
		add(n.Value)
	case *ExprStmt:
		add(n.X)
	case *BinaryExpr:
		add(n.X, n.Y)
	case *UnaryExpr:
		add(n.X)
	case *Call:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
	case *Index:
		add(n.X, n.Index)
	case *Member:
		add(n.X, n.Name)
	case *Ternary:
		add(n.Cond, n.Then, n.Else)
	case *Cast:
		add(n.Type, n.X)
	case *Sizeof:
		add(n.Type, n.X)
	case *InitList:
		for _, e := range n.Elems {
			add(e)
		}
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer stored in an
// interface, as happens with optional fields such as Block or Identifier.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Block:
		return n == nil
	case *Identifier:
		return n == nil
	}
	return false
}

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}
