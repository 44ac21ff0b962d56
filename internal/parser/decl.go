package parser

import (
	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/token"
)

// atTypeStart reports whether the current token begins type specifiers and
// therefore a declaration.
func (p *Parser) atTypeStart() bool {
	return isTypeStart(p.curToken.Type)
}

func isTypeStart(t token.Type) bool {
	return t.IsTypeKeyword() || t == token.STRUCT || t == token.UNION
}

// parseDeclaration parses a top-level declaration: a function definition or
// prototype, a variable declaration or a struct definition.
func (p *Parser) parseDeclaration() []ast.Decl {
	if !p.atTypeStart() {
		p.errorExpected("declaration")
		p.synchronize()
		return nil
	}

	first := p.curToken
	base, sd := p.parseSpecifiers()
	if base == nil {
		p.synchronize()
		return nil
	}

	var decls []ast.Decl
	if sd != nil {
		decls = append(decls, sd)
	}
	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
		return decls
	}

	typ, name, ok := p.parseDeclarator(base, false)
	if !ok {
		p.synchronize()
		return decls
	}
	if p.curTokenIs(token.LPAREN) {
		if fn := p.parseFunctionRest(first, typ, name, true); fn != nil {
			decls = append(decls, fn)
		}
		return decls
	}

	vars, ok := p.parseVarDeclarations(first, base, typ, name)
	for _, v := range vars {
		decls = append(decls, v)
	}
	if !ok {
		p.synchronize()
	}
	return decls
}

// parseLocalDeclaration parses a declaration inside a function body. With
// prototypes set it also accepts a function prototype. It returns false if
// a syntax error was found; the parser has then already resynchronized.
func (p *Parser) parseLocalDeclaration(prototypes bool) ([]ast.Stmt, bool) {
	first := p.curToken
	base, sd := p.parseSpecifiers()
	if base == nil {
		p.synchronize()
		return nil, false
	}

	var stmts []ast.Stmt
	if sd != nil {
		stmts = append(stmts, sd)
	}
	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmts, true
	}

	typ, name, ok := p.parseDeclarator(base, false)
	if !ok {
		p.synchronize()
		return stmts, false
	}
	if prototypes && p.curTokenIs(token.LPAREN) {
		fn := p.parseFunctionRest(first, typ, name, false)
		if fn == nil {
			return stmts, false
		}
		return append(stmts, fn), true
	}
	vars, ok := p.parseVarDeclarations(first, base, typ, name)
	for _, v := range vars {
		stmts = append(stmts, v)
	}
	if !ok {
		p.synchronize()
	}
	return stmts, ok
}

// parseSpecifiers parses the type specifiers of a declaration. When they
// define a struct or union body, the definition is returned as well.
func (p *Parser) parseSpecifiers() (ast.Type, *ast.StructDecl) {
	if p.curTokenIs(token.STRUCT) || p.curTokenIs(token.UNION) {
		return p.parseStructSpecifier()
	}

	if !p.curToken.Type.IsTypeKeyword() {
		p.errorExpected("type")
		return nil, nil
	}
	bt := &ast.BasicType{Token: p.curToken}
	for p.curToken.Type.IsTypeKeyword() {
		bt.Names = append(bt.Names, p.curToken.Literal)
		p.nextToken()
	}
	return bt, nil
}

// parseInlineSpecifiers parses specifiers where a struct or union defined
// in place cannot stand as a declaration of its own. The definition is
// kept on the returned type.
func (p *Parser) parseInlineSpecifiers() ast.Type {
	typ, sd := p.parseSpecifiers()
	if sd != nil {
		typ.(*ast.StructType).Def = sd
	}
	return typ
}

func (p *Parser) parseStructSpecifier() (ast.Type, *ast.StructDecl) {
	st := &ast.StructType{Token: p.curToken, Union: p.curTokenIs(token.UNION)}
	p.nextToken()

	if p.curTokenIs(token.IDENT) {
		st.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
	}
	if !p.curTokenIs(token.LBRACE) {
		if st.Name == nil {
			p.errorExpected("struct tag or '{'")
			return nil, nil
		}
		return st, nil
	}

	sd := &ast.StructDecl{Token: st.Token, Union: st.Union, Name: st.Name}
	p.nextToken() // consume '{'
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		start := p.curToken.Pos.Offset
		sd.Fields = append(sd.Fields, p.parseField()...)
		p.ensureProgress(start)
	}
	if !p.expect(token.RBRACE, "'}'") {
		return nil, nil
	}
	return st, sd
}

// parseField parses one member declaration of a struct or union.
func (p *Parser) parseField() []*ast.VarDecl {
	if !p.atTypeStart() {
		p.errorExpected("member declaration")
		p.synchronize()
		return nil
	}
	first := p.curToken
	base := p.parseInlineSpecifiers()
	if base == nil {
		p.synchronize()
		return nil
	}
	typ, name, ok := p.parseDeclarator(base, false)
	if !ok {
		p.synchronize()
		return nil
	}
	fields, ok := p.parseVarDeclarations(first, base, typ, name)
	if !ok {
		p.synchronize()
	}
	return fields
}

// parseDeclarator parses {"*"} IDENT {"[" [size] "]"} on top of base. The
// '*' binds to the declared name, so "int* a, b" declares one pointer and
// one int. With optional set the name may be left out, as in prototype
// parameters.
func (p *Parser) parseDeclarator(base ast.Type, optional bool) (ast.Type, *ast.Identifier, bool) {
	typ := base
	for p.curTokenIs(token.MUL) {
		typ = &ast.PointerType{Token: p.curToken, Elem: typ}
		p.nextToken()
	}

	var name *ast.Identifier
	switch {
	case p.curTokenIs(token.IDENT):
		name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
	case optional && (p.curTokenIs(token.COMMA) || p.curTokenIs(token.RPAREN) || p.curTokenIs(token.LBRACK)):
	default:
		p.errorExpected("identifier")
		return nil, nil, false
	}

	type dim struct {
		tok token.Token
		len ast.Expr
	}
	var dims []dim
	for p.curTokenIs(token.LBRACK) {
		d := dim{tok: p.curToken}
		p.nextToken()
		if !p.curTokenIs(token.RBRACK) {
			if d.len = p.parseAssignment(); d.len == nil {
				return nil, nil, false
			}
		}
		if !p.expect(token.RBRACK, "']'") {
			return nil, nil, false
		}
		dims = append(dims, d)
	}
	// a[2][3] is an array of two arrays of three.
	for i := len(dims) - 1; i >= 0; i-- {
		typ = &ast.ArrayType{Token: dims[i].tok, Elem: typ, Len: dims[i].len}
	}
	return typ, name, true
}

// parseTypeName parses the type of a cast or sizeof: specifiers followed
// by any number of '*'.
func (p *Parser) parseTypeName() ast.Type {
	typ := p.parseInlineSpecifiers()
	if typ == nil {
		return nil
	}
	for p.curTokenIs(token.MUL) {
		typ = &ast.PointerType{Token: p.curToken, Elem: typ}
		p.nextToken()
	}
	return typ
}

// parseVarDeclarations parses the rest of a variable declaration whose
// first declarator has been read, up to and including the ';'. It returns
// one VarDecl per declarator and false after a syntax error.
func (p *Parser) parseVarDeclarations(first token.Token, base, typ ast.Type, name *ast.Identifier) ([]*ast.VarDecl, bool) {
	var decls []*ast.VarDecl
	for {
		d := &ast.VarDecl{Token: first, Type: typ, Name: name}
		if p.curTokenIs(token.ASSIGN) {
			p.nextToken()
			init := p.parseInitializer()
			if init == nil {
				return decls, false
			}
			d.Init = init
		}
		decls = append(decls, d)

		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		var ok bool
		if typ, name, ok = p.parseDeclarator(base, false); !ok {
			return decls, false
		}
	}
	return decls, p.expect(token.SEMICOLON, "',' or ';'")
}

// parseInitializer parses an assignment expression or a brace-enclosed
// initializer list, which may end in a trailing comma.
func (p *Parser) parseInitializer() ast.Expr {
	if !p.curTokenIs(token.LBRACE) {
		return p.parseAssignment()
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()

	list := &ast.InitList{Token: p.curToken}
	p.nextToken() // consume '{'
	for !p.curTokenIs(token.RBRACE) {
		elem := p.parseInitializer()
		if elem == nil {
			return nil
		}
		list.Elems = append(list.Elems, elem)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expect(token.RBRACE, "',' or '}'") {
		return nil
	}
	return list
}

// parseFunctionRest parses the parameter list and the body or ';' of a
// function whose return type and name have been read. Without body only a
// prototype is accepted.
func (p *Parser) parseFunctionRest(first token.Token, typ ast.Type, name *ast.Identifier, body bool) *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Token: first, Type: typ, Name: name}
	p.nextToken() // consume '('

	params, ok := p.parseParams()
	if !ok {
		p.synchronize()
		return nil
	}
	fn.Params = params

	switch {
	case body && p.curTokenIs(token.LBRACE):
		if fn.Body = p.parseBlock(); fn.Body == nil {
			return nil
		}
	case p.curTokenIs(token.SEMICOLON):
		p.nextToken()
	case !body:
		p.errorExpected("';'")
		p.synchronize()
		return nil
	default:
		p.errorExpected("function body or ';'")
		p.synchronize()
		return nil
	}
	return fn
}

// parseParams parses a parameter list after its '(' up to and including
// the ')'. "(void)" is an empty list.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return nil, true
	}
	if p.curTokenIs(token.VOID) && p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		p.nextToken()
		return nil, true
	}

	var params []*ast.Param
	for {
		if !p.atTypeStart() {
			p.errorExpected("parameter declaration")
			return nil, false
		}
		param := &ast.Param{Token: p.curToken}
		base := p.parseInlineSpecifiers()
		if base == nil {
			return nil, false
		}
		var ok bool
		if param.Type, param.Name, ok = p.parseDeclarator(base, true); !ok {
			return nil, false
		}
		params = append(params, param)

		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return params, p.expect(token.RPAREN, "',' or ')'")
}
