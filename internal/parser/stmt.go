package parser

import (
	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/token"
)

// parseBlock parses a brace-enclosed list of declarations and statements.
func (p *Parser) parseBlock() *ast.Block {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	block := &ast.Block{Token: p.curToken}
	p.nextToken() // consume '{'
	block.Stmts = p.parseStatementList(false)
	p.expect(token.RBRACE, "'}'")
	return block
}

// parseStatementList parses block items up to a '}' or the end of input.
// In the body of a case label it also stops at the next label.
func (p *Parser) parseStatementList(inCase bool) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if inCase && (p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT)) {
			break
		}
		start := p.curToken.Pos.Offset
		if p.atTypeStart() {
			decls, _ := p.parseLocalDeclaration(true)
			stmts = append(stmts, decls...)
		} else if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.ensureProgress(start)
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	switch p.curToken.Type {
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.CASE, token.DEFAULT:
		return p.parseCaseClause()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.Break{Token: p.curToken}
		p.nextToken()
		return p.endStatement(stmt)
	case token.CONTINUE:
		stmt := &ast.Continue{Token: p.curToken}
		p.nextToken()
		return p.endStatement(stmt)
	case token.SEMICOLON:
		stmt := &ast.EmptyStmt{Token: p.curToken}
		p.nextToken()
		return stmt
	}

	if p.atTypeStart() {
		p.errorExpected("statement")
		p.synchronize()
		return nil
	}
	return p.parseExpressionStatement()
}

// endStatement consumes the ';' ending stmt. When it is missing the error
// is reported and the parser resynchronizes, but stmt is kept.
func (p *Parser) endStatement(stmt ast.Stmt) ast.Stmt {
	if !p.expect(token.SEMICOLON, "';'") {
		p.synchronize()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	stmt := &ast.ExprStmt{Token: p.curToken}
	if stmt.X = p.parseExpression(); stmt.X == nil {
		p.synchronize()
		return nil
	}
	return p.endStatement(stmt)
}

// parseCondition parses a parenthesized expression.
func (p *Parser) parseCondition() ast.Expr {
	if !p.expect(token.LPAREN, "'('") {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.expect(token.RPAREN, "')'") {
		return nil
	}
	return cond
}

func (p *Parser) parseIfStatement() ast.Stmt {
	stmt := &ast.If{Token: p.curToken}
	p.nextToken()

	if stmt.Cond = p.parseCondition(); stmt.Cond == nil {
		p.synchronize()
		return nil
	}
	stmt.Then = p.parseStatement()
	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	stmt := &ast.While{Token: p.curToken}
	p.nextToken()

	if stmt.Cond = p.parseCondition(); stmt.Cond == nil {
		p.synchronize()
		return nil
	}
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() ast.Stmt {
	stmt := &ast.DoWhile{Token: p.curToken}
	p.nextToken()

	stmt.Body = p.parseStatement()
	if !p.expect(token.WHILE, "'while'") {
		p.synchronize()
		return nil
	}
	if stmt.Cond = p.parseCondition(); stmt.Cond == nil {
		p.synchronize()
		return nil
	}
	return p.endStatement(stmt)
}

func (p *Parser) parseForStatement() ast.Stmt {
	stmt := &ast.For{Token: p.curToken}
	p.nextToken()

	if !p.expect(token.LPAREN, "'('") {
		p.synchronize()
		return nil
	}

	switch {
	case p.curTokenIs(token.SEMICOLON):
		p.nextToken()
	case p.atTypeStart():
		// The declaration consumes its own ';'.
		var ok bool
		if stmt.Init, ok = p.parseLocalDeclaration(false); !ok {
			return nil
		}
	default:
		init := &ast.ExprStmt{Token: p.curToken}
		if init.X = p.parseExpression(); init.X == nil {
			p.synchronize()
			return nil
		}
		stmt.Init = []ast.Stmt{init}
		if !p.expect(token.SEMICOLON, "';'") {
			p.synchronize()
			return nil
		}
	}

	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Cond = p.parseExpression(); stmt.Cond == nil {
			p.synchronize()
			return nil
		}
	}
	if !p.expect(token.SEMICOLON, "';'") {
		p.synchronize()
		return nil
	}

	if !p.curTokenIs(token.RPAREN) {
		if stmt.Post = p.parseExpression(); stmt.Post == nil {
			p.synchronize()
			return nil
		}
	}
	if !p.expect(token.RPAREN, "')'") {
		p.synchronize()
		return nil
	}

	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseSwitchStatement() ast.Stmt {
	stmt := &ast.Switch{Token: p.curToken}
	p.nextToken()

	if stmt.Tag = p.parseCondition(); stmt.Tag == nil {
		p.synchronize()
		return nil
	}
	stmt.Body = p.parseStatement()
	return stmt
}

// parseCaseClause parses a case or default label and the statements that
// follow it up to the next label or the end of the enclosing block.
func (p *Parser) parseCaseClause() ast.Stmt {
	clause := &ast.Case{Token: p.curToken}
	isDefault := p.curTokenIs(token.DEFAULT)
	p.nextToken()

	if !isDefault {
		if clause.Value = p.parseBinary(precTernary); clause.Value == nil {
			p.synchronize()
			return nil
		}
	}
	if !p.expect(token.COLON, "':'") {
		p.synchronize()
		return nil
	}
	clause.Body = p.parseStatementList(true)
	return clause
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	stmt := &ast.Return{Token: p.curToken}
	p.nextToken()

	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Value = p.parseExpression(); stmt.Value == nil {
			p.synchronize()
			return nil
		}
	}
	return p.endStatement(stmt)
}
