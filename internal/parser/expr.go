package parser

import (
	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/token"
)

// Binary operator precedences, lowest first.
const (
	_ int = iota
	precComma
	precAssign  // right-associative
	precTernary // right-associative
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var precedences = map[token.Type]int{
	token.COMMA: precComma,

	token.ASSIGN:     precAssign,
	token.ADD_ASSIGN: precAssign,
	token.SUB_ASSIGN: precAssign,
	token.MUL_ASSIGN: precAssign,
	token.QUO_ASSIGN: precAssign,
	token.REM_ASSIGN: precAssign,
	token.AND_ASSIGN: precAssign,
	token.OR_ASSIGN:  precAssign,
	token.XOR_ASSIGN: precAssign,
	token.SHL_ASSIGN: precAssign,
	token.SHR_ASSIGN: precAssign,

	token.QUESTION: precTernary,
	token.LOR:      precLogicalOr,
	token.LAND:     precLogicalAnd,
	token.OR:       precBitOr,
	token.XOR:      precBitXor,
	token.AND:      precBitAnd,

	token.EQL: precEquality,
	token.NEQ: precEquality,

	token.LSS: precRelational,
	token.GTR: precRelational,
	token.LEQ: precRelational,
	token.GEQ: precRelational,

	token.SHL: precShift,
	token.SHR: precShift,

	token.ADD: precAdditive,
	token.SUB: precAdditive,

	token.MUL: precMultiplicative,
	token.QUO: precMultiplicative,
	token.REM: precMultiplicative,
}

// Precedence returns the binding strength of a binary operator, or 0 if t
// is not one. The formatter uses it to decide where parentheses go.
func Precedence(t token.Type) int {
	return precedences[t]
}

// RightAssociative reports whether operators of the given precedence group
// to the right.
func RightAssociative(prec int) bool {
	return prec == precAssign || prec == precTernary
}

// Precedence levels exported for the formatter.
const (
	PrecLowest  = precComma
	PrecAssign  = precAssign
	PrecTernary = precTernary
	PrecUnary   = precMultiplicative + 1
	PrecPostfix = precMultiplicative + 2
)

// parseExpression parses a full expression, comma operator included.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinary(precComma)
}

// parseAssignment parses an expression without a top-level comma, as used
// for call arguments, initializers and array sizes.
func (p *Parser) parseAssignment() ast.Expr {
	return p.parseBinary(precAssign)
}

// parseBinary parses a unary expression followed by any binary operators
// that bind at least as tightly as minPrec.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		op := p.curToken
		prec := precedences[op.Type]
		if prec == 0 || prec < minPrec {
			return left
		}
		p.nextToken()

		if op.Type == token.QUESTION {
			if left = p.parseTernaryRest(op, left); left == nil {
				return nil
			}
			continue
		}

		next := prec + 1
		if RightAssociative(prec) {
			next = prec
		}
		right := p.parseBinary(next)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Token: op, Op: op.Type, X: left, Y: right}
	}
}

// parseTernaryRest parses "then : else" after the '?' of a conditional
// expression.
func (p *Parser) parseTernaryRest(question token.Token, cond ast.Expr) ast.Expr {
	then := p.parseExpression()
	if then == nil {
		return nil
	}
	if !p.expect(token.COLON, "':' in conditional expression") {
		return nil
	}
	els := p.parseBinary(precTernary)
	if els == nil {
		return nil
	}
	return &ast.Ternary{Token: question, Cond: cond, Then: then, Else: els}
}

// parseUnary parses a prefix expression and any postfix operators that
// follow it.
func (p *Parser) parseUnary() ast.Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorExpected("expression")
		return nil
	}
	x := prefix()
	if x == nil {
		return nil
	}
	return p.parsePostfix(x)
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.curToken.Type {
		case token.LBRACK:
			idx := &ast.Index{Token: p.curToken, X: x}
			p.nextToken()
			if idx.Index = p.parseExpression(); idx.Index == nil {
				return nil
			}
			if !p.expect(token.RBRACK, "']'") {
				return nil
			}
			x = idx
		case token.LPAREN:
			call := &ast.Call{Token: p.curToken, Fun: x}
			p.nextToken()
			args, ok := p.parseArguments()
			if !ok {
				return nil
			}
			call.Args = args
			x = call
		case token.PERIOD, token.ARROW:
			sel := &ast.Member{Token: p.curToken, X: x, Arrow: p.curTokenIs(token.ARROW)}
			p.nextToken()
			if !p.curTokenIs(token.IDENT) {
				p.errorExpected("member name")
				return nil
			}
			sel.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			p.nextToken()
			x = sel
		case token.INC, token.DEC:
			x = &ast.UnaryExpr{Token: p.curToken, Op: p.curToken.Type, X: x, Postfix: true}
			p.nextToken()
		default:
			return x
		}
	}
}

// parseArguments parses call arguments after the '(' up to and including
// the ')'.
func (p *Parser) parseArguments() ([]ast.Expr, bool) {
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return nil, true
	}
	var args []ast.Expr
	for {
		arg := p.parseAssignment()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return args, p.expect(token.RPAREN, "',' or ')'")
}

func (p *Parser) parseIdentifier() ast.Expr {
	expr := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return expr
}

func (p *Parser) parseLiteral() ast.Expr {
	lit := &ast.Literal{Token: p.curToken, Kind: p.curToken.Type, Value: p.curToken.Value}
	switch p.curToken.Type {
	case token.TRUE:
		lit.Value = true
	case token.FALSE:
		lit.Value = false
	}
	p.nextToken()
	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expr {
	expr := &ast.UnaryExpr{Token: p.curToken, Op: p.curToken.Type}
	p.nextToken()
	if expr.X = p.parseUnary(); expr.X == nil {
		return nil
	}
	return expr
}

// parseGroupedExpression parses a parenthesized expression or, when a type
// follows the '(', a cast.
func (p *Parser) parseGroupedExpression() ast.Expr {
	lparen := p.curToken
	p.nextToken()

	if p.atTypeStart() {
		cast := &ast.Cast{Token: lparen}
		if cast.Type = p.parseTypeName(); cast.Type == nil {
			return nil
		}
		if !p.expect(token.RPAREN, "')'") {
			return nil
		}
		if cast.X = p.parseUnary(); cast.X == nil {
			return nil
		}
		return cast
	}

	x := p.parseExpression()
	if x == nil {
		return nil
	}
	if !p.expect(token.RPAREN, "')'") {
		return nil
	}
	return x
}

// parseSizeof parses "sizeof (type)" or "sizeof unary-expression".
func (p *Parser) parseSizeof() ast.Expr {
	expr := &ast.Sizeof{Token: p.curToken}
	p.nextToken()

	if p.curTokenIs(token.LPAREN) && isTypeStart(p.peekToken.Type) {
		p.nextToken()
		if expr.Type = p.parseTypeName(); expr.Type == nil {
			return nil
		}
		if !p.expect(token.RPAREN, "')'") {
			return nil
		}
		return expr
	}

	if expr.X = p.parseUnary(); expr.X == nil {
		return nil
	}
	return expr
}

// parseIllegal fails on an ILLEGAL token without reporting it a second
// time; the enclosing statement resynchronizes past it.
func (p *Parser) parseIllegal() ast.Expr {
	return nil
}
