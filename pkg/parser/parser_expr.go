package parser

import (
	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/token"
)

// Expression parsing uses precedence climbing. All binary operators are
// left-associative.
//
// Precedence levels:
//
//	precedenceOr         = 1  (|)
//	precedenceAnd        = 2  (&)
//	precedenceEquality   = 3  (==, !=)
//	precedenceComparison = 4  (<, <=, >, >=)
//	precedenceAdditive   = 5  (+, -)
//	precedenceMultiply   = 6  (*, /)
//
// Primary expressions are identifiers, function calls, literals, and
// parenthesized expressions.

const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceAdditive
	precedenceMultiply
)

type infixOp struct {
	op         ast.BinaryOp
	precedence int
}

var infixOps = map[TokenType]infixOp{
	token.OR:    {ast.OpOr, precedenceOr},
	token.AND:   {ast.OpAnd, precedenceAnd},
	token.EQ:    {ast.OpEq, precedenceEquality},
	token.NE:    {ast.OpNe, precedenceEquality},
	token.LT:    {ast.OpLt, precedenceComparison},
	token.LE:    {ast.OpLe, precedenceComparison},
	token.GT:    {ast.OpGt, precedenceComparison},
	token.GE:    {ast.OpGe, precedenceComparison},
	token.PLUS:  {ast.OpAdd, precedenceAdditive},
	token.MINUS: {ast.OpSub, precedenceAdditive},
	token.STAR:  {ast.OpMul, precedenceMultiply},
	token.SLASH: {ast.OpDiv, precedenceMultiply},
}

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence parses operators binding at least as tight
// as minPrecedence. The right operand is parsed one level tighter, which
// makes equal-precedence chains associate to the left.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		infix, ok := infixOps[p.token.Type]
		if !ok || infix.precedence < minPrecedence {
			return left, nil
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseExpressionWithPrecedence(infix.precedence + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: infix.op, Right: right}
	}
}

// parsePrimary parses a primary expression.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.token
	switch tok.Type {
	case token.IDENT:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if p.check(token.LPAREN) {
			return p.parseCall(tok.Literal)
		}
		return &ast.Identifier{Name: tok.Literal}, nil

	case token.STRING:
		return ast.String(tok.Literal), p.nextToken()

	case token.NUMBER:
		return ast.Number(tok.Number), p.nextToken()

	case token.BOOLEAN:
		return ast.Bool(tok.Bool()), p.nextToken()

	case token.NULL:
		return ast.Null(), p.nextToken()

	case token.MINUS:
		// Negative numeric literal
		if !p.checkPeek(token.NUMBER) {
			return nil, p.unexpected("expression")
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		n := p.token.Number
		return ast.Number(-n), p.nextToken()

	case token.LPAREN:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return expr, p.expect(token.RPAREN)

	default:
		return nil, p.unexpected("expression")
	}
}

// parseCall parses the argument list of a function call.
func (p *Parser) parseCall(name string) (ast.Expr, error) {
	fn := &ast.Function{Name: name}
	err := p.parseList(func() error {
		arg, err := p.parseExpression()
		if err != nil {
			return err
		}
		fn.Args = append(fn.Args, arg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fn, nil
}
