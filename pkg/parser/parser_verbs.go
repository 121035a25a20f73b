package parser

import (
	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/token"
)

// Verb grammar:
//
//	select     → "select" "(" [column_expr {"," column_expr}] ")"
//	column_expr→ identifier "=" expr | expr
//	filter     → "filter" "(" expr ")"
//	mutate     → "mutate" "(" [identifier "=" expr {"," ...}] ")"
//	rename     → "rename" "(" [name "=" name {"," ...}] ")"   name → identifier | string
//	arrange    → "arrange" "(" [order {"," order}] ")"
//	order      → identifier | ("desc" | "asc") "(" identifier ")"
//	group_by   → "group_by" "(" [identifier {"," identifier}] ")"
//	summarise  → "summarise" "(" [aggregation {"," aggregation}] ")"
//	aggregation→ [identifier "="] identifier "(" [identifier] ")"

var joinTypes = map[TokenType]ast.JoinType{
	token.INNER_JOIN: ast.InnerJoin,
	token.LEFT_JOIN:  ast.LeftJoin,
	token.RIGHT_JOIN: ast.RightJoin,
	token.FULL_JOIN:  ast.FullJoin,
	token.SEMI_JOIN:  ast.SemiJoin,
	token.ANTI_JOIN:  ast.AntiJoin,
}

// beginVerb consumes the verb keyword and returns its position.
func (p *Parser) beginVerb() (Position, error) {
	pos := p.token.Pos
	return pos, p.nextToken()
}

func (p *Parser) parseSelect() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.Select{Location: pos}
	err = p.parseList(func() error {
		col, err := p.parseColumnExpr()
		if err != nil {
			return err
		}
		op.Columns = append(op.Columns, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// parseColumnExpr parses "alias = expr" or a plain expression.
func (p *Parser) parseColumnExpr() (ast.ColumnExpr, error) {
	var alias string
	if p.check(token.IDENT) && p.checkPeek(token.ASSIGN) {
		alias = p.token.Literal
		if err := p.nextToken(); err != nil {
			return ast.ColumnExpr{}, err
		}
		if err := p.nextToken(); err != nil {
			return ast.ColumnExpr{}, err
		}
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ast.ColumnExpr{}, err
	}
	return ast.ColumnExpr{Expr: expr, Alias: alias}, nil
}

func (p *Parser) parseFilter() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Filter{Condition: cond, Location: pos}, nil
}

func (p *Parser) parseMutate() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.Mutate{Location: pos}
	err = p.parseList(func() error {
		if !p.check(token.IDENT) {
			return p.unexpected("column identifier")
		}
		column := p.token.Literal
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.expect(token.ASSIGN); err != nil {
			return err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return err
		}
		op.Assignments = append(op.Assignments, ast.Assignment{Column: column, Expr: expr})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (p *Parser) parseRename() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.Rename{Location: pos}
	err = p.parseList(func() error {
		newName, err := p.parseName("new column name")
		if err != nil {
			return err
		}
		if err := p.expect(token.ASSIGN); err != nil {
			return err
		}
		oldName, err := p.parseName("old column name")
		if err != nil {
			return err
		}
		op.Renames = append(op.Renames, ast.RenameSpec{NewName: newName, OldName: oldName})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// parseName accepts an identifier or a string literal as a column name.
func (p *Parser) parseName(expected string) (string, error) {
	if !p.check(token.IDENT) && !p.check(token.STRING) {
		return "", p.unexpected(expected)
	}
	name := p.token.Literal
	return name, p.nextToken()
}

// parseColumnName consumes a bare identifier.
func (p *Parser) parseColumnName() (string, error) {
	if !p.check(token.IDENT) {
		return "", p.unexpected("column identifier")
	}
	name := p.token.Literal
	return name, p.nextToken()
}

func (p *Parser) parseArrange() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.Arrange{Location: pos}
	err = p.parseList(func() error {
		item, err := p.parseOrderExpr()
		if err != nil {
			return err
		}
		op.Columns = append(op.Columns, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// parseOrderExpr parses a column, desc(column) or asc(column).
func (p *Parser) parseOrderExpr() (ast.OrderExpr, error) {
	dir, explicit := p.direction()
	if !explicit {
		if !p.check(token.IDENT) {
			return ast.OrderExpr{}, p.unexpected("column identifier, desc(), or asc()")
		}
		column, err := p.parseColumnName()
		return ast.OrderExpr{Column: column, Direction: ast.Asc}, err
	}

	if err := p.nextToken(); err != nil {
		return ast.OrderExpr{}, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return ast.OrderExpr{}, err
	}
	column, err := p.parseColumnName()
	if err != nil {
		return ast.OrderExpr{}, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return ast.OrderExpr{}, err
	}
	return ast.OrderExpr{Column: column, Direction: dir}, nil
}

// direction reports whether the current token is desc or asc, either as a
// keyword or as a plain identifier of that name.
func (p *Parser) direction() (ast.Direction, bool) {
	switch {
	case p.check(token.DESC), p.check(token.IDENT) && p.token.Literal == "desc":
		return ast.Desc, true
	case p.check(token.ASC), p.check(token.IDENT) && p.token.Literal == "asc":
		return ast.Asc, true
	}
	return ast.Asc, false
}

func (p *Parser) parseGroupBy() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.GroupBy{Location: pos}
	err = p.parseList(func() error {
		column, err := p.parseColumnName()
		if err != nil {
			return err
		}
		op.Columns = append(op.Columns, column)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (p *Parser) parseSummarise() (ast.Operation, error) {
	pos, err := p.beginVerb()
	if err != nil {
		return nil, err
	}
	op := &ast.Summarise{Location: pos}
	err = p.parseList(func() error {
		agg, err := p.parseAggregation()
		if err != nil {
			return err
		}
		op.Aggregations = append(op.Aggregations, agg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// parseAggregation parses "[alias =] function([column])".
func (p *Parser) parseAggregation() (ast.Aggregation, error) {
	var agg ast.Aggregation
	if !p.check(token.IDENT) {
		return agg, p.unexpected("aggregation function name or alias")
	}

	if p.checkPeek(token.ASSIGN) {
		agg.Alias = p.token.Literal
		if err := p.nextToken(); err != nil {
			return agg, err
		}
		if err := p.nextToken(); err != nil {
			return agg, err
		}
		if !p.check(token.IDENT) {
			return agg, p.unexpected("aggregation function name")
		}
	}

	agg.Function = p.token.Literal
	if err := p.nextToken(); err != nil {
		return agg, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return agg, err
	}

	switch {
	case p.check(token.RPAREN):
		// argument-less aggregate such as n()
	case p.check(token.IDENT):
		agg.Column = p.token.Literal
		if err := p.nextToken(); err != nil {
			return agg, err
		}
	default:
		return agg, p.unexpected("column identifier or closing parenthesis")
	}
	return agg, p.expect(token.RPAREN)
}

// parseJoin parses join_verb "(" table "," "by" "=" (string | expr) ")".
func (p *Parser) parseJoin() (ast.Operation, error) {
	op := &ast.Join{Type: joinTypes[p.token.Type], Location: p.token.Pos}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	if !p.check(token.IDENT) {
		return nil, p.unexpected("table name")
	}
	op.Spec.Table = p.token.Literal
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	if !p.check(token.IDENT) || p.token.Literal != "by" {
		return nil, p.unexpected("by")
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}

	switch {
	case p.check(token.STRING):
		op.Spec.ByColumn = p.token.Literal
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	case p.check(token.IDENT):
		on, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		op.Spec.On = on
	default:
		return nil, p.unexpected("string literal or identifier for join column")
	}

	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return op, nil
}
