// Package parser turns dplyr pipeline source into an AST.
//
// # Usage
//
//	root, err := parser.Parse(`data %>% filter(age > 18) %>% select(name)`)
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser is recursive descent with one token of lookahead beyond the
// current token:
//
//	pipeline   → [identifier "%>%"] operation {"%>%" operation} | identifier
//	operation  → select | filter | mutate | rename | arrange
//	             | group_by | summarise | join_verb
//	join_verb  → ("inner_join" | "left_join" | ...) "(" identifier "," "by" "=" (string | expr) ")"
//
// Newlines between pipeline stages and anywhere inside parentheses are
// insignificant. Parsing stops at the first error; there is no recovery.
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/token"
)

// Parser parses dplyr source into an AST.
type Parser struct {
	lexer *Lexer
	token Token // current token
	peek  Token // lookahead token
	depth int   // open parentheses among fetched tokens
}

// NewParser creates a parser and primes its lookahead.
func NewParser(input string) (*Parser, error) {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse lexes and parses input.
func Parse(input string) (ast.Root, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() error {
	p.token = p.peek
	tok, err := p.fetch()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

// fetch reads the next significant token from the lexer.
func (p *Parser) fetch() (Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			lexErr, _ := err.(*LexError)
			pe := &ParseError{Kind: LexFailure, Err: err}
			if lexErr != nil {
				pe.Pos = lexErr.Pos
			}
			return Token{}, pe
		}
		switch tok.Type {
		case token.LPAREN:
			p.depth++
		case token.RPAREN:
			if p.depth > 0 {
				p.depth--
			}
		case token.NEWLINE:
			if p.depth > 0 {
				continue
			}
		}
		return tok, nil
	}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// expect consumes the current token if it matches, otherwise fails.
func (p *Parser) expect(t TokenType) error {
	if p.check(t) {
		return p.nextToken()
	}
	return p.unexpected(t.String())
}

// unexpected reports the current token as a mismatch.
func (p *Parser) unexpected(expected string) error {
	return &ParseError{
		Kind:     UnexpectedToken,
		Expected: expected,
		Found:    p.token.String(),
		Pos:      p.token.Pos,
	}
}

// skipNewlines consumes newline tokens.
func (p *Parser) skipNewlines() error {
	for p.check(token.NEWLINE) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// parseList parses "(" [item {"," item}] ")".
func (p *Parser) parseList(item func() error) error {
	if err := p.expect(token.LPAREN); err != nil {
		return err
	}
	if !p.check(token.RPAREN) {
		for {
			if err := item(); err != nil {
				return err
			}
			if !p.check(token.COMMA) {
				break
			}
			if err := p.nextToken(); err != nil {
				return err
			}
		}
	}
	return p.expect(token.RPAREN)
}

// ---------- Pipeline ----------

// Parse parses the whole input into a Pipeline or DataSource.
//
//	pipeline → [identifier "%>%"] operation {"%>%" operation} | identifier
func (p *Parser) Parse() (ast.Root, error) {
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	start := p.token.Pos
	if p.check(token.EOF) {
		return nil, &ParseError{
			Kind:    InvalidOperation,
			Message: ErrEmptyPipeline.Error(),
			Pos:     start,
			Err:     ErrEmptyPipeline,
		}
	}

	pipeline := &ast.Pipeline{Location: start}

	if p.check(token.IDENT) {
		name := p.token.Literal
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		switch {
		case p.check(token.PIPE):
			pipeline.Source = name
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			if err := p.skipNewlines(); err != nil {
				return nil, err
			}
		case p.check(token.LPAREN):
			return nil, &ParseError{
				Kind:     UnexpectedToken,
				Expected: "dplyr function or pipe operator",
				Found:    name + "(",
				Pos:      start,
			}
		case p.check(token.EOF):
			return &ast.DataSource{Name: name, Location: start}, nil
		default:
			return nil, p.unexpected("%>% or end of input")
		}
	}

	for {
		op, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		pipeline.Operations = append(pipeline.Operations, op)

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if !p.check(token.PIPE) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}

	if !p.check(token.EOF) {
		return nil, p.unexpected("%>% or end of input")
	}
	return pipeline, nil
}

// parseOperation dispatches on the verb keyword.
func (p *Parser) parseOperation() (ast.Operation, error) {
	switch p.token.Type {
	case token.SELECT:
		return p.parseSelect()
	case token.FILTER:
		return p.parseFilter()
	case token.MUTATE:
		return p.parseMutate()
	case token.RENAME:
		return p.parseRename()
	case token.ARRANGE:
		return p.parseArrange()
	case token.GROUP_BY:
		return p.parseGroupBy()
	case token.SUMMARISE:
		return p.parseSummarise()
	case token.INNER_JOIN, token.LEFT_JOIN, token.RIGHT_JOIN,
		token.FULL_JOIN, token.SEMI_JOIN, token.ANTI_JOIN:
		return p.parseJoin()
	default:
		return nil, p.unexpected("dplyr function")
	}
}
