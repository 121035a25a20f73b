package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapdplyr/pkg/token"
)

// Lexer tokenizes dplyr pipeline source.
//
// A Lexer keeps no token history: every NextToken call scans forward from
// the cursor. Errors do not poison the instance; the cursor is moved past
// the offending input so a caller may keep scanning.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token, or a *LexError.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return Token{Type: token.EOF, Pos: pos}, nil
	}

	switch l.ch {
	case '\n':
		return l.single(token.NEWLINE, pos), nil
	case '(':
		return l.single(token.LPAREN, pos), nil
	case ')':
		return l.single(token.RPAREN, pos), nil
	case ',':
		return l.single(token.COMMA, pos), nil
	case '+':
		return l.single(token.PLUS, pos), nil
	case '*':
		return l.single(token.STAR, pos), nil
	case '/':
		return l.single(token.SLASH, pos), nil
	case '&':
		return l.single(token.AND, pos), nil
	case '|':
		return l.single(token.OR, pos), nil
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(pos)
		}
		return l.single(token.DOT, pos), nil
	case '-':
		if l.peekChar() == '>' {
			return l.double(token.ARROW, pos), nil
		}
		return l.single(token.MINUS, pos), nil
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.EQ, pos), nil
		}
		return l.single(token.ASSIGN, pos), nil
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE, pos), nil
		}
		l.readChar()
		return Token{}, &LexError{Kind: UnexpectedCharacter, Char: '!', Pos: pos}
	case '<':
		if l.peekChar() == '=' {
			return l.double(token.LE, pos), nil
		}
		return l.single(token.LT, pos), nil
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, pos), nil
		}
		return l.single(token.GT, pos), nil
	case '%':
		return l.readPipe(pos)
	case '"', '\'':
		return l.readString(pos)
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(pos)
	case isLetter(l.ch) || l.ch == '_':
		lit := l.readIdentifier()
		return Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}, nil
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	for range size {
		l.readChar()
	}
	return Token{}, &LexError{Kind: UnexpectedCharacter, Char: r, Pos: pos}
}

// single consumes one character and returns a token of type t.
func (l *Lexer) single(t TokenType, pos Position) Token {
	lit := string(l.ch)
	l.readChar()
	return Token{Type: t, Literal: lit, Pos: pos}
}

// double consumes two characters and returns a token of type t.
func (l *Lexer) double(t TokenType, pos Position) Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return Token{Type: t, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments skips horizontal whitespace and # comments.
// Newlines are significant and left in place.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\r', '\f', '\v':
			l.readChar()
		case '#':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readPipe reads %>%. Any other %-prefixed sequence is rejected along with
// the text up to the next closing % or separator.
func (l *Lexer) readPipe(pos Position) (Token, error) {
	if strings.HasPrefix(l.input[l.pos:], "%>%") {
		l.readChar()
		l.readChar()
		l.readChar()
		return Token{Type: token.PIPE, Literal: "%>%", Pos: pos}, nil
	}

	start := l.pos
	l.readChar() // skip '%'
	for !l.atEOF() && !isSeparator(l.ch) {
		if l.ch == '%' {
			l.readChar()
			break
		}
		l.readChar()
	}
	return Token{}, &LexError{Kind: InvalidPipeOperator, Text: l.input[start:l.pos], Pos: pos}
}

// readString reads a string delimited by ' or ". Backslash escapes \n \t \r
// \\ \" \' are decoded; any other escaped character is kept as is.
func (l *Lexer) readString(pos Position) (Token, error) {
	quote := l.ch
	l.readChar() // skip opening quote

	var sb strings.Builder
	for !l.atEOF() {
		switch l.ch {
		case quote:
			l.readChar() // skip closing quote
			return Token{Type: token.STRING, Literal: sb.String(), Pos: pos}, nil
		case '\\':
			l.readChar()
			if l.atEOF() {
				return Token{}, &LexError{Kind: UnterminatedString, Pos: pos}
			}
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
	return Token{}, &LexError{Kind: UnterminatedString, Pos: pos}
}

// readNumber reads a run of digits and dots. A leading dot reads as 0.x;
// more than one dot fails to parse.
func (l *Lexer) readNumber(pos Position) (Token, error) {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	lit := l.input[start:l.pos]

	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Token{}, &LexError{Kind: InvalidNumber, Text: lit, Pos: pos}
	}
	return Token{Type: token.NUMBER, Literal: lit, Number: n, Pos: pos}, nil
}

// readIdentifier reads an identifier. Dots are allowed after the first
// character so R names like is.na stay whole.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// Tokenize scans the whole input and returns its tokens up to and
// including EOF. It stops at the first lexical error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSeparator(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '(', ')', ',':
		return true
	}
	return false
}
