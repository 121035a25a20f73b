package parser_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/parser"
	"github.com/leapstack-labs/leapdplyr/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, input string) []token.TokenType {
	t.Helper()
	tokens, err := parser.Tokenize(input)
	require.NoError(t, err)
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "structural",
			input: "( ) , .",
			want:  []token.TokenType{token.LPAREN, token.RPAREN, token.COMMA, token.DOT, token.EOF},
		},
		{
			name:  "pipe",
			input: "%>%",
			want:  []token.TokenType{token.PIPE, token.EOF},
		},
		{
			name:  "comparison operators",
			input: "== != < <= > >= =",
			want: []token.TokenType{
				token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE, token.ASSIGN, token.EOF,
			},
		},
		{
			name:  "arithmetic and logic",
			input: "+ - * / & | ->",
			want: []token.TokenType{
				token.PLUS, token.MINUS, token.STAR, token.SLASH, token.AND, token.OR, token.ARROW, token.EOF,
			},
		},
		{
			name:  "verbs",
			input: "select filter mutate rename arrange group_by summarise summarize",
			want: []token.TokenType{
				token.SELECT, token.FILTER, token.MUTATE, token.RENAME, token.ARRANGE,
				token.GROUP_BY, token.SUMMARISE, token.SUMMARISE, token.EOF,
			},
		},
		{
			name:  "joins",
			input: "inner_join left_join right_join full_join semi_join anti_join",
			want: []token.TokenType{
				token.INNER_JOIN, token.LEFT_JOIN, token.RIGHT_JOIN,
				token.FULL_JOIN, token.SEMI_JOIN, token.ANTI_JOIN, token.EOF,
			},
		},
		{
			name:  "keywords are case sensitive",
			input: "SELECT Filter",
			want:  []token.TokenType{token.IDENT, token.IDENT, token.EOF},
		},
		{
			name:  "literals",
			input: `TRUE false NULL 'a' "b" 3.5`,
			want: []token.TokenType{
				token.BOOLEAN, token.BOOLEAN, token.NULL, token.STRING, token.STRING, token.NUMBER, token.EOF,
			},
		},
		{
			name:  "newlines are preserved",
			input: "select(a)\n%>% filter(b)",
			want: []token.TokenType{
				token.SELECT, token.LPAREN, token.IDENT, token.RPAREN, token.NEWLINE,
				token.PIPE, token.FILTER, token.LPAREN, token.IDENT, token.RPAREN, token.EOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "a # trailing comment\nb",
			want:  []token.TokenType{token.IDENT, token.NEWLINE, token.IDENT, token.EOF},
		},
		{
			name:  "empty",
			input: "",
			want:  []token.TokenType{token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(t, tt.input))
		})
	}
}

func TestLexerLiteralValues(t *testing.T) {
	tokens, err := parser.Tokenize(`is.na .5 42 "a\"b\n" 'it\'s' "\q" TRUE`)
	require.NoError(t, err)
	require.Len(t, tokens, 8)

	assert.Equal(t, "is.na", tokens[0].Literal)
	assert.InDelta(t, 0.5, tokens[1].Number, 1e-9)
	assert.InDelta(t, 42.0, tokens[2].Number, 1e-9)
	assert.Equal(t, "a\"b\n", tokens[3].Literal)
	assert.Equal(t, "it's", tokens[4].Literal)
	assert.Equal(t, "q", tokens[5].Literal)
	assert.True(t, tokens[6].Bool())
}

func TestLexerPositions(t *testing.T) {
	tokens, err := parser.Tokenize("select(a)\n  %>% b")
	require.NoError(t, err)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 8, Offset: 7}, tokens[2].Pos)
	// %>% on the second line after two spaces
	assert.Equal(t, token.PIPE, tokens[5].Type)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 12}, tokens[5].Pos)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind parser.LexErrorKind
		wantText string
		wantChar rune
		offset   int
	}{
		{name: "bad pipe", input: "a %in% b", wantKind: parser.InvalidPipeOperator, wantText: "%in%", offset: 2},
		{name: "half pipe", input: "a %> b", wantKind: parser.InvalidPipeOperator, wantText: "%>", offset: 2},
		{name: "unterminated", input: `"abc`, wantKind: parser.UnterminatedString, offset: 0},
		{name: "trailing backslash", input: `'abc\`, wantKind: parser.UnterminatedString, offset: 0},
		{name: "two dots", input: "1.2.3", wantKind: parser.InvalidNumber, wantText: "1.2.3", offset: 0},
		{name: "bang", input: "a ! b", wantKind: parser.UnexpectedCharacter, wantChar: '!', offset: 2},
		{name: "dollar", input: "$x", wantKind: parser.UnexpectedCharacter, wantChar: '$', offset: 0},
		{name: "unicode", input: "x → y", wantKind: parser.UnexpectedCharacter, wantChar: '→', offset: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Tokenize(tt.input)
			require.Error(t, err)

			var lexErr *parser.LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.wantKind, lexErr.Kind)
			assert.Equal(t, tt.wantText, lexErr.Text)
			assert.Equal(t, tt.wantChar, lexErr.Char)
			assert.Equal(t, tt.offset, lexErr.Pos.Offset)
		})
	}
}

func TestLexerContinuesAfterError(t *testing.T) {
	l := parser.NewLexer("$ a")

	_, err := l.NextToken()
	require.Error(t, err)

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "a", tok.Literal)
}

func TestLexErrorMessage(t *testing.T) {
	_, err := parser.Tokenize("a %% b")
	require.Error(t, err)
	assert.Equal(t, `lexer error at line 1, column 3: invalid pipe operator "%%", expected %>%`, err.Error())
}
