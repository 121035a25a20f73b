// Package token defines the token types of the dplyr pipeline language.
//
// Verb keywords are lowercase and matched case-sensitively: "select" is a
// keyword, "SELECT" is an ordinary identifier. Boolean literals accept both
// TRUE/true and FALSE/false.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	NEWLINE
	WHITESPACE

	// Literals
	IDENT   // identifier, may contain dots (is.na)
	STRING  // "hello" or 'hello'
	NUMBER  // 42, 3.14, .5
	BOOLEAN // TRUE, false
	NULL    // NULL, null, NA

	// Operators
	PIPE   // %>%
	ASSIGN // =
	EQ     // ==
	NE     // !=
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=
	AND    // &
	OR     // |
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	ARROW  // ->

	// Structural
	LPAREN // (
	RPAREN // )
	COMMA  // ,
	DOT    // .

	// Verbs
	SELECT
	FILTER
	MUTATE
	RENAME
	ARRANGE
	GROUP_BY //nolint:revive // mirrors the DSL spelling
	SUMMARISE
	INNER_JOIN //nolint:revive
	LEFT_JOIN  //nolint:revive
	RIGHT_JOIN //nolint:revive
	FULL_JOIN  //nolint:revive
	SEMI_JOIN  //nolint:revive
	ANTI_JOIN  //nolint:revive

	// Set operations
	UNION
	INTERSECT
	SETDIFF

	// Helper keywords
	DESC
	ASC
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	NEWLINE:    "\\n",
	WHITESPACE: "whitespace",

	IDENT:   "identifier",
	STRING:  "string",
	NUMBER:  "number",
	BOOLEAN: "boolean",
	NULL:    "NULL",

	PIPE:   "%>%",
	ASSIGN: "=",
	EQ:     "==",
	NE:     "!=",
	LT:     "<",
	LE:     "<=",
	GT:     ">",
	GE:     ">=",
	AND:    "&",
	OR:     "|",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	ARROW:  "->",

	LPAREN: "(",
	RPAREN: ")",
	COMMA:  ",",
	DOT:    ".",

	SELECT:     "select",
	FILTER:     "filter",
	MUTATE:     "mutate",
	RENAME:     "rename",
	ARRANGE:    "arrange",
	GROUP_BY:   "group_by",
	SUMMARISE:  "summarise",
	INNER_JOIN: "inner_join",
	LEFT_JOIN:  "left_join",
	RIGHT_JOIN: "right_join",
	FULL_JOIN:  "full_join",
	SEMI_JOIN:  "semi_join",
	ANTI_JOIN:  "anti_join",

	UNION:     "union",
	INTERSECT: "intersect",
	SETDIFF:   "setdiff",

	DESC: "desc",
	ASC:  "asc",
}

// keywords maps keyword spellings to their token types. Lookup is case-sensitive.
var keywords = map[string]TokenType{
	"select":     SELECT,
	"filter":     FILTER,
	"mutate":     MUTATE,
	"rename":     RENAME,
	"arrange":    ARRANGE,
	"group_by":   GROUP_BY,
	"summarise":  SUMMARISE,
	"summarize":  SUMMARISE,
	"inner_join": INNER_JOIN,
	"left_join":  LEFT_JOIN,
	"right_join": RIGHT_JOIN,
	"full_join":  FULL_JOIN,
	"semi_join":  SEMI_JOIN,
	"anti_join":  ANTI_JOIN,
	"union":      UNION,
	"intersect":  INTERSECT,
	"setdiff":    SETDIFF,
	"desc":       DESC,
	"asc":        ASC,
	"TRUE":       BOOLEAN,
	"true":       BOOLEAN,
	"FALSE":      BOOLEAN,
	"false":      BOOLEAN,
	"NULL":       NULL,
	"null":       NULL,
	"NA":         NULL,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsVerb returns true if the token type starts a pipeline operation.
func IsVerb(t TokenType) bool {
	return t >= SELECT && t <= ANTI_JOIN
}

// IsJoin returns true if the token type is one of the join verbs.
func IsJoin(t TokenType) bool {
	return t >= INNER_JOIN && t <= ANTI_JOIN
}

// IsKeyword returns true if the token type came from the keyword table.
func IsKeyword(t TokenType) bool {
	return t >= SELECT && t <= ASC
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string  // source spelling; decoded contents for strings
	Number  float64 // value of NUMBER tokens
	Pos     Position
}

// Bool returns the value of a BOOLEAN token.
func (t Token) Bool() bool {
	return t.Literal == "TRUE" || t.Literal == "true"
}

// String renders the token the way diagnostics quote it.
func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, BOOLEAN:
		return t.Literal
	case STRING:
		return fmt.Sprintf("%q", t.Literal)
	default:
		return t.Type.String()
	}
}
