package cache

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdplyr/pkg/parser"
	"github.com/leapstack-labs/leapdplyr/pkg/token"
)

// Canonical returns a form of source in which layout and comments no
// longer matter: two pipelines that lex to the same tokens share it.
// Source that fails to lex is returned unchanged.
func Canonical(source string) string {
	tokens, err := parser.Tokenize(source)
	if err != nil {
		return source
	}

	var sb strings.Builder
	sb.Grow(len(source))
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}
		// type:length:literal keeps string contents unambiguous
		sb.WriteString(strconv.Itoa(int(tok.Type)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(len(tok.Literal)))
		sb.WriteByte(':')
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}
