package main

import (
	"go/format"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snowflakePage = `<html><body>
<table>
  <tr><th>Keyword</th><th>Comment</th></tr>
  <tr><td>A</td><td></td></tr>
  <tr><td>ALL</td><td>Reserved by ANSI.</td></tr>
  <tr><td>ILIKE</td><td>Reserved by Snowflake.</td></tr>
  <tr><td><code>QUALIFY</code></td><td>Reserved by Snowflake.</td></tr>
  <tr><td>TRY_CAST</td><td>Cannot be used as column name.</td></tr>
</table>
</body></html>`

const databricksPage = `<html><body>
<h2>Reserved words</h2>
<ul><li>ANTI</li><li>SEMI</li><li>see the note below</li></ul>
<h2>ANSI Reserved words</h2>
<ul><li>ALL</li><li>WINDOW</li></ul>
</body></html>`

func TestParseSnowflakeKeywords(t *testing.T) {
	words, err := parseSnowflakeKeywords([]byte(snowflakePage))
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "ilike", "qualify", "try_cast"}, words)
	assert.Equal(t, []string{"ilike", "qualify", "try_cast"}, withoutANSI(words))
}

func TestParseDatabricksKeywords(t *testing.T) {
	words, err := parseDatabricksKeywords([]byte(databricksPage))
	require.NoError(t, err)
	assert.Equal(t, []string{"anti", "semi"}, words)
}

func TestGenerateCode(t *testing.T) {
	code := generateCode(sources["snowflake"], []string{"ilike", "minus", "qualify", "regexp", "rlike", "sample", "some"})

	formatted, err := format.Source([]byte(code))
	require.NoError(t, err)
	assert.Contains(t, string(formatted), "// Code generated by scripts/genkeywords. DO NOT EDIT.")
	assert.Contains(t, string(formatted), "package snowflake")
	assert.Contains(t, string(formatted), "\"ilike\", \"minus\", \"qualify\", \"regexp\", \"rlike\", \"sample\",\n\t\"some\",")
}
