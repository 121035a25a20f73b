package sqlite

import (
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := SQLite
	require.NotNil(t, d)

	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, `"amount"`, d.QuoteIdentifier("amount"))
	assert.Equal(t, "a || b", d.StringConcat("a", "b"))
	assert.Equal(t, "GROUP_CONCAT", d.AggregateFunction("paste_agg"))
	assert.False(t, d.SupportsStarExclude())

	got, ok := d.TranslateFunction("ceiling", []string{`"x"`})
	require.True(t, ok)
	assert.Equal(t, `CEIL("x")`, got)
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("sqlite3")
	require.True(t, ok)
	assert.Same(t, SQLite, d)
}
