package ansi

import (
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := ANSI
	require.NotNil(t, d)

	assert.Equal(t, "ansi", d.Name())
	assert.Equal(t, `"amount"`, d.QuoteIdentifier("amount"))
	assert.Equal(t, `a || b`, d.StringConcat("a", "b"))
	assert.False(t, d.SupportsStarExclude())
	assert.True(t, d.IsReserved("order"))
}

func TestDialectRegistration(t *testing.T) {
	for _, name := range []string{"ansi", "sql", "standard"} {
		d, ok := dialect.Get(name)
		require.True(t, ok, "%s should be registered", name)
		assert.Equal(t, "ansi", d.Name())
	}
}
