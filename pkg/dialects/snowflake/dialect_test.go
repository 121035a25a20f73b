package snowflake

import (
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := Snowflake
	require.NotNil(t, d)

	assert.Equal(t, "snowflake", d.Name())
	assert.Equal(t, `"x"`, d.QuoteIdentifier("x"))
	assert.True(t, d.IsCaseSensitive())
	assert.True(t, d.SupportsStarExclude())
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("snowflake")
	require.True(t, ok, "snowflake dialect should be registered")
	require.NotNil(t, d)
	assert.Equal(t, "snowflake", d.Name())
}

func TestFunctionClassifications(t *testing.T) {
	d := Snowflake
	assert.Equal(t, "MEDIAN", d.AggregateFunction("median"))
	assert.Equal(t, "STDDEV", d.AggregateFunction("sd"))

	got, ok := d.TranslateFunction("log10", []string{`"x"`})
	require.True(t, ok)
	assert.Equal(t, `LOG(10, "x")`, got)

	got, ok = d.TranslateFunction("ifelse", []string{"c", "1", "0"})
	require.True(t, ok)
	assert.Equal(t, "IFF(c, 1, 0)", got)
}
