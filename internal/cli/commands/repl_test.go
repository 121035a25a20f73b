package commands

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapdplyr/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL_MultilinePipeline(t *testing.T) {
	cc, out, errOut := newTestContext(t, testutil.TestConfig(), 0)
	s := newREPLSession(context.Background(), cc)

	assert.Equal(t, replPrompt, s.prompt())
	assert.False(t, s.handleLine("select(name, age) %>%"))
	assert.Equal(t, replContinuePrompt, s.prompt())
	assert.Empty(t, out.String())

	assert.False(t, s.handleLine("  filter(age > 18)"))
	assert.Equal(t, replPrompt, s.prompt())
	assert.Contains(t, out.String(), "```sql\n"+adultsSQL+"\n```")
	assert.NotContains(t, out.String(), "(cached)")
	assert.Empty(t, errOut.String())

	s.handleLine("select(name, age) %>% filter(age > 18)")
	assert.Contains(t, out.String(), "(cached)")
}

func TestREPL_Errors(t *testing.T) {
	cc, out, errOut := newTestContext(t, testutil.TestConfig(), 0)
	s := newREPLSession(context.Background(), cc)

	assert.False(t, s.handleLine("select(a) %% b"))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error: ")
	assert.Contains(t, errOut.String(), "Check that string quotes are closed")
	assert.Equal(t, replPrompt, s.prompt(), "a failed pipeline is not kept")
}

func TestREPL_Reset(t *testing.T) {
	cc, _, _ := newTestContext(t, testutil.TestConfig(), 0)
	s := newREPLSession(context.Background(), cc)

	s.handleLine("select(a) %>%")
	require.Equal(t, replContinuePrompt, s.prompt())
	s.reset()
	assert.Equal(t, replPrompt, s.prompt())
}

func TestREPL_DotCommands(t *testing.T) {
	cc, out, errOut := newTestContext(t, testutil.TestConfig(), 0)
	s := newREPLSession(context.Background(), cc)

	assert.False(t, s.handleLine(".dialect"))
	assert.Contains(t, out.String(), "Current dialect: postgresql")

	s.handleLine(".dialect mariadb")
	assert.Contains(t, out.String(), "Dialect set to mysql")
	assert.Equal(t, "mysql", cc.Dialect())

	s.handleLine(".dialect oracle")
	assert.Contains(t, errOut.String(), "Error: ")
	assert.Equal(t, "mysql", cc.Dialect())

	s.handleLine(".dialects")
	assert.Contains(t, out.String(), "* mysql\n")
	assert.Contains(t, out.String(), "  sqlite\n")

	s.handleLine(".format compact")
	assert.Contains(t, out.String(), "Format set to compact")
	s.handleLine(".format")
	assert.Contains(t, out.String(), "Current format: compact")
	s.handleLine(".format fancy")
	assert.Contains(t, errOut.String(), "unknown format")

	s.handleLine("select(a)")
	assert.Contains(t, out.String(), "SELECT `a` FROM `data`")

	s.handleLine(".stats")
	assert.Contains(t, out.String(), "hit")

	s.handleLine(".reset")
	assert.Contains(t, out.String(), "Cache cleared")
	assert.Zero(t, cc.Cache.Len())

	s.handleLine(".help")
	assert.Contains(t, out.String(), ".dialect [name]")

	s.handleLine(".bogus")
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")

	assert.True(t, s.handleLine(".quit"))
	assert.True(t, s.handleLine(".EXIT"))
}

func TestNeedsContinuation(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"select(a)", false},
		{"select(a) %>%", true},
		{"select(a) |>", true},
		{"select(a,", true},
		{"select(a", true},
		{"mutate(x = paste(a, b)", true},
		{`filter(x == "(")`, false},
		{"select(a))", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, needsContinuation(tt.src))
		})
	}
}
