package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdplyr/internal/cli/commands"
	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	out    string
	errOut string
}

// runRoot executes the root command in an empty working directory so no
// config file is picked up.
func runRoot(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	code := run(context.Background(), cmd)
	return runResult{code: code, out: out.String(), errOut: errOut.String()}
}

func TestRoot_TranspilesArguments(t *testing.T) {
	res := runRoot(t, "", "select(name, age) %>% filter(age > 18)")
	assert.Equal(t, commands.ExitOK, res.code, res.errOut)
	assert.Contains(t, res.out, "```sql\nSELECT \"name\", \"age\"\nFROM \"data\"\nWHERE (\"age\" > 18)\n```")
}

func TestRoot_Stdin(t *testing.T) {
	res := runRoot(t, "select(a)\n", "-d", "sqlite", "--table", "events")
	assert.Equal(t, commands.ExitOK, res.code, res.errOut)
	assert.Contains(t, res.out, "SELECT \"a\"\nFROM \"events\"")
}

func TestRoot_Flags(t *testing.T) {
	res := runRoot(t, "", "-d", "mysql", "--format", "compact", "transpile", "--limit", "3", "select(a)")
	assert.Equal(t, commands.ExitOK, res.code, res.errOut)
	assert.Contains(t, res.out, "SELECT `a` FROM `data` LIMIT 3")
}

func TestRoot_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"lex error", []string{"select(a) %% b"}, commands.ExitTranspilation},
		{"generate error", []string{"rename(b = a)"}, commands.ExitTranspilation},
		{"validation", []string{"select(a"}, commands.ExitValidation},
		{"empty stdin", nil, commands.ExitValidation},
		{"unknown dialect", []string{"-d", "oracle", "select(a)"}, commands.ExitConfig},
		{"bad format", []string{"--format", "fancy", "select(a)"}, commands.ExitConfig},
		{"missing file", []string{"-i", "missing.R"}, commands.ExitIO},
		{"bad arguments", []string{"completion", "tcsh"}, commands.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRoot(t, "", tt.args...)
			assert.Equal(t, tt.code, res.code, res.errOut)
			assert.Contains(t, res.errOut, "Error: ")
		})
	}
}

func TestRoot_ErrorHints(t *testing.T) {
	res := runRoot(t, "", "select(a) %% b")
	assert.Contains(t, res.errOut, "There is a syntax error in the input code.")
	assert.Contains(t, res.errOut, "Suggestions:")

	res = runRoot(t, "", "--lang", "ko", "select(a) %% b")
	assert.Contains(t, res.errOut, "입력 코드에 구문 오류가 있습니다.")
	assert.Contains(t, res.errOut, "제안:")
}

func TestRoot_JSONErrorsAreReportedOnce(t *testing.T) {
	res := runRoot(t, "", "-o", "json", "select(a) %% b")
	assert.Equal(t, commands.ExitTranspilation, res.code)
	assert.Empty(t, res.errOut)
	assert.Equal(t, 1, strings.Count(res.out, `"success": false`))
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapdplyr.yaml"),
		[]byte("dialect: duckdb\ntable: orders\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "json", "select(a)"})

	require.Equal(t, commands.ExitOK, run(context.Background(), cmd))
	assert.Contains(t, out.String(), `"dialect": "duckdb"`)
	assert.Contains(t, out.String(), `FROM \"orders\"`)
}

func TestRoot_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("LEAPDPLYR_DIALECT", "snowflake")

	res := runRoot(t, "", "dialects", "-o", "json")
	require.Equal(t, commands.ExitOK, res.code, res.errOut)
	assert.Regexp(t, `"name": "snowflake",[^}]*"default": true`, res.out)
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"transpile", "validate", "dialects", "repl", "watch", "batch", "version", "completion"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}

	res := runRoot(t, "", "version")
	assert.Equal(t, commands.ExitOK, res.code)
	assert.Contains(t, res.out, "leapdplyr v"+Version)

	res = runRoot(t, "", "completion", "bash")
	assert.Equal(t, commands.ExitOK, res.code)
	assert.Contains(t, res.out, "leapdplyr")
}
