package commands

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	info := BuildInfo{Version: "1.2.3", BuildDate: "2026-01-02", GitCommit: "abc123"}
	cmd := NewVersionCommand(info)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "leapdplyr v1.2.3", string(lines[0]))
	assert.Equal(t, "dplyr to SQL transpiler", string(lines[1]))
	assert.Equal(t, fmt.Sprintf("commit abc123, built 2026-01-02, %s %s/%s",
		runtime.Version(), runtime.GOOS, runtime.GOARCH), string(lines[2]))
	assert.Equal(t, fmt.Sprintf("dialects: %d registered", len(dialect.List())), string(lines[3]))
	assert.GreaterOrEqual(t, len(dialect.List()), 7)
}

func TestVersionCommand_RejectsArguments(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "dev"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
