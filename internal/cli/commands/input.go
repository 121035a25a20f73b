package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Input sources reported in envelopes.
const (
	sourceArg   = "argument"
	sourceStdin = "stdin"
)

// errNoInput is returned when no source was given and stdin is a terminal.
var errNoInput = errors.New("no input: pass dplyr code as an argument, with --input, or on stdin")

// readInput returns the dplyr source and where it came from. An argument
// wins over --input, which wins over stdin. "-" names stdin explicitly.
func readInput(cmd *cobra.Command, args []string, inputFile string) (string, string, error) {
	switch {
	case len(args) > 0 && args[0] != "-":
		return strings.Join(args, " "), sourceArg, nil
	case inputFile != "" && inputFile != "-":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), inputFile, nil
	}

	in := cmd.InOrStdin()
	if IsInteractive(in) && (len(args) == 0 && inputFile == "") {
		return "", "", usageError(errNoInput)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), sourceStdin, nil
}

// IsInteractive reports whether r is a terminal.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
