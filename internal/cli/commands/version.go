package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/spf13/cobra"
)

// BuildInfo identifies a build.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapdplyr version and build information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "leapdplyr v%s\n", info.Version)
			_, _ = fmt.Fprintln(w, "dplyr to SQL transpiler")
			_, _ = fmt.Fprintf(w, "commit %s, built %s, %s %s/%s\n",
				info.GitCommit, info.BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(w, "dialects: %d registered\n", len(dialect.List()))
		},
	}
}
