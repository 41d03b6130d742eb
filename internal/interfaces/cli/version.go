package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Preenchidos via -ldflags no build.
var (
	Version = "dev"
	Commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Exibe a versão do binário",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leitor-fiscal %s (%s) %s\n", Version, Commit, runtime.Version())
		},
	}
}
