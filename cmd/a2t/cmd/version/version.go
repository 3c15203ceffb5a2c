package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v0.1.0"

var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of a2t",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "a2t", version)
	},
}
