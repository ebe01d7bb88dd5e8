package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mablhq/github-run-tests-action/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the CLI version",
	Long:    `This command prints the CLI version`,
	Example: "mabl-run-tests version",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "mabl-run-tests %s on %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
