package cmd

import (
	"context"

	"github.com/spf13/cobra"

	e "github.com/mablhq/github-run-tests-action/internal/exec"
	cfg "github.com/mablhq/github-run-tests-action/pkg/config"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
)

var configHandler = cfg.New()

// RootCmd triggers a mabl deployment event and waits for the tests it starts.
var RootCmd = &cobra.Command{
	Use:   "mabl-run-tests",
	Short: "Run mabl tests for a deployment",
	Long: `Triggers a mabl deployment event for an application or environment, waits until every
triggered plan has finished and reports the results to the CI pipeline.

Inputs are read from flags, then from the pipeline inputs (INPUT_* variables), then from defaults.
The API key is read from MABL_API_KEY.`,
	Example: `mabl-run-tests --application-id abc-a --browser-types chrome,firefox`,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Errors are printed once by main.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		level, err := log.ParseLogLevel(configHandler.GetString(cfg.LogsLevelKey, nil))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return e.ExecuteRunTests(cmd.Context(), configHandler)
	},
}

func init() {
	if err := configHandler.BindRunTestsFlags(RootCmd); err != nil {
		panic(err)
	}
}

// Execute runs the root command with ctx. Cancelling ctx stops any wait for results.
// This is called by main.main().
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}
