package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mablhq/github-run-tests-action/cmd"
	errUtils "github.com/mablhq/github-run-tests-action/errors"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
)

func main() {
	// Run the application and exit with the appropriate code.
	// Use errUtils.OsExit to allow test interception.
	errUtils.OsExit(run())
}

// run executes the main application logic and returns an exit code.
func run() int {
	// SIGINT and SIGTERM cancel the context so the wait for results stops cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Default().SetReportTimestamp(false)

	err := cmd.Execute(ctx)
	if err != nil {
		// Format and print error using centralized formatter.
		formatted := errUtils.Format(err, errUtils.DefaultFormatterConfig())
		os.Stderr.WriteString(formatted + "\n")

		// Extract and use the correct exit code.
		exitCode := errUtils.GetExitCode(err)
		log.Debug("Exiting with exit code", "code", exitCode)
		return exitCode
	}

	return 0
}
