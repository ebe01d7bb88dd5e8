package ci

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
)

// Output names set by the action. Counters are snake case, the deployment id is dash case.
const (
	OutputDeploymentID = "mabl-deployment-id"
	OutputPlansRun     = "plans_run"
	OutputPlansPassed  = "plans_passed"
	OutputPlansFailed  = "plans_failed"
	OutputTestsRun     = "tests_run"
	OutputTestsPassed  = "tests_passed"
	OutputTestsFailed  = "tests_failed"
)

// NoopOutputWriter is an OutputWriter that does nothing.
type NoopOutputWriter struct{}

// WriteOutput implements OutputWriter.
func (w *NoopOutputWriter) WriteOutput(_, _ string) error {
	return nil
}

// WriteSummary implements OutputWriter.
func (w *NoopOutputWriter) WriteSummary(_ string) error {
	return nil
}

// LogOutputWriter logs outputs instead of handing them to a pipeline.
// Used for local runs.
type LogOutputWriter struct{}

// WriteOutput implements OutputWriter.
func (w *LogOutputWriter) WriteOutput(key, value string) error {
	log.Info("Output", "name", key, "value", value)
	return nil
}

// WriteSummary implements OutputWriter.
func (w *LogOutputWriter) WriteSummary(content string) error {
	log.Debug("Summary", "content", content)
	return nil
}

// FileOutputWriter writes outputs to a file (like $GITHUB_OUTPUT).
type FileOutputWriter struct {
	outputPath  string
	summaryPath string
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(outputPath, summaryPath string) *FileOutputWriter {
	return &FileOutputWriter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
	}
}

// WriteOutput writes a key-value pair to the output file.
// Format: key=value (single line) or key<<EOF\nvalue\nEOF (multiline).
func (w *FileOutputWriter) WriteOutput(key, value string) error {
	if w.outputPath == "" {
		return nil
	}

	f, err := os.OpenFile(w.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteOutput, err)
	}
	defer f.Close()

	if strings.Contains(value, "\n") {
		delimiter := "EOF"
		// Ensure delimiter doesn't appear in value.
		for strings.Contains(value, delimiter) {
			delimiter += "_"
		}
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", key, value)
	}
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteOutput, err)
	}

	return nil
}

// WriteSummary appends content to the job summary file.
func (w *FileOutputWriter) WriteSummary(content string) error {
	if w.summaryPath == "" {
		return nil
	}

	f, err := os.OpenFile(w.summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteSummary, err)
	}
	defer f.Close()

	if _, err = f.WriteString(content); err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteSummary, err)
	}
	return nil
}

// OutputHelpers provides helper methods for common CI output patterns.
type OutputHelpers struct {
	Writer OutputWriter
}

// NewOutputHelpers creates a new OutputHelpers.
func NewOutputHelpers(writer OutputWriter) *OutputHelpers {
	return &OutputHelpers{Writer: writer}
}

// ResultOutputOptions contains the counters of a finished deployment event.
type ResultOutputOptions struct {
	PlansRun    int
	PlansPassed int
	PlansFailed int
	TestsRun    int
	TestsPassed int
	TestsFailed int
}

// WriteDeploymentID writes the id of the created deployment event.
func (h *OutputHelpers) WriteDeploymentID(id string) error {
	return h.Writer.WriteOutput(OutputDeploymentID, id)
}

// WriteResultOutputs writes the plan and test counters.
func (h *OutputHelpers) WriteResultOutputs(opts ResultOutputOptions) error {
	outputs := []struct {
		key   string
		value int
	}{
		{OutputPlansRun, opts.PlansRun},
		{OutputPlansPassed, opts.PlansPassed},
		{OutputPlansFailed, opts.PlansFailed},
		{OutputTestsRun, opts.TestsRun},
		{OutputTestsPassed, opts.TestsPassed},
		{OutputTestsFailed, opts.TestsFailed},
	}

	for _, output := range outputs {
		if err := h.Writer.WriteOutput(output.key, strconv.Itoa(output.value)); err != nil {
			return err
		}
	}
	return nil
}
