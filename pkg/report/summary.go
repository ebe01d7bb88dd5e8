package report

import (
	"fmt"
	"strings"

	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

// Summary renders a markdown job summary with plan and test counters and one line per plan.
func Summary(result *dtos.ExecutionResult, outputLink string) string {
	var b strings.Builder

	b.WriteString("## mabl deployment results\n\n")
	if outputLink != "" {
		fmt.Fprintf(&b, "[View output in mabl](%s)\n\n", outputLink)
	}

	b.WriteString("| | Run | Passed | Failed |\n")
	b.WriteString("|---|---|---|---|\n")
	writeMetricsRow(&b, "Plans", result.PlanExecutionMetrics)
	writeMetricsRow(&b, "Tests", result.JourneyExecutionMetrics)

	if len(result.Executions) > 0 {
		b.WriteString("\n")
		for i := range result.Executions {
			execution := &result.Executions[i]
			name := execution.Plan.Name
			if execution.Plan.AppHref != "" {
				name = fmt.Sprintf("[%s](%s)", name, execution.Plan.AppHref)
			}
			fmt.Fprintf(&b, "- %s %s (%s)\n",
				statusLabel(execution.Success),
				name,
				FormatDuration(execution.StartTime, execution.StopTime))
		}
	}

	return b.String()
}

func writeMetricsRow(b *strings.Builder, label string, m dtos.ExecutionMetrics) {
	fmt.Fprintf(b, "| %s | %d | %d | %d |\n", label, m.Total, m.Passed, m.Failed)
}
