// Package report renders mabl execution results for humans and CI systems.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

const (
	statusPassed = "Passed"
	statusFailed = "Failed"
)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func statusLabel(success bool) string {
	if success {
		return statusPassed
	}
	return statusFailed
}

// FormatDuration renders the span between two epoch-millisecond timestamps as HH:MM:SS.
// Hours wrap at 24 and negative spans render as zero.
func FormatDuration(startMillis, stopMillis int64) string {
	elapsed := (stopMillis - startMillis) / 1000
	if elapsed < 0 {
		elapsed = 0
	}
	hours := (elapsed / 3600) % 24
	minutes := (elapsed / 60) % 60
	seconds := elapsed % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatExecution renders one plan execution as a plan row followed by a table of its tests.
func FormatExecution(execution *dtos.Execution) string {
	planTable := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Row(
			"Plan Name:",
			execution.Plan.Name,
			"Status:",
			statusLabel(execution.Success),
			"Duration:",
			FormatDuration(execution.StartTime, execution.StopTime),
			"mabl App Link:",
			execution.Plan.AppHref,
		)

	rows := make([][]string, 0, len(execution.JourneyExecutions))
	for i := range execution.JourneyExecutions {
		je := &execution.JourneyExecutions[i]
		rows = append(rows, []string{
			je.BrowserType,
			statusLabel(je.Success),
			execution.JourneyName(je.JourneyID),
			FormatDuration(je.StartTime, je.StopTime),
			je.AppHref,
		})
	}

	testTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Browser", "Status", "Test Name", "Duration", "mabl App Link").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Rows(rows...)

	var b strings.Builder
	b.WriteString(planTable.String())
	b.WriteString("\n")
	b.WriteString(testTable.String())
	return b.String()
}
