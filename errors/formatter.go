package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const (
	// DefaultMaxLineLength is the default maximum line length before wrapping.
	DefaultMaxLineLength = 120

	newline    = "\n"
	hintPrefix = "    💡 "
)

// FormatterConfig controls error formatting behavior.
type FormatterConfig struct {
	// Verbose adds the context table and the full error chain.
	Verbose bool

	// Color is "auto", "always" or "never".
	Color string

	// MaxLineLength is the maximum length before wrapping.
	MaxLineLength int
}

// DefaultFormatterConfig returns default formatting configuration.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Verbose:       false,
		Color:         "auto",
		MaxLineLength: maxLineLength(),
	}
}

// maxLineLength narrows the default to the terminal width when stderr is a smaller terminal.
func maxLineLength() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 || width >= DefaultMaxLineLength {
		return DefaultMaxLineLength
	}
	return width
}

// Format renders err for the single top-level error handler.
func Format(err error, config FormatterConfig) string {
	if err == nil {
		return ""
	}

	useColor := shouldUseColor(config.Color)
	errorStyle := lipgloss.NewStyle()
	if useColor {
		errorStyle = errorStyle.Foreground(lipgloss.Color("#FF0000"))
	}

	var output strings.Builder

	mainMsg := err.Error()
	if len(mainMsg) > config.MaxLineLength && !config.Verbose {
		output.WriteString(errorStyle.Render(wrapText(mainMsg, config.MaxLineLength)))
	} else {
		output.WriteString(errorStyle.Render(mainMsg))
	}

	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		output.WriteString(newline)
		for _, hint := range hints {
			output.WriteString(hintPrefix + hint)
			output.WriteString(newline)
		}
	}

	if config.Verbose {
		if contextTable := formatContextTable(err); contextTable != "" {
			output.WriteString(contextTable)
			output.WriteString(newline)
		}
		output.WriteString(newline)
		output.WriteString(fmt.Sprintf("%+v", err))
	}

	return output.String()
}

// formatContextTable renders the safe details attached by ErrorBuilder.WithContext.
func formatContextTable(err error) string {
	var rows [][]string
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			for _, pair := range strings.Split(detail, " ") {
				if parts := strings.SplitN(pair, "=", 2); len(parts) == 2 {
					rows = append(rows, []string{parts[0], parts[1]})
				}
			}
		}
	}
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Context", "Value").
		Rows(rows...)

	return newline + t.String()
}

func shouldUseColor(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

// wrapText wraps text to the specified width on word boundaries.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = DefaultMaxLineLength
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range strings.Fields(text) {
		if currentLine.Len() > 0 && currentLine.Len()+1+len(word) > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, newline)
}
