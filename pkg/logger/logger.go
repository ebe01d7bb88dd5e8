// Package logger wraps charmbracelet/log with a process-wide default logger
// and the level names accepted by the --logs-level flag.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

// Level is a logging level.
type Level = charm.Level

const (
	// TraceLevel is one step more verbose than Debug.
	TraceLevel = charm.DebugLevel - 1
	DebugLevel = charm.DebugLevel
	InfoLevel  = charm.InfoLevel
	WarnLevel  = charm.WarnLevel
	ErrorLevel = charm.ErrorLevel
	// OffLevel silences every message.
	OffLevel = charm.FatalLevel + 1
)

// Names accepted in configuration.
const (
	LogLevelOff     = "Off"
	LogLevelTrace   = "Trace"
	LogLevelDebug   = "Debug"
	LogLevelInfo    = "Info"
	LogLevelWarning = "Warning"
	LogLevelError   = "Error"
)

// New creates a logger writing to w with the project styles.
func New(w io.Writer) *charm.Logger {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: false,
		Level:           InfoLevel,
	})

	styles := charm.DefaultStyles()
	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRCE").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("61"))
	l.SetStyles(styles)

	return l
}

// ParseLogLevel converts a configured level name to a Level.
// An empty string means Info.
func ParseLogLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return InfoLevel, nil
	case strings.ToLower(LogLevelTrace):
		return TraceLevel, nil
	case strings.ToLower(LogLevelDebug):
		return DebugLevel, nil
	case strings.ToLower(LogLevelInfo):
		return InfoLevel, nil
	case strings.ToLower(LogLevelWarning), "warn":
		return WarnLevel, nil
	case strings.ToLower(LogLevelError):
		return ErrorLevel, nil
	case strings.ToLower(LogLevelOff):
		return OffLevel, nil
	default:
		return InfoLevel, fmt.Errorf("%w '%s'. Supported log levels are Trace, Debug, Info, Warning, Error, Off",
			errUtils.ErrInvalidLogLevel, name)
	}
}
