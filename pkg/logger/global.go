package logger

import (
	"io"
	"os"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

// defaultLogger holds the process-wide *charm.Logger.
var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(New(os.Stderr))
}

// Default returns the global logger.
func Default() *charm.Logger {
	return defaultLogger.Load().(*charm.Logger)
}

// SetDefault replaces the global logger. A nil logger is ignored.
func SetDefault(l *charm.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// SetLevel sets the level of the global logger.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// GetLevel returns the level of the global logger.
func GetLevel() Level {
	return Default().GetLevel()
}

// SetOutput redirects the global logger.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

func Trace(msg any, keyvals ...any) {
	Default().Log(TraceLevel, msg, keyvals...)
}

func Debug(msg any, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	Default().Error(msg, keyvals...)
}
