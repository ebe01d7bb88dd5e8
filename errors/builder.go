package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder attaches hints, safe context and an exit code to an error.
type ErrorBuilder struct {
	err       error
	hints     []string
	context   map[string]any
	exitCode  *int
	sentinels []error
}

// Build starts an ErrorBuilder from err. Leaf errors are marked as their own sentinel
// so errors.Is keeps matching after hints are attached.
func Build(err error) *ErrorBuilder {
	builder := &ErrorBuilder{err: err}
	if err != nil && errors.UnwrapOnce(err) == nil {
		builder.sentinels = append(builder.sentinels, err)
	}
	return builder
}

// WithHint adds a user-facing hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

// WithHintf adds a formatted user-facing hint.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
	return b
}

// WithContext adds a key/value pair shown in verbose output.
// Values must not contain credentials.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// WithExitCode attaches an exit code to the error.
func (b *ErrorBuilder) WithExitCode(code int) *ErrorBuilder {
	b.exitCode = &code
	return b
}

// WithSentinel marks the error so errors.Is(err, sentinel) is true.
func (b *ErrorBuilder) WithSentinel(sentinel error) *ErrorBuilder {
	b.sentinels = append(b.sentinels, sentinel)
	return b
}

// Err returns the enriched error.
func (b *ErrorBuilder) Err() error {
	if b.err == nil {
		return nil
	}

	err := b.err
	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}

	if len(b.context) > 0 {
		keys := make([]string, 0, len(b.context))
		for k := range b.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		formatParts := make([]string, 0, len(keys))
		safeValues := make([]any, 0, len(keys))
		for _, key := range keys {
			formatParts = append(formatParts, key+"=%s")
			safeValues = append(safeValues, errors.Safe(b.context[key]))
		}
		err = errors.WithSafeDetails(err, strings.Join(formatParts, " "), safeValues...)
	}

	// Sentinels go last so they sit at the top of the chain.
	for _, sentinel := range b.sentinels {
		err = errors.Mark(err, sentinel)
	}

	if b.exitCode != nil {
		err = WithExitCode(err, *b.exitCode)
	}

	return err
}

// Hints returns every hint attached anywhere in the error chain.
func Hints(err error) []string {
	return errors.GetAllHints(err)
}
