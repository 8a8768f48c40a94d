// Package logger provides process-wide logging for threadsift.
// It wraps zerolog: human-readable console output on stderr by default,
// JSON lines with --log-format json. Debug and info messages are only
// emitted in verbose mode; warnings and errors always are.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format  = FormatConsole
	output  = io.Writer(os.Stderr)
	root    = build()
)

// build creates the root logger from the current settings (caller holds mu or is init).
func build() zerolog.Logger {
	lvl := zerolog.WarnLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}

	w := output
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	root = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetFormat selects console or json output. Unknown values mean console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.EqualFold(strings.TrimSpace(f), FormatJSON) {
		format = FormatJSON
	} else {
		format = FormatConsole
	}
	root = build()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = build()
}

// Get returns the root logger for structured fields.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := root
	return &l
}

// Debug logs a formatted message at debug level.
func Debug(msg string, args ...any) {
	Get().Debug().Msgf(msg, args...)
}

// Section logs a stage header at debug level.
func Section(name string) {
	Get().Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info logs a formatted message at info level.
func Info(msg string, args ...any) {
	Get().Info().Msgf(msg, args...)
}

// Warn logs a formatted message at warn level.
func Warn(msg string, args ...any) {
	Get().Warn().Msgf(msg, args...)
}

// Error logs err with a formatted message at error level.
func Error(err error, msg string, args ...any) {
	Get().Error().Err(err).Msgf(msg, args...)
}
