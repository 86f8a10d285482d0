// Package log provides the structured logging setup for bpstudy.
//
// Logging is built on zerolog. Each pipeline stage obtains a component
// logger via For and emits events with analysis-specific fields (row counts,
// column names, scores). Structured errors from pkg/errors implement
// zerolog.LogObjectMarshaler, so Err/Object attach their fields unflattened.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	root   = zerolog.New(os.Stderr).With().Timestamp().Logger()
	isInit bool
)

// Setup configures the process-wide root logger. level is one of "debug",
// "info", "warn", "error"; unknown values fall back to "info". When pretty is
// true, output is rendered with zerolog's console writer instead of JSON.
func Setup(level string, pretty bool) {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	root = zerolog.New(w).Level(toLevel(level)).With().Timestamp().Logger()
	isInit = true
}

// SetOutput redirects the root logger, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

// Logger returns the root logger. If Setup was never called, the default is
// a JSON logger on stderr at info level.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !isInit {
		return root.Level(zerolog.InfoLevel)
	}
	return root
}

// For returns a logger tagged with a component name, e.g. "dataset",
// "ensemble", "pipeline".
func For(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

func toLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
