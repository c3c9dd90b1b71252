// Package cli implements the barnhunt command-line interface.
//
// This package provides commands for exporting the course maps held in
// Inkscape drawings to PDF, inspecting the views and layers of a drawing,
// previewing views in a browser and managing the converted page cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - pdfs: Export every course map to PDF files
//   - views: List the course maps a drawing contains
//   - layers: Show the classified layer tree of a drawing
//   - serve: Preview course maps over HTTP
//   - rats, coords: Random rat counts and grid coordinates
//   - cache: Manage the converted page cache
//
// # Logging
//
// The root command's --verbose (-v) flag lowers the level to debug. The
// logger travels in the command context and is handed to the pipeline
// runner and the layer classifier, so -v also shows per-drawing detail.
//
// # Example
//
//	import "github.com/barnhunt/barnhunt/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger writing to w at level. Timestamps are
// short ("14:32:01.45") since runs rarely cross midnight.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel returns the level selected by the --verbose flag.
func logLevel(verbose bool) log.Level {
	if verbose {
		return LogDebug
	}
	return LogInfo
}

// stopwatch logs the duration of a single step, such as a graphviz run.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time.
func (s stopwatch) done(msg string, keyvals ...any) {
	d := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "duration", d)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. Commands build their runners and
// classifiers from the attached logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
