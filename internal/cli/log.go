// Package cli implements the texgraph command-line interface.
//
// Commands turn scene files into TikZ pictures and LaTeX documents, generate
// standalone lattices, matrices and trees from flags, list the style catalog,
// manage the render cache, and serve the pipeline over HTTP. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Emit a scene as tikz, tex, dot, svg, pdf or png (optionally on every save)
//   - document: Wrap a scene's figures in a LaTeX document, with an interactive section picker
//   - lattice, matrix, tree, classic: Generate a single picture from flags
//   - styles: Show the style catalog or its LaTeX preamble
//   - cache: Manage the render cache
//   - serve: Run the HTTP render server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/texgraph/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// newLogger creates the CLI logger: timestamps as "15:04:05.00", filtered
// at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logFormats are the accepted --log-format values.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// withFormat returns a copy of l that writes records in the named format.
func withFormat(l *log.Logger, name string) (*log.Logger, error) {
	f, ok := logFormats[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid log format %q (must be text, json or logfmt)", name).
			With("format", name)
	}
	out := l.With()
	out.SetFormatter(f)
	return out, nil
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside
// a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
