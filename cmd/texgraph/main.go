package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/texgraph/internal/cli"
	"github.com/matzehuels/texgraph/pkg/errors"
)

// Exit statuses.
const (
	exitOK       = 0
	exitFailure  = 1
	exitRejected = 2 // scene, flags or styles failed validation
	exitCanceled = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var verbose, quiet bool

	c := cli.New(stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)
	root.SilenceErrors = true

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// The level is only known after flag parsing.
	inner := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogWarn)
		}
		if inner != nil {
			inner(cmd, args)
		}
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, context.Canceled):
		return exitCanceled
	case strings.HasPrefix(string(errors.GetCode(err)), "INVALID_"):
		return exitRejected
	}
	return exitFailure
}
