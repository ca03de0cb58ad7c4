package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run executes the command and returns the exit code.
func run(args []string, env *Environment) int {
	f, fs, inputs, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'md2pdf --help' for usage.\n", err)
		return ExitUsage
	}
	if f.help {
		printUsage(env.Stdout, fs, terminalWidth(env.Stdout, 80))
		return ExitSuccess
	}
	if f.version {
		fmt.Fprintf(env.Stdout, "md2pdf-ja %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	logger := newLogger(env.Stderr, f.quiet, f.verbose)
	err = runConvert(ctx, f, fs, inputs, env, logger)
	if err == nil {
		return ExitSuccess
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		newPrinter(env, f.quiet, f.verbose).errorLine(err, f.config)
	}
	return exitCodeFor(err)
}

// newLogger builds the stderr logger: warnings by default, debug with
// verbose, errors only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}
