package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	md2pdf "github.com/alnah/go-md2pdf-ja"
	"github.com/alnah/go-md2pdf-ja/internal/config"
	"github.com/alnah/go-md2pdf-ja/internal/hints"
	"github.com/alnah/go-md2pdf-ja/internal/markup"
)

// ANSI colors for status lines.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// printer writes status lines, colored only when the target is a terminal.
type printer struct {
	stdout   io.Writer
	stderr   io.Writer
	colorOut bool
	colorErr bool
	quiet    bool
	verbose  bool
}

func newPrinter(env *Environment, quiet, verbose bool) *printer {
	p := &printer{
		stdout:  env.Stdout,
		stderr:  env.Stderr,
		quiet:   quiet,
		verbose: verbose,
	}
	if env.IsTerminal != nil {
		p.colorOut = env.IsTerminal(env.Stdout)
		p.colorErr = env.IsTerminal(env.Stderr)
	}
	return p
}

func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// results prints one line per conversion and a summary for batches. It
// returns the first error.
func (p *printer) results(results []md2pdf.BatchResult, configName string) error {
	var firstErr error
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			p.failure(r.Input, r.Err, configName)
			continue
		}
		if p.quiet {
			continue
		}
		line := paint(p.colorOut, colorGreen, "✓") + " Created " + r.Output
		if p.verbose {
			line += " " + paint(p.colorOut, colorGray, fmt.Sprintf("(%v)", r.Duration.Round(time.Millisecond)))
		}
		fmt.Fprintln(p.stdout, line)
	}

	if !p.quiet && len(results) > 1 {
		fmt.Fprintf(p.stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return firstErr
}

func (p *printer) failure(input string, err error, configName string) {
	label := paint(p.colorErr, colorRed, "✗ FAILED")
	if input != "" {
		label += " " + input
	}
	fmt.Fprintf(p.stderr, "%s: %v%s\n", label, err, hintFor(err, configName))
}

// errorLine prints a failure that is not tied to one input.
func (p *printer) errorLine(err error, configName string) {
	fmt.Fprintf(p.stderr, "%s %v%s\n", paint(p.colorErr, colorRed, "error:"), err, hintFor(err, configName))
}

// hintFor picks an actionable hint for err, or "".
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, md2pdf.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, md2pdf.ErrBrowserConnect),
		errors.Is(err, md2pdf.ErrPageCreate),
		errors.Is(err, md2pdf.ErrPDFGeneration):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, md2pdf.ErrWritePDF):
		return hints.ForOutputDirectory()
	case errors.Is(err, markup.ErrMalformedMath):
		return hints.ForMalformedMath()
	}
	return ""
}
