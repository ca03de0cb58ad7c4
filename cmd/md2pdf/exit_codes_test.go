package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	md2pdf "github.com/alnah/go-md2pdf-ja"
	"github.com/alnah/go-md2pdf-ja/internal/config"
	"github.com/alnah/go-md2pdf-ja/internal/markup"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"browser connect", md2pdf.ErrBrowserConnect, ExitBrowser},
		{"wrapped page load", fmt.Errorf("rendering PDF: %w", md2pdf.ErrPageLoad), ExitBrowser},
		{"pdf generation", md2pdf.ErrPDFGeneration, ExitBrowser},
		{"deadline", context.DeadlineExceeded, ExitBrowser},
		{"input not found", fmt.Errorf("%w: a.md", md2pdf.ErrInputNotFound), ExitIO},
		{"write pdf", md2pdf.ErrWritePDF, ExitIO},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid timeout", config.ErrInvalidTimeout, ExitUsage},
		{"invalid format", md2pdf.ErrInvalidFormat, ExitUsage},
		{"invalid margin", md2pdf.ErrInvalidMargin, ExitUsage},
		{"malformed math", fmt.Errorf("%w: line 3", markup.ErrMalformedMath), ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"reported wraps cause", &reportedError{err: md2pdf.ErrBrowserConnect}, ExitBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
