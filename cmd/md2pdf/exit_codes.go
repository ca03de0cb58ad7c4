package main

import (
	"context"
	"errors"
	"os"

	md2pdf "github.com/alnah/go-md2pdf-ja"
	"github.com/alnah/go-md2pdf-ja/internal/config"
	"github.com/alnah/go-md2pdf-ja/internal/markup"
)

// Exit codes for the md2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or document content
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor maps an error to an exit code. It relies on errors.Is, so
// callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, md2pdf.ErrBrowserConnect) ||
		errors.Is(err, md2pdf.ErrPageCreate) ||
		errors.Is(err, md2pdf.ErrPageLoad) ||
		errors.Is(err, md2pdf.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2pdf.ErrInputNotFound) ||
		errors.Is(err, md2pdf.ErrReadMarkdown) ||
		errors.Is(err, md2pdf.ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, md2pdf.ErrInvalidFormat) ||
		errors.Is(err, md2pdf.ErrInvalidMargin) ||
		errors.Is(err, md2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, markup.ErrMalformedMath) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
