package md2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrInputNotFound    = errors.New("input file not found")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrWritePDF         = errors.New("failed to write PDF file")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Options validation errors.
	ErrInvalidFormat = errors.New("invalid page format")
	ErrInvalidMargin = errors.New("invalid margin")
)
