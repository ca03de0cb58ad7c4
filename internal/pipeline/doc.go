// Package pipeline turns a translated Markdown fragment into the complete
// HTML document handed to the PDF renderer.
//
// Stages, in order:
//   - Markdown preprocessing (BOM, line endings, blank line runs)
//   - local resource path resolution in the translated fragment
//   - style composition (base, theme, custom)
//   - table of contents generation from the recorded headings
//   - document assembly through the embedded HTML template
//
// Translation itself lives in internal/markup; PDF generation is handled by
// the root md2pdf package using headless Chrome.
package pipeline
