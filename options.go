package md2pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Theme names.
const (
	ThemeDefault  = "default"
	ThemeAcademic = "academic"
	ThemeBusiness = "business"
)

// Page formats.
const (
	FormatA4     = "A4"
	FormatA5     = "A5"
	FormatB5     = "B5"
	FormatLetter = "Letter"
)

// DefaultMargin applies to every side without an explicit value.
const DefaultMargin = "20mm"

// DefaultTOCTitle heads the table of contents when no title is given.
const DefaultTOCTitle = "目次"

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64
	Height float64
}

var paperSizes = map[string]PaperSize{
	"a4":     {Width: 8.27, Height: 11.69},
	"a5":     {Width: 5.83, Height: 8.27},
	"b5":     {Width: 6.93, Height: 9.84},
	"letter": {Width: 8.5, Height: 11},
}

// PaperSizeFor returns the paper size of a format name (case-insensitive).
// An empty name means A4.
func PaperSizeFor(format string) (PaperSize, error) {
	if format == "" {
		format = FormatA4
	}
	size, ok := paperSizes[strings.ToLower(format)]
	if !ok {
		return PaperSize{}, fmt.Errorf("%w: %q (must be A4, A5, B5, or Letter)", ErrInvalidFormat, format)
	}
	return size, nil
}

// Margins holds CSS lengths per side, such as "20mm" or "1in".
// Empty sides use DefaultMargin.
type Margins struct {
	Top    string
	Right  string
	Bottom string
	Left   string
}

// Validate checks that every set side is a parsable length.
// Returns nil if m is nil (nil means defaults).
func (m *Margins) Validate() error {
	_, err := m.inches()
	return err
}

// inches converts the four sides, in top, right, bottom, left order.
func (m *Margins) inches() ([4]float64, error) {
	var sides [4]string
	if m != nil {
		sides = [4]string{m.Top, m.Right, m.Bottom, m.Left}
	}

	var out [4]float64
	for i, s := range sides {
		if s == "" {
			s = DefaultMargin
		}
		v, err := parseLength(s)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

var lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(mm|cm|in|px|pt)$`)

// parseLength converts a CSS length to inches.
func parseLength(s string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("%w: %q (use a length such as 20mm, 2cm, 1in, 96px, or 72pt)", ErrInvalidMargin, s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
	}

	switch m[2] {
	case "mm":
		return v / 25.4, nil
	case "cm":
		return v / 2.54, nil
	case "px":
		return v / 96, nil
	case "pt":
		return v / 72, nil
	}
	return v, nil
}

// MathOptions configures the math typesetter.
type MathOptions struct {
	Strict bool // reject non-ASCII characters inside math
	Trust  bool // allow commands that emit raw markup
}

// DefaultMathOptions is non-strict and trusted.
func DefaultMathOptions() MathOptions {
	return MathOptions{Trust: true}
}

// Options describes one conversion.
type Options struct {
	Input  string // Markdown file, used by ConvertFile
	Output string // PDF path; derived from Input when empty

	// BaseDir resolves relative image and link paths. ConvertFile defaults
	// it to the directory of Input.
	BaseDir string

	Title       string
	Author      string
	Theme       string // default, academic, business; unknown names get no theme styling
	Format      string // A4, A5, B5, Letter
	CSSPath     string
	PageNumbers bool
	TOC         bool
	TOCTitle    string
	Margins     *Margins
	Lang        string
	Math        *MathOptions

	// HTMLOutput, when set, receives the assembled document as well.
	HTMLOutput string
}

// Validate rejects unknown formats and malformed margins.
func (o Options) Validate() error {
	if _, err := PaperSizeFor(o.Format); err != nil {
		return err
	}
	return o.Margins.Validate()
}

// PageSetup is what the renderer needs to lay out pages.
type PageSetup struct {
	Paper        PaperSize
	MarginTop    float64 // inches
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	PageNumbers  bool
}

// pageSetup resolves the page geometry of o.
func (o Options) pageSetup() (PageSetup, error) {
	paper, err := PaperSizeFor(o.Format)
	if err != nil {
		return PageSetup{}, err
	}
	margins, err := o.Margins.inches()
	if err != nil {
		return PageSetup{}, err
	}
	return PageSetup{
		Paper:        paper,
		MarginTop:    margins[0],
		MarginRight:  margins[1],
		MarginBottom: margins[2],
		MarginLeft:   margins[3],
		PageNumbers:  o.PageNumbers,
	}, nil
}
