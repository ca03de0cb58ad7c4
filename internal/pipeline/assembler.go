package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-md2pdf-ja/internal/assets"
	"github.com/alnah/go-md2pdf-ja/internal/markup"
)

// Sentinel errors for document assembly.
var (
	ErrTemplateLoad   = errors.New("document template loading failed")
	ErrDocumentRender = errors.New("document template rendering failed")
)

// DefaultLang is the document language when none is given.
const DefaultLang = "ja"

// KaTeXBaseURL is where the math typesetter is loaded from.
const KaTeXBaseURL = "https://cdn.jsdelivr.net/npm/katex@0.16.22/dist"

// DocumentData holds everything that goes into one assembled document.
type DocumentData struct {
	Title    string
	Author   string
	Lang     string
	CSS      string // composed stylesheet, see ComposeStyles
	Content  string // translated HTML fragment
	Headings []markup.HeadingRecord

	// TOC emits a table of contents when Headings is not empty.
	TOC         bool
	TOCTitle    string
	PageNumbers bool

	// Math is nil when the document has no math.
	Math *markup.MathConfig
}

// templateData is what the document template sees. Content and TOC are
// trusted: they come from the translator and GenerateTOC, which escape text.
type templateData struct {
	Title       string
	Author      string
	Lang        string
	CSS         template.CSS
	TOC         template.HTML
	Content     template.HTML
	PageNumbers bool
	Math        *markup.MathConfig
	KaTeXBase   string
}

// Assembler renders DocumentData through the document template.
type Assembler struct {
	tmpl *template.Template
}

// NewAssembler loads and parses the document template from loader.
func NewAssembler(loader assets.AssetLoader) (*Assembler, error) {
	content, err := loader.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}
	tmpl, err := template.New(assets.DocumentTemplateName).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	return &Assembler{tmpl: tmpl}, nil
}

// Assemble produces the complete HTML document: optional title, author and
// table of contents, the content, then an optional page number placeholder.
// Optional blocks without data are omitted entirely.
func (a *Assembler) Assemble(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	td := templateData{
		Title:       data.Title,
		Author:      data.Author,
		Lang:        data.Lang,
		CSS:         template.CSS(sanitizeCSS(data.CSS)),
		Content:     template.HTML(data.Content), // #nosec G203 -- translator output
		PageNumbers: data.PageNumbers,
		Math:        data.Math,
		KaTeXBase:   KaTeXBaseURL,
	}
	if td.Lang == "" {
		td.Lang = DefaultLang
	}
	if data.TOC {
		td.TOC = template.HTML(GenerateTOC(data.Headings, data.TOCTitle)) // #nosec G203 -- escaped by GenerateTOC
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, td); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}
