package md2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-md2pdf-ja/internal/assets"
	"github.com/alnah/go-md2pdf-ja/internal/fileutil"
	"github.com/alnah/go-md2pdf-ja/internal/markup"
	"github.com/alnah/go-md2pdf-ja/internal/pipeline"
)

var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ Renderer                      = (*rodRenderer)(nil)
	_ assets.AssetLoader            = AssetLoader(nil)
)

// defaultTimeout bounds one conversion when no timeout is configured.
const defaultTimeout = 30 * time.Second

// filePermissions is used for written PDF and HTML files.
const filePermissions = 0o644

// AssetLoader loads stylesheets and the document template by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// Heading is an entry of the document outline.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Footnote describes a footnote label seen in the document.
type Footnote struct {
	Label   string
	Ordinal int
	Defined bool
}

// Result is the outcome of a conversion.
type Result struct {
	HTML      string // complete HTML document
	PDF       []byte // nil for ConvertMarkdown
	Output    string // written PDF path, ConvertFile only
	Headings  []Heading
	Footnotes []Footnote
	HasMath   bool
}

// Converter runs the Markdown to PDF pipeline. It is safe for concurrent use:
// every conversion gets its own translator state.
type Converter struct {
	logger       *slog.Logger
	timeout      time.Duration
	renderer     Renderer
	loader       assets.AssetLoader
	assetPath    string
	preprocessor pipeline.MarkdownPreprocessor
	assembler    *pipeline.Assembler
	baseCSS      string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.timeout = d
	}
}

// WithRenderer replaces the headless Chrome renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithAssetLoader replaces the embedded stylesheets and template.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.loader = l
	}
}

// WithAssetPath overlays a directory of styles/*.css and templates/*.html
// on the embedded assets. Names missing from the directory fall back.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.assetPath = dir
	}
}

// NewConverter creates a Converter. It fails when the asset path is invalid
// or the document template cannot be parsed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:      defaultTimeout,
		preprocessor: &pipeline.CommonMarkPreprocessor{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		resolver, err := assets.NewAssetResolver(c.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		if resolver.HasCustomLoader() {
			c.logger.Debug("using custom assets", "path", c.assetPath)
		}
		c.loader = resolver
	}

	base, err := c.loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading base style: %w", err)
	}
	c.baseCSS = base + "\n" + pipeline.SyntaxCSS()

	c.assembler, err = pipeline.NewAssembler(c.loader)
	if err != nil {
		return nil, err
	}

	if c.renderer == nil {
		c.renderer = newRodRenderer(c.timeout, c.logger)
	}
	return c, nil
}

// ConvertFile converts opts.Input and writes the PDF to opts.Output, or next
// to the input when Output is empty. The destination is replaced atomically,
// so a failed conversion never leaves a partial file.
func (c *Converter) ConvertFile(ctx context.Context, opts Options) (*Result, error) {
	if !fileutil.FileExists(opts.Input) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.Input)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Output == "" {
		opts.Output = fileutil.DefaultOutputPath(opts.Input)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(opts.Input)
	}

	content, err := os.ReadFile(opts.Input) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.logger.With("input", opts.Input, "output", opts.Output)
	log.Debug("converting")

	res, err := c.ConvertMarkdown(ctx, string(content), opts)
	if err != nil {
		return nil, err
	}

	if opts.HTMLOutput != "" {
		if err := fileutil.WriteFileAtomic(opts.HTMLOutput, []byte(res.HTML), filePermissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
		}
		log.Debug("wrote HTML", "path", opts.HTMLOutput)
	}

	page, err := opts.pageSetup()
	if err != nil {
		return nil, err
	}
	pdf, err := c.renderer.Render(ctx, res.HTML, page)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}

	if err := fileutil.WriteFileAtomic(opts.Output, pdf, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	res.PDF = pdf
	res.Output = opts.Output
	log.Info("PDF generated", "bytes", len(pdf))
	return res, nil
}

// ConvertMarkdown translates and assembles markdown into a complete HTML
// document. It does not render a PDF.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) ConvertMarkdown(ctx context.Context, markdown string, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mathOpts := DefaultMathOptions()
	if opts.Math != nil {
		mathOpts = *opts.Math
	}
	translator, err := markup.NewTranslator(markup.WithMath(markup.MathConfig(mathOpts)))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("translating", "extensions", translator.Extensions())

	source := c.preprocessor.PreprocessMarkdown(ctx, markdown)
	tr, err := translator.Translate(ctx, source)
	if err != nil {
		return nil, err
	}

	content := tr.HTML
	if opts.BaseDir != "" {
		content, err = pipeline.ResolveLocalPaths(content, opts.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("resolving local paths: %w", err)
		}
	}

	data := pipeline.DocumentData{
		Title:       opts.Title,
		Author:      opts.Author,
		Lang:        opts.Lang,
		CSS:         pipeline.ComposeStyles(c.baseCSS, c.themeCSS(opts.Theme), c.customCSS(opts.CSSPath)),
		Content:     content,
		Headings:    tr.Headings,
		TOC:         opts.TOC,
		TOCTitle:    opts.TOCTitle,
		PageNumbers: opts.PageNumbers,
	}
	if data.TOC && data.TOCTitle == "" {
		data.TOCTitle = DefaultTOCTitle
	}
	if tr.HasMath {
		data.Math = &tr.Math
	}

	doc, err := c.assembler.Assemble(ctx, data)
	if err != nil {
		return nil, err
	}

	return &Result{
		HTML:      doc,
		Headings:  toHeadings(tr.Headings),
		Footnotes: toFootnotes(tr.Footnotes),
		HasMath:   tr.HasMath,
	}, nil
}

// themeCSS loads a theme stylesheet. Unknown themes log a warning and
// contribute nothing.
func (c *Converter) themeCSS(theme string) string {
	if theme == "" {
		theme = ThemeDefault
	}
	css, err := c.loader.LoadStyle(theme)
	if err != nil {
		if !errors.Is(err, assets.ErrStyleNotFound) {
			c.logger.Warn("theme not loaded", "theme", theme, "error", err)
			return ""
		}
		c.logger.Warn("unknown theme, using base styles only", "theme", theme, "available", assets.Themes)
		return ""
	}
	if !assets.IsTheme(theme) {
		c.logger.Debug("using custom theme", "theme", theme)
	}
	return css
}

// customCSS reads the user stylesheet. A read failure is logged and the
// conversion continues without it.
func (c *Converter) customCSS(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		c.logger.Warn("could not load custom CSS", "path", path, "error", err)
		return ""
	}
	return string(data)
}

func toHeadings(records []markup.HeadingRecord) []Heading {
	if len(records) == 0 {
		return nil
	}
	out := make([]Heading, len(records))
	for i, r := range records {
		out[i] = Heading(r)
	}
	return out
}

func toFootnotes(entries []markup.FootnoteEntry) []Footnote {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Footnote, len(entries))
	for i, e := range entries {
		out[i] = Footnote(e)
	}
	return out
}
