package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors for translator construction and translation.
var (
	ErrTranslation  = errors.New("markdown translation failed")
	ErrMathNotLast  = errors.New("math extension must be registered last")
	ErrNilExtension = errors.New("nil extension")
)

// Translation is the result of translating one document.
type Translation struct {
	HTML      string          // content fragment, no <html> wrapper
	Headings  []HeadingRecord // document order
	Footnotes []FootnoteEntry // ordinal order
	HasMath   bool            // at least one math span was rendered
	Math      MathConfig      // settings the typesetter must use
}

// Translator converts extended Markdown to an HTML fragment. It holds no
// per-document state: each Translate call builds its own goldmark instance
// and Registry, so a Translator may be shared between goroutines.
type Translator struct {
	extensions []Extension
	math       MathConfig
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithMath sets the math configuration used by the default extension list.
func WithMath(cfg MathConfig) TranslatorOption {
	return func(t *Translator) {
		t.math = cfg
		t.extensions = DefaultExtensions(cfg)
	}
}

// WithExtensions replaces the extension list. Order is precedence order.
func WithExtensions(exts ...Extension) TranslatorOption {
	return func(t *Translator) {
		t.extensions = exts
	}
}

// DefaultExtensions returns the standard extension order: heading ids,
// alerts, footnote references, footnote definitions, then math.
func DefaultExtensions(math MathConfig) []Extension {
	return []Extension{
		HeadingIDs{},
		Alerts{},
		FootnoteReferences{},
		FootnoteDefinitions{},
		&Math{Config: math},
	}
}

// NewTranslator creates a Translator. It returns ErrMathNotLast when a math
// extension is followed by another extension.
func NewTranslator(opts ...TranslatorOption) (*Translator, error) {
	t := &Translator{math: DefaultMathConfig()}
	t.extensions = DefaultExtensions(t.math)
	for _, opt := range opts {
		opt(t)
	}

	for i, ext := range t.extensions {
		if ext == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilExtension, i)
		}
		if m, ok := ext.(*Math); ok {
			if i != len(t.extensions)-1 {
				return nil, ErrMathNotLast
			}
			t.math = m.Config
		}
	}
	return t, nil
}

// Extensions returns the extension names in registration order.
func (t *Translator) Extensions() []string {
	names := make([]string, len(t.extensions))
	for i, ext := range t.extensions {
		names[i] = ext.Name()
	}
	return names
}

// newMarkdown builds the baseline translator and registers the extensions.
func (t *Translator) newMarkdown() goldmark.Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	for rank, ext := range t.extensions {
		ext.Extend(md, rank)
	}
	return md
}

// Translate converts source to an HTML fragment and collects the headings
// and footnotes it defines. Goldmark has no context support, so the work
// runs in a goroutine and Translate returns early on cancellation.
func (t *Translator) Translate(ctx context.Context, source string) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		tr  *Translation
		err error
	}
	done := make(chan result, 1)

	go func() {
		tr, err := t.translate([]byte(source))
		done <- result{tr: tr, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.tr, r.err
	}
}

func (t *Translator) translate(source []byte) (tr *Translation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrTranslation, r)
		}
	}()

	md := t.newMarkdown()
	reg := NewRegistry()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ContextWithRegistry(reg)))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslation, err)
	}

	return &Translation{
		HTML:      buf.String(),
		Headings:  reg.Headings(),
		Footnotes: reg.Footnotes(),
		HasMath:   containsMath(doc),
		Math:      t.math,
	}, nil
}

func containsMath(doc ast.Node) bool {
	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && (n.Kind() == KindMathInline || n.Kind() == KindMathBlock) {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
