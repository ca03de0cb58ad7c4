package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// headingIDs registers every baseline heading with the Registry and sets its
// id attribute to the returned slug.
type headingIDs struct{}

func (t *headingIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	reg := registryFrom(pc)
	source := reader.Source()
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		rec := reg.RegisterHeading(PlainText(h, source), h.Level)
		h.SetAttributeString("id", []byte(rec.ID))
		return ast.WalkSkipChildren, nil
	})
}

// PlainText returns the visible text of an inline subtree: markup, raw HTML
// and footnote references are dropped, math keeps its source.
func PlainText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := c.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.AutoLink:
			b.Write(n.Label(source))
			return ast.WalkSkipChildren, nil
		case *MathInline:
			b.Write(n.Value)
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *FootnoteReference:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// HeadingIDs gives every heading a unique slug id and records it for the
// table of contents.
type HeadingIDs struct{}

// Name implements Extension.
func (HeadingIDs) Name() string { return "heading-id" }

// Extend implements Extension.
func (HeadingIDs) Extend(m goldmark.Markdown, rank int) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&headingIDs{}, headingTransformerPriority+rank),
	))
}
