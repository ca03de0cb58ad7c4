package markup

import (
	"bytes"
	"html"
	"regexp"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// KindFootnoteReference is the node kind of FootnoteReference.
	KindFootnoteReference = ast.NewNodeKind("FootnoteReference")

	// KindFootnoteDefinition is the node kind of FootnoteDefinition.
	KindFootnoteDefinition = ast.NewNodeKind("FootnoteDefinition")
)

// FootnoteReference is an inline [^label].
type FootnoteReference struct {
	ast.BaseInline
	Label   string
	Ordinal int  // set after parsing, in document order
	Anchor  bool // first reference of its label; carries the fnref id
}

// Kind implements ast.Node.
func (n *FootnoteReference) Kind() ast.NodeKind { return KindFootnoteReference }

// Dump implements ast.Node.
func (n *FootnoteReference) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label":   n.Label,
		"Ordinal": strconv.Itoa(n.Ordinal),
	}, nil)
}

// FootnoteDefinition is a block [^label]: body. Its lines are the body.
type FootnoteDefinition struct {
	ast.BaseBlock
	Label   string
	Ordinal int
}

// Kind implements ast.Node.
func (n *FootnoteDefinition) Kind() ast.NodeKind { return KindFootnoteDefinition }

// Dump implements ast.Node.
func (n *FootnoteDefinition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label":   n.Label,
		"Ordinal": strconv.Itoa(n.Ordinal),
	}, nil)
}

type footnoteRefParser struct{}

func (p *footnoteRefParser) Trigger() []byte { return []byte{'['} }

func (p *footnoteRefParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 4 || line[1] != '^' {
		return nil
	}
	end := bytes.IndexByte(line[2:], ']')
	if end < 1 {
		return nil
	}
	label := line[2 : 2+end]
	if bytes.ContainsAny(label, "\r\n") {
		return nil
	}
	block.Advance(end + 3)
	return &FootnoteReference{Label: string(label)}
}

// footnoteDefPattern matches the start of a definition line.
var footnoteDefPattern = regexp.MustCompile(`^ {0,3}\[\^([^\]\r\n]+)\]:`)

type footnoteDefParser struct{}

func (p *footnoteDefParser) Trigger() []byte { return []byte{'['} }

func (p *footnoteDefParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := footnoteDefPattern.FindSubmatchIndex(line)
	if m == nil {
		return nil, parser.NoChildren
	}
	node := &FootnoteDefinition{Label: string(line[m[2]:m[3]])}
	bodySeg := text.NewSegment(segment.Start+m[1], segment.Stop)
	body := bodySeg.TrimLeftSpace(reader.Source())
	if !body.IsEmpty() {
		node.Lines().Append(body)
	}
	advanceLine(reader, line, segment)
	return node, parser.NoChildren
}

func (p *footnoteDefParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) || footnoteDefPattern.Match(line) {
		return parser.Close
	}
	node.Lines().Append(segment.TrimLeftSpace(reader.Source()))
	advanceLine(reader, line, segment)
	return parser.Continue | parser.NoChildren
}

func (p *footnoteDefParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	trimLines(node, reader.Source())
}

func (p *footnoteDefParser) CanInterruptParagraph() bool { return true }

func (p *footnoteDefParser) CanAcceptIndentedLine() bool { return false }

// footnoteNumberedKey marks a parse whose footnotes already have ordinals,
// so the transformer runs once even when both footnote extensions register it.
var footnoteNumberedKey = parser.NewContextKey()

// footnoteOrdinals assigns ordinals by walking the finished document in
// order, so the first sighting of a label wins whether it is a reference or
// a definition.
type footnoteOrdinals struct{}

func (t *footnoteOrdinals) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if pc.Get(footnoteNumberedKey) != nil {
		return
	}
	pc.Set(footnoteNumberedKey, true)

	reg := registryFrom(pc)
	anchored := make(map[string]bool)
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *FootnoteReference:
			n.Ordinal = reg.FootnoteOrdinal(n.Label)
			if !anchored[n.Label] {
				anchored[n.Label] = true
				n.Anchor = true
			}
		case *FootnoteDefinition:
			n.Ordinal = reg.FootnoteOrdinal(n.Label)
			reg.markDefined(n.Label)
		}
		return ast.WalkContinue, nil
	})
}

type footnoteRenderer struct{}

func (r *footnoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFootnoteReference, r.renderReference)
	reg.Register(KindFootnoteDefinition, r.renderDefinition)
}

func (r *footnoteRenderer) renderReference(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*FootnoteReference)
	label := html.EscapeString(n.Label)
	_, _ = w.WriteString(`<sup class="footnote-ref"><a href="#fn-` + label + `"`)
	if n.Anchor {
		_, _ = w.WriteString(` id="fnref-` + label + `"`)
	}
	_, _ = w.WriteString(`>[` + strconv.Itoa(n.Ordinal) + `]</a></sup>`)
	return ast.WalkSkipChildren, nil
}

func (r *footnoteRenderer) renderDefinition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*FootnoteDefinition)
	label := html.EscapeString(n.Label)
	if entering {
		_, _ = w.WriteString(`<div class="footnote" id="fn-` + label + `">` +
			`<span class="footnote-num">[` + strconv.Itoa(n.Ordinal) + `]</span> ` +
			`<span class="footnote-text">`)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`</span> <a href="#fnref-` + label + `" class="footnote-backref">↩</a></div>` + "\n")
	return ast.WalkContinue, nil
}

// FootnoteReferences recognizes inline [^label] references.
type FootnoteReferences struct{}

// Name implements Extension.
func (FootnoteReferences) Name() string { return "footnote-reference" }

// Extend implements Extension.
func (FootnoteReferences) Extend(m goldmark.Markdown, rank int) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&footnoteRefParser{}, footnoteRefParserPriority+rank)),
		parser.WithASTTransformers(util.Prioritized(&footnoteOrdinals{}, footnoteTransformerPriority)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&footnoteRenderer{}, rendererPriority+rank),
	))
}

// FootnoteDefinitions recognizes [^label]: body blocks. The body runs until
// a blank line or the next definition.
type FootnoteDefinitions struct{}

// Name implements Extension.
func (FootnoteDefinitions) Name() string { return "footnote-definition" }

// Extend implements Extension.
func (FootnoteDefinitions) Extend(m goldmark.Markdown, rank int) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&footnoteDefParser{}, footnoteDefParserPriority+rank)),
		parser.WithASTTransformers(util.Prioritized(&footnoteOrdinals{}, footnoteTransformerPriority)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&footnoteRenderer{}, rendererPriority+rank),
	))
}
