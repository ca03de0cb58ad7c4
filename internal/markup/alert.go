package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Severity is the category of an alert block.
type Severity string

// Known severities.
const (
	SeverityNote      Severity = "note"
	SeverityTip       Severity = "tip"
	SeverityImportant Severity = "important"
	SeverityWarning   Severity = "warning"
	SeverityCaution   Severity = "caution"
)

type severityStyle struct {
	title string
	icon  string
}

var severityStyles = map[Severity]severityStyle{
	SeverityNote:      {"Note", "📘"},
	SeverityTip:       {"Tip", "💡"},
	SeverityImportant: {"Important", "❗"},
	SeverityWarning:   {"Warning", "⚠️"},
	SeverityCaution:   {"Caution", "🚫"},
}

// Title returns the label shown in the alert header, "Alert" for unknown
// severities.
func (s Severity) Title() string {
	if st, ok := severityStyles[s]; ok {
		return st.title
	}
	return "Alert"
}

// Icon returns the glyph shown in the alert header, a pin for unknown
// severities.
func (s Severity) Icon() string {
	if st, ok := severityStyles[s]; ok {
		return st.icon
	}
	return "📌"
}

// KindAlert is the node kind of Alert.
var KindAlert = ast.NewNodeKind("Alert")

// Alert is a block quote introduced by a [!SEVERITY] marker. Its lines are
// the quoted body with the quote prefix removed.
type Alert struct {
	ast.BaseBlock
	Severity Severity
}

// Kind implements ast.Node.
func (n *Alert) Kind() ast.NodeKind { return KindAlert }

// Dump implements ast.Node.
func (n *Alert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Severity": string(n.Severity)}, nil)
}

// alertOpenPattern matches the marker line, right-trimmed.
var alertOpenPattern = regexp.MustCompile(`(?i)^ {0,3}>[ \t]*\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]$`)

type alertParser struct{}

func (p *alertParser) Trigger() []byte { return []byte{'>'} }

func (p *alertParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := alertOpenPattern.FindSubmatch(util.TrimRightSpace(line))
	if m == nil {
		return nil, parser.NoChildren
	}
	node := &Alert{Severity: Severity(strings.ToLower(string(m[1])))}
	advanceLine(reader, line, segment)
	return node, parser.NoChildren
}

func (p *alertParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || pos >= len(line) || line[pos] != '>' {
		return parser.Close
	}
	start := pos + 1
	if start < len(line) && line[start] == ' ' {
		start++
	}
	node.Lines().Append(text.NewSegment(segment.Start+start, segment.Stop))
	advanceLine(reader, line, segment)
	return parser.Continue | parser.NoChildren
}

func (p *alertParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	trimLines(node, reader.Source())
}

func (p *alertParser) CanInterruptParagraph() bool { return true }

func (p *alertParser) CanAcceptIndentedLine() bool { return false }

// trimLines drops leading and trailing blank lines of node and trims the
// outer whitespace of what remains.
func trimLines(node ast.Node, source []byte) {
	lines := node.Lines()
	segs := append([]text.Segment(nil), lines.Sliced(0, lines.Len())...)
	for len(segs) > 0 && util.IsBlank(segs[0].Value(source)) {
		segs = segs[1:]
	}
	for len(segs) > 0 && util.IsBlank(segs[len(segs)-1].Value(source)) {
		segs = segs[:len(segs)-1]
	}
	if len(segs) > 0 {
		segs[0] = segs[0].TrimLeftSpace(source)
		last := len(segs) - 1
		segs[last] = segs[last].TrimRightSpace(source)
	}
	lines.Clear()
	lines.AppendAll(segs)
}

type alertRenderer struct{}

func (r *alertRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAlert, r.render)
}

func (r *alertRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Alert)
	if !entering {
		_, _ = w.WriteString("</div>\n</div>\n")
		return ast.WalkContinue, nil
	}
	_, _ = fmt.Fprintf(w,
		"<div class=\"alert alert-%s\">\n<div class=\"alert-title\"><span class=\"alert-icon\">%s</span><strong>%s</strong></div>\n<div class=\"alert-content\">",
		html.EscapeString(string(n.Severity)), n.Severity.Icon(), html.EscapeString(n.Severity.Title()))
	return ast.WalkContinue, nil
}

// Alerts recognizes GitHub-style alert blocks:
//
//	> [!WARNING]
//	> Check your inputs.
type Alerts struct{}

// Name implements Extension.
func (Alerts) Name() string { return "alert" }

// Extend implements Extension.
func (Alerts) Extend(m goldmark.Markdown, rank int) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&alertParser{}, alertParserPriority+rank),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&alertRenderer{}, rendererPriority+rank),
	))
}
