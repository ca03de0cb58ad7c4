package markup

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrMalformedMath indicates a math span the typesetter cannot accept.
var ErrMalformedMath = errors.New("malformed math")

// MathConfig configures the math extension and the KaTeX typesetter that
// renders its output.
type MathConfig struct {
	// Strict rejects non-ASCII characters inside math spans.
	Strict bool
	// Trust allows KaTeX commands that emit raw markup (\href, \htmlClass).
	Trust bool
}

// DefaultMathConfig is non-strict and trusted.
func DefaultMathConfig() MathConfig {
	return MathConfig{Strict: false, Trust: true}
}

var (
	// KindMathInline is the node kind of MathInline.
	KindMathInline = ast.NewNodeKind("MathInline")

	// KindMathBlock is the node kind of MathBlock.
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

// MathInline is $...$, or $$...$$ inside a paragraph (Display).
type MathInline struct {
	ast.BaseInline
	Value   []byte
	Display bool
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// MathBlock is a $$ fenced display block. Its lines are the TeX source.
type MathBlock struct {
	ast.BaseBlock
	closed bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Closed reports whether the block's closing $$ was found.
func (n *MathBlock) Closed() bool { return n.closed }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var mathFence = []byte("$$")

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if bytes.HasPrefix(line, mathFence) {
		delim = 2
	}
	body := line[delim:]
	if len(body) == 0 {
		return nil
	}
	if delim == 1 && util.IsSpace(body[0]) {
		return nil
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '\n':
			return nil
		case '$':
			if delim == 2 {
				if i == 0 || i+1 >= len(body) || body[i+1] != '$' {
					continue
				}
			} else if util.IsSpace(body[i-1]) || (i+1 < len(body) && isDigit(body[i+1])) {
				continue
			}
			value := append([]byte(nil), body[:i]...)
			block.Advance(delim + i + delim)
			return &MathInline{Value: value, Display: delim == 2}
		}
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (p *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}
	rest := util.TrimRightSpace(line[pos+2:])
	start := segment.Start + pos + 2
	node := &MathBlock{}
	switch {
	case bytes.HasSuffix(rest, mathFence):
		// $$ x $$ on one line
		inner := rest[:len(rest)-2]
		if bytes.Contains(inner, mathFence) {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(start, start+len(inner)))
		node.closed = true
	case bytes.Contains(rest, mathFence):
		// $$a$$ followed by text is inline math in a paragraph
		return nil, parser.NoChildren
	case len(util.TrimLeftSpace(rest)) > 0:
		node.Lines().Append(text.NewSegment(start, start+len(rest)))
	}
	advanceLine(reader, line, segment)
	return node, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	trimmed := util.TrimRightSpace(line)
	if bytes.HasSuffix(trimmed, mathFence) {
		content := trimmed[:len(trimmed)-2]
		if len(util.TrimLeftSpace(content)) > 0 {
			n.Lines().Append(text.NewSegment(segment.Start, segment.Start+len(content)))
		}
		n.closed = true
		advanceLine(reader, line, segment)
		return parser.Close
	}
	n.Lines().Append(segment)
	advanceLine(reader, line, segment)
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *mathBlockParser) CanInterruptParagraph() bool { return true }

func (p *mathBlockParser) CanAcceptIndentedLine() bool { return false }

type mathRenderer struct {
	config MathConfig
}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathInline)
	if err := ValidateTeX(n.Value, r.config.Strict); err != nil {
		return ast.WalkStop, err
	}
	if n.Display {
		_, _ = w.WriteString(`<span class="math math-display">\[`)
		_, _ = w.Write(util.EscapeHTML(n.Value))
		_, _ = w.WriteString(`\]</span>`)
	} else {
		_, _ = w.WriteString(`<span class="math math-inline">\(`)
		_, _ = w.Write(util.EscapeHTML(n.Value))
		_, _ = w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathBlock)
	if !n.closed {
		return ast.WalkStop, fmt.Errorf("%w: unterminated $$ block", ErrMalformedMath)
	}
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(bytes.TrimRight(seg.Value(source), "\n"))
		buf.WriteByte('\n')
	}
	value := bytes.TrimSpace(buf.Bytes())
	if err := ValidateTeX(value, r.config.Strict); err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(`<div class="math math-display">\[`)
	_, _ = w.Write(util.EscapeHTML(value))
	_, _ = w.WriteString("\\]</div>\n")
	return ast.WalkSkipChildren, nil
}

var texEnvPattern = regexp.MustCompile(`\\(begin|end)\{([^}]*)\}`)

// ValidateTeX checks that braces balance and \begin/\end environments pair
// up. With strict set, non-ASCII bytes are rejected as well.
func ValidateTeX(tex []byte, strict bool) error {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch c := tex[i]; {
		case c == '\\':
			i++
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected '}' in %q", ErrMalformedMath, tex)
			}
		case strict && c >= 0x80:
			return fmt.Errorf("%w: non-ASCII character in %q", ErrMalformedMath, tex)
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced braces in %q", ErrMalformedMath, tex)
	}

	var envs []string
	for _, m := range texEnvPattern.FindAllSubmatch(tex, -1) {
		name := string(m[2])
		if string(m[1]) == "begin" {
			envs = append(envs, name)
			continue
		}
		if len(envs) == 0 || envs[len(envs)-1] != name {
			return fmt.Errorf("%w: unmatched \\end{%s}", ErrMalformedMath, name)
		}
		envs = envs[:len(envs)-1]
	}
	if len(envs) > 0 {
		return fmt.Errorf("%w: unclosed \\begin{%s}", ErrMalformedMath, envs[len(envs)-1])
	}
	return nil
}

// Math recognizes $...$ inline math and $$ display math. It must be the last
// extension of a pipeline: its delimiters may sit next to the brackets used
// by footnotes and alerts.
type Math struct {
	Config MathConfig
}

// Name implements Extension.
func (*Math) Name() string { return "math" }

// Extend implements Extension.
func (e *Math) Extend(m goldmark.Markdown, rank int) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, mathInlineParserPriority+rank)),
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, mathBlockParserPriority+rank)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{config: e.Config}, rendererPriority+rank),
	))
}
