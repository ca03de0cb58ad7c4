package markup

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Extension adds one syntax on top of the baseline grammar. Extend registers
// the extension's recognizers and renderer on m. rank is the extension's
// position in the pipeline: recognizers add it to an anchor priority placed
// just before the baseline rule they must pre-empt, so list order is
// precedence order among extensions.
type Extension interface {
	Name() string
	Extend(m goldmark.Markdown, rank int)
}

// Anchor priorities (lower runs first). Baseline goldmark values for
// reference: link parser 200, blockquote parser 800, paragraph parser 1000.
const (
	footnoteDefParserPriority = 100
	footnoteRefParserPriority = 100
	alertParserPriority       = 700
	mathInlineParserPriority  = 500
	mathBlockParserPriority   = 900

	headingTransformerPriority  = 100
	footnoteTransformerPriority = 200

	rendererPriority = 500
)

var registryKey = parser.NewContextKey()

// ContextWithRegistry returns a parser context carrying reg. Extensions read
// and write identifiers through it.
func ContextWithRegistry(reg *Registry) parser.Context {
	pc := parser.NewContext()
	pc.Set(registryKey, reg)
	return pc
}

// registryFrom returns the Registry carried by pc, attaching a fresh one when
// the caller parsed without ContextWithRegistry.
func registryFrom(pc parser.Context) *Registry {
	if reg, ok := pc.Get(registryKey).(*Registry); ok {
		return reg
	}
	reg := NewRegistry()
	pc.Set(registryKey, reg)
	return reg
}

// advanceLine consumes the rest of the current line, leaving the newline so
// that goldmark sees an empty remainder if it re-examines the line.
func advanceLine(reader text.Reader, line []byte, segment text.Segment) {
	n := segment.Len()
	if len(line) > 0 && line[len(line)-1] == '\n' {
		n--
	}
	if n > 0 {
		reader.Advance(n)
	}
}
