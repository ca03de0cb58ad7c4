package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-md2pdf-ja/internal/markup"
)

// GenerateTOC renders a table of contents linking to each heading. Entries
// are flat <div>s indented by (level-1)*1.5em rather than nested lists, so
// theme list styles do not leak in. Returns "" when there are no headings.
func GenerateTOC(headings []markup.HeadingRecord, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</h2>`)
	}
	buf.WriteString(`<div class="toc-list">`)

	for _, h := range headings {
		level := min(max(h.Level, 1), 6)
		fmt.Fprintf(&buf, `<div class="toc-item toc-level-%d"`, level)
		if level > 1 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, float64(level-1)*1.5)
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}
