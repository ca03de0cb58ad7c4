package pipeline

import (
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// SyntaxStyleName is the chroma style used for highlighted code blocks.
const SyntaxStyleName = "github"

var syntaxCSS = sync.OnceValue(func() string {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(SyntaxStyleName)); err != nil {
		return ""
	}
	return b.String()
})

// SyntaxCSS returns the stylesheet for the class names emitted by the code
// highlighter.
func SyntaxCSS() string {
	return syntaxCSS()
}

// ComposeStyles joins the base, theme and custom stylesheets in that order,
// so custom rules win specificity ties. Empty parts are skipped.
func ComposeStyles(base, theme, custom string) string {
	var parts []string
	for _, css := range []string{base, theme, custom} {
		if strings.TrimSpace(css) != "" {
			parts = append(parts, css)
		}
	}
	return sanitizeCSS(strings.Join(parts, "\n"))
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
