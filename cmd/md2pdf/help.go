package main

import (
	"fmt"
	"io"

	"github.com/muesli/reflow/wordwrap"
	flag "github.com/spf13/pflag"
)

const description = "Convert Japanese Markdown files to PDF. Supports GitHub alerts " +
	"(> [!NOTE]), footnotes ([^1]), TeX math ($...$, $$...$$), syntax highlighting, " +
	"three themes and an optional table of contents. Settings can come from a YAML " +
	"config file; command-line flags take precedence."

const examples = `Examples:
  md2pdf report.md
  md2pdf -o out/report.pdf --theme academic --toc report.md
  md2pdf --format B5 --margin 15mm --page-numbers notes/*.md
  md2pdf -c work report.md        # uses ./work.yaml or ~/.config/md2pdf-ja/work.yaml`

// helpWidth bounds help text on very wide terminals.
const helpWidth = 100

// printUsage writes the help text wrapped to width columns.
func printUsage(w io.Writer, fs *flag.FlagSet, width int) {
	width = min(width, helpWidth)

	fmt.Fprintln(w, "Usage: md2pdf [flags] <input.md>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, wordwrap.String(description, width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsagesWrapped(width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, examples)
}
