package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// documentFlags holds what goes into the assembled document.
type documentFlags struct {
	title       string
	author      string
	theme       string
	css         string
	toc         bool
	tocTitle    string
	pageNumbers bool
	lang        string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	format string
	margin string
}

// mathFlags holds math typesetting flags.
type mathFlags struct {
	strict bool
	trust  bool
}

// cliFlags holds every flag of the command.
type cliFlags struct {
	output    string
	config    string
	assetsDir string
	timeout   string
	workers   int
	html      bool
	quiet     bool
	verbose   bool
	version   bool
	help      bool
	document  documentFlags
	page      pageFlags
	math      mathFlags
}

func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.title, "title", "t", "", "document title")
	fs.StringVarP(&f.author, "author", "a", "", "document author")
	fs.StringVar(&f.theme, "theme", "default", "theme: default, academic, business")
	fs.StringVar(&f.css, "css", "", "custom CSS file, applied last")
	fs.BoolVar(&f.toc, "toc", false, "generate a table of contents")
	fs.StringVar(&f.tocTitle, "toc-title", "", "table of contents heading (default \"目次\")")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "print page numbers in the footer")
	fs.StringVar(&f.lang, "lang", "ja", "document language")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.format, "format", "A4", "page format: A4, A5, B5, Letter")
	fs.StringVar(&f.margin, "margin", "", "margin for every side, e.g. 20mm, 1in (default 20mm)")
}

func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.BoolVar(&f.strict, "math-strict", false, "reject non-ASCII characters in math")
	fs.BoolVar(&f.trust, "math-trust", true, "allow math commands that emit raw markup")
}

// newFlagSet registers all flags on a fresh FlagSet bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("md2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (single input only)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	addDocumentFlags(fs, &f.document)
	addPageFlags(fs, &f.page)
	addMathFlags(fs, &f.math)
	fs.StringVar(&f.assetsDir, "assets-dir", "", "directory with styles/ and templates/ overrides")
	fs.StringVar(&f.timeout, "timeout", "", "per-document timeout, e.g. 30s, 2m")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVar(&f.html, "html", false, "also write the intermediate HTML next to the PDF")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")
	return fs
}

// parseFlags parses args (without the program name) and returns the flags,
// the FlagSet for Changed lookups, and positional arguments.
func parseFlags(args []string) (*cliFlags, *flag.FlagSet, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	return f, fs, fs.Args(), nil
}
