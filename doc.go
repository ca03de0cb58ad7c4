// Package md2pdf converts Japanese Markdown documents to PDF using headless Chrome.
//
// # Quick Start
//
//	conv, err := md2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.ConvertFile(ctx, md2pdf.Options{
//	    Input: "report.md",
//	    Title: "月次報告",
//	    TOC:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Output) // report.pdf
//
// ConvertMarkdown stops after assembly and returns the HTML document, which
// is useful for previews and tests.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (BOM, line endings, blank lines)
//  2. Translation via goldmark with GitHub alerts, footnotes, heading
//     identifiers and TeX math, plus GFM and syntax highlighting
//  3. Relative image and link paths resolved against the source directory
//  4. Assembly of the HTML document: base, theme and custom CSS, title,
//     author, table of contents, page number placeholder, KaTeX for math
//  5. PDF rendering via headless Chrome (go-rod); the file is written
//     atomically
//
// # Themes and Formats
//
// Built-in themes are "default", "academic" and "business". Page formats
// are A4, A5, B5 and Letter; margins are CSS lengths such as "20mm".
//
// # Custom Assets
//
// WithAssetPath overlays a directory on the embedded assets:
//
//	assets/
//	├── styles/
//	│   ├── base.css
//	│   └── mytheme.css
//	└── templates/
//	    └── document.html
//
// # Parallel Processing
//
// ConverterPool and ConvertAll convert several files concurrently:
//
//	pool := md2pdf.NewConverterPool(md2pdf.ResolvePoolSize(0))
//	results := md2pdf.ConvertAll(ctx, pool, jobs)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Set ROD_NO_SANDBOX=1 in containers and ROD_BROWSER_BIN to use an installed
// browser.
package md2pdf
