package md2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2pdf-ja/internal/fileutil"
	"github.com/alnah/go-md2pdf-ja/internal/pipeline"
	"github.com/alnah/go-md2pdf-ja/internal/process"
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string, page PageSetup) ([]byte, error)
}

// footerTemplate is Chrome's native footer; pageNumber and totalPages are
// filled in by the browser.
const footerTemplate = `<div style="font-size: 9px; color: #666; width: 100%; text-align: center;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// rodRenderer renders with headless Chrome through go-rod. Each call launches
// its own browser, which is torn down before Render returns.
// Rod downloads Chromium on first run when no browser is found.
type rodRenderer struct {
	timeout time.Duration
	logger  *slog.Logger
}

func newRodRenderer(timeout time.Duration, logger *slog.Logger) *rodRenderer {
	return &rodRenderer{timeout: timeout, logger: logger}
}

// newLauncher configures the browser launcher from the environment.
func newLauncher() *launcher.Launcher {
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	return l
}

// Render writes html to a temporary file, loads it and prints it to PDF.
func (r *rodRenderer) Render(ctx context.Context, html string, page PageSetup) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	l := newLauncher()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	defer func() {
		if pid := l.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	defer func() { _ = browser.Close() }()

	p, err := browser.Page(proto.TargetCreateTarget{URL: pipeline.FileURL(tmpPath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = p.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := p.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(printOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	r.logger.Debug("rendered PDF", "bytes", len(pdf))
	return pdf, nil
}

// printOptions maps a PageSetup to Chrome's print parameters.
func printOptions(page PageSetup) *proto.PagePrintToPDF {
	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(page.Paper.Width),
		PaperHeight:     floatPtr(page.Paper.Height),
		MarginTop:       floatPtr(page.MarginTop),
		MarginRight:     floatPtr(page.MarginRight),
		MarginBottom:    floatPtr(page.MarginBottom),
		MarginLeft:      floatPtr(page.MarginLeft),
		PrintBackground: true,
	}
	if page.PageNumbers {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = "<span></span>"
		opts.FooterTemplate = footerTemplate
	}
	return opts
}

func floatPtr(v float64) *float64 {
	return &v
}
