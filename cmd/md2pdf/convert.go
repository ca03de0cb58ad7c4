package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	md2pdf "github.com/alnah/go-md2pdf-ja"
	"github.com/alnah/go-md2pdf-ja/internal/config"
	"github.com/alnah/go-md2pdf-ja/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput = errors.New("no input specified")
	ErrUsage   = errors.New("invalid usage")
)

const dirPermissions = 0o750

// settings is the merge of config file and flags, shared by every input.
type settings struct {
	options   md2pdf.Options // Input and Output left empty
	timeout   time.Duration  // 0 keeps the library default
	assetsDir string
	workers   int
}

// reportedError marks a failure whose details were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// runConvert converts every positional input and prints one status line per
// file. It returns the first failure.
func runConvert(ctx context.Context, f *cliFlags, fs *flag.FlagSet, inputs []string, env *Environment, logger *slog.Logger) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	if f.output != "" && len(inputs) > 1 {
		return fmt.Errorf("%w: --output needs exactly one input, got %d", ErrUsage, len(inputs))
	}

	cfg := config.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = config.LoadConfig(f.config); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	s, err := mergeSettings(cfg, f, fs)
	if err != nil {
		return err
	}
	if err := s.options.Validate(); err != nil {
		return err
	}

	jobs, err := buildJobs(inputs, f.output, f.html, s.options)
	if err != nil {
		return err
	}

	convOpts := []md2pdf.Option{
		md2pdf.WithLogger(logger),
		md2pdf.WithAssetPath(s.assetsDir),
	}
	if s.timeout > 0 {
		convOpts = append(convOpts, md2pdf.WithTimeout(s.timeout))
	}
	if env.Renderer != nil {
		convOpts = append(convOpts, md2pdf.WithRenderer(env.Renderer))
	}

	poolSize := md2pdf.ResolvePoolSize(s.workers)
	logger.Debug("starting conversion", "files", len(jobs), "workers", poolSize)
	pool := md2pdf.NewConverterPool(poolSize, convOpts...)

	results := md2pdf.ConvertAll(ctx, pool, jobs)
	out := newPrinter(env, f.quiet, f.verbose)
	if firstErr := out.results(results, f.config); firstErr != nil {
		return &reportedError{err: firstErr}
	}
	return nil
}

// mergeSettings applies the config file, then every flag set explicitly.
func mergeSettings(cfg *config.Config, f *cliFlags, fs *flag.FlagSet) (*settings, error) {
	d := f.document
	opts := md2pdf.Options{
		Title:       pickString(fs, "title", d.title, cfg.Title),
		Author:      pickString(fs, "author", d.author, cfg.Author),
		Theme:       pickString(fs, "theme", d.theme, cfg.Theme),
		Format:      pickString(fs, "format", f.page.format, cfg.Format),
		CSSPath:     pickString(fs, "css", d.css, cfg.CSS),
		PageNumbers: pickBool(fs, "page-numbers", d.pageNumbers, cfg.PageNumbers),
		TOC:         pickBool(fs, "toc", d.toc, cfg.TOC),
		TOCTitle:    pickString(fs, "toc-title", d.tocTitle, cfg.TOCTitle),
		Lang:        pickString(fs, "lang", d.lang, cfg.Lang),
		Margins:     mergeMargins(cfg.Margins, f.page.margin, fs.Changed("margin")),
		Math: &md2pdf.MathOptions{
			Strict: pickBoolPtr(fs, "math-strict", f.math.strict, cfg.Math.Strict),
			Trust:  pickBoolPtr(fs, "math-trust", f.math.trust, cfg.Math.Trust),
		},
	}

	s := &settings{
		options:   opts,
		assetsDir: pickString(fs, "assets-dir", f.assetsDir, cfg.Assets.BasePath),
		workers:   f.workers,
	}
	if s.workers < 0 {
		return nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, s.workers)
	}

	if fs.Changed("timeout") {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q (use a positive duration like 30s or 2m)", config.ErrInvalidTimeout, f.timeout)
		}
		s.timeout = d
	} else {
		d, err := cfg.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		s.timeout = d
	}
	return s, nil
}

func pickString(fs *flag.FlagSet, name, flagValue, cfgValue string) string {
	if fs.Changed(name) || cfgValue == "" {
		return flagValue
	}
	return cfgValue
}

func pickBool(fs *flag.FlagSet, name string, flagValue, cfgValue bool) bool {
	if fs.Changed(name) {
		return flagValue
	}
	return flagValue || cfgValue
}

func pickBoolPtr(fs *flag.FlagSet, name string, flagValue bool, cfgValue *bool) bool {
	if fs.Changed(name) || cfgValue == nil {
		return flagValue
	}
	return *cfgValue
}

// mergeMargins returns nil when nothing is set, so library defaults apply.
// --margin replaces every side.
func mergeMargins(cfg config.MarginsConfig, flagValue string, flagSet bool) *md2pdf.Margins {
	if flagSet {
		return &md2pdf.Margins{Top: flagValue, Right: flagValue, Bottom: flagValue, Left: flagValue}
	}
	if cfg == (config.MarginsConfig{}) {
		return nil
	}
	return &md2pdf.Margins{Top: cfg.Top, Right: cfg.Right, Bottom: cfg.Bottom, Left: cfg.Left}
}

// buildJobs creates one Options per input with resolved output paths.
func buildJobs(inputs []string, output string, withHTML bool, base md2pdf.Options) ([]md2pdf.Options, error) {
	jobs := make([]md2pdf.Options, 0, len(inputs))
	for _, in := range inputs {
		job := base
		job.Input = in
		job.Output = output
		if job.Output == "" {
			job.Output = fileutil.DefaultOutputPath(in)
		}
		if withHTML {
			job.HTMLOutput = strings.TrimSuffix(job.Output, filepath.Ext(job.Output)) + ".html"
		}
		if err := os.MkdirAll(filepath.Dir(job.Output), dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: creating output directory: %v", md2pdf.ErrWritePDF, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
