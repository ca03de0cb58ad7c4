// Package config loads conversion defaults from a YAML file. Command-line
// flags override every value read here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2pdf-ja/internal/fileutil"
	"github.com/alnah/go-md2pdf-ja/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidTimeout  = errors.New("invalid timeout")
)

// AppDirName is the directory under the user config dir searched for named
// configs.
const AppDirName = "md2pdf-ja"

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxAuthorLength   = 100
	MaxTOCTitleLength = 100
	MaxNameLength     = 32   // theme, format, lang
	MaxMarginLength   = 16   // "12.5mm"
	MaxPathLength     = 4096 // css, assets
)

// Config holds the defaults for one or more conversions.
type Config struct {
	Title       string        `yaml:"title"`
	Author      string        `yaml:"author"`
	Theme       string        `yaml:"theme"`  // default, academic, business
	Format      string        `yaml:"format"` // A4, A5, B5, Letter
	CSS         string        `yaml:"css"`    // custom stylesheet path
	PageNumbers bool          `yaml:"pageNumbers"`
	TOC         bool          `yaml:"toc"`
	TOCTitle    string        `yaml:"tocTitle"`
	Lang        string        `yaml:"lang"`
	Margins     MarginsConfig `yaml:"margins"`
	Timeout     string        `yaml:"timeout"` // Go duration, e.g. "45s"
	Assets      AssetsConfig  `yaml:"assets"`
	Math        MathConfig    `yaml:"math"`
}

// MarginsConfig holds CSS lengths; empty sides keep the default.
type MarginsConfig struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// AssetsConfig points at a directory overriding the embedded styles and
// template.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// MathConfig configures math typesetting. Nil fields keep the defaults
// (non-strict, trusted).
type MathConfig struct {
	Strict *bool `yaml:"strict"`
	Trust  *bool `yaml:"trust"`
}

// DefaultConfig returns a configuration with every feature off and every
// string empty, so flag defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths and the timeout syntax. Theme and format
// values are checked by the converter, not here.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"author", c.Author, MaxAuthorLength},
		{"tocTitle", c.TOCTitle, MaxTOCTitleLength},
		{"theme", c.Theme, MaxNameLength},
		{"format", c.Format, MaxNameLength},
		{"lang", c.Lang, MaxNameLength},
		{"css", c.CSS, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"margins.top", c.Margins.Top, MaxMarginLength},
		{"margins.right", c.Margins.Right, MaxMarginLength},
		{"margins.bottom", c.Margins.Bottom, MaxMarginLength},
		{"margins.left", c.Margins.Left, MaxMarginLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, c.Timeout)
	}
	return d, nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or a config name.
// A value containing a path separator is a file path; anything else is a
// name searched as name.yaml / name.yml in the current directory, then in
// the user config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, `/\`) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in search order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
