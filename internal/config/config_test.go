package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "md2pdf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(&Config{}, DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `title: "年次報告"
author: "山田太郎"
theme: academic
format: B5
css: ./custom.css
pageNumbers: true
toc: true
tocTitle: "目次"
lang: ja
margins:
  top: 25mm
  left: 1in
timeout: 45s
assets:
  basePath: ./assets
math:
  strict: true
`)
		got, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		want := &Config{
			Title:       "年次報告",
			Author:      "山田太郎",
			Theme:       "academic",
			Format:      "B5",
			CSS:         "./custom.css",
			PageNumbers: true,
			TOC:         true,
			TOCTitle:    "目次",
			Lang:        "ja",
			Margins:     MarginsConfig{Top: "25mm", Left: "1in"},
			Timeout:     "45s",
			Assets:      AssetsConfig{BasePath: "./assets"},
			Math:        MathConfig{Strict: boolPtr(true)},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file path", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig("/nonexistent/path/config.yaml"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("missing name lists searched paths", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-xyz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "no-such-config-xyz.yaml") {
			t.Errorf("error %q should list searched paths", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(writeConfig(t, "title: [unclosed")); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(writeConfig(t, "watermark: DRAFT\n")); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(writeConfig(t, "")); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation runs on load", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(writeConfig(t, "timeout: soon\n")); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("error = %v, want ErrInvalidTimeout", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "zero value", cfg: Config{}},
		{name: "title at limit", cfg: Config{Title: strings.Repeat("a", MaxTitleLength)}},
		{name: "title too long", cfg: Config{Title: strings.Repeat("a", MaxTitleLength+1)}, wantErr: ErrFieldTooLong},
		{name: "author too long", cfg: Config{Author: strings.Repeat("a", MaxAuthorLength+1)}, wantErr: ErrFieldTooLong},
		{name: "margin too long", cfg: Config{Margins: MarginsConfig{Bottom: strings.Repeat("1", MaxMarginLength+1)}}, wantErr: ErrFieldTooLong},
		{name: "unknown theme is not rejected here", cfg: Config{Theme: "dark"}},
		{name: "valid timeout", cfg: Config{Timeout: "2m"}},
		{name: "bad timeout", cfg: Config{Timeout: "10"}, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", cfg: Config{Timeout: "-5s"}, wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	cfg := Config{Timeout: "90s"}
	got, err := cfg.TimeoutDuration()
	if err != nil || got != 90*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v; want 90s", got, err)
	}

	empty := Config{}
	if got, err := empty.TimeoutDuration(); err != nil || got != 0 {
		t.Errorf("TimeoutDuration() = %v, %v; want 0", got, err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %v, want [work.yaml work.yml]", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppDirName) {
			t.Errorf("user candidate %q should be under %s", p, AppDirName)
		}
	}
}
