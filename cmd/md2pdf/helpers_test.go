package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	md2pdf "github.com/alnah/go-md2pdf-ja"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake renderer and environment
// ---------------------------------------------------------------------------

const fakePDF = "%PDF-1.4 fake"

// fakeRenderer records every call instead of launching Chrome.
type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	html  []string
	pages []md2pdf.PageSetup
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, html string, page md2pdf.PageSetup) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.html = append(r.html, html)
	r.pages = append(r.pages, page)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(fakePDF), nil
}

func (r *fakeRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeRenderer) lastPage() md2pdf.PageSetup {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages[len(r.pages)-1]
}

func (r *fakeRenderer) lastHTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html[len(r.html)-1]
}

// testEnv wires a fake renderer and captured output.
type testEnv struct {
	env      *Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *fakeRenderer
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r := &fakeRenderer{}
	return &testEnv{
		env: &Environment{
			Stdout:     stdout,
			Stderr:     stderr,
			Renderer:   r,
			IsTerminal: func(io.Writer) bool { return false },
		},
		stdout:   stdout,
		stderr:   stderr,
		renderer: r,
	}
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

const sampleMarkdown = `# はじめに

本文です[^1]。

> [!NOTE]
> 注意事項

[^1]: 脚注の本文
`
