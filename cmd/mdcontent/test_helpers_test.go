package main

// Notes:
// - This file contains test helpers shared across CLI tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/config"
)

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// newTestEnv returns an Environment writing to buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

// writeFile creates path under dir with content, making parent directories.
func writeFile(t *testing.T, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return full
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// stubRenderer is a Renderer returning canned results.
type stubRenderer struct {
	render func(ctx context.Context, doc mdcontent.Document) (*mdcontent.Result, error)
}

func (s *stubRenderer) Render(ctx context.Context, doc mdcontent.Document) (*mdcontent.Result, error) {
	return s.render(ctx, doc)
}

// Compile-time interface implementation check.
var _ Renderer = (*stubRenderer)(nil)
