package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
)

func testProject(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Target:    "javascript",
		SourceDir: filepath.Join(root, "src"),
		OutDir:    filepath.Join(root, "build"),
		Watch: config.WatchConfig{
			Debounce: 20 * time.Millisecond,
			Patterns: []string{"*.syl"},
		},
	}
}

func writeSource(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.SourceDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSession_Build(t *testing.T) {
	cfg := testProject(t)
	writeSource(t, cfg, "main.syl", "create a = 1#")
	writeSource(t, cfg, "lib/util.syl", "create b = 2#")

	var out bytes.Buffer
	s := NewSession(cfg, SessionOptions{Out: &out, NoColor: true})
	metrics, err := s.Build()
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.FilesWritten)
	assert.Contains(t, out.String(), "✓ Transpiled 2 file(s)")

	data, err := os.ReadFile(filepath.Join(cfg.OutDir, "lib", "util.js"))
	require.NoError(t, err)
	assert.Equal(t, `"use strict";var b=2;`, string(data))
}

func TestSession_RebuildReportsDiagnostics(t *testing.T) {
	cfg := testProject(t)
	path := writeSource(t, cfg, "main.syl", "create a = 1#")

	var out bytes.Buffer
	s := NewSession(cfg, SessionOptions{Out: &out, NoColor: true})
	_, err := s.Build()
	require.NoError(t, err)

	out.Reset()
	writeSource(t, cfg, "main.syl", "create a 1#")
	require.NoError(t, s.Rebuild([]string{path}))

	assert.Contains(t, out.String(), "Compilation failed with 1 error(s)")
	assert.Contains(t, out.String(), "main.syl")
	assert.NotContains(t, out.String(), "✓")
}

func TestSession_RebuildRemovesDeletedOutput(t *testing.T) {
	cfg := testProject(t)
	path := writeSource(t, cfg, "main.syl", "create a = 1#")

	s := NewSession(cfg, SessionOptions{})
	_, err := s.Build()
	require.NoError(t, err)
	output := filepath.Join(cfg.OutDir, "main.js")
	require.FileExists(t, output)

	require.NoError(t, os.Remove(path))
	require.NoError(t, s.Rebuild([]string{path}))
	assert.NoFileExists(t, output)
}

func TestSession_RunPicksUpChanges(t *testing.T) {
	cfg := testProject(t)
	writeSource(t, cfg, "main.syl", "create a = 1#")

	s := NewSession(cfg, SessionOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	output := filepath.Join(cfg.OutDir, "main.js")
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	// Give the watcher time to register the source tree
	time.Sleep(100 * time.Millisecond)
	writeSource(t, cfg, "main.syl", "create a = 2#")

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && string(data) == `"use strict";var a=2;`
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
