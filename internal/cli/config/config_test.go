package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// No config file: defaults apply
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Target != "javascript" {
		t.Errorf("expected default target 'javascript', got %s", cfg.Target)
	}
	if cfg.SourceDir != "src" {
		t.Errorf("expected default source dir 'src', got %s", cfg.SourceDir)
	}
	if cfg.OutDir != "build" {
		t.Errorf("expected default out dir 'build', got %s", cfg.OutDir)
	}
	if cfg.Server.Port != 5080 {
		t.Errorf("expected default port 5080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "localhost:5080" {
		t.Errorf("expected addr 'localhost:5080', got %s", cfg.Server.Addr())
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("expected default body limit 1MiB, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("expected default rate limit 120, got %d", cfg.Server.RateLimit)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("expected default origins [*], got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Cache.Backend != BackendMemory {
		t.Errorf("expected default cache backend 'memory', got %s", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected default ttl 10m, got %s", cfg.Cache.TTL)
	}
	if cfg.Watch.Debounce != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %s", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Patterns) != 1 || cfg.Watch.Patterns[0] != "*.syl" {
		t.Errorf("expected default patterns [*.syl], got %v", cfg.Watch.Patterns)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
target: javascript
source_dir: app
out_dir: dist
log_level: debug
server:
  host: 0.0.0.0
  port: 8080
  read_timeout: 5s
cache:
  backend: redis
  redis_addr: cache:6379
  redis_db: 2
watch:
  debounce: 250ms
  ignore: [vendor]
`
	os.WriteFile("sylvre.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.SourceDir != "app" || cfg.OutDir != "dist" {
		t.Errorf("expected dirs app/dist, got %s/%s", cfg.SourceDir, cfg.OutDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected addr '0.0.0.0:8080', got %s", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("expected default write timeout 15s, got %s", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %s", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Ignore) != 1 || cfg.Watch.Ignore[0] != "vendor" {
		t.Errorf("expected ignore [vendor], got %v", cfg.Watch.Ignore)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	os.WriteFile("sylvre.yml", []byte("server:\n  port: 8080\n"), 0644)
	t.Setenv("SYLVRE_SERVER_PORT", "9090")
	t.Setenv("SYLVRE_OUT_DIR", "public")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.OutDir != "public" {
		t.Errorf("expected env out dir 'public', got %s", cfg.OutDir)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown target", "target: cobol\n", "target"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
		{"bad body limit", "server:\n  max_body_bytes: 0\n", "max_body_bytes"},
		{"negative rate limit", "server:\n  rate_limit: -1\n", "server.rate_limit"},
		{"unknown backend", "cache:\n  backend: memcached\n", "cache.backend"},
		{"negative debounce", "watch:\n  debounce: -1s\n", "watch.debounce"},
		{"malformed yaml", "server: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			os.WriteFile("sylvre.yml", []byte(tt.content), 0644)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInProject(t *testing.T) {
	chdir(t, t.TempDir())

	if InProject() {
		t.Error("expected InProject to return false in non-project directory")
	}

	os.WriteFile("sylvre.yml", []byte(""), 0644)

	if !InProject() {
		t.Error("expected InProject to return true in project directory")
	}
}

func TestGetProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "sylvre.yml"), []byte(""), 0644)

	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	os.MkdirAll(subDir, 0755)
	chdir(t, subDir)

	root, err := GetProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	// On macOS, /tmp is symlinked to /private/tmp, so resolve both paths
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root to be %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

func TestGetProjectRootNotInProject(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := GetProjectRoot()
	if err == nil {
		t.Error("expected error when not in a project, got nil")
	}
}
