package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSources(t *testing.T) {
	srcs := DefaultSources()
	if len(srcs) != 3 {
		t.Fatalf("sources = %d, want 3", len(srcs))
	}

	byName := make(map[string]SourceConfig)
	for _, s := range srcs {
		byName[s.Name] = s
	}

	re, ok := byName["realestate.com.au"]
	if !ok {
		t.Fatal("realestate.com.au missing")
	}
	if re.RateLimitDelay() != 2*time.Second || re.MaxConcurrent != 3 || re.MaxRetries != 3 {
		t.Errorf("realestate config = %+v", re)
	}
	if re.Timeout() != 30*time.Second {
		t.Errorf("realestate timeout = %v", re.Timeout())
	}

	rent := byName["rent.com.au"]
	if rent.RateLimitDelay() != 1*time.Second || rent.MaxConcurrent != 5 || rent.MaxRetries != 2 {
		t.Errorf("rent config = %+v", rent)
	}
}

func TestLoadSourcesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `
sources:
  - name: test.source
    base_url: https://test.source
    rate_limit_ms: 500
    max_concurrent: 2
    timeout_sec: 10
    max_retries: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	srcs, err := loadSources(path)
	if err != nil {
		t.Fatalf("loadSources: %v", err)
	}
	if len(srcs) != 1 {
		t.Fatalf("sources = %d, want 1", len(srcs))
	}
	s := srcs[0]
	if s.Name != "test.source" || s.RateLimitMs != 500 || s.MaxRetries != 4 {
		t.Errorf("source = %+v", s)
	}
}

func TestLoadSourcesRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadSources(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("sources: []"), 0o644)
	if _, err := loadSources(empty); err == nil {
		t.Error("expected error for empty source list")
	}

	unnamed := filepath.Join(dir, "unnamed.yaml")
	os.WriteFile(unnamed, []byte("sources:\n  - base_url: https://x\n"), 0o644)
	if _, err := loadSources(unnamed); err == nil {
		t.Error("expected error for source without a name")
	}
}

func TestLoadSourcesClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `
sources:
  - name: test.source
    base_url: https://test.source
    max_concurrent: 0
    max_retries: -1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	srcs, err := loadSources(path)
	if err != nil {
		t.Fatalf("loadSources: %v", err)
	}
	if srcs[0].MaxConcurrent != 1 || srcs[0].MaxRetries != 1 {
		t.Errorf("clamped values = %+v", srcs[0])
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "not a number")
	t.Setenv("TEST_BOOL", "true")

	if got := getEnv("TEST_STR", "fallback"); got != "value" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv fallback = %q", got)
	}
	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt bad value = %d", got)
	}
	if got := getEnvBool("TEST_BOOL", false); got != true {
		t.Errorf("getEnvBool = %v", got)
	}
}
