package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir moves into dir for the test so a stray .env is never picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":5000" || cfg.Server.MaxUploadBytes != 16<<20 || cfg.Server.UploadDir != "uploads" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if !cfg.Fallback.Enabled || cfg.Fallback.Model != "llama3.2" || cfg.Fallback.Timeout != time.Minute {
		t.Errorf("fallback = %+v", cfg.Fallback)
	}
	if cfg.Log.Level != "info" || cfg.Log.Dev {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "ratelens.yaml")
	yaml := `server:
  addr: ":8080"
fallback:
  enabled: false
  timeout: 5s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RATELENS_SERVER_UPLOAD_DIR", "/tmp/rates")
	t.Setenv("RATELENS_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.UploadDir != "/tmp/rates" {
		t.Errorf("upload dir = %q", cfg.Server.UploadDir)
	}
	if cfg.Fallback.Enabled || cfg.Fallback.Timeout != 5*time.Second {
		t.Errorf("fallback = %+v", cfg.Fallback)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("env should override file, level = %q", cfg.Log.Level)
	}
	if r := cfg.Fallback.Responder(); r.URL != cfg.Fallback.URL || r.Timeout != 5*time.Second {
		t.Errorf("responder = %+v", r)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RATELENS_FALLBACK_MODEL=mistral\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("RATELENS_FALLBACK_MODEL") })

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fallback.Model != "mistral" {
		t.Errorf("model = %q", cfg.Fallback.Model)
	}
}

func TestLoadErrors(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}

	t.Setenv("RATELENS_SERVER_MAX_UPLOAD_BYTES", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a zero upload cap")
	}
}
