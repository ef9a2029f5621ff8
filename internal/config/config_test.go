package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("ADMIN_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "absent.txt"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Limits.MaxTextLength != 10000 {
		t.Errorf("Expected text limit 10000, got %d", cfg.Limits.MaxTextLength)
	}
	if cfg.Admin.User != "admin" || cfg.Admin.Password != "password" {
		t.Errorf("Unexpected default credentials %s:%s", cfg.Admin.User, cfg.Admin.Password)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
server:
  port: "9090"
  shutdown_timeout: 5s
limits:
  max_text_length: 200
storage:
  data_dir: /tmp/from-file
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATA_DIR", "")
	t.Setenv("PORT", "7070")
	t.Setenv("ADMIN_CREDENTIALS_FILE", filepath.Join(dir, "absent.txt"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Expected env to override port, got %s", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected 5s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Limits.MaxTextLength != 200 {
		t.Errorf("Expected text limit 200, got %d", cfg.Limits.MaxTextLength)
	}
	if cfg.Limits.MaxAuthorLength != 100 {
		t.Errorf("Expected untouched author limit 100, got %d", cfg.Limits.MaxAuthorLength)
	}
	if cfg.Storage.DataDir != "/tmp/from-file" {
		t.Errorf("Expected data dir from file, got %s", cfg.Storage.DataDir)
	}
}

func TestLoad_CredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_password.txt")
	if err := os.WriteFile(path, []byte("editor:s3cret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("ADMIN_CREDENTIALS_FILE", path)
	t.Setenv("ADMIN_USER", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Admin.User != "editor" || cfg.Admin.Password != "s3cret" {
		t.Errorf("Expected editor:s3cret, got %s:%s", cfg.Admin.User, cfg.Admin.Password)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxTextLength = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero text limit")
	}

	cfg = Default()
	cfg.Storage.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty data dir")
	}
}
