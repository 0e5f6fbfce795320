package ptsconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.json")
	body := `{"aik-cert-path":"/etc/pts/aik.crt","aik-blob-path":"/etc/pts/aik.blob"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AIKCertPath != "/etc/pts/aik.crt" {
		t.Fatalf("AIKCertPath = %q", cfg.AIKCertPath)
	}
	if cfg.MeasAlgorithm != "sha256" {
		t.Fatalf("MeasAlgorithm = %q, want default sha256", cfg.MeasAlgorithm)
	}
	if !cfg.UseQuote2 {
		t.Fatalf("UseQuote2 = false, want default true")
	}
}

func TestLoadRequiresAIKSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.json")
	if err := os.WriteFile(path, []byte(`{"meas-algorithm":"sha1"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err != errAIKSourceNotSpecified {
		t.Fatalf("Load err = %v, want errAIKSourceNotSpecified", err)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("PTS_AIK_PUB_PATH", "/etc/pts/aik.pub")
	t.Setenv("PTS_USE_QUOTE2", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AIKPubPath != "/etc/pts/aik.pub" {
		t.Fatalf("AIKPubPath = %q", cfg.AIKPubPath)
	}
	if cfg.UseQuote2 {
		t.Fatalf("UseQuote2 = true, want env override false")
	}
}

func TestEnvOverridesFileValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.json")
	if err := os.WriteFile(path, []byte(`{"aik-cert-path":"/from/file.crt"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PTS_AIK_CERT_PATH", "/from/env.crt")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AIKCertPath != "/from/env.crt" {
		t.Fatalf("AIKCertPath = %q, want env override", cfg.AIKCertPath)
	}
}
