package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADDR", ":9999")
	t.Setenv("GEMINI_API_KEY", "key-from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("addr = %q, want env override", cfg.Addr)
	}
	if cfg.Gemini.APIKey != "key-from-env" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h default", cfg.TokenTTL)
	}
	if cfg.Gemini.Model == "" || cfg.Voice.Endpoint == "" {
		t.Error("defaults missing")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_PATH", "/tmp/env.db")

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"addr": ":7777", "dbPath": "/tmp/file.db", "tokenTTLHours": 2}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Errorf("addr = %q, want file value", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("dbPath = %q, want env to win over file", cfg.DBPath)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("token ttl = %v, want 2h from file", cfg.TokenTTL)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Error("Load succeeded without a jwt secret")
	}
}
