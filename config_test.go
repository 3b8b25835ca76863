package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TerminalURL != defaultTerminalURL || !cfg.Confirmations || cfg.SaveDirectory != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	data := "save_directory: " + filepath.Join(dir, "boards") + "\n" +
		"store_path: " + filepath.Join(dir, "state.db") + "\n" +
		"discover_terminal: true\n" +
		"metrics_addr: 127.0.0.1:9100\n" +
		"confirmations: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SaveDirectory != filepath.Join(dir, "boards") || cfg.StorePath != filepath.Join(dir, "state.db") {
		t.Fatalf("unexpected paths %+v", cfg)
	}
	if !cfg.DiscoverTerminal || cfg.Confirmations || cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Fatalf("unexpected flags %+v", cfg)
	}
	if cfg.TerminalURL != defaultTerminalURL {
		t.Fatalf("expected default terminal url, got %q", cfg.TerminalURL)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("confirmations: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("~/boards", "/home/me")
	if err != nil || got != filepath.Join("/home/me", "boards") {
		t.Fatalf("unexpected expansion %q %v", got, err)
	}
	if got, _ := expandPath("", "/home/me"); got != "" {
		t.Fatalf("expected empty to stay empty")
	}
}

func TestGetSavePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := &Config{SaveDirectory: dir}
	path, err := cfg.GetSavePath("a.json")
	if err != nil {
		t.Fatalf("get save path: %v", err)
	}
	if path != filepath.Join(dir, "a.json") {
		t.Fatalf("unexpected path %s", path)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected save directory created: %v", err)
	}
	if p, _ := (&Config{}).GetSavePath("a.json"); p != "a.json" {
		t.Fatalf("expected bare name without a save directory, got %s", p)
	}
}
