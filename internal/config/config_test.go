package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"ccwrap/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Integration.Mode != config.ModeNone {
		t.Errorf("default mode = %s, want none", cfg.Integration.Mode)
	}
	if cfg.Integration.SkipDriverCommands {
		t.Error("driver commands must run by default")
	}
	if cfg.Toolchain.Clang != "clang" || cfg.Toolchain.Clangxx != "clang++" {
		t.Errorf("default toolchain = %+v", cfg.Toolchain)
	}
	if len(cfg.Classify.BenignPatterns) == 0 {
		t.Error("default benign denylist must not be empty")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    config.Mode
		wantErr bool
	}{
		{"none", config.ModeNone, false},
		{"", config.ModeNone, false},
		{"compdb", config.ModeCompDB, false},
		{" compdb ", config.ModeCompDB, false},
		{"buck", 0, true},
	}
	for _, tt := range tests {
		got, err := config.ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "ccwrap.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_ManifestWalkUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[integration]
mode = "compdb"
ignore_pattern = '.*\.o$'
skip_driver_commands = true

[toolchain]
clang = "/opt/llvm/bin/clang"

[classify]
benign_patterns = ["to option 'fsanitize='", "argument unused during compilation"]
`)
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Integration.Mode != config.ModeCompDB {
		t.Errorf("mode = %s", cfg.Integration.Mode)
	}
	if cfg.Integration.IgnorePattern != `.*\.o$` {
		t.Errorf("ignore_pattern = %q", cfg.Integration.IgnorePattern)
	}
	if !cfg.Integration.SkipDriverCommands {
		t.Error("skip_driver_commands not applied")
	}
	if cfg.Toolchain.Clang != "/opt/llvm/bin/clang" {
		t.Errorf("clang = %q", cfg.Toolchain.Clang)
	}
	// clangxx не задан — остаётся дефолт
	if cfg.Toolchain.Clangxx != "clang++" {
		t.Errorf("clangxx = %q, want default", cfg.Toolchain.Clangxx)
	}
	if len(cfg.Classify.BenignPatterns) != 2 {
		t.Errorf("benign_patterns = %v", cfg.Classify.BenignPatterns)
	}
}

func TestLoad_EnvOverridesManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[integration]
mode = "none"
`)
	t.Setenv("CCWRAP_MODE", "compdb")
	t.Setenv("CCWRAP_OVERRIDE", "/vendor/cc")
	t.Setenv("CCWRAP_SKIP_DRIVER_COMMANDS", "true")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Integration.Mode != config.ModeCompDB {
		t.Errorf("mode = %s, env must win", cfg.Integration.Mode)
	}
	if cfg.Toolchain.Override != "/vendor/cc" {
		t.Errorf("override = %q", cfg.Toolchain.Override)
	}
	if !cfg.Integration.SkipDriverCommands {
		t.Error("CCWRAP_SKIP_DRIVER_COMMANDS not applied")
	}
}

func TestLoad_BadModeRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[integration]
mode = "bazel"
`)
	if _, err := config.Load(dir); err == nil {
		t.Fatal("unknown mode must be rejected")
	}
}

func TestLoad_NoManifestUsesDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Toolchain.Clang != "clang" {
		t.Errorf("clang = %q", cfg.Toolchain.Clang)
	}
}
