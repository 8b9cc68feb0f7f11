// Package config loads wrapper settings from ccwrap.toml and the
// environment. Build systems usually cannot pass extra flags to a compiler
// substitute, so everything the wrapper needs must come from ambient
// configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode is the build-integration mode the wrapper runs under.
type Mode uint8

const (
	// ModeNone - обычный режим: перехватываем вызов напрямую.
	ModeNone Mode = iota
	// ModeCompDB - вызовы приходят из compilation database, проигранной
	// внешним build-инструментом.
	ModeCompDB
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeCompDB:
		return "compdb"
	}
	return "unknown"
}

// ParseMode converts the textual mode from TOML or env.
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return ModeNone, nil
	case "compdb":
		return ModeCompDB, nil
	}
	return ModeNone, fmt.Errorf("unknown integration mode %q (supported: none, compdb)", s)
}

// Integration holds build-system integration settings.
type Integration struct {
	Mode Mode
	// IgnorePattern is a regexp for output arguments whose files may be
	// referenced by the build graph before they exist.
	IgnorePattern string
	// SkipDriverCommands skips re-running driver commands that expanded to
	// nothing capturable.
	SkipDriverCommands bool
}

// Toolchain selects the compiler binaries the wrapper talks to.
type Toolchain struct {
	// Clang and Clangxx are the binaries used for the dry-run expansion.
	Clang   string
	Clangxx string
	// Override, when set, replaces the binary used for the real execution
	// while classification still runs against Clang/Clangxx. Needed when
	// outputs must be binary-compatible with a specific vendor compiler.
	Override string
}

// Classify tunes output classification.
type Classify struct {
	// BenignPatterns are substrings of driver error/warning lines that are
	// known harmless and dropped instead of reported.
	BenignPatterns []string
}

// Config is the full read-only wrapper configuration.
type Config struct {
	Integration Integration
	Toolchain   Toolchain
	Classify    Classify
}

// Default returns the configuration used when no ccwrap.toml is found.
func Default() Config {
	return Config{
		Integration: Integration{
			Mode:               ModeNone,
			SkipDriverCommands: false,
		},
		Toolchain: Toolchain{
			Clang:   "clang",
			Clangxx: "clang++",
		},
		Classify: Classify{
			// clang echoes back sanitizer arguments it does not support;
			// during a -### expansion that is noise, not a user error.
			BenignPatterns: []string{"to option 'fsanitize='"},
		},
	}
}

// tomlConfig mirrors the on-disk layout of ccwrap.toml.
type tomlConfig struct {
	Integration tomlIntegration `toml:"integration"`
	Toolchain   tomlToolchain   `toml:"toolchain"`
	Classify    tomlClassify    `toml:"classify"`
}

type tomlIntegration struct {
	Mode               string `toml:"mode"`
	IgnorePattern      string `toml:"ignore_pattern"`
	SkipDriverCommands bool   `toml:"skip_driver_commands"`
}

type tomlToolchain struct {
	Clang    string `toml:"clang"`
	Clangxx  string `toml:"clangxx"`
	Override string `toml:"override"`
}

type tomlClassify struct {
	BenignPatterns []string `toml:"benign_patterns"`
}

// Load resolves the effective configuration: defaults, then the nearest
// ccwrap.toml walking up from startDir, then CCWRAP_* env overrides.
func Load(startDir string) (Config, error) {
	cfg := Default()

	path, ok, err := FindManifest(startDir)
	if err != nil {
		return cfg, err
	}
	if ok {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var raw tomlConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("integration", "mode") {
		mode, err := ParseMode(raw.Integration.Mode)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Integration.Mode = mode
	}
	if meta.IsDefined("integration", "ignore_pattern") {
		cfg.Integration.IgnorePattern = raw.Integration.IgnorePattern
	}
	if meta.IsDefined("integration", "skip_driver_commands") {
		cfg.Integration.SkipDriverCommands = raw.Integration.SkipDriverCommands
	}
	if meta.IsDefined("toolchain", "clang") && strings.TrimSpace(raw.Toolchain.Clang) != "" {
		cfg.Toolchain.Clang = raw.Toolchain.Clang
	}
	if meta.IsDefined("toolchain", "clangxx") && strings.TrimSpace(raw.Toolchain.Clangxx) != "" {
		cfg.Toolchain.Clangxx = raw.Toolchain.Clangxx
	}
	if meta.IsDefined("toolchain", "override") {
		cfg.Toolchain.Override = raw.Toolchain.Override
	}
	if meta.IsDefined("classify", "benign_patterns") {
		cfg.Classify.BenignPatterns = raw.Classify.BenignPatterns
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("CCWRAP_MODE"); ok {
		mode, err := ParseMode(v)
		if err != nil {
			return fmt.Errorf("CCWRAP_MODE: %w", err)
		}
		cfg.Integration.Mode = mode
	}
	if v, ok := os.LookupEnv("CCWRAP_IGNORE_PATTERN"); ok {
		cfg.Integration.IgnorePattern = v
	}
	if v, ok := os.LookupEnv("CCWRAP_SKIP_DRIVER_COMMANDS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CCWRAP_SKIP_DRIVER_COMMANDS: %w", err)
		}
		cfg.Integration.SkipDriverCommands = b
	}
	if v, ok := os.LookupEnv("CCWRAP_CLANG"); ok && v != "" {
		cfg.Toolchain.Clang = v
	}
	if v, ok := os.LookupEnv("CCWRAP_CLANGXX"); ok && v != "" {
		cfg.Toolchain.Clangxx = v
	}
	if v, ok := os.LookupEnv("CCWRAP_OVERRIDE"); ok {
		cfg.Toolchain.Override = v
	}
	return nil
}
