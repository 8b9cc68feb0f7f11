// Package stage pre-creates placeholder files for compile outputs a build
// graph references before the step generating them has run. An empty
// stand-in lets the compiler proceed instead of failing on "file not found".
package stage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"ccwrap/internal/config"
)

// ExpandArgfiles splices @file references into the argument list: each
// argument starting with '@' is replaced by the trimmed lines of the named
// file. Nested @ references inside those files are left alone. Unreadable
// argfiles stay in place untouched; the compiler will complain about them
// itself.
func ExpandArgfiles(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "@") {
			out = append(out, a)
			continue
		}
		data, err := os.ReadFile(a[1:])
		if err != nil {
			out = append(out, a)
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// Stage scans args for compile-only outputs matching the configured ignore
// pattern and creates empty placeholders for the missing ones, parent
// directories included. Active only in compdb integration mode with an
// ignore pattern set; otherwise a no-op.
func Stage(args []string, cfg config.Config) error {
	if cfg.Integration.Mode != config.ModeCompDB || cfg.Integration.IgnorePattern == "" {
		return nil
	}
	re, err := regexp.Compile(cfg.Integration.IgnorePattern)
	if err != nil {
		return fmt.Errorf("bad ignore pattern %q: %w", cfg.Integration.IgnorePattern, err)
	}

	expanded := ExpandArgfiles(args)
	for i, a := range expanded {
		if a != "-c" || i+1 >= len(expanded) {
			continue
		}
		path := expanded[i+1]
		if !re.MatchString(path) {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create placeholder dir for %q: %w", path, err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return fmt.Errorf("failed to create placeholder %q: %w", path, err)
		}
	}
	return nil
}
