package classify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ccwrap/internal/classify"
	"ccwrap/internal/config"
)

// fakeStream feeds canned lines instead of spawning a process.
func fakeStream(lines []string) func(ctx context.Context, commandLine string, onLine func(string)) error {
	return func(_ context.Context, _ string, onLine func(string)) error {
		for _, l := range lines {
			onLine(l)
		}
		return nil
	}
}

func TestDryRunCommand(t *testing.T) {
	cmd := classify.DryRunCommand("/usr/bin/clang", []string{"-c", "a.c"})
	args := cmd.Args()
	if args[0] != "-###" {
		t.Errorf("first arg = %q, want -###", args[0])
	}
	joined := strings.Join(args, " ")
	for _, flag := range []string{"-fno-cxx-modules", "-Qunused-arguments", "-fno-addrsig", "-fembed-bitcode=off"} {
		if !strings.Contains(joined, flag) {
			t.Errorf("dry-run command missing %s", flag)
		}
	}
	if !strings.Contains(joined, "-c a.c") {
		t.Errorf("original args lost: %s", joined)
	}
	if cmd.Prog() != "/usr/bin/clang" {
		t.Errorf("prog = %q", cmd.Prog())
	}
}

func TestClassify_StreamsInOrder(t *testing.T) {
	lines := []string{
		`clang version 11.0.0`,
		` "/usr/bin/clang" "-cc1" "a.c"`,
		`clang-11: warning: unused argument '-foo'`,
	}
	items, err := classify.Classify(context.Background(), "clang", []string{"-c", "a.c"}, config.Default(), fakeStream(lines))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Kind != classify.KindCanonical || items[1].Kind != classify.KindWarning {
		t.Fatalf("unexpected kinds: %s, %s", items[0].Kind, items[1].Kind)
	}
}

func TestClassify_PartialOutputIsClassified(t *testing.T) {
	// умирающий дочерний процесс — не ошибка: частичный вывод
	// классифицируется как обычно
	partial := func(_ context.Context, _ string, onLine func(string)) error {
		onLine(` "/usr/bin/clang" "-cc1" "a.c"`)
		return nil
	}
	items, err := classify.Classify(context.Background(), "clang", nil, config.Default(), partial)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
}

func TestClassify_EmptySubcommandAborts(t *testing.T) {
	_, err := classify.Classify(context.Background(), "clang", nil, config.Default(), fakeStream([]string{` ""`}))
	if !errors.Is(err, classify.ErrEmptySubcommand) {
		t.Fatalf("err = %v, want ErrEmptySubcommand", err)
	}
}

func TestClassify_StreamErrorPropagates(t *testing.T) {
	boom := errors.New("pipe burst")
	failing := func(_ context.Context, _ string, _ func(string)) error {
		return boom
	}
	_, err := classify.Classify(context.Background(), "clang", nil, config.Default(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped stream error", err)
	}
}
