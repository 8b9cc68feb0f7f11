package capture_test

import (
	"context"
	"testing"

	"ccwrap/internal/capture"
	"ccwrap/internal/command"
)

func TestStore_CaptureListRoundtrip(t *testing.T) {
	store, err := capture.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	ctx := context.Background()

	cmd := command.New(command.QuoteShell, "/usr/bin/clang", []string{"-cc1", "a.c"}, false)
	if err := store.Capture(ctx, cmd); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	// повторный захват той же команды не создаёт дубликат
	if err := store.Capture(ctx, cmd); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	other := command.New(command.QuoteShell, "/usr/bin/clang", []string{"-cc1", "b.c"}, false)
	if err := store.Capture(ctx, other); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (dedup by command)", len(entries))
	}
	for _, e := range entries {
		if e.Prog != "/usr/bin/clang" {
			t.Errorf("prog = %q", e.Prog)
		}
		if e.Dir == "" {
			t.Error("working directory must be recorded")
		}
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store, err := capture.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("fresh store has %d entries", len(entries))
	}
}

func TestStore_DropAll(t *testing.T) {
	store, err := capture.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	ctx := context.Background()
	cmd := command.New(command.QuoteShell, "clang", []string{"-cc1", "a.c"}, false)
	if err := store.Capture(ctx, cmd); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := store.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List after drop: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("store not empty after DropAll: %d entries", len(entries))
	}
	// повторный Drop — no-op
	if err := store.DropAll(); err != nil {
		t.Fatalf("second DropAll: %v", err)
	}
}
