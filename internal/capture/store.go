// Package capture records canonical sub-commands for downstream analysis.
// Each captured command becomes one msgpack file under the user cache,
// keyed by the digest of its runnable string, so replaying a build never
// duplicates entries.
package capture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"ccwrap/internal/command"
)

// Current schema version - increment when Entry format changes
const entrySchemaVersion uint16 = 1

// Entry is one captured canonical sub-command.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Prog string
	Args []string
	// Dir is the working directory the command was captured in.
	Dir string
	// Unix is the capture time in seconds.
	Unix int64
}

// Store хранит захваченные подкоманды на диске.
// Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the store at the standard cache location.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt initializes the store at an explicit directory.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) pathFor(key [sha256.Size]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "entries" — для удобства читаемости/очистки.
	return filepath.Join(s.dir, "entries", hexKey+".mp")
}

// Capture records one canonical sub-command. Implements the dispatcher's
// sink contract.
func (s *Store) Capture(_ context.Context, cmd *command.Command) error {
	if cmd == nil {
		return errors.New("missing command")
	}
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	entry := &Entry{
		Schema: entrySchemaVersion,
		Prog:   cmd.Prog(),
		Args:   cmd.Args(),
		Dir:    dir,
		Unix:   time.Now().Unix(),
	}
	return s.put(sha256.Sum256([]byte(cmd.RunnableString())), entry)
}

func (s *Store) put(key [sha256.Size]byte, entry *Entry) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(entry); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// List decodes all recorded entries, oldest first. Decoding fans out over a
// bounded worker group; entries with a stale schema are skipped.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	root := filepath.Join(s.dir, "entries")
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".mp" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan capture store: %w", err)
	}

	entries := make([]Entry, len(paths))
	valid := make([]bool, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer func() {
				_ = f.Close()
			}()
			var e Entry
			if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
				return fmt.Errorf("failed to decode %q: %w", p, err)
			}
			if e.Schema == entrySchemaVersion {
				entries[i] = e
				valid[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if valid[i] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Unix != out[j].Unix {
			return out[i].Unix < out[j].Unix
		}
		return out[i].Prog < out[j].Prog
	})
	return out, nil
}

// DropAll invalidates the store, useful after format changes.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
