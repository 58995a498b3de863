package credstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/xwanai/xwan-client/internal/core/ports"
)

func exerciseStore(t *testing.T, store ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty credential, got %q", got)
	}

	if err := store.Save(ctx, "T1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "T2"); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	if got, _ := store.Load(ctx); got != "T2" {
		t.Fatalf("expected T2, got %q", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store returned error: %v", err)
	}
	if got, _ := store.Load(ctx); got != "" {
		t.Fatalf("expected empty credential after clear, got %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.json")))
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	if err := NewFileStore(path).Save(ctx, "persisted"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := NewFileStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != "persisted" {
		t.Fatalf("expected persisted token, got %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	if doc["access_token"] != "persisted" {
		t.Fatalf("expected token under access_token, got %v", doc)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("expected 0600 permissions, got %o", perm)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open memory returned error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "c.json")
	store, _, err = Open(ctx, Config{Backend: BackendFile, FilePath: path})
	if err != nil {
		t.Fatalf("Open file returned error: %v", err)
	}
	if fs, ok := store.(*FileStore); !ok || fs.Path() != path {
		t.Fatalf("expected *FileStore at %s, got %T", path, store)
	}

	if _, _, err := Open(ctx, Config{Backend: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestRedisStore_Key(t *testing.T) {
	s := NewRedisStore(nil, "")
	if got := s.key(); got != "xwan:default:access_token" {
		t.Fatalf("unexpected key: %s", got)
	}
	s = NewRedisStore(nil, "work")
	if got := s.key(); got != "xwan:work:access_token" {
		t.Fatalf("unexpected key: %s", got)
	}
}
