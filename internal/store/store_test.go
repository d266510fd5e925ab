package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/lvillar/resumepdf/internal/config"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"jane", true},
		{"jane-doe_2024.v2", true},
		{NewName(), true},
		{"", false},
		{".hidden", false},
		{"../etc/passwd", false},
		{"a..b", false},
		{"dir/file", false},
		{`dir\file`, false},
		{"with space", false},
		{"ünïcode", false},
		{string(make([]byte, MaxNameLen+1)), false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.ok && err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.name, err)
		}
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "profiles"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	names, err := s.List(ctx)
	if err != nil || len(names) != 0 {
		t.Fatalf("List on empty store = %v, %v", names, err)
	}

	jane := map[string]any{"name": "Jane", "skills": []any{"Go", "SQL"}}
	if err := s.Save(ctx, "jane", jane); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "bob", map[string]any{"name": "Bob"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "jane")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(jane, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	names, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"bob", "jane"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	if err := s.Save(ctx, "jane", map[string]any{"name": "Jane D."}); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, _ = s.Load(ctx, "jane")
	if got["name"] != "Jane D." {
		t.Errorf("replaced profile name = %v", got["name"])
	}

	if err := s.Delete(ctx, "jane"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "jane"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "jane"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFileStore(filepath.Join(root, "profiles"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "../escape", map[string]any{}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save traversal = %v, want ErrInvalidName", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.json")); err == nil {
		t.Error("file written outside the store")
	}
	if _, err := s.Load(ctx, "../escape"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Load traversal = %v, want ErrInvalidName", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Delete empty = %v, want ErrInvalidName", err)
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", ".tmp-123", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	names, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreCorruptProfile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(dir)
	_, err := s.Load(context.Background(), "bad")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load corrupt = %v, want a parse error", err)
	}
}

func TestRedisStoreValidatesBeforeNetwork(t *testing.T) {
	// Nothing listens on this address; invalid names must fail first.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	s := NewRedisStoreWithClient(client, "")
	defer s.Close()
	ctx := context.Background()

	if got := s.key("jane"); got != DefaultRedisPrefix+"jane" {
		t.Errorf("key = %q", got)
	}
	if err := s.Save(ctx, "../x", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save = %v, want ErrInvalidName", err)
	}
	if _, err := s.Load(ctx, "a/b"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Load = %v, want ErrInvalidName", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Delete = %v, want ErrInvalidName", err)
	}
}

func TestOpenFileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "p")
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open returned %T, want *FileStore", s)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "sqlite"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
