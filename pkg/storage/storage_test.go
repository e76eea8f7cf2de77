package storage

import (
	"context"
	"errors"
	"os"
	"testing"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "taskmaster_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "taskmaster_token", "def"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "taskmaster_token")
	if err != nil || !ok || v != "def" {
		t.Fatalf("Expected def, got %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Remove(ctx, "taskmaster_token"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "taskmaster_token"); err != nil {
		t.Fatalf("Remove of a missing key should succeed, got %v", err)
	}
	if _, ok, _ := s.Get(ctx, "taskmaster_token"); ok {
		t.Error("Expected key to be gone")
	}
}

func TestMemory(t *testing.T) { exercise(t, NewMemory()) }

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exercise(t, f)

	ctx := context.Background()
	if err := f.Set(ctx, "taskApp_tasks_alice", `[{"id":1}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, _ := reopened.Get(ctx, "taskApp_tasks_alice"); !ok || v != `[{"id":1}]` {
		t.Errorf("Expected value to survive reopen, got %q", v)
	}
}

func TestFileCorruptDocument(t *testing.T) {
	ctx := context.Background()
	for name, body := range map[string]string{
		"garbage": "{not json",
		"null":    "null",
		"array":   `["a","b"]`,
	} {
		t.Run(name, func(t *testing.T) {
			f, err := NewFile(t.TempDir())
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if err := os.WriteFile(f.Path(), []byte(body), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, ok, err := f.Get(ctx, "taskmaster_token"); err != nil || ok {
				t.Fatalf("Expected a corrupt document to read as empty, got ok=%v err=%v", ok, err)
			}
			if err := f.Set(ctx, "taskmaster_token", "tok"); err != nil {
				t.Fatalf("Set after corruption: %v", err)
			}
			v, ok, err := f.Get(ctx, "taskmaster_token")
			if err != nil || !ok || v != "tok" {
				t.Errorf("Expected tok, got %q ok=%v err=%v", v, ok, err)
			}
			if err := f.Remove(ctx, "taskmaster_token"); err != nil {
				t.Errorf("Remove after corruption: %v", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Expected *Memory, got %T", s)
	}
	if _, err := Open(context.Background(), Options{Driver: "floppy"}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(context.Background(), Options{Driver: "gcs"}); err == nil {
		t.Error("Expected gcs without a bucket to fail")
	}
	if err := Close(NewMemory()); err != nil {
		t.Errorf("Close(memory): %v", err)
	}
}
