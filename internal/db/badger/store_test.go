package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/cinedex/internal/db"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", true, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if !s.IsClosed() {
			_ = s.Close()
		}
	})
	return s
}

func TestOpen_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	s, err := Open(dir, false, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestOpen_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, false, nil); err == nil {
		t.Fatal("expected error for file path")
	}
}

func TestOpen_EmptyDir(t *testing.T) {
	if _, err := Open("", false, nil); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestGetSetDel(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after Del, got %v", err)
	}
	if err := s.Del(ctx, "missing"); err != nil {
		t.Errorf("Del missing key: %v", err)
	}
}

func TestWriteBatchAndScan(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	entries := []db.Entry{
		{Key: "a/2", Value: []byte("two")},
		{Key: "a/1", Value: []byte("one")},
		{Key: "b/1", Value: []byte("other")},
	}
	if err := s.WriteBatch(ctx, entries); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	var keys, vals []string
	err := s.ScanPrefix(ctx, "a/", func(k string, v []byte) error {
		keys = append(keys, k)
		vals = append(vals, string(v))
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a/1" || keys[1] != "a/2" {
		t.Errorf("keys = %v, want [a/1 a/2]", keys)
	}
	if vals[0] != "one" || vals[1] != "two" {
		t.Errorf("vals = %v", vals)
	}
}

func TestScanPrefix_CallbackError(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()
	if err := s.Set(ctx, "p/1", []byte("x")); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.ScanPrefix(ctx, "p/", func(string, []byte) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestDropPrefix(t *testing.T) {
	s := openMem(t)
	ctx := context.Background()

	_ = s.WriteBatch(ctx, []db.Entry{
		{Key: "lex/1", Value: []byte("x")},
		{Key: "lex/2", Value: []byte("y")},
		{Key: "keep", Value: []byte("z")},
	})
	if err := s.DropPrefix(ctx, "lex/"); err != nil {
		t.Fatalf("DropPrefix: %v", err)
	}

	n := 0
	_ = s.ScanPrefix(ctx, "lex/", func(string, []byte) error { n++; return nil })
	if n != 0 {
		t.Errorf("%d keys survived DropPrefix", n)
	}
	if _, err := s.Get(ctx, "keep"); err != nil {
		t.Errorf("unrelated key dropped: %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	s := openMem(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping on open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Ping after close: %v", err)
	}
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Get after close: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s := openMem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Set(ctx, "k", []byte("v"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSet || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled SET error, got %v", err)
	}
}
