package tmplstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cigen/internal/config"
	"cigen/internal/letter"
	"cigen/internal/redisclient"
)

// exercise runs the same save/load/reset cycle against any backend.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: %v", err)
	}
	body, saved, err := LoadOrDefault(ctx, s)
	if err != nil || saved || body != letter.DefaultTemplate() {
		t.Fatalf("LoadOrDefault empty: saved=%v err=%v", saved, err)
	}
	if err := s.Save(ctx, "primeira"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "C.I. N° <<NUMERO>>\nsegunda"); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	body, saved, err = LoadOrDefault(ctx, s)
	if err != nil || !saved || body != "C.I. N° <<NUMERO>>\nsegunda" {
		t.Fatalf("LoadOrDefault saved: body=%q saved=%v err=%v", body, saved, err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset twice: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after reset: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "letter.txt"))
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cigen.db"), "letterTemplate")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redisclient.New(config.RedisConfig{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	s := NewRedisStore(rdb, "test-"+t.Name())
	defer s.Close()
	_ = s.Reset(context.Background())
	exercise(t, s)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{Store: config.StoreConfig{Backend: "file", Path: filepath.Join(dir, "t.txt")}}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("got %T", s)
	}

	cfg.Store = config.StoreConfig{Backend: "sqlite", Path: filepath.Join(dir, "t.db"), Key: "k"}
	s, err = Open(cfg)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("got %T", s)
	}

	cfg.Store.Backend = "mongo"
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
