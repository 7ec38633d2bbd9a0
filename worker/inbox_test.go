package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func TestInboxHandlesAndMovesFiles(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "inbox")
	done := filepath.Join(root, "done")
	if err := os.MkdirAll(in, 0o755); err != nil {
		t.Fatal(err)
	}
	// present before start: found by the initial rescan
	if err := os.WriteFile(filepath.Join(in, "early.xlsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var handled []string
	w := &Inbox{
		Dir:      in,
		DoneDir:  done,
		Interval: time.Hour,
		Settle:   50 * time.Millisecond,
		Handle: func(_ context.Context, path string) error {
			mu.Lock()
			handled = append(handled, filepath.Base(path))
			mu.Unlock()
			if filepath.Base(path) == "bad.xlsx" {
				return errors.New("row 2: field NOME COMPLETO is empty")
			}
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	waitFor(t, func() bool { return exists(filepath.Join(done, "early.xlsx")) })

	for _, name := range []string{"bad.xlsx", "~$lock.xlsx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(in, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { return exists(filepath.Join(done, "bad.xlsx.error.txt")) })

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Start: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(handled) != 2 {
		t.Fatalf("handled = %v", handled)
	}
	if !exists(filepath.Join(in, "notes.txt")) || !exists(filepath.Join(in, "~$lock.xlsx")) {
		t.Fatal("non-spreadsheet files should stay in the inbox")
	}
}

func TestInboxDoesNotRetryUnmovableFile(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "inbox")
	done := filepath.Join(root, "done")
	// a non-empty directory at the destination makes the move fail
	blocker := filepath.Join(done, "stuck.xlsx")
	if err := os.MkdirAll(blocker, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(blocker, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(in, 0o755); err != nil {
		t.Fatal(err)
	}
	stuck := filepath.Join(in, "stuck.xlsx")
	if err := os.WriteFile(stuck, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	calls := 0
	w := &Inbox{
		Dir:      in,
		DoneDir:  done,
		Interval: 20 * time.Millisecond,
		Settle:   20 * time.Millisecond,
		Handle: func(context.Context, string) error {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	waitFor(t, func() bool { return exists(stuck + ".error.txt") })
	// many rescan intervals
	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Start: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("handled %d times, want 1", calls)
	}
	if !exists(stuck) {
		t.Fatal("unmovable file should stay in the inbox")
	}
}

func TestAccepts(t *testing.T) {
	cases := map[string]bool{
		"a.xlsx":       true,
		"A.XLSX":       true,
		"~$a.xlsx":     false,
		".hidden.xlsx": false,
		"a.csv":        false,
	}
	for name, want := range cases {
		if got := accepts(name); got != want {
			t.Errorf("accepts(%q) = %v, want %v", name, got, want)
		}
	}
}
