package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Inbox watches a directory for spreadsheets and hands each one to Handle
// once it has stopped changing. Handled files, successful or not, are moved
// to DoneDir; failures leave a "<name>.error.txt" next to them. A file that
// cannot be moved gets its error report in Dir and is not handled again
// until it is modified.
type Inbox struct {
	Dir      string
	DoneDir  string
	Interval time.Duration // full rescan, catches events missed by the watcher
	Settle   time.Duration // quiet period before a file is handled
	Handle   func(ctx context.Context, path string) error

	pending map[string]time.Time
	// stuck holds files that could not be moved out of Dir, keyed by path,
	// with the modification time they had when handled.
	stuck map[string]time.Time
}

func (w *Inbox) Name() string { return "inbox:" + w.Dir }

func (w *Inbox) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	if w.Settle <= 0 {
		w.Settle = time.Second
	}
	w.pending = map[string]time.Time{}
	w.stuck = map[string]time.Time{}
	for _, d := range []string{w.Dir, w.DoneDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	slog.Info("inbox: watching", "dir", w.Dir, "done_dir", w.DoneDir)

	// pick up files dropped while we were down
	w.rescan()

	rescan := time.NewTicker(w.Interval)
	defer rescan.Stop()
	settle := time.NewTicker(w.Settle / 2)
	defer settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.touch(ev.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("inbox: watcher error", "err", err)
		case <-rescan.C:
			w.rescan()
		case <-settle.C:
			w.flush(ctx)
		}
	}
}

// accepts reports whether name looks like a spreadsheet to process.
func accepts(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".xlsx")
}

func (w *Inbox) touch(path string) {
	if !accepts(path) {
		return
	}
	if mod, ok := w.stuck[path]; ok {
		fi, err := os.Stat(path)
		if err == nil && fi.ModTime().Equal(mod) {
			return
		}
		delete(w.stuck, path)
	}
	w.pending[path] = time.Now()
}

func (w *Inbox) rescan() {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		slog.Warn("inbox: rescan failed", "dir", w.Dir, "err", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(w.Dir, e.Name())
		if _, ok := w.pending[p]; !ok {
			w.touch(p)
		}
	}
}

func (w *Inbox) flush(ctx context.Context) {
	now := time.Now()
	for p, last := range w.pending {
		if now.Sub(last) < w.Settle {
			continue
		}
		delete(w.pending, p)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		w.process(ctx, p)
	}
}

func (w *Inbox) process(ctx context.Context, path string) {
	start := time.Now()
	slog.Info("inbox: processing", "file", path)
	herr := w.Handle(ctx, path)

	dest := filepath.Join(w.DoneDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		slog.Error("inbox: move to done dir failed", "file", path, "err", err)
		if fi, serr := os.Stat(path); serr == nil {
			w.stuck[path] = fi.ModTime()
		}
		report := fmt.Sprintf("move to %s: %v\n", w.DoneDir, err)
		if herr != nil {
			report = herr.Error() + "\n" + report
		}
		writeReport(path, report)
		return
	}
	if herr != nil {
		slog.Warn("inbox: file failed", "file", path, "err", herr)
		writeReport(dest, herr.Error()+"\n")
		return
	}
	slog.Info("inbox: done", "file", path, "duration", time.Since(start))
}

func writeReport(path, report string) {
	if err := os.WriteFile(path+".error.txt", []byte(report), 0o644); err != nil {
		slog.Error("inbox: write error report failed", "file", path, "err", err)
	}
}
