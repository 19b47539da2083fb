package changes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of file events
// triggers a run.
const DefaultDebounce = 300 * time.Millisecond

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Root is the directory tree to watch.
	Root string

	// Extra lists additional files to watch, such as a ruleset that lives
	// outside Root.
	Extra []string

	// Debounce is the quiet period before onChange runs.
	Debounce time.Duration

	// SkipDirs are directory names never descended into.
	SkipDirs []string

	// IgnoreFiles are files the watched process writes itself, such as a
	// metrics textfile. Events on them, or on temp files created next to
	// them with the same base name as prefix, are dropped.
	IgnoreFiles []string
}

// Watcher runs a callback after files under Root change. Runs never
// overlap: events arriving during a run schedule one more run.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   WatcherConfig
	debounce *Debouncer

	runMu sync.Mutex
}

// NewWatcher creates a watcher. Call Watch to start it.
func NewWatcher(cfg WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SkipDirs == nil {
		cfg.SkipDirs = []string{".git", "node_modules"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ignore := make([]string, 0, len(cfg.IgnoreFiles))
	for _, f := range cfg.IgnoreFiles {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ignored file %q: %w", f, err)
		}
		ignore = append(ignore, abs)
	}
	cfg.IgnoreFiles = ignore

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange after each burst
// of file events. Errors from onChange are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	defer w.debounce.Stop()
	defer w.watcher.Close()

	if err := w.addTree(w.config.Root); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.config.Root, err)
	}
	for _, extra := range w.config.Extra {
		if err := w.watcher.Add(filepath.Dir(extra)); err != nil {
			return fmt.Errorf("failed to watch %q: %w", extra, err)
		}
	}

	w.logger.Info("file watcher started",
		"root", w.config.Root,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcess(event) {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.debounce.Trigger(func() {
				w.runMu.Lock()
				defer w.runMu.Unlock()
				if err := onChange(); err != nil {
					w.logger.Error("run after change failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(name string) bool {
	for _, s := range w.config.SkipDirs {
		if name == s {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(event.Name), "/") {
		if w.skipDir(part) {
			return false
		}
	}
	return !w.ignored(event.Name)
}

// ignored reports whether name is one of IgnoreFiles or a temp sibling
// written before an atomic rename onto it.
func (w *Watcher) ignored(name string) bool {
	if len(w.config.IgnoreFiles) == 0 {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	dir, base := filepath.Split(abs)
	for _, f := range w.config.IgnoreFiles {
		if abs == f {
			return true
		}
		fdir, fbase := filepath.Split(f)
		if dir == fdir && strings.HasPrefix(base, fbase) {
			return true
		}
	}
	return false
}

// Debouncer collects rapid events and runs the latest callback once the
// interval passes without new events.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger (re)starts the quiet period and replaces the pending callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
