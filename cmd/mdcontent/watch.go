package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-mdcontent/internal/fileutil"
	"github.com/alnah/go-mdcontent/internal/hints"
)

// ErrWatch reports a file watcher that could not be started.
var ErrWatch = errors.New("cannot watch content")

// A rebuild runs once events stop for watchDebounce, which groups the burst
// an editor save produces. Under a steady stream of events it still runs
// watchMaxWait after the first one.
const (
	watchDebounce = 150 * time.Millisecond
	watchMaxWait  = time.Second
)

// watchTarget names what triggers a rebuild.
type watchTarget struct {
	root      string // content file or directory
	scopeFile string // optional MDX scope file
}

// watchContent calls rebuild after content or scope changes until ctx is
// done. Rebuild errors are the caller's to report.
func watchContent(ctx context.Context, target watchTarget, rebuild func(context.Context), env *Environment) error {
	w, err := newContentWatcher(target)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", target.root)
	watchLoop(ctx, w, target, rebuild, env)
	return nil
}

// newContentWatcher returns a watcher registered on the content tree and
// the scope file's directory.
func newContentWatcher(target watchTarget) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrWatch, err, hints.ForWatch())
	}
	if err := addWatchTree(w, target.root); err != nil {
		w.Close()
		return nil, fmt.Errorf("%w: %v%s", ErrWatch, err, hints.ForWatch())
	}
	if target.scopeFile != "" {
		if err := w.Add(filepath.Dir(target.scopeFile)); err != nil {
			w.Close()
			return nil, fmt.Errorf("%w: %v%s", ErrWatch, err, hints.ForWatch())
		}
	}
	return w, nil
}

// watchLoop debounces the watcher's events into rebuild calls until ctx is
// done or the watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, target watchTarget, rebuild func(context.Context), env *Environment) {
	var (
		pending    <-chan time.Time
		burstStart time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && isWatchableDir(ev.Name) {
				if err := addWatchTree(w, ev.Name); err != nil {
					fmt.Fprintf(env.Stderr, "warning: %v\n", err)
				}
			}
			if isRelevantEvent(ev, target.scopeFile) {
				now := time.Now()
				if pending == nil {
					burstStart = now
				}
				pending = time.After(debounceDelay(burstStart, now))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(env.Stderr, "warning: watcher: %v%s\n", err, hints.ForWatch())

		case <-pending:
			pending = nil
			rebuild(ctx)
		}
	}
}

// debounceDelay returns how long to wait before rebuilding for an event at
// now in a burst that began at burstStart.
func debounceDelay(burstStart, now time.Time) time.Duration {
	left := watchMaxWait - now.Sub(burstStart)
	if left < watchDebounce {
		return max(left, 0)
	}
	return watchDebounce
}

// addWatchTree watches root and every visible directory below it.
// A file root is watched through its directory.
func addWatchTree(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isRelevantEvent reports whether ev should trigger a rebuild: a change to
// a visible content file or to the scope file. Chmod-only events and
// rendered outputs never do.
func isRelevantEvent(ev fsnotify.Event, scopeFile string) bool {
	if ev.Op&^fsnotify.Chmod == 0 {
		return false
	}
	if scopeFile != "" && filepath.Clean(ev.Name) == filepath.Clean(scopeFile) {
		return true
	}
	if isHidden(ev.Name) {
		return false
	}
	return fileutil.IsContentFile(ev.Name)
}

func isWatchableDir(path string) bool {
	if isHidden(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
