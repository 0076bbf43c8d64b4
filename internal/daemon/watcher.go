package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/packsmith/internal/metrics"
)

// Watcher monitors the project tree and emits debounced rebuild triggers.
// Rapid bursts of filesystem events (editor saves, freezer scratch writes)
// collapse into a single trigger.
type Watcher struct {
	watcher  *fsnotify.Watcher
	triggers chan struct{}
	debounce time.Duration
	recorder metrics.Recorder
	ignore   []string // directory basenames never watched or reported
}

// NewWatcher creates a watcher over the given paths, resolved against baseDir.
// Files are watched through their parent directory; directories are watched
// recursively.
func NewWatcher(baseDir string, paths []string, debounce time.Duration, recorder metrics.Recorder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	w := &Watcher{
		watcher:  fsw,
		triggers: make(chan struct{}, 1),
		debounce: debounce,
		recorder: recorder,
		ignore:   []string{".git", "dist", "build", "site", "__pycache__"},
	}

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(baseDir, p)
		}
		if err := w.add(abs); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	return w, nil
}

// add registers a path with the underlying watcher. Directories are walked so
// nested changes are seen too.
func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		// Watch the parent directory; watching files directly breaks on
		// editors that replace files via rename.
		return w.watcher.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(filepath.Base(p)) && p != path {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) ignored(base string) bool {
	for _, ig := range w.ignore {
		if base == ig {
			return true
		}
	}
	return false
}

// skipEvent reports whether a filesystem event is for build output rather
// than a source change. The freezer writes dist/, build/, and a generated
// .spec file into the project root while a build runs; reacting to those
// would retrigger the build that produced them.
func (w *Watcher) skipEvent(name string) bool {
	if strings.HasSuffix(name, ".spec") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if w.ignored(part) {
			return true
		}
	}
	return false
}

// Triggers returns the channel that fires after a debounced batch of changes.
func (w *Watcher) Triggers() <-chan struct{} { return w.triggers }

// Start runs the watch loop until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.skipEvent(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Filesystem change detected", "path", event.Name, "op", event.Op.String())
			w.recorder.WatchEvent()

			// New directories join the watch set so nested trees stay covered.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.triggers <- struct{}{}:
			default: // a trigger is already pending
			}
		}
	}
}
