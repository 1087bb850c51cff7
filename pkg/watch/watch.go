// Package watch reports writes to a set of files, coalescing bursts of
// events into one notification per file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Watcher.Debounce is not positive.
const DefaultDebounce = 200 * time.Millisecond

// ErrNoFiles is returned by New when there is nothing to watch.
var ErrNoFiles = errors.New("no files to watch")

// Watcher watches files through their parent directories so that editors
// replacing a file on save are still observed.
type Watcher struct {
	fsw     *fsnotify.Watcher
	targets map[string]struct{}

	// Debounce is the quiet period after the last event before a file is
	// reported.
	Debounce time.Duration

	// Logger receives watcher errors. When nil, slog.Default is used.
	Logger *slog.Logger
}

// New starts watching the directories of files. Events that happen after
// New returns are delivered by Run.
func New(files []string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, targets: make(map[string]struct{}, len(files)), Debounce: DefaultDebounce}

	dirs := make(map[string]struct{})

	for _, file := range files {
		abs, absErr := filepath.Abs(file)
		if absErr != nil {
			fsw.Close()

			return nil, fmt.Errorf("resolve %s: %w", file, absErr)
		}

		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		addErr := fsw.Add(dir)
		if addErr != nil {
			fsw.Close()

			return nil, fmt.Errorf("watch %s: %w", dir, addErr)
		}
	}

	return w, nil
}

// Close releases the underlying watcher. Run returns after Close.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}

	return slog.Default()
}

// Run calls onChange for every watched file written since the previous
// call, once no event arrived for Debounce. Calls are sequential and in
// path order. Run returns nil when ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, path string)) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()

	defer timer.Stop()

	var (
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			path := filepath.Clean(event.Name)
			if _, watched := w.targets[path]; !watched {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			pending[path] = struct{}{}

			timer.Reset(debounce)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger().WarnContext(ctx, "watcher error", "error", err)

		case <-fire:
			fire = nil

			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}

			clear(pending)
			slices.Sort(paths)

			for _, p := range paths {
				onChange(ctx, p)
			}
		}
	}
}
