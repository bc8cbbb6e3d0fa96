// Package watch re-runs the render pass when watched distribution files
// change, with debouncing so editor save bursts trigger one rebuild.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/podreadme/internal/observability"
)

// DefaultDebounce batches rapid change bursts into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Watcher triggers a callback on file changes.
type Watcher struct {
	paths    []string
	debounce time.Duration
	onChange func(ctx context.Context)
}

// New creates a watcher over the given paths. A zero debounce gets the
// default.
func New(paths []string, debounce time.Duration, onChange func(ctx context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{paths: paths, debounce: debounce, onChange: onChange}
}

// Run watches until the context is cancelled. Paths that do not exist yet
// are skipped; write/create/rename/remove events on watched paths schedule
// a debounced rebuild.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := 0
	for _, p := range w.paths {
		if p == "" {
			continue
		}
		if err := fw.Add(p); err != nil {
			observability.WarnContext(ctx, "cannot watch path",
				slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		watched++
	}
	observability.InfoContext(ctx, "watching for changes", slog.Int("paths", watched))

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			observability.DebugContext(ctx, "change detected",
				slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()
			// Editors often replace files; re-add so the new inode stays
			// watched.
			if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				_ = fw.Add(ev.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			observability.WarnContext(ctx, "watch error", slog.String("error", err.Error()))
		case <-fire:
			w.onChange(ctx)
		}
	}
}
