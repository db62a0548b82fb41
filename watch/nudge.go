package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// startNudger wires fsnotify create events under the content root into a
// nudge channel. fsnotify does not watch recursively, so every directory is
// added individually and newly created directories are added as they appear.
// Failure to set up notifications is not fatal; polling still covers it.
func (w *Watcher) startNudger(ctx context.Context) <-chan struct{} {
	nudge := make(chan struct{}, 1)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.WithError(err).Warn("filesystem notifications unavailable; relying on polling only")
		return nudge
	}

	addDirs := func(root string) {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if d.IsDir() {
				if addErr := fsw.Add(p); addErr != nil {
					w.log.WithError(addErr).WithField("dir", p).Debug("cannot watch directory")
				}
			}
			return nil
		})
	}
	addDirs(w.tree.Root())

	go func() {
		defer fsw.Close()

		var lastNudge time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					addDirs(event.Name)
				}
				if time.Since(lastNudge) < w.debounce {
					continue
				}
				lastNudge = time.Now()
				select {
				case nudge <- struct{}{}:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.log.WithError(err).Debug("filesystem watcher error")
			}
		}
	}()

	return nudge
}
