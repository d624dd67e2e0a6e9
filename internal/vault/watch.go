package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ujupatipanno/trash-note/internal/checksum"
)

// reconcileDelay is how long to wait after a rename or remove event before
// searching the vault for the tracked file under a new path.
const reconcileDelay = 200 * time.Millisecond

// Watch follows the configured collector note on disk until ctx is
// cancelled. current returns the collector path to track, or "" when none is
// configured yet. onChange (if non-nil) runs after the tracked file's content
// changes on disk. onRename (if non-nil) runs when the tracked file
// disappears and a file with identical content shows up elsewhere in the
// vault, which is how external moves look from the filesystem.
func Watch(ctx context.Context, store Provider, root string, current func() string, onChange func(path string), onRename func(oldPath, newPath string), logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// lastSum is the checksum of the tracked file, "" when unknown.
	lastSum := ""
	refresh := func() {
		p := current()
		if p == "" {
			lastSum = ""
			return
		}
		data, readErr := store.Read(p)
		if readErr != nil {
			lastSum = ""
			return
		}
		lastSum = checksum.Sum(data)
	}
	refresh()

	// reconcileTimer debounces rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			p := current()
			if p == "" {
				continue
			}
			if store.Exists(p) {
				// The file is back (or the event was transient).
				prev := lastSum
				refresh()
				if lastSum != prev && onChange != nil {
					onChange(p)
				}
				continue
			}
			if lastSum == "" {
				logger.Warn("watcher: collector note missing", slog.String("path", p))
				continue
			}
			metas, listErr := store.List("")
			if listErr != nil {
				logger.Warn("watcher: list failed", slog.String("error", listErr.Error()))
				continue
			}
			var candidates []string
			for _, m := range metas {
				if m.Checksum == lastSum && m.Path != p {
					candidates = append(candidates, m.Path)
				}
			}
			if len(candidates) == 1 {
				logger.Info("watcher: collector note moved",
					slog.String("from", p),
					slog.String("to", candidates[0]))
				if onRename != nil {
					onRename(p, candidates[0])
				}
				refresh()
				continue
			}
			logger.Warn("watcher: collector note missing",
				slog.String("path", p),
				slog.Int("candidates", len(candidates)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories join the watch list so a collector moved
			// into them stays visible.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			p := current()
			if p == "" || rel != p {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				prev := lastSum
				refresh()
				if lastSum != prev {
					logger.Debug("watcher: collector note changed", slog.String("path", rel))
					if onChange != nil {
						onChange(rel)
					}
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify fires Rename on the OLD path only; the new path
				// arrives as a separate Create event. Wait a beat, then
				// look for the content under a new name.
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
