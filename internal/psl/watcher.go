package psl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch loads a local suffix-list file into the holder and reloads it
// whenever the file changes, until the context stops. Intended for air-gapped
// deployments that ship their own public_suffix_list.dat instead of fetching
// it.
func Watch(ctx context.Context, path string, holder *Holder) error {
	if err := reloadFile(path, holder); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory, not the file: editors and atomic writers replace
	// the file instead of writing it in place.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := reloadFile(path, holder); err != nil {
				// Keep the last good list on a bad reload.
				log.Warn("suffix list reload failed", "path", path, "err", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("suffix list watcher error", "err", err)
		}
	}
}

func reloadFile(path string, holder *Holder) error {
	list, err := LoadFile(path)
	if err != nil {
		return err
	}
	holder.Set(list, path)
	log.Info("suffix list loaded", "path", path, "rules", list.Len())
	return nil
}
