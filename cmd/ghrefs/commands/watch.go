package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
	"git.home.luguber.info/inful/ghrefs/internal/logfields"
)

// fileWatcher calls onChange for each watched file once it has been quiet
// for the debounce period.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func(path string)
}

// newFileWatcher watches the directories holding files, which is more
// reliable than watching the files themselves across editor saves.
func newFileWatcher(files []string, debounce time.Duration, onChange func(path string)) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}

	fw := &fileWatcher{
		watcher:  watcher,
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		onChange: onChange,
	}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = watcher.Close()
			return nil, errors.FileSystemError("failed to resolve path").WithCause(err).
				WithContext("path", f).
				Build()
		}
		fw.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, errors.FileSystemError("failed to watch directory").WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	return fw, nil
}

// Run blocks until ctx is done, then closes the watcher.
func (fw *fileWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := fw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if _, watched := fw.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("File change detected", logfields.File(event.Name))
				pending[filepath.Clean(event.Name)] = struct{}{}
				timer.Reset(fw.debounce)
			case event.Has(fsnotify.Remove):
				slog.Warn("Watched file removed", logfields.File(event.Name))
			}
		case <-timer.C:
			for path := range pending {
				fw.onChange(path)
			}
			clear(pending)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}
