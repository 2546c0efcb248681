// Package watcher reruns work when files on disk change.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and triggers debounced callbacks.
//
// The parent directories are watched rather than the files, so a file that
// an editor replaces by rename is still followed.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    *slog.Logger
	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]int
	debounce  time.Duration
	timers    map[string]*time.Timer
	done      chan struct{}
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:   watcher,
		logger:    logger,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]int),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		done:      make(chan struct{}),
	}, nil
}

// Watch registers the callback for the given files
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if _, ok := fw.callbacks[absPath]; ok {
			fw.callbacks[absPath] = callback
			continue
		}

		dir := filepath.Dir(absPath)
		if fw.dirs[dir] == 0 {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
		fw.dirs[dir]++
		fw.callbacks[absPath] = callback
	}

	return nil
}

// Start begins watching for file changes in the background
func (fw *FileWatcher) Start() {
	go func() {
		defer close(fw.done)
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					fw.handleFileChange(filepath.Clean(event.Name))
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.logger.Warn("watcher error", slog.Any("err", err))
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of a watched file
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		fw.logger.Debug("file changed", slog.String("path", filePath))
		callback(filePath)
	})
}

// Close stops the watcher and pending callbacks
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// Done is closed when the event loop started by Start has exited
func (fw *FileWatcher) Done() <-chan struct{} {
	return fw.done
}

// RemoveAll removes all watched files
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for dir := range fw.dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return err
		}
	}
	for _, t := range fw.timers {
		t.Stop()
	}

	fw.callbacks = make(map[string]func(string))
	fw.dirs = make(map[string]int)
	fw.timers = make(map[string]*time.Timer)
	return nil
}
