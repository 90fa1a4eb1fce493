package app

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a set of files. It watches their parent
// directories so files replaced by rename (as most editors save) keep being
// seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	onChange func(paths []string) // Called from the watch goroutine
}

// NewFileWatcher watches paths, coalescing bursts of events that arrive
// within debounce of each other.
func NewFileWatcher(paths []string, debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		debounce: debounce,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// OnChange sets the callback. It runs on the watcher goroutine; use
// appropriate synchronization if updating UI.
func (fw *FileWatcher) OnChange(callback func(paths []string)) {
	fw.onChange = callback
}

// Start begins watching in a background goroutine.
func (fw *FileWatcher) Start() {
	fw.stopCh = make(chan struct{})
	fw.doneCh = make(chan struct{})
	go fw.watchLoop()
}

// Stop ends the watch goroutine and releases the watcher.
func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
	<-fw.doneCh
	fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop() {
	defer close(fw.doneCh)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	var mu sync.Mutex
	pending := make(map[string]bool)

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			mu.Lock()
			pending[filepath.Clean(event.Name)] = true
			mu.Unlock()
			debounce.Reset(fw.debounce)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watch: watcher error:", err)

		case <-debounce.C:
			mu.Lock()
			var paths []string
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]bool)
			mu.Unlock()

			if len(paths) > 0 && fw.onChange != nil {
				fw.onChange(paths)
			}
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return fw.files[abs]
}
