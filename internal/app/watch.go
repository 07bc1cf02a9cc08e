package app

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

const reloadDebounce = 200 * time.Millisecond

// FileWatcher calls onChange after the watched file was written or
// replaced. Bursts of events inside the debounce window collapse into one
// call.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func()

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	timer *time.Timer
}

// WatchFile starts watching path. The parent directory is watched so
// editors that save by rename-and-replace are still seen.
func WatchFile(path string, debounce time.Duration, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}
	go fw.watchLoop()
	log.Debugf("watching %s", abs)
	return fw, nil
}

func (fw *FileWatcher) watchLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.schedule()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("watcher: %s", err)
		}
	}
}

func (fw *FileWatcher) schedule() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		select {
		case <-fw.stopChan:
			return
		default:
		}
		fw.onChange()
	})
}

// Stop ends watching. Pending notifications are dropped.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopChan)
		fw.mu.Lock()
		if fw.timer != nil {
			fw.timer.Stop()
		}
		fw.mu.Unlock()
		fw.watcher.Close()
	})
}
