// Package filewatcher contains a file watcher.
package filewatcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	minInterval    = 1 * time.Second
	additionalWait = 10 * time.Millisecond
)

// FileWatcher notifies changes of a file.
// Events that happen less than a second after the previous notification are merged.
type FileWatcher struct {
	FilePath string

	inner        *fsnotify.Watcher
	absolutePath string

	// in
	terminate chan struct{}

	// out
	signal chan struct{}
	done   chan struct{}
}

// Initialize initializes a FileWatcher.
func (w *FileWatcher) Initialize() error {
	if _, err := os.Stat(w.FilePath); err != nil {
		return err
	}

	var err error
	w.inner, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// watch the parent directory, in order to detect files
	// that are replaced by rename.
	w.absolutePath, _ = filepath.Abs(w.FilePath)

	err = w.inner.Add(filepath.Dir(w.absolutePath))
	if err != nil {
		w.inner.Close() //nolint:errcheck
		return err
	}

	w.terminate = make(chan struct{})
	w.signal = make(chan struct{})
	w.done = make(chan struct{})

	go w.run()

	return nil
}

// Close closes a FileWatcher.
func (w *FileWatcher) Close() {
	close(w.terminate)
	<-w.done
}

func (w *FileWatcher) isRelevant(event fsnotify.Event) bool {
	if (event.Op&fsnotify.Write) != fsnotify.Write &&
		(event.Op&fsnotify.Create) != fsnotify.Create &&
		(event.Op&fsnotify.Rename) != fsnotify.Rename {
		return false
	}

	eventPath, _ := filepath.Abs(event.Name)
	if eventPath == w.absolutePath {
		return true
	}

	// symlinks
	resolvedEvent, _ := filepath.EvalSymlinks(eventPath)
	resolvedWatched, _ := filepath.EvalSymlinks(w.absolutePath)
	return resolvedWatched != "" && resolvedEvent == resolvedWatched
}

func (w *FileWatcher) run() {
	defer close(w.done)

	var lastCalled time.Time

outer:
	for {
		select {
		case event := <-w.inner.Events:
			if !w.isRelevant(event) || time.Since(lastCalled) < minInterval {
				continue
			}

			// the file may have been removed and not yet recreated
			if _, err := os.Stat(w.absolutePath); err != nil {
				continue
			}

			// wait some additional time to allow the writer to complete its job
			time.Sleep(additionalWait)
			lastCalled = time.Now()

			select {
			case w.signal <- struct{}{}:
			case <-w.terminate:
				break outer
			}

		case <-w.inner.Errors:
			break outer

		case <-w.terminate:
			break outer
		}
	}

	close(w.signal)
	w.inner.Close() //nolint:errcheck
}

// Watch returns a channel that is called after the file has changed.
func (w *FileWatcher) Watch() chan struct{} {
	return w.signal
}
