package codebase

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reparses source files under the root directory when they
// change on disk.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	// OnChange, if set, is called after a path was reparsed or removed.
	OnChange func(path string)
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Add watches path. Directories are watched recursively, skipping hidden
// directories and node_modules.
func (w *FileWatcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if p != path && skipDir(info.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *FileWatcher) Start() {
	w.started = true
	go w.run()
}

// Stop closes the watcher and waits for the event loop, if one was started.
func (w *FileWatcher) Stop() error {
	close(w.stopCh)
	err := w.watcher.Close()
	if w.started {
		<-w.doneCh
	}
	return err
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("watch: %s", err)
		}
	}
}

// handle reacts to one event. Event names are cleaned so a file under a
// watch on "." is reported as "a.js", not "./a.js".
func (w *FileWatcher) handle(ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.Add(name); err != nil {
				log.Warningf("watch %s: %s", name, err)
			}
			return
		}
	}
	if !IsSource(name) {
		return
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.codebase.RemoveFile(name)
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		if err := w.codebase.ScanFile(name); err != nil {
			log.Warningf("rescan %s: %s", name, err)
			return
		}
	default:
		return
	}
	log.Debugf("%s: %s", ev.Op, name)
	if w.OnChange != nil {
		w.OnChange(name)
	}
}
