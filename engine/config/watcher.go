package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/lume/engine/core"
)

// Watcher re-reads the config file whenever it changes on disk and
// delivers the fresh configuration on C. Reload failures are logged and
// skipped; the previous configuration stays in effect.
type Watcher struct {
	C chan *Config

	path     string
	fsnotify *fsnotify.Watcher
	done     chan struct{}
}

// Watch starts watching path. The watch is on the directory, not the
// file: editors replace files on save and a file watch dies with the
// original inode.
func Watch(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		C:        make(chan *Config, 1),
		path:     path,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogWarn("config watcher: %s", err)
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				core.LogWarn("config reload skipped: %s", err)
				continue
			}
			// drop the stale pending config, if any
			select {
			case <-w.C:
			default:
			}
			w.C <- cfg
			core.LogInfo("config reloaded from %s", w.path)
		}
	}
}

// Close stops the watcher. C is not closed; pending values may be read.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsnotify.Close()
}
