package editorconfig

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher notices edits to the config file so the editor can apply them live.
// It watches the file's directory, since many editors save by replacing the file.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path. The directory must exist.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{w: w, path: abs}, nil
}

// Poll drains pending file events without blocking. When the config file was written
// or replaced since the last call it reloads it and reports changed. Call once per frame.
func (w *Watcher) Poll() (p Prefs, changed bool, err error) {
	dirty := false
drain:
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				break drain
			}
			if filepath.Clean(ev.Name) == w.path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				dirty = true
			}
		case werr, ok := <-w.w.Errors:
			if !ok {
				break drain
			}
			if werr != nil {
				return Prefs{}, false, werr
			}
		default:
			break drain
		}
	}
	if !dirty {
		return Prefs{}, false, nil
	}
	p, err = Load(w.path)
	return p, err == nil, err
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

func (w *Watcher) Close() error { return w.w.Close() }
