// Package tune overlays cvar values from a yaml file and optionally
// reapplies them when the file changes on disk.
package tune

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"stride/cvar"
	"stride/simlog"
)

// Load reads a yaml mapping of cvar names to values and applies it in
// name order. Unknown names are logged and skipped. Values may be
// strings, numbers or bools; bools become the truth strings "1"/"0".
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read tune file")
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrapf(err, "parse tune file %s", path)
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !cvar.SetByName(name, stringify(raw[name])) {
			simlog.Printf("tune: unknown cvar %q in %s", name, path)
		}
	}
	return nil
}

func stringify(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "1"
		}
		return "0"
	}
	return fmt.Sprint(v)
}

// Watch runs Load(path) each time the file is rewritten and hands the
// result to onReload. It watches the parent directory so editors that
// replace the file instead of writing it are still seen. Watch does
// not perform an initial load.
func Watch(path string, onReload func(error)) (io.Closer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve tune path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "tune watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	if onReload == nil {
		onReload = func(error) {}
	}
	w := &watcher{fw: fw, done: make(chan struct{})}
	go w.run(abs, onReload)
	return w, nil
}

type watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}

func (w *watcher) run(path string, onReload func(error)) {
	var last time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < 50*time.Millisecond {
				continue
			}
			last = now
			onReload(Load(path))
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			simlog.Printf("tune: watch error: %v", err)
		case <-w.done:
			return
		}
	}
}
