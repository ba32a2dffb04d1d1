package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/textgem/engine/core"
)

// Watcher reloads a configuration file when it changes on disk and fires
// core.EVENT_CODE_CONFIG_RELOADED with the new *Config. Files that fail to
// parse are logged and skipped; the previous configuration stays in effect.
type Watcher struct {
	path string

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	isClosed bool
	done     chan struct{}
	wg       sync.WaitGroup
	last     []byte
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Seed with the current content so the first event only fires on a change.
	last, _ := os.ReadFile(abs)
	return &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		last:     last,
	}, nil
}

// Start watches the directory holding the file. Editors often replace the
// file instead of writing it, which a watch on the file itself would miss.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("config watcher already closed")
	}
	if err := w.fsnotify.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.start()
	core.LogDebug("Watching '%s' for changes.", w.path)
	return nil
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return nil
	}
	w.isClosed = true
	close(w.done)
	w.mutex.Unlock()

	w.wg.Wait()
	return w.fsnotify.Close()
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.reload()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		core.LogWarn("config reload: %s", err)
		return
	}
	// One save can produce several events, the first of them on a truncated file.
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, w.last) {
		return
	}
	w.last = data

	cfg, err := Parse(data)
	if err != nil {
		core.LogError("config reload '%s': %s", w.path, err)
		return
	}
	core.LogInfo("Configuration '%s' reloaded.", w.path)
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_CONFIG_RELOADED,
		Data: cfg,
	})
}
