package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceFile writes the content next to path and renames it into place so
// the watcher never sees a partial file.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcherFiresReload(t *testing.T) {
	require.True(t, core.EventSystemInitialize())
	reloaded := make(chan *Config, 4)
	listener := &struct{ name string }{"watcher-test"}
	require.True(t, core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, listener, func(ctx core.EventContext) bool {
		reloaded <- ctx.Data.(*Config)
		return true
	}))
	t.Cleanup(func() { core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, listener) })

	path := filepath.Join(t.TempDir(), "camera.toml")
	replaceFile(t, path, "[camera]\npan_speed = 10.0\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { assert.NoError(t, w.Close()) })

	// A document that fails validation is skipped.
	replaceFile(t, path, "[camera]\npan_speed = -10.0\n")
	replaceFile(t, path, "[camera]\npan_speed = 20.0\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, float32(20), cfg.Camera.PanSpeed)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.toml")
	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Error(t, w.Start())
}
