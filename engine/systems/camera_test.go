package systems

import (
	"bytes"
	"os"
	"testing"

	"github.com/spaghettifunk/textgem/engine/components"
	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rigConfig() *components.CameraRigConfig {
	cfg := components.DefaultCameraRigConfig()
	cfg.ZoomOffsets = []math.Vec3{math.NewVec3(100, 30, 0), math.NewVec3(1000, 4000, 0)}
	return cfg
}

func newCameraSystem(t *testing.T) *CameraSystem {
	t.Helper()
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxRigCount: 2,
		HistorySize: 4,
		DefaultRig:  rigConfig(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Shutdown() })
	return cs
}

func newTestRig(t *testing.T) *components.CameraRig {
	t.Helper()
	rig, err := components.NewCameraRig(rigConfig())
	require.NoError(t, err)
	return rig
}

func withInput(t *testing.T) {
	t.Helper()
	require.NoError(t, core.InputInitialize())
	t.Cleanup(func() { _ = core.InputShutdown() })
}

func TestNewCameraSystemValidation(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	cs, err := NewCameraSystem(&CameraSystemConfig{MaxRigCount: 1})
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_HISTORY_SIZE, cs.Config.HistorySize)
	assert.NotNil(t, cs.Config.Bindings)
	assert.Same(t, cs.DefaultRig, cs.Active())
}

func TestCameraSystemRegisterAcquireRelease(t *testing.T) {
	cs := newCameraSystem(t)
	rig := newTestRig(t)

	id, err := cs.Register("overview", rig)
	require.NoError(t, err)
	assert.True(t, id.IsValid())
	got, ok := cs.Handle("overview")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, err = cs.Register("overview", rig)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = cs.Register(components.DEFAULT_CAMERA_RIG_NAME, rig)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	acquired, err := cs.Acquire("overview")
	require.NoError(t, err)
	assert.Same(t, rig, acquired)

	_, err = cs.Acquire("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Two references: register plus acquire.
	require.NoError(t, cs.Release("overview"))
	_, ok = cs.Handle("overview")
	assert.True(t, ok)
	require.NoError(t, cs.Release("overview"))
	_, ok = cs.Handle("overview")
	assert.False(t, ok)
	_, ok = core.IdentifierOwner(id)
	assert.False(t, ok, "handle released with the rig")

	assert.ErrorIs(t, cs.Release("overview"), core.ErrNotFound)
	assert.NoError(t, cs.Release(components.DEFAULT_CAMERA_RIG_NAME))
}

func TestCameraSystemCapacity(t *testing.T) {
	cs := newCameraSystem(t)
	_, err := cs.Register("a", newTestRig(t))
	require.NoError(t, err)
	_, err = cs.Register("b", newTestRig(t))
	require.NoError(t, err)
	_, err = cs.Register("c", newTestRig(t))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestCameraSystemLogsRigNameVerbatim(t *testing.T) {
	var buf bytes.Buffer
	core.LogSetOutput(&buf)
	defer core.LogSetOutput(os.Stderr)

	cs := newCameraSystem(t)
	_, err := cs.Register("50%off", newTestRig(t))
	require.NoError(t, err)
	_, err = cs.Register("50%off", newTestRig(t))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, buf.String(), "rig '50%off' already registered")
	assert.NotContains(t, buf.String(), "%!")
}

func TestCameraSystemActive(t *testing.T) {
	cs := newCameraSystem(t)
	rig := newTestRig(t)
	_, err := cs.Register("close-up", rig)
	require.NoError(t, err)

	assert.ErrorIs(t, cs.SetActive("missing"), core.ErrNotFound)
	require.NoError(t, cs.SetActive("close-up"))
	assert.Same(t, rig, cs.Active())
	assert.Equal(t, "close-up", cs.ActiveName())

	require.NoError(t, cs.Release("close-up"))
	assert.Same(t, cs.GetDefault(), cs.Active(), "released active rig falls back to default")
	assert.Equal(t, components.DEFAULT_CAMERA_RIG_NAME, cs.ActiveName())
}

func TestKeyBindingsHeld(t *testing.T) {
	withInput(t)
	kb := DefaultKeyBindings()
	assert.Equal(t, components.RigAction(0), kb.Held())

	require.NoError(t, core.InputProcessKey(core.KEY_UP, true))
	require.NoError(t, core.InputProcessKey(core.KEY_E, true))
	require.NoError(t, core.InputProcessKey(core.KEY_SUBTRACT, true))
	assert.Equal(t,
		components.RigActionForward|components.RigActionRotateRight|components.RigActionZoomOut,
		kb.Held())
}

func TestCameraSystemUpdateDrivesActiveRig(t *testing.T) {
	withInput(t)
	cs := newCameraSystem(t)

	require.NoError(t, core.InputProcessKey(core.KEY_MINUS, true))
	require.NoError(t, core.InputProcessMouseWheel(-1))

	pose, err := cs.Update(0.5)
	require.NoError(t, err)
	// The zoom-out key overrides the scroll direction.
	assert.InDelta(t, 0.05, cs.Active().ZoomLevel(), 1e-6)
	assert.Equal(t, cs.Active().Pose(), pose)

	history := cs.History()
	require.Len(t, history, 1)
	assert.Equal(t, float32(-1), history[0].ScrollDelta)
	assert.Equal(t, components.RigActionZoomOut, history[0].Held)
	assert.Equal(t, 0.5, history[0].DeltaTime)

	// Scroll is consumed once.
	require.NoError(t, core.InputProcessKey(core.KEY_MINUS, false))
	_, err = cs.Update(0.5)
	require.NoError(t, err)
	assert.Equal(t, float32(0), cs.History()[1].ScrollDelta)
}

func TestCameraSystemUpdateRejectsBadFrame(t *testing.T) {
	withInput(t)
	cs := newCameraSystem(t)
	_, err := cs.Update(-1)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, cs.History())
}

func TestCameraSystemHistoryBounded(t *testing.T) {
	withInput(t)
	cs := newCameraSystem(t)
	for i := 0; i < 10; i++ {
		_, err := cs.Update(float64(i) * 0.01)
		require.NoError(t, err)
	}
	history := cs.History()
	require.Len(t, history, 4)
	assert.InDelta(t, 0.06, history[0].DeltaTime, 1e-9)
	assert.InDelta(t, 0.09, history[3].DeltaTime, 1e-9)
}

func TestReplayReproducesPose(t *testing.T) {
	withInput(t)
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxRigCount: 1, DefaultRig: rigConfig()})
	require.NoError(t, err)

	frames := []struct {
		keys   []core.KeyCode
		scroll float32
		dt     float64
	}{
		{[]core.KeyCode{core.KEY_W}, 0, 0.016},
		{[]core.KeyCode{core.KEY_W, core.KEY_Q}, 2, 0.033},
		{[]core.KeyCode{core.KEY_D}, 0, 0.25},
		{nil, -1, 0.016},
		{[]core.KeyCode{core.KEY_EQUAL, core.KEY_A}, 0, 0.1},
	}
	var last components.Pose
	for _, f := range frames {
		for _, k := range f.keys {
			require.NoError(t, core.InputProcessKey(k, true))
		}
		require.NoError(t, core.InputProcessMouseWheel(f.scroll))
		last, err = cs.Update(f.dt)
		require.NoError(t, err)
		for _, k := range f.keys {
			require.NoError(t, core.InputProcessKey(k, false))
		}
	}

	replayed, err := Replay(newTestRig(t), cs.History())
	require.NoError(t, err)
	assert.Equal(t, last, replayed)
}

func TestReplayReportsFrame(t *testing.T) {
	inputs := []components.FrameInput{{DeltaTime: 0.1}, {DeltaTime: -1}}
	_, err := Replay(newTestRig(t), inputs)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "replay frame 1")
}
