package engine

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/textgem/engine/components"
	"github.com/spaghettifunk/textgem/engine/config"
	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
	"github.com/spaghettifunk/textgem/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	frames   int
	pumps    int
	now      float64
	started  bool
	shutdown bool
	onPump   func(pump int)
	slept    []float64
}

func (p *fakePlatform) Startup(name string, x, y int32, width, height uint32) error {
	p.started = true
	return nil
}

func (p *fakePlatform) Shutdown() error {
	p.shutdown = true
	return nil
}

func (p *fakePlatform) PumpMessages() bool {
	p.pumps++
	if p.onPump != nil {
		p.onPump(p.pumps)
	}
	return p.pumps <= p.frames
}

func (p *fakePlatform) GetAbsoluteTime() float64 {
	p.now += 0.001
	return p.now
}

func (p *fakePlatform) Sleep(ms float64) {
	p.slept = append(p.slept, ms)
}

type recorder struct {
	booted, initialized, shutdown bool
	updates                       []float64
	resizes                       [][2]uint32
	failAt                        int
}

func newGame(r *recorder) *Game {
	rig := components.DefaultCameraRigConfig()
	rig.ZoomOffsets = []math.Vec3{math.NewVec3(1, 1, 0), math.NewVec3(10, 10, 0)}
	return &Game{
		ApplicationConfig: NewApplicationConfig(config.Default()),
		SystemConfig: &systems.SystemManagerConfig{
			MaxRigCount:      1,
			MaxGeometryCount: 4,
			DefaultRig:       rig,
			JobWorkers:       1,
		},
		FnBoot:       func() error { r.booted = true; return nil },
		FnInitialize: func() error { r.initialized = true; return nil },
		FnUpdate: func(dt float64) error {
			r.updates = append(r.updates, dt)
			if r.failAt > 0 && len(r.updates) == r.failAt {
				return errors.New("boom")
			}
			return nil
		},
		FnOnResize: func(w, h uint32) error { r.resizes = append(r.resizes, [2]uint32{w, h}); return nil },
		FnShutdown: func() error { r.shutdown = true; return nil },
	}
}

func startEngine(t *testing.T, g *Game, p *fakePlatform) *Engine {
	t.Helper()
	e, err := New(g, p)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() {
		if e.Stage() != EngineStageShuttingDown {
			_ = e.Shutdown()
		}
	})
	return e
}

func TestNewValidatesGame(t *testing.T) {
	_, err := New(nil, &fakePlatform{})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	g := newGame(&recorder{})
	g.FnUpdate = nil
	_, err = New(g, &fakePlatform{})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestEngineLifecycle(t *testing.T) {
	r := &recorder{}
	g := newGame(r)
	p := &fakePlatform{frames: 5}
	e := startEngine(t, g, p)

	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.True(t, r.booted)
	assert.True(t, r.initialized)
	assert.True(t, p.started)
	assert.NotNil(t, g.SystemManager)
	assert.Equal(t, [][2]uint32{{1280, 720}}, r.resizes)

	require.NoError(t, e.Run())
	require.Len(t, r.updates, 5)
	for _, dt := range r.updates {
		assert.GreaterOrEqual(t, dt, 0.0)
	}
	assert.Error(t, e.Initialize(), "initialize only once")

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShuttingDown, e.Stage())
	assert.True(t, r.shutdown)
	assert.True(t, p.shutdown)
}

func TestEscapeQuits(t *testing.T) {
	r := &recorder{}
	p := &fakePlatform{frames: 100}
	p.onPump = func(pump int) {
		if pump == 3 {
			_ = core.InputProcessKey(core.KEY_ESCAPE, true)
		}
	}
	e := startEngine(t, newGame(r), p)

	require.NoError(t, e.Run())
	assert.Len(t, r.updates, 3, "the frame in which escape arrives still runs")
}

func TestUpdateErrorStopsLoop(t *testing.T) {
	r := &recorder{failAt: 2}
	e := startEngine(t, newGame(r), &fakePlatform{frames: 100})
	assert.EqualError(t, e.Run(), "boom")
	assert.Len(t, r.updates, 2)
}

func TestMinimizeSuspends(t *testing.T) {
	r := &recorder{}
	p := &fakePlatform{frames: 6}
	p.onPump = func(pump int) {
		switch pump {
		case 2:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{}})
		case 4:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{WindowWidth: 800, WindowHeight: 600}})
		}
	}
	e := startEngine(t, newGame(r), p)

	require.NoError(t, e.Run())
	// Frames 2 and 3 are skipped while minimized.
	assert.Len(t, r.updates, 4)
	assert.Equal(t, [][2]uint32{{1280, 720}, {800, 600}}, r.resizes)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
}

func TestLimitFramesSleeps(t *testing.T) {
	g := newGame(&recorder{})
	g.ApplicationConfig.LimitFrames = true
	g.ApplicationConfig.TargetFPS = 10
	p := &fakePlatform{frames: 2}
	e := startEngine(t, g, p)

	require.NoError(t, e.Run())
	require.Len(t, p.slept, 2)
	assert.InDelta(t, 98, p.slept[0], 1e-6)
}
