package testbed

import (
	"sync"

	"github.com/spaghettifunk/textgem/engine"
	"github.com/spaghettifunk/textgem/engine/components"
	"github.com/spaghettifunk/textgem/engine/config"
	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
	"github.com/spaghettifunk/textgem/engine/systems"
	"golang.org/x/image/math/f32"
)

// The rig TAB switches to, looking nearly straight down on the scene.
const OVERHEAD_RIG_NAME string = "overhead"

// How often the pose is logged, in seconds.
const poseLogInterval float64 = 1.0

type TestGame struct {
	*engine.Game
	configPath string
}

type gameState struct {
	width  uint32
	height uint32

	config  *config.Config
	watcher *config.Watcher
	// The host camera the rig pose is applied to.
	camera *math.Transform
	// View matrix handed to the renderer each frame.
	view f32.Mat4

	// Geometries arrive from job workers.
	mu         sync.Mutex
	geometries []*systems.Geometry
	pending    *config.Config

	sinceLog float64
}

func NewTestGame(cfg *config.Config, configPath string) (*TestGame, error) {
	smc, err := cfg.SystemManagerConfig()
	if err != nil {
		return nil, err
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: engine.NewApplicationConfig(cfg),
			SystemConfig:      smc,
			State: &gameState{
				config: cfg,
				camera: math.TransformCreate(),
			},
		},
		configPath: configPath,
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	state := g.State.(*gameState)

	if g.configPath == "" {
		return nil
	}
	w, err := config.NewWatcher(g.configPath)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	state.watcher = w
	return nil
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.State.(*gameState)

	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, g, g.gameOnEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g, g.gameOnKey)

	// The default rig comes from the config. The overhead rig keeps a small
	// horizontal offset so panning still has a direction.
	overhead := state.config.RigConfig()
	overhead.ZoomOffsets = []math.Vec3{math.NewVec3(1, 100, 0), math.NewVec3(40, 4000, 0)}
	rig, err := components.NewCameraRig(overhead)
	if err != nil {
		return err
	}
	if _, err := g.SystemManager.CameraSystem().Register(OVERHEAD_RIG_NAME, rig); err != nil {
		return err
	}

	scene := state.config.Scene
	generators := map[string]func() *systems.GeometryConfig{
		"grid": func() *systems.GeometryConfig {
			return systems.GenerateGridPlaneConfig(scene.GridSize, scene.GridSubdivisions, "grid")
		},
		"bounds_box": func() *systems.GeometryConfig {
			size := math.NewVec3(scene.BoxSize[0], scene.BoxSize[1], scene.BoxSize[2])
			return systems.GenerateGridBoxConfig(size, scene.BoxSubdivisions, "bounds_box")
		},
		"sprite": func() *systems.GeometryConfig {
			return systems.GenerateQuadSpriteConfig(math.NewVec2(scene.SpriteSize[0], scene.SpriteSize[1]), false, "sprite")
		},
	}
	for name, generate := range generators {
		generate := generate
		err := g.SystemManager.JobSystem().Submit(systems.JobTask{
			Name: name,
			Run: func() (interface{}, error) {
				return generate(), nil
			},
			OnComplete: g.onGeometryGenerated,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *TestGame) onGeometryGenerated(result interface{}) {
	state := g.State.(*gameState)
	geometry, err := g.SystemManager.GeometrySystem().AcquireFromConfig(result.(*systems.GeometryConfig), true)
	if err != nil {
		core.LogError("%s", err)
		return
	}
	state.mu.Lock()
	state.geometries = append(state.geometries, geometry)
	state.mu.Unlock()
	core.LogInfo("Geometry '%s' ready: extents %v to %v.", geometry.Name, geometry.Extents.Min, geometry.Extents.Max)
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	cs := g.SystemManager.CameraSystem()

	state.mu.Lock()
	pending := state.pending
	state.pending = nil
	state.mu.Unlock()
	if pending != nil {
		if err := g.applyConfig(pending); err != nil {
			core.LogError("config reload rejected: %s", err)
		}
	}

	pose, err := cs.Update(deltaTime)
	if err != nil {
		return err
	}
	pose.Apply(state.camera)
	state.view = state.camera.GetView().ToF32()

	state.sinceLog += deltaTime
	if state.sinceLog >= poseLogInterval {
		state.sinceLog = 0
		fps, frameTime := core.MetricsFrame()
		forward := pose.Forward()
		core.LogInfo(
			"FPS: %5.1f(%4.1fms) Rig=%s Pos=[%7.1f %7.1f %7.1f] Fwd=[%5.2f %5.2f %5.2f] Zoom=%.2f",
			fps, frameTime,
			cs.ActiveName(),
			pose.Position.X, pose.Position.Y, pose.Position.Z,
			forward.X, forward.Y, forward.Z,
			cs.Active().ZoomLevel(),
		)
	}
	return nil
}

// applyConfig carries a reloaded configuration over to the default rig
// without resetting where it is looking. Nothing is applied unless the whole
// configuration checks out.
func (g *TestGame) applyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	bindings, err := cfg.Camera.KeyBindings()
	if err != nil {
		return err
	}
	staged, err := components.NewCameraRig(cfg.RigConfig())
	if err != nil {
		return err
	}

	cs := g.SystemManager.CameraSystem()
	rig := cs.GetDefault()
	zoomSpeed, rotationSpeed, panSpeed := staged.Speeds()
	if err := rig.SetZoomOffsets(staged.ZoomOffsets()); err != nil {
		return err
	}
	if err := rig.SetUp(staged.Up()); err != nil {
		return err
	}
	if err := rig.SetBounds(staged.Bounds()); err != nil {
		return err
	}
	if err := rig.SetSpeeds(zoomSpeed, rotationSpeed, panSpeed); err != nil {
		return err
	}
	cs.Config.Bindings = bindings
	core.LogSetLevel(cfg.LogLevel())

	state := g.State.(*gameState)
	state.config = cfg
	core.LogInfo("Camera configuration applied.")
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)

	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)

	core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, g)
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, g)

	if state.watcher != nil {
		if err := state.watcher.Close(); err != nil {
			core.LogWarn("%s", err)
		}
	}

	state.mu.Lock()
	geometries := state.geometries
	state.geometries = nil
	state.mu.Unlock()
	for _, geometry := range geometries {
		g.SystemManager.GeometrySystem().Release(geometry)
	}
	return nil
}

// gameOnEvent runs on the watcher goroutine; the config is handed to the next Update.
func (g *TestGame) gameOnEvent(context core.EventContext) bool {
	state := g.State.(*gameState)
	if context.Type == core.EVENT_CODE_CONFIG_RELOADED {
		cfg, ok := context.Data.(*config.Config)
		if !ok {
			core.LogError("wrong event associated with the event type `%d`", context.Type)
			return false
		}
		state.mu.Lock()
		state.pending = cfg
		state.mu.Unlock()
	}
	return false
}

func (g *TestGame) gameOnKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	cs := g.SystemManager.CameraSystem()

	switch ke.KeyCode {
	case core.KEY_TAB:
		next := OVERHEAD_RIG_NAME
		if cs.ActiveName() == OVERHEAD_RIG_NAME {
			next = components.DEFAULT_CAMERA_RIG_NAME
		}
		if err := cs.SetActive(next); err != nil {
			core.LogError("%s", err)
			return false
		}
		core.LogInfo("Switched to camera rig '%s'.", next)
		return true
	case core.KEY_P:
		pose := cs.Active().Pose()
		core.LogInfo("Pos:[%.2f, %.2f, %.2f] LookAt:%v", pose.Position.X, pose.Position.Y, pose.Position.Z, cs.Active().LookAt())
		return true
	}
	return false
}
