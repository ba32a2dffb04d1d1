package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/textgem/engine/components"
	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
	"github.com/spaghettifunk/textgem/engine/systems"
)

/** @brief The file the testbed reads when no path is given. */
const DEFAULT_CONFIG_PATH string = "assets/camera.toml"

type Config struct {
	Log    LogConfig    `toml:"log"`
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Scene  SceneConfig  `toml:"scene"`
}

type LogConfig struct {
	// One of debug, info, warn, error, fatal.
	Level string `toml:"level"`
}

type WindowConfig struct {
	Name   string `toml:"name"`
	X      int32  `toml:"x"`
	Y      int32  `toml:"y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

// BoundsConfig keeps the look-at point inside [Min, Max].
type BoundsConfig struct {
	Min [3]float32 `toml:"min"`
	Max [3]float32 `toml:"max"`
}

// ZoomCurveConfig samples the zoom offset curve linearly from Near to Far.
type ZoomCurveConfig struct {
	Near  [3]float32 `toml:"near"`
	Far   [3]float32 `toml:"far"`
	Steps int        `toml:"steps"`
}

type CameraConfig struct {
	Up     [3]float32   `toml:"up"`
	LookAt [3]float32   `toml:"look_at"`
	Bounds BoundsConfig `toml:"bounds"`
	// Unbounded ignores Bounds and lets the look-at point go anywhere.
	Unbounded       bool            `toml:"unbounded"`
	RotationDegrees float32         `toml:"rotation_degrees"`
	ZoomLevel       float32         `toml:"zoom_level"`
	ZoomSpeed       float32         `toml:"zoom_speed"`
	RotationSpeed   float32         `toml:"rotation_speed"`
	PanSpeed        float32         `toml:"pan_speed"`
	HistorySize     int             `toml:"history_size"`
	ZoomCurve       ZoomCurveConfig `toml:"zoom_curve"`
	// Action name (zoom-in, forward, ...) to key names. Actions left out keep
	// their default keys.
	Bindings map[string][]string `toml:"bindings"`
}

type SceneConfig struct {
	GridSize         float32    `toml:"grid_size"`
	GridSubdivisions uint32     `toml:"grid_subdivisions"`
	BoxSize          [3]float32 `toml:"box_size"`
	BoxSubdivisions  [3]uint32  `toml:"box_subdivisions"`
	SpriteSize       [2]float32 `toml:"sprite_size"`
}

// Default returns the configuration of the bounded grid box scene.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Window: WindowConfig{
			Name:   "Textgem Testbed",
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Up:     [3]float32{0, 1, 0},
			LookAt: [3]float32{0, 0, 0},
			Bounds: BoundsConfig{
				Min: [3]float32{-3000, 15, -3000},
				Max: [3]float32{3000, 4000, 3000},
			},
			RotationDegrees: -45,
			ZoomSpeed:       components.DEFAULT_ZOOM_SPEED,
			RotationSpeed:   components.DEFAULT_ROTATION_SPEED,
			PanSpeed:        components.DEFAULT_PAN_SPEED,
			HistorySize:     systems.DEFAULT_HISTORY_SIZE,
			ZoomCurve: ZoomCurveConfig{
				Near:  [3]float32{100, 30, 0},
				Far:   [3]float32{1000, 4000, 0},
				Steps: 300,
			},
		},
		Scene: SceneConfig{
			GridSize:         200,
			GridSubdivisions: 10,
			BoxSize:          [3]float32{3000, 200, 1000},
			BoxSubdivisions:  [3]uint32{10, 5, 10},
			SpriteSize:       [2]float32{250, 250},
		},
	}
}

/**
 * @brief Reads and validates the configuration file at path. Keys missing
 * from the file keep their Default values.
 */
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}

/**
 * @brief Decodes a TOML document on top of Default and validates it.
 * Unknown keys are rejected.
 */
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d column %d: %s: %w", row, col, derr.Error(), core.ErrConfiguration)
		}
		return nil, fmt.Errorf("%s: %w", err.Error(), core.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), core.ErrConfiguration)
}

func vec3(a [3]float32) math.Vec3 {
	return math.NewVec3(a[0], a[1], a[2])
}

func finite(values ...float32) bool {
	for _, v := range values {
		if !math.IsFinite(float64(v)) {
			return false
		}
	}
	return true
}

// Validate reports the first setting the engine cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return invalid("window size %dx%d must be non-zero", c.Window.Width, c.Window.Height)
	}
	if _, err := core.LookupLogLevel(c.Log.Level); err != nil {
		return invalid("log level %q must be one of debug, info, warn, error, fatal", c.Log.Level)
	}

	cam := &c.Camera
	if !finite(cam.Up[:]...) || vec3(cam.Up).LengthSquared() == 0 {
		return invalid("camera up %v must be a finite non-zero vector", cam.Up)
	}
	if !finite(cam.LookAt[:]...) {
		return invalid("camera look_at %v must be finite", cam.LookAt)
	}
	if !cam.Unbounded {
		if !finite(cam.Bounds.Min[:]...) || !finite(cam.Bounds.Max[:]...) {
			return invalid("camera bounds must be finite")
		}
		for i := 0; i < 3; i++ {
			if cam.Bounds.Min[i] > cam.Bounds.Max[i] {
				return invalid("camera bounds min %v exceeds max %v", cam.Bounds.Min, cam.Bounds.Max)
			}
		}
	}
	if !finite(cam.RotationDegrees, cam.ZoomLevel, cam.ZoomSpeed, cam.RotationSpeed, cam.PanSpeed) {
		return invalid("camera rotation, zoom and speeds must be finite")
	}
	if cam.ZoomLevel < 0 || cam.ZoomLevel > 1 {
		return invalid("camera zoom_level %v must be within [0, 1]", cam.ZoomLevel)
	}
	if cam.ZoomSpeed < 0 || cam.RotationSpeed < 0 || cam.PanSpeed < 0 {
		return invalid("camera speeds must not be negative")
	}
	if cam.HistorySize < 0 {
		return invalid("camera history_size %d must not be negative", cam.HistorySize)
	}
	if cam.ZoomCurve.Steps < 2 {
		return invalid("camera zoom_curve steps %d must be at least 2", cam.ZoomCurve.Steps)
	}
	if !finite(cam.ZoomCurve.Near[:]...) || !finite(cam.ZoomCurve.Far[:]...) {
		return invalid("camera zoom_curve must be finite")
	}
	if _, err := cam.KeyBindings(); err != nil {
		return err
	}

	if c.Scene.GridSize <= 0 || !finite(c.Scene.GridSize) {
		return invalid("scene grid_size %v must be positive", c.Scene.GridSize)
	}
	sizes := []float32{c.Scene.BoxSize[0], c.Scene.BoxSize[1], c.Scene.BoxSize[2], c.Scene.SpriteSize[0], c.Scene.SpriteSize[1]}
	for _, s := range sizes {
		if s <= 0 || !finite(s) {
			return invalid("scene sizes must be positive")
		}
	}
	return nil
}

/**
 * @brief Samples the zoom offset curve from Near to Far, both included.
 */
func (c *CameraConfig) ZoomOffsets() []math.Vec3 {
	steps := c.ZoomCurve.Steps
	if steps < 2 {
		steps = 2
	}
	near, far := vec3(c.ZoomCurve.Near), vec3(c.ZoomCurve.Far)
	curve := make([]math.Vec3, steps)
	for i := range curve {
		curve[i] = near.Lerp(far, float32(i)/float32(steps-1))
	}
	return curve
}

// KeyBindings resolves the configured bindings on top of the defaults.
func (c *CameraConfig) KeyBindings() (systems.KeyBindings, error) {
	bindings := systems.DefaultKeyBindings()
	for name, keys := range c.Bindings {
		action, err := components.ParseRigAction(name)
		if err != nil {
			return nil, fmt.Errorf("camera bindings: %s: %w", err.Error(), core.ErrConfiguration)
		}
		codes := make([]core.KeyCode, 0, len(keys))
		for _, key := range keys {
			code, err := core.KeyCodeFromName(key)
			if err != nil {
				return nil, fmt.Errorf("camera bindings '%s': %s: %w", name, err.Error(), core.ErrConfiguration)
			}
			codes = append(codes, code)
		}
		bindings[action] = codes
	}
	return bindings, nil
}

// RigConfig builds the camera rig configuration, zoom curve included.
func (c *Config) RigConfig() *components.CameraRigConfig {
	cam := &c.Camera
	rc := &components.CameraRigConfig{
		Up:            vec3(cam.Up),
		LookAt:        vec3(cam.LookAt),
		Rotation:      math.DegToRad(cam.RotationDegrees),
		ZoomLevel:     cam.ZoomLevel,
		ZoomSpeed:     cam.ZoomSpeed,
		RotationSpeed: cam.RotationSpeed,
		PanSpeed:      cam.PanSpeed,
		ZoomOffsets:   cam.ZoomOffsets(),
	}
	if !cam.Unbounded {
		bounds := math.NewExtents3D(vec3(cam.Bounds.Min), vec3(cam.Bounds.Max))
		rc.Bounds = &bounds
	}
	return rc
}

// SystemManagerConfig sizes the engine systems for this configuration.
func (c *Config) SystemManagerConfig() (*systems.SystemManagerConfig, error) {
	bindings, err := c.Camera.KeyBindings()
	if err != nil {
		return nil, err
	}
	return &systems.SystemManagerConfig{
		MaxRigCount:      8,
		MaxGeometryCount: 64,
		HistorySize:      c.Camera.HistorySize,
		Bindings:         bindings,
		DefaultRig:       c.RigConfig(),
	}, nil
}

// LogLevel is the parsed log level.
func (c *Config) LogLevel() core.LogLevel {
	return core.ParseLogLevel(c.Log.Level)
}
