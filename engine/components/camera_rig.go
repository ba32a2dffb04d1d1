package components

import (
	"fmt"
	m "math"

	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
)

/** @brief The name of the default camera rig. */
const DEFAULT_CAMERA_RIG_NAME string = "default"

const (
	DEFAULT_ZOOM_SPEED     float32 = 0.1
	DEFAULT_ROTATION_SPEED float32 = 0.8
	DEFAULT_PAN_SPEED      float32 = 200.0
)

// RigAction is a set of held keys, already mapped to what they do to the rig.
type RigAction uint8

const (
	RigActionZoomIn RigAction = 1 << iota
	RigActionZoomOut
	RigActionRotateLeft
	RigActionRotateRight
	RigActionForward
	RigActionBack
	RigActionLeft
	RigActionRight
)

func (a RigAction) Has(action RigAction) bool {
	return a&action != 0
}

var rigActionNames = [...]string{"zoom-in", "zoom-out", "rotate-left", "rotate-right", "forward", "back", "left", "right"}

// ParseRigAction resolves a single action name as printed by String.
func ParseRigAction(name string) (RigAction, error) {
	for i, n := range rigActionNames {
		if n == name {
			return RigAction(1 << i), nil
		}
	}
	return 0, fmt.Errorf("unknown rig action %q: %w", name, core.ErrInvalidInput)
}

func (a RigAction) String() string {
	if a == 0 {
		return "none"
	}
	s := ""
	for i, name := range rigActionNames {
		if a.Has(RigAction(1 << i)) {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	return s
}

/**
 * @brief Everything the rig needs from one frame of input.
 */
type FrameInput struct {
	/** @brief Summed mouse wheel delta for the frame. Only its sign is used. */
	ScrollDelta float32
	/** @brief Keys held this frame. */
	Held RigAction
	/** @brief Seconds elapsed since the previous frame. */
	DeltaTime float64
}

/**
 * @brief The camera placement produced by the rig, ready for the host
 * camera transform.
 */
type Pose struct {
	Position    math.Vec3
	Orientation math.Quaternion
}

// Apply copies the pose into the transform.
func (p Pose) Apply(t *math.Transform) {
	t.SetPositionRotation(p.Position, p.Orientation)
}

// Forward returns the direction the pose is looking at.
func (p Pose) Forward() math.Vec3 {
	return p.Orientation.Rotate(math.NewVec3Forward())
}

// ViewMatrix returns the world-to-view matrix of the pose.
func (p Pose) ViewMatrix() math.Mat4 {
	return math.TransformFromPositionRotation(p.Position, p.Orientation).GetView()
}

type CameraRigConfig struct {
	/** @brief The axis the rig orbits about. Normalized on creation. */
	Up math.Vec3
	/** @brief The initial point the camera looks at. Clamped into Bounds. */
	LookAt math.Vec3
	/** @brief Region the look-at point is kept in. nil means unbounded. */
	Bounds *math.Extents3D
	/** @brief Initial rotation about Up, in radians. */
	Rotation float32
	/** @brief Initial zoom level, clamped to [0, 1]. */
	ZoomLevel float32
	/** @brief Zoom level change per second while zooming. */
	ZoomSpeed float32
	/** @brief Radians per second while rotating. */
	RotationSpeed float32
	/** @brief World units per second while panning. */
	PanSpeed float32
	/** @brief Initial zoom offset curve, near to far. May be filled later with AppendZoomOffset. */
	ZoomOffsets []math.Vec3
}

func DefaultCameraRigConfig() *CameraRigConfig {
	return &CameraRigConfig{
		Up:            math.NewVec3Up(),
		LookAt:        math.NewVec3Zero(),
		ZoomSpeed:     DEFAULT_ZOOM_SPEED,
		RotationSpeed: DEFAULT_ROTATION_SPEED,
		PanSpeed:      DEFAULT_PAN_SPEED,
	}
}

/**
 * @brief An orbiting camera controller. The camera sits at an offset from
 * the look-at point picked from the zoom curve, is rotated about the up axis
 * and always faces the look-at point. Derived pose data is only rebuilt in
 * RecomputeIfDirty.
 * A rig has a single writer and is not safe for concurrent use.
 */
type CameraRig struct {
	zoomLevel   float32
	zoomOffsets []math.Vec3
	lookAt      math.Vec3
	rotation    float32
	up          math.Vec3
	bounds      math.Extents3D

	zoomSpeed     float32
	rotationSpeed float32
	panSpeed      float32

	/** @brief Set when zoom, look-at, rotation, up or bounds change. */
	dirty bool
	/** @brief The pose computed by the last recompute. */
	pose Pose
}

func NewCameraRig(config *CameraRigConfig) (*CameraRig, error) {
	if config == nil {
		config = DefaultCameraRigConfig()
	}

	up, err := normalizeUp(config.Up)
	if err != nil {
		err = fmt.Errorf("camera rig: %w: %w", core.ErrConfiguration, err)
		core.LogError("%s", err)
		return nil, err
	}

	bounds := math.NewExtents3DUnbounded()
	if config.Bounds != nil {
		if !config.Bounds.IsValid() {
			err := fmt.Errorf("camera rig: invalid bounds %+v: %w", *config.Bounds, core.ErrConfiguration)
			core.LogError("%s", err)
			return nil, err
		}
		bounds = *config.Bounds
	}

	for _, f := range []float32{config.Rotation, config.ZoomLevel, config.ZoomSpeed, config.RotationSpeed, config.PanSpeed} {
		if !math.IsFinite(float64(f)) {
			err := fmt.Errorf("camera rig: non-finite scalar in config: %w", core.ErrConfiguration)
			core.LogError("%s", err)
			return nil, err
		}
	}
	if config.LookAt.HasNaN() {
		err := fmt.Errorf("camera rig: look-at %+v: %w", config.LookAt, core.ErrConfiguration)
		core.LogError("%s", err)
		return nil, err
	}

	rig := &CameraRig{
		zoomLevel:     math.Clamp(config.ZoomLevel, 0.0, 1.0),
		lookAt:        bounds.Clamp(config.LookAt),
		rotation:      config.Rotation,
		up:            up,
		bounds:        bounds,
		zoomSpeed:     config.ZoomSpeed,
		rotationSpeed: config.RotationSpeed,
		panSpeed:      config.PanSpeed,
		dirty:         true,
		pose:          Pose{Orientation: math.NewQuatIdentity()},
	}
	for _, offset := range config.ZoomOffsets {
		if err := rig.AppendZoomOffset(offset); err != nil {
			return nil, fmt.Errorf("camera rig: %w", err)
		}
	}
	return rig, nil
}

func normalizeUp(up math.Vec3) (math.Vec3, error) {
	if up.HasNaN() {
		return up, fmt.Errorf("up axis %+v has NaN components", up)
	}
	n := up.NormalizeOr(math.NewVec3Zero())
	if n == math.NewVec3Zero() {
		return up, fmt.Errorf("up axis %+v has no direction", up)
	}
	return n, nil
}

// AppendZoomOffset adds the next sample of the zoom curve. Samples go from
// near to far. The current pose is not affected until something else marks
// the rig dirty.
func (c *CameraRig) AppendZoomOffset(offset math.Vec3) error {
	if !offset.IsFinite() {
		return fmt.Errorf("zoom offset %+v: %w", offset, core.ErrInvalidInput)
	}
	c.zoomOffsets = append(c.zoomOffsets, offset)
	return nil
}

// SetZoomOffsets replaces the whole zoom curve and marks the rig dirty. The
// curve needs at least two samples; a rejected curve leaves the old one in place.
func (c *CameraRig) SetZoomOffsets(offsets []math.Vec3) error {
	if len(offsets) < 2 {
		return fmt.Errorf("zoom curve needs at least 2 samples, got %d: %w", len(offsets), core.ErrConfiguration)
	}
	for _, offset := range offsets {
		if !offset.IsFinite() {
			return fmt.Errorf("zoom offset %+v: %w", offset, core.ErrInvalidInput)
		}
	}
	c.zoomOffsets = append(c.zoomOffsets[:0:0], offsets...)
	c.dirty = true
	core.LogDebug("camera rig: zoom curve rebuilt with %d samples", len(offsets))
	return nil
}

func (c *CameraRig) ZoomOffsets() []math.Vec3 {
	return append([]math.Vec3(nil), c.zoomOffsets...)
}

func (c *CameraRig) ZoomLevel() float32 {
	return c.zoomLevel
}

func (c *CameraRig) LookAt() math.Vec3 {
	return c.lookAt
}

func (c *CameraRig) Rotation() float32 {
	return c.rotation
}

func (c *CameraRig) Up() math.Vec3 {
	return c.up
}

func (c *CameraRig) Bounds() math.Extents3D {
	return c.bounds
}

func (c *CameraRig) IsDirty() bool {
	return c.dirty
}

// Pose returns the pose computed by the last recompute, which is stale
// while IsDirty reports true.
func (c *CameraRig) Pose() Pose {
	return c.pose
}

func (c *CameraRig) Speeds() (zoom, rotation, pan float32) {
	return c.zoomSpeed, c.rotationSpeed, c.panSpeed
}

func (c *CameraRig) SetSpeeds(zoom, rotation, pan float32) error {
	if !math.IsFinite(float64(zoom)) || !math.IsFinite(float64(rotation)) || !math.IsFinite(float64(pan)) {
		return fmt.Errorf("speeds (%v, %v, %v): %w", zoom, rotation, pan, core.ErrInvalidInput)
	}
	c.zoomSpeed, c.rotationSpeed, c.panSpeed = zoom, rotation, pan
	return nil
}

// ZoomTo sets the zoom level, clamped to [0, 1].
func (c *CameraRig) ZoomTo(zoomLevel float32) error {
	if math.IsNaN(zoomLevel) {
		return fmt.Errorf("zoom level: %w", core.ErrInvalidInput)
	}
	old := c.zoomLevel
	c.zoomLevel = math.Clamp(zoomLevel, 0.0, 1.0)
	if old != c.zoomLevel {
		c.dirty = true
	}
	return nil
}

func (c *CameraRig) ChangeZoom(delta float32) error {
	return c.ZoomTo(c.zoomLevel + delta)
}

// SetLookAt moves the look-at point, clamped into the bounds.
func (c *CameraRig) SetLookAt(lookAt math.Vec3) error {
	if lookAt.HasNaN() {
		return fmt.Errorf("look-at %+v: %w", lookAt, core.ErrInvalidInput)
	}
	old := c.lookAt
	c.lookAt = c.bounds.Clamp(lookAt)
	if old != c.lookAt {
		c.dirty = true
	}
	return nil
}

// SetRotation sets the rotation about the up axis, in radians. It is not
// wrapped, so rotating back and forth returns exactly to the start.
func (c *CameraRig) SetRotation(rotation float32) error {
	if !math.IsFinite(float64(rotation)) {
		return fmt.Errorf("rotation: %w", core.ErrInvalidInput)
	}
	old := c.rotation
	c.rotation = rotation
	if old != c.rotation {
		c.dirty = true
	}
	return nil
}

func (c *CameraRig) ChangeRotation(delta float32) error {
	return c.SetRotation(c.rotation + delta)
}

func (c *CameraRig) SetUp(up math.Vec3) error {
	n, err := normalizeUp(up)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	old := c.up
	c.up = n
	if old != c.up {
		c.dirty = true
	}
	return nil
}

// SetBounds replaces the bounds. The current look-at point is clamped into
// the new bounds right away.
func (c *CameraRig) SetBounds(bounds math.Extents3D) error {
	if !bounds.IsValid() {
		return fmt.Errorf("bounds %+v: %w", bounds, core.ErrInvalidInput)
	}
	oldBounds, oldLookAt := c.bounds, c.lookAt
	c.bounds = bounds
	c.lookAt = c.bounds.Clamp(c.lookAt)
	if oldBounds != c.bounds || oldLookAt != c.lookAt {
		c.dirty = true
	}
	return nil
}

/**
 * @brief Advances the rig by one frame of input and returns the pose to
 * render with. Zoom and rotation are applied and resolved before the pan
 * direction is derived, so panning follows the camera's facing for this
 * frame.
 */
func (c *CameraRig) Update(input FrameInput) (Pose, error) {
	if err := validateInput(input); err != nil {
		return c.pose, err
	}
	if len(c.zoomOffsets) < 2 {
		return c.pose, c.curveError()
	}

	dt := float32(math.Clamp(input.DeltaTime, 0.0, 1.0))

	deltaZoom := scrollSign(input.ScrollDelta)
	if input.Held.Has(RigActionZoomIn) {
		deltaZoom = -1.0
	}
	if input.Held.Has(RigActionZoomOut) {
		deltaZoom = 1.0
	}

	var deltaRotation float32
	if input.Held.Has(RigActionRotateLeft) {
		deltaRotation = -1.0
	}
	if input.Held.Has(RigActionRotateRight) {
		deltaRotation = 1.0
	}

	if deltaZoom != 0 {
		c.zoomTo(c.zoomLevel + deltaZoom*c.zoomSpeed*dt)
	}
	if deltaRotation != 0 {
		c.rotate(c.rotation + deltaRotation*c.rotationSpeed*dt)
	}

	if _, err := c.RecomputeIfDirty(); err != nil {
		return c.pose, err
	}

	var deltaForward, deltaRight float32
	if input.Held.Has(RigActionForward) {
		deltaForward = 1.0
	}
	if input.Held.Has(RigActionBack) {
		deltaForward = -1.0
	}
	// The right vector below is forward turned +90 degrees about up, which
	// points to the screen's left.
	if input.Held.Has(RigActionRight) {
		deltaRight = -1.0
	}
	if input.Held.Has(RigActionLeft) {
		deltaRight = 1.0
	}

	if deltaForward != 0 || deltaRight != 0 {
		c.pan(deltaForward, deltaRight, dt)
		if _, err := c.RecomputeIfDirty(); err != nil {
			return c.pose, err
		}
	}

	return c.pose, nil
}

func (c *CameraRig) pan(deltaForward, deltaRight, dt float32) {
	planar := c.lookAt.ProjectOnPlane(c.up).Sub(c.pose.Position.ProjectOnPlane(c.up))
	forward := planar.NormalizeOr(math.NewVec3Zero())
	if forward == math.NewVec3Zero() {
		core.LogDebug("camera rig: camera is directly above the look-at point, skipping pan")
		return
	}
	right := math.NewQuatFromAxisAngle(c.up, math.K_HALF_PI, true).Rotate(forward)

	scale := c.panSpeed * dt
	next := c.lookAt.
		Add(forward.MulScalar(deltaForward * scale)).
		Add(right.MulScalar(deltaRight * scale))

	old := c.lookAt
	c.lookAt = c.bounds.Clamp(next)
	if old != c.lookAt {
		c.dirty = true
	}
}

// zoomTo and rotate skip validation; Update has already checked the inputs.
func (c *CameraRig) zoomTo(zoomLevel float32) {
	old := c.zoomLevel
	c.zoomLevel = math.Clamp(zoomLevel, 0.0, 1.0)
	if old != c.zoomLevel {
		c.dirty = true
	}
}

func (c *CameraRig) rotate(rotation float32) {
	if old := c.rotation; old != rotation {
		c.rotation = rotation
		c.dirty = true
	}
}

/**
 * @brief Rebuilds the pose when the rig is dirty and returns it. This is the
 * only place the pose is computed.
 */
func (c *CameraRig) RecomputeIfDirty() (Pose, error) {
	if !c.dirty {
		return c.pose, nil
	}
	if len(c.zoomOffsets) < 2 {
		return c.pose, c.curveError()
	}

	offset := c.interpolatedOffset()
	orbit := math.NewQuatFromAxisAngle(c.up, c.rotation, true)
	position := orbit.RotateAround(c.lookAt.Add(offset), c.lookAt)

	orientation, ok := math.NewQuatLookAt(position, c.lookAt, c.up)
	if !ok {
		// The camera sits on the look-at point; keep facing the same way.
		orientation = c.pose.Orientation
	}

	c.pose = Pose{Position: position, Orientation: orientation}
	c.dirty = false
	return c.pose, nil
}

func (c *CameraRig) interpolatedOffset() math.Vec3 {
	n := len(c.zoomOffsets) - 1
	t := c.zoomLevel * float32(n)
	i := int(m.Floor(float64(t)))
	j := int(m.Ceil(float64(t)))
	i = math.Clamp(i, 0, n)
	j = math.Clamp(j, 0, n)
	frac := t - float32(i)
	return c.zoomOffsets[i].Lerp(c.zoomOffsets[j], frac)
}

func (c *CameraRig) curveError() error {
	err := fmt.Errorf("camera rig: zoom curve needs at least 2 samples, has %d: %w", len(c.zoomOffsets), core.ErrConfiguration)
	core.LogError("%s", err)
	return err
}

func validateInput(input FrameInput) error {
	if m.IsNaN(input.DeltaTime) || m.IsInf(input.DeltaTime, 0) || input.DeltaTime < 0 {
		return fmt.Errorf("delta time %v: %w", input.DeltaTime, core.ErrInvalidInput)
	}
	if math.IsNaN(input.ScrollDelta) {
		return fmt.Errorf("scroll delta: %w", core.ErrInvalidInput)
	}
	return nil
}

func scrollSign(delta float32) float32 {
	switch {
	case delta < 0:
		return -1.0
	case delta > 0:
		return 1.0
	}
	return 0.0
}
