package systems

import (
	"fmt"

	"github.com/spaghettifunk/textgem/engine/components"
	"github.com/spaghettifunk/textgem/engine/containers"
	"github.com/spaghettifunk/textgem/engine/core"
)

/** @brief The number of frames of input kept for replay when not configured. */
const DEFAULT_HISTORY_SIZE int = 600

// KeyBindings maps each rig action to the keys that trigger it. Any bound
// key held down holds the action.
type KeyBindings map[components.RigAction][]core.KeyCode

// rigActions lists every action in bit order so Held is deterministic.
var rigActions = []components.RigAction{
	components.RigActionZoomIn,
	components.RigActionZoomOut,
	components.RigActionRotateLeft,
	components.RigActionRotateRight,
	components.RigActionForward,
	components.RigActionBack,
	components.RigActionLeft,
	components.RigActionRight,
}

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		components.RigActionZoomIn:      {core.KEY_EQUAL, core.KEY_ADD},
		components.RigActionZoomOut:     {core.KEY_MINUS, core.KEY_SUBTRACT},
		components.RigActionRotateLeft:  {core.KEY_Q},
		components.RigActionRotateRight: {core.KEY_E},
		components.RigActionForward:     {core.KEY_W, core.KEY_UP},
		components.RigActionBack:        {core.KEY_S, core.KEY_DOWN},
		components.RigActionLeft:        {core.KEY_A, core.KEY_LEFT},
		components.RigActionRight:       {core.KEY_D, core.KEY_RIGHT},
	}
}

// Held returns the actions whose keys are currently down.
func (kb KeyBindings) Held() components.RigAction {
	var held components.RigAction
	for _, action := range rigActions {
		for _, key := range kb[action] {
			if core.InputIsKeyDown(key) {
				held |= action
				break
			}
		}
	}
	return held
}

type rigLookup struct {
	ID             core.Handle
	ReferenceCount uint16
	Rig            *components.CameraRig
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of rigs that can be registered
	 * with the system, not counting the default rig.
	 */
	MaxRigCount uint16
	/** @brief Frames of input kept for History and Replay. */
	HistorySize int
	/** @brief Key bindings used by Update. nil means DefaultKeyBindings. */
	Bindings KeyBindings
	/**
	 * @brief The configuration of the default rig. nil uses the component
	 * defaults, which carry no zoom curve; append one before updating.
	 */
	DefaultRig *components.CameraRigConfig
}

type CameraSystem struct {
	Config *CameraSystemConfig
	lookup map[string]*rigLookup
	// A default, non-registered rig that always exists as a fallback.
	DefaultRig *components.CameraRig
	active     string
	history    *containers.RingQueue[components.FrameInput]
}

/**
 * @brief Initializes the camera system and creates the default rig.
 *
 * @param config The configuration for this system.
 * @return The camera system, or an error if the configuration is invalid.
 */
func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxRigCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxRigCount must be > 0: %w", core.ErrConfiguration)
		core.LogError("%s", err)
		return nil, err
	}
	if config.HistorySize <= 0 {
		config.HistorySize = DEFAULT_HISTORY_SIZE
	}
	if config.Bindings == nil {
		config.Bindings = DefaultKeyBindings()
	}

	defaultRig, err := components.NewCameraRig(config.DefaultRig)
	if err != nil {
		return nil, err
	}

	return &CameraSystem{
		Config:     config,
		lookup:     make(map[string]*rigLookup, config.MaxRigCount),
		DefaultRig: defaultRig,
		active:     components.DEFAULT_CAMERA_RIG_NAME,
		history:    containers.NewRingQueue[components.FrameInput](config.HistorySize),
	}, nil
}

/**
 * @brief Shuts down the camera system, releasing every registered rig.
 */
func (cs *CameraSystem) Shutdown() error {
	for name, l := range cs.lookup {
		if err := core.IdentifierReleaseID(l.ID); err != nil {
			core.LogWarn("camera system shutdown: rig '%s': %s", name, err)
		}
	}
	cs.lookup = make(map[string]*rigLookup)
	cs.active = components.DEFAULT_CAMERA_RIG_NAME
	cs.history.Clear()
	return nil
}

/**
 * @brief Registers a rig under the given name and acquires the first
 * reference to it.
 *
 * @param name The name of the rig. Must be unique and not the default name.
 * @param rig The rig to register.
 * @return The handle assigned to the rig.
 */
func (cs *CameraSystem) Register(name string, rig *components.CameraRig) (core.Handle, error) {
	if name == "" || name == components.DEFAULT_CAMERA_RIG_NAME || rig == nil {
		err := fmt.Errorf("func CameraSystemRegister - invalid name '%s' or nil rig: %w", name, core.ErrInvalidInput)
		core.LogError("%s", err)
		return core.InvalidHandle, err
	}
	if _, ok := cs.lookup[name]; ok {
		err := fmt.Errorf("func CameraSystemRegister - rig '%s' already registered: %w", name, core.ErrInvalidInput)
		core.LogError("%s", err)
		return core.InvalidHandle, err
	}
	if len(cs.lookup) >= int(cs.Config.MaxRigCount) {
		err := fmt.Errorf("func CameraSystemRegister - no free slot for rig '%s'. Adjust camera system config to allow more: %w", name, core.ErrConfiguration)
		core.LogError("%s", err)
		return core.InvalidHandle, err
	}

	id := core.IdentifierAcquireNewID(rig)
	cs.lookup[name] = &rigLookup{
		ID:             id,
		ReferenceCount: 1,
		Rig:            rig,
	}
	core.LogDebug("Registered camera rig '%s' (%s).", name, id)
	return id, nil
}

/**
 * @brief Acquires a rig by name. Internal reference counter is incremented.
 *
 * @param name The name of the rig to acquire.
 * @return The rig, or an error wrapping core.ErrNotFound.
 */
func (cs *CameraSystem) Acquire(name string) (*components.CameraRig, error) {
	if name == components.DEFAULT_CAMERA_RIG_NAME {
		return cs.DefaultRig, nil
	}
	l, ok := cs.lookup[name]
	if !ok {
		err := fmt.Errorf("func CameraSystemAcquire failed lookup for '%s': %w", name, core.ErrNotFound)
		core.LogError("%s", err)
		return nil, err
	}
	l.ReferenceCount++
	return l.Rig, nil
}

/**
 * @brief Releases a rig with the given name. Internal reference counter is
 * decremented. If this reaches 0, the rig is unregistered and its handle
 * released. An active rig that is unregistered hands over to the default rig.
 *
 * @param name The name of the rig to release.
 */
func (cs *CameraSystem) Release(name string) error {
	if name == components.DEFAULT_CAMERA_RIG_NAME {
		core.LogDebug("Cannot release default camera rig. Nothing was done.")
		return nil
	}
	l, ok := cs.lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return fmt.Errorf("camera rig '%s': %w", name, core.ErrNotFound)
	}

	l.ReferenceCount--
	if l.ReferenceCount < 1 {
		delete(cs.lookup, name)
		if err := core.IdentifierReleaseID(l.ID); err != nil {
			core.LogWarn("%s", err)
		}
		if cs.active == name {
			cs.active = components.DEFAULT_CAMERA_RIG_NAME
		}
		core.LogDebug("Unregistered camera rig '%s'.", name)
	}
	return nil
}

// Handle returns the identifier issued to a registered rig.
func (cs *CameraSystem) Handle(name string) (core.Handle, bool) {
	l, ok := cs.lookup[name]
	if !ok {
		return core.InvalidHandle, false
	}
	return l.ID, true
}

/**
 * @brief Gets the default rig.
 */
func (cs *CameraSystem) GetDefault() *components.CameraRig {
	return cs.DefaultRig
}

// SetActive selects the rig driven by Update.
func (cs *CameraSystem) SetActive(name string) error {
	if name != components.DEFAULT_CAMERA_RIG_NAME {
		if _, ok := cs.lookup[name]; !ok {
			return fmt.Errorf("camera rig '%s': %w", name, core.ErrNotFound)
		}
	}
	if cs.active != name {
		cs.active = name
		cs.history.Clear()
	}
	return nil
}

func (cs *CameraSystem) ActiveName() string {
	return cs.active
}

func (cs *CameraSystem) Active() *components.CameraRig {
	if l, ok := cs.lookup[cs.active]; ok {
		return l.Rig
	}
	return cs.DefaultRig
}

/**
 * @brief Drives the active rig with this frame's input: the keys held
 * according to the bindings and the scroll accumulated since last frame.
 * Accepted input is recorded for replay.
 *
 * @param deltaTime Seconds since the previous frame.
 * @return The pose of the active rig.
 */
func (cs *CameraSystem) Update(deltaTime float64) (components.Pose, error) {
	input := components.FrameInput{
		ScrollDelta: core.InputConsumeScroll(),
		Held:        cs.Config.Bindings.Held(),
		DeltaTime:   deltaTime,
	}
	pose, err := cs.Active().Update(input)
	if err != nil {
		return pose, err
	}
	cs.history.Push(input)
	return pose, nil
}

// History returns the recorded input of the active rig, oldest first.
func (cs *CameraSystem) History() []components.FrameInput {
	return cs.history.Items()
}

/**
 * @brief Re-drives the rig with recorded input. A rig in the same starting
 * state ends up in the same pose as the recorded one.
 *
 * @return The pose after the last input.
 */
func Replay(rig *components.CameraRig, inputs []components.FrameInput) (components.Pose, error) {
	pose, err := rig.RecomputeIfDirty()
	if err != nil {
		return pose, err
	}
	for i, input := range inputs {
		if pose, err = rig.Update(input); err != nil {
			return pose, fmt.Errorf("replay frame %d: %w", i, err)
		}
	}
	return pose, nil
}
