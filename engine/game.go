package engine

import (
	"github.com/spaghettifunk/textgem/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemConfig      *systems.SystemManagerConfig
	// Set by the engine before FnBoot is called.
	SystemManager *systems.SystemManager
	State         interface{}
	FnBoot        Boot
	FnInitialize  Initialize
	FnUpdate      Update
	FnOnResize    OnResize
	FnShutdown    Shutdown
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
