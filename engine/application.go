package engine

import (
	"github.com/spaghettifunk/textgem/engine/config"
	"github.com/spaghettifunk/textgem/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX int32
	// Window starting position y axis, if applicable.
	StartPosY int32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// Sleep away the rest of each frame when it finishes early.
	LimitFrames bool
	// The frame rate LimitFrames aims for. 0 means 60.
	TargetFPS float64
}

// NewApplicationConfig takes the window and log settings from the loaded
// configuration.
func NewApplicationConfig(cfg *config.Config) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   cfg.Window.X,
		StartPosY:   cfg.Window.Y,
		StartWidth:  cfg.Window.Width,
		StartHeight: cfg.Window.Height,
		Name:        cfg.Window.Name,
		LogLevel:    cfg.LogLevel(),
	}
}
