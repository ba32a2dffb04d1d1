package systems

import (
	"runtime"

	"github.com/spaghettifunk/textgem/engine/components"
)

type SystemManagerConfig struct {
	MaxRigCount      uint16
	MaxGeometryCount uint32
	HistorySize      int
	Bindings         KeyBindings
	DefaultRig       *components.CameraRigConfig
	// Workers for the job system. 0 means one per CPU.
	JobWorkers int
}

type SystemManager struct {
	cameraSystem   *CameraSystem
	geometrySystem *GeometrySystem
	jobSystem      *JobSystem
}

func NewSystemManager(config *SystemManagerConfig) (*SystemManager, error) {
	workers := config.JobWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, 64)
	if err != nil {
		return nil, err
	}

	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxRigCount: config.MaxRigCount,
		HistorySize: config.HistorySize,
		Bindings:    config.Bindings,
		DefaultRig:  config.DefaultRig,
	})
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: config.MaxGeometryCount,
	})
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		cameraSystem:   cs,
		geometrySystem: gs,
		jobSystem:      js,
	}, nil
}

func (sm *SystemManager) CameraSystem() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) GeometrySystem() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

// Shutdown stops the job system first so no job completes into a system
// that is already shut down.
func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
