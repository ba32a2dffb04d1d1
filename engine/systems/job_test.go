package systems

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsJobs(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)

	var completed, failed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		err := js.Submit(JobTask{
			Name: fmt.Sprintf("job-%d", i),
			Run: func() (interface{}, error) {
				if i%5 == 0 {
					return nil, errors.New("boom")
				}
				return i * 2, nil
			},
			OnComplete: func(result interface{}) {
				defer wg.Done()
				if result.(int) == i*2 {
					completed.Add(1)
				}
			},
			OnFailure: func(error) {
				defer wg.Done()
				failed.Add(1)
			},
		})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, int32(16), completed.Load())
	assert.Equal(t, int32(4), failed.Load())

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{Run: func() (interface{}, error) { return nil, nil }}), ErrJobSystemStopped)
	assert.ErrorIs(t, js.Submit(JobTask{}), core.ErrInvalidInput)
}

func TestJobSystemGeneratesGeometry(t *testing.T) {
	sm, err := NewSystemManager(&SystemManagerConfig{
		MaxRigCount:      1,
		MaxGeometryCount: 8,
		DefaultRig:       rigConfig(),
		JobWorkers:       2,
	})
	require.NoError(t, err)

	gs := sm.GeometrySystem()
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("grid-%d", i)
		require.NoError(t, sm.JobSystem().Submit(JobTask{
			Name: name,
			Run: func() (interface{}, error) {
				return GenerateGridPlaneConfig(100, 3, name), nil
			},
			OnComplete: func(result interface{}) {
				_, err := gs.AcquireFromConfig(result.(*GeometryConfig), false)
				assert.NoError(t, err)
			},
		}))
	}
	// Shutdown drains the queue before returning.
	require.NoError(t, sm.JobSystem().Shutdown())
	assert.Equal(t, 4, gs.Count())
	require.NoError(t, sm.Shutdown())
	assert.Equal(t, 0, gs.Count())
}
