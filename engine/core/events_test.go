package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRegisterAndFire(t *testing.T) {
	require.True(t, EventSystemInitialize())
	t.Cleanup(func() { _ = EventSystemShutdown() })

	var order []string
	first, second := new(int), new(int)
	require.True(t, EventRegister(EVENT_CODE_RESIZED, first, func(EventContext) bool {
		order = append(order, "first")
		return false
	}))
	require.True(t, EventRegister(EVENT_CODE_RESIZED, second, func(EventContext) bool {
		order = append(order, "second")
		return true
	}))
	assert.False(t, EventRegister(EVENT_CODE_RESIZED, first, func(EventContext) bool { return false }),
		"duplicate listener")

	handled := EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{WindowWidth: 800, WindowHeight: 600}})
	assert.True(t, handled)
	assert.Equal(t, []string{"first", "second"}, order)

	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))
}

func TestEventHandledStopsPropagation(t *testing.T) {
	require.True(t, EventSystemInitialize())
	t.Cleanup(func() { _ = EventSystemShutdown() })

	calls := 0
	a, b := new(int), new(int)
	EventRegister(EVENT_CODE_CONFIG_RELOADED, a, func(EventContext) bool { calls++; return true })
	EventRegister(EVENT_CODE_CONFIG_RELOADED, b, func(EventContext) bool { calls++; return true })

	assert.True(t, EventFire(EventContext{Type: EVENT_CODE_CONFIG_RELOADED}))
	assert.Equal(t, 1, calls)
}

func TestEventUnregister(t *testing.T) {
	require.True(t, EventSystemInitialize())
	t.Cleanup(func() { _ = EventSystemShutdown() })

	calls := 0
	listener := new(int)
	require.True(t, EventRegister(EVENT_CODE_KEY_RELEASED, listener, func(EventContext) bool { calls++; return false }))
	assert.True(t, EventUnregister(EVENT_CODE_KEY_RELEASED, listener))
	assert.False(t, EventUnregister(EVENT_CODE_KEY_RELEASED, listener))

	EventFire(EventContext{Type: EVENT_CODE_KEY_RELEASED})
	assert.Equal(t, 0, calls)
}
