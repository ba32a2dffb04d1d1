package core

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Update()
	assert.Equal(t, 0.0, c.Elapsed(), "not started")

	c.Start()
	now = now.Add(250 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 0.25, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 0.25, c.Elapsed(), 1e-9, "stopped clocks keep their elapsed time")
}

func TestIdentifier(t *testing.T) {
	owner := "rig"
	a := IdentifierAcquireNewID(owner)
	b := IdentifierAcquireNewID(owner)
	assert.True(t, a.IsValid())
	assert.NotEqual(t, a, b)
	assert.False(t, InvalidHandle.IsValid())

	got, ok := IdentifierOwner(a)
	require.True(t, ok)
	assert.Equal(t, owner, got)

	require.NoError(t, IdentifierReleaseID(a))
	_, ok = IdentifierOwner(a)
	assert.False(t, ok)
	assert.ErrorIs(t, IdentifierReleaseID(a), ErrNotFound)
	require.NoError(t, IdentifierReleaseID(b))
}

func TestMetrics(t *testing.T) {
	require.NoError(t, MetricsInitialize())
	for i := 0; i < int(AVG_COUNT)*3; i++ {
		MetricsUpdate(0.02)
	}
	fps, frameTime := MetricsFrame()
	assert.InDelta(t, 20.0, frameTime, 1e-6)
	assert.InDelta(t, 50, fps, 1)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLogLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLogLevel("chatty"))
	LogSetLevel(DebugLevel)
	LogSetLevel(InfoLevel)
}

func TestLookupLogLevel(t *testing.T) {
	level, err := LookupLogLevel("Info")
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, level)

	level, err = LookupLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, level)

	_, err = LookupLogLevel("verbose")
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = LookupLogLevel("")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLogErrorKeepsPercentLiteral(t *testing.T) {
	var buf bytes.Buffer
	LogSetOutput(&buf)
	defer LogSetOutput(os.Stderr)

	LogError("%s", fmt.Errorf("rig '50%%off' failed: %w", ErrInvalidInput))
	assert.Contains(t, buf.String(), "rig '50%off' failed")
	assert.NotContains(t, buf.String(), "%!")
}
