package core

import (
	"errors"
)

var (
	// ErrConfiguration marks a setup-time precondition violation, e.g. a zoom
	// curve with fewer than two samples. Not recoverable at runtime.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput marks malformed per-frame input (negative dt, NaN values).
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrQueueFull    = errors.New("queue is full")
	ErrQueueEmpty   = errors.New("queue is empty")
	ErrUnknown      = errors.New("unknown")
)
