package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies an engine-owned object (a camera rig, a geometry).
type Handle uuid.UUID

// InvalidHandle is the zero handle; never issued.
var InvalidHandle = Handle(uuid.Nil)

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

func (h Handle) IsValid() bool {
	return h != InvalidHandle
}

var (
	ownersMu sync.Mutex
	owners   = map[Handle]interface{}{}
)

// IdentifierAcquireNewID issues a fresh handle and records its owner.
func IdentifierAcquireNewID(owner interface{}) Handle {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	for {
		h := Handle(uuid.New())
		if _, taken := owners[h]; !taken {
			owners[h] = owner
			return h
		}
	}
}

// IdentifierOwner returns the owner registered for the handle, if any.
func IdentifierOwner(id Handle) (interface{}, bool) {
	ownersMu.Lock()
	defer ownersMu.Unlock()
	o, ok := owners[id]
	return o, ok
}

func IdentifierReleaseID(id Handle) error {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	if _, ok := owners[id]; !ok {
		return fmt.Errorf("identifier release: id '%s': %w", id, ErrNotFound)
	}
	delete(owners, id)
	return nil
}
