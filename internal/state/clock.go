package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var seq uint64

// NewID returns a fresh shape identity.
func NewID() string {
	return uuid.NewString()
}

// nextSeq hands out the creation sequence stamped on every new shape.
func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}
