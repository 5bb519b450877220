package state

import "errors"

// Error taxonomy shared by the store and the document engine. Callers match
// with errors.Is; adapters treat ErrInvalidState as a silent no-op.
var (
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidLayer = errors.New("invalid layer")
	ErrUnsupported  = errors.New("not supported")
	ErrNotFound     = errors.New("shape not found")
	ErrInvalidGrid  = errors.New("grid size must be positive")
)
