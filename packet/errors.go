package packet

import (
	"fmt"

	"github.com/cooldogedev/prism/protocol"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownID is matched by every UnknownIDError.
	ErrUnknownID = errors.New("packet: unknown message id")
	// ErrUnsupportedVersion is returned when building a Registry for a version outside the catalog.
	ErrUnsupportedVersion = errors.New("packet: unsupported protocol version")
	// ErrUnavailable is returned when encoding a kind that does not exist in the version of the
	// Registry.
	ErrUnavailable = errors.New("packet: kind not available in this version")
)

// UnknownIDError is returned when a frame carries an id the Registry has no kind for. It is kept apart
// from decode errors so callers can skip unknown messages while still failing on corrupt ones.
type UnknownIDError struct {
	Direction protocol.Direction
	State     protocol.State
	Version   protocol.Version
	ID        uint32
}

// Error ...
func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("packet: unknown %v %v message id %#02x in %v", e.Direction, e.State, e.ID, e.Version)
}

// Is ...
func (e *UnknownIDError) Is(target error) bool {
	return target == ErrUnknownID
}
