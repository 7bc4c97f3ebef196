package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when fewer bytes remain than a value needs. On a stream it means more
	// data has to arrive; inside a complete frame it means the frame is corrupt.
	ErrTruncated = errors.New("protocol: truncated data")
	// ErrMalformed is returned for values that can never be valid, such as an over-long VarInt,
	// invalid UTF-8 or a negative length.
	ErrMalformed = errors.New("protocol: malformed data")
)

// DecodeError records where in a message a decode failure happened. Err is always wrapping either
// ErrTruncated or ErrMalformed.
type DecodeError struct {
	// Offset is the cursor position at which the failing value started.
	Offset int
	// Value names the primitive that failed, e.g. "varint32" or "string".
	Value string
	Err   error
}

// Error ...
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Value, e.Offset, e.Err)
}

// Unwrap ...
func (e *DecodeError) Unwrap() error {
	return e.Err
}
