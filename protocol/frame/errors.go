package frame

import "github.com/pkg/errors"

var (
	// ErrPipeline is returned when a stage fails to transform a frame: a decompressed size that does
	// not match its header or a cipher that cannot be set up.
	ErrPipeline = errors.New("frame: pipeline failure")
	// ErrAlreadyArmed is returned when a stage that is already active is armed a second time.
	ErrAlreadyArmed = errors.New("frame: stage already armed")
)
