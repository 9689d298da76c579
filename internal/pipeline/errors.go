package pipeline

import (
	"errors"
	"fmt"
)

// ErrFormatting is the umbrella error every failed run matches via
// errors.Is, regardless of which stage broke.
var ErrFormatting = errors.New("document formatting failed")

// StageError wraps a failure with the name of the pipeline stage that
// produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFormatting) match any stage failure.
func (e *StageError) Is(target error) bool { return target == ErrFormatting }
