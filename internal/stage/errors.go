package stage

import (
	"errors"
	"fmt"
)

// TransformError reports an external transform (minify, compile, optimize)
// failing on its input. It is fatal for the task that ran the stage and for
// the task's dependents.
type TransformError struct {
	Stage string
	Path  string
	Err   error
}

func (e *TransformError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Path, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Wrap returns err as a TransformError for the named stage. An error that
// already is a TransformError is returned unchanged.
func Wrap(stageName, path string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransformError
	if errors.As(err, &te) {
		return err
	}
	return &TransformError{Stage: stageName, Path: path, Err: err}
}
