package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImages indicates a selection with no image files in it.
	ErrNoImages = errors.New("upload: no image files selected")

	// ErrEmptyFile indicates a file with no content.
	ErrEmptyFile = errors.New("upload: empty file")
)

// DecodeError reports the file that caused a batch to be abandoned.
type DecodeError struct {
	Name    string
	Wrapped error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("upload: decode %s: %v", e.Name, e.Wrapped)
}

func (e *DecodeError) Unwrap() error {
	return e.Wrapped
}
