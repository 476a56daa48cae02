package render

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySet      = errors.New("template set has no files")
	ErrDuplicatePath = errors.New("duplicate output path")
	ErrUnsafePath    = errors.New("output path escapes the project directory")
)

// FileError ties a rendering failure to the template it came from. Part is
// "path" when the output path failed to render and "body" otherwise.
type FileError struct {
	Path string
	Part string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Path, e.Part, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
