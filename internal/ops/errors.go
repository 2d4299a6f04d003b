package ops

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired   = errors.New("name is required")
	ErrAbsolutePath   = errors.New("path must be relative")
	ErrExists         = errors.New("target already exists")
	ErrIllegalName    = errors.New("name contains invalid characters")
	ErrUnchanged      = errors.New("name is unchanged")
	ErrNestedNotEmpty = errors.New("folder is not empty")
	ErrIsRoot         = errors.New("configured roots cannot be deleted")
	ErrNoTarget       = errors.New("no file or folder selected")
	ErrIntoItself     = errors.New("cannot move a folder into itself")
	ErrNoWorkspace    = errors.New("no active workspace folder")
	ErrCancelled      = errors.New("cancelled")
)

// prompt text shown inline for validation failures
var messages = map[error]string{
	ErrNameRequired: "Name is required",
	ErrAbsolutePath: "Provide a relative path, not absolute",
	ErrExists:       "Target already exists",
	ErrIllegalName:  "Invalid characters in name",
	ErrUnchanged:    "Name is unchanged",
}

// ValidationError reports which input was rejected. Its Error text is
// suitable for an input prompt.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if msg, ok := messages[e.Err]; ok {
		return msg
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// BatchResult summarises a multi-item operation.
type BatchResult struct {
	Total     int
	Done      int
	Failed    int
	Cancelled bool
	Errors    []error
}

// Err returns a summary error when any item failed.
func (r BatchResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d item(s) failed: %w", r.Failed, r.Total, errors.Join(r.Errors...))
}
