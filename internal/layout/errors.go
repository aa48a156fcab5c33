package layout

import "fmt"

// ValidationError reports a malformed or structurally invalid layout file.
type ValidationError struct {
	File string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("invalid layout %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("invalid layout: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a layout name that has no file in the layouts
// directory.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("layout %q not found", e.Name)
}
