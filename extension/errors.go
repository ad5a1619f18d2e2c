// Package extension manages the lifecycle of dynamically loaded provider extensions.
package extension

import (
	"errors"
	"fmt"
)

// InstallError indicates a rejected installation: malformed script or manifest,
// checksum mismatch, or an id collision with an existing installation.
type InstallError struct {
	ID  string
	Err error
}

func (e *InstallError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("install extension: %s", e.Err)
	}
	return fmt.Sprintf("install extension %q: %s", e.ID, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// LoadError indicates a failed load: the extension is not installed or the
// host rejected initialization. Phase names the step that failed so the UI
// can distinguish "broken" from "missing".
type LoadError struct {
	ID    string
	Phase string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load extension %q (%s): %s", e.ID, e.Phase, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundError indicates an operation on an extension id with no registration.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("extension %q is not installed", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
