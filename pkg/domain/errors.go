package domain

import (
	"errors"
	"fmt"
)

// ErrContextNotFound is returned when a context key cannot be found in a store.
var ErrContextNotFound = errors.New("context not found")

// ErrContextInsufficient is returned when a resolved context does not carry
// enough information to start an engine.
var ErrContextInsufficient = errors.New("context is insufficient to start an engine")

// ErrMissingEnvironment is returned by the bootstrap when a required
// environment variable is absent.
var ErrMissingEnvironment = errors.New("missing required environment variable")

// ErrUnknownOperation is returned by the scene operation hook for an
// unrecognized operation name.
var ErrUnknownOperation = errors.New("unknown scene operation")

// FatalVersionError signals a host version below the supported minimum.
// It is non-recoverable: the engine must not start.
type FatalVersionError struct {
	Found   Version
	Minimum Version
}

func (e *FatalVersionError) Error() string {
	return fmt.Sprintf(
		"this version of the host (%s) is not supported, please upgrade to at least %s",
		e.Found, e.Minimum,
	)
}

// ResolutionError wraps a failure to derive a context from a scene path.
// It marks the recoverable, user-visible degraded mode.
type ResolutionError struct {
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve a context for %q: %v", e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// OperationError wraps host file I/O failures inside scene operation hooks
// so callers present a uniform toolkit-level message instead of the raw
// host error.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("scene operation %q failed for %q: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
