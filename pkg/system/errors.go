package system

import (
	"errors"
	"fmt"
)

// MissingDependencyError indicates that a component declared a dependency key
// that is not registered in the system. It is raised during graph
// construction, before any component's lifecycle runs.
type MissingDependencyError struct {
	// Component is the key of the component declaring the dependency.
	Component string

	// Dependency is the declared key that is absent from the system.
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("component %q depends on %q, which is not registered in the system", e.Component, e.Dependency)
}

// IsMissingDependency checks if an error is or wraps a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var missingErr *MissingDependencyError
	return errors.As(err, &missingErr)
}

// ComponentNotFoundError indicates a lookup of a key that is not registered
// in the system.
type ComponentNotFoundError struct {
	// Key is the key that was looked up.
	Key string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %q not found in the system", e.Key)
}

// IsComponentNotFound checks if an error is or wraps a ComponentNotFoundError.
func IsComponentNotFound(err error) bool {
	var notFoundErr *ComponentNotFoundError
	return errors.As(err, &notFoundErr)
}

// StartError wraps a failure from a component's own Start, annotated with the
// failing key. Unwrap yields the component's error.
type StartError struct {
	// Key identifies the component whose Start failed.
	Key string

	// Err is the error the component returned.
	Err error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("starting component %q: %v", e.Key, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// IsStartError checks if an error is or wraps a StartError.
func IsStartError(err error) bool {
	var startErr *StartError
	return errors.As(err, &startErr)
}

// StopError wraps a failure from a component's own Stop, annotated with the
// failing key. Stop aggregates StopErrors with errors.Join, so a single
// returned error may carry several; use errors.As to pick one out.
type StopError struct {
	// Key identifies the component whose Stop failed.
	Key string

	// Err is the error the component returned.
	Err error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("stopping component %q: %v", e.Key, e.Err)
}

func (e *StopError) Unwrap() error {
	return e.Err
}

// IsStopError checks if an error is or wraps a StopError.
func IsStopError(err error) bool {
	var stopErr *StopError
	return errors.As(err, &stopErr)
}

// InvalidStateError indicates a lifecycle operation that is not legal in the
// system's current state, such as starting an already started system.
type InvalidStateError struct {
	// Op is the operation that was attempted ("start" or "stop").
	Op string

	// State is the state the system was in.
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s system in state %q", e.Op, e.State)
}

// IsInvalidState checks if an error is or wraps an InvalidStateError.
func IsInvalidState(err error) bool {
	var stateErr *InvalidStateError
	return errors.As(err, &stateErr)
}
