// Package component defines the capability contract implemented by anything
// a system can manage: a Start/Stop lifecycle pair plus a static declaration
// of the component keys it depends on.
package component

import "context"

// Component is a unit with runtime state that needs explicit lifecycle
// management. Implementations declare their dependencies up front; the
// orchestrator starts those first and stops them last.
type Component interface {
	// Start acquires the component's runtime resources (connections,
	// files, listeners). It runs after every declared dependency has
	// started successfully; implementations may pull dependencies out of
	// sys by key.
	Start(ctx context.Context, sys Lookup) error

	// Stop releases whatever Start acquired. It runs before any of the
	// component's dependencies are stopped.
	Stop(ctx context.Context) error

	// Dependencies returns the keys that must be started before this
	// component. The set must be stable once the component is handed to a
	// system.
	Dependencies() []string
}

// Lookup resolves registered components by key. The system orchestrator
// implements it; it is declared here so component implementations never
// import the orchestrator package. References obtained through Get are
// non-owning and must not outlive the system.
type Lookup interface {
	Get(key string) (Component, error)
}
