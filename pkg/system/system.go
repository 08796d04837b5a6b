package system

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ensemble/pkg/component"
	"ensemble/pkg/dag"
	"ensemble/pkg/logging"

	"github.com/google/uuid"
)

// State represents the lifecycle state of a system.
type State string

const (
	// StateCreated is the state of a freshly constructed system.
	StateCreated State = "created"

	// StateStarting is the transient state while the start sequence runs.
	StateStarting State = "starting"

	// StateStarted is the state after every component started successfully.
	StateStarted State = "started"

	// StateStopping is the transient state while the stop sequence runs.
	StateStopping State = "stopping"

	// StateStopped is the terminal state. A stopped system is not
	// restartable; construct a new one instead.
	StateStopped State = "stopped"
)

// System owns a fixed collection of components and drives their lifecycle in
// dependency order. It is the sole long-lived holder of the key->component
// map; components obtain references to each other only through Get, during
// their own Start.
type System struct {
	component.Base

	id    string
	name  string
	graph *dag.DirectedAcyclicGraph[string]
	order []string

	observers []Observer

	mu         sync.RWMutex
	components map[string]component.Component
	state      State
	started    []string
}

// Option configures a System at construction time.
type Option func(*System)

// WithName sets a human-readable name used in logs and display output.
func WithName(name string) Option {
	return func(s *System) { s.name = name }
}

// WithObserver registers an observer for lifecycle events. Observers cannot
// be added after construction; the slice is read without locking during
// Start and Stop.
func WithObserver(observer Observer) Option {
	return func(s *System) { s.observers = append(s.observers, observer) }
}

// New builds a system from the given key->component map. It validates the
// declared dependency graph immediately: every declared dependency key must
// be registered (MissingDependencyError otherwise) and the graph must be
// acyclic (dag.CycleError otherwise), so a constructed system always has a
// well-defined start order. The map itself is copied and never mutated.
func New(components map[string]component.Component, opts ...Option) (*System, error) {
	s := &System{
		id:         uuid.New().String(),
		name:       "system",
		components: make(map[string]component.Component, len(components)),
		state:      StateCreated,
	}
	for _, opt := range opts {
		opt(s)
	}

	keys := make([]string, 0, len(components))
	for key, comp := range components {
		if key == "" {
			return nil, errors.New("component key cannot be empty")
		}
		if comp == nil {
			return nil, &ComponentNotFoundError{Key: key}
		}
		keys = append(keys, key)
		s.components[key] = comp
	}
	// Lexicographic rank is the tie-break between components with no
	// dependency relation. Go maps have no insertion order to preserve,
	// so the rank pins a deterministic total order for a given map.
	sort.Strings(keys)

	s.graph = dag.NewDirectedAcyclicGraph[string]()
	for i, key := range keys {
		if err := s.graph.AddVertex(key, i); err != nil {
			return nil, err
		}
	}
	for _, key := range keys {
		deps := s.components[key].Dependencies()
		for _, dep := range deps {
			if _, ok := s.components[dep]; !ok {
				return nil, &MissingDependencyError{Component: key, Dependency: dep}
			}
		}
		if err := s.graph.AddDependencies(key, deps); err != nil {
			return nil, err
		}
	}

	order, err := s.graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	s.order = order

	logging.Debug("System", "Constructed system %s (%s) with %d components", s.name, s.id, len(s.order))
	return s, nil
}

// ID returns the unique instance identifier assigned at construction, used
// to correlate log lines and events.
func (s *System) ID() string {
	return s.id
}

// Name returns the system's display name.
func (s *System) Name() string {
	return s.name
}

// State returns the current lifecycle state.
func (s *System) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Keys returns all registered component keys in lexicographic order.
func (s *System) Keys() []string {
	keys := make([]string, 0, len(s.components))
	for key := range s.components {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Order returns the start order: every component appears after everything it
// depends on. The reverse of this sequence is the stop order. The result is
// identical across calls for the same system.
func (s *System) Order() []string {
	return append([]string(nil), s.order...)
}

// Levels returns the start order grouped into levels: each component's
// dependencies live in strictly earlier levels. Levels are display metadata;
// startup remains strictly sequential.
func (s *System) Levels() [][]string {
	// The graph was validated acyclic at construction.
	levels, _ := s.graph.TopologicalSortLevels()
	return levels
}

// DependenciesOf returns the declared dependency keys of the given component,
// in deterministic order. Unknown keys yield nil.
func (s *System) DependenciesOf(key string) []string {
	return s.graph.Dependencies(key)
}

// DependentsOf returns the keys of components that directly depend on the
// given component, in deterministic order.
func (s *System) DependentsOf(key string) []string {
	return s.graph.Dependents(key)
}

// Get returns the component registered under key, or a ComponentNotFoundError
// naming the missing key. The returned reference is non-owning and must not
// outlive the system. Safe for concurrent use, including from component Start
// callbacks.
func (s *System) Get(key string) (component.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.components[key]
	if !ok {
		return nil, &ComponentNotFoundError{Key: key}
	}
	return comp, nil
}

// Start transitions every component from not-started to started, in
// dependency order. When a component's Start runs, everything it transitively
// depends on has already started successfully.
//
// The first component failure aborts the remaining sequence and is returned
// as a StartError naming the failing key. Components already started stay
// started; Stop remains callable and stops exactly that prefix. Start is only
// legal on a system in StateCreated.
func (s *System) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateCreated {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Op: "start", State: state}
	}
	s.state = StateStarting
	s.mu.Unlock()

	logging.Info("System", "Starting system %s (%s): %d components", s.name, s.id, len(s.order))
	s.emit(ReasonSystemStarting, "", nil)

	for _, key := range s.order {
		if err := ctx.Err(); err != nil {
			startErr := &StartError{Key: key, Err: err}
			s.emit(ReasonComponentStartFailed, key, startErr)
			return startErr
		}

		comp := s.components[key]
		s.emit(ReasonComponentStarting, key, nil)
		logging.Debug("System", "Starting component %q", key)

		if err := comp.Start(ctx, s); err != nil {
			startErr := &StartError{Key: key, Err: err}
			logging.Error("System", err, "Failed to start component %q", key)
			s.emit(ReasonComponentStartFailed, key, startErr)
			return startErr
		}

		s.mu.Lock()
		s.started = append(s.started, key)
		s.mu.Unlock()
		s.emit(ReasonComponentStarted, key, nil)
		logging.Info("System", "Started component %q", key)
	}

	s.mu.Lock()
	s.state = StateStarted
	s.mu.Unlock()
	s.emit(ReasonSystemStarted, "", nil)
	logging.Info("System", "System %s started", s.name)
	return nil
}

// Stop transitions components to stopped in reverse start order, dependents
// before their dependencies. Stop is independently callable: on a system that
// never started it walks the full order in reverse; after a failed Start it
// stops exactly the components that actually started.
//
// Stop continues past individual failures so every reachable component gets a
// stop attempt; failures are collected as StopErrors and returned joined.
// Stop of an already stopped system is a no-op.
func (s *System) Stop(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateStopped:
		s.mu.Unlock()
		return nil
	case StateStopping:
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Op: "stop", State: state}
	}
	var toStop []string
	if s.state == StateCreated {
		// Never started: every component gets a stop attempt, in
		// reverse dependency order.
		toStop = append(toStop, s.order...)
	} else {
		toStop = append(toStop, s.started...)
	}
	s.state = StateStopping
	s.mu.Unlock()

	logging.Info("System", "Stopping system %s (%s): %d components", s.name, s.id, len(toStop))
	s.emit(ReasonSystemStopping, "", nil)

	var errs []error
	for i := len(toStop) - 1; i >= 0; i-- {
		key := toStop[i]
		comp := s.components[key]

		s.emit(ReasonComponentStopping, key, nil)
		logging.Debug("System", "Stopping component %q", key)

		// Failures do not abort the loop: components earlier in the
		// reverse order still hold resources and their teardown is
		// still reachable.
		if err := comp.Stop(ctx); err != nil {
			stopErr := &StopError{Key: key, Err: err}
			errs = append(errs, stopErr)
			logging.Error("System", err, "Failed to stop component %q", key)
			s.emit(ReasonComponentStopFailed, key, stopErr)
			continue
		}
		s.emit(ReasonComponentStopped, key, nil)
		logging.Info("System", "Stopped component %q", key)
	}

	s.mu.Lock()
	s.state = StateStopped
	s.started = nil
	s.mu.Unlock()
	s.emit(ReasonSystemStopped, "", nil)
	logging.Info("System", "System %s stopped (%d failures)", s.name, len(errs))
	return errors.Join(errs...)
}

// emit delivers a lifecycle event to every observer. Runs outside the state
// lock so observers may call Get, State or Order.
func (s *System) emit(reason EventReason, key string, err error) {
	if len(s.observers) == 0 {
		return
	}
	event := Event{
		Reason:   reason,
		Key:      key,
		SystemID: s.id,
		Err:      err,
		At:       time.Now(),
	}
	for _, observer := range s.observers {
		observer(event)
	}
}
