package system

import (
	"context"

	"ensemble/pkg/component"
)

// Using sets the dependency keys the system declares when nested inside a
// larger system, and returns the receiver for chaining. It has no effect on
// the system's own components.
func (s *System) Using(keys ...string) *System {
	s.Base.Using(keys...)
	return s
}

// AsComponent adapts the system into a component, so a whole system can be
// registered under a key inside a larger one and participate in its ordering
// like any other component. Starting the outer system starts the inner one's
// components; the dependency keys come from Using on the inner system.
func (s *System) AsComponent() component.Component {
	return &nested{s: s}
}

// nested bridges the signature gap: a component's Start receives the parent
// system for lookup, which a self-contained inner system has no use for.
type nested struct {
	s *System
}

func (n *nested) Start(ctx context.Context, _ component.Lookup) error {
	return n.s.Start(ctx)
}

func (n *nested) Stop(ctx context.Context) error {
	return n.s.Stop(ctx)
}

func (n *nested) Dependencies() []string {
	return n.s.Dependencies()
}
