package component

import "context"

// Func adapts a pair of closures into a Component. Useful for small glue
// components and tests where a dedicated type would be noise.
type Func struct {
	Base

	// OnStart runs when the component starts. Nil means start always
	// succeeds.
	OnStart func(ctx context.Context, sys Lookup) error

	// OnStop runs when the component stops. Nil means stop always
	// succeeds.
	OnStop func(ctx context.Context) error
}

// NewFunc builds a Func component from the given hooks and dependency keys.
// Either hook may be nil.
func NewFunc(onStart func(ctx context.Context, sys Lookup) error, onStop func(ctx context.Context) error, deps ...string) *Func {
	return &Func{
		Base:    NewBase(deps...),
		OnStart: onStart,
		OnStop:  onStop,
	}
}

func (f *Func) Start(ctx context.Context, sys Lookup) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx, sys)
}

func (f *Func) Stop(ctx context.Context) error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop(ctx)
}
