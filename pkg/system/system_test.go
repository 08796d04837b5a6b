package system

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ensemble/pkg/component"
	"ensemble/pkg/dag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// callLog records lifecycle invocations across components so tests can
// assert on relative ordering.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// recorded builds a component that appends "start <key>"/"stop <key>" to the
// log on each lifecycle call.
func recorded(log *callLog, key string, deps ...string) component.Component {
	return component.NewFunc(
		func(ctx context.Context, sys component.Lookup) error {
			log.record("start " + key)
			return nil
		},
		func(ctx context.Context) error {
			log.record("stop " + key)
			return nil
		},
		deps...,
	)
}

// failing builds a component whose Start and/or Stop fail with the given
// errors, still recording its calls.
func failing(log *callLog, key string, startErr, stopErr error, deps ...string) component.Component {
	return component.NewFunc(
		func(ctx context.Context, sys component.Lookup) error {
			log.record("start " + key)
			return startErr
		},
		func(ctx context.Context) error {
			log.record("stop " + key)
			return stopErr
		},
		deps...,
	)
}

func TestNewRejectsMissingDependency(t *testing.T) {
	log := &callLog{}
	_, err := New(map[string]component.Component{
		"api": recorded(log, "api", "db"),
	})

	require.Error(t, err)
	assert.True(t, IsMissingDependency(err))
	assert.Contains(t, err.Error(), `"api"`)
	assert.Contains(t, err.Error(), `"db"`)
	assert.Empty(t, log.snapshot(), "no component may run before validation passes")
}

func TestNewRejectsCycle(t *testing.T) {
	log := &callLog{}
	_, err := New(map[string]component.Component{
		"a": recorded(log, "a", "b"),
		"b": recorded(log, "b", "a"),
	})

	require.Error(t, err)
	assert.NotNil(t, dag.AsCycleError[string](err))
	assert.Empty(t, log.snapshot())
}

func TestNewRejectsSelfDependency(t *testing.T) {
	log := &callLog{}
	_, err := New(map[string]component.Component{
		"a": recorded(log, "a", "a"),
	})

	assert.Error(t, err)
}

func TestNewRejectsNilComponentAndEmptyKey(t *testing.T) {
	_, err := New(map[string]component.Component{"db": nil})
	assert.Error(t, err)

	log := &callLog{}
	_, err = New(map[string]component.Component{"": recorded(log, "x")})
	assert.Error(t, err)
}

func TestOrderPlacesDependenciesFirst(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"api":    recorded(log, "api", "db", "cache"),
		"cache":  recorded(log, "cache", "db"),
		"db":     recorded(log, "db"),
		"worker": recorded(log, "worker", "queue"),
		"queue":  recorded(log, "queue"),
	})
	require.NoError(t, err)

	order := sys.Order()
	pos := make(map[string]int, len(order))
	for i, key := range order {
		pos[key] = i
	}
	for _, key := range sys.Keys() {
		for _, dep := range sys.DependenciesOf(key) {
			assert.Less(t, pos[dep], pos[key], "%s must start after %s", key, dep)
		}
	}
}

func TestOrderIsDeterministic(t *testing.T) {
	build := func() *System {
		log := &callLog{}
		sys, err := New(map[string]component.Component{
			"api":    recorded(log, "api", "db", "cache"),
			"cache":  recorded(log, "cache", "db"),
			"db":     recorded(log, "db"),
			"worker": recorded(log, "worker", "db"),
			"queue":  recorded(log, "queue"),
		})
		require.NoError(t, err)
		return sys
	}

	first := build().Order()
	for i := 0; i < 25; i++ {
		assert.Equal(t, first, build().Order(), "run %d produced a different order", i)
	}

	// Repeated reads of the same instance agree too.
	sys := build()
	assert.Equal(t, sys.Order(), sys.Order())
}

func TestStartStopEndToEnd(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": recorded(log, "cache", "db"),
		"api":   recorded(log, "api", "db", "cache"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sys.Start(ctx))
	assert.Equal(t, StateStarted, sys.State())
	assert.Equal(t, []string{"start db", "start cache", "start api"}, log.snapshot())

	require.NoError(t, sys.Stop(ctx))
	assert.Equal(t, StateStopped, sys.State())
	assert.Equal(t, []string{
		"start db", "start cache", "start api",
		"stop api", "stop cache", "stop db",
	}, log.snapshot())
}

func TestStartFailureAbortsSequence(t *testing.T) {
	boom := errors.New("connection refused")
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": failing(log, "cache", boom, nil, "db"),
		"api":   recorded(log, "api", "db", "cache"),
	})
	require.NoError(t, err)

	err = sys.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsStartError(err))
	assert.ErrorIs(t, err, boom)

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "cache", startErr.Key)

	assert.Equal(t, []string{"start db", "start cache"}, log.snapshot(),
		"api must never start once cache failed")
}

func TestStopAfterFailedStartStopsStartedPrefix(t *testing.T) {
	boom := errors.New("boom")
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": failing(log, "cache", boom, nil, "db"),
		"api":   recorded(log, "api", "cache"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.Error(t, sys.Start(ctx))
	require.NoError(t, sys.Stop(ctx))

	// Only db completed Start, so only db is stopped. The failed cache and
	// the never-reached api get no Stop call.
	assert.Equal(t, []string{"start db", "start cache", "stop db"}, log.snapshot())
	assert.Equal(t, StateStopped, sys.State())
}

func TestStopWithoutStartWalksFullReverseOrder(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": recorded(log, "cache", "db"),
		"api":   recorded(log, "api", "cache"),
	})
	require.NoError(t, err)

	require.NoError(t, sys.Stop(context.Background()))
	assert.Equal(t, []string{"stop api", "stop cache", "stop db"}, log.snapshot())
}

func TestStopContinuesPastFailures(t *testing.T) {
	dbErr := errors.New("db teardown failed")
	apiErr := errors.New("api teardown failed")
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    failing(log, "db", nil, dbErr),
		"cache": recorded(log, "cache", "db"),
		"api":   failing(log, "api", nil, apiErr, "cache"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sys.Start(ctx))

	err = sys.Stop(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.ErrorIs(t, err, apiErr)

	// Every component received its stop attempt despite the failures.
	assert.Equal(t, []string{
		"start db", "start cache", "start api",
		"stop api", "stop cache", "stop db",
	}, log.snapshot())

	var stopErr *StopError
	require.ErrorAs(t, err, &stopErr)
	assert.True(t, IsStopError(err))
}

func TestStartTwiceFails(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{"db": recorded(log, "db")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sys.Start(ctx))

	err = sys.Start(ctx)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "start", stateErr.Op)
	assert.Equal(t, StateStarted, stateErr.State)
}

func TestStartAfterStopFails(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{"db": recorded(log, "db")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sys.Start(ctx))
	require.NoError(t, sys.Stop(ctx))

	assert.True(t, IsInvalidState(sys.Start(ctx)), "a stopped system is not restartable")
}

func TestStopTwiceIsNoOp(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{"db": recorded(log, "db")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sys.Start(ctx))
	require.NoError(t, sys.Stop(ctx))
	require.NoError(t, sys.Stop(ctx))

	assert.Equal(t, []string{"start db", "stop db"}, log.snapshot())
}

func TestStartHonorsContextCancellation(t *testing.T) {
	log := &callLog{}
	ctx, cancel := context.WithCancel(context.Background())

	sys, err := New(map[string]component.Component{
		"db": component.NewFunc(
			func(ctx context.Context, sys component.Lookup) error {
				log.record("start db")
				cancel() // cancel mid-sequence
				return nil
			},
			nil,
		),
		"api": recorded(log, "api", "db"),
	})
	require.NoError(t, err)

	err = sys.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"start db"}, log.snapshot())
}

func TestGetReturnsRegisteredInstance(t *testing.T) {
	log := &callLog{}
	db := recorded(log, "db")
	sys, err := New(map[string]component.Component{"db": db})
	require.NoError(t, err)

	got, err := sys.Get("db")
	require.NoError(t, err)
	assert.Same(t, db, got)

	_, err = sys.Get("missing")
	require.Error(t, err)
	assert.True(t, IsComponentNotFound(err))
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestComponentPullsDependencyDuringStart(t *testing.T) {
	log := &callLog{}
	db := recorded(log, "db")

	var seen component.Component
	cache := component.NewFunc(
		func(ctx context.Context, sys component.Lookup) error {
			got, err := sys.Get("db")
			if err != nil {
				return err
			}
			seen = got
			return nil
		},
		nil,
		"db",
	)

	sys, err := New(map[string]component.Component{"db": db, "cache": cache})
	require.NoError(t, err)
	require.NoError(t, sys.Start(context.Background()))
	assert.Same(t, db, seen, "lookup during Start must yield the registered instance")
}

func TestLevelsGroupIndependentComponents(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"queue": recorded(log, "queue"),
		"api":   recorded(log, "api", "db", "queue"),
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"db", "queue"}, {"api"}}, sys.Levels())
}

func TestDependentsOf(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": recorded(log, "cache", "db"),
		"api":   recorded(log, "api", "db", "cache"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "cache"}, sys.DependentsOf("db"))
	assert.Equal(t, []string{"api"}, sys.DependentsOf("cache"))
	assert.Empty(t, sys.DependentsOf("api"))
}

func TestLifecycleEvents(t *testing.T) {
	var events []Event
	log := &callLog{}
	boom := errors.New("boom")

	sys, err := New(map[string]component.Component{
		"db":    recorded(log, "db"),
		"cache": failing(log, "cache", boom, nil, "db"),
	}, WithObserver(func(e Event) {
		events = append(events, e)
	}))
	require.NoError(t, err)

	ctx := context.Background()
	require.Error(t, sys.Start(ctx))
	require.NoError(t, sys.Stop(ctx))

	var reasons []EventReason
	for _, e := range events {
		reasons = append(reasons, e.Reason)
		assert.Equal(t, sys.ID(), e.SystemID)
		assert.False(t, e.At.IsZero())
	}
	assert.Equal(t, []EventReason{
		ReasonSystemStarting,
		ReasonComponentStarting, ReasonComponentStarted, // db
		ReasonComponentStarting, ReasonComponentStartFailed, // cache
		ReasonSystemStopping,
		ReasonComponentStopping, ReasonComponentStopped, // db
		ReasonSystemStopped,
	}, reasons)

	assert.Equal(t, EventTypeWarning, events[4].Type())
	assert.Equal(t, EventTypeNormal, events[0].Type())
	assert.ErrorIs(t, events[4].Err, boom)
}

func TestNestedSystems(t *testing.T) {
	log := &callLog{}

	inner, err := New(map[string]component.Component{
		"inner-db":  recorded(log, "inner-db"),
		"inner-api": recorded(log, "inner-api", "inner-db"),
	}, WithName("inner"))
	require.NoError(t, err)

	outer, err := New(map[string]component.Component{
		"config":  recorded(log, "config"),
		"storage": inner.Using("config").AsComponent(),
		"web":     recorded(log, "web", "storage"),
	}, WithName("outer"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, outer.Start(ctx))
	assert.Equal(t, []string{
		"start config", "start inner-db", "start inner-api", "start web",
	}, log.snapshot())

	require.NoError(t, outer.Stop(ctx))
	assert.Equal(t, []string{
		"start config", "start inner-db", "start inner-api", "start web",
		"stop web", "stop inner-api", "stop inner-db", "stop config",
	}, log.snapshot())
	assert.Equal(t, StateStopped, inner.State())
}

func TestConcurrentLookupsDuringStarted(t *testing.T) {
	log := &callLog{}
	sys, err := New(map[string]component.Component{
		"db":  recorded(log, "db"),
		"api": recorded(log, "api", "db"),
	})
	require.NoError(t, err)
	require.NoError(t, sys.Start(context.Background()))

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				if _, err := sys.Get("db"); err != nil {
					return err
				}
				if got := len(sys.Order()); got != 2 {
					return fmt.Errorf("unexpected order length %d", got)
				}
				if sys.State() == "" {
					return errors.New("empty state")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestSystemIdentity(t *testing.T) {
	log := &callLog{}
	a, err := New(map[string]component.Component{"db": recorded(log, "db")}, WithName("alpha"))
	require.NoError(t, err)
	b, err := New(map[string]component.Component{"db": recorded(log, "db")}, WithName("beta"))
	require.NoError(t, err)

	assert.Equal(t, "alpha", a.Name())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, []string{"db"}, a.Keys())
	assert.Equal(t, StateCreated, a.State())
}
