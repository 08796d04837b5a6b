// Package system composes independently defined components into a single
// application and drives their lifecycle in dependency order.
//
// A System is constructed from a map of unique string keys to
// component.Component values. Construction builds a directed graph from each
// component's declared dependency keys, validates it (every declared key must
// be registered, no cycles) and computes a deterministic topological start
// order. Start walks that order so every component runs after everything it
// depends on; Stop walks it in reverse so dependents are torn down before
// their dependencies.
//
// The lifecycle state machine is
//
//	created -> starting -> started -> stopping -> stopped
//
// Starting and stopping are transient failure windows: the first Start
// failure aborts the remaining sequence (already-started components stay up
// and a subsequent Stop tears down exactly that prefix), while Stop failures
// are collected and the sequence continues so every reachable component gets
// a teardown attempt. A stopped system is not restartable.
//
// Orchestration is strictly sequential and synchronous: each component's
// Start or Stop runs to completion on the calling goroutine before the next
// key. There is no per-component timeout; callers own cancellation through
// the context. Lookup via Get is safe for concurrent use, including from a
// component's own Start.
//
// Usage:
//
//	sys, err := system.New(map[string]component.Component{
//		"db":    db,
//		"cache": cache, // declared Using("db")
//		"api":   api,   // declared Using("db", "cache")
//	})
//	if err != nil {
//		return err // missing dependency or cycle, before anything ran
//	}
//	if err := sys.Start(ctx); err != nil {
//		sys.Stop(ctx) // tear down the started prefix
//		return err
//	}
//	defer sys.Stop(ctx)
package system
