// Package app bootstraps and runs an ensemble system.
//
// The bootstrap sequence (NewApplication) initializes logging, loads the
// manifest, builds components through the catalog and assembles the system.
// Run then drives the lifecycle: start in dependency order, report readiness
// to systemd when present, wait for SIGINT/SIGTERM or context cancellation,
// and stop in reverse order.
//
// Commands that only inspect a manifest (order, list, validate, console) use
// NewApplication for the bootstrap and skip Run.
package app
