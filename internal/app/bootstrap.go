package app

import (
	"fmt"
	"io"
	"os"

	"ensemble/internal/catalog"
	"ensemble/internal/manifest"
	"ensemble/pkg/logging"
	"ensemble/pkg/system"
)

// Application bundles a loaded manifest and the system built from it.
//
// The bootstrap runs in two phases:
//  1. NewApplication: init logging, load the manifest, build the components
//     through the catalog and assemble the system. Everything that can fail
//     statically fails here, before anything starts.
//  2. Run: start the system, block until a shutdown signal, stop it.
type Application struct {
	opts     *Options
	manifest *manifest.Manifest
	sys      *system.System
}

// NewApplication loads the manifest named by opts and builds the system from
// it. Returns an error if the manifest cannot be loaded, a component type is
// unknown, or dependency resolution fails.
func NewApplication(opts *Options) (*Application, error) {
	level := logging.LevelInfo
	if opts.Debug {
		level = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if opts.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(level, logOutput)

	m, err := manifest.Load(opts.Path())
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load manifest from %s", opts.Path())
		return nil, fmt.Errorf("failed to load manifest from %s: %w", opts.Path(), err)
	}

	components, err := manifest.Build(m, catalog.New())
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to build components")
		return nil, fmt.Errorf("failed to build components: %w", err)
	}

	observers := []system.Option{
		system.WithName(m.Name),
		system.WithObserver(logObserver),
	}
	// Every metrics component in the manifest observes the whole system.
	for _, comp := range components {
		if metrics, ok := comp.(*catalog.Metrics); ok {
			observers = append(observers, system.WithObserver(metrics.Observer()))
		}
	}

	sys, err := system.New(components, observers...)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to assemble system")
		return nil, fmt.Errorf("failed to assemble system: %w", err)
	}

	logging.Info("Bootstrap", "System %q ready: %d components, start order %v", m.Name, len(sys.Keys()), sys.Order())

	return &Application{
		opts:     opts,
		manifest: m,
		sys:      sys,
	}, nil
}

// Manifest returns the loaded manifest.
func (a *Application) Manifest() *manifest.Manifest {
	return a.manifest
}

// System returns the assembled, not-yet-started system.
func (a *Application) System() *system.System {
	return a.sys
}

// logObserver writes lifecycle events to the application log.
func logObserver(ev system.Event) {
	switch ev.Type() {
	case system.EventTypeWarning:
		logging.Error("System", ev.Err, "%s: %s", ev.Reason, ev.Key)
	default:
		if ev.Key != "" {
			logging.Debug("System", "%s: %s", ev.Reason, ev.Key)
		} else {
			logging.Info("System", "%s", ev.Reason)
		}
	}
}
