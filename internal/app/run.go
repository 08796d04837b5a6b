package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ensemble/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/coreos/go-systemd/v22/daemon"
)

// Run starts the system, blocks until an interrupt signal or context
// cancellation, then stops it in reverse order.
//
// Signal handling:
//   - SIGINT (Ctrl+C): graceful shutdown
//   - SIGTERM: graceful shutdown (container environments)
//
// When running under systemd, readiness and shutdown are reported through
// sd_notify; outside systemd the calls are no-ops.
//
// A failed start stops the components that did start before returning the
// start error. Stop failures never mask a start error.
func (a *Application) Run(ctx context.Context) error {
	s := a.progressSpinner(fmt.Sprintf(" Starting %s...", a.manifest.Name))

	if err := a.sys.Start(ctx); err != nil {
		a.stopSpinner(s)
		logging.Error("Run", err, "Failed to start system")
		// Best effort: unwind whatever did start.
		if stopErr := a.sys.Stop(context.Background()); stopErr != nil {
			logging.Error("Run", stopErr, "Cleanup after failed start reported errors")
		}
		return err
	}
	a.stopSpinner(s)

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("Run", "Failed to notify systemd of readiness: %v", err)
	}
	logging.Info("Run", "System started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logging.Info("Run", "Received %s, shutting down", sig)
	case <-ctx.Done():
		logging.Info("Run", "Context cancelled, shutting down")
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logging.Warn("Run", "Failed to notify systemd of shutdown: %v", err)
	}

	s = a.progressSpinner(fmt.Sprintf(" Stopping %s...", a.manifest.Name))
	// The run context may already be cancelled; shutdown gets its own.
	err := a.sys.Stop(context.Background())
	a.stopSpinner(s)
	if err != nil {
		logging.Error("Run", err, "Shutdown completed with errors")
		return err
	}

	logging.Info("Run", "Shutdown complete")
	return nil
}

// progressSpinner returns a started spinner, or nil when spinner output is
// disabled or would interleave with log lines.
func (a *Application) progressSpinner(suffix string) *spinner.Spinner {
	if !a.opts.Spinner || a.opts.Silent || a.opts.Debug {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s
}

func (a *Application) stopSpinner(s *spinner.Spinner) {
	if s != nil {
		s.Stop()
	}
}
