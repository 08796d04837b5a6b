package cmd

import (
	"fmt"

	"ensemble/internal/app"

	"github.com/spf13/cobra"
)

// upNoSpinner disables the progress spinner during startup and shutdown.
var upNoSpinner bool

// upCmd starts the system described by the manifest and keeps it running
// until interrupted.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the system and run until interrupted",
	Long: `Loads the manifest, starts every component in dependency order and
keeps the system running until SIGINT or SIGTERM, then stops the
components in reverse order.

A component that fails to start aborts the startup; components that
already started are stopped before the command exits with an error.`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func runUp(cmd *cobra.Command, args []string) error {
	opts := app.NewOptions(manifestPath, debug, silent)
	opts.Spinner = !upNoSpinner

	application, err := app.NewApplication(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(cmd.Context())
}

func init() {
	upCmd.Flags().BoolVar(&upNoSpinner, "no-spinner", false, "disable the startup progress spinner")
}
