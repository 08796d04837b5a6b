package cmd

import (
	"ensemble/internal/console"

	"github.com/spf13/cobra"
)

// consoleCmd opens the interactive inspector over a loaded manifest.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Inspect the system interactively",
	Long: `Loads the manifest, builds the system and opens an interactive console
for exploring it: component listing, start order, dependency edges.
Nothing is started. Commands complete with TAB; type 'help' inside the
console for the command list.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	application, err := inspect()
	if err != nil {
		return err
	}

	c := console.New(application.System(), application.Manifest())
	return c.Run(cmd.Context())
}
