package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd checks a manifest without starting anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest without starting anything",
	Long: `Loads the manifest and performs the full static checks: YAML syntax,
template rendering, component types against the catalog, dependency
resolution and cycle detection. Exits non-zero on the first problem
found.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	application, err := inspect()
	if err != nil {
		return err
	}

	sys := application.System()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d components, start order %v\n",
		application.Manifest().Name, len(sys.Keys()), sys.Order())
	return nil
}
