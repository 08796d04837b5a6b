package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// versionOutput selects the output format for the version command.
var versionOutput string

// newVersionCmd creates the Cobra command for displaying the application
// version. The version itself is injected through SetVersion at build time.
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ensemble",
		Long:  `All software has versions. This is ensemble's.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionOutput == "json" {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				return encoder.Encode(map[string]string{"version": rootCmd.Version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ensemble version %s\n", rootCmd.Version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&versionOutput, "output", "o", "", "output format (json)")
	return cmd
}
