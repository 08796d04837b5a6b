package cmd

import (
	"ensemble/internal/formatting"

	"github.com/spf13/cobra"
)

// listOutput selects the output format.
var listOutput string

// listCmd prints the components declared in the manifest.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the components declared in the manifest",
	Long: `Loads the manifest and lists every declared component with its type
and dependencies. The wide format adds each component's position in the
start order and the system state.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if err := formatting.Validate(listOutput); err != nil {
		return err
	}
	format := formatting.Format(listOutput)

	application, err := inspect()
	if err != nil {
		return err
	}
	sys := application.System()
	m := application.Manifest()

	position := make(map[string]int, len(sys.Order()))
	for i, key := range sys.Order() {
		position[key] = i + 1
	}

	rows := make([]formatting.ComponentRow, 0, len(m.Components))
	for _, key := range m.Keys() {
		spec := m.Components[key]
		rows = append(rows, formatting.ComponentRow{
			Key:          key,
			Type:         spec.Type,
			Dependencies: sys.DependenciesOf(key),
			Position:     position[key],
			State:        string(sys.State()),
		})
	}

	return formatting.WriteList(cmd.OutOrStdout(), format, rows)
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format (table|wide|json|yaml)")
}
