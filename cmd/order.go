package cmd

import (
	"fmt"

	"ensemble/internal/app"
	"ensemble/internal/formatting"

	"github.com/spf13/cobra"
)

var (
	// orderReverse prints the stop order instead of the start order.
	orderReverse bool

	// orderLevels includes the parallelizable level of each component.
	orderLevels bool

	// orderOutput selects the output format.
	orderOutput string
)

// orderCmd prints the computed start order without starting anything.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the computed start order",
	Long: `Loads the manifest, resolves dependencies and prints the order in
which components would start. Components appear after everything they
depend on; the order is deterministic across runs.

With --reverse the stop order is printed instead. With --levels each
component is annotated with its dependency level: components on the
same level have no dependencies between them and could start in
parallel. Levels describe the start order, so the two flags cannot be
combined.`,
	Args: cobra.NoArgs,
	RunE: runOrder,
}

func runOrder(cmd *cobra.Command, args []string) error {
	if orderReverse && orderLevels {
		return fmt.Errorf("--reverse and --levels cannot be combined: levels describe the start order")
	}
	if err := formatting.Validate(orderOutput); err != nil {
		return err
	}
	format := formatting.Format(orderOutput)

	application, err := inspect()
	if err != nil {
		return err
	}
	sys := application.System()

	view := formatting.OrderView{
		System: application.Manifest().Name,
		Order:  sys.Order(),
	}
	if orderReverse {
		order := view.Order
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	} else if orderLevels {
		view.Levels = sys.Levels()
	}

	return formatting.WriteOrder(cmd.OutOrStdout(), format, view)
}

// inspect bootstraps the application for read-only commands. Logging is
// suppressed unless --debug is set, so command output stays parseable.
func inspect() (*app.Application, error) {
	opts := app.NewOptions(manifestPath, debug, !debug)
	application, err := app.NewApplication(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

func init() {
	orderCmd.Flags().BoolVar(&orderReverse, "reverse", false, "print the stop order instead")
	orderCmd.Flags().BoolVar(&orderLevels, "levels", false, "annotate components with their dependency level")
	orderCmd.Flags().StringVarP(&orderOutput, "output", "o", "table", "output format (table|wide|json|yaml)")
}
