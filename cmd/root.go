package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// manifestPath specifies the manifest file to operate on.
// Empty means ensemble.yaml in the current directory.
var manifestPath string

// debug enables verbose logging across the application.
var debug bool

// silent suppresses all log output. Useful for scripting where only the
// command's own output should reach stdout.
var silent bool

// rootCmd represents the base command for the ensemble application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Start and stop groups of components in dependency order",
	Long: `ensemble reads a manifest describing a group of components and their
dependencies, computes a deterministic start order, and runs the whole
group as one unit: start in dependency order, stop in reverse.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is typically called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ensemble version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "f", "", "manifest file (default ensemble.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&silent, "silent", false, "suppress log output")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
