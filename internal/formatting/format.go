// Package formatting renders system information for CLI output in the
// supported output formats: kubectl-style tables (plain and wide), JSON and
// YAML.
package formatting

import "fmt"

// Format represents the supported output formats for CLI commands.
type Format string

const (
	// FormatTable formats output as a table with the default columns.
	FormatTable Format = "table"
	// FormatWide formats output as a table with additional columns.
	FormatWide Format = "wide"
	// FormatJSON formats output as JSON data.
	FormatJSON Format = "json"
	// FormatYAML formats output as YAML data.
	FormatYAML Format = "yaml"
)

// ValidFormats contains all valid output format values.
var ValidFormats = []Format{
	FormatTable,
	FormatWide,
	FormatJSON,
	FormatYAML,
}

// Validate checks that the given format string is a supported output format.
func Validate(format string) error {
	switch Format(format) {
	case FormatTable, FormatWide, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (valid formats: table, wide, json, yaml)", format)
	}
}
