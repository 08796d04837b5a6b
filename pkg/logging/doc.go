// Package logging provides a structured logging system for ensemble with
// unified log handling and flexible output formatting.
//
// This package implements a logging system built on Go's standard slog
// package, providing consistent logging behavior with structured output and
// level filtering.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// All log entries include a timestamp, the log level, a subsystem identifier
// for categorization, the message content and optional error information.
//
// # Usage
//
//	import "ensemble/pkg/logging"
//
//	// Initialize with Info level logging to stdout
//	logging.Init(logging.LevelInfo, os.Stdout)
//
//	// Log messages
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Manifest", "Loaded manifest from %s", path)
//	logging.Warn("System", "Component %q declared no dependencies", key)
//	logging.Error("Catalog", err, "Failed to open store")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Manifest**: Manifest loading and validation
//   - **System**: Component lifecycle orchestration
//   - **Catalog**: Built-in component implementations
//   - **Console**: Interactive inspector operations
//
// # Thread Safety
//
// The logging system is fully thread-safe: concurrent logging from multiple
// goroutines is safe and level filtering happens at the handler, so
// filtered-out messages cost no allocation.
package logging
