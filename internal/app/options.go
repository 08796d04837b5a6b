package app

import "ensemble/internal/manifest"

// Options carries everything the bootstrap needs, populated from CLI flags.
type Options struct {
	// ManifestPath is the manifest file to load. Empty means the default
	// file name in the current directory.
	ManifestPath string

	// Debug lowers the log level to debug.
	Debug bool

	// Silent suppresses all log output. Useful under scripts and tests.
	Silent bool

	// Spinner shows a progress spinner instead of log lines while the
	// system starts and stops. Ignored when Debug or Silent is set.
	Spinner bool
}

// NewOptions returns Options for the given manifest path and verbosity flags.
func NewOptions(manifestPath string, debug, silent bool) *Options {
	return &Options{
		ManifestPath: manifestPath,
		Debug:        debug,
		Silent:       silent,
	}
}

// Path returns the manifest path to load, falling back to the default file
// name in the current directory.
func (o *Options) Path() string {
	if o.ManifestPath != "" {
		return o.ManifestPath
	}
	return manifest.DefaultFileName
}
