// Package cmd implements the rptkit subcommands.
//
// Commands receive a [context.Context] carrying the [kong.Context] and the
// [Runtime] built by package cli. Designer commands follow one pattern:
// open the template store, load the template into a designer session,
// apply one edit, and save.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file.
	ConfigIdentifier = "config"

	// DatabaseIdentifier is the kong variable identifier containing the
	// default template database path.
	DatabaseIdentifier = "database"
)
