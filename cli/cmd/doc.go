// Package cmd implements the verdict subcommands: eval, check, and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the default configuration file (without extension).
	ConfigIdentifier = "config"

	// TimezoneDefault is the kong variable identifier containing the default
	// timezone name used by the --timezone flags.
	TimezoneDefault = "timezone"
)
