// Package cli implements the verdict command-line interface.
//
// The interface is declared as a [kong] grammar on the [CLI] struct. Three
// subcommands are provided: eval compiles a rule and evaluates it against
// YAML data documents, check parses and type-checks a rule without
// evaluating it, and repl starts an interactive session.
//
// Flag defaults can be stored in a configuration file under the user config
// directory, either as JSON (config.json) or YAML (config.yaml). Logging and
// profiling flags are grouped and shared by all subcommands; logger flags
// are applied by an early argument scan so that diagnostics emitted during
// parsing already use the requested format.
//
// [kong]: https://github.com/alecthomas/kong
package cli
