package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// a YAML document.
//
// The document is a flat mapping from flag names to values. Hyphenated flag
// names (for example, "log-level") may use underscores in the file
// ("log_level"). Command-line flags override config file values.
//
// Example:
//
//	log_level: debug
//	log_format: json
//	timezone: America/Chicago
func resolve() kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		err := yaml.NewDecoder(r).Decode(&raw)
		if err != nil {
			// An empty file is an empty configuration.
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			return nil, err
		}

		cfg := make(config, len(raw))
		for key, val := range raw {
			cfg[key] = flagValue(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Underscore variant of a hyphenated flag name.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Unset values defer to Kong defaults.
	return nil, nil //nolint:nilnil
}

// flagValue normalizes a decoded YAML value for Kong, which parses numeric
// flag values from strings.
func flagValue(val any) any {
	switch n := val.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return val
	}
}
