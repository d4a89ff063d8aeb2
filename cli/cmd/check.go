package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/verdict/engine"
	"github.com/ardnew/verdict/log"
)

// Check parses and type-checks a rule without evaluating it, printing the
// inferred result type. Data documents, when given, contribute symbol type
// hints so that more checks can be decided statically.
type Check struct {
	Rule     string   `arg:""                help:"Rule expression to check"                                name:"rule"`
	Data     []string `           short:"d"  help:"YAML data document(s) providing symbol hints ('-' for stdin)" placeholder:"FILE"`
	Timezone string   `default:"${timezone}" help:"IANA timezone for naive datetime literals"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return err
	}

	symbols, err := loadSymbols(c.Data)
	if err != nil {
		return err
	}

	rule, err := engine.New(c.Rule,
		engine.WithTimezone(loc),
		engine.WithTypeHints(engine.MapResolver(symbols)),
	)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rule checked",
		slog.String("rule", rule.Text()),
	)

	_, err = fmt.Fprintln(stdout(ctx), rule.Type().String())

	return err
}
