package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/verdict/engine"
	"github.com/ardnew/verdict/log"
	"github.com/ardnew/verdict/value"
)

// Eval compiles a rule and evaluates it against the loaded data documents.
type Eval struct {
	Rule     string   `arg:""                        help:"Rule expression to evaluate"                              name:"rule"`
	Data     []string `                   short:"d"  help:"YAML data document(s) providing symbols ('-' for stdin)"  placeholder:"FILE"`
	Timezone string   `default:"${timezone}"         help:"IANA timezone for naive datetime literals"`
	Format   string   `default:"text" enum:"text,yaml,json" help:"Result output format"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	loc, err := loadLocation(e.Timezone)
	if err != nil {
		return err
	}

	symbols, err := loadSymbols(e.Data)
	if err != nil {
		return err
	}

	resolver := engine.MapResolver(symbols)

	rule, err := engine.New(e.Rule,
		engine.WithTimezone(loc),
		engine.WithTypeHints(resolver),
	)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rule compiled",
		slog.String("type", rule.Type().String()),
		slog.Int("symbols", len(symbols)),
	)

	result, err := rule.Evaluate(resolver)
	if err != nil {
		return err
	}

	return render(ctx, e.Format, result)
}

// render writes an evaluation result to the command output in the requested
// format.
func render(ctx context.Context, format string, result value.Value) error {
	w := stdout(ctx)

	switch format {
	case "yaml":
		text, err := yaml.Marshal(result.Native())
		if err != nil {
			return ErrBadFormat.Wrap(err)
		}

		_, err = w.Write(text)

		return err

	case "json":
		text, err := json.Marshal(result.Native())
		if err != nil {
			return ErrBadFormat.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(text))

		return err

	default:
		_, err := fmt.Fprintln(w, result.String())

		return err
	}
}
