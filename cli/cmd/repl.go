package cmd

import (
	"context"

	"github.com/ardnew/verdict/cli/cmd/repl"
)

// Repl starts an interactive rule evaluation session against the loaded
// data documents.
type Repl struct {
	Data     []string `           short:"d"  help:"YAML data document(s) providing symbols" placeholder:"FILE"`
	Timezone string   `default:"${timezone}" help:"IANA timezone for naive datetime literals"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	loc, err := loadLocation(r.Timezone)
	if err != nil {
		return err
	}

	symbols, err := loadSymbols(r.Data)
	if err != nil {
		return err
	}

	return repl.Run(ctx, symbols, loc)
}
