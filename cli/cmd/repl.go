package cmd

import (
	"context"
	"maps"

	"github.com/ardnew/rptkit/cli/cmd/repl"
	"github.com/ardnew/rptkit/log"
)

// Repl starts the interactive formula console.
type Repl struct {
	Set []string `help:"Bind a variable (name=value)."               placeholder:"NAME=VALUE" short:"s"`
	Row string   `help:"YAML mapping of variables to start with."     placeholder:"FILE"       short:"r" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	vars := map[string]any{}

	if r.Row != "" {
		if err := readYAML(r.Row, &vars); err != nil {
			return err
		}
	}

	set, err := variables(r.Set)
	if err != nil {
		return err
	}

	maps.Copy(vars, set)

	return repl.Run(ctx, vars, runtimeFrom(ctx).CacheDir, log.Default())
}
