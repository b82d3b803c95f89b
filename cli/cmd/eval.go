package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/pkg"
)

// Eval evaluates one formula.
type Eval struct {
	Expression string   `arg:"" help:"Formula to evaluate, with or without a leading '='."`
	Set        []string `       help:"Bind a variable (name=value)."                         placeholder:"NAME=VALUE" short:"s"`
	Row        string   `       help:"YAML mapping of variables, or '-' for stdin."           placeholder:"FILE"       short:"r"`
	Format     string   `       help:"Format string applied to the result, e.g. N2 or yyyy-MM-dd." short:"f"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars := map[string]any{}

	if e.Row != "" {
		if err := readYAML(e.Row, &vars); err != nil {
			return err
		}
	}

	set, err := variables(e.Set)
	if err != nil {
		return err
	}

	maps.Copy(vars, set)

	ev := lang.NewEvaluator(lang.WithLogger(log.Default()))

	result, err := ev.Evaluate(ctx, e.Expression, vars)
	if err != nil {
		return pkg.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("expression", e.Expression),
		)
	}

	text := lang.Text(result)

	if e.Format != "" {
		if text, err = lang.FormatValue(e.Format, result); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(stdout(ctx), text)

	return err
}

// Validate checks formulas without evaluating them.
type Validate struct {
	Expressions []string `arg:"" help:"Formulas to validate."`
}

// Run executes the validate command. It prints one line per formula and
// fails if any formula is invalid.
func (v *Validate) Run(ctx context.Context) error {
	w := stdout(ctx)
	bad := 0

	for _, text := range v.Expressions {
		ok, msg := lang.Validate(text)
		if !ok {
			bad++

			fmt.Fprintf(w, "%s: %s\n", text, msg)

			continue
		}

		fmt.Fprintf(w, "%s: ok\n", text)
	}

	if bad > 0 {
		return ErrInvalid.With(slog.Int("count", bad))
	}

	return nil
}

// Functions lists the built-in functions.
type Functions struct {
	Category string `help:"Only list functions of this category." enum:",${funcCategoryEnum}" default:"" short:"c"`
}

// FunctionVars returns the kong variables the functions command needs.
func FunctionVars() kong.Vars {
	names := make([]string, 0, len(lang.Categories()))
	for _, c := range lang.Categories() {
		names = append(names, strings.ToLower(c.String()))
	}

	return kong.Vars{"funcCategoryEnum": strings.Join(names, ",")}
}

// Run executes the functions command.
func (f *Functions) Run(ctx context.Context) error {
	lib := lang.Builtins()
	funcs := lib.Funcs()

	if f.Category != "" {
		c, err := lang.ParseCategory(f.Category)
		if err != nil {
			return err
		}

		funcs = lib.InCategory(c)
	}

	tbl := newTable("CATEGORY", "SIGNATURE", "DESCRIPTION")

	for _, fn := range funcs {
		tbl.Row(fn.Category.String(), fn.Signature, fn.Doc)
	}

	_, err := fmt.Fprintln(stdout(ctx), tbl.Render())

	return err
}
