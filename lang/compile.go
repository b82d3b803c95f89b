package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Program is a formula lowered to an expr-lang program. It produces the
// same results as [Expr.Evaluate], including short-circuit evaluation, and
// is cheaper to run many times. A Program is safe for concurrent use.
type Program struct {
	expr    *Expr
	program *vm.Program
	lowered string
	lits    []any
	names   []string
	funcs   []*Func
	fails   []error
	thunks  []Node
	opts    options
}

// runState is the per-run environment seen by the helper functions.
type runState struct {
	ctx  context.Context
	p    *Program
	vars map[string]any
	cc   *CallContext
	err  error
}

// fail records the first error of a run and returns it.
func (st *runState) fail(err error) error {
	if st.err == nil {
		st.err = err
	}

	return st.err
}

// Compile lowers e to an expr-lang program.
func Compile(e *Expr, opts ...Option) (*Program, error) {
	p := &Program{expr: e, opts: makeOptions(opts...)}

	var sb strings.Builder

	p.lower(&sb, e.Root)
	p.lowered = sb.String()

	program, err := expr.Compile(p.lowered, compileOptions()...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("source", e.Source),
			slog.String("lowered", p.lowered),
		)
	}

	p.program = program

	p.opts.logger.Trace("compiled",
		slog.String("source", e.Source),
		slog.String("lowered", p.lowered))

	return p, nil
}

// Expr returns the formula the program was compiled from.
func (p *Program) Expr() *Expr { return p.expr }

// Run executes the program against vars.
func (p *Program) Run(ctx context.Context, vars map[string]any) (any, error) {
	st := &runState{
		ctx:  ctx,
		p:    p,
		vars: vars,
		cc:   &CallContext{Now: p.opts.now, Logger: p.opts.logger},
	}

	if err := st.checkContext(); err != nil {
		return nil, err
	}

	out, err := vm.Run(p.program, map[string]any{"st": st})
	if st.err != nil {
		return nil, st.err
	}

	if err != nil {
		return nil, ErrEvaluation.Wrap(err)
	}

	return normalize(out), nil
}

func (st *runState) checkContext() error {
	if st.ctx == nil {
		return nil
	}

	if err := st.ctx.Err(); err != nil {
		return st.fail(ErrEvaluation.Wrap(err))
	}

	return nil
}

func (p *Program) lower(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		switch v := n.Value.(type) {
		case nil:
			sb.WriteString("nil")
		case bool:
			sb.WriteString(strconv.FormatBool(v))
		default:
			p.lits = append(p.lits, v)
			sb.WriteString("rk_lit(st, " + strconv.Itoa(len(p.lits)-1) + ")")
		}

	case *Variable:
		p.names = append(p.names, n.Name)
		sb.WriteString("rk_var(st, " + strconv.Itoa(len(p.names)-1) + ")")

	case *Unary:
		switch n.Op {
		case "NOT":
			sb.WriteString("(!")
			p.truthy(sb, n.X)
			sb.WriteString(")")
		default:
			sb.WriteString("rk_unary(st, " + strconv.Quote(n.Op) + ", ")
			p.lower(sb, n.X)
			sb.WriteString(")")
		}

	case *Binary:
		switch n.Op {
		case "AND", "OR":
			sb.WriteString("(")
			p.truthy(sb, n.L)
			sb.WriteString(" " + strings.ToLower(n.Op) + " ")
			p.truthy(sb, n.R)
			sb.WriteString(")")
		default:
			sb.WriteString("rk_binary(st, " + strconv.Quote(n.Op) + ", ")
			p.lower(sb, n.L)
			sb.WriteString(", ")
			p.lower(sb, n.R)
			sb.WriteString(")")
		}

	case *Call:
		p.lowerCall(sb, n)
	}
}

func (p *Program) truthy(sb *strings.Builder, n Node) {
	sb.WriteString("rk_truthy(st, ")
	p.lower(sb, n)
	sb.WriteString(")")
}

func (p *Program) lowerCall(sb *strings.Builder, n *Call) {
	f, err := resolve(p.opts.lib, n)
	if err != nil {
		p.fails = append(p.fails, err)
		sb.WriteString("rk_fail(st, " + strconv.Itoa(len(p.fails)-1) + ")")

		return
	}

	builtin, _ := builtins.Lookup(f.Name)
	if builtin == f {
		switch f.Name {
		case "IF":
			sb.WriteString("(rk_cond(st, ")
			p.lower(sb, n.Args[0])
			sb.WriteString(") ? (")
			p.lower(sb, n.Args[1])
			sb.WriteString(") : (")
			p.lower(sb, n.Args[2])
			sb.WriteString("))")

			return

		case "ISNULL", "COALESCE":
			sb.WriteString("rk_check(st, (")

			for i, a := range n.Args {
				if i > 0 {
					sb.WriteString(" ?? ")
				}

				sb.WriteString("(")
				p.lower(sb, a)
				sb.WriteString(")")
			}

			sb.WriteString("))")

			return
		}
	}

	p.funcs = append(p.funcs, f)
	sb.WriteString("rk_call(st, " + strconv.Itoa(len(p.funcs)-1))

	if f.Lazy == nil {
		for _, a := range n.Args {
			sb.WriteString(", ")
			p.lower(sb, a)
		}

		sb.WriteString(")")

		return
	}

	// Lazy functions outside the built-in set cannot be lowered to operators,
	// so their arguments are passed as deferred closures.
	for _, a := range n.Args {
		p.thunks = append(p.thunks, a)
		sb.WriteString(", rk_thunk(st, " + strconv.Itoa(len(p.thunks)-1) + ")")
	}

	sb.WriteString(")")
}

func compileOptions() []expr.Option {
	state := func(params []any) *runState {
		st, _ := params[0].(*runState)

		return st
	}

	fn := func(name string, impl func(st *runState, args []any) (any, error), types ...any) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			st := state(params)
			if st.err != nil {
				return nil, st.err
			}

			v, err := impl(st, params[1:])
			if err != nil {
				return nil, st.fail(err)
			}

			return v, nil
		}, types...)
	}

	return []expr.Option{
		expr.Env(map[string]any{"st": (*runState)(nil)}),
		fn("rk_lit", func(st *runState, args []any) (any, error) {
			return st.p.lits[args[0].(int)], nil
		}, new(func(*runState, int) any)),
		fn("rk_var", func(st *runState, args []any) (any, error) {
			return normalize(st.vars[st.p.names[args[0].(int)]]), nil
		}, new(func(*runState, int) any)),
		fn("rk_fail", func(st *runState, args []any) (any, error) {
			return nil, st.p.fails[args[0].(int)]
		}, new(func(*runState, int) any)),
		fn("rk_unary", func(_ *runState, args []any) (any, error) {
			return unary(args[0].(string), args[1])
		}, new(func(*runState, string, any) any)),
		fn("rk_binary", func(_ *runState, args []any) (any, error) {
			return binary(args[0].(string), args[1], args[2])
		}, new(func(*runState, string, any, any) any)),
		fn("rk_truthy", func(_ *runState, args []any) (any, error) {
			b, err := toBool(args[0])
			if err != nil {
				return false, ErrEvaluation.Wrap(err)
			}

			return b, nil
		}, new(func(*runState, any) bool)),
		fn("rk_cond", func(_ *runState, args []any) (any, error) {
			b, err := toBool(args[0])
			if err != nil {
				return false, callError("IF", err)
			}

			return b, nil
		}, new(func(*runState, any) bool)),
		fn("rk_check", func(_ *runState, args []any) (any, error) {
			return normalize(args[0]), nil
		}, new(func(*runState, any) any)),
		fn("rk_thunk", func(st *runState, args []any) (any, error) {
			n := st.p.thunks[args[0].(int)]

			return Thunk(func() (any, error) {
				ev := &evaluator{ctx: st.ctx, vars: st.vars, lib: st.p.opts.lib, cc: st.cc}

				return ev.eval(n)
			}), nil
		}, new(func(*runState, int) any)),
		fn("rk_call", func(st *runState, args []any) (any, error) {
			if err := st.checkContext(); err != nil {
				return nil, err
			}

			f := st.p.funcs[args[0].(int)]
			args = args[1:]

			if f.Lazy != nil {
				thunks := make([]Thunk, len(args))
				for i, a := range args {
					thunks[i], _ = a.(Thunk)
				}

				v, err := f.Lazy(st.cc, thunks)

				return v, callError(f.Name, err)
			}

			v, err := f.Call(st.cc, args)
			if err != nil {
				return nil, callError(f.Name, err)
			}

			return normalize(v), nil
		}, new(func(*runState, int, ...any) any)),
	}
}
