package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Evaluate computes the value of e against vars. Variable lookup is
// case-sensitive and unresolved variables are null. The result is nil,
// float64, string, bool, or time.Time.
//
// Every error satisfies errors.Is(err, ErrEvaluation) and also matches the
// kind of failure: [ErrUnknownFunction], [ErrArity], [ErrDomain], or
// [ErrType]. A cancelled ctx stops evaluation at the next function call.
func (e *Expr) Evaluate(ctx context.Context, vars map[string]any, opts ...Option) (any, error) {
	o := makeOptions(opts...)

	ev := &evaluator{
		ctx:  ctx,
		vars: vars,
		lib:  o.lib,
		cc:   &CallContext{Now: o.now, Logger: o.logger},
	}

	if err := ev.checkContext(); err != nil {
		return nil, err
	}

	v, err := ev.eval(e.Root)
	if err != nil {
		o.logger.TraceContext(ctx, "evaluate failed",
			slog.String("source", e.Source), slog.Any("error", err))

		return nil, err
	}

	return v, nil
}

type evaluator struct {
	ctx  context.Context
	vars map[string]any
	lib  *Library
	cc   *CallContext
}

func (ev *evaluator) checkContext() error {
	if ev.ctx == nil {
		return nil
	}

	if err := ev.ctx.Err(); err != nil {
		return ErrEvaluation.Wrap(err)
	}

	return nil
}

func (ev *evaluator) eval(n Node) (any, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil

	case *Variable:
		return normalize(ev.vars[n.Name]), nil

	case *Unary:
		x, err := ev.eval(n.X)
		if err != nil {
			return nil, err
		}

		return unary(n.Op, x)

	case *Binary:
		return ev.binary(n)

	case *Call:
		return ev.call(n)

	default:
		return nil, failf(ErrType, "unsupported node %T", n)
	}
}

func (ev *evaluator) binary(n *Binary) (any, error) {
	l, err := ev.eval(n.L)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "AND", "OR":
		lb, err := toBool(l)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		if (n.Op == "AND" && !lb) || (n.Op == "OR" && lb) {
			return lb, nil
		}

		r, err := ev.eval(n.R)
		if err != nil {
			return nil, err
		}

		rb, err := toBool(r)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		return rb, nil
	}

	r, err := ev.eval(n.R)
	if err != nil {
		return nil, err
	}

	return binary(n.Op, l, r)
}

func (ev *evaluator) call(n *Call) (any, error) {
	if err := ev.checkContext(); err != nil {
		return nil, err
	}

	f, err := resolve(ev.lib, n)
	if err != nil {
		return nil, err
	}

	if f.Lazy != nil {
		thunks := make([]Thunk, len(n.Args))
		for i, a := range n.Args {
			thunks[i] = func() (any, error) { return ev.eval(a) }
		}

		v, err := f.Lazy(ev.cc, thunks)

		return v, callError(f.Name, err)
	}

	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		if args[i], err = ev.eval(a); err != nil {
			return nil, err
		}
	}

	v, err := f.Call(ev.cc, args)
	if err != nil {
		return nil, callError(f.Name, err)
	}

	return normalize(v), nil
}

// resolve finds the function called by n and checks its arity.
func resolve(lib *Library, n *Call) (*Func, error) {
	f, ok := lib.Lookup(n.Name)
	if !ok {
		return nil, failf(ErrUnknownFunction, "%s", n.Name)
	}

	if !f.Accepts(len(n.Args)) {
		return nil, failf(ErrArity, "%s expects %s argument(s), got %d",
			f.Name, f.Arity(), len(n.Args))
	}

	return f, nil
}

// callError names the failing function. Errors already raised by a nested
// evaluation pass through unchanged.
func callError(name string, err error) error {
	if err == nil || errors.Is(err, ErrEvaluation) {
		return err
	}

	return ErrEvaluation.Wrap(fmt.Errorf("%s: %w", name, err))
}

func unary(op string, x any) (any, error) {
	switch op {
	case "NOT":
		b, err := toBool(x)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		return !b, nil
	case "-", "+":
		f, err := toNumber(x)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		if op == "-" {
			return -f, nil
		}

		return f, nil
	default:
		return nil, failf(ErrType, "unknown operator %q", op)
	}
}

func binary(op string, l, r any) (any, error) {
	switch op {
	case "=", "<>", "<", "<=", ">", ">=":
		b, err := compare(op, l, r)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		return b, nil

	case "AND", "OR":
		lb, err := toBool(l)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		rb, err := toBool(r)
		if err != nil {
			return nil, ErrEvaluation.Wrap(err)
		}

		if op == "AND" {
			return lb && rb, nil
		}

		return lb || rb, nil
	}

	a, err := toNumber(l)
	if err != nil {
		return nil, ErrEvaluation.Wrap(err)
	}

	b, err := toNumber(r)
	if err != nil {
		return nil, ErrEvaluation.Wrap(err)
	}

	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, failf(ErrDomain, "division by zero")
		}

		return a / b, nil
	default:
		return nil, failf(ErrType, "unknown operator %q", op)
	}
}
