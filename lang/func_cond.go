package lang

import (
	"strings"
)

func lazy(name string, lo, hi int, sig, doc string, fn func(cc *CallContext, args []Thunk) (any, error)) *Func {
	return &Func{
		Name: name, Category: CategoryConditional, Min: lo, Max: hi,
		Signature: sig, Doc: doc, Lazy: fn,
	}
}

func condFuncs() []*Func {
	return []*Func{
		lazy("IF", 3, 3, "IF(condition, then, else)",
			"then when condition is true, otherwise else. Only one branch is evaluated.",
			func(_ *CallContext, args []Thunk) (any, error) {
				c, err := args[0]()
				if err != nil {
					return nil, err
				}

				ok, err := toBool(c)
				if err != nil {
					return nil, err
				}

				if ok {
					return args[1]()
				}

				return args[2]()
			}),
		lazy("ISNULL", 2, 2, "ISNULL(value, fallback)",
			"value, or fallback when value is null.",
			func(_ *CallContext, args []Thunk) (any, error) {
				v, err := args[0]()
				if err != nil || !isNull(v) {
					return v, err
				}

				return args[1]()
			}),
		eager("ISEMPTY", CategoryConditional, 1, 1, "ISEMPTY(value)",
			"Whether value is null, empty, or only white space.",
			func(_ *CallContext, args []any) (any, error) {
				return isNull(args[0]) || strings.TrimSpace(Text(args[0])) == "", nil
			}),
		lazy("COALESCE", 1, -1, "COALESCE(value, ...)",
			"The first argument that is not null. Later arguments are not evaluated.",
			func(_ *CallContext, args []Thunk) (any, error) {
				for _, arg := range args {
					v, err := arg()
					if err != nil {
						return nil, err
					}

					if !isNull(v) {
						return v, nil
					}
				}

				return nil, nil
			}),
		eager("NULLIF", CategoryConditional, 2, 2, "NULLIF(a, b)",
			"Null when a equals b, otherwise a.",
			func(_ *CallContext, args []any) (any, error) {
				eq, err := compare("=", args[0], args[1])
				if err != nil {
					return nil, err
				}

				if eq {
					return nil, nil
				}

				return normalize(args[0]), nil
			}),
	}
}
