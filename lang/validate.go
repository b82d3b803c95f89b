package lang

import "fmt"

// Validate reports whether text is a well-formed formula that calls only
// known functions with an accepted number of arguments. When it is not, the
// message describes the first problem found, visiting calls depth-first
// from left to right.
func Validate(text string) (bool, string) {
	return builtins.Validate(text)
}

// Validate is like the package-level [Validate] but checks calls against l.
func (l *Library) Validate(text string) (bool, string) {
	e, err := Parse(text)
	if err != nil {
		return false, err.Error()
	}

	if err := l.Check(e); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// Check verifies that every call in e names a function of l with an
// accepted number of arguments.
func (l *Library) Check(e *Expr) error {
	var err error

	Walk(e.Root, func(n Node) bool {
		call, ok := n.(*Call)
		if !ok {
			return true
		}

		f, found := l.Lookup(call.Name)

		switch {
		case !found:
			err = ErrUnknownFunction.Wrap(fmt.Errorf("%s at offset %d", call.Name, call.Offset))
		case !f.Accepts(len(call.Args)):
			err = ErrArity.Wrap(fmt.Errorf("%s expects %s argument(s), got %d",
				f.Name, f.Arity(), len(call.Args)))
		}

		return err == nil
	})

	return err
}
