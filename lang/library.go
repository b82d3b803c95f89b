package lang

//go:generate go tool stringer --linecomment --type Category --output category_string.go

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/rptkit/log"
)

// Category groups functions for display and completion.
type Category int

const (
	CategoryMath        Category = iota // Math
	CategoryString                      // String
	CategoryDateTime                    // DateTime
	CategoryConditional                 // Conditional
	CategoryConversion                  // Conversion
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryMath,
		CategoryString,
		CategoryDateTime,
		CategoryConditional,
		CategoryConversion,
	}
}

// ParseCategory parses a category name, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	if strings.EqualFold(s, "date") {
		return CategoryDateTime, nil
	}

	return 0, kindf(ErrType, "unknown function category %q", s)
}

// CallContext is passed to every function body.
type CallContext struct {
	Now    func() time.Time
	Logger log.Logger
}

// Thunk evaluates one argument of a lazy function on demand.
type Thunk func() (any, error)

// Func describes one built-in function. Exactly one of Call and Lazy is set.
type Func struct {
	Name      string
	Signature string
	Doc       string
	Call      func(cc *CallContext, args []any) (any, error)
	Lazy      func(cc *CallContext, args []Thunk) (any, error)
	Category  Category
	Min       int
	Max       int // -1 for variadic
}

// Accepts reports whether n arguments satisfy the arity of f.
func (f *Func) Accepts(n int) bool {
	return n >= f.Min && (f.Max < 0 || n <= f.Max)
}

// Arity describes the accepted argument count, e.g. "1", "1 to 2", or
// "at least 0".
func (f *Func) Arity() string {
	switch {
	case f.Max < 0:
		return "at least " + formatNumber(float64(f.Min))
	case f.Min == f.Max:
		return formatNumber(float64(f.Min))
	default:
		return formatNumber(float64(f.Min)) + " to " + formatNumber(float64(f.Max))
	}
}

// Library is an immutable set of functions keyed by upper-case name.
type Library struct {
	funcs map[string]*Func
}

// NewLibrary builds a library from fs. Later entries replace earlier ones
// with the same name.
func NewLibrary(fs ...*Func) *Library {
	lib := &Library{funcs: make(map[string]*Func, len(fs))}

	for _, f := range fs {
		lib.funcs[strings.ToUpper(f.Name)] = f
	}

	return lib
}

// Extend returns a new library holding the functions of l and fs.
func (l *Library) Extend(fs ...*Func) *Library {
	all := slices.Collect(maps.Values(l.funcs))

	return NewLibrary(append(all, fs...)...)
}

// Lookup finds a function by name, ignoring case.
func (l *Library) Lookup(name string) (*Func, bool) {
	f, ok := l.funcs[strings.ToUpper(name)]

	return f, ok
}

// Names returns the function names grouped by category, then sorted.
func (l *Library) Names() []string {
	fs := l.Funcs()
	names := make([]string, len(fs))

	for i, f := range fs {
		names[i] = f.Name
	}

	return names
}

// Funcs returns the functions grouped by category, then sorted by name.
func (l *Library) Funcs() []*Func {
	fs := slices.Collect(maps.Values(l.funcs))

	slices.SortFunc(fs, func(a, b *Func) int {
		if a.Category != b.Category {
			return int(a.Category) - int(b.Category)
		}

		return strings.Compare(a.Name, b.Name)
	})

	return fs
}

// InCategory returns the functions of one category sorted by name.
func (l *Library) InCategory(c Category) []*Func {
	var out []*Func

	for _, f := range l.Funcs() {
		if f.Category == c {
			out = append(out, f)
		}
	}

	return out
}

var builtins = NewLibrary(slices.Concat(
	mathFuncs(),
	stringFuncs(),
	dateFuncs(),
	condFuncs(),
	convFuncs(),
)...)

// Builtins returns the built-in function library.
func Builtins() *Library { return builtins }

// Functions returns the names of all built-in functions, grouped by
// category.
func Functions() []string { return builtins.Names() }

// Lookup finds a built-in function by name, ignoring case.
func Lookup(name string) (*Func, bool) { return builtins.Lookup(name) }
