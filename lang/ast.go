package lang

import (
	"strconv"
	"strings"
)

// Node is an element of a parsed formula.
type Node interface {
	// Pos returns the byte offset of the node in the source text.
	Pos() int
	String() string
	node()
}

// Literal is a constant: nil, float64, string, or bool.
type Literal struct {
	Value  any
	Offset int
}

// Variable references a value in the evaluation context.
type Variable struct {
	Name   string
	Offset int
}

// Call invokes a library function. Name is upper-case.
type Call struct {
	Name   string
	Args   []Node
	Offset int
}

// Unary applies "-", "+", or "NOT" to X.
type Unary struct {
	X      Node
	Op     string
	Offset int
}

// Binary applies an arithmetic, comparison, or logical operator.
// Op is one of + - * / = <> < <= > >= AND OR.
type Binary struct {
	L, R   Node
	Op     string
	Offset int
}

func (n *Literal) Pos() int  { return n.Offset }
func (n *Variable) Pos() int { return n.Offset }
func (n *Call) Pos() int     { return n.Offset }
func (n *Unary) Pos() int    { return n.Offset }
func (n *Binary) Pos() int   { return n.Offset }

func (*Literal) node()  {}
func (*Variable) node() {}
func (*Call) node()     {}
func (*Unary) node()    {}
func (*Binary) node()   {}

func (n *Literal) String() string {
	switch v := n.Value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}

		return "FALSE"
	case string:
		return strconv.Quote(v)
	default:
		return Text(v)
	}
}

func (n *Variable) String() string {
	if isIdent(n.Name) && !isKeyword(n.Name) {
		return n.Name
	}

	return "[" + n.Name + "]"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

func (n *Unary) String() string {
	if n.Op == "NOT" {
		return "NOT " + n.X.String()
	}

	return n.Op + n.X.String()
}

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + n.Op + " " + n.R.String() + ")"
}

// Expr is a parsed formula.
type Expr struct {
	Root   Node
	Source string
}

// String returns the canonical, fully parenthesized form of the formula.
func (e *Expr) String() string { return e.Root.String() }

// Walk visits n and its descendants depth-first, left to right, parents
// before children, until visit returns false.
func Walk(n Node, visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}

	switch n := n.(type) {
	case *Call:
		for _, a := range n.Args {
			if !Walk(a, visit) {
				return false
			}
		}
	case *Unary:
		return Walk(n.X, visit)
	case *Binary:
		return Walk(n.L, visit) && Walk(n.R, visit)
	}

	return true
}

// Variables returns the distinct variable names referenced by e in order of
// first appearance.
func (e *Expr) Variables() []string {
	var names []string

	seen := map[string]bool{}

	Walk(e.Root, func(n Node) bool {
		if v, ok := n.(*Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}

		return true
	})

	return names
}
