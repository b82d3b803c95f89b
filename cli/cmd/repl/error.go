package repl

import "github.com/ardnew/rptkit/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrBinding      = pkg.NewError("expected NAME=VALUE")
	ErrUnbound      = pkg.NewError("variable not bound")
)
