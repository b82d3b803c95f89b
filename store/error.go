package store

import "github.com/ardnew/rptkit/pkg"

var (
	ErrNotFound = pkg.NewError("not found")
	ErrDatabase = pkg.NewError("database error")
	ErrDriver   = pkg.NewError("unsupported database driver")
)
