package render

import "github.com/ardnew/rptkit/pkg"

var (
	ErrData   = pkg.NewError("unsupported report data")
	ErrFormat = pkg.NewError("unsupported image format")
	ErrEncode = pkg.NewError("cannot encode page")
)
