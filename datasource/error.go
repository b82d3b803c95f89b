package datasource

import "github.com/ardnew/rptkit/pkg"

var (
	ErrUnknownValue = pkg.NewError("unknown enumeration value")
	ErrProvider     = pkg.NewError("unsupported provider")
	ErrConnect      = pkg.NewError("cannot connect to database")
	ErrParameter    = pkg.NewError("invalid parameter")
	ErrMissing      = pkg.NewError("missing required parameter")
	ErrQuery        = pkg.NewError("query failed")
	ErrNoQuery      = pkg.NewError("data source has nothing to query")
)
