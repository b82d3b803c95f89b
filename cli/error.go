package cli

import "github.com/ardnew/rptkit/pkg"

// Sentinel errors.
var (
	ErrConfig  = pkg.NewError("invalid configuration file")
	ErrMetrics = pkg.NewError("write metrics")
)
