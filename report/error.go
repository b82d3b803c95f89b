package report

import "github.com/ardnew/rptkit/pkg"

var (
	ErrSectionNotFound = pkg.NewError("section not found")
	ErrElementNotFound = pkg.NewError("element not found")
	ErrUnknownValue    = pkg.NewError("unknown enumeration value")
	ErrInvalid         = pkg.NewError("invalid template")
	ErrProperties      = pkg.NewError("invalid element properties")
)
