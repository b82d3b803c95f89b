// Package lang implements the formula language used by report templates.
//
// A formula is a spreadsheet-style expression such as
//
//	=IF([Total] > 1000, FORMAT("{0:C}", [Total] * 0.9), "n/a")
//
// [Parse] turns formula text into an [Expr] tree. [Expr.Evaluate] walks the
// tree against a map of variables, while [Compile] lowers it to an
// expr-lang program for repeated evaluation; both produce identical
// results. [Evaluator] combines the two with a program cache.
//
// Values are null (nil), numbers (float64), strings, booleans, and dates
// (time.Time). The built-in [Library] holds 60 functions in five
// categories; see [Functions] and [Lookup].
package lang
