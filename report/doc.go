// Package report defines the document model of a report template.
//
// A [Template] owns ordered [Section] bands, and each section owns
// positioned [Element] items. All measurements are millimeters. The
// methods on Template implement the structural edits offered by the
// designer; they fail with [ErrSectionNotFound] or [ErrElementNotFound]
// for unknown ids and leave the model unchanged in that case.
package report
