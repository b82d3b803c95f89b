// Package designer implements the editing operations of the report
// designer: grid snapping, selection, zoom, and a [Session] that loads,
// mutates, validates, and saves one template.
package designer
