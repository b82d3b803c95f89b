// Package render lays out report templates against data and produces
// preview output.
//
// [Layout] resolves a template into pages of positioned, clipped items,
// evaluating formulas for each detail row. [Preview] implements
// [Renderer] on top of it: pages become YAML documents for print preview
// or PNG and JPEG images drawn with a fixed bitmap font.
package render
