package report

//go:generate go tool stringer --linecomment --type Orientation,PaperSize,SectionKind,ElementType,TextAlign,VerticalAlign --output enum_string.go

import (
	"log/slog"
	"strings"
)

// Orientation is the page orientation of a template.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// PaperSize is a named page size.
type PaperSize int

const (
	A4 PaperSize = iota
	A5
	Letter
	Legal
	Custom
)

// SectionKind is the band type of a section.
type SectionKind int

const (
	ReportHeader SectionKind = iota
	PageHeader
	GroupHeader
	Detail
	GroupFooter
	PageFooter
	ReportFooter
)

// ElementType is the kind of a visual element.
type ElementType int

const (
	Label ElementType = iota
	TextField
	CalculatedField
	Line
	Rectangle
	RoundedRectangle
	Ellipse
	Image
	Barcode
	QRCode
	SubReport
)

// TextAlign is horizontal text alignment.
type TextAlign int

const (
	AlignLeft    TextAlign = iota // Left
	AlignCenter                   // Center
	AlignRight                    // Right
	AlignJustify                  // Justify
)

// VerticalAlign is vertical text alignment.
type VerticalAlign int

const (
	AlignTop    VerticalAlign = iota // Top
	AlignMiddle                      // Middle
	AlignBottom                      // Bottom
)

// parseEnum matches s against the names of every value up to last, ignoring
// case, spaces, hyphens, and underscores, so "page header" and "PAGE_HEADER"
// both name PageHeader.
func parseEnum[T interface {
	~int
	String() string
}](kind string, last T, s string) (T, error) {
	fold := strings.NewReplacer(" ", "", "-", "", "_", "")
	key := fold.Replace(strings.TrimSpace(s))

	for v := T(0); v <= last; v++ {
		if strings.EqualFold(key, v.String()) {
			return v, nil
		}
	}

	return 0, ErrUnknownValue.With(
		slog.String("kind", kind),
		slog.String("value", s),
	)
}

func (o Orientation) Valid() bool   { return o >= Portrait && o <= Landscape }
func (p PaperSize) Valid() bool     { return p >= A4 && p <= Custom }
func (k SectionKind) Valid() bool   { return k >= ReportHeader && k <= ReportFooter }
func (t ElementType) Valid() bool   { return t >= Label && t <= SubReport }
func (a TextAlign) Valid() bool     { return a >= AlignLeft && a <= AlignJustify }
func (a VerticalAlign) Valid() bool { return a >= AlignTop && a <= AlignBottom }

// ParseOrientation parses an orientation name.
func ParseOrientation(s string) (Orientation, error) {
	return parseEnum("orientation", Landscape, s)
}

// ParsePaperSize parses a paper size name.
func ParsePaperSize(s string) (PaperSize, error) {
	return parseEnum("paper size", Custom, s)
}

// ParseSectionKind parses a section kind name.
func ParseSectionKind(s string) (SectionKind, error) {
	return parseEnum("section kind", ReportFooter, s)
}

// ParseElementType parses an element type name.
func ParseElementType(s string) (ElementType, error) {
	return parseEnum("element type", SubReport, s)
}

// ParseTextAlign parses a horizontal alignment name.
func ParseTextAlign(s string) (TextAlign, error) {
	return parseEnum("text alignment", AlignJustify, s)
}

// ParseVerticalAlign parses a vertical alignment name.
func ParseVerticalAlign(s string) (VerticalAlign, error) {
	return parseEnum("vertical alignment", AlignBottom, s)
}

// SectionKinds returns every section kind in band order.
func SectionKinds() []SectionKind {
	out := make([]SectionKind, 0, ReportFooter+1)
	for k := ReportHeader; k <= ReportFooter; k++ {
		out = append(out, k)
	}

	return out
}

// ElementTypes returns every element type.
func ElementTypes() []ElementType {
	out := make([]ElementType, 0, SubReport+1)
	for t := Label; t <= SubReport; t++ {
		out = append(out, t)
	}

	return out
}

func (o Orientation) MarshalText() ([]byte, error)   { return []byte(o.String()), nil }
func (p PaperSize) MarshalText() ([]byte, error)     { return []byte(p.String()), nil }
func (k SectionKind) MarshalText() ([]byte, error)   { return []byte(k.String()), nil }
func (t ElementType) MarshalText() ([]byte, error)   { return []byte(t.String()), nil }
func (a TextAlign) MarshalText() ([]byte, error)     { return []byte(a.String()), nil }
func (a VerticalAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) (err error) {
	*o, err = ParseOrientation(string(b))

	return err
}

func (p *PaperSize) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePaperSize(string(b))

	return err
}

func (k *SectionKind) UnmarshalText(b []byte) (err error) {
	*k, err = ParseSectionKind(string(b))

	return err
}

func (t *ElementType) UnmarshalText(b []byte) (err error) {
	*t, err = ParseElementType(string(b))

	return err
}

func (a *TextAlign) UnmarshalText(b []byte) (err error) {
	*a, err = ParseTextAlign(string(b))

	return err
}

func (a *VerticalAlign) UnmarshalText(b []byte) (err error) {
	*a, err = ParseVerticalAlign(string(b))

	return err
}
