package report

import (
	"time"

	"github.com/google/uuid"
)

// Template is a report layout: page settings and an ordered list of
// sections, each holding its elements. Ownership runs one way, from
// template to sections to elements; owner ids are kept for persistence.
//
// A Template is not safe for concurrent use.
type Template struct {
	CreatedAt    time.Time  `json:"createdAt"              yaml:"createdAt"`
	ModifiedAt   time.Time  `json:"modifiedAt"             yaml:"modifiedAt"`
	CustomPage   *Size      `json:"customPage,omitempty"   yaml:"customPage,omitempty"`
	DataSourceID *uuid.UUID `json:"dataSourceId,omitempty" yaml:"dataSourceId,omitempty"`
	index        *index

	Name        string      `json:"name"        yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Author      string      `json:"author"      yaml:"author"`
	Sections    []*Section  `json:"sections"    yaml:"sections"`
	Margins     Margins     `json:"margins"     yaml:"margins"`
	Version     int         `json:"version"     yaml:"version"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Paper       PaperSize   `json:"paper"       yaml:"paper"`
	ID          uuid.UUID   `json:"id"          yaml:"id"`
}

// Margins are page margins in millimeters.
type Margins struct {
	Top    float64 `json:"top"    yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left"   yaml:"left"`
	Right  float64 `json:"right"  yaml:"right"`
}

// Size is a width and height in millimeters.
type Size struct {
	Width  float64 `json:"width"  yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Section is a horizontal band of a report page.
type Section struct {
	Name                 string      `json:"name"                           yaml:"name"`
	VisibilityExpression string      `json:"visibilityExpression,omitempty" yaml:"visibilityExpression,omitempty"`
	Elements             []*Element  `json:"elements"                       yaml:"elements"`
	Height               float64     `json:"height"                         yaml:"height"`
	OrderIndex           int         `json:"orderIndex"                     yaml:"orderIndex"`
	Kind                 SectionKind `json:"kind"                           yaml:"kind"`
	ID                   uuid.UUID   `json:"id"                             yaml:"id"`
	TemplateID           uuid.UUID   `json:"templateId"                     yaml:"templateId"`
	Visible              bool        `json:"visible"                        yaml:"visible"`
}

// Font is the typeface of a text element.
type Font struct {
	Family string  `json:"family" yaml:"family"`
	Size   float64 `json:"size"   yaml:"size"`
	Bold   bool    `json:"bold"   yaml:"bold"`
	Italic bool    `json:"italic" yaml:"italic"`
}

// Border is the outline drawn around an element.
type Border struct {
	Color   string  `json:"color"   yaml:"color"`
	Width   float64 `json:"width"   yaml:"width"`
	Enabled bool    `json:"enabled" yaml:"enabled"`
}

// Element is a positioned visual item inside a section. Coordinates are
// millimeters relative to the section's top-left corner.
type Element struct {
	Properties           Properties    `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Name                 string        `json:"name"                           yaml:"name"`
	ForeColor            string        `json:"foreColor"                      yaml:"foreColor"`
	BackColor            string        `json:"backColor"                      yaml:"backColor"`
	StaticText           string        `json:"staticText,omitempty"           yaml:"staticText,omitempty"`
	DataField            string        `json:"dataField,omitempty"            yaml:"dataField,omitempty"`
	Expression           string        `json:"expression,omitempty"           yaml:"expression,omitempty"`
	FormatString         string        `json:"formatString,omitempty"         yaml:"formatString,omitempty"`
	VisibilityExpression string        `json:"visibilityExpression,omitempty" yaml:"visibilityExpression,omitempty"`
	Font                 Font          `json:"font"                           yaml:"font"`
	Border               Border        `json:"border"                         yaml:"border"`
	X                    float64       `json:"x"                              yaml:"x"`
	Y                    float64       `json:"y"                              yaml:"y"`
	Width                float64       `json:"width"                          yaml:"width"`
	Height               float64       `json:"height"                         yaml:"height"`
	ZIndex               int           `json:"zIndex"                         yaml:"zIndex"`
	Type                 ElementType   `json:"type"                           yaml:"type"`
	TextAlign            TextAlign     `json:"textAlign"                      yaml:"textAlign"`
	VerticalAlign        VerticalAlign `json:"verticalAlign"                  yaml:"verticalAlign"`
	ID                   uuid.UUID     `json:"id"                             yaml:"id"`
	SectionID            uuid.UUID     `json:"sectionId"                      yaml:"sectionId"`
	Visible              bool          `json:"visible"                        yaml:"visible"`
}

// Default page and element settings.
const (
	DefaultMargin      = 25.4 // mm, one inch
	DefaultFontFamily  = "Arial"
	DefaultFontSize    = 10.0
	DefaultForeColor   = "#000000"
	DefaultBackColor   = "#FFFFFF"
	DefaultBorderColor = "#000000"
	DefaultBorderWidth = 1.0
	DefaultSectionSize = 50.0 // mm, height of an added section
)

// FontFamilies lists the typefaces offered by the designer.
var FontFamilies = []string{
	"Arial",
	"Calibri",
	"Courier New",
	"Georgia",
	"Tahoma",
	"Times New Roman",
	"Trebuchet MS",
	"Verdana",
}

// DefaultMargins returns one-inch margins on every side.
func DefaultMargins() Margins {
	return Margins{Top: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin, Right: DefaultMargin}
}

// Paper dimensions in portrait orientation.
var paperSizes = map[PaperSize]Size{
	A4:     {Width: 210, Height: 297},
	A5:     {Width: 148, Height: 210},
	Letter: {Width: 215.9, Height: 279.4},
	Legal:  {Width: 215.9, Height: 355.6},
}

// PageSize returns the page width and height in millimeters, swapped for
// landscape orientation. A custom paper size without CustomPage is A4.
func (t *Template) PageSize() Size {
	s, ok := paperSizes[t.Paper]
	if t.Paper == Custom && t.CustomPage != nil {
		s, ok = *t.CustomPage, true
	}

	if !ok {
		s = paperSizes[A4]
	}

	if t.Orientation == Landscape {
		s.Width, s.Height = s.Height, s.Width
	}

	return s
}

// ContentSize returns the page size less the margins.
func (t *Template) ContentSize() Size {
	p := t.PageSize()

	return Size{
		Width:  p.Width - t.Margins.Left - t.Margins.Right,
		Height: p.Height - t.Margins.Top - t.Margins.Bottom,
	}
}
