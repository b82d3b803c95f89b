package report

import (
	"encoding/json"
	"log/slog"
	"maps"
)

// Properties holds the type-specific settings of an element. At most one
// payload is set, and it must match the element's type (see [PayloadFor]).
type Properties struct {
	Text      *TextProperties      `json:"text,omitempty"      yaml:"text,omitempty"`
	Line      *LineProperties      `json:"line,omitempty"      yaml:"line,omitempty"`
	Shape     *ShapeProperties     `json:"shape,omitempty"     yaml:"shape,omitempty"`
	Image     *ImageProperties     `json:"image,omitempty"     yaml:"image,omitempty"`
	Barcode   *BarcodeProperties   `json:"barcode,omitempty"   yaml:"barcode,omitempty"`
	QRCode    *QRCodeProperties    `json:"qrcode,omitempty"    yaml:"qrcode,omitempty"`
	SubReport *SubReportProperties `json:"subreport,omitempty" yaml:"subreport,omitempty"`
}

// TextProperties apply to Label, TextField, and CalculatedField.
type TextProperties struct {
	WordWrap bool `json:"wordWrap" yaml:"wordWrap"`
	CanGrow  bool `json:"canGrow"  yaml:"canGrow"`
}

// LineProperties apply to Line.
type LineProperties struct {
	Direction string `json:"direction" yaml:"direction"` // horizontal, vertical, diagonal
	Style     string `json:"style"     yaml:"style"`     // solid, dashed, dotted
}

// ShapeProperties apply to Rectangle, RoundedRectangle, and Ellipse.
type ShapeProperties struct {
	FillColor    string  `json:"fillColor,omitempty" yaml:"fillColor,omitempty"`
	CornerRadius float64 `json:"cornerRadius"        yaml:"cornerRadius"`
}

// ImageProperties apply to Image.
type ImageProperties struct {
	Source  string `json:"source"  yaml:"source"` // file path, URL, or data field
	Stretch string `json:"stretch" yaml:"stretch"` // none, fill, uniform
}

// BarcodeProperties apply to Barcode.
type BarcodeProperties struct {
	Symbology string `json:"symbology" yaml:"symbology"`
	ShowText  bool   `json:"showText"  yaml:"showText"`
}

// QRCodeProperties apply to QRCode.
type QRCodeProperties struct {
	ErrorCorrection string `json:"errorCorrection" yaml:"errorCorrection"` // L, M, Q, H
}

// SubReportProperties apply to SubReport.
type SubReportProperties struct {
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	TemplateID string            `json:"templateId"           yaml:"templateId"`
}

// Payload names the Properties field used by each element type.
type Payload string

const (
	PayloadText      Payload = "text"
	PayloadLine      Payload = "line"
	PayloadShape     Payload = "shape"
	PayloadImage     Payload = "image"
	PayloadBarcode   Payload = "barcode"
	PayloadQRCode    Payload = "qrcode"
	PayloadSubReport Payload = "subreport"
)

// PayloadFor returns the payload kind used by t.
func PayloadFor(t ElementType) Payload {
	switch t {
	case Label, TextField, CalculatedField:
		return PayloadText
	case Line:
		return PayloadLine
	case Rectangle, RoundedRectangle, Ellipse:
		return PayloadShape
	case Image:
		return PayloadImage
	case Barcode:
		return PayloadBarcode
	case QRCode:
		return PayloadQRCode
	default:
		return PayloadSubReport
	}
}

// DefaultProperties returns the initial properties of a new element.
func DefaultProperties(t ElementType) Properties {
	switch PayloadFor(t) {
	case PayloadText:
		return Properties{Text: &TextProperties{WordWrap: true}}
	case PayloadLine:
		return Properties{Line: &LineProperties{Direction: "horizontal", Style: "solid"}}
	case PayloadShape:
		radius := 0.0
		if t == RoundedRectangle {
			radius = 5
		}

		return Properties{Shape: &ShapeProperties{CornerRadius: radius}}
	case PayloadImage:
		return Properties{Image: &ImageProperties{Stretch: "uniform"}}
	case PayloadBarcode:
		return Properties{Barcode: &BarcodeProperties{Symbology: "Code128", ShowText: true}}
	case PayloadQRCode:
		return Properties{QRCode: &QRCodeProperties{ErrorCorrection: "M"}}
	default:
		return Properties{SubReport: &SubReportProperties{}}
	}
}

// set returns the payloads present in p.
func (p Properties) set() []Payload {
	var out []Payload

	for kind, ok := range map[Payload]bool{
		PayloadText:      p.Text != nil,
		PayloadLine:      p.Line != nil,
		PayloadShape:     p.Shape != nil,
		PayloadImage:     p.Image != nil,
		PayloadBarcode:   p.Barcode != nil,
		PayloadQRCode:    p.QRCode != nil,
		PayloadSubReport: p.SubReport != nil,
	} {
		if ok {
			out = append(out, kind)
		}
	}

	return out
}

// IsZero reports whether no payload is set.
func (p Properties) IsZero() bool { return len(p.set()) == 0 }

// Fits reports whether p is empty or holds exactly the payload of t.
func (p Properties) Fits(t ElementType) bool {
	set := p.set()

	return len(set) == 0 || (len(set) == 1 && set[0] == PayloadFor(t))
}

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	out := Properties{}

	if p.Text != nil {
		v := *p.Text
		out.Text = &v
	}

	if p.Line != nil {
		v := *p.Line
		out.Line = &v
	}

	if p.Shape != nil {
		v := *p.Shape
		out.Shape = &v
	}

	if p.Image != nil {
		v := *p.Image
		out.Image = &v
	}

	if p.Barcode != nil {
		v := *p.Barcode
		out.Barcode = &v
	}

	if p.QRCode != nil {
		v := *p.QRCode
		out.QRCode = &v
	}

	if p.SubReport != nil {
		v := *p.SubReport
		v.Parameters = maps.Clone(v.Parameters)
		out.SubReport = &v
	}

	return out
}

type taggedProperties struct {
	Properties

	Type ElementType `json:"type"`
}

// MarshalProperties encodes p as JSON tagged with the element type t, e.g.
// {"type":"Line","line":{"direction":"horizontal","style":"solid"}}.
func MarshalProperties(t ElementType, p Properties) ([]byte, error) {
	if !p.Fits(t) {
		return nil, ErrProperties.With(slog.String("type", t.String()))
	}

	b, err := json.Marshal(taggedProperties{Type: t, Properties: p})
	if err != nil {
		return nil, ErrProperties.Wrap(err)
	}

	return b, nil
}

// UnmarshalProperties decodes the output of [MarshalProperties]. Empty input
// and JSON null yield zero properties.
func UnmarshalProperties(data []byte) (ElementType, Properties, error) {
	if len(data) == 0 || string(data) == "null" {
		return 0, Properties{}, nil
	}

	var tp taggedProperties
	if err := json.Unmarshal(data, &tp); err != nil {
		return 0, Properties{}, ErrProperties.Wrap(err)
	}

	if !tp.Properties.Fits(tp.Type) {
		return 0, Properties{}, ErrProperties.With(slog.String("type", tp.Type.String()))
	}

	return tp.Type, tp.Properties, nil
}
