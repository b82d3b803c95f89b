package report

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMarshalProperties(t *testing.T) {
	p := DefaultProperties(Line)

	b, err := MarshalProperties(Line, p)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"line":{"direction":"horizontal","style":"solid"},"type":"Line"}`
	if string(b) != want {
		t.Errorf("MarshalProperties = %s, want %s", b, want)
	}

	typ, got, err := UnmarshalProperties(b)
	if err != nil {
		t.Fatal(err)
	}

	if typ != Line || got.Line == nil || *got.Line != *p.Line {
		t.Errorf("UnmarshalProperties = %s %+v", typ, got)
	}
}

func TestMarshalProperties_Mismatch(t *testing.T) {
	if _, err := MarshalProperties(QRCode, DefaultProperties(Image)); !errors.Is(err, ErrProperties) {
		t.Errorf("error = %v, want ErrProperties", err)
	}

	if _, _, err := UnmarshalProperties([]byte(`{"type":"Line","text":{}}`)); !errors.Is(err, ErrProperties) {
		t.Errorf("error = %v, want ErrProperties", err)
	}

	if _, _, err := UnmarshalProperties([]byte(`{"type":"Sprite"}`)); !errors.Is(err, ErrProperties) {
		t.Errorf("error = %v, want ErrProperties", err)
	}

	if _, p, err := UnmarshalProperties(nil); err != nil || !p.IsZero() {
		t.Errorf("UnmarshalProperties(nil) = %+v, %v", p, err)
	}
}

func TestElement_JSON(t *testing.T) {
	tpl := NewTemplate("t", "", "")

	e, err := tpl.AddElement(tpl.Sections[0].ID, RoundedRectangle)
	if err != nil {
		t.Fatal(err)
	}

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}

	var back Element
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}

	if back.Type != RoundedRectangle || back.Properties.Shape == nil || back.Properties.Shape.CornerRadius != 5 {
		t.Errorf("decoded element = %+v", back)
	}
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		input string
		parse func(string) (int, error)
		want  int
	}{
		{"page header", func(s string) (int, error) { k, err := ParseSectionKind(s); return int(k), err }, int(PageHeader)},
		{"REPORT_FOOTER", func(s string) (int, error) { k, err := ParseSectionKind(s); return int(k), err }, int(ReportFooter)},
		{"qr-code", func(s string) (int, error) { k, err := ParseElementType(s); return int(k), err }, int(QRCode)},
		{"landscape", func(s string) (int, error) { k, err := ParseOrientation(s); return int(k), err }, int(Landscape)},
		{"letter", func(s string) (int, error) { k, err := ParsePaperSize(s); return int(k), err }, int(Letter)},
		{"justify", func(s string) (int, error) { k, err := ParseTextAlign(s); return int(k), err }, int(AlignJustify)},
		{"Middle", func(s string) (int, error) { k, err := ParseVerticalAlign(s); return int(k), err }, int(AlignMiddle)},
	}

	for _, tt := range tests {
		got, err := tt.parse(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("parse %q = %d, %v; want %d", tt.input, got, err, tt.want)
		}
	}

	if _, err := ParseElementType("Sprite"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("ParseElementType(Sprite) error = %v, want ErrUnknownValue", err)
	}

	if got := SectionKind(99).String(); got != "SectionKind(99)" {
		t.Errorf("SectionKind(99).String() = %q", got)
	}

	if got := AlignJustify.String(); got != "Justify" {
		t.Errorf("AlignJustify.String() = %q", got)
	}

	var k SectionKind
	if err := k.UnmarshalText([]byte("GroupFooter")); err != nil || k != GroupFooter {
		t.Errorf("UnmarshalText = %s, %v", k, err)
	}
}
