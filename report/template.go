package report

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// Default size of each element type in millimeters.
var defaultSizes = map[ElementType]Size{
	Label:            {80, 20},
	TextField:        {100, 20},
	CalculatedField:  {100, 20},
	Line:             {100, 1},
	Rectangle:        {80, 40},
	RoundedRectangle: {80, 40},
	Ellipse:          {60, 60},
	Image:            {80, 60},
	Barcode:          {100, 30},
	QRCode:           {50, 50},
	SubReport:        {100, 50},
}

// DefaultSize returns the initial size of a new element of type t.
func DefaultSize(t ElementType) Size { return defaultSizes[t] }

// NewTemplate returns an unsaved template with portrait A4 pages, one-inch
// margins, and three sections: a 30 mm page header, a 50 mm detail band,
// and a 30 mm page footer.
func NewTemplate(name, description, author string) *Template {
	t := &Template{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Author:      author,
		Orientation: Portrait,
		Paper:       A4,
		Margins:     DefaultMargins(),
	}

	for i, s := range []struct {
		name   string
		kind   SectionKind
		height float64
	}{
		{"Page Header", PageHeader, 30},
		{"Detail", Detail, 50},
		{"Page Footer", PageFooter, 30},
	} {
		t.Sections = append(t.Sections, &Section{
			ID:         uuid.New(),
			TemplateID: t.ID,
			Name:       s.name,
			Kind:       s.kind,
			Height:     s.height,
			Visible:    true,
			OrderIndex: i,
		})
	}

	return t
}

// Section returns the section with id.
func (t *Template) Section(id uuid.UUID) (*Section, error) {
	s := t.lookupSection(id)
	if s == nil {
		return nil, ErrSectionNotFound.With(slog.String("id", id.String()))
	}

	return s, nil
}

// Element returns the element with id and the section that owns it.
func (t *Template) Element(id uuid.UUID) (*Element, *Section, error) {
	e, s, _ := t.lookupElement(id)
	if e == nil {
		return nil, nil, ErrElementNotFound.With(slog.String("id", id.String()))
	}

	return e, s, nil
}

// AddSection appends a visible, 50 mm section of the given kind after the
// existing sections.
func (t *Template) AddSection(kind SectionKind) (*Section, error) {
	if !kind.Valid() {
		return nil, ErrUnknownValue.With(slog.Int("section_kind", int(kind)))
	}

	s := &Section{
		ID:         uuid.New(),
		TemplateID: t.ID,
		Name:       kind.String() + " Section",
		Kind:       kind,
		Height:     DefaultSectionSize,
		Visible:    true,
		OrderIndex: len(t.Sections),
	}

	t.Sections = append(t.Sections, s)
	t.invalidate()

	return s, nil
}

// RemoveSection deletes a section and its elements. The order indices of
// the remaining sections are left as they are.
func (t *Template) RemoveSection(id uuid.UUID) error {
	i := slices.IndexFunc(t.Sections, func(s *Section) bool { return s.ID == id })
	if i < 0 {
		return ErrSectionNotFound.With(slog.String("id", id.String()))
	}

	t.Sections = slices.Delete(t.Sections, i, i+1)
	t.invalidate()

	return nil
}

// AddElement places a new element of type typ at (10, 10) in a section with
// the default size, font, colors, content, and properties of its type. It
// is drawn above the section's existing elements.
func (t *Template) AddElement(sectionID uuid.UUID, typ ElementType) (*Element, error) {
	if !typ.Valid() {
		return nil, ErrUnknownValue.With(slog.Int("element_type", int(typ)))
	}

	s, err := t.Section(sectionID)
	if err != nil {
		return nil, err
	}

	size := DefaultSize(typ)
	n := len(s.Elements)

	e := &Element{
		ID:            uuid.New(),
		SectionID:     s.ID,
		Name:          fmt.Sprintf("%s_%d", typ, n+1),
		Type:          typ,
		X:             10,
		Y:             10,
		Width:         size.Width,
		Height:        size.Height,
		Font:          Font{Family: DefaultFontFamily, Size: DefaultFontSize},
		ForeColor:     DefaultForeColor,
		BackColor:     DefaultBackColor,
		TextAlign:     AlignLeft,
		VerticalAlign: AlignTop,
		Border:        Border{Color: DefaultBorderColor, Width: DefaultBorderWidth},
		Visible:       true,
		Properties:    DefaultProperties(typ),
		ZIndex:        n,
	}

	switch typ {
	case Label:
		e.StaticText = "Label"
	case TextField:
		e.DataField = "[FieldName]"
	case CalculatedField:
		e.Expression = "=SUM([Field])"
	}

	s.Elements = append(s.Elements, e)
	t.invalidate()

	return e, nil
}

// RemoveElement deletes an element. The z-indices of its siblings are left
// as they are.
func (t *Template) RemoveElement(id uuid.UUID) error {
	_, s, i := t.lookupElement(id)
	if s == nil {
		return ErrElementNotFound.With(slog.String("id", id.String()))
	}

	s.Elements = slices.Delete(s.Elements, i, i+1)
	t.invalidate()

	return nil
}

// DuplicateElement copies an element into the same section, offset by 5 mm
// right and down, with "_Copy" appended to its name and drawn on top.
func (t *Template) DuplicateElement(id uuid.UUID) (*Element, error) {
	src, s, _ := t.lookupElement(id)
	if src == nil {
		return nil, ErrElementNotFound.With(slog.String("id", id.String()))
	}

	e := src.Clone()
	e.ID = uuid.New()
	e.Name += "_Copy"
	e.X += 5
	e.Y += 5
	e.ZIndex = len(s.Elements)

	s.Elements = append(s.Elements, e)
	t.invalidate()

	return e, nil
}

// OrderedSections returns the sections sorted by order index. Sections with
// equal indices keep their relative order.
func (t *Template) OrderedSections() []*Section {
	out := slices.Clone(t.Sections)
	slices.SortStableFunc(out, func(a, b *Section) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })

	return out
}

// OrderedElements returns the elements sorted by z-index, bottom first.
// Elements with equal z-indices keep their relative order.
func (s *Section) OrderedElements() []*Element {
	out := slices.Clone(s.Elements)
	slices.SortStableFunc(out, func(a, b *Element) int { return cmp.Compare(a.ZIndex, b.ZIndex) })

	return out
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	c := *e
	c.Properties = e.Properties.Clone()

	return &c
}

// Clone returns a deep copy of s and its elements.
func (s *Section) Clone() *Section {
	c := *s
	c.Elements = make([]*Element, len(s.Elements))

	for i, e := range s.Elements {
		c.Elements[i] = e.Clone()
	}

	return &c
}

// Clone returns a deep copy of t.
func (t *Template) Clone() *Template {
	c := *t
	c.index = nil
	c.Sections = make([]*Section, len(t.Sections))

	for i, s := range t.Sections {
		c.Sections[i] = s.Clone()
	}

	if t.CustomPage != nil {
		p := *t.CustomPage
		c.CustomPage = &p
	}

	if t.DataSourceID != nil {
		id := *t.DataSourceID
		c.DataSourceID = &id
	}

	return &c
}

// Check verifies the structural invariants of t and returns every
// violation found, joined, as an [ErrInvalid] error.
func (t *Template) Check() error {
	var errs []error

	bad := func(msg string, attrs ...slog.Attr) {
		errs = append(errs, ErrInvalid.Wrap(errors.New(msg)).With(attrs...))
	}

	if !t.Orientation.Valid() {
		bad("unknown orientation", slog.Int("orientation", int(t.Orientation)))
	}

	if !t.Paper.Valid() {
		bad("unknown paper size", slog.Int("paper", int(t.Paper)))
	}

	if t.CustomPage != nil && (t.CustomPage.Width <= 0 || t.CustomPage.Height <= 0) {
		bad("custom page size must be positive")
	}

	if m := t.Margins; m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		bad("margins must not be negative")
	}

	seen := map[uuid.UUID]bool{t.ID: true}

	for _, s := range t.Sections {
		sid := slog.String("section", s.ID.String())

		if seen[s.ID] {
			bad("duplicate id", sid)
		}

		seen[s.ID] = true

		if s.TemplateID != t.ID {
			bad("section owner mismatch", sid)
		}

		if !s.Kind.Valid() {
			bad("unknown section kind", sid)
		}

		if s.Height <= 0 {
			bad("section height must be positive", sid)
		}

		for _, e := range s.Elements {
			eid := slog.String("element", e.ID.String())

			if seen[e.ID] {
				bad("duplicate id", eid)
			}

			seen[e.ID] = true

			if e.SectionID != s.ID {
				bad("element owner mismatch", eid)
			}

			if !e.Type.Valid() || !e.TextAlign.Valid() || !e.VerticalAlign.Valid() {
				bad("unknown element enumeration", eid)
			}

			if e.X < 0 || e.Y < 0 || e.Width < 0 || e.Height < 0 {
				bad("element geometry must not be negative", eid)
			}

			if !e.Properties.Fits(e.Type) {
				bad("properties do not match element type", eid)
			}
		}
	}

	return errors.Join(errs...)
}
