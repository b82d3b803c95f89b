package designer

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/pkg"
	"github.com/ardnew/rptkit/report"
)

// Zoom limits of the design surface.
const (
	MinZoom  = 0.25
	MaxZoom  = 4.0
	ZoomStep = 0.1
)

var (
	ErrNoTemplate   = pkg.NewError("no template loaded")
	ErrNoRepository = pkg.NewError("no repository configured")
)

// Session is one editing session over one template. It tracks the
// selection, zoom level, and unsaved changes the way an editor window
// would. A Session is not safe for concurrent use.
type Session struct {
	tpl     *report.Template
	opts    options
	section uuid.UUID
	element uuid.UUID
	zoom    float64
	dirty   bool
}

// NewSession returns a session with no template loaded.
func NewSession(opts ...Option) *Session {
	o := options{grid: DefaultGrid()}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return &Session{opts: o, zoom: 1}
}

// Template returns the template being edited, or nil.
func (s *Session) Template() *report.Template { return s.tpl }

// Grid returns the layout grid.
func (s *Session) Grid() Grid { return s.opts.grid }

// SetGrid replaces the layout grid.
func (s *Session) SetGrid(g Grid) { s.opts.grid = g }

// Dirty reports whether the template has unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// Load fetches a template from the repository and makes it the session's
// template. On failure, including cancellation, the session is unchanged.
func (s *Session) Load(ctx context.Context, id uuid.UUID) error {
	if s.opts.repo == nil {
		return ErrNoRepository
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := s.opts.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.reset(t)
	s.opts.logger.DebugContext(ctx, "template loaded",
		slog.String("id", t.ID.String()),
		slog.String("name", t.Name),
		slog.Int("version", t.Version))

	return nil
}

// New starts editing a fresh template from [report.NewTemplate].
func (s *Session) New(name, description, author string) *report.Template {
	s.reset(report.NewTemplate(name, description, author))
	s.dirty = true

	return s.tpl
}

// Open starts editing t without going through the repository.
func (s *Session) Open(t *report.Template) { s.reset(t) }

func (s *Session) reset(t *report.Template) {
	s.tpl = t
	s.section, s.element = uuid.Nil, uuid.Nil
	s.dirty = false
}

// Save creates the template if it has never been saved and updates it
// otherwise. Formula issues are logged as warnings and do not prevent
// saving. On success the session holds the stored copy.
func (s *Session) Save(ctx context.Context) error {
	if s.tpl == nil {
		return ErrNoTemplate
	}

	if s.opts.repo == nil {
		return ErrNoRepository
	}

	for _, issue := range s.Issues() {
		s.opts.logger.WarnContext(ctx, "formula issue", issue.attrs()...)
	}

	save := s.opts.repo.Update
	if s.tpl.Version == 0 {
		save = s.opts.repo.Create
	}

	t, err := save(ctx, s.tpl)
	if err != nil {
		return err
	}

	s.tpl = t
	s.dirty = false
	s.opts.logger.InfoContext(ctx, "template saved",
		slog.String("id", t.ID.String()),
		slog.Int("version", t.Version))

	return nil
}

func (s *Session) template() (*report.Template, error) {
	if s.tpl == nil {
		return nil, ErrNoTemplate
	}

	return s.tpl, nil
}

// AddSection appends a section and selects it.
func (s *Session) AddSection(kind report.SectionKind) (*report.Section, error) {
	t, err := s.template()
	if err != nil {
		return nil, err
	}

	sec, err := t.AddSection(kind)
	if err != nil {
		return nil, err
	}

	s.changed("section added", slog.String("kind", kind.String()))
	s.section, s.element = sec.ID, uuid.Nil

	return sec, nil
}

// RemoveSection deletes a section and its elements, clearing the selection
// if it pointed into the section.
func (s *Session) RemoveSection(id uuid.UUID) error {
	t, err := s.template()
	if err != nil {
		return err
	}

	sec, err := t.Section(id)
	if err != nil {
		return err
	}

	selected := s.section == id
	for _, e := range sec.Elements {
		selected = selected || e.ID == s.element
	}

	if err := t.RemoveSection(id); err != nil {
		return err
	}

	if selected {
		s.section, s.element = uuid.Nil, uuid.Nil
	}

	s.changed("section removed", slog.String("id", id.String()))

	return nil
}

// SetSection applies fn to a section and selects it. The height is clamped
// to at least [MinSize] afterwards.
func (s *Session) SetSection(id uuid.UUID, fn func(*report.Section)) (*report.Section, error) {
	t, err := s.template()
	if err != nil {
		return nil, err
	}

	sec, err := t.Section(id)
	if err != nil {
		return nil, err
	}

	fn(sec)
	sec.Height = max(sec.Height, MinSize)

	s.section, s.element = sec.ID, uuid.Nil
	s.changed("section updated",
		slog.String("name", sec.Name),
		slog.Float64("height", sec.Height),
		slog.Bool("visible", sec.Visible))

	return sec, nil
}

// AddElement adds an element to a section and selects it.
func (s *Session) AddElement(sectionID uuid.UUID, typ report.ElementType) (*report.Element, error) {
	t, err := s.template()
	if err != nil {
		return nil, err
	}

	e, err := t.AddElement(sectionID, typ)
	if err != nil {
		return nil, err
	}

	s.section, s.element = sectionID, e.ID
	s.changed("element added", slog.String("type", typ.String()), slog.String("name", e.Name))

	return e, nil
}

// RemoveElement deletes an element, clearing the element selection if it
// was selected.
func (s *Session) RemoveElement(id uuid.UUID) error {
	t, err := s.template()
	if err != nil {
		return err
	}

	if err := t.RemoveElement(id); err != nil {
		return err
	}

	if s.element == id {
		s.element = uuid.Nil
	}

	s.changed("element removed", slog.String("id", id.String()))

	return nil
}

// DuplicateElement copies an element and selects the copy.
func (s *Session) DuplicateElement(id uuid.UUID) (*report.Element, error) {
	t, err := s.template()
	if err != nil {
		return nil, err
	}

	e, err := t.DuplicateElement(id)
	if err != nil {
		return nil, err
	}

	s.section, s.element = e.SectionID, e.ID
	s.changed("element duplicated", slog.String("name", e.Name))

	return e, nil
}

// MoveElement moves an element by (dx, dy) through the grid and selects it.
func (s *Session) MoveElement(id uuid.UUID, dx, dy float64) (*report.Element, error) {
	return s.edit(id, "element moved", func(e *report.Element) {
		e.X, e.Y = s.opts.grid.Move(e.X, e.Y, dx, dy)
	})
}

// ResizeElement grows an element by (dw, dh) through the grid and selects
// it.
func (s *Session) ResizeElement(id uuid.UUID, dw, dh float64) (*report.Element, error) {
	return s.edit(id, "element resized", func(e *report.Element) {
		e.Width, e.Height = s.opts.grid.Resize(e.Width, e.Height, dw, dh)
	})
}

// UpdateElement applies fn to an element and selects it.
func (s *Session) UpdateElement(id uuid.UUID, fn func(*report.Element)) (*report.Element, error) {
	return s.edit(id, "element updated", fn)
}

func (s *Session) edit(id uuid.UUID, msg string, fn func(*report.Element)) (*report.Element, error) {
	t, err := s.template()
	if err != nil {
		return nil, err
	}

	e, sec, err := t.Element(id)
	if err != nil {
		return nil, err
	}

	fn(e)

	s.section, s.element = sec.ID, e.ID
	s.changed(msg,
		slog.String("name", e.Name),
		slog.Float64("x", e.X), slog.Float64("y", e.Y),
		slog.Float64("width", e.Width), slog.Float64("height", e.Height))

	return e, nil
}

func (s *Session) changed(msg string, attrs ...slog.Attr) {
	s.dirty = true
	s.opts.logger.Debug(msg, attrs...)
}

// SelectSection selects a section and clears the element selection.
// uuid.Nil clears the selection.
func (s *Session) SelectSection(id uuid.UUID) error {
	if id != uuid.Nil {
		t, err := s.template()
		if err != nil {
			return err
		}

		if _, err := t.Section(id); err != nil {
			return err
		}
	}

	s.section, s.element = id, uuid.Nil

	return nil
}

// SelectElement selects an element and its section. uuid.Nil clears the
// element selection.
func (s *Session) SelectElement(id uuid.UUID) error {
	if id == uuid.Nil {
		s.element = uuid.Nil

		return nil
	}

	t, err := s.template()
	if err != nil {
		return err
	}

	_, sec, err := t.Element(id)
	if err != nil {
		return err
	}

	s.section, s.element = sec.ID, id

	return nil
}

// Selection returns the selected section and element ids; either may be
// uuid.Nil.
func (s *Session) Selection() (section, element uuid.UUID) {
	return s.section, s.element
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 { return s.zoom }

// ZoomIn increases the zoom factor by one step, up to [MaxZoom].
func (s *Session) ZoomIn() float64 { return s.setZoom(s.zoom + ZoomStep) }

// ZoomOut decreases the zoom factor by one step, down to [MinZoom].
func (s *Session) ZoomOut() float64 { return s.setZoom(s.zoom - ZoomStep) }

// ZoomReset restores a zoom factor of 1.
func (s *Session) ZoomReset() float64 { return s.setZoom(1) }

func (s *Session) setZoom(z float64) float64 {
	s.zoom = min(max(math.Round(z*100)/100, MinZoom), MaxZoom)

	return s.zoom
}

// ValidateFormula checks formula text without evaluating it.
func (s *Session) ValidateFormula(text string) (bool, string) {
	return lang.Validate(text)
}
