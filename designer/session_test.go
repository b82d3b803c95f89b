package designer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/report"
)

var errBoom = errors.New("boom")

// fakeRepo records calls and returns stored copies.
type fakeRepo struct {
	stored  map[uuid.UUID]*report.Template
	creates int
	updates int
	fail    error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{stored: map[uuid.UUID]*report.Template{}} }

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*report.Template, error) {
	if r.fail != nil {
		return nil, r.fail
	}

	t, ok := r.stored[id]
	if !ok {
		return nil, errBoom
	}

	return t.Clone(), nil
}

func (r *fakeRepo) Create(_ context.Context, t *report.Template) (*report.Template, error) {
	if r.fail != nil {
		return nil, r.fail
	}

	r.creates++
	c := t.Clone()
	c.Version = 1
	r.stored[c.ID] = c

	return c.Clone(), nil
}

func (r *fakeRepo) Update(_ context.Context, t *report.Template) (*report.Template, error) {
	if r.fail != nil {
		return nil, r.fail
	}

	r.updates++
	c := t.Clone()
	c.Version++
	r.stored[c.ID] = c

	return c.Clone(), nil
}

func TestSession_NewSaveLoad(t *testing.T) {
	repo := newFakeRepo()
	s := NewSession(WithRepository(repo))

	tpl := s.New("Invoice", "", "ops")
	if !s.Dirty() {
		t.Error("new template is not dirty")
	}

	if err := s.Save(t.Context()); err != nil {
		t.Fatal(err)
	}

	if repo.creates != 1 || repo.updates != 0 || s.Dirty() || s.Template().Version != 1 {
		t.Errorf("after first save: creates=%d updates=%d dirty=%t version=%d",
			repo.creates, repo.updates, s.Dirty(), s.Template().Version)
	}

	if _, err := s.AddSection(report.GroupHeader); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(t.Context()); err != nil {
		t.Fatal(err)
	}

	if repo.updates != 1 || s.Template().Version != 2 {
		t.Errorf("after second save: updates=%d version=%d", repo.updates, s.Template().Version)
	}

	other := NewSession(WithRepository(repo))
	if err := other.Load(t.Context(), tpl.ID); err != nil {
		t.Fatal(err)
	}

	if len(other.Template().Sections) != 4 || other.Dirty() {
		t.Errorf("loaded %d sections, dirty=%t", len(other.Template().Sections), other.Dirty())
	}
}

func TestSession_LoadFailureKeepsState(t *testing.T) {
	repo := newFakeRepo()
	s := NewSession(WithRepository(repo))
	tpl := s.New("keep", "", "")

	if err := s.Load(t.Context(), uuid.New()); !errors.Is(err, errBoom) {
		t.Errorf("Load(unknown) error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := s.Load(ctx, tpl.ID); !errors.Is(err, context.Canceled) {
		t.Errorf("Load(cancelled) error = %v", err)
	}

	if s.Template() != tpl || !s.Dirty() {
		t.Error("failed Load changed the session")
	}
}

func TestSession_NoTemplate(t *testing.T) {
	s := NewSession()

	if _, err := s.AddSection(report.Detail); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("AddSection error = %v, want ErrNoTemplate", err)
	}

	if err := s.Save(t.Context()); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("Save error = %v, want ErrNoTemplate", err)
	}

	s.New("x", "", "")

	if err := s.Save(t.Context()); !errors.Is(err, ErrNoRepository) {
		t.Errorf("Save error = %v, want ErrNoRepository", err)
	}
}

func TestSession_SaveFailureKeepsDirty(t *testing.T) {
	repo := newFakeRepo()
	repo.fail = errBoom

	s := NewSession(WithRepository(repo))
	s.New("x", "", "")

	if err := s.Save(t.Context()); !errors.Is(err, errBoom) {
		t.Errorf("Save error = %v", err)
	}

	if !s.Dirty() || s.Template().Version != 0 {
		t.Error("failed Save changed the session")
	}
}

func TestSession_MutationsSelect(t *testing.T) {
	s := NewSession()
	tpl := s.New("t", "", "")
	detail := tpl.Sections[1]

	e, err := s.AddElement(detail.ID, report.Label)
	if err != nil {
		t.Fatal(err)
	}

	if sec, el := s.Selection(); sec != detail.ID || el != e.ID {
		t.Errorf("selection after add = %s %s", sec, el)
	}

	if _, err := s.MoveElement(e.ID, 3, 7); err != nil {
		t.Fatal(err)
	}

	if e.X != 15 || e.Y != 15 {
		t.Errorf("moved to (%g, %g), want (15, 15)", e.X, e.Y)
	}

	if _, err := s.ResizeElement(e.ID, -200, 0); err != nil {
		t.Fatal(err)
	}

	if e.Width != MinSize || e.Height != 20 {
		t.Errorf("resized to %gx%g, want %gx20", e.Width, e.Height, MinSize)
	}

	dup, err := s.DuplicateElement(e.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, el := s.Selection(); el != dup.ID {
		t.Errorf("selection after duplicate = %s, want %s", el, dup.ID)
	}

	if err := s.RemoveElement(dup.ID); err != nil {
		t.Fatal(err)
	}

	if _, el := s.Selection(); el != uuid.Nil {
		t.Errorf("selection after remove = %s, want nil", el)
	}

	if err := s.SelectElement(e.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveSection(detail.ID); err != nil {
		t.Fatal(err)
	}

	if sec, el := s.Selection(); sec != uuid.Nil || el != uuid.Nil {
		t.Errorf("selection after section remove = %s %s", sec, el)
	}

	if _, err := s.MoveElement(e.ID, 1, 1); !errors.Is(err, report.ErrElementNotFound) {
		t.Errorf("MoveElement(removed) error = %v", err)
	}

	if err := s.SelectSection(uuid.New()); !errors.Is(err, report.ErrSectionNotFound) {
		t.Errorf("SelectSection(unknown) error = %v", err)
	}
}

func TestSession_Zoom(t *testing.T) {
	s := NewSession()

	if z := s.ZoomIn(); z != 1.1 {
		t.Errorf("ZoomIn = %g, want 1.1", z)
	}

	for range 100 {
		s.ZoomIn()
	}

	if s.Zoom() != MaxZoom {
		t.Errorf("zoom = %g, want %g", s.Zoom(), MaxZoom)
	}

	for range 100 {
		s.ZoomOut()
	}

	if s.Zoom() != MinZoom {
		t.Errorf("zoom = %g, want %g", s.Zoom(), MinZoom)
	}

	if s.ZoomReset() != 1 {
		t.Errorf("ZoomReset = %g", s.Zoom())
	}
}

func TestSession_Issues(t *testing.T) {
	var buf bytes.Buffer

	repo := newFakeRepo()
	s := NewSession(
		WithRepository(repo),
		WithLogger(log.Make(&buf, log.WithLevel(log.LevelWarn))),
	)

	tpl := s.New("t", "", "")
	detail := tpl.Sections[1]
	detail.VisibilityExpression = "[Show] = "

	calc, _ := s.AddElement(detail.ID, report.CalculatedField)
	label, _ := s.AddElement(detail.ID, report.Label)
	label.VisibilityExpression = "ISEMPTY([Name])"

	issues := s.Issues()
	if len(issues) != 2 {
		t.Fatalf("Issues() = %+v, want 2", issues)
	}

	if issues[0].Field != "visibility" || issues[0].Element != uuid.Nil {
		t.Errorf("first issue = %+v", issues[0])
	}

	if issues[1].Element != calc.ID || !strings.Contains(issues[1].Message, "SUM") {
		t.Errorf("second issue = %+v", issues[1])
	}

	if err := s.Save(t.Context()); err != nil {
		t.Fatalf("Save with issues: %v", err)
	}

	if got := strings.Count(buf.String(), "formula issue"); got != 2 {
		t.Errorf("logged %d issues, want 2:\n%s", got, buf.String())
	}

	if ok, _ := s.ValidateFormula("UPPER([Name])"); !ok {
		t.Error("ValidateFormula rejected a valid formula")
	}
}
