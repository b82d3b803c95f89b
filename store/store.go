package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/report"
)

// Repository persists report templates. Templates passed in are never
// retained and templates returned are detached copies, with sections
// ordered by OrderIndex and elements by ZIndex.
type Repository interface {
	// GetByID returns the template with id or [ErrNotFound].
	GetByID(ctx context.Context, id uuid.UUID) (*report.Template, error)
	// GetAll returns every template, most recently modified first.
	GetAll(ctx context.Context) ([]*report.Template, error)
	// Create stores t under a new id with Version 1 and returns the stored
	// copy. Sections and elements without an id are given one.
	Create(ctx context.Context, t *report.Template) (*report.Template, error)
	// Update replaces the stored template with the same id, including its
	// sections and elements, and increments its Version.
	Update(ctx context.Context, t *report.Template) (*report.Template, error)
	// Delete removes the template with id. A missing id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// SearchByName returns the templates whose name or description contains
	// term, ignoring case, most recently modified first.
	SearchByName(ctx context.Context, term string) ([]*report.Template, error)
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*DB)(nil)
)

// stamp returns the current time in UTC at millisecond precision.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// prepare assigns the ids of a template being created and links every child
// to its owner.
func prepare(t *report.Template, now time.Time) {
	t.ID = uuid.New()
	t.CreatedAt = now
	t.ModifiedAt = now
	t.Version = 1
	link(t)
}

// link sets missing child ids and the owner id of every section and element.
func link(t *report.Template) {
	for _, s := range t.Sections {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}

		s.TemplateID = t.ID

		for _, e := range s.Elements {
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}

			e.SectionID = s.ID
		}
	}
}

// arrange sorts sections by OrderIndex and elements by ZIndex, keeping the
// relative order of ties.
func arrange(t *report.Template) *report.Template {
	slices.SortStableFunc(t.Sections, func(a, b *report.Section) int {
		return cmp.Compare(a.OrderIndex, b.OrderIndex)
	})

	for _, s := range t.Sections {
		slices.SortStableFunc(s.Elements, func(a, b *report.Element) int {
			return cmp.Compare(a.ZIndex, b.ZIndex)
		})
	}

	return t
}

func newest(a, b *report.Template) int {
	return cmp.Or(b.ModifiedAt.Compare(a.ModifiedAt), strings.Compare(a.Name, b.Name))
}

func matches(t *report.Template, term string) bool {
	term = strings.ToLower(term)

	return strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}
