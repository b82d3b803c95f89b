package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/report"
)

// tick is a clock that advances one second per reading.
type tick struct{ t time.Time }

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Second)

	return c.t
}

func newTick() *tick {
	return &tick{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func openDB(t *testing.T, opts ...Option) *DB {
	t.Helper()

	db, err := Open(t.Context(), "sqlite", filepath.Join(t.TempDir(), "templates.db"), opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// eachRepository runs fn against every Repository implementation.
func eachRepository(t *testing.T, fn func(t *testing.T, r Repository, clock *tick)) {
	t.Helper()

	impls := map[string]func(t *testing.T, clock *tick) Repository{
		"memory": func(_ *testing.T, clock *tick) Repository { return NewMemory(WithClock(clock.now)) },
		"db":     func(t *testing.T, clock *tick) Repository { return openDB(t, WithClock(clock.now)) },
	}

	for name, open := range impls {
		t.Run(name, func(t *testing.T) {
			clock := newTick()
			fn(t, open(t, clock), clock)
		})
	}
}

func sample(t *testing.T) *report.Template {
	t.Helper()

	tpl := report.NewTemplate("Monthly Sales", "Sales by region", "ops")
	detail := tpl.Sections[1]
	detail.VisibilityExpression = "[Total] > 0"

	for _, typ := range []report.ElementType{report.TextField, report.Line, report.CalculatedField} {
		if _, err := tpl.AddElement(detail.ID, typ); err != nil {
			t.Fatalf("AddElement(%v): %v", typ, err)
		}
	}

	detail.Elements[2].Expression = "=ROUND([Total] * 1.2, 2)"
	detail.Elements[2].FormatString = "C2"

	return tpl
}

func TestRepository_CreateGet(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		tpl := sample(t)

		created, err := r.Create(t.Context(), tpl)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		if created.ID == tpl.ID || created.ID == uuid.Nil {
			t.Errorf("Create kept id %v, want a new one", created.ID)
		}

		if created.Version != 1 {
			t.Errorf("Create Version = %d, want 1", created.Version)
		}

		want := time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC)
		if !created.CreatedAt.Equal(want) || !created.ModifiedAt.Equal(want) {
			t.Errorf("Create times = %v, %v, want %v", created.CreatedAt, created.ModifiedAt, want)
		}

		for _, s := range created.Sections {
			if s.TemplateID != created.ID {
				t.Errorf("section %s TemplateID = %v, want %v", s.Name, s.TemplateID, created.ID)
			}
		}

		got, err := r.GetByID(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if got.Name != tpl.Name || got.Description != tpl.Description || got.Author != tpl.Author {
			t.Errorf("GetByID header = %q %q %q", got.Name, got.Description, got.Author)
		}

		if got.Margins != tpl.Margins || got.Paper != tpl.Paper || got.Orientation != tpl.Orientation {
			t.Errorf("GetByID page settings differ: %+v", got)
		}

		if !reflect.DeepEqual(got.Sections, created.Sections) {
			t.Errorf("GetByID sections differ from created:\n got %+v\nwant %+v", got.Sections, created.Sections)
		}

		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("GetByID CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
		}
	})
}

func TestRepository_Detached(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		tpl := sample(t)

		created, err := r.Create(t.Context(), tpl)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		tpl.Name = "changed input"
		created.Name = "changed output"
		created.Sections[1].Elements[0].X = 99

		got, err := r.GetByID(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if got.Name != "Monthly Sales" || got.Sections[1].Elements[0].X == 99 {
			t.Errorf("stored template was modified through a returned copy: %q", got.Name)
		}
	})
}

func TestRepository_Update(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		created, err := r.Create(t.Context(), sample(t))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		footer := created.Sections[2]
		if err := created.RemoveSection(footer.ID); err != nil {
			t.Fatalf("RemoveSection: %v", err)
		}

		sec, err := created.AddSection(report.ReportFooter)
		if err != nil {
			t.Fatalf("AddSection: %v", err)
		}

		if _, err := created.AddElement(sec.ID, report.Label); err != nil {
			t.Fatalf("AddElement: %v", err)
		}

		created.Name = "Quarterly Sales"

		updated, err := r.Update(t.Context(), created)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}

		if updated.Version != 2 {
			t.Errorf("Update Version = %d, want 2", updated.Version)
		}

		if !updated.ModifiedAt.After(updated.CreatedAt) {
			t.Errorf("Update ModifiedAt = %v, not after CreatedAt %v", updated.ModifiedAt, updated.CreatedAt)
		}

		got, err := r.GetByID(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if got.Name != "Quarterly Sales" || got.Version != 2 {
			t.Errorf("GetByID = %q v%d", got.Name, got.Version)
		}

		if _, err := got.Section(footer.ID); err == nil {
			t.Error("removed section is still stored")
		}

		if s, err := got.Section(sec.ID); err != nil || len(s.Elements) != 1 {
			t.Errorf("added section = %v, %v", s, err)
		}

		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("Update changed CreatedAt to %v", got.CreatedAt)
		}
	})
}

func TestRepository_UpdateMissing(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		if _, err := r.Update(t.Context(), sample(t)); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update error = %v, want ErrNotFound", err)
		}
	})
}

func TestRepository_GetAllSearch(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		for _, tc := range [][2]string{
			{"Invoices", "Customer billing"},
			{"Sales Summary", "100% of regions"},
			{"Inventory", "Stock levels by SALES region"},
		} {
			if _, err := r.Create(t.Context(), report.NewTemplate(tc[0], tc[1], "")); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}

		all, err := r.GetAll(t.Context())
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}

		var names []string
		for _, tpl := range all {
			names = append(names, tpl.Name)
		}

		if want := []string{"Inventory", "Sales Summary", "Invoices"}; !reflect.DeepEqual(names, want) {
			t.Errorf("GetAll order = %v, want %v", names, want)
		}

		tests := []struct {
			term string
			want int
		}{
			{"sales", 2},
			{"INV", 2},
			{"billing", 1},
			{"%", 1},
			{"_", 0},
			{"", 3},
			{"payroll", 0},
		}

		for _, tt := range tests {
			got, err := r.SearchByName(t.Context(), tt.term)
			if err != nil {
				t.Fatalf("SearchByName(%q): %v", tt.term, err)
			}

			if len(got) != tt.want {
				t.Errorf("SearchByName(%q) = %d templates, want %d", tt.term, len(got), tt.want)
			}
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	eachRepository(t, func(t *testing.T, r Repository, _ *tick) {
		created, err := r.Create(t.Context(), sample(t))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		if err := r.Delete(t.Context(), created.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		if _, err := r.GetByID(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID after Delete error = %v, want ErrNotFound", err)
		}

		if err := r.Delete(t.Context(), uuid.New()); err != nil {
			t.Errorf("Delete of missing id = %v, want nil", err)
		}
	})
}

func TestDB_DeleteCascades(t *testing.T) {
	db := openDB(t)

	created, err := db.Create(t.Context(), sample(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := db.Delete(t.Context(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, model := range []any{&sectionRow{}, &elementRow{}} {
		var n int64
		if err := db.Gorm().Model(model).Count(&n).Error; err != nil {
			t.Fatalf("Count: %v", err)
		}

		if n != 0 {
			t.Errorf("%T rows after Delete = %d, want 0", model, n)
		}
	}
}

func TestDB_TiesOrderByID(t *testing.T) {
	db := openDB(t)

	id := func(n int) uuid.UUID { return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n)) }

	tpl := report.NewTemplate("ties", "", "")
	tpl.Sections = nil

	for _, n := range []int{3, 1, 2} {
		s := &report.Section{ID: id(n), TemplateID: tpl.ID, Kind: report.Detail, Height: 10, Visible: true}

		for _, m := range []int{n*10 + 2, n*10 + 1} {
			s.Elements = append(s.Elements, &report.Element{
				ID: id(m), SectionID: s.ID, Type: report.Line, Width: 10, Height: 1, Visible: true,
				Properties: report.DefaultProperties(report.Line),
			})
		}

		tpl.Sections = append(tpl.Sections, s)
	}

	created, err := db.Create(t.Context(), tpl)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := db.GetByID(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	var order []uuid.UUID

	for _, s := range got.Sections {
		order = append(order, s.ID)
		for _, e := range s.Elements {
			order = append(order, e.ID)
		}
	}

	want := []uuid.UUID{id(1), id(11), id(12), id(2), id(21), id(22), id(3), id(31), id(32)}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("load order = %v, want %v", order, want)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(t.Context(), "oracle", "x"); !errors.Is(err, ErrDriver) {
		t.Errorf("Open error = %v, want ErrDriver", err)
	}
}

func TestMemory_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewMemory().GetAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetAll error = %v, want context.Canceled", err)
	}
}
