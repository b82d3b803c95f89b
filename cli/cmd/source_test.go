package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/rptkit/store"
)

// seedItems creates a SQLite database file holding an items table.
func seedItems(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "items.db")

	db, err := store.Open(t.Context(), store.DefaultDriver, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, stmt := range []string{
		"CREATE TABLE items (name TEXT, qty INTEGER)",
		"INSERT INTO items (name, qty) VALUES ('bolt', 40), ('nut', 7)",
	} {
		if err := db.Gorm().Exec(stmt).Error; err != nil {
			t.Fatal(err)
		}
	}

	return path
}

func TestDataSourceCommands(t *testing.T) {
	ctx, out := testContext(t)
	data := seedItems(t)

	run(t, ctx, out, &ConnectionAdd{Name: "Warehouse", Provider: "sqlite", Database: data})

	if list := run(t, ctx, out, &ConnectionList{}); !strings.Contains(list, "Warehouse") {
		t.Errorf("connection list = %q", list)
	}

	run(t, ctx, out, &DataSourceAdd{
		Name: "All Items", Connection: "warehouse", Type: "table", Table: "items",
	})
	run(t, ctx, out, &DataSourceAdd{
		Name: "Stocked", Connection: "Warehouse", Type: "sql-query",
		Query: "SELECT name FROM items WHERE qty >= @min ORDER BY name",
		Param: []string{"min:int=10"},
	})

	list := run(t, ctx, out, &DataSourceList{})
	for _, want := range []string{"All Items", "Stocked", "items"} {
		if !strings.Contains(list, want) {
			t.Errorf("datasource list missing %q:\n%s", want, list)
		}
	}

	rows := run(t, ctx, out, &DataSourceQuery{DataSource: "all items"})
	for _, want := range []string{"bolt", "nut"} {
		if !strings.Contains(rows, want) {
			t.Errorf("table query missing %q:\n%s", want, rows)
		}
	}

	rows = run(t, ctx, out, &DataSourceQuery{DataSource: "Stocked"})
	if !strings.Contains(rows, "bolt") || strings.Contains(rows, "nut") {
		t.Errorf("default parameter query = %q", rows)
	}

	rows = run(t, ctx, out, &DataSourceQuery{DataSource: "Stocked", Param: []string{"min=5"}})
	if !strings.Contains(rows, "bolt") || !strings.Contains(rows, "nut") {
		t.Errorf("bound parameter query = %q", rows)
	}

	run(t, ctx, out, &TemplateNew{Name: "Stock"})
	run(t, ctx, out, &ElementAdd{Template: "Stock", Section: "detail", Type: "textfield"})
	run(t, ctx, out, &ElementSet{Template: "Stock", Element: "TextField_1", Field: ptr("[name]")})
	run(t, ctx, out, &DataSourceBind{Template: "Stock", DataSource: "All Items"})

	if tpl := showTemplate(t, ctx, out, "Stock"); tpl.DataSourceID == nil {
		t.Fatal("template not bound")
	}

	page := run(t, ctx, out, &Render{Template: "Stock", Format: "yaml", Out: stdinSource, DPI: 96, Quality: 90})
	if !strings.Contains(page, "bolt") || !strings.Contains(page, "nut") {
		t.Errorf("rendered page lacks data source rows:\n%s", page)
	}

	run(t, ctx, out, &DataSourceRemove{DataSource: "All Items"})

	if tpl := showTemplate(t, ctx, out, "Stock"); tpl.DataSourceID != nil {
		t.Error("template still bound to removed data source")
	}

	run(t, ctx, out, &ConnectionRemove{Connection: "Warehouse"})

	if list := run(t, ctx, out, &ConnectionList{}); strings.Contains(list, "Warehouse") {
		t.Errorf("removed connection listed: %q", list)
	}

	if err := (&DataSourceQuery{DataSource: "Stocked"}).Run(ctx); err == nil {
		t.Error("query of detached data source succeeded")
	}
}
