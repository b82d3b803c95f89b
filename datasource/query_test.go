package datasource

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

func TestDataSource_Bind(t *testing.T) {
	ds := &DataSource{Parameters: []Parameter{
		{Name: "name"},
		{Name: "count", DataType: "int", DefaultValue: ptr("5")},
		{Name: "ratio", DataType: "decimal"},
		{Name: "active", DataType: "bool", Required: true},
		{Name: "since", DataType: "date"},
	}}

	got, err := ds.Bind(map[string]string{
		"ratio":  "0.25",
		"active": "yes",
		"since":  "2024-03-01",
		"extra":  "ignored",
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	want := map[string]any{
		"name":   nil,
		"count":  int64(5),
		"ratio":  0.25,
		"active": true,
		"since":  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if len(got) != len(want) {
		t.Fatalf("Bind = %v, want %v", got, want)
	}

	for k, w := range want {
		if g := got[k]; g != w {
			t.Errorf("Bind[%s] = %#v, want %#v", k, g, w)
		}
	}
}

func TestDataSource_Bind_Errors(t *testing.T) {
	tests := []struct {
		name   string
		param  Parameter
		values map[string]string
		want   error
	}{
		{"required", Parameter{Name: "id", Required: true}, nil, ErrMissing},
		{"required_empty", Parameter{Name: "id", Required: true}, map[string]string{"id": ""}, ErrMissing},
		{"bad_int", Parameter{Name: "id", DataType: "int"}, map[string]string{"id": "x"}, ErrParameter},
		{"bad_date", Parameter{Name: "d", DataType: "date"}, map[string]string{"d": "soon"}, ErrParameter},
		{"bad_type", Parameter{Name: "d", DataType: "blob"}, map[string]string{"d": "1"}, ErrParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &DataSource{Parameters: []Parameter{tt.param}}
			if _, err := ds.Bind(tt.values); !errors.Is(err, tt.want) {
				t.Errorf("Bind error = %v, want %v", err, tt.want)
			}
		})
	}
}

func openOrders(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenDSN(t.Context(), Sqlite, SqliteDSN(filepath.Join(t.TempDir(), "orders.db")))
	if err != nil {
		t.Fatalf("OpenDSN: %v", err)
	}

	t.Cleanup(func() { _ = Close(db) })

	for _, stmt := range []string{
		"CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT, total REAL)",
		"INSERT INTO orders (customer, total) VALUES ('alice', 12.5), ('bob', 40), ('bob', 7.25)",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	return db
}

func TestQuery_SqlQuery(t *testing.T) {
	db := openOrders(t)
	ds := &DataSource{
		Name:       "big orders",
		Type:       SqlQuery,
		SQLQuery:   "SELECT customer, total FROM orders WHERE total > @min ORDER BY id",
		Parameters: []Parameter{{Name: "min", DataType: "decimal", DefaultValue: ptr("0")}},
	}

	rows, err := Query(t.Context(), db, ds, map[string]string{"min": "10"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Query returned %d rows, want 2: %v", len(rows), rows)
	}

	if rows[0]["customer"] != "alice" || rows[1]["customer"] != "bob" {
		t.Errorf("Query rows = %v", rows)
	}

	rows, err = Query(t.Context(), db, ds, nil)
	if err != nil || len(rows) != 3 {
		t.Errorf("Query with default = %d rows, %v; want 3", len(rows), err)
	}
}

func TestQuery_Table(t *testing.T) {
	db := openOrders(t)
	ds := &DataSource{
		Type:       Table,
		TableName:  "orders",
		Parameters: []Parameter{{Name: "customer"}},
	}

	rows, err := Query(t.Context(), db, ds, map[string]string{"customer": "bob"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(rows) != 2 {
		t.Errorf("filtered Query returned %d rows, want 2", len(rows))
	}

	rows, err = Query(t.Context(), db, ds, nil)
	if err != nil || len(rows) != 3 {
		t.Errorf("unfiltered Query = %d rows, %v; want 3", len(rows), err)
	}
}

func TestQuery_Errors(t *testing.T) {
	db := openOrders(t)

	tests := []struct {
		name string
		ds   DataSource
		want error
	}{
		{"empty_sql", DataSource{Type: SqlQuery}, ErrNoQuery},
		{"bad_table", DataSource{Type: Table, TableName: "orders; DROP TABLE orders"}, ErrNoQuery},
		{"missing_table", DataSource{Type: Table, TableName: "nope"}, ErrQuery},
		{"bad_sql", DataSource{Type: SqlQuery, SQLQuery: "SELEC 1"}, ErrQuery},
		{"procedure_on_sqlite", DataSource{Type: StoredProcedure, StoredProcedureName: "usp_orders"}, ErrProvider},
		{"missing_param", DataSource{
			Type:       SqlQuery,
			SQLQuery:   "SELECT 1",
			Parameters: []Parameter{{Name: "id", Required: true}},
		}, ErrMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Query(t.Context(), db, &tt.ds, nil); !errors.Is(err, tt.want) {
				t.Errorf("Query error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcedure(t *testing.T) {
	tests := []struct {
		dialect string
		n       int
		want    string
	}{
		{"sqlserver", 0, "EXEC dbo.usp"},
		{"sqlserver", 2, "EXEC dbo.usp ?, ?"},
		{"mysql", 1, "CALL dbo.usp(?)"},
		{"postgres", 2, "SELECT * FROM dbo.usp(?, ?)"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			got, err := procedure(tt.dialect, "dbo.usp", tt.n)
			if err != nil {
				t.Fatalf("procedure: %v", err)
			}

			if got != tt.want {
				t.Errorf("procedure = %q, want %q", got, tt.want)
			}
		})
	}
}
