package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/datasource"
	"github.com/ardnew/rptkit/report"
)

func TestSources_ConnectionStrings(t *testing.T) {
	clock := newTick()
	src := openDB(t, WithClock(clock.now)).Sources()
	ctx := t.Context()

	cs, err := src.CreateConnectionString(ctx, &datasource.ConnectionString{
		Name:     "warehouse",
		Provider: datasource.Postgres,
		Server:   "db.local",
		Database: "dw",
		Username: "report",
	})
	if err != nil {
		t.Fatalf("CreateConnectionString: %v", err)
	}

	if _, err := src.CreateConnectionString(ctx, &datasource.ConnectionString{
		Name: "archive", Provider: datasource.Sqlite, Database: "archive.db",
	}); err != nil {
		t.Fatalf("CreateConnectionString: %v", err)
	}

	cs.Port = 6543
	if _, err := src.UpdateConnectionString(ctx, cs); err != nil {
		t.Fatalf("UpdateConnectionString: %v", err)
	}

	got, err := src.GetConnectionString(ctx, cs.ID)
	if err != nil {
		t.Fatalf("GetConnectionString: %v", err)
	}

	if got.Port != 6543 || got.Provider != datasource.Postgres || got.Username != "report" {
		t.Errorf("GetConnectionString = %+v", got)
	}

	if !got.ModifiedAt.After(got.CreatedAt) {
		t.Errorf("ModifiedAt %v not after CreatedAt %v", got.ModifiedAt, got.CreatedAt)
	}

	list, err := src.ListConnectionStrings(ctx)
	if err != nil || len(list) != 2 || list[0].Name != "archive" {
		t.Fatalf("ListConnectionStrings = %v, %v", list, err)
	}

	if err := src.DeleteConnectionString(ctx, cs.ID); err != nil {
		t.Fatalf("DeleteConnectionString: %v", err)
	}

	if _, err := src.GetConnectionString(ctx, cs.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString after delete error = %v, want ErrNotFound", err)
	}

	if _, err := src.UpdateConnectionString(ctx, cs); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateConnectionString of deleted = %v, want ErrNotFound", err)
	}
}

func TestSources_DataSources(t *testing.T) {
	db := openDB(t)
	src := db.Sources()
	ctx := t.Context()

	cs, err := src.CreateConnectionString(ctx, &datasource.ConnectionString{
		Name: "local", Provider: datasource.Sqlite, Database: "sales.db",
	})
	if err != nil {
		t.Fatalf("CreateConnectionString: %v", err)
	}

	def := "2024-01-01"
	ds, err := src.CreateDataSource(ctx, &datasource.DataSource{
		Name:               "orders",
		Type:               datasource.SqlQuery,
		ConnectionStringID: &cs.ID,
		SQLQuery:           "SELECT * FROM orders WHERE placed >= @since AND region = @region",
		Parameters: []datasource.Parameter{
			{Name: "since", DataType: "date", DefaultValue: &def},
			{Name: "region", Required: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateDataSource: %v", err)
	}

	if ds.Parameters[1].DataType != datasource.DefaultDataType {
		t.Errorf("parameter DataType = %q, want %q", ds.Parameters[1].DataType, datasource.DefaultDataType)
	}

	got, err := src.GetDataSource(ctx, ds.ID)
	if err != nil {
		t.Fatalf("GetDataSource: %v", err)
	}

	if got.SQLQuery != ds.SQLQuery || got.ConnectionStringID == nil || *got.ConnectionStringID != cs.ID {
		t.Errorf("GetDataSource = %+v", got)
	}

	if len(got.Parameters) != 2 || got.Parameters[0].Name != "since" ||
		got.Parameters[0].DefaultValue == nil || *got.Parameters[0].DefaultValue != def ||
		!got.Parameters[1].Required {
		t.Errorf("GetDataSource parameters = %+v", got.Parameters)
	}

	got.Parameters = got.Parameters[1:]
	got.Type = datasource.Table
	got.TableName = "orders"

	if _, err := src.UpdateDataSource(ctx, got); err != nil {
		t.Fatalf("UpdateDataSource: %v", err)
	}

	list, err := src.ListDataSources(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListDataSources = %v, %v", list, err)
	}

	if list[0].Type != datasource.Table || len(list[0].Parameters) != 1 {
		t.Errorf("updated data source = %+v", list[0])
	}

	// A template bound to the data source is unbound when it is deleted.
	tpl := report.NewTemplate("Orders", "", "")
	tpl.DataSourceID = &ds.ID

	created, err := db.Create(ctx, tpl)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := src.DeleteDataSource(ctx, ds.ID); err != nil {
		t.Fatalf("DeleteDataSource: %v", err)
	}

	if _, err := src.GetDataSource(ctx, ds.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDataSource after delete error = %v, want ErrNotFound", err)
	}

	bound, err := db.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if bound.DataSourceID != nil {
		t.Errorf("template DataSourceID = %v after data source delete, want nil", bound.DataSourceID)
	}

	if _, err := src.UpdateDataSource(ctx, &datasource.DataSource{ID: uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateDataSource of missing = %v, want ErrNotFound", err)
	}
}
