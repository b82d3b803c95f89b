package datasource

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
	}{
		{"SqlServer", SqlServer},
		{"sql server", SqlServer},
		{"mssql", SqlServer},
		{"sqlite", Sqlite},
		{"postgresql", Postgres},
		{"MYSQL", MySQL},
		{"mariadb", MySQL},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if err != nil {
				t.Fatalf("ParseProvider(%q): %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseProvider("oracle"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("ParseProvider(oracle) error = %v, want ErrUnknownValue", err)
	}
}

func TestParseType_RoundTrip(t *testing.T) {
	for _, typ := range []Type{SqlQuery, StoredProcedure, Table} {
		b, _ := typ.MarshalText()

		var got Type
		if err := got.UnmarshalText(b); err != nil || got != typ {
			t.Errorf("round trip of %v = %v, %v", typ, got, err)
		}
	}
}

func TestConnectionString_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cs       ConnectionString
		password string
		contains []string
		excludes []string
	}{
		{
			name:     "sqlite",
			cs:       ConnectionString{Provider: Sqlite, Database: "/tmp/sales.db"},
			contains: []string{"/tmp/sales.db?", "foreign_keys(1)"},
		},
		{
			name: "sqlite_params",
			cs: ConnectionString{
				Provider:             Sqlite,
				Database:             "sales.db",
				AdditionalParameters: "mode=ro; cache=shared",
			},
			contains: []string{"sales.db?mode=ro&cache=shared"},
			excludes: []string{"foreign_keys"},
		},
		{
			name: "postgres",
			cs: ConnectionString{
				Provider: Postgres,
				Server:   "db.local",
				Database: "sales",
				Username: "report",
			},
			password: "it's secret",
			contains: []string{
				"host=db.local", "port=5432", "dbname=sales", "user=report",
				`password='it\'s secret'`, "sslmode=disable", "TimeZone=UTC",
			},
		},
		{
			name: "postgres_sslmode",
			cs: ConnectionString{
				Provider:             Postgres,
				Server:               "db.local",
				Port:                 6543,
				Database:             "sales",
				AdditionalParameters: "sslmode=require",
			},
			contains: []string{"port=6543", "sslmode=require"},
			excludes: []string{"sslmode=disable", "password="},
		},
		{
			name: "mysql",
			cs: ConnectionString{
				Provider: MySQL,
				Server:   "db.local",
				Database: "sales",
				Username: "report",
			},
			password: "pw",
			contains: []string{"report:pw@tcp(db.local:3306)/sales", "parseTime=true"},
		},
		{
			name: "sqlserver",
			cs: ConnectionString{
				Provider:             SqlServer,
				Server:               "db.local",
				Database:             "Sales",
				Username:             "report",
				AdditionalParameters: "encrypt=disable",
			},
			password: "pw",
			contains: []string{"sqlserver://report:pw@db.local:1433", "database=Sales", "encrypt=disable"},
		},
		{
			name: "sqlserver_windows_auth",
			cs: ConnectionString{
				Provider:       SqlServer,
				Server:         "db.local",
				Database:       "Sales",
				Username:       "report",
				UseWindowsAuth: true,
			},
			password: "pw",
			contains: []string{"sqlserver://db.local:1433"},
			excludes: []string{"report", "pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := tt.cs.DSN(tt.password)
			if err != nil {
				t.Fatalf("DSN: %v", err)
			}

			for _, s := range tt.contains {
				if !strings.Contains(dsn, s) {
					t.Errorf("DSN = %q, missing %q", dsn, s)
				}
			}

			for _, s := range tt.excludes {
				if strings.Contains(dsn, s) {
					t.Errorf("DSN = %q, unexpectedly contains %q", dsn, s)
				}
			}
		})
	}
}

func TestConnectionString_DSN_UnknownProvider(t *testing.T) {
	cs := ConnectionString{Provider: Provider(42)}
	if _, err := cs.DSN(""); !errors.Is(err, ErrProvider) {
		t.Errorf("DSN error = %v, want ErrProvider", err)
	}
}

func TestDataSource_Clone(t *testing.T) {
	def := "10"
	csID := uuid.New()
	ds := &DataSource{
		ConnectionStringID: &csID,
		Parameters:         []Parameter{{Name: "n", DefaultValue: &def}},
	}

	c := ds.Clone()
	*c.Parameters[0].DefaultValue = "20"
	*c.ConnectionStringID = uuid.Nil

	if def != "10" || csID == uuid.Nil {
		t.Error("Clone shares pointers with the original")
	}
}
