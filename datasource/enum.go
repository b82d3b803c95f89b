package datasource

//go:generate go tool stringer --linecomment --type Type,Provider --output enum_string.go

import (
	"log/slog"
	"strings"
)

// Type selects how a [DataSource] produces rows.
type Type int

const (
	SqlQuery Type = iota
	StoredProcedure
	Table
)

// Provider is a database engine a [ConnectionString] can address.
type Provider int

const (
	SqlServer Provider = iota
	Sqlite
	Postgres
	MySQL
)

// Alternate spellings accepted by ParseProvider, folded to lower case.
var providerAliases = map[string]Provider{
	"mssql":      SqlServer,
	"sqlite3":    Sqlite,
	"postgresql": Postgres,
	"pg":         Postgres,
	"mariadb":    MySQL,
}

func (t Type) Valid() bool     { return t >= SqlQuery && t <= Table }
func (p Provider) Valid() bool { return p >= SqlServer && p <= MySQL }

// ParseType parses a data source type name, ignoring case, spaces, hyphens,
// and underscores.
func ParseType(s string) (Type, error) {
	key := fold(s)
	for t := SqlQuery; t <= Table; t++ {
		if strings.EqualFold(key, t.String()) {
			return t, nil
		}
	}

	return 0, ErrUnknownValue.With(slog.String("kind", "type"), slog.String("value", s))
}

// ParseProvider parses a provider name. Driver names such as "postgresql",
// "mssql", and "mariadb" are accepted too.
func ParseProvider(s string) (Provider, error) {
	key := fold(s)
	for p := SqlServer; p <= MySQL; p++ {
		if strings.EqualFold(key, p.String()) {
			return p, nil
		}
	}

	if p, ok := providerAliases[strings.ToLower(key)]; ok {
		return p, nil
	}

	return 0, ErrUnknownValue.With(slog.String("kind", "provider"), slog.String("value", s))
}

func fold(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(s))
}

func (t Type) MarshalText() ([]byte, error)     { return []byte(t.String()), nil }
func (p Provider) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (t *Type) UnmarshalText(b []byte) (err error) {
	*t, err = ParseType(string(b))

	return err
}

func (p *Provider) UnmarshalText(b []byte) (err error) {
	*p, err = ParseProvider(string(b))

	return err
}
