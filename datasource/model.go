package datasource

import (
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// DataSource describes where report rows come from: a query, a stored
// procedure, or a whole table reached through a [ConnectionString].
type DataSource struct {
	CreatedAt           time.Time   `json:"createdAt"                     yaml:"createdAt"`
	ModifiedAt          time.Time   `json:"modifiedAt"                    yaml:"modifiedAt"`
	ConnectionStringID  *uuid.UUID  `json:"connectionStringId,omitempty"  yaml:"connectionStringId,omitempty"`
	Name                string      `json:"name"                          yaml:"name"`
	Description         string      `json:"description"                   yaml:"description"`
	SQLQuery            string      `json:"sqlQuery,omitempty"            yaml:"sqlQuery,omitempty"`
	StoredProcedureName string      `json:"storedProcedureName,omitempty" yaml:"storedProcedureName,omitempty"`
	TableName           string      `json:"tableName,omitempty"           yaml:"tableName,omitempty"`
	Parameters          []Parameter `json:"parameters"                    yaml:"parameters"`
	Type                Type        `json:"type"                          yaml:"type"`
	ID                  uuid.UUID   `json:"id"                            yaml:"id"`
}

// DefaultDataType is the data type of a parameter that names none.
const DefaultDataType = "string"

// Parameter is a named input of a [DataSource].
type Parameter struct {
	DefaultValue *string   `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Name         string    `json:"name"                   yaml:"name"`
	DataType     string    `json:"dataType"               yaml:"dataType"`
	ID           uuid.UUID `json:"id"                     yaml:"id"`
	DataSourceID uuid.UUID `json:"dataSourceId"           yaml:"dataSourceId"`
	Required     bool      `json:"required"               yaml:"required"`
}

// Clone returns a deep copy of ds.
func (ds *DataSource) Clone() *DataSource {
	c := *ds
	if ds.ConnectionStringID != nil {
		id := *ds.ConnectionStringID
		c.ConnectionStringID = &id
	}

	c.Parameters = make([]Parameter, len(ds.Parameters))
	for i, p := range ds.Parameters {
		if p.DefaultValue != nil {
			v := *p.DefaultValue
			p.DefaultValue = &v
		}

		c.Parameters[i] = p
	}

	return &c
}

// ConnectionString holds the settings needed to reach a database. The
// password is kept encrypted; callers decrypt it and pass the plain text to
// [ConnectionString.DSN].
type ConnectionString struct {
	CreatedAt            time.Time `json:"createdAt"                      yaml:"createdAt"`
	ModifiedAt           time.Time `json:"modifiedAt"                     yaml:"modifiedAt"`
	Name                 string    `json:"name"                           yaml:"name"`
	Description          string    `json:"description"                    yaml:"description"`
	Server               string    `json:"server"                         yaml:"server"`
	Database             string    `json:"database"                       yaml:"database"`
	Username             string    `json:"username,omitempty"             yaml:"username,omitempty"`
	EncryptedPassword    string    `json:"encryptedPassword,omitempty"    yaml:"encryptedPassword,omitempty"`
	AdditionalParameters string    `json:"additionalParameters,omitempty" yaml:"additionalParameters,omitempty"`
	Port                 int       `json:"port,omitempty"                 yaml:"port,omitempty"`
	Provider             Provider  `json:"provider"                       yaml:"provider"`
	ID                   uuid.UUID `json:"id"                             yaml:"id"`
	UseWindowsAuth       bool      `json:"useWindowsAuth"                 yaml:"useWindowsAuth"`
}

var defaultPorts = map[Provider]int{
	SqlServer: 1433,
	Postgres:  5432,
	MySQL:     3306,
}

// SqlitePragmas are appended to SQLite DSNs that carry no query string.
const SqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SqliteDSN returns the DSN of the SQLite database file at path.
func SqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}

	return path + "?" + SqlitePragmas
}

// DSN builds the driver connection string for cs. AdditionalParameters is a
// list of key=value pairs separated by semicolons, passed through to the
// driver in its own syntax.
func (cs *ConnectionString) DSN(password string) (string, error) {
	extra := additional(cs.AdditionalParameters)

	switch cs.Provider {
	case Sqlite:
		if len(extra) == 0 {
			return SqliteDSN(cs.Database), nil
		}

		q := make([]string, len(extra))
		for i, kv := range extra {
			q[i] = kv[0] + "=" + kv[1]
		}

		return cs.Database + "?" + strings.Join(q, "&"), nil

	case Postgres:
		pairs := []string{
			"host=" + quote(cs.Server),
			"port=" + strconv.Itoa(cs.port()),
			"dbname=" + quote(cs.Database),
		}
		if cs.Username != "" {
			pairs = append(pairs, "user="+quote(cs.Username))
		}

		if password != "" {
			pairs = append(pairs, "password="+quote(password))
		}

		if !hasKey(extra, "sslmode") {
			pairs = append(pairs, "sslmode=disable")
		}

		if !hasKey(extra, "TimeZone") {
			pairs = append(pairs, "TimeZone=UTC")
		}

		for _, kv := range extra {
			pairs = append(pairs, kv[0]+"="+quote(kv[1]))
		}

		return strings.Join(pairs, " "), nil

	case MySQL:
		cfg := mysql.NewConfig()
		cfg.User = cs.Username
		cfg.Passwd = password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(cs.Server, strconv.Itoa(cs.port()))
		cfg.DBName = cs.Database
		cfg.ParseTime = true
		cfg.Loc = time.UTC

		if len(extra) > 0 {
			cfg.Params = make(map[string]string, len(extra))
			for _, kv := range extra {
				cfg.Params[kv[0]] = kv[1]
			}
		}

		return cfg.FormatDSN(), nil

	case SqlServer:
		u := url.URL{
			Scheme: "sqlserver",
			Host:   net.JoinHostPort(cs.Server, strconv.Itoa(cs.port())),
		}
		if !cs.UseWindowsAuth {
			u.User = url.UserPassword(cs.Username, password)
		}

		q := url.Values{}
		q.Set("database", cs.Database)

		for _, kv := range extra {
			q.Set(kv[0], kv[1])
		}

		u.RawQuery = q.Encode()

		return u.String(), nil
	}

	return "", ErrProvider.With(slog.String("provider", cs.Provider.String()))
}

func (cs *ConnectionString) port() int {
	if cs.Port > 0 {
		return cs.Port
	}

	return defaultPorts[cs.Provider]
}

// additional splits "a=1; b = 2" into ordered key/value pairs. Entries
// without a key are dropped.
func additional(s string) [][2]string {
	var kvs [][2]string

	for part := range strings.SplitSeq(s, ";") {
		k, v, _ := strings.Cut(part, "=")
		if k = strings.TrimSpace(k); k != "" {
			kvs = append(kvs, [2]string{k, strings.TrimSpace(v)})
		}
	}

	return kvs
}

func hasKey(kvs [][2]string, key string) bool {
	for _, kv := range kvs {
		if strings.EqualFold(kv[0], key) {
			return true
		}
	}

	return false
}

// quote escapes a libpq keyword value when it is empty or contains spaces,
// quotes, or backslashes.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}

	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)

	return "'" + r.Replace(v) + "'"
}
