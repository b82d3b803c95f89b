package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/ardnew/rptkit/datasource"
	"github.com/ardnew/rptkit/designer"
	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/store"
)

// Connection groups the connection string commands.
type Connection struct {
	Add    ConnectionAdd    `cmd:"" help:"Store a database connection."`
	List   ConnectionList   `cmd:"" help:"List stored connections."`
	Remove ConnectionRemove `cmd:"" help:"Delete a connection; its data sources are detached."`
}

// ConnectionAdd stores a connection string.
type ConnectionAdd struct {
	Name        string `arg:"" help:"Connection name."`
	Provider    string `       help:"Database provider."            default:"sqlite" enum:"sqlite,postgres,mysql,sqlserver"`
	Server      string `       help:"Server host."`
	Database    string `       help:"Database name, or the database file for sqlite."`
	Port        int    `       help:"Server port; 0 uses the provider default."`
	Username    string `       help:"User name."`
	WindowsAuth bool   `       help:"Use integrated authentication (sqlserver)."`
	Params      string `       help:"Extra driver parameters as key=value;key=value."`
	Description string `       help:"Connection description."     short:"d"`
}

// Run executes the connection add command.
func (c *ConnectionAdd) Run(ctx context.Context) error {
	p, err := datasource.ParseProvider(c.Provider)
	if err != nil {
		return err
	}

	return withSources(ctx, func(src *store.Sources) error {
		cs, err := src.CreateConnectionString(ctx, &datasource.ConnectionString{
			Name:                 c.Name,
			Description:          c.Description,
			Provider:             p,
			Server:               c.Server,
			Database:             c.Database,
			Port:                 c.Port,
			Username:             c.Username,
			UseWindowsAuth:       c.WindowsAuth,
			AdditionalParameters: c.Params,
		})
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout(ctx), cs.ID)

		return err
	})
}

// ConnectionList lists connection strings.
type ConnectionList struct{}

// Run executes the connection list command.
func (c *ConnectionList) Run(ctx context.Context) error {
	return withSources(ctx, func(src *store.Sources) error {
		css, err := src.ListConnectionStrings(ctx)
		if err != nil {
			return err
		}

		tbl := newTable("ID", "NAME", "PROVIDER", "SERVER", "DATABASE")
		for _, cs := range css {
			tbl.Row(cs.ID.String(), cs.Name, cs.Provider.String(), cs.Server, cs.Database)
		}

		_, err = fmt.Fprintln(stdout(ctx), tbl.Render())

		return err
	})
}

// ConnectionRemove deletes a connection string.
type ConnectionRemove struct {
	Connection string `arg:"" help:"Connection id or name."`
}

// Run executes the connection remove command.
func (c *ConnectionRemove) Run(ctx context.Context) error {
	return withSources(ctx, func(src *store.Sources) error {
		cs, err := findConnection(ctx, src, c.Connection)
		if err != nil {
			return err
		}

		return src.DeleteConnectionString(ctx, cs.ID)
	})
}

// DataSource groups the data source commands.
type DataSource struct {
	Add    DataSourceAdd    `cmd:"" help:"Define a data source."`
	List   DataSourceList   `cmd:"" help:"List data sources."`
	Remove DataSourceRemove `cmd:"" help:"Delete a data source; templates using it are unbound."`
	Bind   DataSourceBind   `cmd:"" help:"Set the data source of a template."`
	Query  DataSourceQuery  `cmd:"" help:"Run a data source and print its rows as YAML."`
}

// DataSourceAdd defines a data source.
type DataSourceAdd struct {
	Name        string   `arg:"" help:"Data source name."`
	Connection  string   `       help:"Connection id or name."  required:""`
	Type        string   `       help:"Data source type."       default:"sql-query" enum:"sql-query,stored-procedure,table"`
	Query       string   `       help:"SQL text with @name parameter references."`
	Procedure   string   `       help:"Stored procedure name."`
	Table       string   `       help:"Table name."`
	Param       []string `       help:"Parameter as name[:type][=default]; a trailing '?' on the name makes it optional." placeholder:"DEF"`
	Description string   `       help:"Data source description." short:"d"`
}

// Run executes the datasource add command.
func (c *DataSourceAdd) Run(ctx context.Context) error {
	typ, err := datasource.ParseType(c.Type)
	if err != nil {
		return err
	}

	params := make([]datasource.Parameter, 0, len(c.Param))

	for _, def := range c.Param {
		p, err := parameter(def)
		if err != nil {
			return err
		}

		params = append(params, p)
	}

	return withSources(ctx, func(src *store.Sources) error {
		cs, err := findConnection(ctx, src, c.Connection)
		if err != nil {
			return err
		}

		ds, err := src.CreateDataSource(ctx, &datasource.DataSource{
			Name:                c.Name,
			Description:         c.Description,
			Type:                typ,
			ConnectionStringID:  &cs.ID,
			SQLQuery:            c.Query,
			StoredProcedureName: c.Procedure,
			TableName:           c.Table,
			Parameters:          params,
		})
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout(ctx), ds.ID)

		return err
	})
}

// parameter parses a parameter definition name[?][:type][=default].
func parameter(def string) (datasource.Parameter, error) {
	var p datasource.Parameter

	head, value, hasDefault := strings.Cut(def, "=")
	name, typ, _ := strings.Cut(head, ":")

	name, optional := strings.CutSuffix(strings.TrimSpace(name), "?")
	if name == "" {
		return p, datasource.ErrParameter.With(slog.String("definition", def))
	}

	p.Name = name
	p.DataType = strings.TrimSpace(typ)

	if hasDefault {
		p.DefaultValue = &value
	}

	p.Required = !optional && !hasDefault

	return p, nil
}

// DataSourceList lists data sources.
type DataSourceList struct{}

// Run executes the datasource list command.
func (c *DataSourceList) Run(ctx context.Context) error {
	return withSources(ctx, func(src *store.Sources) error {
		dss, err := src.ListDataSources(ctx)
		if err != nil {
			return err
		}

		tbl := newTable("ID", "NAME", "TYPE", "PARAMETERS", "SOURCE")
		for _, ds := range dss {
			names := make([]string, len(ds.Parameters))
			for i, p := range ds.Parameters {
				names[i] = p.Name + ":" + p.DataType
			}

			tbl.Row(ds.ID.String(), ds.Name, ds.Type.String(),
				strings.Join(names, ", "), target(ds))
		}

		_, err = fmt.Fprintln(stdout(ctx), tbl.Render())

		return err
	})
}

func target(ds *datasource.DataSource) string {
	switch ds.Type {
	case datasource.StoredProcedure:
		return ds.StoredProcedureName
	case datasource.Table:
		return ds.TableName
	default:
		return ds.SQLQuery
	}
}

// DataSourceRemove deletes a data source.
type DataSourceRemove struct {
	DataSource string `arg:"" help:"Data source id or name."`
}

// Run executes the datasource remove command.
func (c *DataSourceRemove) Run(ctx context.Context) error {
	return withSources(ctx, func(src *store.Sources) error {
		ds, err := findDataSource(ctx, src, c.DataSource)
		if err != nil {
			return err
		}

		return src.DeleteDataSource(ctx, ds.ID)
	})
}

// DataSourceBind sets or clears the data source of a template.
type DataSourceBind struct {
	Template   string `arg:"" help:"Template id or name."`
	DataSource string `arg:"" help:"Data source id or name, or 'none' to unbind."`
}

// Run executes the datasource bind command.
func (c *DataSourceBind) Run(ctx context.Context) error {
	var id *uuid.UUID

	if !strings.EqualFold(c.DataSource, "none") {
		err := withSources(ctx, func(src *store.Sources) error {
			ds, err := findDataSource(ctx, src, c.DataSource)
			if err != nil {
				return err
			}

			id = &ds.ID

			return nil
		})
		if err != nil {
			return err
		}
	}

	return design(ctx, c.Template, nil, func(s *designer.Session) (string, error) {
		s.Template().DataSourceID = id

		return "", nil
	})
}

// DataSourceQuery runs a data source.
type DataSourceQuery struct {
	DataSource string   `arg:"" help:"Data source id or name."`
	Param      []string `       help:"Parameter value (name=value)." placeholder:"NAME=VALUE"`
	Password   string   `       help:"Password of the connection."   env:"RPTKIT_DB_PASSWORD"`
}

// Run executes the datasource query command.
func (c *DataSourceQuery) Run(ctx context.Context) error {
	params, err := assignments(c.Param)
	if err != nil {
		return err
	}

	return withSources(ctx, func(src *store.Sources) error {
		ds, err := findDataSource(ctx, src, c.DataSource)
		if err != nil {
			return err
		}

		rows, err := query(ctx, src, ds, params, c.Password)
		if err != nil {
			return err
		}

		out, err := yaml.MarshalContext(ctx, rows)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = stdout(ctx).Write(out)

		return err
	})
}

// query connects to the database of ds and returns its rows.
func query(
	ctx context.Context,
	src *store.Sources,
	ds *datasource.DataSource,
	params map[string]string,
	password string,
) ([]map[string]any, error) {
	if ds.ConnectionStringID == nil {
		return nil, datasource.ErrConnect.With(slog.String("data_source", ds.Name))
	}

	cs, err := src.GetConnectionString(ctx, *ds.ConnectionStringID)
	if err != nil {
		return nil, err
	}

	conn, err := datasource.Open(ctx, cs, password, datasource.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}
	defer datasource.Close(conn)

	return datasource.Query(ctx, conn, ds, params)
}

func withSources(ctx context.Context, fn func(*store.Sources) error) error {
	db, err := runtimeFrom(ctx).openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db.Sources())
}

func findConnection(ctx context.Context, src *store.Sources, ref string) (*datasource.ConnectionString, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return src.GetConnectionString(ctx, id)
	}

	css, err := src.ListConnectionStrings(ctx)
	if err != nil {
		return nil, err
	}

	return named(css, ref, "connection", func(cs *datasource.ConnectionString) string { return cs.Name })
}

func findDataSource(ctx context.Context, src *store.Sources, ref string) (*datasource.DataSource, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return src.GetDataSource(ctx, id)
	}

	dss, err := src.ListDataSources(ctx)
	if err != nil {
		return nil, err
	}

	return named(dss, ref, "data_source", func(ds *datasource.DataSource) string { return ds.Name })
}

// named returns the one item whose name equals ref, ignoring case.
func named[T any](items []T, ref, kind string, name func(T) string) (T, error) {
	var (
		found T
		n     int
	)

	for _, it := range items {
		if strings.EqualFold(name(it), ref) {
			found = it
			n++
		}
	}

	switch n {
	case 0:
		return found, ErrNotFound.With(slog.String(kind, ref))
	case 1:
		return found, nil
	default:
		var zero T

		return zero, ErrAmbiguous.With(slog.String(kind, ref), slog.Int("matches", n))
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}
