package datasource

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/pkg"
)

// Bind resolves the parameter values of ds. A missing or empty value takes
// the parameter's default. Required parameters without either fail with
// [ErrMissing], and optional ones bind to nil. Each value is coerced by its
// DataType: string, int, decimal, bool, or date. Values not naming a
// parameter are ignored.
func (ds *DataSource) Bind(values map[string]string) (map[string]any, error) {
	bound := make(map[string]any, len(ds.Parameters))

	for _, p := range ds.Parameters {
		v, ok := values[p.Name]
		if !ok || v == "" {
			switch {
			case p.DefaultValue != nil:
				v = *p.DefaultValue
			case p.Required:
				return nil, ErrMissing.With(slog.String("parameter", p.Name))
			default:
				bound[p.Name] = nil

				continue
			}
		}

		c, err := coerce(p.DataType, v)
		if err != nil {
			return nil, ErrParameter.Wrap(err).With(
				slog.String("parameter", p.Name),
				slog.String("type", p.DataType),
			)
		}

		bound[p.Name] = c
	}

	return bound, nil
}

func coerce(dataType, v string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "", DefaultDataType, "text":
		return v, nil
	case "int", "integer":
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case "decimal", "number", "double", "float":
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case "bool", "boolean":
		return lang.Cast(v, "boolean")
	case "date", "datetime":
		return lang.Cast(v, "date")
	}

	return nil, ErrUnknownValue.With(slog.String("kind", "data type"), slog.String("value", dataType))
}

// Query binds values and reads the rows of ds from db.
//
// A SqlQuery runs its SQL with parameters referenced by name, as in
// "WHERE total > @min". A StoredProcedure is called with the parameters in
// declaration order. A Table is read whole, filtered by equality on every
// parameter that has a value.
func Query(ctx context.Context, db *gorm.DB, ds *DataSource, values map[string]string) ([]map[string]any, error) {
	args, err := ds.Bind(values)
	if err != nil {
		return nil, err
	}

	attr := slog.String("source", ds.Name)
	tx := db.WithContext(ctx)
	rows := []map[string]any{}

	switch ds.Type {
	case SqlQuery:
		if strings.TrimSpace(ds.SQLQuery) == "" {
			return nil, ErrNoQuery.With(attr)
		}

		if len(args) > 0 {
			tx = tx.Raw(ds.SQLQuery, args)
		} else {
			tx = tx.Raw(ds.SQLQuery)
		}

	case StoredProcedure:
		stmt, err := procedure(db.Dialector.Name(), ds.StoredProcedureName, len(ds.Parameters))
		if err != nil {
			return nil, err.With(attr)
		}

		pos := make([]any, len(ds.Parameters))
		for i, p := range ds.Parameters {
			pos[i] = args[p.Name]
		}

		tx = tx.Raw(stmt, pos...)

	case Table:
		if !identifier(ds.TableName) {
			return nil, ErrNoQuery.With(attr, slog.String("table", ds.TableName))
		}

		where := make(map[string]any, len(args))
		for k, v := range args {
			if v != nil {
				where[k] = v
			}
		}

		tx = tx.Table(ds.TableName)
		if len(where) > 0 {
			tx = tx.Where(where)
		}

		if err := tx.Find(&rows).Error; err != nil {
			return nil, ErrQuery.Wrap(err).With(attr)
		}

		return rows, nil

	default:
		return nil, ErrUnknownValue.With(slog.String("kind", "type"), slog.String("value", ds.Type.String()))
	}

	if err := tx.Scan(&rows).Error; err != nil {
		return nil, ErrQuery.Wrap(err).With(attr)
	}

	return rows, nil
}

// procedure returns the call statement for a stored procedure with n
// positional parameters in the dialect of the named gorm driver.
func procedure(dialect, name string, n int) (string, *pkg.Error) {
	if !identifier(name) {
		return "", ErrNoQuery.With(slog.String("procedure", name))
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")

	switch dialect {
	case "sqlserver":
		if n == 0 {
			return "EXEC " + name, nil
		}

		return "EXEC " + name + " " + marks, nil
	case "mysql":
		return "CALL " + name + "(" + marks + ")", nil
	case "postgres":
		return "SELECT * FROM " + name + "(" + marks + ")", nil
	}

	return "", ErrProvider.With(slog.String("provider", dialect))
}

// identifier reports whether s is a possibly qualified SQL name made of
// letters, digits, underscores, and bracket or quote delimiters.
func identifier(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("_.[]\"`", r):
		default:
			return false
		}
	}

	return true
}
