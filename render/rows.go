package render

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/ardnew/rptkit/pkg"
)

// Rows converts report data into field maps, one per detail row. data may
// be nil, a map with string keys, a struct, or a slice or array of either.
// Struct fields are named by their json tag when present and by their Go
// name otherwise. Pointers are followed.
func Rows(data any) ([]map[string]any, error) {
	switch d := data.(type) {
	case nil:
		return []map[string]any{}, nil
	case map[string]any:
		return []map[string]any{d}, nil
	case []map[string]any:
		return d, nil
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return []map[string]any{}, nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		rows := make([]map[string]any, rv.Len())

		for i := range rv.Len() {
			row, err := record(rv.Index(i))
			if err != nil {
				return nil, err.With(slog.Int("row", i))
			}

			rows[i] = row
		}

		return rows, nil
	}

	row, err := record(rv)
	if err != nil {
		return nil, err
	}

	return []map[string]any{row}, nil
}

func record(rv reflect.Value) (map[string]any, *pkg.Error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return map[string]any{}, nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		row := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			row[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}

		return row, nil

	case reflect.Struct:
		row := make(map[string]any, rv.NumField())
		typ := rv.Type()

		for i := range typ.NumField() {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}

			name := f.Name
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == "-" {
				continue
			} else if tag != "" {
				name = tag
			}

			row[name] = rv.Field(i).Interface()
		}

		return row, nil
	}

	return nil, ErrData.With(slog.String("type", rv.Type().String()))
}
