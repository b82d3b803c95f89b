package lang

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted when a string is used as a date, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"01/02/2006",
	"2006/01/02",
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// normalize maps a host value onto the value domain of the language:
// nil, float64, string, bool, or time.Time. Values of any other type are
// returned unchanged and fail when an operation needs a specific kind.
func normalize(v any) any {
	switch v := v.(type) {
	case nil, float64, string, bool, time.Time:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case float32:
		return float64(v)
	case []byte:
		return string(v)
	case *time.Time:
		if v == nil {
			return nil
		}

		return *v
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return normalize(rv.Elem().Interface())
	}

	return v
}

// toNumber coerces v for arithmetic. Null is 0 and booleans are 1 or 0.
func toNumber(v any) (float64, error) {
	switch v := normalize(v).(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	case string:
		f, err := parseFloat(strings.TrimSpace(v))
		if err != nil {
			return 0, kindf(ErrType, "cannot convert %q to a number", v)
		}

		return f, nil
	default:
		return 0, kindf(ErrType, "cannot convert %s to a number", typeName(v))
	}
}

// toBool coerces v in a boolean context.
func toBool(v any) (bool, error) {
	switch v := normalize(v).(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false, nil
		}

		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, kindf(ErrType, "cannot convert %q to a boolean", v)
		}

		return b, nil
	default:
		return false, kindf(ErrType, "cannot convert %s to a boolean", typeName(v))
	}
}

// toTime coerces v to a date. Strings are parsed with the accepted layouts.
func toTime(v any) (time.Time, error) {
	switch v := normalize(v).(type) {
	case time.Time:
		return v, nil
	case string:
		if t, ok := parseTime(v); ok {
			return t, nil
		}

		return time.Time{}, kindf(ErrType, "cannot convert %q to a date", v)
	default:
		return time.Time{}, kindf(ErrType, "cannot convert %s to a date", typeName(v))
	}
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// toInt coerces v to a whole number, truncating toward zero. Values beyond
// the range of int saturate at its bounds.
func toInt(v any) (int, error) {
	f, err := toNumber(v)
	if err != nil {
		return 0, err
	}

	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, kindf(ErrDomain, "%v is not a finite number", f)
	case f >= math.MaxInt:
		return math.MaxInt, nil
	case f <= math.MinInt:
		return math.MinInt, nil
	}

	return int(f), nil
}

// Text returns the canonical text form of a value. Whole numbers print
// without a fractional part, dates print as yyyy-MM-dd with the time of day
// appended when it is not midnight, and null prints as the empty string.
func Text(v any) string {
	switch v := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}

		return v.Format(time.DateTime)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	a := math.Abs(f)

	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'g', -1, 64)
	case a != 0 && (a >= 1e21 || a < 1e-7):
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case time.Time:
		return "date"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// isNull reports whether v is null after normalization.
func isNull(v any) bool { return normalize(v) == nil }

// compare evaluates a comparison operator. Null equals only null, and an
// ordering against null is false.
func compare(op string, l, r any) (bool, error) {
	l, r = normalize(l), normalize(r)

	if l == nil || r == nil {
		both := l == nil && r == nil

		switch op {
		case "=":
			return both, nil
		case "<>":
			return !both, nil
		default:
			return false, nil
		}
	}

	c, ordered, err := order(l, r)
	if err != nil {
		return false, err
	}

	switch op {
	case "=":
		return c == 0, nil
	case "<>":
		return c != 0, nil
	}

	if !ordered {
		return false, kindf(ErrType, "cannot order %s and %s", typeName(l), typeName(r))
	}

	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}

	return false, kindf(ErrType, "unknown comparison %q", op)
}

// order compares two non-null values. ordered is false when only equality is
// meaningful; c is then 0 for equal values and 1 otherwise.
func order(l, r any) (c int, ordered bool, err error) {
	switch lv := l.(type) {
	case float64:
		switch rv := r.(type) {
		case float64:
			return cmpFloat(lv, rv), true, nil
		case string:
			if f, err := parseFloat(strings.TrimSpace(rv)); err == nil {
				return cmpFloat(lv, f), true, nil
			}

			return strings.Compare(Text(lv), rv), true, nil
		case bool:
			return cmpFloat(lv, boolNum(rv)), true, nil
		}

	case string:
		switch rv := r.(type) {
		case string:
			return strings.Compare(lv, rv), true, nil
		case float64:
			c, ok, err := order(rv, lv)

			return -c, ok, err
		case time.Time:
			if t, ok := parseTime(lv); ok {
				return t.Compare(rv), true, nil
			}
		case bool:
			if b, err := strconv.ParseBool(strings.TrimSpace(lv)); err == nil {
				return eqInt(b == rv), false, nil
			}
		}

	case time.Time:
		switch rv := r.(type) {
		case time.Time:
			return lv.Compare(rv), true, nil
		case string:
			c, ok, err := order(rv, lv)

			return -c, ok, err
		}

	case bool:
		switch rv := r.(type) {
		case bool:
			return eqInt(lv == rv), false, nil
		case float64, string:
			c, ok, err := order(rv, lv)

			return -c, ok, err
		}
	}

	if reflect.TypeOf(l) == reflect.TypeOf(r) && reflect.TypeOf(l).Comparable() {
		return eqInt(l == r), false, nil
	}

	return 1, false, nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func eqInt(eq bool) int {
	if eq {
		return 0
	}

	return 1
}
