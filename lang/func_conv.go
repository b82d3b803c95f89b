package lang

import (
	"math"
	"strings"
	"time"
)

// Go layout fragments for .NET date pattern tokens, longest first.
var layoutTokens = []struct{ net, goLayout string }{
	{"yyyy", "2006"}, {"yy", "06"},
	{"MMMM", "January"}, {"MMM", "Jan"}, {"MM", "01"}, {"M", "1"},
	{"dddd", "Monday"}, {"ddd", "Mon"}, {"dd", "02"}, {"d", "2"},
	{"HH", "15"}, {"H", "15"}, {"hh", "03"}, {"h", "3"},
	{"mm", "04"}, {"m", "4"}, {"ss", "05"}, {"s", "5"},
	{"fffffffff", "000000000"}, {"ffffff", "000000"}, {"fff", "000"},
	{"tt", "PM"}, {"zzz", "-07:00"}, {"K", "Z07:00"},
}

// goLayout translates a .NET date pattern into a time.Parse layout.
func goLayout(pattern string) string {
	var sb strings.Builder

next:
	for i := 0; i < len(pattern); {
		for _, tok := range layoutTokens {
			if strings.HasPrefix(pattern[i:], tok.net) {
				sb.WriteString(tok.goLayout)
				i += len(tok.net)

				continue next
			}
		}

		sb.WriteByte(pattern[i])
		i++
	}

	return sb.String()
}

func toBoolean(v any) (bool, error) {
	if s, ok := normalize(v).(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
	}

	return toBool(v)
}

func toDate(v any, layout string) (any, error) {
	if isNull(v) {
		return nil, nil
	}

	if layout == "" {
		return toTime(v)
	}

	s := strings.TrimSpace(Text(v))

	t, err := time.Parse(goLayout(layout), s)
	if err != nil {
		return nil, kindf(ErrType, "cannot parse %q with layout %q", s, layout)
	}

	return t, nil
}

// Cast converts v to the named type: string (text), number (double,
// decimal, float), integer (int), date (datetime), or boolean (bool).
func Cast(v any, target string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "string", "text":
		return Text(v), nil
	case "number", "double", "decimal", "float":
		return toNumber(v)
	case "integer", "int":
		f, err := toNumber(v)
		if err != nil {
			return nil, err
		}

		return math.Trunc(f), nil
	case "date", "datetime":
		return toDate(v, "")
	case "boolean", "bool":
		return toBoolean(v)
	default:
		return nil, kindf(ErrType, "unknown cast target %q", target)
	}
}

func convFn(name, sig, doc string, lo, hi int, fn func(args []any) (any, error)) *Func {
	return eager(name, CategoryConversion, lo, hi, sig, doc,
		func(_ *CallContext, args []any) (any, error) { return fn(args) })
}

func convFuncs() []*Func {
	return []*Func{
		convFn("TOSTRING", "TOSTRING(value[, format])",
			"Text of value, optionally formatted like FORMAT.", 1, 2,
			func(args []any) (any, error) {
				if len(args) > 1 {
					return FormatValue(Text(args[1]), args[0])
				}

				return Text(args[0]), nil
			}),
		convFn("TONUMBER", "TONUMBER(value)", "value as a number. Null is 0.", 1, 1,
			func(args []any) (any, error) { return toNumber(args[0]) }),
		convFn("TODATE", "TODATE(value[, layout])",
			"value as a date, parsed with layout such as dd/MM/yyyy when given.", 1, 2,
			func(args []any) (any, error) {
				layout := ""
				if len(args) > 1 {
					layout = Text(args[1])
				}

				return toDate(args[0], layout)
			}),
		convFn("TOBOOLEAN", "TOBOOLEAN(value)",
			"value as a boolean. Accepts true/false, yes/no, on/off, 1/0.", 1, 1,
			func(args []any) (any, error) { return toBoolean(args[0]) }),
		convFn("CAST", "CAST(value, type)",
			"value converted to string, number, integer, date, or boolean.", 2, 2,
			func(args []any) (any, error) { return Cast(args[0], Text(args[1])) }),
	}
}
