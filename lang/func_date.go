package lang

import (
	"strings"
	"time"
)

// datePart is a unit accepted by DATEADD and DATEDIFF.
type datePart int

const (
	partYear datePart = iota
	partQuarter
	partMonth
	partDay
	partWeek
	partHour
	partMinute
	partSecond
	partMillisecond
)

// Unit names and abbreviations follow SQL Server.
var dateParts = map[string]datePart{
	"year": partYear, "yy": partYear, "yyyy": partYear,
	"quarter": partQuarter, "qq": partQuarter, "q": partQuarter,
	"month": partMonth, "mm": partMonth, "m": partMonth,
	"dayofyear": partDay, "dy": partDay, "y": partDay,
	"day": partDay, "dd": partDay, "d": partDay,
	"weekday": partDay, "dw": partDay, "w": partDay,
	"week": partWeek, "wk": partWeek, "ww": partWeek,
	"hour": partHour, "hh": partHour,
	"minute": partMinute, "mi": partMinute, "n": partMinute,
	"second": partSecond, "ss": partSecond, "s": partSecond,
	"millisecond": partMillisecond, "ms": partMillisecond,
}

func parseDatePart(v any) (datePart, error) {
	name := strings.ToLower(strings.TrimSpace(Text(v)))

	p, ok := dateParts[name]
	if !ok {
		return 0, kindf(ErrDomain, "unknown date part %q", name)
	}

	return p, nil
}

// addMonths adds n months, clamping the day to the end of the target month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()

	return first.AddDate(0, 0, min(d, last)-1)
}

func dateAdd(p datePart, n int, t time.Time) time.Time {
	switch p {
	case partYear:
		return addMonths(t, 12*n)
	case partQuarter:
		return addMonths(t, 3*n)
	case partMonth:
		return addMonths(t, n)
	case partDay:
		return t.AddDate(0, 0, n)
	case partWeek:
		return t.AddDate(0, 0, 7*n)
	case partHour:
		return t.Add(time.Duration(n) * time.Hour)
	case partMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case partSecond:
		return t.Add(time.Duration(n) * time.Second)
	default:
		return t.Add(time.Duration(n) * time.Millisecond)
	}
}

// wall returns the wall-clock reading of t as if it were UTC.
func wall(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// dateDiff counts the unit boundaries crossed between start and end.
func dateDiff(p datePart, start, end time.Time) int64 {
	s, e := wall(start), wall(end)

	days := func(t time.Time) int64 { return floorDiv(t.Unix(), 86400) }

	switch p {
	case partYear:
		return int64(e.Year() - s.Year())
	case partQuarter:
		return int64((e.Year()*4 + (int(e.Month())-1)/3) - (s.Year()*4 + (int(s.Month())-1)/3))
	case partMonth:
		return int64((e.Year()*12 + int(e.Month())) - (s.Year()*12 + int(s.Month())))
	case partDay:
		return days(e) - days(s)
	case partWeek:
		// Weeks start on Sunday; 1970-01-04 was a Sunday.
		return floorDiv(days(e)-3, 7) - floorDiv(days(s)-3, 7)
	case partHour:
		return floorDiv(e.Unix(), 3600) - floorDiv(s.Unix(), 3600)
	case partMinute:
		return floorDiv(e.Unix(), 60) - floorDiv(s.Unix(), 60)
	case partSecond:
		return e.Unix() - s.Unix()
	default:
		return e.UnixMilli() - s.UnixMilli()
	}
}

func datePartFn(name, doc string, fn func(time.Time) int) *Func {
	return eager(name, CategoryDateTime, 1, 1, name+"(date)", doc,
		func(_ *CallContext, args []any) (any, error) {
			t, err := toTime(args[0])
			if err != nil {
				return nil, err
			}

			return float64(fn(t)), nil
		})
}

func layoutFn(name, sig, doc, layout string) *Func {
	return eager(name, CategoryDateTime, 1, 2, sig, doc,
		func(_ *CallContext, args []any) (any, error) {
			t, err := toTime(args[0])
			if err != nil {
				return nil, err
			}

			spec := layout
			if len(args) > 1 {
				spec = Text(args[1])
			}

			return formatDate(t, spec), nil
		})
}

func dateFuncs() []*Func {
	return []*Func{
		eager("NOW", CategoryDateTime, 0, 0, "NOW()", "Current date and time.",
			func(cc *CallContext, _ []any) (any, error) { return cc.Now(), nil }),
		eager("TODAY", CategoryDateTime, 0, 0, "TODAY()", "Current date at midnight.",
			func(cc *CallContext, _ []any) (any, error) {
				y, m, d := cc.Now().Date()

				return time.Date(y, m, d, 0, 0, 0, 0, cc.Now().Location()), nil
			}),
		datePartFn("YEAR", "Year of date.", time.Time.Year),
		datePartFn("MONTH", "Month of date, 1 to 12.", func(t time.Time) int { return int(t.Month()) }),
		datePartFn("DAY", "Day of the month, 1 to 31.", time.Time.Day),
		datePartFn("HOUR", "Hour of the day, 0 to 23.", time.Time.Hour),
		datePartFn("MINUTE", "Minute of the hour.", time.Time.Minute),
		datePartFn("SECOND", "Second of the minute.", time.Time.Second),
		eager("DATEADD", CategoryDateTime, 3, 3, "DATEADD(part, n, date)",
			"Adds n units of part (year, quarter, month, day, week, hour, minute, second, millisecond) to date.",
			func(_ *CallContext, args []any) (any, error) {
				p, err := parseDatePart(args[0])
				if err != nil {
					return nil, err
				}

				n, err := toInt(args[1])
				if err != nil {
					return nil, err
				}

				t, err := toTime(args[2])
				if err != nil {
					return nil, err
				}

				return dateAdd(p, n, t), nil
			}),
		eager("DATEDIFF", CategoryDateTime, 3, 3, "DATEDIFF(part, start, end)",
			"Number of part boundaries crossed from start to end.",
			func(_ *CallContext, args []any) (any, error) {
				p, err := parseDatePart(args[0])
				if err != nil {
					return nil, err
				}

				s, err := toTime(args[1])
				if err != nil {
					return nil, err
				}

				e, err := toTime(args[2])
				if err != nil {
					return nil, err
				}

				return float64(dateDiff(p, s, e)), nil
			}),
		layoutFn("DATEFORMAT", "DATEFORMAT(date[, layout])",
			"Formats date, by default as yyyy-MM-dd.", "yyyy-MM-dd"),
		layoutFn("TIMEFORMAT", "TIMEFORMAT(date[, layout])",
			"Formats the time of day, by default as HH:mm:ss.", "HH:mm:ss"),
		datePartFn("WEEKDAY", "Day of the week, Sunday = 1.", func(t time.Time) int { return int(t.Weekday()) + 1 }),
		datePartFn("WEEKNUM", "ISO 8601 week of the year.", func(t time.Time) int {
			_, w := t.ISOWeek()

			return w
		}),
		datePartFn("QUARTER", "Quarter of the year, 1 to 4.", func(t time.Time) int { return (int(t.Month())-1)/3 + 1 }),
	}
}
