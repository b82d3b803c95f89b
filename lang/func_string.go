package lang

import (
	"slices"
	"strings"
	"unicode/utf8"
)

func stringFn(name, sig, doc string, lo, hi int, fn func(args []any) (any, error)) *Func {
	return eager(name, CategoryString, lo, hi, sig, doc,
		func(_ *CallContext, args []any) (any, error) { return fn(args) })
}

func mapString(name, doc string, fn func(string) string) *Func {
	return stringFn(name, name+"(s)", doc, 1, 1, func(args []any) (any, error) {
		return fn(Text(args[0])), nil
	})
}

func testString(name, doc string, fn func(s, sub string) bool) *Func {
	return stringFn(name, name+"(s, sub)", doc, 2, 2, func(args []any) (any, error) {
		return fn(Text(args[0]), Text(args[1])), nil
	})
}

// count reads a non-negative character count.
func count(v any, what string) (int, error) {
	n, err := toInt(v)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, kindf(ErrDomain, "%s must not be negative, got %d", what, n)
	}

	return n, nil
}

func substring(args []any) (any, error) {
	r := []rune(Text(args[0]))

	start, err := count(args[1], "start")
	if err != nil {
		return nil, err
	}

	start = min(start, len(r))
	n := len(r) - start

	if len(args) > 2 {
		if n, err = count(args[2], "length"); err != nil {
			return nil, err
		}
	}

	return string(r[start : start+min(n, len(r)-start)]), nil
}

// maxPadWidth bounds the text PADLEFT and PADRIGHT can produce.
const maxPadWidth = 1 << 20

func pad(left bool) func(args []any) (any, error) {
	return func(args []any) (any, error) {
		s := Text(args[0])

		width, err := count(args[1], "width")
		if err != nil {
			return nil, err
		}

		if width > maxPadWidth {
			return nil, kindf(ErrDomain, "width %d exceeds %d", width, maxPadWidth)
		}

		fill := " "
		if len(args) > 2 {
			fill = Text(args[2])
			if utf8.RuneCountInString(fill) != 1 {
				return nil, kindf(ErrDomain, "pad must be a single character, got %q", fill)
			}
		}

		short := width - utf8.RuneCountInString(s)
		if short <= 0 {
			return s, nil
		}

		if left {
			return strings.Repeat(fill, short) + s, nil
		}

		return s + strings.Repeat(fill, short), nil
	}
}

func stringFuncs() []*Func {
	return []*Func{
		stringFn("LEFT", "LEFT(s, n)", "First n characters of s.", 2, 2,
			func(args []any) (any, error) {
				r := []rune(Text(args[0]))

				n, err := count(args[1], "length")
				if err != nil {
					return nil, err
				}

				return string(r[:min(n, len(r))]), nil
			}),
		stringFn("RIGHT", "RIGHT(s, n)", "Last n characters of s.", 2, 2,
			func(args []any) (any, error) {
				r := []rune(Text(args[0]))

				n, err := count(args[1], "length")
				if err != nil {
					return nil, err
				}

				return string(r[len(r)-min(n, len(r)):]), nil
			}),
		stringFn("MID", "MID(s, start[, length])",
			"Characters of s from the 0-based start, clamped to the text.", 2, 3, substring),
		stringFn("SUBSTRING", "SUBSTRING(s, start[, length])",
			"Same as MID.", 2, 3, substring),
		mapString("UPPER", "s in upper case.", strings.ToUpper),
		mapString("LOWER", "s in lower case.", strings.ToLower),
		mapString("TRIM", "s without leading and trailing white space.", strings.TrimSpace),
		mapString("LTRIM", "s without leading white space.", func(s string) string {
			return strings.TrimLeft(s, " \t\r\n\v\f")
		}),
		mapString("RTRIM", "s without trailing white space.", func(s string) string {
			return strings.TrimRight(s, " \t\r\n\v\f")
		}),
		stringFn("LEN", "LEN(s)", "Number of characters in s.", 1, 1,
			func(args []any) (any, error) {
				return float64(utf8.RuneCountInString(Text(args[0]))), nil
			}),
		stringFn("REPLACE", "REPLACE(s, old, new)", "Replaces every old in s with new.", 3, 3,
			func(args []any) (any, error) {
				s, old := Text(args[0]), Text(args[1])
				if old == "" {
					return s, nil
				}

				return strings.ReplaceAll(s, old, Text(args[2])), nil
			}),
		testString("CONTAINS", "Whether s contains sub.", strings.Contains),
		testString("STARTSWITH", "Whether s begins with sub.", strings.HasPrefix),
		testString("ENDSWITH", "Whether s ends with sub.", strings.HasSuffix),
		stringFn("CONCAT", "CONCAT(s, ...)", "Joins the text of every argument.", 0, -1,
			func(args []any) (any, error) {
				var sb strings.Builder
				for _, a := range args {
					sb.WriteString(Text(a))
				}

				return sb.String(), nil
			}),
		stringFn("FORMAT", "FORMAT(format, value, ...)",
			"Composite formatting: {0}, {0:N2}, {1:yyyy-MM-dd}, {0,8}.", 2, -1,
			func(args []any) (any, error) {
				return FormatComposite(Text(args[0]), args[1:]...)
			}),
		stringFn("PADLEFT", "PADLEFT(s, width[, pad])", "s right-aligned to width.", 2, 3, pad(true)),
		stringFn("PADRIGHT", "PADRIGHT(s, width[, pad])", "s left-aligned to width.", 2, 3, pad(false)),
		mapString("REVERSE", "s with its characters reversed.", func(s string) string {
			r := []rune(s)
			slices.Reverse(r)

			return string(r)
		}),
		stringFn("INDEXOF", "INDEXOF(s, sub)", "0-based position of sub in s, or -1.", 2, 2,
			func(args []any) (any, error) {
				s, sub := Text(args[0]), Text(args[1])

				i := strings.Index(s, sub)
				if i < 0 {
					return float64(-1), nil
				}

				return float64(utf8.RuneCountInString(s[:i])), nil
			}),
	}
}
