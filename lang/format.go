package lang

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FormatValue renders v with a single format spec such as "N2", "0.00", or
// "yyyy-MM-dd". A spec containing a placeholder like "{0:N2}" is treated as
// a composite format with v as its only argument. An empty spec yields the
// canonical text form.
func FormatValue(spec string, v any) (string, error) {
	if strings.Contains(spec, "{") {
		return FormatComposite(spec, v)
	}

	return formatOne(v, spec)
}

// FormatComposite substitutes args into format. Each placeholder has the
// form {index[,width][:spec]}; "{{" and "}}" are literal braces. A positive
// width right-aligns the text and a negative width left-aligns it.
func FormatComposite(format string, args ...any) (string, error) {
	var sb strings.Builder

	for i := 0; i < len(format); i++ {
		c := format[i]

		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				sb.WriteByte('{')
				i++

				continue
			}

			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", kindf(ErrDomain, "malformed format string %q: missing '}'", format)
			}

			s, err := placeholder(format[i+1:i+end], args)
			if err != nil {
				return "", err
			}

			sb.WriteString(s)
			i += end

		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				i++
			}

			sb.WriteByte('}')

		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}

func placeholder(body string, args []any) (string, error) {
	head, spec, _ := strings.Cut(body, ":")
	index, width, hasWidth := strings.Cut(head, ",")

	n, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || n < 0 {
		return "", kindf(ErrDomain, "malformed format item {%s}", body)
	}

	if n >= len(args) {
		return "", kindf(ErrDomain, "format item {%s} refers to argument %d of %d", body, n, len(args))
	}

	s, err := formatOne(args[n], spec)
	if err != nil {
		return "", err
	}

	if !hasWidth {
		return s, nil
	}

	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return "", kindf(ErrDomain, "malformed format width in {%s}", body)
	}

	short := max(w, -w) - utf8.RuneCountInString(s)
	if short <= 0 {
		return s, nil
	}

	if w < 0 {
		return s + strings.Repeat(" ", short), nil
	}

	return strings.Repeat(" ", short) + s, nil
}

func formatOne(v any, spec string) (string, error) {
	v = normalize(v)
	if spec == "" || v == nil {
		return Text(v), nil
	}

	switch v := v.(type) {
	case time.Time:
		return formatDate(v, spec), nil
	case float64:
		return formatNumberSpec(v, spec)
	case bool:
		return Text(v), nil
	case string:
		if looksNumeric(spec) {
			if f, err := parseFloat(strings.TrimSpace(v)); err == nil {
				return formatNumberSpec(f, spec)
			}
		}

		if t, ok := parseTime(v); ok {
			return formatDate(t, spec), nil
		}

		return v, nil
	default:
		return Text(v), nil
	}
}

// looksNumeric reports whether spec is a standard or custom number format.
func looksNumeric(spec string) bool {
	if _, _, ok := standardNumber(spec); ok {
		return true
	}

	return strings.ContainsAny(spec, "0#")
}

// standardNumber splits a standard numeric spec like "N2" into its letter
// and precision. prec is -1 when omitted.
func standardNumber(spec string) (letter byte, prec int, ok bool) {
	if spec == "" || len(spec) > 3 {
		return 0, 0, false
	}

	letter = spec[0] &^ 0x20 // upper case
	if !strings.ContainsRune("NFCPDEGX", rune(letter)) {
		return 0, 0, false
	}

	if len(spec) == 1 {
		return letter, -1, true
	}

	p, err := strconv.Atoi(spec[1:])
	if err != nil || p < 0 {
		return 0, 0, false
	}

	return letter, p, true
}

func formatNumberSpec(f float64, spec string) (string, error) {
	letter, prec, ok := standardNumber(spec)
	if !ok {
		return formatCustomNumber(f, spec), nil
	}

	def := func(d int) int {
		if prec < 0 {
			return d
		}

		return prec
	}

	switch letter {
	case 'N':
		return signed(f, group(strconv.FormatFloat(math.Abs(f), 'f', def(2), 64))), nil
	case 'F':
		return strconv.FormatFloat(f, 'f', def(2), 64), nil
	case 'C':
		s := "$" + group(strconv.FormatFloat(math.Abs(f), 'f', def(2), 64))

		return signed(f, s), nil
	case 'P':
		return signed(f, group(strconv.FormatFloat(math.Abs(f*100), 'f', def(2), 64))) + "%", nil
	case 'D', 'X':
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return "", kindf(ErrDomain, "format %q requires a whole number, got %s", spec, formatNumber(f))
		}

		base := 10
		if letter == 'X' {
			base = 16
		}

		s := strconv.FormatInt(int64(math.Abs(f)), base)
		if spec[0] == 'X' {
			s = strings.ToUpper(s)
		}

		if short := def(0) - len(s); short > 0 {
			s = strings.Repeat("0", short) + s
		}

		return signed(f, s), nil
	case 'E':
		s := strconv.FormatFloat(f, 'e', def(6), 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], exp[1:]

		if short := 3 - len(digits); short > 0 {
			digits = strings.Repeat("0", short) + digits
		}

		e := "E"
		if spec[0] == 'e' {
			e = "e"
		}

		return mant + e + sign + digits, nil
	default: // G
		if prec <= 0 {
			return strings.ToUpper(formatNumber(f)), nil
		}

		return strings.ToUpper(strconv.FormatFloat(f, 'g', prec, 64)), nil
	}
}

func signed(f float64, s string) string {
	if f < 0 && strings.Trim(s, "0.,$%") != "" {
		return "-" + s
	}

	return s
}

// group inserts thousands separators into the integer part of a plain
// decimal string.
func group(s string) string {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if len(whole) <= 3 {
		return s
	}

	var sb strings.Builder

	lead := len(whole) % 3
	if lead > 0 {
		sb.WriteString(whole[:lead])
	}

	for i := lead; i < len(whole); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(whole[i : i+3])
	}

	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}

	return sb.String()
}

// formatCustomNumber applies a picture format built from 0 (digit), #
// (optional digit), . (decimal point), , (grouping), and % (percent). Text
// before and after the picture is copied verbatim.
func formatCustomNumber(f float64, spec string) string {
	first := strings.IndexAny(spec, "0#.,")
	if first < 0 || !strings.ContainsAny(spec, "0#") {
		return spec
	}

	last := strings.LastIndexAny(spec, "0#.,")
	prefix, picture, suffix := spec[:first], spec[first:last+1], spec[last+1:]

	if strings.Contains(spec, "%") {
		f *= 100
	}

	intPart, fracPart, _ := strings.Cut(picture, ".")
	grouping := strings.Contains(intPart, ",")
	minInt := strings.Count(intPart, "0")
	minFrac := strings.Count(fracPart, "0")
	maxFrac := minFrac + strings.Count(fracPart, "#")

	s := strconv.FormatFloat(math.Abs(f), 'f', maxFrac, 64)
	whole, frac, _ := strings.Cut(s, ".")

	for len(frac) > minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	if whole == "0" && minInt == 0 {
		whole = ""
	}

	if short := minInt - len(whole); short > 0 {
		whole = strings.Repeat("0", short) + whole
	}

	if grouping {
		whole = group(whole)
	}

	num := whole
	if frac != "" {
		num += "." + frac
	}

	if num == "" {
		num = "0"
	}

	if f < 0 && strings.Trim(num, "0.,") != "" {
		num = "-" + num
	}

	return prefix + num + suffix
}

// Standard single-letter date formats.
var dateStandard = map[string]string{
	"d": "M/d/yyyy",
	"D": "dddd, MMMM d, yyyy",
	"t": "h:mm tt",
	"T": "h:mm:ss tt",
	"f": "dddd, MMMM d, yyyy h:mm tt",
	"F": "dddd, MMMM d, yyyy h:mm:ss tt",
	"g": "M/d/yyyy h:mm tt",
	"G": "M/d/yyyy h:mm:ss tt",
	"s": "yyyy-MM-ddTHH:mm:ss",
	"u": "yyyy-MM-dd HH:mm:ssZ",
	"o": "yyyy-MM-ddTHH:mm:ss.fffffffK",
	"O": "yyyy-MM-ddTHH:mm:ss.fffffffK",
	"M": "MMMM d",
	"m": "MMMM d",
	"Y": "MMMM yyyy",
	"y": "MMMM yyyy",
}

// formatDate renders t with a date pattern such as "yyyy-MM-dd HH:mm".
func formatDate(t time.Time, spec string) string {
	if std, ok := dateStandard[spec]; ok {
		if spec == "u" {
			t = t.UTC()
		}

		spec = std
	}

	var sb strings.Builder

	for i := 0; i < len(spec); {
		c := spec[i]

		n := 1
		for i+n < len(spec) && spec[i+n] == c {
			n++
		}

		switch c {
		case '\'', '"':
			end := strings.IndexByte(spec[i+1:], c)
			if end < 0 {
				sb.WriteString(spec[i+1:])

				return sb.String()
			}

			sb.WriteString(spec[i+1 : i+1+end])
			i += end + 2

			continue

		case '\\':
			if i+1 < len(spec) {
				sb.WriteByte(spec[i+1])
			}

			i += 2

			continue

		case 'y':
			y := t.Year()
			switch {
			case n <= 2:
				sb.WriteString(pad0(y%100, n))
			default:
				sb.WriteString(pad0(y, n))
			}

		case 'M':
			switch {
			case n >= 4:
				sb.WriteString(t.Month().String())
			case n == 3:
				sb.WriteString(t.Month().String()[:3])
			default:
				sb.WriteString(pad0(int(t.Month()), n))
			}

		case 'd':
			switch {
			case n >= 4:
				sb.WriteString(t.Weekday().String())
			case n == 3:
				sb.WriteString(t.Weekday().String()[:3])
			default:
				sb.WriteString(pad0(t.Day(), n))
			}

		case 'H':
			sb.WriteString(pad0(t.Hour(), min(n, 2)))

		case 'h':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}

			sb.WriteString(pad0(h, min(n, 2)))

		case 'm':
			sb.WriteString(pad0(t.Minute(), min(n, 2)))

		case 's':
			sb.WriteString(pad0(t.Second(), min(n, 2)))

		case 'f', 'F':
			digits := pad0(t.Nanosecond(), 9)[:min(n, 9)]
			if c == 'F' {
				digits = strings.TrimRight(digits, "0")
				if digits == "" && sb.Len() > 0 && strings.HasSuffix(sb.String(), ".") {
					trimmed := sb.String()
					sb.Reset()
					sb.WriteString(trimmed[:len(trimmed)-1])
				}
			}

			sb.WriteString(digits)

		case 't':
			ampm := "AM"
			if t.Hour() >= 12 {
				ampm = "PM"
			}

			sb.WriteString(ampm[:min(n, 2)])

		case 'z':
			_, off := t.Zone()
			sign := "+"

			if off < 0 {
				sign, off = "-", -off
			}

			switch n {
			case 1:
				sb.WriteString(sign + strconv.Itoa(off/3600))
			case 2:
				sb.WriteString(sign + pad0(off/3600, 2))
			default:
				sb.WriteString(sign + pad0(off/3600, 2) + ":" + pad0(off%3600/60, 2))
			}

		case 'K', 'Z':
			if _, off := t.Zone(); off == 0 {
				sb.WriteString("Z")
			} else {
				sb.WriteString(t.Format("-07:00"))
			}

		default:
			sb.WriteString(spec[i : i+n])
		}

		i += n
	}

	return sb.String()
}

func pad0(v, width int) string {
	s := strconv.Itoa(v)
	if short := width - len(s); short > 0 {
		return strings.Repeat("0", short) + s
	}

	return s
}
