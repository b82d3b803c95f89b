package lang

import (
	"math"
)

func eager(
	name string, cat Category, lo, hi int, sig, doc string,
	fn func(cc *CallContext, args []any) (any, error),
) *Func {
	return &Func{
		Name: name, Category: cat, Min: lo, Max: hi,
		Signature: sig, Doc: doc, Call: fn,
	}
}

// unaryMath adapts a float function, rejecting non-finite results.
func unaryMath(name, doc string, fn func(float64) (float64, error)) *Func {
	return eager(name, CategoryMath, 1, 1, name+"(x)", doc,
		func(_ *CallContext, args []any) (any, error) {
			x, err := toNumber(args[0])
			if err != nil {
				return nil, err
			}

			return finite(fn(x))
		})
}

func finite(f float64, err error) (any, error) {
	if err != nil {
		return nil, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, kindf(ErrDomain, "result is not a finite number")
	}

	return f, nil
}

func pure(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return fn(x), nil }
}

func unitInterval(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, kindf(ErrDomain, "%s is outside [-1, 1]", formatNumber(x))
		}

		return fn(x), nil
	}
}

func roundTo(x float64, digits int) float64 {
	if digits == 0 {
		return math.RoundToEven(x)
	}

	scale := math.Pow(10, float64(digits))

	return math.RoundToEven(x*scale) / scale
}

func mathFuncs() []*Func {
	return []*Func{
		unaryMath("ABS", "Absolute value of x.", pure(math.Abs)),
		unaryMath("CEILING", "Smallest integer not less than x.", pure(math.Ceil)),
		unaryMath("FLOOR", "Largest integer not greater than x.", pure(math.Floor)),
		eager("ROUND", CategoryMath, 1, 2, "ROUND(x[, digits])",
			"Rounds x to digits decimal places, halves to even.",
			func(_ *CallContext, args []any) (any, error) {
				x, err := toNumber(args[0])
				if err != nil {
					return nil, err
				}

				digits := 0
				if len(args) > 1 {
					if digits, err = toInt(args[1]); err != nil {
						return nil, err
					}
				}

				if digits < -15 || digits > 15 {
					return nil, kindf(ErrDomain, "digits %d is outside [-15, 15]", digits)
				}

				return finite(roundTo(x, digits), nil)
			}),
		unaryMath("SQRT", "Square root of x.", func(x float64) (float64, error) {
			if x < 0 {
				return 0, kindf(ErrDomain, "square root of negative number %s", formatNumber(x))
			}

			return math.Sqrt(x), nil
		}),
		eager("POWER", CategoryMath, 2, 2, "POWER(x, y)", "x raised to the power y.",
			func(_ *CallContext, args []any) (any, error) {
				x, err := toNumber(args[0])
				if err != nil {
					return nil, err
				}

				y, err := toNumber(args[1])
				if err != nil {
					return nil, err
				}

				return finite(math.Pow(x, y), nil)
			}),
		unaryMath("EXP", "e raised to the power x.", pure(math.Exp)),
		eager("LOG", CategoryMath, 1, 2, "LOG(x[, base])",
			"Natural logarithm of x, or logarithm in the given base.",
			func(_ *CallContext, args []any) (any, error) {
				x, err := toNumber(args[0])
				if err != nil {
					return nil, err
				}

				if x <= 0 {
					return nil, kindf(ErrDomain, "logarithm of non-positive number %s", formatNumber(x))
				}

				if len(args) == 1 {
					return finite(math.Log(x), nil)
				}

				base, err := toNumber(args[1])
				if err != nil {
					return nil, err
				}

				if base <= 0 || base == 1 {
					return nil, kindf(ErrDomain, "invalid logarithm base %s", formatNumber(base))
				}

				return finite(math.Log(x)/math.Log(base), nil)
			}),
		unaryMath("LOG10", "Base-10 logarithm of x.", func(x float64) (float64, error) {
			if x <= 0 {
				return 0, kindf(ErrDomain, "logarithm of non-positive number %s", formatNumber(x))
			}

			return math.Log10(x), nil
		}),
		unaryMath("SIN", "Sine of x radians.", pure(math.Sin)),
		unaryMath("COS", "Cosine of x radians.", pure(math.Cos)),
		unaryMath("TAN", "Tangent of x radians.", pure(math.Tan)),
		unaryMath("ASIN", "Arcsine of x, in radians.", unitInterval(math.Asin)),
		unaryMath("ACOS", "Arccosine of x, in radians.", unitInterval(math.Acos)),
		unaryMath("ATAN", "Arctangent of x, in radians.", pure(math.Atan)),
	}
}
