// Package fraction implements exact rational arithmetic for musical time.
//
// Every duration and tick offset in the formatter is tracked as a Fraction
// rather than a float so that accumulating durations across a voice never
// drifts. Addition and subtraction keep the least-common-multiple
// denominator instead of reducing, which lets a running accumulator's
// denominator double as the common tick resolution across voices.
package fraction

import "strconv"

// Fraction is a rational number with int64 numerator and denominator.
// The zero value is 0/1 after Set; use New to construct valid fractions.
type Fraction struct {
	Numerator   int64
	Denominator int64
}

// New returns the fraction numerator/denominator.
// A zero denominator is a programming error and panics.
func New(numerator, denominator int64) Fraction {
	checkDenominator(denominator)
	return Fraction{Numerator: numerator, Denominator: denominator}
}

func checkDenominator(d int64) {
	if d == 0 {
		panic("fraction: zero denominator")
	}
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b.
// Both arguments must be nonzero.
func LCM(a, b int64) int64 {
	g := GCD(a, b)
	if g == 0 {
		return 0
	}
	l := a / g * b
	if l < 0 {
		l = -l
	}
	return l
}

// Add returns f + g. The result keeps the LCM of both denominators; it is
// deliberately not simplified so accumulators track the common resolution.
func (f Fraction) Add(g Fraction) Fraction {
	checkDenominator(f.Denominator)
	checkDenominator(g.Denominator)
	lcm := LCM(f.Denominator, g.Denominator)
	a := lcm / f.Denominator
	b := lcm / g.Denominator
	return Fraction{Numerator: f.Numerator*a + g.Numerator*b, Denominator: lcm}
}

// Subtract returns f - g, keeping the LCM denominator like Add.
func (f Fraction) Subtract(g Fraction) Fraction {
	g.Numerator = -g.Numerator
	return f.Add(g)
}

// Multiply returns f * g.
func (f Fraction) Multiply(g Fraction) Fraction {
	checkDenominator(f.Denominator)
	checkDenominator(g.Denominator)
	return Fraction{Numerator: f.Numerator * g.Numerator, Denominator: f.Denominator * g.Denominator}
}

// Divide returns f / g. A zero g numerator panics.
func (f Fraction) Divide(g Fraction) Fraction {
	checkDenominator(g.Numerator)
	return f.Multiply(Fraction{Numerator: g.Denominator, Denominator: g.Numerator})
}

// Simplify returns f reduced to lowest terms with a positive denominator.
func (f Fraction) Simplify() Fraction {
	checkDenominator(f.Denominator)
	g := GCD(f.Numerator, f.Denominator)
	if g == 0 {
		return Fraction{Numerator: 0, Denominator: 1}
	}
	n, d := f.Numerator/g, f.Denominator/g
	if d < 0 {
		n, d = -n, -d
	}
	return Fraction{Numerator: n, Denominator: d}
}

// Value returns the closest float64. It is for measurement and ordering of
// unequal values only; tick equality must use Equals.
func (f Fraction) Value() float64 {
	return float64(f.Numerator) / float64(f.Denominator)
}

// Equals reports exact equality by cross-multiplication.
func (f Fraction) Equals(g Fraction) bool {
	return f.Numerator*g.Denominator == g.Numerator*f.Denominator
}

// GreaterThan reports f > g exactly.
func (f Fraction) GreaterThan(g Fraction) bool {
	sign := int64(1)
	if f.Denominator*g.Denominator < 0 {
		sign = -1
	}
	return sign*(f.Numerator*g.Denominator-g.Numerator*f.Denominator) > 0
}

// LessThan reports f < g exactly.
func (f Fraction) LessThan(g Fraction) bool {
	return !f.GreaterThan(g) && !f.Equals(g)
}

// IsZero reports whether f equals zero.
func (f Fraction) IsZero() bool { return f.Numerator == 0 }

// String formats f as "n/d" in lowest terms, or "n" when whole.
func (f Fraction) String() string {
	s := f.Simplify()
	if s.Denominator == 1 {
		return strconv.FormatInt(s.Numerator, 10)
	}
	return strconv.FormatInt(s.Numerator, 10) + "/" + strconv.FormatInt(s.Denominator, 10)
}
