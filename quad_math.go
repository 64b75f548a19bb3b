package quad

import (
	"math"
)

var (
	three      = QuadFromInt(3)
	expLimit   = QuadFromInt(23000)
	tanhLimit  = QuadFromInt(50)
	atanhLimit = QuadFromInt(17).Quo(QuadFromInt(100))
)

// negligible reports whether adding term to sum can no longer change sum.
func negligible(term, sum Quad) bool {
	return term.IsZero() || (!sum.IsZero() && int(term.exp) < int(sum.exp)-seriesCutoff)
}

func runaway(fn string, n int) {
	panic(&ConvergenceError{Func: fn, Iterations: n})
}

// converged reports whether two successive Newton iterates agree to within a
// few units in the last place.
func converged(a, b Quad) bool {
	if a.exp == b.exp && DifferenceU128(a.mant, b.mant).LessOrEqualTo(U128From64(newtonULP)) {
		return true
	}
	d := a.Sub(b)
	return d.IsZero() || int(d.exp) < int(b.exp)-mantBits+4
}

// magnitudeLost is the number of bits of a result that an absolute error in
// the last place of x wipes out when x is used as an exponent or an angle.
func magnitudeLost(x Quad) uint8 {
	e := int(x.exp)
	if e < 0 {
		e = 0
	}
	return clampLost(int(x.lost) + e)
}

// Sqrt returns the square root of x. Sqrt of a negative number is NaN.
func Sqrt(x Quad) Quad {
	switch {
	case x.IsNaN() || x.IsNegative():
		return NaN()
	case x.IsZero() || x.IsInf(1):
		return x
	}

	// x = y * 2^(2h), y in [0.5, 2)
	h := int(x.exp) >> 1
	y := x
	y.exp = x.exp - int16(2*h)

	g := QuadFromFloat64(math.Sqrt(y.Float64()))
	for i := 0; ; i++ {
		if i >= maxNewtonSteps {
			runaway("Sqrt", i)
		}
		next := g.Add(y.Quo(g)).Mul2Exp(-1)
		done := converged(g, next)
		g = next
		if done {
			break
		}
	}
	return g.Mul2Exp(h).trim(sqrtBits)
}

// Cbrt returns the cube root of x.
func Cbrt(x Quad) Quad {
	if !x.IsFinite() || x.IsZero() {
		return x
	}

	// |x| = y * 2^(3h), y in [0.5, 4)
	e := int(x.exp)
	h := e / 3
	if e%3 < 0 {
		h--
	}
	y := x.Abs()
	y.exp = int16(e - 3*h)

	g := QuadFromFloat64(math.Cbrt(y.Float64()))
	for i := 0; ; i++ {
		if i >= maxNewtonSteps {
			runaway("Cbrt", i)
		}
		next := g.Mul2Exp(1).Add(y.Quo(g.Mul(g))).Quo(three)
		done := converged(g, next)
		g = next
		if done {
			break
		}
	}
	g = g.Mul2Exp(h).trim(cbrtBits)
	if x.neg {
		g = g.Neg()
	}
	return g
}

// Hypot returns Sqrt(p*p + q*q) without overflowing on the squares.
func Hypot(p, q Quad) Quad {
	switch {
	case p.IsInf(0) || q.IsInf(0):
		return Inf(1)
	case p.IsNaN() || q.IsNaN():
		return NaN()
	}
	p, q = p.Abs(), q.Abs()
	if p.LessThan(q) {
		p, q = q, p
	}
	if p.IsZero() {
		return p
	}
	r := q.Quo(p)
	return p.Mul(Sqrt(one.Add(r.Mul(r))))
}

// Exp returns e^x. Large arguments saturate to +Inf, large negative
// arguments to 0.
func Exp(x Quad) Quad {
	switch {
	case x.IsNaN():
		return x
	case x.IsInf(1):
		return x
	case x.IsInf(-1):
		return Zero()
	case x.IsZero():
		return one.withLost(x.lost)
	case x.GreaterThan(expLimit):
		return Inf(1)
	case x.LessThan(expLimit.Neg()):
		return zeroWith(x.lost)
	}

	// x = k*ln2 + r, |r| <= ln2/2
	k, _ := x.Mul(Log2E).Round().AsInt64()
	r := x.Sub(Ln2.Mul(QuadFromInt64(k)))

	sum, term := one, one
	for n := 1; ; n++ {
		if n > maxSeriesTerms {
			runaway("Exp", n)
		}
		term = term.Mul(r).Quo(QuadFromInt(n))
		if negligible(term, sum) {
			break
		}
		sum = sum.Add(term)
	}
	return sum.Mul2Exp(int(k)).withLost(magnitudeLost(x)).trim(expBits)
}

// atanhSeries sums z + z^3/3 + z^5/5 + ..., which converges quickly for small
// |z|.
func atanhSeries(z Quad) Quad {
	return oddPowerSeries("atanh", z, z.Mul(z))
}

// atanSeries sums z - z^3/3 + z^5/5 - ...
func atanSeries(z Quad) Quad {
	return oddPowerSeries("atan", z, z.Mul(z).Neg())
}

func oddPowerSeries(fn string, z, step Quad) Quad {
	if z.IsZero() {
		return z
	}
	sum, pow := z, z
	for n := 3; ; n += 2 {
		if n > 2*maxSeriesTerms {
			runaway(fn, n/2)
		}
		pow = pow.Mul(step)
		term := pow.Quo(QuadFromInt(n))
		if negligible(term, sum) {
			return sum
		}
		sum = sum.Add(term)
	}
}

// sinSeries sums r - r^3/3! + r^5/5! - ..., or with all terms positive (the
// series for sinh) if alternating is false.
func sinSeries(r Quad, alternating bool) Quad {
	if r.IsZero() {
		return r
	}
	r2 := r.Mul(r)
	if alternating {
		r2 = r2.Neg()
	}
	sum, term := r, r
	for n := 2; ; n += 2 {
		if n > 2*maxSeriesTerms {
			runaway("sin", n/2)
		}
		term = term.Mul(r2).Quo(QuadFromInt(n * (n + 1)))
		if negligible(term, sum) {
			return sum
		}
		sum = sum.Add(term)
	}
}

// Log returns the natural logarithm of x. Log(0) is -Inf and the log of a
// negative number is NaN.
func Log(x Quad) Quad {
	switch {
	case x.IsNaN() || x.IsNegative():
		return NaN()
	case x.IsZero():
		return Inf(-1)
	case x.IsInf(1):
		return x
	case x.Equal(one):
		return zeroWith(x.lost)
	}

	// x = y * 2^k, y in [sqrt(2)/2, sqrt(2))
	y := x
	y.exp = 0
	k := int(x.exp)
	if y.mant.LessThan(Sqrt2.mant) {
		y.exp = 1
		k--
	}

	z := y.Sub(one).Quo(y.Add(one))
	r := atanhSeries(z).Mul2Exp(1)
	if k != 0 {
		r = r.Add(Ln2.Mul(QuadFromInt(k)))
	}
	return r.trim(logBits)
}

// Log2 returns the binary logarithm of x. Exact powers of two give exact
// results.
func Log2(x Quad) Quad {
	if x.IsFinite() && !x.IsZero() && !x.neg && x.mant == oneMant {
		return QuadFromInt(int(x.exp) - 1).withLost(x.lost)
	}
	return Log(x).Mul(Log2E)
}

// Log10 returns the decimal logarithm of x.
func Log10(x Quad) Quad {
	return Log(x).Mul(Log10E)
}

// Pow returns x^y. Integer powers are computed by repeated multiplication; a
// negative x raised to a non-integer power is NaN, as is zero raised to a
// negative power.
func Pow(x, y Quad) Quad {
	switch {
	case y.IsZero() || x.Equal(one):
		return one
	case x.IsNaN() || y.IsNaN():
		return NaN()
	case x.IsZero():
		if y.neg {
			return NaN()
		}
		return x
	case y.IsInf(0):
		switch c, _ := x.Abs().Cmp(one); {
		case c == 0:
			return one
		case (c < 0) == y.neg:
			return Inf(1)
		}
		return Zero()
	case x.IsInf(0):
		if y.neg {
			return Zero()
		}
		if x.neg && y.IsOdd() {
			return x
		}
		return Inf(1)
	}

	if k, ok := y.AsInt64(); ok && y.IsInteger() && k >= -maxPowi && k <= maxPowi {
		return x.Powi(int(k)).trim(powBits)
	}
	if x.neg && !y.IsInteger() {
		return NaN()
	}
	r := Exp(y.Mul(Log(x.Abs())))
	if x.neg && y.IsOdd() {
		r = r.Neg()
	}
	return r.trim(powBits)
}

// Sin returns the sine of the radian argument x. Arguments too large to
// reduce against pi return NaN.
func Sin(x Quad) Quad {
	switch {
	case !x.IsFinite():
		return NaN()
	case x.IsZero():
		return x
	case x.exp > trigMaxExp:
		return NaN()
	}

	// x = n*pi + r, |r| <= pi/2
	n := x.Quo(Pi).Round()
	r := x.Sub(n.Mul(Pi))
	s := sinSeries(r, true)
	if n.IsOdd() {
		s = s.Neg()
	}
	return s.withLost(magnitudeLost(x)).trim(trigBits)
}

// Cos returns the cosine of the radian argument x.
func Cos(x Quad) Quad {
	if x.IsZero() {
		return one.withLost(x.lost)
	}
	return Sin(HalfPi.Sub(x))
}

// Tan returns the tangent of the radian argument x. Where the cosine of x
// evaluates to exactly zero the result is NaN.
func Tan(x Quad) Quad {
	return Sin(x).Quo(Cos(x))
}

// Atan returns the arctangent, in radians, of x.
func Atan(x Quad) Quad {
	switch {
	case x.IsNaN() || x.IsZero():
		return x
	case x.IsInf(0):
		if x.neg {
			return HalfPi.Neg()
		}
		return HalfPi
	}

	a := x.Abs()
	inv := a.GreaterThan(one)
	if inv {
		a = one.Quo(a)
	}

	// atan(a) = 2*atan(a / (1 + sqrt(1 + a^2))), applied twice so that
	// a <= tan(pi/16)
	for i := 0; i < 2; i++ {
		a = a.Quo(one.Add(Sqrt(one.Add(a.Mul(a)))))
	}
	s := atanSeries(a).Mul2Exp(2)
	if inv {
		s = HalfPi.Sub(s)
	}
	if x.neg {
		s = s.Neg()
	}
	return s.trim(atanBits)
}

// Asin returns the arcsine, in radians, of x. Arguments outside [-1, 1] give
// NaN.
func Asin(x Quad) Quad {
	if x.IsNaN() || x.IsZero() {
		return x
	}
	switch c, _ := x.Abs().Cmp(one); {
	case c > 0:
		return NaN()
	case c == 0:
		if x.neg {
			return HalfPi.Neg().withLost(x.lost)
		}
		return HalfPi.withLost(x.lost)
	}
	return Atan(x.Quo(Sqrt(one.Sub(x).Mul(one.Add(x)))))
}

// Acos returns the arccosine, in radians, of x. Arguments outside [-1, 1]
// give NaN.
func Acos(x Quad) Quad {
	if x.IsNaN() {
		return x
	}
	// acos(x) = 2*asin(sqrt((1-x)/2)) near 1, where pi/2 - asin(x) would
	// cancel; acos(-x) = pi - acos(x).
	switch {
	case x.GreaterThan(half):
		return Asin(Sqrt(one.Sub(x).Mul2Exp(-1))).Mul2Exp(1)
	case x.LessThan(half.Neg()):
		return Pi.Sub(Asin(Sqrt(one.Add(x).Mul2Exp(-1))).Mul2Exp(1)).trim(atanBits)
	}
	return HalfPi.Sub(Asin(x))
}

// Atan2 returns the arctangent of y/x, using the signs of the two to
// determine the quadrant of the result.
func Atan2(y, x Quad) Quad {
	switch {
	case y.IsNaN() || x.IsNaN():
		return NaN()
	case y.IsZero():
		if x.IsNegative() {
			return Pi
		}
		return Zero()
	case x.IsZero():
		return HalfPi.Mul(QuadFromInt(y.Sign()))
	case x.IsInf(0):
		var r Quad
		switch {
		case x.IsInf(1) && y.IsInf(0):
			r = Pi.Mul2Exp(-2)
		case x.IsInf(1):
			r = Zero()
		case y.IsInf(0):
			r = Pi.Mul(three).Mul2Exp(-2)
		default:
			r = Pi
		}
		if y.neg {
			r = r.Neg()
		}
		return r
	case y.IsInf(0):
		return HalfPi.Mul(QuadFromInt(y.Sign()))
	}

	q := Atan(y.Quo(x))
	if x.neg {
		if y.neg {
			return q.Sub(Pi)
		}
		return q.Add(Pi)
	}
	return q
}

// Sinh returns the hyperbolic sine of x.
func Sinh(x Quad) Quad {
	if !x.IsFinite() || x.IsZero() {
		return x
	}
	a := x.Abs()
	var s Quad
	if a.LessThan(one) {
		s = sinSeries(a, false)
	} else {
		ea := Exp(a)
		s = ea.Sub(one.Quo(ea)).Mul2Exp(-1)
	}
	if x.neg {
		s = s.Neg()
	}
	return s.trim(hyperBits)
}

// Cosh returns the hyperbolic cosine of x.
func Cosh(x Quad) Quad {
	switch {
	case x.IsNaN():
		return x
	case x.IsInf(0):
		return Inf(1)
	case x.IsZero():
		return one.withLost(x.lost)
	}
	ea := Exp(x.Abs())
	return ea.Add(one.Quo(ea)).Mul2Exp(-1).trim(hyperBits)
}

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Quad) Quad {
	switch {
	case x.IsNaN() || x.IsZero():
		return x
	case x.Abs().GreaterThan(tanhLimit):
		if x.neg {
			return one.Neg()
		}
		return one
	}
	return Sinh(x).Quo(Cosh(x)).trim(hyperBits)
}

// Asinh returns the inverse hyperbolic sine of x.
func Asinh(x Quad) Quad {
	if !x.IsFinite() || x.IsZero() {
		return x
	}
	a := x.Abs()
	var r Quad
	switch {
	case a.LessThan(half):
		r = Atanh(a.Quo(Sqrt(one.Add(a.Mul(a)))))
	case a.exp > 64:
		// a*a+1 == a*a
		r = Log(a).Add(Ln2)
	default:
		r = Log(a.Add(Sqrt(a.Mul(a).Add(one))))
	}
	if x.neg {
		r = r.Neg()
	}
	return r.trim(hyperBits)
}

// Acosh returns the inverse hyperbolic cosine of x. Arguments below 1 give
// NaN.
func Acosh(x Quad) Quad {
	switch {
	case x.IsNaN() || x.LessThan(one):
		return NaN()
	case x.Equal(one):
		return zeroWith(x.lost)
	case x.IsInf(1):
		return x
	case x.exp > 64:
		return Log(x).Add(Ln2).trim(hyperBits)
	}
	return Log(x.Add(Sqrt(x.Sub(one).Mul(x.Add(one))))).trim(hyperBits)
}

// Atanh returns the inverse hyperbolic tangent of x. Atanh(±1) is ±Inf and
// arguments outside [-1, 1] give NaN.
func Atanh(x Quad) Quad {
	if x.IsNaN() || x.IsZero() {
		return x
	}
	a := x.Abs()
	switch c, _ := a.Cmp(one); {
	case c > 0:
		return NaN()
	case c == 0:
		return Inf(x.Sign())
	}

	var r Quad
	if a.LessOrEqualTo(atanhLimit) {
		r = atanhSeries(a)
	} else {
		r = Log(one.Add(a).Quo(one.Sub(a))).Mul2Exp(-1)
	}
	if x.neg {
		r = r.Neg()
	}
	return r.trim(hyperBits)
}
