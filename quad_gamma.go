package quad

import (
	"math/bits"
	"sync"
)

// FactorialTable memoises n! and n!! for the integer fast paths of Gamma.
// Entries are computed on demand and kept; the table only ever grows. A
// FactorialTable is safe for concurrent use.
type FactorialTable struct {
	factLimit  int
	dfactLimit int

	mu    sync.RWMutex
	fact  []Quad
	dfact []Quad
}

// NewFactorialTable creates a table that serves n! and n!! for n up to limit.
// The limit is further capped at the largest n whose factorial, or double
// factorial, is finite.
func NewFactorialTable(limit int) *FactorialTable {
	t := &FactorialTable{factLimit: limit, dfactLimit: limit}
	if t.factLimit > factorialMax {
		t.factLimit = factorialMax
	}
	if t.dfactLimit > doubleFactorialMax {
		t.dfactLimit = doubleFactorialMax
	}
	return t
}

var (
	defaultTable     *FactorialTable
	defaultTableOnce sync.Once
)

// DefaultFactorialTable returns the process-wide table used by the package
// level Gamma, Factorial and DoubleFactorial functions.
func DefaultFactorialTable() *FactorialTable {
	defaultTableOnce.Do(func() {
		defaultTable = NewFactorialTable(doubleFactorialMax)
	})
	return defaultTable
}

// Factorial returns n!. Arguments that are negative or beyond the table's
// limit give NaN.
func (t *FactorialTable) Factorial(n int) Quad {
	if n < 0 || n > t.factLimit {
		return NaN()
	}
	return t.lookup(&t.fact, 1, n)
}

// DoubleFactorial returns n!!, the product of the integers from n down to 1
// or 2 in steps of 2. (-1)!! is 1. Arguments below -1 or beyond the table's
// limit give NaN.
func (t *FactorialTable) DoubleFactorial(n int) Quad {
	if n == -1 {
		return one
	} else if n < 0 || n > t.dfactLimit {
		return NaN()
	}
	return t.lookup(&t.dfact, 2, n)
}

// Limit returns the largest argument accepted by Factorial.
func (t *FactorialTable) Limit() int { return t.factLimit }

func (t *FactorialTable) lookup(tab *[]Quad, step, n int) Quad {
	t.mu.RLock()
	if n < len(*tab) {
		v := (*tab)[n]
		t.mu.RUnlock()
		return v
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	*tab = extendFactorials(*tab, step, n)
	return (*tab)[n]
}

// extendFactorials grows tab so that tab[n] is valid, where each entry is
// i times the entry step places before it. Once a product no longer fits in
// the mantissa exactly, the accumulated rounding is charged against the
// significant bits.
func extendFactorials(tab []Quad, step, n int) []Quad {
	for len(tab) < step {
		tab = append(tab, one)
	}
	for i := len(tab); i <= n; i++ {
		prev := tab[i-step]
		v := prev.Mul(QuadFromInt(i))
		used := mantBits - int(prev.mant.TrailingZeros())
		if prev.lost > 0 || used+bits.Len(uint(i)) > mantBits {
			v = v.withLost(clampLost(bits.Len(uint(i))))
		}
		tab = append(tab, v)
	}
	return tab
}

// Factorial returns n! from the default table.
func Factorial(n int) Quad { return DefaultFactorialTable().Factorial(n) }

// DoubleFactorial returns n!! from the default table.
func DoubleFactorial(n int) Quad { return DefaultFactorialTable().DoubleFactorial(n) }

// Gamma returns the Gamma function of x, using the default table.
func Gamma(x Quad) Quad { return DefaultFactorialTable().Gamma(x) }

// LogGamma returns the natural logarithm of |Gamma(x)| and the sign of
// Gamma(x), using the default table.
func LogGamma(x Quad) (lgamma Quad, sign int) { return DefaultFactorialTable().LogGamma(x) }

// Gamma returns the Gamma function of x. Positive integers and half-integers
// are served exactly from the table; other arguments below one half use the
// reflection formula and the rest the Lanczos approximation. Zero, negative
// integers and -Inf give NaN.
func (t *FactorialTable) Gamma(x Quad) Quad {
	switch {
	case x.IsNaN() || x.IsInf(-1) || x.IsZero():
		return NaN()
	case x.IsInf(1):
		return x
	case x.IsInteger():
		n, ok := x.AsInt64()
		if x.neg || !ok || n-1 > int64(t.factLimit) {
			return NaN()
		}
		return t.Factorial(int(n - 1)).withLost(x.lost)
	}

	// x = n + 1/2: Gamma(x) = (2n-1)!! * sqrt(pi) / 2^n
	if x2 := x.Mul2Exp(1); !x.neg && x2.IsInteger() {
		if k, ok := x2.AsInt64(); ok && k <= int64(t.dfactLimit) {
			n := int(k-1) / 2
			return t.DoubleFactorial(2*n - 1).Mul(sqrtPi).Mul2Exp(-n).withLost(x.lost)
		}
	}

	if x.LessThan(half) {
		// Gamma(x) * Gamma(1-x) = pi / sin(pi*x)
		s := Sin(Pi.Mul(x))
		return Pi.Quo(s.Mul(t.Gamma(one.Sub(x)))).trim(gammaBits)
	}

	z := x.Sub(one)
	a, tz := lanczosSum(z)
	zh := z.Add(half)
	return sqrt2Pi.Mul(Exp(zh.Mul(Log(tz)).Sub(tz))).Mul(a).trim(gammaBits)
}

// LogGamma returns the natural logarithm of |Gamma(x)| and the sign of
// Gamma(x). At the poles the result is +Inf. LogGamma of NaN is NaN with a
// sign of 0.
func (t *FactorialTable) LogGamma(x Quad) (lgamma Quad, sign int) {
	switch {
	case x.IsNaN():
		return x, 0
	case x.IsInf(0):
		return Inf(1), 1
	case x.IsZero():
		return Inf(1), 1
	case x.IsInteger():
		if x.neg {
			return Inf(1), 1
		}
		if n, ok := x.AsInt64(); ok && n-1 <= int64(t.factLimit) {
			return Log(t.Factorial(int(n - 1))).withLost(x.lost), 1
		}
	}

	if x.LessThan(half) {
		// log|Gamma(x)| = log(pi) - log|sin(pi*x)| - log|Gamma(1-x)|
		s := Sin(Pi.Mul(x))
		if s.IsNaN() || s.IsZero() {
			return NaN(), 0
		}
		lg, _ := t.LogGamma(one.Sub(x))
		sign = s.Sign()
		return lnPi.Sub(Log(s.Abs())).Sub(lg).trim(gammaBits), sign
	}

	z := x.Sub(one)
	a, tz := lanczosSum(z)
	zh := z.Add(half)
	r := lnSqrt2Pi.Add(zh.Mul(Log(tz))).Sub(tz).Add(Log(a))
	return r.trim(gammaBits), 1
}

// lanczosSum returns the series c0 + sum(ck/(z+k)) and the shifted argument
// z+g+1/2.
func lanczosSum(z Quad) (a, tz Quad) {
	a = lanczosCoef[0]
	for k := 1; k < len(lanczosCoef); k++ {
		a = a.Add(lanczosCoef[k].Quo(z.Add(QuadFromInt(k))))
	}
	return a, z.Add(lanczosGHalf)
}

// Lanczos coefficients for g = 45/2 and 22 terms, fitted so that the
// approximation reproduces z! exactly at z = 0..21.
var (
	lanczosGHalf = QuadFromInt(23)

	lanczosCoef = [...]Quad{
		{neg: false, exp: 1, mant: U128{hi: 0x8000000000000000, lo: 0x00000000001D1399}},
		{neg: false, exp: 33, mant: U128{hi: 0xC7EACC4A9480355A, lo: 0x10B5C70779219A66}},
		{neg: true, exp: 36, mant: U128{hi: 0xBC9E387C7E898FE2, lo: 0x9DFB32DD5C7B9F58}},
		{neg: false, exp: 38, mant: U128{hi: 0xA13AC84E06DCE3DF, lo: 0x41A4CF3F26BC517B}},
		{neg: true, exp: 39, mant: U128{hi: 0xA5383B4514A95A69, lo: 0xC4B535F1B6B6E5B4}},
		{neg: false, exp: 39, mant: U128{hi: 0xE25BA7DBEC0D4F18, lo: 0x7DE508641F845490}},
		{neg: true, exp: 39, mant: U128{hi: 0xDAEA124A2E1C4662, lo: 0x08DA62EF2E1DC1BA}},
		{neg: false, exp: 39, mant: U128{hi: 0x99DD641C2E4F4368, lo: 0x63D89A0F6235C39C}},
		{neg: true, exp: 38, mant: U128{hi: 0x9F788A26B8607CAB, lo: 0xD45AC02A91AFB1FF}},
		{neg: false, exp: 36, mant: U128{hi: 0xF4C57C041B4F84F0, lo: 0xAA3FF71A6F899E08}},
		{neg: true, exp: 35, mant: U128{hi: 0x8A8E7E41612A64C4, lo: 0x9E08403EBA02DE1C}},
		{neg: false, exp: 32, mant: U128{hi: 0xE4C0642049797343, lo: 0x0EE6FE00C520E746}},
		{neg: true, exp: 30, mant: U128{hi: 0x870142FFE0CD797B, lo: 0xE5B9F0452316212D}},
		{neg: false, exp: 26, mant: U128{hi: 0xDD4C5AC10AE6E8C6, lo: 0xE565780037FB7E16}},
		{neg: true, exp: 22, mant: U128{hi: 0xF19EE20EA0096359, lo: 0x4D55158CC7A3CA6D}},
		{neg: false, exp: 18, mant: U128{hi: 0xA5B7194ED66DB578, lo: 0x2685AADF662A664B}},
		{neg: true, exp: 13, mant: U128{hi: 0x8352BD7ECAB292FE, lo: 0x692917D07C8B04E4}},
		{neg: false, exp: 6, mant: U128{hi: 0xD49FD4FD427F050D, lo: 0x323BDCE12B28A76F}},
		{neg: true, exp: -1, mant: U128{hi: 0x9165EFB5CF37E226, lo: 0x23CB5A26607B8745}},
		{neg: false, exp: -11, mant: U128{hi: 0xF525A73F163A8A60, lo: 0x5C4A6228817A20E5}},
		{neg: true, exp: -22, mant: U128{hi: 0x8E62799C021FAC62, lo: 0x8663591F35FBFCE7}},
		{neg: false, exp: -39, mant: U128{hi: 0xFCDEFCAFB8387CE1, lo: 0xFAD0C18EFF33E85C}},
	}
)
