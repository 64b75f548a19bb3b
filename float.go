package quad

import (
	"math"
)

const (
	f64Mask  = 0x7FF
	f64Shift = 64 - 11 - 1
	f64Bias  = 1023
	f64Frac  = 1<<f64Shift - 1

	// smallest Quad exponent whose values are normal float64s
	f64MinExp = -f64Bias + 2
)

// QuadFromFloat64 converts f exactly. Both zeros become the unsigned zero.
func QuadFromFloat64(f float64) Quad {
	switch {
	case math.IsNaN(f):
		return NaN()
	case math.IsInf(f, 0):
		return Inf(int(math.Copysign(1, f)))
	case f == 0:
		return Zero()
	}

	bits := math.Float64bits(f)
	neg := bits>>63 != 0
	fexp := int((bits >> f64Shift) & f64Mask)
	frac := bits & f64Frac
	if fexp == 0 {
		// subnormal: no implicit bit
		fexp = 1
	} else {
		frac |= 1 << f64Shift
	}

	// frac*2^(fexp-bias-52) with frac held in the top of the mantissa
	return newQuad(neg, fexp-f64Bias+1, U128{hi: frac << 11}, 0)
}

// Float64 returns the float64 nearest to q, with ties to even. Values outside
// the float64 range saturate to an infinity or zero.
func (q Quad) Float64() float64 {
	switch {
	case q.IsNaN():
		return math.NaN()
	case q.IsInf(0):
		return math.Inf(signOf(q.neg))
	case q.IsZero():
		return 0
	case q.exp < f64MinExp:
		// subnormal results round at a coarser position
		f, _ := q.BigFloat().Float64()
		return f
	}

	const half = 1 << 10
	m := q.mant.hi >> 11
	rest := q.mant.hi & (half<<1 - 1)
	if rest > half || (rest == half && (q.mant.lo != 0 || m&1 == 1)) {
		m++
	}
	f := math.Ldexp(float64(m), int(q.exp)-53)
	if q.neg {
		f = -f
	}
	return f
}
