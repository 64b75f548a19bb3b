package quad

import "math/bits"

// zeroWith returns zero carrying the given error budget.
func zeroWith(lost uint8) Quad { return Quad{exp: expZero, lost: lost} }

func signOf(neg bool) int {
	if neg {
		return -1
	}
	return 1
}

// Neg returns -q. Zero and NaN are returned unchanged.
func (q Quad) Neg() Quad {
	if q.IsZero() || q.IsNaN() {
		return q
	}
	q.neg = !q.neg
	return q
}

// Abs returns |q|. NaN is returned unchanged.
func (q Quad) Abs() Quad {
	if q.IsNaN() {
		return q
	}
	q.neg = false
	return q
}

// cmpMag compares the magnitudes of two non-zero, non-NaN values.
func cmpMag(a, b Quad) int {
	if a.exp > b.exp {
		return 1
	} else if a.exp < b.exp {
		return -1
	}
	return a.mant.Cmp(b.mant)
}

// Cmp compares q and n and returns -1, 0 or +1. ok is false if either value
// is NaN, in which case the values are unordered.
func (q Quad) Cmp(n Quad) (c int, ok bool) {
	if q.IsNaN() || n.IsNaN() {
		return 0, false
	}
	qs, ns := q.Sign(), n.Sign()
	if qs != ns {
		if qs < ns {
			return -1, true
		}
		return 1, true
	}
	if qs == 0 {
		return 0, true
	}
	c = cmpMag(q, n)
	if qs < 0 {
		c = -c
	}
	return c, true
}

// Equal reports whether q and n have the same value. NaN is not equal to
// anything, itself included. The significant bits are not compared.
func (q Quad) Equal(n Quad) bool {
	c, ok := q.Cmp(n)
	return ok && c == 0
}

func (q Quad) LessThan(n Quad) bool {
	c, ok := q.Cmp(n)
	return ok && c < 0
}

func (q Quad) LessOrEqualTo(n Quad) bool {
	c, ok := q.Cmp(n)
	return ok && c <= 0
}

func (q Quad) GreaterThan(n Quad) bool {
	c, ok := q.Cmp(n)
	return ok && c > 0
}

func (q Quad) GreaterOrEqualTo(n Quad) bool {
	c, ok := q.Cmp(n)
	return ok && c >= 0
}

// addSpecial adds two values where at least one is NaN or infinite.
func addSpecial(a, b Quad) Quad {
	switch {
	case a.IsNaN() || b.IsNaN():
		return NaN()
	case a.IsInf(0) && b.IsInf(0):
		if a.neg != b.neg {
			return NaN()
		}
		return a
	case a.IsInf(0):
		return a
	}
	return b
}

func (q Quad) Add(n Quad) Quad {
	if !q.IsFinite() || !n.IsFinite() {
		return addSpecial(q, n)
	}
	lost := lostOf(q.lost, n.lost)
	if q.IsZero() {
		if n.IsZero() {
			return zeroWith(lost)
		}
		return n.withLost(lost)
	} else if n.IsZero() {
		return q.withLost(lost)
	}
	if q.neg != n.neg {
		return subMag(q, n, q.neg, lost)
	}
	return addMag(q, n, q.neg, lost)
}

func (q Quad) Sub(n Quad) Quad {
	if !q.IsFinite() || !n.IsFinite() {
		return addSpecial(q, n.Neg())
	}
	lost := lostOf(q.lost, n.lost)
	if q.IsZero() {
		if n.IsZero() {
			return zeroWith(lost)
		}
		return n.Neg().withLost(lost)
	} else if n.IsZero() {
		return q.withLost(lost)
	}
	if q.neg != n.neg {
		return addMag(q, n, q.neg, lost)
	}
	return subMag(q, n, q.neg, lost)
}

// addMag returns |a|+|b| with the sign neg. Both operands must be finite and
// non-zero.
func addMag(a, b Quad, neg bool, lost uint8) Quad {
	if a.exp < b.exp {
		a, b = b, a
	}
	d := uint(int(a.exp) - int(b.exp))
	if d > mantBits {
		return finish(neg, int(a.exp), a.mant, lost)
	}

	bm, guard := shiftRightGuard(b.mant, d)
	sum, carry := a.mant.AddOverflow(bm)
	exp := int(a.exp)
	if carry {
		guard = (guard >> 1) | (sum.lo << 63)
		sum = sum.RshInsertMSB(1)
		exp++
	}
	sum, carry = roundGuard(sum, guard)
	if carry {
		exp++
	}
	return finish(neg, exp, sum, lost)
}

// subMag returns |a|-|b| with the sign neg, flipping the sign if |b| is the
// larger. Both operands must be finite and non-zero.
func subMag(a, b Quad, neg bool, lost uint8) Quad {
	c := cmpMag(a, b)
	if c == 0 {
		return zeroWith(lost)
	} else if c < 0 {
		a, b, neg = b, a, !neg
	}
	d := uint(int(a.exp) - int(b.exp))
	// One place further than addMag: below a power of two the spacing halves.
	if d > mantBits+1 {
		return finish(neg, int(a.exp), a.mant, lost)
	}

	// (a.mant, 0) - (bm, bg) as a 192-bit subtraction
	bm, bg := shiftRightGuard(b.mant, d)
	guard := -bg
	diff := a.mant.Sub(bm)
	if bg != 0 {
		diff = diff.Dec()
	}

	diff, rest, shift := normalize192(diff, guard)
	diff, carry := roundGuard(diff, rest)
	exp := int(a.exp) - int(shift)
	if carry {
		exp++
	}
	return finish(neg, exp, diff, lost)
}

// Mul returns q*n. 0*Inf is NaN.
func (q Quad) Mul(n Quad) Quad {
	neg := q.neg != n.neg
	if !q.IsFinite() || !n.IsFinite() {
		if q.IsNaN() || n.IsNaN() || q.IsZero() || n.IsZero() {
			return NaN()
		}
		return Inf(signOf(neg))
	}
	lost := lostOf(q.lost, n.lost)
	if q.IsZero() || n.IsZero() {
		return zeroWith(lost)
	}

	hi, guard := q.mant.MulHi(n.mant)
	exp := int(q.exp) + int(n.exp)
	if hi.hi&signBit == 0 {
		hi = hi.Lsh(1)
		hi.lo |= guard >> 63
		guard <<= 1
		exp--
	}
	hi, carry := roundGuard(hi, guard)
	if carry {
		exp++
	}
	return finish(neg, exp, hi, lost)
}

// Quo returns q/n. Division by zero is NaN, whatever the sign of q; so are
// Inf/Inf and 0/0.
func (q Quad) Quo(n Quad) Quad {
	neg := q.neg != n.neg
	lost := lostOf(q.lost, n.lost)
	switch {
	case q.IsNaN() || n.IsNaN() || n.IsZero():
		return NaN()
	case q.IsInf(0):
		if n.IsInf(0) {
			return NaN()
		}
		return Inf(signOf(neg))
	case n.IsInf(0) || q.IsZero():
		return zeroWith(lost)
	}

	am, bm := q.mant, n.mant
	exp := int(q.exp) - int(n.exp) + 1

	// The remainder is carried with an extra top bit so that it can hold
	// values up to twice the divisor.
	rem, top := am, false
	if am.LessThan(bm) {
		rem, top = am.Lsh(1), true
		exp--
	}

	var quo U128
	mask := U128{hi: signBit}
	for i := 0; i < mantBits; i++ {
		if top || rem.GreaterOrEqualTo(bm) {
			rem = rem.Sub(bm)
			quo = quo.Or(mask)
		}
		top = rem.hi&signBit != 0
		rem = rem.Lsh(1)
		mask = mask.Rsh(1)
	}

	if top || rem.GreaterOrEqualTo(bm) {
		var carry bool
		if quo, carry = quo.AddOverflow(U128{lo: 1}); carry {
			quo = U128{hi: signBit}
			exp++
		}
	}
	return finish(neg, exp, quo, lost)
}

// Rem returns q - n*Trunc(q/n), computed exactly. The result has the sign of
// q and is smaller in magnitude than n. Rem(Inf, n) and Rem(q, 0) are NaN;
// Rem(q, Inf) is q.
func (q Quad) Rem(n Quad) Quad {
	switch {
	case q.IsNaN() || n.IsNaN() || q.IsInf(0) || n.IsZero():
		return NaN()
	case n.IsInf(0) || q.IsZero():
		return q
	case cmpMag(q, n) < 0:
		return q.withLost(n.lost)
	}

	// Long division of q's mantissa, brought down to n's exponent one bit at
	// a time; only the remainder is kept. r < n.mant holds after each step.
	r := q.mant
	if r.GreaterOrEqualTo(n.mant) {
		r = r.Sub(n.mant)
	}
	for d := int(q.exp) - int(n.exp); d > 0; d-- {
		carry := r.hi&signBit != 0
		r = r.Lsh(1)
		if carry || r.GreaterOrEqualTo(n.mant) {
			r = r.Sub(n.mant)
		}
	}
	return newQuad(q.neg, int(n.exp), r, lostOf(q.lost, n.lost))
}

// Mul2Exp returns q * 2^n. It is exact unless the result leaves the exponent
// range.
func (q Quad) Mul2Exp(n int) Quad {
	if !q.IsFinite() || q.IsZero() {
		return q
	}
	return finish(q.neg, int(q.exp)+n, q.mant, q.lost)
}

// Powi returns q^n by repeated squaring. Zero raised to a negative power is
// NaN, as 1/0 is. Every squaring doubles the relative error already carried,
// so the result trusts about log2|n| fewer bits than q.
func (q Quad) Powi(n int) Quad {
	if n == 0 {
		return one.withLost(q.lost)
	}

	var u uint
	if n < 0 {
		u = uint(-(n + 1)) + 1
	} else {
		u = uint(n)
	}
	growth := 0
	if u > 1 {
		growth = bits.Len(u) + 1
	}

	r, b := one, q
	for {
		if u&1 == 1 {
			r = r.Mul(b)
		}
		u >>= 1
		if u == 0 {
			break
		}
		b = b.Mul(b)
	}
	if n < 0 {
		r = one.Quo(r)
	}
	return r.withLost(clampLost(int(r.lost) + growth))
}
