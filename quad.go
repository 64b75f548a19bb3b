package quad

import (
	"math/big"
	"math/bits"
)

// Quad is an extended precision binary floating point value with a 128-bit
// mantissa, a 16-bit exponent and a sign. The value of a finite, non-zero Quad
// is:
//
//	(-1)^neg * mant * 2^(exp-128)
//
// where mant always has its top bit set. Zero, NaN and the infinities are
// marked with reserved exponents. The zero value of Quad is 0.
//
// Each Quad also carries a count of how many of its mantissa bits can be
// trusted. Operations pass on the smaller of their operands' counts, and the
// iterative functions reduce it further. See SignificantBits.
type Quad struct {
	neg  bool
	exp  int16
	mant U128

	// lost is 128 minus the significant bits, so that the zero value
	// carries full precision.
	lost uint8
}

// Zero returns 0. Zero is unsigned; there is no negative zero.
func Zero() Quad { return Quad{exp: expZero} }

// One returns 1.
func One() Quad { return one }

// NaN returns a Quad that is not a number.
func NaN() Quad { return Quad{exp: expSpecial, mant: nanMant} }

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) Quad { return Quad{neg: sign < 0, exp: expSpecial, mant: infMant} }

func QuadFromUint64(v uint64) Quad {
	if v == 0 {
		return Zero()
	}
	lz := bits.LeadingZeros64(v)
	return Quad{exp: int16(64 - lz), mant: U128{hi: v << uint(lz)}}
}

func QuadFromInt64(v int64) Quad {
	if v < 0 {
		q := QuadFromUint64(uint64(-v))
		q.neg = true
		return q
	}
	return QuadFromUint64(uint64(v))
}

func QuadFromInt(v int) Quad { return QuadFromInt64(int64(v)) }

// QuadFromU128 converts u exactly.
func QuadFromU128(u U128) Quad {
	if u.IsZero() {
		return Zero()
	}
	m, shift := u.Normalize()
	return Quad{exp: int16(mantBits - shift), mant: m}
}

// QuadFromI128 converts i exactly.
func QuadFromI128(i I128) Quad {
	q := QuadFromU128(i.Abs())
	q.neg = i.Sign() < 0
	return q
}

// QuadFromRaw builds a finite Quad from its fields. mant must be zero (with
// any exponent) or have its top bit set, and exp must not be one of the
// reserved exponents.
func QuadFromRaw(neg bool, exp int16, mant U128) (Quad, error) {
	if mant.IsZero() {
		return Zero(), nil
	}
	if mant.hi&signBit == 0 || exp == expZero || exp == expSpecial {
		return Quad{}, &NumError{Func: "QuadFromRaw", Input: mant.String(), Base: 10, Err: ErrUnnormalized}
	}
	return Quad{neg: neg, exp: exp, mant: mant}, nil
}

// newQuad normalises mant and clamps the exponent: overflow saturates to an
// infinity, underflow to zero.
func newQuad(neg bool, exp int, mant U128, lost uint8) Quad {
	if mant.IsZero() {
		return Quad{exp: expZero, lost: lost}
	}
	m, shift := mant.Normalize()
	return finish(neg, exp-int(shift), m, lost)
}

// finish clamps the exponent of an already normalised result.
func finish(neg bool, exp int, mant U128, lost uint8) Quad {
	if exp > expMax {
		q := Inf(1)
		q.neg, q.lost = neg, lost
		return q
	} else if exp < expMin {
		return Quad{exp: expZero, lost: lost}
	}
	return Quad{neg: neg, exp: int16(exp), mant: mant, lost: lost}
}

// Raw returns the sign, exponent and mantissa. Zero reports the reserved
// minimum exponent; NaN and the infinities report the reserved maximum.
func (q Quad) Raw() (neg bool, exp int16, mant U128) {
	if q.IsZero() {
		return false, expZero, U128{}
	}
	return q.neg, q.exp, q.mant
}

// SignificantBits reports how many of the mantissa's 128 bits are considered
// trustworthy.
func (q Quad) SignificantBits() int { return mantBits - int(q.lost) }

// WithSignificantBits declares that no more than n bits of q are to be
// trusted. It never raises the count; n is clamped to [0, 128].
func (q Quad) WithSignificantBits(n int) Quad {
	q.lost = lostOf(q.lost, clampLost(mantBits-n))
	return q
}

// trim reduces q's significant bits to the lesser of its own and bits.
func (q Quad) trim(bits int) Quad { return q.WithSignificantBits(bits) }

// withLost merges an extra error budget into q.
func (q Quad) withLost(lost uint8) Quad {
	q.lost = lostOf(q.lost, lost)
	return q
}

func (q Quad) IsZero() bool { return q.mant.IsZero() }

func (q Quad) IsNaN() bool { return q.exp == expSpecial && q.mant != infMant }

// IsInf reports whether q is an infinity, according to sign. If sign > 0,
// IsInf reports whether q is positive infinity. If sign < 0, IsInf reports
// whether q is negative infinity. If sign == 0, IsInf reports whether q is
// either infinity.
func (q Quad) IsInf(sign int) bool {
	if q.exp != expSpecial || q.mant != infMant {
		return false
	}
	return sign == 0 || (sign > 0) == !q.neg
}

// IsFinite reports whether q is neither NaN nor an infinity.
func (q Quad) IsFinite() bool { return q.exp != expSpecial }

// IsNegative reports whether q is less than zero. NaN is not negative.
func (q Quad) IsNegative() bool { return q.neg && !q.IsZero() && !q.IsNaN() }

// Sign returns -1, 0 or +1. The sign of NaN is 0.
func (q Quad) Sign() int {
	switch {
	case q.IsZero() || q.IsNaN():
		return 0
	case q.neg:
		return -1
	}
	return 1
}

// BigFloat returns the exact value of q. NaN cannot be represented by a
// big.Float and yields nil.
func (q Quad) BigFloat() *big.Float {
	switch {
	case q.IsNaN():
		return nil
	case q.IsInf(0):
		return new(big.Float).SetInf(q.neg)
	case q.IsZero():
		return new(big.Float)
	}
	f := new(big.Float).SetPrec(mantBits).SetInt(q.mant.AsBigInt())
	f.SetMantExp(f, int(q.exp)-mantBits)
	if q.neg {
		f.Neg(f)
	}
	return f
}

// AsU128 truncates q towards zero. inRange is false if q is negative, not
// finite, or too large.
func (q Quad) AsU128() (out U128, inRange bool) {
	switch {
	case q.IsZero():
		return out, true
	case !q.IsFinite():
		return out, false
	case q.exp <= 0:
		return out, !q.neg
	case q.neg || q.exp > mantBits:
		return out, false
	}
	return q.mant.Rsh(uint(mantBits - int(q.exp))), true
}

// AsI128 truncates q towards zero. inRange is false if q is not finite or
// lies outside the range of an I128.
func (q Quad) AsI128() (out I128, inRange bool) {
	switch {
	case q.IsZero() || (q.IsFinite() && q.exp <= 0):
		return out, true
	case !q.IsFinite() || q.exp > mantBits:
		return out, false
	}
	mag := q.mant.Rsh(uint(mantBits - int(q.exp)))
	if q.neg {
		if mag.GreaterThan(minI128AsAbsU128) {
			return out, false
		}
		return I128{hi: mag.hi, lo: mag.lo}.Neg(), true
	}
	if mag.hi&signBit != 0 {
		return out, false
	}
	return I128{hi: mag.hi, lo: mag.lo}, true
}

// AsInt64 truncates q towards zero. inRange is false if q is not finite or
// lies outside the range of an int64.
func (q Quad) AsInt64() (out int64, inRange bool) {
	i, ok := q.AsI128()
	if !ok {
		return 0, false
	}
	hi, lo := i.Raw()
	if (hi == 0 && lo&signBit == 0) || (hi == maxUint64 && lo&signBit != 0) {
		return int64(lo), true
	}
	return 0, false
}
