package quad

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"
)

// U128 is an unsigned 128-bit integer. It is the mantissa store for Quad, but
// is usable on its own. All operations return new values.
type U128 struct {
	hi, lo uint64
}

func U128FromRaw(hi, lo uint64) U128 { return U128{hi: hi, lo: lo} }
func U128From64(v uint64) U128       { return U128{lo: v} }
func U128From32(v uint32) U128       { return U128{lo: uint64(v)} }
func U128From16(v uint16) U128       { return U128{lo: uint64(v)} }
func U128From8(v uint8) U128         { return U128{lo: uint64(v)} }

// U128FromString creates a U128 from a decimal string. Overflow truncates to
// MaxU128 and sets accurate to 'false'.
func U128FromString(s string) (out U128, accurate bool, err error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return out, false, fmt.Errorf("quad: u128 string %q invalid", s)
	}
	out, accurate = U128FromBigInt(b)
	return out, accurate, nil
}

// U128FromBigInt creates a U128 from a big.Int. Overflow truncates to MaxU128
// and sets accurate to 'false'. Negative numbers yield zero.
func U128FromBigInt(v *big.Int) (out U128, accurate bool) {
	if v.Sign() < 0 {
		return out, false
	}
	if v.BitLen() > 128 {
		return MaxU128, false
	}

	words := v.Bits()
	switch intSize {
	case 64:
		for i := len(words) - 1; i >= 0; i-- {
			out = out.Lsh(64).Or(U128{lo: uint64(words[i])})
		}
	case 32:
		for i := len(words) - 1; i >= 0; i-- {
			out = out.Lsh(32).Or(U128{lo: uint64(words[i])})
		}
	default:
		panic("quad: unsupported bit size")
	}
	return out, true
}

func (u U128) IsZero() bool { return u == zeroU128 }

// Raw returns access to the U128 as a pair of uint64s. See U128FromRaw() for
// the counterpart.
func (u U128) Raw() (hi, lo uint64) { return u.hi, u.lo }

func (u U128) String() string {
	if u.hi == 0 {
		return strconv.FormatUint(u.lo, 10)
	}
	return u.AsBigInt().String()
}

func (u U128) Format(s fmt.State, c rune) {
	u.AsBigInt().Format(s, c)
}

func (u U128) IntoBigInt(b *big.Int) {
	b.SetUint64(u.hi)
	b.Lsh(b, 64)
	var lo big.Int
	lo.SetUint64(u.lo)
	b.Or(b, &lo)
}

func (u U128) AsBigInt() (b *big.Int) {
	var v big.Int
	u.IntoBigInt(&v)
	return &v
}

// AsUint64 truncates the U128 to fit in a uint64. See IsUint64() if you want
// to check before you convert.
func (u U128) AsUint64() uint64 { return u.lo }

// IsUint64 reports whether u can be represented as a uint64.
func (u U128) IsUint64() bool { return u.hi == 0 }

// Bit returns the value of the i'th bit of u. Bits above 127 are zero.
func (u U128) Bit(i uint) uint {
	switch {
	case i < 64:
		return uint(u.lo>>i) & 1
	case i < 128:
		return uint(u.hi>>(i-64)) & 1
	}
	return 0
}

func (u U128) Inc() (v U128) {
	v.lo = u.lo + 1
	v.hi = u.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Dec() (v U128) {
	v.lo = u.lo - 1
	v.hi = u.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

// Add returns u+n, wrapping on overflow. See AddOverflow.
func (u U128) Add(n U128) (v U128) {
	v.lo = u.lo + n.lo
	v.hi = u.hi + n.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

// AddOverflow returns u+n and reports whether the true sum needed a 129th
// bit. The carry out of the low half can overflow the high half either when
// the high halves themselves overflow, or when the carry lands on a high half
// that is all ones.
func (u U128) AddOverflow(n U128) (v U128, overflow bool) {
	v.lo = u.lo + n.lo
	var carry uint64
	if v.lo < u.lo {
		carry = 1
	}
	v.hi = u.hi + n.hi
	overflow = v.hi < u.hi
	if carry == 1 {
		if v.hi == maxUint64 {
			overflow = true
		}
		v.hi++
	}
	return v, overflow
}

// Sub returns u-n, wrapping on underflow. Callers that need a magnitude
// difference should establish ordering first (see DifferenceU128).
func (u U128) Sub(n U128) (v U128) {
	v.lo = u.lo - n.lo
	v.hi = u.hi - n.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

func (u U128) Cmp(n U128) int {
	if u.hi > n.hi {
		return 1
	} else if u.hi < n.hi {
		return -1
	} else if u.lo > n.lo {
		return 1
	} else if u.lo < n.lo {
		return -1
	}
	return 0
}

func (u U128) Equal(n U128) bool {
	return u.hi == n.hi && u.lo == n.lo
}

func (u U128) GreaterThan(n U128) bool {
	return u.hi > n.hi || (u.hi == n.hi && u.lo > n.lo)
}

func (u U128) GreaterOrEqualTo(n U128) bool {
	return !u.LessThan(n)
}

func (u U128) LessThan(n U128) bool {
	return u.hi < n.hi || (u.hi == n.hi && u.lo < n.lo)
}

func (u U128) LessOrEqualTo(n U128) bool {
	return !u.GreaterThan(n)
}

func (u U128) And(v U128) (out U128) {
	out.hi = u.hi & v.hi
	out.lo = u.lo & v.lo
	return out
}

func (u U128) Or(v U128) (out U128) {
	out.hi = u.hi | v.hi
	out.lo = u.lo | v.lo
	return out
}

func (u U128) Xor(v U128) (out U128) {
	out.hi = u.hi ^ v.hi
	out.lo = u.lo ^ v.lo
	return out
}

func (u U128) Not() (out U128) {
	out.hi = ^u.hi
	out.lo = ^u.lo
	return out
}

// Lsh shifts u left by n bits. Shifts of 128 or more yield zero.
func (u U128) Lsh(n uint) (v U128) {
	if n == 0 {
		return u
	} else if n >= 128 {
		return v
	} else if n > 64 {
		v.hi = u.lo << (n - 64)
	} else if n < 64 {
		v.hi = (u.hi << n) | (u.lo >> (64 - n))
		v.lo = u.lo << n
	} else {
		v.hi = u.lo
	}
	return v
}

// Rsh shifts u right by n bits. Shifts of 128 or more yield zero.
func (u U128) Rsh(n uint) (v U128) {
	if n == 0 {
		return u
	} else if n >= 128 {
		return v
	} else if n > 64 {
		v.lo = u.hi >> (n - 64)
	} else if n < 64 {
		v.lo = (u.lo >> n) | (u.hi << (64 - n))
		v.hi = u.hi >> n
	} else {
		v.lo = u.hi
	}
	return v
}

// RshInsertMSB shifts u right by n bits and sets bit 128-n, which is where a
// carry out of bit 127 lands after the shift. This folds the carry of a
// 128-bit addition back into the mantissa.
func (u U128) RshInsertMSB(n uint) (v U128) {
	if n == 0 {
		return u
	}
	v = u.Rsh(n)
	if n <= 128 {
		v = v.Or(U128{hi: signBit}.Rsh(n - 1))
	}
	return v
}

// Normalize shifts u left until bit 127 is set, returning the shifted value
// and the number of positions shifted. It panics if u is zero; callers must
// handle zero themselves.
func (u U128) Normalize() (v U128, shift uint) {
	if u.hi == 0 && u.lo == 0 {
		panic("u128: normalize of zero")
	}
	if u.hi != 0 {
		shift = uint(bits.LeadingZeros64(u.hi))
	} else {
		shift = 64 + uint(bits.LeadingZeros64(u.lo))
	}
	return u.Lsh(shift), shift
}

func (u U128) LeadingZeros() uint {
	if u.hi == 0 {
		return uint(bits.LeadingZeros64(u.lo)) + 64
	}
	return uint(bits.LeadingZeros64(u.hi))
}

func (u U128) TrailingZeros() uint {
	if u.lo == 0 {
		return uint(bits.TrailingZeros64(u.hi)) + 64
	}
	return uint(bits.TrailingZeros64(u.lo))
}

// Mul returns the low 128 bits of u*n, wrapping on overflow.
func (u U128) Mul(n U128) (dest U128) {
	dest.hi, dest.lo = mul64to128(u.lo, n.lo)
	dest.hi += u.hi*n.lo + u.lo*n.hi
	return dest
}

// Mul64Overflow multiplies u by v, returning the low 128 bits of the product
// and the 64 bits that spilled out of the top.
func (u U128) Mul64Overflow(v uint64) (out U128, spill uint64) {
	lhi, llo := mul64to128(u.lo, v)
	hhi, hlo := mul64to128(u.hi, v)
	out.lo = llo
	out.hi = hlo + lhi
	if out.hi < hlo {
		hhi++
	}
	return out, hhi
}

// QuoRem64 divides u by v, returning the quotient and remainder. If v == 0, a
// division-by-zero run-time panic occurs.
func (u U128) QuoRem64(v uint64) (q U128, r uint64) {
	if v == 0 {
		panic("u128: division by zero")
	}
	if u.hi < v {
		q.lo, r = quorem128by64(u.hi, u.lo, v)
		return q, r
	}
	q.hi = u.hi / v
	q.lo, r = quorem128by64(u.hi%v, u.lo, v)
	return q, r
}

// Hacker's delight 9-4, divlu. Requires u1 < v.
func quorem128by64(u1, u0, v uint64) (q, r uint64) {
	var b uint64 = 1 << 32
	var un1, un0, vn1, vn0, q1, q0, un32, un21, un10, rhat, left, right uint64

	s := uint(bits.LeadingZeros64(v))
	v <<= s

	vn1 = v >> 32
	vn0 = v & 0xffffffff

	if s > 0 {
		un32 = (u1 << s) | (u0 >> (64 - s))
		un10 = u0 << s
	} else {
		un32 = u1
		un10 = u0
	}

	un1 = un10 >> 32
	un0 = un10 & 0xffffffff

	q1 = un32 / vn1
	rhat = un32 % vn1

	left = q1 * vn0
	right = (rhat << 32) + un1

again1:
	if (q1 >= b) || (left > right) {
		q1--
		rhat += vn1
		if rhat < b {
			left -= vn0
			right = (rhat << 32) | un1
			goto again1
		}
	}

	un21 = (un32 << 32) + (un1 - (q1 * v))

	q0 = un21 / vn1
	rhat = un21 % vn1

	left = q0 * vn0
	right = (rhat << 32) | un0

again2:
	if (q0 >= b) || (left > right) {
		q0--
		rhat += vn1
		if rhat < b {
			left -= vn0
			right = (rhat << 32) | un0
			goto again2
		}
	}

	return (q1 << 32) | q0, ((un21 << 32) + (un0 - (q0 * v))) >> s
}

func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *U128) UnmarshalText(bts []byte) (err error) {
	v, _, err := U128FromString(string(bts))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u U128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

func (u *U128) UnmarshalJSON(bts []byte) (err error) {
	if len(bts) > 0 && bts[0] == '"' {
		ln := len(bts)
		if ln < 2 || bts[ln-1] != '"' {
			return fmt.Errorf("quad: u128 invalid JSON %q", string(bts))
		}
		bts = bts[1 : ln-1]
	}

	v, _, err := U128FromString(string(bts))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
