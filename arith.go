package quad

// mul64to128 is a schoolbook multiply of two 64-bit words using four 32x32
// partial products.
func mul64to128(u, v uint64) (hi, lo uint64) {
	var (
		u1 = (u & 0xffffffff)
		v1 = (v & 0xffffffff)
		t  = (u1 * v1)
		w3 = (t & 0xffffffff)
		k  = (t >> 32)
	)

	u >>= 32
	t = (u * v1) + k
	k = (t & 0xffffffff)
	var w1 = (t >> 32)

	v >>= 32
	t = (u1 * v) + k
	k = (t >> 32)

	return (u * v) + w1 + k,
		(t << 32) + w3
}

// Mul64x64 returns the exact 128-bit product of u and v.
func Mul64x64(u, v uint64) U128 {
	hi, lo := mul64to128(u, v)
	return U128{hi: hi, lo: lo}
}

// MulHi returns the upper 128 bits of the 256-bit product u*n, plus the
// next 64 bits below them as a guard word. The low 64 bits of the product
// are discarded.
func (u U128) MulHi(n U128) (hi U128, guard uint64) {
	hh1, hh0 := mul64to128(u.hi, n.hi)
	hl1, hl0 := mul64to128(u.hi, n.lo)
	lh1, lh0 := mul64to128(u.lo, n.hi)
	ll1, _ := mul64to128(u.lo, n.lo)

	// w1: hl0 + lh0 + ll1, carries into w2
	var c1 uint64
	w1 := hl0 + lh0
	if w1 < hl0 {
		c1++
	}
	t := w1 + ll1
	if t < w1 {
		c1++
	}
	w1 = t

	// w2: hh0 + hl1 + lh1 + c1, carries into w3
	var c2 uint64
	w2 := hh0 + hl1
	if w2 < hh0 {
		c2++
	}
	t = w2 + lh1
	if t < w2 {
		c2++
	}
	w2 = t + c1
	if w2 < t {
		c2++
	}

	return U128{hi: hh1 + c2, lo: w2}, w1
}

// shiftRightGuard shifts m right by n bits and returns the 64 bits that fell
// immediately below bit 0 as a guard word. Bits further down are discarded.
func shiftRightGuard(m U128, n uint) (out U128, guard uint64) {
	switch {
	case n == 0:
		return m, 0
	case n < 64:
		return m.Rsh(n), m.lo << (64 - n)
	case n == 64:
		return U128{lo: m.hi}, m.lo
	case n < 128:
		return m.Rsh(n), (m.lo >> (n - 64)) | (m.hi << (128 - n))
	case n == 128:
		return U128{}, m.hi
	case n < 192:
		return U128{}, m.hi >> (n - 128)
	}
	return U128{}, 0
}

// normalize192 normalises the 192-bit value (m, guard), which must not be
// zero, so that bit 127 of the returned mantissa is set. The bits shifted in
// from the guard word are kept; the remaining guard bits are returned for
// rounding.
func normalize192(m U128, guard uint64) (out U128, rest uint64, shift uint) {
	if m.IsZero() {
		m, guard, shift = U128{hi: guard}, 0, 128
	} else if m.hi == 0 {
		m, guard, shift = U128{hi: m.lo, lo: guard}, 0, 64
	}
	out, s := m.Normalize()
	if s > 0 {
		out.lo |= guard >> (64 - s)
		guard <<= s
	}
	return out, guard, shift + s
}

// roundGuard rounds m to nearest using the top bit of guard. If rounding
// carries out of bit 127, the mantissa becomes 1<<127 and carry is true; the
// caller must bump its exponent.
func roundGuard(m U128, guard uint64) (out U128, carry bool) {
	if guard&signBit == 0 {
		return m, false
	}
	out, carry = m.AddOverflow(U128{lo: 1})
	if carry {
		out = U128{hi: signBit}
	}
	return out, carry
}
