package quad

// fracMask returns a mask over the mantissa bits of q that lie below the
// binary point. q must be finite with 0 < exp < 128.
func fracMask(exp int16) U128 {
	return MaxU128.Rsh(uint(exp))
}

// Trunc rounds q towards zero.
func (q Quad) Trunc() Quad {
	if !q.IsFinite() || q.IsZero() || q.exp >= mantBits {
		return q
	}
	if q.exp <= 0 {
		return zeroWith(q.lost)
	}
	q.mant = q.mant.And(fracMask(q.exp).Not())
	return q
}

// Floor rounds q towards negative infinity.
func (q Quad) Floor() Quad {
	t := q.Trunc()
	if q.neg && q.IsFinite() && !t.Equal(q) {
		return t.Sub(one)
	}
	return t
}

// Ceil rounds q towards positive infinity.
func (q Quad) Ceil() Quad {
	t := q.Trunc()
	if !q.neg && q.IsFinite() && !t.Equal(q) {
		return t.Add(one)
	}
	return t
}

// Round rounds q to the nearest integer, with ties going to the even
// neighbour.
func (q Quad) Round() Quad {
	if !q.IsFinite() || q.IsZero() || q.exp >= mantBits {
		return q
	}
	switch {
	case q.exp < 0:
		return zeroWith(q.lost)
	case q.exp == 0:
		// [0.5, 1): exactly one half goes to zero
		if q.mant == oneMant {
			return zeroWith(q.lost)
		}
		r := one.withLost(q.lost)
		r.neg = q.neg
		return r
	}

	fracBits := uint(mantBits - int(q.exp))
	t := q.Trunc()
	if q.mant.Bit(fracBits-1) == 0 {
		return t
	}
	rest := q.mant.And(MaxU128.Rsh(mantBits - (fracBits - 1)))
	if rest.IsZero() && q.mant.Bit(fracBits) == 0 {
		return t
	}
	if q.neg {
		return t.Sub(one)
	}
	return t.Add(one)
}

// Frac returns the fractional part of q, q - Trunc(q), which has the sign of
// q. The fractional part of an infinity is NaN.
func (q Quad) Frac() Quad {
	if !q.IsFinite() {
		return NaN()
	}
	return q.Sub(q.Trunc())
}

// IsInteger reports whether q is a finite whole number.
func (q Quad) IsInteger() bool {
	switch {
	case !q.IsFinite():
		return false
	case q.IsZero() || q.exp >= mantBits:
		return true
	case q.exp <= 0:
		return false
	}
	return q.mant.And(fracMask(q.exp)).IsZero()
}

// IsOdd reports whether q is an odd integer. Integers too large for the
// units bit to be held in the mantissa are even.
func (q Quad) IsOdd() bool {
	if !q.IsInteger() || q.IsZero() || q.exp > mantBits {
		return false
	}
	return q.mant.Bit(uint(mantBits-int(q.exp))) == 1
}
