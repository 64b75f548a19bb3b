package quad

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

const (
	MinParseBase  = 2
	MaxParseBase  = 16
	MinFormatBase = 2
	MaxFormatBase = 26

	digitChars = "0123456789ABCDEFGHIJKLMNOP"

	// Exponents beyond this saturate any finite mantissa.
	maxParseExp = 1 << 20
)

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'p':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'P':
		return int(c-'A') + 10
	}
	return -1
}

// QuadFromString parses a numeral of the form:
//
//	[+|-]digits[.digits][^[+|-]digits]
//
// in the given base, which must be between 2 and 16. The exponent after '^'
// is a power of the base and is itself written in that base, so "-2A^+1" in
// base 16 is -0x2A * 16. NaN, Inf and Infinity are accepted in any case, with
// an optional sign.
//
// Digits beyond the mantissa's reach are rounded away. Exponents too large or
// too small for a Quad saturate to an infinity or zero.
func QuadFromString(s string, base int) (Quad, error) {
	const fn = "QuadFromString"
	if base < MinParseBase || base > MaxParseBase {
		return Quad{}, &NumError{Func: fn, Input: s, Base: base, Err: ErrBase}
	}
	syntaxError := func() (Quad, error) {
		return Quad{}, &NumError{Func: fn, Input: s, Base: base, Err: ErrSyntax}
	}

	str, neg := s, false
	if len(str) > 0 && (str[0] == '+' || str[0] == '-') {
		neg = str[0] == '-'
		str = str[1:]
	}
	switch strings.ToLower(str) {
	case "nan":
		return NaN(), nil
	case "inf", "infinity":
		return Inf(signOf(neg)), nil
	}

	var (
		acc        U128
		ndigits    int
		fracDigits int
		dropped    int
		overflowed bool
		seenPoint  bool
		i          int

		// tail compares the digits that did not fit with one half of a unit
		// in the accumulator's last place; 0 until a digit decides it.
		tail   int
		tailAt int
	)

	for ; i < len(str); i++ {
		c := str[i]
		if c == '.' {
			if seenPoint {
				return syntaxError()
			}
			seenPoint = true
			continue
		} else if c == '^' {
			break
		}

		d := digitValue(c)
		if d < 0 || d >= base {
			return syntaxError()
		}
		ndigits++

		if !overflowed {
			next, spill := acc.Mul64Overflow(uint64(base))
			if spill == 0 {
				var carry bool
				if next, carry = next.AddOverflow(U128From64(uint64(d))); !carry {
					acc = next
					if seenPoint {
						fracDigits++
					}
					continue
				}
			}
			overflowed = true
		}
		if tail == 0 {
			if hd := halfDigit(base, tailAt); d != hd {
				tail = signOf(d < hd)
			}
			tailAt++
		}
		if !seenPoint {
			dropped++
		}
	}
	if ndigits == 0 {
		return syntaxError()
	}

	exp := 0
	if i < len(str) {
		estr := str[i+1:]
		eneg := false
		if len(estr) > 0 && (estr[0] == '+' || estr[0] == '-') {
			eneg = estr[0] == '-'
			estr = estr[1:]
		}
		if len(estr) == 0 {
			return syntaxError()
		}
		for j := 0; j < len(estr); j++ {
			d := digitValue(estr[j])
			if d < 0 || d >= base {
				return syntaxError()
			}
			if exp < maxParseExp {
				exp = exp*base + d
			}
		}
		if eneg {
			exp = -exp
		}
	}

	if acc.IsZero() {
		return Zero(), nil
	}
	if overflowed && tail == 0 && base&1 == 1 {
		// The half of an odd base never terminates, so a finite tail of
		// half digits falls short of it.
		tail = -1
	}
	q := QuadFromU128(acc)
	if tail > 0 || (tail == 0 && overflowed && acc.lo&1 == 1) {
		q = q.Add(one)
	}

	q = scaleBase(q, base, exp+dropped-fracDigits)
	if neg {
		q = q.Neg()
	}
	return q, nil
}

// halfDigit returns digit i, counting from the first, of one half written as
// a fraction in base.
func halfDigit(base, i int) int {
	if i == 0 || base&1 == 1 {
		return base / 2
	}
	return 0
}

// MustQuadFromString is like QuadFromString but panics on malformed input.
// It is intended for constants and tests.
func MustQuadFromString(s string, base int) Quad {
	q, err := QuadFromString(s, base)
	if err != nil {
		panic(err)
	}
	return q
}

// powBase returns base^n for n >= 0. It is exact while the power fits in 128
// bits.
func powBase(base, n int) Quad {
	p := U128From64(1)
	for i := 0; i < n; i++ {
		next, spill := p.Mul64Overflow(uint64(base))
		if spill != 0 {
			return QuadFromInt(base).Powi(n)
		}
		p = next
	}
	return QuadFromU128(p)
}

// scaleBase returns a * base^k. Large powers are applied in two halves so
// that neither factor leaves the exponent range on its own.
func scaleBase(a Quad, base, k int) Quad {
	if base&(base-1) == 0 {
		return a.Mul2Exp(k * bits.TrailingZeros(uint(base)))
	}
	for _, part := range [2]int{k / 2, k - k/2} {
		if part > 0 {
			a = a.Mul(powBase(base, part))
		} else if part < 0 {
			a = a.Quo(powBase(base, -part))
		}
	}
	return a
}

// digitBudget is the number of base digits that the given number of trusted
// bits can support.
func digitBudget(sig, base int) int {
	d := int(float64(sig) / math.Log2(float64(base)))
	if d < 1 {
		d = 1
	}
	return d
}

// fracMulBase multiplies the 192-bit fraction (f, g) by base, returning the
// new fraction and the digit that crossed the binary point.
func fracMulBase(f U128, g uint64, base uint64) (U128, uint64, byte) {
	gh, gl := mul64to128(g, base)
	fn, spill := f.Mul64Overflow(base)
	fn, carry := fn.AddOverflow(U128{lo: gh})
	if carry {
		spill++
	}
	return fn, gl, byte(spill)
}

// cmpFracHalf compares the 192-bit fraction (f, g) with one half.
func cmpFracHalf(f U128, g uint64) int {
	if c := f.Cmp(U128{hi: signBit}); c != 0 {
		return c
	}
	if g != 0 {
		return 1
	}
	return 0
}

// cmpTailHalf compares the discarded digits, followed by the fraction (f, g),
// with one half of a unit in the last kept place.
func cmpTailHalf(tail []byte, f U128, g uint64, base int) int {
	if len(tail) == 0 {
		return cmpFracHalf(f, g)
	}
	if base%2 == 0 {
		h := byte(base / 2)
		switch {
		case tail[0] > h:
			return 1
		case tail[0] < h:
			return -1
		}
		for _, d := range tail[1:] {
			if d != 0 {
				return 1
			}
		}
		if !f.IsZero() || g != 0 {
			return 1
		}
		return 0
	}

	// In an odd base one half is the digit (base-1)/2 repeated forever.
	h := byte((base - 1) / 2)
	for _, d := range tail {
		if d > h {
			return 1
		} else if d < h {
			return -1
		}
	}
	return cmpFracHalf(f, g)
}

// digits returns the digits of |q| in base, rounded half to even to the
// number of digits the significant bits support, with trailing zeros
// removed. point is the position of the radix point relative to the first
// digit. q must be finite and non-zero.
func (q Quad) digits(base int) (ds []byte, point int) {
	budget := digitBudget(q.SignificantBits(), base)
	a := q.Abs()

	var shift int
	lb := math.Log2(float64(base))
	if e := int(a.exp); e > mantBits {
		shift = int(math.Ceil(float64(e-mantBits) / lb))
		a = scaleBase(a, base, -shift)
	} else if e <= -64 {
		shift = -int(math.Ceil(float64(-e) / lb))
		a = scaleBase(a, base, -shift)
	}
	for a.exp > mantBits {
		a = scaleBase(a, base, -1)
		shift++
	}

	var (
		ip U128
		f  U128
		g  uint64
		e  = int(a.exp)
	)
	switch {
	case e >= mantBits:
		ip = a.mant
	case e > 0:
		ip, f = a.mant.Rsh(uint(mantBits-e)), a.mant.Lsh(uint(e))
	default:
		f, g = shiftRightGuard(a.mant, uint(-e))
	}

	for !ip.IsZero() {
		var r uint64
		ip, r = ip.QuoRem64(uint64(base))
		ds = append(ds, byte(r))
	}
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
	point = len(ds) + shift

	var tail []byte
	if len(ds) > budget {
		ds, tail = ds[:budget], ds[budget:]
	}
	for len(ds) < budget {
		var d byte
		f, g, d = fracMulBase(f, g, uint64(base))
		if len(ds) == 0 && d == 0 {
			point--
			continue
		}
		ds = append(ds, d)
	}

	c := cmpTailHalf(tail, f, g, base)
	if c > 0 || (c == 0 && ds[len(ds)-1]%2 == 1) {
		i := len(ds) - 1
		for ; i >= 0; i-- {
			if int(ds[i])+1 < base {
				ds[i]++
				break
			}
			ds[i] = 0
		}
		if i < 0 {
			ds = append([]byte{1}, ds[:len(ds)-1]...)
			point++
		}
	}

	for len(ds) > 1 && ds[len(ds)-1] == 0 {
		ds = ds[:len(ds)-1]
	}
	return ds, point
}

func (q Quad) text(base int) string {
	switch {
	case q.IsNaN():
		return "NaN"
	case q.IsInf(1):
		return "+Inf"
	case q.IsInf(-1):
		return "-Inf"
	case q.IsZero():
		return "0"
	}

	ds, point := q.digits(base)
	budget := digitBudget(q.SignificantBits(), base)

	var sb strings.Builder
	if q.neg {
		sb.WriteByte('-')
	}
	writeDigits := func(ds []byte) {
		for _, d := range ds {
			sb.WriteByte(digitChars[d])
		}
	}

	switch {
	case point > 0 && point <= budget:
		if len(ds) <= point {
			writeDigits(ds)
			sb.WriteString(strings.Repeat("0", point-len(ds)))
		} else {
			writeDigits(ds[:point])
			sb.WriteByte('.')
			writeDigits(ds[point:])
		}

	case point <= 0 && point >= -5:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -point))
		writeDigits(ds)

	default:
		writeDigits(ds[:1])
		if len(ds) > 1 {
			sb.WriteByte('.')
			writeDigits(ds[1:])
		}
		e := point - 1
		sb.WriteByte('^')
		if e >= 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strings.ToUpper(strconv.FormatInt(int64(e), base)))
	}
	return sb.String()
}

// Text renders q in the given base, which must be between 2 and 26. Digits
// above 9 are upper case letters. Only as many digits as the significant bits
// support are produced, the last rounded half to even. Values whose radix
// point lies far from the digits are written as d.ddd^±e, with the exponent
// also in the given base.
func (q Quad) Text(base int) (string, error) {
	if base < MinFormatBase || base > MaxFormatBase {
		return "", &NumError{Func: "Text", Input: q.text(10), Base: base, Err: ErrBase}
	}
	return q.text(base), nil
}

func (q Quad) String() string { return q.text(10) }

// Format implements fmt.Formatter. %v, %s and %d render in base 10, %x and %X
// in base 16, %b in base 2 and %o in base 8. The '+' flag and widths are
// honoured.
func (q Quad) Format(s fmt.State, c rune) {
	base, lower := 10, false
	switch c {
	case 'v', 's', 'd':
	case 'x':
		base, lower = 16, true
	case 'X':
		base = 16
	case 'b':
		base = 2
	case 'o':
		base = 8
	default:
		fmt.Fprintf(s, "%%!%c(quad.Quad=%s)", c, q.text(10))
		return
	}

	str := q.text(base)
	if q.IsFinite() {
		if lower {
			str = strings.ToLower(str)
		}
		if s.Flag('+') && !q.IsNegative() {
			str = "+" + str
		}
	}
	if w, ok := s.Width(); ok && len(str) < w {
		pad := strings.Repeat(" ", w-len(str))
		if s.Flag('-') {
			str += pad
		} else {
			str = pad + str
		}
	}
	io.WriteString(s, str)
}

func (q Quad) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quad) UnmarshalText(bts []byte) (err error) {
	v, err := QuadFromString(string(bts), 10)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

func (q Quad) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.String() + `"`), nil
}

func (q *Quad) UnmarshalJSON(bts []byte) (err error) {
	if len(bts) > 0 && bts[0] == '"' {
		ln := len(bts)
		if ln < 2 || bts[ln-1] != '"' {
			return fmt.Errorf("quad: invalid JSON %q", string(bts))
		}
		bts = bts[1 : ln-1]
	}

	v, err := QuadFromString(string(bts), 10)
	if err != nil {
		return err
	}
	*q = v
	return nil
}
