package quad

import (
	"fmt"
	"math/big"
)

// I128 is a two's complement signed 128-bit integer. Quad converts to and
// from it exactly wherever the magnitude fits the mantissa.
type I128 struct {
	hi uint64
	lo uint64
}

// I128FromString creates an I128 from a decimal string. Overflow saturates
// to MaxI128 or MinI128 and sets accurate to 'false'.
func I128FromString(s string) (out I128, accurate bool, err error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return out, false, fmt.Errorf("quad: i128 string %q invalid", s)
	}
	out, accurate = I128FromBigInt(b)
	return out, accurate, nil
}

// I128FromRaw is the complement to I128.Raw(); it creates an I128 from two
// uint64s representing the hi and lo bits.
func I128FromRaw(hi, lo uint64) I128 {
	return I128{hi: hi, lo: lo}
}

func I128From64(v int64) I128 {
	var hi uint64
	if v < 0 {
		hi = maxUint64
	}
	return I128{hi: hi, lo: uint64(v)}
}

// I128FromBigInt creates an I128 from a big.Int. Overflow truncates to
// MaxI128/MinI128 and sets accurate to 'false'.
func I128FromBigInt(v *big.Int) (out I128, accurate bool) {
	mag, accurate := U128FromBigInt(new(big.Int).Abs(v))
	if v.Sign() >= 0 {
		if !accurate || mag.hi&signBit != 0 {
			return MaxI128, false
		}
		return I128{hi: mag.hi, lo: mag.lo}, true
	}
	if !accurate || mag.GreaterThan(minI128AsAbsU128) {
		return MinI128, false
	}
	return I128{hi: mag.hi, lo: mag.lo}.Neg(), true
}

var minI128AsAbsU128 = U128{hi: signBit}

func (i I128) IsZero() bool { return i.hi == 0 && i.lo == 0 }

// Raw returns access to the I128 as a pair of uint64s. See I128FromRaw() for
// the counterpart.
func (i I128) Raw() (hi uint64, lo uint64) { return i.hi, i.lo }

func (i I128) Sign() int {
	if i.IsZero() {
		return 0
	} else if i.hi&signBit == 0 {
		return 1
	}
	return -1
}

// Neg negates i. Negating MinI128 wraps back to MinI128.
func (i I128) Neg() (v I128) {
	v.hi, v.lo = ^i.hi, ^i.lo
	v.lo++
	if v.lo == 0 {
		v.hi++
	}
	return v
}

// Abs returns the magnitude of i. It is returned as a U128 so that MinI128
// has a representable result.
func (i I128) Abs() U128 {
	if i.hi&signBit != 0 {
		i = i.Neg()
	}
	return U128{hi: i.hi, lo: i.lo}
}

func (i I128) Cmp(n I128) int {
	if i == n {
		return 0
	} else if i.hi&signBit == n.hi&signBit {
		if i.hi > n.hi || (i.hi == n.hi && i.lo > n.lo) {
			return 1
		}
	} else if i.hi&signBit == 0 {
		return 1
	}
	return -1
}

func (i I128) AsBigInt() (b *big.Int) {
	b = i.Abs().AsBigInt()
	if i.Sign() < 0 {
		b.Neg(b)
	}
	return b
}

func (i I128) String() string {
	return i.AsBigInt().String()
}

func (i I128) Format(s fmt.State, c rune) {
	i.AsBigInt().Format(s, c)
}

func (i I128) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *I128) UnmarshalText(bts []byte) (err error) {
	v, _, err := I128FromString(string(bts))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i I128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *I128) UnmarshalJSON(bts []byte) (err error) {
	if len(bts) > 0 && bts[0] == '"' {
		ln := len(bts)
		if ln < 2 || bts[ln-1] != '"' {
			return fmt.Errorf("quad: i128 invalid JSON %q", string(bts))
		}
		bts = bts[1 : ln-1]
	}

	v, _, err := I128FromString(string(bts))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
