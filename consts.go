package quad

import "math"

const (
	maxUint64 = 1<<64 - 1
	signBit   = 0x8000000000000000

	intSize = 32 << (^uint(0) >> 63)

	// Reserved exponents. expZero marks zero, expSpecial marks NaN and the
	// infinities; finite values use the range between them.
	expZero    = math.MinInt16
	expSpecial = math.MaxInt16
	expMin     = expZero + 1
	expMax     = expSpecial - 1

	mantBits = 128
)

var (
	MaxU128 = U128{hi: maxUint64, lo: maxUint64}
	MaxI128 = I128{hi: 0x7FFFFFFFFFFFFFFF, lo: maxUint64}
	MinI128 = I128{hi: signBit, lo: 0}

	zeroU128 U128

	// infMant is the msb-only pattern reserved for the infinities; any other
	// mantissa under expSpecial is NaN.
	infMant = U128{hi: signBit}
	nanMant = U128{hi: 0xC000000000000000}
	oneMant = U128{hi: signBit}
)

// Rounded to nearest at 128 bits.
var (
	Pi     = Quad{exp: 2, mant: U128{hi: 0xC90FDAA22168C234, lo: 0xC4C6628B80DC1CD1}}
	HalfPi = Quad{exp: 1, mant: Pi.mant}
	TwoPi  = Quad{exp: 3, mant: Pi.mant}
	E      = Quad{exp: 2, mant: U128{hi: 0xADF85458A2BB4A9A, lo: 0xAFDC5620273D3CF2}}
	Ln2    = Quad{exp: 0, mant: U128{hi: 0xB17217F7D1CF79AB, lo: 0xC9E3B39803F2F6AF}}
	Ln10   = Quad{exp: 2, mant: U128{hi: 0x935D8DDDAAA8AC16, lo: 0xEA56D62B82D30A29}}
	Sqrt2  = Quad{exp: 1, mant: U128{hi: 0xB504F333F9DE6484, lo: 0x597D89B3754ABE9F}}
	Log2E  = Quad{exp: 1, mant: U128{hi: 0xB8AA3B295C17F0BB, lo: 0xBE87FED0691D3E89}}
	Log10E = Quad{exp: -1, mant: U128{hi: 0xDE5BD8A937287195, lo: 0x355BAAAFAD33DC32}}

	sqrt2Pi   = Quad{exp: 2, mant: U128{hi: 0xA06C98FFB1382CB2, lo: 0xBE520FD739167718}}
	lnSqrt2Pi = Quad{exp: 0, mant: U128{hi: 0xEB3F8E4325F5A534, lo: 0x94BC900144192024}}
	lnPi      = Quad{exp: 1, mant: U128{hi: 0x928682473D0DE85E, lo: 0xAFCAB635421FA4CC}}
	sqrtPi    = Quad{exp: 1, mant: U128{hi: 0xE2DFC48DA77B553C, lo: 0xE1D82906AEDC9C20}}

	one  = Quad{exp: 1, mant: oneMant}
	two  = Quad{exp: 2, mant: oneMant}
	half = Quad{exp: 0, mant: oneMant}
)
