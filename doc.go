/*
Package quad provides Quad, a binary floating point type with a 128-bit
mantissa and a 16-bit exponent, built in software on the U128 unsigned
128-bit integer type.

Quad, U128 and I128 are value types; all operations return new values.

Simple example:

	x, _ := quad.QuadFromString("2", 10)
	fmt.Println(quad.Sqrt(x))
	// Output: 1.414213562373095048801688724209698079

Quad is not IEEE 754. There is one zero, which is unsigned; NaN and the
infinities exist, but invalid operations such as 0/0, 1/0 or Sqrt(-1) give
NaN rather than an error. Results too large or too small for the exponent
saturate to an infinity or zero.

Every Quad carries a count of its significant bits, which starts at 128 and
only ever goes down. Arithmetic passes on the smaller count of its operands and
the elementary and special functions reduce it to what their algorithms can
deliver. Formatting uses it to decide how many digits to print:

	SignificantBits() int
	WithSignificantBits(n int) Quad

Quads can be created from a variety of sources:

	QuadFromInt64(v int64) Quad
	QuadFromUint64(v uint64) Quad
	QuadFromU128(u U128) Quad
	QuadFromI128(i I128) Quad
	QuadFromFloat64(f float64) Quad
	QuadFromString(s string, base int) (Quad, error)
	QuadFromRaw(neg bool, exp int16, mant U128) (Quad, error)

Quad, U128 and I128 support the following formatting and marshalling
interfaces:

	- fmt.Formatter
	- fmt.Stringer
	- json.Marshaler
	- json.Unmarshaler
	- encoding.TextMarshaler
	- encoding.TextUnmarshaler

Quad's text forms may use any base from 2 to 26 for output and 2 to 16 for
input, with an optional exponent marker written '^' followed by a signed power
of the base in that same base:

	-1.8^+A    // base 16: -0x1.8 * 16^10
*/
package quad
