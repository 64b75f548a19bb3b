package quad

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strings"
	"testing"
)

type fuzzOp string

// This is the equivalent of passing -quad.fuzziter=2000 to 'go test':
const fuzzDefaultIterations = 2000

// These ops are all enabled by default. You can instead pass them explicitly
// on the command line like so: '-quad.fuzzop=add -quad.fuzzop=sub', or you can
// use the short form '-quad.fuzzop=add,sub,mul'.
//
// If you add a new op, search for the string 'NEWOP' in this file for all the
// places you need to update.
const (
	fuzzAdd         fuzzOp = "add"
	fuzzCmp         fuzzOp = "cmp"
	fuzzFloat64     fuzzOp = "float64"
	fuzzFromFloat64 fuzzOp = "fromfloat64"
	fuzzMul         fuzzOp = "mul"
	fuzzMulHi       fuzzOp = "mulhi"
	fuzzQuo         fuzzOp = "quo"
	fuzzQuoRem64    fuzzOp = "quorem64"
	fuzzSqrt        fuzzOp = "sqrt"
	fuzzSub         fuzzOp = "sub"
	fuzzText        fuzzOp = "text"
	fuzzTrunc       fuzzOp = "trunc"
)

// allFuzzOps are active by default.
//
// NEWOP: Update this list if a NEW op is added otherwise it won't be
// enabled by default.
//
// Please keep this list alphabetised.
var allFuzzOps = []fuzzOp{
	fuzzAdd,
	fuzzCmp,
	fuzzFloat64,
	fuzzFromFloat64,
	fuzzMul,
	fuzzMulHi,
	fuzzQuo,
	fuzzQuoRem64,
	fuzzSqrt,
	fuzzSub,
	fuzzText,
	fuzzTrunc,
}

// Results of the correctly rounded ops must land within this many bits of the
// exact answer.
const fuzzArithBits = 127

// classic rando!
type rando struct {
	operands []fmt.Stringer
	rng      *rand.Rand
}

func (r *rando) Operands() []fmt.Stringer { return r.operands }

func (r *rando) Clear() {
	for i := range r.operands {
		r.operands[i] = nil
	}
	r.operands = r.operands[:0]
}

// samesies reports whether the second operand of a pair should repeat the
// first. The chance of two random 128-bit mantissas matching is otherwise
// unfathomable.
func (r *rando) samesies() bool {
	const samesiesChance = 0.03
	return r.rng.Float64() < samesiesChance
}

func (r *rando) Quad() Quad {
	var q Quad
	switch r.rng.Intn(20) {
	case 0:
		q = Zero()
	case 1:
		q = QuadFromInt64(r.rng.Int63n(1<<20) - 1<<19)
	default:
		q = randQuad(r.rng, 1000)
	}
	r.operands = append(r.operands, q)
	return q
}

func (r *rando) Quadx2() (q1, q2 Quad) {
	q1 = r.Quad()
	if r.samesies() {
		q2 = q1
		if r.rng.Intn(2) == 0 {
			q2 = q2.Neg()
		}
		r.operands = append(r.operands, q2)
	} else {
		q2 = r.Quad()
	}
	return q1, q2
}

func (r *rando) U128() U128 {
	u := U128{hi: r.rng.Uint64(), lo: r.rng.Uint64()}
	if r.rng.Intn(2) == 0 {
		u = u.Rsh(uint(r.rng.Intn(128)))
	}
	r.operands = append(r.operands, u)
	return u
}

func (r *rando) Float64() float64 {
	var f float64
	switch r.rng.Intn(10) {
	case 0:
		// subnormals
		f = math.Float64frombits(r.rng.Uint64() & (1<<52 - 1))
	default:
		f = math.Float64frombits(r.rng.Uint64() &^ (0x7FF << 52))
		f = math.Ldexp(f, r.rng.Intn(2000)-1000)
	}
	if r.rng.Intn(2) == 0 {
		f = -f
	}
	r.operands = append(r.operands, floatStringer(f))
	return f
}

type floatStringer float64

func (f floatStringer) String() string { return fmt.Sprintf("%g", float64(f)) }

func checkNear(got Quad, want *big.Float, bits int) error {
	if got.IsNaN() {
		return fmt.Errorf("quad(NaN) != big(%s)", want.Text('g', 40))
	}
	limit := new(big.Float).SetMantExp(big.NewFloat(1), -bits)
	if err := relErr(got, want); err.Cmp(limit) > 0 {
		return fmt.Errorf("quad(%s) != big(%s), rel err %s", got, want.Text('g', 40), err.Text('g', 5))
	}
	return nil
}

func checkEqualU128(u U128, b *big.Int) error {
	if u.String() != b.String() {
		return fmt.Errorf("u128(%s) != big(%s)", u.String(), b.String())
	}
	return nil
}

func checkEqualInt(q int, b int) error {
	if q != b {
		return fmt.Errorf("quad(%v) != big(%v)", q, b)
	}
	return nil
}

func newBig() *big.Float { return new(big.Float).SetPrec(512) }

func TestFuzz(t *testing.T) {
	// fuzzOpsActive comes from the -quad.fuzzop flag, in TestMain:
	var runFuzzOps = fuzzOpsActive

	var source = &rando{rng: globalRNG} // Classic rando!
	var failures = make([]int, len(runFuzzOps))
	var totalFailures int

	for opIdx, op := range runFuzzOps {
		for i := 0; i < fuzzIterations; i++ {
			source.Clear()

			var err error

			// NEWOP: add a new branch here in alphabetical order if a new op
			// is added.
			switch op {
			case fuzzAdd:
				err = fuzzQuadAdd(source)
			case fuzzCmp:
				err = fuzzQuadCmp(source)
			case fuzzFloat64:
				err = fuzzQuadFloat64(source)
			case fuzzFromFloat64:
				err = fuzzQuadFromFloat64(source)
			case fuzzMul:
				err = fuzzQuadMul(source)
			case fuzzMulHi:
				err = fuzzU128MulHi(source)
			case fuzzQuo:
				err = fuzzQuadQuo(source)
			case fuzzQuoRem64:
				err = fuzzU128QuoRem64(source)
			case fuzzSqrt:
				err = fuzzQuadSqrt(source)
			case fuzzSub:
				err = fuzzQuadSub(source)
			case fuzzText:
				err = fuzzQuadText(source)
			case fuzzTrunc:
				err = fuzzQuadTrunc(source)
			default:
				panic(fmt.Errorf("unsupported op %q", op))
			}

			if err != nil {
				failures[opIdx]++
				t.Logf("%s: %s\n", op.Print(source.Operands()...), err)
			}
		}
	}

	for opIdx, cnt := range failures {
		if cnt > 0 {
			totalFailures += cnt
			t.Logf("op %s: %d/%d failed", string(runFuzzOps[opIdx]), cnt, fuzzIterations)
		}
	}

	if totalFailures > 0 {
		t.Fail()
	}
}

func (op fuzzOp) Print(operands ...fmt.Stringer) string {
	// NEWOP: please add a human-readale format for your op here; this is used
	// for reporting errors and should show the operation, i.e. "2 + 2".
	switch op {
	case fuzzFloat64, fuzzFromFloat64, fuzzSqrt, fuzzText, fuzzTrunc:
		s := strings.TrimRight(op.String(), "()")
		return fmt.Sprintf("%s(%s)", s, operands[0])

	case fuzzAdd, fuzzCmp, fuzzMul, fuzzMulHi, fuzzQuo, fuzzQuoRem64, fuzzSub:
		return fmt.Sprintf("%s %s %s", operands[0], op.String(), operands[1])

	default:
		return string(op)
	}
}

func (op fuzzOp) String() string {
	// NEWOP: please add a short string representation of this op, as if
	// the operands were in a sum (if that's possible)
	switch op {
	case fuzzAdd:
		return "+"
	case fuzzCmp:
		return "<=>"
	case fuzzFloat64:
		return "float64()"
	case fuzzFromFloat64:
		return "fromfloat64()"
	case fuzzMul:
		return "*"
	case fuzzMulHi:
		return "*hi"
	case fuzzQuo:
		return "/"
	case fuzzQuoRem64:
		return "/%"
	case fuzzSqrt:
		return "sqrt()"
	case fuzzSub:
		return "-"
	case fuzzText:
		return "text()"
	case fuzzTrunc:
		return "trunc()"
	default:
		return string(op)
	}
}

func fuzzQuadAdd(r *rando) error {
	q1, q2 := r.Quadx2()
	want := newBig().Add(q1.BigFloat(), q2.BigFloat())
	return checkNear(q1.Add(q2), want, fuzzArithBits)
}

func fuzzQuadSub(r *rando) error {
	q1, q2 := r.Quadx2()
	want := newBig().Sub(q1.BigFloat(), q2.BigFloat())
	return checkNear(q1.Sub(q2), want, fuzzArithBits)
}

func fuzzQuadMul(r *rando) error {
	q1, q2 := r.Quadx2()
	want := newBig().Mul(q1.BigFloat(), q2.BigFloat())
	return checkNear(q1.Mul(q2), want, fuzzArithBits)
}

func fuzzQuadQuo(r *rando) error {
	q1, q2 := r.Quadx2()
	if q2.IsZero() {
		if !q1.Quo(q2).IsNaN() {
			return fmt.Errorf("division by zero is not NaN")
		}
		return nil
	}
	want := newBig().Quo(q1.BigFloat(), q2.BigFloat())
	return checkNear(q1.Quo(q2), want, fuzzArithBits)
}

func fuzzQuadCmp(r *rando) error {
	q1, q2 := r.Quadx2()
	c, ok := q1.Cmp(q2)
	if !ok {
		return fmt.Errorf("finite values reported unordered")
	}
	return checkEqualInt(c, q1.BigFloat().Cmp(q2.BigFloat()))
}

func fuzzQuadSqrt(r *rando) error {
	q := r.Quad().Abs()
	want := newBig().Sqrt(q.BigFloat())
	return checkNear(Sqrt(q), want, sqrtBits-1)
}

func fuzzQuadTrunc(r *rando) error {
	q := r.Quad()
	bf := q.BigFloat()
	bi, _ := bf.Int(nil)
	want := newBig().SetInt(bi)
	got := q.Trunc()
	if got.BigFloat().Cmp(want) != 0 {
		return fmt.Errorf("quad(%s) != big(%s)", got, want.Text('g', 50))
	}
	return nil
}

func fuzzQuadFromFloat64(r *rando) error {
	f := r.Float64()
	got := QuadFromFloat64(f)
	if got.BigFloat().Cmp(big.NewFloat(f)) != 0 {
		return fmt.Errorf("quad(%s) != float64(%g)", got, f)
	}
	return nil
}

func fuzzQuadFloat64(r *rando) error {
	q := r.Quad()
	want, _ := q.BigFloat().Float64()
	if got := q.Float64(); got != want {
		return fmt.Errorf("quad(%g) != big(%g)", got, want)
	}
	return nil
}

func fuzzQuadText(r *rando) error {
	q := r.Quad()
	for _, base := range []int{2, 16} {
		s, err := q.Text(base)
		if err != nil {
			return err
		}
		back, err := QuadFromString(s, base)
		if err != nil {
			return err
		}
		// Base 2 carries every bit. A base 16 leading digit may hold as
		// few as one bit, so the last three can be rounded away.
		bits := 127
		if base == 16 {
			bits = 124
		}
		if err := checkNear(back, q.BigFloat(), bits); err != nil {
			return fmt.Errorf("base %d %q: %v", base, s, err)
		}
	}
	return nil
}

func fuzzU128MulHi(r *rando) error {
	u1, u2 := r.U128(), r.U128()
	hi, guard := u1.MulHi(u2)

	exact := new(big.Int).Mul(u1.AsBigInt(), u2.AsBigInt())
	exact.Rsh(exact, 64)
	got := new(big.Int).Lsh(hi.AsBigInt(), 64)
	got.Or(got, bigU64(guard))

	if exact.Cmp(got) != 0 {
		return fmt.Errorf("mulhi(%s:%d) != big(%s)", hi, guard, exact)
	}
	return nil
}

func fuzzU128QuoRem64(r *rando) error {
	u := r.U128()
	v := r.rng.Uint64()
	if v == 0 {
		v = 1
	}
	r.operands = append(r.operands, u64(v))

	q, rem := u.QuoRem64(v)
	bq, brem := new(big.Int).QuoRem(u.AsBigInt(), bigU64(v), new(big.Int))
	if err := checkEqualU128(q, bq); err != nil {
		return err
	}
	return checkEqualU128(u64(rem), brem)
}
