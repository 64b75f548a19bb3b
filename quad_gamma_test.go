package quad

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/shabbyrobe/golib/assert"
	"golang.org/x/sync/errgroup"
)

func bigFactorial(n, step int) *big.Float {
	acc := big.NewInt(1)
	for i := n; i > 1; i -= step {
		acc.Mul(acc, big.NewInt(int64(i)))
	}
	return newBig().SetInt(acc)
}

func TestFactorial(t *testing.T) {
	tt := assert.WrapTB(t)

	for n := 0; n <= factorialMax; n++ {
		f := Factorial(n)
		tt.MustAssert(f.IsFinite(), "%d!", n)
		if n <= 34 {
			// still fits the mantissa
			tt.MustAssert(f.BigFloat().Cmp(bigFactorial(n, 1)) == 0, "%d! = %s", n, f)
			tt.MustEqual(mantBits, f.SignificantBits(), "%d!", n)
		} else if n%37 == 0 || n == factorialMax {
			mustNear(tt, bigFactorial(n, 1), f, f.SignificantBits(), "%d!", n)
		}
	}

	tt.MustAssert(Factorial(-1).IsNaN())
	tt.MustAssert(Factorial(factorialMax + 1).IsNaN())
}

func TestDoubleFactorial(t *testing.T) {
	tt := assert.WrapTB(t)

	for n := 0; n <= doubleFactorialMax; n++ {
		f := DoubleFactorial(n)
		tt.MustAssert(f.IsFinite(), "%d!!", n)
		if n <= 40 {
			tt.MustAssert(f.BigFloat().Cmp(bigFactorial(n, 2)) == 0, "%d!! = %s", n, f)
		} else if n%41 == 0 || n >= doubleFactorialMax-1 {
			mustNear(tt, bigFactorial(n, 2), f, f.SignificantBits(), "%d!!", n)
		}
	}

	mustQuadEqual(tt, one, DoubleFactorial(-1), "(-1)!!")
	mustQuadEqual(tt, one, DoubleFactorial(0), "0!!")
	mustQuadEqual(tt, QuadFromInt(15), DoubleFactorial(5), "5!!")
	mustQuadEqual(tt, QuadFromInt(48), DoubleFactorial(6), "6!!")
	tt.MustAssert(DoubleFactorial(-2).IsNaN())
	tt.MustAssert(DoubleFactorial(doubleFactorialMax + 1).IsNaN())
}

func TestFactorialTableLimit(t *testing.T) {
	tt := assert.WrapTB(t)

	small := NewFactorialTable(10)
	tt.MustEqual(10, small.Limit())
	mustQuadEqual(tt, QuadFromInt(3628800), small.Factorial(10), "10!")
	tt.MustAssert(small.Factorial(11).IsNaN())
	tt.MustAssert(small.DoubleFactorial(11).IsNaN())
	tt.MustAssert(small.Gamma(QuadFromInt(12)).IsNaN())

	// Non-integers do not need the table.
	tt.MustAssert(small.Gamma(q10("20.25")).IsFinite())

	capped := NewFactorialTable(1 << 20)
	tt.MustEqual(factorialMax, capped.Limit())
	tt.MustAssert(capped.DoubleFactorial(doubleFactorialMax).IsFinite())
	tt.MustAssert(capped.DoubleFactorial(doubleFactorialMax + 1).IsNaN())

	tt.MustAssert(DefaultFactorialTable() == DefaultFactorialTable())
	tt.MustEqual(factorialMax, DefaultFactorialTable().Limit())
}

func TestFactorialTableConcurrent(t *testing.T) {
	tt := assert.WrapTB(t)

	table := NewFactorialTable(doubleFactorialMax)
	var g errgroup.Group
	for w := 0; w < 16; w++ {
		seed := int64(globalRNG.Intn(1 << 30))
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				n := int((seed + int64(i)*7919) % (factorialMax + 1))
				if got, want := table.Factorial(n), Factorial(n); !got.Equal(want) {
					return fmt.Errorf("%d!: got %s, want %s", n, got, want)
				}
				m := int((seed + int64(i)*104729) % (doubleFactorialMax + 1))
				if got, want := table.DoubleFactorial(m), DoubleFactorial(m); !got.Equal(want) {
					return fmt.Errorf("%d!!: got %s, want %s", m, got, want)
				}
			}
			return nil
		})
	}
	tt.MustOK(g.Wait())
}

func TestGammaIntegers(t *testing.T) {
	tt := assert.WrapTB(t)

	for n := 0; n <= factorialMax; n += 13 {
		mustQuadEqual(tt, Factorial(n), Gamma(QuadFromInt(n+1)), "Gamma(%d)", n+1)
	}
	mustQuadEqual(tt, Factorial(factorialMax), Gamma(QuadFromInt(factorialMax+1)), "Gamma(max)")
	mustQuadEqual(tt, QuadFromInt(24), Gamma(QuadFromInt(5)), "Gamma(5)")
	mustQuadEqual(tt, one, Gamma(one), "Gamma(1)")
}

func TestGammaHalfIntegers(t *testing.T) {
	tt := assert.WrapTB(t)

	mustQuadEqual(tt, sqrtPi, Gamma(half), "Gamma(1/2)")
	mustQuadEqual(tt, sqrtPi.Mul2Exp(-1), Gamma(q10("1.5")), "Gamma(3/2)")

	sp := bigFloatOf("1.77245385090551602729816748334114518279754945612238712821380779")
	for n := 0; n < 2950; n += 59 {
		// Gamma(n + 1/2) = (2n-1)!! sqrt(pi) / 2^n
		x := QuadFromInt(n).Add(half)
		want := newBig().Mul(bigFactorial(2*n-1, 2), sp)
		want.SetMantExp(want, -n)
		mustNear(tt, want, Gamma(x), 110, "Gamma(%d.5)", n)
	}
}

func TestGammaReferences(t *testing.T) {
	for _, tc := range []struct {
		in  Quad
		out string
	}{
		{q10("0.25"), "3.6256099082219083119306851558676720029952e+0"},
		{q10("0.75"), "1.2254167024651776451290983033628905268512e+0"},
		{q10("1.25"), "9.0640247705547707798267128896691800074879e-1"},
		{q10("3.7"), "4.1706517837966031653936029986179837279404e+0"},
		{q10("10.1"), "4.5476075144158595086733583683190761904050e+5"},
		{q10("25.125"), "9.2574938173973094116900030170518615082448e+23"},
		{q10("-0.5"), "-3.5449077018110320545963349666822903655951e+0"},
		{q10("-2.25"), "-1.7428148657282526508502731425605554159662e+0"},
		{q10("-0.0625"), "-1.6642832178988274743356205077790738057819e+1"},
		{q10("170.625"), "1.0569741043227900203100701603721098061161e+306"},
	} {
		t.Run(tc.in.String(), func(t *testing.T) {
			tt := assert.WrapTB(t)
			mustNear(tt, bigFloatOf(tc.out), Gamma(tc.in), 90, "Gamma(%s)", tc.in)
		})
	}
}

func TestGammaSpecials(t *testing.T) {
	tt := assert.WrapTB(t)

	for _, x := range []Quad{
		NaN(), Inf(-1), Zero(), QuadFromInt(-1), QuadFromInt(-100),
		QuadFromInt(factorialMax + 2), QuadFromInt(1).Mul2Exp(200),
	} {
		tt.MustAssert(Gamma(x).IsNaN(), "Gamma(%s)", x)
	}
	tt.MustAssert(Gamma(Inf(1)).IsInf(1))
	tt.MustAssert(Gamma(q10("5000.25")).IsInf(1))
	tt.MustAssert(Gamma(q10("0.5")).SignificantBits() == mantBits)
	tt.MustAssert(Gamma(q10("0.3")).SignificantBits() <= gammaBits)
}

func TestGammaReflection(t *testing.T) {
	tt := assert.WrapTB(t)

	for i := 0; i < 200; i++ {
		x := QuadFromFloat64(0.01 + 0.98*globalRNG.Float64())
		lhs := Gamma(x).Mul(Gamma(one.Sub(x)))
		rhs := Pi.Quo(Sin(Pi.Mul(x)))
		mustNear(tt, rhs.BigFloat(), lhs, 85, "reflection at %s", x)
	}
}

func TestGammaRecurrence(t *testing.T) {
	tt := assert.WrapTB(t)

	for i := 0; i < 200; i++ {
		x := QuadFromFloat64(0.6 + 60*globalRNG.Float64())
		mustNear(tt, x.Mul(Gamma(x)).BigFloat(), Gamma(x.Add(one)), 88, "Gamma(%s+1)", x)
	}
}

func TestGammaAgainstFloat64(t *testing.T) {
	tt := assert.WrapTB(t)

	for i := 0; i < 500; i++ {
		x := -20 + 40*globalRNG.Float64()
		got := Gamma(QuadFromFloat64(x)).Float64()
		mustFloatRel(tt, 1e-11, 0, math.Gamma(x), got, "Gamma(%v)", x)

		lg, sign := LogGamma(QuadFromFloat64(x))
		wantLg, wantSign := math.Lgamma(x)
		tt.MustEqual(wantSign, sign, "sign at %v", x)
		mustFloatRel(tt, 1e-10, 1e-2, wantLg, lg.Float64(), "LogGamma(%v)", x)
	}
}

func TestLogGammaReferences(t *testing.T) {
	for _, tc := range []struct {
		in   Quad
		out  string
		sign int
	}{
		{q10("0.25"), "1.2880225246980774573706104402197172959254e+0", 1},
		{q10("3.7"), "1.4280723266653879218723811250475503345069e+0", 1},
		{q10("100.5"), "3.6143554046777762155525191270252076285878e+2", 1},
		{q10("1000.25"), "5.9069472682711171769964872469640701758508e+3", 1},
		{q10("-2.25"), "5.5550154502064747059357589354025005939209e-1", -1},
		{q10("-0.5"), "1.2655121234846453964889457971347059238991e+0", -1},
		{q10("-3.75"), "-1.3172679424463636738500787165944182377500e+0", 1},
	} {
		t.Run(tc.in.String(), func(t *testing.T) {
			tt := assert.WrapTB(t)
			lg, sign := LogGamma(tc.in)
			tt.MustEqual(tc.sign, sign)
			mustNear(tt, bigFloatOf(tc.out), lg, 90, "LogGamma(%s)", tc.in)
		})
	}
}

func TestLogGammaSpecials(t *testing.T) {
	tt := assert.WrapTB(t)

	for _, x := range []Quad{Zero(), QuadFromInt(-3), Inf(1), Inf(-1)} {
		lg, sign := LogGamma(x)
		tt.MustAssert(lg.IsInf(1), "LogGamma(%s) = %s", x, lg)
		tt.MustEqual(1, sign)
	}

	lg, sign := LogGamma(NaN())
	tt.MustAssert(lg.IsNaN())
	tt.MustEqual(0, sign)

	lg, sign = LogGamma(one)
	tt.MustAssert(lg.IsZero())
	tt.MustEqual(1, sign)

	lg, _ = LogGamma(QuadFromInt(2))
	tt.MustAssert(lg.IsZero())

	lg, _ = LogGamma(QuadFromInt(5))
	mustNear(tt, Log(QuadFromInt(24)).BigFloat(), lg, 120, "LogGamma(5)")

	// Beyond the table LogGamma keeps going where Gamma overflows.
	lg, sign = LogGamma(QuadFromInt(100000))
	tt.MustEqual(1, sign)
	tt.MustAssert(lg.IsFinite() && lg.GreaterThan(QuadFromInt(1000000)))
}

func TestLogGammaMatchesGamma(t *testing.T) {
	tt := assert.WrapTB(t)

	for i := 0; i < 200; i++ {
		x := QuadFromFloat64(-30 + 80*globalRNG.Float64())
		g := Gamma(x)
		lg, sign := LogGamma(x)
		tt.MustEqual(g.Sign(), sign, "sign at %s", x)
		mustNearAbs(tt, Log(g.Abs()).BigFloat(), lg, 80, "LogGamma(%s)", x)
	}
}
