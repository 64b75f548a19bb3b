package quad

// These constants were chosen empirically and checked against the constant,
// round-trip and inverse-function tests. None of them is derived.
const (
	// Upper bound on terms summed by any series before it is declared
	// runaway.
	maxSeriesTerms = 1000

	// Upper bound on Newton steps; convergence from a float64 seed takes
	// three or four.
	maxNewtonSteps = 32

	// Successive Newton iterates closer than this many units in the last
	// place are considered converged.
	newtonULP = 5

	// A series term whose exponent is more than this many bits below the
	// running sum no longer affects it.
	seriesCutoff = mantBits

	// Bits that remain reliable after each evaluation.
	sqrtBits  = 126
	cbrtBits  = 124
	expBits   = 122
	logBits   = 121
	trigBits  = 120
	atanBits  = 120
	hyperBits = 119
	powBits   = 119
	gammaBits = 94

	// Integer exponents up to this size are handled by Powi rather than
	// by Exp and Log.
	maxPowi = 1 << 20

	// Arguments to the trigonometric functions with an exponent above this
	// have no fractional bits left to reduce against pi.
	trigMaxExp = 120

	// Largest n for which n! and n!! are finite.
	factorialMax       = 3209
	doubleFactorialMax = 5909
)
