package quad

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrSyntax indicates that a numeral is not well formed.
	ErrSyntax = errors.New("invalid syntax")

	// ErrBase indicates a radix outside the supported range.
	ErrBase = errors.New("base out of range")

	// ErrUnnormalized indicates a raw mantissa whose top bit is clear.
	ErrUnnormalized = errors.New("mantissa not normalized")
)

// NumError records a failed conversion. Malformed input is reported through
// NumError; invalid arithmetic is reported in-band as NaN.
type NumError struct {
	Func  string // the failing function (QuadFromString, Text, ...)
	Input string // the input
	Base  int
	Err   error // the reason the conversion failed (ErrSyntax, ErrBase, ...)
}

func (e *NumError) Error() string {
	return "quad: " + e.Func + ": " + strconv.Quote(e.Input) +
		" (base " + strconv.Itoa(e.Base) + "): " + e.Err.Error()
}

func (e *NumError) Unwrap() error { return e.Err }

// ConvergenceError is raised as a panic when an iterative evaluation fails to
// settle within its iteration cap. It always indicates a defect in a
// termination test, never a property of the input.
type ConvergenceError struct {
	Func       string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("quad: %s did not converge after %d iterations", e.Func, e.Iterations)
}
