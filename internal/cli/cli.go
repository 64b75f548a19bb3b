// Package cli implements the quad command: it parses numerals, applies a
// function to them and prints the results in the requested radix.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	quad "github.com/shabbyrobe/go-quad"
	"github.com/shabbyrobe/go-quad/internal/config"
)

// Exit codes returned by Run.
const (
	ExitSuccess      = 0
	ExitErrorGeneric = 1
	ExitErrorConfig  = 2
	ExitErrorInput   = 3
)

// EvalError reports an input that could not be evaluated.
type EvalError struct {
	Index int // position of the input among the arguments
	Input string
	Cause error
}

func (e EvalError) Error() string {
	return fmt.Sprintf("input %d (%q): %v", e.Index+1, e.Input, e.Cause)
}

func (e EvalError) Unwrap() error { return e.Cause }

// ExitCode maps an error returned by Evaluate or config.Parse to a process
// exit status.
func ExitCode(err error) int {
	var cerr config.ConfigError
	var eerr EvalError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cerr):
		return ExitErrorConfig
	case errors.As(err, &eerr):
		return ExitErrorInput
	default:
		return ExitErrorGeneric
	}
}

// NewLogger returns the console logger used by the command.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Str("component", "quad").
		Logger()
}

// Result is one evaluated expression.
type Result struct {
	Inputs []string
	Value  quad.Quad
}

// Evaluate parses cfg.Args and applies cfg.Func to them, one result per
// input, or per pair of inputs for binary functions. Results keep the order
// of the inputs whether or not they are evaluated in parallel.
func Evaluate(ctx context.Context, cfg config.Config, log zerolog.Logger) ([]Result, error) {
	fn, ok := Lookup(cfg.Func)
	if !ok {
		return nil, config.NewConfigError("unknown function %q (want one of %s)", cfg.Func, strings.Join(Names(), ", "))
	}
	arity := fn.Arity()
	if len(cfg.Args) == 0 {
		return nil, config.NewConfigError("no inputs")
	}
	if len(cfg.Args)%arity != 0 {
		return nil, config.NewConfigError("%s takes inputs in pairs, got %d", fn.Name, len(cfg.Args))
	}

	results := make([]Result, len(cfg.Args)/arity)
	eval := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		inputs := cfg.Args[i*arity : (i+1)*arity]
		args := make([]quad.Quad, arity)
		for j, in := range inputs {
			x, err := quad.QuadFromString(in, cfg.InBase)
			if err != nil {
				return EvalError{Index: i*arity + j, Input: in, Cause: err}
			}
			args[j] = x
		}

		var v quad.Quad
		if arity == 2 {
			v = fn.Binary(args[0], args[1])
		} else {
			v = fn.Unary(args[0])
		}
		if cfg.Bits > 0 {
			v = v.WithSignificantBits(cfg.Bits)
		}
		results[i] = Result{Inputs: inputs, Value: v}

		log.Debug().
			Strs("input", inputs).
			Int("base", cfg.InBase).
			Str("func", fn.Name).
			Int("bits", v.SignificantBits()).
			Msg("evaluated")
		return nil
	}

	if !cfg.Parallel {
		for i := range results {
			if err := eval(ctx, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		i := i
		g.Go(func() error { return eval(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// rawFields is the shape printed by -dump.
type rawFields struct {
	Neg     bool
	Exp     int16
	Hi, Lo  uint64
	SigBits int
}

// Write prints each result on its own line in the given radix.
func Write(w io.Writer, results []Result, base int, dump bool) error {
	for _, r := range results {
		s, err := r.Value.Text(base)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
		if dump {
			neg, exp, mant := r.Value.Raw()
			hi, lo := mant.Raw()
			raw := rawFields{Neg: neg, Exp: exp, Hi: hi, Lo: lo, SigBits: r.Value.SignificantBits()}
			if _, err := io.WriteString(w, spew.Sdump(raw)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run executes the command with args (including the program name) and
// returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := "quad"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	cfg, err := config.Parse(name, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	} else if err != nil {
		// The flag package has already reported its own errors.
		var cerr config.ConfigError
		if errors.As(err, &cerr) {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
		}
		return ExitErrorConfig
	}

	level, _ := cfg.Level()
	log := NewLogger(stderr, level)

	results, err := Evaluate(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("evaluation failed")
		return ExitCode(err)
	}
	if err := Write(stdout, results, cfg.OutBase, cfg.Dump); err != nil {
		log.Error().Err(err).Msg("write failed")
		return ExitErrorGeneric
	}
	return ExitSuccess
}
