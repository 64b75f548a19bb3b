// Package config parses the quad command line. Every flag can also be set
// from a QUAD_-prefixed environment variable; an explicit flag always wins.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "QUAD_"

const (
	MinBase = 2

	// Numerals are read in radix 2 to 16 and written in radix 2 to 26.
	MaxInBase  = 16
	MaxOutBase = 26

	// MaxBits is the width of the Quad mantissa.
	MaxBits = 128
)

// Config holds the evaluator settings.
type Config struct {
	InBase   int
	OutBase  int
	Func     string
	Bits     int // 0 keeps every significant bit
	Dump     bool
	Parallel bool
	LogLevel string
	Args     []string
}

// Default returns the settings used when nothing is given.
func Default() Config {
	return Config{
		InBase:   10,
		OutBase:  10,
		Func:     "id",
		LogLevel: "warn",
	}
}

// ConfigError reports an unusable flag or environment value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// Parse reads flags from args (without the program name) and then applies
// environment overrides for any flag that was not set explicitly. Usage and
// flag errors are written to errOut. flag.ErrHelp is returned unchanged when
// -h is given.
func Parse(name string, args []string, errOut io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "usage: %s [flags] number...\n", name)
		fs.PrintDefaults()
	}

	var verbose bool
	fs.IntVar(&cfg.InBase, "in", cfg.InBase, "radix of the input numerals (2-16)")
	fs.IntVar(&cfg.OutBase, "out", cfg.OutBase, "radix of the printed results (2-26)")
	fs.StringVar(&cfg.Func, "f", cfg.Func, "function to apply to each input")
	fs.IntVar(&cfg.Bits, "bits", cfg.Bits, "trim results to this many significant bits (0 keeps all)")
	fs.BoolVar(&cfg.Dump, "dump", cfg.Dump, "print the raw fields of each result")
	fs.BoolVar(&cfg.Parallel, "parallel", cfg.Parallel, "evaluate inputs concurrently")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error, disabled)")
	fs.BoolVar(&verbose, "v", false, "shorthand for -log debug")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	cfg.Args = fs.Args()

	if err := applyEnvOverrides(&cfg, fs); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges. The function name is checked by the evaluator,
// which owns the function table.
func (c Config) Validate() error {
	if c.InBase < MinBase || c.InBase > MaxInBase {
		return NewConfigError("input base %d out of range [%d, %d]", c.InBase, MinBase, MaxInBase)
	}
	if c.OutBase < MinBase || c.OutBase > MaxOutBase {
		return NewConfigError("output base %d out of range [%d, %d]", c.OutBase, MinBase, MaxOutBase)
	}
	if c.Bits < 0 || c.Bits > MaxBits {
		return NewConfigError("bits %d out of range [0, %d]", c.Bits, MaxBits)
	}
	if c.Func == "" {
		return NewConfigError("function name is empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel to a zerolog level.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, NewConfigError("unknown log level %q", c.LogLevel)
	}
	return lvl, nil
}

type envOverride struct {
	envKey string
	flags  []string
	apply  func(*Config, string) error
}

var envOverrides = []envOverride{
	{"IN", []string{"in"}, func(c *Config, v string) error {
		return parseIntEnv("IN", v, &c.InBase)
	}},
	{"OUT", []string{"out"}, func(c *Config, v string) error {
		return parseIntEnv("OUT", v, &c.OutBase)
	}},
	{"BITS", []string{"bits"}, func(c *Config, v string) error {
		return parseIntEnv("BITS", v, &c.Bits)
	}},
	{"FUNC", []string{"f"}, func(c *Config, v string) error {
		c.Func = v
		return nil
	}},
	{"LOG_LEVEL", []string{"log", "v"}, func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"DUMP", []string{"dump"}, func(c *Config, v string) error {
		return parseBoolEnv("DUMP", v, &c.Dump)
	}},
	{"PARALLEL", []string{"parallel"}, func(c *Config, v string) error {
		return parseBoolEnv("PARALLEL", v, &c.Parallel)
	}},
}

// applyEnvOverrides gives flags priority over the environment, and the
// environment priority over defaults.
func applyEnvOverrides(cfg *Config, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			if err := o.apply(cfg, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseIntEnv(key, val string, into *int) error {
	n, err := strconv.Atoi(val)
	if err != nil {
		return NewConfigError("%s%s: %q is not an integer", EnvPrefix, key, val)
	}
	*into = n
	return nil
}

func parseBoolEnv(key, val string, into *bool) error {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		*into = true
	case "false", "0", "no":
		*into = false
	default:
		return NewConfigError("%s%s: %q is not a boolean", EnvPrefix, key, val)
	}
	return nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}
