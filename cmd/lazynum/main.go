// Command lazynum renders binary64 values through the shortest-digits
// pipeline and exposes the exact integer arithmetic behind it.
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/lattice-substrate/lazynum/bigint"
	"github.com/lattice-substrate/lazynum/digits"
	"github.com/lattice-substrate/lazynum/ieee"
	"github.com/lattice-substrate/lazynum/numfmt"
	"github.com/lattice-substrate/lazynum/rtconfig"
	"github.com/lattice-substrate/lazynum/rterr"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

const (
	// maxInputSize bounds what show reads from stdin.
	maxInputSize = 1 << 20
	// maxPowExponent keeps pow within schoolbook multiplication reach.
	maxPowExponent = 1 << 16
)

const usage = "usage: lazynum <show|digits|decompose|pow|repl> [options] [args]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "show":
		return cmdShow(args[1:], stdin, stdout, stderr)
	case "digits":
		return cmdDigits(args[1:], stdout, stderr)
	case "decompose":
		return cmdDecompose(args[1:], stdout, stderr)
	case "pow":
		return cmdPow(args[1:], stdout, stderr)
	case "repl":
		return cmdRepl(args[1:], stdout, stderr)
	case "--help", "-h", "help":
		if err := writeHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type flags struct {
	help      bool
	config    string
	style     *string
	precision *int
	radix     *int

	// seen lists the options given, in order, without values.
	seen []string
}

// only rejects options that the command does not use.
func (f flags) only(cmd string, allowed ...string) error {
	for _, name := range f.seen {
		if !slices.Contains(allowed, name) {
			return rterr.Newf(rterr.CLIUsage, -1, "option %s does not apply to %s", name, cmd)
		}
	}
	return nil
}

// parseFlags separates options from positional arguments. Arguments that
// parse as numbers are positional even when they start with '-'.
func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional || !strings.HasPrefix(arg, "-") || arg == "-" || isNumber(arg) {
			positional = append(positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("option %s needs a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
			continue
		case "--config":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			f.config = v
		case "--style":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			f.style = &v
		case "--precision", "--radix":
			v, err := takeValue()
			if err != nil {
				return flags{}, nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return flags{}, nil, fmt.Errorf("option %s: %q is not an integer", name, v)
			}
			if name == "--precision" {
				f.precision = &n
			} else {
				f.radix = &n
			}
		default:
			return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
		}
		if name != "--help" && name != "-h" {
			f.seen = append(f.seen, name)
		}
	}
	return f, positional, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides on top.
func loadConfig(f flags) (rtconfig.Config, error) {
	cfg, err := rtconfig.Load(f.config)
	if err != nil {
		return rtconfig.Config{}, err
	}
	if f.style != nil {
		cfg.Style = *f.style
	}
	if f.precision != nil {
		cfg.Precision = *f.precision
	}
	if f.radix != nil {
		cfg.Radix = *f.radix
	}
	if err := cfg.Validate(); err != nil {
		return rtconfig.Config{}, err
	}
	return cfg, nil
}

func parseFloat(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// Overflow saturates to infinity, underflow to zero; both are
			// still valid doubles to render.
			return x, nil
		}
		return 0, rterr.Newf(rterr.InvalidArgument, -1, "%q is not a number", s)
	}
	return x, nil
}

func cmdShow(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}
	if fl.help {
		if err := writeShowHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	cfg, err := loadConfig(fl)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if len(positional) == 0 || (len(positional) == 1 && positional[0] == "-") {
		input, err := readBounded(stdin, maxInputSize)
		if err != nil {
			return writeErrorAndReturn(stderr, exitInvalid, "error: reading input: %v\n", err)
		}
		positional = strings.Fields(string(input))
	}

	opts := cfg.Options()
	for _, arg := range positional {
		x, err := parseFloat(arg)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		s, err := formatValue(x, cfg.Radix, opts)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		if err := writeLine(stdout, s); err != nil {
			return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
		}
	}
	return exitSuccess
}

// formatValue runs the pipeline, turning an invariant panic into an error.
func formatValue(x float64, radix int, opts numfmt.Options) (s string, err error) {
	defer rterr.Recover(&err)
	return numfmt.FormatDecomposed(ieee.Decompose(x), radix, opts)
}

func cmdDigits(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}
	if fl.help {
		if err := writeLine(stderr, "usage: lazynum digits [--radix n] [--config file] <float>..."); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if err := fl.only("digits", "--radix", "--config"); err != nil {
		return writeClassifiedError(stderr, err)
	}
	if len(positional) == 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: no values given\n")
	}
	cfg, err := rtconfig.Load(fl.config)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	radix := cfg.Radix
	if fl.radix != nil {
		radix = *fl.radix
	}

	for _, arg := range positional {
		x, err := parseFloat(arg)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		ds, err := digits.Generate(ieee.Decompose(x), radix)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		if err := writef(stdout, "%s e%d\n", ds.Text(), ds.Exponent); err != nil {
			return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
		}
	}
	return exitSuccess
}

func cmdDecompose(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}
	if fl.help {
		if err := writeLine(stderr, "usage: lazynum decompose <float>..."); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if err := fl.only("decompose"); err != nil {
		return writeClassifiedError(stderr, err)
	}
	if len(positional) == 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: no values given\n")
	}

	for _, arg := range positional {
		x, err := parseFloat(arg)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		d := ieee.Decompose(x)
		w := ieee.DecodeDouble(x)
		if err := writef(stdout, "sign=%d mantissa=%s exponent=%d high=%d low=%d\n",
			d.Sign, d.Mantissa, d.Exponent, w.ManHigh, w.ManLow); err != nil {
			return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
		}
	}
	return exitSuccess
}

func cmdPow(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}
	if fl.help {
		if err := writeLine(stderr, "usage: lazynum pow <base> <exponent>"); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if err := fl.only("pow"); err != nil {
		return writeClassifiedError(stderr, err)
	}
	if len(positional) != 2 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: pow takes a base and an exponent\n")
	}

	base, err := bigint.Parse(positional[0], 10)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	exp, err := strconv.Atoi(positional[1])
	if err != nil || exp > maxPowExponent || exp < math.MinInt32 {
		return writeClassifiedError(stderr, rterr.Newf(rterr.InvalidArgument, 1, "exponent %q is not an integer <= %d", positional[1], maxPowExponent))
	}

	p, err := power(base, exp)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if err := writeLine(stdout, p.String()); err != nil {
		return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
	}
	return exitSuccess
}

func power(base *bigint.Int, exp int) (p *bigint.Int, err error) {
	defer rterr.Recover(&err)
	return bigint.Pow(base, exp), nil
}

func readBounded(r io.Reader, maxSize int) ([]byte, error) {
	lr := io.LimitReader(r, int64(maxSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("input exceeds maximum size %d bytes", maxSize)
	}
	return data, nil
}

// classify maps err to its failure class; configuration errors carry the
// rtconfig error class instead of a runtime one.
func classify(err error) rterr.FailureClass {
	if rtconfig.Error.Has(err) {
		return rterr.Config
	}
	return rterr.ClassOf(err)
}

func writeClassifiedError(stderr io.Writer, err error) int {
	class := classify(err)
	return writeErrorAndReturn(stderr, class.ExitCode(), "error: %s: %v\n", class, err)
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
}

func writeHelp(stderr io.Writer) error {
	for _, line := range []string{
		usage,
		"  show       render values (--style, --precision, --radix, --config)",
		"  digits     print the shortest digit sequence and exponent (--radix, --config)",
		"  decompose  print sign, mantissa and exponent",
		"  pow        exact integer power",
		"  repl       interactive show loop",
	} {
		if err := writeLine(stderr, line); err != nil {
			return err
		}
	}
	return nil
}

func writeShowHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: lazynum show [--style s] [--precision n] [--radix n] [--config file] [float...|-]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Render each value; with no values, read whitespace-separated values from stdin."); err != nil {
		return err
	}
	return writeLine(stderr, "  --style  general, fixed, scientific or ecma")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
