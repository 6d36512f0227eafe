package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/lazynum/rtconfig"
	"github.com/lattice-substrate/lazynum/rterr"
)

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestShowBoundaryValues(t *testing.T) {
	code, out, errOut := runWith(t, "", "show", "1", "0.1", "1e8", "NaN", "-0", "inf", "-inf")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "1.0\n0.1\n1.0e8\nNaN\n-0.0\nInfinity\n-Infinity\n", out)
}

func TestShowReadsStdin(t *testing.T) {
	code, out, errOut := runWith(t, "  2.5\n-1e-3 \n", "show", "-")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "2.5\n-1.0e-3\n", out)

	code, out, _ = runWith(t, "7", "show")
	require.Equal(t, exitSuccess, code)
	require.Equal(t, "7.0\n", out)
}

func TestShowOptions(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"show", "--style", "fixed", "1e8"}, "100000000.0\n"},
		{[]string{"show", "--style=scientific", "123.456"}, "1.23456e2\n"},
		{[]string{"show", "--style", "fixed", "--precision", "2", "3.14159"}, "3.14\n"},
		{[]string{"show", "--style", "ecma", "1e21", "100"}, "1e+21\n100\n"},
		{[]string{"show", "--radix", "16", "255.5"}, "ff.8\n"},
		{[]string{"show", "--", "-2"}, "-2.0\n"},
		{[]string{"show", "-2", "--style", "fixed"}, "-2.0\n"},
	}
	for _, tc := range cases {
		code, out, errOut := runWith(t, "", tc.args...)
		require.Equal(t, exitSuccess, code, "%v: %s", tc.args, errOut)
		require.Equal(t, tc.want, out, "%v", tc.args)
	}
}

func TestShowConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazynum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: fixed\nprecision: 1\n"), 0o600))

	code, out, errOut := runWith(t, "", "show", "--config", path, "2.25")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "2.2\n", out)

	// Flags override the file.
	code, out, errOut = runWith(t, "", "show", "--config", path, "--precision", "-1", "2.25")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "2.25\n", out)
}

func TestShowErrors(t *testing.T) {
	cases := []struct {
		args  []string
		code  int
		class string
	}{
		{[]string{"show", "abc"}, exitInvalid, "INVALID_ARGUMENT"},
		{[]string{"show", "--style", "hex", "1"}, exitInvalid, "CONFIG"},
		{[]string{"show", "--radix", "40", "1"}, exitInvalid, "CONFIG"},
		{[]string{"show", "--config", "/nonexistent/lazynum.yaml", "1"}, exitInvalid, "CONFIG"},
		{[]string{"show", "--nope"}, exitInvalid, "unknown option"},
		{[]string{"show", "--precision"}, exitInvalid, "needs a value"},
		{[]string{"show", "--precision", "x"}, exitInvalid, "not an integer"},
	}
	for _, tc := range cases {
		code, _, errOut := runWith(t, "", tc.args...)
		require.Equal(t, tc.code, code, "%v: %s", tc.args, errOut)
		require.Contains(t, errOut, tc.class, "%v", tc.args)
	}
}

func TestDigits(t *testing.T) {
	code, out, errOut := runWith(t, "", "digits", "1", "0.1", "123.456", "0")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "1 e1\n1 e0\n123456 e3\n0 e0\n", out)

	code, out, _ = runWith(t, "", "digits", "--radix", "2", "0.5")
	require.Equal(t, exitSuccess, code)
	require.Equal(t, "1 e0\n", out)

	code, _, errOut = runWith(t, "", "digits", "NaN")
	require.Equal(t, exitInvalid, code)
	require.Contains(t, errOut, "NOT_FINITE")

	code, _, errOut = runWith(t, "", "digits", "--radix", "1", "2")
	require.Equal(t, exitInvalid, code)
	require.Contains(t, errOut, "INVALID_RADIX")

	code, _, _ = runWith(t, "", "digits")
	require.Equal(t, exitInvalid, code)
}

func TestDigitsConfigRadix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazynum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("radix: 16\n"), 0o600))

	code, out, errOut := runWith(t, "", "digits", "--config", path, "255")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "ff e2\n", out)

	code, out, errOut = runWith(t, "", "digits", "--config", path, "--radix", "2", "0.5")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "1 e0\n", out)
}

func TestOptionsOutsideCommandRejected(t *testing.T) {
	cases := [][]string{
		{"digits", "--style", "fixed", "1"},
		{"digits", "--precision", "2", "1"},
		{"decompose", "--radix", "16", "1"},
		{"decompose", "--config", "lazynum.yaml", "1"},
		{"pow", "--style", "ecma", "2", "3"},
		{"pow", "--precision=1", "2", "3"},
	}
	for _, args := range cases {
		code, out, errOut := runWith(t, "", args...)
		require.Equal(t, exitInvalid, code, "%v: %s", args, errOut)
		require.Empty(t, out, "%v", args)
		require.Contains(t, errOut, "CLI_USAGE", "%v", args)
		require.Contains(t, errOut, "does not apply to "+args[0], "%v", args)
	}

	code, out, errOut := runWith(t, "", "pow", "--", "-2", "3")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "-8\n", out)
}

func TestDecompose(t *testing.T) {
	code, out, errOut := runWith(t, "", "decompose", "1", "NaN")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t,
		"sign=1 mantissa=4503599627370496 exponent=-52 high=1048576 low=0\n"+
			"sign=-1 mantissa=6755399441055744 exponent=972 high=1572864 low=0\n",
		out)
}

func TestPow(t *testing.T) {
	code, out, errOut := runWith(t, "", "pow", "2", "100")
	require.Equal(t, exitSuccess, code, errOut)
	require.Equal(t, "1267650600228229401496703205376\n", out)

	code, out, _ = runWith(t, "", "pow", "-3", "3")
	require.Equal(t, exitSuccess, code)
	require.Equal(t, "-27\n", out)

	code, _, errOut = runWith(t, "", "pow", "2", "-1")
	require.Equal(t, exitInternal, code)
	require.Contains(t, errOut, "NEGATIVE_EXPONENT")

	code, _, errOut = runWith(t, "", "pow", "2", "1000000")
	require.Equal(t, exitInvalid, code)
	require.Contains(t, errOut, "INVALID_ARGUMENT")

	code, _, _ = runWith(t, "", "pow", "2")
	require.Equal(t, exitInvalid, code)
}

func TestUsage(t *testing.T) {
	code, _, errOut := runWith(t, "")
	require.Equal(t, exitInvalid, code)
	require.Contains(t, errOut, "usage:")

	code, _, errOut = runWith(t, "", "bogus")
	require.Equal(t, exitInvalid, code)
	require.Contains(t, errOut, "unknown command")

	for _, cmd := range []string{"show", "digits", "decompose", "pow", "repl"} {
		code, _, errOut = runWith(t, "", cmd, "--help")
		require.Equal(t, exitSuccess, code, cmd)
		require.Contains(t, errOut, "usage: lazynum "+cmd)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFailureIsInternal(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"show", "1"}, strings.NewReader(""), failingWriter{}, &stderr)
	require.Equal(t, exitInternal, code)
	require.Contains(t, stderr.String(), "writing output")
}

func TestWriteClassifiedErrorWrapped(t *testing.T) {
	inner := rterr.New(rterr.DigitInvariant, 3, "bad digit")
	err := fmt.Errorf("outer: %w", inner)
	var stderr bytes.Buffer
	code := writeClassifiedError(&stderr, err)
	require.Equal(t, rterr.DigitInvariant.ExitCode(), code)
	require.Contains(t, stderr.String(), "DIGIT_INVARIANT")
}

func TestWriteClassifiedErrorFallback(t *testing.T) {
	var stderr bytes.Buffer
	code := writeClassifiedError(&stderr, fmt.Errorf("unclassified failure"))
	require.Equal(t, rterr.InternalError.ExitCode(), code)

	stderr.Reset()
	code = writeClassifiedError(&stderr, rtconfig.Error.New("bad"))
	require.Equal(t, rterr.Config.ExitCode(), code)
	require.Contains(t, stderr.String(), "CONFIG")
}

type scriptedLines struct {
	lines   []string
	history []string
}

func (s *scriptedLines) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedLines) AppendHistory(item string) { s.history = append(s.history, item) }

func TestReplSession(t *testing.T) {
	var stdout, stderr bytes.Buffer
	in := &scriptedLines{lines: []string{
		"0.1",
		"",
		":style fixed",
		":precision 2",
		"3.14159 -1",
		":settings",
		":radix 40",
		":style ecma",
		"1e21",
		"digits 0.5",
		"pow 2 -1",
		"oops",
		":what",
		":quit",
		"never read",
	}}
	s := &session{style: "general", precision: -1, radix: 10, stdout: &stdout, stderr: &stderr}
	require.Equal(t, exitSuccess, s.loop(in))

	require.Equal(t,
		"0.1\n"+
			"3.14\n-1.00\n"+
			"style=fixed precision=2 radix=10\n"+
			"1e+21\n"+
			"5 e0\n",
		stdout.String())
	require.Contains(t, stderr.String(), "radix 40")
	require.Contains(t, stderr.String(), "NEGATIVE_EXPONENT")
	require.Contains(t, stderr.String(), "INVALID_ARGUMENT")
	require.Contains(t, stderr.String(), "unknown command :what")
	require.Equal(t, []string{"never read"}, in.lines)
	require.NotContains(t, in.history, "")
	require.Len(t, in.history, 13)
}
