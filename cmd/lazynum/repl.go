package main

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/lattice-substrate/lazynum/rtconfig"
)

const (
	replPrompt = "lazynum> "
	replHelp   = `Enter values to show them with the current settings, or a command:
  show|digits|decompose|pow ...   run a lazynum command
  :style <name>                   set the style
  :precision <n>                  set the precision (-1 for shortest)
  :radix <n>                      set the radix
  :settings                       print the current settings
  :help                           this text
  :quit                           leave`
)

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func cmdRepl(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}
	if fl.help {
		if err := writeLine(stderr, "usage: lazynum repl [--style s] [--precision n] [--radix n] [--config file]"); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if len(positional) > 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: repl takes no arguments\n")
	}
	cfg, err := loadConfig(fl)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	s := &session{style: cfg.Style, precision: cfg.Precision, radix: cfg.Radix, stdout: stdout, stderr: stderr}
	code := s.loop(ln)

	if cfg.History != "" {
		if f, err := os.Create(cfg.History); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return code
}

// session holds the settings a REPL user can change between lines.
type session struct {
	style     string
	precision int
	radix     int
	stdout    io.Writer
	stderr    io.Writer
}

func (s *session) loop(in lineReader) int {
	for {
		line, err := in.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			return exitSuccess
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return writeErrorAndReturn(s.stderr, exitInternal, "error: reading input: %v\n", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)
		if quit := s.eval(line); quit {
			return exitSuccess
		}
	}
}

// eval runs one line and reports whether the session should end. Failures
// are printed and the session continues.
func (s *session) eval(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit":
		return true
	case ":help":
		_ = writeLine(s.stdout, replHelp)
	case ":settings":
		_ = writef(s.stdout, "style=%s precision=%d radix=%d\n", s.style, s.precision, s.radix)
	case ":style", ":precision", ":radix":
		s.set(fields)
	case "show", "digits", "decompose", "pow":
		run(fields, strings.NewReader(""), s.stdout, s.stderr)
	default:
		if strings.HasPrefix(fields[0], ":") {
			_ = writef(s.stderr, "unknown command %s, try :help\n", fields[0])
			return false
		}
		args := []string{"show", "--style", s.style, "--precision", strconv.Itoa(s.precision), "--radix", strconv.Itoa(s.radix), "--"}
		run(append(args, fields...), strings.NewReader(""), s.stdout, s.stderr)
	}
	return false
}

func (s *session) set(fields []string) {
	if len(fields) != 2 {
		_ = writef(s.stderr, "usage: %s <value>\n", fields[0])
		return
	}
	next := *s
	switch fields[0] {
	case ":style":
		next.style = fields[1]
	case ":precision", ":radix":
		fl, _, err := parseFlags([]string{"--" + strings.TrimPrefix(fields[0], ":"), fields[1]})
		if err != nil {
			_ = writef(s.stderr, "error: %v\n", err)
			return
		}
		if fl.precision != nil {
			next.precision = *fl.precision
		}
		if fl.radix != nil {
			next.radix = *fl.radix
		}
	}
	cfg := rtconfig.Config{Style: next.style, Precision: next.precision, Radix: next.radix}
	if err := cfg.Validate(); err != nil {
		writeClassifiedError(s.stderr, err)
		return
	}
	*s = next
}
