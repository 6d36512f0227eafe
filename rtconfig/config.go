// Package rtconfig loads the lazynum CLI configuration from YAML.
package rtconfig

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/lazynum/digits"
	"github.com/lattice-substrate/lazynum/numfmt"
)

// Error is the class of every error returned by this package.
var Error = errs.Class("rtconfig")

// maxPrecision bounds the requested fractional digits.
const maxPrecision = 1100

// historyFile is the default REPL history location, relative to $HOME.
const historyFile = ".lazynum_history"

// Config is the CLI configuration document.
type Config struct {
	Style     string `yaml:"style"`
	Precision int    `yaml:"precision"`
	Radix     int    `yaml:"radix"`
	History   string `yaml:"history"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Style:     numfmt.General.String(),
		Precision: numfmt.Shortest,
		Radix:     10,
		History:   defaultHistory(),
	}
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// Load reads and validates the configuration at path. Fields the document
// omits keep their defaults. An empty path yields Default().
//
//nolint:gosec // path is explicit operator input.
func Load(path string) (cfg Config, err error) {
	defer Error.WrapP(&err)

	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(data)
}

// Decode parses a single YAML document over the defaults and validates it.
func Decode(data []byte) (cfg Config, err error) {
	defer Error.WrapP(&err)

	cfg = Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errs.New("decode yaml: %v", err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return Config{}, errs.New("unexpected trailing yaml document")
		}
		return Config{}, errs.New("decode trailing yaml: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and combinations.
func (c Config) Validate() error {
	style, err := numfmt.ParseStyle(c.Style)
	if err != nil {
		return Error.New("style %q is not one of general, fixed, scientific, ecma", c.Style)
	}
	if c.Precision < numfmt.Shortest || c.Precision > maxPrecision {
		return Error.New("precision %d out of range [%d, %d]", c.Precision, numfmt.Shortest, maxPrecision)
	}
	if c.Radix < digits.MinRadix || c.Radix > digits.MaxRadix {
		return Error.New("radix %d out of range [%d, %d]", c.Radix, digits.MinRadix, digits.MaxRadix)
	}
	if style == numfmt.ECMA && c.Radix != 10 {
		return Error.New("ecma style needs radix 10, got %d", c.Radix)
	}
	return nil
}

// Options returns the formatter options the configuration selects.
func (c Config) Options() numfmt.Options {
	style, err := numfmt.ParseStyle(c.Style)
	if err != nil {
		style = numfmt.General
	}
	return numfmt.Options{Style: style, Precision: c.Precision}
}
