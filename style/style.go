// Package style holds the options that select code emission idioms: how values
// are scanned and printed, how loops are written and how code is indented.
//
// Each emission option is a discriminated value, either a builtin token or a
// caller-supplied hook, and a [Config] is validated before any code is emitted.
package style

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOption is wrapped by every [OptionError].
var ErrUnsupportedOption = errors.New("unsupported style option")

// OptionError reports an option value that is neither a known builtin token nor
// a hook, or a hook that failed to render a statement.
type OptionError struct {
	Option string // scanner, printer or rep_macro
	Value  string
	Reason string
	Err    error // hook failure, if any
}

func (e *OptionError) Error() string {
	msg := fmt.Sprintf("%s: %s=%q", ErrUnsupportedOption, e.Option, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OptionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnsupportedOption}
	}
	return []error{ErrUnsupportedOption, e.Err}
}

// Builtin scanner and printer tokens.
const (
	Scanf   = "scanf"
	Cin     = "cin"
	StdCin  = "std::cin"
	Printf  = "printf"
	Cout    = "cout"
	StdCout = "std::cout"
)

// DefaultIndent is the indentation unit of the default style.
const DefaultIndent = "    "

// ReadHook renders a statement reading one value into the indexed path.
type ReadHook func(path string) (string, error)

// WriteHook renders a statement writing the named value.
type WriteHook func(name string) (string, error)

// LoopHook renders a loop header for variable counting from 0 up to size.
type LoopHook func(variable, size string) (string, error)

// Scanner selects how values are read. The zero value is scanf.
type Scanner struct {
	Builtin string
	Hook    ReadHook
}

// Printer selects how values are written. The zero value is printf.
type Printer struct {
	Builtin string
	Hook    WriteHook
}

// RepMacro selects the loop header form. The zero value is an explicit counted loop.
type RepMacro struct {
	Macro string
	Hook  LoopHook
}

// ScannerKind classifies a Scanner value.
type ScannerKind int

const (
	ScanInvalid ScannerKind = iota
	// ScanFormatted reads with scanf("%d", &x);
	ScanFormatted
	// ScanStream reads with cin >> x;
	ScanStream
	ScanHook
)

// Kind returns the emission strategy of s, ScanInvalid if s is not supported.
func (s Scanner) Kind() ScannerKind {
	if s.Hook != nil {
		if s.Builtin != "" {
			return ScanInvalid
		}
		return ScanHook
	}
	switch s.Builtin {
	case "", Scanf:
		return ScanFormatted
	case Cin, StdCin:
		return ScanStream
	}
	return ScanInvalid
}

// PrinterKind classifies a Printer value.
type PrinterKind int

const (
	PrintInvalid PrinterKind = iota
	// PrintFormatted writes with printf("%d\n", x);
	PrintFormatted
	// PrintStream writes with cout << x << endl;
	PrintStream
	PrintHook
)

// Kind returns the emission strategy of p, PrintInvalid if p is not supported.
func (p Printer) Kind() PrinterKind {
	if p.Hook != nil {
		if p.Builtin != "" {
			return PrintInvalid
		}
		return PrintHook
	}
	switch p.Builtin {
	case "", Printf:
		return PrintFormatted
	case Cout, StdCout:
		return PrintStream
	}
	return PrintInvalid
}

// LoopKind classifies a RepMacro value.
type LoopKind int

const (
	LoopInvalid LoopKind = iota
	// LoopCounted writes for (int i = 0; i < n; ++i)
	LoopCounted
	// LoopMacro writes REP(i, n)
	LoopMacro
	LoopHookKind
)

// Kind returns the loop strategy of r, LoopInvalid if r is not supported.
func (r RepMacro) Kind() LoopKind {
	switch {
	case r.Hook != nil && r.Macro != "":
		return LoopInvalid
	case r.Hook != nil:
		return LoopHookKind
	case r.Macro == "":
		return LoopCounted
	case isIdent(r.Macro):
		return LoopMacro
	}
	return LoopInvalid
}

func isIdent(s string) bool {
	for i, c := range s {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return s != ""
}

// Config is the complete style for one generation pass. It must not be modified
// after it has been validated and handed to a generator.
type Config struct {
	Scanner           Scanner  `yaml:"scanner"`
	Printer           Printer  `yaml:"printer"`
	RepMacro          RepMacro `yaml:"rep_macro"`
	Indent            string   `yaml:"indent"`
	UsingNamespaceStd bool     `yaml:"using_namespace_std"`
}

// Default returns the default style: scanf, printf, counted loops, four space
// indentation and using namespace std.
func Default() *Config {
	return &Config{
		Indent:            DefaultIndent,
		UsingNamespaceStd: true,
	}
}

// Option modifies a Config under construction.
type Option func(*Config)

// WithScanner selects a builtin scanner token.
func WithScanner(token string) Option { return func(c *Config) { c.Scanner = Scanner{Builtin: token} } }

// WithScanHook selects a caller-supplied read statement.
func WithScanHook(h ReadHook) Option { return func(c *Config) { c.Scanner = Scanner{Hook: h} } }

// WithPrinter selects a builtin printer token.
func WithPrinter(token string) Option { return func(c *Config) { c.Printer = Printer{Builtin: token} } }

// WithPrintHook selects a caller-supplied write statement.
func WithPrintHook(h WriteHook) Option { return func(c *Config) { c.Printer = Printer{Hook: h} } }

// WithRepMacro writes loop headers as MACRO(variable, size).
func WithRepMacro(macro string) Option { return func(c *Config) { c.RepMacro = RepMacro{Macro: macro} } }

// WithLoopHook selects a caller-supplied loop header.
func WithLoopHook(h LoopHook) Option { return func(c *Config) { c.RepMacro = RepMacro{Hook: h} } }

// WithIndent sets the indentation unit.
func WithIndent(unit string) Option { return func(c *Config) { c.Indent = unit } }

// WithNamespaceStd controls whether emitted code assumes using namespace std.
func WithNamespaceStd(using bool) Option { return func(c *Config) { c.UsingNamespaceStd = using } }

// New returns the default style modified by opts, or an error if the result is invalid.
func New(opts ...Option) (*Config, error) {
	cfg := Default()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an *OptionError for the first unsupported option.
func (c *Config) Validate() error {
	if c.Scanner.Kind() == ScanInvalid {
		return invalid("scanner", c.Scanner.Builtin, c.Scanner.Hook != nil)
	}
	if c.Printer.Kind() == PrintInvalid {
		return invalid("printer", c.Printer.Builtin, c.Printer.Hook != nil)
	}
	if c.RepMacro.Kind() == LoopInvalid {
		err := invalid("rep_macro", c.RepMacro.Macro, c.RepMacro.Hook != nil)
		if c.RepMacro.Hook == nil {
			err.Reason = "macro name must be an identifier"
		}
		return err
	}
	return nil
}

func invalid(option, value string, hasHook bool) *OptionError {
	err := &OptionError{Option: option, Value: value}
	if hasHook {
		err.Reason = "both a builtin and a hook are set"
	}
	return err
}

// Std returns the prefix for names from the C++ standard library.
func (c *Config) Std() string {
	if c.UsingNamespaceStd {
		return ""
	}
	return "std::"
}
