package ojtemplate

import (
	"strings"

	"github.com/ojtools/ojtemplate/dims"
	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/style"
)

// CPlusPlus emits C++ input/output code for format trees. Every value is an int.
type CPlusPlus struct {
	cfg *style.Config
}

// NewCPlusPlus returns a C++ emitter for cfg, which must validate. A nil cfg
// selects the default style.
func NewCPlusPlus(cfg *style.Config) (*CPlusPlus, error) {
	if cfg == nil {
		cfg = style.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CPlusPlus{cfg: cfg}, nil
}

// Style returns the style the emitter was created with.
func (c *CPlusPlus) Style() *style.Config { return c.cfg }

// ContainerType returns the type of a variable with rank dimensions,
// e.g. vector<vector<int>> for rank 2.
func (c *CPlusPlus) ContainerType(rank int) string {
	typ := "int"
	for i := 0; i < rank; i++ {
		typ = c.cfg.Std() + "vector<" + typ + ">"
	}
	return typ
}

// DeclareVariable returns the declaration of name with the given dimensions:
//
//	int n;
//	vector<vector<int>> a(n, vector<int>(m, int()));
func (c *CPlusPlus) DeclareVariable(name string, dims []string) string {
	typ := "int"
	ctor := ""
	init := "int()"
	for i := len(dims) - 1; i >= 0; i-- {
		typ = c.cfg.Std() + "vector<" + typ + ">"
		ctor = "(" + dims[i] + ", " + init + ")"
		init = typ + ctor
	}
	return typ + " " + name + ctor + ";"
}

// LoopHeader returns the header of a loop counting variable from 0 to size,
// without the opening brace.
func (c *CPlusPlus) LoopHeader(variable, size string) (string, error) {
	rep := c.cfg.RepMacro
	switch rep.Kind() {
	case style.LoopCounted:
		return "for (int " + variable + " = 0; " + variable + " < " + size + "; ++" + variable + ")", nil
	case style.LoopMacro:
		return rep.Macro + "(" + variable + ", " + size + ")", nil
	case style.LoopHookKind:
		header, err := rep.Hook(variable, size)
		if err != nil {
			return "", hookError("rep_macro", variable+", "+size, err)
		}
		return header, nil
	}
	return "", &style.OptionError{Option: "rep_macro", Value: rep.Macro}
}

// ScalarRead returns a statement reading one int into path.
func (c *CPlusPlus) ScalarRead(path string) (string, error) {
	scanner := c.cfg.Scanner
	switch scanner.Kind() {
	case style.ScanFormatted:
		return `scanf("%d", &` + path + `);`, nil
	case style.ScanStream:
		return c.cfg.Std() + "cin >> " + path + ";", nil
	case style.ScanHook:
		stmt, err := scanner.Hook(path)
		if err != nil {
			return "", hookError("scanner", path, err)
		}
		return stmt, nil
	}
	return "", &style.OptionError{Option: "scanner", Value: scanner.Builtin}
}

// hookError reports a hook that failed for the arguments in value.
func hookError(option, value string, err error) error {
	return &style.OptionError{Option: option, Value: value, Reason: "hook failed", Err: err}
}

// ScalarWrite returns a statement writing the int name followed by a newline.
func (c *CPlusPlus) ScalarWrite(name string) (string, error) {
	printer := c.cfg.Printer
	switch printer.Kind() {
	case style.PrintFormatted:
		return `printf("%d\n", ` + name + `);`, nil
	case style.PrintStream:
		std := c.cfg.Std()
		return std + "cout << " + name + " << " + std + "endl;", nil
	case style.PrintHook:
		stmt, err := printer.Hook(name)
		if err != nil {
			return "", hookError("printer", name, err)
		}
		return stmt, nil
	}
	return "", &style.OptionError{Option: "printer", Value: printer.Builtin}
}

func (c *CPlusPlus) inputEmitter() *emitter {
	return &emitter{
		declare: func(e *dims.Entry) []string {
			return []string{c.DeclareVariable(e.Name, e.Dims)}
		},
		item: func(it *format.Item) (string, error) {
			return c.ScalarRead(it.Path())
		},
		loop: func(l *format.Loop) (string, error) {
			header, err := c.LoopHeader(l.Var, l.Size)
			return header + " {", err
		},
		close: "}",
	}
}

// ReadInputLines returns the unindented lines declaring and reading every
// variable of root. Loop headers end with "{" and loops end with "}".
func (c *CPlusPlus) ReadInputLines(root format.Node) ([]string, error) {
	return c.inputEmitter().emit(root)
}

// ReadInput returns the indented block reading the input described by root.
func (c *CPlusPlus) ReadInput(root format.Node, depth int) (string, error) {
	lines, err := c.ReadInputLines(root)
	if err != nil {
		return "", err
	}
	return Indent(lines, c.cfg.Indent, depth), nil
}

// WriteOutput returns the indented statement writing the result variable ans.
func (c *CPlusPlus) WriteOutput(depth int) (string, error) {
	stmt, err := c.ScalarWrite(resultName)
	if err != nil {
		return "", err
	}
	return Indent([]string{stmt}, c.cfg.Indent, depth), nil
}

// Signature returns the parameters of a function taking every variable of root:
// scalars by value, arrays by const reference.
func (c *CPlusPlus) Signature(root format.Node) Signature {
	return buildSignature(dims.Infer(root), func(e *dims.Entry) string {
		if e.Rank() == 0 {
			return "int"
		}
		return "const " + c.ContainerType(e.Rank()) + " &"
	})
}

// ArgumentsTypes returns the comma-separated parameter declarations, e.g.
// "int n, const vector<int> &a".
func (c *CPlusPlus) ArgumentsTypes(root format.Node) string {
	sig := c.Signature(root)
	params := make([]string, len(sig.Names))
	for i, name := range sig.Names {
		typ := sig.Types[i]
		if strings.HasSuffix(typ, "&") {
			params[i] = typ + name
		} else {
			params[i] = typ + " " + name
		}
	}
	return strings.Join(params, ", ")
}

// Arguments returns the comma-separated variable names of root.
func (c *CPlusPlus) Arguments(root format.Node) string {
	return c.Signature(root).Arguments()
}

// ReturnType returns auto: the return type is left to the compiler.
func (c *CPlusPlus) ReturnType() string { return "auto" }
