package ojtemplate

import (
	"strings"

	"github.com/ojtools/ojtemplate/dims"
	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/style"
)

// dedent closes a Python block. It never prints.
const dedent = "\x00dedent"

// Python emits Python 3 code for format trees: input parsing for solutions and
// random case generators for testing them. Only the Indent option of the
// style applies.
type Python struct {
	cfg *style.Config
}

// NewPython returns a Python emitter for cfg. A nil cfg selects the default style.
func NewPython(cfg *style.Config) (*Python, error) {
	if cfg == nil {
		cfg = style.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Python{cfg: cfg}, nil
}

func (p *Python) indent(lines []string, depth int) string {
	return Indenter{Unit: p.cfg.Indent, Open: ":", Close: dedent, DropClose: true}.Indent(lines, depth)
}

// DeclareVariable returns the list construction for an array, e.g.
// a = [[None for _ in range(m)] for _ in range(n)]. Scalars need no
// declaration and yield "".
func (p *Python) DeclareVariable(name string, dims []string) string {
	if len(dims) == 0 {
		return ""
	}
	ctor := "None"
	for i := len(dims) - 1; i >= 0; i-- {
		ctor = "[" + ctor + " for _ in range(" + dims[i] + ")]"
	}
	return name + " = " + ctor
}

// LoopHeader returns for variable in range(size):
func (p *Python) LoopHeader(variable, size string) string {
	return "for " + variable + " in range(" + size + "):"
}

func (p *Python) emitter(item func(*format.Item) string, newline func() []string, declare bool) *emitter {
	em := &emitter{
		item:    func(it *format.Item) (string, error) { return item(it), nil },
		newline: newline,
		loop:    func(l *format.Loop) (string, error) { return p.LoopHeader(l.Var, l.Size), nil },
		close:   dedent,
	}
	if declare {
		em.declare = func(e *dims.Entry) []string {
			if decl := p.DeclareVariable(e.Name, e.Dims); decl != "" {
				return []string{decl}
			}
			return nil
		}
	}
	return em
}

// ReadInputLines returns the unindented lines parsing every variable of root
// from whitespace-separated tokens on standard input.
func (p *Python) ReadInputLines(root format.Node) ([]string, error) {
	em := p.emitter(func(it *format.Item) string {
		return it.Path() + " = int(next(tokens))"
	}, nil, true)
	lines, err := em.emit(root)
	if err != nil {
		return nil, err
	}
	return append([]string{"tokens = iter(sys.stdin.read().split())"}, lines...), nil
}

// ReadInput returns the indented block parsing the input described by root.
// The enclosing file must import sys.
func (p *Python) ReadInput(root format.Node, depth int) (string, error) {
	lines, err := p.ReadInputLines(root)
	if err != nil {
		return "", err
	}
	return p.indent(lines, depth), nil
}

// GenerateInput returns the indented block assigning a random value to every
// variable of root. The enclosing file must import random.
func (p *Python) GenerateInput(root format.Node, depth int) (string, error) {
	em := p.emitter(func(it *format.Item) string {
		return it.Path() + " = random.randint(1, 10 ** 9)  # TODO: edit here"
	}, nil, true)
	lines, err := em.emit(root)
	if err != nil {
		return "", err
	}
	return p.indent(lines, depth), nil
}

// WriteInput returns the indented block printing every variable of root in
// the layout root describes.
func (p *Python) WriteInput(root format.Node, depth int) (string, error) {
	em := p.emitter(func(it *format.Item) string {
		return "print(" + it.Path() + ", end=' ')"
	}, func() []string { return []string{"print()"} }, false)
	lines, err := em.emit(root)
	if err != nil {
		return "", err
	}
	return p.indent(lines, depth), nil
}

// WriteOutput returns the indented statement printing the result variable ans.
func (p *Python) WriteOutput(depth int) string {
	return p.indent([]string{"print(" + resultName + ")"}, depth)
}

// ContainerType returns the type annotation of a variable with rank dimensions.
func (p *Python) ContainerType(rank int) string {
	typ := "int"
	for i := 0; i < rank; i++ {
		typ = "List[" + typ + "]"
	}
	return typ
}

// Signature returns the parameters of a function taking every variable of root.
func (p *Python) Signature(root format.Node) Signature {
	return buildSignature(dims.Infer(root), func(e *dims.Entry) string {
		return p.ContainerType(e.Rank())
	})
}

// ArgumentsTypes returns the annotated parameters, e.g. "n: int, a: List[int]".
// The enclosing file must import List from typing.
func (p *Python) ArgumentsTypes(root format.Node) string {
	sig := p.Signature(root)
	params := make([]string, len(sig.Names))
	for i, name := range sig.Names {
		params[i] = name + ": " + sig.Types[i]
	}
	return strings.Join(params, ", ")
}

// Arguments returns the comma-separated variable names of root.
func (p *Python) Arguments(root format.Node) string {
	return p.Signature(root).Arguments()
}

// ReturnType returns Any: the return type is left open.
func (p *Python) ReturnType() string { return "Any" }
