package format

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Fprint prints the format tree x to w in an indented form, one node per line.
// Fprint is useful for debugging and testing.
func Fprint(w io.Writer, x Node) error {
	p := &printer{output: w}
	p.print(x)
	return p.err
}

// Print calls Fprint(os.Stdout, x) for debugging convenience.
func Print(x Node) error {
	return Fprint(os.Stdout, x)
}

type printer struct {
	output io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.printIndent()
	_, p.err = fmt.Fprintf(p.output, format, args...)
}

func (p *printer) print(x Node) {
	switch n := x.(type) {
	case nil:
		p.printf("nil\n")
	case *Item:
		if len(n.Indices) == 0 {
			p.printf("Item %s\n", n.Name)
		} else {
			p.printf("Item %s [%s]\n", n.Name, strings.Join(n.Indices, ", "))
		}
	case *Newline:
		p.printf("Newline\n")
	case *Sequence:
		p.printf("Sequence (len=%d)\n", len(n.Items))
		p.indent++
		for _, item := range n.Items {
			p.print(item)
		}
		p.indent--
	case *Loop:
		p.printf("Loop %s < %s\n", n.Var, n.Size)
		p.indent++
		p.print(n.Body)
		p.indent--
	default:
		p.printf("%T\n", n)
	}
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		_, p.err = io.WriteString(p.output, "  ")
		if p.err != nil {
			return
		}
	}
}
