package dims

import (
	"regexp"

	"github.com/ojtools/ojtemplate/format"
)

var identRE = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Collector traverses a format tree and records, for every variable, the sizes
// of the loops enclosing its first occurrence.
type Collector struct {
	table *Table
	nodes []format.Node // visited nodes whose children are being walked
	loops []loopFrame   // enclosing loops, outer-to-inner
}

type loopFrame struct {
	name string
	size string // with enclosing loop variables replaced by their sizes
}

// NewCollector creates a collector with an empty table.
func NewCollector() *Collector {
	return &Collector{table: NewTable()}
}

// Infer builds the dimension table of root. A nil root yields an empty table.
func Infer(root format.Node) *Table {
	c := NewCollector()
	if !format.IsNil(root) {
		format.Walk(c, root)
	}
	return c.Table()
}

// Table returns the table built so far.
func (c *Collector) Table() *Table {
	return c.table
}

// Visit implements the format.Visitor interface.
func (c *Collector) Visit(node format.Node) format.Visitor {
	if node == nil {
		// Leaving the innermost node being walked.
		last := c.nodes[len(c.nodes)-1]
		c.nodes = c.nodes[:len(c.nodes)-1]
		if _, ok := last.(*format.Loop); ok {
			c.loops = c.loops[:len(c.loops)-1]
		}
		return nil
	}

	switch n := node.(type) {
	case *format.Item:
		dims := make([]string, len(c.loops))
		for i, l := range c.loops {
			dims[i] = l.size
		}
		c.table.record(n.Name, dims)

	case *format.Loop:
		c.loops = append(c.loops, loopFrame{name: n.Var, size: c.resolve(n.Size)})

	case *format.Newline, *format.Sequence:
	}
	c.nodes = append(c.nodes, node)
	return c
}

// resolve replaces references to enclosing loop variables in expr by the
// sizes of those loops, giving an upper bound that is valid outside them.
func (c *Collector) resolve(expr string) string {
	if len(c.loops) == 0 {
		return expr
	}
	return identRE.ReplaceAllStringFunc(expr, func(ident string) string {
		for i := len(c.loops) - 1; i >= 0; i-- {
			if c.loops[i].name != ident {
				continue
			}
			size := c.loops[i].size
			if identRE.FindString(size) == size || isNumber(size) {
				return size
			}
			return "(" + size + ")"
		}
		return ident
	})
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
