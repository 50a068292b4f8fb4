// Package format defines the tree describing a problem's input or output layout.
// Trees are built once by a format parser (or decoded from YAML) and are never
// mutated by the code generators that consume them.
package format

// Node is a node of a format tree. The set of implementations is closed:
// [*Item], [*Newline], [*Sequence] and [*Loop].
type Node interface {
	// AppendString appends the node's notation, e.g. Loop(i, n, Item(a, [i])).
	AppendString(dst []byte) []byte
	String() string
	formatNode()
}

// Item is a single scalar read/write site. Indices name enclosing loop
// variables, outer-to-inner.
type Item struct {
	Name    string
	Indices []string
}

// Newline marks a line break in the format.
type Newline struct{}

// Sequence is an ordered concatenation of nodes.
type Sequence struct {
	Items []Node
}

// Loop repeats Body Size times under loop variable Var.
type Loop struct {
	Var  string
	Size string
	Body Node
}

// IsNil reports whether n is nil or a nil pointer of one of the node types.
func IsNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Item:
		return n == nil
	case *Newline:
		return n == nil
	case *Sequence:
		return n == nil
	case *Loop:
		return n == nil
	}
	return false
}

func (*Item) formatNode()     {}
func (*Newline) formatNode()  {}
func (*Sequence) formatNode() {}
func (*Loop) formatNode()     {}

func (it *Item) AppendString(dst []byte) []byte {
	dst = append(dst, "Item("...)
	dst = append(dst, it.Name...)
	if len(it.Indices) > 0 {
		dst = append(dst, ", ["...)
		for i, index := range it.Indices {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, index...)
		}
		dst = append(dst, ']')
	}
	return append(dst, ')')
}

func (*Newline) AppendString(dst []byte) []byte {
	return append(dst, "Newline"...)
}

func (s *Sequence) AppendString(dst []byte) []byte {
	dst = append(dst, "Sequence["...)
	for i, item := range s.Items {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendNode(dst, item)
	}
	return append(dst, ']')
}

func (l *Loop) AppendString(dst []byte) []byte {
	dst = append(dst, "Loop("...)
	dst = append(dst, l.Var...)
	dst = append(dst, ", "...)
	dst = append(dst, l.Size...)
	dst = append(dst, ", "...)
	dst = appendNode(dst, l.Body)
	return append(dst, ')')
}

func (it *Item) String() string    { return string(it.AppendString(nil)) }
func (n *Newline) String() string  { return string(n.AppendString(nil)) }
func (s *Sequence) String() string { return string(s.AppendString(nil)) }
func (l *Loop) String() string     { return string(l.AppendString(nil)) }

func appendNode(dst []byte, n Node) []byte {
	if n == nil {
		return append(dst, "nil"...)
	}
	return n.AppendString(dst)
}

// Path returns the fully indexed access path of the item, e.g. a[i][j].
func (it *Item) Path() string {
	dst := make([]byte, 0, len(it.Name)+4*len(it.Indices))
	dst = append(dst, it.Name...)
	for _, index := range it.Indices {
		dst = append(dst, '[')
		dst = append(dst, index...)
		dst = append(dst, ']')
	}
	return string(dst)
}
