package ojtemplate

import (
	"fmt"

	"github.com/ojtools/ojtemplate/dims"
	"github.com/ojtools/ojtemplate/format"
)

// emitter flattens a format tree into source lines for one target language.
// Block structure is left to an Indenter: loop headers end with the language's
// open marker and every loop is followed by a close line.
type emitter struct {
	// declare returns the declaration lines of a variable. If nil the
	// traversal declares nothing.
	declare func(e *dims.Entry) []string
	item    func(it *format.Item) (string, error)
	newline func() []string
	loop    func(l *format.Loop) (string, error)
	close   string
}

// declState is the set of variables declared (and read) during one traversal.
type declState struct {
	table    *dims.Table
	declared map[string]bool
	read     map[string]bool
}

func newDeclState(table *dims.Table) *declState {
	return &declState{
		table:    table,
		declared: make(map[string]bool, table.Len()),
		read:     make(map[string]bool, table.Len()),
	}
}

// ready returns the undeclared variables whose dimensions only mention
// variables that have already been read, in order of first appearance.
func (st *declState) ready() []*dims.Entry {
	var entries []*dims.Entry
	for _, e := range st.table.Entries() {
		if st.declared[e.Name] {
			continue
		}
		ok := true
		for _, dep := range e.Depends {
			if !st.read[dep] {
				ok = false
				break
			}
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// emit returns the lines for root. The first error aborts the traversal and no
// lines are returned.
func (em *emitter) emit(root format.Node) ([]string, error) {
	if format.IsNil(root) {
		return nil, ErrNoFormat
	}
	st := newDeclState(dims.Infer(root))
	lines, err := em.emitNode(nil, root, st)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (em *emitter) emitNode(lines []string, node format.Node, st *declState) ([]string, error) {
	if format.IsNil(node) {
		return nil, fmt.Errorf("ojtemplate: nil %T in format tree", node)
	}
	if em.declare != nil {
		for _, e := range st.ready() {
			lines = em.declareEntry(lines, e, st)
		}
	}

	var err error
	switch n := node.(type) {
	case *format.Item:
		if em.declare != nil && !st.declared[n.Name] {
			lines = em.declareEntry(lines, st.table.Lookup(n.Name), st)
		}
		var stmt string
		if stmt, err = em.item(n); err != nil {
			return nil, err
		}
		lines = append(lines, stmt)
		st.read[n.Name] = true

	case *format.Newline:
		if em.newline != nil {
			lines = append(lines, em.newline()...)
		}

	case *format.Sequence:
		for _, item := range n.Items {
			if lines, err = em.emitNode(lines, item, st); err != nil {
				return nil, err
			}
		}

	case *format.Loop:
		var header string
		if header, err = em.loop(n); err != nil {
			return nil, err
		}
		lines = append(lines, header)
		if lines, err = em.emitNode(lines, n.Body, st); err != nil {
			return nil, err
		}
		lines = append(lines, em.close)

	default:
		return nil, fmt.Errorf("ojtemplate: unexpected format node %T", n)
	}
	return lines, nil
}

func (em *emitter) declareEntry(lines []string, e *dims.Entry, st *declState) []string {
	st.declared[e.Name] = true
	return append(lines, em.declare(e)...)
}
