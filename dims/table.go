// Package dims infers the array dimensions of format variables from the loops
// that enclose them.
package dims

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousDimension is wrapped by every [Ambiguity]: a variable occurs under
// loop nests that imply different dimensions.
var ErrAmbiguousDimension = errors.New("ambiguous dimension")

// Entry records the dimensions of one format variable.
type Entry struct {
	Name string
	// Dims are the sizes of the loops enclosing the first occurrence of the
	// variable, outer-to-inner. Empty for scalars.
	Dims []string
	// Depends lists earlier variables named in Dims, in table order.
	Depends []string
}

// Rank returns the number of dimensions.
func (e *Entry) Rank() int { return len(e.Dims) }

// Ambiguity is a later occurrence of a variable whose enclosing loops differ
// from the first occurrence. The first occurrence is kept.
type Ambiguity struct {
	Name  string
	First []string
	Later []string
}

func (a Ambiguity) Error() string {
	return fmt.Sprintf("%s: variable %q declared with dims [%s] but also used with dims [%s]",
		ErrAmbiguousDimension, a.Name, strings.Join(a.First, ", "), strings.Join(a.Later, ", "))
}

func (a Ambiguity) Unwrap() error { return ErrAmbiguousDimension }

// Table maps variable names to their dimensions, in order of first appearance.
// A Table is read-only once built.
type Table struct {
	entries     []*Entry
	byName      map[string]*Entry
	ambiguities []Ambiguity
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Entry)}
}

// Lookup returns the entry for name or nil if the variable never occurs.
func (t *Table) Lookup(name string) *Entry {
	return t.byName[name]
}

// Entries returns the entries in order of first appearance.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Names returns the variable names in order of first appearance.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of variables.
func (t *Table) Len() int { return len(t.entries) }

// Ambiguities returns the inconsistent occurrences seen while building the table.
func (t *Table) Ambiguities() []Ambiguity {
	return t.ambiguities
}

// Err returns the ambiguities joined into one error, or nil.
func (t *Table) Err() error {
	if len(t.ambiguities) == 0 {
		return nil
	}
	errs := make([]error, len(t.ambiguities))
	for i, a := range t.ambiguities {
		errs[i] = a
	}
	return errors.Join(errs...)
}

// record adds the occurrence of name under dims. The first occurrence wins.
func (t *Table) record(name string, dims []string) {
	if e, ok := t.byName[name]; ok {
		if !equal(e.Dims, dims) {
			t.ambiguities = append(t.ambiguities, Ambiguity{Name: name, First: e.Dims, Later: dims})
		}
		return
	}
	e := &Entry{Name: name, Dims: dims}
	for _, prev := range t.entries {
		if mentions(dims, prev.Name) {
			e.Depends = append(e.Depends, prev.Name)
		}
	}
	t.entries = append(t.entries, e)
	t.byName[name] = e
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mentions(exprs []string, ident string) bool {
	for _, expr := range exprs {
		for _, tok := range identRE.FindAllString(expr, -1) {
			if tok == ident {
				return true
			}
		}
	}
	return false
}
