package ojtemplate

import (
	"strings"

	"github.com/ojtools/ojtemplate/dims"
)

// resultName is the variable holding the answer in generated main functions.
const resultName = "ans"

// Signature is the parameter list of a solve function taking every format
// variable, in order of first appearance.
type Signature struct {
	Names []string
	Types []string // parallel to Names
}

func buildSignature(table *dims.Table, typeOf func(*dims.Entry) string) Signature {
	entries := table.Entries()
	sig := Signature{
		Names: make([]string, len(entries)),
		Types: make([]string, len(entries)),
	}
	for i, e := range entries {
		sig.Names[i] = e.Name
		sig.Types[i] = typeOf(e)
	}
	return sig
}

// Arguments returns the names joined by ", ".
func (s Signature) Arguments() string {
	return strings.Join(s.Names, ", ")
}
