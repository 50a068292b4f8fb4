package ojtemplate

import "strings"

// Indenter nests a flat sequence of lines using markers on line boundaries.
// It does not parse the lines: a line is either standalone, starts with Close,
// or ends with Open. Lines violating that convention are misindented.
type Indenter struct {
	Unit  string // indentation per nesting level
	Open  string // suffix of a line opening a block, e.g. "{"
	Close string // prefix of a line closing a block, e.g. "}"
	// DropClose consumes lines equal to Close instead of printing them,
	// for languages where a block ends by dedenting.
	DropClose bool
}

// Indent returns lines joined by newlines, each prefixed by Unit repeated to
// its nesting depth, starting from depth. Depth never goes below zero.
func (ind Indenter) Indent(lines []string, depth int) string {
	if depth < 0 {
		depth = 0
	}
	var b strings.Builder
	first := true
	for _, line := range lines {
		if ind.Close != "" && strings.HasPrefix(line, ind.Close) {
			if depth > 0 {
				depth--
			}
			if ind.DropClose && line == ind.Close {
				continue
			}
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(strings.Repeat(ind.Unit, depth))
		b.WriteString(line)
		if ind.Open != "" && strings.HasSuffix(line, ind.Open) {
			depth++
		}
	}
	return b.String()
}

// Indent reindents brace-delimited lines: a line starting with "}" closes a
// level before it is written, a line ending with "{" opens one after.
func Indent(lines []string, unit string, depth int) string {
	return Indenter{Unit: unit, Open: "{", Close: "}"}.Indent(lines, depth)
}
