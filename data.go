package ojtemplate

import (
	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/style"
)

// TemplateData is the value templates are executed with.
//
// Emitter methods take an optional nesting depth, 1 when omitted:
//
//	{{ .CPlusPlus.ReadInput }}
//	{{ .Python.WriteInput 2 }}
type TemplateData struct {
	Input  format.Node
	Output format.Node // may be nil
	Style  *style.Config

	CPlusPlus *CPlusPlusData
	Python    *PythonData

	filter *filterHook
}

// FilterCommand registers a command the rendered output is piped through.
// It prints nothing and may be called once per render.
func (d *TemplateData) FilterCommand(args ...string) (string, error) {
	return "", d.filter.register(args)
}

func nesting(nest []int) int {
	if len(nest) == 0 {
		return 1
	}
	return nest[0]
}

// CPlusPlusData binds a CPlusPlus emitter to the input tree of a render.
type CPlusPlusData struct {
	lib   *CPlusPlus
	input format.Node
}

func (d *CPlusPlusData) ReadInput(nest ...int) (string, error) {
	return d.lib.ReadInput(d.input, nesting(nest))
}

func (d *CPlusPlusData) WriteOutput(nest ...int) (string, error) {
	return d.lib.WriteOutput(nesting(nest))
}

func (d *CPlusPlusData) DeclareVariable(name string, dims ...string) string {
	return d.lib.DeclareVariable(name, dims)
}

func (d *CPlusPlusData) ArgumentsTypes() string { return d.lib.ArgumentsTypes(d.input) }
func (d *CPlusPlusData) Arguments() string      { return d.lib.Arguments(d.input) }
func (d *CPlusPlusData) ReturnType() string     { return d.lib.ReturnType() }

// PythonData binds a Python emitter to the input tree of a render.
type PythonData struct {
	lib   *Python
	input format.Node
}

func (d *PythonData) ReadInput(nest ...int) (string, error) {
	return d.lib.ReadInput(d.input, nesting(nest))
}

func (d *PythonData) GenerateInput(nest ...int) (string, error) {
	return d.lib.GenerateInput(d.input, nesting(nest))
}

func (d *PythonData) WriteInput(nest ...int) (string, error) {
	return d.lib.WriteInput(d.input, nesting(nest))
}

func (d *PythonData) WriteOutput(nest ...int) string {
	return d.lib.WriteOutput(nesting(nest))
}

func (d *PythonData) ArgumentsTypes() string { return d.lib.ArgumentsTypes(d.input) }
func (d *PythonData) Arguments() string      { return d.lib.Arguments(d.input) }
func (d *PythonData) ReturnType() string     { return d.lib.ReturnType() }
