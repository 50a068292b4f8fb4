package style

import (
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Decode reads a style from YAML over the defaults and validates it:
//
//	scanner: cin
//	printer: {template: 'print({{.}});'}
//	rep_macro: REP
//	indent: "  "
//	using_namespace_std: false
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// hookSpec is the mapping form of an option: a text/template rendering the statement.
type hookSpec struct {
	Template string `yaml:"template"`
}

// UnmarshalYAML accepts a builtin token, null, or {template: ...} whose dot is the indexed path.
func (s *Scanner) UnmarshalYAML(n *yaml.Node) error {
	token, spec, err := decodeOption("scanner", n)
	if err != nil || spec == nil {
		*s = Scanner{Builtin: token}
		return err
	}
	t, err := compileHook("scanner", spec.Template, "a[i]")
	if err != nil {
		return err
	}
	*s = Scanner{Hook: func(path string) (string, error) { return execHook(t, path) }}
	return nil
}

// UnmarshalYAML accepts a builtin token, null, or {template: ...} whose dot is the value name.
func (p *Printer) UnmarshalYAML(n *yaml.Node) error {
	token, spec, err := decodeOption("printer", n)
	if err != nil || spec == nil {
		*p = Printer{Builtin: token}
		return err
	}
	t, err := compileHook("printer", spec.Template, "ans")
	if err != nil {
		return err
	}
	*p = Printer{Hook: func(name string) (string, error) { return execHook(t, name) }}
	return nil
}

// LoopVars is the dot of a rep_macro template.
type LoopVars struct {
	Var  string
	Size string
}

// UnmarshalYAML accepts a macro name, null, or {template: ...} whose dot is a [LoopVars].
func (r *RepMacro) UnmarshalYAML(n *yaml.Node) error {
	token, spec, err := decodeOption("rep_macro", n)
	if err != nil || spec == nil {
		*r = RepMacro{Macro: token}
		return err
	}
	t, err := compileHook("rep_macro", spec.Template, LoopVars{Var: "i", Size: "n"})
	if err != nil {
		return err
	}
	*r = RepMacro{Hook: func(variable, size string) (string, error) {
		return execHook(t, LoopVars{Var: variable, Size: size})
	}}
	return nil
}

func decodeOption(option string, n *yaml.Node) (token string, spec *hookSpec, err error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil, nil
		}
		return n.Value, nil, nil
	case yaml.MappingNode:
		spec = new(hookSpec)
		if err := n.Decode(spec); err != nil {
			return "", nil, &OptionError{Option: option, Reason: err.Error()}
		}
		if strings.TrimSpace(spec.Template) == "" {
			return "", nil, &OptionError{Option: option, Reason: "hook template is empty"}
		}
		return "", spec, nil
	}
	return "", nil, &OptionError{Option: option, Reason: fmt.Sprintf("line %d: want a token or {template: ...}", n.Line)}
}

// compileHook parses text and renders it once with sample, reporting templates
// that cannot work for any input.
func compileHook(option, text string, sample any) (*template.Template, error) {
	t, err := template.New(option).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &OptionError{Option: option, Value: text, Reason: err.Error()}
	}
	var b strings.Builder
	if err := t.Execute(&b, sample); err != nil {
		return nil, &OptionError{Option: option, Value: text, Reason: err.Error()}
	}
	return t, nil
}

func execHook(t *template.Template, dot any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, dot); err != nil {
		return "", err
	}
	return b.String(), nil
}
