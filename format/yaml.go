package format

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned by Decode when the document holds no tree.
var ErrEmpty = errors.New("format: empty document")

// Decode reads a format tree from its YAML (or JSON) form:
//
//	- item: N
//	- newline
//	- loop: i
//	  size: N
//	  body: {item: A, indices: [i]}
//
// A YAML sequence is a Sequence, the scalar "newline" is a Newline, a mapping
// with an "item" key is an Item and a mapping with a "loop" key is a Loop.
func Decode(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, ErrEmpty
	}
	return decodeNode(root)
}

func decodeNode(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		seq := &Sequence{Items: make([]Node, 0, len(n.Content))}
		for _, c := range n.Content {
			item, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil

	case yaml.ScalarNode:
		if n.Value == "newline" {
			return &Newline{}, nil
		}
		return nil, errorf(n, "unexpected scalar %q, want \"newline\"", n.Value)

	case yaml.MappingNode:
		fields := make(map[string]*yaml.Node, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if _, dup := fields[k.Value]; dup {
				return nil, errorf(k, "duplicate key %q", k.Value)
			}
			fields[k.Value] = n.Content[i+1]
		}
		if _, ok := fields["item"]; ok {
			return decodeItem(n)
		}
		if _, ok := fields["loop"]; ok {
			return decodeLoop(n)
		}
		return nil, errorf(n, "mapping needs an \"item\" or \"loop\" key")

	case yaml.AliasNode:
		return nil, errorf(n, "aliases are not supported")

	default:
		return nil, errorf(n, "unexpected YAML node")
	}
}

// decodeItem and decodeLoop visit keys in document order so that the first
// offending key is the one reported.
func decodeItem(n *yaml.Node) (Node, error) {
	it := &Item{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, v := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "item":
			name, err := scalar(v, "item")
			if err != nil {
				return nil, err
			}
			it.Name = name
		case "indices":
			if v.Kind != yaml.SequenceNode {
				return nil, errorf(v, "indices must be a list")
			}
			for _, c := range v.Content {
				index, err := scalar(c, "index")
				if err != nil {
					return nil, err
				}
				it.Indices = append(it.Indices, index)
			}
		default:
			return nil, errorf(n, "unknown item key %q", key)
		}
	}
	return it, nil
}

func decodeLoop(n *yaml.Node) (Node, error) {
	l := &Loop{}
	var err error
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, v := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "loop":
			l.Var, err = scalar(v, "loop variable")
		case "size":
			l.Size, err = scalar(v, "loop size")
		case "body":
			l.Body, err = decodeNode(v)
		default:
			err = errorf(n, "unknown loop key %q", key)
		}
		if err != nil {
			return nil, err
		}
	}
	if l.Size == "" {
		return nil, errorf(n, "loop %q has no size", l.Var)
	}
	if l.Body == nil {
		return nil, errorf(n, "loop %q has no body", l.Var)
	}
	return l, nil
}

func scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", errorf(n, "%s must be a non-empty scalar", what)
	}
	return n.Value, nil
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("format: line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

// Encode returns the YAML form of a format tree, the inverse of Decode.
func Encode(root Node) ([]byte, error) {
	n, err := encodeNode(root)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

func encodeNode(x Node) (*yaml.Node, error) {
	switch n := x.(type) {
	case *Item:
		m := mapping("item", n.Name)
		if len(n.Indices) > 0 {
			indices := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, index := range n.Indices {
				indices.Content = append(indices.Content, str(index))
			}
			m.Content = append(m.Content, str("indices"), indices)
		}
		return m, nil
	case *Newline:
		return str("newline"), nil
	case *Sequence:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range n.Items {
			c, err := encodeNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, c)
		}
		return seq, nil
	case *Loop:
		body, err := encodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		m := mapping("loop", n.Var)
		m.Content = append(m.Content, str("size"), str(n.Size), str("body"), body)
		return m, nil
	case nil:
		return nil, errors.New("format: cannot encode nil node")
	default:
		return nil, fmt.Errorf("format: cannot encode %T", n)
	}
}

func mapping(key, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str(key), str(value)}}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
