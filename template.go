package ojtemplate

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"text/template"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrTemplateNotFound is returned when no template root holds the requested name.
var ErrTemplateNotFound = errors.New("ojtemplate: template not found")

//go:embed templates
var resources embed.FS

// templateCacheSize bounds the number of parsed templates kept by a host.
const templateCacheSize = 64

// Builtin returns the embedded default templates: main.cpp, main.py and generate.py.
func Builtin() fs.FS {
	sub, err := fs.Sub(resources, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateHost looks templates up by name in an ordered list of roots,
// followed by the builtin templates. It is safe for concurrent use.
type TemplateHost struct {
	roots []fs.FS
	cache *lru.Cache[string, *template.Template]
}

// NewTemplateHost returns a host searching roots in order, then the builtin templates.
func NewTemplateHost(roots ...fs.FS) (*TemplateHost, error) {
	cache, err := lru.New[string, *template.Template](templateCacheSize)
	if err != nil {
		return nil, err
	}
	all := make([]fs.FS, 0, len(roots)+1)
	all = append(all, roots...)
	all = append(all, Builtin())
	return &TemplateHost{roots: all, cache: cache}, nil
}

// Lookup returns the parsed template name from the first root holding it.
// Names are slash-separated paths relative to the roots.
func (h *TemplateHost) Lookup(name string) (*template.Template, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: invalid name %q", ErrTemplateNotFound, name)
	}
	if tmpl, ok := h.cache.Get(name); ok {
		return tmpl, nil
	}
	for _, root := range h.roots {
		text, err := fs.ReadFile(root, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(string(text))
		if err != nil {
			return nil, err
		}
		h.cache.Add(name, tmpl)
		return tmpl, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// Purge drops every parsed template so the next Lookup rereads the roots.
func (h *TemplateHost) Purge() { h.cache.Purge() }
