// Package ojtemplate generates competitive programming boilerplate from the
// format tree of a problem's input.
//
// The C++ and Python emitters turn a format.Node into declarations, read loops
// and function signatures. A Generator renders text/template files with those
// emitters bound to a problem.
package ojtemplate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ojtools/ojtemplate/dims"
	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/style"
)

// ErrNoFormat is returned when a problem has no input format tree, usually
// because the statement could not be analyzed.
var ErrNoFormat = errors.New("ojtemplate: no input format")

// Problem is what is known about one problem's I/O.
type Problem struct {
	Input  format.Node
	Output format.Node
}

// Result is the outcome of rendering one output file.
type Result struct {
	File     string
	Template string
	Output   []byte
	Err      error
}

// Generator renders templates for problems. It is safe for concurrent use.
type Generator struct {
	host        *TemplateHost
	style       *style.Config
	cpp         *CPlusPlus
	py          *Python
	log         *zap.Logger
	filter      FilterFunc
	parallelism int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.log = log }
}

// WithFilter replaces ExecFilter as the runner of filter commands.
func WithFilter(f FilterFunc) GeneratorOption {
	return func(g *Generator) { g.filter = f }
}

// WithParallelism bounds the number of templates GenerateAll renders at once.
func WithParallelism(n int) GeneratorOption {
	return func(g *Generator) { g.parallelism = n }
}

// NewGenerator returns a Generator rendering templates from host with cfg.
// A nil host serves the builtin templates only; a nil cfg selects the default style.
func NewGenerator(host *TemplateHost, cfg *style.Config, opts ...GeneratorOption) (*Generator, error) {
	if cfg == nil {
		cfg = style.Default()
	}
	cpp, err := NewCPlusPlus(cfg)
	if err != nil {
		return nil, err
	}
	py, err := NewPython(cfg)
	if err != nil {
		return nil, err
	}
	if host == nil {
		if host, err = NewTemplateHost(); err != nil {
			return nil, err
		}
	}
	g := &Generator{
		host:        host,
		style:       cfg,
		cpp:         cpp,
		py:          py,
		filter:      ExecFilter,
		parallelism: 4,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.parallelism < 1 {
		g.parallelism = 1
	}
	return g, nil
}

func (g *Generator) data(p Problem) *TemplateData {
	return &TemplateData{
		Input:     p.Input,
		Output:    p.Output,
		Style:     g.style,
		CPlusPlus: &CPlusPlusData{lib: g.cpp, input: p.Input},
		Python:    &PythonData{lib: g.py, input: p.Input},
		filter:    &filterHook{},
	}
}

// Generate renders the template name for p. Output is all or nothing: any
// emitter or filter failure returns a nil slice.
func (g *Generator) Generate(ctx context.Context, p Problem, name string) ([]byte, error) {
	if format.IsNil(p.Input) {
		return nil, ErrNoFormat
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := g.log.With(zap.String("template", name))
	for _, amb := range dims.Infer(p.Input).Ambiguities() {
		log.Warn("ambiguous dimensions, using first occurrence",
			zap.String("var", amb.Name),
			zap.Strings("first", amb.First),
			zap.Strings("later", amb.Later))
	}

	tmpl, err := g.host.Lookup(name)
	if err != nil {
		return nil, err
	}
	data := g.data(p)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	if data.filter.command == nil {
		return buf.Bytes(), nil
	}

	log.Info("execute filter command", zap.Strings("command", data.filter.command))
	out, err := g.filter(ctx, data.filter.command, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

// GenerateAll renders files, a map from output file to template name,
// concurrently. Results are sorted by file. A failed template is logged and
// reported in its Result; the others are still rendered.
func (g *Generator) GenerateAll(ctx context.Context, p Problem, files map[string]string) []Result {
	results := make([]Result, 0, len(files))
	for file, name := range files {
		results = append(results, Result{File: file, Template: name})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	var eg errgroup.Group
	eg.SetLimit(g.parallelism)
	for i := range results {
		r := &results[i]
		eg.Go(func() error {
			r.Output, r.Err = g.Generate(ctx, p, r.Template)
			return nil
		})
	}
	_ = eg.Wait()

	for _, r := range results {
		if r.Err != nil {
			g.log.Error("skip file", zap.String("file", r.File), zap.String("template", r.Template), zap.Error(r.Err))
		}
	}
	return results
}
