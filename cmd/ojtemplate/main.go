// ojtemplate generates competitive programming boilerplate from the format
// tree of a problem's input.
//
// Usage:
//
//	ojtemplate generate [-t main.cpp] format.yaml
//	ojtemplate prepare --dir abc100_a format.yaml
//	ojtemplate watch --dir /tmp/preview format.yaml
//	ojtemplate vars format.yaml
//	ojtemplate dump format.yaml
//
// The format tree is a YAML or JSON document:
//
//	- item: N
//	- newline
//	- loop: i
//	  size: N
//	  body: {item: A, indices: [i]}
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ojtools/ojtemplate"
	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/internal/config"
	"github.com/ojtools/ojtemplate/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ojtemplate:", err)
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands.
type app struct {
	getenv func(string) string

	configPath   string
	verbose      bool
	templateDirs []string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}
	root := &cobra.Command{
		Use:   "ojtemplate",
		Short: "Generate solution and generator boilerplate from a format tree",
		Long: `ojtemplate renders code templates for a competitive programming problem.

The problem's input format is given as a format tree (YAML or JSON). Templates
are text/template files looked up in --template-dir directories, then in the
template_dirs of the configuration, then among the builtin templates main.cpp,
main.py and generate.py.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (default: $OJTEMPLATE_CONFIG, ./ojtemplate.yaml or the user config directory)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringArrayVarP(&a.templateDirs, "template-dir", "T", nil, "directory searched for templates before the configured ones (repeatable)")

	root.AddCommand(
		a.generateCmd(),
		a.prepareCmd(),
		a.watchCmd(),
		a.varsCmd(),
		a.dumpCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Logging.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg, a.log = cfg, log
	if cfg.Path != "" {
		log.Debug("loaded configuration", zap.String("path", cfg.Path))
	}
	return nil
}

// generator returns a generator over the flag and configured template
// directories, and the template host it reads from.
func (a *app) generator() (*ojtemplate.Generator, *ojtemplate.TemplateHost, error) {
	dirs := append(append([]string(nil), a.templateDirs...), a.cfg.TemplateDirs...)
	roots := make([]fs.FS, len(dirs))
	for i, dir := range dirs {
		roots[i] = os.DirFS(dir)
	}
	host, err := ojtemplate.NewTemplateHost(roots...)
	if err != nil {
		return nil, nil, err
	}
	gen, err := ojtemplate.NewGenerator(host, a.cfg.Style, ojtemplate.WithLogger(a.log))
	if err != nil {
		return nil, nil, err
	}
	return gen, host, nil
}

// readFormat decodes the format tree at path, "-" for standard input. An
// empty document yields a nil tree.
func readFormat(cmd *cobra.Command, path string) (format.Node, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	root, err := format.Decode(data)
	if errors.Is(err, format.ErrEmpty) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func readProblem(cmd *cobra.Command, input, output string) (ojtemplate.Problem, error) {
	var p ojtemplate.Problem
	var err error
	if p.Input, err = readFormat(cmd, input); err != nil {
		return p, err
	}
	if output != "" {
		if p.Output, err = readFormat(cmd, output); err != nil {
			return p, err
		}
	}
	return p, nil
}
