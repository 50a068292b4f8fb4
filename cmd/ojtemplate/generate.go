package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ojtools/ojtemplate"
)

func (a *app) generateCmd() *cobra.Command {
	var tmpl, output string
	cmd := &cobra.Command{
		Use:   "generate [flags] FORMAT",
		Short: "Render one template to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProblem(cmd, args[0], output)
			if err != nil {
				return err
			}
			gen, _, err := a.generator()
			if err != nil {
				return err
			}
			src, err := gen.Generate(cmd.Context(), p, tmpl)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
	cmd.Flags().StringVarP(&tmpl, "template", "t", "main.cpp", "template name")
	cmd.Flags().StringVar(&output, "output-format", "", "format tree of the problem's output")
	return cmd
}

func (a *app) prepareCmd() *cobra.Command {
	var dir, output string
	var force bool
	cmd := &cobra.Command{
		Use:   "prepare [flags] FORMAT",
		Short: "Render the configured templates into a problem directory",
		Long: `prepare renders every entry of the templates table of the configuration
(default: main.cpp and generate.py) into the problem directory. Templates that
fail are logged and skipped. Existing files are kept unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProblem(cmd, args[0], output)
			if err != nil {
				return err
			}
			gen, _, err := a.generator()
			if err != nil {
				return err
			}
			return a.prepare(cmd.Context(), gen, p, dir, force)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "problem directory")
	cmd.Flags().StringVar(&output, "output-format", "", "format tree of the problem's output")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}

// prepare writes the rendered templates under dir.
func (a *app) prepare(ctx context.Context, gen *ojtemplate.Generator, p ojtemplate.Problem, dir string, force bool) error {
	a.log.Info("use directory", zap.String("dir", dir))
	for _, r := range gen.GenerateAll(ctx, p, a.cfg.Templates) {
		if r.Err != nil {
			continue
		}
		dest := filepath.Join(dir, filepath.FromSlash(r.File))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if !force {
			if _, err := os.Stat(dest); err == nil {
				a.log.Error("file already exists", zap.String("file", dest))
				continue
			}
		}
		if err := os.WriteFile(dest, r.Output, 0o644); err != nil {
			return err
		}
		a.log.Info("write file", zap.String("file", dest))
	}
	return nil
}
