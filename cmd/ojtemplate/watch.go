package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ojtools/ojtemplate/internal/config"
)

func (a *app) watchCmd() *cobra.Command {
	var dir, output string
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [flags] FORMAT",
		Short: "Re-render the configured templates whenever their inputs change",
		Long: `watch runs prepare --force into --dir, then again every time the format
tree, the configuration file or a file in a template directory changes, until
interrupted. It is meant for previewing templates while editing them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, args[0], output, dir, debounce)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVar(&output, "output-format", "", "format tree of the problem's output")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "wait for changes to settle this long")
	return cmd
}

func (a *app) watch(cmd *cobra.Command, input, output, dir string, debounce time.Duration) error {
	ctx := cmd.Context()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := map[string]bool{}
	for _, f := range []string{input, output} {
		if f == "" || f == "-" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files[abs] = true
	}
	if a.cfg.Path != "" {
		files[a.cfg.Path] = true
	}
	dirs := map[string]bool{}
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	var templateDirs []string
	for _, d := range append(append([]string(nil), a.templateDirs...), a.cfg.TemplateDirs...) {
		abs, err := filepath.Abs(d)
		if err != nil {
			return err
		}
		templateDirs = append(templateDirs, abs)
		dirs[abs] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			a.log.Warn("failed to watch directory", zap.String("dir", d), zap.Error(err))
			continue
		}
		a.log.Debug("watching", zap.String("dir", d))
	}

	gen, host, err := a.generator()
	if err != nil {
		return err
	}
	run := func() {
		p, err := readProblem(cmd, input, output)
		if err != nil {
			a.log.Error("failed to read format", zap.Error(err))
			return
		}
		if err := a.prepare(ctx, gen, p, dir, true); err != nil {
			a.log.Error("prepare failed", zap.Error(err))
		}
	}
	run()

	var (
		configChanged   bool
		templateChanged bool
	)
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			switch {
			case name == a.cfg.Path:
				configChanged = true
			case files[name]:
			case under(name, templateDirs):
				templateChanged = true
			default:
				continue
			}
			a.log.Debug("changed", zap.String("file", name))
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if configChanged {
				if cfg, err := config.Load(a.cfg.Path, a.getenv); err != nil {
					a.log.Error("failed to reload configuration", zap.Error(err))
				} else {
					a.cfg = cfg
					if g, h, err := a.generator(); err != nil {
						a.log.Error("failed to reload configuration", zap.Error(err))
					} else {
						gen, host = g, h
						a.log.Info("reloaded configuration", zap.String("path", cfg.Path))
					}
				}
			} else if templateChanged {
				host.Purge()
			}
			configChanged, templateChanged = false, false
			run()
		}
	}
}

// under reports whether path is inside one of dirs.
func under(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
