package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojtools/ojtemplate/style"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "ojtemplate.yaml", `
style:
  scanner: cin
  printer: cout
  rep_macro: REP
  indent: "  "
  using_namespace_std: false
templates:
  main.cpp: main.cpp
  test/gen.py: generate.py
template_dirs:
  - templates
  - ~/oj/template
  - /opt/oj/template
logging:
  level: debug
  encoding: json
`)
	cfg, err := Load(p, env(map[string]string{"HOME": "/home/judge"}))
	require.NoError(t, err)

	assert.Equal(t, style.ScanStream, cfg.Style.Scanner.Kind())
	assert.Equal(t, style.PrintStream, cfg.Style.Printer.Kind())
	assert.Equal(t, "REP", cfg.Style.RepMacro.Macro)
	assert.Equal(t, "  ", cfg.Style.Indent)
	assert.False(t, cfg.Style.UsingNamespaceStd)
	assert.Equal(t, map[string]string{"main.cpp": "main.cpp", "test/gen.py": "generate.py"}, cfg.Templates)
	assert.Equal(t, []string{
		filepath.Join(dir, "templates"),
		filepath.Join("/home/judge", "oj/template"),
		"/opt/oj/template",
	}, cfg.TemplateDirs)
	assert.Equal(t, Logging{Level: "debug", Encoding: "json"}, cfg.Logging)
	assert.Equal(t, p, cfg.Path)
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "ojtemplate.yaml", "style:\n  scanner: cin\n")
	cfg, err := Load(p, env(nil))
	require.NoError(t, err)
	assert.Equal(t, style.DefaultIndent, cfg.Style.Indent)
	assert.True(t, cfg.Style.UsingNamespaceStd)
	assert.Equal(t, style.ScanStream, cfg.Style.Scanner.Kind())
	assert.Equal(t, DefaultTemplates(), cfg.Templates)
	assert.Equal(t, Defaults().Logging, cfg.Logging)
}

func TestLoadInterpolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "OJ_SCANNER=cin\nOJ_LEVEL=warn\n")
	p := writeFile(t, dir, "ojtemplate.yaml", `
style:
  scanner: ${OJ_SCANNER}
  rep_macro: ${OJ_MACRO:-rep}
logging:
  level: ${OJ_LEVEL}
  encoding: ${OJ_ENCODING:-console}
template_dirs: ["${OJ_TEMPLATES}"]
`)
	cfg, err := Load(p, env(map[string]string{
		"OJ_LEVEL":     "error",
		"OJ_TEMPLATES": "/srv/templates",
	}))
	require.NoError(t, err)
	assert.Equal(t, style.ScanStream, cfg.Style.Scanner.Kind(), "value from .env")
	assert.Equal(t, "rep", cfg.Style.RepMacro.Macro, "default value")
	assert.Equal(t, "error", cfg.Logging.Level, "environment wins over .env")
	assert.Equal(t, []string{"/srv/templates"}, cfg.TemplateDirs)

	_, ok := os.LookupEnv("OJ_SCANNER")
	assert.False(t, ok, ".env must not leak into the process environment")
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "ojtemplate.yaml", `
style:
  scanner: gets
  indent: "--"
templates:
  ../escape.cpp: main.cpp
  main.cpp: ../main.cpp
logging:
  level: loud
  encoding: xml
`)
	_, err := Load(p, env(nil))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "configuration errors:\n  - ")
	for _, want := range []string{
		`style: unsupported style option: scanner="gets"`,
		`style: indent "--" must contain only spaces and tabs`,
		`templates: output file "../escape.cpp" must be a relative path inside the problem directory`,
		`templates[main.cpp]: invalid template name "../main.cpp"`,
		"invalid log level: loud",
		"invalid log encoding: xml",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
	assert.ErrorContains(t, err, "config file not found")

	_, err = Load("", env(map[string]string{"OJTEMPLATE_CONFIG": "/nonexistent/ojtemplate.yaml"}))
	assert.ErrorContains(t, err, "OJTEMPLATE_CONFIG file not found")

	p := writeFile(t, t.TempDir(), "bad.yaml", "style: [1, 2\n")
	_, err = Load(p, env(nil))
	assert.ErrorContains(t, err, "failed to parse config")

	p = writeFile(t, t.TempDir(), "hook.yaml", "style:\n  printer: {template: \"{{.Missing}}\"}\n")
	_, err = Load(p, env(nil))
	assert.ErrorIs(t, err, style.ErrUnsupportedOption)
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "custom.yaml", "templates: {main.py: main.py}\n")
	cfg, err := Load("", env(map[string]string{"OJTEMPLATE_CONFIG": p}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"main.py": "main.py"}, cfg.Templates)
}

func TestLoadUserDirectory(t *testing.T) {
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "online-judge-tools"), 0o755))
	t.Chdir(t.TempDir())

	cfg, err := Load("", env(map[string]string{"XDG_CONFIG_HOME": xdg}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, []string{filepath.Join(xdg, "online-judge-tools", "template")}, cfg.TemplateDirs)

	writeFile(t, filepath.Join(xdg, "online-judge-tools"), "ojtemplate.yaml", "logging: {level: warn}\n")
	cfg, err = Load("", env(map[string]string{"XDG_CONFIG_HOME": xdg}))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestUserDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/x", "online-judge-tools"), UserDir(env(map[string]string{"XDG_CONFIG_HOME": "/x", "HOME": "/h"})))
	assert.Equal(t, filepath.Join("/h", ".config", "online-judge-tools"), UserDir(env(map[string]string{"HOME": "/h"})))
	assert.Empty(t, UserDir(env(nil)))
}
