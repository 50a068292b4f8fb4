// Package config loads the ojtemplate configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ojtools/ojtemplate/style"
)

// Config is the complete configuration of the ojtemplate command.
type Config struct {
	Style *style.Config `yaml:"style"`
	// Templates maps output files, relative to the problem directory, to
	// template names.
	Templates map[string]string `yaml:"templates"`
	// TemplateDirs are searched in order before the builtin templates.
	TemplateDirs []string `yaml:"template_dirs"`
	Logging      Logging  `yaml:"logging"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Logging configures the command's logger.
type Logging struct {
	Level    string `yaml:"level"`    // debug, info, warn or error
	Encoding string `yaml:"encoding"` // console or json
}

// DefaultTemplates returns the files prepared for a problem when the
// configuration names none.
func DefaultTemplates() map[string]string {
	return map[string]string{
		"main.cpp":    "main.cpp",
		"generate.py": "generate.py",
	}
}

// Defaults returns the configuration used when no file is found.
func Defaults() *Config {
	return &Config{
		Style:     style.Default(),
		Templates: DefaultTemplates(),
		Logging: Logging{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads the configuration at path. If path is empty it searches
// $OJTEMPLATE_CONFIG, ./ojtemplate.yaml and the user configuration directory,
// and returns Defaults if none exists.
//
// ${VAR} and ${VAR:-default} are replaced by getenv values before parsing. A
// .env file beside the configuration supplies variables getenv does not define.
func Load(path string, getenv func(string) string) (*Config, error) {
	path, err := resolvePath(path, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := Defaults()
		if dir := UserDir(getenv); dir != "" {
			cfg.TemplateDirs = []string{filepath.Join(dir, "template")}
		}
		return cfg, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	lookup := getenv
	dotenv, err := godotenv.Read(filepath.Join(baseDir, ".env"))
	if err == nil {
		lookup = func(key string) string {
			if v := getenv(key); v != "" {
				return v
			}
			return dotenv[key]
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	data = interpolateEnv(data, lookup)

	cfg := Defaults()
	cfg.Templates = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = absPath
	if cfg.Style == nil {
		cfg.Style = style.Default()
	}
	if cfg.Templates == nil {
		cfg.Templates = DefaultTemplates()
	}

	home := getenv("HOME")
	for i, dir := range cfg.TemplateDirs {
		switch {
		case home != "" && (dir == "~" || strings.HasPrefix(dir, "~/")):
			cfg.TemplateDirs[i] = filepath.Join(home, dir[1:])
		case dir != "" && !filepath.IsAbs(dir):
			cfg.TemplateDirs[i] = filepath.Join(baseDir, dir)
		}
	}

	if err := validateBasic(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserDir returns the online-judge-tools directory of the user configuration
// directory, or "" if it cannot be determined from getenv.
func UserDir(getenv func(string) string) string {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "online-judge-tools")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "online-judge-tools")
	}
	return ""
}

// resolvePath finds the config file to use, "" if there is none.
// Search order: explicit path > OJTEMPLATE_CONFIG > ./ojtemplate.yaml > user directory.
func resolvePath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	if envPath := getenv("OJTEMPLATE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("OJTEMPLATE_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}
	if _, err := os.Stat("ojtemplate.yaml"); err == nil {
		return "ojtemplate.yaml", nil
	}
	if dir := UserDir(getenv); dir != "" {
		p := filepath.Join(dir, "ojtemplate.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

func validateBasic(cfg *Config) error {
	var errs []string

	if err := cfg.Style.Validate(); err != nil {
		errs = append(errs, "style: "+err.Error())
	}
	if strings.Trim(cfg.Style.Indent, " \t") != "" {
		errs = append(errs, fmt.Sprintf("style: indent %q must contain only spaces and tabs", cfg.Style.Indent))
	}

	files := make([]string, 0, len(cfg.Templates))
	for file := range cfg.Templates {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		name := cfg.Templates[file]
		if file == "" || filepath.IsAbs(file) || !fs.ValidPath(path.Clean(filepath.ToSlash(file))) {
			errs = append(errs, fmt.Sprintf("templates: output file %q must be a relative path inside the problem directory", file))
		}
		if !fs.ValidPath(name) || name == "." {
			errs = append(errs, fmt.Sprintf("templates[%s]: invalid template name %q", file, name))
		}
	}

	for i, dir := range cfg.TemplateDirs {
		if dir == "" {
			errs = append(errs, fmt.Sprintf("template_dirs[%d]: path is required", i))
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}
	validEncodings := map[string]bool{"console": true, "json": true}
	if !validEncodings[cfg.Logging.Encoding] {
		errs = append(errs, fmt.Sprintf("invalid log encoding: %s (must be console or json)", cfg.Logging.Encoding))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
