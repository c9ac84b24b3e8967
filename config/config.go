// Package config loads esq.yaml project files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dhamidi/esq/js/parser"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up by Find.
const FileName = "esq.yaml"

// Config holds the parse settings shared by the CLI commands.
type Config struct {
	BaseDir       string   `yaml:"-"` // directory containing the config file
	Strict        bool     `yaml:"strict"`
	Comments      bool     `yaml:"comments"`
	Positions     bool     `yaml:"positions"`
	Recover       bool     `yaml:"recover"`
	ValidateRegex bool     `yaml:"validate_regex"`
	Format        string   `yaml:"format"`  // json or tree
	Include       []string `yaml:"include"` // globs checked by `esq check` without arguments
}

func Defaults() *Config {
	return &Config{
		Strict:    true,
		Positions: true,
		Format:    "json",
		Include:   []string{"*.js"},
	}
}

// Load reads the config file at path. Keys missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for esq.yaml in dir and its parents and loads the first one.
// Without a project file it returns the defaults rooted at dir.
func Find(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	for d := absDir; ; {
		path := filepath.Join(d, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	cfg := Defaults()
	cfg.BaseDir = absDir
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case "json", "tree":
	default:
		return fmt.Errorf("unknown format %q (expected json or tree)", c.Format)
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// ParserOptions translates the settings into parser options.
func (c *Config) ParserOptions() []parser.Option {
	opts := []parser.Option{parser.WithStrict(c.Strict)}
	if c.Comments {
		opts = append(opts, parser.WithComments())
	}
	if c.Positions {
		opts = append(opts, parser.WithPositions())
	}
	if c.Recover {
		opts = append(opts, parser.WithRecovery())
	}
	if c.ValidateRegex {
		opts = append(opts, parser.WithRegexValidation())
	}
	return opts
}

// Files expands the include globs relative to BaseDir. The result is sorted
// and free of duplicates.
func (c *Config) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Include {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.BaseDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
