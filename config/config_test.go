package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if !cfg.Strict {
		t.Error("expected strict mode by default")
	}
	if cfg.Format != "json" {
		t.Errorf("got format %q, want json", cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "strict: false\nrecover: true\nformat: tree\ninclude:\n  - src/*.js\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strict {
		t.Error("strict should be false")
	}
	if !cfg.Recover {
		t.Error("recover should be true")
	}
	if !cfg.Positions {
		t.Error("positions should keep its default")
	}
	if cfg.Format != "tree" {
		t.Errorf("got format %q, want tree", cfg.Format)
	}
	if cfg.BaseDir != dir {
		t.Errorf("got base dir %q, want %q", cfg.BaseDir, dir)
	}
	if got := len(cfg.ParserOptions()); got != 3 {
		t.Errorf("got %d parser options, want 3", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "strict: [", "parse config"},
		{"bad format", "format: xml", "unknown format"},
		{"bad glob", "include: ['[']", "bad include pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "comments: true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Comments {
		t.Error("expected the parent config to be loaded")
	}
	if cfg.BaseDir != root {
		t.Errorf("got base dir %q, want %q", cfg.BaseDir, root)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.js"), "")
	writeFile(t, filepath.Join(dir, "a.js"), "")
	writeFile(t, filepath.Join(dir, "src", "c.js"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	cfg := Defaults()
	cfg.BaseDir = dir
	cfg.Include = []string{"*.js", "src/*.js", "a.js"}

	files, err := cfg.Files()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "b.js"),
		filepath.Join(dir, "src", "c.js"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", files, want)
	}
}
