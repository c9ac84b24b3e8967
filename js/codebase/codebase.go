// Package codebase keeps parsed source documents for the language server and
// the check command.
package codebase

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/esq/js/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("esq.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	options []parser.Option
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	// AST is the recovered tree. It may contain Error nodes.
	AST    *parser.Node
	Errors []error
	// Version counts updates of this path.
	Version int
}

// New returns an empty codebase. opts are passed to every parse in addition
// to WithFile, WithPositions and WithRecovery.
func New(rootDir string, opts ...parser.Option) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		options: opts,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSource reports whether path names a script or module file.
func IsSource(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".mjs", ".cjs", ".esq":
		return true
	}
	return false
}

func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || name == "node_modules")
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile reparses path from content and returns the new file state.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	opts := append([]parser.Option{
		parser.WithFile(path),
		parser.WithPositions(),
		parser.WithRecovery(),
	}, c.options...)
	ast, err := parser.ParseProgram(bytes.NewReader(content), opts...).Finish()

	info := &FileInfo{
		Path:    path,
		Content: content,
		AST:     ast,
		Errors:  splitErrors(err),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev := c.files[path]; prev != nil {
		info.Version = prev.Version + 1
	}
	c.files[path] = info
	log.Debugf("parsed %s: %d errors", path, len(info.Errors))
	return info
}

func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	var list parser.ErrorList
	if errors.As(err, &list) {
		return list
	}
	return []error{err}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Diagnostics returns the errors of path in source order.
func (c *Codebase) Diagnostics(path string) []Diagnostic {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return DiagnosticsFromErrors(f.Errors)
}

func (c *Codebase) Symbols(path string) []Symbol {
	f := c.GetFile(path)
	if f == nil || f.AST == nil {
		return nil
	}
	return Symbols(f.AST)
}

// NodesAtPoint returns the chain of nodes enclosing the 1-based line and
// column, outermost first.
func (c *Codebase) NodesAtPoint(path string, line, column int) []*parser.Node {
	f := c.GetFile(path)
	if f == nil || f.AST == nil {
		return nil
	}
	return NodesAtPoint(f.AST, parser.Position{Line: line, Column: column})
}
