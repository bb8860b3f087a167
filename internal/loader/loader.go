// Package loader finds every module reachable from an entry file through its
// imports, parses each of them once and orders them so that imports come
// before the modules that import them.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/config"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/parser"
)

type Loader struct {
	project   *config.Project
	collector *diagnostics.Collector
	logger    *zap.Logger

	// modules caches every parsed module by its absolute path.
	modules map[string]*ast.Module
	// loaded keeps the order modules were first parsed in.
	loaded []*ast.Module
}

func New(project *config.Project, collector *diagnostics.Collector, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		project:   project,
		collector: collector,
		logger:    logger,
		modules:   make(map[string]*ast.Module),
	}
}

// Load parses the entry module and everything it imports, directly or not.
// Modules are returned in dependency order with the entry module last.
func (l *Loader) Load(entryPath string) ([]*ast.Module, error) {
	path, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", entryPath)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, errors.Errorf("file not found: %s", entryPath)
	}

	entry, err := l.load(path)
	if err != nil {
		return nil, err
	}
	entry.IsEntry = true

	if l.collector.HasErrors() {
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	order, err := l.sort(entry)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("modules loaded", zap.Int("modules", len(order)))
	return order, nil
}

// Module returns the cached module parsed from path, if any.
func (l *Loader) Module(path string) (*ast.Module, bool) {
	mod, ok := l.modules[path]
	return mod, ok
}

func (l *Loader) load(path string) (*ast.Module, error) {
	if mod, ok := l.modules[path]; ok {
		return mod, nil
	}

	l.logger.Debug("parsing module", zap.String("path", path))

	mod, err := parser.New(l.collector).ParseFile(path)
	if err != nil {
		return nil, err
	}
	// cached before its imports so that a cycle finds it again
	l.modules[path] = mod
	l.loaded = append(l.loaded, mod)

	for _, node := range mod.Imports {
		imp := node.Node.(*ast.Import)
		importPath, ok := l.resolvePath(mod, node)
		if !ok {
			continue
		}
		imported, err := l.load(importPath)
		if err != nil {
			return nil, err
		}
		imp.Module = imported
	}
	return mod, nil
}

func (l *Loader) resolvePath(mod *ast.Module, node *ast.Node) (string, bool) {
	imp := node.Node.(*ast.Import)

	var path string
	if imp.IsRelative {
		path = filepath.Join(append([]string{mod.Dir()}, imp.Path...)...) + ast.FILE_EXT
	} else {
		rootName := imp.Path[0]
		root, ok := l.project.RootPackage(rootName)
		if !ok {
			l.collector.Report(
				diagnostics.RESOLUTION,
				node.Pos(),
				"This is an absolute import, resolved from the root package '"+rootName+"'. "+
					"If you wanted a relative import then try '."+imp.ImportPath()+"' or define the root package.",
				"Root package '%s' could not be resolved",
				rootName,
			)
			return "", false
		}

		if len(imp.Path) == 1 {
			path = filepath.Join(root, rootName) + ast.FILE_EXT
		} else {
			path = filepath.Join(append([]string{root}, imp.Path[1:]...)...) + ast.FILE_EXT
		}
	}

	path, err := filepath.Abs(path)
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(path)
		if err == nil && info.IsDir() {
			err = os.ErrNotExist
		}
	}
	if err != nil {
		hint := "path was resolved as " + path
		if !imp.IsRelative {
			hint += ". If you wanted a relative import then try '." + imp.ImportPath() + "'"
		}
		l.collector.Report(diagnostics.RESOLUTION, node.Pos(), hint, "Module '%s' not found", imp.ImportPath())
		return "", false
	}
	return path, true
}

type color int

const (
	white color = iota
	gray
	black
)

type sorter struct {
	colors map[*ast.Module]color
	stack  []*ast.Module
	order  []*ast.Module
}

// sort orders modules depth first, every module after the modules it
// imports. Reaching a module that is still on the stack is an import cycle.
func (l *Loader) sort(entry *ast.Module) ([]*ast.Module, error) {
	s := &sorter{colors: make(map[*ast.Module]color)}
	if err := l.visit(s, entry); err != nil {
		return nil, err
	}
	return s.order, nil
}

func (l *Loader) visit(s *sorter, mod *ast.Module) error {
	s.colors[mod] = gray
	s.stack = append(s.stack, mod)

	for _, node := range mod.Imports {
		imported := node.Node.(*ast.Import).Module
		switch s.colors[imported] {
		case white:
			if err := l.visit(s, imported); err != nil {
				return err
			}
		case gray:
			l.reportCycle(s.stack, imported, node)
			return diagnostics.ERR_COMPILATION_INTERRUPTED
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	s.colors[mod] = black
	s.order = append(s.order, mod)
	return nil
}

func (l *Loader) reportCycle(stack []*ast.Module, start *ast.Module, imp *ast.Node) {
	var cycle []string
	onCycle := false
	for _, mod := range stack {
		if mod == start {
			onCycle = true
		}
		if onCycle {
			cycle = append(cycle, l.displayPath(mod))
		}
	}
	cycle = append(cycle, l.displayPath(start))

	l.collector.Report(
		diagnostics.DEPENDENCY,
		imp.Pos(),
		strings.Join(cycle, " → "),
		"Circular imports are not allowed",
	)
}

// displayPath shortens paths inside the project root.
func (l *Loader) displayPath(mod *ast.Module) string {
	if l.project != nil && l.project.Root != "" {
		if rel, err := filepath.Rel(l.project.Root, mod.Path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return mod.Path
}
