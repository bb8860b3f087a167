package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/config"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/parser"
)

const DefaultFilename = "test.herb"

// ParseModule parses src as a module stored at filename and fails the test on
// syntax errors.
func ParseModule(t testing.TB, filename, src string) (*ast.Module, *diagnostics.Collector) {
	t.Helper()
	if filename == "" {
		filename = DefaultFilename
	}
	collector := diagnostics.New()
	mod, err := parser.ParseModuleFrom(filename, src, collector)
	if err != nil {
		t.Fatalf("unexpected syntax error: %v %v", err, collector.Diags)
	}
	return mod, collector
}

// WriteProject writes every file under a fresh temporary directory and
// returns that directory. Keys are slash-separated paths relative to the root.
func WriteProject(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// NewProject returns a debug project rooted at root with no env file.
func NewProject(root string, packages map[string]string) *config.Project {
	project := config.NewProject(root, &config.Envs{})
	for name, dir := range packages {
		project.RootPackages[name] = dir
	}
	return project
}

// Messages returns the message of every collected diagnostic in report
// order.
func Messages(collector *diagnostics.Collector) []string {
	messages := make([]string, len(collector.Diags))
	for i, diag := range collector.Diags {
		messages[i] = diag.Message
	}
	return messages
}

// FindNodes returns every node of the given kind reachable from root, in
// depth-first order.
func FindNodes(root *ast.Node, kind ast.NodeKind) []*ast.Node {
	var found []*ast.Node
	ast.Inspect(root, func(n *ast.Node) bool {
		if n.Kind == kind {
			found = append(found, n)
		}
		return true
	})
	return found
}
