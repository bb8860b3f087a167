package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/compiler"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/testutil"
)

// runtimeSource is the C runtime every executable links against.
var runtimeSource = filepath.Join("..", "..", "runtime", "runtime.c")

func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("HERB_E2E") != "1" {
		t.Skip("set HERB_E2E=1 to link and run executables")
	}
}

// buildRuntime compiles the C runtime to IR under a fresh runtime directory.
func buildRuntime(t *testing.T) string {
	t.Helper()
	runtimeDir := t.TempDir()
	buildDir := filepath.Join(runtimeDir, "build")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command("clang", "-S", "-emit-llvm", "-o", filepath.Join(buildDir, "runtime.ll"), runtimeSource)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building runtime: %v\n%s", err, out)
	}
	return runtimeDir
}

// compileFile compiles a test program and returns what the executable wrote
// to stdout. The program only runs when compilation succeeded.
func compileFile(t *testing.T, path string, run bool) (string, *diagnostics.Collector) {
	t.Helper()
	root := t.TempDir()
	project := testutil.NewProject(root, nil)
	project.Output = filepath.Join(root, "program")

	c := compiler.New(project, zap.NewNop())
	if !run {
		_, err := c.Emit(path)
		if err != nil && !c.Diagnostics().HasErrors() {
			t.Fatalf("unexpected error: %v", err)
		}
		return "", c.Diagnostics()
	}

	project.Runtime = buildRuntime(t)
	if err := c.Compile(path); err != nil {
		return "", c.Diagnostics()
	}

	var stdout bytes.Buffer
	cmd := exec.Command(project.Output)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("running %s: %v", project.Output, err)
	}
	return stdout.String(), c.Diagnostics()
}

func TestCompilePrograms(t *testing.T) {
	requireE2E(t)

	tests := []struct {
		file     string
		expected string
	}{
		{file: "testdata/print.herb", expected: "1\ntrue\ns\n"},
		{file: "testdata/fib.herb", expected: "55\n"},
		{file: "testdata/calculator.herb", expected: "8\n6\n42\n"},
		{file: "testdata/loop.herb", expected: "0\n2\n4\ndone\n"},
		{file: "testdata/entrypoint.herb", expected: "hello from lib\n3\n"},
	}

	for _, test := range tests {
		t.Run(filepath.Base(test.file), func(t *testing.T) {
			output, diags := compileFile(t, test.file, true)
			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags.Diags)
			}
			if output != test.expected {
				t.Errorf("expected %q, got %q", test.expected, output)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		file     string
		kind     diagnostics.ErrorKind
		contains string
	}{
		{file: "testdata/errors/undefined_var.herb", kind: diagnostics.RESOLUTION, contains: "'y' is not declared"},
		{file: "testdata/errors/type_mismatch.herb", kind: diagnostics.TYPE, contains: "Expected 'int' but received 'str'"},
		{file: "testdata/errors/bad_syntax.herb", kind: diagnostics.SYNTAX},
		{file: "testdata/errors/missing_return.herb", kind: diagnostics.CONTROL_FLOW, contains: "must return a value in all cases"},
		{file: "testdata/errors/cycle.herb", kind: diagnostics.DEPENDENCY, contains: "→"},
	}

	for _, test := range tests {
		t.Run(filepath.Base(test.file), func(t *testing.T) {
			_, diags := compileFile(t, test.file, false)
			if diags.Count(test.kind) == 0 {
				t.Fatalf("expected a %s, got: %v", test.kind, diags.Diags)
			}

			found := false
			for _, diag := range diags.Diags {
				if strings.Contains(diag.Error(), test.contains) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected an error containing %q, got: %v", test.contains, diags.Diags)
			}
		})
	}
}
