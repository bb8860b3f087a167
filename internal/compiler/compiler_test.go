package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/config"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/lexer/token"
	"github.com/HicaroD/herb/internal/testutil"
)

func TestEmitWritesOneFilePerModule(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"main.herb":     "import .lib.math; fn main() { print(math.add(1, 2)); }",
		"lib/math.herb": "fn add(a: int, b: int): int { return a + b; }",
	})
	project := testutil.NewProject(root, nil)

	c := New(project, zap.NewNop())
	irFiles, err := c.Emit(filepath.Join(root, "main.herb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(irFiles) != 2 {
		t.Fatalf("expected 2 IR files, got %v", irFiles)
	}
	for _, irFile := range irFiles {
		if filepath.Dir(irFile) != project.BuildDir() {
			t.Errorf("expected %s inside %s", irFile, project.BuildDir())
		}
		if filepath.Ext(irFile) != IR_EXT {
			t.Errorf("unexpected extension for %s", irFile)
		}
	}
	if !strings.HasPrefix(filepath.Base(irFiles[0]), "math_") {
		t.Errorf("expected the import first, got %v", irFiles)
	}

	entry, err := os.ReadFile(irFiles[1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(entry), "define i32 @main()") {
		t.Errorf("expected the entry module to define main:\n%s", entry)
	}
}

func TestCompileReportsDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		kind     diagnostics.ErrorKind
		messages []string
	}{
		{
			name: "import cycle",
			files: map[string]string{
				"main.herb": "import .a; fn main() {}",
				"a.herb":    "import .b; fn f() {}",
				"b.herb":    "import .a; fn g() {}",
			},
			kind:     diagnostics.DEPENDENCY,
			messages: []string{"Circular imports are not allowed"},
		},
		{
			name: "missing return",
			files: map[string]string{
				"main.herb": "fn f(): int { if (true) { return 1; } } fn main() {}",
			},
			kind:     diagnostics.CONTROL_FLOW,
			messages: []string{"The 'f' must return a value in all cases"},
		},
		{
			name: "operand mismatch",
			files: map[string]string{
				"main.herb": "fn main() { var x = 1 + true; }",
			},
			kind:     diagnostics.TYPE,
			messages: []string{"Expected 'int' but received 'bool'"},
		},
		{
			name: "error in an import stops the run",
			files: map[string]string{
				"main.herb": "import .lib; fn main() { var y = missing; }",
				"lib.herb":  "fn f() { print(nothing); }",
			},
			kind:     diagnostics.RESOLUTION,
			messages: []string{"Symbol not found."},
		},
		{
			name: "missing main",
			files: map[string]string{
				"main.herb": "fn start() {}",
			},
			kind:     diagnostics.RESOLUTION,
			messages: []string{"Entry module must have a 'main' function"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := testutil.WriteProject(t, test.files)
			project := testutil.NewProject(root, nil)

			c := New(project, zap.NewNop())
			err := c.Compile(filepath.Join(root, "main.herb"))
			if err == nil {
				t.Fatal("expected an error")
			}

			collector := c.Diagnostics()
			got := testutil.Messages(collector)
			if len(got) != len(test.messages) {
				t.Fatalf("expected %v, got %v", test.messages, got)
			}
			for i := range got {
				if got[i] != test.messages[i] {
					t.Fatalf("expected %v, got %v", test.messages, got)
				}
			}
			if collector.Count(test.kind) != len(test.messages) {
				t.Errorf("expected every diagnostic to be a %s, got %v", test.kind, collector.Diags)
			}

			errs := multierr.Errors(err)
			if len(errs) != len(test.messages) {
				t.Fatalf("expected %d combined errors, got %v", len(test.messages), errs)
			}
			var diag diagnostics.Diag
			if !errors.As(errs[0], &diag) {
				t.Fatalf("expected a diagnostic, got %T", errs[0])
			}
		})
	}
}

func TestOperandMismatchInGlobalConstant(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"main.herb": "const x: = 1 + true;\nfn main() {}",
	})
	project := testutil.NewProject(root, nil)

	c := New(project, zap.NewNop())
	if err := c.Compile(filepath.Join(root, "main.herb")); err == nil {
		t.Fatal("expected an error")
	}

	c.Diagnostics().Sort()
	got := c.Diagnostics().Diags
	for i := range got {
		if filepath.Base(got[i].Pos.Filename) != "main.herb" {
			t.Fatalf("unexpected file in %v", got[i])
		}
		got[i].Pos.Filename = "main.herb"
	}
	expected := []diagnostics.Diag{
		{
			Kind:    diagnostics.RESOLUTION,
			Pos:     token.NewPosition("main.herb", 1, 12),
			Message: "Global variable initializer can only be a literal.",
			Hint:    "Compute the value inside a function and assign it to 'x' there",
		},
		{
			Kind:    diagnostics.TYPE,
			Pos:     token.NewPosition("main.herb", 1, 16),
			Message: "Expected 'int' but received 'bool'",
			Hint:    "Operator '+' expects operands of type 'int'",
		},
	}
	if !reflect.DeepEqual(expected, got) {
		t.Fatalf("\nexpected diags: %v\ngot diags: %v", expected, got)
	}
	if _, err := os.Stat(project.BuildDir()); err == nil {
		entries, _ := os.ReadDir(project.BuildDir())
		if len(entries) != 0 {
			t.Errorf("expected no IR to be emitted, got %v", entries)
		}
	}
}

func TestCompileMissingEntry(t *testing.T) {
	root := t.TempDir()
	err := Compile(filepath.Join(root, "nope.herb"), testutil.NewProject(root, nil))
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("expected a missing file error, got %v", err)
	}
}

func TestCompileWithoutRuntime(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"main.herb": "fn main() { print(1); }",
	})
	project := testutil.NewProject(root, nil)
	project.Runtime = filepath.Join(root, "runtime")

	c := New(project, zap.NewNop())
	if err := c.Compile(filepath.Join(root, "main.herb")); err == nil {
		t.Fatal("expected an error")
	}

	diags := c.Diagnostics().Diags
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	expected := "cannot find runtime artifacts in " + project.RuntimeArtifactsDir()
	if diags[0].Kind != diagnostics.BACKEND || diags[0].Message != expected {
		t.Fatalf("expected %q, got %v", expected, diags[0])
	}
}

func TestCompileLinkerFailures(t *testing.T) {
	tests := []struct {
		name    string
		linker  string
		message string
	}{
		{name: "non-zero exit", linker: "false", message: "false returned non-null exit code"},
		{name: "missing linker", linker: "herb-no-such-linker", message: "cannot run linker 'herb-no-such-linker'"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := testutil.WriteProject(t, map[string]string{
				"main.herb":                "fn main() {}",
				"runtime/build/runtime.ll": "; runtime",
				"runtime/build/README":     "not an artifact",
			})
			project := testutil.NewProject(root, nil)
			project.Runtime = filepath.Join(root, "runtime")
			project.Linker = test.linker

			c := New(project, zap.NewNop())
			if err := c.Compile(filepath.Join(root, "main.herb")); err == nil {
				t.Fatal("expected an error")
			}

			diags := c.Diagnostics().Diags
			if len(diags) != 1 || diags[0].Message != test.message {
				t.Fatalf("expected %q, got %v", test.message, diags)
			}
		})
	}
}

func TestRuntimeArtifacts(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"build/b.ll":      "",
		"build/a.ll":      "",
		"build/notes.txt": "",
		"build/dir.ll/x":  "",
	})

	artifacts, err := runtimeArtifacts(filepath.Join(root, "build"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(root, "build", "a.ll"), filepath.Join(root, "build", "b.ll")}
	if len(artifacts) != len(expected) || artifacts[0] != expected[0] || artifacts[1] != expected[1] {
		t.Fatalf("expected %v, got %v", expected, artifacts)
	}

	artifacts, err = runtimeArtifacts(filepath.Join(root, "missing"))
	if err != nil || len(artifacts) != 0 {
		t.Fatalf("expected no artifacts and no error, got %v %v", artifacts, err)
	}
}

func TestLinkArgs(t *testing.T) {
	project := testutil.NewProject(t.TempDir(), nil)
	c := New(project, nil)

	args := strings.Join(c.linkArgs([]string{"a.ll", "main.ll"}, []string{"rt.ll"}, "prog"), " ")
	if args != "-O0 -o prog a.ll main.ll rt.ll" {
		t.Errorf("unexpected debug args %q", args)
	}

	project.BuildType = config.RELEASE
	args = strings.Join(c.linkArgs([]string{"main.ll"}, []string{"rt.ll"}, "prog"), " ")
	if args != "-O3 -Wl,-s -o prog main.ll rt.ll" {
		t.Errorf("unexpected release args %q", args)
	}
}

func TestOutputPath(t *testing.T) {
	project := testutil.NewProject("/src", nil)
	c := New(project, nil)

	if got := c.outputPath("/src/app/hello.herb"); got != filepath.Join("/src", "hello") {
		t.Errorf("unexpected default output %s", got)
	}
	project.Output = "/bin/hello"
	if got := c.outputPath("/src/app/hello.herb"); got != "/bin/hello" {
		t.Errorf("unexpected configured output %s", got)
	}
}
