package llvm

import (
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"tinygo.org/x/go-llvm"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/loader"
	"github.com/HicaroD/herb/internal/resolve"
	"github.com/HicaroD/herb/internal/sema"
	"github.com/HicaroD/herb/internal/testutil"
)

func analyze(t *testing.T, collector *diagnostics.Collector, mod *ast.Module) {
	t.Helper()
	resolver := resolve.New(collector, zap.NewNop())
	checker := sema.New(collector, zap.NewNop())
	steps := []func(*ast.Module) error{
		resolver.Resolve,
		checker.Check,
		resolver.CheckGlobalInitializers,
		checker.LowerBuiltins,
		func(mod *ast.Module) error { return sema.CheckTermination(collector, mod) },
	}
	for _, step := range steps {
		if err := step(mod); err != nil {
			t.Fatalf("unexpected error: %v %v", err, collector.Diags)
		}
	}
}

func generate(t *testing.T, mod *ast.Module) string {
	t.Helper()
	context := llvm.NewContext()
	t.Cleanup(context.Dispose)

	cg := NewCG(context, zap.NewNop())
	defer cg.Dispose()

	module, err := cg.Generate(mod)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v\n%s", err, module.String())
	}
	return module.String()
}

// generateEntry compiles src as the entry module of a single-file program.
func generateEntry(t *testing.T, src string) (*ast.Module, string) {
	t.Helper()
	mod, collector := testutil.ParseModule(t, "", src)
	mod.IsEntry = true
	analyze(t, collector, mod)
	return mod, generate(t, mod)
}

func TestGeneratePrintDispatch(t *testing.T) {
	_, ir := generateEntry(t, `fn main() { print(1); print(true); print("s"); }`)

	for _, expected := range []string{
		"declare void @print_int(i32)",
		"declare void @print_bool(i8)",
		"declare void @print_str(",
		"@print_int(i32 1)",
		"@print_bool(i8 1)",
		"@print_str(",
	} {
		if !strings.Contains(ir, expected) {
			t.Errorf("expected %q in:\n%s", expected, ir)
		}
	}
	if count := strings.Count(ir, "call void @print_"); count != 3 {
		t.Errorf("expected 3 runtime calls, got %d in:\n%s", count, ir)
	}
}

func TestGeneratePrintWidensBool(t *testing.T) {
	_, ir := generateEntry(t, `fn main() { var b = true; print(b); }`)

	if !strings.Contains(ir, "zext i1") {
		t.Fatalf("expected the bool to be widened to a byte:\n%s", ir)
	}
	if !strings.Contains(ir, "@print_bool(i8 %") {
		t.Fatalf("expected print_bool to receive the widened value:\n%s", ir)
	}
}

func TestGenerateLoopLocalsAllocatedOnce(t *testing.T) {
	src := `
fn main() {
	var i = 0;
	while i < 100 {
		var x = i * 2;
		if x > 10 {
			var y = x;
			print(y);
		}
		i = i + 1;
	}
}`
	_, ir := generateEntry(t, src)

	if count := strings.Count(ir, " = alloca "); count != 3 {
		t.Fatalf("expected 3 stack slots, got %d in:\n%s", count, ir)
	}
	cond := strings.Index(ir, ".whilecond:")
	for _, slot := range []string{"%x = alloca", "%y = alloca"} {
		idx := strings.Index(ir, slot)
		if idx < 0 || cond < 0 || idx > cond {
			t.Errorf("expected %q before the loop header in:\n%s", slot, ir)
		}
	}
}

func TestGenerateGlobals(t *testing.T) {
	src := `
var counter = 3;
const greeting = "hi";
const other = "hi";

fn add(a: int, b: int): int { return a + b; }

fn main() {
	counter = add(counter, 1);
	var f = add;
	print(f(1, 2));
	print(greeting);
	print(other);
}`
	mod, ir := generateEntry(t, src)
	prefix := "@" + mod.UniqueName()

	for _, expected := range []string{
		prefix + ".counter = global i32 3",
		prefix + ".greeting = constant",
		prefix + ".add.ref = constant",
		"define i32 " + prefix + ".add(i32 %a, i32 %b)",
		"define void " + prefix + ".main()",
		"define i32 @main()",
		"ret i32 0",
	} {
		if !strings.Contains(ir, expected) {
			t.Errorf("expected %q in:\n%s", expected, ir)
		}
	}
	// equal literals share one global
	if count := strings.Count(ir, "c\"hi\\00\""); count != 1 {
		t.Errorf("expected a single string global, got %d in:\n%s", count, ir)
	}
}

func TestGenerateControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name: "if chain",
			src: `
fn sign(n: int): int {
	if n < 0 { return -1; } else if n == 0 { return 0; } else { return 1; }
}
fn main() { print(sign(-4)); }`,
			expected: []string{".then:", ".else:", "icmp slt", "icmp eq"},
		},
		{
			name: "if without else",
			src: `
fn main() {
	var n = 3;
	if n >= 3 { n = 0; }
	print(n);
}`,
			expected: []string{".then:", ".ifend:", "icmp sge"},
		},
		{
			name: "short circuit",
			src: `
fn check(a: bool, b: bool): bool { return a && b || !a; }
fn main() { print(check(true, false)); }`,
			expected: []string{".rhs:", ".logicend:", "phi i1"},
		},
		{
			name: "arithmetic",
			src: `
fn calc(a: int, b: int): int { return (a + b) * (a - b) / 2 % 7 & 3 | 1; }
fn main() { print(calc(5, 2)); }`,
			expected: []string{"add i32", "sub i32", "mul i32", "sdiv i32", "srem i32", "and i32", "or i32"},
		},
		{
			name: "entrypoint",
			src: `
entrypoint {
	var i = 0;
	while i < 3 { i = i + 1; }
	if i == 3 { return; }
	print(i);
}`,
			expected: []string{"define i32 @main()", ".whilecond:", ".whilebody:", ".whileend:", "ret i32 0"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, ir := generateEntry(t, test.src)
			for _, expected := range test.expected {
				if !strings.Contains(ir, expected) {
					t.Errorf("expected %q in:\n%s", expected, ir)
				}
			}
		})
	}
}

func TestGenerateImportedModule(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"main.herb": "import .lib; fn main() { lib.total = lib.twice(lib.total); }",
		"lib.herb": `
var total = 1;
fn twice(x: int): int { return x * 2; }
entrypoint { print(total); }`,
	})

	collector := diagnostics.New()
	project := testutil.NewProject(root, nil)
	mods, err := loader.New(project, collector, zap.NewNop()).Load(filepath.Join(root, "main.herb"))
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}
	lib, main := mods[0], mods[1]

	irs := make([]string, len(mods))
	for i, mod := range mods {
		analyze(t, collector, mod)
		irs[i] = generate(t, mod)
	}
	libIR, mainIR := irs[0], irs[1]

	libPrefix := "@" + lib.UniqueName()
	for _, expected := range []string{
		libPrefix + ".total = external global i32",
		libPrefix + ".twice.ref = external constant",
	} {
		if !strings.Contains(mainIR, expected) {
			t.Errorf("expected %q in:\n%s", expected, mainIR)
		}
	}
	if !strings.Contains(mainIR, "define i32 @main()") {
		t.Errorf("expected the entry module to define main:\n%s", mainIR)
	}

	// only the entry module turns its program start into main
	if strings.Contains(libIR, "@main()") {
		t.Errorf("unexpected main in the imported module:\n%s", libIR)
	}
	if !strings.Contains(libIR, "define i32 "+libPrefix+".twice(i32 %x)") {
		t.Errorf("expected twice to be defined in:\n%s", libIR)
	}
	if main.UniqueName() == lib.UniqueName() {
		t.Fatal("expected distinct module names")
	}
}

func TestGetType(t *testing.T) {
	context := llvm.NewContext()
	defer context.Dispose()
	cg := NewCG(context, nil)
	defer cg.Dispose()

	tests := []struct {
		ty       *ast.Ty
		expected llvm.TypeKind
	}{
		{ast.INT_TY, llvm.IntegerTypeKind},
		{ast.BOOL_TY, llvm.IntegerTypeKind},
		{ast.STR_TY, llvm.PointerTypeKind},
		{ast.VOID_TY, llvm.VoidTypeKind},
		{ast.NewFuncTy([]*ast.Ty{ast.INT_TY}, ast.BOOL_TY), llvm.PointerTypeKind},
	}
	for _, test := range tests {
		if got := cg.getType(test.ty).TypeKind(); got != test.expected {
			t.Errorf("%s: expected type kind %v, got %v", test.ty, test.expected, got)
		}
	}

	if width := cg.getType(ast.INT_TY).IntTypeWidth(); width != 32 {
		t.Errorf("expected int to be 32 bits wide, got %d", width)
	}
	if width := cg.getType(ast.BOOL_TY).IntTypeWidth(); width != 1 {
		t.Errorf("expected bool to be 1 bit wide, got %d", width)
	}
}

func TestDeclarationValues(t *testing.T) {
	mod, collector := testutil.ParseModule(t, "", "var n = 1;\nfn f(a: int): int { return a; }\nfn main() { print(f(n)); }")
	mod.IsEntry = true
	analyze(t, collector, mod)

	context := llvm.NewContext()
	defer context.Dispose()
	cg := NewCG(context, zap.NewNop())
	defer cg.Dispose()
	if _, err := cg.Generate(mod); err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}

	decls := make(map[string]*ast.Node)
	for _, decl := range mod.Decls {
		decls[decl.DeclName()] = decl
	}

	if _, ok := cg.values[decls["n"]].(*Variable); !ok {
		t.Errorf("expected a variable for n, got %T", cg.values[decls["n"]])
	}
	fn, ok := cg.values[decls["f"]].(*Function)
	if !ok {
		t.Fatalf("expected a function for f, got %T", cg.values[decls["f"]])
	}
	if fn.Entry || fn.Fn.IsNil() {
		t.Errorf("expected f to be a defined Herb function")
	}
	arg := decls["f"].Node.(*ast.FnDecl).Args[0]
	if _, ok := cg.values[arg].(*Variable); !ok {
		t.Errorf("expected a stack slot for a, got %T", cg.values[arg])
	}
}
