package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

const filename = "test.herb"

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	collector := diagnostics.New()
	mod, err := ParseModuleFrom(filename, src, collector)
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}
	return mod
}

// render prints an expression fully parenthesised.
func render(n *ast.Node) string {
	switch node := n.Node.(type) {
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", node.Value)
	case *ast.BoolLiteral:
		return fmt.Sprintf("%t", node.Value)
	case *ast.StrLiteral:
		return fmt.Sprintf("%q", node.Value)
	case *ast.IdExpr:
		return node.Name
	case *ast.MemberExpr:
		return render(node.Receiver) + "." + node.Name
	case *ast.BinaryExpr:
		return "(" + render(node.Left) + " " + node.Op.String() + " " + render(node.Right) + ")"
	case *ast.UnaryExpr:
		return "(" + node.Op.String() + render(node.Value) + ")"
	case *ast.FnCall:
		args := make([]string, len(node.Args))
		for i, arg := range node.Args {
			args[i] = render(arg)
		}
		return render(node.Callee) + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}

func TestFnDecl(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, fn *ast.FnDecl)
	}{
		{
			input: "fn do_nothing() {}",
			check: func(t *testing.T, fn *ast.FnDecl) {
				if fn.Name != "do_nothing" {
					t.Errorf("expected name 'do_nothing', got %s", fn.Name)
				}
				if len(fn.Args) != 0 {
					t.Errorf("expected no params, got %v", fn.Args)
				}
				if !fn.RetType.IsVoid() {
					t.Errorf("expected void return type, got %v", fn.RetType)
				}
			},
		},
		{
			input: "fn add(a: int, b: int): int { return a + b; }",
			check: func(t *testing.T, fn *ast.FnDecl) {
				if len(fn.Args) != 2 {
					t.Fatalf("expected 2 params, got %d", len(fn.Args))
				}
				if fn.Args[1].Node.(*ast.ArgDecl).Name != "b" {
					t.Errorf("expected second param 'b'")
				}
				if fn.Type().String() != "(int, int) -> int" {
					t.Errorf("unexpected type %s", fn.Type())
				}
				if len(fn.Block.Node.(*ast.BlockStmt).Statements) != 1 {
					t.Errorf("expected one statement")
				}
			},
		},
		{
			input: "fn apply(f: fn(int): bool, x: int): bool { return f(x); }",
			check: func(t *testing.T, fn *ast.FnDecl) {
				arg := fn.Args[0].Node.(*ast.ArgDecl)
				if arg.Ty.String() != "(int) -> bool" {
					t.Errorf("expected function typed param, got %s", arg.Ty)
				}
			},
		},
		{
			input: "fn callback(f: fn()) {}",
			check: func(t *testing.T, fn *ast.FnDecl) {
				arg := fn.Args[0].Node.(*ast.ArgDecl)
				if arg.Ty.String() != "() -> void" {
					t.Errorf("expected () -> void, got %s", arg.Ty)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			mod := parse(t, test.input)
			if len(mod.Decls) != 1 || mod.Decls[0].Kind != ast.KIND_FN_DECL {
				t.Fatalf("expected a single function declaration, got %v", mod.Decls)
			}
			test.check(t, mod.Decls[0].Node.(*ast.FnDecl))
		})
	}
}

func TestImports(t *testing.T) {
	tests := []struct {
		input      string
		alias      string
		path       string
		name       string
		isRelative bool
	}{
		{"import std.io;", "", "std.io", "io", false},
		{"import .util;", "", ".util", "util", true},
		{"import m = .lib.math;", "m", ".lib.math", "m", true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			mod := parse(t, test.input)
			if len(mod.Imports) != 1 {
				t.Fatalf("expected 1 import, got %d", len(mod.Imports))
			}
			imp := mod.Imports[0].Node.(*ast.Import)
			if imp.Alias != test.alias {
				t.Errorf("expected alias %q, got %q", test.alias, imp.Alias)
			}
			if imp.ImportPath() != test.path {
				t.Errorf("expected path %q, got %q", test.path, imp.ImportPath())
			}
			if imp.Name() != test.name {
				t.Errorf("expected name %q, got %q", test.name, imp.Name())
			}
			if imp.IsRelative != test.isRelative {
				t.Errorf("expected relative=%t", test.isRelative)
			}
		})
	}
}

func TestVar(t *testing.T) {
	tests := []struct {
		input      string
		mutable    bool
		annotation string
		init       string
	}{
		{"var a = 1;", true, "", "1"},
		{"const b: int = 2;", false, "int", "2"},
		{"const x: = 1 + true;", false, "", "(1 + true)"},
		{"var s: str = \"hi\";", true, "str", `"hi"`},
		{"const n = -5;", false, "", "-5"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			mod := parse(t, test.input)
			decl := mod.Decls[0].Node.(*ast.VarDecl)
			if !decl.Global {
				t.Errorf("expected top-level var to be global")
			}
			if decl.Mutable != test.mutable {
				t.Errorf("expected mutable=%t", test.mutable)
			}
			annotation := ""
			if decl.Annotation != nil {
				annotation = decl.Annotation.String()
			}
			if annotation != test.annotation {
				t.Errorf("expected annotation %q, got %q", test.annotation, annotation)
			}
			if got := render(decl.Init); got != test.init {
				t.Errorf("expected initializer %s, got %s", test.init, got)
			}
		})
	}
}

func TestBinaryExpr(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a < b && c >= d", "((a < b) && (c >= d))"},
		{"a || b && c", "(a || (b && c))"},
		{"a | b & c", "(a | (b & c))"},
		{"a == b | c", "((a == b) | c)"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"10 % 3 / 2", "((10 % 3) / 2)"},
		{"f(1, g(2)) + m.x", "(f(1, g(2)) + m.x)"},
		{"m.f(1)", "m.f(1)"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			expr, err := ParseExprFrom(test.input, filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := render(expr); got != test.expected {
				t.Errorf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestIfStmt(t *testing.T) {
	src := `fn f(x: int): int {
	if (x < 0) {
		return 0;
	} else if x == 0 {
		return 1;
	} else if x == 1 {
		return 2;
	} else {
		return 3;
	}
}`
	mod := parse(t, src)
	fn := mod.Decls[0].Node.(*ast.FnDecl)
	stmt := fn.Block.Node.(*ast.BlockStmt).Statements[0]
	if stmt.Kind != ast.KIND_IF_STMT {
		t.Fatalf("expected if statement, got %s", stmt.Kind)
	}
	cond := stmt.Node.(*ast.IfStmt)
	if len(cond.Branches) != 3 {
		t.Errorf("expected 3 condition branches, got %d", len(cond.Branches))
	}
	if cond.Else == nil {
		t.Errorf("expected else block")
	}
	if got := render(cond.Branches[0].Cond); got != "(x < 0)" {
		t.Errorf("unexpected first condition %s", got)
	}
}

func TestStatements(t *testing.T) {
	src := `fn main() {
	var i = 0;
	while i < 10 {
		i = i + 1;
	}
	print(i);
	{
		return;
	}
}`
	mod := parse(t, src)
	stmts := mod.Decls[0].Node.(*ast.FnDecl).Block.Node.(*ast.BlockStmt).Statements

	expected := []ast.NodeKind{
		ast.KIND_VAR_DECL,
		ast.KIND_WHILE_LOOP_STMT,
		ast.KIND_EXPR_STMT,
		ast.KIND_BLOCK_STMT,
	}
	if len(stmts) != len(expected) {
		t.Fatalf("expected %d statements, got %d", len(expected), len(stmts))
	}
	for i, kind := range expected {
		if stmts[i].Kind != kind {
			t.Errorf("statement %d: expected %s, got %s", i, kind, stmts[i].Kind)
		}
	}

	if stmts[0].Node.(*ast.VarDecl).Global {
		t.Errorf("local variable marked as global")
	}

	loop := stmts[1].Node.(*ast.WhileLoop)
	assign := loop.Block.Node.(*ast.BlockStmt).Statements[0]
	if assign.Kind != ast.KIND_ASSIGN_STMT {
		t.Fatalf("expected assignment, got %s", assign.Kind)
	}
}

func TestEntrypoint(t *testing.T) {
	mod := parse(t, "entrypoint { print(1); }")
	if mod.Decls[0].Kind != ast.KIND_ENTRYPOINT {
		t.Fatalf("expected entrypoint, got %s", mod.Decls[0].Kind)
	}
	if mod.Decls[0].DeclName() != ast.ENTRYPOINT_NAME {
		t.Errorf("unexpected entrypoint name %q", mod.Decls[0].DeclName())
	}
}

func TestSpansAndParents(t *testing.T) {
	src := "fn main() {\n  print(1 + 2);\n}"
	mod := parse(t, src)

	fn := mod.Decls[0]
	if fn.Pos().Line != 1 || fn.Pos().Column != 1 {
		t.Errorf("unexpected function position %s", fn.Pos())
	}

	stmt := fn.Node.(*ast.FnDecl).Block.Node.(*ast.BlockStmt).Statements[0]
	if stmt.Pos().Line != 2 || stmt.Pos().Column != 3 {
		t.Errorf("unexpected statement position %s", stmt.Pos())
	}

	ast.Inspect(mod.Node(), func(n *ast.Node) bool {
		if n == mod.Node() {
			if n.Parent != ast.NoNode {
				t.Errorf("module must not have a parent")
			}
			return true
		}
		parent := mod.Arena.Parent(n)
		if parent == nil {
			t.Errorf("%s has no parent", n)
			return true
		}
		found := false
		for _, child := range ast.Children(parent) {
			if child == n {
				found = true
			}
		}
		if !found {
			t.Errorf("%s is not a child of its parent %s", n, parent)
		}
		return true
	})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"fn () {}", "expected function name, not ("},
		{"fn f( {}", "expected parameter name, not {"},
		{"fn f() { return 1 }", "expected ; at the end of statement, not }"},
		{"var x 1;", "expected = after variable name, not integer literal"},
		{"print(1);", "expected declaration, not identifier"},
		{"fn f() {} import .a;", "imports must come before every declaration"},
		{"fn f(a: foo) {}", "expected type, not identifier"},
		{"const x = 99999999999;", "integer literal 99999999999 does not fit in int"},
		{"fn f() { var x = ; }", "expected expression, not ;"},
		{"fn f() {", "expected statement or }, not end of file"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			collector := diagnostics.New()
			_, err := ParseModuleFrom(filename, test.input, collector)
			if err == nil {
				t.Fatalf("expected a syntax error")
			}
			if len(collector.Diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %v", collector.Diags)
			}
			diag := collector.Diags[0]
			if diag.Kind != diagnostics.SYNTAX {
				t.Errorf("expected syntax error, got %s", diag.Kind)
			}
			if diag.Message != test.message {
				t.Errorf("expected %q, got %q", test.message, diag.Message)
			}
		})
	}
}
