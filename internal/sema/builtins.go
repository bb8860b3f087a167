package sema

import (
	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

type builtinLowering struct {
	s *sema
}

// LowerBuiltins replaces every call to the print builtin of a type checked
// module with a Print node.
func (s *sema) LowerBuiltins(mod *ast.Module) error {
	before := len(s.collector.Diags)

	s.mod = mod
	defer func() { s.mod = nil }()

	ast.Transform(&builtinLowering{s: s}, mod.Node())
	ast.SetParents(mod.Node())

	if len(s.collector.Diags) > before {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (l *builtinLowering) Transform(n *ast.Node) *ast.Node {
	ast.TransformChildren(l, n)

	call, ok := n.Node.(*ast.FnCall)
	if !ok {
		return n
	}
	callee, ok := call.Callee.Node.(*ast.IdExpr)
	if !ok || !ast.IsBuiltin(callee.Decl, ast.PRINT_BUILTIN) {
		return n
	}
	return l.lowerPrint(n, call)
}

func (l *builtinLowering) lowerPrint(n *ast.Node, call *ast.FnCall) *ast.Node {
	collector := l.s.collector

	if len(call.Args) != 1 {
		collector.Report(
			diagnostics.TYPE,
			n.Pos(),
			"Call print once per value",
			"The 'print' builtin accepts only 1 argument",
		)
		return n
	}

	arg := call.Args[0]
	ty := arg.Type()
	if ty.IsUnknown() {
		return n
	}
	if !ty.IsPrintable() {
		collector.Report(
			diagnostics.TYPE,
			arg.Pos(),
			"Only values of type 'int', 'bool' and 'str' can be printed",
			"Cannot print a value of type '%s'",
			ty,
		)
		return n
	}

	print := &ast.Print{Arg: arg}
	print.SetType(ast.VOID_TY)
	return l.s.mod.Arena.New(ast.KIND_PRINT, n.Span, print)
}
