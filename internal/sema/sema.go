// Package sema type checks resolved modules, lowers builtin calls and checks
// that functions return on every path.
package sema

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

type sema struct {
	collector *diagnostics.Collector
	logger    *zap.Logger

	mod *ast.Module
}

func New(collector *diagnostics.Collector, logger *zap.Logger) *sema {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sema{collector: collector, logger: logger}
}

// Check assigns a type to every expression of a resolved module. It keeps
// going after an error so that one run reports as much as possible; an
// expression whose type could not be computed is unknown and is not reported
// again by the expressions that use it.
func (s *sema) Check(mod *ast.Module) error {
	before := len(s.collector.Diags)

	s.mod = mod
	defer func() { s.mod = nil }()

	ast.Walk(s, mod.Node())

	s.logger.Debug("module type checked", zap.String("module", mod.Path))

	if len(s.collector.Diags) > before {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (s *sema) Walk(n *ast.Node) {
	// children first, every rule below reads the types of its operands
	ast.WalkChildren(s, n)

	switch node := n.Node.(type) {
	case *ast.IntLiteral:
		node.SetType(ast.INT_TY)
	case *ast.BoolLiteral:
		node.SetType(ast.BOOL_TY)
	case *ast.StrLiteral:
		node.SetType(ast.STR_TY)
	case *ast.IdExpr:
		s.checkIdExpr(n, node)
	case *ast.VarDecl:
		s.checkVarDecl(node)
	case *ast.BinaryExpr:
		s.checkBinaryExpr(node)
	case *ast.UnaryExpr:
		node.SetType(s.checkOperand(UNARY_OPS[node.Op], node.Op.String(), node.Value))
	case *ast.FnCall:
		s.checkFnCall(n, node)
	case *ast.Print:
		node.SetType(ast.VOID_TY)
		s.checkVoidValue(n)
	case *ast.AssignStmt:
		s.checkAssignStmt(node)
	case *ast.IfStmt:
		for _, branch := range node.Branches {
			s.checkCondition(branch.Cond)
		}
	case *ast.WhileLoop:
		s.checkCondition(node.Cond)
	case *ast.ReturnStmt:
		s.checkReturnStmt(n, node)
	}
}

func (s *sema) checkIdExpr(n *ast.Node, id *ast.IdExpr) {
	if id.Decl == nil {
		id.SetType(ast.UNKNOWN_TY)
		return
	}

	switch id.Decl.Kind {
	case ast.KIND_BUILTIN_DECL:
		if s.isCallee(n) {
			id.SetType(ast.BUILTIN_TY)
			return
		}
		s.collector.Report(
			diagnostics.TYPE,
			n.Pos(),
			fmt.Sprintf("'%s' can only be called", id.Name),
			"cannot use a builtin as a value",
		)
		id.SetType(ast.UNKNOWN_TY)
	case ast.KIND_IMPORT:
		s.collector.Report(
			diagnostics.TYPE,
			n.Pos(),
			fmt.Sprintf("Access a member of '%s' with '%s.<name>'", id.Name, id.Name),
			"cannot use a module as a value",
		)
		id.SetType(ast.UNKNOWN_TY)
	default:
		id.SetType(id.Decl.ValueType())
	}
}

func (s *sema) isCallee(n *ast.Node) bool {
	parent := s.mod.Arena.Parent(n)
	if parent == nil {
		return false
	}
	call, ok := parent.Node.(*ast.FnCall)
	return ok && call.Callee == n
}

func (s *sema) checkVarDecl(decl *ast.VarDecl) {
	ty := decl.Init.Type()
	if decl.Annotation == nil {
		decl.Ty = ty
		return
	}

	decl.Ty = decl.Annotation
	s.expectType(decl.Annotation, decl.Init, fmt.Sprintf("'%s' is declared as '%s'", decl.Name, decl.Annotation))
}

func (s *sema) checkBinaryExpr(binary *ast.BinaryExpr) {
	rule := BINARY_OPS[binary.Op]
	op := binary.Op.String()
	s.checkOperand(rule, op, binary.Left)
	binary.SetType(s.checkOperand(rule, op, binary.Right))
}

// checkOperand reports operand when its type is not the one the operator
// requires and returns the type the operator produces.
func (s *sema) checkOperand(rule opRule, op string, operand *ast.Node) *ast.Ty {
	if rule.Operand == nil {
		return ast.UNKNOWN_TY
	}
	s.expectType(rule.Operand, operand, fmt.Sprintf("Operator '%s' expects operands of type '%s'", op, rule.Operand))
	return rule.Result
}

func (s *sema) checkFnCall(n *ast.Node, call *ast.FnCall) {
	calleeTy := call.Callee.Type()

	switch {
	case calleeTy.Kind == ast.TY_BUILTIN:
		// arguments of builtins are checked when the call is lowered
		call.SetType(ast.VOID_TY)
	case calleeTy.IsUnknown():
		call.SetType(ast.UNKNOWN_TY)
		return
	case !calleeTy.IsFunc():
		s.collector.Report(
			diagnostics.TYPE,
			call.Callee.Pos(),
			"",
			"Expression of type '%s' is not callable",
			calleeTy,
		)
		call.SetType(ast.UNKNOWN_TY)
		return
	default:
		s.checkArguments(n, call, calleeTy.Fn)
		call.SetType(calleeTy.Fn.Ret)
	}

	s.checkVoidValue(n)
}

func (s *sema) checkArguments(n *ast.Node, call *ast.FnCall, fn *ast.FuncTy) {
	if len(call.Args) != len(fn.Args) {
		s.collector.Report(
			diagnostics.TYPE,
			n.Pos(),
			fmt.Sprintf("The callee has type '%s'", ast.NewFuncTy(fn.Args, fn.Ret)),
			"Expected %d arguments but received %d",
			len(fn.Args),
			len(call.Args),
		)
	}

	for i := 0; i < len(call.Args) && i < len(fn.Args); i++ {
		s.expectType(fn.Args[i], call.Args[i], fmt.Sprintf("Argument %d must be of type '%s'", i+1, fn.Args[i]))
	}
}

// checkVoidValue reports a void expression unless it is used as a
// statement on its own.
func (s *sema) checkVoidValue(n *ast.Node) {
	if !n.Type().IsVoid() {
		return
	}
	parent := s.mod.Arena.Parent(n)
	if parent != nil && parent.Kind == ast.KIND_EXPR_STMT {
		return
	}
	s.collector.Report(
		diagnostics.TYPE,
		n.Pos(),
		"This call does not produce a value",
		"cannot use a void result as a value",
	)
	n.SetType(ast.UNKNOWN_TY)
}

func (s *sema) checkAssignStmt(assign *ast.AssignStmt) {
	target, ok := assign.Target.Node.(*ast.IdExpr)
	if !ok {
		s.collector.Report(
			diagnostics.TYPE,
			assign.Target.Pos(),
			"Only variables can be assigned to",
			"Cannot assign to '%s'",
			describe(assign.Target),
		)
		return
	}
	if target.Decl == nil {
		return
	}

	decl, isVar := target.Decl.Node.(*ast.VarDecl)
	if !isVar || !decl.Mutable {
		hint := fmt.Sprintf("'%s' is not a variable", target.Name)
		if isVar {
			hint = fmt.Sprintf("'%s' is declared as a constant", target.Name)
		}
		s.collector.Report(diagnostics.TYPE, assign.Target.Pos(), hint, "Cannot assign to '%s'", target.Name)
		return
	}

	s.expectType(decl.Ty, assign.Value, fmt.Sprintf("'%s' is declared as '%s'", target.Name, decl.Ty))
}

func (s *sema) checkCondition(cond *ast.Node) {
	s.expectType(ast.BOOL_TY, cond, "Conditions must be of type 'bool'")
}

func (s *sema) checkReturnStmt(n *ast.Node, ret *ast.ReturnStmt) {
	name, expected := s.enclosingReturn(n)

	if ret.Value == nil {
		if !expected.IsVoid() {
			s.collector.Report(
				diagnostics.TYPE,
				n.Pos(),
				fmt.Sprintf("'%s' must return a value of type '%s'", name, expected),
				"Expected '%s' but received 'void'",
				expected,
			)
		}
		return
	}

	if expected.IsVoid() {
		if actual := ret.Value.Type(); !actual.IsUnknown() {
			s.collector.Report(
				diagnostics.TYPE,
				ret.Value.Pos(),
				fmt.Sprintf("'%s' does not return a value", name),
				"Expected 'void' but received '%s'",
				actual,
			)
		}
		return
	}
	s.expectType(expected, ret.Value, fmt.Sprintf("'%s' returns '%s'", name, expected))
}

func (s *sema) enclosingReturn(n *ast.Node) (string, *ast.Ty) {
	fn := ast.EnclosingFunc(s.mod.Arena, n)
	if fn == nil || fn.Kind == ast.KIND_ENTRYPOINT {
		return "entrypoint", ast.VOID_TY
	}
	decl := fn.Node.(*ast.FnDecl)
	return decl.Name, decl.RetType
}

// expectType reports n unless its type equals expected. Unknown types were
// already reported where they came from.
func (s *sema) expectType(expected *ast.Ty, n *ast.Node, hint string) {
	actual := n.Type()
	if actual.IsUnknown() || expected.IsUnknown() || actual.Equals(expected) {
		return
	}
	s.collector.Report(
		diagnostics.TYPE,
		n.Pos(),
		hint,
		"Expected '%s' but received '%s'",
		expected,
		actual,
	)
}

func describe(n *ast.Node) string {
	switch node := n.Node.(type) {
	case *ast.IdExpr:
		return node.Name
	case *ast.MemberExpr:
		return describe(node.Receiver) + "." + node.Name
	case *ast.FnCall:
		return describe(node.Callee) + "(...)"
	}
	return n.Kind.String()
}
