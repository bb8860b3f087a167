package sema

import (
	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

var _ ast.Visitor[bool] = (*terminationChecker)(nil)

type terminationChecker struct {
	collector *diagnostics.Collector
}

// CheckTermination reports statements that follow a return in the same
// block and non-void functions that can reach the end of their body.
func CheckTermination(collector *diagnostics.Collector, mod *ast.Module) error {
	before := len(collector.Diags)

	c := &terminationChecker{collector: collector}
	for _, decl := range mod.Decls {
		switch node := decl.Node.(type) {
		case *ast.FnDecl:
			c.checkFnDecl(decl, node)
		case *ast.Entrypoint:
			ast.Accept[bool](c, node.Block)
		}
	}

	if len(collector.Diags) > before {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (c *terminationChecker) checkFnDecl(n *ast.Node, fn *ast.FnDecl) {
	if ast.Accept[bool](c, fn.Block) || fn.RetType.IsVoid() {
		return
	}
	c.collector.Report(
		diagnostics.CONTROL_FLOW,
		n.Pos(),
		"You might have forgotten a return statement",
		"The '%s' must return a value in all cases",
		fn.Name,
	)
}

// Visit reports whether every path through n ends in a return statement.
// Loops never count, their body may not run at all.
func (c *terminationChecker) Visit(n *ast.Node) bool {
	switch node := n.Node.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		for i, stmt := range node.Statements {
			if !c.Visit(stmt) {
				continue
			}
			if i+1 < len(node.Statements) {
				c.reportUnreachable(node.Statements[i+1])
			}
			return true
		}
		return false
	case *ast.IfStmt:
		all := true
		for _, branch := range node.Branches {
			if !c.Visit(branch.Block) {
				all = false
			}
		}
		if node.Else == nil {
			return false
		}
		return c.Visit(node.Else) && all
	case *ast.WhileLoop:
		c.Visit(node.Block)
		return false
	default:
		return false
	}
}

func (c *terminationChecker) reportUnreachable(stmt *ast.Node) {
	c.collector.ReportAndSave(diagnostics.Diag{
		Kind:    diagnostics.CONTROL_FLOW,
		Pos:     stmt.Pos(),
		Message: "This statement is unreachable",
		Hint:    "You have a return statement somewhere above",
	})
}
