package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/HicaroD/herb/internal/ast"
)

func (c *llvmCodegen) generateBlock(block *ast.Node) {
	for _, stmt := range block.Node.(*ast.BlockStmt).Statements {
		c.generateStmt(stmt)
		if c.terminated {
			break
		}
	}
}

func (c *llvmCodegen) generateStmt(stmt *ast.Node) {
	switch node := stmt.Node.(type) {
	case *ast.VarDecl:
		ptr := c.slot(stmt)
		c.builder.CreateStore(c.getExpr(node.Init), ptr.Ptr)
	case *ast.AssignStmt:
		c.generateAssign(node)
	case *ast.ExprStmt:
		c.getExpr(node.Expr)
	case *ast.BlockStmt:
		c.generateBlock(stmt)
	case *ast.IfStmt:
		c.generateCondStmt(node)
	case *ast.WhileLoop:
		c.generateWhileLoop(node)
	case *ast.ReturnStmt:
		c.generateReturnStmt(node)
	default:
		panic(fmt.Sprintf("codegen: unimplemented statement %s", stmt))
	}
}

func (c *llvmCodegen) generateAssign(assign *ast.AssignStmt) {
	decl := assign.Target.Node.(*ast.IdExpr).Decl
	variable := c.valueOf(decl).(*Variable)
	c.builder.CreateStore(c.getExpr(assign.Value), variable.Ptr)
}

func (c *llvmCodegen) generateReturnStmt(ret *ast.ReturnStmt) {
	switch {
	case c.fn.Entry:
		c.builder.CreateRet(llvm.ConstInt(c.context.Int32Type(), 0, false))
	case ret.Value == nil:
		c.builder.CreateRetVoid()
	default:
		c.builder.CreateRet(c.getExpr(ret.Value))
	}
	c.terminated = true
}

func (c *llvmCodegen) generateCondStmt(condStmt *ast.IfStmt) {
	n := len(condStmt.Branches)
	thenBlocks := make([]llvm.BasicBlock, n)
	elseBlocks := make([]llvm.BasicBlock, n)
	for i := range condStmt.Branches {
		thenBlocks[i] = llvm.AddBasicBlock(c.fn.Fn, ".then")
		elseBlocks[i] = llvm.AddBasicBlock(c.fn.Fn, ".else")
	}
	endBlock := llvm.AddBasicBlock(c.fn.Fn, ".ifend")

	reachesEnd := false
	for i, branch := range condStmt.Branches {
		cond := c.getExpr(branch.Cond)
		c.builder.CreateCondBr(cond, thenBlocks[i], elseBlocks[i])

		c.builder.SetInsertPointAtEnd(thenBlocks[i])
		c.generateBranchBody(branch.Block, endBlock, &reachesEnd)

		// the next condition is tested in this branch's else block
		c.builder.SetInsertPointAtEnd(elseBlocks[i])
	}

	if condStmt.Else != nil {
		c.generateBranchBody(condStmt.Else, endBlock, &reachesEnd)
	} else {
		c.builder.CreateBr(endBlock)
		reachesEnd = true
	}

	if !reachesEnd {
		// every branch returned, nothing follows this statement
		endBlock.EraseFromParent()
		c.terminated = true
		return
	}
	c.builder.SetInsertPointAtEnd(endBlock)
}

func (c *llvmCodegen) generateBranchBody(block *ast.Node, endBlock llvm.BasicBlock, reachesEnd *bool) {
	c.terminated = false
	c.generateBlock(block)
	if !c.terminated {
		c.builder.CreateBr(endBlock)
		*reachesEnd = true
	}
	c.terminated = false
}

func (c *llvmCodegen) generateWhileLoop(whileLoop *ast.WhileLoop) {
	// every local declared in the loop gets its slot before the loop starts
	ast.Inspect(whileLoop.Block, func(n *ast.Node) bool {
		if n.Kind == ast.KIND_VAR_DECL {
			c.slot(n)
		}
		return true
	})

	condBlock := llvm.AddBasicBlock(c.fn.Fn, ".whilecond")
	bodyBlock := llvm.AddBasicBlock(c.fn.Fn, ".whilebody")
	endBlock := llvm.AddBasicBlock(c.fn.Fn, ".whileend")

	c.builder.CreateBr(condBlock)
	c.builder.SetInsertPointAtEnd(condBlock)
	cond := c.getExpr(whileLoop.Cond)
	c.builder.CreateCondBr(cond, bodyBlock, endBlock)

	c.builder.SetInsertPointAtEnd(bodyBlock)
	c.generateBlock(whileLoop.Block)
	if !c.terminated {
		c.builder.CreateBr(condBlock)
	}
	c.terminated = false

	c.builder.SetInsertPointAtEnd(endBlock)
}
