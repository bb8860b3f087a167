package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/lexer/token"
)

func (c *llvmCodegen) getExpr(expr *ast.Node) llvm.Value {
	switch node := expr.Node.(type) {
	case *ast.IntLiteral, *ast.BoolLiteral, *ast.StrLiteral:
		return c.getConst(expr)
	case *ast.IdExpr:
		return c.getIdExpr(node)
	case *ast.FnCall:
		return c.generateFnCall(node)
	case *ast.BinaryExpr:
		if node.Op == token.AND_AND || node.Op == token.PIPE_PIPE {
			return c.generateLogicalExpr(node)
		}
		lhs := c.getExpr(node.Left)
		rhs := c.getExpr(node.Right)
		return c.generateBinaryOp(node.Op, lhs, rhs)
	case *ast.UnaryExpr:
		value := c.getExpr(node.Value)
		switch node.Op {
		case token.MINUS:
			return c.builder.CreateNeg(value, ".neg")
		case token.BANG:
			return c.builder.CreateNot(value, ".not")
		}
		panic(fmt.Sprintf("codegen: unimplemented unary operator %s", node.Op))
	case *ast.Print:
		c.generatePrint(node)
		return llvm.Value{}
	}
	panic(fmt.Sprintf("codegen: unimplemented expression %s", expr))
}

// getConst returns the constant of a literal. Global initializers are always
// literals by the time they reach the backend.
func (c *llvmCodegen) getConst(expr *ast.Node) llvm.Value {
	switch node := expr.Node.(type) {
	case *ast.IntLiteral:
		return llvm.ConstInt(c.context.Int32Type(), uint64(node.Value), true)
	case *ast.BoolLiteral:
		value := uint64(0)
		if node.Value {
			value = 1
		}
		return llvm.ConstInt(c.context.Int1Type(), value, false)
	case *ast.StrLiteral:
		return c.getString(node.Value)
	}
	panic(fmt.Sprintf("codegen: %s is not a constant", expr))
}

// getString returns a pointer to the first byte of a null-terminated global
// holding value. Equal literals share one global.
func (c *llvmCodegen) getString(value string) llvm.Value {
	if global, ok := c.strings[value]; ok {
		return global
	}

	data := c.context.ConstString(value, true)
	name := fmt.Sprintf(".str.%d", len(c.strings))
	global := llvm.AddGlobal(c.module, data.Type(), name)
	global.SetInitializer(data)
	global.SetGlobalConstant(true)
	global.SetLinkage(llvm.PrivateLinkage)

	ptr := llvm.ConstBitCast(global, c.getPtrType(c.context.Int8Type()))
	c.strings[value] = ptr
	return ptr
}

func (c *llvmCodegen) getIdExpr(id *ast.IdExpr) llvm.Value {
	switch value := c.valueOf(id.Decl).(type) {
	case *Variable:
		return c.builder.CreateLoad(value.Ty, value.Ptr, ".load")
	case *Function:
		return c.builder.CreateLoad(c.getPtrType(value.Ty), value.Ref, ".fnload")
	}
	panic(fmt.Sprintf("codegen: identifier %s has no value", id.Name))
}

func (c *llvmCodegen) generateFnCall(call *ast.FnCall) llvm.Value {
	fnTy := c.getFnType(call.Callee.Type().Fn)
	callee := c.getExpr(call.Callee)

	args := make([]llvm.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = c.getExpr(arg)
	}
	return c.builder.CreateCall(fnTy, callee, args, "")
}

func (c *llvmCodegen) generateBinaryOp(op token.Kind, lhs, rhs llvm.Value) llvm.Value {
	switch op {
	case token.PLUS:
		return c.builder.CreateAdd(lhs, rhs, ".add")
	case token.MINUS:
		return c.builder.CreateSub(lhs, rhs, ".sub")
	case token.STAR:
		return c.builder.CreateMul(lhs, rhs, ".mul")
	case token.SLASH:
		return c.builder.CreateSDiv(lhs, rhs, ".div")
	case token.PERCENT:
		return c.builder.CreateSRem(lhs, rhs, ".rem")
	case token.AMPERSAND:
		return c.builder.CreateAnd(lhs, rhs, ".and")
	case token.PIPE:
		return c.builder.CreateOr(lhs, rhs, ".or")
	case token.EQUAL_EQUAL:
		return c.builder.CreateICmp(llvm.IntEQ, lhs, rhs, ".cmpeq")
	case token.BANG_EQUAL:
		return c.builder.CreateICmp(llvm.IntNE, lhs, rhs, ".cmpneq")
	case token.LESS:
		return c.builder.CreateICmp(llvm.IntSLT, lhs, rhs, ".cmplt")
	case token.LESS_EQ:
		return c.builder.CreateICmp(llvm.IntSLE, lhs, rhs, ".cmple")
	case token.GREATER:
		return c.builder.CreateICmp(llvm.IntSGT, lhs, rhs, ".cmpgt")
	case token.GREATER_EQ:
		return c.builder.CreateICmp(llvm.IntSGE, lhs, rhs, ".cmpge")
	}
	panic(fmt.Sprintf("codegen: unimplemented binary operator %s", op))
}

// generateLogicalExpr evaluates the right operand of && and || only when the
// left one does not decide the result.
func (c *llvmCodegen) generateLogicalExpr(expr *ast.BinaryExpr) llvm.Value {
	lhs := c.getExpr(expr.Left)
	lhsBlock := c.builder.GetInsertBlock()

	rhsBlock := llvm.AddBasicBlock(c.fn.Fn, ".rhs")
	endBlock := llvm.AddBasicBlock(c.fn.Fn, ".logicend")

	var shortCircuit llvm.Value
	if expr.Op == token.AND_AND {
		c.builder.CreateCondBr(lhs, rhsBlock, endBlock)
		shortCircuit = llvm.ConstInt(c.context.Int1Type(), 0, false)
	} else {
		c.builder.CreateCondBr(lhs, endBlock, rhsBlock)
		shortCircuit = llvm.ConstInt(c.context.Int1Type(), 1, false)
	}

	c.builder.SetInsertPointAtEnd(rhsBlock)
	rhs := c.getExpr(expr.Right)
	rhsBlock = c.builder.GetInsertBlock()
	c.builder.CreateBr(endBlock)

	c.builder.SetInsertPointAtEnd(endBlock)
	phi := c.builder.CreatePHI(c.context.Int1Type(), ".logic")
	phi.AddIncoming(
		[]llvm.Value{shortCircuit, rhs},
		[]llvm.BasicBlock{lhsBlock, rhsBlock},
	)
	return phi
}

func (c *llvmCodegen) generatePrint(print *ast.Print) {
	arg := c.getExpr(print.Arg)

	var fn llvm.Value
	var fnTy llvm.Type
	switch print.Arg.Type().Kind {
	case ast.TY_INT:
		fn, fnTy = c.runtimeFn(PRINT_INT, c.context.Int32Type())
	case ast.TY_BOOL:
		fn, fnTy = c.runtimeFn(PRINT_BOOL, c.context.Int8Type())
		arg = c.builder.CreateZExt(arg, c.context.Int8Type(), ".zext")
	case ast.TY_STR:
		fn, fnTy = c.runtimeFn(PRINT_STR, c.getPtrType(c.context.Int8Type()))
	default:
		panic(fmt.Sprintf("codegen: cannot print %s", print.Arg.Type()))
	}
	c.builder.CreateCall(fnTy, fn, []llvm.Value{arg}, "")
}
