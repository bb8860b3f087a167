package llvm

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"tinygo.org/x/go-llvm"

	"github.com/HicaroD/herb/internal/ast"
)

const (
	C_MAIN        = "main"
	HERB_MAIN     = "main"
	FN_REF_SUFFIX = ".ref"

	PRINT_INT  = "print_int"
	PRINT_BOOL = "print_bool"
	PRINT_STR  = "print_str"
)

type llvmCodegen struct {
	context llvm.Context
	module  llvm.Module
	builder llvm.Builder
	logger  *zap.Logger

	mod *ast.Module
	// owners maps every declaration of an imported module to that module.
	owners  map[*ast.Node]*ast.Module
	values  map[*ast.Node]LLVMValue
	strings map[string]llvm.Value

	fn         *Function
	terminated bool
}

// NewCG returns a generator creating its IR modules inside context. The
// caller disposes the context once every module has been written out.
func NewCG(context llvm.Context, logger *zap.Logger) *llvmCodegen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &llvmCodegen{
		context: context,
		builder: context.NewBuilder(),
		logger:  logger,
	}
}

func (c *llvmCodegen) Dispose() {
	c.builder.Dispose()
}

// Generate lowers a resolved and type checked module into a new IR module
// named after the module's unique name.
func (c *llvmCodegen) Generate(mod *ast.Module) (llvm.Module, error) {
	c.module = c.context.NewModule(mod.UniqueName())
	c.module.SetTarget(llvm.DefaultTargetTriple())

	c.mod = mod
	c.owners = make(map[*ast.Node]*ast.Module)
	c.values = make(map[*ast.Node]LLVMValue)
	c.strings = make(map[string]llvm.Value)
	defer func() { c.mod, c.fn = nil, nil }()

	for _, node := range mod.Imports {
		imported := node.Node.(*ast.Import).Module
		for _, decl := range imported.Decls {
			c.owners[decl] = imported
		}
	}

	c.generateDeclarations()
	c.generateBodies()

	if err := llvm.VerifyModule(c.module, llvm.ReturnStatusAction); err != nil {
		return c.module, errors.Wrapf(err, "invalid IR generated for %s", mod.Path)
	}

	c.logger.Debug("module generated",
		zap.String("module", mod.Path),
		zap.String("name", mod.UniqueName()),
	)
	return c.module, nil
}

func (c *llvmCodegen) symbolName(owner *ast.Module, name string) string {
	return owner.UniqueName() + "." + name
}

func (c *llvmCodegen) generateDeclarations() {
	for _, decl := range c.mod.Decls {
		switch node := decl.Node.(type) {
		case *ast.VarDecl:
			c.generateGlobalVar(decl, node)
		case *ast.FnDecl:
			c.generateFnSignature(decl, node)
		}
	}
}

func (c *llvmCodegen) generateBodies() {
	for _, decl := range c.mod.Decls {
		switch node := decl.Node.(type) {
		case *ast.FnDecl:
			c.generateFnBody(c.values[decl].(*Function), node.Args, node.Block)
		case *ast.Entrypoint:
			// entrypoints of imported modules never run
			if c.mod.IsEntry {
				c.generateFnBody(c.generateCMain(), nil, node.Block)
			}
		}
	}

	if !c.mod.IsEntry {
		return
	}
	if _, ok := c.mod.Func(HERB_MAIN); ok {
		c.generateMainWrapper()
	}
}

func (c *llvmCodegen) generateGlobalVar(decl *ast.Node, variable *ast.VarDecl) {
	ty := c.getType(variable.Ty)
	global := llvm.AddGlobal(c.module, ty, c.symbolName(c.mod, variable.Name))
	global.SetInitializer(c.getConst(variable.Init))
	global.SetGlobalConstant(!variable.Mutable)
	c.values[decl] = NewVariableValue(ty, global)
}

func (c *llvmCodegen) generateFnSignature(decl *ast.Node, fnDecl *ast.FnDecl) {
	fnTy := c.getFnType(fnDecl.Type().Fn)
	name := c.symbolName(c.mod, fnDecl.Name)

	fn := llvm.AddFunction(c.module, name, fnTy)
	for i, arg := range fnDecl.Args {
		fn.Param(i).SetName(arg.DeclName())
	}

	ref := llvm.AddGlobal(c.module, c.getPtrType(fnTy), name+FN_REF_SUFFIX)
	ref.SetInitializer(fn)
	ref.SetGlobalConstant(true)

	c.values[decl] = NewFunctionValue(fn, fnTy, ref)
}

// generateExternal declares a global or a function reference owned by an
// imported module. The owning module's IR defines it.
func (c *llvmCodegen) generateExternal(decl *ast.Node) LLVMValue {
	owner, ok := c.owners[decl]
	if !ok {
		panic(fmt.Sprintf("codegen: no value generated for %s", decl))
	}

	var value LLVMValue
	switch node := decl.Node.(type) {
	case *ast.VarDecl:
		ty := c.getType(node.Ty)
		global := llvm.AddGlobal(c.module, ty, c.symbolName(owner, node.Name))
		global.SetLinkage(llvm.ExternalLinkage)
		global.SetGlobalConstant(!node.Mutable)
		value = NewVariableValue(ty, global)
	case *ast.FnDecl:
		fnTy := c.getFnType(node.Type().Fn)
		ref := llvm.AddGlobal(c.module, c.getPtrType(fnTy), c.symbolName(owner, node.Name)+FN_REF_SUFFIX)
		ref.SetLinkage(llvm.ExternalLinkage)
		ref.SetGlobalConstant(true)
		value = NewFunctionValue(llvm.Value{}, fnTy, ref)
	default:
		panic(fmt.Sprintf("codegen: cannot reference %s from another module", decl.Kind))
	}

	c.values[decl] = value
	return value
}

func (c *llvmCodegen) valueOf(decl *ast.Node) LLVMValue {
	if value, ok := c.values[decl]; ok {
		return value
	}
	return c.generateExternal(decl)
}

func (c *llvmCodegen) generateCMain() *Function {
	fnTy := llvm.FunctionType(c.context.Int32Type(), nil, false)
	fn := llvm.AddFunction(c.module, C_MAIN, fnTy)
	return &Function{Fn: fn, Ty: fnTy, Entry: true}
}

// generateMainWrapper emits the C main function, which calls the Herb main
// and exits with 0.
func (c *llvmCodegen) generateMainWrapper() {
	main := c.generateCMain()
	entry := llvm.AddBasicBlock(main.Fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	for _, decl := range c.mod.Decls {
		if decl.DeclName() == HERB_MAIN && decl.Kind == ast.KIND_FN_DECL {
			herbMain := c.values[decl].(*Function)
			c.builder.CreateCall(herbMain.Ty, herbMain.Fn, nil, "")
			break
		}
	}
	c.builder.CreateRet(llvm.ConstInt(c.context.Int32Type(), 0, false))
}

func (c *llvmCodegen) generateFnBody(fnValue *Function, args []*ast.Node, block *ast.Node) {
	c.fn = fnValue
	c.terminated = false

	entry := llvm.AddBasicBlock(fnValue.Fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	c.generateFnParams(fnValue, args)
	c.generateBlock(block)

	if c.terminated {
		return
	}
	switch {
	case fnValue.Entry:
		c.builder.CreateRet(llvm.ConstInt(c.context.Int32Type(), 0, false))
	case fnValue.Ty.ReturnType().TypeKind() == llvm.VoidTypeKind:
		c.builder.CreateRetVoid()
	default:
		c.builder.CreateUnreachable()
	}
}

func (c *llvmCodegen) generateFnParams(fnValue *Function, args []*ast.Node) {
	paramsTypes := fnValue.Ty.ParamTypes()
	for i, param := range fnValue.Fn.Params() {
		ptr := c.builder.CreateAlloca(paramsTypes[i], args[i].DeclName())
		c.builder.CreateStore(param, ptr)
		c.values[args[i]] = NewVariableValue(paramsTypes[i], ptr)
	}
}

// slot returns the stack slot of a local variable, allocating it at the
// current insertion point on first use.
func (c *llvmCodegen) slot(decl *ast.Node) *Variable {
	if value, ok := c.values[decl]; ok {
		return value.(*Variable)
	}
	variable := decl.Node.(*ast.VarDecl)
	ty := c.getType(variable.Ty)
	value := NewVariableValue(ty, c.builder.CreateAlloca(ty, variable.Name))
	c.values[decl] = value
	return value
}

func (c *llvmCodegen) runtimeFn(name string, param llvm.Type) (llvm.Value, llvm.Type) {
	fnTy := llvm.FunctionType(c.context.VoidType(), []llvm.Type{param}, false)
	fn := c.module.NamedFunction(name)
	if fn.IsNil() {
		fn = llvm.AddFunction(c.module, name, fnTy)
	}
	return fn, fnTy
}

func (c *llvmCodegen) getType(ty *ast.Ty) llvm.Type {
	switch ty.Kind {
	case ast.TY_INT:
		return c.context.Int32Type()
	case ast.TY_BOOL:
		return c.context.Int1Type()
	case ast.TY_STR:
		return c.getPtrType(c.context.Int8Type())
	case ast.TY_VOID:
		return c.context.VoidType()
	case ast.TY_FUNC:
		return c.getPtrType(c.getFnType(ty.Fn))
	}
	panic(fmt.Sprintf("codegen: type %s has no IR representation", ty))
}

func (c *llvmCodegen) getFnType(fn *ast.FuncTy) llvm.Type {
	params := make([]llvm.Type, len(fn.Args))
	for i, arg := range fn.Args {
		params[i] = c.getType(arg)
	}
	return llvm.FunctionType(c.getType(fn.Ret), params, false)
}

func (c *llvmCodegen) getPtrType(ty llvm.Type) llvm.Type {
	return llvm.PointerType(ty, 0)
}
