package llvm

import (
	"tinygo.org/x/go-llvm"
)

// LLVMValue is what a declaration lowers to: a *Variable or a *Function.
type LLVMValue interface {
	llvmValue()
}

// Variable is the storage of a global, local or argument.
type Variable struct {
	Ty  llvm.Type
	Ptr llvm.Value
}

func NewVariableValue(ty llvm.Type, ptr llvm.Value) *Variable {
	return &Variable{Ty: ty, Ptr: ptr}
}

func (*Variable) llvmValue() {}

// Function is a Herb function together with the constant global holding its
// address. Fn is nil for functions defined in another module.
type Function struct {
	Fn  llvm.Value
	Ty  llvm.Type
	Ref llvm.Value
	// Entry marks the C main function, which returns 0 where Herb returns
	// nothing.
	Entry bool
}

func NewFunctionValue(fn llvm.Value, ty llvm.Type, ref llvm.Value) *Function {
	return &Function{Fn: fn, Ty: ty, Ref: ref}
}

func (*Function) llvmValue() {}
