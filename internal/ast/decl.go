package ast

import (
	"fmt"
	"strings"
)

type Import struct {
	Alias      string
	Path       []string
	IsRelative bool
	// Module is set by the loader once the import path has been resolved.
	Module *Module
}

func (imp *Import) Name() string {
	if imp.Alias != "" {
		return imp.Alias
	}
	return imp.Path[len(imp.Path)-1]
}

// ImportPath renders the path the way it was written, ".a.b" for relative
// imports.
func (imp *Import) ImportPath() string {
	path := strings.Join(imp.Path, ".")
	if imp.IsRelative {
		return "." + path
	}
	return path
}

func (imp Import) String() string { return fmt.Sprintf("IMPORT: %s", imp.ImportPath()) }

type VarDecl struct {
	Name    string
	Mutable bool
	Global  bool
	// Annotation is the written type, nil when the type is inferred.
	Annotation *Ty
	Ty         *Ty
	Init       *Node
}

func (v VarDecl) String() string { return fmt.Sprintf("VAR: %s", v.Name) }

type FnDecl struct {
	Name    string
	Args    []*Node
	RetType *Ty
	Block   *Node
	Scope   *Scope
}

func (fn *FnDecl) Type() *Ty {
	args := make([]*Ty, len(fn.Args))
	for i, arg := range fn.Args {
		args[i] = arg.Node.(*ArgDecl).Ty
	}
	return NewFuncTy(args, fn.RetType)
}

func (fn FnDecl) String() string { return fmt.Sprintf("FN: %s", fn.Name) }

type ArgDecl struct {
	Name string
	Ty   *Ty
}

func (arg ArgDecl) String() string { return fmt.Sprintf("ARG: %s", arg.Name) }

type BuiltinDecl struct {
	Name string
}

const ENTRYPOINT_NAME = "-entrypoint-"

// Entrypoint is a top-level "entrypoint { ... }" block, an alternative to
// "fn main()".
type Entrypoint struct {
	Block *Node
}

// DeclName returns the name a declaration binds, or "" for non-declarations.
func (n *Node) DeclName() string {
	switch decl := n.Node.(type) {
	case *Import:
		return decl.Name()
	case *VarDecl:
		return decl.Name
	case *FnDecl:
		return decl.Name
	case *ArgDecl:
		return decl.Name
	case *BuiltinDecl:
		return decl.Name
	case *Entrypoint:
		return ENTRYPOINT_NAME
	}
	return ""
}

// ValueType is the type an identifier bound to this declaration evaluates
// to. Imports have no value type.
func (n *Node) ValueType() *Ty {
	switch decl := n.Node.(type) {
	case *VarDecl:
		if decl.Ty == nil {
			return UNKNOWN_TY
		}
		return decl.Ty
	case *ArgDecl:
		return decl.Ty
	case *FnDecl:
		return decl.Type()
	case *BuiltinDecl:
		return BUILTIN_TY
	}
	return UNKNOWN_TY
}
