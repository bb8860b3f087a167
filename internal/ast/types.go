package ast

import (
	"strings"

	"github.com/HicaroD/herb/internal/lexer/token"
)

type TyKind int

const (
	TY_UNKNOWN TyKind = iota
	TY_VOID
	TY_INT
	TY_BOOL
	TY_STR
	TY_BUILTIN
	TY_FUNC
)

type Ty struct {
	Kind TyKind
	Fn   *FuncTy
}

type FuncTy struct {
	Args []*Ty
	Ret  *Ty
}

// Primitive types are interned: compare them by pointer or with Equals.
var (
	UNKNOWN_TY = &Ty{Kind: TY_UNKNOWN}
	VOID_TY    = &Ty{Kind: TY_VOID}
	INT_TY     = &Ty{Kind: TY_INT}
	BOOL_TY    = &Ty{Kind: TY_BOOL}
	STR_TY     = &Ty{Kind: TY_STR}
	BUILTIN_TY = &Ty{Kind: TY_BUILTIN}
)

func NewFuncTy(args []*Ty, ret *Ty) *Ty {
	return &Ty{Kind: TY_FUNC, Fn: &FuncTy{Args: args, Ret: ret}}
}

func NewBasicType(kind token.Kind) *Ty {
	switch kind {
	case token.INT_TYPE:
		return INT_TY
	case token.BOOL_TYPE:
		return BOOL_TY
	case token.STR_TYPE:
		return STR_TY
	case token.VOID_TYPE:
		return VOID_TY
	}
	return UNKNOWN_TY
}

func (t *Ty) Equals(other *Ty) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.Kind != other.Kind {
		return false
	}
	if t.Kind != TY_FUNC {
		return true
	}
	if len(t.Fn.Args) != len(other.Fn.Args) {
		return false
	}
	for i := range t.Fn.Args {
		if !t.Fn.Args[i].Equals(other.Fn.Args[i]) {
			return false
		}
	}
	return t.Fn.Ret.Equals(other.Fn.Ret)
}

func (t *Ty) IsUnknown() bool { return t == nil || t.Kind == TY_UNKNOWN }
func (t *Ty) IsVoid() bool    { return t != nil && t.Kind == TY_VOID }
func (t *Ty) IsFunc() bool    { return t != nil && t.Kind == TY_FUNC }

// IsPrintable reports whether the print builtin has a runtime entry point for
// values of this type.
func (t *Ty) IsPrintable() bool {
	return t != nil && (t.Kind == TY_INT || t.Kind == TY_BOOL || t.Kind == TY_STR)
}

func (t *Ty) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case TY_VOID:
		return "void"
	case TY_INT:
		return "int"
	case TY_BOOL:
		return "bool"
	case TY_STR:
		return "str"
	case TY_BUILTIN:
		return "builtin"
	case TY_FUNC:
		args := make([]string, len(t.Fn.Args))
		for i, arg := range t.Fn.Args {
			args[i] = arg.String()
		}
		return "(" + strings.Join(args, ", ") + ") -> " + t.Fn.Ret.String()
	}
	return "unknown"
}
