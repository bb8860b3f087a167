package ast

import (
	"fmt"

	"github.com/HicaroD/herb/internal/lexer/token"
)

// Expr is embedded by every expression payload. Ty starts out nil, which
// reads as unknown, and is fixed by the type checker.
type Expr struct {
	Ty *Ty
}

func (e *Expr) Type() *Ty {
	if e.Ty == nil {
		return UNKNOWN_TY
	}
	return e.Ty
}

func (e *Expr) SetType(ty *Ty) { e.Ty = ty }

type typedExpr interface {
	Type() *Ty
	SetType(*Ty)
}

// Type returns the static type of an expression node, unknown for anything
// else.
func (n *Node) Type() *Ty {
	if expr, ok := n.Node.(typedExpr); ok {
		return expr.Type()
	}
	return UNKNOWN_TY
}

func (n *Node) SetType(ty *Ty) {
	if expr, ok := n.Node.(typedExpr); ok {
		expr.SetType(ty)
	}
}

type IntLiteral struct {
	Expr
	Value int64
}

func (lit IntLiteral) String() string { return fmt.Sprintf("%d", lit.Value) }

type BoolLiteral struct {
	Expr
	Value bool
}

func (lit BoolLiteral) String() string { return fmt.Sprintf("%t", lit.Value) }

type StrLiteral struct {
	Expr
	Value string
}

func (lit StrLiteral) String() string { return fmt.Sprintf("%q", lit.Value) }

type IdExpr struct {
	Expr
	Name string
	// Decl is nil until the resolver binds the identifier.
	Decl *Node
}

func (id IdExpr) String() string { return id.Name }

// MemberExpr is "receiver.Name". The resolver replaces every member
// expression with a bound IdExpr.
type MemberExpr struct {
	Expr
	Receiver *Node
	Name     string
}

type FnCall struct {
	Expr
	Callee *Node
	Args   []*Node
}

type BinaryExpr struct {
	Expr
	Op    token.Kind
	Left  *Node
	Right *Node
}

type UnaryExpr struct {
	Expr
	Op    token.Kind
	Value *Node
}

// Print is a call to the print builtin after lowering.
type Print struct {
	Expr
	Arg *Node
}
