// Package ast defines the abstract syntax tree of Herb modules and the
// traversals every compiler phase is built on.
package ast

import (
	"fmt"

	"github.com/HicaroD/herb/internal/lexer/token"
)

type NodeKind int

const (
	KIND_INVALID NodeKind = iota

	KIND_MODULE

	DECL_START // declaration node start delimiter

	KIND_IMPORT
	KIND_VAR_DECL
	KIND_FN_DECL
	KIND_ARG_DECL
	KIND_BUILTIN_DECL
	KIND_ENTRYPOINT

	DECL_END // declaration node end delimiter

	STMT_START // statement node start delimiter

	KIND_EXPR_STMT
	KIND_ASSIGN_STMT
	KIND_BLOCK_STMT
	KIND_IF_STMT
	KIND_WHILE_LOOP_STMT
	KIND_RETURN_STMT

	STMT_END // statement node end delimiter

	EXPR_START // expression node start delimiter

	KIND_INT_LITERAL
	KIND_BOOL_LITERAL
	KIND_STR_LITERAL
	KIND_ID_EXPR
	KIND_MEMBER_EXPR
	KIND_FN_CALL
	KIND_BINARY_EXPR
	KIND_UNARY_EXPR
	KIND_PRINT

	EXPR_END // expression node end delimiter
)

// NodeID addresses a node inside the arena of the module that owns it.
type NodeID int32

// NoNode is the parent of every root node and the ID of nodes that live
// outside any module, such as builtins.
const NoNode NodeID = 0

type Node struct {
	ID     NodeID
	Kind   NodeKind
	Span   token.Span
	Parent NodeID
	Node   any
}

func (n *Node) Pos() token.Pos { return n.Span.Start }

func (n *Node) IsStmt() bool {
	return n.Kind > STMT_START && n.Kind < STMT_END
}

func (n *Node) IsExpr() bool {
	return n.Kind > EXPR_START && n.Kind < EXPR_END
}

func (n *Node) IsDecl() bool {
	return n.Kind > DECL_START && n.Kind < DECL_END
}

func (n *Node) IsId() bool {
	return n.Kind == KIND_ID_EXPR
}

func (n *Node) IsReturn() bool {
	return n.Kind == KIND_RETURN_STMT
}

func (n *Node) IsLiteral() bool {
	return n.Kind == KIND_INT_LITERAL || n.Kind == KIND_BOOL_LITERAL || n.Kind == KIND_STR_LITERAL
}

func (kind NodeKind) String() string {
	switch kind {
	case KIND_MODULE:
		return "KIND_MODULE"
	case KIND_IMPORT:
		return "KIND_IMPORT"
	case KIND_VAR_DECL:
		return "KIND_VAR_DECL"
	case KIND_FN_DECL:
		return "KIND_FN_DECL"
	case KIND_ARG_DECL:
		return "KIND_ARG_DECL"
	case KIND_BUILTIN_DECL:
		return "KIND_BUILTIN_DECL"
	case KIND_ENTRYPOINT:
		return "KIND_ENTRYPOINT"
	case KIND_EXPR_STMT:
		return "KIND_EXPR_STMT"
	case KIND_ASSIGN_STMT:
		return "KIND_ASSIGN_STMT"
	case KIND_BLOCK_STMT:
		return "KIND_BLOCK_STMT"
	case KIND_IF_STMT:
		return "KIND_IF_STMT"
	case KIND_WHILE_LOOP_STMT:
		return "KIND_WHILE_LOOP_STMT"
	case KIND_RETURN_STMT:
		return "KIND_RETURN_STMT"
	case KIND_INT_LITERAL:
		return "KIND_INT_LITERAL"
	case KIND_BOOL_LITERAL:
		return "KIND_BOOL_LITERAL"
	case KIND_STR_LITERAL:
		return "KIND_STR_LITERAL"
	case KIND_ID_EXPR:
		return "KIND_ID_EXPR"
	case KIND_MEMBER_EXPR:
		return "KIND_MEMBER_EXPR"
	case KIND_FN_CALL:
		return "KIND_FN_CALL"
	case KIND_BINARY_EXPR:
		return "KIND_BINARY_EXPR"
	case KIND_UNARY_EXPR:
		return "KIND_UNARY_EXPR"
	case KIND_PRINT:
		return "KIND_PRINT"
	}
	return fmt.Sprintf("Unknown Node Kind: %d", int(kind))
}

func (n *Node) String() string {
	return fmt.Sprintf("%s at %s", n.Kind, n.Span)
}
