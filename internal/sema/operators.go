package sema

import (
	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/lexer/token"
)

// opRule is the operand type an operator requires and the type it produces.
type opRule struct {
	Operand *ast.Ty
	Result  *ast.Ty
}

var (
	intToInt   = opRule{Operand: ast.INT_TY, Result: ast.INT_TY}
	intToBool  = opRule{Operand: ast.INT_TY, Result: ast.BOOL_TY}
	boolToBool = opRule{Operand: ast.BOOL_TY, Result: ast.BOOL_TY}
)

var BINARY_OPS = map[token.Kind]opRule{
	token.PLUS:      intToInt,
	token.MINUS:     intToInt,
	token.STAR:      intToInt,
	token.SLASH:     intToInt,
	token.PERCENT:   intToInt,
	token.AMPERSAND: intToInt,
	token.PIPE:      intToInt,

	token.EQUAL_EQUAL: intToBool,
	token.BANG_EQUAL:  intToBool,
	token.LESS:        intToBool,
	token.LESS_EQ:     intToBool,
	token.GREATER:     intToBool,
	token.GREATER_EQ:  intToBool,

	token.AND_AND:   boolToBool,
	token.PIPE_PIPE: boolToBool,
}

var UNARY_OPS = map[token.Kind]opRule{
	token.MINUS: intToInt,
	token.BANG:  boolToBool,
}
