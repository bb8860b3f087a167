package ast

import "github.com/HicaroD/herb/internal/lexer/token"

// Binary operator precedence levels, loosest first.
var (
	LOGICAL_OR  = map[token.Kind]bool{token.PIPE_PIPE: true}
	LOGICAL_AND = map[token.Kind]bool{token.AND_AND: true}
	BITWISE_OR  = map[token.Kind]bool{token.PIPE: true}
	BITWISE_AND = map[token.Kind]bool{token.AMPERSAND: true}
	COMPARASION = map[token.Kind]bool{
		token.EQUAL_EQUAL: true,
		token.BANG_EQUAL:  true,
		token.LESS:        true,
		token.LESS_EQ:     true,
		token.GREATER:     true,
		token.GREATER_EQ:  true,
	}
	TERM   = map[token.Kind]bool{token.PLUS: true, token.MINUS: true}
	FACTOR = map[token.Kind]bool{token.STAR: true, token.SLASH: true, token.PERCENT: true}
	UNARY  = map[token.Kind]bool{token.MINUS: true, token.BANG: true}
)

// BINARY_PRECEDENCE lists the levels from loosest to tightest binding.
var BINARY_PRECEDENCE = []map[token.Kind]bool{
	LOGICAL_OR,
	LOGICAL_AND,
	BITWISE_OR,
	BITWISE_AND,
	COMPARASION,
	TERM,
	FACTOR,
}
