package ast

import "github.com/HicaroD/herb/internal/lexer/token"

const PRINT_BUILTIN = "print"

// Builtins is the table identifiers fall back to when no scope binds them.
// Builtin nodes live outside every arena.
var Builtins = map[string]*Node{
	PRINT_BUILTIN: {
		ID:   NoNode,
		Kind: KIND_BUILTIN_DECL,
		Span: token.Span{Start: token.NewPosition("<builtin>", 0, 0)},
		Node: &BuiltinDecl{Name: PRINT_BUILTIN},
	},
}

func LookupBuiltin(name string) (*Node, bool) {
	node, ok := Builtins[name]
	return node, ok
}

func IsBuiltin(decl *Node, name string) bool {
	return decl != nil && decl.Kind == KIND_BUILTIN_DECL && decl.Node.(*BuiltinDecl).Name == name
}

func spanAtFileStart(path string) token.Span {
	pos := token.NewPosition(path, 1, 1)
	return token.Span{Start: pos, End: pos}
}
