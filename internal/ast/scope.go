package ast

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE = errors.New("symbol already defined on scope")
	ERR_SYMBOL_NOT_FOUND_ON_SCOPE       = errors.New("symbol not found on scope")
)

// Scope maps names to declarations in insertion order. Scopes do not point
// at their parent; the resolver keeps the chain on its own stack.
type Scope struct {
	Nodes map[string]*Node
	names []string
}

func NewScope() *Scope {
	return &Scope{Nodes: make(map[string]*Node)}
}

func (scope *Scope) Insert(name string, element *Node) error {
	if _, ok := scope.Nodes[name]; ok {
		return ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE
	}
	scope.Nodes[name] = element
	scope.names = append(scope.names, name)
	return nil
}

func (scope *Scope) LookupCurrentScope(name string) (*Node, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	return nil, ERR_SYMBOL_NOT_FOUND_ON_SCOPE
}

// Names returns the declared names in declaration order.
func (scope *Scope) Names() []string {
	names := make([]string, len(scope.names))
	copy(names, scope.names)
	return names
}

func (scope *Scope) Len() int { return len(scope.names) }

func (scope Scope) String() string {
	return fmt.Sprintf("Scope{%s}", strings.Join(scope.names, ", "))
}
