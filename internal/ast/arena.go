package ast

import "github.com/HicaroD/herb/internal/lexer/token"

// Arena owns every node of one module. IDs are never reused, so an ID stays
// valid after the node it names has been swapped out of the tree.
type Arena struct {
	nodes []*Node
}

func NewArena() *Arena {
	// slot 0 is NoNode
	return &Arena{nodes: []*Node{nil}}
}

func (a *Arena) New(kind NodeKind, span token.Span, payload any) *Node {
	node := &Node{
		ID:     NodeID(len(a.nodes)),
		Kind:   kind,
		Span:   span,
		Parent: NoNode,
		Node:   payload,
	}
	a.nodes = append(a.nodes, node)
	return node
}

func (a *Arena) Get(id NodeID) *Node {
	if id <= NoNode || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Parent returns the syntactic parent of n, or nil for the module root.
func (a *Arena) Parent(n *Node) *Node {
	return a.Get(n.Parent)
}

// Len is the number of nodes ever allocated, including detached ones.
func (a *Arena) Len() int {
	return len(a.nodes) - 1
}
