package ast

type parentSetter struct {
	stack []NodeID
}

func (p *parentSetter) Walk(n *Node) {
	n.Parent = NoNode
	if len(p.stack) > 0 {
		n.Parent = p.stack[len(p.stack)-1]
	}
	p.stack = append(p.stack, n.ID)
	WalkChildren(p, n)
	p.stack = p.stack[:len(p.stack)-1]
}

// SetParents stamps the parent of every node reachable from root.
func SetParents(root *Node) {
	Walk(&parentSetter{}, root)
}

// EnclosingFunc walks parent links up from n to the nearest function or
// entrypoint declaration. It returns nil when n is not inside one.
func EnclosingFunc(arena *Arena, n *Node) *Node {
	for cur := arena.Parent(n); cur != nil; cur = arena.Parent(cur) {
		if cur.Kind == KIND_FN_DECL || cur.Kind == KIND_ENTRYPOINT {
			return cur
		}
	}
	return nil
}
