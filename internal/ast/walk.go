package ast

import "fmt"

// Walker is a side-effecting pass. A Walker that does not care about a node
// kind forwards to WalkChildren.
type Walker interface {
	Walk(n *Node)
}

// Transformer may replace the node it is given. A Transformer that does not
// care about a node kind calls TransformChildren and returns the node itself.
// Parents must be recomputed with SetParents after a transformer runs.
type Transformer interface {
	Transform(n *Node) *Node
}

// Visitor computes a value per node.
type Visitor[R any] interface {
	Visit(n *Node) R
}

func Walk(w Walker, n *Node) {
	if n != nil {
		w.Walk(n)
	}
}

func Transform(t Transformer, n *Node) *Node {
	if n == nil {
		return nil
	}
	return t.Transform(n)
}

func Accept[R any](v Visitor[R], n *Node) R {
	return v.Visit(n)
}

func WalkChildren(w Walker, n *Node) {
	eachChild(n, func(child **Node) {
		w.Walk(*child)
	})
}

func TransformChildren(t Transformer, n *Node) {
	eachChild(n, func(child **Node) {
		*child = t.Transform(*child)
	})
}

func VisitChildren[R any](v Visitor[R], n *Node) []R {
	var results []R
	eachChild(n, func(child **Node) {
		results = append(results, v.Visit(*child))
	})
	return results
}

// Children returns the immediate children of n in source order.
func Children(n *Node) []*Node {
	var children []*Node
	eachChild(n, func(child **Node) {
		children = append(children, *child)
	})
	return children
}

type inspector func(*Node) bool

func (f inspector) Walk(n *Node) {
	if f(n) {
		WalkChildren(f, n)
	}
}

// Inspect traverses the subtree rooted at n in depth-first order. Children of
// a node are skipped when f returns false for it.
func Inspect(n *Node, f func(*Node) bool) {
	Walk(inspector(f), n)
}

// eachChild calls fn with the slot of every non-nil immediate child of n.
// Writing to the slot replaces the child.
func eachChild(n *Node, fn func(child **Node)) {
	slot := func(child **Node) {
		if *child != nil {
			fn(child)
		}
	}
	slots := func(children []*Node) {
		for i := range children {
			slot(&children[i])
		}
	}

	switch node := n.Node.(type) {
	case *Module:
		slots(node.Imports)
		slots(node.Decls)
	case *Import, *ArgDecl, *BuiltinDecl:
	case *VarDecl:
		slot(&node.Init)
	case *FnDecl:
		slots(node.Args)
		slot(&node.Block)
	case *Entrypoint:
		slot(&node.Block)
	case *ExprStmt:
		slot(&node.Expr)
	case *AssignStmt:
		slot(&node.Target)
		slot(&node.Value)
	case *BlockStmt:
		slots(node.Statements)
	case *IfStmt:
		for _, branch := range node.Branches {
			slot(&branch.Cond)
			slot(&branch.Block)
		}
		slot(&node.Else)
	case *WhileLoop:
		slot(&node.Cond)
		slot(&node.Block)
	case *ReturnStmt:
		slot(&node.Value)
	case *IntLiteral, *BoolLiteral, *StrLiteral, *IdExpr:
	case *MemberExpr:
		slot(&node.Receiver)
	case *FnCall:
		slot(&node.Callee)
		slots(node.Args)
	case *BinaryExpr:
		slot(&node.Left)
		slot(&node.Right)
	case *UnaryExpr:
		slot(&node.Value)
	case *Print:
		slot(&node.Arg)
	default:
		panic(fmt.Sprintf("ast: unexpected node payload %T for %s", n.Node, n.Kind))
	}
}
