package ast

type ExprStmt struct {
	Expr *Node
}

type AssignStmt struct {
	Target *Node
	Value  *Node
}

type BlockStmt struct {
	Statements []*Node
	Scope      *Scope
}

type CondBranch struct {
	Cond  *Node
	Block *Node
}

// IfStmt holds "if" followed by every "else if" in order. Else is nil when
// there is no final else block.
type IfStmt struct {
	Branches []*CondBranch
	Else     *Node
}

type WhileLoop struct {
	Cond  *Node
	Block *Node
}

type ReturnStmt struct {
	// Value is nil for a bare "return;".
	Value *Node
}
