package resolve

import (
	"sort"
	"strings"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

func declRank(decl *ast.Node) int {
	switch decl.Kind {
	case ast.KIND_VAR_DECL:
		return 0
	case ast.KIND_FN_DECL:
		return 1
	}
	return 2
}

// reorder puts global variables first, then functions, then the entrypoint,
// keeping source order within each group.
func reorder(mod *ast.Module) {
	sort.SliceStable(mod.Decls, func(i, j int) bool {
		return declRank(mod.Decls[i]) < declRank(mod.Decls[j])
	})
}

type depState int

const (
	unvisited depState = iota
	visiting
	done
)

type globalOrder struct {
	deps   map[*ast.Node][]*ast.Node
	states map[*ast.Node]depState
	path   []*ast.Node
	order  []*ast.Node
}

// orderGlobals sorts global variables so that each one comes after the
// globals its initializer refers to. A cycle between them stops the
// compilation.
func (r *Resolver) orderGlobals() error {
	var globals []*ast.Node
	local := make(map[*ast.Node]bool)
	for _, decl := range r.mod.Decls {
		if decl.Kind == ast.KIND_VAR_DECL {
			globals = append(globals, decl)
			local[decl] = true
		}
	}

	g := &globalOrder{
		deps:   make(map[*ast.Node][]*ast.Node),
		states: make(map[*ast.Node]depState),
	}
	for _, global := range globals {
		g.deps[global] = globalRefs(global, local)
	}

	for _, global := range globals {
		if g.states[global] != unvisited {
			continue
		}
		if cycle := g.visit(global); cycle != nil {
			r.reportCycle(cycle)
			return diagnostics.ERR_COMPILATION_INTERRUPTED
		}
	}

	copy(r.mod.Decls, g.order)
	return nil
}

// globalRefs lists the globals in local that decl refers to, without
// duplicates.
func globalRefs(decl *ast.Node, local map[*ast.Node]bool) []*ast.Node {
	var refs []*ast.Node
	seen := make(map[*ast.Node]bool)
	ast.Inspect(decl.Node.(*ast.VarDecl).Init, func(n *ast.Node) bool {
		id, ok := n.Node.(*ast.IdExpr)
		if ok && local[id.Decl] && !seen[id.Decl] {
			seen[id.Decl] = true
			refs = append(refs, id.Decl)
		}
		return true
	})
	return refs
}

func (g *globalOrder) visit(decl *ast.Node) []*ast.Node {
	g.states[decl] = visiting
	g.path = append(g.path, decl)

	for _, dep := range g.deps[decl] {
		switch g.states[dep] {
		case unvisited:
			if cycle := g.visit(dep); cycle != nil {
				return cycle
			}
		case visiting:
			for i, onPath := range g.path {
				if onPath == dep {
					cycle := append([]*ast.Node{}, g.path[i:]...)
					return append(cycle, dep)
				}
			}
		}
	}

	g.path = g.path[:len(g.path)-1]
	g.states[decl] = done
	g.order = append(g.order, decl)
	return nil
}

func (r *Resolver) reportCycle(cycle []*ast.Node) {
	names := make([]string, len(cycle))
	for i, decl := range cycle {
		names[i] = decl.DeclName()
	}
	r.collector.Report(
		diagnostics.DEPENDENCY,
		cycle[0].Pos(),
		strings.Join(names, " -> "),
		"Declarations are cyclic",
	)
}

// CheckGlobalInitializers requires every global variable of a resolved
// module to be initialized with a literal, so that it can be emitted as
// constant data. It does not affect typing and runs after the type checker.
func (r *Resolver) CheckGlobalInitializers(mod *ast.Module) error {
	before := len(r.collector.Diags)
	for _, decl := range mod.Decls {
		if decl.Kind != ast.KIND_VAR_DECL {
			continue
		}
		v := decl.Node.(*ast.VarDecl)
		if v.Init.IsLiteral() {
			continue
		}
		r.collector.Report(
			diagnostics.RESOLUTION,
			v.Init.Pos(),
			"Compute the value inside a function and assign it to '"+v.Name+"' there",
			"Global variable initializer can only be a literal.",
		)
	}
	if len(r.collector.Diags) > before {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}
