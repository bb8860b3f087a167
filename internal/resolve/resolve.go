// Package resolve binds every identifier of a module to its declaration and
// checks the rules that only need names: duplicates, module members, the
// order of global variables and the shape of their initializers.
package resolve

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

type Resolver struct {
	collector *diagnostics.Collector
	logger    *zap.Logger

	mod *ast.Module
	// scopes is the chain from the module scope (first) to the innermost
	// block (last).
	scopes []*ast.Scope
}

func New(collector *diagnostics.Collector, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{collector: collector, logger: logger}
}

// Resolve runs every resolution step over mod. Imported modules must already
// be resolved. Running it again over a resolved module changes nothing.
func (r *Resolver) Resolve(mod *ast.Module) error {
	before := len(r.collector.Diags)

	r.mod = mod
	r.scopes = nil
	defer func() { r.mod = nil }()

	reorder(mod)

	mod.Scope = ast.NewScope()
	for _, imp := range mod.Imports {
		r.declare(mod.Scope, imp)
	}
	for _, decl := range mod.Decls {
		r.declare(mod.Scope, decl)
	}

	ast.Transform(r, mod.Node())

	if err := r.orderGlobals(); err != nil {
		return err
	}

	ast.SetParents(mod.Node())

	r.logger.Debug("module resolved",
		zap.String("module", mod.Path),
		zap.Int("decls", len(mod.Decls)),
	)

	if len(r.collector.Diags) > before {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (r *Resolver) Transform(n *ast.Node) *ast.Node {
	switch node := n.Node.(type) {
	case *ast.Module:
		r.push(node.Scope)
		ast.TransformChildren(r, n)
		r.pop()
	case *ast.VarDecl:
		node.Init = ast.Transform(r, node.Init)
		if !node.Global {
			r.declare(r.top(), n)
		}
	case *ast.FnDecl:
		node.Scope = ast.NewScope()
		for _, arg := range node.Args {
			r.declare(node.Scope, arg)
		}
		r.push(node.Scope)
		node.Block = ast.Transform(r, node.Block)
		r.pop()
	case *ast.BlockStmt:
		node.Scope = ast.NewScope()
		r.push(node.Scope)
		ast.TransformChildren(r, n)
		r.pop()
	case *ast.IdExpr:
		return r.resolveId(n, node)
	case *ast.MemberExpr:
		return r.resolveMember(n, node)
	default:
		ast.TransformChildren(r, n)
	}
	return n
}

func (r *Resolver) resolveId(n *ast.Node, id *ast.IdExpr) *ast.Node {
	if id.Decl != nil {
		return n
	}

	decl, ok := r.lookup(id.Name)
	if !ok {
		r.collector.Report(
			diagnostics.RESOLUTION,
			n.Pos(),
			fmt.Sprintf("'%s' is not declared in this scope", id.Name),
			"Symbol not found.",
		)
		return n
	}

	return r.mod.Arena.New(ast.KIND_ID_EXPR, n.Span, &ast.IdExpr{Name: id.Name, Decl: decl})
}

func (r *Resolver) resolveMember(n *ast.Node, member *ast.MemberExpr) *ast.Node {
	member.Receiver = ast.Transform(r, member.Receiver)

	receiver, ok := member.Receiver.Node.(*ast.IdExpr)
	if ok && receiver.Decl == nil {
		// already reported as not found
		return n
	}
	if !ok || receiver.Decl.Kind != ast.KIND_IMPORT {
		r.collector.Report(
			diagnostics.RESOLUTION,
			member.Receiver.Pos(),
			"",
			"'%s' is not a module",
			describe(member.Receiver),
		)
		return n
	}

	imp := receiver.Decl.Node.(*ast.Import)
	decl, found := imp.Module.Lookup(member.Name)
	if !found || decl.Kind == ast.KIND_IMPORT || decl.Kind == ast.KIND_ENTRYPOINT {
		r.collector.Report(
			diagnostics.RESOLUTION,
			n.Pos(),
			"",
			"Module '%s' has no member '%s'",
			receiver.Name,
			member.Name,
		)
		return n
	}

	name := receiver.Name + "." + member.Name
	return r.mod.Arena.New(ast.KIND_ID_EXPR, n.Span, &ast.IdExpr{Name: name, Decl: decl})
}

func (r *Resolver) declare(scope *ast.Scope, decl *ast.Node) {
	name := decl.DeclName()
	if err := scope.Insert(name, decl); err != nil {
		previous, _ := scope.LookupCurrentScope(name)
		if decl.Kind == ast.KIND_ENTRYPOINT {
			r.collector.Report(
				diagnostics.RESOLUTION,
				decl.Pos(),
				fmt.Sprintf("The first entrypoint is at %s", previous.Pos()),
				"Module can't have more than one entrypoint",
			)
			return
		}
		r.collector.Report(
			diagnostics.RESOLUTION,
			decl.Pos(),
			fmt.Sprintf("There is already a declaration with the same name at %s", previous.Pos()),
			"Name '%s' is already bound in the same scope",
			name,
		)
	}
}

// lookup searches the scope chain from the innermost scope outwards and
// falls back to the builtins.
func (r *Resolver) lookup(name string) (*ast.Node, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if decl, err := r.scopes[i].LookupCurrentScope(name); err == nil {
			return decl, true
		}
	}
	return ast.LookupBuiltin(name)
}

func (r *Resolver) push(scope *ast.Scope) { r.scopes = append(r.scopes, scope) }
func (r *Resolver) pop()                  { r.scopes = r.scopes[:len(r.scopes)-1] }
func (r *Resolver) top() *ast.Scope       { return r.scopes[len(r.scopes)-1] }

func describe(n *ast.Node) string {
	switch node := n.Node.(type) {
	case *ast.IdExpr:
		return node.Name
	case *ast.MemberExpr:
		return describe(node.Receiver) + "." + node.Name
	}
	return "expression"
}
