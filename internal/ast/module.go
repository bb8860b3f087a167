package ast

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-faster/city"
)

const FILE_EXT = ".herb"

// Module is a compilation unit: one .herb file. Its node is always the first
// node of its own arena.
type Module struct {
	Path    string
	Imports []*Node
	Decls   []*Node
	Scope   *Scope
	Arena   *Arena
	IsEntry bool

	node *Node
}

func NewModule(path string, arena *Arena) (*Node, *Module) {
	mod := &Module{Path: path, Arena: arena, Scope: NewScope()}
	mod.node = arena.New(KIND_MODULE, spanAtFileStart(path), mod)
	return mod.node, mod
}

func (mod *Module) Node() *Node { return mod.node }

// Name is the file stem, "math" for "/src/math.herb".
func (mod *Module) Name() string {
	return strings.TrimSuffix(filepath.Base(mod.Path), filepath.Ext(mod.Path))
}

// Dir is the directory relative imports of this module resolve against.
func (mod *Module) Dir() string {
	return filepath.Dir(mod.Path)
}

// UniqueName is used to mangle every symbol the module emits. Two modules
// with the same stem in different directories get different names.
func (mod *Module) UniqueName() string {
	return fmt.Sprintf("%s_%016x", mod.Name(), city.Hash64([]byte(mod.Path)))
}

// Lookup finds a top-level declaration or import by name.
func (mod *Module) Lookup(name string) (*Node, bool) {
	node, err := mod.Scope.LookupCurrentScope(name)
	return node, err == nil
}

// Func returns the top-level function declared with the given name.
func (mod *Module) Func(name string) (*FnDecl, bool) {
	for _, decl := range mod.Decls {
		if decl.Kind == KIND_FN_DECL && decl.Node.(*FnDecl).Name == name {
			return decl.Node.(*FnDecl), true
		}
	}
	return nil, false
}

func (mod *Module) String() string {
	return fmt.Sprintf("// Module %s", mod.Path)
}
