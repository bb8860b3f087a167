package resolve

import (
	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
)

const MAIN_FUNCTION = "main"

// CheckMain requires the entry module to declare where the program starts:
// either "fn main()" without arguments and without a return value, or an
// entrypoint block, but not both.
func (r *Resolver) CheckMain(entry *ast.Module) error {
	var main, entrypoint *ast.Node
	for _, decl := range entry.Decls {
		switch decl.Kind {
		case ast.KIND_FN_DECL:
			if decl.Node.(*ast.FnDecl).Name == MAIN_FUNCTION {
				main = decl
			}
		case ast.KIND_ENTRYPOINT:
			entrypoint = decl
		}
	}

	switch {
	case main == nil && entrypoint == nil:
		r.collector.Report(
			diagnostics.RESOLUTION,
			entry.Node().Pos(),
			"Declare 'fn main() { ... }' or an 'entrypoint { ... }' block",
			"Entry module must have a 'main' function",
		)
	case main != nil && entrypoint != nil:
		r.collector.Report(
			diagnostics.RESOLUTION,
			entrypoint.Pos(),
			"Remove either the entrypoint or the 'main' function declared at "+main.Pos().String(),
			"Entry module can't have both a 'main' function and an entrypoint",
		)
	case main != nil:
		fn := main.Node.(*ast.FnDecl)
		if len(fn.Args) == 0 && fn.RetType.IsVoid() {
			return nil
		}
		r.collector.Report(
			diagnostics.RESOLUTION,
			main.Pos(),
			"The 'main' function takes no arguments and returns nothing",
			"Entry module must have a 'main' function",
		)
	default:
		return nil
	}
	return diagnostics.COMPILER_ERROR_FOUND
}
