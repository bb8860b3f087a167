// Package compiler drives a whole compilation: it loads the entry module and
// everything it imports, runs every phase over each module in dependency
// order, writes one IR file per module and links them with the runtime.
package compiler

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"tinygo.org/x/go-llvm"

	"github.com/HicaroD/herb/internal/ast"
	codegen "github.com/HicaroD/herb/internal/codegen/llvm"
	"github.com/HicaroD/herb/internal/config"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/loader"
	"github.com/HicaroD/herb/internal/resolve"
	"github.com/HicaroD/herb/internal/sema"
)

const IR_EXT = ".ll"

type generator interface {
	Generate(mod *ast.Module) (llvm.Module, error)
}

type Compiler struct {
	project   *config.Project
	logger    *zap.Logger
	collector *diagnostics.Collector
}

func New(project *config.Project, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		project:   project,
		logger:    logger,
		collector: diagnostics.NewWithLogger(logger),
	}
}

// Compile builds entryPath into an executable with a nop logger.
func Compile(entryPath string, project *config.Project) error {
	return New(project, nil).Compile(entryPath)
}

// Diagnostics returns everything reported by the last run.
func (c *Compiler) Diagnostics() *diagnostics.Collector {
	return c.collector
}

// Compile builds entryPath into an executable. On failure the returned error
// combines every collected diagnostic, which can also be read back with
// Diagnostics.
func (c *Compiler) Compile(entryPath string) error {
	start := time.Now()

	irFiles, err := c.Emit(entryPath)
	if err != nil {
		return err
	}
	output := c.outputPath(entryPath)
	if err := c.link(irFiles, output); err != nil {
		return c.fail(err)
	}

	c.logger.Info("compilation finished",
		zap.String("output", output),
		zap.Int("modules", len(irFiles)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Emit runs every phase up to code generation and writes one IR file per
// module into the project's build directory. The files are returned in
// dependency order, the entry module last.
func (c *Compiler) Emit(entryPath string) ([]string, error) {
	c.collector = diagnostics.NewWithLogger(c.logger)

	mods, err := loader.New(c.project, c.collector, c.logger).Load(entryPath)
	if err != nil {
		return nil, c.fail(err)
	}

	if err := os.MkdirAll(c.project.BuildDir(), 0755); err != nil {
		return nil, errors.Wrap(err, "creating build directory")
	}

	context := llvm.NewContext()
	defer context.Dispose()
	cg := codegen.NewCG(context, c.logger)
	defer cg.Dispose()

	irFiles := make([]string, 0, len(mods))
	for _, mod := range mods {
		if err := c.analyze(mod); err != nil {
			return nil, c.fail(err)
		}
		irFile, err := c.emitModule(cg, mod)
		if err != nil {
			return nil, c.fail(err)
		}
		irFiles = append(irFiles, irFile)
	}
	return irFiles, nil
}

func (c *Compiler) analyze(mod *ast.Module) error {
	start := time.Now()
	resolver := resolve.New(c.collector, c.logger)
	checker := sema.New(c.collector, c.logger)

	if err := resolver.Resolve(mod); err != nil {
		return err
	}
	if mod.IsEntry {
		if err := resolver.CheckMain(mod); err != nil {
			return err
		}
	}
	// both only report, so one run shows type errors next to bad globals
	checkErr := checker.Check(mod)
	constErr := resolver.CheckGlobalInitializers(mod)
	if err := multierr.Combine(checkErr, constErr); err != nil {
		return err
	}
	if err := checker.LowerBuiltins(mod); err != nil {
		return err
	}
	if err := sema.CheckTermination(c.collector, mod); err != nil {
		return err
	}

	c.logger.Debug("module checked",
		zap.String("module", mod.Path),
		zap.Int("decls", len(mod.Decls)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (c *Compiler) emitModule(cg generator, mod *ast.Module) (string, error) {
	module, err := cg.Generate(mod)
	defer module.Dispose()
	if err != nil {
		c.collector.Report(diagnostics.BACKEND, mod.Node().Pos(), err.Error(), "Code generation failed for '%s'", mod.Name())
		return "", diagnostics.ERR_COMPILATION_INTERRUPTED
	}

	irFile := filepath.Join(c.project.BuildDir(), mod.UniqueName()+IR_EXT)
	if err := os.WriteFile(irFile, []byte(module.String()), 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", irFile)
	}
	c.logger.Debug("module emitted", zap.String("module", mod.Path), zap.String("ir", irFile))
	return irFile, nil
}

func (c *Compiler) outputPath(entryPath string) string {
	if c.project.Output != "" {
		return c.project.Output
	}
	name := filepath.Base(entryPath)
	return filepath.Join(c.project.Root, name[:len(name)-len(filepath.Ext(name))])
}

// fail turns a phase error into the value Compile returns: the combined
// diagnostics when the phase reported any, the error itself otherwise.
func (c *Compiler) fail(err error) error {
	if !c.collector.HasErrors() {
		return err
	}
	if !stderrors.Is(err, diagnostics.COMPILER_ERROR_FOUND) && !stderrors.Is(err, diagnostics.ERR_COMPILATION_INTERRUPTED) {
		c.logger.Warn("phase failed after reporting diagnostics", zap.Error(err))
	}
	return c.collector.Err()
}
