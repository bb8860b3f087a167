package compiler

import (
	"bytes"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/config"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/lexer/token"
)

// runtimeArtifacts lists the prebuilt runtime IR files in dir, sorted by
// name.
func runtimeArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading runtime directory %s", dir)
	}

	var artifacts []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != IR_EXT {
			continue
		}
		artifacts = append(artifacts, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(artifacts)
	return artifacts, nil
}

func (c *Compiler) linkArgs(irFiles, artifacts []string, output string) []string {
	args := []string{c.project.BuildType.OptLevel()}
	if c.project.BuildType == config.RELEASE {
		args = append(args, "-Wl,-s")
	}
	args = append(args, "-o", output)
	args = append(args, irFiles...)
	return append(args, artifacts...)
}

func (c *Compiler) link(irFiles []string, output string) error {
	runtimeDir := c.project.RuntimeArtifactsDir()
	artifacts, err := runtimeArtifacts(runtimeDir)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		c.collector.Report(
			diagnostics.BACKEND,
			token.Pos{},
			"set H_RUNTIME or the 'runtime' key of herb.yaml to the runtime directory",
			"cannot find runtime artifacts in %s",
			runtimeDir,
		)
		return diagnostics.ERR_COMPILATION_INTERRUPTED
	}

	cmd := exec.Command(c.project.Linker, c.linkArgs(irFiles, artifacts, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running linker", zap.String("command", cmd.String()))
	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &exitErr):
		c.collector.Report(
			diagnostics.BACKEND,
			token.Pos{},
			strings.TrimSpace(stderr.String()),
			"%s returned non-null exit code",
			filepath.Base(c.project.Linker),
		)
		return diagnostics.ERR_COMPILATION_INTERRUPTED
	default:
		c.collector.Report(
			diagnostics.BACKEND,
			token.Pos{},
			err.Error(),
			"cannot run linker '%s'",
			c.project.Linker,
		)
		return diagnostics.ERR_COMPILATION_INTERRUPTED
	}
}
