package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/compiler"
	"github.com/HicaroD/herb/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := cli(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	switch args.Command {
	case COMMAND_HELP:
		fmt.Print(HELP_COMMAND)
		return 0
	case COMMAND_ENV:
		envs, err := config.LoadEnvs()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		envs.ShowAll(os.Stdout)
		return 0
	}

	envs, err := config.LoadEnvs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	project, err := config.LoadProject(args.Entry, envs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if args.BuildType != nil {
		project.BuildType = *args.BuildType
	}
	if args.Output != "" {
		project.Output, err = filepath.Abs(args.Output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	logger, err := newLogger(args.Verbose, project.BuildType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	c := compiler.New(project, logger)
	if err := c.Compile(args.Entry); err != nil {
		collector := c.Diagnostics()
		if !collector.HasErrors() {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := collector.Flush(os.Stderr); err != nil {
			logger.Error("writing diagnostics", zap.Error(err))
		}
		return 1
	}
	return 0
}

// newLogger logs every phase in development format with -v, and only
// warnings otherwise.
func newLogger(verbose bool, buildType config.BuildType) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if buildType == config.DEBUG {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
