package main

import (
	"fmt"
	"path/filepath"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/config"
)

type Command int

const (
	COMMAND_BUILD Command = iota
	COMMAND_HELP
	COMMAND_ENV
)

type CliResult struct {
	Command   Command
	BuildType *config.BuildType
	Entry     string
	Output    string
	Verbose   bool
}

var HELP_COMMAND string = `Herb - a small statically typed language compiled to native code through LLVM.

Usage:
  herbc <command> [arguments]
  herbc <file.herb> [output]

Available Commands:
  build <file> [-o output] [-release] [-debug] [-v]   Builds the program
      <file>        Entry module of the program
      -o output     Path of the executable (defaults to the entry file name)
      -release      Build in release mode
      -debug        Build in debug mode
      -v            Log every compilation phase

  env                                                Show environment information

  help                                               Show this help message

Examples:
  herbc build main.herb                 Build main.herb in debug mode
  herbc build main.herb -release        Build main.herb in release mode
  herbc build main.herb -o bin/app      Build main.herb into bin/app
  herbc main.herb app                   Same as "herbc build main.herb -o app"
  herbc env                             Display environment details
`

func cli(args []string) (CliResult, error) {
	result := CliResult{}

	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	command := args[0]
	switch command {
	case "env":
		result.Command = COMMAND_ENV
	case "help", "-h", "--help":
		result.Command = COMMAND_HELP
	case "build":
		result.Command = COMMAND_BUILD
		if err := parseBuildArgs(&result, args[1:]); err != nil {
			return result, err
		}
	default:
		if filepath.Ext(command) != ast.FILE_EXT {
			return result, fmt.Errorf("unknown command %q, run 'herbc help' for usage", command)
		}
		result.Command = COMMAND_BUILD
		result.Entry = command
		if len(args) > 2 {
			return result, fmt.Errorf("expected at most one output file, got %v", args[1:])
		}
		if len(args) == 2 {
			result.Output = args[1]
		}
	}
	return result, nil
}

func parseBuildArgs(result *CliResult, args []string) error {
	releaseBuildSet, debugBuildSet := false, false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-release":
			releaseBuildSet = true
			buildType := config.RELEASE
			result.BuildType = &buildType
		case "-debug":
			debugBuildSet = true
			buildType := config.DEBUG
			result.BuildType = &buildType
		case "-v":
			result.Verbose = true
		case "-o":
			if i+1 >= len(args) {
				return fmt.Errorf("-o expects an output path")
			}
			i++
			result.Output = args[i]
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return fmt.Errorf("unknown flag %q", arg)
			}
			if result.Entry != "" {
				return fmt.Errorf("expected a single entry file, got %q and %q", result.Entry, arg)
			}
			result.Entry = arg
		}
	}

	if releaseBuildSet && debugBuildSet {
		return fmt.Errorf("choose either -release or -debug, not both")
	}
	if result.Entry == "" {
		return fmt.Errorf("build expects an entry file")
	}
	return nil
}
