package config

import "fmt"

type BuildType int

const (
	RELEASE BuildType = iota
	DEBUG
)

func (bt BuildType) String() string {
	switch bt {
	case RELEASE:
		return "release"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}

// OptLevel is the optimisation flag handed to the linker.
func (bt BuildType) OptLevel() string {
	if bt == RELEASE {
		return "-O3"
	}
	return "-O0"
}

func (bt *BuildType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "release":
		*bt = RELEASE
	case "debug", "":
		*bt = DEBUG
	default:
		return fmt.Errorf("unknown build type %q, expected release or debug", text)
	}
	return nil
}
