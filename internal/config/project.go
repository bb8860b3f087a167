package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	PROJECT_FILE   = "herb.yaml"
	BUILD_DIR_NAME = "build"
	DEFAULT_LINKER = "clang"
	STD_PACKAGE    = "std"
)

// Project describes where a compilation finds its sources, the runtime and
// the root packages absolute imports start from.
type Project struct {
	Root         string
	Runtime      string
	RootPackages map[string]string
	Output       string
	Linker       string
	BuildType    BuildType
}

// projectFile is the on-disk shape of herb.yaml.
type projectFile struct {
	Root         string            `yaml:"root"`
	Runtime      string            `yaml:"runtime"`
	RootPackages map[string]string `yaml:"packages"`
	Output       string            `yaml:"output"`
	Linker       string            `yaml:"linker"`
	BuildType    *BuildType        `yaml:"build"`
}

// BuildDir is where emitted IR modules are written.
func (p *Project) BuildDir() string {
	return filepath.Join(p.Root, BUILD_DIR_NAME)
}

// RuntimeArtifactsDir holds the prebuilt runtime IR files.
func (p *Project) RuntimeArtifactsDir() string {
	return filepath.Join(p.Runtime, BUILD_DIR_NAME)
}

func (p *Project) RootPackage(name string) (string, bool) {
	dir, ok := p.RootPackages[name]
	return dir, ok
}

// NewProject returns a project rooted at root with defaults filled in.
func NewProject(root string, envs *Envs) *Project {
	project := &Project{
		Root:         root,
		RootPackages: make(map[string]string),
		Linker:       DEFAULT_LINKER,
		BuildType:    DEBUG,
	}
	if envs != nil {
		project.Runtime = envs.RUNTIME
		if envs.STD != "" {
			project.RootPackages[STD_PACKAGE] = envs.STD
		}
	}
	return project
}

// LoadProject builds the project configuration for entryPath. The nearest
// herb.yaml in the entry file's directory or one of its parents overrides
// the defaults; relative paths in it are relative to the file.
func LoadProject(entryPath string, envs *Envs) (*Project, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", entryPath)
	}

	entryDir := filepath.Dir(absEntry)
	project := NewProject(entryDir, envs)

	projectFile, found := findProjectFile(entryDir)
	if !found {
		return project, nil
	}

	project.Root = filepath.Dir(projectFile)
	if err := project.readFile(projectFile); err != nil {
		return nil, err
	}
	return project, nil
}

func (p *Project) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}

	base := filepath.Dir(path)
	if file.Root != "" {
		p.Root = absFrom(base, file.Root)
	}
	if file.Runtime != "" {
		p.Runtime = absFrom(base, file.Runtime)
	}
	if file.Output != "" {
		p.Output = absFrom(base, file.Output)
	}
	if file.Linker != "" {
		p.Linker = file.Linker
	}
	if file.BuildType != nil {
		p.BuildType = *file.BuildType
	}
	for name, dir := range file.RootPackages {
		p.RootPackages[name] = absFrom(base, dir)
	}
	return nil
}

func findProjectFile(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, PROJECT_FILE)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func absFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
