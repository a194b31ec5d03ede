package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vyPal/Decaf/util"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project file looked up in a project directory.
const FileName = "decaf.yaml"

type Config struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Version     string         `yaml:"version"`
	Main        string         `yaml:"main"`
	SourceDir   string         `yaml:"source"`
	Author      string         `yaml:"author"`
	License     string         `yaml:"license"`
	Compiler    CompilerConfig `yaml:"compiler"`
}

type CompilerConfig struct {
	// Requires is a version constraint on the decaf tool, e.g. "^0.1.0".
	Requires string `yaml:"requires,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Target   string `yaml:"target,omitempty"`
	// Color disables coloured diagnostics when set to false.
	Color *bool `yaml:"color,omitempty"`
}

func (c *Config) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new Decaf project"
	c.Version = "1.0.0"
	c.Main = "src/main.dcf"
	c.SourceDir = "src"
	c.Author = "Anonymous"
	c.License = "MIT"
}

// Validate checks the fields that other commands rely on.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("project name is empty")
	}
	if _, err := util.ParseSemver(c.Version); err != nil {
		return fmt.Errorf("project version %q: %w", c.Version, err)
	}
	return nil
}

// CheckCompiler reports whether the running tool version satisfies the
// project's compiler requirement.
func (c *Config) CheckCompiler(version string) error {
	if c.Compiler.Requires == "" {
		return nil
	}
	v, err := util.ParseSemver(version)
	if err != nil {
		return err
	}
	ok, err := v.Satisfies(c.Compiler.Requires)
	if err != nil {
		return fmt.Errorf("compiler requirement %q: %w", c.Compiler.Requires, err)
	}
	if !ok {
		return fmt.Errorf("project requires decaf %s but this is %s", c.Compiler.Requires, version)
	}
	return nil
}

// MainPath returns the main source file relative to dir.
func (c *Config) MainPath(dir string) string {
	if c.Main != "" {
		return filepath.Join(dir, c.Main)
	}
	src := c.SourceDir
	if src == "" {
		src = "src"
	}
	return filepath.Join(dir, src, "main.dcf")
}

// Save writes the config to path. An existing file is only replaced when
// overwrite is set or the user agrees to it.
func (c *Config) Save(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		ok, err := util.PromptYN(path+" already exists. Overwrite?", false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	yml, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, yml, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GetConfig reads the project file in dir.
func GetConfig(dir string) (Config, error) {
	var conf Config

	file, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filepath.Join(dir, FileName), err)
	}

	return conf, nil
}
