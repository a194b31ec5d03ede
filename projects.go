package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-git/go-git/v5"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Decaf/lib/project"
	"github.com/vyPal/Decaf/util"
)

const mainTemplate = `module main

add: (a: i32, b: i32) -> i32 {
	return a + b
}

main: () -> i32 {
	x: i32 = add(1, 2)
	return x - 3
}
`

const gitignore = `.decaf/
debug/
*.ll
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new Decaf project",
		Category:  "project",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Use the default configuration without asking",
			},
			&cli.BoolFlag{
				Name:  "no-git",
				Usage: "Don't create a git repository",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}

	if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
		files, err := os.ReadDir(rootDir)
		if err != nil {
			return err
		}

		if len(files) > 0 && !c.Bool("yes") {
			ok, err := util.PromptYN("The directory is not empty, continue?", false)
			if err != nil {
				return cli.Exit(color.RedString("Error: %s", err), 1)
			}
			if !ok {
				return nil
			}
		}
	} else {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return err
		}
		fmt.Println("Created directory:", rootDir)
	}

	conf := project.Config{}
	conf.CreateDefault(filepath.Base(rootDir))
	if !c.Bool("yes") {
		if err := promptConfig(&conf); err != nil {
			return cli.Exit(color.RedString("Error: %s", err), 1)
		}
	}
	if err := conf.Validate(); err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	mainPath := conf.MainPath(rootDir)
	if err := os.MkdirAll(filepath.Dir(mainPath), 0755); err != nil {
		return err
	}
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		if err := os.WriteFile(mainPath, []byte(mainTemplate), 0644); err != nil {
			return err
		}
		fmt.Println("Created file:", mainPath)
	}

	if err := conf.Save(filepath.Join(rootDir, project.FileName), c.Bool("yes")); err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}
	fmt.Println("Created file:", filepath.Join(rootDir, project.FileName))

	if !c.Bool("no-git") {
		if err := initRepository(rootDir, conf.Main); err != nil {
			color.Yellow("Warning: could not create git repository: %s", err)
		}
	}

	fmt.Println("----------------------------------------")
	color.Green("Project initialized successfully!")
	fmt.Println("Run 'cd", rootDir, "&& decaf build' to build the project.")
	fmt.Println("----------------------------------------")

	return nil
}

// promptConfig asks for every field of conf unless the defaults are accepted.
// With no terminal attached every answer is the default.
func promptConfig(conf *project.Config) error {
	def, err := util.PromptYN("Use default configuration?", true)
	if err != nil || def {
		return err
	}

	fields := []struct {
		prompt string
		value  *string
	}{
		{"Project name", &conf.Name},
		{"Project description", &conf.Description},
		{"Project version", &conf.Version},
		{"Main file", &conf.Main},
		{"Author", &conf.Author},
		{"License", &conf.License},
	}
	for _, f := range fields {
		answer, err := util.PromptString(f.prompt, *f.value)
		if err != nil {
			return err
		}
		*f.value = answer
	}
	return nil
}

// initRepository creates a git repository in dir and stages the scaffold.
// An existing repository is left alone.
func initRepository(dir, main string) error {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	} else if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0644); err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	for _, path := range []string{".gitignore", project.FileName, filepath.ToSlash(main)} {
		if _, err := wt.Add(path); err != nil {
			return err
		}
	}

	fmt.Println("Initialized git repository in", dir)
	return nil
}
