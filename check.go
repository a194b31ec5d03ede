package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/diag"
	dclex "github.com/vyPal/Decaf/lib/lexer"
	"github.com/vyPal/Decaf/lib/parser"
	"github.com/vyPal/Decaf/lib/project"
	"github.com/vyPal/Decaf/lib/source"
)

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "input-str",
		Aliases: []string{"s"},
		Usage:   "Work on a string instead of a file",
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "The path to the project file",
	},
}

func init() {
	commands = append(commands, &cli.Command{
		Name:      "check",
		Usage:     "Parse and typecheck Decaf files",
		Category:  "compile",
		ArgsUsage: "[files...]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "symbols",
				Usage: "List the top level symbols of every file",
			},
		}, inputFlags...),
		Action: check,
	}, &cli.Command{
		Name:      "parse",
		Usage:     "Parse a Decaf file and print its syntax tree",
		Category:  "debug",
		ArgsUsage: "[file]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "sexpr",
				Usage: "Output format: sexpr or json",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Print every parser production to stderr",
			},
		}, inputFlags...),
		Action: parse,
	}, &cli.Command{
		Name:      "tokens",
		Usage:     "Print the token stream of a Decaf file",
		Category:  "debug",
		ArgsUsage: "[file]",
		Flags:     inputFlags,
		Action:    tokens,
	})
}

// sources returns the files a command works on: the -s string, the files named
// on the command line, or the sources of the project in the working directory.
func sources(c *cli.Context) ([]*source.File, *project.Config, error) {
	if c.IsSet("input-str") {
		return []*source.File{source.New("<input>", c.String("input-str"))}, nil, nil
	}

	if c.NArg() > 0 {
		var files []*source.File
		for _, name := range c.Args().Slice() {
			f, err := source.ReadFile(name)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, f)
		}
		return files, nil, nil
	}

	dir := "."
	if c.String("config") != "" {
		dir = strings.TrimSuffix(c.String("config"), project.FileName)
	}
	conf, err := project.GetConfig(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("no file specified and no %s found", project.FileName)
		}
		return nil, nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}
	if err := conf.CheckCompiler(Version); err != nil {
		color.Yellow("Warning: %s", err)
	}
	if conf.Compiler.Color != nil && !*conf.Compiler.Color {
		color.NoColor = true
	}

	names := []string{conf.MainPath(dir)}
	if conf.SourceDir != "" {
		err := filepath.WalkDir(filepath.Join(dir, conf.SourceDir), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".dcf" && path != names[0] {
				names = append(names, path)
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, nil, err
		}
	}

	var files []*source.File
	for _, name := range names {
		f, err := source.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, f)
	}
	return files, &conf, nil
}

// checkFile parses and typechecks one file. The checker only runs on modules
// without syntax errors.
func checkFile(f *source.File, sink diag.Sink) (*ast.Module, *analyzer.Info, int) {
	m, n := parser.Parse(dclex.New(f), sink)
	if m == nil || n > 0 {
		return m, nil, max(n, 1)
	}
	info, n := analyzer.Check(m, f, sink)
	return m, info, n
}

func summary(errors int) error {
	if errors > 0 {
		return cli.Exit(color.RedString("Got %d error(s)", errors), 1)
	}
	color.Green("Everything seems to be correct!")
	return nil
}

func check(c *cli.Context) error {
	files, _, err := sources(c)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	total := 0
	for _, f := range files {
		p := diag.NewPrinter(f, os.Stderr)
		m, _, n := checkFile(f, p)
		total += n

		if c.Bool("symbols") && m != nil {
			symbols, order := analyzer.ScanSymbols(m, f)
			fmt.Println(color.New(color.Bold).Sprint(f.Name))
			for _, name := range order {
				fmt.Printf("  %-10s %s\n", symbols[name], name)
			}
		}
	}

	return summary(total)
}

func parse(c *cli.Context) error {
	files, _, err := sources(c)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	total := 0
	for _, f := range files {
		p := parser.New(dclex.New(f), diag.NewPrinter(f, os.Stderr))
		if c.Bool("trace") {
			p.Trace = os.Stderr
		}
		m, n := p.ParseModule()
		total += n
		if m == nil {
			continue
		}

		switch c.String("format") {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(ast.Dump(m, f)); err != nil {
				return cli.Exit(color.RedString("Error encoding AST: %s", err), 1)
			}
		case "sexpr":
			fmt.Println(ast.SExpr(m, f))
		default:
			return cli.Exit(color.RedString("Unknown format %q", c.String("format")), 1)
		}
	}

	if total > 0 {
		return cli.Exit(color.RedString("Got %d error(s)", total), 1)
	}
	return nil
}

func tokens(c *cli.Context) error {
	files, _, err := sources(c)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	for _, f := range files {
		for _, tok := range dclex.Tokens(f) {
			line, col := f.Position(tok)
			fmt.Printf("%d:%d\t%-16s %q\n", line, col, tok.Kind, f.TextOf(tok))
		}
	}
	return nil
}
