package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/cache"
	"github.com/vyPal/Decaf/lib/compiler"
	"github.com/vyPal/Decaf/lib/diag"
	"github.com/vyPal/Decaf/lib/source"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "build",
		Usage:     "Check Decaf files and lower them to LLVM IR",
		Category:  "compile",
		ArgsUsage: "[files...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "The name of the .ll file to write, or a directory when building several files",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Save the syntax tree and IR of every file in debug/",
				Aliases: []string{"d"},
			},
			&cli.BoolFlag{
				Name:    "no-cache",
				Aliases: []string{"n"},
				Usage:   "Disables caching",
			},
		}, inputFlags...),
		Action: build,
	})
}

type buildResult struct {
	file   *source.File
	diags  diag.List
	errors int
	ir     string
	module *ast.Module
	cached bool
}

// buildFile checks and lowers one file. Each call owns its parser, checker and
// compiler, so several files can be built at once.
func buildFile(f *source.File, target string) *buildResult {
	r := &buildResult{file: f}
	m, info, n := checkFile(f, &r.diags)
	r.module = m
	if n > 0 {
		r.errors = n
		return r
	}

	mod, n := compiler.Compile(m, f, info, &r.diags)
	if n > 0 {
		r.errors = n
		return r
	}
	mod.SourceFilename = f.Name
	if target != "" {
		mod.TargetTriple = target
	}
	r.ir = mod.String()
	return r
}

func build(c *cli.Context) error {
	files, conf, err := sources(c)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	root := "."
	target, output := "", c.String("output")
	if conf != nil {
		target = conf.Compiler.Target
		if output == "" {
			output = conf.Compiler.Output
		}
	}
	if output != "" && len(files) > 1 {
		if err := os.MkdirAll(output, 0755); err != nil {
			return cli.Exit(color.RedString("Error creating output directory: %s", err), 1)
		}
	}

	var bc *cache.Cache
	if !c.Bool("no-cache") {
		bc, err = cache.Open(root)
		if err != nil {
			color.Yellow("Warning: ignoring build cache: %s", err)
			bc = nil
		}
	}

	var wg sync.WaitGroup
	results := make([]*buildResult, len(files))
	for i, f := range files {
		if bc != nil {
			if ir, ok := bc.GetBuiltFile(f.Name, cache.Sum(f.Text)); ok {
				results[i] = &buildResult{file: f, ir: ir, cached: true}
				continue
			}
		}
		wg.Add(1)
		go func(i int, f *source.File) {
			defer wg.Done()
			results[i] = buildFile(f, target)
		}(i, f)
	}
	wg.Wait()

	total := 0
	var built []cache.BuiltFile
	for _, r := range results {
		p := diag.NewPrinter(r.file, os.Stderr)
		for _, d := range r.diags.Diagnostics {
			p.Report(d.Tok, d.Msg)
		}
		total += r.errors

		sum := cache.Sum(r.file.Text)
		if r.errors > 0 {
			if bc != nil {
				bc.Store(r.file.Name, cache.Entry{Sum: sum, Errors: r.errors})
			}
			continue
		}
		if r.cached {
			fmt.Println(color.New(color.Faint).Sprintf("%s: up to date", r.file.Name))
		} else {
			built = append(built, cache.BuiltFile{FilePath: r.file.Name, Sum: sum, IR: r.ir})
		}

		out := outputPath(r.file, output, len(files) > 1)
		if err := os.WriteFile(out, []byte(r.ir), 0644); err != nil {
			return cli.Exit(color.RedString("Error writing %s: %s", out, err), 1)
		}
		if c.Bool("debug") {
			if err := saveDebug(r); err != nil {
				return cli.Exit(color.RedString("Error saving debug files: %s", err), 1)
			}
		}
	}

	if bc != nil {
		if err := bc.SaveBuiltFiles(built); err != nil {
			color.Yellow("Warning: could not cache build: %s", err)
		}
		if err := bc.Save(); err != nil {
			color.Yellow("Warning: could not save build cache: %s", err)
		}
	}

	return summary(total)
}

func outputPath(f *source.File, output string, many bool) string {
	name := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name)) + ".ll"
	if f.Name == "<input>" {
		name = "output.ll"
	}
	switch {
	case output == "":
		return name
	case many:
		return filepath.Join(output, name)
	}
	return output
}

func saveDebug(r *buildResult) error {
	if err := os.MkdirAll("debug", 0755); err != nil {
		return err
	}
	base := filepath.Join("debug", strings.TrimSuffix(filepath.Base(r.file.Name), filepath.Ext(r.file.Name)))
	if r.file.Name == "<input>" {
		base = filepath.Join("debug", "input")
	}

	if err := os.WriteFile(base+".ll", []byte(r.ir), 0644); err != nil {
		return err
	}
	if r.module == nil {
		return nil
	}

	astFile, err := os.Create(base + ".ast.json")
	if err != nil {
		return err
	}
	defer astFile.Close()

	encoder := json.NewEncoder(astFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ast.Dump(r.module, r.file)); err != nil {
		return err
	}

	symbols, order := analyzer.ScanSymbols(r.module, r.file)
	var sb strings.Builder
	for _, name := range order {
		fmt.Fprintf(&sb, "%s %s\n", symbols[name], name)
	}
	return os.WriteFile(base+".symbols", []byte(sb.String()), 0644)
}
