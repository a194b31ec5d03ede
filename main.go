package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// Version is the version of the decaf tool, checked against a project's
// compiler requirement.
const Version = "0.1.0"

var commands []*cli.Command

func main() {
	app := &cli.App{
		Name:                   "decaf",
		Usage:                  "Parse, typecheck and lower Decaf programs to LLVM IR",
		Version:                Version,
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: commands,
	}

	if err := app.Run(os.Args); err != nil {
		color.Red(err.Error())
		os.Exit(1)
	}
}
