package diag

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nalgeon/be"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

func TestListFormat(t *testing.T) {
	file := source.New("m.dcf", "module m\nx: i32 = y\n")
	var list List
	list.Report(token.Token{Kind: token.Identifier, Pos: 18, Len: 1}, "undefined: y")
	list.Report(token.Token{Kind: token.Eof, Pos: len(file.Text)}, "unexpected end")

	be.Equal(t, list.Len(), 2)
	be.Equal(t, list.Format(file), "2:10: undefined: y\n3:1: unexpected end\n")
}

func TestPrinter(t *testing.T) {
	color.NoColor = true
	file := source.New("m.dcf", "module m\n\tx = 1\n")

	var out strings.Builder
	p := NewPrinter(file, &out)
	p.Report(token.Token{Kind: token.Assignment, Pos: 12, Len: 1}, "bad assignment")

	be.Equal(t, p.Count(), 1)
	be.Equal(t, out.String(), "m.dcf:2:4: error: bad assignment\n\tx = 1\n\t  ^\n")
}

func TestPrinterAtEnd(t *testing.T) {
	color.NoColor = true
	file := source.New("m.dcf", "module m")

	var out strings.Builder
	p := NewPrinter(file, &out)
	p.Report(token.Token{Kind: token.Eof, Pos: len(file.Text)}, "expected Newline")

	be.Equal(t, out.String(), "m.dcf:1:9: error: expected Newline\nEOF\n")
}

func TestTee(t *testing.T) {
	var a, b List
	sink := Tee{&a, &b}
	sink.Report(token.Token{}, "one")
	sink.Report(token.Token{}, "two")

	be.Equal(t, a.Len(), 2)
	be.Equal(t, b.Diagnostics, a.Diagnostics)
}
