package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

// Sink receives every diagnostic produced by the parser and the checker.
type Sink interface {
	Report(tok token.Token, msg string)
}

type Diagnostic struct {
	Tok token.Token
	Msg string
}

// List collects diagnostics in order.
type List struct {
	Diagnostics []Diagnostic
}

func (l *List) Report(tok token.Token, msg string) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{Tok: tok, Msg: msg})
}

func (l *List) Len() int { return len(l.Diagnostics) }

// Format renders every diagnostic as "line:col: message", one per line.
func (l *List) Format(file *source.File) string {
	var sb strings.Builder
	for _, d := range l.Diagnostics {
		line, col := file.Position(d.Tok)
		fmt.Fprintf(&sb, "%d:%d: %s\n", line, col, d.Msg)
	}
	return sb.String()
}

// Printer writes diagnostics for a single file as they arrive, followed by the
// offending source line and a caret under the token.
type Printer struct {
	File  *source.File
	Out   io.Writer
	count int
}

func NewPrinter(file *source.File, out io.Writer) *Printer {
	return &Printer{File: file, Out: out}
}

var (
	bold = color.New(color.Bold).SprintFunc()
	red  = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (p *Printer) Report(tok token.Token, msg string) {
	p.count++
	line, col := p.File.Position(tok)
	fmt.Fprintf(p.Out, "%s %s %s\n", bold(fmt.Sprintf("%s:%d:%d:", p.File.Name, line, col)), red("error:"), msg)

	text, ok := p.File.Line(tok)
	if !ok {
		fmt.Fprintln(p.Out, "EOF")
		return
	}
	fmt.Fprintln(p.Out, text)
	var caret strings.Builder
	for i := 0; i < col-1 && i < len(text); i++ {
		if text[i] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	caret.WriteByte('^')
	fmt.Fprintln(p.Out, color.GreenString(caret.String()))
}

// Count returns the number of diagnostics printed so far.
func (p *Printer) Count() int { return p.count }

// Tee forwards every diagnostic to all sinks.
type Tee []Sink

func (t Tee) Report(tok token.Token, msg string) {
	for _, s := range t {
		s.Report(tok, msg)
	}
}
