package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/diag"
	dclex "github.com/vyPal/Decaf/lib/lexer"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

// TokenSource is anything that hands out tokens one at a time. After the end of
// the input Next must keep returning Eof.
type TokenSource interface {
	Next() token.Token
	AtEnd() bool
}

// Parser is a recursive descent parser with two tokens of lookahead. It never
// resynchronises: on a syntax error it reports, skips the offending token and
// carries on.
type Parser struct {
	// Trace, when set, receives a START/END line for every production.
	Trace io.Writer

	src       TokenSource
	sink      diag.Sink
	errors    int
	current   token.Token
	lookahead token.Token
	traceID   int
}

func New(src TokenSource, sink diag.Sink) *Parser {
	p := &Parser{src: src, sink: sink}
	p.current = src.Next()
	p.lookahead = src.Next()
	return p
}

// Parse parses a whole module and returns it with the number of syntax errors
// reported. The module is nil only when the module header is missing.
func Parse(src TokenSource, sink diag.Sink) (*ast.Module, int) {
	p := New(src, sink)
	return p.ParseModule()
}

func (p *Parser) ParseModule() (*ast.Module, int) {
	m := p.module()
	return m, p.errors
}

// ParseFile reads and parses filename, reporting syntax errors to sink.
func ParseFile(filename string, sink diag.Sink) (*source.File, *ast.Module, int, error) {
	file, err := source.ReadFile(filename)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("reading %s: %w", filename, err)
	}
	m, n := Parse(dclex.New(file), sink)
	return file, m, n, nil
}

// ParseString parses code as if it were a file called name.
func ParseString(name, code string, sink diag.Sink) (*source.File, *ast.Module, int) {
	file := source.New(name, code)
	m, n := Parse(dclex.New(file), sink)
	return file, m, n
}

func (p *Parser) error(msg string) {
	p.errors++
	p.sink.Report(p.current, msg)
}

func (p *Parser) advance() token.Token {
	tok := p.current
	p.current = p.lookahead
	p.lookahead = p.src.Next()
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.current.Kind == k }

// expect consumes the current token whatever it is. The result is false if it
// was not one of kinds, in which case an error has been reported.
func (p *Parser) expect(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.current.Kind == k {
			return p.advance(), true
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	p.error(fmt.Sprintf("Expected %s but got %s", strings.Join(names, " or "), p.current.Kind))
	return p.advance(), false
}

// terminator ends a statement. A closing brace or the end of input also ends
// one but is left for the enclosing production.
func (p *Parser) terminator() {
	switch p.current.Kind {
	case token.RightCurly, token.Eof:
		return
	}
	p.expect(token.Newline, token.Semicolon)
}

func (p *Parser) trace(name string) func() {
	if p.Trace == nil {
		return func() {}
	}
	id := p.traceID
	p.traceID++
	fmt.Fprintf(p.Trace, "START %s %d %s\n", name, id, p.current.Kind)
	return func() { fmt.Fprintf(p.Trace, "END %s %d\n", name, id) }
}
