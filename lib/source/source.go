package source

import (
	"os"
	"strings"

	"github.com/vyPal/Decaf/lib/token"
)

// File is a named piece of Decaf source text.
type File struct {
	Name string
	Text string
}

func New(name, text string) *File {
	return &File{Name: name, Text: text}
}

func ReadFile(filename string) (*File, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(filename, string(b)), nil
}

// TextOf returns the source text the token covers.
func (f *File) TextOf(tok token.Token) string {
	if tok.Kind == token.Eof || tok.Pos >= len(f.Text) {
		return "EOF"
	}
	end := tok.End()
	if end > len(f.Text) {
		end = len(f.Text)
	}
	return f.Text[tok.Pos:end]
}

// Position returns the 1-based line and column of the token start.
func (f *File) Position(tok token.Token) (line, col int) {
	pos := tok.Pos
	if pos > len(f.Text) {
		pos = len(f.Text)
	}
	line = 1 + strings.Count(f.Text[:pos], "\n")
	col = pos - strings.LastIndexByte(f.Text[:pos], '\n')
	return line, col
}

// Line returns the line containing the token, without its newline. The second
// result is false when the token is at the end of the input.
func (f *File) Line(tok token.Token) (string, bool) {
	if tok.Pos >= len(f.Text) {
		return "", false
	}
	start := strings.LastIndexByte(f.Text[:tok.Pos], '\n') + 1
	end := strings.IndexByte(f.Text[tok.Pos:], '\n')
	if end < 0 {
		return f.Text[start:], true
	}
	return f.Text[start : tok.Pos+end], true
}
