package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/Decaf/lib/token"
)

func TestTextOf(t *testing.T) {
	f := New("t.dcf", "module demo\n")
	be.Equal(t, f.TextOf(token.Token{Kind: token.Module, Pos: 0, Len: 6}), "module")
	be.Equal(t, f.TextOf(token.Token{Kind: token.Identifier, Pos: 7, Len: 4}), "demo")
	be.Equal(t, f.TextOf(token.Token{Kind: token.Eof, Pos: 12}), "EOF")
	be.Equal(t, f.TextOf(token.Token{Kind: token.Identifier, Pos: 10, Len: 9}), "o\n")
}

func TestPosition(t *testing.T) {
	f := New("t.dcf", "ab\ncd\n\nef")
	tests := []struct {
		pos       int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
		{100, 4, 3},
	}

	for _, tt := range tests {
		line, col := f.Position(token.Token{Pos: tt.pos})
		be.Equal(t, line, tt.line)
		be.Equal(t, col, tt.col)
	}
}

func TestLine(t *testing.T) {
	f := New("t.dcf", "first\nsecond\nlast")

	text, ok := f.Line(token.Token{Pos: 8})
	be.True(t, ok)
	be.Equal(t, text, "second")

	text, ok = f.Line(token.Token{Pos: 14})
	be.True(t, ok)
	be.Equal(t, text, "last")

	text, ok = f.Line(token.Token{Pos: 5})
	be.True(t, ok)
	be.Equal(t, text, "first")

	_, ok = f.Line(token.Token{Pos: len(f.Text)})
	be.True(t, !ok)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dcf")
	be.Err(t, os.WriteFile(path, []byte("module main\n"), 0644), nil)

	f, err := ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, f.Name, path)
	be.Equal(t, f.Text, "module main\n")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.dcf"))
	be.True(t, err != nil)
}
