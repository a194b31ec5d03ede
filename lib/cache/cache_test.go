package cache

import (
	"os"
	"testing"

	"github.com/nalgeon/be"
)

func TestOpenEmpty(t *testing.T) {
	c, err := Open(t.TempDir())
	be.Err(t, err, nil)
	be.Equal(t, len(c.Entries), 0)
}

func TestSaveAndReopen(t *testing.T) {
	root := t.TempDir()
	c, err := Open(root)
	be.Err(t, err, nil)

	sum := Sum("module m\n")
	c.Store("a.dcf", Entry{Sum: sum, Errors: 2})
	be.Err(t, c.Save(), nil)

	c, err = Open(root)
	be.Err(t, err, nil)
	e, ok := c.Lookup("a.dcf", sum)
	be.True(t, ok)
	be.Equal(t, e.Errors, 2)

	_, ok = c.Lookup("a.dcf", Sum("module n\n"))
	be.True(t, !ok)
}

func TestSum(t *testing.T) {
	be.Equal(t, Sum(""), "d41d8cd98f00b204e9800998ecf8427e")
	be.True(t, Sum("a") != Sum("b"))
}

func TestSaveBuiltFiles(t *testing.T) {
	c, err := Open(t.TempDir())
	be.Err(t, err, nil)

	files := []BuiltFile{
		{FilePath: "src/a.dcf", Sum: Sum("a"), IR: "; a\n"},
		{FilePath: "src/b.dcf", Sum: Sum("b"), IR: "; b\n"},
	}
	be.Err(t, c.SaveBuiltFiles(files), nil)

	for _, f := range files {
		ir, ok := c.GetBuiltFile(f.FilePath, f.Sum)
		be.True(t, ok)
		be.Equal(t, ir, f.IR)
	}

	_, ok := c.GetBuiltFile("src/a.dcf", Sum("changed"))
	be.True(t, !ok)
}

func TestBuiltFileWithErrorsIsNotReused(t *testing.T) {
	c, err := Open(t.TempDir())
	be.Err(t, err, nil)

	c.Store("x.dcf", Entry{Sum: Sum("x"), Errors: 1, Output: "missing.ll"})
	_, ok := c.GetBuiltFile("x.dcf", Sum("x"))
	be.True(t, !ok)
}

func TestCorruptCache(t *testing.T) {
	root := t.TempDir()
	c, err := Open(root)
	be.Err(t, err, nil)
	be.Err(t, os.MkdirAll(c.Dir, 0755), nil)
	be.Err(t, os.WriteFile(c.Dir+"/cache.bin", []byte("not gob"), 0644), nil)

	_, err = Open(root)
	be.True(t, err != nil)
}
