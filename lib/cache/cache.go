package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DirName is the per-project directory holding the check cache and built IR.
const DirName = ".decaf"

// Entry records the outcome of checking one source file.
type Entry struct {
	Sum    string
	Errors int
	// Output is the IR file built from the source, empty if never built.
	Output string
}

// Cache maps source paths to the result of their last check. It is safe for
// concurrent use.
type Cache struct {
	Dir     string
	ObjDir  string
	Entries map[string]Entry

	mu sync.Mutex
}

// Open loads the cache stored under root. A missing cache file yields an empty
// cache.
func Open(root string) (*Cache, error) {
	dir := filepath.Join(root, DirName)
	c := &Cache{
		Dir:     dir,
		ObjDir:  filepath.Join(dir, "obj"),
		Entries: make(map[string]Entry),
	}

	file, err := os.Open(filepath.Join(dir, "cache.bin"))
	if os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.Entries); err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return c, nil
}

func (c *Cache) Save() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(c.Dir, "cache.bin"))
	if err != nil {
		return err
	}
	defer file.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	return gob.NewEncoder(file).Encode(c.Entries)
}

// Lookup returns the entry for path if it was recorded for the same contents.
func (c *Cache) Lookup(path, sum string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.Entries[path]
	if !ok || e.Sum != sum {
		return Entry{}, false
	}
	return e, true
}

func (c *Cache) Store(path string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entries[path] = e
}

func Sum(text string) string {
	h := md5.New()
	io.Copy(h, strings.NewReader(text))
	return fmt.Sprintf("%x", h.Sum(nil))
}

type BuiltFile struct {
	FilePath string
	Sum      string
	IR       string
}

// ObjPath is where the IR for a source file is kept.
func (c *Cache) ObjPath(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(c.ObjDir, Sum(file)[:8]+"-"+base+".ll")
}

// SaveBuiltFiles writes the IR of every file and records it as error free.
func (c *Cache) SaveBuiltFiles(files []BuiltFile) error {
	if err := os.MkdirAll(c.ObjDir, 0755); err != nil {
		return err
	}

	var wg sync.WaitGroup
	errors := make(chan error, len(files))

	for _, file := range files {
		wg.Add(1)
		go func(file BuiltFile) {
			defer wg.Done()

			out := c.ObjPath(file.FilePath)
			if err := os.WriteFile(out, []byte(file.IR), 0644); err != nil {
				errors <- err
				return
			}
			c.Store(file.FilePath, Entry{Sum: file.Sum, Output: out})
		}(file)
	}

	wg.Wait()
	close(errors)

	if len(errors) > 0 {
		return <-errors
	}
	return nil
}

// GetBuiltFile returns the IR previously built from a file with the given sum.
func (c *Cache) GetBuiltFile(path, sum string) (string, bool) {
	e, ok := c.Lookup(path, sum)
	if !ok || e.Errors > 0 || e.Output == "" {
		return "", false
	}
	b, err := os.ReadFile(e.Output)
	if err != nil {
		return "", false
	}
	return string(b), true
}
