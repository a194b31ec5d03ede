package analyzer

import "github.com/vyPal/Decaf/lib/ast"

// Symbol is a named entry in a scope. Type is nil when the declaration failed
// to type check; lookups of such symbols resolve silently to nil.
type Symbol struct {
	Name   string
	Type   Type
	IsType bool
	Decl   ast.Node
}

// Scope is an ordered name to symbol table.
type Scope struct {
	symbols []*Symbol
	index   map[string]*Symbol
}

func NewScope() *Scope {
	return &Scope{index: make(map[string]*Symbol)}
}

// Insert adds sym unless the name is already taken in this scope.
func (s *Scope) Insert(sym *Symbol) bool {
	if _, ok := s.index[sym.Name]; ok {
		return false
	}
	s.index[sym.Name] = sym
	s.symbols = append(s.symbols, sym)
	return true
}

func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.index[name]
	return sym, ok
}

// Symbols returns the symbols in insertion order.
func (s *Scope) Symbols() []*Symbol { return s.symbols }

func (s *Scope) Len() int { return len(s.symbols) }

// Context is the stack of scopes visible at a point of the walk. The bottom
// scope always holds the builtin types.
type Context struct {
	scopes []*Scope
}

func NewContext() *Context {
	universe := NewScope()
	for _, sym := range Builtins() {
		universe.Insert(sym)
	}
	return &Context{scopes: []*Scope{universe}}
}

func (c *Context) Push(s *Scope) { c.scopes = append(c.scopes, s) }

func (c *Context) Pop() {
	if len(c.scopes) == 1 {
		panic("analyzer: popped the builtin scope")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) Depth() int { return len(c.scopes) }

func (c *Context) Top() *Scope { return c.scopes[len(c.scopes)-1] }

// Insert adds sym to the innermost scope.
func (c *Context) Insert(sym *Symbol) bool {
	return c.Top().Insert(sym)
}

// Lookup searches from the innermost scope outwards.
func (c *Context) Lookup(name string) (*Symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i].Lookup(name); ok {
			return sym, true
		}
	}
	return nil, false
}
