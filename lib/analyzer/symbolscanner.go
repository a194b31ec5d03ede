package analyzer

import (
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/source"
)

// ScanSymbols lists the top level names of a module by kind: "function",
// "struct" or "variable". It works on the syntax alone, so it can run on
// modules that do not type check.
func ScanSymbols(m *ast.Module, file *source.File) (map[string]string, []string) {
	symbols := make(map[string]string)
	var order []string
	add := func(name, kind string) {
		if _, ok := symbols[name]; !ok {
			order = append(order, name)
		}
		symbols[name] = kind
	}
	if m == nil {
		return symbols, order
	}
	for _, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *ast.Declaration:
			if _, ok := s.Type.(*ast.FuncType); ok {
				add(file.TextOf(s.Name), "function")
			} else {
				add(file.TextOf(s.Name), "variable")
			}
		case *ast.CompoundType:
			if s.Name != nil {
				add(file.TextOf(s.Name.Name), "struct")
			}
		}
	}
	return symbols, order
}
