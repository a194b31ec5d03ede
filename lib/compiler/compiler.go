package compiler

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/diag"
	"github.com/vyPal/Decaf/lib/source"
)

// Context is the insertion point inside the function being lowered.
type Context struct {
	*ir.Block
	*Compiler
	fn  *ir.Func
	ret analyzer.Type
}

func NewContext(b *ir.Block, comp *Compiler, ret analyzer.Type) *Context {
	return &Context{
		Block:    b,
		Compiler: comp,
		fn:       b.Parent,
		ret:      ret,
	}
}

type Compiler struct {
	Module *ir.Module

	file      *source.File
	info      *analyzer.Info
	sink      diag.Sink
	errors    int
	structs   map[*analyzer.StructType]*types.StructType
	typeNames map[string]bool
	strings   int
	// values holds the storage of every lowered symbol: allocas for locals
	// and parameters, globals, and functions.
	values map[*analyzer.Symbol]value.Value
}

func NewCompiler(file *source.File, info *analyzer.Info, sink diag.Sink) *Compiler {
	return &Compiler{
		Module:    ir.NewModule(),
		file:      file,
		info:      info,
		sink:      sink,
		structs:   make(map[*analyzer.StructType]*types.StructType),
		typeNames: make(map[string]bool),
		values:    make(map[*analyzer.Symbol]value.Value),
	}
}

// Compile lowers a module that type checked without errors. Constructs the
// code generator cannot handle are reported to sink and counted.
func Compile(m *ast.Module, file *source.File, info *analyzer.Info, sink diag.Sink) (*ir.Module, int) {
	c := NewCompiler(file, info, sink)
	c.Compile(m)
	return c.Module, c.errors
}

func (c *Compiler) Compile(m *ast.Module) {
	ast.Walk(m, func(n ast.Node) bool {
		if ct, ok := n.(*ast.CompoundType); ok {
			if st, ok := c.info.Structs[ct]; ok {
				c.checkMembers(ct)
				c.structType(st)
			}
		}
		return true
	})

	var bodies []*ast.Declaration
	for _, stmt := range m.Statements {
		d, ok := stmt.(*ast.Declaration)
		if !ok {
			continue
		}
		sym := c.info.Defs[d]
		if fn, ok := sym.Type.(*analyzer.FuncType); ok {
			c.declareFunc(d, sym, fn)
			if d.Init != nil {
				bodies = append(bodies, d)
			}
			continue
		}
		c.global(d, sym)
	}

	for _, d := range bodies {
		c.compileFunctionDefinition(d)
	}
}

func (c *Compiler) checkMembers(ct *ast.CompoundType) {
	for _, stmt := range ct.Body.Statements {
		if d, ok := stmt.(*ast.Declaration); ok && d.Init != nil {
			c.errorf(d.Name, "member initializers are not supported by the code generator")
		}
	}
}

func (c *Compiler) declareFunc(d *ast.Declaration, sym *analyzer.Symbol, fn *analyzer.FuncType) {
	params := make([]*ir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ir.NewParam(p.Name, c.DecafTypeToLLType(p.Type))
	}
	f := c.Module.NewFunc(sym.Name, c.DecafTypeToLLType(fn.Ret), params...)
	c.values[sym] = f
}

func (c *Compiler) global(d *ast.Declaration, sym *analyzer.Symbol) {
	typ := c.DecafTypeToLLType(sym.Type)
	var init constant.Constant = zero(typ)
	if d.Init != nil {
		v, ok := c.constant(d.Init, sym.Type)
		if !ok {
			c.errorf(d.Init.Token(), "global '%s' must be initialised with a constant", sym.Name)
		} else {
			init = v
		}
	}
	c.values[sym] = c.Module.NewGlobalDef(sym.Name, init)
}

func (c *Compiler) compileFunctionDefinition(d *ast.Declaration) {
	sym := c.info.Defs[d]
	f := c.values[sym].(*ir.Func)
	fn := sym.Type.(*analyzer.FuncType)
	body := d.Init.(*ast.CodeBlock)

	ctx := NewContext(f.NewBlock("entry"), c, fn.Ret)
	if ft, ok := d.Type.(*ast.FuncType); ok {
		for i, p := range ft.Params {
			psym := c.info.Defs[p]
			alloc := ctx.NewAlloca(f.Params[i].Type())
			ctx.NewStore(f.Params[i], alloc)
			c.values[psym] = alloc
		}
	}
	ctx.compileBlock(body.Statements)

	if ctx.Term == nil {
		if _, ok := fn.Ret.(analyzer.VoidType); ok {
			ctx.NewRet(nil)
		} else {
			ctx.NewRet(zero(f.Sig.RetType))
		}
	}
}
