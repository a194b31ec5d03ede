package compiler

import (
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/ast"
)

func (ctx *Context) compileBlock(stmts []ast.Node) {
	for _, s := range stmts {
		ctx.compileStatement(s)
	}
}

func (ctx *Context) compileStatement(s ast.Node) {
	switch s := s.(type) {
	case *ast.Declaration:
		ctx.compileVariableDefinition(s)
	case *ast.ReturnStmt:
		ctx.compileReturn(s)
	case *ast.CodeBlock:
		ctx.compileBlock(s.Statements)
	case *ast.CompoundType:
		// Lowered with the other struct types before any function body.
	default:
		ctx.compileExpression(s)
	}
}

func (ctx *Context) compileVariableDefinition(d *ast.Declaration) {
	sym := ctx.info.Defs[d]
	if _, ok := sym.Type.(*analyzer.FuncType); ok {
		ctx.errorf(d.Name, "nested functions are not supported by the code generator")
		return
	}
	typ := ctx.DecafTypeToLLType(sym.Type)
	alloc := ctx.NewAlloca(typ)
	ctx.values[sym] = alloc
	if d.Init == nil {
		ctx.NewStore(zero(typ), alloc)
		return
	}
	ctx.NewStore(ctx.coerce(d.Init, sym.Type), alloc)
}

func (ctx *Context) compileReturn(r *ast.ReturnStmt) {
	if r.Expr == nil {
		ctx.NewRet(nil)
	} else {
		ctx.NewRet(ctx.coerce(r.Expr, ctx.ret))
	}
	// Whatever follows a return is unreachable but still needs a block.
	ctx.Block = ctx.fn.NewBlock("")
}
