package compiler

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/token"
)

// constant evaluates a literal expression as a constant of type want.
func (c *Compiler) constant(n ast.Node, want analyzer.Type) (constant.Constant, bool) {
	typ := c.DecafTypeToLLType(want)
	if lit, ok := n.(*ast.Literal); ok {
		text := c.file.TextOf(lit.Value)
		switch lit.Value.Kind {
		case token.FloatLiteral:
			ft, ok := typ.(*types.FloatType)
			if !ok {
				return nil, false
			}
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, false
			}
			return constant.NewFloat(ft, f), true
		case token.StringLiteral:
			b, err := analyzer.Unquote(text)
			if err != nil {
				return nil, false
			}
			if at, ok := typ.(*types.ArrayType); ok && uint64(len(b)) <= at.Len {
				padded := make([]byte, at.Len)
				copy(padded, b)
				return constant.NewCharArray(padded), true
			}
			return nil, false
		}
	}
	v, ok := analyzer.Constant(n, c.file)
	if !ok {
		return nil, false
	}
	switch t := typ.(type) {
	case *types.IntType:
		return constant.NewInt(t, v), true
	case *types.FloatType:
		return constant.NewFloat(t, float64(v)), true
	}
	return nil, false
}

// coerce lowers n as a value of type want. Literals are materialised directly
// in the wanted representation; other values are widened or narrowed.
func (ctx *Context) coerce(n ast.Node, want analyzer.Type) value.Value {
	if lit, ok := n.(*ast.Literal); ok && lit.Value.Kind == token.StringLiteral {
		if s, ok := want.(*analyzer.SliceType); ok && s.Len == analyzer.Unsized {
			return ctx.stringPointer(lit)
		}
	}
	if analyzer.IsUnsized(ctx.info.TypeOf(n)) || isStringLiteral(n) {
		if v, ok := ctx.constant(n, want); ok {
			return v
		}
	}
	return ctx.cast(ctx.compileExpression(n), ctx.info.TypeOf(n), want)
}

func isStringLiteral(n ast.Node) bool {
	lit, ok := n.(*ast.Literal)
	return ok && lit.Value.Kind == token.StringLiteral
}

// stringPointer stores a string literal in a private global and returns a
// pointer to its first byte.
func (ctx *Context) stringPointer(lit *ast.Literal) value.Value {
	b, _ := analyzer.Unquote(ctx.file.TextOf(lit.Value))
	data := constant.NewCharArray(append(b, 0))
	g := ctx.Module.NewGlobalDef(fmt.Sprintf(".str.%d", ctx.strings), data)
	ctx.strings++
	g.Immutable = true
	return constant.NewGetElementPtr(data.Typ, g, i32(0), i32(0))
}

func (ctx *Context) compileExpression(n ast.Node) value.Value {
	t := ctx.info.TypeOf(n)
	switch n := n.(type) {
	case *ast.Identifier:
		v := ctx.values[ctx.info.Uses[n]]
		if f, ok := v.(*ir.Func); ok {
			return f
		}
		if v == nil {
			ctx.errorf(n.Name, "'%s' is not available to the code generator", ctx.file.TextOf(n.Name))
			return zero(ctx.DecafTypeToLLType(t))
		}
		return ctx.NewLoad(ctx.DecafTypeToLLType(t), v)
	case *ast.Literal:
		if n.Value.Kind == token.StringLiteral {
			v, _ := ctx.constant(n, t)
			return v
		}
		if v, ok := ctx.constant(n, t); ok {
			return v
		}
		ctx.errorf(n.Value, "can not lower literal %s", ctx.file.TextOf(n.Value))
		return zero(ctx.DecafTypeToLLType(t))
	case *ast.UnaryExpr:
		return ctx.compileUnary(n, t)
	case *ast.PostfixExpr:
		return ctx.increment(n.Operand, n.Op.Kind == token.Increment, false)
	case *ast.BinaryExpr:
		switch {
		case n.Op.Kind == token.Period:
			return ctx.NewLoad(ctx.DecafTypeToLLType(t), ctx.address(n))
		case n.Op.Kind.IsAssignment():
			return ctx.compileAssignment(n)
		}
		return ctx.compileBinary(n, t)
	case *ast.CallExpr:
		return ctx.compileFunctionCall(n)
	case *ast.Slice:
		return ctx.NewLoad(ctx.DecafTypeToLLType(t), ctx.address(n))
	}
	ctx.errorf(n.Token(), "can not lower expression")
	return zero(ctx.DecafTypeToLLType(t))
}

// address returns a pointer to the storage of an addressable expression.
// Other expressions are spilled into a temporary.
func (ctx *Context) address(n ast.Node) value.Value {
	switch n := n.(type) {
	case *ast.Identifier:
		if v, ok := ctx.values[ctx.info.Uses[n]]; ok {
			if _, isFunc := v.(*ir.Func); !isFunc {
				return v
			}
		}
	case *ast.BinaryExpr:
		if n.Op.Kind == token.Period {
			st := ctx.info.TypeOf(n.Lhs).(*analyzer.StructType)
			base := ctx.address(n.Lhs)
			idx := memberIndex(st, ctx.file.TextOf(n.Rhs.Token()))
			return ctx.NewGetElementPtr(ctx.structType(st), base, i32(0), i32(int64(idx)))
		}
	case *ast.Slice:
		st := ctx.info.TypeOf(n.Base).(*analyzer.SliceType)
		idx := ctx.coerce(n.Subscript, analyzer.IntType{Width: 64})
		if st.Len == analyzer.Unsized {
			ptr := ctx.compileExpression(n.Base)
			return ctx.NewGetElementPtr(ctx.DecafTypeToLLType(st.Elem), ptr, idx)
		}
		base := ctx.address(n.Base)
		return ctx.NewGetElementPtr(ctx.DecafTypeToLLType(st), base, constant.NewInt(types.I64, 0), idx)
	case *ast.UnaryExpr:
		if n.Op.Kind == token.Asterisk {
			return ctx.compileExpression(n.Operand)
		}
	}
	v := ctx.compileExpression(n)
	tmp := ctx.NewAlloca(v.Type())
	ctx.NewStore(v, tmp)
	return tmp
}

func (ctx *Context) compileUnary(n *ast.UnaryExpr, t analyzer.Type) value.Value {
	switch n.Op.Kind {
	case token.Ampersand:
		return ctx.address(n.Operand)
	case token.Asterisk:
		return ctx.NewLoad(ctx.DecafTypeToLLType(t), ctx.compileExpression(n.Operand))
	case token.Increment, token.Decrement:
		return ctx.increment(n.Operand, n.Op.Kind == token.Increment, true)
	}
	v := ctx.coerce(n.Operand, t)
	typ := ctx.DecafTypeToLLType(t)
	switch n.Op.Kind {
	case token.Subtraction:
		if isFloat(t) {
			return ctx.NewFNeg(v)
		}
		return ctx.NewSub(zero(typ), v)
	case token.Not:
		return ctx.NewXor(v, constant.NewInt(typ.(*types.IntType), -1))
	case token.BoolNot:
		return ctx.NewXor(v, constant.True)
	}
	ctx.errorf(n.Op, "can not lower unary %s", ctx.file.TextOf(n.Op))
	return v
}

// increment implements ++ and --, yielding the new value for the prefix form
// and the old one for the postfix form.
func (ctx *Context) increment(operand ast.Node, up, prefix bool) value.Value {
	t := ctx.info.TypeOf(operand)
	typ := ctx.DecafTypeToLLType(t)
	ptr := ctx.address(operand)
	old := ctx.NewLoad(typ, ptr)
	var next value.Value
	if ft, ok := typ.(*types.FloatType); ok {
		one := constant.NewFloat(ft, 1)
		if up {
			next = ctx.NewFAdd(old, one)
		} else {
			next = ctx.NewFSub(old, one)
		}
	} else {
		one := constant.NewInt(typ.(*types.IntType), 1)
		if up {
			next = ctx.NewAdd(old, one)
		} else {
			next = ctx.NewSub(old, one)
		}
	}
	ctx.NewStore(next, ptr)
	if prefix {
		return next
	}
	return old
}

var compoundOps = map[token.Kind]token.Kind{
	token.AssignAdd:        token.Addition,
	token.AssignSub:        token.Subtraction,
	token.AssignMul:        token.Asterisk,
	token.AssignDiv:        token.Division,
	token.AssignMod:        token.Modulo,
	token.AssignShiftLeft:  token.ShiftLeft,
	token.AssignShiftRight: token.ShiftRight,
	token.AssignXor:        token.Xor,
	token.AssignAnd:        token.Ampersand,
	token.AssignPipe:       token.Pipe,
}

func (ctx *Context) compileAssignment(n *ast.BinaryExpr) value.Value {
	t := ctx.info.TypeOf(n.Lhs)
	ptr := ctx.address(n.Lhs)
	rhs := ctx.coerce(n.Rhs, t)
	if n.Op.Kind == token.Assignment {
		ctx.NewStore(rhs, ptr)
		return rhs
	}
	old := ctx.NewLoad(ctx.DecafTypeToLLType(t), ptr)
	var v value.Value
	if n.Op.Kind == token.AssignNot {
		// a ~= b stores a & ~b.
		mask := ctx.NewXor(rhs, constant.NewInt(old.Type().(*types.IntType), -1))
		v = ctx.NewAnd(old, mask)
	} else {
		v = ctx.arith(compoundOps[n.Op.Kind], old, rhs, t)
	}
	ctx.NewStore(v, ptr)
	return v
}

func (ctx *Context) compileBinary(n *ast.BinaryExpr, t analyzer.Type) value.Value {
	switch {
	case n.Op.Kind == token.BoolAnd:
		return ctx.NewAnd(ctx.compileExpression(n.Lhs), ctx.compileExpression(n.Rhs))
	case n.Op.Kind == token.BoolOr:
		return ctx.NewOr(ctx.compileExpression(n.Lhs), ctx.compileExpression(n.Rhs))
	case n.Op.Kind.IsComparison():
		opType := ctx.info.TypeOf(n.Lhs)
		if analyzer.IsUnsized(opType) {
			opType = ctx.info.TypeOf(n.Rhs)
		}
		return ctx.compare(n.Op.Kind, ctx.coerce(n.Lhs, opType), ctx.coerce(n.Rhs, opType), opType)
	}
	return ctx.arith(n.Op.Kind, ctx.coerce(n.Lhs, t), ctx.coerce(n.Rhs, t), t)
}

func (ctx *Context) arith(op token.Kind, l, r value.Value, t analyzer.Type) value.Value {
	if isFloat(t) {
		switch op {
		case token.Addition:
			return ctx.NewFAdd(l, r)
		case token.Subtraction:
			return ctx.NewFSub(l, r)
		case token.Asterisk:
			return ctx.NewFMul(l, r)
		case token.Division:
			return ctx.NewFDiv(l, r)
		case token.Modulo:
			return ctx.NewFRem(l, r)
		}
	}
	signed := isSigned(t)
	switch op {
	case token.Addition:
		return ctx.NewAdd(l, r)
	case token.Subtraction:
		return ctx.NewSub(l, r)
	case token.Asterisk:
		return ctx.NewMul(l, r)
	case token.Division:
		if signed {
			return ctx.NewSDiv(l, r)
		}
		return ctx.NewUDiv(l, r)
	case token.Modulo:
		if signed {
			return ctx.NewSRem(l, r)
		}
		return ctx.NewURem(l, r)
	case token.Ampersand:
		return ctx.NewAnd(l, r)
	case token.Pipe:
		return ctx.NewOr(l, r)
	case token.Xor:
		return ctx.NewXor(l, r)
	case token.ShiftLeft:
		return ctx.NewShl(l, r)
	case token.ShiftRight:
		if signed {
			return ctx.NewAShr(l, r)
		}
		return ctx.NewLShr(l, r)
	}
	panic("compiler: unexpected arithmetic operator " + op.String())
}

var (
	signedPreds = map[token.Kind]enum.IPred{
		token.Equal:              enum.IPredEQ,
		token.NotEqual:           enum.IPredNE,
		token.LessThan:           enum.IPredSLT,
		token.GreaterThan:        enum.IPredSGT,
		token.LessThanOrEqual:    enum.IPredSLE,
		token.GreaterThanOrEqual: enum.IPredSGE,
	}
	unsignedPreds = map[token.Kind]enum.IPred{
		token.Equal:              enum.IPredEQ,
		token.NotEqual:           enum.IPredNE,
		token.LessThan:           enum.IPredULT,
		token.GreaterThan:        enum.IPredUGT,
		token.LessThanOrEqual:    enum.IPredULE,
		token.GreaterThanOrEqual: enum.IPredUGE,
	}
	floatPreds = map[token.Kind]enum.FPred{
		token.Equal:              enum.FPredOEQ,
		token.NotEqual:           enum.FPredONE,
		token.LessThan:           enum.FPredOLT,
		token.GreaterThan:        enum.FPredOGT,
		token.LessThanOrEqual:    enum.FPredOLE,
		token.GreaterThanOrEqual: enum.FPredOGE,
	}
)

func (ctx *Context) compare(op token.Kind, l, r value.Value, t analyzer.Type) value.Value {
	switch {
	case isFloat(t):
		return ctx.NewFCmp(floatPreds[op], l, r)
	case isSigned(t):
		return ctx.NewICmp(signedPreds[op], l, r)
	}
	return ctx.NewICmp(unsignedPreds[op], l, r)
}

func (ctx *Context) compileFunctionCall(n *ast.CallExpr) value.Value {
	fn := ctx.info.TypeOf(n.Callee).(*analyzer.FuncType)
	callee := ctx.compileExpression(n.Callee)
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ctx.coerce(a, fn.Params[i].Type)
	}
	return ctx.NewCall(callee, args...)
}
