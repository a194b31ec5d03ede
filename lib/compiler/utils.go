package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/token"
)

func (c *Compiler) errorf(tok token.Token, format string, args ...any) {
	c.errors++
	c.sink.Report(tok, fmt.Sprintf(format, args...))
}

// DecafTypeToLLType lowers a checked type. Unsized literal types take the
// widest representation.
func (c *Compiler) DecafTypeToLLType(t analyzer.Type) types.Type {
	switch t := t.(type) {
	case analyzer.IntType:
		return intType(t.Width)
	case analyzer.UintType:
		return intType(t.Width)
	case analyzer.FloatType:
		switch t.Width {
		case 16:
			return types.Half
		case 32:
			return types.Float
		}
		return types.Double
	case analyzer.BoolType:
		return types.I1
	case analyzer.VoidType:
		return types.Void
	case *analyzer.PointerType:
		return types.NewPointer(c.DecafTypeToLLType(t.To))
	case *analyzer.SliceType:
		elem := c.DecafTypeToLLType(t.Elem)
		if t.Len == analyzer.Unsized {
			return types.NewPointer(elem)
		}
		return types.NewArray(uint64(t.Len), elem)
	case *analyzer.StructType:
		return c.structType(t)
	case *analyzer.FuncType:
		return types.NewPointer(c.funcSig(t))
	case nil:
		return types.Void
	}
	panic(fmt.Sprintf("compiler: unexpected type %T", t))
}

func intType(width int) *types.IntType {
	switch width {
	case 0:
		return types.I64
	case 8:
		return types.I8
	case 16:
		return types.I16
	case 32:
		return types.I32
	case 64:
		return types.I64
	}
	return types.NewInt(uint64(width))
}

func (c *Compiler) funcSig(fn *analyzer.FuncType) *types.FuncType {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = c.DecafTypeToLLType(p.Type)
	}
	return types.NewFunc(c.DecafTypeToLLType(fn.Ret), params...)
}

// structType returns the LLVM struct for st, creating it on first use. Named
// structs become type definitions so that they may point to themselves.
func (c *Compiler) structType(st *analyzer.StructType) *types.StructType {
	if s, ok := c.structs[st]; ok {
		return s
	}
	s := types.NewStruct()
	c.structs[st] = s
	if st.SName != "" {
		c.Module.NewTypeDef(c.uniqueTypeName(st.SName), s)
	}
	for _, m := range st.Members.Symbols() {
		s.Fields = append(s.Fields, c.DecafTypeToLLType(m.Type))
	}
	return s
}

func (c *Compiler) uniqueTypeName(name string) string {
	unique := name
	for i := 1; c.typeNames[unique]; i++ {
		unique = fmt.Sprintf("%s.%d", name, i)
	}
	c.typeNames[unique] = true
	return unique
}

func memberIndex(st *analyzer.StructType, name string) int {
	for i, m := range st.Members.Symbols() {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func isSigned(t analyzer.Type) bool {
	_, ok := t.(analyzer.IntType)
	return ok
}

func isFloat(t analyzer.Type) bool {
	_, ok := t.(analyzer.FloatType)
	return ok
}

func zero(t types.Type) constant.Constant {
	switch t := t.(type) {
	case *types.IntType:
		return constant.NewInt(t, 0)
	case *types.FloatType:
		return constant.NewFloat(t, 0)
	case *types.PointerType:
		return constant.NewNull(t)
	}
	return constant.NewZeroInitializer(t)
}

func i32(v int64) constant.Constant {
	return constant.NewInt(types.I32, v)
}

// cast converts v between numeric representations of the same kind.
func (ctx *Context) cast(v value.Value, from, to analyzer.Type) value.Value {
	dst := ctx.DecafTypeToLLType(to)
	if v.Type().Equal(dst) {
		return v
	}
	switch dt := dst.(type) {
	case *types.IntType:
		st, ok := v.Type().(*types.IntType)
		if !ok {
			return v
		}
		switch {
		case st.BitSize > dt.BitSize:
			return ctx.NewTrunc(v, dt)
		case isSigned(from):
			return ctx.NewSExt(v, dt)
		default:
			return ctx.NewZExt(v, dt)
		}
	case *types.FloatType:
		st, ok := v.Type().(*types.FloatType)
		if !ok {
			return v
		}
		if floatBits(st) > floatBits(dt) {
			return ctx.NewFPTrunc(v, dt)
		}
		return ctx.NewFPExt(v, dt)
	}
	return v
}

func floatBits(t *types.FloatType) int {
	switch t.Kind {
	case types.FloatKindHalf:
		return 16
	case types.FloatKindFloat:
		return 32
	}
	return 64
}
