package analyzer

import (
	"testing"

	"github.com/nalgeon/be"
)

func structOf(name string, members ...*Symbol) *StructType {
	st := &StructType{SName: name, Members: NewScope()}
	for _, m := range members {
		st.Members.Insert(m)
	}
	return st
}

func TestEquals(t *testing.T) {
	i32 := IntType{32}
	u8 := UintType{8}
	tests := []struct {
		name string
		want Type
		got  Type
		ok   bool
	}{
		{"same int", i32, IntType{32}, true},
		{"int widths", i32, IntType{64}, false},
		{"unsized int into sized", i32, IntType{}, true},
		{"sized int into unsized", IntType{}, i32, true},
		{"unsized int into uint", u8, IntType{}, true},
		{"sized int into uint", u8, IntType{8}, false},
		{"uint into unsized int", IntType{}, u8, false},
		{"uint into sized int", i32, UintType{32}, false},
		{"float literal", FloatType{32}, FloatType{}, true},
		{"float widths", FloatType{32}, FloatType{64}, false},
		{"int is not float", FloatType{}, IntType{}, false},
		{"bool", BoolType{}, BoolType{}, true},
		{"void is not bool", VoidType{}, BoolType{}, false},
		{"pointers", NewPointerType(i32), NewPointerType(IntType{32}), true},
		{"pointer targets", NewPointerType(i32), NewPointerType(u8), false},
		{"shorter slice", NewSliceType(u8, 8), NewSliceType(u8, 4), true},
		{"longer slice", NewSliceType(u8, 2), NewSliceType(u8, 4), false},
		{"unsized slice accepts any length", NewSliceType(u8, Unsized), NewSliceType(u8, 100), true},
		{"sized slice rejects unsized", NewSliceType(u8, 4), NewSliceType(u8, Unsized), false},
		{"slice elements", NewSliceType(u8, 4), NewSliceType(i32, 4), false},
		{
			"functions ignore parameter names",
			&FuncType{Ret: i32, Params: []Param{{"a", i32}}},
			&FuncType{Ret: i32, Params: []Param{{"b", i32}}},
			true,
		},
		{
			"function arity",
			&FuncType{Ret: i32, Params: []Param{{"a", i32}}},
			&FuncType{Ret: i32},
			false,
		},
		{
			"function results",
			&FuncType{Ret: i32},
			&FuncType{Ret: VoidType{}},
			false,
		},
		{"pointer is not int", i32, NewPointerType(i32), false},
		{"nil", i32, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.want.Equals(tt.got), tt.ok)
		})
	}
}

func TestStructEquality(t *testing.T) {
	a := structOf("A", &Symbol{Name: "x", Type: IntType{32}})
	b := structOf("B", &Symbol{Name: "x", Type: IntType{32}})
	c := structOf("C", &Symbol{Name: "y", Type: IntType{32}})
	d := structOf("D", &Symbol{Name: "x", Type: IntType{32}}, &Symbol{Name: "z", Type: BoolType{}})

	be.True(t, a.Equals(a))
	be.True(t, a.Equals(b))
	be.True(t, !a.Equals(c))
	be.True(t, !a.Equals(d))
}

func TestRecursiveStructEquality(t *testing.T) {
	list := func(name string) *StructType {
		st := structOf(name, &Symbol{Name: "value", Type: IntType{32}})
		st.Members.Insert(&Symbol{Name: "next", Type: NewPointerType(st)})
		return st
	}
	a, b := list("A"), list("B")
	be.True(t, a.Equals(b))
	be.True(t, b.Equals(a))
}

func TestCompatible(t *testing.T) {
	be.True(t, Compatible(IntType{32}, IntType{}))
	be.True(t, Compatible(IntType{}, IntType{32}))
	be.True(t, Compatible(NewSliceType(UintType{8}, 2), NewSliceType(UintType{8}, 4)))
	be.True(t, !Compatible(IntType{32}, IntType{16}))
	be.True(t, Compatible(IntType{}, UintType{64}))
	be.True(t, !Compatible(IntType{8}, UintType{}))
}

func TestNames(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{IntType{}, "int"},
		{IntType{16}, "i16"},
		{UintType{}, "uint"},
		{UintType{64}, "u64"},
		{FloatType{}, "float"},
		{FloatType{32}, "f32"},
		{BoolType{}, "bool"},
		{VoidType{}, "void"},
		{NewPointerType(NewPointerType(UintType{8})), "**u8"},
		{NewSliceType(UintType{8}, Unsized), "u8[]"},
		{NewSliceType(UintType{8}, 4), "u8[4]"},
		{&FuncType{Ret: BoolType{}, Params: []Param{{"a", IntType{32}}, {"b", UintType{8}}}}, "(i32, u8) -> bool"},
		{structOf("Point"), "Point"},
		{structOf("", &Symbol{Name: "x", Type: IntType{32}}, &Symbol{Name: "y", Type: BoolType{}}), "struct { x: i32; y: bool }"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			be.Equal(t, tt.typ.Name(), tt.want)
		})
	}
}

func TestContext(t *testing.T) {
	ctx := NewContext()
	be.Equal(t, ctx.Depth(), 1)

	sym, ok := ctx.Lookup("u16")
	be.True(t, ok)
	be.True(t, sym.IsType)
	be.Equal(t, sym.Type.Name(), "u16")

	ctx.Push(NewScope())
	be.True(t, ctx.Insert(&Symbol{Name: "x", Type: BoolType{}}))
	be.True(t, !ctx.Insert(&Symbol{Name: "x", Type: IntType{}}))

	ctx.Push(NewScope())
	be.True(t, ctx.Insert(&Symbol{Name: "x", Type: IntType{8}}))
	sym, _ = ctx.Lookup("x")
	be.Equal(t, sym.Type.Name(), "i8")

	ctx.Pop()
	sym, _ = ctx.Lookup("x")
	be.Equal(t, sym.Type.Name(), "bool")

	ctx.Pop()
	_, ok = ctx.Lookup("x")
	be.True(t, !ok)
}

func TestContextPopBuiltins(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	NewContext().Pop()
}
