package analyzer

import (
	"fmt"
	"strings"
)

// Type is a resolved Decaf type. The set of implementations is closed.
type Type interface {
	Name() string
	// Equals reports whether a value of type other may be used where the
	// receiver is expected. Unsized literal types unify with sized ones and a
	// sized slice accepts any shorter slice of the same element type.
	Equals(other Type) bool
	typ()
}

// Unsized is the length of a slice type without a fixed length.
const Unsized = -1

// IntType is a signed integer. Width 0 is the type of integer literals.
type IntType struct {
	Width int
}

type UintType struct {
	Width int
}

// FloatType is a floating point number. Width 0 is the type of float literals.
type FloatType struct {
	Width int
}

type BoolType struct{}

type VoidType struct{}

type PointerType struct {
	To Type
}

type SliceType struct {
	Elem Type
	Len  int
}

// StructType owns the scope holding its members in declaration order.
type StructType struct {
	SName   string
	Members *Scope
}

type Param struct {
	Name string
	Type Type
}

type FuncType struct {
	Ret    Type
	Params []Param
}

func (IntType) typ()      {}
func (UintType) typ()     {}
func (FloatType) typ()    {}
func (BoolType) typ()     {}
func (VoidType) typ()     {}
func (*PointerType) typ() {}
func (*SliceType) typ()   {}
func (*StructType) typ()  {}
func (*FuncType) typ()    {}

func NewIntType(signed bool, width int) Type {
	if signed {
		return IntType{Width: width}
	}
	return UintType{Width: width}
}

func NewFloatType(width int) Type {
	return FloatType{Width: width}
}

func NewPointerType(to Type) Type {
	return &PointerType{To: to}
}

func NewSliceType(elem Type, length int) Type {
	return &SliceType{Elem: elem, Len: length}
}

func (t IntType) Name() string {
	if t.Width == 0 {
		return "int"
	}
	return fmt.Sprintf("i%d", t.Width)
}

func (t UintType) Name() string {
	if t.Width == 0 {
		return "uint"
	}
	return fmt.Sprintf("u%d", t.Width)
}

func (t FloatType) Name() string {
	if t.Width == 0 {
		return "float"
	}
	return fmt.Sprintf("f%d", t.Width)
}

func (BoolType) Name() string { return "bool" }
func (VoidType) Name() string { return "void" }

func (t *PointerType) Name() string {
	return "*" + typeName(t.To)
}

func (t *SliceType) Name() string {
	if t.Len == Unsized {
		return typeName(t.Elem) + "[]"
	}
	return fmt.Sprintf("%s[%d]", typeName(t.Elem), t.Len)
}

func (t *StructType) Name() string {
	if t.SName != "" {
		return t.SName
	}
	var sb strings.Builder
	sb.WriteString("struct {")
	for i, m := range t.Members.Symbols() {
		if i > 0 {
			sb.WriteString(";")
		}
		fmt.Fprintf(&sb, " %s: %s", m.Name, typeName(m.Type))
	}
	sb.WriteString(" }")
	return sb.String()
}

func (t *FuncType) Name() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeName(p.Type)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), typeName(t.Ret))
}

func typeName(t Type) string {
	if t == nil {
		return "<invalid>"
	}
	return t.Name()
}

func (t IntType) Equals(other Type) bool      { return equal(t, other, nil) }
func (t UintType) Equals(other Type) bool     { return equal(t, other, nil) }
func (t FloatType) Equals(other Type) bool    { return equal(t, other, nil) }
func (t BoolType) Equals(other Type) bool     { return equal(t, other, nil) }
func (t VoidType) Equals(other Type) bool     { return equal(t, other, nil) }
func (t *PointerType) Equals(other Type) bool { return equal(t, other, nil) }
func (t *SliceType) Equals(other Type) bool   { return equal(t, other, nil) }
func (t *StructType) Equals(other Type) bool  { return equal(t, other, nil) }
func (t *FuncType) Equals(other Type) bool    { return equal(t, other, nil) }

type structPair struct{ a, b *StructType }

// equal implements Type.Equals. seen breaks cycles through pointers between
// structurally compared structs.
func equal(want, got Type, seen map[structPair]bool) bool {
	if want == nil || got == nil {
		return false
	}
	switch w := want.(type) {
	case IntType:
		switch g := got.(type) {
		case IntType:
			return w.Width == 0 || g.Width == 0 || w.Width == g.Width
		case UintType:
			return false
		}
	case UintType:
		switch g := got.(type) {
		case UintType:
			return w.Width == 0 || g.Width == 0 || w.Width == g.Width
		case IntType:
			return g.Width == 0
		}
	case FloatType:
		if g, ok := got.(FloatType); ok {
			return w.Width == 0 || g.Width == 0 || w.Width == g.Width
		}
	case BoolType:
		_, ok := got.(BoolType)
		return ok
	case VoidType:
		_, ok := got.(VoidType)
		return ok
	case *PointerType:
		if g, ok := got.(*PointerType); ok {
			return equal(w.To, g.To, seen)
		}
	case *SliceType:
		if g, ok := got.(*SliceType); ok {
			if !equal(w.Elem, g.Elem, seen) {
				return false
			}
			return w.Len == Unsized || (g.Len != Unsized && g.Len <= w.Len)
		}
	case *StructType:
		g, ok := got.(*StructType)
		if !ok {
			return false
		}
		if w == g {
			return true
		}
		pair := structPair{w, g}
		if seen[pair] {
			return true
		}
		if seen == nil {
			seen = make(map[structPair]bool)
		}
		seen[pair] = true
		wm, gm := w.Members.Symbols(), g.Members.Symbols()
		if len(wm) != len(gm) {
			return false
		}
		for i := range wm {
			if wm[i].Name != gm[i].Name || !equal(wm[i].Type, gm[i].Type, seen) {
				return false
			}
		}
		return true
	case *FuncType:
		g, ok := got.(*FuncType)
		if !ok || len(w.Params) != len(g.Params) || !equal(w.Ret, g.Ret, seen) {
			return false
		}
		for i := range w.Params {
			if !equal(w.Params[i].Type, g.Params[i].Type, seen) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("analyzer: unexpected type %T", want))
	}
	return false
}

// Compatible reports whether a and b unify in either direction, which is what
// symmetric operators such as + and == need.
func Compatible(a, b Type) bool {
	return a.Equals(b) || b.Equals(a)
}

func IsInteger(t Type) bool {
	switch t.(type) {
	case IntType, UintType:
		return true
	}
	return false
}

func IsNumeric(t Type) bool {
	switch t.(type) {
	case IntType, UintType, FloatType:
		return true
	}
	return false
}

// IsUnsized reports whether t is the type of an untyped literal.
func IsUnsized(t Type) bool {
	switch t := t.(type) {
	case IntType:
		return t.Width == 0
	case UintType:
		return t.Width == 0
	case FloatType:
		return t.Width == 0
	}
	return false
}

// Builtins lists the predeclared types in declaration order.
func Builtins() []*Symbol {
	types := []struct {
		name string
		typ  Type
	}{
		{"i8", IntType{8}},
		{"i16", IntType{16}},
		{"i32", IntType{32}},
		{"i64", IntType{64}},
		{"int", IntType{0}},
		{"u8", UintType{8}},
		{"u16", UintType{16}},
		{"u32", UintType{32}},
		{"u64", UintType{64}},
		{"uint", UintType{0}},
		{"f16", FloatType{16}},
		{"f32", FloatType{32}},
		{"f64", FloatType{64}},
		{"bool", BoolType{}},
		{"void", VoidType{}},
	}
	syms := make([]*Symbol, len(types))
	for i, t := range types {
		syms[i] = &Symbol{Name: t.name, Type: t.typ, IsType: true}
	}
	return syms
}
