package analyzer

import (
	"fmt"

	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/diag"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

// Info holds what the checker learned about a module.
type Info struct {
	// Types maps every checked expression to its type. Expressions whose type
	// could not be determined are absent.
	Types map[ast.Node]Type
	// Defs maps declarations, including parameters, to their symbols.
	Defs map[*ast.Declaration]*Symbol
	// Uses maps identifiers in value position to the symbols they denote.
	Uses map[*ast.Identifier]*Symbol
	// Structs maps struct definitions to the types they declare.
	Structs map[*ast.CompoundType]*StructType
	// Module is the scope of the module's top level declarations.
	Module *Scope
}

func (info *Info) TypeOf(n ast.Node) Type {
	return info.Types[n]
}

// Checker walks a parsed module once, resolving every name and expression
// type. It keeps going after errors so that one run reports as many as
// possible.
type Checker struct {
	file   *source.File
	sink   diag.Sink
	ctx    *Context
	blocks []Type
	info   *Info
	errors int
}

func NewChecker(file *source.File, sink diag.Sink) *Checker {
	return &Checker{
		file: file,
		sink: sink,
		ctx:  NewContext(),
		info: &Info{
			Types:   make(map[ast.Node]Type),
			Defs:    make(map[*ast.Declaration]*Symbol),
			Uses:    make(map[*ast.Identifier]*Symbol),
			Structs: make(map[*ast.CompoundType]*StructType),
		},
	}
}

// Check type checks a module that parsed without errors and returns the
// collected information with the number of semantic errors reported.
func Check(m *ast.Module, file *source.File, sink diag.Sink) (*Info, int) {
	c := NewChecker(file, sink)
	c.module(m)
	return c.info, c.errors
}

func (c *Checker) errorf(tok token.Token, format string, args ...any) {
	c.errors++
	c.sink.Report(tok, fmt.Sprintf(format, args...))
}

func (c *Checker) text(tok token.Token) string { return c.file.TextOf(tok) }

func (c *Checker) push(s *Scope, block Type) {
	c.ctx.Push(s)
	c.blocks = append(c.blocks, block)
}

func (c *Checker) pop() {
	c.ctx.Pop()
	c.blocks = c.blocks[:len(c.blocks)-1]
}

func (c *Checker) top() Type {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

func (c *Checker) module(m *ast.Module) {
	if m == nil {
		return
	}
	c.info.Module = NewScope()
	c.ctx.Push(c.info.Module)
	for _, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *ast.Declaration:
			c.declaration(s)
		case *ast.CompoundType:
			if s.Name == nil {
				c.errorf(s.Keyword, "Anonymous struct at module scope")
			}
			c.compound(s)
		default:
			c.errorf(stmt.Token(), "Module scope can only have declarations")
		}
	}
	c.ctx.Pop()

	if c.ctx.Depth() != 1 {
		panic(fmt.Sprintf("analyzer: %d scopes left after checking", c.ctx.Depth()))
	}
	if len(c.blocks) != 0 {
		panic(fmt.Sprintf("analyzer: %d blocks left after checking", len(c.blocks)))
	}
}

func (c *Checker) statement(n ast.Node) {
	switch n := n.(type) {
	case *ast.Declaration:
		c.declaration(n)
	case *ast.ReturnStmt:
		c.returnStmt(n)
	case *ast.CodeBlock:
		c.ctx.Push(NewScope())
		c.statements(n.Statements)
		c.ctx.Pop()
	case *ast.CompoundType:
		c.compound(n)
	case *ast.Module:
		panic("analyzer: nested module")
	default:
		c.expr(n)
	}
}

func (c *Checker) statements(list []ast.Node) {
	for _, n := range list {
		c.statement(n)
	}
}

func (c *Checker) declaration(d *ast.Declaration) {
	name := c.text(d.Name)
	t := c.typeExpr(d.Type, false)
	sym := &Symbol{Name: name, Type: t, Decl: d}
	if !c.ctx.Insert(sym) {
		c.errorf(d.Name, "'%s' redeclared in this scope", name)
	}
	c.info.Defs[d] = sym

	if d.Init == nil {
		return
	}
	fn, isFn := t.(*FuncType)
	if body, ok := d.Init.(*ast.CodeBlock); ok {
		switch {
		case isFn:
			c.funcBody(fn, d, body)
		case t != nil:
			c.errorf(body.LCurly, "code block initializer requires a function type")
		}
		return
	}
	if isFn {
		c.errorf(d.Init.Token(), "Function '%s' must be initialised with a code block", name)
		return
	}

	v := c.expr(d.Init)
	if t == nil || v == nil {
		return
	}
	if !t.Equals(v) {
		c.mismatch(d.Init.Token(), t, v, fmt.Sprintf("declaration of '%s'", name))
		return
	}
	if s, ok := t.(*SliceType); ok && s.Len == Unsized {
		if _, ok := v.(*SliceType); ok {
			sym.Type = v
		}
	}
}

// mismatch reports that got cannot be used where want is expected. Slices
// that only differ by being too long get a dedicated message.
func (c *Checker) mismatch(tok token.Token, want, got Type, where string) {
	ws, ok1 := want.(*SliceType)
	gs, ok2 := got.(*SliceType)
	if ok1 && ok2 && ws.Elem.Equals(gs.Elem) {
		if gs.Len == Unsized {
			c.errorf(tok, "cannot use unsized %s as %s in %s", got.Name(), want.Name(), where)
		} else {
			c.errorf(tok, "value of length %d does not fit in %s in %s", gs.Len, want.Name(), where)
		}
		return
	}
	c.errorf(tok, "cannot use %s as %s in %s", got.Name(), want.Name(), where)
}

func (c *Checker) funcBody(fn *FuncType, d *ast.Declaration, body *ast.CodeBlock) {
	c.push(NewScope(), fn)
	defer c.pop()

	if ft, ok := d.Type.(*ast.FuncType); ok {
		for i, p := range ft.Params {
			sym := &Symbol{Name: c.text(p.Name), Decl: p}
			if i < len(fn.Params) {
				sym.Type = fn.Params[i].Type
			}
			if !c.ctx.Insert(sym) {
				c.errorf(p.Name, "duplicate parameter '%s'", sym.Name)
			}
			c.info.Defs[p] = sym
		}
	}
	c.info.Types[body] = fn
	c.statements(body.Statements)
}

func (c *Checker) returnStmt(r *ast.ReturnStmt) {
	var t Type = VoidType{}
	if r.Expr != nil {
		t = c.expr(r.Expr)
	}
	fn, ok := c.top().(*FuncType)
	if !ok {
		c.errorf(r.Return, "return outside function")
		return
	}
	if t == nil || fn.Ret == nil {
		return
	}
	if !fn.Ret.Equals(t) {
		c.errorf(r.Return, "cannot return %s from function returning %s", t.Name(), fn.Ret.Name())
	}
}

func (c *Checker) compound(ct *ast.CompoundType) {
	st := &StructType{Members: NewScope()}
	c.info.Structs[ct] = st
	if ct.Name != nil {
		st.SName = c.text(ct.Name.Name)
		if !c.ctx.Insert(&Symbol{Name: st.SName, Type: st, IsType: true, Decl: ct}) {
			c.errorf(ct.Name.Name, "'%s' redeclared in this scope", st.SName)
		}
	}
	if ct.Body == nil {
		return
	}

	c.push(st.Members, st)
	defer c.pop()
	for _, stmt := range ct.Body.Statements {
		d, ok := stmt.(*ast.Declaration)
		if !ok {
			c.errorf(stmt.Token(), "struct members must be declarations")
			continue
		}
		c.declaration(d)
	}
}

// typeExpr resolves a type expression. Inside a pointer the struct being
// defined may name itself.
func (c *Checker) typeExpr(n ast.Node, pointer bool) Type {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		name := c.text(n.Name)
		sym, ok := c.ctx.Lookup(name)
		if !ok {
			c.errorf(n.Name, "Could not resolve type '%s'", name)
			return nil
		}
		if sym.Type == nil {
			return nil
		}
		if !sym.IsType {
			c.errorf(n.Name, "'%s' is not a type", name)
			return nil
		}
		if st, ok := sym.Type.(*StructType); ok && !pointer && c.top() == Type(st) {
			c.errorf(n.Name, "recursive value type '%s' without indirection", name)
			return nil
		}
		return sym.Type
	case *ast.UnaryExpr:
		if n.Op.Kind != token.Asterisk {
			c.errorf(n.Op, "Unary %s not allowed in type expressions", c.text(n.Op))
			return nil
		}
		to := c.typeExpr(n.Operand, true)
		if to == nil {
			return nil
		}
		return NewPointerType(to)
	case *ast.FuncType:
		fn := &FuncType{Ret: c.typeExpr(n.Ret, true)}
		ok := fn.Ret != nil
		for _, p := range n.Params {
			t := c.typeExpr(p.Type, true)
			ok = ok && t != nil
			fn.Params = append(fn.Params, Param{Name: c.text(p.Name), Type: t})
		}
		if !ok {
			return nil
		}
		return fn
	case *ast.Slice:
		elem := c.typeExpr(n.Base, pointer || n.Subscript == nil)
		if n.Subscript == nil {
			if elem == nil {
				return nil
			}
			return NewSliceType(elem, Unsized)
		}
		length := c.sliceLength(n)
		if elem == nil || length == nil {
			return nil
		}
		return NewSliceType(elem, *length)
	case *ast.PostfixExpr:
		c.errorf(n.Op, "Can not have postfix operation in type expression")
	case *ast.BinaryExpr:
		c.errorf(n.Op, "Binary %s not allowed in type expressions", c.text(n.Op))
	case *ast.Literal:
		c.errorf(n.Value, "%s is not a type", c.text(n.Value))
	case *ast.CallExpr:
		c.errorf(n.Token(), "Call not allowed in type expressions")
	default:
		panic(fmt.Sprintf("analyzer: unexpected type expression %T", n))
	}
	return nil
}

// sliceLength checks the subscript of a sized slice type. A subscript that is
// not a compile time constant leaves the slice unsized.
func (c *Checker) sliceLength(n *ast.Slice) *int {
	t := c.expr(n.Subscript)
	if t == nil {
		return nil
	}
	if !IsInteger(t) {
		c.errorf(n.Subscript.Token(), "slice length must be an integer, not %s", t.Name())
		return nil
	}
	length := Unsized
	if v, ok := Constant(n.Subscript, c.file); ok {
		if v < 0 {
			c.errorf(n.Subscript.Token(), "negative slice length %d", v)
			return nil
		}
		length = int(v)
	}
	return &length
}

// expr resolves and records the type of a value expression. A nil result
// means an error has already been reported.
func (c *Checker) expr(n ast.Node) Type {
	t := c.resolve(n)
	if t != nil {
		c.info.Types[n] = t
	}
	return t
}

func (c *Checker) resolve(n ast.Node) Type {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		name := c.text(n.Name)
		sym, ok := c.ctx.Lookup(name)
		if !ok {
			c.errorf(n.Name, "Could not resolve value '%s'", name)
			return nil
		}
		if sym.IsType && sym.Type != nil {
			c.errorf(n.Name, "type '%s' used as a value", name)
			return nil
		}
		c.info.Uses[n] = sym
		return sym.Type
	case *ast.Literal:
		return c.literal(n)
	case *ast.UnaryExpr:
		return c.unary(n)
	case *ast.PostfixExpr:
		t := c.expr(n.Operand)
		if t == nil {
			return nil
		}
		if !IsNumeric(t) {
			c.errorf(n.Op, "operator %s not defined on %s", c.text(n.Op), t.Name())
			return nil
		}
		return t
	case *ast.BinaryExpr:
		return c.binary(n)
	case *ast.CallExpr:
		return c.call(n)
	case *ast.Slice:
		return c.index(n)
	}
	panic(fmt.Sprintf("analyzer: unexpected expression %T", n))
}

func (c *Checker) literal(n *ast.Literal) Type {
	switch n.Value.Kind {
	case token.IntegerLiteral, token.HexLiteral:
		return IntType{}
	case token.FloatLiteral:
		return FloatType{}
	case token.CharLiteral:
		return UintType{Width: 8}
	case token.True, token.False:
		return BoolType{}
	case token.StringLiteral:
		b, err := Unquote(c.text(n.Value))
		if err != nil {
			c.errorf(n.Value, "%v", err)
			return nil
		}
		return NewSliceType(UintType{Width: 8}, len(b))
	}
	panic(fmt.Sprintf("analyzer: unexpected literal %s", n.Value.Kind))
}

func (c *Checker) unary(n *ast.UnaryExpr) Type {
	t := c.expr(n.Operand)
	if t == nil {
		return nil
	}
	op := c.text(n.Op)
	switch n.Op.Kind {
	case token.Subtraction, token.Increment, token.Decrement:
		if IsNumeric(t) {
			return t
		}
	case token.Not:
		if IsInteger(t) {
			return t
		}
	case token.BoolNot:
		if _, ok := t.(BoolType); ok {
			return t
		}
	case token.Ampersand:
		if _, ok := t.(*FuncType); ok {
			break
		}
		return NewPointerType(t)
	case token.Asterisk:
		if p, ok := t.(*PointerType); ok {
			return p.To
		}
		c.errorf(n.Op, "cannot dereference non-pointer type %s", t.Name())
		return nil
	}
	c.errorf(n.Op, "operator %s not defined on %s", op, t.Name())
	return nil
}

func (c *Checker) binary(n *ast.BinaryExpr) Type {
	if n.Op.Kind == token.Period {
		return c.member(n)
	}
	lhs := c.expr(n.Lhs)
	rhs := c.expr(n.Rhs)
	if lhs == nil || rhs == nil {
		return nil
	}
	op := c.text(n.Op)

	switch {
	case n.Op.Kind == token.Assignment:
		if !addressable(n.Lhs) {
			c.errorf(n.Op, "cannot assign to %s", ast.SExpr(n.Lhs, c.file))
			return nil
		}
		if !lhs.Equals(rhs) {
			c.mismatch(n.Rhs.Token(), lhs, rhs, "assignment")
			return nil
		}
		return lhs
	case n.Op.Kind == token.BoolAnd || n.Op.Kind == token.BoolOr:
		_, lok := lhs.(BoolType)
		_, rok := rhs.(BoolType)
		if !lok || !rok {
			c.errorf(n.Op, "operator %s requires bool operands, got %s and %s", op, lhs.Name(), rhs.Name())
			return nil
		}
		return BoolType{}
	case n.Op.Kind.IsComparison():
		if isFunc(lhs) || isFunc(rhs) {
			c.errorf(n.Op, "Can not use binary operator on a function")
			return nil
		}
		if !Compatible(lhs, rhs) {
			c.errorf(n.Op, "mismatched types %s and %s", lhs.Name(), rhs.Name())
			return nil
		}
		return BoolType{}
	}

	// Arithmetic, bitwise and the compound assignments built from them.
	if n.Op.Kind.IsAssignment() && !addressable(n.Lhs) {
		c.errorf(n.Op, "cannot assign to %s", ast.SExpr(n.Lhs, c.file))
		return nil
	}
	if isPointer(lhs) || isPointer(rhs) {
		c.errorf(n.Op, "No pointer arithmetic allowed")
		return nil
	}
	if isFunc(lhs) || isFunc(rhs) {
		c.errorf(n.Op, "Can not use binary operator on a function")
		return nil
	}
	needInt := integerOnly(n.Op.Kind)
	for _, t := range []Type{lhs, rhs} {
		if !IsNumeric(t) || (needInt && !IsInteger(t)) {
			c.errorf(n.Op, "operator %s not defined on %s", op, t.Name())
			return nil
		}
	}
	if shift(n.Op.Kind) {
		return lhs
	}
	if n.Op.Kind.IsAssignment() {
		if !lhs.Equals(rhs) {
			c.mismatch(n.Rhs.Token(), lhs, rhs, "assignment")
			return nil
		}
	} else if !Compatible(lhs, rhs) {
		c.errorf(n.Op, "mismatched types %s and %s", lhs.Name(), rhs.Name())
		return nil
	}
	if divides(n.Op.Kind) {
		if v, ok := Constant(n.Rhs, c.file); ok && v == 0 {
			c.errorf(n.Op, "division by zero")
			return nil
		}
	}
	if IsUnsized(lhs) && !n.Op.Kind.IsAssignment() {
		return rhs
	}
	return lhs
}

func (c *Checker) member(n *ast.BinaryExpr) Type {
	lhs := c.expr(n.Lhs)
	if lhs == nil {
		return nil
	}
	st, ok := lhs.(*StructType)
	if !ok {
		c.errorf(n.Op, "member access on non-struct type %s", lhs.Name())
		return nil
	}
	id, ok := n.Rhs.(*ast.Identifier)
	if !ok {
		return nil
	}
	name := c.text(id.Name)
	sym, ok := st.Members.Lookup(name)
	if !ok {
		c.errorf(id.Name, "%s has no member '%s'", st.Name(), name)
		return nil
	}
	if sym.Type != nil {
		c.info.Types[id] = sym.Type
	}
	return sym.Type
}

func (c *Checker) call(n *ast.CallExpr) Type {
	callee := c.expr(n.Callee)
	args := make([]Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.expr(a)
	}
	if callee == nil {
		return nil
	}
	fn, ok := callee.(*FuncType)
	if !ok {
		c.errorf(n.Token(), "cannot call non-function type %s", callee.Name())
		return nil
	}
	switch {
	case len(args) > len(fn.Params):
		c.errorf(n.Token(), "too many arguments in call: expected %d but got %d", len(fn.Params), len(args))
		return fn.Ret
	case len(args) < len(fn.Params):
		c.errorf(n.Token(), "too few arguments in call: expected %d but got %d", len(fn.Params), len(args))
		return fn.Ret
	}
	for i, p := range fn.Params {
		if args[i] == nil || p.Type == nil {
			continue
		}
		if !p.Type.Equals(args[i]) {
			c.mismatch(n.Args[i].Token(), p.Type, args[i], fmt.Sprintf("argument %d", i+1))
		}
	}
	return fn.Ret
}

func (c *Checker) index(n *ast.Slice) Type {
	base := c.expr(n.Base)
	if n.Subscript == nil {
		c.errorf(n.RSquare, "missing index")
		return nil
	}
	sub := c.expr(n.Subscript)
	if base == nil || sub == nil {
		return nil
	}
	st, ok := base.(*SliceType)
	if !ok {
		c.errorf(n.LSquare, "cannot index non-slice type %s", base.Name())
		return nil
	}
	if !IsInteger(sub) {
		c.errorf(n.Subscript.Token(), "index must be an integer, not %s", sub.Name())
		return nil
	}
	if v, ok := Constant(n.Subscript, c.file); ok && st.Len != Unsized && (v < 0 || v >= int64(st.Len)) {
		c.errorf(n.Subscript.Token(), "index %d out of range for %s", v, st.Name())
		return nil
	}
	return st.Elem
}

func addressable(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Identifier:
		return true
	case *ast.Slice:
		return n.Subscript != nil
	case *ast.BinaryExpr:
		return n.Op.Kind == token.Period
	case *ast.UnaryExpr:
		return n.Op.Kind == token.Asterisk
	}
	return false
}

func isPointer(t Type) bool {
	_, ok := t.(*PointerType)
	return ok
}

func isFunc(t Type) bool {
	_, ok := t.(*FuncType)
	return ok
}

func integerOnly(k token.Kind) bool {
	switch k {
	case token.Modulo, token.Xor, token.Ampersand, token.Pipe, token.ShiftLeft, token.ShiftRight,
		token.AssignMod, token.AssignXor, token.AssignAnd, token.AssignPipe, token.AssignNot,
		token.AssignShiftLeft, token.AssignShiftRight:
		return true
	}
	return false
}

func shift(k token.Kind) bool {
	switch k {
	case token.ShiftLeft, token.ShiftRight, token.AssignShiftLeft, token.AssignShiftRight:
		return true
	}
	return false
}

func divides(k token.Kind) bool {
	switch k {
	case token.Division, token.Modulo, token.AssignDiv, token.AssignMod:
		return true
	}
	return false
}
