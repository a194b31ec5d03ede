// Package ast declares the syntax tree produced by the parser. The set of node
// types is closed: every consumer switches over the concrete types below.
package ast

import "github.com/vyPal/Decaf/lib/token"

// Node is implemented by every syntax tree node.
type Node interface {
	// Token is the token diagnostics about the node are attached to.
	Token() token.Token
	node()
}

type (
	Identifier struct {
		Name token.Token
	}

	Literal struct {
		Value token.Token
	}

	UnaryExpr struct {
		Op      token.Token
		Operand Node
	}

	BinaryExpr struct {
		Op  token.Token
		Lhs Node
		Rhs Node
	}

	PostfixExpr struct {
		Operand Node
		Op      token.Token
	}

	CallExpr struct {
		Callee Node
		LParen token.Token
		Args   []Node
		RParen token.Token
	}

	// Slice is a slice type when Subscript is nil and an index expression
	// (or a sized slice type) otherwise.
	Slice struct {
		Base      Node
		LSquare   token.Token
		Subscript Node
		RSquare   token.Token
	}

	FuncType struct {
		LParen token.Token
		Params []*Declaration
		Ret    Node
	}

	// Declaration is "name: type", optionally followed by an initializer
	// expression or a code block.
	Declaration struct {
		Name token.Token
		Type Node
		Init Node
	}

	CodeBlock struct {
		LCurly     token.Token
		Statements []Node
		RCurly     token.Token
	}

	ReturnStmt struct {
		Return token.Token
		Expr   Node
	}

	// CompoundType is a struct definition. Name is nil for anonymous structs.
	CompoundType struct {
		Keyword token.Token
		Name    *Identifier
		Body    *CodeBlock
	}

	Module struct {
		Keyword    token.Token
		Name       token.Token
		Statements []Node
	}
)

func (n *Identifier) Token() token.Token  { return n.Name }
func (n *Literal) Token() token.Token     { return n.Value }
func (n *UnaryExpr) Token() token.Token   { return n.Op }
func (n *BinaryExpr) Token() token.Token  { return n.Op }
func (n *PostfixExpr) Token() token.Token { return n.Op }
func (n *Slice) Token() token.Token       { return n.LSquare }
func (n *FuncType) Token() token.Token    { return n.LParen }
func (n *Declaration) Token() token.Token { return n.Name }
func (n *CodeBlock) Token() token.Token   { return n.LCurly }
func (n *ReturnStmt) Token() token.Token  { return n.Return }
func (n *Module) Token() token.Token      { return n.Name }

func (n *CallExpr) Token() token.Token {
	if n.Callee != nil {
		return n.Callee.Token()
	}
	return n.LParen
}

func (n *CompoundType) Token() token.Token {
	if n.Name != nil {
		return n.Name.Name
	}
	return n.Keyword
}

func (*Identifier) node()   {}
func (*Literal) node()      {}
func (*UnaryExpr) node()    {}
func (*BinaryExpr) node()   {}
func (*PostfixExpr) node()  {}
func (*CallExpr) node()     {}
func (*Slice) node()        {}
func (*FuncType) node()     {}
func (*Declaration) node()  {}
func (*CodeBlock) node()    {}
func (*ReturnStmt) node()   {}
func (*CompoundType) node() {}
func (*Module) node()       {}

// Children returns the direct children of n in source order. Missing
// (placeholder) children are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Identifier, *Literal:
	case *UnaryExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Lhs)
		add(n.Rhs)
	case *PostfixExpr:
		add(n.Operand)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Slice:
		add(n.Base)
		add(n.Subscript)
	case *FuncType:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Ret)
	case *Declaration:
		add(n.Type)
		add(n.Init)
	case *CodeBlock:
		for _, s := range n.Statements {
			add(s)
		}
	case *ReturnStmt:
		add(n.Expr)
	case *CompoundType:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Module:
		for _, s := range n.Statements {
			add(s)
		}
	default:
		panic("ast: unexpected node type")
	}
	return out
}

// Walk visits n and its descendants depth first. Children are skipped when f
// returns false.
func Walk(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, f)
	}
}

// isNilNode catches typed nil pointers stored in a Node.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Declaration:
		return n == nil
	case *CodeBlock:
		return n == nil
	case *Identifier:
		return n == nil
	}
	return false
}
