package ast

import (
	"strings"

	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

// SExpr renders n as a single-line S-expression. Placeholders left behind by
// syntax errors print as "_".
func SExpr(n Node, file *source.File) string {
	var sb strings.Builder
	p := printer{file: file, sb: &sb}
	p.node(n)
	return sb.String()
}

type printer struct {
	file *source.File
	sb   *strings.Builder
}

func (p *printer) text(tok token.Token) string { return p.file.TextOf(tok) }

func (p *printer) list(head string, items ...func()) {
	p.sb.WriteByte('(')
	p.sb.WriteString(head)
	for _, item := range items {
		p.sb.WriteByte(' ')
		item()
	}
	p.sb.WriteByte(')')
}

func (p *printer) word(s string) func() {
	return func() { p.sb.WriteString(s) }
}

func (p *printer) child(n Node) func() {
	return func() { p.node(n) }
}

func (p *printer) children(nodes []Node) []func() {
	out := make([]func(), len(nodes))
	for i, n := range nodes {
		out[i] = p.child(n)
	}
	return out
}

var literalNames = map[token.Kind]string{
	token.IntegerLiteral: "int",
	token.HexLiteral:     "hex",
	token.FloatLiteral:   "float",
	token.CharLiteral:    "char",
	token.StringLiteral:  "string",
	token.True:           "bool",
	token.False:          "bool",
}

func (p *printer) node(n Node) {
	if n == nil || isNilNode(n) {
		p.sb.WriteByte('_')
		return
	}
	switch n := n.(type) {
	case *Identifier:
		p.list("ident", p.word(p.text(n.Name)))
	case *Literal:
		name, ok := literalNames[n.Value.Kind]
		if !ok {
			name = "literal"
		}
		p.list(name, p.word(p.text(n.Value)))
	case *UnaryExpr:
		p.list("unary", p.word(p.text(n.Op)), p.child(n.Operand))
	case *BinaryExpr:
		p.list("binary", p.word(p.text(n.Op)), p.child(n.Lhs), p.child(n.Rhs))
	case *PostfixExpr:
		p.list("postfix", p.word(p.text(n.Op)), p.child(n.Operand))
	case *CallExpr:
		p.list("call", append([]func(){p.child(n.Callee)}, p.children(n.Args)...)...)
	case *Slice:
		if n.Subscript == nil {
			p.list("slice", p.child(n.Base))
		} else {
			p.list("index", p.child(n.Base), p.child(n.Subscript))
		}
	case *FuncType:
		params := func() {
			p.sb.WriteByte('(')
			for i, d := range n.Params {
				if i > 0 {
					p.sb.WriteByte(' ')
				}
				p.node(d)
			}
			p.sb.WriteByte(')')
		}
		p.list("functype", params, p.child(n.Ret))
	case *Declaration:
		items := []func(){p.word(p.text(n.Name)), p.child(n.Type)}
		if n.Init != nil {
			items = append(items, p.child(n.Init))
		}
		p.list("decl", items...)
	case *CodeBlock:
		p.list("block", p.children(n.Statements)...)
	case *ReturnStmt:
		p.list("return", p.child(n.Expr))
	case *CompoundType:
		var items []func()
		if n.Name != nil {
			items = append(items, p.word(p.text(n.Name.Name)))
		}
		items = append(items, p.child(n.Body))
		p.list("struct", items...)
	case *Module:
		p.list("module", append([]func(){p.word(p.text(n.Name))}, p.children(n.Statements)...)...)
	default:
		panic("ast: unexpected node type")
	}
}

// Dump converts n into nested maps and slices suitable for encoding/json, with a
// "node" key naming the node type and token text in place of offsets.
func Dump(n Node, file *source.File) any {
	if n == nil || isNilNode(n) {
		return nil
	}
	tok := func(t token.Token) any {
		return map[string]any{"kind": t.Kind, "text": file.TextOf(t), "pos": t.Pos}
	}
	all := func(nodes []Node) []any {
		out := make([]any, len(nodes))
		for i, c := range nodes {
			out[i] = Dump(c, file)
		}
		return out
	}
	switch n := n.(type) {
	case *Identifier:
		return map[string]any{"node": "Identifier", "name": tok(n.Name)}
	case *Literal:
		return map[string]any{"node": "Literal", "value": tok(n.Value)}
	case *UnaryExpr:
		return map[string]any{"node": "UnaryExpr", "op": tok(n.Op), "operand": Dump(n.Operand, file)}
	case *BinaryExpr:
		return map[string]any{"node": "BinaryExpr", "op": tok(n.Op), "lhs": Dump(n.Lhs, file), "rhs": Dump(n.Rhs, file)}
	case *PostfixExpr:
		return map[string]any{"node": "PostfixExpr", "op": tok(n.Op), "operand": Dump(n.Operand, file)}
	case *CallExpr:
		return map[string]any{"node": "CallExpr", "callee": Dump(n.Callee, file), "args": all(n.Args)}
	case *Slice:
		return map[string]any{"node": "Slice", "base": Dump(n.Base, file), "subscript": Dump(n.Subscript, file)}
	case *FuncType:
		params := make([]any, len(n.Params))
		for i, d := range n.Params {
			params[i] = Dump(d, file)
		}
		return map[string]any{"node": "FuncType", "params": params, "ret": Dump(n.Ret, file)}
	case *Declaration:
		return map[string]any{"node": "Declaration", "name": tok(n.Name), "type": Dump(n.Type, file), "init": Dump(n.Init, file)}
	case *CodeBlock:
		return map[string]any{"node": "CodeBlock", "statements": all(n.Statements)}
	case *ReturnStmt:
		return map[string]any{"node": "ReturnStmt", "expr": Dump(n.Expr, file)}
	case *CompoundType:
		var name any
		if n.Name != nil {
			name = tok(n.Name.Name)
		}
		return map[string]any{"node": "CompoundType", "keyword": tok(n.Keyword), "name": name, "body": Dump(n.Body, file)}
	case *Module:
		return map[string]any{"node": "Module", "name": tok(n.Name), "statements": all(n.Statements)}
	}
	panic("ast: unexpected node type")
}
