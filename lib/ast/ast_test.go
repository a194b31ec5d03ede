package ast

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

// x: i32 = f(1)
func sample() (*source.File, *Declaration) {
	file := source.New("sample.dcf", "x: i32 = f(1)")
	tok := func(k token.Kind, pos, n int) token.Token { return token.Token{Kind: k, Pos: pos, Len: n} }
	decl := &Declaration{
		Name: tok(token.Identifier, 0, 1),
		Type: &Identifier{Name: tok(token.Identifier, 3, 3)},
		Init: &CallExpr{
			Callee: &Identifier{Name: tok(token.Identifier, 9, 1)},
			LParen: tok(token.LeftParen, 10, 1),
			Args:   []Node{&Literal{Value: tok(token.IntegerLiteral, 11, 1)}},
			RParen: tok(token.RightParen, 12, 1),
		},
	}
	return file, decl
}

func TestSExpr(t *testing.T) {
	file, decl := sample()
	be.Equal(t, SExpr(decl, file), "(decl x (ident i32) (call (ident f) (int 1)))")
	be.Equal(t, SExpr(nil, file), "_")
	be.Equal(t, SExpr(&ReturnStmt{}, file), "(return _)")
}

func TestWalk(t *testing.T) {
	file, decl := sample()
	var seen []string
	Walk(decl, func(n Node) bool {
		seen = append(seen, file.TextOf(n.Token()))
		_, isCall := n.(*CallExpr)
		return !isCall
	})
	be.Equal(t, seen, []string{"x", "i32", "f"})
}

func TestChildrenSkipsNil(t *testing.T) {
	var body *CodeBlock
	ct := &CompoundType{Body: body}
	be.Equal(t, len(Children(ct)), 0)

	d := &Declaration{Type: &Identifier{}}
	be.Equal(t, len(Children(d)), 1)
}

func TestCallToken(t *testing.T) {
	file, decl := sample()
	call := decl.Init.(*CallExpr)
	be.Equal(t, file.TextOf(call.Token()), "f")
	call.Callee = nil
	be.Equal(t, file.TextOf(call.Token()), "(")
}

func TestDump(t *testing.T) {
	file, decl := sample()
	d := Dump(decl, file).(map[string]any)
	be.Equal(t, d["node"], any("Declaration"))
	call := d["init"].(map[string]any)
	be.Equal(t, call["node"], any("CallExpr"))
	be.Equal(t, len(call["args"].([]any)), 1)
}
