package parser

import (
	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/token"
)

func (p *Parser) primary() ast.Node {
	defer p.trace("primary")()
	switch {
	case p.at(token.Identifier):
		return &ast.Identifier{Name: p.advance()}
	case p.current.Kind.IsLiteral():
		return &ast.Literal{Value: p.advance()}
	case p.at(token.LeftParen):
		p.advance()
		expr := p.expression()
		p.expect(token.RightParen)
		return expr
	}
	p.error("Expected literal or expression but got " + p.current.Kind.String())
	p.advance()
	return nil
}

func (p *Parser) arguments() []ast.Node {
	var args []ast.Node
	for !p.at(token.RightParen) && !p.at(token.Eof) {
		args = append(args, p.expression())
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return args
}

func (p *Parser) postfix() ast.Node {
	defer p.trace("postfix")()
	expr := p.primary()
	for {
		switch p.current.Kind {
		case token.Increment, token.Decrement:
			expr = &ast.PostfixExpr{Operand: expr, Op: p.advance()}
		case token.Period:
			op := p.advance()
			name, ok := p.expect(token.Identifier)
			var member ast.Node
			if ok {
				member = &ast.Identifier{Name: name}
			}
			expr = &ast.BinaryExpr{Op: op, Lhs: expr, Rhs: member}
		case token.LeftParen:
			call := &ast.CallExpr{Callee: expr, LParen: p.advance()}
			call.Args = p.arguments()
			call.RParen, _ = p.expect(token.RightParen)
			expr = call
		case token.LeftSquare:
			s := &ast.Slice{Base: expr, LSquare: p.advance()}
			if !p.at(token.RightSquare) {
				s.Subscript = p.expression()
			}
			s.RSquare, _ = p.expect(token.RightSquare)
			expr = s
		default:
			return expr
		}
	}
}

func (p *Parser) unary() ast.Node {
	if !p.current.Kind.IsUnary() {
		return p.postfix()
	}
	defer p.trace("unary")()
	op := p.advance()
	return &ast.UnaryExpr{Op: op, Operand: p.unary()}
}

// binary implements precedence climbing; every operator is left associative.
func (p *Parser) binary(minPrec int) ast.Node {
	defer p.trace("binary")()
	lhs := p.unary()
	for p.current.Precedence() >= minPrec {
		op := p.advance()
		rhs := p.binary(op.Precedence() + 1)
		lhs = &ast.BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

// expression parses at most one assignment, so "a = b = c" is an error.
func (p *Parser) expression() ast.Node {
	defer p.trace("expression")()
	lhs := p.binary(1)
	if !p.current.Kind.IsAssignment() {
		return lhs
	}
	op := p.advance()
	rhs := p.binary(1)
	return &ast.BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs}
}

func (p *Parser) typeExpr() ast.Node {
	if p.at(token.LeftParen) {
		return p.funcType()
	}
	return p.binary(1)
}

// funcType parses "(a: T, b: U) -> R".
func (p *Parser) funcType() ast.Node {
	defer p.trace("funcType")()
	ft := &ast.FuncType{LParen: p.advance()}
	for !p.at(token.RightParen) && !p.at(token.Eof) {
		ft.Params = append(ft.Params, p.declaration())
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RightParen)
	p.expect(token.Arrow)
	ft.Ret = p.typeExpr()
	return ft
}

func (p *Parser) declaration() *ast.Declaration {
	defer p.trace("declaration")()
	name, _ := p.expect(token.Identifier)
	p.expect(token.Colon)
	return &ast.Declaration{Name: name, Type: p.typeExpr()}
}

func (p *Parser) declarationStatement() ast.Node {
	decl := p.declaration()
	switch p.current.Kind {
	case token.Assignment:
		p.advance()
		decl.Init = p.expression()
		p.terminator()
	case token.LeftCurly:
		decl.Init = p.codeBlock()
	default:
		p.terminator()
	}
	return decl
}

func (p *Parser) compoundType() ast.Node {
	defer p.trace("compoundType")()
	ct := &ast.CompoundType{Keyword: p.advance()}
	if p.at(token.Identifier) {
		ct.Name = &ast.Identifier{Name: p.advance()}
	}
	ct.Body = p.codeBlock()
	return ct
}

// returnStatement accepts a bare "return" for functions returning void.
func (p *Parser) returnStatement() ast.Node {
	ret := &ast.ReturnStmt{Return: p.advance()}
	switch p.current.Kind {
	case token.Newline, token.Semicolon, token.RightCurly, token.Eof:
	default:
		ret.Expr = p.expression()
	}
	p.terminator()
	return ret
}

func (p *Parser) statement() ast.Node {
	defer p.trace("statement")()
	switch p.current.Kind {
	case token.Newline, token.Semicolon:
		p.advance()
		return nil
	case token.Identifier:
		if p.lookahead.Kind == token.Colon {
			return p.declarationStatement()
		}
	case token.Struct:
		return p.compoundType()
	case token.Return:
		return p.returnStatement()
	case token.LeftCurly:
		return p.codeBlock()
	}
	expr := p.expression()
	p.terminator()
	return expr
}

func (p *Parser) statements() []ast.Node {
	var list []ast.Node
	for !p.at(token.RightCurly) && !p.at(token.Eof) {
		if stmt := p.statement(); stmt != nil {
			list = append(list, stmt)
		}
	}
	return list
}

func (p *Parser) codeBlock() *ast.CodeBlock {
	defer p.trace("codeBlock")()
	lc, _ := p.expect(token.LeftCurly)
	block := &ast.CodeBlock{LCurly: lc}
	block.Statements = p.statements()
	block.RCurly, _ = p.expect(token.RightCurly)
	return block
}

func (p *Parser) module() *ast.Module {
	defer p.trace("module")()
	for p.at(token.Newline) {
		p.advance()
	}
	if !p.at(token.Module) {
		p.error("No module statement at the start of file")
		return nil
	}
	m := &ast.Module{Keyword: p.advance()}
	m.Name, _ = p.expect(token.Identifier)
	p.terminator()

	for !p.at(token.Eof) {
		if p.at(token.RightCurly) {
			p.error("Unexpected RightCurly at module level")
			p.advance()
			continue
		}
		if stmt := p.statement(); stmt != nil {
			m.Statements = append(m.Statements, stmt)
		}
	}
	return m
}
