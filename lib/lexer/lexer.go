package dclex

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

const escape = `\\(?:x[0-9a-fA-F]{2}|[0abefnrtv\\'"])`

// Definition is the participle lexer definition for Decaf source. Rule order
// matters: the first matching rule wins.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|#[^\n]*|/\*(?s:.)*?\*/`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r\f\v]+`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+(?:[eE][-+]?[0-9]+)?|[0-9]+[eE][-+]?[0-9]+`},
	{Name: "Hex", Pattern: `0x[0-9a-fA-F]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Char", Pattern: `'(?:` + escape + `|[^'\\\n])'`},
	{Name: "String", Pattern: `"(?:` + escape + `|[^"\\\n])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Operator", Pattern: `<<=|>>=|\.\.\.|->|\+\+|--|==|!=|<=|>=|<<|>>|[-+*/%~^&|]=|[-+*/%~^&|<>=.,;:@()\[\]{}]`},
	{Name: "Invalid", Pattern: `.`},
})

var operators = map[string]token.Kind{
	"==":  token.Equal,
	"!=":  token.NotEqual,
	"<":   token.LessThan,
	">":   token.GreaterThan,
	"<=":  token.LessThanOrEqual,
	">=":  token.GreaterThanOrEqual,
	"++":  token.Increment,
	"--":  token.Decrement,
	"+":   token.Addition,
	"-":   token.Subtraction,
	"*":   token.Asterisk,
	"/":   token.Division,
	"%":   token.Modulo,
	"~":   token.Not,
	"^":   token.Xor,
	"&":   token.Ampersand,
	"|":   token.Pipe,
	"<<":  token.ShiftLeft,
	">>":  token.ShiftRight,
	".":   token.Period,
	"...": token.Ellipsis,
	"->":  token.Arrow,
	",":   token.Comma,
	";":   token.Semicolon,
	":":   token.Colon,
	"@":   token.Address,
	"=":   token.Assignment,
	"+=":  token.AssignAdd,
	"-=":  token.AssignSub,
	"*=":  token.AssignMul,
	"/=":  token.AssignDiv,
	"%=":  token.AssignMod,
	"<<=": token.AssignShiftLeft,
	">>=": token.AssignShiftRight,
	"~=":  token.AssignNot,
	"^=":  token.AssignXor,
	"&=":  token.AssignAnd,
	"|=":  token.AssignPipe,
	"(":   token.LeftParen,
	")":   token.RightParen,
	"{":   token.LeftCurly,
	"}":   token.RightCurly,
	"[":   token.LeftSquare,
	"]":   token.RightSquare,
}

var kinds map[lexer.TokenType]token.Kind

var (
	commentType    lexer.TokenType
	whitespaceType lexer.TokenType
	identType      lexer.TokenType
	operatorType   lexer.TokenType
)

func init() {
	symbols := Definition.Symbols()
	commentType = symbols["Comment"]
	whitespaceType = symbols["Whitespace"]
	identType = symbols["Ident"]
	operatorType = symbols["Operator"]

	kinds = map[lexer.TokenType]token.Kind{
		symbols["Newline"]: token.Newline,
		symbols["Float"]:   token.FloatLiteral,
		symbols["Hex"]:     token.HexLiteral,
		symbols["Int"]:     token.IntegerLiteral,
		symbols["Char"]:    token.CharLiteral,
		symbols["String"]:  token.StringLiteral,
		symbols["Invalid"]: token.Invalid,
	}
}

// Lexer pulls Decaf tokens out of a source file one at a time. After the end of
// the input it keeps returning Eof.
type Lexer struct {
	file *source.File
	lex  lexer.Lexer
	done bool
}

func New(file *source.File) *Lexer {
	l := &Lexer{file: file}
	lex, err := Definition.Lex(file.Name, strings.NewReader(file.Text))
	if err != nil {
		l.done = true
		return l
	}
	l.lex = lex
	return l
}

func (l *Lexer) AtEnd() bool {
	return l.done
}

func (l *Lexer) eof() token.Token {
	return token.Token{Kind: token.Eof, Pos: len(l.file.Text)}
}

func (l *Lexer) Next() token.Token {
	for !l.done {
		t, err := l.lex.Next()
		if err != nil {
			// The catch-all rule makes this unreachable for valid UTF-8; give
			// the parser one bad token and stop.
			l.done = true
			return token.Token{Kind: token.Invalid, Pos: t.Pos.Offset, Len: 1}
		}
		if t.EOF() {
			l.done = true
			break
		}
		if t.Type == commentType || t.Type == whitespaceType {
			continue
		}
		return token.Token{Kind: kindOf(t), Pos: t.Pos.Offset, Len: len(t.Value)}
	}
	return l.eof()
}

func kindOf(t lexer.Token) token.Kind {
	switch t.Type {
	case identType:
		if k, ok := token.Keywords[t.Value]; ok {
			return k
		}
		return token.Identifier
	case operatorType:
		if k, ok := operators[t.Value]; ok {
			return k
		}
		return token.Invalid
	}
	if k, ok := kinds[t.Type]; ok {
		return k
	}
	return token.Invalid
}

// Tokens lexes the whole file, including the final Eof token.
func Tokens(file *source.File) []token.Token {
	l := New(file)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.Eof {
			return toks
		}
	}
}
