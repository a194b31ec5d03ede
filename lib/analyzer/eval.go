package analyzer

import (
	"fmt"
	"strconv"

	"github.com/vyPal/Decaf/lib/ast"
	"github.com/vyPal/Decaf/lib/source"
	"github.com/vyPal/Decaf/lib/token"
)

var escapes = map[byte]byte{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// Unquote decodes a string or char literal, quotes included, into its bytes.
func Unquote(lit string) ([]byte, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return nil, fmt.Errorf("malformed literal %s", lit)
	}
	body := lit[1 : len(lit)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			out = append(out, body[i])
			continue
		}
		i++
		if i >= len(body) {
			return nil, fmt.Errorf("unterminated escape in %s", lit)
		}
		if body[i] == 'x' {
			if i+3 > len(body) {
				return nil, fmt.Errorf("short hex escape in %s", lit)
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("bad hex escape in %s: %w", lit, err)
			}
			out = append(out, byte(v))
			i += 2
			continue
		}
		b, ok := escapes[body[i]]
		if !ok {
			return nil, fmt.Errorf("unknown escape \\%c in %s", body[i], lit)
		}
		out = append(out, b)
	}
	return out, nil
}

// IntValue returns the value of an integer, hex or char literal.
func IntValue(file *source.File, tok token.Token) (int64, error) {
	text := file.TextOf(tok)
	switch tok.Kind {
	case token.IntegerLiteral:
		v, err := strconv.ParseUint(text, 10, 64)
		return int64(v), err
	case token.HexLiteral:
		v, err := strconv.ParseUint(text, 0, 64)
		return int64(v), err
	case token.CharLiteral:
		b, err := Unquote(text)
		if err != nil {
			return 0, err
		}
		if len(b) != 1 {
			return 0, fmt.Errorf("char literal %s is not one byte", text)
		}
		return int64(b[0]), nil
	case token.True:
		return 1, nil
	case token.False:
		return 0, nil
	}
	return 0, fmt.Errorf("%s is not an integer literal", tok.Kind)
}

// Constant folds integer literal arithmetic. The second result is false when n
// is not a compile time constant or the arithmetic is undefined.
func Constant(n ast.Node, file *source.File) (int64, bool) {
	switch n := n.(type) {
	case *ast.Literal:
		v, err := IntValue(file, n.Value)
		return v, err == nil
	case *ast.UnaryExpr:
		v, ok := Constant(n.Operand, file)
		if !ok {
			return 0, false
		}
		switch n.Op.Kind {
		case token.Subtraction:
			return -v, true
		case token.Not:
			return ^v, true
		}
	case *ast.BinaryExpr:
		lhs, ok := Constant(n.Lhs, file)
		if !ok {
			return 0, false
		}
		rhs, ok := Constant(n.Rhs, file)
		if !ok {
			return 0, false
		}
		switch n.Op.Kind {
		case token.Addition:
			return lhs + rhs, true
		case token.Subtraction:
			return lhs - rhs, true
		case token.Asterisk:
			return lhs * rhs, true
		case token.Division:
			if rhs == 0 {
				return 0, false
			}
			return lhs / rhs, true
		case token.Modulo:
			if rhs == 0 {
				return 0, false
			}
			return lhs % rhs, true
		case token.Xor:
			return lhs ^ rhs, true
		case token.Ampersand:
			return lhs & rhs, true
		case token.Pipe:
			return lhs | rhs, true
		case token.ShiftLeft:
			if rhs < 0 || rhs > 63 {
				return 0, false
			}
			return lhs << rhs, true
		case token.ShiftRight:
			if rhs < 0 || rhs > 63 {
				return 0, false
			}
			return lhs >> rhs, true
		}
	}
	return 0, false
}
