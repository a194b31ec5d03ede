package token

// Kind identifies the syntactic class of a token.
type Kind int

const (
	Invalid Kind = iota
	Eof
	Newline

	Equal              // ==
	NotEqual           // !=
	LessThan           // <
	GreaterThan        // >
	LessThanOrEqual    // <=
	GreaterThanOrEqual // >=

	BoolNot // not
	BoolAnd // and
	BoolOr  // or

	Increment // ++
	Decrement // --

	Addition    // +
	Subtraction // -
	Asterisk    // *
	Division    // /
	Modulo      // %

	Not       // ~
	Xor       // ^
	Ampersand // &
	Pipe      // |

	ShiftLeft  // <<
	ShiftRight // >>

	Period   // .
	Ellipsis // ...
	Arrow    // ->
	Comma    // ,

	Semicolon // ;
	Colon     // :
	Address   // @

	// Every kind strictly between assignmentStart and assignmentEnd is an
	// assignment operator.
	assignmentStart
	Assignment       // =
	AssignAdd        // +=
	AssignSub        // -=
	AssignMul        // *=
	AssignDiv        // /=
	AssignMod        // %=
	AssignShiftLeft  // <<=
	AssignShiftRight // >>=
	AssignNot        // ~=
	AssignXor        // ^=
	AssignAnd        // &=
	AssignPipe       // |=
	assignmentEnd

	LeftParen   // (
	RightParen  // )
	LeftCurly   // {
	RightCurly  // }
	LeftSquare  // [
	RightSquare // ]

	If
	Else
	Switch
	Case
	Default
	While
	For
	Continue
	Break
	Return
	Goto
	Pub
	Const
	Macro
	Extern
	Inline
	Module
	Import
	As
	Struct
	Union
	Enum
	True
	False

	Identifier
	IntegerLiteral
	HexLiteral
	FloatLiteral
	CharLiteral
	StringLiteral

	kindCount
)

var names = [...]string{
	Invalid:            "Invalid",
	Eof:                "Eof",
	Newline:            "Newline",
	Equal:              "Equal",
	NotEqual:           "NotEqual",
	LessThan:           "LessThan",
	GreaterThan:        "GreaterThan",
	LessThanOrEqual:    "LessThanOrEqual",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	BoolNot:            "BoolNot",
	BoolAnd:            "BoolAnd",
	BoolOr:             "BoolOr",
	Increment:          "Increment",
	Decrement:          "Decrement",
	Addition:           "Addition",
	Subtraction:        "Subtraction",
	Asterisk:           "Asterisk",
	Division:           "Division",
	Modulo:             "Modulo",
	Not:                "Not",
	Xor:                "Xor",
	Ampersand:          "Ampersand",
	Pipe:               "Pipe",
	ShiftLeft:          "ShiftLeft",
	ShiftRight:         "ShiftRight",
	Period:             "Period",
	Ellipsis:           "Ellipsis",
	Arrow:              "Arrow",
	Comma:              "Comma",
	Semicolon:          "Semicolon",
	Colon:              "Colon",
	Address:            "Address",
	assignmentStart:    "ASSIGNMENT_START",
	Assignment:         "Assignment",
	AssignAdd:          "AssignAdd",
	AssignSub:          "AssignSub",
	AssignMul:          "AssignMul",
	AssignDiv:          "AssignDiv",
	AssignMod:          "AssignMod",
	AssignShiftLeft:    "AssignShiftLeft",
	AssignShiftRight:   "AssignShiftRight",
	AssignNot:          "AssignNot",
	AssignXor:          "AssignXor",
	AssignAnd:          "AssignAnd",
	AssignPipe:         "AssignPipe",
	assignmentEnd:      "ASSIGNMENT_END",
	LeftParen:          "LeftParen",
	RightParen:         "RightParen",
	LeftCurly:          "LeftCurly",
	RightCurly:         "RightCurly",
	LeftSquare:         "LeftSquare",
	RightSquare:        "RightSquare",
	If:                 "If",
	Else:               "Else",
	Switch:             "Switch",
	Case:               "Case",
	Default:            "Default",
	While:              "While",
	For:                "For",
	Continue:           "Continue",
	Break:              "Break",
	Return:             "Return",
	Goto:               "Goto",
	Pub:                "Pub",
	Const:              "Const",
	Macro:              "Macro",
	Extern:             "Extern",
	Inline:             "Inline",
	Module:             "Module",
	Import:             "Import",
	As:                 "As",
	Struct:             "Struct",
	Union:              "Union",
	Enum:               "Enum",
	True:               "True",
	False:              "False",
	Identifier:         "Identifier",
	IntegerLiteral:     "IntegerLiteral",
	HexLiteral:         "HexLiteral",
	FloatLiteral:       "FloatLiteral",
	CharLiteral:        "CharLiteral",
	StringLiteral:      "StringLiteral",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(?)"
	}
	return names[k]
}

// MarshalText lets AST dumps show kind names instead of numbers.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Keywords maps reserved words to their kinds.
var Keywords = map[string]Kind{
	"if":       If,
	"else":     Else,
	"switch":   Switch,
	"case":     Case,
	"default":  Default,
	"while":    While,
	"for":      For,
	"continue": Continue,
	"break":    Break,
	"return":   Return,
	"goto":     Goto,
	"pub":      Pub,
	"const":    Const,
	"macro":    Macro,
	"extern":   Extern,
	"inline":   Inline,
	"module":   Module,
	"import":   Import,
	"as":       As,
	"struct":   Struct,
	"union":    Union,
	"enum":     Enum,
	"true":     True,
	"false":    False,
	"not":      BoolNot,
	"and":      BoolAnd,
	"or":       BoolOr,
}

// IsAssignment reports whether k is one of the assignment operators.
func (k Kind) IsAssignment() bool {
	return assignmentStart < k && k < assignmentEnd
}

// IsUnary reports whether k may start a prefix unary expression.
func (k Kind) IsUnary() bool {
	switch k {
	case Increment, Decrement, Subtraction, Asterisk, Not, BoolNot, Ampersand:
		return true
	}
	return false
}

func (k Kind) IsLiteral() bool {
	switch k {
	case IntegerLiteral, HexLiteral, FloatLiteral, CharLiteral, StringLiteral, True, False:
		return true
	}
	return false
}

// IsComparison reports whether k is one of the precedence 3 operators.
func (k Kind) IsComparison() bool {
	switch k {
	case Equal, NotEqual, LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual:
		return true
	}
	return false
}

// Precedence returns the binding power of k as a binary operator, or 0 when k
// is not a binary operator.
func (k Kind) Precedence() int {
	switch k {
	case BoolOr:
		return 1
	case BoolAnd:
		return 2
	case Equal, NotEqual, LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual:
		return 3
	case Addition, Subtraction, Pipe, Xor:
		return 4
	case Asterisk, Division, Modulo, ShiftLeft, ShiftRight, Ampersand:
		return 5
	}
	return 0
}

// Token is a lexeme addressed by its byte range in the source. It carries no
// value; the text is recovered from the source on demand.
type Token struct {
	Kind Kind `json:"kind"`
	Pos  int  `json:"pos"`
	Len  int  `json:"len"`
}

func (t Token) Precedence() int { return t.Kind.Precedence() }

// End returns the offset just past the token.
func (t Token) End() int { return t.Pos + t.Len }
