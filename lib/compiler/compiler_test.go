package compiler

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/Decaf/lib/analyzer"
	"github.com/vyPal/Decaf/lib/diag"
	"github.com/vyPal/Decaf/lib/parser"
)

func compile(t *testing.T, code string) (string, *diag.List) {
	t.Helper()
	var errs diag.List
	file, m, n := parser.ParseString("test.dcf", code, &errs)
	if n > 0 {
		t.Fatalf("syntax errors:\n%s", errs.Format(file))
	}
	info, n := analyzer.Check(m, file, &errs)
	if n > 0 {
		t.Fatalf("type errors:\n%s", errs.Format(file))
	}
	mod, n := Compile(m, file, info, &errs)
	be.Equal(t, n, errs.Len())
	return mod.String(), &errs
}

func TestLowering(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			"function",
			"module m\nadd: (a: i32, b: i32) -> i32 {\n\treturn a + b\n}\n",
			[]string{"define i32 @add(i32 %a, i32 %b)", "entry:", "alloca i32", "add i32", "ret i32"},
		},
		{
			"globals",
			"module m\ncount: i32 = 3\nratio: f64 = 1.5\nmsg: u8[8] = \"abcd\"\nflag: bool\n",
			[]string{"@count = global i32 3", "@ratio = global double", `c"abcd\00\00\00\00"`, "@flag = global i1 false"},
		},
		{
			"struct",
			"module m\nstruct Point { x: i32; y: i32 }\norigin: Point\npy: (p: Point) -> i32 { return p.y }\n",
			[]string{"%Point = type { i32, i32 }", "@origin = global %Point zeroinitializer", "getelementptr %Point", "i32 0, i32 1"},
		},
		{
			"self referencing struct",
			"module m\nstruct Node { value: i32; next: *Node }\nhead: *Node\n",
			[]string{"%Node = type { i32, %Node* }", "@head = global %Node* null"},
		},
		{
			"signed and unsigned",
			"module m\nf: (a: i32, b: i32) -> i32 { return a / b }\ng: (a: u32, b: u32) -> u32 { return a / b }\n",
			[]string{"sdiv i32", "udiv i32"},
		},
		{
			"comparison",
			"module m\nf: (a: i32) -> bool { return a < 10 }\ng: (a: u8) -> bool { return a >= 'a' }\n",
			[]string{"icmp slt i32", "icmp uge i8", "ret i1"},
		},
		{
			"implicit return",
			"module m\nf: () -> void {\n\tx: i32 = 1\n}\ng: () -> i64 {\n}\n",
			[]string{"store i32 1, i32*", "ret void", "ret i64 0"},
		},
		{
			"string argument",
			"module m\ngreet: (s: u8[]) -> void\nmain: () -> void {\n\tgreet(\"hi\")\n}\n",
			[]string{"declare void @greet(i8*", `c"hi\00"`, "call void @greet("},
		},
		{
			"arithmetic on locals",
			"module m\nf: (a: i8) -> i64 {\n\tb: i64 = 0\n\tb = b + 1\n\treturn b\n}\ng: (a: u8) -> u32 {\n\treturn 0\n}\n",
			[]string{"add i64"},
		},
		{
			"increment",
			"module m\nf: () -> i32 {\n\tx: i32 = 1\n\tx++\n\t--x\n\treturn x\n}\n",
			[]string{"add i32", "sub i32"},
		},
		{
			"compound assignment",
			"module m\nf: () -> u8 {\n\tx: u8 = 255\n\tx ~= 15\n\tx >>= 1\n\treturn x\n}\n",
			[]string{"xor i8", "and i8", "lshr i8"},
		},
		{
			"pointers",
			"module m\nf: (p: *i32) -> i32 {\n\t*p = 3\n\treturn *p\n}\n",
			[]string{"store i32 3, i32* %", "load i32, i32* %"},
		},
		{
			"indexing",
			"module m\nf: (s: u8[4]) -> u8 { return s[2] }\n",
			[]string{"getelementptr [4 x i8]", "i64 0, i64 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, errs := compile(t, tt.code)
			be.Equal(t, errs.Len(), 0)
			for _, want := range tt.want {
				if !strings.Contains(ir, want) {
					t.Errorf("missing %q in:\n%s", want, ir)
				}
			}
		})
	}
}

func TestUnsupported(t *testing.T) {
	tests := []struct {
		name string
		code string
		msg  string
	}{
		{
			"nested function",
			"module m\nf: () -> void {\n\tg: () -> void {\n\t}\n}\n",
			"nested functions are not supported by the code generator",
		},
		{
			"global from variable",
			"module m\nx: i32 = 1\ny: i32 = x\n",
			"global 'y' must be initialised with a constant",
		},
		{
			"member initializer",
			"module m\nstruct S { x: i32 = 1 }\n",
			"member initializers are not supported by the code generator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := compile(t, tt.code)
			be.Equal(t, errs.Len(), 1)
			be.Equal(t, errs.Diagnostics[0].Msg, tt.msg)
		})
	}
}
