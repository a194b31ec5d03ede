package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtract(t *testing.T) {
	markdown := `# Cases

Some prose that is not a test.

## Test: one

` + fence + `decaf
module m
x: i32 = 1
` + fence + `

` + fence + `ast
(decl x (ident i32)
  (int 1))
` + fence + `

## Test: two

` + fence + `decaf
module m
` + fence + `

` + fence + `errors
none
` + fence + `
`

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "one")
	be.Equal(t, cases[0].Input, "module m\nx: i32 = 1\n")
	be.True(t, cases[0].HasAST)
	be.True(t, !cases[0].HasErrors)
	be.Equal(t, Normalize(cases[0].AST), "(decl x (ident i32) (int 1))")
	be.Equal(t, cases[0].Line, 5)

	be.Equal(t, cases[1].Name, "two")
	be.True(t, cases[1].HasErrors)
	be.Equal(t, cases[1].ExpectedErrors(), "")
}

func TestExpectedErrors(t *testing.T) {
	c := Case{Errors: "  2:1: first\n\n3:4: second  "}
	be.Equal(t, c.ExpectedErrors(), "2:1: first\n3:4: second\n")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "fence outside test",
			markdown: fence + "decaf\nmodule m\n" + fence + "\n",
			want:     "outside of a test",
		},
		{
			name:     "no input",
			markdown: "## Test: empty\n\n" + fence + "errors\nnone\n" + fence + "\n",
			want:     "has no decaf fence",
		},
		{
			name:     "no expectations",
			markdown: "## Test: bare\n\n" + fence + "decaf\nmodule m\n" + fence + "\n",
			want:     "has no expectations",
		},
		{
			name:     "unknown fence",
			markdown: "## Test: odd\n\n" + fence + "decaf\nmodule m\n" + fence + "\n\n" + fence + "llvm\nret\n" + fence + "\n",
			want:     "unknown fence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}

func TestNormalize(t *testing.T) {
	be.Equal(t, Normalize("(a\n\t(b  c))\n"), "(a (b c))")
}
