// Package mdtest reads golden test cases written as Markdown. Every case is a
// heading "Test: name" followed by fenced blocks:
//
//	decaf   the program
//	ast     one S-expression per top level statement
//	errors  one "line:col: message" per line, or "none"
package mdtest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	FenceInput  = "decaf"
	FenceAST    = "ast"
	FenceErrors = "errors"
)

type Case struct {
	Name string
	// Line is the line of the heading in the Markdown file.
	Line   int
	Input  string
	AST    string
	Errors string

	HasAST    bool
	HasErrors bool
}

// Extract returns the test cases of a Markdown document in order.
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	finish := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("line %d: test %q has no %s fence", current.Line, current.Name, FenceInput)
		}
		if !current.HasAST && !current.HasErrors {
			return fmt.Errorf("line %d: test %q has no expectations", current.Line, current.Name)
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkSkipChildren, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimPrefix(heading, "Test: "), Line: lineOf(n, source)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)
			if current == nil {
				if lang == FenceInput || lang == FenceAST || lang == FenceErrors {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
				}
				return ast.WalkContinue, nil
			}

			content := blockContent(n, source)
			switch lang {
			case FenceInput:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: test %q has several %s fences", line, current.Name, lang)
				}
				current.Input = content
			case FenceAST:
				current.AST = strings.TrimRight(content, "\n")
				current.HasAST = true
			case FenceErrors:
				current.Errors = strings.TrimRight(content, "\n")
				current.HasErrors = true
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence %q in test %q", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// ExtractFile reads and extracts the test cases of a Markdown file.
func ExtractFile(path string) ([]Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// ExpectedErrors returns the expected diagnostics in "line:col: message" form
// with a trailing newline, or "" when the case expects none.
func (c Case) ExpectedErrors() string {
	if strings.TrimSpace(c.Errors) == "none" {
		return ""
	}
	var sb strings.Builder
	for _, line := range strings.Split(c.Errors, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Normalize collapses runs of white space so that S-expressions may be wrapped
// over several lines in the Markdown source.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}
	return 1 + bytes.Count(source[:n.Lines().At(0).Start], []byte("\n"))
}
