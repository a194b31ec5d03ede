package util

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func withInput(t *testing.T, r io.Reader) *strings.Builder {
	t.Helper()
	var out strings.Builder
	SetInput(r)
	Output = &out
	t.Cleanup(func() {
		SetInput(os.Stdin)
		Output = os.Stdout
	})
	return &out
}

func TestPromptString(t *testing.T) {
	out := withInput(t, strings.NewReader("demo\n\n"))

	got, err := PromptString("Project name", "NewProject")
	be.Err(t, err, nil)
	be.Equal(t, got, "demo")

	got, err = PromptString("Author", "Anonymous")
	be.Err(t, err, nil)
	be.Equal(t, got, "Anonymous")

	be.Equal(t, out.String(), "Project name (NewProject): Author (Anonymous): ")
}

func TestPromptYN(t *testing.T) {
	tests := []struct {
		answer string
		def    bool
		want   bool
	}{
		{"y\n", false, true},
		{"Yes\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", true, false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			withInput(t, strings.NewReader(tt.answer))
			got, err := PromptYN("Continue?", tt.def)
			be.Err(t, err, nil)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestPromptClosedInput(t *testing.T) {
	withInput(t, strings.NewReader(""))

	yes, err := PromptYN("Use default configuration?", true)
	be.Err(t, err, nil)
	be.True(t, yes)

	name, err := PromptString("Project name", "NewProject")
	be.Err(t, err, nil)
	be.Equal(t, name, "NewProject")
}

func TestPromptLastLineWithoutNewline(t *testing.T) {
	withInput(t, strings.NewReader("custom"))

	got, err := PromptString("Main file", "src/main.dcf")
	be.Err(t, err, nil)
	be.Equal(t, got, "custom")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPromptReadError(t *testing.T) {
	withInput(t, failingReader{})

	got, err := PromptYN("Overwrite?", false)
	be.True(t, err != nil)
	be.True(t, !got)
}
