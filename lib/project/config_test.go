package project

import (
	"io"
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/Decaf/util"
)

func TestCreateDefault(t *testing.T) {
	var conf Config
	conf.CreateDefault(".")
	be.Equal(t, conf.Name, "NewProject")
	be.Equal(t, conf.Main, "src/main.dcf")
	be.Err(t, conf.Validate(), nil)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	var conf Config
	conf.CreateDefault("demo")
	conf.Compiler.Requires = "^0.1.0"
	conf.Compiler.Target = "x86_64-pc-linux-gnu"

	be.Err(t, conf.Save(filepath.Join(dir, FileName), true), nil)

	got, err := GetConfig(dir)
	be.Err(t, err, nil)
	be.Equal(t, got.Name, "demo")
	be.Equal(t, got.Version, "1.0.0")
	be.Equal(t, got.Compiler.Target, "x86_64-pc-linux-gnu")
	be.True(t, got.Compiler.Color == nil)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte("name: x\nversion: 1.0.0\nbogus: 1\n"), 0644)
	be.Err(t, err, nil)

	_, err = GetConfig(dir)
	be.True(t, err != nil)
}

func TestLoadMissing(t *testing.T) {
	_, err := GetConfig(t.TempDir())
	be.True(t, os.IsNotExist(err))
}

func TestColorSetting(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte("name: x\nversion: 1.0.0\ncompiler:\n  color: false\n"), 0644)
	be.Err(t, err, nil)

	conf, err := GetConfig(dir)
	be.Err(t, err, nil)
	be.True(t, conf.Compiler.Color != nil && !*conf.Compiler.Color)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Config
		wantErr bool
	}{
		{"valid", Config{Name: "a", Version: "0.1.0"}, false},
		{"prerelease", Config{Name: "a", Version: "1.0.0-beta.2"}, false},
		{"no name", Config{Version: "1.0.0"}, true},
		{"bad version", Config{Name: "a", Version: "1.0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			be.Equal(t, err != nil, tt.wantErr)
		})
	}
}

func TestCheckCompiler(t *testing.T) {
	conf := Config{Compiler: CompilerConfig{Requires: "^0.1.0"}}
	be.Err(t, conf.CheckCompiler("0.1.4"), nil)
	be.True(t, conf.CheckCompiler("1.0.0") != nil)

	conf.Compiler.Requires = ""
	be.Err(t, conf.CheckCompiler("9.9.9"), nil)
}

func TestMainPath(t *testing.T) {
	be.Equal(t, (&Config{Main: "src/app.dcf"}).MainPath("proj"), filepath.Join("proj", "src", "app.dcf"))
	be.Equal(t, (&Config{SourceDir: "code"}).MainPath("proj"), filepath.Join("proj", "code", "main.dcf"))
	be.Equal(t, (&Config{}).MainPath("."), filepath.Join("src", "main.dcf"))
}

func TestSaveAsksBeforeOverwriting(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"", "old"},
		{"n\n", "old"},
		{"y\n", "new"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			util.SetInput(strings.NewReader(tt.answer))
			util.Output = io.Discard
			t.Cleanup(func() {
				util.SetInput(os.Stdin)
				util.Output = os.Stdout
			})

			dir := t.TempDir()
			path := filepath.Join(dir, FileName)
			be.Err(t, (&Config{Name: "old", Version: "1.0.0"}).Save(path, true), nil)
			be.Err(t, (&Config{Name: "new", Version: "1.0.0"}).Save(path, false), nil)

			conf, err := GetConfig(dir)
			be.Err(t, err, nil)
			be.Equal(t, conf.Name, tt.want)
		})
	}
}
