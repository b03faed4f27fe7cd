package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"chunker"}, args...))
	return out.String(), err
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "default size",
			stdin: "this is my first line\nthis is my second line\n",
			args:  []string{"split"},
			want:  "\"this is my\"\n\" first lin\"\n\"e\\nthis is \"\n\"my second \"\n\"line\\n\"\n",
		},
		{
			name:  "size five",
			stdin: "The 1ardo2s fr3m a 4resi5ent 6ho o7 the8",
			args:  []string{"split", "--size", "5"},
			want:  "\"The 1\"\n\"ardo2\"\n\"s fr3\"\n\"m a 4\"\n\"resi5\"\n\"ent 6\"\n\"ho o7\"\n\" the8\"\n\"\\n\"\n",
		},
		{
			name:  "raw with custom terminator",
			stdin: "ab\ncd\n",
			args:  []string{"split", "--size", "3", "--line-char", "|", "--raw"},
			want:  "ab|\ncd|\n",
		},
		{
			name:  "escaped terminator",
			stdin: "a\n",
			args:  []string{"split", "--line-char", `\r\n`},
			want:  "\"a\\r\\n\"\n",
		},
		{
			name:  "empty terminator",
			stdin: "ab\ncd\n",
			args:  []string{"split", "--size", "3", "--line-char", "", "--raw"},
			want:  "abc\nd\n",
		},
		{
			name: "empty input",
			args: []string{"split"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runApp(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("hello world\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := runApp(t, "", "split", "--size", "6", "--raw", path)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "hello \nworld\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSplit_InvalidArguments(t *testing.T) {
	tests := [][]string{
		{"split", "--size", "0"},
		{"split", "--line-char", `\q`},
		{"split", "a.txt", "b.txt"},
		{"split", filepath.Join(t.TempDir(), "missing.txt")},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := runApp(t, "", args...); err == nil {
				t.Error("Run() expected error")
			}
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunker:\n  size: 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := runApp(t, "", "run", "--config", path); err == nil {
		t.Error("run with invalid config should fail")
	}
}
