package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-cfront"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type command func(*cli, []string) int

func run(t *testing.T, cmd command, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := &cli{stdin: strings.NewReader(stdin), stdout: &stdout, stderr: &stderr}
	code := cmd(c, args)
	return code, stdout.String(), stderr.String()
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.c")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTokensTable(t *testing.T) {
	path := writeSource(t, "int x = 5;\n")
	code, stdout, stderr := run(t, (*cli).cmdTokens, "", path)
	require.Equal(t, exitOK, code)
	require.Empty(t, stderr)

	rows := lines(stdout)
	require.Len(t, rows, 7)
	require.Equal(t, []string{"Token", "Lexeme", "Line#", "Column#"}, strings.Fields(rows[0]))
	require.Equal(t, []string{"int", "int", "1", "1"}, strings.Fields(rows[1]))
	require.Equal(t, []string{"IDENT", "x", "1", "5"}, strings.Fields(rows[2]))
	require.Equal(t, []string{"INT", "5", "1", "9"}, strings.Fields(rows[4]))
	require.Equal(t, "EOF", strings.Fields(rows[6])[0])
}

func TestTokensYAML(t *testing.T) {
	path := writeSource(t, "int x = 5;")
	code, stdout, _ := run(t, (*cli).cmdTokens, "", "-format", "yaml", path)
	require.Equal(t, exitOK, code)

	var records []tokenRecord
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 6)
	require.Equal(t, tokenRecord{Token: "IDENT", Lexeme: "x", Line: 1, Column: 5}, records[1])
	require.Equal(t, "EOF", records[5].Token)
}

func TestTokensReportsLexicalErrors(t *testing.T) {
	path := writeSource(t, "int x = @;")
	code, stdout, stderr := run(t, (*cli).cmdTokens, "", path)
	require.Equal(t, exitDiags, code)
	require.Contains(t, stdout, "ILLEGAL")
	require.Contains(t, stderr, "1:9: lexical error: unexpected character '@'")
}

type parseOutput struct {
	AST         string `yaml:"ast"`
	Diagnostics []struct {
		Severity string `yaml:"severity"`
		Category string `yaml:"category"`
		Message  string `yaml:"message"`
	} `yaml:"diagnostics"`
}

func TestParseYAMLOutput(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeSource(t, "int x = 5;")
		code, stdout, stderr := run(t, (*cli).cmdParse, "", "-format", "yaml", path)
		require.Equal(t, exitOK, code)
		require.Empty(t, stderr)

		var out parseOutput
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
		require.Equal(t, "(program (var int x 5))", out.AST)
		require.Empty(t, out.Diagnostics)
	})

	t.Run("syntax error", func(t *testing.T) {
		path := writeSource(t, "int x = ;")
		code, stdout, _ := run(t, (*cli).cmdParse, "", "-format", "yaml", path)
		require.Equal(t, exitDiags, code)

		var out parseOutput
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
		require.Equal(t, "(program)", out.AST)
		require.Len(t, out.Diagnostics, 1)
		require.Equal(t, "error", out.Diagnostics[0].Severity)
		require.Equal(t, "syntax", out.Diagnostics[0].Category)
		require.Equal(t, "expected expression, found ';'", out.Diagnostics[0].Message)
	})
}

func TestParseTreeFromStdin(t *testing.T) {
	code, stdout, stderr := run(t, (*cli).cmdParse, "int x = 5;", "-")
	require.Equal(t, exitOK, code)
	require.Empty(t, stderr)
	require.Equal(t, "program\n  var\n    int\n    x\n    5\n", stdout)
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	path := writeSource(t, "int break = 34;\n")
	code, _, stderr := run(t, (*cli).cmdParse, "", path)
	require.Equal(t, exitDiags, code)
	require.Contains(t, stderr, "1:5: syntax error: expected identifier, found 'break'")
	require.Contains(t, stderr, "   1 | int break = 34;\n")
}

func TestFmt(t *testing.T) {
	path := writeSource(t, "int f(){return 1;}")
	out := filepath.Join(t.TempDir(), "out.c")

	code, stdout, stderr := run(t, (*cli).cmdFmt, "", "-indent", "2", "-o", out, path)
	require.Equal(t, exitOK, code)
	require.Empty(t, stdout)
	require.Empty(t, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "int f() {\n  return 1;\n}\n", string(data))
}

func TestFmtRefusesBrokenInput(t *testing.T) {
	path := writeSource(t, "int f( {")
	out := filepath.Join(t.TempDir(), "out.c")

	code, stdout, stderr := run(t, (*cli).cmdFmt, "", "-o", out, path)
	require.Equal(t, exitDiags, code)
	require.Empty(t, stdout)
	require.NotEmpty(t, stderr)
	require.NoFileExists(t, out)
}

func TestDot(t *testing.T) {
	path := writeSource(t, "int x;")
	code, stdout, _ := run(t, (*cli).cmdDot, "", path)
	require.Equal(t, exitOK, code)
	require.True(t, strings.HasPrefix(stdout, "digraph AST {\n"), stdout)
}

func TestUsageErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.c")
	path := writeSource(t, "int x;")

	tests := []struct {
		name string
		cmd  command
		args []string
	}{
		{"no file", (*cli).cmdFmt, nil},
		{"two files", (*cli).cmdParse, []string{path, path}},
		{"missing file", (*cli).cmdTokens, []string{missing}},
		{"unknown flag", (*cli).cmdDot, []string{"-nope", path}},
		{"unknown tokens format", (*cli).cmdTokens, []string{"-format", "xml", path}},
		{"unknown parse format", (*cli).cmdParse, []string{"-format", "json", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := run(t, tt.cmd, "", tt.args...)
			require.Equal(t, exitUsage, code)
		})
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"int f() {", true},
		{"int f() {\n    return 1;\n", true},
		{"int x = 1", true},
		{"/* x", true},
		{"int x = ;", false},
		{"int f() { @", false},
		{"int x;", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, diags := cfront.Parse([]byte(tt.input))
			require.Equal(t, tt.want, incomplete([]byte(tt.input), diags), "diagnostics: %v", diags)
		})
	}
}
