package parser

import (
	"os"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-cfront/ast"
	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/lexer"
	"github.com/KimNorgaard/go-cfront/internal/testutil"
	"github.com/KimNorgaard/go-cfront/token"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// parseCase is a test case from testdata/parse.yaml.
type parseCase struct {
	Name   string          `yaml:"name"`
	Input  string          `yaml:"input"`
	AST    string          `yaml:"ast"`
	Errors []expectedError `yaml:"errors"`
}

type expectedError struct {
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

func parse(t *testing.T, input string, opts ...Option) (*ast.Program, diag.List) {
	t.Helper()
	p := New(lexer.New([]byte(input)), opts...)
	program, diags := p.ParseProgram()
	require.NotNil(t, program)
	return program, diags
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("testdata/parse.yaml")
	require.NoError(t, err)

	var file struct {
		Tests []parseCase `yaml:"tests"`
	}
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Tests)

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			program, diags := parse(t, tc.Input)
			require.Equal(t, tc.AST, program.String())

			var errs diag.List
			for _, d := range diags {
				if d.Severity >= diag.Error {
					errs = append(errs, d)
				}
			}
			require.Len(t, errs, len(tc.Errors), "diagnostics: %v", diags)
			for i, want := range tc.Errors {
				require.Equal(t, want.Message, errs[i].Message)
				if want.Line > 0 {
					require.Equal(t, want.Line, errs[i].Pos.Line, "line of %q", want.Message)
					require.Equal(t, want.Column, errs[i].Pos.Column, "column of %q", want.Message)
				}
			}
		})
	}
}

func TestVarDeclStructure(t *testing.T) {
	program, diags := parse(t, "int x = 5;")
	require.Empty(t, diags)
	require.Len(t, program.Decls, 1)

	decl, ok := program.Decls[0].(*ast.VarDecl)
	require.True(t, ok, "expected *ast.VarDecl, got %T", program.Decls[0])
	require.Equal(t, "x", decl.Name.Value)

	typ, ok := decl.Type.(*ast.BasicType)
	require.True(t, ok)
	require.Equal(t, []string{"int"}, typ.Names)

	lit, ok := decl.Init.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, token.INT, lit.Kind)
	require.Equal(t, int64(5), lit.Value)
	require.Equal(t, token.Position{Offset: 8, Line: 1, Column: 9}, lit.Pos())
}

func TestReservedWordRecovery(t *testing.T) {
	program, diags := parse(t, "int break = 34;\nint main() { return 0; }")
	require.True(t, diags.HasErrors())
	require.Equal(t, diag.Syntax, diags[0].Category)
	require.Equal(t, "break", diags[0].Lexeme)

	require.Len(t, program.Decls, 1)
	fn, ok := program.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name.Value)
}

func TestLiteralValues(t *testing.T) {
	program, diags := parse(t, `void f() { g(0x1F, 2.5, 'a', "s\n", true, NULL); }`)
	require.Empty(t, diags)

	fn := program.Decls[0].(*ast.FunctionDecl)
	call := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	var values []any
	for _, arg := range call.Args {
		values = append(values, arg.(*ast.Literal).Value)
	}
	require.Equal(t, []any{int64(31), 2.5, 'a', "s\n", true, nil}, values)
}

func TestNestedStructDefinitionIsKept(t *testing.T) {
	program, diags := parse(t, "struct A { struct B { int x; } b; };")
	require.Empty(t, diags)

	sd := program.Decls[0].(*ast.StructDecl)
	st, ok := sd.Fields[0].Type.(*ast.StructType)
	require.True(t, ok)
	require.NotNil(t, st.Def)
	require.Equal(t, "B", st.Def.Name.Value)
	require.Len(t, st.Def.Fields, 1)

	var names []string
	ast.Inspect(program, func(n ast.Node) bool {
		if v, ok := n.(*ast.VarDecl); ok {
			names = append(names, v.Name.Value)
		}
		return true
	})
	require.Equal(t, []string{"b", "x"}, names)
}

func TestPrototypeNotAllowedInForInit(t *testing.T) {
	_, diags := parse(t, "void f() { for (int g(int); ;) ; }")
	require.True(t, diags.HasErrors())
	require.Equal(t, "expected ',' or ';', found '('", diags[0].Message)
	require.Equal(t, 22, diags[0].Pos.Column)
}

func TestMaxDepth(t *testing.T) {
	input := "int x = " + strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"

	_, diags := parse(t, input)
	require.Empty(t, diags)

	_, diags = parse(t, input, MaxDepth(20))
	require.Len(t, diags, 1)
	require.Equal(t, diag.Fatal, diags[0].Severity)
	require.Equal(t, "maximum nesting depth exceeded", diags[0].Message)
}

func TestDeepNestingIsBounded(t *testing.T) {
	input := "void f() {" + strings.Repeat("{", 5000) + strings.Repeat("}", 5000) + "}"
	_, diags := parse(t, input)
	require.True(t, diags.HasErrors())
	require.Equal(t, "maximum nesting depth exceeded", diags[len(diags)-1].Message)
}

func TestErrorLimit(t *testing.T) {
	input := strings.Repeat("int break = 1;\n", 50)
	r := diag.NewReporter(5)
	p := New(lexer.New([]byte(input), lexer.Reporter(r)))
	_, diags := p.ParseProgram()

	require.True(t, r.Full())
	require.Len(t, diags, 6)
	require.Equal(t, "too many errors (5), giving up", diags[5].Message)
	require.Equal(t, diag.Fatal, diags[5].Severity)
}

func TestPathologicalInputTerminates(t *testing.T) {
	inputs := []string{
		strings.Repeat("}", 1000),
		strings.Repeat(")]", 1000),
		strings.Repeat("@", 1000),
		strings.Repeat("int ", 1000),
		strings.Repeat("if (", 1000),
		strings.Repeat("void f() { case", 200),
	}
	for _, input := range inputs {
		r := diag.NewReporter(0)
		p := New(lexer.New([]byte(input), lexer.Reporter(r)))
		program, diags := p.ParseProgram()
		require.NotNil(t, program)
		require.True(t, diags.HasErrors())
	}
}

func TestCorpusPrograms(t *testing.T) {
	names, err := testutil.ValidPrograms()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := testutil.ReadTestData(name)
			require.NoError(t, err)

			p := New(lexer.New(src, lexer.Filename(name)))
			program, diags := p.ParseProgram()
			require.NoError(t, diags.Err())
			require.NotEmpty(t, program.Decls)
		})
	}
}

func TestLexerCorpusRecovers(t *testing.T) {
	src, err := testutil.ReadTestData("lexer.c")
	require.NoError(t, err)

	program, diags := parse(t, string(src))
	require.True(t, diags.HasErrors())
	require.NotEmpty(t, diags.Filter(diag.Lexical))
	require.NotEmpty(t, diags.Filter(diag.Syntax))

	var funcs []string
	ast.Inspect(program, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FunctionDecl); ok {
			funcs = append(funcs, fn.Name.Value)
		}
		return true
	})
	require.Contains(t, funcs, "isEven_ig_2isDefinitely___Even")
}
