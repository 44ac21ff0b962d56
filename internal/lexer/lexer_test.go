package lexer

import (
	"testing"

	"github.com/KimNorgaard/go-cfront/diag"
	"github.com/KimNorgaard/go-cfront/internal/testutil"
	"github.com/KimNorgaard/go-cfront/token"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, input string) ([]token.Token, diag.List) {
	t.Helper()
	l := New([]byte(input))
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
		require.Less(t, len(toks), 100000, "lexer does not make progress")
	}
	return toks, l.Diagnostics()
}

type expectedToken struct {
	typ     token.Type
	literal string
}

func requireTokens(t *testing.T, input string, expected []expectedToken) []token.Token {
	t.Helper()
	toks, _ := lexAll(t, input)
	require.Len(t, toks, len(expected)+1, "token count for %q", input)
	for i, tt := range expected {
		require.Equal(t, tt.typ, toks[i].Type, "test[%d] - wrong token type", i)
		require.Equal(t, tt.literal, toks[i].Literal, "test[%d] - wrong literal", i)
	}
	require.Equal(t, token.EOF, toks[len(toks)-1].Type)
	return toks
}

func TestNextToken(t *testing.T) {
	input := `int main() {
	x <<= 2; // shift
	return a->b[0] != 'c';
}`

	requireTokens(t, input, []expectedToken{
		{token.KINT, "int"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.SHL_ASSIGN, "<<="},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.RETURN, "return"},
		{token.IDENT, "a"},
		{token.ARROW, "->"},
		{token.IDENT, "b"},
		{token.LBRACK, "["},
		{token.INT, "0"},
		{token.RBRACK, "]"},
		{token.NEQ, "!="},
		{token.CHAR, "'c'"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
	})
}

func TestPositions(t *testing.T) {
	toks, _ := lexAll(t, "int x;\n  y\t= 'a';")
	require.Equal(t, token.Position{Offset: 0, Line: 1, Column: 1}, toks[0].Pos)
	require.Equal(t, token.Position{Offset: 4, Line: 1, Column: 5}, toks[1].Pos)
	require.Equal(t, token.Position{Offset: 9, Line: 2, Column: 3}, toks[3].Pos)
	require.Equal(t, token.Position{Offset: 11, Line: 2, Column: 5}, toks[4].Pos)

	l := New([]byte("a\nb"), Filename("x.c"))
	l.NextToken()
	tok := l.NextToken()
	require.Equal(t, "x.c:2:1", tok.Pos.String())
}

func TestTriviaOnlyInput(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\r\n",
		"/* a // b */",
		"// /* */",
		"/* multi\nline */ // trailing\n",
		"/***** CONSTANTS *****/",
		"\\\n",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			toks, diags := lexAll(t, input)
			require.Len(t, toks, 1)
			require.Equal(t, token.EOF, toks[0].Type)
			require.Empty(t, diags)
		})
	}
}

func TestValidNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
		value any
	}{
		{"10", token.INT, int64(10)},
		{"0", token.INT, int64(0)},
		{"01", token.INT, int64(1)},
		{"017", token.INT, int64(15)},
		{"0xAF1", token.INT, int64(0xAF1)},
		{"0X1f", token.INT, int64(31)},
		{"0x7FFFFFFFFFFFFFFF", token.INT, int64(1<<63 - 1)},
		{"0xFFFFFFFFFFFFFFFF", token.INT, uint64(1<<64 - 1)},
		{"01777777777777777777777", token.INT, uint64(1<<64 - 1)},
		{"2.E-10", token.FLOAT, 2e-10},
		{"2.0e0", token.FLOAT, 2.0},
		{"0.e879", token.FLOAT, 0.0},
		{"3.14159", token.FLOAT, 3.14159},
		{".5", token.FLOAT, 0.5},
		{"1e10", token.FLOAT, 1e10},
		{"3.5e-3", token.FLOAT, 3.5e-3},
		{"09.5", token.FLOAT, 9.5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, diags := lexAll(t, tt.input)
			require.Empty(t, diags)
			require.Len(t, toks, 2)
			require.Equal(t, tt.typ, toks[0].Type)
			require.Equal(t, tt.input, toks[0].Literal)
			require.Equal(t, tt.value, toks[0].Value)
		})
	}
}

func TestMalformedNumbers(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"3E5.", "exponent must be an integer"},
		{"314159E-5L", `unsupported suffix "L" on numeric constant`},
		{"510E", "exponent has no digits"},
		{"210f", `unsupported suffix "f" on numeric constant`},
		{".e55", "floating constant is missing an integer or fraction part"},
		{"55num", "identifier cannot start with a digit"},
		{"09", `invalid digit '9' in octal constant`},
		{"0x", "hexadecimal constant has no digits"},
		{"0xAFg", `invalid character 'g' in numeric constant`},
		{"1.2.3", "malformed numeric constant"},
		{"10UL", `unsupported suffix "UL" on numeric constant`},
		{"99999999999999999999", "integer literal out of range"},
		{"9223372036854775808", "integer literal out of range"},
		{"0x10000000000000000", "integer literal out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, diags := lexAll(t, tt.input)
			require.Len(t, toks, 2)
			require.Equal(t, token.ILLEGAL, toks[0].Type)
			require.Equal(t, tt.input, toks[0].Literal)
			require.Equal(t, tt.msg, toks[0].Err)
			require.Len(t, diags, 1)
			require.Equal(t, diag.Lexical, diags[0].Category)
			require.Equal(t, diag.Error, diags[0].Severity)
			require.Equal(t, tt.input, diags[0].Lexeme)
		})
	}
}

func TestNumberFollowedByOperator(t *testing.T) {
	requireTokens(t, "93840+", []expectedToken{
		{token.INT, "93840"},
		{token.ADD, "+"},
	})
	requireTokens(t, "s.e55 = .e55", []expectedToken{
		{token.IDENT, "s"},
		{token.PERIOD, "."},
		{token.IDENT, "e55"},
		{token.ASSIGN, "="},
		{token.ILLEGAL, ".e55"},
	})
}

func TestMaximalMunch(t *testing.T) {
	requireTokens(t, "<<=", []expectedToken{{token.SHL_ASSIGN, "<<="}})
	requireTokens(t, ",,", []expectedToken{{token.COMMA, ","}, {token.COMMA, ","}})
	requireTokens(t, " a,, b ,. c", []expectedToken{
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COMMA, ","},
		{token.PERIOD, "."},
		{token.IDENT, "c"},
	})
	requireTokens(t, "++ += == -= -- - - + + ++a++", []expectedToken{
		{token.INC, "++"},
		{token.ADD_ASSIGN, "+="},
		{token.EQL, "=="},
		{token.SUB_ASSIGN, "-="},
		{token.DEC, "--"},
		{token.SUB, "-"},
		{token.SUB, "-"},
		{token.ADD, "+"},
		{token.ADD, "+"},
		{token.INC, "++"},
		{token.IDENT, "a"},
		{token.INC, "++"},
	})
	requireTokens(t, "x+++y>>=z...", []expectedToken{
		{token.IDENT, "x"},
		{token.INC, "++"},
		{token.ADD, "+"},
		{token.IDENT, "y"},
		{token.SHR_ASSIGN, ">>="},
		{token.IDENT, "z"},
		{token.ELLIPSIS, "..."},
	})
}

func TestKeywordCaseSensitivity(t *testing.T) {
	requireTokens(t, "WHILE While wHiLe while", []expectedToken{
		{token.IDENT, "WHILE"},
		{token.IDENT, "While"},
		{token.IDENT, "wHiLe"},
		{token.WHILE, "while"},
	})
	requireTokens(t, "Union union NULL null", []expectedToken{
		{token.IDENT, "Union"},
		{token.UNION, "union"},
		{token.NULL, "NULL"},
		{token.IDENT, "null"},
	})
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		input string
		value rune
	}{
		{`'a'`, 'a'},
		{`'\?'`, '?'},
		{`'\n'`, '\n'},
		{`'\0'`, 0},
		{`'\''`, '\''},
		{`'\\'`, '\\'},
		{`'"'`, '"'},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, diags := lexAll(t, tt.input)
			require.Empty(t, diags)
			require.Len(t, toks, 2)
			require.Equal(t, token.CHAR, toks[0].Type)
			require.Equal(t, tt.value, toks[0].Value)
		})
	}
}

func TestInvalidCharLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal string
		msg     string
	}{
		{`'\'`, `'\'`, "unterminated character literal"},
		{`'`, `'`, "unterminated character literal"},
		{"'abc\nx", "'abc", "unterminated character literal"},
		{`''`, `''`, "empty character literal"},
		{`'ab'`, `'ab'`, "multi-character character literal"},
		{`'\q'`, `'\q'`, `unknown escape sequence '\q'`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, diags := lexAll(t, tt.input)
			require.Equal(t, token.ILLEGAL, toks[0].Type)
			require.Equal(t, tt.literal, toks[0].Literal)
			require.Equal(t, tt.msg, toks[0].Err)
			require.Equal(t, token.Position{Offset: 0, Line: 1, Column: 1}, toks[0].Pos)
			require.Len(t, diags, 1)
		})
	}
}

func TestNestedQuotes(t *testing.T) {
	requireTokens(t, `''\n''`, []expectedToken{
		{token.ILLEGAL, "''"},
		{token.ILLEGAL, `\`},
		{token.IDENT, "n"},
		{token.ILLEGAL, "''"},
	})
}

func TestStringLiterals(t *testing.T) {
	toks := requireTokens(t, `"a\n\b\b\b\b\?"`, []expectedToken{{token.STRING, `"a\n\b\b\b\b\?"`}})
	require.Equal(t, "a\n\b\b\b\b?", toks[0].Value)

	requireTokens(t, `"te" + "a" - "x"`, []expectedToken{
		{token.STRING, `"te"`},
		{token.ADD, "+"},
		{token.STRING, `"a"`},
		{token.SUB, "-"},
		{token.STRING, `"x"`},
	})
	requireTokens(t, `"br"eak`, []expectedToken{
		{token.STRING, `"br"`},
		{token.IDENT, "eak"},
	})
	requireTokens(t, `"say \"hi\""`, []expectedToken{{token.STRING, `"say \"hi\""`}})
	requireTokens(t, "\"open\nx", []expectedToken{
		{token.ILLEGAL, `"open`},
		{token.IDENT, "x"},
	})
}

func TestStrayCharacters(t *testing.T) {
	toks := requireTokens(t, "g@!/", []expectedToken{
		{token.IDENT, "g"},
		{token.ILLEGAL, "@"},
		{token.NOT, "!"},
		{token.QUO, "/"},
	})
	require.Equal(t, `unexpected character '@'`, toks[1].Err)

	requireTokens(t, "a $ b # c", []expectedToken{
		{token.IDENT, "a"},
		{token.ILLEGAL, "$"},
		{token.IDENT, "b"},
		{token.ILLEGAL, "#"},
		{token.IDENT, "c"},
	})
	requireTokens(t, "\xff x", []expectedToken{
		{token.ILLEGAL, "\xff"},
		{token.IDENT, "x"},
	})
}

func TestPreprocessorLines(t *testing.T) {
	toks, diags := lexAll(t, "#define NULL 0\n  # include <stdio.h>\nint")
	require.Len(t, toks, 2)
	require.Equal(t, token.KINT, toks[0].Type)
	require.Len(t, diags, 2)
	require.Equal(t, diag.Warning, diags[0].Severity)
	require.Equal(t, "preprocessor directive #define ignored", diags[0].Message)
	require.Equal(t, "preprocessor directive #include ignored", diags[1].Message)
	require.NoError(t, diags.Err())
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, diags := lexAll(t, "int x; /* never closed\nint y;")
	require.Len(t, toks, 4)
	require.Equal(t, token.EOF, toks[3].Type)
	require.Len(t, diags, 1)
	require.Equal(t, diag.Fatal, diags[0].Severity)
	require.Equal(t, token.Position{Offset: 7, Line: 1, Column: 8}, diags[0].Pos)
}

func TestEOFIsIdempotent(t *testing.T) {
	l := New([]byte("x"))
	require.Equal(t, token.IDENT, l.NextToken().Type)
	first := l.NextToken()
	require.Equal(t, token.EOF, first.Type)
	for range 3 {
		require.Equal(t, first, l.NextToken())
	}
}

func TestCorpusTokensCoverSource(t *testing.T) {
	names, err := testutil.CorpusFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := testutil.ReadTestData(name)
			require.NoError(t, err)

			toks, _ := lexAll(t, string(src))
			prevEnd := 0
			for _, tok := range toks {
				require.GreaterOrEqual(t, tok.Pos.Offset, prevEnd, "tokens overlap at %s", tok.Pos)
				require.Equal(t, tok.Literal, string(src[tok.Pos.Offset:tok.End()]))
				prevEnd = tok.End()
			}
		})
	}
}

func TestLexerCorpus(t *testing.T) {
	src, err := testutil.ReadTestData("lexer.c")
	require.NoError(t, err)

	toks, diags := lexAll(t, string(src))
	illegal := map[string]bool{}
	for _, tok := range toks {
		if tok.Type == token.ILLEGAL {
			illegal[tok.Literal] = true
		}
	}
	for _, lit := range []string{"3E5.", "314159E-5L", "510E", "210f", ".e55", "55num", `'\'`, "''", "@"} {
		require.True(t, illegal[lit], "expected %q to be ILLEGAL", lit)
	}
	require.True(t, diags.HasErrors())
	for _, d := range diags {
		require.Equal(t, diag.Lexical, d.Category)
	}
}
