package lexer_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jackc-project/jackc/pkg/lexer"
	"github.com/jackc-project/jackc/pkg/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	lx, err := lexer.New("test.jack", []byte(src))
	require.NoError(t, err)

	var out []token.Token
	for {
		out = append(out, lx.Current())
		if !lx.HasMore() {
			break
		}
		require.NoError(t, lx.Advance())
	}
	return out
}

func TestKeywordsAndSymbols(t *testing.T) {
	toks := collect(t, "class Foo { field int x; }")

	require.Equal(t, token.Keyword, toks[0].Kind)
	require.Equal(t, "class", toks[0].Lexeme)
	require.Equal(t, token.Identifier, toks[1].Kind)
	require.Equal(t, "Foo", toks[1].Lexeme)
	require.Equal(t, token.Symbol, toks[2].Kind)
	require.Equal(t, "{", toks[2].Lexeme)
	require.Equal(t, token.Keyword, toks[3].Kind)
	require.Equal(t, "field", toks[3].Lexeme)
}

func TestIntLiteralRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 42, 32767} {
		toks := collect(t, fmt.Sprintf("%d", n))
		require.Equal(t, token.IntConst, toks[0].Kind)
		require.Equal(t, n, toks[0].IntValue)
		require.Equal(t, token.Eof, toks[1].Kind)
	}
}

func TestIntLiteralOutOfRange(t *testing.T) {
	_, err := lexer.New("test.jack", []byte("32768"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}

func TestCommentsAreDiscarded(t *testing.T) {
	toks := collect(t, "// a line comment\nlet /* inline */ x = 1;")
	require.Equal(t, "let", toks[0].Lexeme)
	require.Equal(t, "x", toks[1].Lexeme)
}

func TestUnterminatedBlockComment(t *testing.T) {
	// The lexer is lazy: the comment is only reached once Advance scans
	// the lookahead that follows ';'.
	lx, err := lexer.New("test.jack", []byte("let x = 1; /* never closed"))
	for err == nil && lx.HasMore() {
		err = lx.Advance()
	}
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated block comment")
}

func TestUnterminatedString(t *testing.T) {
	_, err := lexer.New("test.jack", []byte(`"unterminated`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated string")
}

func TestStringLiteral(t *testing.T) {
	toks := collect(t, `"hello world"`)
	require.Equal(t, token.StrConst, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Lexeme)
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, err := lexer.New("test.jack", []byte("let x"))
	require.NoError(t, err)

	require.Equal(t, "let", lx.Current().Lexeme)
	require.Equal(t, "x", lx.Peek().Lexeme)
	require.Equal(t, "let", lx.Current().Lexeme) // unchanged by Peek

	require.NoError(t, lx.Advance())
	require.Equal(t, "x", lx.Current().Lexeme)
}

func TestPositionTracking(t *testing.T) {
	toks := collect(t, "class A {\n  field int x;\n}")
	// "field" starts on line 2, column 3
	require.Equal(t, 2, toks[3].Pos.Line)
	require.Equal(t, 3, toks[3].Pos.Col)
}
