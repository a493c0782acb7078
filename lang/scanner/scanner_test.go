package scanner_test

import (
	"testing"

	"github.com/lumen-lang/lumen/lang/scanner"
	"github.com/lumen-lang/lumen/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Val {
	t.Helper()
	s := scanner.New(src)
	var toks []token.Val
	for {
		v := s.Scan()
		toks = append(toks, v)
		if v.Tok == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Val) []token.Token {
	out := make([]token.Token, len(toks))
	for i, v := range toks {
		out[i] = v.Tok
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, `(){};,.+-*/! != = == < <= > >=`)
	require.Equal(t, []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMICOLON,
		token.COMMA, token.DOT, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ, token.LT, token.LT_EQ,
		token.GT, token.GT_EQ, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks := scanAll(t, `var class fun hello and orchid`)
	require.Equal(t, []token.Token{
		token.VAR, token.CLASS, token.FUN, token.IDENT, token.AND, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestScanNumbers(t *testing.T) {
	src := `123 3.14 0.5`
	toks := scanAll(t, src)
	require.Equal(t, []token.Token{token.NUMBER, token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, "123", toks[0].Lexeme(src))
	require.Equal(t, "3.14", toks[1].Lexeme(src))
}

func TestScanString(t *testing.T) {
	src := `"hello world"`
	toks := scanAll(t, src)
	require.Equal(t, token.STRING, toks[0].Tok)
	require.Equal(t, src, toks[0].Lexeme(src))
}

func TestScanStringSpansNewlines(t *testing.T) {
	src := "\"line one\nline two\""
	toks := scanAll(t, src)
	require.Equal(t, token.STRING, toks[0].Tok)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"oops`)
	require.Equal(t, token.ILLEGAL, toks[0].Tok)
	require.Equal(t, "Unterminated string.", toks[0].Msg)
}

func TestScanLineComments(t *testing.T) {
	src := "// a comment\nvar x;"
	toks := scanAll(t, src)
	require.Equal(t, []token.Token{token.VAR, token.IDENT, token.SEMICOLON, token.EOF}, kinds(toks))
	require.Equal(t, 2, toks[0].Pos.Line())
}

func TestScanTracksLineNumbers(t *testing.T) {
	src := "var a = 1;\nvar b = 2;\n"
	toks := scanAll(t, src)
	// first "var" is on line 1
	require.Equal(t, 1, toks[0].Pos.Line())
	// second "var" (index 5: var a = 1 ;) is on line 2
	require.Equal(t, 2, toks[5].Pos.Line())
}
