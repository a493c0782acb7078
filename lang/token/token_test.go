package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d is missing a string representation", tok)
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	for word, tok := range Keywords {
		require.Equal(t, word, tok.String())
	}
}

func TestValLexeme(t *testing.T) {
	src := `var greeting = "hi";`
	v := Val{Tok: IDENT, Start: 4, Length: 8}
	require.Equal(t, "greeting", v.Lexeme(src))
}
