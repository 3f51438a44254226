package token

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reqexpr/span"
)

func TestCreateTokenLexemes(t *testing.T) {
	tests := []struct {
		tokenType      TokenType
		expectedLexeme string
	}{
		{LPAREN, "("},
		{RPAREN, ")"},
		{COMMA, ","},
		{LANGLE, "<"},
		{RANGLE, ">"},
		{ARROW, "->"},
		{ELLIPSIS, "..."},
		{FN, "Fn"},
		{TRUE, "true"},
		{FALSE, "false"},
		{EOF, ""},
	}

	for _, tt := range tests {
		tok := CreateToken(tt.tokenType, span.New(0, len(tt.expectedLexeme)))
		assert.Equal(t, tt.expectedLexeme, tok.Lexeme)
		assert.Equal(t, tt.tokenType, tok.TokenType)
		assert.Empty(t, tok.Literal)
	}
}

func TestCreateLiteralToken(t *testing.T) {
	tok := CreateLiteralToken(STRING, "Hello", "`Hello`", span.New(4, 11))
	assert.Equal(t, TokenType(STRING), tok.TokenType)
	assert.Equal(t, "Hello", tok.Literal)
	assert.Equal(t, "`Hello`", tok.Lexeme)
	assert.Equal(t, span.New(4, 11), tok.Span)
}

func TestTokenString(t *testing.T) {
	tok := CreateLiteralToken(IDENTIFIER, ":greeting", ":greeting", span.New(0, 9))
	assert.Equal(t, `Token {Type: IDENTIFIER, Value: ":greeting", Span: 0..9}`, tok.String())
}
