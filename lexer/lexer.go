// Package lexer turns expression source text into a token stream. The
// source is UTF-8 and all spans are byte offsets, so the scanner works on
// bytes directly. Scanning never stops at the first problem: every
// unexpected byte becomes a LexicalError with a one-byte span and the
// scanner resumes at the next byte.
package lexer

import (
	"reqexpr/diag"
	"reqexpr/span"
	"reqexpr/token"
)

func isLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}

func isUppercase(b byte) bool {
	return 'A' <= b && b <= 'Z'
}

func isIdentifierByte(b byte) bool {
	return isLetter(b) || '0' <= b && b <= '9' || b == '_'
}

func isSigil(b byte) bool {
	return b == '!' || b == '?' || b == ':' || b == '@'
}

func isWhiteSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Lexer is the lexical scanner. It records the tokens and errors produced
// while walking the input once, front to back.
type Lexer struct {
	// The source being scanned.
	source string

	// Index of the next byte to examine.
	position int

	// Tokens produced so far, in source order.
	tokens []token.Token

	// Lexical errors produced so far, in source order.
	errors []error
}

// New initializes a Lexer over the given source.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Scan performs lexical analysis on the whole input and returns all tokens
// and all lexical errors together. The token stream always ends with an
// EOF token whose span is the empty range at the end of the source.
func (lexer *Lexer) Scan() ([]token.Token, []error) {
	for {
		lexer.skipWhiteSpace()
		if lexer.isFinished() {
			break
		}
		lexer.scanToken()
	}
	end := len(lexer.source)
	lexer.tokens = append(lexer.tokens, token.CreateToken(token.EOF, span.New(end, end)))
	return lexer.tokens, lexer.errors
}

// Determines if the lexer has consumed the whole input.
func (lexer *Lexer) isFinished() bool {
	return lexer.position >= len(lexer.source)
}

// Returns the byte at the lexer's position without consuming it, or 0 at
// end of input.
func (lexer *Lexer) peek() byte {
	if lexer.isFinished() {
		return 0
	}
	return lexer.source[lexer.position]
}

// Returns the byte one past the lexer's position without consuming it, or
// 0 when out of range.
func (lexer *Lexer) peekNext() byte {
	if lexer.position+1 >= len(lexer.source) {
		return 0
	}
	return lexer.source[lexer.position+1]
}

// Skips all whitespace at the lexer's position.
func (lexer *Lexer) skipWhiteSpace() {
	for !lexer.isFinished() && isWhiteSpace(lexer.source[lexer.position]) {
		lexer.position++
	}
}

// emit appends a fixed-shape token covering [start, lexer.position).
func (lexer *Lexer) emit(tokenType token.TokenType, start int) {
	lexer.tokens = append(lexer.tokens, token.CreateToken(tokenType, span.New(start, lexer.position)))
}

// fail records a lexical error with a one-byte span at the given position.
func (lexer *Lexer) fail(position int) {
	lexer.errors = append(lexer.errors, diag.LexicalError{
		Span: span.New(position, position+1),
		Byte: lexer.source[position],
	})
}

// Processes the byte at the current position and creates a token, or a
// lexical error, advancing past whatever was consumed.
func (lexer *Lexer) scanToken() {
	start := lexer.position

	switch b := lexer.source[lexer.position]; {
	case b == '(':
		lexer.position++
		lexer.emit(token.LPAREN, start)
	case b == ')':
		lexer.position++
		lexer.emit(token.RPAREN, start)
	case b == ',':
		lexer.position++
		lexer.emit(token.COMMA, start)
	case b == '<':
		lexer.position++
		lexer.emit(token.LANGLE, start)
	case b == '>':
		lexer.position++
		lexer.emit(token.RANGLE, start)
	case b == '-':
		if lexer.peekNext() == '>' {
			lexer.position += 2
			lexer.emit(token.ARROW, start)
			return
		}
		lexer.fail(start)
		lexer.position++
	case b == '.':
		if lexer.peekNext() == '.' && lexer.position+2 < len(lexer.source) && lexer.source[lexer.position+2] == '.' {
			lexer.position += 3
			lexer.emit(token.ELLIPSIS, start)
			return
		}
		lexer.fail(start)
		lexer.position++
	case b == '`':
		lexer.handleStringLiteral()
	case isSigil(b) || isLetter(b):
		lexer.handleIdentifier()
	default:
		lexer.fail(start)
		lexer.position++
	}
}

// handleStringLiteral processes a backtick string: a backtick, any run of
// non-backtick bytes, and a closing backtick. There are no escapes; the
// payload excludes both backticks. An unterminated string produces a
// lexical error at the opening backtick.
func (lexer *Lexer) handleStringLiteral() {
	start := lexer.position
	lexer.position++
	for !lexer.isFinished() && lexer.source[lexer.position] != '`' {
		lexer.position++
	}
	if lexer.isFinished() {
		lexer.errors = append(lexer.errors, diag.LexicalError{
			Span: span.New(start, start+1),
			Byte: '`',
		})
		return
	}
	lexer.position++
	lexeme := lexer.source[start:lexer.position]
	contents := lexer.source[start+1 : lexer.position-1]
	lexer.tokens = append(lexer.tokens, token.CreateLiteralToken(token.STRING, contents, lexeme, span.New(start, lexer.position)))
}

// handleIdentifier processes an identifier: an optional sigil, an ASCII
// letter or underscore, then letters, digits and underscores. A sigil-less identifier is
// further classified: `Fn`, `true` and `false` are keywords, and anything
// else starting with an uppercase letter is a type literal.
func (lexer *Lexer) handleIdentifier() {
	start := lexer.position
	sigil := isSigil(lexer.source[lexer.position])
	if sigil {
		lexer.position++
		if lexer.isFinished() || !isLetter(lexer.source[lexer.position]) {
			lexer.fail(start)
			return
		}
	}

	for !lexer.isFinished() && isIdentifierByte(lexer.source[lexer.position]) {
		lexer.position++
	}

	lexeme := lexer.source[start:lexer.position]
	identifierSpan := span.New(start, lexer.position)

	if !sigil {
		switch {
		case lexeme == "Fn":
			lexer.emit(token.FN, start)
			return
		case lexeme == "true":
			lexer.emit(token.TRUE, start)
			return
		case lexeme == "false":
			lexer.emit(token.FALSE, start)
			return
		case isUppercase(lexeme[0]):
			lexer.tokens = append(lexer.tokens, token.CreateLiteralToken(token.TYPE, lexeme, lexeme, identifierSpan))
			return
		}
	}

	lexer.tokens = append(lexer.tokens, token.CreateLiteralToken(token.IDENTIFIER, lexeme, lexeme, identifierSpan))
}
