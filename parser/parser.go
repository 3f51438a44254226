// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// The grammar is a single syntactic category:
//
//	Expr     := ExprIdent | ExprCall | ExprString | ExprBool
//	ExprCall := '(' Expr Expr* ')'
//	ExprIdent:= identifier
//	          | typeName
//	          | typeName '<' typeName '>'
//	          | 'Fn' '(' Type (',' Type)* (',' '...' Type)? ')' '->' Type
//	          | 'Fn' '(' '...' Type ')' '->' Type
//	Type     := typeName | (the Fn productions)
//
// Parse failures never abort the pass. The parser records a SyntaxError,
// emits an ErrorExpr sentinel in place of the expression it could not
// build, and resumes at the next synchronizing boundary so several errors
// can surface per pass.
package parser

import (
	"reqexpr/ast"
	"reqexpr/diag"
	"reqexpr/span"
	"reqexpr/token"
	"reqexpr/types"
)

type Parser struct {
	tokens   []token.Token
	position int
	errors   []error
}

// NOTE: The parser's position indexes the current, not yet consumed
// token; previous() is the token consumed last

// Make initializes a Parser over the tokens created by the lexer. The
// token stream must end with an EOF token.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Parse parses the token stream as one expression and returns the AST
// together with all accumulated syntax errors. Trailing tokens after the
// expression are a syntax error.
func (parser *Parser) Parse() (ast.Expression, []error) {
	expr := parser.parseExpression()
	if !parser.isFinished() {
		extra := parser.peek()
		parser.fail(extra, "end of input")
	}
	return expr, parser.errors
}

// Peeks the token at the parser's current position, without advancing.
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// Retrieves the token at the parser's previous position.
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// Increments the parser's position by one unit and consumes the current
// token.
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// Determines if the parser has reached the EOF token.
func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

// check reports whether the current token has the given type.
func (parser *Parser) check(tokenType token.TokenType) bool {
	return parser.peek().TokenType == tokenType
}

// match consumes the current token when it has the given type.
func (parser *Parser) match(tokenType token.TokenType) bool {
	if parser.check(tokenType) {
		parser.advance()
		return true
	}
	return false
}

// consume advances past the current token when its type matches, and
// records a syntax error otherwise. It reports whether the token matched.
func (parser *Parser) consume(tokenType token.TokenType, expected string) (token.Token, bool) {
	if parser.check(tokenType) {
		return parser.advance(), true
	}
	parser.fail(parser.peek(), expected)
	return parser.peek(), false
}

// fail records a syntax error against the given token.
func (parser *Parser) fail(found token.Token, expected ...string) {
	name := string(found.TokenType)
	if found.Lexeme != "" {
		name = "'" + found.Lexeme + "'"
	}
	parser.errors = append(parser.errors, diag.SyntaxError{
		Span:     found.Span,
		Found:    name,
		Expected: expected,
	})
}

// parseExpression parses one expression of any of the four forms.
func (parser *Parser) parseExpression() ast.Expression {
	switch tok := parser.peek(); tok.TokenType {
	case token.STRING:
		parser.advance()
		return ast.StringLit{Value: tok.Literal, ExprSpan: tok.Span}

	case token.TRUE:
		parser.advance()
		return ast.BoolLit{Value: true, ExprSpan: tok.Span}

	case token.FALSE:
		parser.advance()
		return ast.BoolLit{Value: false, ExprSpan: tok.Span}

	case token.IDENTIFIER:
		parser.advance()
		return ast.Identifier{
			Name:     tok.Literal,
			Kind:     ast.KindOfName(tok.Literal),
			ExprSpan: tok.Span,
		}

	case token.TYPE:
		return parser.parseTypeLiteral()

	case token.FN:
		return parser.parseFnTypeLiteral()

	case token.LPAREN:
		return parser.parseCall()
	}

	// Unexpected token: record, consume it so the pass makes progress, and
	// hand back the sentinel.
	tok := parser.peek()
	parser.fail(tok, "expression")
	if !parser.isFinished() {
		parser.advance()
	}
	return ast.ErrorExpr{ExprSpan: tok.Span}
}

// parseCall parses '(' Expr Expr* ')'. The node's span covers both
// parentheses. A missing closing parenthesis is recorded and the call is
// returned with the arguments collected so far.
func (parser *Parser) parseCall() ast.Expression {
	open := parser.advance()

	if parser.check(token.RPAREN) {
		closing := parser.advance()
		parser.fail(closing, "expression")
		return ast.ErrorExpr{ExprSpan: open.Span.Join(closing.Span)}
	}
	if parser.isFinished() {
		parser.fail(parser.peek(), "expression")
		return ast.ErrorExpr{ExprSpan: open.Span.Join(parser.peek().Span)}
	}

	callee := parser.parseExpression()

	var args []ast.Expression
	for !parser.check(token.RPAREN) && !parser.isFinished() {
		args = append(args, parser.parseExpression())
	}

	end := parser.peek().Span
	if closing, ok := parser.consume(token.RPAREN, "')'"); ok {
		end = closing.Span
	}
	return ast.Call{
		Callee:   callee,
		Args:     args,
		ExprSpan: open.Span.Join(end),
	}
}

// parseTypeLiteral parses typeName and typeName '<' typeName '>'. The
// resulting identifier's Type is nil when the spelling denotes no known
// type; the compiler reports that as an undefined reference so one error
// path covers bad type names and bad value names alike.
func (parser *Parser) parseTypeLiteral() ast.Expression {
	nameTok := parser.advance()
	name := nameTok.Literal
	literalSpan := nameTok.Span

	var denoted types.Type
	if parser.check(token.LANGLE) {
		parser.advance()
		innerTok, ok := parser.consume(token.TYPE, "type name")
		if !ok {
			parser.synchronize(token.RANGLE)
			return ast.ErrorExpr{ExprSpan: literalSpan.Join(parser.peek().Span)}
		}
		closing, ok := parser.consume(token.RANGLE, "'>'")
		if !ok {
			return ast.ErrorExpr{ExprSpan: literalSpan.Join(innerTok.Span)}
		}
		literalSpan = literalSpan.Join(closing.Span)
		name = name + "<" + innerTok.Literal + ">"
		if inner, known := types.FromName(innerTok.Literal); known && nameTok.Literal == "Type" {
			denoted = types.TypeType{Inner: inner}
		}
	} else if mapped, known := types.FromName(name); known {
		denoted = mapped
	}

	return ast.Identifier{
		Name:     name,
		Kind:     ast.TypeKind,
		Type:     denoted,
		ExprSpan: literalSpan,
	}
}

// parseFnTypeLiteral parses the Fn productions as an expression. The
// identifier's name is the canonical spelling of the parsed function type.
func (parser *Parser) parseFnTypeLiteral() ast.Expression {
	fnTok := parser.advance()
	fnType, end, ok := parser.parseFnType(fnTok)
	if !ok {
		return ast.ErrorExpr{ExprSpan: fnTok.Span.Join(end)}
	}
	return ast.Identifier{
		Name:     fnType.String(),
		Kind:     ast.TypeKind,
		Type:     fnType,
		ExprSpan: fnTok.Span.Join(end),
	}
}

// parseFnType parses everything after the already-consumed 'Fn' keyword:
// '(' Type (',' Type)* (',' '...' Type)? ')' '->' Type, or the all-variadic
// form '(' '...' Type ')' '->' Type. It returns the parsed type and the
// span of its final token.
func (parser *Parser) parseFnType(fnTok token.Token) (types.FnType, span.Span, bool) {
	fnType := types.FnType{}
	end := fnTok.Span

	if _, ok := parser.consume(token.LPAREN, "'('"); !ok {
		return fnType, end, false
	}

	if !parser.check(token.RPAREN) {
		for {
			if parser.match(token.ELLIPSIS) {
				variadic, variadicEnd, ok := parser.parseType()
				if !ok {
					return fnType, end, false
				}
				fnType.Variadic = variadic
				end = variadicEnd
				break
			}
			arg, argEnd, ok := parser.parseType()
			if !ok {
				return fnType, end, false
			}
			fnType.Args = append(fnType.Args, arg)
			end = argEnd
			if !parser.match(token.COMMA) {
				break
			}
		}
	}

	if _, ok := parser.consume(token.RPAREN, "')'"); !ok {
		return fnType, end, false
	}
	if _, ok := parser.consume(token.ARROW, "'->'"); !ok {
		return fnType, end, false
	}

	returns, returnsEnd, ok := parser.parseType()
	if !ok {
		return fnType, end, false
	}
	fnType.Returns = returns
	return fnType, returnsEnd, true
}

// parseType parses one Type inside the Fn grammar: a type name or a nested
// Fn production. Unknown type names parse as Unknown so the rest of the
// signature can still be checked; the spelling error surfaces as a syntax
// error here rather than during resolution because the name is in type
// position.
func (parser *Parser) parseType() (types.Type, span.Span, bool) {
	if parser.check(token.FN) {
		fnTok := parser.advance()
		nested, end, ok := parser.parseFnType(fnTok)
		if !ok {
			return nil, end, false
		}
		return nested, end, true
	}

	nameTok, ok := parser.consume(token.TYPE, "type name")
	if !ok {
		return nil, parser.peek().Span, false
	}
	if mapped, known := types.FromName(nameTok.Literal); known {
		return mapped, nameTok.Span, true
	}
	parser.fail(nameTok, "'Value' | 'String' | 'Bool' | 'Fn'")
	return types.Unknown, nameTok.Span, true
}

// synchronize discards tokens up to and including the next token of the
// given type, or EOF, so parsing can resume at a sensible boundary.
func (parser *Parser) synchronize(until token.TokenType) {
	for !parser.isFinished() {
		if parser.advance().TokenType == until {
			return
		}
	}
}
