package main

import (
	"fmt"
	"strings"

	"reqexpr/compiler"
	"reqexpr/env"
	"reqexpr/lexer"
	"reqexpr/object"
	"reqexpr/parser"
	"reqexpr/token"
	"reqexpr/vm"
)

// compileSource runs the front half of the pipeline: lex, parse, then
// resolve/check/emit. Errors from all three stages are accumulated and
// returned together; the parser's ErrorExpr sentinel and the compiler's
// Unknown substitution keep one pass productive past the first problem.
func compileSource(source string, compileEnv *env.CompileEnv) (*compiler.Bytecode, []error) {
	tokens, lexErrors := lexer.New(source).Scan()
	expr, parseErrors := parser.Make(tokens).Parse()
	bytecode, compileErrors := compiler.New(compileEnv).Compile(expr)

	var errs []error
	errs = append(errs, lexErrors...)
	errs = append(errs, parseErrors...)
	errs = append(errs, compileErrors...)
	if len(errs) > 0 {
		return nil, errs
	}
	return bytecode, nil
}

// interpretSource runs the whole pipeline and returns the resulting value.
// Interpretation is not attempted when compilation reported errors.
func interpretSource(source string, compileEnv *env.CompileEnv, runtimeEnv *env.RuntimeEnv) (object.Value, []error) {
	bytecode, errs := compileSource(source, compileEnv)
	if len(errs) > 0 {
		return nil, errs
	}
	result, err := vm.New().Run(bytecode, compileEnv, runtimeEnv)
	if err != nil {
		return nil, []error{err}
	}
	return result, nil
}

// renderTokens formats a token stream one token per line: span, type,
// lexeme. The trailing EOF token is omitted. This is the `lex` command
// output and the format of the `.expr.tokens` fixture files.
func renderTokens(tokens []token.Token) string {
	var builder strings.Builder
	for _, tok := range tokens {
		if tok.TokenType == token.EOF {
			continue
		}
		fmt.Fprintf(&builder, "%s %s %s\n", tok.Span, tok.TokenType, tok.Lexeme)
	}
	return builder.String()
}
