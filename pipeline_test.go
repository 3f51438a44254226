package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqexpr/compiler"
	"reqexpr/diag"
	"reqexpr/lexer"
	"reqexpr/span"
)

func TestInterpretEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		bindings bindings
		expected string
	}{
		{
			name:     "noop with empty environment",
			source:   "(noop)",
			expected: `String("noop")`,
		},
		{
			name:     "id of a variable",
			source:   "(id :greeting)",
			bindings: bindings{vars: repeatedFlag{"greeting=Hello"}},
			expected: `String("Hello")`,
		},
		{
			name:   "concat across lookup kinds",
			source: "(concat :greeting ` ` ?name)",
			bindings: bindings{
				vars:    repeatedFlag{"greeting=Hello"},
				prompts: repeatedFlag{"name=World"},
			},
			expected: `String("Hello World")`,
		},
		{
			name:     "types of two strings are equal",
			source:   "(eq (type `Hello`) (type `World`))",
			expected: "Bool(true)",
		},
		{
			name:     "not true",
			source:   "(not true)",
			expected: "Bool(false)",
		},
		{
			name:     "cond selects eagerly evaluated branch",
			source:   "(cond (is_empty :greeting) `empty` :greeting)",
			bindings: bindings{vars: repeatedFlag{"greeting=Hello"}},
			expected: `String("Hello")`,
		},
		{
			name:     "type literal evaluates to a type value",
			source:   "(eq (type `x`) String)",
			expected: "Bool(true)",
		},
		{
			name:     "binding without a value defaults to empty",
			source:   "(is_empty :greeting)",
			bindings: bindings{vars: repeatedFlag{"greeting"}},
			expected: "Bool(true)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compileEnv, runtimeEnv := tt.bindings.environments()
			result, errs := interpretSource(tt.source, compileEnv, runtimeEnv)
			require.Empty(t, errs, "pipeline reported errors: %v", errs)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func TestInterpretIsNotAttemptedOnCompileErrors(t *testing.T) {
	compileEnv, runtimeEnv := (&bindings{}).environments()
	result, errs := interpretSource("(eq)", compileEnv, runtimeEnv)

	assert.Nil(t, result)
	require.Len(t, errs, 1)
	arityErr, ok := errs[0].(diag.WrongNumberOfArgs)
	require.True(t, ok)
	assert.Equal(t, 2, arityErr.Expected)
	assert.Equal(t, 0, arityErr.Actual)
	assert.Equal(t, span.New(0, 4), arityErr.Span)
}

func TestErrorsAccumulateAcrossStages(t *testing.T) {
	compileEnv, _ := (&bindings{}).environments()

	// One lexical error, one undefined reference: both surface in one
	// pass.
	_, errs := compileSource("(frobnicate $)", compileEnv)
	require.Len(t, errs, 2)
	assert.IsType(t, diag.LexicalError{}, errs[0])
	assert.IsType(t, diag.ResolveError{}, errs[1])
}

func TestDisassemblyOfNotTrue(t *testing.T) {
	compileEnv, _ := (&bindings{}).environments()
	bytecode, errs := compileSource("(not true)", compileEnv)
	require.Empty(t, errs)

	listing := compiler.Disassemble(bytecode, compileEnv)
	assert.Contains(t, listing, "GET BUILTIN 16 == 'not'")
	assert.Contains(t, listing, "TRUE")
	assert.Contains(t, listing, "CALL (1 args)")
}

func TestRenderTokens(t *testing.T) {
	tokens, errs := lexer.New("(id :greeting)").Scan()
	require.Empty(t, errs)

	expected := strings.Join([]string{
		"0..1 ( (",
		"1..3 IDENTIFIER id",
		"4..13 IDENTIFIER :greeting",
		"13..14 ) )",
		"",
	}, "\n")
	assert.Equal(t, expected, renderTokens(tokens))
}

func TestSplitBindings(t *testing.T) {
	names, values := splitBindings([]string{"greeting=Hello", "empty", "eq=a=b"})
	assert.Equal(t, []string{"greeting", "empty", "eq"}, names)
	assert.Equal(t, []string{"Hello", "", "a=b"}, values)
}
