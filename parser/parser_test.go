package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqexpr/ast"
	"reqexpr/diag"
	"reqexpr/lexer"
	"reqexpr/span"
	"reqexpr/types"
)

func parseSource(t *testing.T, source string) (ast.Expression, []error) {
	t.Helper()
	tokens, lexErrors := lexer.New(source).Scan()
	require.Empty(t, lexErrors)
	return Make(tokens).Parse()
}

func parseSuccess(t *testing.T, source string) ast.Expression {
	t.Helper()
	expr, errs := parseSource(t, source)
	require.Empty(t, errs, "parser reported errors: %v", errs)
	return expr
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected ast.Expression
	}{
		{
			name:     "string literal",
			source:   "`Hello`",
			expected: ast.StringLit{Value: "Hello", ExprSpan: span.New(0, 7)},
		},
		{
			name:     "true literal",
			source:   "true",
			expected: ast.BoolLit{Value: true, ExprSpan: span.New(0, 4)},
		},
		{
			name:     "false literal",
			source:   "false",
			expected: ast.BoolLit{Value: false, ExprSpan: span.New(0, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSuccess(t, tt.source))
		})
	}
}

func TestParseIdentifierKinds(t *testing.T) {
	tests := []struct {
		source       string
		expectedKind ast.IdentKind
		expectedName string
		lookupName   string
	}{
		{"id", ast.BuiltinKind, "id", "id"},
		{":greeting", ast.VarKind, ":greeting", "greeting"},
		{"?name", ast.PromptKind, "?name", "name"},
		{"!api_key", ast.SecretKind, "!api_key", "api_key"},
		{"@user_id", ast.ClientKind, "@user_id", "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr := parseSuccess(t, tt.source)
			identifier, ok := expr.(ast.Identifier)
			require.True(t, ok)
			assert.Equal(t, tt.expectedKind, identifier.Kind)
			assert.Equal(t, tt.expectedName, identifier.Name)
			assert.Equal(t, tt.lookupName, identifier.LookupName())
			assert.Nil(t, identifier.Type)
		})
	}
}

func TestParseTypeLiterals(t *testing.T) {
	tests := []struct {
		source       string
		expectedName string
		expectedType types.Type
	}{
		{"String", "String", types.String},
		{"Bool", "Bool", types.Bool},
		{"Value", "Value", types.Value},
		{"Type<String>", "Type<String>", types.TypeType{Inner: types.String}},
		{"Elephant", "Elephant", nil},
		{"Elephant<String>", "Elephant<String>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr := parseSuccess(t, tt.source)
			identifier, ok := expr.(ast.Identifier)
			require.True(t, ok)
			assert.Equal(t, ast.TypeKind, identifier.Kind)
			assert.Equal(t, tt.expectedName, identifier.Name)
			assert.Equal(t, span.New(0, len(tt.source)), identifier.ExprSpan)
			if tt.expectedType == nil {
				assert.Nil(t, identifier.Type)
			} else {
				assert.True(t, types.Equal(tt.expectedType, identifier.Type))
			}
		})
	}
}

func TestParseFnTypeLiteral(t *testing.T) {
	expr := parseSuccess(t, "Fn(String, ...String) -> Bool")
	identifier, ok := expr.(ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, ast.TypeKind, identifier.Kind)

	fnType, ok := identifier.Type.(types.FnType)
	require.True(t, ok)
	require.Len(t, fnType.Args, 1)
	assert.True(t, types.Equal(types.String, fnType.Args[0]))
	assert.True(t, types.Equal(types.String, fnType.Variadic))
	assert.True(t, types.Equal(types.Bool, fnType.Returns))
	assert.Equal(t, "Fn(String, ...String) -> Bool", identifier.Name)
}

func TestParseAllVariadicFnType(t *testing.T) {
	expr := parseSuccess(t, "Fn(...Value) -> String")
	identifier := expr.(ast.Identifier)
	fnType, ok := identifier.Type.(types.FnType)
	require.True(t, ok)
	assert.Empty(t, fnType.Args)
	assert.True(t, types.Equal(types.Value, fnType.Variadic))
	assert.True(t, types.Equal(types.String, fnType.Returns))
}

func TestParseNestedFnType(t *testing.T) {
	expr := parseSuccess(t, "Fn(Fn(Bool) -> Bool, String) -> Value")
	identifier := expr.(ast.Identifier)
	fnType, ok := identifier.Type.(types.FnType)
	require.True(t, ok)
	require.Len(t, fnType.Args, 2)
	nested, ok := fnType.Args[0].(types.FnType)
	require.True(t, ok)
	assert.True(t, types.Equal(types.Bool, nested.Returns))
}

func TestParseCall(t *testing.T) {
	expr := parseSuccess(t, "(concat :greeting ` ` ?name)")
	call, ok := expr.(ast.Call)
	require.True(t, ok)
	assert.Equal(t, span.New(0, 28), call.ExprSpan)

	callee, ok := call.Callee.(ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "concat", callee.Name)
	require.Len(t, call.Args, 3)
	assert.IsType(t, ast.Identifier{}, call.Args[0])
	assert.IsType(t, ast.StringLit{}, call.Args[1])
	assert.IsType(t, ast.Identifier{}, call.Args[2])
}

func TestParseNestedCall(t *testing.T) {
	expr := parseSuccess(t, "(eq (type `Hello`) (type `World`))")
	call := expr.(ast.Call)
	require.Len(t, call.Args, 2)
	assert.IsType(t, ast.Call{}, call.Args[0])
	assert.IsType(t, ast.Call{}, call.Args[1])
}

func TestParseCallWithNoArgs(t *testing.T) {
	expr := parseSuccess(t, "(eq)")
	call := expr.(ast.Call)
	assert.Empty(t, call.Args)
	assert.Equal(t, span.New(0, 4), call.ExprSpan)
}

func TestParseEmptyCall(t *testing.T) {
	expr, errs := parseSource(t, "()")
	require.Len(t, errs, 1)
	assert.IsType(t, ast.ErrorExpr{}, expr)
	syntaxErr, ok := errs[0].(diag.SyntaxError)
	require.True(t, ok)
	assert.Contains(t, syntaxErr.Expected, "expression")
}

func TestParseMissingClosingParen(t *testing.T) {
	expr, errs := parseSource(t, "(id true")
	require.Len(t, errs, 1)
	call, ok := expr.(ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseTrailingTokens(t *testing.T) {
	_, errs := parseSource(t, "(noop) true")
	require.Len(t, errs, 1)
	syntaxErr := errs[0].(diag.SyntaxError)
	assert.Contains(t, syntaxErr.Expected, "end of input")
	assert.Equal(t, span.New(7, 11), syntaxErr.Span)
}

func TestParseEmptyInput(t *testing.T) {
	expr, errs := parseSource(t, "")
	require.Len(t, errs, 1)
	assert.IsType(t, ast.ErrorExpr{}, expr)
}

func TestParseRecoversWithinCall(t *testing.T) {
	// Both bad arguments surface in a single pass.
	expr, errs := parseSource(t, "(concat , ,)")
	require.Len(t, errs, 2)
	call, ok := expr.(ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	assert.IsType(t, ast.ErrorExpr{}, call.Args[0])
	assert.IsType(t, ast.ErrorExpr{}, call.Args[1])
}
