package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqexpr/object"
	"reqexpr/types"
)

func invoke(t *testing.T, name string, args ...object.Value) object.Value {
	t.Helper()
	_, builtin, found := Lookup(name)
	require.True(t, found, "builtin %q not registered", name)
	result, err := builtin.Impl(args)
	require.NoError(t, err)
	return result
}

func str(value string) object.Value { return object.String{Value: value} }
func boolean(value bool) object.Value {
	return object.Bool{Value: value}
}

func TestRegistryOrderIsStable(t *testing.T) {
	expected := []string{
		"id", "noop", "is_empty", "and", "or", "cond", "to_str", "concat",
		"contains", "trim", "trim_start", "trim_end", "lowercase",
		"uppercase", "type", "eq", "not",
	}
	require.Len(t, Registry, len(expected))
	for i, name := range expected {
		assert.Equal(t, name, Registry[i].Name, "index %d", i)
	}
}

func TestSignaturesAreWellFormed(t *testing.T) {
	for _, builtin := range Registry {
		for i, arg := range builtin.Args {
			if arg.Variadic {
				assert.Equal(t, len(builtin.Args)-1, i,
					"%s: variadic argument must be last", builtin.Name)
			}
		}
		assert.NotNil(t, builtin.Returns, builtin.Name)
		assert.NotNil(t, builtin.Impl, builtin.Name)
	}
}

func TestId(t *testing.T) {
	value := str("hello")
	assert.Equal(t, value, invoke(t, "id", value))
	assert.Equal(t, boolean(true), invoke(t, "id", boolean(true)))
}

func TestNoop(t *testing.T) {
	assert.Equal(t, str("noop"), invoke(t, "noop"))
}

func TestIsEmpty(t *testing.T) {
	assert.Equal(t, boolean(true), invoke(t, "is_empty", str("")))
	assert.Equal(t, boolean(false), invoke(t, "is_empty", str(" ")))
}

func TestAndOr(t *testing.T) {
	assert.Equal(t, boolean(true), invoke(t, "and", boolean(true), boolean(true)))
	assert.Equal(t, boolean(false), invoke(t, "and", boolean(true), boolean(false)))
	assert.Equal(t, boolean(true), invoke(t, "or", boolean(false), boolean(true)))
	assert.Equal(t, boolean(false), invoke(t, "or", boolean(false), boolean(false)))
}

func TestCond(t *testing.T) {
	assert.Equal(t, str("yes"), invoke(t, "cond", boolean(true), str("yes"), str("no")))
	assert.Equal(t, str("no"), invoke(t, "cond", boolean(false), str("yes"), str("no")))
}

func TestToStr(t *testing.T) {
	assert.Equal(t, str("hello"), invoke(t, "to_str", str("hello")))
	assert.Equal(t, str("true"), invoke(t, "to_str", boolean(true)))
	assert.Equal(t, str("false"), invoke(t, "to_str", boolean(false)))
	assert.Equal(t, str("String"), invoke(t, "to_str", object.Type{Value: types.String}))

	_, id, _ := Lookup("id")
	assert.Equal(t, str("id"), invoke(t, "to_str", object.Fn{Builtin: id}))
}

func TestConcatVariadic(t *testing.T) {
	assert.Equal(t, str("ab"), invoke(t, "concat", str("a"), str("b")))
	assert.Equal(t, str("Hello World"), invoke(t, "concat", str("Hello"), str(" "), str("World")))
	assert.Equal(t, str("abcdefgh"),
		invoke(t, "concat", str("a"), str("b"), str("c"), str("d"), str("e"), str("f"), str("g"), str("h")))
}

func TestContains(t *testing.T) {
	assert.Equal(t, boolean(true), invoke(t, "contains", str("ell"), str("Hello")))
	assert.Equal(t, boolean(false), invoke(t, "contains", str("Hello"), str("ell")))
}

func TestTrimFamily(t *testing.T) {
	assert.Equal(t, str("x"), invoke(t, "trim", str("  x\t\n")))
	assert.Equal(t, str("x  "), invoke(t, "trim_start", str("  x  ")))
	assert.Equal(t, str("  x"), invoke(t, "trim_end", str("  x  ")))
}

func TestCaseFamily(t *testing.T) {
	assert.Equal(t, str("hello"), invoke(t, "lowercase", str("HeLLo")))
	assert.Equal(t, str("HELLO"), invoke(t, "uppercase", str("HeLLo")))
}

func TestType(t *testing.T) {
	assert.Equal(t, object.Type{Value: types.String}, invoke(t, "type", str("x")))
	assert.Equal(t, object.Type{Value: types.Bool}, invoke(t, "type", boolean(true)))
}

func TestEq(t *testing.T) {
	assert.Equal(t, boolean(true), invoke(t, "eq", str("a"), str("a")))
	assert.Equal(t, boolean(false), invoke(t, "eq", str("a"), boolean(true)))
	assert.Equal(t, boolean(true),
		invoke(t, "eq", object.Type{Value: types.String}, object.Type{Value: types.String}))
}

func TestNot(t *testing.T) {
	assert.Equal(t, boolean(false), invoke(t, "not", boolean(true)))
	assert.Equal(t, boolean(true), invoke(t, "not", boolean(false)))
}

func TestBadArgumentReportsError(t *testing.T) {
	_, builtin, found := Lookup("not")
	require.True(t, found)
	_, err := builtin.Impl([]object.Value{str("nope")})
	assert.Error(t, err)
}

func TestTypeBuiltinAgreesWithValueType(t *testing.T) {
	_, id, _ := Lookup("id")
	values := []object.Value{
		str("x"), boolean(false), object.Type{Value: types.Bool}, object.Fn{Builtin: id},
	}
	for _, value := range values {
		result := invoke(t, "type", value)
		typed, ok := result.(object.Type)
		require.True(t, ok)
		assert.True(t, types.Equal(value.Type(), typed.Value))
	}
}
