package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRendering(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{Value, "Value"},
		{String, "String"},
		{Bool, "Bool"},
		{Unknown, "Unknown"},
		{TypeType{Inner: String}, "Type<String>"},
		{FnType{Args: []Type{String, Bool}, Returns: Value}, "Fn(String, Bool) -> Value"},
		{FnType{Args: []Type{String}, Variadic: String, Returns: String}, "Fn(String, ...String) -> String"},
		{FnType{Variadic: Value, Returns: Bool}, "Fn(...Value) -> Bool"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.typ.String())
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected bool
	}{
		{"same scalar", String, String, true},
		{"different scalars", String, Bool, false},
		{"value vs string", Value, String, false},
		{"type of same inner", TypeType{Inner: String}, TypeType{Inner: String}, true},
		{"type of different inner", TypeType{Inner: String}, TypeType{Inner: Bool}, false},
		{
			"identical fn",
			FnType{Args: []Type{String}, Returns: Bool},
			FnType{Args: []Type{String}, Returns: Bool},
			true,
		},
		{
			"fn arity differs",
			FnType{Args: []Type{String}, Returns: Bool},
			FnType{Args: []Type{String, String}, Returns: Bool},
			false,
		},
		{
			"fn variadic differs",
			FnType{Args: []Type{String}, Variadic: String, Returns: Bool},
			FnType{Args: []Type{String}, Returns: Bool},
			false,
		},
		{
			"fn return differs",
			FnType{Args: []Type{String}, Returns: Bool},
			FnType{Args: []Type{String}, Returns: String},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}

func TestAssignable(t *testing.T) {
	tests := []struct {
		name     string
		to, from Type
		expected bool
	}{
		{"value accepts string", Value, String, true},
		{"value accepts bool", Value, Bool, true},
		{"value accepts fn", Value, FnType{Returns: Bool}, true},
		{"string rejects bool", String, Bool, false},
		{"string accepts string", String, String, true},
		{"unknown accepts anything", Unknown, String, true},
		{"anything accepts unknown", Bool, Unknown, true},
		{"string rejects value", String, Value, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Assignable(tt.to, tt.from))
		})
	}
}

func TestFromName(t *testing.T) {
	for name, expected := range map[string]Type{"Value": Value, "String": String, "Bool": Bool} {
		mapped, ok := FromName(name)
		assert.True(t, ok)
		assert.True(t, Equal(expected, mapped))
	}
	_, ok := FromName("Elephant")
	assert.False(t, ok)
}
