// Package builtins holds the fixed registry of built-in functions. The
// registry order is load-bearing: the index of a descriptor in Registry is
// the index compiled into GET and CALL instructions, so entries are only
// ever appended.
package builtins

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"reqexpr/object"
	"reqexpr/types"
)

// Registry is the ordered list of built-in descriptors. Descriptors are
// immutable and shared process-wide; values that wrap a function store a
// pointer into this table.
var Registry = []*object.Builtin{
	{
		Name:    "id",
		Args:    []object.FnArg{{Name: "value", Type: types.Value}},
		Returns: types.Value,
		Impl: func(args []object.Value) (object.Value, error) {
			return args[0], nil
		},
	},
	{
		Name:    "noop",
		Args:    []object.FnArg{},
		Returns: types.String,
		Impl: func(args []object.Value) (object.Value, error) {
			return object.String{Value: "noop"}, nil
		},
	},
	{
		Name:    "is_empty",
		Args:    []object.FnArg{{Name: "value", Type: types.String}},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			value, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return object.Bool{Value: len(value) == 0}, nil
		},
	},
	{
		Name: "and",
		Args: []object.FnArg{
			{Name: "a", Type: types.Bool},
			{Name: "b", Type: types.Bool},
		},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			a, err := boolArg(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := boolArg(args, 1)
			if err != nil {
				return nil, err
			}
			return object.Bool{Value: a && b}, nil
		},
	},
	{
		Name: "or",
		Args: []object.FnArg{
			{Name: "a", Type: types.Bool},
			{Name: "b", Type: types.Bool},
		},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			a, err := boolArg(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := boolArg(args, 1)
			if err != nil {
				return nil, err
			}
			return object.Bool{Value: a || b}, nil
		},
	},
	{
		// Both branches are evaluated before cond runs; the call only
		// selects which result to return.
		Name: "cond",
		Args: []object.FnArg{
			{Name: "condition", Type: types.Bool},
			{Name: "then", Type: types.Value},
			{Name: "else", Type: types.Value},
		},
		Returns: types.Value,
		Impl: func(args []object.Value) (object.Value, error) {
			condition, err := boolArg(args, 0)
			if err != nil {
				return nil, err
			}
			if condition {
				return args[1], nil
			}
			return args[2], nil
		},
	},
	{
		Name:    "to_str",
		Args:    []object.FnArg{{Name: "value", Type: types.Value}},
		Returns: types.String,
		Impl: func(args []object.Value) (object.Value, error) {
			return object.String{Value: ToStr(args[0])}, nil
		},
	},
	{
		Name: "concat",
		Args: []object.FnArg{
			{Name: "a", Type: types.String},
			{Name: "b", Type: types.String},
			{Name: "rest", Type: types.String, Variadic: true},
		},
		Returns: types.String,
		Impl: func(args []object.Value) (object.Value, error) {
			var builder strings.Builder
			for i := range args {
				value, err := stringArg(args, i)
				if err != nil {
					return nil, err
				}
				builder.WriteString(value)
			}
			return object.String{Value: builder.String()}, nil
		},
	},
	{
		Name: "contains",
		Args: []object.FnArg{
			{Name: "needle", Type: types.String},
			{Name: "haystack", Type: types.String},
		},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			needle, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			haystack, err := stringArg(args, 1)
			if err != nil {
				return nil, err
			}
			return object.Bool{Value: strings.Contains(haystack, needle)}, nil
		},
	},
	stringToString("trim", strings.TrimSpace),
	stringToString("trim_start", func(s string) string {
		return strings.TrimLeft(s, " \t\r\n")
	}),
	stringToString("trim_end", func(s string) string {
		return strings.TrimRight(s, " \t\r\n")
	}),
	stringToString("lowercase", strings.ToLower),
	stringToString("uppercase", strings.ToUpper),
	{
		Name:    "type",
		Args:    []object.FnArg{{Name: "value", Type: types.Value}},
		Returns: types.TypeType{Inner: types.Value},
		Impl: func(args []object.Value) (object.Value, error) {
			return object.Type{Value: args[0].Type()}, nil
		},
	},
	{
		Name: "eq",
		Args: []object.FnArg{
			{Name: "a", Type: types.Value},
			{Name: "b", Type: types.Value},
		},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			return object.Bool{Value: object.Equals(args[0], args[1])}, nil
		},
	},
	{
		Name:    "not",
		Args:    []object.FnArg{{Name: "value", Type: types.Bool}},
		Returns: types.Bool,
		Impl: func(args []object.Value) (object.Value, error) {
			value, err := boolArg(args, 0)
			if err != nil {
				return nil, err
			}
			return object.Bool{Value: !value}, nil
		},
	},
}

// Lookup finds a built-in by name and returns its registry index.
func Lookup(name string) (int, *object.Builtin, bool) {
	for i, builtin := range Registry {
		if builtin.Name == name {
			return i, builtin, true
		}
	}
	return 0, nil, false
}

// ToStr renders a value the way the to_str built-in does: strings verbatim,
// booleans as `true`/`false`, types as spelled in source, functions by name.
func ToStr(value object.Value) string {
	switch v := value.(type) {
	case object.String:
		return v.Value
	case object.Bool:
		return cast.ToString(v.Value)
	case object.Type:
		return v.Value.String()
	case object.Fn:
		return v.Builtin.Name
	}
	return ""
}

// stringToString builds the descriptor for a String -> String built-in
// backed by a plain transform.
func stringToString(name string, transform func(string) string) *object.Builtin {
	return &object.Builtin{
		Name:    name,
		Args:    []object.FnArg{{Name: "value", Type: types.String}},
		Returns: types.String,
		Impl: func(args []object.Value) (object.Value, error) {
			value, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			return object.String{Value: transform(value)}, nil
		},
	}
}

func stringArg(args []object.Value, index int) (string, error) {
	value, ok := args[index].(object.String)
	if !ok {
		return "", fmt.Errorf("argument %d: expected String, got %s", index, args[index].Type())
	}
	return value.Value, nil
}

func boolArg(args []object.Value, index int) (bool, error) {
	value, ok := args[index].(object.Bool)
	if !ok {
		return false, fmt.Errorf("argument %d: expected Bool, got %s", index, args[index].Type())
	}
	return value.Value, nil
}
