// Package types defines the static type model of the expression language.
// Types form a closed sum: the top type Value, the concrete String and Bool
// types, function types with an optional trailing variadic argument, the
// type of a type literal, and Unknown, which only exists while resolving.
package types

import "strings"

// Type is the interface implemented by every static type. The concrete
// variants are ValueType, StringType, BoolType, FnType, TypeType and
// UnknownType.
type Type interface {
	// String renders the type the way it is spelled in source.
	String() string

	typeNode()
}

// ValueType is the top type. Any value inhabits it.
type ValueType struct{}

// StringType is the type of string literals and of the variable, prompt and
// secret environments.
type StringType struct{}

// BoolType is the type of the boolean literals.
type BoolType struct{}

// FnType is the type of a callable built-in. At most one argument may be
// variadic and it is always last; Variadic is nil when there is none.
type FnType struct {
	Args     []Type
	Variadic Type
	Returns  Type
}

// TypeType is the type of a type literal, carrying the inner type the
// literal denotes. The expression `String` has type Type<String>.
type TypeType struct {
	Inner Type
}

// UnknownType is only produced while resolving. It is assignable to and
// from anything, which keeps one bad sub-expression from cascading into a
// wall of follow-on type errors.
type UnknownType struct{}

func (ValueType) typeNode()   {}
func (StringType) typeNode()  {}
func (BoolType) typeNode()    {}
func (FnType) typeNode()      {}
func (TypeType) typeNode()    {}
func (UnknownType) typeNode() {}

// Shared singletons for the types that carry no payload.
var (
	Value   Type = ValueType{}
	String  Type = StringType{}
	Bool    Type = BoolType{}
	Unknown Type = UnknownType{}
)

func (ValueType) String() string   { return "Value" }
func (StringType) String() string  { return "String" }
func (BoolType) String() string    { return "Bool" }
func (UnknownType) String() string { return "Unknown" }

func (t TypeType) String() string {
	return "Type<" + t.Inner.String() + ">"
}

func (t FnType) String() string {
	var builder strings.Builder
	builder.WriteString("Fn(")
	for i, arg := range t.Args {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(arg.String())
	}
	if t.Variadic != nil {
		if len(t.Args) > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("...")
		builder.WriteString(t.Variadic.String())
	}
	builder.WriteString(") -> ")
	builder.WriteString(t.Returns.String())
	return builder.String()
}

// FromName maps a textual type name to its type. It returns false for names
// that do not denote a type, which the compiler reports as an undefined
// reference.
func FromName(name string) (Type, bool) {
	switch name {
	case "Value":
		return Value, true
	case "String":
		return String, true
	case "Bool":
		return Bool, true
	}
	return nil, false
}

// Equal reports structural equality between two types. Function types are
// equal when their argument lists, variadic argument and return type all
// match; Type<T> compares its inner type.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case ValueType:
		_, ok := b.(ValueType)
		return ok
	case StringType:
		_, ok := b.(StringType)
		return ok
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case UnknownType:
		_, ok := b.(UnknownType)
		return ok
	case TypeType:
		bt, ok := b.(TypeType)
		return ok && Equal(at.Inner, bt.Inner)
	case FnType:
		bt, ok := b.(FnType)
		if !ok || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		if (at.Variadic == nil) != (bt.Variadic == nil) {
			return false
		}
		if at.Variadic != nil && !Equal(at.Variadic, bt.Variadic) {
			return false
		}
		return Equal(at.Returns, bt.Returns)
	}
	return false
}

// Assignable reports whether a value of type `from` may be supplied where
// type `to` is declared. Value accepts any concrete type; Unknown is
// assignable in both directions; everything else is structural equality.
func Assignable(to, from Type) bool {
	if _, ok := to.(UnknownType); ok {
		return true
	}
	if _, ok := from.(UnknownType); ok {
		return true
	}
	if _, ok := to.(ValueType); ok {
		return true
	}
	return Equal(to, from)
}
