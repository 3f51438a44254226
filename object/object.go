// Package object defines the runtime values the virtual machine operates
// on, plus the descriptor type for built-in functions. Values form a closed
// sum: String, Bool, Fn and Type.
package object

import (
	"fmt"

	"reqexpr/types"
)

// Value is the interface implemented by every runtime value.
type Value interface {
	// Type returns the static type the value inhabits.
	Type() types.Type

	// String renders the value for the REPL and the `run` command output.
	String() string

	valueNode()
}

// String is a string value.
type String struct {
	Value string
}

// Bool is a boolean value.
type Bool struct {
	Value bool
}

// Fn is a function value referencing a built-in descriptor. Descriptors
// are immutable and shared; two Fn values are equal when they reference the
// same descriptor.
type Fn struct {
	Builtin *Builtin
}

// Type is a type value, produced by type literals and the `type` built-in.
type Type struct {
	Value types.Type
}

func (String) valueNode() {}
func (Bool) valueNode()   {}
func (Fn) valueNode()     {}
func (Type) valueNode()   {}

func (s String) Type() types.Type { return types.String }
func (b Bool) Type() types.Type   { return types.Bool }
func (t Type) Type() types.Type   { return types.TypeType{Inner: t.Value} }

func (f Fn) Type() types.Type {
	return f.Builtin.FnType()
}

func (s String) String() string { return fmt.Sprintf("String(%q)", s.Value) }
func (b Bool) String() string   { return fmt.Sprintf("Bool(%t)", b.Value) }
func (t Type) String() string   { return fmt.Sprintf("Type(%s)", t.Value) }
func (f Fn) String() string     { return fmt.Sprintf("Fn(%s)", f.Builtin.Name) }

// FnArg describes one declared argument of a built-in.
type FnArg struct {
	Name     string
	Type     types.Type
	Variadic bool
}

// Builtin is the descriptor of a native function: its name, declared
// argument list, return type and implementation. At most one argument may
// be variadic and it must be last. Implementations are pure: they never
// mutate the environments or any value they are given.
type Builtin struct {
	Name    string
	Args    []FnArg
	Returns types.Type
	Impl    func(args []Value) (Value, error)
}

// FnType derives the function type from the declared signature.
func (b *Builtin) FnType() types.Type {
	fn := types.FnType{Returns: b.Returns}
	for _, arg := range b.Args {
		if arg.Variadic {
			fn.Variadic = arg.Type
			continue
		}
		fn.Args = append(fn.Args, arg.Type)
	}
	return fn
}

// RequiredArity returns the number of non-variadic declared arguments.
func (b *Builtin) RequiredArity() int {
	arity := len(b.Args)
	if b.IsVariadic() {
		arity--
	}
	return arity
}

// IsVariadic reports whether the final declared argument is variadic.
func (b *Builtin) IsVariadic() bool {
	return len(b.Args) > 0 && b.Args[len(b.Args)-1].Variadic
}

// Equals reports value equality: same variant and structurally equal
// payloads. Function values compare by descriptor identity.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Type:
		bv, ok := b.(Type)
		return ok && types.Equal(av.Value, bv.Value)
	case Fn:
		bv, ok := b.(Fn)
		return ok && av.Builtin == bv.Builtin
	}
	return false
}
