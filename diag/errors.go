// Package diag defines the error taxonomy shared by every pipeline stage
// and the formatter that renders an error with source context. Errors are
// values: each stage returns a best-effort result plus a list of these,
// never a panic.
package diag

import (
	"fmt"
	"strings"

	"reqexpr/span"
	"reqexpr/types"
)

// Spanned is implemented by every error that points at a source range.
type Spanned interface {
	error
	ErrorSpan() span.Span
}

// LexicalError reports an unexpected byte in the source.
type LexicalError struct {
	Span span.Span
	Byte byte
}

func (e LexicalError) ErrorSpan() span.Span { return e.Span }

func (e LexicalError) Error() string {
	return fmt.Sprintf("💥 LexicalError: unexpected character %q (%s)", string(rune(e.Byte)), e.Span)
}

// SyntaxError reports a parser mismatch: what was found and what would
// have been accepted.
type SyntaxError struct {
	Span     span.Span
	Found    string
	Expected []string
}

func (e SyntaxError) ErrorSpan() span.Span { return e.Span }

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 SyntaxError: unexpected %s, expected %s (%s)",
		e.Found, strings.Join(e.Expected, " | "), e.Span)
}

// ResolveError reports an identifier that matched no entry in its lookup
// kind's table.
type ResolveError struct {
	Span span.Span
	Name string
}

func (e ResolveError) ErrorSpan() span.Span { return e.Span }

func (e ResolveError) Error() string {
	return fmt.Sprintf("💥 ResolveError: undefined reference '%s' (%s)", e.Name, e.Span)
}

// WrongNumberOfArgs reports a call whose argument count does not satisfy
// the callee's declared arity.
type WrongNumberOfArgs struct {
	Span     span.Span
	Expected int
	Actual   int
	Variadic bool
}

func (e WrongNumberOfArgs) ErrorSpan() span.Span { return e.Span }

func (e WrongNumberOfArgs) Error() string {
	qualifier := ""
	if e.Variadic {
		qualifier = "at least "
	}
	return fmt.Sprintf("💥 TypeError: wrong number of arguments: expected %s%d, got %d (%s)",
		qualifier, e.Expected, e.Actual, e.Span)
}

// TypeMismatch reports an argument whose inferred type is not assignable
// to the declared one.
type TypeMismatch struct {
	Span     span.Span
	Expected types.Type
	Actual   types.Type
}

func (e TypeMismatch) ErrorSpan() span.Span { return e.Span }

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("💥 TypeError: expected %s, got %s (%s)", e.Expected, e.Actual, e.Span)
}

// NotCallable reports a call whose callee does not have a function type.
type NotCallable struct {
	Span   span.Span
	Actual types.Type
}

func (e NotCallable) ErrorSpan() span.Span { return e.Span }

func (e NotCallable) Error() string {
	return fmt.Sprintf("💥 TypeError: %s is not callable (%s)", e.Actual, e.Span)
}

// RuntimeError reports a failure inside the VM. Offset is the byte offset
// of the faulting instruction in the code stream, not a source span.
type RuntimeError struct {
	Offset  int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError: %s (at %04d)", e.Message, e.Offset)
}
