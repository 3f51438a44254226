// Package compiler resolves names, checks types and emits bytecode in a
// single post-order traversal of the AST. Resolution and type errors never
// abort emission: the traversal substitutes Unknown and keeps going so one
// pass can surface every diagnostic, and the caller discards the
// best-effort container whenever the error list is non-empty.
package compiler

import (
	"reqexpr/ast"
	"reqexpr/diag"
	"reqexpr/env"
	"reqexpr/types"
)

// Compiler is an ast.ExpressionVisitor that compiles expression nodes to
// bytecode against a compile-time environment. Each Visit method returns
// the inferred static type of the node it compiled.
type Compiler struct {
	env      *env.CompileEnv
	bytecode *Bytecode
	errors   []error
}

// New creates a Compiler over the given compile-time environment.
func New(compileEnv *env.CompileEnv) *Compiler {
	return &Compiler{
		env:      compileEnv,
		bytecode: NewBytecode(),
	}
}

// Compile walks the expression and returns the bytecode container, or the
// accumulated resolution and type errors when there are any.
func (c *Compiler) Compile(expr ast.Expression) (*Bytecode, []error) {
	expr.Accept(c)
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.bytecode, nil
}

// VisitString interns the literal into the string pool and emits CONSTANT.
func (c *Compiler) VisitString(str ast.StringLit) any {
	index := c.bytecode.InternString(str.Value)
	c.emit(OP_CONSTANT, index)
	return types.String
}

// VisitBool emits TRUE or FALSE.
func (c *Compiler) VisitBool(boolean ast.BoolLit) any {
	if boolean.Value {
		c.emit(OP_TRUE)
	} else {
		c.emit(OP_FALSE)
	}
	return types.Bool
}

// VisitIdentifier resolves the identifier in the lookup table selected by
// its kind and emits GET. A name that matches no entry is an undefined
// reference; the node then types as Unknown so the enclosing call does not
// cascade.
func (c *Compiler) VisitIdentifier(identifier ast.Identifier) any {
	name := identifier.LookupName()

	switch identifier.Kind {
	case ast.BuiltinKind:
		// Sigil-less names resolve in built-ins first, then in the
		// host-registered user built-ins; collisions favor built-ins.
		if index, builtin, found := c.env.LookupBuiltin(name); found {
			c.emit(OP_GET, int(LOOKUP_BUILTIN), index)
			return builtin.FnType()
		}
		if index, builtin, found := c.env.LookupUserBuiltin(name); found {
			c.emit(OP_GET, int(LOOKUP_USER_BUILTIN), index)
			return builtin.FnType()
		}

	case ast.VarKind:
		if index, found := c.env.LookupVar(name); found {
			c.emit(OP_GET, int(LOOKUP_VAR), index)
			return types.String
		}

	case ast.PromptKind:
		if index, found := c.env.LookupPrompt(name); found {
			c.emit(OP_GET, int(LOOKUP_PROMPT), index)
			return types.String
		}

	case ast.SecretKind:
		if index, found := c.env.LookupSecret(name); found {
			c.emit(OP_GET, int(LOOKUP_SECRET), index)
			return types.String
		}

	case ast.ClientKind:
		if index, entry, found := c.env.LookupClient(name); found {
			c.emit(OP_GET, int(LOOKUP_CLIENT_CTX), index)
			return entry.Type
		}

	case ast.TypeKind:
		if identifier.Type != nil {
			index := c.bytecode.InternType(identifier.Type)
			c.emit(OP_GET, int(LOOKUP_TYPE), index)
			return types.TypeType{Inner: identifier.Type}
		}
	}

	c.errors = append(c.errors, diag.ResolveError{
		Span: identifier.ExprSpan,
		Name: identifier.Name,
	})
	return types.Unknown
}

// VisitCall compiles the callee, then each argument in source order, then
// emits CALL with the callee's resolved table index and the argument
// count. Arity and argument types are checked against the callee's
// function type.
func (c *Compiler) VisitCall(call ast.Call) any {
	calleeType, _ := call.Callee.Accept(c).(types.Type)
	calleeIndex := c.resolveCalleeIndex(call.Callee)

	argTypes := make([]types.Type, 0, len(call.Args))
	for _, arg := range call.Args {
		argType, _ := arg.Accept(c).(types.Type)
		argTypes = append(argTypes, argType)
	}

	returns := c.checkCall(call, calleeType, argTypes)
	c.emit(OP_CALL, calleeIndex, len(call.Args))
	return returns
}

// VisitError types the parse-failure sentinel as Unknown and emits
// nothing; the parser already reported the syntax error.
func (c *Compiler) VisitError(bad ast.ErrorExpr) any {
	return types.Unknown
}

// resolveCalleeIndex recovers the built-in (or user-built-in) table index
// of a direct callee reference for the CALL operand. Any callee that is
// not a direct built-in reference compiles with index 0; the VM invokes
// whatever Fn value the callee expression left on the stack, so the
// operand only feeds the disassembler.
func (c *Compiler) resolveCalleeIndex(callee ast.Expression) int {
	identifier, ok := callee.(ast.Identifier)
	if !ok || identifier.Kind != ast.BuiltinKind {
		return 0
	}
	if index, _, found := c.env.LookupBuiltin(identifier.LookupName()); found {
		return index
	}
	if index, _, found := c.env.LookupUserBuiltin(identifier.LookupName()); found {
		return index
	}
	return 0
}

// checkCall validates arity and argument assignability against the
// callee's type and returns the call's result type. An Unknown callee
// suppresses every check.
func (c *Compiler) checkCall(call ast.Call, calleeType types.Type, argTypes []types.Type) types.Type {
	if _, unknown := calleeType.(types.UnknownType); unknown || calleeType == nil {
		return types.Unknown
	}

	fn, callable := calleeType.(types.FnType)
	if !callable {
		c.errors = append(c.errors, diag.NotCallable{
			Span:   call.Callee.Span(),
			Actual: calleeType,
		})
		return types.Unknown
	}

	required := len(fn.Args)
	variadic := fn.Variadic != nil
	if len(argTypes) < required || (!variadic && len(argTypes) > required) {
		c.errors = append(c.errors, diag.WrongNumberOfArgs{
			Span:     call.ExprSpan,
			Expected: required,
			Actual:   len(argTypes),
			Variadic: variadic,
		})
		return fn.Returns
	}

	for i, argType := range argTypes {
		declared := fn.Variadic
		if i < required {
			declared = fn.Args[i]
		}
		if !types.Assignable(declared, argType) {
			c.errors = append(c.errors, diag.TypeMismatch{
				Span:     call.Args[i].Span(),
				Expected: declared,
				Actual:   argType,
			})
		}
	}
	return fn.Returns
}

// emit assembles one instruction and appends it to the code stream.
func (c *Compiler) emit(opcode Opcode, operands ...int) {
	instruction, err := AssembleInstruction(opcode, operands...)
	if err != nil {
		// Only reachable through a compiler bug (bad operand count or an
		// index past the 1-byte operand range).
		c.errors = append(c.errors, err)
		return
	}
	c.bytecode.Codes = append(c.bytecode.Codes, instruction...)
}
