// Package vm implements the stack-based virtual machine that evaluates
// compiled expressions. The VM owns its stack for the duration of one Run;
// the environments and the bytecode are read-only to it.
package vm

import (
	"fmt"

	"reqexpr/compiler"
	"reqexpr/diag"
	"reqexpr/env"
	"reqexpr/object"
)

// VM is the runtime for compiled expression bytecode. A single VM can run
// any number of code streams; Run resets the stack and instruction
// pointer each time.
type VM struct {
	stack Stack
	ip    int
}

// New creates a VM instance.
func New() *VM {
	return &VM{}
}

// Run executes the bytecode against the given environments and returns the
// resulting value. Execution starts at offset 4, after the version bytes,
// and halts at the end of the stream; success requires exactly one value
// remaining on the stack. The first runtime fault aborts execution and is
// returned annotated with the faulting instruction's offset.
func (vm *VM) Run(bytecode *compiler.Bytecode, compileEnv *env.CompileEnv, runtimeEnv *env.RuntimeEnv) (object.Value, error) {
	if err := bytecode.CheckVersion(); err != nil {
		return nil, diag.RuntimeError{Offset: 0, Message: err.Error()}
	}

	vm.stack = Stack{}
	vm.ip = len(compiler.Version)

	for vm.ip < len(bytecode.Codes) {
		offset := vm.ip
		opcode := compiler.Opcode(bytecode.Codes[vm.ip])
		def, err := compiler.Get(opcode)
		if err != nil {
			return nil, diag.RuntimeError{Offset: offset, Message: err.Error()}
		}

		operands, ok := vm.readOperands(def, bytecode.Codes)
		if !ok {
			return nil, diag.RuntimeError{Offset: offset, Message: fmt.Sprintf("truncated %s instruction", def.Name)}
		}

		switch opcode {
		case compiler.OP_CONSTANT:
			index := operands[0]
			if index >= len(bytecode.Strings) {
				return nil, diag.RuntimeError{Offset: offset, Message: fmt.Sprintf("string pool index %d out of range", index)}
			}
			vm.stack.Push(object.String{Value: bytecode.Strings[index]})

		case compiler.OP_TRUE:
			vm.stack.Push(object.Bool{Value: true})

		case compiler.OP_FALSE:
			vm.stack.Push(object.Bool{Value: false})

		case compiler.OP_NOT:
			operand, found := vm.stack.Pop()
			if !found {
				return nil, diag.RuntimeError{Offset: offset, Message: "stack underflow in NOT"}
			}
			boolean, isBool := operand.(object.Bool)
			if !isBool {
				return nil, diag.RuntimeError{Offset: offset, Message: fmt.Sprintf("NOT expects a Bool, got %s", operand.Type())}
			}
			vm.stack.Push(object.Bool{Value: !boolean.Value})

		case compiler.OP_EQ:
			right, foundRight := vm.stack.Pop()
			left, foundLeft := vm.stack.Pop()
			if !foundRight || !foundLeft {
				return nil, diag.RuntimeError{Offset: offset, Message: "stack underflow in EQ"}
			}
			vm.stack.Push(object.Bool{Value: object.Equals(left, right)})

		case compiler.OP_TYPE:
			operand, found := vm.stack.Pop()
			if !found {
				return nil, diag.RuntimeError{Offset: offset, Message: "stack underflow in TYPE"}
			}
			vm.stack.Push(object.Type{Value: operand.Type()})

		case compiler.OP_GET:
			value, err := vm.get(byte(operands[0]), operands[1], bytecode, compileEnv, runtimeEnv)
			if err != nil {
				return nil, diag.RuntimeError{Offset: offset, Message: err.Error()}
			}
			vm.stack.Push(value)

		case compiler.OP_CALL:
			if err := vm.call(operands[1]); err != nil {
				return nil, diag.RuntimeError{Offset: offset, Message: err.Error()}
			}
		}
	}

	result, found := vm.stack.Pop()
	if !found {
		return nil, diag.RuntimeError{Offset: vm.ip, Message: "stack empty at halt"}
	}
	if !vm.stack.IsEmpty() {
		return nil, diag.RuntimeError{Offset: vm.ip, Message: fmt.Sprintf("%d values left on the stack at halt", vm.stack.Len()+1)}
	}
	return result, nil
}

// readOperands reads the operand bytes of the instruction at vm.ip and
// advances vm.ip past the whole instruction. It fails when the stream ends
// mid-instruction.
func (vm *VM) readOperands(def *compiler.OpCodeDefinition, codes compiler.Instructions) ([]int, bool) {
	width := 1
	for _, operandWidth := range def.OperandWidths {
		width += operandWidth
	}
	if vm.ip+width > len(codes) {
		return nil, false
	}

	operands := make([]int, len(def.OperandWidths))
	offset := vm.ip + 1
	for i, operandWidth := range def.OperandWidths {
		operands[i] = int(codes[offset])
		offset += operandWidth
	}
	vm.ip += width
	return operands, true
}

// get looks the (kind, index) pair up in the table the kind selects:
// built-ins and user built-ins come from the compile-time environment as
// function values, variables, prompts and secrets from the runtime string
// lists, client-context entries from the runtime typed values, and TYPE
// from the container's type pool.
func (vm *VM) get(kind byte, index int, bytecode *compiler.Bytecode, compileEnv *env.CompileEnv, runtimeEnv *env.RuntimeEnv) (object.Value, error) {
	switch kind {
	case compiler.LOOKUP_BUILTIN:
		if index >= len(compileEnv.Builtins) {
			return nil, fmt.Errorf("builtin index %d out of range", index)
		}
		return object.Fn{Builtin: compileEnv.Builtins[index]}, nil

	case compiler.LOOKUP_USER_BUILTIN:
		if index >= len(compileEnv.UserBuiltins) {
			return nil, fmt.Errorf("user builtin index %d out of range", index)
		}
		return object.Fn{Builtin: compileEnv.UserBuiltins[index]}, nil

	case compiler.LOOKUP_VAR:
		if index >= len(runtimeEnv.Vars) {
			return nil, fmt.Errorf("var index %d out of range", index)
		}
		return object.String{Value: runtimeEnv.Vars[index]}, nil

	case compiler.LOOKUP_PROMPT:
		if index >= len(runtimeEnv.Prompts) {
			return nil, fmt.Errorf("prompt index %d out of range", index)
		}
		return object.String{Value: runtimeEnv.Prompts[index]}, nil

	case compiler.LOOKUP_SECRET:
		if index >= len(runtimeEnv.Secrets) {
			return nil, fmt.Errorf("secret index %d out of range", index)
		}
		return object.String{Value: runtimeEnv.Secrets[index]}, nil

	case compiler.LOOKUP_CLIENT_CTX:
		if index >= len(runtimeEnv.Client) || runtimeEnv.Client[index] == nil {
			name := fmt.Sprintf("%d", index)
			if index < len(compileEnv.Client) {
				name = compileEnv.Client[index].Name
			}
			return nil, fmt.Errorf("client context value '@%s' not set", name)
		}
		return runtimeEnv.Client[index], nil

	case compiler.LOOKUP_TYPE:
		if index >= len(bytecode.Types) {
			return nil, fmt.Errorf("type pool index %d out of range", index)
		}
		return object.Type{Value: bytecode.Types[index]}, nil
	}
	return nil, fmt.Errorf("unknown lookup kind %d", kind)
}

// call pops the top argCount values preserving call order, pops the callee
// pushed by the preceding GET, re-checks it is a function, invokes it and
// pushes the result. Arity and argument types were already validated by
// the compiler.
func (vm *VM) call(argCount int) error {
	args := make([]object.Value, argCount)
	for i := argCount - 1; i >= 0; i-- {
		arg, found := vm.stack.Pop()
		if !found {
			return fmt.Errorf("stack underflow in CALL: %d args expected", argCount)
		}
		args[i] = arg
	}

	callee, found := vm.stack.Pop()
	if !found {
		return fmt.Errorf("stack underflow in CALL: missing callee")
	}
	fn, isFn := callee.(object.Fn)
	if !isFn {
		return fmt.Errorf("%s is not callable", callee.Type())
	}

	result, err := fn.Builtin.Impl(args)
	if err != nil {
		return fmt.Errorf("%s: %s", fn.Builtin.Name, err)
	}
	vm.stack.Push(result)
	return nil
}
