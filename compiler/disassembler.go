package compiler

import (
	"fmt"
	"strings"

	"reqexpr/env"
)

// Disassemble renders a code stream into human-readable text: a version
// header, then one line per instruction showing the 4-digit offset, the
// mnemonic, the operands, and a symbolic comment resolved against the
// compile-time environment and the container's pools. Unknown opcodes
// render as `??` with their raw byte so a corrupted stream still produces
// a complete listing.
func Disassemble(bytecode *Bytecode, compileEnv *env.CompileEnv) string {
	var builder strings.Builder
	builder.WriteString("VERSION ")
	builder.WriteString(VersionString())
	builder.WriteString("\n")

	ip := len(Version)
	for ip < len(bytecode.Codes) {
		opcode := Opcode(bytecode.Codes[ip])
		def, err := Get(opcode)
		if err != nil {
			builder.WriteString(fmt.Sprintf("%04d ?? 0x%02x\n", ip, byte(opcode)))
			ip++
			continue
		}

		operands, width := readOperands(def, bytecode.Codes, ip)
		builder.WriteString(fmt.Sprintf("%04d %s", ip, renderInstruction(def, opcode, operands, bytecode, compileEnv)))
		builder.WriteString("\n")
		ip += width
	}
	return builder.String()
}

// readOperands decodes the operand values following the opcode at ip. A
// truncated tail decodes as zeroes; the VM is the place that rejects it.
func readOperands(def *OpCodeDefinition, codes Instructions, ip int) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := ip + 1
	for i := range def.OperandWidths {
		if offset < len(codes) {
			operands[i] = int(codes[offset])
		}
		offset += def.OperandWidths[i]
	}
	return operands, offset - ip
}

func renderInstruction(def *OpCodeDefinition, opcode Opcode, operands []int, bytecode *Bytecode, compileEnv *env.CompileEnv) string {
	switch opcode {
	case OP_GET:
		kind := byte(operands[0])
		line := fmt.Sprintf("%s %s %d", def.Name, LookupKindName(kind), operands[1])
		if symbol, ok := resolveSymbol(kind, operands[1], bytecode, compileEnv); ok {
			line += fmt.Sprintf(" == '%s'", symbol)
		}
		return line

	case OP_CALL:
		line := fmt.Sprintf("%s (%d args)", def.Name, operands[1])
		if symbol, ok := resolveCallee(operands[0], compileEnv); ok {
			line += fmt.Sprintf(" == '%s'", symbol)
		}
		return line

	case OP_CONSTANT:
		line := fmt.Sprintf("%s %d", def.Name, operands[0])
		if operands[0] < len(bytecode.Strings) {
			line += fmt.Sprintf(" == '%s'", bytecode.Strings[operands[0]])
		}
		return line
	}
	return def.Name
}

// resolveSymbol maps a (lookup kind, index) pair back to the name it was
// compiled from.
func resolveSymbol(kind byte, index int, bytecode *Bytecode, compileEnv *env.CompileEnv) (string, bool) {
	switch kind {
	case LOOKUP_BUILTIN:
		if index < len(compileEnv.Builtins) {
			return compileEnv.Builtins[index].Name, true
		}
	case LOOKUP_USER_BUILTIN:
		if index < len(compileEnv.UserBuiltins) {
			return compileEnv.UserBuiltins[index].Name, true
		}
	case LOOKUP_VAR:
		if index < len(compileEnv.Vars) {
			return ":" + compileEnv.Vars[index], true
		}
	case LOOKUP_PROMPT:
		if index < len(compileEnv.Prompts) {
			return "?" + compileEnv.Prompts[index], true
		}
	case LOOKUP_SECRET:
		if index < len(compileEnv.Secrets) {
			return "!" + compileEnv.Secrets[index], true
		}
	case LOOKUP_CLIENT_CTX:
		if index < len(compileEnv.Client) {
			return "@" + compileEnv.Client[index].Name, true
		}
	case LOOKUP_TYPE:
		if index < len(bytecode.Types) {
			return bytecode.Types[index].String(), true
		}
	}
	return "", false
}

// resolveCallee names the CALL index operand. Built-ins and user built-ins
// share the operand's index space; the built-in table wins, matching how
// sigil-less names resolve.
func resolveCallee(index int, compileEnv *env.CompileEnv) (string, bool) {
	if index < len(compileEnv.Builtins) {
		return compileEnv.Builtins[index].Name, true
	}
	if index < len(compileEnv.UserBuiltins) {
		return compileEnv.UserBuiltins[index].Name, true
	}
	return "", false
}
