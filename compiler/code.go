package compiler

import (
	"fmt"
)

// Version is the four ASCII version bytes every code stream begins with:
// two digits of major version followed by two digits of minor version. The
// VM rejects any stream whose version differs, so these bytes are bumped on
// any opcode or pool-format change.
var Version = [4]byte{'0', '1', '0', '0'}

// VersionString renders the version bytes for the disassembly header.
func VersionString() string {
	return fmt.Sprintf("%c%c.%c%c", Version[0], Version[1], Version[2], Version[3])
}

type Opcode byte

type Instructions []byte

// opcodes
// iota generates a distinct byte for each opcode. All operands are single
// bytes, which caps each pool and each lookup table at 256 entries; one
// expression never gets near that.
const (
	// Pops the top operand-1 stack values as arguments, pops the Fn value
	// beneath them and invokes it. Operand 0 is the callee's built-in (or
	// user built-in) table index; the VM does not read it, the
	// disassembler uses it to name the callee.
	OP_CALL Opcode = iota

	// Pushes the value at operand 1 within the lookup kind named by
	// operand 0.
	OP_GET

	// Pushes a string from the string pool.
	OP_CONSTANT

	// Pushes Bool(true).
	OP_TRUE

	// Pushes Bool(false).
	OP_FALSE

	// Pops a Bool and pushes its negation.
	OP_NOT

	// Pops two values and pushes Bool(equality).
	OP_EQ

	// Pops a value and pushes Type(its type).
	OP_TYPE
)

// Lookup kinds, encoded as the first operand byte of OP_GET. The values
// are part of the wire format and never reordered.
const (
	LOOKUP_BUILTIN      byte = 0
	LOOKUP_VAR          byte = 1
	LOOKUP_PROMPT       byte = 2
	LOOKUP_SECRET       byte = 3
	LOOKUP_USER_BUILTIN byte = 4
	LOOKUP_CLIENT_CTX   byte = 5
	LOOKUP_TYPE         byte = 6
)

// LookupKindName renders a lookup-kind byte for disassembly.
func LookupKindName(kind byte) string {
	switch kind {
	case LOOKUP_BUILTIN:
		return "BUILTIN"
	case LOOKUP_VAR:
		return "VAR"
	case LOOKUP_PROMPT:
		return "PROMPT"
	case LOOKUP_SECRET:
		return "SECRET"
	case LOOKUP_USER_BUILTIN:
		return "USER_BUILTIN"
	case LOOKUP_CLIENT_CTX:
		return "CLIENT_CTX"
	case LOOKUP_TYPE:
		return "TYPE"
	}
	return fmt.Sprintf("KIND(%d)", kind)
}

// OpCodeDefinition describes one opcode: its disassembly mnemonic and the
// width in bytes of each operand.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	OP_CALL:     {Name: "CALL", OperandWidths: []int{1, 1}},
	OP_GET:      {Name: "GET", OperandWidths: []int{1, 1}},
	OP_CONSTANT: {Name: "CONSTANT", OperandWidths: []int{1}},
	OP_TRUE:     {Name: "TRUE", OperandWidths: []int{}},
	OP_FALSE:    {Name: "FALSE", OperandWidths: []int{}},
	OP_NOT:      {Name: "NOT", OperandWidths: []int{}},
	OP_EQ:       {Name: "EQ", OperandWidths: []int{}},
	OP_TYPE:     {Name: "TYPE", OperandWidths: []int{}},
}

// Get returns the definition for an opcode, or an error for a byte that is
// not a known opcode.
func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// AssembleInstruction constructs one instruction from an opcode and its
// operand values. Each operand must fit in its defined width.
func AssembleInstruction(op Opcode, operands ...int) ([]byte, error) {
	def, err := Get(op)
	if err != nil {
		return nil, err
	}
	if len(operands) != len(def.OperandWidths) {
		return nil, fmt.Errorf("opcode %s takes %d operands, got %d", def.Name, len(def.OperandWidths), len(operands))
	}

	instruction := make([]byte, 0, 1+len(def.OperandWidths))
	instruction = append(instruction, byte(op))
	for i, operand := range operands {
		if operand < 0 || operand > 0xff {
			return nil, fmt.Errorf("opcode %s operand %d out of range: %d", def.Name, i, operand)
		}
		instruction = append(instruction, byte(operand))
	}
	return instruction, nil
}
