package compiler

import (
	"encoding/binary"
	"fmt"

	"reqexpr/types"
)

// Bytecode is the container the compiler produces and the VM executes.
//
// Fields:
//   - Codes: The code stream. The first four bytes are the ASCII version
//     digits; instruction addresses begin at offset 4.
//   - Strings: The string pool referenced by CONSTANT operands. Each
//     distinct string appears exactly once.
//   - Types: The type pool referenced by GET TYPE operands, deduplicated
//     by structural equality.
type Bytecode struct {
	Codes   Instructions
	Strings []string
	Types   []types.Type
}

// NewBytecode creates an empty container with the version bytes already
// written, so the first emitted instruction lands at offset 4.
func NewBytecode() *Bytecode {
	return &Bytecode{Codes: Instructions(Version[:])}
}

// CheckVersion verifies the stream begins with this implementation's
// version bytes.
func (b *Bytecode) CheckVersion() error {
	if len(b.Codes) < len(Version) {
		return fmt.Errorf("code stream shorter than the %d version bytes", len(Version))
	}
	for i, expected := range Version {
		if b.Codes[i] != expected {
			return fmt.Errorf("version mismatch: bytecode %q, interpreter %q", string(b.Codes[:4]), string(Version[:]))
		}
	}
	return nil
}

// InternString adds a string to the pool if not already present and
// returns its index.
func (b *Bytecode) InternString(value string) int {
	for i, existing := range b.Strings {
		if existing == value {
			return i
		}
	}
	b.Strings = append(b.Strings, value)
	return len(b.Strings) - 1
}

// InternType adds a type to the pool if no structurally equal entry exists
// and returns its index.
func (b *Bytecode) InternType(t types.Type) int {
	for i, existing := range b.Types {
		if types.Equal(existing, t) {
			return i
		}
	}
	b.Types = append(b.Types, t)
	return len(b.Types) - 1
}

// Type pool tags for the binary container encoding.
const (
	typeTagValue byte = iota
	typeTagString
	typeTagBool
	typeTagUnknown
	typeTagType
	typeTagFn
)

// Encode serializes the whole container: the version bytes, the string
// pool, the type pool, then the instruction bytes. Pool and string lengths
// are big-endian uint16.
func (b *Bytecode) Encode() []byte {
	out := make([]byte, 0, len(b.Codes)+64)
	out = append(out, Version[:]...)

	out = appendUint16(out, len(b.Strings))
	for _, s := range b.Strings {
		out = appendUint16(out, len(s))
		out = append(out, s...)
	}

	out = appendUint16(out, len(b.Types))
	for _, t := range b.Types {
		out = appendType(out, t)
	}

	instructions := b.Codes[len(Version):]
	out = appendUint16(out, len(instructions))
	out = append(out, instructions...)
	return out
}

// DecodeBytecode parses a serialized container. The version bytes must
// match the running implementation; a container without the header is
// never treated as valid.
func DecodeBytecode(data []byte) (*Bytecode, error) {
	r := &byteReader{data: data}

	header, err := r.take(len(Version))
	if err != nil {
		return nil, err
	}
	for i, expected := range Version {
		if header[i] != expected {
			return nil, fmt.Errorf("version mismatch: bytecode %q, interpreter %q", string(header), string(Version[:]))
		}
	}

	bytecode := NewBytecode()

	stringCount, err := r.uint16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < stringCount; i++ {
		length, err := r.uint16()
		if err != nil {
			return nil, err
		}
		raw, err := r.take(length)
		if err != nil {
			return nil, err
		}
		bytecode.Strings = append(bytecode.Strings, string(raw))
	}

	typeCount, err := r.uint16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < typeCount; i++ {
		t, err := r.readType()
		if err != nil {
			return nil, err
		}
		bytecode.Types = append(bytecode.Types, t)
	}

	codeLength, err := r.uint16()
	if err != nil {
		return nil, err
	}
	instructions, err := r.take(codeLength)
	if err != nil {
		return nil, err
	}
	bytecode.Codes = append(bytecode.Codes, instructions...)
	return bytecode, nil
}

func appendUint16(out []byte, value int) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(value))
	return append(out, buf[:]...)
}

func appendType(out []byte, t types.Type) []byte {
	switch tt := t.(type) {
	case types.ValueType:
		return append(out, typeTagValue)
	case types.StringType:
		return append(out, typeTagString)
	case types.BoolType:
		return append(out, typeTagBool)
	case types.UnknownType:
		return append(out, typeTagUnknown)
	case types.TypeType:
		out = append(out, typeTagType)
		return appendType(out, tt.Inner)
	case types.FnType:
		out = append(out, typeTagFn)
		out = append(out, byte(len(tt.Args)))
		for _, arg := range tt.Args {
			out = appendType(out, arg)
		}
		if tt.Variadic != nil {
			out = append(out, 1)
			out = appendType(out, tt.Variadic)
		} else {
			out = append(out, 0)
		}
		return appendType(out, tt.Returns)
	}
	return append(out, typeTagUnknown)
}

type byteReader struct {
	data     []byte
	position int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if r.position+n > len(r.data) {
		return nil, fmt.Errorf("truncated bytecode container at byte %d", r.position)
	}
	taken := r.data[r.position : r.position+n]
	r.position += n
	return taken, nil
}

func (r *byteReader) uint16() (int, error) {
	raw, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(raw)), nil
}

func (r *byteReader) readType() (types.Type, error) {
	tag, err := r.take(1)
	if err != nil {
		return nil, err
	}
	switch tag[0] {
	case typeTagValue:
		return types.Value, nil
	case typeTagString:
		return types.String, nil
	case typeTagBool:
		return types.Bool, nil
	case typeTagUnknown:
		return types.Unknown, nil
	case typeTagType:
		inner, err := r.readType()
		if err != nil {
			return nil, err
		}
		return types.TypeType{Inner: inner}, nil
	case typeTagFn:
		countRaw, err := r.take(1)
		if err != nil {
			return nil, err
		}
		fn := types.FnType{}
		for i := 0; i < int(countRaw[0]); i++ {
			arg, err := r.readType()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
		}
		hasVariadic, err := r.take(1)
		if err != nil {
			return nil, err
		}
		if hasVariadic[0] == 1 {
			variadic, err := r.readType()
			if err != nil {
				return nil, err
			}
			fn.Variadic = variadic
		}
		returns, err := r.readType()
		if err != nil {
			return nil, err
		}
		fn.Returns = returns
		return fn, nil
	}
	return nil, fmt.Errorf("unknown type tag %d at byte %d", tag[0], r.position-1)
}
