// This file is part of Framepace.
//
// Framepace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Framepace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Framepace.  If not, see <https://www.gnu.org/licenses/>.

package x86

import (
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/framepace/curated"
)

// Kind of a decoded instruction.
type Kind int

// List of valid Kind values.
const (
	Nops Kind = iota
	Call
	Jump
	ShortJump
)

func (k Kind) String() string {
	if k < 0 || int(k) >= len(Definitions) {
		return "unknown"
	}
	return Definitions[k].Mnemonic
}

// Instruction is the result of Decode().
type Instruction struct {
	Kind Kind

	// length of the instruction in bytes
	Len int

	// displacement for calls and jumps. always zero for no-ops
	Displacement int32
}

func (ins Instruction) String() string {
	switch ins.Kind {
	case Call, Jump, ShortJump:
		return fmt.Sprintf("%s %+d", ins.Kind, ins.Displacement)
	}
	if ins.Len == 1 {
		return ins.Kind.String()
	}
	return fmt.Sprintf("%s (%d bytes)", ins.Kind, ins.Len)
}

// Decode the instruction at the start of b.
func Decode(b []byte) (Instruction, error) {
	if len(b) == 0 {
		return Instruction{}, curated.Errorf(Truncated, b)
	}

	switch b[0] {
	case prefixOperandSize:
		if len(b) < 2 {
			return Instruction{}, curated.Errorf(Truncated, b)
		}
		if b[1] == OpNop {
			return Instruction{Kind: Nops, Len: 2}, nil
		}
		n, err := decodeMultiByteNop(b[1:])
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: Nops, Len: n + 1}, nil

	case escape:
		n, err := decodeMultiByteNop(b)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: Nops, Len: n}, nil
	}

	k, ok := definition(b[0])
	if !ok {
		return Instruction{}, curated.Errorf(Unrecognised, b[:1])
	}

	defn := Definitions[k]
	if len(b) < defn.Bytes {
		return Instruction{}, curated.Errorf(Truncated, b)
	}

	ins := Instruction{Kind: k, Len: defn.Bytes}

	// the operand is a displacement of the remaining bytes
	switch defn.Bytes - 1 {
	case 4:
		ins.Displacement = int32(binary.LittleEndian.Uint32(b[1:]))
	case 1:
		ins.Displacement = int32(int8(b[1]))
	}

	return ins, nil
}

// decodeMultiByteNop decodes the 0f 1f /0 form, which has a ModRM byte and
// optional SIB and displacement bytes. returns the length of the instruction
func decodeMultiByteNop(b []byte) (int, error) {
	if len(b) < 3 {
		return 0, curated.Errorf(Truncated, b)
	}
	if b[0] != escape || b[1] != multiByteNop {
		return 0, curated.Errorf(Unrecognised, b[:2])
	}

	modrm := b[2]
	mod := modrm >> 6
	reg := (modrm >> 3) & 0x07
	rm := modrm & 0x07

	// only /0 is a no-op. other reg values are reserved
	if reg != 0 {
		return 0, curated.Errorf(Unrecognised, b[:3])
	}

	n := 3
	if mod != 3 && rm == 4 {
		// SIB byte
		if len(b) < n+1 {
			return 0, curated.Errorf(Truncated, b)
		}
		if mod == 0 && b[n]&0x07 == 5 {
			n += 4
		}
		n++
	}

	switch mod {
	case 0:
		if rm == 5 {
			n += 4
		}
	case 1:
		n++
	case 2:
		n += 4
	}

	if len(b) < n {
		return 0, curated.Errorf(Truncated, b)
	}

	return n, nil
}

// Listing of a sequence of instructions.
type Listing []Instruction

// DecodeAll decodes every instruction in b. It is an error for the final
// instruction to be truncated.
func DecodeAll(b []byte) (Listing, error) {
	var l Listing
	for len(b) > 0 {
		ins, err := Decode(b)
		if err != nil {
			return l, err
		}
		l = append(l, ins)
		b = b[ins.Len:]
	}
	return l, nil
}
