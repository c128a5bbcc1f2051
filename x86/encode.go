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
	"math"

	"github.com/jetsetilly/framepace/curated"
)

// Sentinal error patterns.
const (
	DisplacementRange = "x86: displacement from %#08x to %#08x does not fit in 32 bits"
	Unrecognised      = "x86: unrecognised encoding (% 02x)"
	Truncated         = "x86: truncated instruction (% 02x)"
)

// Opcode values used by framepace.
const (
	OpNop       = 0x90
	OpCall      = 0xe8
	OpJump      = 0xe9
	OpShortJump = 0xeb

	prefixOperandSize = 0x66
	escape            = 0x0f
	multiByteNop      = 0x1f
)

// Encoding lengths.
const (
	CallLen      = 5
	JumpLen      = 5
	ShortJumpLen = 2

	// longest form of the recommended no-op instruction
	MaxNopLen = 8
)

// Definition of an instruction form emitted by framepace.
type Definition struct {
	OpCode   uint8
	Mnemonic string
	Bytes    int
}

func (defn Definition) String() string {
	return fmt.Sprintf("%02x %s +%dbytes", defn.OpCode, defn.Mnemonic, defn.Bytes)
}

// Definitions of the single opcode instruction forms emitted by framepace,
// indexed by Kind. Multi-byte no-ops are decoded separately.
var Definitions = []Definition{
	Nops:      {OpCode: OpNop, Mnemonic: "nop", Bytes: 1},
	Call:      {OpCode: OpCall, Mnemonic: "call", Bytes: CallLen},
	Jump:      {OpCode: OpJump, Mnemonic: "jmp", Bytes: JumpLen},
	ShortJump: {OpCode: OpShortJump, Mnemonic: "jmp short", Bytes: ShortJumpLen},
}

// definition returns the Kind with the opcode.
func definition(op uint8) (Kind, bool) {
	for k, defn := range Definitions {
		if defn.OpCode == op {
			return Kind(k), true
		}
	}
	return 0, false
}

// the recommended no-op sequence for each length. index zero is the empty
// sequence
var nops = [MaxNopLen + 1][]byte{
	{},
	{0x90},
	{0x66, 0x90},
	{0x0f, 0x1f, 0x00},
	{0x0f, 0x1f, 0x40, 0x00},
	{0x0f, 0x1f, 0x44, 0x00, 0x00},
	{0x66, 0x0f, 0x1f, 0x44, 0x00, 0x00},
	{0x0f, 0x1f, 0x80, 0x00, 0x00, 0x00, 0x00},
	{0x0f, 0x1f, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// Nop returns the no-op instruction of length n. Lengths outside of the range
// 0 to MaxNopLen will panic.
func Nop(n int) []byte {
	return nops[n]
}

// PutNop writes the no-op instruction of length n into b and returns n.
func PutNop(b []byte, n int) int {
	return copy(b, nops[n])
}

// CallDisplacement returns the 32 bit displacement for a near call or near
// jump at address from, to the address target.
func CallDisplacement(from uintptr, target uintptr) (int32, error) {
	d := int64(target) - (int64(from) + CallLen)
	if d < math.MinInt32 || d > math.MaxInt32 {
		return 0, curated.Errorf(DisplacementRange, from, target)
	}
	return int32(d), nil
}

// PutCall writes a near call with displacement d into b.
func PutCall(b []byte, d int32) int {
	b[0] = OpCall
	binary.LittleEndian.PutUint32(b[1:], uint32(d))
	return CallLen
}

// PutJump writes a near jump with displacement d into b.
func PutJump(b []byte, d int32) int {
	b[0] = OpJump
	binary.LittleEndian.PutUint32(b[1:], uint32(d))
	return JumpLen
}

// PutShortJump writes a short jump with displacement d into b.
func PutShortJump(b []byte, d int8) int {
	b[0] = OpShortJump
	b[1] = uint8(d)
	return ShortJumpLen
}
