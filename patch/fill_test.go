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

package patch_test

import (
	"testing"

	"github.com/jetsetilly/framepace/patch"
	"github.com/jetsetilly/framepace/test"
	"github.com/jetsetilly/framepace/x86"
)

// decodeFill checks that b is a sequence of valid no-op instructions, or a
// jump to the end of b followed by anything that decodes. returns the number
// of instructions executed
func decodeFill(t *testing.T, b []byte) int {
	t.Helper()

	var executed int
	i := 0
	for i < len(b) {
		ins, err := x86.Decode(b[i:])
		if err != nil {
			t.Fatalf("gap of %d: %v", len(b), err)
		}
		executed++

		switch ins.Kind {
		case x86.Nops:
			i += ins.Len
		case x86.Jump, x86.ShortJump:
			target := i + ins.Len + int(ins.Displacement)
			test.DemandEquality(t, target, len(b), "jump target", len(b))

			// skipped bytes must still be valid instructions
			for j := i + ins.Len; j < len(b); j++ {
				test.DemandEquality(t, b[j], uint8(x86.OpNop))
			}
			return executed
		default:
			t.Fatalf("gap of %d: unexpected instruction (%s)", len(b), ins)
		}
	}

	test.DemandEquality(t, i, len(b), "instructions overrun gap", len(b))
	return executed
}

func TestFill(t *testing.T) {
	for gap := 0; gap <= 300; gap++ {
		// surround the gap with guard bytes to catch overruns
		b := make([]byte, gap+2)
		b[0] = 0xcc
		b[len(b)-1] = 0xcc
		patch.Fill(b[1 : len(b)-1])
		test.ExpectEquality(t, b[0], uint8(0xcc))
		test.ExpectEquality(t, b[len(b)-1], uint8(0xcc))

		decodeFill(t, b[1:len(b)-1])
	}
}

func TestFillBoundaries(t *testing.T) {
	type expect struct {
		gap      int
		first    x86.Kind
		executed int
	}

	for _, e := range []expect{
		{gap: 0, executed: 0},
		{gap: 1, first: x86.Nops, executed: 1},
		{gap: 2, first: x86.Nops, executed: 1},
		{gap: 3, first: x86.Nops, executed: 1},
		{gap: 4, first: x86.Nops, executed: 1},
		{gap: 5, first: x86.Nops, executed: 1},
		{gap: 6, first: x86.Nops, executed: 1},
		{gap: 7, first: x86.Nops, executed: 1},
		{gap: 8, first: x86.Nops, executed: 1},
		{gap: 32, first: x86.Nops, executed: 4},
		{gap: 33, first: x86.Nops, executed: 5},
		{gap: 40, first: x86.Nops, executed: 5},
		{gap: 41, first: x86.ShortJump, executed: 1},
		{gap: 129, first: x86.ShortJump, executed: 1},
		{gap: 130, first: x86.Jump, executed: 1},
	} {
		b := make([]byte, e.gap)
		patch.Fill(b)
		test.ExpectEquality(t, decodeFill(t, b), e.executed, "gap", e.gap)
		if e.gap > 0 {
			ins, err := x86.Decode(b)
			test.ExpectSuccess(t, err)
			test.ExpectEquality(t, ins.Kind, e.first, "gap", e.gap)
		}
	}
}
