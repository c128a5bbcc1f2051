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

package patch

import (
	"github.com/jetsetilly/framepace/x86"
)

// Gaps longer than these values are skipped over with a jump rather than
// filled with multi-byte no-ops. Two different thresholds are seen in the
// host's own padding, 32 and 40 bytes. We always use 40.
const (
	ShortJumpThreshold = 40
	NearJumpThreshold  = 129
)

// Fill writes no-op instructions to every byte of b.
//
// Long gaps start with a jump over the remainder of the gap, which is then
// padded with single byte no-ops that are never executed. Shorter gaps are
// filled with 8 byte no-ops followed by a single no-op of the remaining
// length.
func Fill(b []byte) {
	gap := len(b)

	switch {
	case gap > NearJumpThreshold:
		n := x86.PutJump(b, int32(gap-x86.JumpLen))
		fillSingle(b[n:])

	case gap > ShortJumpThreshold:
		n := x86.PutShortJump(b, int8(gap-x86.ShortJumpLen))
		fillSingle(b[n:])

	default:
		i := 0
		for ; gap-i >= x86.MaxNopLen; i += x86.MaxNopLen {
			x86.PutNop(b[i:], x86.MaxNopLen)
		}
		x86.PutNop(b[i:], gap-i)
	}
}

func fillSingle(b []byte) {
	for i := range b {
		b[i] = x86.OpNop
	}
}
