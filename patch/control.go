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
	"strings"

	"github.com/jetsetilly/framepace/curated"
)

// Control tells the fingerprinting process how to treat one unit of a patch
// site.
type Control uint8

// List of valid Control values. The numeric values are part of the packed
// control stream format.
const (
	// the byte is folded into the fingerprint unchanged
	Literal Control = iota

	// the byte is consumed but zero is folded into the fingerprint
	ZeroMasked

	// the next four bytes are a little-endian 32 bit address. the relocation
	// distance is subtracted before the four bytes are folded
	Relocatable32

	reserved
)

func (c Control) String() string {
	switch c {
	case Literal:
		return "L"
	case ZeroMasked:
		return "Z"
	case Relocatable32:
		return "R"
	}
	return "?"
}

// ControlsPerWord is the number of units packed into one word of a control
// stream.
const ControlsPerWord = 16

// ControlStream is a packed sequence of Control values, two bits per unit,
// sixteen units to a word. The first unit is in the least significant bits of
// the first word. Units beyond the end of the stream are Literal.
type ControlStream []uint32

// At returns the Control value of unit i.
func (cs ControlStream) At(i int) Control {
	w := i / ControlsPerWord
	if w >= len(cs) {
		return Literal
	}
	return Control((cs[w] >> ((i % ControlsPerWord) * 2)) & 0x03)
}

// Units returns the number of units the stream can hold, including any
// padding units in the final word.
func (cs ControlStream) Units() int {
	return len(cs) * ControlsPerWord
}

// String returns the stream in the same form as accepted by ParseControl().
// Trailing Literal units are not shown.
func (cs ControlStream) String() string {
	s := strings.Builder{}
	n := cs.Units()
	for n > 0 && cs.At(n-1) == Literal {
		n--
	}
	for i := 0; i < n; i++ {
		s.WriteString(cs.At(i).String())
	}
	return s.String()
}

// NewControlStream packs a list of Control values into a ControlStream.
func NewControlStream(controls ...Control) ControlStream {
	cs := make(ControlStream, (len(controls)+ControlsPerWord-1)/ControlsPerWord)
	for i, c := range controls {
		cs[i/ControlsPerWord] |= uint32(c&0x03) << ((i % ControlsPerWord) * 2)
	}
	return cs
}

// ParseControl builds a ControlStream from a string. Each character is one
// unit: 'L' is Literal, 'Z' is ZeroMasked and 'R' is Relocatable32. Spaces
// and underscores are ignored and can be used to make the string easier to
// read. Case is not significant.
//
// For example, the control stream for "mov eax,[abs32]; push eax" is
//
//	"L R L"
func ParseControl(s string) (ControlStream, error) {
	var c []Control
	for _, r := range s {
		switch r {
		case 'L', 'l':
			c = append(c, Literal)
		case 'Z', 'z':
			c = append(c, ZeroMasked)
		case 'R', 'r':
			c = append(c, Relocatable32)
		case ' ', '_', '\t':
		default:
			return nil, curated.Errorf(BadControl, r)
		}
	}
	return NewControlStream(c...), nil
}
