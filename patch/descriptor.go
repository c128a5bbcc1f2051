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
	"fmt"

	"github.com/jetsetilly/framepace/curated"
)

// MinLen is the shortest patch site supported. It is the length of the near
// call instruction.
const MinLen = 5

// PayloadKind says what a patch site is overwritten with.
type PayloadKind int

// List of valid PayloadKind values.
const (
	// nothing is written. the entire site is filled with no-ops
	Empty PayloadKind = iota

	// a near call to a function
	CallTarget

	// raw bytes are copied to the start of the site
	RawBytes
)

// Payload is what replaces the verified code at a patch site.
type Payload struct {
	Kind   PayloadKind
	Target uintptr
	Bytes  []byte
}

// Call returns a Payload that calls target.
func Call(target uintptr) Payload {
	return Payload{Kind: CallTarget, Target: target}
}

// Raw returns a Payload that copies b to the patch site.
func Raw(b []byte) Payload {
	return Payload{Kind: RawBytes, Bytes: b}
}

// NoPayload returns a Payload that writes nothing. The patch site is filled
// with no-ops.
func NoPayload() Payload {
	return Payload{Kind: Empty}
}

// Len returns the number of bytes the payload occupies.
func (p Payload) Len() int {
	switch p.Kind {
	case CallTarget:
		return MinLen
	case RawBytes:
		return len(p.Bytes)
	}
	return 0
}

func (p Payload) String() string {
	switch p.Kind {
	case CallTarget:
		return fmt.Sprintf("call %#08x", p.Target)
	case RawBytes:
		return fmt.Sprintf("raw % 02x", p.Bytes)
	}
	return "empty"
}

// Descriptor is a static description of a single patch site. Descriptors are
// created once from tables of known builds and are never modified.
type Descriptor struct {
	// name is used in log entries and error messages
	Name string

	// offset of the patch site from the load address of the module
	Offset uintptr

	// length of the patch site in bytes
	Len int

	// fingerprint of the expected code, as returned by Fingerprint() for the
	// code as it was recorded
	Fingerprint uint32

	// how each unit of the site is treated when fingerprinting
	Control ControlStream

	// what to write to the site
	Payload Payload
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s +%#x [%d] %s", d.Name, d.Offset, d.Len, d.Payload)
}

// Validate checks that the descriptor is well formed. It does not look at any
// memory.
func (d *Descriptor) Validate() error {
	if d.Len < MinLen {
		return fmtBadDescriptor(d, "site is shorter than %d bytes", MinLen)
	}
	if d.Payload.Len() > d.Len {
		return fmtBadDescriptor(d, "payload is longer than the site (%d > %d)", d.Payload.Len(), d.Len)
	}

	// walk the control stream as the fingerprint would to make sure that
	// relocatable units fit and that no reserved values are used
	i := 0
	for unit := 0; i < d.Len; unit++ {
		switch d.Control.At(unit) {
		case Relocatable32:
			if i+4 > d.Len {
				return fmtBadDescriptor(d, "relocatable unit %d extends beyond the site", unit)
			}
			i += 4
		case Literal, ZeroMasked:
			i++
		default:
			return fmtBadDescriptor(d, "reserved control value at unit %d", unit)
		}
	}

	return nil
}

func fmtBadDescriptor(d *Descriptor, detail string, args ...interface{}) error {
	return curated.Errorf(BadDescriptor, d.Name, fmt.Sprintf(detail, args...))
}
