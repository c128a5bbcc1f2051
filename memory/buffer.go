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

package memory

import (
	"github.com/jetsetilly/framepace/curated"
)

// BufferPageSize is the page size of a Buffer.
const BufferPageSize = 0x1000

// Buffer is a simulated module image. It has a load address and page level
// protection which is enforced on Read() and Write().
type Buffer struct {
	base  uintptr
	data  []byte
	pages []Protection

	// Deny is consulted by Protect(). if it returns true the protection
	// change is refused
	Deny func(addr uintptr, n int, prot Protection) bool
}

// NewBuffer creates a Buffer loaded at base containing a copy of image. The
// pages are initially protected with prot.
func NewBuffer(base uintptr, image []byte, prot Protection) *Buffer {
	b := &Buffer{
		base: base,
		data: make([]byte, len(image)),
	}
	copy(b.data, image)

	n := (len(image) + BufferPageSize - 1) / BufferPageSize
	b.pages = make([]Protection, n)
	for i := range b.pages {
		b.pages[i] = prot
	}

	return b
}

// Base returns the load address of the buffer.
func (b *Buffer) Base() uintptr {
	return b.base
}

// Len returns the size of the buffer in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns a copy of the entire buffer.
func (b *Buffer) Bytes() []byte {
	c := make([]byte, len(b.data))
	copy(c, b.data)
	return c
}

// Protection returns the current protection of the page containing addr.
func (b *Buffer) Protection(addr uintptr) Protection {
	i, err := b.index(addr, 1)
	if err != nil {
		return NoAccess
	}
	return b.pages[i/BufferPageSize]
}

// index returns the offset into data of addr after checking that n bytes
// from that address are in the buffer.
func (b *Buffer) index(addr uintptr, n int) (int, error) {
	if addr < b.base || n < 0 || addr-b.base+uintptr(n) > uintptr(len(b.data)) {
		return 0, curated.Errorf(OutOfBounds, addr, n)
	}
	return int(addr - b.base), nil
}

// Read implements the Window interface.
func (b *Buffer) Read(addr uintptr, p []byte) error {
	i, err := b.index(addr, len(p))
	if err != nil {
		return err
	}
	for j := i; j < i+len(p); j++ {
		if !b.pages[j/BufferPageSize].Readable() {
			return curated.Errorf(NotReadable, b.base+uintptr(j))
		}
	}
	copy(p, b.data[i:])
	return nil
}

// Write implements the Window interface.
func (b *Buffer) Write(addr uintptr, p []byte) error {
	i, err := b.index(addr, len(p))
	if err != nil {
		return err
	}
	for j := i; j < i+len(p); j++ {
		if !b.pages[j/BufferPageSize].Writable() {
			return curated.Errorf(NotWritable, b.base+uintptr(j))
		}
	}
	copy(b.data[i:], p)
	return nil
}

// Poke writes to the buffer regardless of page protection. For use when
// building a simulated image.
func (b *Buffer) Poke(addr uintptr, p []byte) error {
	i, err := b.index(addr, len(p))
	if err != nil {
		return err
	}
	copy(b.data[i:], p)
	return nil
}

// Protect implements the Window interface.
func (b *Buffer) Protect(addr uintptr, n int, prot Protection) (Guard, error) {
	i, err := b.index(addr, n)
	if err != nil {
		return nil, curated.Errorf(ProtectionFailed, addr, n, err)
	}

	if b.Deny != nil && b.Deny(addr, n, prot) {
		return nil, curated.Errorf(ProtectionFailed, addr, n, "denied")
	}

	first := i / BufferPageSize
	last := first
	if n > 0 {
		last = (i + n - 1) / BufferPageSize
	}

	g := &bufferGuard{
		buf:   b,
		first: first,
		old:   make([]Protection, last-first+1),
	}
	copy(g.old, b.pages[first:last+1])

	for p := first; p <= last; p++ {
		b.pages[p] = prot
	}

	return g, nil
}

type bufferGuard struct {
	buf      *Buffer
	first    int
	old      []Protection
	restored bool
}

// Restore implements the Guard interface.
func (g *bufferGuard) Restore() error {
	if g.restored {
		return nil
	}
	g.restored = true
	copy(g.buf.pages[g.first:], g.old)
	return nil
}
