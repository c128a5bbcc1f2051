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

import "fmt"

// Sentinal error patterns.
const (
	OutOfBounds      = "memory: range %#08x+%d out of bounds"
	NotReadable      = "memory: %#08x is not readable"
	NotWritable      = "memory: %#08x is not writable"
	ProtectionFailed = "memory: cannot change protection of %#08x+%d: %v"
)

// Protection of a range of memory.
type Protection int

// List of valid Protection values.
const (
	NoAccess Protection = iota
	Read
	ReadExecute
	ReadWriteExecute
)

func (p Protection) String() string {
	switch p {
	case NoAccess:
		return "---"
	case Read:
		return "r--"
	case ReadExecute:
		return "r-x"
	case ReadWriteExecute:
		return "rwx"
	}
	return fmt.Sprintf("protection(%d)", int(p))
}

// Readable returns true if memory with this protection can be read.
func (p Protection) Readable() bool {
	return p >= Read
}

// Writable returns true if memory with this protection can be written.
func (p Protection) Writable() bool {
	return p == ReadWriteExecute
}

// Guard is returned by Window.Protect(). Restore() puts back the protection
// that was in place before the Protect() call. Calling Restore() more than
// once has no further effect.
type Guard interface {
	Restore() error
}

// Window is a view onto the memory of a process.
type Window interface {
	// Read fills p with the memory starting at addr.
	Read(addr uintptr, p []byte) error

	// Write copies p to the memory starting at addr.
	Write(addr uintptr, p []byte) error

	// Protect changes the protection of the n bytes starting at addr. The
	// range is extended to whole pages if necessary.
	Protect(addr uintptr, n int, prot Protection) (Guard, error)
}

// pageRange returns the page aligned start and length that covers n bytes
// from addr.
func pageRange(addr uintptr, n int, pageSize uintptr) (uintptr, uintptr) {
	start := addr &^ (pageSize - 1)
	end := (addr + uintptr(n) + pageSize - 1) &^ (pageSize - 1)
	return start, end - start
}
