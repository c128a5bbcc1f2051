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
	"unsafe"

	"github.com/jetsetilly/framepace/curated"
)

// Live is a Window onto the memory of the running process. It is the window
// used when framepace is loaded into the host.
//
// Reading or writing memory that is not mapped, or that has the wrong
// protection, is not an error that can be recovered from. Callers must use
// Protect() before touching code pages.
type Live struct {
	pageSize uintptr

	// the protection to put back when a guard is restored and the previous
	// protection cannot be discovered. code pages are ReadExecute
	restore Protection
}

// NewLive is the preferred method of initialisation for the Live type.
func NewLive() *Live {
	return &Live{
		pageSize: pageSize(),
		restore:  ReadExecute,
	}
}

func (l *Live) slice(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// Read implements the Window interface.
func (l *Live) Read(addr uintptr, p []byte) error {
	if addr == 0 {
		return curated.Errorf(NotReadable, addr)
	}
	copy(p, l.slice(addr, len(p)))
	return nil
}

// Write implements the Window interface.
func (l *Live) Write(addr uintptr, p []byte) error {
	if addr == 0 {
		return curated.Errorf(NotWritable, addr)
	}
	copy(l.slice(addr, len(p)), p)
	return nil
}

// Protect implements the Window interface.
func (l *Live) Protect(addr uintptr, n int, prot Protection) (Guard, error) {
	start, length := pageRange(addr, n, l.pageSize)
	restore, err := l.protect(start, length, prot)
	if err != nil {
		return nil, curated.Errorf(ProtectionFailed, addr, n, err)
	}
	return &liveGuard{restore: restore}, nil
}

type liveGuard struct {
	restore func() error
	done    bool
}

// Restore implements the Guard interface.
func (g *liveGuard) Restore() error {
	if g.done {
		return nil
	}
	g.done = true
	return g.restore()
}
