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

//go:build windows

package memory

import (
	"golang.org/x/sys/windows"
)

func pageSize() uintptr {
	return 0x1000
}

func windowsProtection(prot Protection) uint32 {
	switch prot {
	case Read:
		return windows.PAGE_READONLY
	case ReadExecute:
		return windows.PAGE_EXECUTE_READ
	case ReadWriteExecute:
		return windows.PAGE_EXECUTE_READWRITE
	}
	return windows.PAGE_NOACCESS
}

// VirtualProtect() reports the previous protection and the guard puts back
// exactly that.
func (l *Live) protect(start uintptr, length uintptr, prot Protection) (func() error, error) {
	var old uint32
	if err := windows.VirtualProtect(start, length, windowsProtection(prot), &old); err != nil {
		return nil, err
	}
	return func() error {
		var discard uint32
		return windows.VirtualProtect(start, length, old, &discard)
	}, nil
}
