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

//go:build unix

package memory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

func unixProtection(prot Protection) int {
	switch prot {
	case Read:
		return unix.PROT_READ
	case ReadExecute:
		return unix.PROT_READ | unix.PROT_EXEC
	case ReadWriteExecute:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	}
	return unix.PROT_NONE
}

// region of memory and the protection flags the kernel reports for it.
type region struct {
	start uintptr
	end   uintptr
	prot  int
}

// mapsProtection converts the permissions field of a maps entry, eg. "r-xp",
// to mprotect() flags.
func mapsProtection(perms string) int {
	prot := unix.PROT_NONE
	if strings.HasPrefix(perms, "r") {
		prot |= unix.PROT_READ
	}
	if len(perms) > 1 && perms[1] == 'w' {
		prot |= unix.PROT_WRITE
	}
	if len(perms) > 2 && perms[2] == 'x' {
		prot |= unix.PROT_EXEC
	}
	return prot
}

// mappedRegions reads a maps file and returns the regions covering start to
// end, clipped to that range. It is an error for any part of the range to be
// unmapped.
func mappedRegions(r io.Reader, start uintptr, end uintptr) ([]region, error) {
	var regions []region
	next := start

	sc := bufio.NewScanner(r)
	for next < end && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		lo, hi, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		a, err := strconv.ParseUint(lo, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("maps: %w", err)
		}
		b, err := strconv.ParseUint(hi, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("maps: %w", err)
		}

		if uintptr(b) <= next {
			continue
		}
		if uintptr(a) > next {
			break
		}

		rg := region{start: next, end: min(uintptr(b), end), prot: mapsProtection(fields[1])}
		regions = append(regions, rg)
		next = rg.end
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("maps: %w", err)
	}

	if next < end {
		return nil, fmt.Errorf("maps: %#x is not mapped", next)
	}

	return regions, nil
}

// previous returns the current protection of the range. Only systems with a
// /proc/self/maps file can report it.
func (l *Live) previous(start uintptr, end uintptr) ([]region, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mappedRegions(f, start, end)
}

// the guard puts back the protection reported by /proc/self/maps. where that
// is not available the Live.restore value is used for the whole range.
func (l *Live) protect(start uintptr, length uintptr, prot Protection) (func() error, error) {
	end := start + length

	previous, err := l.previous(start, end)
	if err != nil {
		previous = []region{{start: start, end: end, prot: unixProtection(l.restore)}}
	}

	if err := unix.Mprotect(l.slice(start, int(length)), unixProtection(prot)); err != nil {
		return nil, err
	}

	return func() error {
		for _, rg := range previous {
			if err := unix.Mprotect(l.slice(rg.start, int(rg.end-rg.start)), rg.prot); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
