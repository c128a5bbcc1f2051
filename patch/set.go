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
	"github.com/jetsetilly/framepace/logger"
	"github.com/jetsetilly/framepace/memory"
)

// Set is a list of applied patches that are treated as a unit.
type Set struct {
	applied []*Applied
}

// ApplyAll verifies every descriptor and only if they all match, applies them
// in order. If any descriptor fails to apply then those already applied are
// reverted in reverse order and the error is returned. Either every patch is
// in place or none are.
func ApplyAll(win memory.Window, base uintptr, reloc int64, descriptors []*Descriptor) (*Set, error) {
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if err := d.Verify(win, base, reloc); err != nil {
			return nil, err
		}
	}

	s := &Set{
		applied: make([]*Applied, 0, len(descriptors)),
	}

	for _, d := range descriptors {
		a, err := d.Apply(win, base, reloc)
		if err != nil {
			if rerr := s.Revert(win); rerr != nil {
				logger.Log(logger.Allow, "patch", rerr)
			}
			return nil, err
		}
		s.applied = append(s.applied, a)
	}

	return s, nil
}

// Len returns the number of patches in the set.
func (s *Set) Len() int {
	return len(s.applied)
}

// Applied returns the applied patch at index i.
func (s *Set) Applied(i int) *Applied {
	return s.applied[i]
}

// Revert every patch in the set in reverse order. Reverting continues even if
// one of the patches fails to revert. The first error is returned. The set
// is empty afterwards.
func (s *Set) Revert(win memory.Window) error {
	var first error
	for i := len(s.applied) - 1; i >= 0; i-- {
		if err := s.applied[i].Revert(win); err != nil {
			logger.Log(logger.Allow, "patch", err)
			if first == nil {
				first = err
			}
		}
	}
	s.applied = s.applied[:0]
	return first
}
