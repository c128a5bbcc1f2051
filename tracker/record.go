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


package tracker

import (
	"github.com/jetsetilly/framepace/fixed"
)

// Target is where the host is moving an entity to, in whole position units.
type Target struct {
	X uint32
	Y uint32
}

// Point returns the target as a fixed point position.
func (t Target) Point() fixed.Point {
	return fixed.Point{X: fixed.FromUnits(t.X), Y: fixed.FromUnits(t.Y)}
}

// Record is the interpolation state of a single entity.
type Record struct {
	// authoritative position from the most recent simulation tick
	Real fixed.Point

	// movement expected by the next simulation tick
	Delta fixed.Vector

	// the value most recently returned by ForTime()
	LastRendered fixed.Point
}

func newRecord(pos fixed.Point) Record {
	return Record{
		Real:         pos,
		LastRendered: pos,
	}
}

// ForTime returns the position of the entity at fraction f of the way
// through the current simulation tick. The result is also stored in
// LastRendered.
func (r *Record) ForTime(f fixed.Fraction) fixed.Point {
	r.LastRendered = r.Real.Add(r.Delta.Scale(f))
	return r.LastRendered
}

// update record with a new authoritative position. the expected movement is
// the movement since the last update, but never so large that it would carry
// the entity beyond its target.
func (r *Record) update(pos fixed.Point, target Target) {
	t := target.Point()
	r.Delta = fixed.Vector{
		X: step(r.Real.X, pos.X, t.X),
		Y: step(r.Real.Y, pos.Y, t.Y),
	}
	r.Real = pos
}

// step on a single axis. old and new are successive positions and target is
// the position being moved towards.
func step(old, new, target fixed.Linear) fixed.Delta {
	d := new.Sub(old)
	rem := target.Sub(new)

	switch {
	case d > 0:
		if rem <= 0 {
			return 0
		}
		if d > rem {
			return rem
		}
	case d < 0:
		if rem >= 0 {
			return 0
		}
		if d < rem {
			return rem
		}
	}

	return d
}
