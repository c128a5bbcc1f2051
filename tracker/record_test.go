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


package tracker_test

import (
	"testing"

	"github.com/jetsetilly/framepace/fixed"
	"github.com/jetsetilly/framepace/test"
	"github.com/jetsetilly/framepace/tracker"
)

func TestDelta(t *testing.T) {
	tbl, err := tracker.NewTable(16)
	test.DemandSuccess(t, err)

	k := tracker.Key{Kind: tracker.Npc, ID: 5}
	target := tracker.Target{X: 20, Y: 5}

	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(10, 10), target))
	rec, _ := tbl.Get(k)
	test.ExpectEquality(t, rec.Delta, fixed.Vector{})

	// moving away from the target on Y gives no expected movement
	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(12, 12), target))
	rec, _ = tbl.Get(k)
	test.ExpectEquality(t, rec.Real, units(12, 12))
	test.ExpectEquality(t, rec.Delta.X, fixed.Delta(2*fixed.One))
	test.ExpectEquality(t, rec.Delta.Y, fixed.Delta(0))

	// expected movement stops at the target
	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(19, 12), target))
	rec, _ = tbl.Get(k)
	test.ExpectEquality(t, rec.Delta.X, fixed.Delta(fixed.One))

	// at the target
	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(20, 12), target))
	rec, _ = tbl.Get(k)
	test.ExpectEquality(t, rec.Delta.X, fixed.Delta(0))
}

func TestNegativeDelta(t *testing.T) {
	tbl, err := tracker.NewTable(16)
	test.DemandSuccess(t, err)

	k := tracker.Key{Kind: tracker.Missile, ID: 1}
	target := tracker.Target{X: 0, Y: 14}

	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(30, 20), target))
	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(25, 15), target))
	rec, _ := tbl.Get(k)
	test.ExpectEquality(t, rec.Delta.X, fixed.Delta(-5*fixed.One))
	test.ExpectEquality(t, rec.Delta.Y, fixed.Delta(-fixed.One))
}

func TestForTime(t *testing.T) {
	tbl, err := tracker.NewTable(16)
	test.DemandSuccess(t, err)

	k := tracker.Key{Kind: tracker.Missile, ID: 2}
	target := tracker.Target{X: 100, Y: 0}

	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(10, 50), target))
	test.DemandSuccess(t, tbl.InsertOrUpdate(k, units(14, 40), target))
	rec, _ := tbl.Get(k)

	test.ExpectEquality(t, rec.ForTime(0), rec.Real)
	test.ExpectEquality(t, rec.LastRendered, rec.Real)

	half := rec.ForTime(fixed.One / 2)
	test.ExpectEquality(t, half, units(16, 35))
	test.ExpectEquality(t, rec.LastRendered, half)

	// positive delta on X and negative delta on Y
	prev := rec.ForTime(0)
	for f := fixed.Fraction(1); f < fixed.One; f += 97 {
		p := rec.ForTime(f)
		if p.X < prev.X {
			t.Fatalf("X is not monotonic at fraction %d", f)
		}
		if p.Y > prev.Y {
			t.Fatalf("Y is not monotonic at fraction %d", f)
		}
		prev = p
	}
}
