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
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/framepace/fixed"
)

// Slot is a snapshot of a single occupied slot in the table.
type Slot struct {
	Index    int
	Key      string
	Distance int
	Active   bool
	Real     fixed.Point
	Delta    fixed.Vector
}

// Snapshot returns a copy of every occupied slot in slot order.
func (tbl *Table) Snapshot() []Slot {
	s := make([]Slot, 0, tbl.count)
	for i, b := range tbl.buckets {
		if b.dist == empty {
			continue
		}
		s = append(s, Slot{
			Index:    i,
			Key:      b.key().String(),
			Distance: int(b.dist),
			Active:   tbl.isActive(i),
			Real:     tbl.records[i].Real,
			Delta:    tbl.records[i].Delta,
		})
	}
	return s
}

// Dump writes a graphviz description of the occupied slots to w.
func (tbl *Table) Dump(w io.Writer) {
	s := tbl.Snapshot()
	memviz.Map(w, &s)
}
