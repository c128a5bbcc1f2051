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
	"math/bits"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/fixed"
)

// Sentinal error patterns.
const (
	CapacityExceeded = "tracker: capacity exceeded: table of %d slots cannot hold %d entries"
	BadCapacity      = "tracker: bad capacity: %d"
)

// DefaultCapacity is the number of slots in a table created by the pacing
// context.
const DefaultCapacity = 2048

// MaxCapacity is the largest number of slots a table can have. Probe
// distances are stored in 16 bits.
const MaxCapacity = 1 << 15

// a bucket with a dist of empty is unoccupied.
const empty = -1

type bucket struct {
	kind uint16
	id   uint32

	// how far the entry is from its ideal slot
	dist int16
}

func (b bucket) key() Key {
	return Key{Kind: Kind(b.kind), ID: b.id}
}

func (b bucket) matches(key Key) bool {
	return b.kind == uint16(key.Kind) && b.id == key.ID
}

// Table is a fixed capacity map of Key to Record.
//
// One slot is always left unoccupied so that at most Capacity()-1 entries
// can be held. An insertion that would use the final slot fails with
// CapacityExceeded.
type Table struct {
	buckets []bucket

	// records are kept in lock step with buckets. when an entry moves
	// between slots its record moves with it
	records []Record

	// one bit per slot. set by InsertOrUpdate() and cleared by
	// ClearUnused()
	active []uint64

	count int
}

// NewTable is the preferred method of initialisation for the Table type.
func NewTable(capacity int) (*Table, error) {
	if capacity < 2 || capacity > MaxCapacity {
		return nil, curated.Errorf(BadCapacity, capacity)
	}

	tbl := &Table{
		buckets: make([]bucket, capacity),
		records: make([]Record, capacity),
		active:  make([]uint64, (capacity+63)/64),
	}

	for i := range tbl.buckets {
		tbl.buckets[i].dist = empty
	}

	return tbl, nil
}

// Len returns the number of entries in the table.
func (tbl *Table) Len() int {
	return tbl.count
}

// Capacity returns the number of slots in the table.
func (tbl *Table) Capacity() int {
	return len(tbl.buckets)
}

func (tbl *Table) ideal(key Key) int {
	return int(key.seed() % uint32(len(tbl.buckets)))
}

func (tbl *Table) next(i int) int {
	i++
	if i == len(tbl.buckets) {
		return 0
	}
	return i
}

func (tbl *Table) isActive(i int) bool {
	return tbl.active[i/64]&(1<<(i%64)) != 0
}

func (tbl *Table) setActive(i int, v bool) {
	if v {
		tbl.active[i/64] |= 1 << (i % 64)
	} else {
		tbl.active[i/64] &^= 1 << (i % 64)
	}
}

// find the slot for key. if the key is in the table then found is true and
// slot is where it is. otherwise slot is where the key should be inserted
// and dist is its probe distance at that slot.
//
// the search ends early at any slot holding an entry that is closer to its
// ideal slot than the key would be. an empty slot always ends the search
// because its distance is negative, and there is always an empty slot.
func (tbl *Table) find(key Key) (slot int, dist int, found bool) {
	i := tbl.ideal(key)
	for d := 0; d < len(tbl.buckets); d++ {
		b := tbl.buckets[i]
		if int(b.dist) < d {
			return i, d, false
		}
		if b.matches(key) {
			return i, d, true
		}
		i = tbl.next(i)
	}

	// unreachable while the table has a free slot
	return -1, 0, false
}

// Get returns the record for key. The record can be modified through the
// returned pointer. The pointer is valid until the next call to
// InsertOrUpdate() or ClearUnused().
func (tbl *Table) Get(key Key) (*Record, bool) {
	i, _, found := tbl.find(key)
	if !found {
		return nil, false
	}
	return &tbl.records[i], true
}

// InsertOrUpdate sets the authoritative position of the entity. If the
// entity is already in the table its expected movement is updated. The
// entry is marked as active either way.
func (tbl *Table) InsertOrUpdate(key Key, pos fixed.Point, target Target) error {
	i, d, found := tbl.find(key)
	if found {
		tbl.records[i].update(pos, target)
		tbl.setActive(i, true)
		return nil
	}

	if tbl.count+1 >= len(tbl.buckets) {
		return curated.Errorf(CapacityExceeded, len(tbl.buckets), tbl.count+1)
	}

	// make room at slot i by shifting the chain that starts there forward
	// by one slot, as far as the next empty slot
	e := i
	for tbl.buckets[e].dist != empty {
		e = tbl.next(e)
	}
	for e != i {
		p := e - 1
		if p < 0 {
			p = len(tbl.buckets) - 1
		}
		tbl.buckets[e] = tbl.buckets[p]
		tbl.buckets[e].dist++
		tbl.records[e] = tbl.records[p]
		tbl.setActive(e, tbl.isActive(p))
		e = p
	}

	tbl.buckets[i] = bucket{kind: uint16(key.Kind), id: key.ID, dist: int16(d)}
	tbl.records[i] = newRecord(pos)
	tbl.setActive(i, true)
	tbl.count++

	return nil
}

// ClearUnused removes every entry that has not been passed to
// InsertOrUpdate() since the previous call to ClearUnused(). The remaining
// entries are moved as close to their ideal slot as possible.
func (tbl *Table) ClearUnused() {
	n := len(tbl.buckets)

	// find an empty slot to start from. entries never probe past an empty
	// slot so every entry after it has its ideal slot after it too
	s := 0
	for tbl.buckets[s].dist != empty {
		s++
	}

	// positions from here on are relative to s. free is the earliest
	// position that an entry can be moved to. every position from free up
	// to the current position is empty
	free := 1
	tbl.count = 0

	for p := 1; p < n; p++ {
		i := (s + p) % n
		b := tbl.buckets[i]

		if b.dist == empty {
			continue
		}

		if !tbl.isActive(i) {
			tbl.buckets[i].dist = empty
			tbl.records[i] = Record{}
			continue
		}

		ideal := p - int(b.dist)
		to := max(free, ideal)
		if to < p {
			j := (s + to) % n
			b.dist = int16(to - ideal)
			tbl.buckets[j] = b
			tbl.records[j] = tbl.records[i]
			tbl.buckets[i].dist = empty
			tbl.records[i] = Record{}
		}
		free = to + 1
		tbl.count++
	}

	clear(tbl.active)
}

// Range calls f for every entry in the table in slot order. Iteration stops
// early if f returns false. The table must not be changed by f except
// through the record pointer.
func (tbl *Table) Range(f func(key Key, rec *Record) bool) {
	for i, b := range tbl.buckets {
		if b.dist == empty {
			continue
		}
		if !f(b.key(), &tbl.records[i]) {
			return
		}
	}
}

// Active returns the number of entries that have been updated since the last
// call to ClearUnused().
func (tbl *Table) Active() int {
	var n int
	for _, w := range tbl.active {
		n += bits.OnesCount64(w)
	}
	return n
}
