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


package unit

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/fixed"
	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/tracker"
)

// Sentinal error patterns.
const (
	UnknownBuild = "unit: unknown build: %s"
	BadLayout    = "unit: bad layout: %s: %s"
	UnknownKind  = "unit: unknown kind %d in build %s"
	ReadFailed   = "unit: cannot read unit at %#08x: %v"
)

// Sample is the normalised state of a unit.
type Sample struct {
	Key    tracker.Key
	Pos    fixed.Point
	Target tracker.Target
}

// Adapter reads a Sample from a unit record in memory.
type Adapter interface {
	Build() string
	Sample(win memory.Window, addr uintptr) (Sample, error)
}

// MaxRecordLen is the largest unit record a Layout can describe.
const MaxRecordLen = 256

// Layout is the position of each field in a unit record of one build of the
// host. Offsets are from the start of the record. Every field is little
// endian.
type Layout struct {
	// version tag of the build
	Tag string

	// number of bytes that need to be read to cover every field
	Len int

	// 16 bit kind code. the code is an index into Kinds
	Kind  int
	Kinds []tracker.Kind

	// 32 bit unit ID
	ID int

	// 16.16 fixed point position
	PosX int
	PosY int

	// target position in whole units. builds either store the target as
	// two 16 bit values or as two 32 bit values
	TargetX    int
	TargetY    int
	TargetWide bool
}

// Validate checks that every field lies inside the record.
func (l *Layout) Validate() error {
	if l.Tag == "" {
		return curated.Errorf(BadLayout, "(none)", "no version tag")
	}
	if l.Len <= 0 || l.Len > MaxRecordLen {
		return curated.Errorf(BadLayout, l.Tag, fmt.Sprintf("record length %d", l.Len))
	}
	if len(l.Kinds) == 0 {
		return curated.Errorf(BadLayout, l.Tag, "no kinds")
	}

	tw := 2
	if l.TargetWide {
		tw = 4
	}

	fields := []struct {
		name  string
		off   int
		width int
	}{
		{"kind", l.Kind, 2},
		{"id", l.ID, 4},
		{"x", l.PosX, 4},
		{"y", l.PosY, 4},
		{"target x", l.TargetX, tw},
		{"target y", l.TargetY, tw},
	}

	for _, f := range fields {
		if f.off < 0 || f.off+f.width > l.Len {
			return curated.Errorf(BadLayout, l.Tag, fmt.Sprintf("%s field at %d is outside record", f.name, f.off))
		}
	}

	return nil
}

// Build implements the Adapter interface.
func (l *Layout) Build() string {
	return l.Tag
}

// Sample implements the Adapter interface. The layout must be valid.
func (l *Layout) Sample(win memory.Window, addr uintptr) (Sample, error) {
	var b [MaxRecordLen]byte
	rec := b[:l.Len]

	if err := win.Read(addr, rec); err != nil {
		return Sample{}, curated.Errorf(ReadFailed, addr, err)
	}

	code := binary.LittleEndian.Uint16(rec[l.Kind:])
	if int(code) >= len(l.Kinds) {
		return Sample{}, curated.Errorf(UnknownKind, code, l.Tag)
	}

	s := Sample{
		Key: tracker.Key{
			Kind: l.Kinds[code],
			ID:   binary.LittleEndian.Uint32(rec[l.ID:]),
		},
		Pos: fixed.Point{
			X: fixed.Linear(binary.LittleEndian.Uint32(rec[l.PosX:])),
			Y: fixed.Linear(binary.LittleEndian.Uint32(rec[l.PosY:])),
		},
	}

	if l.TargetWide {
		s.Target.X = binary.LittleEndian.Uint32(rec[l.TargetX:])
		s.Target.Y = binary.LittleEndian.Uint32(rec[l.TargetY:])
	} else {
		s.Target.X = uint32(binary.LittleEndian.Uint16(rec[l.TargetX:]))
		s.Target.Y = uint32(binary.LittleEndian.Uint16(rec[l.TargetY:]))
	}

	return s, nil
}

// Encode writes the sample into rec using the layout. It is the inverse of
// Sample() and is used to build synthetic unit records.
func (l *Layout) Encode(rec []byte, s Sample) error {
	if len(rec) < l.Len {
		return curated.Errorf(BadLayout, l.Tag, fmt.Sprintf("record of %d bytes is too short", len(rec)))
	}

	code := -1
	for i, k := range l.Kinds {
		if k == s.Key.Kind {
			code = i
			break
		}
	}
	if code == -1 {
		return curated.Errorf(BadLayout, l.Tag, fmt.Sprintf("kind %s has no code", s.Key.Kind))
	}

	binary.LittleEndian.PutUint16(rec[l.Kind:], uint16(code))
	binary.LittleEndian.PutUint32(rec[l.ID:], s.Key.ID)
	binary.LittleEndian.PutUint32(rec[l.PosX:], uint32(s.Pos.X))
	binary.LittleEndian.PutUint32(rec[l.PosY:], uint32(s.Pos.Y))

	if l.TargetWide {
		binary.LittleEndian.PutUint32(rec[l.TargetX:], s.Target.X)
		binary.LittleEndian.PutUint32(rec[l.TargetY:], s.Target.Y)
	} else {
		binary.LittleEndian.PutUint16(rec[l.TargetX:], uint16(s.Target.X))
		binary.LittleEndian.PutUint16(rec[l.TargetY:], uint16(s.Target.Y))
	}

	return nil
}

// Adapters maps the version tag of a build to the adapter for that build.
type Adapters map[string]Adapter

// Add validates a layout and adds it to the list of adapters.
func (a Adapters) Add(l *Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	a[l.Tag] = l
	return nil
}

// Select returns the adapter for the build.
func (a Adapters) Select(build string) (Adapter, error) {
	if ad, ok := a[build]; ok {
		return ad, nil
	}
	return nil, curated.Errorf(UnknownBuild, build)
}

// Builds returns the sorted list of builds with an adapter.
func (a Adapters) Builds() []string {
	b := make([]string, 0, len(a))
	for k := range a {
		b = append(b, k)
	}
	sort.Strings(b)
	return b
}
