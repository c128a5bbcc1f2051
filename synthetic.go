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


package main

import (
	"bytes"
	"fmt"

	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/patch"
	"github.com/jetsetilly/framepace/tracker"
	"github.com/jetsetilly/framepace/unit"
)

// the synthetic module stands in for the host executable in VERIFY and SIM
// modes. it contains three patch sites, a region for injected code and a
// table of unit records.

// load address the site fingerprints were recorded at.
const recordedBase = 0x00400000

const (
	moduleLen  = 0x4000
	hookOffset = 0x1800
	unitOffset = 0x2000
	unitStride = 0x40
	maxUnits   = (moduleLen - unitOffset) / unitStride
)

type syntheticSite struct {
	name    string
	offset  uintptr
	code    []byte
	control string

	// payload for a module loaded at base
	payload func(base uintptr) patch.Payload
}

var syntheticSites = []syntheticSite{
	{
		// mov eax,[0x00412345]; push eax; call [0x00413000]; int3 x4
		name:    "present frame",
		offset:  0x1100,
		code:    []byte{0xa1, 0x45, 0x23, 0x41, 0x00, 0x50, 0xff, 0x15, 0x00, 0x30, 0x41, 0x00, 0xcc, 0xcc, 0xcc, 0xcc},
		control: "LR L LL R ZZZZ",
		payload: func(base uintptr) patch.Payload {
			return patch.Call(base + hookOffset)
		},
	},
	{
		// push ebp; mov ebp,esp; sub esp,0x10; mov ecx,[ebp+8]; call rel32; test eax,eax; je +0x10
		name:    "game tick",
		offset:  0x1200,
		code:    []byte{0x55, 0x8b, 0xec, 0x83, 0xec, 0x10, 0x8b, 0x4d, 0x08, 0xe8, 0xf2, 0x00, 0x00, 0x00, 0x85, 0xc0, 0x74, 0x10},
		control: "",
		payload: func(base uintptr) patch.Payload {
			return patch.Call(base + hookOffset + 0x10)
		},
	},
	{
		// push 1000; call [0x00413004]; followed by alignment padding
		name:    "menu sleep",
		offset:  0x1300,
		code:    append([]byte{0x68, 0xe8, 0x03, 0x00, 0x00, 0xff, 0x15, 0x04, 0x30, 0x41, 0x00}, bytes.Repeat([]byte{0xcc}, 53)...),
		control: "LLLLL LL R" + string(bytes.Repeat([]byte{'Z'}, 53)),
		payload: func(_ uintptr) patch.Payload {
			return patch.NoPayload()
		},
	},
}

// syntheticDescriptors returns descriptors for the synthetic module loaded
// at base.
func syntheticDescriptors(base uintptr) ([]*patch.Descriptor, error) {
	descs := make([]*patch.Descriptor, 0, len(syntheticSites))
	for _, s := range syntheticSites {
		cs, err := patch.ParseControl(s.control)
		if err != nil {
			return nil, err
		}

		fp, err := patch.Fingerprint(s.code, cs, 0)
		if err != nil {
			return nil, err
		}

		descs = append(descs, &patch.Descriptor{
			Name:        s.name,
			Offset:      s.offset,
			Len:         len(s.code),
			Fingerprint: fp,
			Control:     cs,
			Payload:     s.payload(base),
		})
	}
	return descs, nil
}

// syntheticModule returns the synthetic module as the loader would leave it
// at base.
func syntheticModule(base uintptr) (*memory.Buffer, error) {
	img := bytes.Repeat([]byte{0xcc}, moduleLen)

	reloc := int64(base) - recordedBase
	for _, s := range syntheticSites {
		cs, err := patch.ParseControl(s.control)
		if err != nil {
			return nil, err
		}
		code, err := patch.Relocate(s.code, cs, reloc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		copy(img[s.offset:], code)
	}

	// injected code. each hook returns straight away
	for i := hookOffset; i < hookOffset+0x20; i += 0x10 {
		img[i] = 0xc3
	}

	// unit records are data
	clear(img[unitOffset:])

	return memory.NewBuffer(base, img, memory.ReadExecute), nil
}

// unit record layouts of the two synthetic builds.
func syntheticAdapters() (unit.Adapters, error) {
	kinds := []tracker.Kind{tracker.Pc, tracker.Npc, tracker.Object, tracker.Missile, tracker.Item, tracker.Tile}

	a := make(unit.Adapters)

	err := a.Add(&unit.Layout{
		Tag:     "1.0",
		Len:     0x20,
		Kind:    0x00,
		Kinds:   kinds,
		ID:      0x04,
		PosX:    0x08,
		PosY:    0x0c,
		TargetX: 0x10,
		TargetY: 0x12,
	})
	if err != nil {
		return nil, err
	}

	err = a.Add(&unit.Layout{
		Tag:        "1.1",
		Len:        0x40,
		Kind:       0x02,
		Kinds:      kinds,
		ID:         0x0c,
		PosX:       0x20,
		PosY:       0x24,
		TargetX:    0x30,
		TargetY:    0x34,
		TargetWide: true,
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}
