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

import "fmt"

// Kind is the category of an entity. The host keeps separate ID spaces for
// each category so the same ID can appear under more than one kind.
type Kind uint16

// List of valid Kind values.
const (
	Pc Kind = iota
	Npc
	Object
	Missile
	Item
	Tile
)

// NumKinds is the number of valid Kind values.
const NumKinds = 6

func (k Kind) String() string {
	switch k {
	case Pc:
		return "pc"
	case Npc:
		return "npc"
	case Object:
		return "object"
	case Missile:
		return "missile"
	case Item:
		return "item"
	case Tile:
		return "tile"
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// Key identifies an entity.
type Key struct {
	Kind Kind
	ID   uint32
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// seed is the value the ideal bucket of a key is taken from. the kind is
// shifted into the high bits so that the low IDs of each kind, which are the
// most common, start in different parts of the table
func (k Key) seed() uint32 {
	return uint32(k.Kind)<<9 ^ k.ID
}
