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


// Package tracker remembers the position of every entity the host has moved
// since the last simulation tick, so that render frames between ticks can
// place entities part way towards where they are going.
//
// Entities are identified by a Key, which is a Kind and an ID. Each key maps
// to a Record holding the authoritative position from the most recent tick,
// the movement expected over the next tick and the position last handed to
// the renderer.
//
// The Table has a fixed capacity chosen when it is created and never
// allocates after that. It is an open addressing table using linear probing
// and Robin Hood placement. Entries that were not updated between two calls
// to ClearUnused() are removed by the second call.
//
// The package is not safe for concurrent use. The pacing package serialises
// access with its own lock.
package tracker
