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


// Package pacing is the attach context that ties the patch engine, the
// entity tracker and the rate limiters together inside the host process.
//
// Attach() applies a set of patches and returns the Context. Only one
// Context can be attached at a time. The patched code in the host calls the
// hot path methods of the Context from the host's own threads:
//
//	BeginRender()    whether to draw a frame now, and the frame's fraction
//	EntityPosition() where to draw an entity in the current frame
//	GameTick()       whether a simulation tick is due
//	RecordEntity()   the authoritative position of an entity after a tick
//	RecordUnit()     as RecordEntity() but reading the host's unit record
//	MenuFrame()      whether to advance a menu animation
//
// Every hot path method takes the Context's lock for its whole duration.
// The window message handlers TrySetForeground() and TrySetRefresh() never
// wait for the lock. If it is held they do nothing and return false.
//
// A panic in any hot path method is recovered and logged. The method then
// returns a value that leaves the host behaving as if it were not patched.
package pacing
