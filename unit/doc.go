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


// Package unit reads the position of game entities out of the host's own
// unit records.
//
// The layout of a unit record differs between builds of the host. Each
// supported build is described by a Layout, which gives the offset of every
// field the tracker needs. A Layout is an Adapter, and the Adapters type
// selects the adapter for a build by its version tag when the pacing context
// is attached:
//
//	a, err := adapters.Select("1.14d")
//	s, err := a.Sample(win, unitAddr)
//
// Every adapter produces the same normalised Sample, so nothing outside this
// package needs to know about the differences between builds.
package unit
