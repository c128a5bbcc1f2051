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


// Package limiter decides when the next frame or simulation tick is due.
//
// A limiter is given the current reading of a Timer and reports whether a
// tick boundary has been reached since the previous update. Boundaries are
// at exact multiples of the rate, which is a Rational, so that no amount of
// running time causes the schedule to drift:
//
//	count = floor(time * num / (frequency * den))
//
// Fixed has a rate that never changes. Variable allows the rate to be
// changed at any time without the phase of the schedule being reset.
// MenuAnim is a Variable that also starts a new schedule whenever the
// animation it is pacing changes.
//
// A limiter never sleeps or blocks. Callers that want to wait for the next
// boundary can use NextUpdate() to find out how long to wait for.
//
// None of the types in this package are safe for concurrent use.
package limiter
