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

// Package fixed contains the 16.16 fixed point types used by the host for
// entity positions, and the helpers needed to interpolate between them.
//
// Linear positions are unsigned with 16 fractional bits. Deltas are the
// signed difference between two linear positions, also with 16 fractional
// bits. A Fraction is a signed value with 16 fractional bits in the range
// [-1,1) and represents how far between two simulation ticks a render frame
// falls.
package fixed

// Shift is the number of fractional bits in every type of this package.
const Shift = 16

// One is the value 1.0 in every type of this package.
const One = 1 << Shift

// Linear is an unsigned 16.16 fixed point position.
type Linear uint32

// Delta is a signed 16.16 fixed point difference between positions.
type Delta int32

// Fraction is a signed 16.16 fixed point value in the range [-1,1).
type Fraction int32

// FromUnits converts a whole number of position units to Linear.
func FromUnits(u uint32) Linear {
	return Linear(u << Shift)
}

// Units returns the whole number part of the position.
func (l Linear) Units() uint32 {
	return uint32(l) >> Shift
}

// Sub returns the difference l-m.
func (l Linear) Sub(m Linear) Delta {
	return Delta(int32(uint32(l) - uint32(m)))
}

// Add returns l offset by d. The host wraps positions on overflow and so do
// we.
func (l Linear) Add(d Delta) Linear {
	return Linear(uint32(l) + uint32(d))
}

// Scale returns d multiplied by the fraction f.
func (d Delta) Scale(f Fraction) Delta {
	return Delta((int64(d) * int64(f)) >> Shift)
}

// Clamp limits f to the range [-1,1).
func (f Fraction) Clamp() Fraction {
	if f < -One {
		return -One
	}
	if f >= One {
		return One - 1
	}
	return f
}

// FractionOf returns n/d as a Fraction, clamped to [-1,1). A zero
// denominator gives a zero fraction.
func FractionOf(n, d int64) Fraction {
	if d == 0 {
		return 0
	}
	f := (n << Shift) / d
	if f < -One {
		return -One
	}
	if f >= One {
		return One - 1
	}
	return Fraction(f)
}

// Point is a two dimensional linear position.
type Point struct {
	X Linear
	Y Linear
}

// Vector is a two dimensional delta.
type Vector struct {
	X Delta
	Y Delta
}

// Sub returns the difference p-q.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X.Sub(q.X), Y: p.Y.Sub(q.Y)}
}

// Add returns p offset by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X.Add(v.X), Y: p.Y.Add(v.Y)}
}

// Scale returns v multiplied by the fraction f.
func (v Vector) Scale(f Fraction) Vector {
	return Vector{X: v.X.Scale(f), Y: v.Y.Scale(f)}
}
