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


package limiter

import (
	"fmt"
	"math"
	"math/bits"
)

// Rational is a rate in ticks per second. A rate with a zero numerator is
// uncapped: every call to UpdateTime() is an update.
type Rational struct {
	Num uint64
	Den uint64
}

// Uncapped is the rate with no limit.
var Uncapped = Rational{Num: 0, Den: 1}

// IsUncapped returns true if the rate has no limit.
func (r Rational) IsUncapped() bool {
	return r.Num == 0 || r.Den == 0
}

func (r Rational) String() string {
	if r.IsUncapped() {
		return "uncapped"
	}
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float returns the rate as a floating point number. The value is for
// display only.
func (r Rational) Float() float64 {
	if r.IsUncapped() {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// reduced returns the rate in lowest terms.
func (r Rational) reduced() Rational {
	if r.IsUncapped() {
		return Uncapped
	}
	g := gcd(r.Num, r.Den)
	return Rational{Num: r.Num / g, Den: r.Den / g}
}

// period is the tick schedule for a single rate and timer frequency. every
// product is formed in 128 bits so that no timer reading or tick count
// overflows
type period struct {
	num uint64

	// timer frequency multiplied by the rate's denominator
	scale uint64
}

func newPeriod(rate Rational, freq uint64) (period, error) {
	if rate.IsUncapped() {
		return period{}, nil
	}

	rate = rate.reduced()

	hi, scale := bits.Mul64(freq, rate.Den)
	if hi != 0 || scale == 0 {
		return period{}, fmt.Errorf("limiter: rate %s cannot be used with timer frequency %d", rate, freq)
	}

	return period{num: rate.Num, scale: scale}, nil
}

func (p period) uncapped() bool {
	return p.num == 0
}

// count returns the number of boundaries at or before time t.
func (p period) count(t uint64) uint64 {
	hi, lo := bits.Mul64(t, p.num)
	if hi >= p.scale {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, p.scale)
	return q
}

// at returns the earliest time at which count() is n.
func (p period) at(n uint64) uint64 {
	hi, lo := bits.Mul64(n, p.scale)

	// round up
	var c uint64
	lo, c = bits.Add64(lo, p.num-1, 0)
	hi += c

	if hi >= p.num {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, p.num)
	return q
}
