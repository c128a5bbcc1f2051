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


package limiter_test

import (
	"math"
	"testing"

	"github.com/jetsetilly/framepace/fixed"
	"github.com/jetsetilly/framepace/limiter"
	"github.com/jetsetilly/framepace/test"
)

// count updates over a long run at a film rate. the result must match the
// exact rational prediction
func TestNoDrift(t *testing.T) {
	for _, rate := range []limiter.Rational{{Num: 24000, Den: 1001}, {Num: 23976, Den: 1000}} {
		timer := limiter.NewManualTimer(1000000)
		lmtr, err := limiter.NewFixed(timer, rate)
		test.DemandSuccess(t, err)

		const seconds = 10000
		const step = 1000

		var updates uint64
		for timer.Now() < seconds*timer.Frequency() {
			if lmtr.UpdateTime(timer.Advance(step)) {
				updates++
			}
		}

		expected := seconds * rate.Num / rate.Den
		test.ExpectEquality(t, updates, expected, rate)
		test.ExpectEquality(t, lmtr.Count(), expected, rate)
	}
}

func TestSkipsMissedBoundaries(t *testing.T) {
	timer := limiter.NewManualTimer(1000)
	lmtr, err := limiter.NewFixed(timer, limiter.Rational{Num: 10, Den: 1})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, lmtr.NextUpdate(), uint64(100))
	test.ExpectFailure(t, lmtr.UpdateTime(99))

	// five boundaries have passed but only one update is reported
	test.ExpectSuccess(t, lmtr.UpdateTime(550))
	test.ExpectEquality(t, lmtr.Count(), uint64(5))
	test.ExpectEquality(t, lmtr.LastUpdate(), uint64(550))
	test.ExpectEquality(t, lmtr.NextUpdate(), uint64(600))
	test.ExpectFailure(t, lmtr.UpdateTime(560))
	test.ExpectSuccess(t, lmtr.UpdateTime(600))
}

func TestFraction(t *testing.T) {
	timer := limiter.NewManualTimer(1000)
	lmtr, err := limiter.NewFixed(timer, limiter.Rational{Num: 10, Den: 1})
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, lmtr.UpdateTime(100))
	test.ExpectEquality(t, lmtr.Fraction(100), fixed.Fraction(0))
	test.ExpectEquality(t, lmtr.Fraction(150), fixed.Fraction(fixed.One/2))
	test.ExpectEquality(t, lmtr.Fraction(175), fixed.Fraction(fixed.One*3/4))
	test.ExpectEquality(t, lmtr.Fraction(250), fixed.Fraction(fixed.One-1))
}

func TestUncapped(t *testing.T) {
	timer := limiter.NewManualTimer(1000)
	lmtr, err := limiter.NewVariable(timer, limiter.Uncapped)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, lmtr.UpdateTime(0))
	test.ExpectSuccess(t, lmtr.UpdateTime(0))
	test.ExpectSuccess(t, lmtr.UpdateTime(1))
	test.ExpectEquality(t, lmtr.Fraction(1), fixed.Fraction(0))
	test.ExpectEquality(t, lmtr.Rate().String(), "uncapped")

	// capping mid stream uses the time of the last update
	test.ExpectSuccess(t, lmtr.SetRate(limiter.Rational{Num: 10, Den: 1}))
	test.ExpectEquality(t, lmtr.NextUpdate(), uint64(100))
}

func TestRateChangeKeepsPhase(t *testing.T) {
	timer := limiter.NewManualTimer(1000000)
	lmtr, err := limiter.NewVariable(timer, limiter.Rational{Num: 30, Den: 1})
	test.DemandSuccess(t, err)

	// run at 30fps for a little over a second in 7ms steps
	var updates int
	for timer.Now() < 1010000 {
		if lmtr.UpdateTime(timer.Advance(7000)) {
			updates++
		}
	}
	test.ExpectEquality(t, updates, 30)
	test.ExpectEquality(t, lmtr.LastUpdate(), uint64(1001000))

	test.DemandSuccess(t, lmtr.SetRate(limiter.Rational{Num: 60, Den: 1}))
	test.ExpectEquality(t, lmtr.Rate(), limiter.Rational{Num: 60, Den: 1})
	test.ExpectEquality(t, lmtr.LastUpdate(), uint64(1001000))

	// the next boundary is the 61st sixtieth of a second and not a
	// sixtieth of a second after the last update
	next := uint64(math.Ceil(61 * 1000000.0 / 60))
	test.ExpectEquality(t, lmtr.NextUpdate(), next)
	test.ExpectInequality(t, lmtr.NextUpdate(), lmtr.LastUpdate()+1000000/60)

	test.ExpectFailure(t, lmtr.UpdateTime(next-1))
	test.ExpectSuccess(t, lmtr.UpdateTime(next))
	test.ExpectEquality(t, lmtr.Count(), uint64(61))

	// and back down again
	test.DemandSuccess(t, lmtr.SetRate(limiter.Rational{Num: 30, Den: 1}))
	test.ExpectEquality(t, lmtr.NextUpdate(), uint64(math.Ceil(31*1000000.0/30)))
}

func TestBadRate(t *testing.T) {
	timer := limiter.NewManualTimer(math.MaxUint64)
	_, err := limiter.NewFixed(timer, limiter.Rational{Num: 1, Den: 2})
	test.ExpectFailure(t, err)

	// reduced to lowest terms before use
	_, err = limiter.NewFixed(timer, limiter.Rational{Num: 2, Den: 2})
	test.ExpectSuccess(t, err)

	timer = limiter.NewManualTimer(1000)
	v, err := limiter.NewVariable(timer, limiter.Rational{Num: 10, Den: 1})
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, v.SetRate(limiter.Rational{Num: 1, Den: math.MaxUint64}))
	test.ExpectEquality(t, v.Rate(), limiter.Rational{Num: 10, Den: 1})
}

func TestMenuAnim(t *testing.T) {
	timer := limiter.NewManualTimer(1000)
	lmtr, err := limiter.NewMenuAnim(timer, limiter.Rational{Num: 10, Den: 1})
	test.DemandSuccess(t, err)

	// a new animation is always an update
	test.ExpectSuccess(t, lmtr.UpdateTime(50, 1))
	test.ExpectFailure(t, lmtr.UpdateTime(60, 1))
	test.ExpectSuccess(t, lmtr.UpdateTime(100, 1))
	test.ExpectSuccess(t, lmtr.UpdateTime(120, 2))
	test.ExpectFailure(t, lmtr.UpdateTime(150, 2))
	test.ExpectSuccess(t, lmtr.UpdateTime(200, 2))

	// changing back to an earlier animation is still a change
	test.ExpectSuccess(t, lmtr.UpdateTime(210, 1))
}

func TestMeter(t *testing.T) {
	timer := limiter.NewManualTimer(1000)
	m := limiter.NewMeter(timer)

	timer.Advance(10)
	m.Tick()
	test.ExpectApproximate(t, m.Actual(), 100.0, 0.01)

	for range 100 {
		timer.Advance(20)
		m.Tick()
	}
	test.ExpectApproximate(t, m.Actual(), 50.0, 0.01)
}

func TestMonotonicTimer(t *testing.T) {
	timer := limiter.NewMonotonicTimer()
	a := timer.Now()
	b := timer.Now()
	test.ExpectSuccess(t, b >= a)
	test.ExpectEquality(t, timer.Frequency(), uint64(1000000000))
}
