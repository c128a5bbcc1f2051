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

import "github.com/jetsetilly/framepace/fixed"

// Fixed reports when a boundary of a fixed rate has been passed.
type Fixed struct {
	freq   uint64
	rate   Rational
	period period

	lastUpdate uint64
	lastCount  uint64
	next       uint64
}

// NewFixed is the preferred method of initialisation for the Fixed type. The
// schedule starts from the current reading of the timer.
func NewFixed(timer Timer, rate Rational) (*Fixed, error) {
	l := &Fixed{freq: timer.Frequency()}
	if err := l.setRate(rate); err != nil {
		return nil, err
	}
	l.restart(timer.Now())
	return l, nil
}

func (l *Fixed) setRate(rate Rational) error {
	p, err := newPeriod(rate, l.freq)
	if err != nil {
		return err
	}
	l.rate = rate
	l.period = p
	return nil
}

// restart the schedule with an update at time now.
func (l *Fixed) restart(now uint64) {
	l.lastUpdate = now
	l.derive()
}

// derive the count and the next boundary from the last update.
func (l *Fixed) derive() {
	if l.period.uncapped() {
		l.lastCount = 0
		l.next = l.lastUpdate
		return
	}
	l.lastCount = l.period.count(l.lastUpdate)
	l.next = l.period.at(l.lastCount + 1)
}

// UpdateTime returns true if a boundary has been passed since the previous
// update. Boundaries that were missed entirely are skipped. They are not
// reported by later calls.
func (l *Fixed) UpdateTime(now uint64) bool {
	if l.period.uncapped() {
		l.lastUpdate = now
		l.next = now
		return true
	}

	if now < l.next {
		return false
	}

	l.lastUpdate = now
	l.derive()
	return true
}

// Rate returns the current rate.
func (l *Fixed) Rate() Rational {
	return l.rate
}

// LastUpdate returns the timer reading of the most recent update.
func (l *Fixed) LastUpdate() uint64 {
	return l.lastUpdate
}

// NextUpdate returns the timer reading at which the next update is due.
func (l *Fixed) NextUpdate() uint64 {
	return l.next
}

// Count returns the number of boundaries between time zero and the most
// recent update.
func (l *Fixed) Count() uint64 {
	return l.lastCount
}

// Fraction returns how far time now is between the most recent boundary and
// the next. It is used to place entities between simulation ticks. An
// uncapped limiter always returns zero.
func (l *Fixed) Fraction(now uint64) fixed.Fraction {
	if l.period.uncapped() {
		return 0
	}

	start := l.period.at(l.lastCount)
	if now <= start || l.next <= start {
		return 0
	}

	return fixed.FractionOf(int64(now-start), int64(l.next-start))
}

// Variable is a limiter whose rate can be changed.
type Variable struct {
	Fixed
}

// NewVariable is the preferred method of initialisation for the Variable
// type.
func NewVariable(timer Timer, rate Rational) (*Variable, error) {
	f, err := NewFixed(timer, rate)
	if err != nil {
		return nil, err
	}
	return &Variable{Fixed: *f}, nil
}

// SetRate changes the rate. The schedule under the new rate is worked out
// from the time of the most recent update so that the next boundary is
// where it would have been had the new rate been in force from the start.
func (l *Variable) SetRate(rate Rational) error {
	if rate == l.rate {
		return nil
	}
	if err := l.setRate(rate); err != nil {
		return err
	}
	l.derive()
	return nil
}

// MenuAnim is a limiter for menu animations. Changing the animation starts
// a new schedule.
type MenuAnim struct {
	Variable
	anim uintptr
}

// NewMenuAnim is the preferred method of initialisation for the MenuAnim
// type.
func NewMenuAnim(timer Timer, rate Rational) (*MenuAnim, error) {
	v, err := NewVariable(timer, rate)
	if err != nil {
		return nil, err
	}
	return &MenuAnim{Variable: *v}, nil
}

// UpdateTime returns true if a boundary has been passed since the previous
// update, or if anim is not the animation seen by the previous call.
func (l *MenuAnim) UpdateTime(now uint64, anim uintptr) bool {
	if anim != l.anim {
		l.anim = anim
		l.restart(now)
		return true
	}
	return l.Variable.UpdateTime(now)
}
