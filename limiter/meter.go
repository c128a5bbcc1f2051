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

// Meter measures the rate actually being achieved.
type Meter struct {
	timer Timer

	actual float64

	// number of ticks to count before taking a measurement. this is the
	// most recent measurement so a new one is taken about once a second
	target int
	count  int
	ref    uint64
}

// NewMeter is the preferred method of initialisation for the Meter type.
func NewMeter(timer Timer) *Meter {
	return &Meter{
		timer:  timer,
		target: 1,
		ref:    timer.Now(),
	}
}

// Tick records that a frame or simulation tick has happened.
func (m *Meter) Tick() {
	m.count++
	if m.count < m.target {
		return
	}

	now := m.timer.Now()
	if now <= m.ref {
		return
	}

	m.actual = float64(m.count) * float64(m.timer.Frequency()) / float64(now-m.ref)
	if m.actual > 1 {
		m.target = int(m.actual)
	} else {
		m.target = 1
	}

	m.ref = now
	m.count = 0
}

// Actual returns the most recent measurement in ticks per second.
func (m *Meter) Actual() float64 {
	return m.actual
}
