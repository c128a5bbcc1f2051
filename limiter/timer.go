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
	"sync/atomic"
	"time"
)

// Timer is a monotonic clock. Now() never goes backwards and Frequency() is
// the number of Now() units in a second.
type Timer interface {
	Now() uint64
	Frequency() uint64
}

// MonotonicTimer counts nanoseconds since it was created.
type MonotonicTimer struct {
	start time.Time
}

// NewMonotonicTimer is the preferred method of initialisation for the
// MonotonicTimer type.
func NewMonotonicTimer() *MonotonicTimer {
	return &MonotonicTimer{start: time.Now()}
}

// Now implements the Timer interface.
func (t *MonotonicTimer) Now() uint64 {
	return uint64(time.Since(t.start))
}

// Frequency implements the Timer interface.
func (t *MonotonicTimer) Frequency() uint64 {
	return uint64(time.Second)
}

// ManualTimer only changes when it is told to. It is used for simulation
// and testing.
type ManualTimer struct {
	now  atomic.Uint64
	freq uint64
}

// NewManualTimer is the preferred method of initialisation for the
// ManualTimer type. The timer starts at zero.
func NewManualTimer(freq uint64) *ManualTimer {
	return &ManualTimer{freq: freq}
}

// Now implements the Timer interface.
func (t *ManualTimer) Now() uint64 {
	return t.now.Load()
}

// Frequency implements the Timer interface.
func (t *ManualTimer) Frequency() uint64 {
	return t.freq
}

// Advance the timer by d units and return the new reading.
func (t *ManualTimer) Advance(d uint64) uint64 {
	return t.now.Add(d)
}

// Seconds returns the number of timer units in s seconds.
func (t *ManualTimer) Seconds(s float64) uint64 {
	return uint64(s * float64(t.freq))
}
