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


package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/framepace/curated"
)

// Sentinal error patterns.
const (
	BadType    = "prefs: cannot set %s from %T"
	BadString  = "prefs: cannot set %s from %q: %v"
	OutOfRange = "prefs: %d is outside the range %d to %d"
)

// Value represents the actual Go preference value.
type Value interface{}

// types supported by Group must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// typed holds the value and hooks for every preference type. The zero
// value holds the zero value of T.
type typed[T any] struct {
	value    atomic.Pointer[T]
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

func (p *typed[T]) load() T {
	if v := p.value.Load(); v != nil {
		return *v
	}
	var zero T
	return zero
}

// store v unless the pre hook refuses it.
func (p *typed[T]) store(v T) error {
	if p.hookPre != nil {
		if err := p.hookPre(v); err != nil {
			return err
		}
	}

	p.value.Store(&v)

	if p.hookPost != nil {
		return p.hookPost(v)
	}
	return nil
}

// Get returns the raw pref value.
func (p *typed[T]) Get() Value {
	return p.load()
}

// SetHookPre sets the function called with the new value before it is
// stored. If the function returns an error the value is not changed.
func (p *typed[T]) SetHookPre(f func(value Value) error) {
	p.hookPre = f
}

// SetHookPost sets the function called with the new value after it is
// stored. It is called even if the value has not changed.
func (p *typed[T]) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Bool is a boolean preference.
type Bool struct {
	typed[bool]
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.load())
}

// Set accepts a bool or any string accepted by strconv.ParseBool().
func (p *Bool) Set(v Value) error {
	switch v := v.(type) {
	case bool:
		return p.store(v)
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return curated.Errorf(BadString, "bool", v, err)
		}
		return p.store(b)
	}
	return curated.Errorf(BadType, "bool", v)
}

// Reset sets the value to false.
func (p *Bool) Reset() error {
	return p.store(false)
}

// Int is an integer preference with an optional range.
type Int struct {
	typed[int]

	bounded  bool
	min, max int
}

// SetRange limits Set() to values between lo and hi inclusive. It should be
// called before the preference is shared.
func (p *Int) SetRange(lo, hi int) {
	p.bounded = true
	p.min = lo
	p.max = hi
}

func (p *Int) String() string {
	return strconv.Itoa(p.load())
}

// Set accepts an int, int64 or a decimal string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int:
		nv = v
	case int64:
		nv = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return curated.Errorf(BadString, "int", v, err)
		}
		nv = n
	default:
		return curated.Errorf(BadType, "int", v)
	}

	if p.bounded && (nv < p.min || nv > p.max) {
		return curated.Errorf(OutOfRange, nv, p.min, p.max)
	}

	return p.store(nv)
}

// Reset sets the value to zero, or to the bottom of the range if zero is
// outside it.
func (p *Int) Reset() error {
	if p.bounded && (p.min > 0 || p.max < 0) {
		return p.store(p.min)
	}
	return p.store(0)
}
