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
	"math"
	"strconv"
	"strings"

	"github.com/jetsetilly/framepace/curated"
)

// Ratio is an exact rate. A zero numerator means the rate is not set.
type Ratio struct {
	Num uint64
	Den uint64
}

// IsZero returns true if the rate is not set.
func (r Ratio) IsZero() bool {
	return r.Num == 0
}

func (r Ratio) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// the most decimal places accepted by ParseRatio()
const maxDecimalPlaces = 9

// ParseRatio converts a string to a Ratio. Accepted forms are a whole number
// ("60"), a decimal ("59.94", which is 5994/100) and a fraction
// ("24000/1001").
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)

	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("ratio: %w", err)
		}
		den, err := strconv.ParseUint(strings.TrimSpace(d), 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("ratio: %w", err)
		}
		if den == 0 {
			return Ratio{}, fmt.Errorf("ratio: zero denominator in %q", s)
		}
		return Ratio{Num: num, Den: den}, nil
	}

	if w, f, ok := strings.Cut(s, "."); ok {
		if len(f) == 0 || len(f) > maxDecimalPlaces {
			return Ratio{}, fmt.Errorf("ratio: bad decimal %q", s)
		}
		num, err := strconv.ParseUint(w+f, 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("ratio: %w", err)
		}
		den := uint64(1)
		for range f {
			den *= 10
		}
		return Ratio{Num: num, Den: den}, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("ratio: %w", err)
	}
	return Ratio{Num: num, Den: 1}, nil
}

// Rational is an exact rate preference. The zero value is the zero rate.
type Rational struct {
	typed[Ratio]
}

func (p *Rational) String() string {
	return p.Ratio().String()
}

// Set accepts a Ratio, a non-negative int or a string accepted by
// ParseRatio().
func (p *Rational) Set(v Value) error {
	switch v := v.(type) {
	case Ratio:
		if v.Den == 0 {
			return curated.Errorf(BadString, "rational", v.String(), "zero denominator")
		}
		return p.store(v)
	case int:
		if v < 0 {
			return curated.Errorf(OutOfRange, v, 0, math.MaxInt)
		}
		return p.store(Ratio{Num: uint64(v), Den: 1})
	case string:
		r, err := ParseRatio(v)
		if err != nil {
			return curated.Errorf(BadString, "rational", v, err)
		}
		return p.store(r)
	}
	return curated.Errorf(BadType, "rational", v)
}

// Ratio returns the value without the need for a type assertion.
func (p *Rational) Ratio() Ratio {
	r := p.load()
	if r.Den == 0 {
		r.Den = 1
	}
	return r
}

// Get returns the raw pref value. The underlying type is Ratio.
func (p *Rational) Get() Value {
	return p.Ratio()
}

// Reset sets the value to zero, which means the rate is not set.
func (p *Rational) Reset() error {
	return p.store(Ratio{Den: 1})
}
