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


package prefs_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/prefs"
	"github.com/jetsetilly/framepace/test"
)

func TestBool(t *testing.T) {
	var v prefs.Bool
	test.ExpectEquality(t, v.String(), "false")

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, v.Get().(bool), true)
	test.ExpectSuccess(t, v.Set("FALSE"))
	test.ExpectEquality(t, v.Get().(bool), false)
	test.ExpectSuccess(t, v.Set("True"))
	test.ExpectEquality(t, v.String(), "true")
	test.ExpectSuccess(t, curated.Is(v.Set(1.0), prefs.BadType))
	test.ExpectSuccess(t, curated.Is(v.Set("yes"), prefs.BadString))
	test.ExpectEquality(t, v.Get().(bool), true)

	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get().(bool), false)
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectEquality(t, v.String(), "0")

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Get().(int), 10)
	test.ExpectSuccess(t, v.Set(" 2048"))
	test.ExpectEquality(t, v.Get().(int), 2048)
	test.ExpectSuccess(t, curated.Is(v.Set("foo"), prefs.BadString))
	test.ExpectSuccess(t, curated.Is(v.Set(uint8(1)), prefs.BadType))
	test.ExpectEquality(t, v.Get().(int), 2048)
	test.ExpectSuccess(t, v.Set(int64(-3)))
	test.ExpectEquality(t, v.String(), "-3")
}

func TestIntRange(t *testing.T) {
	var v prefs.Int
	v.SetRange(2, 100)

	var post int
	v.SetHookPost(func(nv prefs.Value) error {
		post++
		return nil
	})

	test.ExpectSuccess(t, v.Set(2))
	test.ExpectSuccess(t, v.Set("100"))
	test.ExpectSuccess(t, curated.Is(v.Set(1), prefs.OutOfRange))
	test.ExpectSuccess(t, curated.Is(v.Set("101"), prefs.OutOfRange))
	test.ExpectEquality(t, v.Get().(int), 100)

	// refused values do not reach the hooks
	test.ExpectEquality(t, post, 2)

	// zero is outside the range so reset goes to the bottom of it
	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get().(int), 2)

	var w prefs.Int
	w.SetRange(-5, 5)
	test.ExpectSuccess(t, w.Set(3))
	test.ExpectSuccess(t, w.Reset())
	test.ExpectEquality(t, w.Get().(int), 0)
}

func TestHooks(t *testing.T) {
	var v prefs.Int

	var post []int
	v.SetHookPre(func(nv prefs.Value) error {
		if nv.(int) < 0 {
			return fmt.Errorf("negative")
		}
		return nil
	})
	v.SetHookPost(func(nv prefs.Value) error {
		post = append(post, nv.(int))
		return nil
	})

	test.ExpectSuccess(t, v.Set(1))
	test.ExpectFailure(t, v.Set(-1))
	test.ExpectSuccess(t, v.Set(1))
	test.ExpectEquality(t, v.Get().(int), 1)

	// the post hook is called even when the value has not changed
	test.ExpectEquality(t, len(post), 2)
}

func TestParseRatio(t *testing.T) {
	r, err := prefs.ParseRatio("60")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, prefs.Ratio{Num: 60, Den: 1})

	r, err = prefs.ParseRatio("59.94")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, prefs.Ratio{Num: 5994, Den: 100})

	r, err = prefs.ParseRatio(" 24000 / 1001 ")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, prefs.Ratio{Num: 24000, Den: 1001})
	test.ExpectEquality(t, r.String(), "24000/1001")

	r, err = prefs.ParseRatio("0")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, r.IsZero())

	_, err = prefs.ParseRatio("60/0")
	test.ExpectFailure(t, err)
	_, err = prefs.ParseRatio("-60")
	test.ExpectFailure(t, err)
	_, err = prefs.ParseRatio("60.")
	test.ExpectFailure(t, err)
	_, err = prefs.ParseRatio("sixty")
	test.ExpectFailure(t, err)
}

func TestRational(t *testing.T) {
	var v prefs.Rational
	test.ExpectSuccess(t, v.Ratio().IsZero())
	test.ExpectEquality(t, v.String(), "0")

	test.ExpectSuccess(t, v.Set("23.976"))
	test.ExpectEquality(t, v.Ratio(), prefs.Ratio{Num: 23976, Den: 1000})
	test.ExpectSuccess(t, v.Set(30))
	test.ExpectEquality(t, v.String(), "30")
	test.ExpectFailure(t, v.Set(prefs.Ratio{Num: 1}))
	test.ExpectSuccess(t, curated.Is(v.Set(-1), prefs.OutOfRange))
	test.ExpectSuccess(t, curated.Is(v.Set("fast"), prefs.BadString))
	test.ExpectSuccess(t, curated.Is(v.Set(60.0), prefs.BadType))
	test.ExpectEquality(t, v.String(), "30")

	test.ExpectSuccess(t, v.Reset())
	test.ExpectSuccess(t, v.Ratio().IsZero())
}

func TestGroup(t *testing.T) {
	var fps prefs.Rational
	var interp prefs.Bool
	var capacity prefs.Int

	g := prefs.NewGroup()
	test.ExpectSuccess(t, g.Add("fps", &fps))
	test.ExpectSuccess(t, g.Add("interpolate", &interp))
	test.ExpectSuccess(t, g.Add("capacity", &capacity))
	test.ExpectFailure(t, g.Add("bad::key", &capacity))
	test.ExpectFailure(t, g.Add("", &capacity))

	test.ExpectSuccess(t, g.SetString("fps::59.94; interpolate:: true ;capacity::512;"))
	test.ExpectEquality(t, fps.Ratio(), prefs.Ratio{Num: 5994, Den: 100})
	test.ExpectEquality(t, interp.Get().(bool), true)
	test.ExpectEquality(t, capacity.Get().(int), 512)
	test.ExpectEquality(t, g.String(), "fps::5994/100; interpolate::true; capacity::512")

	v, ok := g.Get("capacity")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(int), 512)
	_, ok = g.Get("foo")
	test.ExpectFailure(t, ok)

	// unknown key stops processing
	test.ExpectFailure(t, g.SetString("capacity::1024; foo::bar; fps::60"))
	test.ExpectEquality(t, capacity.Get().(int), 1024)
	test.ExpectEquality(t, fps.Ratio(), prefs.Ratio{Num: 5994, Den: 100})

	test.ExpectFailure(t, g.SetString("capacity_1024"))

	test.ExpectSuccess(t, g.Reset())
	test.ExpectEquality(t, g.String(), "fps::0; interpolate::false; capacity::0")
}
