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


package pacing

import (
	"github.com/jetsetilly/framepace/limiter"
	"github.com/jetsetilly/framepace/prefs"
	"github.com/jetsetilly/framepace/tracker"
)

// Preferences for the pacing context.
type Preferences struct {
	// frame rate when the host window is in the foreground. a zero rate
	// means the detected refresh rate of the display is used
	FPS prefs.Rational

	// frame rate when the host window is in the background. a zero rate
	// means the foreground rate is used
	BackgroundFPS prefs.Rational

	// refresh rate of the display. a zero rate means no frame rate limit
	DetectedRefresh prefs.Rational

	// whether entities are drawn between their tick positions
	Interpolate prefs.Bool

	// number of slots in the entity table. only read when attaching
	Capacity prefs.Int

	group *prefs.Group
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{
		group: prefs.NewGroup(),
	}

	p.Capacity.SetRange(2, tracker.MaxCapacity)

	for _, e := range []struct {
		key string
		p   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"fps", &p.FPS},
		{"background", &p.BackgroundFPS},
		{"refresh", &p.DetectedRefresh},
		{"interpolate", &p.Interpolate},
		{"capacity", &p.Capacity},
	} {
		if err := p.group.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() error {
	return p.group.SetString("fps::0; background::0; refresh::0; interpolate::true; capacity::2048")
}

// SetString sets preferences from a string of key/value pairs. The keys are
// fps, background, refresh, interpolate and capacity.
//
//	fps::60; background::15
func (p *Preferences) SetString(s string) error {
	return p.group.SetString(s)
}

func (p *Preferences) String() string {
	return p.group.String()
}

// setHooks sets the post hook of every rate preference.
func (p *Preferences) setHooks(f func(prefs.Value) error) {
	p.FPS.SetHookPost(f)
	p.BackgroundFPS.SetHookPost(f)
	p.DetectedRefresh.SetHookPost(f)
}

func rational(r prefs.Ratio) limiter.Rational {
	return limiter.Rational{Num: r.Num, Den: r.Den}
}

// renderRate returns the frame rate for the foreground state.
func (p *Preferences) renderRate(foreground bool) limiter.Rational {
	r := p.FPS.Ratio()
	if !foreground {
		if bg := p.BackgroundFPS.Ratio(); !bg.IsZero() {
			r = bg
		}
	}
	if r.IsZero() {
		r = p.DetectedRefresh.Ratio()
	}
	if r.IsZero() {
		return limiter.Uncapped
	}
	return rational(r)
}
