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
	"io"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/fixed"
	"github.com/jetsetilly/framepace/limiter"
	"github.com/jetsetilly/framepace/logger"
	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/patch"
	"github.com/jetsetilly/framepace/prefs"
	"github.com/jetsetilly/framepace/tracker"
	"github.com/jetsetilly/framepace/unit"
)

// Sentinal error patterns.
const (
	AlreadyAttached = "pacing: already attached"
	AttachFailed    = "pacing: attach failed: %v"
	NotAttached     = "pacing: not attached"
)

// DefaultTickRate is the simulation rate of the host.
var DefaultTickRate = limiter.Rational{Num: 25, Den: 1}

// only one context can be attached to the process at any one time
var attached atomic.Bool

// Options for Attach(). The zero value is usable.
type Options struct {
	// defaults to a MonotonicTimer
	Timer limiter.Timer

	// simulation rate of the host. defaults to DefaultTickRate
	TickRate limiter.Rational

	// frame rate for menu animations. defaults to the tick rate
	MenuRate limiter.Rational

	// reads unit records for RecordUnit(). if nil RecordUnit() always fails
	Adapter unit.Adapter

	// defaults to the values set by NewPreferences()
	Prefs *Preferences

	// log entries made by the context go to the central log if this is nil
	Logger *logger.Logger
}

// Frame describes the render frame started by BeginRender().
type Frame struct {
	// number of frames started since attaching
	Number uint64

	// number of simulation ticks since attaching
	Tick uint64

	// how far through the current simulation tick the frame falls. always
	// zero if interpolation is off
	Fraction fixed.Fraction
}

// Stats is a summary of the context's activity.
type Stats struct {
	Frames    uint64
	Ticks     uint64
	Entities  int
	Rejected  uint64
	Recovered uint64

	RenderRate limiter.Rational
	ActualFPS  float64
	ActualTPS  float64
}

// Context is the state shared by every hot path in the patched host.
type Context struct {
	crit sync.Mutex

	win     memory.Window
	patches *patch.Set
	adapter unit.Adapter
	prefs   *Preferences
	log     *logger.Logger

	timer  limiter.Timer
	render *limiter.Variable
	tick   *limiter.Fixed
	menu   *limiter.MenuAnim

	renderMeter *limiter.Meter
	tickMeter   *limiter.Meter

	table *tracker.Table

	foreground bool
	detached   bool

	// set by preference hooks. the hooks can be called from any goroutine
	// so the new rate is applied the next time the lock is held
	ratesChanged atomic.Bool

	frame    Frame
	rejected uint64

	// recovered is updated outside of the lock by the panic boundary
	recovered atomic.Uint64
}

// Attach creates the context and applies the patches. The descriptors are
// all verified before any of them are applied. If any patch fails then every
// patch is reverted, the host is left unmodified and the error is returned.
//
// Only one context can be attached at a time. Attach() fails with
// AlreadyAttached until the existing context has been detached.
func Attach(win memory.Window, base uintptr, reloc int64, descriptors []*patch.Descriptor, opts Options) (*Context, error) {
	if !attached.CompareAndSwap(false, true) {
		return nil, curated.Errorf(AlreadyAttached)
	}

	ctx, err := attach(win, base, reloc, descriptors, opts)
	if err != nil {
		attached.Store(false)
		err = curated.Errorf(AttachFailed, err)
		if opts.Logger != nil {
			opts.Logger.Log(logger.Allow, "attach", err)
		} else {
			logger.Log(logger.Allow, "attach", err)
		}
		return nil, err
	}

	ctx.logf("attach", "%d patches applied at %#08x (reloc %d)", ctx.patches.Len(), base, reloc)

	return ctx, nil
}

func attach(win memory.Window, base uintptr, reloc int64, descriptors []*patch.Descriptor, opts Options) (*Context, error) {
	ctx := &Context{
		win:        win,
		adapter:    opts.Adapter,
		prefs:      opts.Prefs,
		log:        opts.Logger,
		timer:      opts.Timer,
		foreground: true,
	}

	if ctx.timer == nil {
		ctx.timer = limiter.NewMonotonicTimer()
	}

	if ctx.prefs == nil {
		var err error
		ctx.prefs, err = NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	tickRate := opts.TickRate
	if tickRate.IsUncapped() {
		tickRate = DefaultTickRate
	}
	menuRate := opts.MenuRate
	if menuRate.IsUncapped() {
		menuRate = tickRate
	}

	var err error

	ctx.render, err = limiter.NewVariable(ctx.timer, ctx.prefs.renderRate(ctx.foreground))
	if err != nil {
		return nil, err
	}
	ctx.tick, err = limiter.NewFixed(ctx.timer, tickRate)
	if err != nil {
		return nil, err
	}
	ctx.menu, err = limiter.NewMenuAnim(ctx.timer, menuRate)
	if err != nil {
		return nil, err
	}

	ctx.renderMeter = limiter.NewMeter(ctx.timer)
	ctx.tickMeter = limiter.NewMeter(ctx.timer)

	ctx.table, err = tracker.NewTable(ctx.prefs.Capacity.Get().(int))
	if err != nil {
		return nil, err
	}

	// patches are applied last so there is nothing to undo if they fail
	ctx.patches, err = patch.ApplyAll(win, base, reloc, descriptors)
	if err != nil {
		return nil, err
	}

	ctx.prefs.setHooks(func(_ prefs.Value) error {
		ctx.ratesChanged.Store(true)
		return nil
	})

	return ctx, nil
}

// Detach reverts every patch and releases the context. The hot path methods
// return their default values after the context has been detached.
func (ctx *Context) Detach() error {
	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return curated.Errorf(NotAttached)
	}
	ctx.detached = true

	ctx.prefs.setHooks(nil)
	err := ctx.patches.Revert(ctx.win)
	attached.Store(false)

	if err != nil {
		ctx.logf("attach", "detached with errors: %v", err)
		return err
	}
	ctx.logf("attach", "detached")
	return nil
}

func (ctx *Context) logf(tag string, format string, args ...any) {
	if ctx.log != nil {
		ctx.log.Logf(logger.Allow, tag, format, args...)
		return
	}
	logger.Logf(logger.Allow, tag, format, args...)
}

// applyRates sets the rate of the render limiter from the preferences and
// the foreground state. must be called with the lock held.
func (ctx *Context) applyRates() {
	ctx.ratesChanged.Store(false)
	r := ctx.prefs.renderRate(ctx.foreground)
	if r == ctx.render.Rate() {
		return
	}
	if err := ctx.render.SetRate(r); err != nil {
		ctx.logf("pacing", "%v", err)
		return
	}
	ctx.logf("pacing", "frame rate is now %s", r)
}

// BeginRender is called by the host at the start of every pass of its
// render loop. It returns false if no frame should be drawn. If a frame
// should be drawn the returned Frame says how far through the current
// simulation tick it falls.
func (ctx *Context) BeginRender() (frame Frame, draw bool) {
	defer ctx.boundary("render")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return Frame{}, false
	}

	if ctx.ratesChanged.Load() {
		ctx.applyRates()
	}

	now := ctx.timer.Now()
	if !ctx.render.UpdateTime(now) {
		return Frame{}, false
	}

	ctx.renderMeter.Tick()
	ctx.frame.Number++
	if ctx.prefs.Interpolate.Get().(bool) {
		ctx.frame.Fraction = ctx.tick.Fraction(now)
	} else {
		ctx.frame.Fraction = 0
	}

	return ctx.frame, true
}

// EntityPosition returns the position an entity should be drawn at in the
// frame started by the most recent call to BeginRender(). If the entity is
// not known then the host should draw it where it thinks it is.
func (ctx *Context) EntityPosition(key tracker.Key) (pos fixed.Point, ok bool) {
	defer ctx.boundary("position")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return fixed.Point{}, false
	}

	rec, ok := ctx.table.Get(key)
	if !ok {
		return fixed.Point{}, false
	}

	return rec.ForTime(ctx.frame.Fraction), true
}

// GameTick is called by the host before it advances its simulation. It
// returns true if a tick is due. Entities that were not recorded during the
// previous tick are forgotten.
func (ctx *Context) GameTick() (due bool) {
	// ticking is the host's normal behaviour
	due = true

	defer ctx.boundary("tick")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return true
	}

	if !ctx.tick.UpdateTime(ctx.timer.Now()) {
		return false
	}

	ctx.tickMeter.Tick()
	ctx.frame.Tick++
	ctx.table.ClearUnused()

	return true
}

// RecordEntity is called by the host after a simulation tick with the
// authoritative position of an entity and where it is heading.
func (ctx *Context) RecordEntity(key tracker.Key, pos fixed.Point, target tracker.Target) {
	defer ctx.boundary("record")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return
	}

	ctx.record(key, pos, target)
}

// record must be called with the lock held.
func (ctx *Context) record(key tracker.Key, pos fixed.Point, target tracker.Target) bool {
	if err := ctx.table.InsertOrUpdate(key, pos, target); err != nil {
		ctx.rejected++
		ctx.logf("tracker", "%s: %v", key, err)
		return false
	}
	return true
}

// RecordUnit reads the host's unit record at addr and records the entity it
// describes. It returns false if the unit could not be read or recorded.
func (ctx *Context) RecordUnit(addr uintptr) (ok bool) {
	defer ctx.boundary("unit")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached || ctx.adapter == nil {
		return false
	}

	s, err := ctx.adapter.Sample(ctx.win, addr)
	if err != nil {
		ctx.logf("tracker", "%v", err)
		return false
	}

	return ctx.record(s.Key, s.Pos, s.Target)
}

// MenuFrame is called by the host's menu loop with the address of the
// animation being shown. It returns true if the animation should advance.
func (ctx *Context) MenuFrame(anim uintptr) (advance bool) {
	advance = true

	defer ctx.boundary("menu")

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.detached {
		return true
	}

	return ctx.menu.UpdateTime(ctx.timer.Now(), anim)
}

// TrySetForeground is called by the host's window message handler when the
// window is activated or deactivated. It returns false without waiting if
// the context is busy.
func (ctx *Context) TrySetForeground(foreground bool) (applied bool) {
	defer ctx.boundary("foreground")

	if !ctx.crit.TryLock() {
		return false
	}
	defer ctx.crit.Unlock()

	if ctx.detached {
		return false
	}

	ctx.foreground = foreground
	ctx.applyRates()

	return true
}

// TrySetRefresh is called by the host's window message handler when the
// display mode changes. It returns false without waiting if the context is
// busy.
func (ctx *Context) TrySetRefresh(refresh prefs.Ratio) (applied bool) {
	defer ctx.boundary("refresh")

	if !ctx.crit.TryLock() {
		return false
	}
	defer ctx.crit.Unlock()

	if ctx.detached {
		return false
	}

	if err := ctx.prefs.DetectedRefresh.Set(refresh); err != nil {
		ctx.logf("pacing", "%v", err)
		return false
	}
	ctx.applyRates()

	return true
}

// Stats returns a summary of the context's activity.
func (ctx *Context) Stats() Stats {
	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	return Stats{
		Frames:     ctx.frame.Number,
		Ticks:      ctx.frame.Tick,
		Entities:   ctx.table.Len(),
		Rejected:   ctx.rejected,
		Recovered:  ctx.recovered.Load(),
		RenderRate: ctx.render.Rate(),
		ActualFPS:  ctx.renderMeter.Actual(),
		ActualTPS:  ctx.tickMeter.Actual(),
	}
}

// Dump writes a graphviz description of the entity table to w.
func (ctx *Context) Dump(w io.Writer) {
	ctx.crit.Lock()
	defer ctx.crit.Unlock()
	ctx.table.Dump(w)
}
