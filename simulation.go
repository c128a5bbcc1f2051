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


package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/jetsetilly/framepace/fixed"
	"github.com/jetsetilly/framepace/limiter"
	"github.com/jetsetilly/framepace/logger"
	"github.com/jetsetilly/framepace/modalflag"
	"github.com/jetsetilly/framepace/pacing"
	"github.com/jetsetilly/framepace/prefs"
	"github.com/jetsetilly/framepace/statsview"
	"github.com/jetsetilly/framepace/tracker"
	"github.com/jetsetilly/framepace/unit"
)

// size of the square the simulated units wander about in.
const arena = 1024

type simUnit struct {
	addr   uintptr
	sample unit.Sample
	speed  uint32

	// position drawn in the previous frame
	drawn    fixed.Point
	hasDrawn bool
}

// approach moves v towards target by no more than speed.
func approach(v, target, speed uint32) uint32 {
	if v < target {
		return min(v+speed, target)
	}
	if v-target <= speed {
		return target
	}
	return v - speed
}

// move the unit one tick towards its target. a new target is chosen when the
// unit arrives.
func (u *simUnit) move(rng *rand.Rand) {
	x := approach(u.sample.Pos.X.Units(), u.sample.Target.X, u.speed)
	y := approach(u.sample.Pos.Y.Units(), u.sample.Target.Y, u.speed)
	u.sample.Pos = fixed.Point{X: fixed.FromUnits(x), Y: fixed.FromUnits(y)}

	if x == u.sample.Target.X && y == u.sample.Target.Y {
		u.sample.Target = tracker.Target{X: rng.Uint32N(arena), Y: rng.Uint32N(arena)}
	}
}

// simResult summarises a simulation run.
type simResult struct {
	stats pacing.Stats

	// number of times a moving unit was drawn and the number of those times
	// that it was drawn in the same place as the previous frame
	drawn    int
	repeated int

	// number of times a unit was not known to the tracker when it was drawn
	unknown int
}

func (r simResult) String() string {
	s := fmt.Sprintf("frames %d (%.2f fps), ticks %d (%.2f tps), render rate %s\n",
		r.stats.Frames, r.stats.ActualFPS, r.stats.Ticks, r.stats.ActualTPS, r.stats.RenderRate)
	s += fmt.Sprintf("entities %d, rejected %d, recovered %d, unknown %d\n",
		r.stats.Entities, r.stats.Rejected, r.stats.Recovered, r.unknown)
	if r.drawn > 0 {
		s += fmt.Sprintf("repeated positions %d of %d (%.1f%%)", r.repeated, r.drawn, float64(r.repeated)*100/float64(r.drawn))
	} else {
		s += "no moving units drawn"
	}
	return s
}

// simulation parameters.
type simConfig struct {
	build    string
	units    int
	tick     limiter.Rational
	seconds  float64
	step     time.Duration
	realtime bool
	seed     uint64
	base     uintptr
	prefs    *pacing.Preferences

	// called just before detaching
	inspect func(*pacing.Context) error
}

func runSimulation(cancel context.Context, cfg simConfig) (simResult, error) {
	if cfg.units < 0 || cfg.units > maxUnits {
		return simResult{}, fmt.Errorf("number of units must be between 0 and %d", maxUnits)
	}
	if cfg.step <= 0 {
		return simResult{}, fmt.Errorf("step must be positive")
	}

	adapters, err := syntheticAdapters()
	if err != nil {
		return simResult{}, err
	}
	adapter, err := adapters.Select(cfg.build)
	if err != nil {
		return simResult{}, fmt.Errorf("%w (builds are %v)", err, adapters.Builds())
	}
	layout := adapter.(*unit.Layout)

	buf, err := syntheticModule(cfg.base)
	if err != nil {
		return simResult{}, err
	}
	descs, err := syntheticDescriptors(cfg.base)
	if err != nil {
		return simResult{}, err
	}

	var timer limiter.Timer
	var advance func()
	if cfg.realtime {
		timer = limiter.NewMonotonicTimer()
		advance = func() { time.Sleep(cfg.step) }
	} else {
		mt := limiter.NewManualTimer(uint64(time.Second / time.Microsecond))
		timer = mt
		advance = func() { mt.Advance(uint64(cfg.step / time.Microsecond)) }
	}

	ctx, err := pacing.Attach(buf, cfg.base, int64(cfg.base)-recordedBase, descs, pacing.Options{
		Timer:    timer,
		TickRate: cfg.tick,
		Adapter:  adapter,
		Prefs:    cfg.prefs,
	})
	if err != nil {
		return simResult{}, err
	}

	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))

	units := make([]simUnit, cfg.units)
	for i := range units {
		u := &units[i]
		u.addr = cfg.base + unitOffset + uintptr(i*unitStride)
		u.speed = 1 + rng.Uint32N(8)
		u.sample = unit.Sample{
			Key: tracker.Key{
				Kind: tracker.Kind(i % tracker.NumKinds),
				ID:   uint32(1000 + i),
			},
			Pos: fixed.Point{
				X: fixed.FromUnits(rng.Uint32N(arena)),
				Y: fixed.FromUnits(rng.Uint32N(arena)),
			},
			Target: tracker.Target{X: rng.Uint32N(arena), Y: rng.Uint32N(arena)},
		}
	}

	var res simResult
	rec := make([]byte, layout.Len)

	end := uint64(cfg.seconds * float64(timer.Frequency()))
	for timer.Now() < end && cancel.Err() == nil {
		advance()

		if ctx.GameTick() {
			for i := range units {
				u := &units[i]
				u.move(rng)
				if err := layout.Encode(rec, u.sample); err != nil {
					_ = ctx.Detach()
					return simResult{}, err
				}
				if err := buf.Poke(u.addr, rec); err != nil {
					_ = ctx.Detach()
					return simResult{}, err
				}
				ctx.RecordUnit(u.addr)
			}
		}

		if _, ok := ctx.BeginRender(); ok {
			for i := range units {
				u := &units[i]
				pos, ok := ctx.EntityPosition(u.sample.Key)
				if !ok {
					res.unknown++
					continue
				}
				if u.hasDrawn && u.sample.Pos != u.sample.Target.Point() {
					res.drawn++
					if pos == u.drawn {
						res.repeated++
					}
				}
				u.drawn = pos
				u.hasDrawn = true
			}
		}
	}

	res.stats = ctx.Stats()

	if cfg.inspect != nil {
		if err := cfg.inspect(ctx); err != nil {
			_ = ctx.Detach()
			return res, err
		}
	}

	return res, ctx.Detach()
}

func simulate(md *modalflag.Modes) error {
	md.NewMode()

	pr, err := pacing.NewPreferences()
	if err != nil {
		return err
	}

	build := md.AddString("build", "1.1", "version of the synthetic build")
	units := md.AddInt("units", 64, "number of units")
	tick := md.AddString("tick", pacing.DefaultTickRate.String(), "simulation rate of the host")
	seconds := md.AddFloat64("seconds", 10, "length of the simulation")
	step := md.AddInt("step", 1000, "time between polls of the host loop in microseconds")
	realtime := md.AddBool("realtime", false, "run the simulation in real time")
	seed := md.AddHex("seed", 1, "seed for unit movement")
	base := md.AddHex("base", recordedBase, "load address of the synthetic module")
	dump := md.AddString("dump", "", "write the entity table as a graphviz file")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (available=%v)", statsview.Available()))
	md.AddFunc("fps", "render rate eg. 60 or 60000/1001 (0 for uncapped)", func(s string) error {
		return pr.FPS.Set(s)
	})
	md.AddFunc("prefs", "preferences eg. \"interpolate::false; capacity::512\"", pr.SetString)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	r, err := prefs.ParseRatio(*tick)
	if err != nil {
		return err
	}
	if r.IsZero() {
		return fmt.Errorf("simulation rate cannot be zero")
	}

	if *stats {
		stop := statsview.Launch(md.Output)
		defer stop()
	}

	cfg := simConfig{
		build:    *build,
		units:    *units,
		tick:     limiter.Rational{Num: r.Num, Den: r.Den},
		seconds:  *seconds,
		step:     time.Duration(*step) * time.Microsecond,
		realtime: *realtime,
		seed:     *seed,
		base:     uintptr(*base),
		prefs:    pr,
	}

	if *dump != "" {
		cfg.inspect = func(ctx *pacing.Context) error {
			f, err := os.Create(*dump)
			if err != nil {
				return err
			}
			ctx.Dump(f)
			return f.Close()
		}
	}

	cancel, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Logf(logger.Allow, "sim", "build %s with %d units for %.2fs (%s)", cfg.build, cfg.units, cfg.seconds, pr)

	res, err := runSimulation(cancel, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(md.Output, res)

	return nil
}
