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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/framepace/limiter"
	"github.com/jetsetilly/framepace/pacing"
	"github.com/jetsetilly/framepace/test"
)

func TestSyntheticModule(t *testing.T) {
	for _, base := range []uintptr{recordedBase, recordedBase + 0x10000, recordedBase - 0x3000} {
		buf, err := syntheticModule(base)
		test.DemandSuccess(t, err)

		descs, err := syntheticDescriptors(base)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, len(descs), len(syntheticSites))

		reloc := int64(base) - recordedBase
		for _, d := range descs {
			test.ExpectSuccess(t, d.Validate(), d.Name)
			test.ExpectSuccess(t, d.Verify(buf, base, reloc), d.Name)
		}
	}
}

func TestSyntheticAdapters(t *testing.T) {
	a, err := syntheticAdapters()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Join(a.Builds(), ","), "1.0,1.1")

	_, err = a.Select("2.0")
	test.ExpectFailure(t, err)
}

func TestApproach(t *testing.T) {
	test.ExpectEquality(t, approach(10, 20, 3), 13)
	test.ExpectEquality(t, approach(19, 20, 3), 20)
	test.ExpectEquality(t, approach(20, 10, 3), 17)
	test.ExpectEquality(t, approach(2, 0, 3), 0)
	test.ExpectEquality(t, approach(5, 5, 3), 5)
}

func TestVerifyMode(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"VERIFY", "-base", "0x00500000", "-listing"}), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), "3 sites patched and reverted at 0x500000"), out.String())
}

func TestNopsMode(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"NOPS", "-listing=false", "41", "130"}), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), "41: eb 27 90"), out.String())
	test.ExpectSuccess(t, strings.Contains(out.String(), "130: e9 7d 00 00 00 90"), out.String())

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"NOPS", "x"}), 20)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "* error in NOPS mode"), out.String())

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"NOPS"}), 20)
}

func TestFingerprintMode(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"FINGERPRINT"}), 0)
	test.ExpectEquality(t, strings.Count(out.String(), "\n"), len(syntheticSites))

	// fingerprint of a site in an image file relocated by 0x10000
	const base = recordedBase + 0x10000
	buf, err := syntheticModule(base)
	test.DemandSuccess(t, err)

	img := filepath.Join(t.TempDir(), "module.bin")
	test.DemandSuccess(t, os.WriteFile(img, buf.Bytes(), 0o600))

	descs, err := syntheticDescriptors(base)
	test.DemandSuccess(t, err)

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{
		"FINGERPRINT",
		"-offset", "0x1100",
		"-len", "16",
		"-control", syntheticSites[0].control,
		"-reloc", "65536",
		img,
	}), 0)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), fmt.Sprintf("%#08x", descs[0].Fingerprint))

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"FINGERPRINT", "-offset", "0x3ff8", "-len", "16", img}), 20)
}

func TestBadMode(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"-nosuchflag"}), 10)
}

func simPreferences(t *testing.T, s string) *pacing.Preferences {
	t.Helper()
	p, err := pacing.NewPreferences()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.SetString(s))
	return p
}

func TestSimulation(t *testing.T) {
	cfg := simConfig{
		build:   "1.1",
		units:   64,
		tick:    limiter.Rational{Num: 25, Den: 1},
		seconds: 10,
		step:    time.Millisecond,
		seed:    1,
		base:    recordedBase,
		prefs:   simPreferences(t, "fps::60; interpolate::true"),
	}

	smooth, err := runSimulation(context.Background(), cfg)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, smooth.stats.Frames, uint64(600))
	test.ExpectEquality(t, smooth.stats.Ticks, uint64(250))
	test.ExpectEquality(t, smooth.stats.Entities, 64)
	test.ExpectEquality(t, smooth.stats.Rejected, uint64(0))
	test.ExpectEquality(t, smooth.stats.Recovered, uint64(0))
	test.ExpectApproximate(t, smooth.stats.ActualFPS, 60.0, 0.05)
	test.ExpectApproximate(t, smooth.stats.ActualTPS, 25.0, 0.05)

	cfg.build = "1.0"
	cfg.prefs = simPreferences(t, "fps::60; interpolate::false")
	stepped, err := runSimulation(context.Background(), cfg)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, stepped.stats.Frames, uint64(600))

	// without interpolation most frames draw units where they were in the
	// previous frame
	test.ExpectSuccess(t, stepped.repeated > stepped.drawn/2, stepped.String())
	test.ExpectSuccess(t, smooth.repeated < stepped.repeated/4, smooth.String())
}

func TestSimulationDump(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "table.dot")

	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"SIM", "-seconds", "1", "-units", "8", "-fps", "30", "-dump", fn}), 0)
	test.ExpectSuccess(t, strings.Contains(out.String(), "frames 30"), out.String())

	b, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(b), "digraph"))
}

func TestSimulationErrors(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch(&out, []string{"SIM", "-build", "9.9"}), 20)

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"SIM", "-units", "100000"}), 20)

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"SIM", "-tick", "0"}), 20)

	out.Reset()
	test.ExpectEquality(t, launch(&out, []string{"SIM", "-prefs", "capacity::1"}), 20)
}
