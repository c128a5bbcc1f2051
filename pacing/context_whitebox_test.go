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
	"bytes"
	"testing"

	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/prefs"
	"github.com/jetsetilly/framepace/test"
)

func TestWhiteboxTryLock(t *testing.T) {
	buf := memory.NewBuffer(0x1000, bytes.Repeat([]byte{0xcc}, 0x100), memory.ReadExecute)

	// no patches are needed to exercise the lock
	ctx, err := Attach(buf, 0x1000, 0, nil, Options{})
	test.DemandSuccess(t, err)
	defer ctx.Detach()

	ctx.crit.Lock()
	test.ExpectFailure(t, ctx.TrySetForeground(false))
	test.ExpectFailure(t, ctx.TrySetRefresh(prefs.Ratio{Num: 60, Den: 1}))
	test.ExpectEquality(t, ctx.foreground, true)
	ctx.crit.Unlock()

	test.ExpectSuccess(t, ctx.TrySetForeground(false))
	test.ExpectEquality(t, ctx.foreground, false)
	test.ExpectSuccess(t, ctx.TrySetRefresh(prefs.Ratio{Num: 60, Den: 1}))
}
