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
	"runtime/debug"
	"strings"
)

// number of stack frames logged after a panic
const panicFrames = 4

// boundary must be deferred by every method called from the host's threads.
// a panic is not allowed to unwind into the host. the method's named results
// are left as they were when the panic happened, so they must be set to a
// safe value before anything that might panic
func (ctx *Context) boundary(op string) {
	r := recover()
	if r == nil {
		return
	}

	ctx.recovered.Add(1)
	ctx.logf("pacing", "%s: recovered from panic: %v", op, r)
	ctx.logf("pacing", "%s: %s", op, panicStack())
}

// panicStack returns the functions leading to the panic, innermost first.
// log entries are single lines so the stack is folded onto one line
func panicStack() string {
	var fns []string
	for _, l := range strings.Split(string(debug.Stack()), "\n")[1:] {
		if l != "" && !strings.HasPrefix(l, "\t") {
			fns = append(fns, strings.TrimSpace(l))
		}
	}

	for i, f := range fns {
		if strings.HasPrefix(f, "panic(") {
			fns = fns[i+1:]
			break
		}
	}

	if len(fns) > panicFrames {
		fns = fns[:panicFrames]
	}

	return strings.Join(fns, " < ")
}
