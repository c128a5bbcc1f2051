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

// Package memory defines the process memory window. All access to the code
// of the host executable goes through the Window interface, which means
// nothing outside of this package needs to know about raw pointers or the
// operating system's page protection calls.
//
//	                 Read() / Write()
//	   patch ------------------------------> Window
//	                                           |
//	          Protect() --> Guard.Restore()    |---- Buffer (simulated image)
//	                                           |
//	                                            ---- Live (this process)
//
// Reading and writing are separate from changing protection. A caller that
// wants to write to code must first call Protect() with ReadWriteExecute and
// must always call Restore() on the returned Guard. The usual pattern is:
//
//	g, err := win.Protect(addr, n, memory.ReadWriteExecute)
//	if err != nil {
//		return err
//	}
//	defer g.Restore()
//
// Buffer is a simulated module image with page level protection. It is what
// the tests and the framepace tool patch. Live is the real thing and uses
// golang.org/x/sys to change page protection of the running process.
package memory
