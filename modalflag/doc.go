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


// Package modalflag wraps the flag package of the standard library so that a
// command line can select a mode of operation, each mode with its own flags.
//
// Arguments are given with NewArgs() and each layer of the command line is
// processed with Parse(). Modes are added with AddSubModes() before a call
// to Parse(). If the first argument after the flags is one of the modes then
// it is consumed and becomes the value of Mode(). Otherwise the first mode in
// the list is the default:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("VERIFY", "FINGERPRINT", "NOPS", "SIM")
//	_, _ = md.Parse()
//
//	switch md.Mode() {
//	case "NOPS":
//		md.NewMode()
//		gap := md.AddInt("gap", 16, "number of bytes to fill")
//		_, _ = md.Parse()
//	}
//
// Help is printed automatically when -help is given and Parse() returns
// ParseHelp. Mode comparisons are case insensitive.
package modalflag
