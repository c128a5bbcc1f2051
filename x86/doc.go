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

// Package x86 contains the few IA-32 instruction encodings that framepace
// writes into the host executable: the near call used to divert execution
// into framepace, the near and short jumps used to skip over long runs of
// padding, and the recommended multi-byte no-op forms.
//
// The Decode() function recognises exactly those encodings (and the
// equivalent no-op forms with different ModRM addressing). It is not a
// general disassembler. It exists so that generated code can be checked and
// listed.
package x86
