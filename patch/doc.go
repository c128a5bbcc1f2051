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

// Package patch verifies and patches code in the host executable.
//
// A Descriptor describes one patch site: where it is relative to the load
// address of the module, how long it is, and a fingerprint of the code that
// is expected to be there. Before anything is written the code at the site
// is fingerprinted and compared. Only if the fingerprints match is the site
// overwritten with the payload (usually a call into framepace), and the rest
// of the site filled with no-op instructions.
//
// The fingerprint is computed so that it does not change when the module is
// loaded at a different address to the one it was recorded at. A control
// stream says how each byte of the site is treated: as a literal, as a byte
// that is ignored, or as the first byte of a 32 bit absolute address that
// needs to be adjusted by the relocation distance.
//
// A successful Apply() returns an Applied value that can put back the
// original code. The Set type applies a list of descriptors as a unit: if any
// of them fails, those already applied are reverted in reverse order.
package patch
