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

package patch

// Sentinal error patterns.
const (
	// the code at the patch site does not match the descriptor's
	// fingerprint. either the host is a build we don't know about or the
	// site has already been patched
	VerificationMismatch = "patch: %s: verification mismatch at %#08x (fingerprint %#08x, expected %#08x)"

	// the operating system refused to make the patch site writable (or
	// readable, for verification)
	ProtectionDenied = "patch: %s: protection denied: %v"

	// the relocation distance does not fit in 32 bits
	BadRelocation = "patch: relocation distance not representable (%d)"

	// the call target is too far from the patch site
	CallOutOfRange = "patch: %s: call target out of range: %v"

	// the descriptor is malformed
	BadDescriptor = "patch: %s: bad descriptor: %s"

	// control stream errors
	BadControl          = "patch: unrecognised control character (%c)"
	ReservedControl     = "patch: reserved control value at unit %d"
	TruncatedRelocation = "patch: relocatable unit %d at byte %d extends beyond the patch site"
)
