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

// Package curated is a helper package for the plain Go error type. Curated
// errors are created with Errorf(), which looks like fmt.Errorf() but keeps
// hold of the formatting pattern. The pattern is the identity of the error.
//
// Packages that want callers to distinguish failure kinds export the pattern
// as a const string:
//
//	const VerificationMismatch = "patch: verification mismatch at %#08x"
//
//	err := curated.Errorf(VerificationMismatch, addr)
//
//	if curated.Is(err, VerificationMismatch) {
//		...
//	}
//
// Is() checks the outermost pattern only. Has() searches the whole chain,
// following curated values passed as arguments to Errorf() and following
// Unwrap() for other errors.
//
// When an error message is built, adjacent duplicate parts of the chain are
// removed. Parts are separated by the sub-string ": " so
//
//	curated.Errorf("patch: %v", curated.Errorf("patch: protection denied"))
//
// prints as "patch: protection denied" and not "patch: patch: protection
// denied". This means a function can always wrap an error with its own
// prefix without worrying about whether the callee already did.
package curated
