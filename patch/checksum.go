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

import (
	"encoding/binary"
	"math"

	"github.com/jetsetilly/framepace/curated"
)

// the fingerprint hash is FNV-1a in form but both the seed and the multiplier
// are the 32 bit FNV prime. recorded fingerprints depend on this so it must
// not be changed to the standard offset basis
const (
	fingerprintSeed  = 0x01000193
	fingerprintPrime = 0x01000193
)

func fold(hash uint32, b byte) uint32 {
	return (hash ^ uint32(b)) * fingerprintPrime
}

// relocation32 returns the relocation distance as a 32 bit value. The
// distance is the actual load address minus the recorded load address.
func relocation32(reloc int64) (int32, error) {
	if reloc < math.MinInt32 || reloc > math.MaxInt32 {
		return 0, curated.Errorf(BadRelocation, reloc)
	}
	return int32(reloc), nil
}

// Normalise returns a copy of code with the relocation distance removed from
// every Relocatable32 field and every ZeroMasked byte set to zero. These are
// the bytes that are folded into the fingerprint, and for a matching site
// they are the same for every load address.
func Normalise(code []byte, cs ControlStream, reloc int64) ([]byte, error) {
	r, err := relocation32(reloc)
	if err != nil {
		return nil, err
	}

	n := make([]byte, len(code))

	i := 0
	for unit := 0; i < len(code); unit++ {
		switch cs.At(unit) {
		case Relocatable32:
			if i+4 > len(code) {
				return nil, curated.Errorf(TruncatedRelocation, unit, i)
			}
			v := int32(binary.LittleEndian.Uint32(code[i:])) - r
			binary.LittleEndian.PutUint32(n[i:], uint32(v))
			i += 4
		case ZeroMasked:
			n[i] = 0
			i++
		case Literal:
			n[i] = code[i]
			i++
		default:
			return nil, curated.Errorf(ReservedControl, unit)
		}
	}

	return n, nil
}

// Relocate is the inverse of Normalise(). It adds the relocation distance to
// every Relocatable32 field. ZeroMasked bytes cannot be recovered and are
// zero in the result.
func Relocate(normalised []byte, cs ControlStream, reloc int64) ([]byte, error) {
	return Normalise(normalised, cs, -reloc)
}

// Fingerprint returns the relocation invariant fingerprint of code.
func Fingerprint(code []byte, cs ControlStream, reloc int64) (uint32, error) {
	n, err := Normalise(code, cs, reloc)
	if err != nil {
		return 0, err
	}

	hash := uint32(fingerprintSeed)
	for _, b := range n {
		hash = fold(hash, b)
	}

	return hash, nil
}
