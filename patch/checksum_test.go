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

package patch_test

import (
	"math/rand/v2"
	"testing"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/patch"
	"github.com/jetsetilly/framepace/test"
)

func TestControlStream(t *testing.T) {
	cs, err := patch.ParseControl("L R z_L")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cs.At(0), patch.Literal)
	test.ExpectEquality(t, cs.At(1), patch.Relocatable32)
	test.ExpectEquality(t, cs.At(2), patch.ZeroMasked)
	test.ExpectEquality(t, cs.At(3), patch.Literal)
	test.ExpectEquality(t, cs.String(), "LRZ")

	// padding in the last word and units beyond the stream are literal
	test.ExpectEquality(t, cs.Units(), 16)
	test.ExpectEquality(t, cs.At(15), patch.Literal)
	test.ExpectEquality(t, cs.At(1000), patch.Literal)

	// least significant unit first
	test.ExpectEquality(t, cs[0], uint32(0x02<<2|0x01<<4))

	// more than one word
	cs, err = patch.ParseControl("LLLLLLLLLLLLLLLL R")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(cs), 2)
	test.ExpectEquality(t, cs.At(16), patch.Relocatable32)

	_, err = patch.ParseControl("LX")
	test.ExpectSuccess(t, curated.Is(err, patch.BadControl))
}

func TestFingerprintKnownValues(t *testing.T) {
	fp, err := patch.Fingerprint(nil, nil, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fp, uint32(0x01000193))

	fp, err = patch.Fingerprint([]byte{0x90}, nil, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fp, uint32(0x960197b9))

	// mov eax,[0x00412345]
	fp, err = patch.Fingerprint([]byte{0xa1, 0x45, 0x23, 0x41, 0x00}, nil, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fp, uint32(0x13dcff77))
}

func TestFingerprintZeroRelocationIsLiteral(t *testing.T) {
	code := []byte{0xa1, 0x45, 0x23, 0x41, 0x00}
	cs, _ := patch.ParseControl("LR")

	a, err := patch.Fingerprint(code, cs, 0)
	test.ExpectSuccess(t, err)
	b, err := patch.Fingerprint(code, nil, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a, b)
}

func TestFingerprintRelocation(t *testing.T) {
	// mov eax,[0x00412345]
	// push eax
	// call [0x00413000]
	// int3 (alignment padding, varies between builds)
	recorded := []byte{0xa1, 0x45, 0x23, 0x41, 0x00, 0x50, 0xff, 0x15, 0x00, 0x30, 0x41, 0x00, 0xcc}
	cs, _ := patch.ParseControl("LR L LL R Z")

	expected, err := patch.Fingerprint(recorded, cs, 0)
	test.DemandSuccess(t, err)

	// module loaded 0x0fc00000 higher than recorded
	const reloc = 0x10000000 - 0x00400000
	loaded := []byte{0xa1, 0x45, 0x23, 0x01, 0x10, 0x50, 0xff, 0x15, 0x00, 0x30, 0x01, 0x10, 0x90}

	fp, err := patch.Fingerprint(loaded, cs, reloc)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fp, expected)

	// without the relocation the fingerprint is different
	fp, err = patch.Fingerprint(loaded, cs, 0)
	test.ExpectSuccess(t, err)
	test.ExpectInequality(t, fp, expected)

	// relocation below the recorded address
	loaded = []byte{0xa1, 0x45, 0x23, 0x31, 0x00, 0x50, 0xff, 0x15, 0x00, 0x30, 0x31, 0x00, 0x00}
	fp, err = patch.Fingerprint(loaded, cs, -0x100000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fp, expected)
}

// for any code and any relocation distance, relocating the normalised code
// and fingerprinting it with the same distance gives the recorded fingerprint
func TestFingerprintRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(2600, 1977))

	for range 500 {
		var controls []patch.Control
		var n int
		for n < 24 {
			c := patch.Control(rnd.IntN(3))
			if c == patch.Relocatable32 {
				n += 4
			} else {
				n++
			}
			controls = append(controls, c)
		}
		cs := patch.NewControlStream(controls...)

		code := make([]byte, n)
		for i := range code {
			code[i] = uint8(rnd.UintN(256))
		}

		expected, err := patch.Fingerprint(code, cs, 0)
		test.DemandSuccess(t, err)

		reloc := int64(rnd.Int32()) - int64(rnd.Int32())
		if reloc < -0x7fffffff || reloc > 0x7fffffff {
			continue
		}

		loaded, err := patch.Relocate(code, cs, reloc)
		test.DemandSuccess(t, err)

		fp, err := patch.Fingerprint(loaded, cs, reloc)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, fp, expected)

		n1, err := patch.Normalise(loaded, cs, reloc)
		test.ExpectSuccess(t, err)
		n2, err := patch.Normalise(code, cs, 0)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, string(n1), string(n2))
	}
}

func TestFingerprintErrors(t *testing.T) {
	cs, _ := patch.ParseControl("LR")

	_, err := patch.Fingerprint([]byte{0xa1, 0x00, 0x00}, cs, 0)
	test.ExpectSuccess(t, curated.Is(err, patch.TruncatedRelocation))

	_, err = patch.Fingerprint([]byte{0xa1, 0x00, 0x00, 0x00, 0x00}, cs, 1<<40)
	test.ExpectSuccess(t, curated.Is(err, patch.BadRelocation))

	_, err = patch.Fingerprint([]byte{0x90}, patch.ControlStream{0x03}, 0)
	test.ExpectSuccess(t, curated.Is(err, patch.ReservedControl))
}
