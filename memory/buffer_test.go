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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/test"
)

const base = 0x00400000

func TestBufferReadWrite(t *testing.T) {
	img := make([]byte, 0x3000)
	img[0x1000] = 0x55
	buf := memory.NewBuffer(base, img, memory.ReadExecute)

	b := make([]byte, 1)
	test.ExpectSuccess(t, buf.Read(base+0x1000, b))
	test.ExpectEquality(t, b[0], uint8(0x55))

	// code pages are not writable until protection is changed
	err := buf.Write(base+0x1000, []byte{0x90})
	test.ExpectSuccess(t, curated.Is(err, memory.NotWritable))

	g, err := buf.Protect(base+0x1000, 1, memory.ReadWriteExecute)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, buf.Write(base+0x1000, []byte{0x90}))
	test.ExpectSuccess(t, g.Restore())
	test.ExpectEquality(t, buf.Protection(base+0x1000), memory.ReadExecute)

	test.ExpectSuccess(t, buf.Read(base+0x1000, b))
	test.ExpectEquality(t, b[0], uint8(0x90))

	// the original image is not changed by writes to the buffer
	test.ExpectEquality(t, img[0x1000], uint8(0x55))
}

func TestBufferBounds(t *testing.T) {
	buf := memory.NewBuffer(base, make([]byte, 0x100), memory.ReadExecute)
	b := make([]byte, 4)

	test.ExpectSuccess(t, buf.Read(base+0xfc, b))
	test.ExpectSuccess(t, curated.Is(buf.Read(base+0xfd, b), memory.OutOfBounds))
	test.ExpectSuccess(t, curated.Is(buf.Read(base-1, b), memory.OutOfBounds))

	_, err := buf.Protect(base+0xff, 2, memory.ReadWriteExecute)
	test.ExpectSuccess(t, curated.Has(err, memory.OutOfBounds))
}

func TestBufferNoAccess(t *testing.T) {
	buf := memory.NewBuffer(base, make([]byte, 0x2000), memory.NoAccess)
	b := make([]byte, 2)

	err := buf.Read(base+0x10, b)
	test.ExpectSuccess(t, curated.Is(err, memory.NotReadable))

	g, err := buf.Protect(base+0x10, 2, memory.ReadExecute)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, buf.Read(base+0x10, b))
	g.Restore()
	test.ExpectSuccess(t, curated.Is(buf.Read(base+0x10, b), memory.NotReadable))
}

func TestBufferProtectionSpansPages(t *testing.T) {
	buf := memory.NewBuffer(base, make([]byte, 0x3000), memory.ReadExecute)

	g, err := buf.Protect(base+0xffe, 4, memory.ReadWriteExecute)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, buf.Protection(base+0x0), memory.ReadWriteExecute)
	test.ExpectEquality(t, buf.Protection(base+0x1001), memory.ReadWriteExecute)
	test.ExpectEquality(t, buf.Protection(base+0x2000), memory.ReadExecute)

	test.ExpectSuccess(t, g.Restore())
	test.ExpectSuccess(t, g.Restore())
	test.ExpectEquality(t, buf.Protection(base+0x1001), memory.ReadExecute)
}

func TestBufferDeny(t *testing.T) {
	buf := memory.NewBuffer(base, make([]byte, 0x100), memory.ReadExecute)
	buf.Deny = func(_ uintptr, _ int, prot memory.Protection) bool {
		return prot.Writable()
	}

	_, err := buf.Protect(base, 4, memory.ReadWriteExecute)
	test.ExpectSuccess(t, curated.Is(err, memory.ProtectionFailed))
	test.ExpectEquality(t, buf.Protection(base), memory.ReadExecute)

	_, err = buf.Protect(base, 4, memory.ReadExecute)
	test.ExpectSuccess(t, err)
}
