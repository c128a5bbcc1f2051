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
	"github.com/jetsetilly/framepace/curated"
	"github.com/jetsetilly/framepace/logger"
	"github.com/jetsetilly/framepace/memory"
	"github.com/jetsetilly/framepace/x86"
)

// Applied is returned by a successful Apply(). It holds what is needed to put
// the original code back.
type Applied struct {
	Descriptor *Descriptor

	// absolute address of the patch site
	Address uintptr

	// the code at the site before it was patched. this is the code as it
	// was in memory, with any relocation already applied by the loader, so
	// writing it back restores the site exactly
	Original []byte
}

// read n bytes at addr. the memory is made readable for the duration of the
// read and the previous protection restored afterwards
func read(win memory.Window, addr uintptr, n int) (code []byte, err error) {
	g, err := win.Protect(addr, n, memory.ReadExecute)
	if err != nil {
		return nil, err
	}
	defer func() {
		rerr := g.Restore()
		if err == nil && rerr != nil {
			code = nil
			err = rerr
		}
	}()

	code = make([]byte, n)
	err = win.Read(addr, code)
	if err != nil {
		return nil, err
	}

	return code, nil
}

// Verify checks that the code at the patch site matches the fingerprint. The
// base is the load address of the module and reloc is the difference between
// that and the load address the fingerprint was recorded at. Memory is never
// written to.
func (d *Descriptor) Verify(win memory.Window, base uintptr, reloc int64) error {
	_, err := d.verify(win, base, reloc)
	return err
}

func (d *Descriptor) verify(win memory.Window, base uintptr, reloc int64) ([]byte, error) {
	// check relocation before touching memory
	if _, err := relocation32(reloc); err != nil {
		return nil, err
	}

	addr := base + d.Offset

	code, err := read(win, addr, d.Len)
	if err != nil {
		return nil, curated.Errorf(ProtectionDenied, d.Name, err)
	}

	fp, err := Fingerprint(code, d.Control, reloc)
	if err != nil {
		return nil, err
	}

	if fp != d.Fingerprint {
		return nil, curated.Errorf(VerificationMismatch, d.Name, addr, fp, d.Fingerprint)
	}

	return code, nil
}

// assemble the replacement code for a patch site at addr.
func (d *Descriptor) assemble(addr uintptr) ([]byte, error) {
	code := make([]byte, d.Len)

	var n int
	switch d.Payload.Kind {
	case CallTarget:
		disp, err := x86.CallDisplacement(addr, d.Payload.Target)
		if err != nil {
			return nil, curated.Errorf(CallOutOfRange, d.Name, err)
		}
		n = x86.PutCall(code, disp)
	case RawBytes:
		n = copy(code, d.Payload.Bytes)
	}

	Fill(code[n:])

	return code, nil
}

// Apply verifies the patch site and if it matches, overwrites it with the
// payload and no-op padding.
func (d *Descriptor) Apply(win memory.Window, base uintptr, reloc int64) (*Applied, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	original, err := d.verify(win, base, reloc)
	if err != nil {
		return nil, err
	}

	addr := base + d.Offset

	code, err := d.assemble(addr)
	if err != nil {
		return nil, err
	}

	err = write(win, addr, code)
	if err != nil {
		return nil, curated.Errorf(ProtectionDenied, d.Name, err)
	}

	logger.Logf(logger.Allow, "patch", "%s applied at %#08x", d.Name, addr)

	return &Applied{
		Descriptor: d,
		Address:    addr,
		Original:   original,
	}, nil
}

// Revert puts back the original code. Reverting twice is a programming error
// but is harmless because it writes the same bytes again.
func (a *Applied) Revert(win memory.Window) error {
	err := write(win, a.Address, a.Original)
	if err != nil {
		return curated.Errorf(ProtectionDenied, a.Descriptor.Name, err)
	}
	logger.Logf(logger.Allow, "patch", "%s reverted at %#08x", a.Descriptor.Name, a.Address)
	return nil
}

// write code to addr. the memory is made writable for the duration of the
// write. the previous protection is restored on every path out of the
// function, including a panic.
func write(win memory.Window, addr uintptr, code []byte) error {
	g, err := win.Protect(addr, len(code), memory.ReadWriteExecute)
	if err != nil {
		return err
	}

	// restoring is idempotent. the deferred call only has an effect if the
	// explicit restore below is not reached
	defer g.Restore()

	err = win.Write(addr, code)
	if err != nil {
		return err
	}

	return g.Restore()
}
