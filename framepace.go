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


package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jetsetilly/framepace/logger"
	"github.com/jetsetilly/framepace/modalflag"
	"github.com/jetsetilly/framepace/patch"
	"github.com/jetsetilly/framepace/version"
	"github.com/jetsetilly/framepace/x86"
)

func main() {
	os.Exit(launch(os.Stdout, os.Args[1:]))
}

// launch the tool with the command line arguments. the return value is the
// exit code of the process.
func launch(output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("SIM", "VERIFY", "FINGERPRINT", "NOPS")
	md.AdditionalHelp(version.String())

	echo := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *echo {
		logger.SetEcho(output)
	}

	switch md.Mode() {
	case "SIM":
		err = simulate(md)

	case "VERIFY":
		err = verify(md)

	case "FINGERPRINT":
		err = fingerprint(md)

	case "NOPS":
		err = nops(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

func verify(md *modalflag.Modes) error {
	md.NewMode()

	base := md.AddHex("base", recordedBase+0x10000, "load address of the synthetic module")
	listing := md.AddBool("listing", false, "disassemble each site after patching")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	b := uintptr(*base)
	reloc := int64(b) - recordedBase

	buf, err := syntheticModule(b)
	if err != nil {
		return err
	}

	descs, err := syntheticDescriptors(b)
	if err != nil {
		return err
	}

	for _, d := range descs {
		if err := d.Verify(buf, b, reloc); err != nil {
			return err
		}
	}

	before := buf.Bytes()

	set, err := patch.ApplyAll(buf, b, reloc, descs)
	if err != nil {
		return err
	}

	after := buf.Bytes()
	for i := 0; i < set.Len(); i++ {
		a := set.Applied(i)
		fmt.Fprintf(md.Output, "%#08x %s\n", a.Address, a.Descriptor)

		if *listing {
			o := a.Address - b
			l, err := x86.DecodeAll(after[o : o+uintptr(a.Descriptor.Len)])
			if err != nil {
				return err
			}
			for _, ins := range l {
				fmt.Fprintf(md.Output, "\t%s\n", ins)
			}
		}
	}

	// patched sites no longer match their fingerprints
	for _, d := range descs {
		if err := d.Verify(buf, b, reloc); err == nil {
			return fmt.Errorf("%s: site still verifies after patching", d.Name)
		}
	}

	if err := set.Revert(buf); err != nil {
		return err
	}

	if !bytes.Equal(before, buf.Bytes()) {
		return fmt.Errorf("module differs after revert")
	}

	fmt.Fprintf(md.Output, "%d sites patched and reverted at %#08x (relocation %d)\n", set.Len(), b, reloc)

	return nil
}

func fingerprint(md *modalflag.Modes) error {
	md.NewMode()

	offset := md.AddHex("offset", 0, "offset of the site in the image")
	length := md.AddInt("len", 0, "length of the site in bytes")
	control := md.AddString("control", "", "control stream of the site eg. \"LR L LL R\"")
	reloc := md.AddInt64("reloc", 0, "relocation distance of the image")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	cs, err := patch.ParseControl(*control)
	if err != nil {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		// fingerprint the sites of the synthetic module
		descs, err := syntheticDescriptors(recordedBase)
		if err != nil {
			return err
		}
		for _, d := range descs {
			fmt.Fprintf(md.Output, "%#08x %s %s\n", d.Fingerprint, d, d.Control)
		}

	case 1:
		img, err := os.ReadFile(md.GetArg(0))
		if err != nil {
			return err
		}

		if *length <= 0 {
			return fmt.Errorf("site length required for %s mode", md)
		}
		if *offset+uint64(*length) > uint64(len(img)) {
			return fmt.Errorf("site %#x+%d is outside %s", *offset, *length, md.GetArg(0))
		}

		code := img[*offset : *offset+uint64(*length)]
		fp, err := patch.Fingerprint(code, cs, *reloc)
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "%#08x\n", fp)

	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}

func nops(md *modalflag.Modes) error {
	md.NewMode()

	listing := md.AddBool("listing", true, "disassemble the filler")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("at least one gap length required for %s mode", md)
	}

	for _, a := range md.RemainingArgs() {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("gap length: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("gap length: %d is negative", n)
		}

		b := make([]byte, n)
		patch.Fill(b)

		fmt.Fprintf(md.Output, "%d: % x\n", n, b)

		if *listing {
			l, err := x86.DecodeAll(b)
			if err != nil {
				return err
			}
			for _, ins := range l {
				fmt.Fprintf(md.Output, "\t%s\n", ins)
			}
		}
	}

	return nil
}
