/*
   Micro16 CPU core - string primitives and REP-family prefixes.

   Copyright (c) 2025, Micro16 Project contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

package cpu

import "github.com/mach16/micro16/emu/isa"

// step16 returns the per-iteration SI/DI adjustment: -size under the
// Direction flag, +size otherwise.
func (c *CPU) step16(size uint16) uint16 {
	if c.flag(FlagD) {
		return uint16(-int16(size))
	}
	return size
}

func doMOVSB(c *CPU) {
	b := c.readByteAt(isa.SegDS, c.Regs[isa.SI])
	c.writeByteAt(isa.SegES, c.Regs[isa.DI], b)
	c.Regs[isa.SI] += c.step16(1)
	c.Regs[isa.DI] += c.step16(1)
}

func doMOVSW(c *CPU) {
	w := c.readWordAt(isa.SegDS, c.Regs[isa.SI])
	c.writeWordAt(isa.SegES, c.Regs[isa.DI], w)
	c.Regs[isa.SI] += c.step16(2)
	c.Regs[isa.DI] += c.step16(2)
}

func doCMPSB(c *CPU) {
	a := c.readByteAt(isa.SegDS, c.Regs[isa.SI])
	b := c.readByteAt(isa.SegES, c.Regs[isa.DI])
	c.subFlags8(a, b)
	c.Regs[isa.SI] += c.step16(1)
	c.Regs[isa.DI] += c.step16(1)
}

func doCMPSW(c *CPU) {
	a := c.readWordAt(isa.SegDS, c.Regs[isa.SI])
	b := c.readWordAt(isa.SegES, c.Regs[isa.DI])
	c.subFlags(a, b, a-b)
	c.Regs[isa.SI] += c.step16(2)
	c.Regs[isa.DI] += c.step16(2)
}

func doSTOSB(c *CPU) {
	c.writeByteAt(isa.SegES, c.Regs[isa.DI], byte(c.Regs[isa.AX]))
	c.Regs[isa.DI] += c.step16(1)
}

func doSTOSW(c *CPU) {
	c.writeWordAt(isa.SegES, c.Regs[isa.DI], c.Regs[isa.AX])
	c.Regs[isa.DI] += c.step16(2)
}

func doLODSB(c *CPU) {
	b := c.readByteAt(isa.SegDS, c.Regs[isa.SI])
	c.Regs[isa.AX] = c.Regs[isa.AX]&0xFF00 | uint16(b)
	c.Regs[isa.SI] += c.step16(1)
}

func doLODSW(c *CPU) {
	c.Regs[isa.AX] = c.readWordAt(isa.SegDS, c.Regs[isa.SI])
	c.Regs[isa.SI] += c.step16(2)
}

func doSCASB(c *CPU) {
	a := byte(c.Regs[isa.AX])
	b := c.readByteAt(isa.SegES, c.Regs[isa.DI])
	c.subFlags8(a, b)
	c.Regs[isa.DI] += c.step16(1)
}

func doSCASW(c *CPU) {
	a := c.Regs[isa.AX]
	b := c.readWordAt(isa.SegES, c.Regs[isa.DI])
	c.subFlags(a, b, a-b)
	c.Regs[isa.DI] += c.step16(2)
}

func execMOVSB(c *CPU) uint16 { doMOVSB(c); return 5 }
func execMOVSW(c *CPU) uint16 { doMOVSW(c); return 5 }
func execCMPSB(c *CPU) uint16 { doCMPSB(c); return 5 }
func execCMPSW(c *CPU) uint16 { doCMPSW(c); return 5 }
func execSTOSB(c *CPU) uint16 { doSTOSB(c); return 4 }
func execSTOSW(c *CPU) uint16 { doSTOSW(c); return 4 }
func execLODSB(c *CPU) uint16 { doLODSB(c); return 4 }
func execLODSW(c *CPU) uint16 { doLODSW(c); return 4 }
func execSCASB(c *CPU) uint16 { doSCASB(c); return 4 }
func execSCASW(c *CPU) uint16 { doSCASW(c); return 4 }

// runPrimitiveOnce executes exactly one iteration of the string
// primitive named by opcode and reports whether it recognized it.
func runPrimitiveOnce(c *CPU, opcode byte) bool {
	switch opcode {
	case isa.OpMOVSB:
		doMOVSB(c)
	case isa.OpMOVSW:
		doMOVSW(c)
	case isa.OpCMPSB:
		doCMPSB(c)
	case isa.OpCMPSW:
		doCMPSW(c)
	case isa.OpSTOSB:
		doSTOSB(c)
	case isa.OpSTOSW:
		doSTOSW(c)
	case isa.OpLODSB:
		doLODSB(c)
	case isa.OpLODSW:
		doLODSW(c)
	case isa.OpSCASB:
		doSCASB(c)
	case isa.OpSCASW:
		doSCASW(c)
	default:
		return false
	}
	return true
}

// repLoop implements the shared REP/REPZ/REPNZ body: the prefix
// fetches its operand opcode, then repeats the primitive while CX > 0
// (and, for REPZ/REPNZ, while the Zero flag matches zeroWanted). A
// zeroWanted of nil means an unconditional REP. If Cancel reports
// true mid-loop, PC is rewound to the prefix byte itself so a later
// Step resumes the remaining iterations cleanly, since CX/SI/DI
// already reflect every iteration completed so far.
func repLoop(c *CPU, zeroWanted *bool) uint16 {
	prefixPC := c.PC - 1
	opcode := c.fetchByte()
	if c.Error {
		return 0
	}
	if !isa.IsStringPrimitive(opcode) {
		c.fault("REP prefix applied to non-string opcode 0x%02X", opcode)
		return 0
	}

	var cycles uint16
	for c.Regs[isa.CX] != 0 {
		runPrimitiveOnce(c, opcode)
		cycles += 5
		c.Regs[isa.CX]--
		if c.Error {
			return cycles
		}
		if zeroWanted != nil && c.flag(FlagZ) != *zeroWanted {
			break
		}
		if c.Cancel != nil && c.Cancel() {
			c.PC = prefixPC
			return cycles
		}
	}
	return cycles
}

func execREP(c *CPU) uint16 {
	return repLoop(c, nil)
}

func execREPZ(c *CPU) uint16 {
	want := true
	return repLoop(c, &want)
}

func execREPNZ(c *CPU) uint16 {
	want := false
	return repLoop(c, &want)
}
