/*
   Micro16 CPU core - arithmetic instructions.

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

func execADDrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	a, b := c.Regs[rd], c.Regs[rs]
	result := a + b
	c.Regs[rd] = result
	c.addFlags(a, b, result)
	return 1
}

func execADDri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	a := c.Regs[rd]
	result := a + imm
	c.Regs[rd] = result
	c.addFlags(a, imm, result)
	return 2
}

func execADCrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	a, b := c.Regs[rd], c.Regs[rs]
	c.Regs[rd] = c.addWithCarry(a, b, c.flag(FlagC))
	return 1
}

func execADCri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	a := c.Regs[rd]
	c.Regs[rd] = c.addWithCarry(a, imm, c.flag(FlagC))
	return 2
}

func execSUBrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	a, b := c.Regs[rd], c.Regs[rs]
	result := a - b
	c.Regs[rd] = result
	c.subFlags(a, b, result)
	return 1
}

func execSUBri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	a := c.Regs[rd]
	result := a - imm
	c.Regs[rd] = result
	c.subFlags(a, imm, result)
	return 2
}

func execSBCrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	a, b := c.Regs[rd], c.Regs[rs]
	c.Regs[rd] = c.subWithBorrow(a, b, c.flag(FlagC))
	return 1
}

func execSBCri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	a := c.Regs[rd]
	c.Regs[rd] = c.subWithBorrow(a, imm, c.flag(FlagC))
	return 2
}

func execCMPrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	a, b := c.Regs[rd], c.Regs[rs]
	c.subFlags(a, b, a-b)
	return 1
}

func execCMPri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	a := c.Regs[rd]
	c.subFlags(a, imm, a-imm)
	return 2
}

func execADDSPi(c *CPU) uint16 {
	c.regOnly()
	imm := c.fetchWord()
	c.SP += imm
	return 2
}

func execSUBSPi(c *CPU) uint16 {
	c.regOnly()
	imm := c.fetchWord()
	c.SP -= imm
	return 2
}

// execMUL implements unsigned AX*Rs -> DX:AX. Carry and Overflow are
// set when the high half is non-zero; Zero/Sign/Parity are derived
// from the low half (AX).
func execMUL(c *CPU) uint16 {
	rs := c.regOnly()
	product := uint32(c.Regs[isa.AX]) * uint32(c.Regs[rs])
	c.Regs[isa.AX] = uint16(product)
	c.Regs[isa.DX] = uint16(product >> 16)
	c.setZSP(c.Regs[isa.AX])
	overflow := c.Regs[isa.DX] != 0
	c.setFlag(FlagC, overflow)
	c.setFlag(FlagO, overflow)
	return 8
}

// execIMUL implements signed AX*Rs -> DX:AX. Carry and Overflow are
// set unless DX is the sign extension of AX.
func execIMUL(c *CPU) uint16 {
	rs := c.regOnly()
	product := int32(int16(c.Regs[isa.AX])) * int32(int16(c.Regs[rs]))
	c.Regs[isa.AX] = uint16(product)
	c.Regs[isa.DX] = uint16(product >> 16)
	c.setZSP(c.Regs[isa.AX])
	signExtended := c.Regs[isa.DX] == 0 && c.Regs[isa.AX]&0x8000 == 0 ||
		c.Regs[isa.DX] == 0xFFFF && c.Regs[isa.AX]&0x8000 != 0
	overflow := !signExtended
	c.setFlag(FlagC, overflow)
	c.setFlag(FlagO, overflow)
	return 8
}

// execDIV implements unsigned DX:AX / Rs -> quotient in AX, remainder
// in DX. Division by zero and quotient overflow both raise a CPU
// fault.
func execDIV(c *CPU) uint16 {
	rs := c.regOnly()
	divisor := uint32(c.Regs[rs])
	if divisor == 0 {
		c.fault("division by zero")
		return 0
	}
	dividend := uint32(c.Regs[isa.DX])<<16 | uint32(c.Regs[isa.AX])
	quotient := dividend / divisor
	if quotient > 0xFFFF {
		c.fault("DIV quotient overflow")
		return 0
	}
	c.Regs[isa.AX] = uint16(quotient)
	c.Regs[isa.DX] = uint16(dividend % divisor)
	return 22
}

// execIDIV implements signed DX:AX / Rs.
func execIDIV(c *CPU) uint16 {
	rs := c.regOnly()
	divisor := int32(int16(c.Regs[rs]))
	if divisor == 0 {
		c.fault("division by zero")
		return 0
	}
	dividend := int32(uint32(c.Regs[isa.DX])<<16 | uint32(c.Regs[isa.AX]))
	quotient := dividend / divisor
	if quotient > 0x7FFF || quotient < -0x8000 {
		c.fault("IDIV quotient overflow")
		return 0
	}
	c.Regs[isa.AX] = uint16(quotient)
	c.Regs[isa.DX] = uint16(dividend % divisor)
	return 22
}

// execCBW sign-extends AL into AX.
func execCBW(c *CPU) uint16 {
	al := int8(c.Regs[isa.AX])
	c.Regs[isa.AX] = uint16(int16(al))
	return 1
}

// execCWD sign-extends AX into DX:AX.
func execCWD(c *CPU) uint16 {
	if c.Regs[isa.AX]&0x8000 != 0 {
		c.Regs[isa.DX] = 0xFFFF
	} else {
		c.Regs[isa.DX] = 0
	}
	return 1
}

// execXLAT loads AL from the byte table at DS:(BX+AL).
func execXLAT(c *CPU) uint16 {
	off := effectiveOffset(c.Regs[isa.BX], int16(byte(c.Regs[isa.AX])))
	b := c.readByteAt(isa.SegDS, off)
	c.Regs[isa.AX] = c.Regs[isa.AX]&0xFF00 | uint16(b)
	return 5
}
