/*
   Micro16 CPU core - register and memory data transfer.

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

func execMOVrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	c.Regs[rd] = c.Regs[rs]
	return 1
}

func execMOVri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	c.Regs[rd] = imm
	return 2
}

func execXCHG(c *CPU) uint16 {
	rd, rs := c.regReg()
	c.Regs[rd], c.Regs[rs] = c.Regs[rs], c.Regs[rd]
	return 2
}

func execMOVrSeg(c *CPU) uint16 {
	seg, reg := c.segReg()
	c.Regs[reg] = c.Segs[seg]
	return 1
}

func execMOVSegr(c *CPU) uint16 {
	seg, reg := c.segReg()
	c.Segs[seg] = c.Regs[reg]
	return 1
}

func execMOVrSP(c *CPU) uint16 {
	rd := c.regOnly()
	c.Regs[rd] = c.SP
	return 1
}

func execMOVSPr(c *CPU) uint16 {
	rs := c.regOnly()
	c.SP = c.Regs[rs]
	return 1
}

func execLEA(c *CPU) uint16 {
	rd, rb, disp := c.indexed()
	c.Regs[rd] = effectiveOffset(c.Regs[rb], disp)
	return 2
}

func execLDS(c *CPU) uint16 {
	rd, rb, disp := c.indexed()
	off := effectiveOffset(c.Regs[rb], disp)
	c.Regs[rd] = c.readWordAt(isa.SegDS, off)
	c.Segs[isa.SegDS] = c.readWordAt(isa.SegDS, off+2)
	return 4
}

func execLES(c *CPU) uint16 {
	rd, rb, disp := c.indexed()
	off := effectiveOffset(c.Regs[rb], disp)
	c.Regs[rd] = c.readWordAt(isa.SegDS, off)
	c.Segs[isa.SegES] = c.readWordAt(isa.SegDS, off+2)
	return 4
}

func execINC(c *CPU) uint16 {
	rd := c.regOnly()
	a := c.Regs[rd]
	result := a + 1
	c.Regs[rd] = result
	c.incDecFlags(a, result, true)
	return 1
}

func execDEC(c *CPU) uint16 {
	rd := c.regOnly()
	a := c.Regs[rd]
	result := a - 1
	c.Regs[rd] = result
	c.incDecFlags(a, result, false)
	return 1
}

func execNEG(c *CPU) uint16 {
	rd := c.regOnly()
	a := c.Regs[rd]
	result := -a
	c.Regs[rd] = result
	c.setZSP(result)
	c.setFlag(FlagC, a != 0)
	c.setFlag(FlagO, a == 0x8000)
	return 1
}

func execNOT(c *CPU) uint16 {
	rd := c.regOnly()
	c.Regs[rd] = ^c.Regs[rd]
	return 1
}

func execPUSHr(c *CPU) uint16 {
	rd := c.regOnly()
	c.pushWord(c.Regs[rd])
	return 2
}

func execPOPr(c *CPU) uint16 {
	rd := c.regOnly()
	c.Regs[rd] = c.popWord()
	return 2
}

func execPUSHSeg(c *CPU) uint16 {
	seg := c.segOnly()
	c.pushWord(c.Segs[seg])
	return 2
}

func execPOPSeg(c *CPU) uint16 {
	seg := c.segOnly()
	c.Segs[seg] = c.popWord()
	return 2
}
