/*
   Micro16 CPU core - jumps, calls, returns, and conditional branches.

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

func execJMPabs(c *CPU) uint16 {
	c.PC = c.fetchWord()
	return 3
}

func execJMPreg(c *CPU) uint16 {
	r := c.regOnly()
	c.PC = c.Regs[r]
	return 2
}

func execJMPfar(c *CPU) uint16 {
	off := c.fetchWord()
	seg := c.fetchWord()
	c.PC = off
	c.Segs[isa.SegCS] = seg
	return 4
}

func execCALLabs(c *CPU) uint16 {
	target := c.fetchWord()
	c.pushWord(c.PC)
	c.PC = target
	return 5
}

func execCALLreg(c *CPU) uint16 {
	r := c.regOnly()
	target := c.Regs[r]
	c.pushWord(c.PC)
	c.PC = target
	return 4
}

func execCALLfar(c *CPU) uint16 {
	off := c.fetchWord()
	seg := c.fetchWord()
	c.pushWord(c.Segs[isa.SegCS])
	c.pushWord(c.PC)
	c.Segs[isa.SegCS] = seg
	c.PC = off
	return 7
}

func execRET(c *CPU) uint16 {
	c.PC = c.popWord()
	return 4
}

func execRETF(c *CPU) uint16 {
	c.PC = c.popWord()
	c.Segs[isa.SegCS] = c.popWord()
	return 6
}

func execRETi(c *CPU) uint16 {
	n := c.fetchWord()
	c.PC = c.popWord()
	c.SP += n
	return 4
}

func execRETFi(c *CPU) uint16 {
	n := c.fetchWord()
	c.PC = c.popWord()
	c.Segs[isa.SegCS] = c.popWord()
	c.SP += n
	return 6
}

// branchIf jumps to the fetched 16-bit target when cond is true; the
// target word is always consumed regardless, so PC tracks correctly
// whether or not the branch is taken.
func branchIf(c *CPU, cond bool) uint16 {
	target := c.fetchWord()
	if cond {
		c.PC = target
		return 3
	}
	return 2
}

func execJZ(c *CPU) uint16  { return branchIf(c, c.flag(FlagZ)) }
func execJNZ(c *CPU) uint16 { return branchIf(c, !c.flag(FlagZ)) }
func execJC(c *CPU) uint16  { return branchIf(c, c.flag(FlagC)) }
func execJNC(c *CPU) uint16 { return branchIf(c, !c.flag(FlagC)) }
func execJS(c *CPU) uint16  { return branchIf(c, c.flag(FlagS)) }
func execJNS(c *CPU) uint16 { return branchIf(c, !c.flag(FlagS)) }
func execJO(c *CPU) uint16  { return branchIf(c, c.flag(FlagO)) }
func execJNO(c *CPU) uint16 { return branchIf(c, !c.flag(FlagO)) }

// Signed comparisons: L/GE/LE/G compare Sign against Overflow.
func execJL(c *CPU) uint16  { return branchIf(c, c.flag(FlagS) != c.flag(FlagO)) }
func execJGE(c *CPU) uint16 { return branchIf(c, c.flag(FlagS) == c.flag(FlagO)) }
func execJLE(c *CPU) uint16 {
	return branchIf(c, c.flag(FlagZ) || c.flag(FlagS) != c.flag(FlagO))
}
func execJG(c *CPU) uint16 {
	return branchIf(c, !c.flag(FlagZ) && c.flag(FlagS) == c.flag(FlagO))
}

// Unsigned comparisons: A/BE compare Carry and Zero.
func execJA(c *CPU) uint16  { return branchIf(c, !c.flag(FlagC) && !c.flag(FlagZ)) }
func execJBE(c *CPU) uint16 { return branchIf(c, c.flag(FlagC) || c.flag(FlagZ)) }

// rel8Target computes the branch target from the signed displacement
// byte following the opcode, relative to PC as it stands immediately
// after the two-byte instruction.
func (c *CPU) rel8Target() uint16 {
	rel := int8(c.fetchByte())
	return uint16(int32(c.PC) + int32(rel))
}

func execJR(c *CPU) uint16 {
	c.PC = c.rel8Target()
	return 2
}

// execLOOP decrements CX and branches while it is non-zero. Zero is
// set from the decremented CX, so it is 1 when the loop falls through.
func execLOOP(c *CPU) uint16 {
	target := c.rel8Target()
	c.Regs[isa.CX]--
	c.setFlag(FlagZ, c.Regs[isa.CX] == 0)
	if c.Regs[isa.CX] != 0 {
		c.PC = target
		return 3
	}
	return 2
}

func execLOOPZ(c *CPU) uint16 {
	target := c.rel8Target()
	c.Regs[isa.CX]--
	if c.Regs[isa.CX] != 0 && c.flag(FlagZ) {
		c.PC = target
		return 3
	}
	return 2
}

func execLOOPNZ(c *CPU) uint16 {
	target := c.rel8Target()
	c.Regs[isa.CX]--
	if c.Regs[isa.CX] != 0 && !c.flag(FlagZ) {
		c.PC = target
		return 3
	}
	return 2
}

func execJCXZ(c *CPU) uint16 {
	target := c.rel8Target()
	if c.Regs[isa.CX] == 0 {
		c.PC = target
		return 3
	}
	return 2
}
