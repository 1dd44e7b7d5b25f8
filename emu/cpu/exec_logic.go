/*
   Micro16 CPU core - bitwise logic instructions.

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

func execANDrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	result := c.Regs[rd] & c.Regs[rs]
	c.Regs[rd] = result
	c.logicFlags(result)
	return 1
}

func execANDri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	result := c.Regs[rd] & imm
	c.Regs[rd] = result
	c.logicFlags(result)
	return 2
}

func execORrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	result := c.Regs[rd] | c.Regs[rs]
	c.Regs[rd] = result
	c.logicFlags(result)
	return 1
}

func execORri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	result := c.Regs[rd] | imm
	c.Regs[rd] = result
	c.logicFlags(result)
	return 2
}

func execXORrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	result := c.Regs[rd] ^ c.Regs[rs]
	c.Regs[rd] = result
	c.logicFlags(result)
	return 1
}

func execXORri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	result := c.Regs[rd] ^ imm
	c.Regs[rd] = result
	c.logicFlags(result)
	return 2
}

func execTESTrr(c *CPU) uint16 {
	rd, rs := c.regReg()
	c.logicFlags(c.Regs[rd] & c.Regs[rs])
	return 1
}

func execTESTri(c *CPU) uint16 {
	rd := c.regOnly()
	imm := c.fetchWord()
	c.logicFlags(c.Regs[rd] & imm)
	return 2
}
