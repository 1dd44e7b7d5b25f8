/*
   Micro16 CPU core - direct, indexed, and SP-relative memory access.

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

// Direct addressing: MOV Rd,[addr16] / MOV [addr16],Rs. Data accesses
// use DS unless the mnemonic says otherwise.

func execMOVrDirect(c *CPU) uint16 {
	r := c.regOnly()
	addr := c.fetchWord()
	c.Regs[r] = c.readWordAt(isa.SegDS, addr)
	return 3
}

func execMOVDirectr(c *CPU) uint16 {
	r := c.regOnly()
	addr := c.fetchWord()
	c.writeWordAt(isa.SegDS, addr, c.Regs[r])
	return 3
}

// Indexed addressing: MOV Rd,[Rb+disp] / MOV [Rb+disp],Rs.

func execMOVrIndexed(c *CPU) uint16 {
	rd, rb, disp := c.indexed()
	off := effectiveOffset(c.Regs[rb], disp)
	c.Regs[rd] = c.readWordAt(isa.SegDS, off)
	return 3
}

func execMOVIndexedr(c *CPU) uint16 {
	rs, rb, disp := c.indexed()
	off := effectiveOffset(c.Regs[rb], disp)
	c.writeWordAt(isa.SegDS, off, c.Regs[rs])
	return 3
}

// SP-indexed addressing: MOV Rd,[SP+disp] / MOV [SP+disp],Rs,
// relative to SS like every other stack access.

func execMOVrSPoff(c *CPU) uint16 {
	r, disp := c.indexedSP()
	off := effectiveOffset(c.SP, disp)
	c.Regs[r] = c.readWordAt(isa.SegSS, off)
	return 3
}

func execMOVSPoffr(c *CPU) uint16 {
	r, disp := c.indexedSP()
	off := effectiveOffset(c.SP, disp)
	c.writeWordAt(isa.SegSS, off, c.Regs[r])
	return 3
}
