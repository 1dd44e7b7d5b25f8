/*
   Micro16 CPU core - operand decoding helpers.

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

// regOnly decodes the "[op][0000 Rd]" register-only operand byte.
func (c *CPU) regOnly() int {
	return int(c.fetchByte() & 0x0F)
}

// regReg decodes the "[op][Rd<<4|Rs]" two-register operand byte.
func (c *CPU) regReg() (rd, rs int) {
	b := c.fetchByte()
	return int(b>>4) & 0xF, int(b & 0xF)
}

// segReg decodes the "[op][Seg<<4|R]" segment/register operand byte.
func (c *CPU) segReg() (seg, reg int) {
	b := c.fetchByte()
	return int(b>>4) & 0x3, int(b & 0xF)
}

// segOnly decodes the "[op][000000 Seg]" segment push/pop operand.
func (c *CPU) segOnly() int {
	return int(c.fetchByte() & 0x3)
}

// indexed decodes the "[op][Rd<<4|Rb][off_lo][off_hi]" indexed form,
// shared by load/store indexed, LEA, LDS, and LES.
func (c *CPU) indexed() (rd, rb int, disp int16) {
	b := c.fetchByte()
	rd = int(b>>4) & 0xF
	rb = int(b & 0xF)
	disp = int16(c.fetchWord())
	return
}

// indexedSP decodes the "[op][R][off_lo][off_hi]" SP-relative form.
func (c *CPU) indexedSP() (r int, disp int16) {
	r = int(c.fetchByte() & 0xF)
	disp = int16(c.fetchWord())
	return
}

// shiftRotate decodes the "[op][Rd<<4|count4]" shift/rotate operand;
// count4 == 0 means "read the count from CL at runtime" (the low byte
// of CX).
func (c *CPU) shiftRotate() (rd int, count int) {
	b := c.fetchByte()
	rd = int(b>>4) & 0xF
	count = int(b & 0xF)
	if count == 0 {
		count = int(c.Regs[isa.CX] & 0xFF)
	}
	return
}

// effectiveOffset computes Rb+disp as a 16-bit offset, wrapping
// modulo 2^16.
func effectiveOffset(base uint16, disp int16) uint16 {
	return base + uint16(disp)
}
