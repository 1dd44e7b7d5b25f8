/*
   Micro16 CPU core - shift and rotate instructions.

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

// Each shift/rotate executes its count one bit at a time so that
// Carry always reflects the last bit shifted out.

func execSHL(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	for i := 0; i < count; i++ {
		c.setFlag(FlagC, v&0x8000 != 0)
		v <<= 1
	}
	c.Regs[rd] = v
	c.setZSP(v)
	return uint16(2 + count)
}

func execSHR(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	for i := 0; i < count; i++ {
		c.setFlag(FlagC, v&1 != 0)
		v >>= 1
	}
	c.Regs[rd] = v
	c.setZSP(v)
	return uint16(2 + count)
}

func execSAR(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	sign := v & 0x8000
	for i := 0; i < count; i++ {
		c.setFlag(FlagC, v&1 != 0)
		v = v>>1 | sign
	}
	c.Regs[rd] = v
	c.setZSP(v)
	return uint16(2 + count)
}

func execROL(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	for i := 0; i < count; i++ {
		bit := v & 0x8000 != 0
		v = v<<1 | boolToU16(bit)
		c.setFlag(FlagC, bit)
	}
	c.Regs[rd] = v
	return uint16(2 + count)
}

func execROR(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	for i := 0; i < count; i++ {
		bit := v&1 != 0
		v = v>>1 | boolToU16(bit)<<15
		c.setFlag(FlagC, bit)
	}
	c.Regs[rd] = v
	return uint16(2 + count)
}

// execRCL rotates through Carry: the 17-bit chain is (Carry,v).
func execRCL(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	carry := c.flag(FlagC)
	for i := 0; i < count; i++ {
		newCarry := v&0x8000 != 0
		v = v<<1 | boolToU16(carry)
		carry = newCarry
	}
	c.Regs[rd] = v
	c.setFlag(FlagC, carry)
	return uint16(2 + count)
}

// execRCR rotates through Carry in the opposite direction.
func execRCR(c *CPU) uint16 {
	rd, count := c.shiftRotate()
	v := c.Regs[rd]
	carry := c.flag(FlagC)
	for i := 0; i < count; i++ {
		newCarry := v&1 != 0
		v = v>>1 | boolToU16(carry)<<15
		carry = newCarry
	}
	c.Regs[rd] = v
	c.setFlag(FlagC, carry)
	return uint16(2 + count)
}
