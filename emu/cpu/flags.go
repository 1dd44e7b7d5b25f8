/*
   Micro16 CPU core - flag truth tables.

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

// parity16 reports whether the low byte of v has an even number of
// one bits.
func parity16(v uint16) bool {
	b := byte(v)
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b&1 == 0
}

func (c *CPU) setZSP(result uint16) {
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagS, result&0x8000 != 0)
	c.setFlag(FlagP, parity16(result))
}

// addFlags sets Z, S, P, C, O for an ADD/ADC-style result.
func (c *CPU) addFlags(a, b, result uint16) {
	c.setZSP(result)
	sum := uint32(a) + uint32(b)
	c.setFlag(FlagC, sum > 0xFFFF)
	signA, signB, signR := a&0x8000, b&0x8000, result&0x8000
	c.setFlag(FlagO, signA == signB && signR != signA)
}

// subFlags sets Z, S, P, C, O for a SUB/SBC/CMP-style result
// (a - b).
func (c *CPU) subFlags(a, b, result uint16) {
	c.setZSP(result)
	c.setFlag(FlagC, a < b)
	signA, signB, signR := a&0x8000, b&0x8000, result&0x8000
	c.setFlag(FlagO, signA != signB && signR == signB)
}

// subFlags8 is subFlags at byte width, for the byte string compares:
// Sign comes from bit 7 and Overflow from the byte-sized signs, not
// from a widened 16-bit result.
func (c *CPU) subFlags8(a, b byte) {
	result := a - b
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagS, result&0x80 != 0)
	c.setFlag(FlagP, parity16(uint16(result)))
	c.setFlag(FlagC, a < b)
	signA, signB, signR := a&0x80, b&0x80, result&0x80
	c.setFlag(FlagO, signA != signB && signR == signB)
}

// logicFlags sets Z, S, P for AND/OR/XOR/TEST, clearing Carry and
// Overflow as conventional for bitwise operations.
func (c *CPU) logicFlags(result uint16) {
	c.setZSP(result)
	c.setFlag(FlagC, false)
	c.setFlag(FlagO, false)
}

// incDecFlags sets Z, S, P, O but leaves Carry untouched; INC and
// DEC update every flag except Carry.
func (c *CPU) incDecFlags(a, result uint16, isInc bool) {
	c.setZSP(result)
	if isInc {
		c.setFlag(FlagO, a == 0x7FFF)
	} else {
		c.setFlag(FlagO, a == 0x8000)
	}
}

func boolToU16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// addWithCarry computes a+b+cin (ADC), setting flags, and returns the
// truncated 16-bit result.
func (c *CPU) addWithCarry(a, b uint16, cin bool) uint16 {
	sum := uint32(a) + uint32(b) + uint32(boolToU16(cin))
	result := uint16(sum)
	c.setZSP(result)
	c.setFlag(FlagC, sum > 0xFFFF)
	signA, signB, signR := a&0x8000, b&0x8000, result&0x8000
	c.setFlag(FlagO, signA == signB && signR != signA)
	return result
}

// subWithBorrow computes a-b-bin (SBC), setting flags, and returns
// the truncated 16-bit result.
func (c *CPU) subWithBorrow(a, b uint16, bin bool) uint16 {
	sub := uint32(b) + uint32(boolToU16(bin))
	result := a - uint16(sub)
	c.setZSP(result)
	c.setFlag(FlagC, uint32(a) < sub)
	signA, signB, signR := a&0x8000, b&0x8000, result&0x8000
	c.setFlag(FlagO, signA != signB && signR == signB)
	return result
}
