/*
   Micro16 CPU core - system and implicit instructions.

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

func execNOP(c *CPU) uint16 { return 1 }

func execHLT(c *CPU) uint16 {
	c.Halted = true
	return 1
}

func execCLC(c *CPU) uint16 { c.setFlag(FlagC, false); return 1 }
func execSTC(c *CPU) uint16 { c.setFlag(FlagC, true); return 1 }
func execCLI(c *CPU) uint16 { c.setFlag(FlagI, false); return 1 }
func execSTI(c *CPU) uint16 { c.setFlag(FlagI, true); return 1 }
func execCLD(c *CPU) uint16 { c.setFlag(FlagD, false); return 1 }
func execSTD(c *CPU) uint16 { c.setFlag(FlagD, true); return 1 }

func execPUSHF(c *CPU) uint16 { c.pushWord(c.Flags); return 2 }
func execPOPF(c *CPU) uint16  { c.Flags = c.popWord() & flagsMask; return 2 }

func execPUSHA(c *CPU) uint16 {
	order := []int{isa.AX, isa.BX, isa.CX, isa.DX, isa.SI, isa.DI, isa.BP, isa.R7}
	for _, r := range order {
		c.pushWord(c.Regs[r])
	}
	return 9
}

func execPOPA(c *CPU) uint16 {
	order := []int{isa.R7, isa.BP, isa.DI, isa.SI, isa.DX, isa.CX, isa.BX, isa.AX}
	for _, r := range order {
		c.Regs[r] = c.popWord()
	}
	return 9
}

func execWAIT(c *CPU) uint16 {
	c.Waiting = true
	return 1
}

func execIRET(c *CPU) uint16 {
	c.PC = c.popWord()
	c.Segs[isa.SegCS] = c.popWord()
	c.Flags = c.popWord() & flagsMask
	return 8
}

func execINT(c *CPU) uint16 {
	vector := c.fetchByte()
	c.dispatchInterrupt(vector)
	return interruptCycles
}

func execINTO(c *CPU) uint16 {
	if c.flag(FlagO) {
		c.dispatchInterrupt(4)
		return interruptCycles
	}
	return 1
}
