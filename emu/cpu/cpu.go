/*
   Micro16 CPU core - step loop and segmented memory access.

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

import (
	"github.com/mach16/micro16/emu/isa"
	"github.com/mach16/micro16/emu/memory"
)

const interruptCycles = 11

// Step executes exactly one instruction, including all of its REP
// iterations if it is a REP-prefixed primitive, and returns the
// cycle count attributable to it. If halted or errored on entry, it
// does nothing and returns 0.
func (c *CPU) Step() uint16 {
	if c.Halted || c.Error {
		return 0
	}

	if c.intPending && c.flag(FlagI) {
		vector := c.intVector
		c.intPending = false
		c.dispatchInterrupt(vector)
		c.Instructions++
		c.Cycles += interruptCycles
		return interruptCycles
	}

	opcodeAddr := memory.Phys(c.Segs[isa.SegCS], c.PC)
	op, ok := c.Mem.ReadByte(opcodeAddr)
	if !ok {
		c.fault("fetch out of range at physical %05X", opcodeAddr)
		return 0
	}
	c.PC++

	handler := c.table[op]
	if handler == nil {
		c.fault("unknown opcode 0x%02X at CS:PC=%04X:%04X", op, c.Segs[isa.SegCS], c.PC-1)
		return 0
	}

	cycles := handler(c)
	if c.Error {
		return 0
	}
	c.Instructions++
	c.Cycles += uint64(cycles)

	if c.flag(FlagT) {
		c.dispatchInterrupt(1)
	}
	return cycles
}

// Run calls Step until halted, errored, or the cycle budget is
// reached, and returns the number of cycles actually executed.
func (c *CPU) Run(maxCycles uint64) uint64 {
	var executed uint64
	for executed < maxCycles {
		if c.Halted || c.Error {
			break
		}
		executed += uint64(c.Step())
	}
	return executed
}

// dispatchInterrupt pushes (flags, CS, PC) in that order, clears the
// Interrupt-enable and Trap flags, and loads CS:PC from IVT entry
// vector.
func (c *CPU) dispatchInterrupt(vector byte) {
	c.pushWord(c.Flags)
	c.pushWord(c.Segs[isa.SegCS])
	c.pushWord(c.PC)
	c.setFlag(FlagI, false)
	c.setFlag(FlagT, false)

	entry := uint32(vector) * 4
	off, ok1 := c.Mem.ReadWord(entry)
	seg, ok2 := c.Mem.ReadWord(entry + 2)
	if !ok1 || !ok2 {
		c.fault("interrupt vector %d unreadable", vector)
		return
	}
	c.Segs[isa.SegCS] = seg
	c.PC = off
}

// fetchByte reads the next instruction byte at CS:PC and advances PC.
func (c *CPU) fetchByte() byte {
	addr := memory.Phys(c.Segs[isa.SegCS], c.PC)
	v, ok := c.Mem.ReadByte(addr)
	if !ok {
		c.fault("instruction fetch out of range at physical %05X", addr)
		return 0
	}
	c.PC++
	return v
}

// fetchWord reads a little-endian word at CS:PC and advances PC by
// two.
func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(lo) | uint16(hi)<<8
}

// readByteAt / writeByteAt / readWordAt / writeWordAt operate on a
// segment:offset pair, wrapping the offset modulo 2^16 within the
// segment.
func (c *CPU) readByteAt(seg, off uint16) byte {
	addr := memory.Phys(c.Segs[seg], off)
	v, ok := c.Mem.ReadByte(addr)
	if !ok {
		c.fault("data read out of range at physical %05X", addr)
	}
	return v
}

func (c *CPU) writeByteAt(seg, off uint16, v byte) {
	addr := memory.Phys(c.Segs[seg], off)
	if !c.Mem.WriteByte(addr, v) {
		c.fault("data write out of range at physical %05X", addr)
	}
}

func (c *CPU) readWordAt(seg, off uint16) uint16 {
	lo := c.readByteAt(seg, off)
	hi := c.readByteAt(seg, off+1)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) writeWordAt(seg, off uint16, v uint16) {
	c.writeByteAt(seg, off, byte(v))
	c.writeByteAt(seg, off+1, byte(v>>8))
}

// ReadByte / WriteByte / ReadWord / WriteWord expose segment:offset
// access to external debuggers.
func (c *CPU) ReadByte(seg, off uint16) byte       { return c.readByteAt(seg, off) }
func (c *CPU) WriteByte(seg, off uint16, v byte)   { c.writeByteAt(seg, off, v) }
func (c *CPU) ReadWord(seg, off uint16) uint16     { return c.readWordAt(seg, off) }
func (c *CPU) WriteWord(seg, off uint16, v uint16) { c.writeWordAt(seg, off, v) }

// ReadPhysByte / WritePhysByte expose raw physical-address access,
// bypassing segmentation, for the loader and for MMIO-adjacent tests.
func (c *CPU) ReadPhysByte(addr uint32) byte {
	v, ok := c.Mem.ReadByte(addr)
	if !ok {
		c.fault("physical read out of range at %05X", addr)
	}
	return v
}

func (c *CPU) WritePhysByte(addr uint32, v byte) {
	if !c.Mem.WriteByte(addr, v) {
		c.fault("physical write out of range at %05X", addr)
	}
}

// pushWord / popWord: SP decrements by 2 before a push, writing low
// byte then high byte; pop reads the word then increments SP by 2.
func (c *CPU) pushWord(v uint16) {
	c.SP -= 2
	c.writeWordAt(isa.SegSS, c.SP, v)
}

func (c *CPU) popWord() uint16 {
	v := c.readWordAt(isa.SegSS, c.SP)
	c.SP += 2
	return v
}
