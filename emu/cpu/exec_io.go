/*
   Micro16 CPU core - port I/O instructions.

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

// Port I/O is modeled as reads/writes against the same physical
// address space the MMIO window already exposes to the external I/O
// collaborator: port N maps to physical address MMIOBase+N. This
// lets IN/OUT and memory-mapped I/O share one collaborator callback
// pair instead of needing a second one.

import "github.com/mach16/micro16/emu/memory"

func portAddr(port uint16) uint32 {
	return memory.MMIOBase + uint32(port)
}

func execINr(c *CPU) uint16 {
	r := c.regOnly()
	port := c.fetchWord()
	lo := c.ReadPhysByte(portAddr(port))
	hi := c.ReadPhysByte(portAddr(port) + 1)
	c.Regs[r] = uint16(lo) | uint16(hi)<<8
	return 4
}

func execOUTr(c *CPU) uint16 {
	r := c.regOnly()
	port := c.fetchWord()
	v := c.Regs[r]
	c.WritePhysByte(portAddr(port), byte(v))
	c.WritePhysByte(portAddr(port)+1, byte(v>>8))
	return 4
}

func execINb(c *CPU) uint16 {
	r := c.regOnly()
	port := c.fetchWord()
	b := c.ReadPhysByte(portAddr(port))
	c.Regs[r] = c.Regs[r]&0xFF00 | uint16(b)
	return 3
}

func execOUTb(c *CPU) uint16 {
	r := c.regOnly()
	port := c.fetchWord()
	c.WritePhysByte(portAddr(port), byte(c.Regs[r]))
	return 3
}
