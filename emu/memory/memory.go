/*
   Micro16 physical memory.

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

// Package memory implements the Micro16 flat physical address space:
// exactly 2^20 bytes, with an interrupt vector table at the bottom
// and a memory-mapped I/O window at the top.
package memory

const (
	Size = 1 << 20 // 1 MiB physical address space
	Mask = Size - 1

	IVTBase  = 0x00000
	IVTEnd   = 0x003FF
	MMIOBase = 0xF0000
	MMIOEnd  = 0xFFFFF
)

// WriteHook is notified of every byte written in the MMIO region
// before that byte becomes observable to a subsequent read.
type WriteHook func(addr uint32, value byte)

// ReadHook is queried for every byte read in the MMIO region, instead
// of the underlying backing array.
type ReadHook func(addr uint32) byte

// Memory is one emulator instance's physical address space. It is
// instantiable rather than a package-level singleton so that
// independent emulator instances never alias each other's contents.
type Memory struct {
	bytes   [Size]byte
	onWrite WriteHook
	onRead  ReadHook
}

// New allocates a zeroed 1 MiB address space.
func New() *Memory {
	return &Memory{}
}

// SetMMIOHooks installs the external I/O collaborator callbacks for
// the 0xF0000-0xFFFFF window. Either may be nil to leave that
// direction of the window acting as plain RAM.
func (m *Memory) SetMMIOHooks(onRead ReadHook, onWrite WriteHook) {
	m.onRead = onRead
	m.onWrite = onWrite
}

func isMMIO(addr uint32) bool {
	return addr >= MMIOBase && addr <= MMIOEnd
}

// InRange reports whether a physical address lies within the 1 MiB
// address space.
func InRange(addr uint32) bool {
	return addr < Size
}

// ReadByte reads one byte at a physical address. ok is false if addr
// is outside the 1 MiB space.
func (m *Memory) ReadByte(addr uint32) (value byte, ok bool) {
	if !InRange(addr) {
		return 0, false
	}
	if isMMIO(addr) && m.onRead != nil {
		return m.onRead(addr), true
	}
	return m.bytes[addr], true
}

// WriteByte writes one byte at a physical address, notifying the MMIO
// collaborator first when the address falls in its window: the write
// must reach the collaborator before a subsequent read can observe
// the byte.
func (m *Memory) WriteByte(addr uint32, value byte) (ok bool) {
	if !InRange(addr) {
		return false
	}
	if isMMIO(addr) && m.onWrite != nil {
		m.onWrite(addr, value)
	}
	m.bytes[addr] = value
	return true
}

// ReadWord reads a little-endian word as two sequential byte reads.
func (m *Memory) ReadWord(addr uint32) (value uint16, ok bool) {
	lo, ok1 := m.ReadByte(addr)
	hi, ok2 := m.ReadByte(addr + 1)
	if !ok1 || !ok2 {
		return 0, false
	}
	return uint16(lo) | uint16(hi)<<8, true
}

// WriteWord writes a little-endian word as two sequential byte
// writes, low byte first.
func (m *Memory) WriteWord(addr uint32, value uint16) (ok bool) {
	if !m.WriteByte(addr, byte(value)) {
		return false
	}
	return m.WriteByte(addr+1, byte(value>>8))
}

// LoadProgram copies bytes into memory starting at physAddr. It
// fails if the image would overrun the 1 MiB address space.
func (m *Memory) LoadProgram(data []byte, physAddr uint32) bool {
	if uint64(physAddr)+uint64(len(data)) > Size {
		return false
	}
	copy(m.bytes[physAddr:], data)
	return true
}

// Phys computes a 20-bit physical address from a segment:offset pair:
// (segment<<4 + offset), truncated to 20 bits.
func Phys(segment, offset uint16) uint32 {
	return (uint32(segment)<<4 + uint32(offset)) & Mask
}
