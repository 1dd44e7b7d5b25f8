/*
   Micro16 CPU core - state definitions.

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

// Package cpu implements the Micro16 CPU core: register and flag
// state, the segmented memory model, interrupt dispatch, and the
// fetch/decode/execute step loop over the shared emu/isa table.
package cpu

import (
	"fmt"
	"log/slog"

	"github.com/mach16/micro16/emu/isa"
	"github.com/mach16/micro16/emu/memory"
)

// Flag bits. The flag word stays a plain integer with bit-level
// accessors rather than a struct of booleans, so that PUSHF/POPF are
// ordinary word moves.
const (
	FlagC  uint16 = 0x0001 // Carry
	FlagZ  uint16 = 0x0002 // Zero
	FlagS  uint16 = 0x0004 // Sign
	FlagO  uint16 = 0x0008 // Overflow
	FlagD  uint16 = 0x0010 // Direction
	FlagI  uint16 = 0x0020 // Interrupt-enable
	FlagT  uint16 = 0x0040 // Trap
	FlagP  uint16 = 0x0080 // Parity
	flagsMask = FlagC | FlagZ | FlagS | FlagO | FlagD | FlagI | FlagT | FlagP
)

// Reset defaults.
const (
	resetCS    = 0x0000
	resetDS    = 0x0000
	resetSS    = 0x0F00
	resetES    = 0x0000
	resetSP    = 0xFFFE
	resetPC    = 0x0100
	resetFlags = 0x0000
)

// execFunc is one opcode's semantic action. It reads whatever operand
// bytes its encoding needs via c.fetchByte/fetchWord (PC has already
// been advanced past the opcode byte itself when it is called), and
// returns the cycle count attributable to the instruction. A handler
// that detects a fault calls c.fault and returns 0.
type execFunc func(c *CPU) uint16

// CPU is one emulator instance's machine state. It is created once
// per instance rather than as a package-level singleton, so that
// independent CPUs in the same process (and in parallel tests) do
// not alias each other's registers or memory.
type CPU struct {
	Regs  [8]uint16
	Segs  [4]uint16
	PC    uint16
	SP    uint16
	Flags uint16

	intPending bool
	intVector  byte

	Halted  bool
	Waiting bool
	Error   bool
	Diag    string

	Cycles       uint64
	Instructions uint64

	Mem *memory.Memory
	log *slog.Logger

	// Cancel, if set, is polled between REP iterations; a true result
	// ends the loop early with PC left on the prefix byte so the next
	// Step resumes it.
	Cancel func() bool

	table [256]execFunc
}

// New allocates a CPU with its own 1 MiB memory and applies Reset.
func New() *CPU {
	c := &CPU{Mem: memory.New()}
	c.buildTable()
	c.Reset()
	return c
}

// SetLogger attaches an optional diagnostic sink. A nil logger
// disables diagnostic logging (the zero value already behaves this
// way).
func (c *CPU) SetLogger(l *slog.Logger) { c.log = l }

// Reset sets registers to their documented defaults and clears
// halted/error. Memory is left untouched; callers that want a clean
// address space clear it themselves.
func (c *CPU) Reset() {
	c.Regs = [8]uint16{}
	c.Segs[isa.SegCS] = resetCS
	c.Segs[isa.SegDS] = resetDS
	c.Segs[isa.SegSS] = resetSS
	c.Segs[isa.SegES] = resetES
	c.SP = resetSP
	c.PC = resetPC
	c.Flags = resetFlags
	c.intPending = false
	c.intVector = 0
	c.Halted = false
	c.Waiting = false
	c.Error = false
	c.Diag = ""
	c.Cycles = 0
	c.Instructions = 0
}

// LoadProgram copies bytes into memory at physAddr.
func (c *CPU) LoadProgram(data []byte, physAddr uint32) bool {
	return c.Mem.LoadProgram(data, physAddr)
}

// RequestInterrupt sets the interrupt latch. Safe to call from
// outside the step loop provided the caller does not also mutate
// other CPU fields concurrently.
func (c *CPU) RequestInterrupt(vector byte) {
	c.intPending = true
	c.intVector = vector
}

func (c *CPU) fault(format string, args ...any) {
	c.Error = true
	c.Halted = true
	c.Diag = fmt.Sprintf(format, args...)
	if c.log != nil {
		c.log.Error("cpu fault", "diagnostic", c.Diag)
	}
}

// flag helpers -- the flag word stays a plain uint16 throughout; these
// just make call sites read naturally.
func (c *CPU) setFlag(bit uint16, on bool) {
	if on {
		c.Flags |= bit
	} else {
		c.Flags &^= bit
	}
	c.Flags &= flagsMask
}

func (c *CPU) flag(bit uint16) bool { return c.Flags&bit != 0 }
