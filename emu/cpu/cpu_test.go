/*
   Micro16 CPU core - step loop and scenario tests.

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
	"testing"

	"github.com/mach16/micro16/emu/isa"
)

const origin = 0x100

func newLoadedCPU(t *testing.T, program []byte) *CPU {
	t.Helper()
	c := New()
	if !c.LoadProgram(program, origin) {
		t.Fatalf("LoadProgram failed for %d-byte image", len(program))
	}
	return c
}

func TestRegisterArithmetic(t *testing.T) {
	program := []byte{
		0x11, 0x00, 0x05, 0x00, // MOV AX,#5
		0x11, 0x01, 0x03, 0x00, // MOV BX,#3
		0x50, 0x01, // ADD AX,BX
		0x01, // HLT
	}
	want := []byte{0x11, 0x00, 0x05, 0x00, 0x11}
	for i, b := range want {
		if program[i] != b {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, program[i], b)
		}
	}

	c := newLoadedCPU(t, program)
	c.Run(1000)

	if !c.Halted || c.Error {
		t.Fatalf("expected clean halt, got halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	if c.Regs[isa.AX] != 0x0008 {
		t.Errorf("AX = 0x%04X, want 0x0008", c.Regs[isa.AX])
	}
	if c.Regs[isa.BX] != 0x0003 {
		t.Errorf("BX = 0x%04X, want 0x0003", c.Regs[isa.BX])
	}
	if c.flag(FlagZ) || c.flag(FlagC) || c.flag(FlagS) {
		t.Errorf("flags = 0x%04X, want Z=C=S=0", c.Flags)
	}
}

func TestStackRoundTrip(t *testing.T) {
	program := []byte{
		0x11, 0x00, 0xAD, 0xDE, // MOV AX,#0xDEAD
		0x11, 0x01, 0xEF, 0xBE, // MOV BX,#0xBEEF
		0x1E, 0x00, // PUSH AX
		0x1E, 0x01, // PUSH BX
		0x1F, 0x00, // POP AX
		0x1F, 0x01, // POP BX
		0x01, // HLT
	}
	c := newLoadedCPU(t, program)
	initialSP := c.SP
	c.Run(1000)

	if !c.Halted || c.Error {
		t.Fatalf("expected clean halt, got halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	if c.Regs[isa.AX] != 0xBEEF {
		t.Errorf("AX = 0x%04X, want 0xBEEF", c.Regs[isa.AX])
	}
	if c.Regs[isa.BX] != 0xDEAD {
		t.Errorf("BX = 0x%04X, want 0xDEAD", c.Regs[isa.BX])
	}
	if c.SP != initialSP {
		t.Errorf("SP = 0x%04X, want 0x%04X (restored)", c.SP, initialSP)
	}
	if v := c.readWordAt(isa.SegSS, c.SP-2); v != 0xDEAD {
		t.Errorf("word at SS:(SP-2) = 0x%04X, want 0xDEAD (AX's push, never overwritten by pop)", v)
	}
	if v := c.readWordAt(isa.SegSS, c.SP-4); v != 0xBEEF {
		t.Errorf("word at SS:(SP-4) = 0x%04X, want 0xBEEF (BX's push, never overwritten by pop)", v)
	}
}

func TestLoopCountdown(t *testing.T) {
	program := []byte{
		0x11, 0x02, 0x0A, 0x00, // MOV CX,#10
		0x11, 0x00, 0x00, 0x00, // MOV AX,#0
		0x51, 0x00, 0x01, 0x00, // L: ADD AX,#1
		0xD0, 0xFA, // LOOP L
		0x01, // HLT
	}
	c := newLoadedCPU(t, program)
	c.Run(10000)

	if !c.Halted || c.Error {
		t.Fatalf("expected clean halt, got halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	if c.Regs[isa.AX] != 10 {
		t.Errorf("AX = %d, want 10", c.Regs[isa.AX])
	}
	if c.Regs[isa.CX] != 0 {
		t.Errorf("CX = %d, want 0", c.Regs[isa.CX])
	}
	if !c.flag(FlagZ) {
		t.Errorf("Zero flag clear, want set (LOOP's final decrement brought CX to 0)")
	}
}

func TestRepMovsb(t *testing.T) {
	program := []byte{
		0x11, 0x04, 0x00, 0x10, // MOV SI,#0x1000
		0x11, 0x05, 0x00, 0x20, // MOV DI,#0x2000
		0x11, 0x02, 0x04, 0x00, // MOV CX,#4
		0x06,       // CLD
		0x90, 0xE0, // REP MOVSB
		0x01, // HLT
	}
	c := newLoadedCPU(t, program)
	c.writeByteAt(isa.SegDS, 0x1000, 0x41)
	c.writeByteAt(isa.SegDS, 0x1001, 0x42)
	c.writeByteAt(isa.SegDS, 0x1002, 0x43)
	c.writeByteAt(isa.SegDS, 0x1003, 0x44)

	c.Run(10000)

	if !c.Halted || c.Error {
		t.Fatalf("expected clean halt, got halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	want := []byte{0x41, 0x42, 0x43, 0x44}
	for i, b := range want {
		if got := c.readByteAt(isa.SegES, 0x2000+uint16(i)); got != b {
			t.Errorf("ES:0x%04X = 0x%02X, want 0x%02X", 0x2000+i, got, b)
		}
	}
	if c.Regs[isa.CX] != 0 {
		t.Errorf("CX = %d, want 0", c.Regs[isa.CX])
	}
	if c.Regs[isa.SI] != 0x1004 {
		t.Errorf("SI = 0x%04X, want 0x1004", c.Regs[isa.SI])
	}
	if c.Regs[isa.DI] != 0x2004 {
		t.Errorf("DI = 0x%04X, want 0x2004", c.Regs[isa.DI])
	}
}

func TestSignedCompareBranch(t *testing.T) {
	program := []byte{
		0x11, 0x00, 0xFB, 0xFF, // MOV AX,#-5
		0x11, 0x01, 0x03, 0x00, // MOV BX,#3
		0x58, 0x01, // CMP AX,BX
		0xB8, 0x12, 0x01, // JL TAKEN (0x0112)
		0x11, 0x02, 0xFF, 0xFF, // MOV CX,#0xFFFF
		0x01,                   // HLT
		0x11, 0x02, 0x11, 0x11, // TAKEN: MOV CX,#0x1111
		0x01, // HLT
	}
	if len(program) != 0x112-origin+5 {
		t.Fatalf("program layout drifted: len=%d", len(program))
	}

	c := newLoadedCPU(t, program)
	c.Run(1000)

	if !c.Halted || c.Error {
		t.Fatalf("expected clean halt, got halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	if c.Regs[isa.CX] != 0x1111 {
		t.Errorf("CX = 0x%04X, want 0x1111 (branch not taken?)", c.Regs[isa.CX])
	}
}

// Step after a fault must leave all observable state alone.
func TestStepIdempotentOnError(t *testing.T) {
	c := newLoadedCPU(t, []byte{0xFF}) // 0xFF is undefined
	c.Step()
	if !c.Error {
		t.Fatalf("expected Error after undefined opcode")
	}
	snapshot := *c
	cycles := c.Step()
	if cycles != 0 {
		t.Errorf("Step after error returned %d cycles, want 0", cycles)
	}
	snapshot.table = c.table // function values are never equal; exclude from comparison
	if snapshot.Regs != c.Regs || snapshot.Flags != c.Flags || snapshot.PC != c.PC ||
		snapshot.SP != c.SP || snapshot.Cycles != c.Cycles || snapshot.Instructions != c.Instructions {
		t.Errorf("Step after error mutated observable state")
	}
}

// Run must stop at its cycle budget even when the program never halts.
func TestRunRespectsCycleBudget(t *testing.T) {
	program := []byte{
		0x11, 0x00, 0x00, 0x00, // L: MOV AX,#0
		0xA0, 0x00, 0x01, // JMP L (infinite loop)
	}
	c := newLoadedCPU(t, program)
	executed := c.Run(100)
	if executed > 100 {
		t.Errorf("Run executed %d cycles, want <= 100", executed)
	}
	if c.Halted || c.Error {
		t.Errorf("infinite loop should not halt or fault on its own")
	}
}
