/*
   Micro16 CPU core - instruction behaviour tests.

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

	assembler "github.com/mach16/micro16/emu/assemble"
	"github.com/mach16/micro16/emu/isa"
	"github.com/mach16/micro16/emu/memory"
)

// runAsm assembles source, loads it at its origin, and runs to halt.
func runAsm(t *testing.T, source string) *CPU {
	t.Helper()
	res, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := New()
	if !c.LoadProgram(res.Image, res.Origin) {
		t.Fatalf("load failed")
	}
	c.PC = uint16(res.Origin)
	c.Run(1_000_000)
	if !c.Halted {
		t.Fatalf("program did not halt (error=%v diag=%q)", c.Error, c.Diag)
	}
	return c
}

func checkFlags(t *testing.T, c *CPU, want map[uint16]bool) {
	t.Helper()
	names := map[uint16]string{
		FlagC: "C", FlagZ: "Z", FlagS: "S", FlagO: "O", FlagP: "P", FlagD: "D",
	}
	for bit, on := range want {
		if c.flag(bit) != on {
			t.Errorf("flag %s = %v, want %v (FLAGS=%04X)", names[bit], c.flag(bit), on, c.Flags)
		}
	}
}

func TestAddFlagTruthTable(t *testing.T) {
	cases := []struct {
		a, b  uint16
		sum   uint16
		flags map[uint16]bool
	}{
		{1, 2, 3, map[uint16]bool{FlagZ: false, FlagC: false, FlagS: false, FlagO: false, FlagP: true}},
		{0xFFFF, 1, 0, map[uint16]bool{FlagZ: true, FlagC: true, FlagS: false, FlagO: false}},
		{0x7FFF, 1, 0x8000, map[uint16]bool{FlagZ: false, FlagC: false, FlagS: true, FlagO: true}},
		{0x8000, 0x8000, 0, map[uint16]bool{FlagZ: true, FlagC: true, FlagO: true}},
	}
	for _, tc := range cases {
		c := runAsm(t, `
ORG 0x0100
MOV AX, #`+hex(tc.a)+`
MOV BX, #`+hex(tc.b)+`
ADD AX, BX
HLT
`)
		if c.Regs[isa.AX] != tc.sum {
			t.Errorf("%04X+%04X: AX = %04X, want %04X", tc.a, tc.b, c.Regs[isa.AX], tc.sum)
		}
		checkFlags(t, c, tc.flags)
	}
}

func TestSubAndCompareFlags(t *testing.T) {
	// 3 - 5 borrows; 0x8000 - 1 overflows signed.
	c := runAsm(t, "ORG 0x0100\nMOV AX, #3\nMOV BX, #5\nSUB AX, BX\nHLT\n")
	if c.Regs[isa.AX] != 0xFFFE {
		t.Errorf("AX = %04X, want FFFE", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: true, FlagS: true, FlagZ: false, FlagO: false})

	c = runAsm(t, "ORG 0x0100\nMOV AX, #0x8000\nMOV BX, #1\nSUB AX, BX\nHLT\n")
	checkFlags(t, c, map[uint16]bool{FlagC: false, FlagS: false, FlagO: true})

	// CMP leaves the destination untouched.
	c = runAsm(t, "ORG 0x0100\nMOV AX, #7\nMOV BX, #7\nCMP AX, BX\nHLT\n")
	if c.Regs[isa.AX] != 7 {
		t.Errorf("CMP modified AX: %04X", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagZ: true, FlagC: false})
}

func TestIncDecPreserveCarry(t *testing.T) {
	c := runAsm(t, "ORG 0x0100\nSTC\nMOV AX, #0xFFFF\nINC AX\nHLT\n")
	if c.Regs[isa.AX] != 0 {
		t.Errorf("AX = %04X, want 0", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: true, FlagZ: true})

	c = runAsm(t, "ORG 0x0100\nCLC\nMOV AX, #0\nDEC AX\nHLT\n")
	checkFlags(t, c, map[uint16]bool{FlagC: false, FlagS: true})
}

func TestAdcSbcChain(t *testing.T) {
	// 32-bit add of 0x0001FFFF + 0x00000001 via ADD/ADC.
	c := runAsm(t, `
ORG 0x0100
MOV AX, #0xFFFF
MOV DX, #0x0001
MOV BX, #1
MOV CX, #0
ADD AX, BX
ADC DX, CX
HLT
`)
	if c.Regs[isa.AX] != 0 || c.Regs[isa.DX] != 2 {
		t.Errorf("DX:AX = %04X:%04X, want 0002:0000", c.Regs[isa.DX], c.Regs[isa.AX])
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #1234
MOV BX, #567
MUL BX
DIV BX
HLT
`)
	if c.Regs[isa.AX] != 1234 || c.Regs[isa.DX] != 0 {
		t.Errorf("AX=%d DX=%d after MUL/DIV, want 1234/0", c.Regs[isa.AX], c.Regs[isa.DX])
	}

	// 0x0002_0000 / 2 = 0x10000 does not fit in AX.
	c = New()
	res, err := assembler.Assemble("ORG 0x0100\nMOV DX, #2\nMOV AX, #0\nMOV BX, #2\nDIV BX\nHLT\n")
	if err != nil {
		t.Fatal(err)
	}
	c.LoadProgram(res.Image, res.Origin)
	c.Run(1000)
	if !c.Error || c.Diag == "" {
		t.Errorf("quotient overflow not faulted (diag=%q)", c.Diag)
	}

	c = New()
	res, _ = assembler.Assemble("ORG 0x0100\nMOV BX, #0\nDIV BX\nHLT\n")
	c.LoadProgram(res.Image, res.Origin)
	c.Run(1000)
	if !c.Error {
		t.Error("division by zero not faulted")
	}
}

func TestIMulSignedAndCWD(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #-300
MOV BX, #100
IMUL BX
HLT
`)
	// -30000 = 0xFFFF8AD0 as a 32-bit value.
	if c.Regs[isa.AX] != 0x8AD0 || c.Regs[isa.DX] != 0xFFFF {
		t.Errorf("DX:AX = %04X:%04X, want FFFF:8AD0", c.Regs[isa.DX], c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: false, FlagO: false})

	c = runAsm(t, "ORG 0x0100\nMOV AX, #-8\nCWD\nMOV BX, #2\nIDIV BX\nHLT\n")
	if c.Regs[isa.AX] != 0xFFFC {
		t.Errorf("IDIV: AX = %04X, want FFFC (-4)", c.Regs[isa.AX])
	}
}

func TestShiftAndRotateCarry(t *testing.T) {
	c := runAsm(t, "ORG 0x0100\nMOV AX, #0x8001\nSHL AX, 1\nHLT\n")
	if c.Regs[isa.AX] != 0x0002 {
		t.Errorf("SHL: AX = %04X", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: true})

	c = runAsm(t, "ORG 0x0100\nMOV AX, #0x8000\nSAR AX, 15\nHLT\n")
	if c.Regs[isa.AX] != 0xFFFF {
		t.Errorf("SAR: AX = %04X, want FFFF", c.Regs[isa.AX])
	}

	// RCL through carry: C=1, AX=0x8000 -> AX=0x0001, C=1.
	c = runAsm(t, "ORG 0x0100\nSTC\nMOV AX, #0x8000\nRCL AX, 1\nHLT\n")
	if c.Regs[isa.AX] != 0x0001 {
		t.Errorf("RCL: AX = %04X, want 0001", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: true})

	// Runtime count from CL.
	c = runAsm(t, "ORG 0x0100\nMOV CX, #3\nMOV AX, #1\nSHL AX, CL\nHLT\n")
	if c.Regs[isa.AX] != 8 {
		t.Errorf("SHL CL: AX = %04X, want 8", c.Regs[isa.AX])
	}
}

func TestLogicOpsClearCarry(t *testing.T) {
	c := runAsm(t, "ORG 0x0100\nSTC\nMOV AX, #0xF0F0\nAND AX, #0x0FF0\nHLT\n")
	if c.Regs[isa.AX] != 0x00F0 {
		t.Errorf("AND: AX = %04X", c.Regs[isa.AX])
	}
	checkFlags(t, c, map[uint16]bool{FlagC: false, FlagO: false})

	c = runAsm(t, "ORG 0x0100\nMOV AX, #0xAAAA\nXOR AX, AX\nHLT\n")
	checkFlags(t, c, map[uint16]bool{FlagZ: true})
}

func TestMemoryAddressingModes(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #0xBEEF
MOV [0x2000], AX
MOV BX, #0x2000
MOV CX, [BX+0]
MOV DX, [BX-2]
HLT
`)
	if c.Regs[isa.CX] != 0xBEEF {
		t.Errorf("indexed load: CX = %04X", c.Regs[isa.CX])
	}
	if c.Regs[isa.DX] != 0 {
		t.Errorf("DX = %04X, want 0 from untouched memory", c.Regs[isa.DX])
	}

	c = runAsm(t, `
ORG 0x0100
MOV AX, #0x1234
PUSH AX
MOV BX, [SP+0]
MOV CX, #0x4321
MOV [SP+0], CX
POP DX
HLT
`)
	if c.Regs[isa.BX] != 0x1234 {
		t.Errorf("[SP+0] load: BX = %04X", c.Regs[isa.BX])
	}
	if c.Regs[isa.DX] != 0x4321 {
		t.Errorf("[SP+0] store: DX = %04X", c.Regs[isa.DX])
	}
}

func TestAddSubSPImmediate(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, SP
SUB SP, #0x10
MOV BX, SP
ADD SP, #0x10
MOV CX, #0x1234
HLT
`)
	if c.Regs[isa.BX] != c.Regs[isa.AX]-0x10 {
		t.Errorf("SUB SP: BX = %04X, want %04X", c.Regs[isa.BX], c.Regs[isa.AX]-0x10)
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP = %04X, want FFFE after the pair", c.SP)
	}
	// The MOV after the 4-byte SP forms proves the instruction stream
	// stayed in sync.
	if c.Regs[isa.CX] != 0x1234 {
		t.Errorf("CX = %04X, want 1234", c.Regs[isa.CX])
	}
}

func TestCmpsbByteWidthSign(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV SI, #0x1000
MOV DI, #0x2000
CLD
CMPSB
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	c.Mem.WriteByte(0x1000, 'a')
	c.Mem.WriteByte(0x2000, 'b')
	c.Run(1000)

	// 'a' - 'b' = 0xFF at byte width: negative, borrowed, no signed
	// overflow.
	checkFlags(t, c, map[uint16]bool{FlagS: true, FlagC: true, FlagZ: false, FlagO: false})
}

func TestEnterLeaveFrame(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV BP, #0x1111
ENTER 8, 0
MOV AX, SP
LEAVE
HLT
`)
	if c.Regs[isa.BP] != 0x1111 {
		t.Errorf("BP not restored: %04X", c.Regs[isa.BP])
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP not restored: %04X", c.SP)
	}
	// Inside the frame SP sat 8 below the saved-BP slot.
	if c.Regs[isa.AX] != 0xFFFE-2-8 {
		t.Errorf("frame SP = %04X, want %04X", c.Regs[isa.AX], 0xFFFE-2-8)
	}
}

func TestEnterNestedFrames(t *testing.T) {
	res, err := assembler.Assemble("ORG 0x0100\nENTER 0x10, 2\nHLT\n")
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	// Pretend an enclosing frame: BP points at it, with its display
	// word two below.
	c.Regs[isa.BP] = 0x0100
	c.WriteWord(isa.SegSS, 0x00FE, 0xCAFE)
	c.Run(1000)

	if c.Regs[isa.BP] != 0xFFFC {
		t.Errorf("BP = %04X, want FFFC", c.Regs[isa.BP])
	}
	if c.SP != 0xFFE8 {
		t.Errorf("SP = %04X, want FFE8", c.SP)
	}
	if v := c.ReadWord(isa.SegSS, 0xFFFC); v != 0x0100 {
		t.Errorf("saved BP = %04X, want 0100", v)
	}
	if v := c.ReadWord(isa.SegSS, 0xFFFA); v != 0xCAFE {
		t.Errorf("copied display word = %04X, want CAFE", v)
	}
	if v := c.ReadWord(isa.SegSS, 0xFFF8); v != 0xFFFC {
		t.Errorf("new frame pointer on stack = %04X, want FFFC", v)
	}
}

func TestPushaPopaOrder(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #1
MOV BX, #2
MOV CX, #3
PUSHA
MOV AX, #9
MOV BX, #9
MOV CX, #9
POPA
HLT
`)
	if c.Regs[isa.AX] != 1 || c.Regs[isa.BX] != 2 || c.Regs[isa.CX] != 3 {
		t.Errorf("POPA restored AX=%d BX=%d CX=%d", c.Regs[isa.AX], c.Regs[isa.BX], c.Regs[isa.CX])
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP = %04X, want FFFE", c.SP)
	}
}

func TestCallRetAndCallFar(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #0
CALL SUB1
HLT
SUB1: MOV AX, #0x55AA
RET
`)
	if c.Regs[isa.AX] != 0x55AA {
		t.Errorf("CALL/RET: AX = %04X", c.Regs[isa.AX])
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP = %04X after RET", c.SP)
	}

	// RET n pops the callee's arguments.
	c = runAsm(t, `
ORG 0x0100
MOV AX, #7
PUSH AX
CALL SUB1
HLT
SUB1: RET 2
`)
	if c.SP != 0xFFFE {
		t.Errorf("RET 2: SP = %04X, want FFFE", c.SP)
	}
}

func TestStringPrimitivesDecrementing(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #0x4142
MOV DI, #0x2000
CLD
STOSW
MOV SI, #0x2001
STD
LODSB
HLT
`)
	// STOSW wrote 42 41 little-endian at 0x2000; LODSB with the
	// Direction flag set read the high byte and stepped SI down.
	if al := byte(c.Regs[isa.AX]); al != 0x41 {
		t.Errorf("AL = %02X, want 41", al)
	}
	if c.Regs[isa.SI] != 0x2000 {
		t.Errorf("SI = %04X, want 2000 (decremented)", c.Regs[isa.SI])
	}
	if c.Regs[isa.DI] != 0x2002 {
		t.Errorf("DI = %04X, want 2002 (incremented by 2)", c.Regs[isa.DI])
	}
}

func TestRepzCmpsbStopsOnMismatch(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV SI, #0x1000
MOV DI, #0x2000
MOV CX, #4
CLD
REPZ CMPSB
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	copy1 := []byte{'a', 'b', 'X', 'd'}
	copy2 := []byte{'a', 'b', 'Y', 'd'}
	c.Mem.LoadProgram(copy1, 0x1000)
	c.Mem.LoadProgram(copy2, 0x2000)
	c.Run(10000)

	if !c.Halted || c.Error {
		t.Fatalf("halted=%v error=%v", c.Halted, c.Error)
	}
	// Mismatch on the third element: two full matches consumed, the
	// third comparison cleared Zero and stopped the loop.
	if c.Regs[isa.CX] != 1 {
		t.Errorf("CX = %d, want 1", c.Regs[isa.CX])
	}
	if c.Regs[isa.SI] != 0x1003 {
		t.Errorf("SI = %04X, want 1003", c.Regs[isa.SI])
	}
	if c.flag(FlagZ) {
		t.Error("Zero still set after mismatch")
	}
}

func TestScasbFindsByte(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV DI, #0x2000
MOV CX, #8
MOV AX, #'d'
CLD
REPNZ SCASB
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	c.Mem.LoadProgram([]byte("abcdefgh"), 0x2000)
	c.Run(10000)

	// SCAS stops when Zero goes 1, with DI one past the match.
	if c.Regs[isa.DI] != 0x2004 {
		t.Errorf("DI = %04X, want 2004", c.Regs[isa.DI])
	}
	if c.Regs[isa.CX] != 4 {
		t.Errorf("CX = %d, want 4", c.Regs[isa.CX])
	}
}

func TestInterruptDispatchAndIret(t *testing.T) {
	// Vector 0x20 handler increments BX and IRETs back.
	res, err := assembler.Assemble(`
ORG 0x0100
STI
MOV BX, #0
L: INC AX
CMP BX, #1
JNZ L
HLT
ORG 0x0300
INC BX
IRET
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	// IVT entry 0x20: offset 0x0300, segment 0.
	c.Mem.WriteWord(0x20*4, 0x0300)
	c.Mem.WriteWord(0x20*4+2, 0x0000)

	for i := 0; i < 10; i++ {
		c.Step()
	}
	c.RequestInterrupt(0x20)
	c.Run(100000)

	if !c.Halted || c.Error {
		t.Fatalf("halted=%v error=%v diag=%q", c.Halted, c.Error, c.Diag)
	}
	if c.Regs[isa.BX] != 1 {
		t.Errorf("BX = %d, want 1 (handler ran once)", c.Regs[isa.BX])
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP = %04X after IRET, want FFFE", c.SP)
	}
	if !c.flag(FlagI) {
		t.Error("IRET did not restore Interrupt-enable")
	}
}

func TestInterruptMaskedUntilSTI(t *testing.T) {
	c := New()
	res, _ := assembler.Assemble("ORG 0x0100\nNOP\nNOP\nHLT\n")
	c.LoadProgram(res.Image, res.Origin)
	c.RequestInterrupt(5)
	c.Run(1000)
	if c.Error {
		t.Fatalf("unexpected fault: %s", c.Diag)
	}
	// With Interrupt-enable clear the latch never fires; the program
	// just halts.
	if !c.Halted {
		t.Error("program did not halt")
	}
}

func TestSoftwareInterrupt(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
INT 0x21
HLT
ORG 0x0400
MOV DX, #0x99
IRET
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	c.Mem.WriteWord(0x21*4, 0x0400)
	c.Mem.WriteWord(0x21*4+2, 0x0000)
	c.Run(10000)
	if c.Regs[isa.DX] != 0x99 {
		t.Errorf("INT handler did not run: DX = %04X", c.Regs[isa.DX])
	}
}

func TestSegmentedAccessUsesSegments(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV AX, #0x0200
MOV DS, AX
MOV BX, #0xABCD
MOV [0x0010], BX
HLT
`)
	// DS=0x0200 -> physical 0x2000 + 0x10.
	if v, _ := c.Mem.ReadWord(0x2010); v != 0xABCD {
		t.Errorf("word at 0x2010 = %04X, want ABCD", v)
	}
}

func TestMMIOPortIO(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV AX, #0x42
OUTB 0x10, AX
INB BX, 0x11
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	backing := map[uint32]byte{memory.MMIOBase + 0x11: 0x7E}
	var wrote []uint32
	c.Mem.SetMMIOHooks(
		func(addr uint32) byte { return backing[addr] },
		func(addr uint32, v byte) { wrote = append(wrote, addr); backing[addr] = v },
	)
	c.LoadProgram(res.Image, res.Origin)
	c.Run(1000)

	if len(wrote) != 1 || wrote[0] != memory.MMIOBase+0x10 {
		t.Errorf("write hook saw %v, want one write at MMIOBase+0x10", wrote)
	}
	if byte(c.Regs[isa.BX]) != 0x7E {
		t.Errorf("INB read %02X, want 7E", byte(c.Regs[isa.BX]))
	}
}

func TestXlatTableLookup(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV BX, #0x3000
MOV AX, #2
XLAT
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	c.Mem.LoadProgram([]byte{10, 20, 30, 40}, 0x3000)
	c.Run(1000)
	if byte(c.Regs[isa.AX]) != 30 {
		t.Errorf("XLAT: AL = %d, want 30", byte(c.Regs[isa.AX]))
	}
}

func TestRepCancelResumes(t *testing.T) {
	res, err := assembler.Assemble(`
ORG 0x0100
MOV SI, #0x1000
MOV DI, #0x2000
MOV CX, #8
CLD
REP MOVSB
HLT
`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	c.LoadProgram(res.Image, res.Origin)
	c.Mem.LoadProgram([]byte("12345678"), 0x1000)

	// Cancel after three iterations; the REP must stay in progress
	// with PC on the prefix byte.
	n := 0
	c.Cancel = func() bool { n++; return n >= 3 }
	for i := 0; i < 5; i++ {
		c.Step() // three MOVs and CLD, then the interrupted REP
	}
	if c.Regs[isa.CX] != 5 {
		t.Fatalf("CX = %d after cancel, want 5", c.Regs[isa.CX])
	}
	if c.Regs[isa.SI] != 0x1003 {
		t.Fatalf("SI = %04X after cancel, want 1003", c.Regs[isa.SI])
	}

	// Resume to completion.
	c.Cancel = nil
	c.Run(10000)
	if !c.Halted || c.Error {
		t.Fatalf("halted=%v error=%v", c.Halted, c.Error)
	}
	if c.Regs[isa.CX] != 0 || c.Regs[isa.SI] != 0x1008 {
		t.Errorf("CX=%d SI=%04X after resume", c.Regs[isa.CX], c.Regs[isa.SI])
	}
	if v, _ := c.Mem.ReadByte(0x2007); v != '8' {
		t.Errorf("last byte not copied after resume")
	}
}

func TestJcxzAndConditionalSweep(t *testing.T) {
	c := runAsm(t, `
ORG 0x0100
MOV CX, #0
JCXZ TAKEN
MOV AX, #0xBAD
HLT
TAKEN: MOV AX, #0x600D
HLT
`)
	if c.Regs[isa.AX] != 0x600D {
		t.Errorf("JCXZ not taken: AX = %04X", c.Regs[isa.AX])
	}

	// JA: above requires C=0 and Z=0.
	c = runAsm(t, `
ORG 0x0100
MOV AX, #5
CMP AX, #3
JA TAKEN
MOV BX, #0
HLT
TAKEN: MOV BX, #1
HLT
`)
	if c.Regs[isa.BX] != 1 {
		t.Errorf("JA not taken on 5 > 3")
	}
}

func TestLoadOverrunRejected(t *testing.T) {
	c := New()
	if c.LoadProgram(make([]byte, 32), memory.Size-16) {
		t.Error("LoadProgram accepted an image overrunning the address space")
	}
}

func hex(v uint16) string {
	const digits = "0123456789ABCDEF"
	return "0x" + string([]byte{
		digits[v>>12&0xF], digits[v>>8&0xF], digits[v>>4&0xF], digits[v&0xF],
	})
}
