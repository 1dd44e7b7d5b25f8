/*
   Micro16 instruction set architecture table.

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

// Package isa is the single source of truth for the Micro16 opcode
// space. The CPU core, the assembler, and the disassembler all
// consult this table instead of keeping their own copies, so the
// three can never drift apart on what a byte means.
package isa

// Family identifies the byte layout of an instruction.
type Family int

const (
	Implicit         Family = iota // [op]
	RegOnly                        // [op][0000 Rd]
	RegReg                         // [op][Rd<<4|Rs]
	SegReg                         // [op][Seg<<4|R]
	SegPushPop                     // [op][000000 Seg]
	RegImm                         // [op][0000 Rd][imm_lo][imm_hi]
	LoadStoreDirect                // [op][R][addr_lo][addr_hi]
	LoadStoreIndexed               // [op][Rd<<4|Rb][off_lo][off_hi]
	IndexedSP                      // [op][R][off_lo][off_hi]
	Interrupt                      // [op][vector8]
	RelBranch8                     // [op][signed rel8]
	AbsBranch16                    // [op][target_lo][target_hi]
	RetImm                         // [op][n_lo][n_hi]
	ShiftRotate                    // [op][Rd<<4|count4]
	IO                             // [op][R][port_lo][port_hi]
	Enter                          // [op][size_lo][size_hi][level]
	RepPrefix                      // [op][next_opcode]
	FarJumpCall                    // [op][off_lo][off_hi][seg_lo][seg_hi]
)

// Size returns the total instruction length in bytes for a family.
// The disassembler's Pass 1 and the assembler's Pass 1 both call this
// one function; two copies of it disagreeing would desynchronise
// every address downstream of the first mismatch.
func (f Family) Size() int {
	switch f {
	case Implicit:
		return 1
	case RegOnly, RegReg, SegReg, SegPushPop, Interrupt, RelBranch8, ShiftRotate, RepPrefix:
		return 2
	case AbsBranch16, RetImm:
		return 3
	case RegImm, LoadStoreDirect, LoadStoreIndexed, IndexedSP, IO, Enter:
		return 4
	case FarJumpCall:
		return 5
	default:
		return 0
	}
}

// Info is one row of the shared opcode table.
type Info struct {
	Mnemonic string
	Opcode   byte
	Family   Family
}

// Size is a convenience accessor for Info.Family.Size().
func (i Info) Size() int { return i.Family.Size() }

// Opcode constants. Grouped by leading nibble for readability; every
// group fits within its own nibble.
const (
	// 0x0x — system / implicit.
	OpNOP   = 0x00
	OpHLT   = 0x01
	OpCLC   = 0x02
	OpSTC   = 0x03
	OpCLI   = 0x04
	OpSTI   = 0x05
	OpCLD   = 0x06
	OpSTD   = 0x07
	OpPUSHF = 0x08
	OpPOPF  = 0x09
	OpPUSHA = 0x0A
	OpPOPA  = 0x0B
	OpWAIT  = 0x0C
	OpIRET  = 0x0D
	OpINT   = 0x0E
	OpINTO  = 0x0F

	// 0x10-0x1F — register data transfer.
	OpMOVrr   = 0x10
	OpMOVri   = 0x11
	OpXCHG    = 0x12
	OpMOVrSeg = 0x13
	OpMOVSegr = 0x14
	OpMOVrSP  = 0x15
	OpMOVSPr  = 0x16
	OpLEA     = 0x17
	OpLDS     = 0x18
	OpLES     = 0x19
	OpINC     = 0x1A
	OpDEC     = 0x1B
	OpNEG     = 0x1C
	OpNOT     = 0x1D
	OpPUSHr   = 0x1E
	OpPOPr    = 0x1F

	// 0x20-0x2A — memory load/store.
	OpMOVrDirect  = 0x20
	OpMOVDirectr  = 0x21
	OpMOVrIndexed = 0x22
	OpMOVIndexedr = 0x23
	OpMOVrSPoff   = 0x29 // SP-indexed load
	OpMOVSPoffr   = 0x2A // SP-indexed store

	// 0x30-0x31 — segment register push/pop.
	OpPUSHSeg = 0x30
	OpPOPSeg  = 0x31

	// 0x40-0x41 — stack frame helpers.
	OpENTER = 0x40
	OpLEAVE = 0x41

	// 0x50-0x5F — arithmetic.
	OpADDrr   = 0x50
	OpADDri   = 0x51
	OpADCrr   = 0x52
	OpADCri   = 0x53
	OpSUBrr   = 0x54
	OpSUBri   = 0x55
	OpSBCrr   = 0x56
	OpSBCri   = 0x57
	OpCMPrr   = 0x58
	OpCMPri   = 0x59
	OpADDSPi  = 0x5A
	OpSUBSPi  = 0x5B
	OpMUL     = 0x5C
	OpIMUL    = 0x5D
	OpDIV     = 0x5E
	OpIDIV    = 0x5F

	// 0x60-0x62 — sign-extension / table-translate helpers.
	OpCBW  = 0x60
	OpCWD  = 0x61
	OpXLAT = 0x62

	// 0x70-0x77 — logic.
	OpANDrr  = 0x70
	OpANDri  = 0x71
	OpORrr   = 0x72
	OpORri   = 0x73
	OpXORrr  = 0x74
	OpXORri  = 0x75
	OpTESTrr = 0x76
	OpTESTri = 0x77

	// 0x80-0x86 — shift/rotate.
	OpSHL = 0x80
	OpSHR = 0x81
	OpSAR = 0x82
	OpROL = 0x83
	OpROR = 0x84
	OpRCL = 0x85
	OpRCR = 0x86

	// 0x90-0x92 — REP family prefixes.
	OpREP   = 0x90
	OpREPZ  = 0x91
	OpREPNZ = 0x92

	// 0xA0-0xA2 — unconditional jump.
	OpJMPabs = 0xA0
	OpJMPreg = 0xA1
	OpJMPfar = 0xA2

	// 0xB0-0xBD — conditional branches (absolute 16-bit).
	OpJZ  = 0xB0
	OpJNZ = 0xB1
	OpJC  = 0xB2
	OpJNC = 0xB3
	OpJS  = 0xB4
	OpJNS = 0xB5
	OpJO  = 0xB6
	OpJNO = 0xB7
	OpJL  = 0xB8
	OpJGE = 0xB9
	OpJLE = 0xBA
	OpJG  = 0xBB
	OpJA  = 0xBC
	OpJBE = 0xBD

	// 0xC0-0xC6 — call/return.
	OpCALLabs  = 0xC0
	OpCALLreg  = 0xC1
	OpCALLfar  = 0xC2
	OpRET      = 0xC3
	OpRETF     = 0xC4
	OpRETi     = 0xC5
	OpRETFi    = 0xC6

	// 0xD0-0xD4 — short relative branches / loop forms.
	OpLOOP   = 0xD0
	OpLOOPZ  = 0xD1
	OpLOOPNZ = 0xD2
	OpJCXZ   = 0xD3
	OpJR     = 0xD4

	// 0xE0-0xE9 — string primitives.
	OpMOVSB = 0xE0
	OpMOVSW = 0xE1
	OpCMPSB = 0xE2
	OpCMPSW = 0xE3
	OpSTOSB = 0xE4
	OpSTOSW = 0xE5
	OpLODSB = 0xE6
	OpLODSW = 0xE7
	OpSCASB = 0xE8
	OpSCASW = 0xE9

	// 0xF0-0xF3 — I/O. The word and byte forms share an encoding shape
	// (reg, port16) and so need distinct mnemonics (IN/OUT vs INB/OUTB)
	// for the assembler to tell them apart.
	OpINr  = 0xF0
	OpOUTr = 0xF1
	OpINb  = 0xF2
	OpOUTb = 0xF3
)

// ByOpcode maps an opcode byte to its table row. A nil entry means
// the byte is undefined; the disassembler renders those as a raw
// DB, and the core raises an Invalid-encoding error.
var ByOpcode [256]*Info

// ByMnemonic maps a canonicalised (uppercase) mnemonic to every row
// that shares it. MOV alone has a dozen distinct encodings chosen by
// the assembler's operand-form dispatch.
var ByMnemonic = map[string][]*Info{}

func define(mnemonic string, opcode byte, fam Family) {
	info := &Info{Mnemonic: mnemonic, Opcode: opcode, Family: fam}
	if ByOpcode[opcode] != nil {
		panic("isa: duplicate opcode assignment for 0x" + hex2(opcode))
	}
	ByOpcode[opcode] = info
	ByMnemonic[mnemonic] = append(ByMnemonic[mnemonic], info)
}

func hex2(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

func init() {
	define("NOP", OpNOP, Implicit)
	define("HLT", OpHLT, Implicit)
	define("CLC", OpCLC, Implicit)
	define("STC", OpSTC, Implicit)
	define("CLI", OpCLI, Implicit)
	define("STI", OpSTI, Implicit)
	define("CLD", OpCLD, Implicit)
	define("STD", OpSTD, Implicit)
	define("PUSHF", OpPUSHF, Implicit)
	define("POPF", OpPOPF, Implicit)
	define("PUSHA", OpPUSHA, Implicit)
	define("POPA", OpPOPA, Implicit)
	define("WAIT", OpWAIT, Implicit)
	define("IRET", OpIRET, Implicit)
	define("INT", OpINT, Interrupt)
	define("INTO", OpINTO, Implicit)

	define("MOV", OpMOVrr, RegReg)
	define("MOV", OpMOVri, RegImm)
	define("XCHG", OpXCHG, RegReg)
	define("MOV", OpMOVrSeg, SegReg)
	define("MOV", OpMOVSegr, SegReg)
	define("MOV", OpMOVrSP, RegOnly)
	define("MOV", OpMOVSPr, RegOnly)
	define("LEA", OpLEA, LoadStoreIndexed)
	define("LDS", OpLDS, LoadStoreIndexed)
	define("LES", OpLES, LoadStoreIndexed)
	define("INC", OpINC, RegOnly)
	define("DEC", OpDEC, RegOnly)
	define("NEG", OpNEG, RegOnly)
	define("NOT", OpNOT, RegOnly)
	define("PUSH", OpPUSHr, RegOnly)
	define("POP", OpPOPr, RegOnly)

	define("MOV", OpMOVrDirect, LoadStoreDirect)
	define("MOV", OpMOVDirectr, LoadStoreDirect)
	define("MOV", OpMOVrIndexed, LoadStoreIndexed)
	define("MOV", OpMOVIndexedr, LoadStoreIndexed)
	define("MOV", OpMOVrSPoff, IndexedSP)
	define("MOV", OpMOVSPoffr, IndexedSP)

	define("PUSH", OpPUSHSeg, SegPushPop)
	define("POP", OpPOPSeg, SegPushPop)

	define("ENTER", OpENTER, Enter)
	define("LEAVE", OpLEAVE, Implicit)

	define("ADD", OpADDrr, RegReg)
	define("ADD", OpADDri, RegImm)
	define("ADC", OpADCrr, RegReg)
	define("ADC", OpADCri, RegImm)
	define("SUB", OpSUBrr, RegReg)
	define("SUB", OpSUBri, RegImm)
	define("SBC", OpSBCrr, RegReg)
	define("SBC", OpSBCri, RegImm)
	define("CMP", OpCMPrr, RegReg)
	define("CMP", OpCMPri, RegImm)
	define("ADD", OpADDSPi, RegImm)
	define("SUB", OpSUBSPi, RegImm)
	define("MUL", OpMUL, RegOnly)
	define("IMUL", OpIMUL, RegOnly)
	define("DIV", OpDIV, RegOnly)
	define("IDIV", OpIDIV, RegOnly)

	define("CBW", OpCBW, Implicit)
	define("CWD", OpCWD, Implicit)
	define("XLAT", OpXLAT, Implicit)

	define("AND", OpANDrr, RegReg)
	define("AND", OpANDri, RegImm)
	define("OR", OpORrr, RegReg)
	define("OR", OpORri, RegImm)
	define("XOR", OpXORrr, RegReg)
	define("XOR", OpXORri, RegImm)
	define("TEST", OpTESTrr, RegReg)
	define("TEST", OpTESTri, RegImm)

	define("SHL", OpSHL, ShiftRotate)
	define("SHR", OpSHR, ShiftRotate)
	define("SAR", OpSAR, ShiftRotate)
	define("ROL", OpROL, ShiftRotate)
	define("ROR", OpROR, ShiftRotate)
	define("RCL", OpRCL, ShiftRotate)
	define("RCR", OpRCR, ShiftRotate)

	define("REP", OpREP, RepPrefix)
	define("REPZ", OpREPZ, RepPrefix)
	define("REPNZ", OpREPNZ, RepPrefix)

	define("JMP", OpJMPabs, AbsBranch16)
	define("JMP", OpJMPreg, RegOnly)
	define("JMP", OpJMPfar, FarJumpCall)

	define("JZ", OpJZ, AbsBranch16)
	define("JNZ", OpJNZ, AbsBranch16)
	define("JC", OpJC, AbsBranch16)
	define("JNC", OpJNC, AbsBranch16)
	define("JS", OpJS, AbsBranch16)
	define("JNS", OpJNS, AbsBranch16)
	define("JO", OpJO, AbsBranch16)
	define("JNO", OpJNO, AbsBranch16)
	define("JL", OpJL, AbsBranch16)
	define("JGE", OpJGE, AbsBranch16)
	define("JLE", OpJLE, AbsBranch16)
	define("JG", OpJG, AbsBranch16)
	define("JA", OpJA, AbsBranch16)
	define("JBE", OpJBE, AbsBranch16)

	define("CALL", OpCALLabs, AbsBranch16)
	define("CALL", OpCALLreg, RegOnly)
	define("CALL", OpCALLfar, FarJumpCall)
	define("RET", OpRET, Implicit)
	define("RETF", OpRETF, Implicit)
	define("RET", OpRETi, RetImm)
	define("RETF", OpRETFi, RetImm)

	define("LOOP", OpLOOP, RelBranch8)
	define("LOOPZ", OpLOOPZ, RelBranch8)
	define("LOOPNZ", OpLOOPNZ, RelBranch8)
	define("JCXZ", OpJCXZ, RelBranch8)
	define("JR", OpJR, RelBranch8)

	define("MOVSB", OpMOVSB, Implicit)
	define("MOVSW", OpMOVSW, Implicit)
	define("CMPSB", OpCMPSB, Implicit)
	define("CMPSW", OpCMPSW, Implicit)
	define("STOSB", OpSTOSB, Implicit)
	define("STOSW", OpSTOSW, Implicit)
	define("LODSB", OpLODSB, Implicit)
	define("LODSW", OpLODSW, Implicit)
	define("SCASB", OpSCASB, Implicit)
	define("SCASW", OpSCASW, Implicit)

	define("IN", OpINr, IO)
	define("OUT", OpOUTr, IO)
	define("INB", OpINb, IO)
	define("OUTB", OpOUTb, IO)
}

// IsStringPrimitive reports whether opcode is a legal operand for a
// REP/REPZ/REPNZ prefix (all Implicit-family string ops).
func IsStringPrimitive(opcode byte) bool {
	switch opcode {
	case OpMOVSB, OpMOVSW, OpCMPSB, OpCMPSW, OpSTOSB, OpSTOSW,
		OpLODSB, OpLODSW, OpSCASB, OpSCASW:
		return true
	default:
		return false
	}
}

// RegNames and SegNames are the canonical rendering/parsing names for
// the general and segment registers, in index order.
var RegNames = [8]string{"AX", "BX", "CX", "DX", "SI", "DI", "BP", "R7"}
var SegNames = [4]string{"CS", "DS", "SS", "ES"}

// Register register indices, named for readability in the core.
const (
	AX = 0
	BX = 1
	CX = 2
	DX = 3
	SI = 4
	DI = 5
	BP = 6
	R7 = 7
)

const (
	SegCS = 0
	SegDS = 1
	SegSS = 2
	SegES = 3
)
