/*
   Micro16 disassembler.

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

// Package disassembler recovers labelled assembly text from a Micro16
// byte image by linear sweep: Pass 1 walks the image with the shared
// isa size table collecting branch targets, Pass 2 walks it again
// emitting one line per instruction, with synthesised L_XXXX labels
// at every in-image target that falls on an instruction boundary of
// the sweep. It never consults a symbol table and
// never touches CPU state.
package disassembler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mach16/micro16/emu/isa"
)

// Options controls the optional line decorations. The zero value
// produces the canonical re-assemblable form: labels, mnemonic, and
// operands only.
type Options struct {
	Segment   uint16 // segment rendered in the address prefix
	ShowAddr  bool   // prefix each line with segment:offset
	ShowBytes bool   // include a raw-byte column
	Logger    *slog.Logger
}

// Disassemble renders the whole image in canonical form, one
// instruction per line, base being the offset of data[0] within the
// code segment.
func Disassemble(data []byte, base uint16) string {
	return strings.Join(Lines(data, base, Options{}), "\n") + "\n"
}

// Lines renders the image as individual lines under opts.
func Lines(data []byte, base uint16, opts Options) []string {
	targets := findTargets(data, base)

	var out []string
	idx := 0
	for idx < len(data) {
		off := base + uint16(idx)
		if targets[off] {
			out = append(out, fmt.Sprintf("L_%04X:", off))
		}
		text, size := renderAt(data, idx, base, targets, opts.Logger)
		out = append(out, decorate(data[idx:idx+size], off, text, opts))
		idx += size
	}
	return out
}

// Inst disassembles the single instruction at the start of data,
// returning its text and byte length. Unknown opcodes come back as a
// one-byte DB line, never an error.
func Inst(data []byte) (string, int) {
	return renderAt(data, 0, 0, nil, nil)
}

func decorate(raw []byte, off uint16, text string, opts Options) string {
	var b strings.Builder
	if opts.ShowAddr {
		fmt.Fprintf(&b, "%04X:%04X  ", opts.Segment, off)
	}
	if opts.ShowBytes {
		col := ""
		for _, by := range raw {
			col += fmt.Sprintf("%02X ", by)
		}
		// Widest instruction is five bytes.
		fmt.Fprintf(&b, "%-16s", col)
	}
	b.WriteString(text)
	return b.String()
}

// findTargets is Pass 1: collect the offset of every branch/call
// destination that lies inside the image, so Pass 2 can plant a label
// there. A target kept only if it falls on an instruction boundary of
// the sweep; a destination in the middle of another instruction's
// operand bytes cannot carry a label, and rendering it as one would
// produce text that no longer re-assembles. Unknown opcodes advance
// one byte, same as Pass 2.
func findTargets(data []byte, base uint16) map[uint16]bool {
	found := map[uint16]bool{}
	starts := map[uint16]bool{}
	limit := uint32(base) + uint32(len(data))
	inImage := func(t uint16) bool {
		return uint32(t) >= uint32(base) && uint32(t) < limit
	}

	idx := 0
	for idx < len(data) {
		starts[base+uint16(idx)] = true
		size := sizeAt(data, idx)
		switch info := isa.ByOpcode[data[idx]]; {
		case info == nil || size == 1:

		case info.Family == isa.AbsBranch16 && size == 3:
			t := uint16(data[idx+1]) | uint16(data[idx+2])<<8
			if inImage(t) {
				found[t] = true
			}

		case info.Family == isa.RelBranch8 && size == 2:
			t := base + uint16(idx) + 2 + uint16(int16(int8(data[idx+1])))
			if inImage(t) {
				found[t] = true
			}
		}
		idx += size
	}

	targets := map[uint16]bool{}
	for t := range found {
		if starts[t] {
			targets[t] = true
		}
	}
	return targets
}

// sizeAt returns the byte length consumed at idx: the family size for
// a known opcode, or 1 for an unknown byte, a truncated tail, or a
// REP prefix with a non-string operand byte (all rendered as data).
func sizeAt(data []byte, idx int) int {
	info := isa.ByOpcode[data[idx]]
	if info == nil {
		return 1
	}
	size := info.Size()
	if idx+size > len(data) {
		return 1
	}
	if info.Family == isa.RepPrefix && !isa.IsStringPrimitive(data[idx+1]) {
		return 1
	}
	return size
}

func regName(nibble byte) string {
	return isa.RegNames[nibble&0x7]
}

func segName(nibble byte) string {
	return isa.SegNames[nibble&0x3]
}

// target renders a 16-bit branch destination: the synthesised label
// when Pass 1 planted one there, a bare hex offset otherwise.
func target(t uint16, targets map[uint16]bool) string {
	if targets[t] {
		return fmt.Sprintf("L_%04X", t)
	}
	return fmt.Sprintf("0x%04X", t)
}

// indexedOperand renders [Rb+disp] with the displacement sign
// normalised.
func indexedOperand(baseName string, disp int16) string {
	if disp < 0 {
		return fmt.Sprintf("[%s-0x%04X]", baseName, uint16(-int32(disp)))
	}
	return fmt.Sprintf("[%s+0x%04X]", baseName, uint16(disp))
}

func renderAt(data []byte, idx int, base uint16, targets map[uint16]bool, log *slog.Logger) (string, int) {
	op := data[idx]
	info := isa.ByOpcode[op]
	size := sizeAt(data, idx)
	if info == nil || size == 1 && info.Family != isa.Implicit {
		if log != nil {
			log.Debug("unknown opcode rendered as data", "opcode", fmt.Sprintf("0x%02X", op), "offset", fmt.Sprintf("0x%04X", base+uint16(idx)))
		}
		return fmt.Sprintf("DB 0x%02X", op), 1
	}

	b := data[idx : idx+size]
	word := func(at int) uint16 {
		return uint16(b[at]) | uint16(b[at+1])<<8
	}

	switch info.Family {
	case isa.Implicit:
		return info.Mnemonic, size

	case isa.RegOnly:
		r := regName(b[1])
		switch op {
		case isa.OpMOVrSP:
			return fmt.Sprintf("MOV %s, SP", r), size
		case isa.OpMOVSPr:
			return fmt.Sprintf("MOV SP, %s", r), size
		}
		return fmt.Sprintf("%s %s", info.Mnemonic, r), size

	case isa.RegReg:
		return fmt.Sprintf("%s %s, %s", info.Mnemonic, regName(b[1]>>4), regName(b[1])), size

	case isa.SegReg:
		seg, reg := segName(b[1]>>4), regName(b[1])
		if op == isa.OpMOVSegr {
			return fmt.Sprintf("MOV %s, %s", seg, reg), size
		}
		return fmt.Sprintf("MOV %s, %s", reg, seg), size

	case isa.SegPushPop:
		return fmt.Sprintf("%s %s", info.Mnemonic, segName(b[1])), size

	case isa.RegImm:
		imm := word(2)
		switch op {
		case isa.OpADDSPi:
			return fmt.Sprintf("ADD SP, #0x%04X", imm), size
		case isa.OpSUBSPi:
			return fmt.Sprintf("SUB SP, #0x%04X", imm), size
		}
		return fmt.Sprintf("%s %s, #0x%04X", info.Mnemonic, regName(b[1]), imm), size

	case isa.LoadStoreDirect:
		addr := word(2)
		if op == isa.OpMOVDirectr {
			return fmt.Sprintf("MOV [0x%04X], %s", addr, regName(b[1])), size
		}
		return fmt.Sprintf("MOV %s, [0x%04X]", regName(b[1]), addr), size

	case isa.LoadStoreIndexed:
		rd, rb := regName(b[1]>>4), regName(b[1])
		mem := indexedOperand(rb, int16(word(2)))
		if op == isa.OpMOVIndexedr {
			return fmt.Sprintf("MOV %s, %s", mem, rd), size
		}
		return fmt.Sprintf("%s %s, %s", info.Mnemonic, rd, mem), size

	case isa.IndexedSP:
		r := regName(b[1])
		mem := indexedOperand("SP", int16(word(2)))
		if op == isa.OpMOVSPoffr {
			return fmt.Sprintf("MOV %s, %s", mem, r), size
		}
		return fmt.Sprintf("MOV %s, %s", r, mem), size

	case isa.Interrupt:
		return fmt.Sprintf("%s 0x%02X", info.Mnemonic, b[1]), size

	case isa.RelBranch8:
		t := base + uint16(idx) + 2 + uint16(int16(int8(b[1])))
		return fmt.Sprintf("%s %s", info.Mnemonic, target(t, targets)), size

	case isa.AbsBranch16:
		return fmt.Sprintf("%s %s", info.Mnemonic, target(word(1), targets)), size

	case isa.RetImm:
		return fmt.Sprintf("%s 0x%04X", info.Mnemonic, word(1)), size

	case isa.ShiftRotate:
		r := regName(b[1] >> 4)
		count := b[1] & 0xF
		if count == 0 {
			// count4 == 0 is the runtime-count convention.
			return fmt.Sprintf("%s %s, CL", info.Mnemonic, r), size
		}
		return fmt.Sprintf("%s %s, %d", info.Mnemonic, r, count), size

	case isa.IO:
		r := regName(b[1])
		port := word(2)
		if op == isa.OpOUTr || op == isa.OpOUTb {
			return fmt.Sprintf("%s 0x%04X, %s", info.Mnemonic, port, r), size
		}
		return fmt.Sprintf("%s %s, 0x%04X", info.Mnemonic, r, port), size

	case isa.Enter:
		return fmt.Sprintf("ENTER 0x%04X, %d", word(1), b[3]), size

	case isa.RepPrefix:
		sub := isa.ByOpcode[b[1]]
		return fmt.Sprintf("%s %s", info.Mnemonic, sub.Mnemonic), size

	case isa.FarJumpCall:
		return fmt.Sprintf("%s 0x%04X:0x%04X", info.Mnemonic, word(3), word(1)), size

	default:
		return fmt.Sprintf("DB 0x%02X", op), 1
	}
}
