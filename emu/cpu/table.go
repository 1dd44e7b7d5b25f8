/*
   Micro16 CPU core - opcode dispatch table.

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

// buildTable wires every opcode constant in the shared isa table to
// its executor. A gap here with a row present in isa.ByOpcode is a
// bug: every defined opcode must have a handler.
func (c *CPU) buildTable() {
	t := &c.table

	t[isa.OpNOP] = execNOP
	t[isa.OpHLT] = execHLT
	t[isa.OpCLC] = execCLC
	t[isa.OpSTC] = execSTC
	t[isa.OpCLI] = execCLI
	t[isa.OpSTI] = execSTI
	t[isa.OpCLD] = execCLD
	t[isa.OpSTD] = execSTD
	t[isa.OpPUSHF] = execPUSHF
	t[isa.OpPOPF] = execPOPF
	t[isa.OpPUSHA] = execPUSHA
	t[isa.OpPOPA] = execPOPA
	t[isa.OpWAIT] = execWAIT
	t[isa.OpIRET] = execIRET
	t[isa.OpINT] = execINT
	t[isa.OpINTO] = execINTO

	t[isa.OpMOVrr] = execMOVrr
	t[isa.OpMOVri] = execMOVri
	t[isa.OpXCHG] = execXCHG
	t[isa.OpMOVrSeg] = execMOVrSeg
	t[isa.OpMOVSegr] = execMOVSegr
	t[isa.OpMOVrSP] = execMOVrSP
	t[isa.OpMOVSPr] = execMOVSPr
	t[isa.OpLEA] = execLEA
	t[isa.OpLDS] = execLDS
	t[isa.OpLES] = execLES
	t[isa.OpINC] = execINC
	t[isa.OpDEC] = execDEC
	t[isa.OpNEG] = execNEG
	t[isa.OpNOT] = execNOT
	t[isa.OpPUSHr] = execPUSHr
	t[isa.OpPOPr] = execPOPr

	t[isa.OpMOVrDirect] = execMOVrDirect
	t[isa.OpMOVDirectr] = execMOVDirectr
	t[isa.OpMOVrIndexed] = execMOVrIndexed
	t[isa.OpMOVIndexedr] = execMOVIndexedr
	t[isa.OpMOVrSPoff] = execMOVrSPoff
	t[isa.OpMOVSPoffr] = execMOVSPoffr

	t[isa.OpPUSHSeg] = execPUSHSeg
	t[isa.OpPOPSeg] = execPOPSeg

	t[isa.OpENTER] = execENTER
	t[isa.OpLEAVE] = execLEAVE

	t[isa.OpADDrr] = execADDrr
	t[isa.OpADDri] = execADDri
	t[isa.OpADCrr] = execADCrr
	t[isa.OpADCri] = execADCri
	t[isa.OpSUBrr] = execSUBrr
	t[isa.OpSUBri] = execSUBri
	t[isa.OpSBCrr] = execSBCrr
	t[isa.OpSBCri] = execSBCri
	t[isa.OpCMPrr] = execCMPrr
	t[isa.OpCMPri] = execCMPri
	t[isa.OpADDSPi] = execADDSPi
	t[isa.OpSUBSPi] = execSUBSPi
	t[isa.OpMUL] = execMUL
	t[isa.OpIMUL] = execIMUL
	t[isa.OpDIV] = execDIV
	t[isa.OpIDIV] = execIDIV

	t[isa.OpCBW] = execCBW
	t[isa.OpCWD] = execCWD
	t[isa.OpXLAT] = execXLAT

	t[isa.OpANDrr] = execANDrr
	t[isa.OpANDri] = execANDri
	t[isa.OpORrr] = execORrr
	t[isa.OpORri] = execORri
	t[isa.OpXORrr] = execXORrr
	t[isa.OpXORri] = execXORri
	t[isa.OpTESTrr] = execTESTrr
	t[isa.OpTESTri] = execTESTri

	t[isa.OpSHL] = execSHL
	t[isa.OpSHR] = execSHR
	t[isa.OpSAR] = execSAR
	t[isa.OpROL] = execROL
	t[isa.OpROR] = execROR
	t[isa.OpRCL] = execRCL
	t[isa.OpRCR] = execRCR

	t[isa.OpREP] = execREP
	t[isa.OpREPZ] = execREPZ
	t[isa.OpREPNZ] = execREPNZ

	t[isa.OpJMPabs] = execJMPabs
	t[isa.OpJMPreg] = execJMPreg
	t[isa.OpJMPfar] = execJMPfar

	t[isa.OpJZ] = execJZ
	t[isa.OpJNZ] = execJNZ
	t[isa.OpJC] = execJC
	t[isa.OpJNC] = execJNC
	t[isa.OpJS] = execJS
	t[isa.OpJNS] = execJNS
	t[isa.OpJO] = execJO
	t[isa.OpJNO] = execJNO
	t[isa.OpJL] = execJL
	t[isa.OpJGE] = execJGE
	t[isa.OpJLE] = execJLE
	t[isa.OpJG] = execJG
	t[isa.OpJA] = execJA
	t[isa.OpJBE] = execJBE

	t[isa.OpCALLabs] = execCALLabs
	t[isa.OpCALLreg] = execCALLreg
	t[isa.OpCALLfar] = execCALLfar
	t[isa.OpRET] = execRET
	t[isa.OpRETF] = execRETF
	t[isa.OpRETi] = execRETi
	t[isa.OpRETFi] = execRETFi

	t[isa.OpLOOP] = execLOOP
	t[isa.OpLOOPZ] = execLOOPZ
	t[isa.OpLOOPNZ] = execLOOPNZ
	t[isa.OpJCXZ] = execJCXZ
	t[isa.OpJR] = execJR

	t[isa.OpMOVSB] = execMOVSB
	t[isa.OpMOVSW] = execMOVSW
	t[isa.OpCMPSB] = execCMPSB
	t[isa.OpCMPSW] = execCMPSW
	t[isa.OpSTOSB] = execSTOSB
	t[isa.OpSTOSW] = execSTOSW
	t[isa.OpLODSB] = execLODSB
	t[isa.OpLODSW] = execLODSW
	t[isa.OpSCASB] = execSCASB
	t[isa.OpSCASW] = execSCASW

	t[isa.OpINr] = execINr
	t[isa.OpOUTr] = execOUTr
	t[isa.OpINb] = execINb
	t[isa.OpOUTb] = execOUTb
}
