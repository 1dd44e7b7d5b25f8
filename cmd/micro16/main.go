/*
   Micro16 command line front end.

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

// The micro16 tool is a thin reference front end over the emulator
// core: assemble a source file, run a binary image, or disassemble
// one. The interactive debugger lives elsewhere; this entry point
// only exercises the library surface.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	assembler "github.com/mach16/micro16/emu/assemble"
	"github.com/mach16/micro16/emu/cpu"
	disassembler "github.com/mach16/micro16/emu/disassemble"
	"github.com/mach16/micro16/emu/isa"
	"github.com/mach16/micro16/emu/memory"
	"github.com/mach16/micro16/util/logger"
)

const defaultLoadAddr = 0x00100

func parseAddr(text string) (uint32, error) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(text)), "0x")
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil || v >= memory.Size {
		return 0, fmt.Errorf("bad address %q (hex, below 0x100000)", text)
	}
	return uint32(v), nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "micro16",
		Short:         "Micro16 emulator, assembler and disassembler",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var addrStr string
	var maxCycles uint64
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run <file.bin>",
		Short: "Load a raw binary image and execute it until halt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			addr, err := parseAddr(addrStr)
			if err != nil {
				return err
			}

			c := cpu.New()
			if verbose {
				c.SetLogger(logger.New(io.Discard, slog.LevelDebug, true))
			}
			if !c.LoadProgram(data, addr) {
				return fmt.Errorf("image of %d bytes does not fit at 0x%05X", len(data), addr)
			}
			if addr < 0x10000 {
				c.PC = uint16(addr)
			} else {
				c.Segs[isa.SegCS] = uint16(addr >> 4)
				c.PC = uint16(addr & 0xF)
			}

			executed := c.Run(maxCycles)
			if verbose {
				dumpState(c, executed)
			}
			if c.Error {
				return fmt.Errorf("cpu fault: %s", c.Diag)
			}
			return nil
		},
	}
	runCmd.Flags().StringVarP(&addrStr, "addr", "a", fmt.Sprintf("%05X", defaultLoadAddr), "Load address (hex)")
	runCmd.Flags().Uint64VarP(&maxCycles, "cycles", "c", 10_000_000, "Cycle budget")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump machine state after the run")

	var outPath string

	asmCmd := &cobra.Command{
		Use:   "asm <file.s>",
		Short: "Assemble a source file into a raw binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := assembler.Assemble(string(source))
			if err != nil {
				return err
			}
			out := outPath
			if out == "" {
				out = strings.TrimSuffix(args[0], ".s") + ".bin"
			}
			if err := os.WriteFile(out, res.Image, 0o644); err != nil {
				return err
			}
			fmt.Printf("%s: %d bytes at origin 0x%05X\n", out, len(res.Image), res.Origin)
			return nil
		},
	}
	asmCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default: source with .bin)")

	var disAddrStr string
	var showBytes bool

	disasmCmd := &cobra.Command{
		Use:   "disasm <file.bin>",
		Short: "Disassemble a raw binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			addr, err := parseAddr(disAddrStr)
			if err != nil {
				return err
			}
			opts := disassembler.Options{
				ShowAddr:  showBytes,
				ShowBytes: showBytes,
			}
			for _, line := range disassembler.Lines(data, uint16(addr), opts) {
				fmt.Println(line)
			}
			return nil
		},
	}
	disasmCmd.Flags().StringVarP(&disAddrStr, "addr", "a", fmt.Sprintf("%05X", defaultLoadAddr), "Image base offset (hex)")
	disasmCmd.Flags().BoolVarP(&showBytes, "bytes", "b", false, "Show address and raw byte columns")

	rootCmd.AddCommand(runCmd, asmCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dumpState(c *cpu.CPU, executed uint64) {
	for i, name := range isa.RegNames {
		fmt.Printf("%s=%04X ", name, c.Regs[i])
	}
	fmt.Println()
	for i, name := range isa.SegNames {
		fmt.Printf("%s=%04X ", name, c.Segs[i])
	}
	fmt.Printf("PC=%04X SP=%04X FLAGS=%04X\n", c.PC, c.SP, c.Flags)
	fmt.Printf("instructions=%d cycles=%d (budget spent %d)\n", c.Instructions, c.Cycles, executed)
}
