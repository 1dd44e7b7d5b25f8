/*
   Micro16 CPU core - stack frame helpers (ENTER/LEAVE).

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

// execENTER implements the level=0 case as "push BP; MOV BP,SP; SUB
// SP,size" exactly, and level>0 as a display-list copy of the
// enclosing frames' frame pointers.
func execENTER(c *CPU) uint16 {
	size := c.fetchWord()
	level := c.fetchByte()

	c.pushWord(c.Regs[isa.BP])
	frameTemp := c.SP

	if level > 0 {
		bp := c.Regs[isa.BP]
		for i := byte(1); i < level; i++ {
			bp -= 2
			c.pushWord(c.readWordAt(isa.SegSS, bp))
		}
		c.pushWord(frameTemp)
	}

	c.Regs[isa.BP] = frameTemp
	c.SP -= size
	return 5 + uint16(level)*4
}

func execLEAVE(c *CPU) uint16 {
	c.SP = c.Regs[isa.BP]
	c.Regs[isa.BP] = c.popWord()
	return 2
}
