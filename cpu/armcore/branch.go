// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package armcore

import "github.com/jetsetilly/ndscore/cpu/regfile"

func signExtend24(v uint32) int32 {
	if v&(1<<23) != 0 {
		return int32(v | 0xff000000)
	}
	return int32(v)
}

func execBranch(c *CPU, instr uint32) {
	offset := signExtend24(instr&0xffffff) << 2
	pc := c.Regs.RawPC()
	c.Regs.WritePC(uint32(int32(pc) + offset))
	c.addCyclesInternal(1)
}

func execBranchLink(c *CPU, instr uint32) {
	offset := signExtend24(instr&0xffffff) << 2
	pc := c.Regs.RawPC()
	c.Regs.Write(14, pc-4)
	c.Regs.WritePC(uint32(int32(pc) + offset))
	c.addCyclesInternal(1)
}

// execBLXImmediate implements BLX(immediate), the ARMv5TE-only encoding
// that reinterprets cond==0xF of the branch-with-link format: the H bit
// (bit 24) supplies an extra half-word of offset precision and the target
// always switches to THUMB state.
func execBLXImmediate(c *CPU, instr uint32) {
	offset := signExtend24(instr&0xffffff) << 2
	if instr&(1<<24) != 0 {
		offset += 2
	}
	pc := c.Regs.RawPC()
	c.Regs.Write(14, pc-4)
	c.Regs.SetCPSR(regfile.SetThumb(c.Regs.CPSR(), true))
	c.Regs.WritePC(uint32(int32(pc) + offset))
	c.addCyclesInternal(1)
}

func execBranchExchange(c *CPU, instr uint32) {
	rm := int(instr) & 0xf
	target := c.Regs.Read(rm)
	isBLX := instr&(1<<5) != 0

	pc := c.Regs.RawPC()
	if isBLX {
		c.Regs.Write(14, pc-4)
	}

	thumb := target&1 != 0
	c.Regs.SetCPSR(regfile.SetThumb(c.Regs.CPSR(), thumb))
	if thumb {
		c.Regs.WritePC(target &^ 1)
	} else {
		c.Regs.WritePC(target &^ 3)
	}
	c.addCyclesInternal(1)
}

func execSWI(c *CPU, instr uint32) {
	_ = instr
	retAddr := c.Regs.RawPC()
	c.raiseSWI(retAddr)
}
