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

// mulCycles approximates the ARM "early termination" multiply timing: the
// hardware scans Rs in 8-bit groups and stops early once the remaining
// bits are all 0 (or, for a signed multiply, all 1), so the internal cycle
// count depends on the operand's value, not just its width.
func mulCycles(rs uint32, signed bool) int {
	for i := 0; i < 3; i++ {
		shifted := rs >> uint(8*(3-i))
		if signed {
			if shifted == 0xffffffff>>uint(8*(3-i)) || shifted == 0 {
				continue
			}
		} else if shifted == 0 {
			continue
		}
		return 4 - i
	}
	return 1
}

func execMultiply(c *CPU, instr uint32) {
	rd := int(instr>>16) & 0xf // Rd field of MUL/MLA
	rn := int(instr>>12) & 0xf // accumulate operand in MLA
	rs := int(instr>>8) & 0xf
	rm := int(instr) & 0xf
	accumulate := instr&(1<<21) != 0
	sBit := instr&(1<<20) != 0

	result := c.Regs.Read(rm) * c.Regs.Read(rs)
	if accumulate {
		result += c.Regs.Read(rn)
	}
	c.Regs.Write(rd, result)

	c.addCyclesInternal(mulCycles(c.Regs.Read(rs), false))
	if accumulate {
		c.addCyclesInternal(1)
	}

	if sBit {
		n := result&(1<<31) != 0
		z := result == 0
		c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, regfile.Carry(c.Regs.CPSR()), regfile.Overflow(c.Regs.CPSR())))
	}
}

func execMultiplyLong(c *CPU, instr uint32) {
	rdHi := int(instr>>16) & 0xf
	rdLo := int(instr>>12) & 0xf
	rs := int(instr>>8) & 0xf
	rm := int(instr) & 0xf
	signedMul := instr&(1<<22) != 0
	accumulate := instr&(1<<21) != 0
	sBit := instr&(1<<20) != 0

	var result uint64
	if signedMul {
		result = uint64(int64(int32(c.Regs.Read(rm))) * int64(int32(c.Regs.Read(rs))))
	} else {
		result = uint64(c.Regs.Read(rm)) * uint64(c.Regs.Read(rs))
	}
	if accumulate {
		result += uint64(c.Regs.Read(rdHi))<<32 | uint64(c.Regs.Read(rdLo))
	}

	c.Regs.Write(rdHi, uint32(result>>32))
	c.Regs.Write(rdLo, uint32(result))

	c.addCyclesInternal(mulCycles(c.Regs.Read(rs), signedMul) + 1)
	if accumulate {
		c.addCyclesInternal(1)
	}

	if sBit {
		n := result&(1<<63) != 0
		z := result == 0
		c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, regfile.Carry(c.Regs.CPSR()), regfile.Overflow(c.Regs.CPSR())))
	}
}
