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

// execCLZ implements the ARMv5TE CLZ instruction: count leading zero bits
// in Rm, 32 for an all-zero operand.
func execCLZ(c *CPU, instr uint32) {
	rd := int(instr>>12) & 0xf
	rm := int(instr) & 0xf
	v := c.Regs.Read(rm)

	count := 0
	for v&(1<<31) == 0 && count < 32 {
		v <<= 1
		count++
	}
	c.Regs.Write(rd, uint32(count))
}

// execSaturating implements the QADD/QSUB/QDADD/QDSUB family: signed
// 32-bit saturating arithmetic that sets the Q (sticky overflow) flag
// instead of the normal V flag on saturation.
func execSaturating(c *CPU, instr uint32) {
	rd := int(instr>>12) & 0xf
	rn := int(instr>>16) & 0xf
	rm := int(instr) & 0xf
	op := (instr >> 21) & 0x3

	a := int64(int32(c.Regs.Read(rm)))
	b := int64(int32(c.Regs.Read(rn)))

	saturated := false
	sat32 := func(v int64) uint32 {
		if v > 0x7fffffff {
			saturated = true
			return 0x7fffffff
		}
		if v < -0x80000000 {
			saturated = true
			return 0x80000000
		}
		return uint32(v)
	}

	var result uint32
	switch op {
	case 0: // QADD
		result = sat32(a + b)
	case 1: // QSUB
		result = sat32(a - b)
	case 2: // QDADD
		doubled := sat32(2 * b)
		result = sat32(a + int64(int32(doubled)))
	case 3: // QDSUB
		doubled := sat32(2 * b)
		result = sat32(a - int64(int32(doubled)))
	}

	c.Regs.Write(rd, result)
	if saturated {
		c.Regs.SetCPSR(c.Regs.CPSR() | regfile.FlagQ)
	}
}
