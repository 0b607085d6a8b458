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

import (
	"github.com/jetsetilly/ndscore/cpu/regfile"
	"github.com/jetsetilly/ndscore/memory/cp15"
)

// execCoprocessorTransfer implements MCR/MRC. Only CP15 (coprocessor 15)
// is wired on the NDS9; any other coprocessor number, and any access at
// all on the ARM7 (which has no CP15), faults as undefined.
func execCoprocessorTransfer(c *CPU, instr uint32) {
	cpNum := (instr >> 8) & 0xf
	if c.cp15 == nil || cpNum != 15 {
		c.raiseUndefined()
		return
	}

	crn := (instr >> 16) & 0xf
	crm := instr & 0xf
	opc2 := (instr >> 5) & 0x7
	rd := int(instr>>12) & 0xf
	toCoproc := instr&(1<<20) == 0

	op := cp15.Op(crn<<8 | crm<<4 | opc2)
	privileged := regfile.ModeOf(c.Regs.CPSR()) != regfile.ModeUSR

	if toCoproc {
		v := c.Regs.Read(rd)
		if err := c.cp15.Write(op, v, privileged, c.mem.CleanCacheLine, c.mem.DrainWriteBuffer); err != nil {
			c.raiseUndefined()
		}
		return
	}

	v, err := c.cp15.Read(op, privileged)
	if err != nil {
		c.raiseUndefined()
		return
	}
	if rd == 15 {
		n := v&(1<<31) != 0
		z := v&(1<<30) != 0
		cFlag := v&(1<<29) != 0
		vFlag := v&(1<<28) != 0
		c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, cFlag, vFlag))
		return
	}
	c.Regs.Write(rd, v)
}
