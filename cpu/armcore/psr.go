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

// psrMask builds the field mask MSR writes, from the c/x/s/f bits encoded
// in instr bits[19:16] (flags=bit19, status=bit18, extension=bit17,
// control=bit16 - the NDS cores implement only flags and control, the
// status and extension fields being reserved on ARMv4T/v5TE).
func psrMask(instr uint32) uint32 {
	var mask uint32
	if instr&(1<<19) != 0 {
		mask |= 0xff000000 // flags
	}
	if instr&(1<<16) != 0 {
		mask |= 0x000000ff // control; writes to this field are only
		// effective in a privileged mode, checked by the caller.
	}
	return mask
}

func execPSRTransfer(c *CPU, instr uint32) {
	useSPSR := instr&(1<<22) != 0
	isMSR := instr&(1<<21) != 0

	if !isMSR {
		rd := int(instr>>12) & 0xf
		var v uint32
		if useSPSR {
			v, _ = c.Regs.SPSR()
		} else {
			v = c.Regs.CPSR()
		}
		c.Regs.Write(rd, v)
		return
	}

	var operand uint32
	if instr&(1<<25) != 0 {
		imm := instr & 0xff
		rot := ((instr >> 8) & 0xf) * 2
		operand, _ = barrelShift(imm, uint(rot), shiftROR, false, false)
	} else {
		rm := int(instr) & 0xf
		operand = c.Regs.Read(rm)
	}

	mask := psrMask(instr)
	privileged := regfile.ModeOf(c.Regs.CPSR()) != regfile.ModeUSR
	if !privileged {
		mask &^= 0x000000ff // control field writes are ignored in User mode
	}

	if useSPSR {
		spsr, ok := c.Regs.SPSR()
		if !ok {
			return
		}
		c.Regs.SetSPSR((spsr &^ mask) | (operand & mask))
		return
	}

	oldCPSR := c.Regs.CPSR()
	newCPSR := (oldCPSR &^ mask) | (operand & mask)
	c.Regs.SetCPSR(newCPSR)
	c.Regs.UpdateMode(oldCPSR, newCPSR)
}
