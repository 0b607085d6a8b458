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

// execBlockTransfer implements LDM/STM. An empty register list is
// architecturally defined to transfer R15 alone and advance the base by
// 0x40, the one genuine edge case the NDS BIOS and several commercial
// titles rely on.
func execBlockTransfer(c *CPU, instr uint32) {
	rn := int(instr>>16) & 0xf
	load := instr&(1<<20) != 0
	writeback := instr&(1<<21) != 0
	userBankTransfer := instr&(1<<22) != 0
	addUp := instr&(1<<23) != 0
	preIndexed := instr&(1<<24) != 0
	list := uint16(instr & 0xffff)

	count := 0
	for r := 0; r < 16; r++ {
		if list&(1<<uint(r)) != 0 {
			count++
		}
	}

	base := c.Regs.Read(rn)
	emptyList := list == 0

	transferSize := uint32(count) * 4
	if emptyList {
		transferSize = 0x40
	}

	var start uint32
	var finalBase uint32
	if addUp {
		start = base
		finalBase = base + transferSize
	} else {
		start = base - transferSize
		finalBase = start
	}

	addr := start
	if (addUp && preIndexed) || (!addUp && !preIndexed) {
		addr += 4
	}

	restoreCPSR := false
	if userBankTransfer && load && list&(1<<15) != 0 {
		restoreCPSR = true
	}

	baseWrittenBack := false

	if emptyList {
		if load {
			v, err := c.mem.DataRead32(addr)
			if err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
			c.writeR15(v&^3, false)
		} else {
			if err := c.mem.DataWrite32(addr, c.Regs.RawPC()+4); err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
		}
	} else {
		for r := 0; r < 16; r++ {
			if list&(1<<uint(r)) == 0 {
				continue
			}
			if load {
				v, err := c.mem.DataRead32(addr)
				if err != nil {
					c.RaiseDataAbort(c.Regs.RawPC())
					return
				}
				if r == 15 {
					c.writeR15(v&^3, restoreCPSR)
				} else if userBankTransfer {
					c.writeUserReg(r, v)
				} else {
					c.Regs.Write(r, v)
				}
				if r == rn {
					baseWrittenBack = true
				}
			} else {
				var v uint32
				if userBankTransfer {
					v = c.readUserReg(r)
				} else {
					v = c.Regs.Read(r)
				}
				if r == rn && isLowestInList(list, rn) {
					v = base
				} else if r == rn {
					v = finalBase
				}
				if err := c.mem.DataWrite32(addr, v); err != nil {
					c.RaiseDataAbort(c.Regs.RawPC())
					return
				}
			}
			addr += 4
		}
	}

	c.addCyclesInternal(1)

	if writeback && (!load || !baseWrittenBack) {
		c.Regs.Write(rn, finalBase)
	}
}

func isLowestInList(list uint16, r int) bool {
	for i := 0; i < r; i++ {
		if list&(1<<uint(i)) != 0 {
			return false
		}
	}
	return true
}

// writeUserReg and readUserReg implement the ^-suffixed (user bank)
// variant of LDM/STM used by privileged-mode exception handlers to
// save/restore user-mode registers without a mode switch. Only R8-R14 are
// banked in any mode other than FIQ/USR/SYS, so this temporarily forces
// the user bank view via UpdateMode's banking table.
func (c *CPU) writeUserReg(r int, v uint32) {
	if r < 8 || r == 15 {
		c.Regs.Write(r, v)
		return
	}
	cur := c.Regs.CPSR()
	if regfile.ModeOf(cur) == regfile.ModeUSR || regfile.ModeOf(cur) == regfile.ModeSYS {
		c.Regs.Write(r, v)
		return
	}
	userCPSR := regfile.SetMode(cur, regfile.ModeSYS)
	c.Regs.SetCPSR(userCPSR)
	c.Regs.UpdateMode(cur, userCPSR)
	c.Regs.Write(r, v)
	c.Regs.SetCPSR(cur)
	c.Regs.UpdateMode(userCPSR, cur)
}

func (c *CPU) readUserReg(r int) uint32 {
	if r < 8 || r == 15 {
		return c.Regs.Read(r)
	}
	cur := c.Regs.CPSR()
	if regfile.ModeOf(cur) == regfile.ModeUSR || regfile.ModeOf(cur) == regfile.ModeSYS {
		return c.Regs.Read(r)
	}
	userCPSR := regfile.SetMode(cur, regfile.ModeSYS)
	c.Regs.SetCPSR(userCPSR)
	c.Regs.UpdateMode(cur, userCPSR)
	v := c.Regs.Read(r)
	c.Regs.SetCPSR(cur)
	c.Regs.UpdateMode(userCPSR, cur)
	return v
}
