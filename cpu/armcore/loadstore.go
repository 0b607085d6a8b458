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

// offsetValue computes the addressing-mode-2/3 offset for a single data
// transfer or halfword transfer: either an unshifted register, a
// shift-by-immediate register (mode 2 only), or a 12-bit (mode 2) /
// 8-bit split (mode 3) immediate.
func (c *CPU) offsetValue(instr uint32, halfword bool) uint32 {
	if halfword {
		if instr&(1<<22) != 0 {
			return (instr & 0xf) | ((instr >> 4) & 0xf0)
		}
		rm := int(instr) & 0xf
		return c.Regs.Read(rm)
	}

	if instr&(1<<25) == 0 {
		return instr & 0xfff
	}

	rm := int(instr) & 0xf
	v := c.Regs.Read(rm)
	t := shiftType((instr >> 5) & 0x3)
	amount := uint((instr >> 7) & 0x1f)
	carryIn := regfile.Carry(c.Regs.CPSR())
	result, _ := barrelShift(v, amount, t, carryIn, true)
	return result
}

func execSingleTransfer(c *CPU, instr uint32) {
	rn := int(instr>>16) & 0xf
	rd := int(instr>>12) & 0xf
	preIndexed := instr&(1<<24) != 0
	addUp := instr&(1<<23) != 0
	byteAccess := instr&(1<<22) != 0
	writeback := instr&(1<<21) != 0
	load := instr&(1<<20) != 0

	offset := c.offsetValue(instr, false)
	base := c.Regs.Read(rn)

	addr := base
	if preIndexed {
		if addUp {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	var effectiveWriteback uint32
	if addUp {
		effectiveWriteback = base + offset
	} else {
		effectiveWriteback = base - offset
	}

	if load {
		var v uint32
		var err error
		if byteAccess {
			var b uint8
			b, err = c.mem.DataRead8(addr)
			v = uint32(b)
		} else {
			v, err = c.mem.DataRead32(addr)
			if addr&0x3 != 0 {
				rot := (addr & 0x3) * 8
				v = (v >> rot) | (v << (32 - rot))
			}
		}
		if err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
		c.addCyclesInternal(1)
		if rd == 15 {
			c.writeR15(v&^3, false)
		} else {
			c.Regs.Write(rd, v)
		}
	} else {
		v := c.Regs.Read(rd)
		if rd == 15 {
			v += 4 // store of PC reads PC+12 from the start of the instruction
		}
		var err error
		if byteAccess {
			err = c.mem.DataWrite8(addr, uint8(v))
		} else {
			err = c.mem.DataWrite32(addr, v)
		}
		if err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
	}

	if !preIndexed {
		c.Regs.Write(rn, effectiveWriteback)
	} else if writeback {
		c.Regs.Write(rn, effectiveWriteback)
	}
}

func execHalfwordTransfer(c *CPU, instr uint32) {
	rn := int(instr>>16) & 0xf
	rd := int(instr>>12) & 0xf
	preIndexed := instr&(1<<24) != 0
	addUp := instr&(1<<23) != 0
	writeback := instr&(1<<21) != 0
	load := instr&(1<<20) != 0
	sh := (instr >> 5) & 0x3

	offset := c.offsetValue(instr, true)
	base := c.Regs.Read(rn)

	addr := base
	if preIndexed {
		if addUp {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	var effectiveWriteback uint32
	if addUp {
		effectiveWriteback = base + offset
	} else {
		effectiveWriteback = base - offset
	}

	if load {
		var v uint32
		var err error
		switch sh {
		case 1: // unsigned halfword
			var h uint16
			h, err = c.mem.DataRead16(addr)
			v = uint32(h)
		case 2: // signed byte
			var b uint8
			b, err = c.mem.DataRead8(addr)
			v = uint32(int32(int8(b)))
		case 3: // signed halfword
			var h uint16
			h, err = c.mem.DataRead16(addr)
			v = uint32(int32(int16(h)))
		}
		if err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
		c.addCyclesInternal(1)
		c.Regs.Write(rd, v)
	} else {
		v := uint16(c.Regs.Read(rd))
		if err := c.mem.DataWrite16(addr, v); err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
	}

	if !preIndexed || writeback {
		c.Regs.Write(rn, effectiveWriteback)
	}
}

func execSwap(c *CPU, instr uint32) {
	rn := int(instr>>16) & 0xf
	rd := int(instr>>12) & 0xf
	rm := int(instr) & 0xf
	byteAccess := instr&(1<<22) != 0

	addr := c.Regs.Read(rn)
	newVal := c.Regs.Read(rm)

	var old uint32
	var err error
	if byteAccess {
		var b uint8
		b, err = c.mem.DataRead8(addr)
		old = uint32(b)
		if err == nil {
			err = c.mem.DataWrite8(addr, uint8(newVal))
		}
	} else {
		old, err = c.mem.DataRead32(addr)
		if err == nil {
			err = c.mem.DataWrite32(addr, newVal)
		}
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
		return
	}
	c.addCyclesInternal(1)
	c.Regs.Write(rd, old)
}
