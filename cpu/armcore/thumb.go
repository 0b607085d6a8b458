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

func (c *CPU) setLogicalFlags(result uint32, carry bool) {
	n := result&(1<<31) != 0
	z := result == 0
	c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, carry, regfile.Overflow(c.Regs.CPSR())))
}

func (c *CPU) setArithFlags(result uint32, carry, overflow bool) {
	n := result&(1<<31) != 0
	z := result == 0
	c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, carry, overflow))
}

// execThumbShifted is format 1: move shifted register (LSL/LSR/ASR by a
// 5-bit immediate).
func execThumbShifted(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rs := int(instr>>3) & 0x7
	amount := uint((instr >> 6) & 0x1f)
	t := shiftType((instr >> 11) & 0x3)

	v := c.Regs.Read(rs)
	result, carry := barrelShift(v, amount, t, regfile.Carry(c.Regs.CPSR()), true)
	c.Regs.Write(rd, result)
	c.setLogicalFlags(result, carry)
}

// execThumbAddSub is format 2: add/subtract, register or 3-bit immediate.
func execThumbAddSub(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rs := int(instr>>3) & 0x7
	immediate := instr&(1<<10) != 0
	subtract := instr&(1<<9) != 0
	field := int(instr>>6) & 0x7

	a := c.Regs.Read(rs)
	var b uint32
	if immediate {
		b = uint32(field)
	} else {
		b = c.Regs.Read(field)
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = subWithFlags(a, b)
	} else {
		result, carry, overflow = addWithFlags(a, b)
	}
	c.Regs.Write(rd, result)
	c.setArithFlags(result, carry, overflow)
}

// execThumbImmediate is format 3: MOV/CMP/ADD/SUB of Rd and an 8-bit
// immediate.
func execThumbImmediate(c *CPU, instr uint16) {
	rd := int(instr>>8) & 0x7
	imm := uint32(instr & 0xff)
	op := (instr >> 11) & 0x3

	switch op {
	case 0: // MOV
		c.Regs.Write(rd, imm)
		c.setLogicalFlags(imm, regfile.Carry(c.Regs.CPSR()))
	case 1: // CMP
		result, carry, overflow := subWithFlags(c.Regs.Read(rd), imm)
		c.setArithFlags(result, carry, overflow)
	case 2: // ADD
		result, carry, overflow := addWithFlags(c.Regs.Read(rd), imm)
		c.Regs.Write(rd, result)
		c.setArithFlags(result, carry, overflow)
	case 3: // SUB
		result, carry, overflow := subWithFlags(c.Regs.Read(rd), imm)
		c.Regs.Write(rd, result)
		c.setArithFlags(result, carry, overflow)
	}
}

// execThumbALU is format 4: two-register ALU operations, sixteen opcodes
// made of most of the ARM data-processing operations plus register-amount
// LSL/LSR/ASR/ROR, NEG and MUL.
func execThumbALU(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rs := int(instr>>3) & 0x7
	op := (instr >> 6) & 0xf

	a := c.Regs.Read(rd)
	b := c.Regs.Read(rs)
	carryIn := regfile.Carry(c.Regs.CPSR())

	switch op {
	case 0x0: // AND
		result := a & b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
	case 0x1: // EOR
		result := a ^ b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
	case 0x2: // LSL
		result, carry := barrelShift(a, uint(b&0xff), shiftLSL, carryIn, false)
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carry)
	case 0x3: // LSR
		result, carry := barrelShift(a, uint(b&0xff), shiftLSR, carryIn, false)
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carry)
	case 0x4: // ASR
		result, carry := barrelShift(a, uint(b&0xff), shiftASR, carryIn, false)
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carry)
	case 0x5: // ADC
		result, carry, overflow := addCarryWithFlags(a, b, carryIn)
		c.Regs.Write(rd, result)
		c.setArithFlags(result, carry, overflow)
	case 0x6: // SBC
		result, carry, overflow := sbcWithFlags(a, b, carryIn)
		c.Regs.Write(rd, result)
		c.setArithFlags(result, carry, overflow)
	case 0x7: // ROR
		result, carry := barrelShift(a, uint(b&0xff), shiftROR, carryIn, false)
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carry)
	case 0x8: // TST
		c.setLogicalFlags(a&b, carryIn)
	case 0x9: // NEG
		result, carry, overflow := subWithFlags(0, b)
		c.Regs.Write(rd, result)
		c.setArithFlags(result, carry, overflow)
	case 0xa: // CMP
		result, carry, overflow := subWithFlags(a, b)
		c.setArithFlags(result, carry, overflow)
	case 0xb: // CMN
		result, carry, overflow := addWithFlags(a, b)
		c.setArithFlags(result, carry, overflow)
	case 0xc: // ORR
		result := a | b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
	case 0xd: // MUL
		result := a * b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
		c.addCyclesInternal(mulCycles(b, false))
	case 0xe: // BIC
		result := a &^ b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
	case 0xf: // MVN
		result := ^b
		c.Regs.Write(rd, result)
		c.setLogicalFlags(result, carryIn)
	}
}

// execThumbHiReg is format 5 with op in {0,1,2}: ADD/CMP/MOV where either
// operand may come from R8-R15.
func execThumbHiReg(c *CPU, instr uint16) {
	rd := int(instr)&0x7 | int(instr>>4)&0x8
	rs := int(instr>>3) & 0xf
	op := (instr >> 8) & 0x3

	a := c.Regs.Read(rd)
	b := c.Regs.Read(rs)

	switch op {
	case 0: // ADD
		result, _, _ := addWithFlags(a, b)
		if rd == 15 {
			c.Regs.WritePC(result &^ 1)
		} else {
			c.Regs.Write(rd, result)
		}
	case 1: // CMP
		result, carry, overflow := subWithFlags(a, b)
		c.setArithFlags(result, carry, overflow)
	case 2: // MOV
		if rd == 15 {
			c.Regs.WritePC(b &^ 1)
		} else {
			c.Regs.Write(rd, b)
		}
	}
}

func execThumbBX(c *CPU, instr uint16) {
	rs := int(instr>>3) & 0xf
	blx := instr&(1<<7) != 0
	if blx && c.core != Core9 {
		c.raiseUndefined()
		return
	}
	target := c.Regs.Read(rs)

	if blx {
		pc := c.Regs.RawPC()
		c.Regs.Write(14, (pc-2)|1)
	}

	thumb := target&1 != 0
	c.Regs.SetCPSR(regfile.SetThumb(c.Regs.CPSR(), thumb))
	if thumb {
		c.Regs.WritePC(target &^ 1)
	} else {
		c.Regs.WritePC(target &^ 3)
	}
}

func execThumbPCRelLoad(c *CPU, instr uint16) {
	rd := int(instr>>8) & 0x7
	imm := uint32(instr&0xff) * 4
	base := (c.Regs.RawPC() &^ 3) + imm
	v, err := c.mem.DataRead32(base)
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
		return
	}
	c.addCyclesInternal(1)
	c.Regs.Write(rd, v)
}

func execThumbRegOffset(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rb := int(instr>>3) & 0x7
	ro := int(instr>>6) & 0x7
	opc := (instr >> 10) & 0x3

	addr := c.Regs.Read(rb) + c.Regs.Read(ro)

	var err error
	switch opc {
	case 0: // STR
		err = c.mem.DataWrite32(addr, c.Regs.Read(rd))
	case 1: // STRB
		err = c.mem.DataWrite8(addr, uint8(c.Regs.Read(rd)))
	case 2: // LDR
		var v uint32
		v, err = c.mem.DataRead32(addr)
		if err == nil {
			if addr&0x3 != 0 {
				rot := (addr & 0x3) * 8
				v = (v >> rot) | (v << (32 - rot))
			}
			c.addCyclesInternal(1)
			c.Regs.Write(rd, v)
		}
	case 3: // LDRB
		var b uint8
		b, err = c.mem.DataRead8(addr)
		if err == nil {
			c.addCyclesInternal(1)
			c.Regs.Write(rd, uint32(b))
		}
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
	}
}

func execThumbSignExtended(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rb := int(instr>>3) & 0x7
	ro := int(instr>>6) & 0x7
	opc := (instr >> 10) & 0x3

	addr := c.Regs.Read(rb) + c.Regs.Read(ro)

	var err error
	switch opc {
	case 0: // STRH
		err = c.mem.DataWrite16(addr, uint16(c.Regs.Read(rd)))
	case 1: // LDSB
		var b uint8
		b, err = c.mem.DataRead8(addr)
		if err == nil {
			c.addCyclesInternal(1)
			c.Regs.Write(rd, uint32(int32(int8(b))))
		}
	case 2: // LDRH
		var h uint16
		h, err = c.mem.DataRead16(addr)
		if err == nil {
			c.addCyclesInternal(1)
			c.Regs.Write(rd, uint32(h))
		}
	case 3: // LDSH
		var h uint16
		h, err = c.mem.DataRead16(addr)
		if err == nil {
			c.addCyclesInternal(1)
			c.Regs.Write(rd, uint32(int32(int16(h))))
		}
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
	}
}

func execThumbImmOffset(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rb := int(instr>>3) & 0x7
	offset5 := uint32(instr>>6) & 0x1f
	byteAccess := instr&(1<<12) != 0
	load := instr&(1<<11) != 0

	var addr uint32
	if byteAccess {
		addr = c.Regs.Read(rb) + offset5
	} else {
		addr = c.Regs.Read(rb) + offset5*4
	}

	var err error
	if load {
		if byteAccess {
			var b uint8
			b, err = c.mem.DataRead8(addr)
			if err == nil {
				c.addCyclesInternal(1)
				c.Regs.Write(rd, uint32(b))
			}
		} else {
			var v uint32
			v, err = c.mem.DataRead32(addr)
			if err == nil {
				if addr&0x3 != 0 {
					rot := (addr & 0x3) * 8
					v = (v >> rot) | (v << (32 - rot))
				}
				c.addCyclesInternal(1)
				c.Regs.Write(rd, v)
			}
		}
	} else {
		if byteAccess {
			err = c.mem.DataWrite8(addr, uint8(c.Regs.Read(rd)))
		} else {
			err = c.mem.DataWrite32(addr, c.Regs.Read(rd))
		}
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
	}
}

func execThumbHalfword(c *CPU, instr uint16) {
	rd := int(instr) & 0x7
	rb := int(instr>>3) & 0x7
	offset5 := (uint32(instr>>6) & 0x1f) * 2
	load := instr&(1<<11) != 0

	addr := c.Regs.Read(rb) + offset5

	var err error
	if load {
		var h uint16
		h, err = c.mem.DataRead16(addr)
		if err == nil {
			c.addCyclesInternal(1)
			c.Regs.Write(rd, uint32(h))
		}
	} else {
		err = c.mem.DataWrite16(addr, uint16(c.Regs.Read(rd)))
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
	}
}

func execThumbSPRelative(c *CPU, instr uint16) {
	rd := int(instr>>8) & 0x7
	imm := uint32(instr&0xff) * 4
	load := instr&(1<<11) != 0

	addr := c.Regs.Read(13) + imm

	var err error
	if load {
		var v uint32
		v, err = c.mem.DataRead32(addr)
		if err == nil {
			if addr&0x3 != 0 {
				rot := (addr & 0x3) * 8
				v = (v >> rot) | (v << (32 - rot))
			}
			c.addCyclesInternal(1)
			c.Regs.Write(rd, v)
		}
	} else {
		err = c.mem.DataWrite32(addr, c.Regs.Read(rd))
	}
	if err != nil {
		c.RaiseDataAbort(c.Regs.RawPC())
	}
}

func execThumbLoadAddress(c *CPU, instr uint16) {
	rd := int(instr>>8) & 0x7
	imm := uint32(instr&0xff) * 4
	usePC := instr&(1<<11) == 0

	var base uint32
	if usePC {
		base = c.Regs.RawPC() &^ 3
	} else {
		base = c.Regs.Read(13)
	}
	c.Regs.Write(rd, base+imm)
}

func execThumbAddSP(c *CPU, instr uint16) {
	imm := uint32(instr&0x7f) * 4
	negative := instr&(1<<7) != 0
	sp := c.Regs.Read(13)
	if negative {
		c.Regs.Write(13, sp-imm)
	} else {
		c.Regs.Write(13, sp+imm)
	}
}

var thumbPushPopOrder = [8]int{0, 1, 2, 3, 4, 5, 6, 7}

func execThumbPushPop(c *CPU, instr uint16) {
	load := instr&(1<<11) != 0
	includePCLR := instr&(1<<8) != 0
	list := uint8(instr & 0xff)

	sp := c.Regs.Read(13)

	if load { // POP: low register first, ascending addresses
		addr := sp
		for _, r := range thumbPushPopOrder {
			if list&(1<<uint(r)) == 0 {
				continue
			}
			v, err := c.mem.DataRead32(addr)
			if err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
			c.Regs.Write(r, v)
			addr += 4
		}
		if includePCLR {
			v, err := c.mem.DataRead32(addr)
			if err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
			c.Regs.WritePC(v &^ 1)
			addr += 4
		}
		c.addCyclesInternal(1)
		c.Regs.Write(13, addr)
		return
	}

	// PUSH: SP is lowered by the whole transfer first, then the listed
	// registers are stored upward from the new SP, LR (if included) last
	count := 0
	for r := 0; r < 8; r++ {
		if list&(1<<uint(r)) != 0 {
			count++
		}
	}
	if includePCLR {
		count++
	}
	addr := sp - uint32(count)*4
	c.Regs.Write(13, addr)

	writeAddr := addr
	for _, r := range thumbPushPopOrder {
		if list&(1<<uint(r)) == 0 {
			continue
		}
		if err := c.mem.DataWrite32(writeAddr, c.Regs.Read(r)); err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
		writeAddr += 4
	}
	if includePCLR {
		if err := c.mem.DataWrite32(writeAddr, c.Regs.Read(14)); err != nil {
			c.RaiseDataAbort(c.Regs.RawPC())
			return
		}
	}
}

func execThumbMultiple(c *CPU, instr uint16) {
	rb := int(instr>>8) & 0x7
	load := instr&(1<<11) != 0
	list := uint8(instr & 0xff)

	base := c.Regs.Read(rb)
	addr := base

	baseInList := list&(1<<uint(rb)) != 0
	baseIsLowest := true
	for r := 0; r < rb; r++ {
		if list&(1<<uint(r)) != 0 {
			baseIsLowest = false
			break
		}
	}

	for r := 0; r < 8; r++ {
		if list&(1<<uint(r)) == 0 {
			continue
		}
		if load {
			v, err := c.mem.DataRead32(addr)
			if err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
			c.Regs.Write(r, v)
		} else {
			v := c.Regs.Read(r)
			if r == rb && !baseIsLowest {
				v = base + uint32(popcount8(list))*4
			}
			if err := c.mem.DataWrite32(addr, v); err != nil {
				c.RaiseDataAbort(c.Regs.RawPC())
				return
			}
		}
		addr += 4
	}

	c.addCyclesInternal(1)
	if !load || !baseInList {
		c.Regs.Write(rb, addr)
	}
}

func popcount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func execThumbBcond(c *CPU, instr uint16) {
	offset := int32(int8(instr & 0xff))
	pc := c.Regs.RawPC()
	c.Regs.WritePC(uint32(int32(pc) + offset*2))
	c.addCyclesInternal(1)
}

func execThumbBUncond(c *CPU, instr uint16) {
	offset11 := int32(instr & 0x7ff)
	if offset11&0x400 != 0 {
		offset11 |= ^0x7ff
	}
	pc := c.Regs.RawPC()
	c.Regs.WritePC(uint32(int32(pc) + offset11*2))
	c.addCyclesInternal(1)
}

// execThumbBL handles both halves of the two-instruction BL/BLX(immediate)
// sequence: the first half (H=10) stashes a partial offset in LR, the
// second (H=11, or H=01 for BLX) completes the branch.
func execThumbBL(c *CPU, instr uint16) {
	high := (instr >> 11) & 0x3
	offset11 := uint32(instr & 0x7ff)

	switch high {
	case 0x2: // first instruction
		signExt := int32(offset11)
		if signExt&0x400 != 0 {
			signExt |= ^0x7ff
		}
		target := uint32(int32(c.Regs.RawPC()) + (signExt << 12))
		c.Regs.Write(14, target)

	case 0x3: // second instruction, BL
		pc := c.Regs.RawPC()
		next := c.Regs.Read(14) + offset11<<1
		c.Regs.Write(14, (pc-2)|1)
		c.Regs.WritePC(next)
		c.addCyclesInternal(1)

	case 0x1: // second instruction, BLX(suffix) - ARMv5TE only
		if c.core != Core9 {
			c.raiseUndefined()
			return
		}
		pc := c.Regs.RawPC()
		next := (c.Regs.Read(14) + offset11<<1) &^ 3
		c.Regs.Write(14, (pc-2)|1)
		c.Regs.SetCPSR(regfile.SetThumb(c.Regs.CPSR(), false))
		c.Regs.WritePC(next)
		c.addCyclesInternal(1)
	}
}

func execSWIThumb(c *CPU, instr uint16) {
	_ = instr
	c.raiseSWI(c.Regs.RawPC())
}
