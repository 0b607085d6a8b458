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

// dpOpcode is the four-bit ALU operation selector in bits[24:21] of a data
// processing instruction.
type dpOpcode uint8

const (
	dpAND dpOpcode = iota
	dpEOR
	dpSUB
	dpRSB
	dpADD
	dpADC
	dpSBC
	dpRSC
	dpTST
	dpTEQ
	dpCMP
	dpCMN
	dpORR
	dpMOV
	dpBIC
	dpMVN
)

// shifterOperand evaluates the shifter operand of a data processing
// instruction and returns the operand value plus the carry it produces
// (used by logical ops when S is set).
func (c *CPU) shifterOperand(instr uint32) (uint32, bool) {
	carryIn := regfile.Carry(c.Regs.CPSR())

	if instr&(1<<25) != 0 {
		imm := instr & 0xff
		rot := (instr >> 8) & 0xf * 2
		if rot == 0 {
			return imm, carryIn
		}
		v, _ := barrelShift(imm, uint(rot), shiftROR, carryIn, true)
		return v, (imm>>(rot-1))&1 != 0
	}

	rm := int(instr) & 0xf
	t := shiftType((instr >> 5) & 0x3)
	v := c.Regs.Read(rm)

	if instr&(1<<4) != 0 {
		rs := int(instr>>8) & 0xf
		amount := uint(c.Regs.Read(rs) & 0xff)
		c.addCyclesInternal(1)
		if amount == 0 {
			return v, carryIn
		}
		return barrelShift(v, amount, t, carryIn, false)
	}

	amount := uint((instr >> 7) & 0x1f)
	return barrelShift(v, amount, t, carryIn, true)
}

func execDataProcessing(c *CPU, instr uint32) {
	op := dpOpcode((instr >> 21) & 0xf)
	sBit := instr&(1<<20) != 0
	rn := int(instr>>16) & 0xf
	rd := int(instr>>12) & 0xf

	operand2, shiftCarry := c.shifterOperand(instr)
	operand1 := c.Regs.Read(rn)

	var result uint32
	var carry, overflow bool
	carry = regfile.Carry(c.Regs.CPSR())
	writesResult := true

	switch op {
	case dpAND, dpTST:
		result = operand1 & operand2
		carry = shiftCarry
		writesResult = op != dpTST
	case dpEOR, dpTEQ:
		result = operand1 ^ operand2
		carry = shiftCarry
		writesResult = op != dpTEQ
	case dpSUB, dpCMP:
		result, carry, overflow = subWithFlags(operand1, operand2)
		writesResult = op != dpCMP
	case dpRSB:
		result, carry, overflow = subWithFlags(operand2, operand1)
	case dpADD, dpCMN:
		result, carry, overflow = addWithFlags(operand1, operand2)
		writesResult = op != dpCMN
	case dpADC:
		result, carry, overflow = addCarryWithFlags(operand1, operand2, regfile.Carry(c.Regs.CPSR()))
	case dpSBC:
		result, carry, overflow = sbcWithFlags(operand1, operand2, regfile.Carry(c.Regs.CPSR()))
	case dpRSC:
		result, carry, overflow = sbcWithFlags(operand2, operand1, regfile.Carry(c.Regs.CPSR()))
	case dpORR:
		result = operand1 | operand2
		carry = shiftCarry
	case dpMOV:
		result = operand2
		carry = shiftCarry
	case dpBIC:
		result = operand1 &^ operand2
		carry = shiftCarry
	case dpMVN:
		result = ^operand2
		carry = shiftCarry
	}

	if writesResult {
		if rd == 15 {
			c.writeR15(result, sBit)
			return
		}
		c.Regs.Write(rd, result)
	}

	if sBit {
		n := result&(1<<31) != 0
		z := result == 0
		v := overflow
		if op == dpAND || op == dpTST || op == dpEOR || op == dpTEQ || op == dpORR || op == dpMOV || op == dpBIC || op == dpMVN {
			v = regfile.Overflow(c.Regs.CPSR())
		}
		c.Regs.SetCPSR(regfile.SetFlags(c.Regs.CPSR(), n, z, carry, v))
	}
}

func addWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	result = uint32(sum)
	carry = sum > 0xffffffff
	overflow = (a^result)&(b^result)&(1<<31) != 0
	return
}

func addCarryWithFlags(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	c := uint64(0)
	if carryIn {
		c = 1
	}
	sum := uint64(a) + uint64(b) + c
	result = uint32(sum)
	carry = sum > 0xffffffff
	overflow = (a^result)&(b^result)&(1<<31) != 0
	return
}

func subWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	result = a - b
	carry = a >= b
	overflow = (a^b)&(a^result)&(1<<31) != 0
	return
}

func sbcWithFlags(a, b uint32, carryIn bool) (result uint32, carry, overflow bool) {
	borrow := uint64(1)
	if carryIn {
		borrow = 0
	}
	diff := uint64(a) - uint64(b) - borrow
	result = uint32(diff)
	carry = uint64(a) >= uint64(b)+borrow
	overflow = (a^b)&(a^result)&(1<<31) != 0
	return
}
