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

import "github.com/jetsetilly/ndscore/cpu/decode"

type armHandler func(c *CPU, instr uint32)

// armEntry is what the 4096-entry ARM decode table stores per index: the
// opcode family, the static memory classification, whether this family
// always ends a basic block, and the handler that carries out the actual
// semantics (deriving its specific operation - which ALU op, which
// condition code register, etc - from the full instruction word at
// dispatch time, since the table index alone covers bits[27:20] and
// [7:4] only).
type armEntry struct {
	kind       decode.Kind
	memory     decode.MemoryKind
	endOfBlock bool
	handler    armHandler
}

// armTable9 and armTable7 are built once at package init, indexed by
// ((instr>>20)&0xff)<<4 | ((instr>>4)&0xf), matching the 4096-entry layout
// spec'd for the decoder. They differ only where ARMv5TE introduces an
// opcode ARMv4T does not have: the ARM7 entry for that index is
// KindUndefined.
var armTable9 [4096]armEntry
var armTable7 [4096]armEntry

func init() {
	for idx := 0; idx < 4096; idx++ {
		armTable9[idx] = classifyARM(uint32(idx), Core9)
		armTable7[idx] = classifyARM(uint32(idx), Core7)
	}
}

func lookupARM(instr uint32, core Core) armEntry {
	idx := (((instr >> 20) & 0xff) << 4) | ((instr >> 4) & 0xf)
	if core == Core9 {
		return armTable9[idx]
	}
	return armTable7[idx]
}

// classifyARM derives the opcode family for one 12-bit table index
// (bits[27:20] in the high eight bits, bits[7:4] in the low four), the
// same split the ARM7TDMI/ARM946E-S data sheets use to present their
// instruction-decode tables.
func classifyARM(idx uint32, core Core) armEntry {
	bit := func(n uint) bool { return idx&(1<<n) != 0 }

	bit27 := bit(11)
	bit26 := bit(10)
	bit25 := bit(9)
	bit24 := bit(8)
	bit23 := bit(7)
	bit22 := bit(6)
	bit21 := bit(5)
	bit20 := bit(4)
	op2 := idx & 0xf // bits[7:4]

	undefined := armEntry{kind: decode.KindUndefined}

	switch {
	case !bit27 && !bit26:
		// data processing / PSR transfer / multiply / multiply long /
		// swap / halfword-and-signed transfer / BX / BLX / CLZ / Q*.
		if !bit25 && op2&0x9 == 0x9 {
			switch {
			case !bit24 && !bit23:
				return armEntry{kind: decode.KindMultiply, handler: execMultiply}
			case !bit24 && bit23:
				return armEntry{kind: decode.KindMultiplyLong, handler: execMultiplyLong}
			case bit24 && !bit23 && !bit20 && op2 == 0x9:
				return armEntry{kind: decode.KindSwap, handler: execSwap}
			default:
				return classifyHalfwordTransfer(bit24, bit22, bit20, op2)
			}
		}

		if !bit25 && !bit20 && bit24 && !bit23 {
			// 0b10xx0 with bit25=0: MRS / MSR / BX / BLX(reg) / CLZ / Q*.
			switch {
			case !bit22 && bit21 && op2 == 0x1:
				return armEntry{kind: decode.KindBranchExchange, handler: execBranchExchange}
			case core == Core9 && bit21 && op2 == 0x3:
				return armEntry{kind: decode.KindBranchExchange, handler: execBranchExchange}
			case core == Core9 && bit22 && op2 == 0x1:
				return armEntry{kind: decode.KindCountLeadingZeros, handler: execCLZ}
			case core == Core9 && op2 == 0x5:
				return armEntry{kind: decode.KindSaturatingArithmetic, handler: execSaturating}
			case op2 == 0x0 || op2&0x9 == 0x8:
				return armEntry{kind: decode.KindPSRTransfer, handler: execPSRTransfer}
			}
			if core != Core9 {
				return undefined
			}
		}

		if bit25 || op2&0x1 == 0 || op2 == 0 {
			// shift-by-immediate or immediate-operand data processing,
			// and (bit25=1) immediate-operand PSR transfer.
			if bit25 && bit24 && !bit23 && !bit20 {
				return armEntry{kind: decode.KindPSRTransfer, handler: execPSRTransfer}
			}
			return armEntry{kind: decode.KindDataProcessing, handler: execDataProcessing}
		}

		// shift-by-register data processing.
		return armEntry{kind: decode.KindDataProcessing, handler: execDataProcessing}

	case !bit27 && bit26 && !bit25:
		// single data transfer, immediate offset.
		return classifySingleTransfer(bit24, bit22 /*unused here*/, bit20)

	case !bit27 && bit26 && bit25:
		if op2&0x1 != 0 {
			return undefined // media/array extension, not present on the NDS.
		}
		return classifySingleTransfer(bit24, bit22, bit20)

	case bit27 && !bit26 && !bit25:
		if bit20 {
			return armEntry{kind: decode.KindBlockTransfer, memory: decode.MemoryLoadMultiple, handler: execBlockTransfer}
		}
		return armEntry{kind: decode.KindBlockTransfer, memory: decode.MemoryStoreMultiple, handler: execBlockTransfer}

	case bit27 && !bit26 && bit25:
		if bit24 {
			return armEntry{kind: decode.KindBranchLink, endOfBlock: true, handler: execBranchLink}
		}
		return armEntry{kind: decode.KindBranch, endOfBlock: true, handler: execBranch}

	case bit27 && bit26 && !bit25:
		// coprocessor data transfer (LDC/STC) - no memory-mapped
		// coprocessor other than CP15 (register-transfer only) exists on
		// this hardware.
		return undefined

	case bit27 && bit26 && bit25:
		if bit24 {
			return armEntry{kind: decode.KindSoftwareInterrupt, endOfBlock: true, handler: execSWI}
		}
		if core != Core9 {
			return undefined
		}
		if op2&0x1 != 0 {
			return armEntry{kind: decode.KindCoprocessorRegisterTransfer, handler: execCoprocessorTransfer}
		}
		return undefined // CDP: no coprocessor on this hardware defines a data operation.
	}

	return undefined
}

func classifyHalfwordTransfer(bit24, bit22, bit20 bool, op2 uint32) armEntry {
	sh := (op2 >> 1) & 0x3
	memory := decode.MemoryStore
	if bit20 {
		memory = decode.MemoryLoad
	}
	_ = bit24
	_ = bit22
	switch sh {
	case 0x1: // unsigned halfword
		return armEntry{kind: decode.KindHalfwordTransfer, memory: memory, handler: execHalfwordTransfer}
	case 0x2: // signed byte (load only)
		return armEntry{kind: decode.KindHalfwordTransfer, memory: decode.MemoryLoad, handler: execHalfwordTransfer}
	case 0x3: // signed halfword (load only)
		return armEntry{kind: decode.KindHalfwordTransfer, memory: decode.MemoryLoad, handler: execHalfwordTransfer}
	}
	return armEntry{kind: decode.KindUndefined}
}

func classifySingleTransfer(bit24, bit22, bit20 bool) armEntry {
	_ = bit24
	memory := decode.MemoryStore
	if bit20 {
		memory = decode.MemoryLoad
	}
	return armEntry{kind: decode.KindSingleTransfer, memory: memory, handler: execSingleTransfer}
}
