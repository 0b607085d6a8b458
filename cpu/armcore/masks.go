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

// infoFor builds the full decode.Info for an ARM instruction: the table
// entry supplies Kind/Memory/EndOfBlock, and this derives the
// instance-specific source/destination register masks and flag
// read/write masks directly from the instruction word, since those depend
// on operand fields the 4096-entry table (indexed only by bits[27:20] and
// [7:4]) does not itself carry.
func (c *CPU) infoFor(e armEntry, instr uint32) decode.Info {
	info := decode.Info{Kind: e.kind, Memory: e.memory, EndOfBlock: e.endOfBlock}

	rn := int(instr>>16) & 0xf
	rd := int(instr>>12) & 0xf
	rs := int(instr>>8) & 0xf
	rm := int(instr) & 0xf
	sBit := instr&(1<<20) != 0
	immOperand := instr&(1<<25) != 0

	switch e.kind {
	case decode.KindDataProcessing:
		info.DstMask = decode.RegMask(rd)
		info.SrcMask = decode.RegMask(rn)
		if !immOperand {
			info.SrcMask |= decode.RegMask(rm)
			if instr&(1<<4) != 0 {
				info.SrcMask |= decode.RegMask(rs)
			}
		}
		if sBit {
			info.FlagsWrite = decode.FlagN | decode.FlagZ | decode.FlagC | decode.FlagV
		}
		if rd == 15 {
			info.EndOfBlock = true
		}

	case decode.KindPSRTransfer:
		if instr&(1<<21) != 0 { // MSR
			if !immOperand {
				info.SrcMask = decode.RegMask(rm)
			}
		} else { // MRS
			info.DstMask = decode.RegMask(rd)
		}

	case decode.KindMultiply:
		info.DstMask = decode.RegMask(rn) // Rd field of MUL/MLA is bits19:16
		info.SrcMask = decode.RegMask(rm) | decode.RegMask(rs)
		if instr&(1<<21) != 0 {
			info.SrcMask |= decode.RegMask(rd) // Rn (accumulate) is bits15:12 in MLA
		}
		if sBit {
			info.FlagsWrite = decode.FlagN | decode.FlagZ
		}

	case decode.KindMultiplyLong:
		rdHi, rdLo := rn, rd
		info.DstMask = decode.RegMask(rdHi) | decode.RegMask(rdLo)
		info.SrcMask = decode.RegMask(rm) | decode.RegMask(rs)
		if sBit {
			info.FlagsWrite = decode.FlagN | decode.FlagZ
		}

	case decode.KindSwap:
		info.DstMask = decode.RegMask(rd)
		info.SrcMask = decode.RegMask(rn) | decode.RegMask(rm)

	case decode.KindSingleTransfer, decode.KindHalfwordTransfer:
		info.SrcMask = decode.RegMask(rn)
		if !immOperand && e.kind == decode.KindSingleTransfer {
			info.SrcMask |= decode.RegMask(rm)
		} else if e.kind == decode.KindHalfwordTransfer && instr&(1<<22) == 0 {
			info.SrcMask |= decode.RegMask(rm)
		}
		if e.memory == decode.MemoryLoad {
			info.DstMask = decode.RegMask(rd)
			if rd == 15 {
				info.EndOfBlock = true
			}
		} else {
			info.SrcMask |= decode.RegMask(rd)
		}
		if instr&(1<<21) != 0 || instr&(1<<24) == 0 { // writeback or post-indexed
			info.DstMask |= decode.RegMask(rn)
		}

	case decode.KindBlockTransfer:
		info.SrcMask = decode.RegMask(rn)
		list := uint16(instr & 0xffff)
		if e.memory == decode.MemoryLoadMultiple {
			info.DstMask = list
			if list&decode.RegMask(15) != 0 {
				info.EndOfBlock = true
			}
		} else {
			info.SrcMask |= list
		}
		if instr&(1<<21) != 0 {
			info.DstMask |= decode.RegMask(rn)
		}

	case decode.KindBranch, decode.KindBranchLink:
		info.EndOfBlock = true
		if e.kind == decode.KindBranchLink {
			info.DstMask = decode.RegMask(14)
		}

	case decode.KindBranchExchange:
		info.EndOfBlock = true
		info.SrcMask = decode.RegMask(rm)
		if instr&(1<<5) != 0 { // BLX(register)
			info.DstMask = decode.RegMask(14)
		}

	case decode.KindSoftwareInterrupt:
		info.EndOfBlock = true

	case decode.KindCoprocessorRegisterTransfer:
		if instr&(1<<20) != 0 { // MRC
			info.DstMask = decode.RegMask(rd)
		} else { // MCR
			info.SrcMask = decode.RegMask(rd)
		}

	case decode.KindCountLeadingZeros:
		info.DstMask = decode.RegMask(rd)
		info.SrcMask = decode.RegMask(rm)

	case decode.KindSaturatingArithmetic:
		info.DstMask = decode.RegMask(rd)
		info.SrcMask = decode.RegMask(rn) | decode.RegMask(rm)
		info.FlagsWrite = decode.FlagV
	}

	return info
}

// infoForThumb is the THUMB equivalent of infoFor. THUMB formats encode
// registers in narrower, format-specific fields so each case extracts its
// own.
func (c *CPU) infoForThumb(e thumbEntry, instr uint16) decode.Info {
	info := decode.Info{Kind: e.kind, Memory: e.memory, EndOfBlock: e.endOfBlock}

	r0 := int(instr) & 0x7
	r3 := int(instr>>3) & 0x7
	r6 := int(instr>>6) & 0x7
	r8 := int(instr>>8) & 0x7

	switch e.kind {
	case decode.KindDataProcessing:
		info.DstMask = decode.RegMask(r0)
		info.SrcMask = decode.RegMask(r0) | decode.RegMask(r3)
		info.FlagsWrite = decode.FlagN | decode.FlagZ | decode.FlagC | decode.FlagV

	case decode.KindSingleTransfer, decode.KindHalfwordTransfer:
		info.SrcMask = decode.RegMask(r3) | decode.RegMask(r6)
		if e.memory == decode.MemoryLoad {
			info.DstMask = decode.RegMask(r0)
		} else {
			info.SrcMask |= decode.RegMask(r0)
		}

	case decode.KindBlockTransfer:
		if e.stackBased {
			info.SrcMask = decode.RegMask(13)
			info.DstMask = decode.RegMask(13)
		} else {
			info.SrcMask = decode.RegMask(r8)
			info.DstMask = decode.RegMask(r8)
		}
		list := uint16(instr & 0xff)
		if e.memory == decode.MemoryLoadMultiple {
			info.DstMask |= list
		} else {
			info.SrcMask |= list
		}
		if e.stackBased && instr&(1<<8) != 0 {
			if e.memory == decode.MemoryLoadMultiple {
				info.DstMask |= decode.RegMask(15)
			} else {
				info.SrcMask |= decode.RegMask(14)
			}
		}

	case decode.KindBranch:
		info.EndOfBlock = true

	case decode.KindBranchLink:
		info.EndOfBlock = true
		info.DstMask = decode.RegMask(14)

	case decode.KindBranchExchange:
		info.EndOfBlock = true
		info.SrcMask = decode.RegMask(r3)

	case decode.KindSoftwareInterrupt:
		info.EndOfBlock = true
	}

	return info
}
