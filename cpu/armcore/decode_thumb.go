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

type thumbHandler func(c *CPU, instr uint16)

// thumbEntry mirrors armEntry for the THUMB table. isBcond additionally
// flags format-16 conditional branch encodings, since cond lives inside
// the opcode rather than above it as in ARM mode, and cond==0xF within
// that format is SWI rather than an unconditional branch.
type thumbEntry struct {
	kind       decode.Kind
	memory     decode.MemoryKind
	endOfBlock bool
	isBcond    bool
	stackBased bool // push/pop (format 14): base is always SP, not the Rb field
	handler    thumbHandler
}

// thumbTable is built once at init, indexed by bits[15:6] of the
// instruction (1024 entries), matching THUMB's format-number encoding in
// its top bits.
var thumbTable [1024]thumbEntry

func init() {
	for idx := 0; idx < 1024; idx++ {
		thumbTable[idx] = classifyThumb(uint16(idx))
	}
}

func lookupThumb(instr uint16) thumbEntry {
	return thumbTable[(instr>>6)&0x3ff]
}

// classifyThumb derives the THUMB opcode family from bits[15:6]. THUMB's
// nineteen formats are distinguished by their high bits in exactly this
// way in every ARM technical reference manual's format table.
func classifyThumb(idx uint16) thumbEntry {
	bit := func(n uint) bool { return idx&(1<<n) != 0 }

	// idx holds bits[15:6] of the instruction in its low ten bits, so
	// instruction bit k (6<=k<=15) is idx bit (k-6).
	b15, b14, b13 := bit(9), bit(8), bit(7)
	b12, b11, b10 := bit(6), bit(5), bit(4)
	b9, b8 := bit(3), bit(2)

	switch {
	case !b15 && !b14 && !b13:
		if b12 && b11 {
			// format 2: add/subtract.
			return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbAddSub}
		}
		// format 1: move shifted register.
		return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbShifted}

	case !b15 && !b14 && b13:
		// format 3: move/compare/add/subtract immediate.
		return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbImmediate}

	case !b15 && b14 && !b13:
		if !b12 {
			return thumbEntry{kind: decode.KindUndefined}
		}
		if b11 {
			// format 5: Hi register operations / BX / BLX(register).
			if b10 && b9 {
				return thumbEntry{kind: decode.KindBranchExchange, endOfBlock: true, handler: execThumbBX}
			}
			return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbHiReg}
		}
		if b10 {
			// format 4: ALU operations.
			return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbALU}
		}
		// format 6: PC-relative load.
		return thumbEntry{kind: decode.KindSingleTransfer, memory: decode.MemoryLoad, handler: execThumbPCRelLoad}

	case !b15 && b14 && b13:
		if !b12 {
			// format 7: load/store with register offset.
			return classifyThumbRegOffset(b10, b9)
		}
		// format 8: load/store sign-extended byte/halfword.
		return classifyThumbSignExtended(b10, b9)

	case b15 && !b14 && !b13:
		// format 9: load/store with immediate offset.
		return classifyThumbImmOffset(b12, b11)

	case b15 && !b14 && b13:
		if !b12 {
			// format 10: load/store halfword.
			memory := decode.MemoryStore
			if b11 {
				memory = decode.MemoryLoad
			}
			return thumbEntry{kind: decode.KindHalfwordTransfer, memory: memory, handler: execThumbHalfword}
		}
		// format 11: SP-relative load/store.
		memory := decode.MemoryStore
		if b11 {
			memory = decode.MemoryLoad
		}
		return thumbEntry{kind: decode.KindSingleTransfer, memory: memory, handler: execThumbSPRelative}

	case b15 && b14 && !b13:
		if !b12 {
			// format 12: load address.
			return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbLoadAddress}
		}
		if !b11 && (idx&0x30) == 0 {
			// format 13: add offset to stack pointer.
			return thumbEntry{kind: decode.KindDataProcessing, handler: execThumbAddSP}
		}
		if b9 {
			// format 14: push/pop registers.
			memory := decode.MemoryStoreMultiple
			if b11 {
				memory = decode.MemoryLoadMultiple
			}
			return thumbEntry{kind: decode.KindBlockTransfer, memory: memory, endOfBlock: b11, stackBased: true, handler: execThumbPushPop}
		}
		return thumbEntry{kind: decode.KindUndefined}

	case b15 && b14 && b13:
		if !b12 {
			// format 15: multiple load/store.
			memory := decode.MemoryStoreMultiple
			if b11 {
				memory = decode.MemoryLoadMultiple
			}
			return thumbEntry{kind: decode.KindBlockTransfer, memory: memory, handler: execThumbMultiple}
		}
		if !b11 {
			if b9 && b8 {
				// format 17: software interrupt, or format 16 cond==1111.
				return thumbEntry{kind: decode.KindBranch, endOfBlock: true, isBcond: true, handler: execThumbBcond}
			}
			// format 16: conditional branch.
			return thumbEntry{kind: decode.KindBranch, endOfBlock: true, isBcond: true, handler: execThumbBcond}
		}
		if !b9 {
			// format 18: unconditional branch.
			return thumbEntry{kind: decode.KindBranch, endOfBlock: true, handler: execThumbBUncond}
		}
		// format 19: long branch with link (BL, two halves).
		return thumbEntry{kind: decode.KindBranchLink, endOfBlock: true, handler: execThumbBL}
	}

	return thumbEntry{kind: decode.KindUndefined}
}

func classifyThumbRegOffset(b10, b9 bool) thumbEntry {
	memory := decode.MemoryStore
	if b9 {
		memory = decode.MemoryLoad
	}
	_ = b10
	return thumbEntry{kind: decode.KindSingleTransfer, memory: memory, handler: execThumbRegOffset}
}

func classifyThumbSignExtended(b11, b10 bool) thumbEntry {
	memory := decode.MemoryLoad
	if !b11 && !b10 {
		memory = decode.MemoryStore // STRH
	}
	return thumbEntry{kind: decode.KindHalfwordTransfer, memory: memory, handler: execThumbSignExtended}
}

func classifyThumbImmOffset(b12, b11 bool) thumbEntry {
	memory := decode.MemoryStore
	if b11 {
		memory = decode.MemoryLoad
	}
	kind := decode.KindSingleTransfer
	_ = b12
	return thumbEntry{kind: kind, memory: memory, handler: execThumbImmOffset}
}
