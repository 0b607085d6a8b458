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

// Package decode holds the instruction info-record shape the decoder
// tables produce for every opcode. It is deliberately free of any
// dependency on the interpreter or the memory pipeline: a recompiling
// backend consumes exactly this record and nothing else to decide how to
// recompile a block, without needing to know how the interpreter itself
// executes the opcode.
package decode

// Kind tags the instruction family an opcode decodes to. The interpreter
// switches on Kind only for cycle-accounting and disassembly purposes; the
// actual semantics live in the handler function the decode table pairs with
// each Info.
type Kind uint8

// recognised instruction families.
const (
	KindUndefined Kind = iota
	KindDataProcessing
	KindPSRTransfer
	KindMultiply
	KindMultiplyLong
	KindSwap
	KindSingleTransfer
	KindHalfwordTransfer
	KindBlockTransfer
	KindBranch
	KindBranchExchange
	KindBranchLink
	KindSoftwareInterrupt
	KindCoprocessorRegisterTransfer
	KindCoprocessorDataOperation
	KindCoprocessorDataTransfer
	KindCountLeadingZeros
	KindSaturatingArithmetic
)

// MemoryKind classifies the memory side effect of an instruction - needed
// by the JIT for literal pooling (PC-relative loads) and by the
// bus-contention model to know whether an access is a read, a write, or a
// multi-register burst.
type MemoryKind uint8

// recognised memory classifications.
const (
	MemoryNone MemoryKind = iota
	MemoryLoad
	MemoryStore
	MemoryLoadMultiple
	MemoryStoreMultiple
	MemoryPCRelativeLiteral
)

// condition-flag bit positions, matching regfile's CPSR layout (N=bit3 here
// since these masks are 4-bit, not the CPSR's bit 31).
const (
	FlagN uint8 = 1 << 3
	FlagZ uint8 = 1 << 2
	FlagC uint8 = 1 << 1
	FlagV uint8 = 1 << 0
)

// Info is the static information record for one decoded opcode: the family
// it belongs to, which registers it reads/writes, which condition flags it
// reads/writes, whether it ends a basic block (for the JIT), and its memory
// classification.
type Info struct {
	Kind       Kind
	SrcMask    uint16
	DstMask    uint16
	FlagsRead  uint8
	FlagsWrite uint8
	EndOfBlock bool
	Memory     MemoryKind
}

// RegMask returns a bitmask with bit r set.
func RegMask(r int) uint16 {
	return 1 << uint(r)
}
