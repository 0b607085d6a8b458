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

// Package disasm formats the decode.Info record armcore.CPU leaves behind
// after each Step into a single line of text, in the spirit of the
// teacher's disassembly package but built around Kind classification and
// register masks rather than a full mnemonic table - armcore exposes
// exactly enough (CurrentInstr, LastInfo) for this without the interpreter
// needing to carry its own text formatter.
package disasm

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/ndscore/cpu/armcore"
	"github.com/jetsetilly/ndscore/cpu/decode"
	"github.com/jetsetilly/ndscore/cpu/regfile"
)

// kindNames gives each decode.Kind a short mnemonic-like label. It is not a
// full disassembler - operand encodings (shifter operand, addressing mode)
// are not decoded into text, only which registers and flags the
// instruction touches.
var kindNames = map[decode.Kind]string{
	decode.KindUndefined:                  "UND",
	decode.KindDataProcessing:             "DP",
	decode.KindPSRTransfer:                "MRS/MSR",
	decode.KindMultiply:                   "MUL",
	decode.KindMultiplyLong:               "MULL",
	decode.KindSwap:                       "SWP",
	decode.KindSingleTransfer:             "LDR/STR",
	decode.KindHalfwordTransfer:           "LDRH/STRH",
	decode.KindBlockTransfer:              "LDM/STM",
	decode.KindBranch:                     "B",
	decode.KindBranchExchange:             "BX",
	decode.KindBranchLink:                 "BL",
	decode.KindSoftwareInterrupt:          "SWI",
	decode.KindCoprocessorRegisterTransfer: "MRC/MCR",
	decode.KindCoprocessorDataOperation:   "CDP",
	decode.KindCoprocessorDataTransfer:    "LDC/STC",
	decode.KindCountLeadingZeros:          "CLZ",
	decode.KindSaturatingArithmetic:       "QADD/QSUB",
}

// Line is one formatted disassembly entry: address, raw encoding, and the
// decode.Info-derived summary.
type Line struct {
	Addr  uint32
	Instr uint32
	Thumb bool
	Info  decode.Info
}

// FromCPU captures a Line for the instruction c last executed, reading
// CurrentInstr/LastInfo rather than re-decoding. addr is the PC the
// instruction was fetched from - callers record this themselves before
// calling Step, since by the time Step returns the register file has
// already moved on.
func FromCPU(c *armcore.CPU, addr uint32) Line {
	return Line{
		Addr:  addr,
		Instr: c.CurrentInstr,
		Thumb: regfile.Thumb(c.Regs.CPSR()),
		Info:  c.LastInfo,
	}
}

// Format renders a Line the way "ndscore disasm" prints it: address,
// hex encoding (4 digits for Thumb, 8 for ARM), kind mnemonic, and the
// register masks touched.
func (l Line) Format() string {
	name, ok := kindNames[l.Info.Kind]
	if !ok {
		name = "?"
	}

	var enc string
	if l.Thumb {
		enc = fmt.Sprintf("%04x", uint16(l.Instr))
	} else {
		enc = fmt.Sprintf("%08x", l.Instr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%08x  %s  %-9s", l.Addr, enc, name)
	if l.Info.SrcMask != 0 {
		fmt.Fprintf(&b, " src=%s", regMaskString(l.Info.SrcMask))
	}
	if l.Info.DstMask != 0 {
		fmt.Fprintf(&b, " dst=%s", regMaskString(l.Info.DstMask))
	}
	if l.Info.FlagsWrite != 0 {
		b.WriteString(" flags")
	}
	if l.Info.EndOfBlock {
		b.WriteString(" [eob]")
	}
	return b.String()
}

var registerNames = [16]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
}

func regMaskString(mask uint16) string {
	var regs []string
	for r := 0; r < 16; r++ {
		if mask&decode.RegMask(r) != 0 {
			regs = append(regs, registerNames[r])
		}
	}
	return strings.Join(regs, ",")
}
