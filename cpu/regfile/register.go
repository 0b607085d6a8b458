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

// Package regfile implements the sixteen general registers, CPSR, and the
// six banked register sets shared by the ARM9 and ARM7 cores. The register
// file and mode-transition behaviour is architecturally identical between
// the two; only the decode tables and instruction semantics differ.
package regfile

// bank indices into the bankedR13R14 / spsr arrays. USR and SYS share the
// same (non-banked) registers and have no SPSR, so they are not indexed
// here.
const (
	bankFIQ = iota
	bankSVC
	bankABT
	bankIRQ
	bankUND
	bankCount
)

func bankOf(m Mode) (idx int, ok bool) {
	switch m {
	case ModeFIQ:
		return bankFIQ, true
	case ModeSVC:
		return bankSVC, true
	case ModeABT:
		return bankABT, true
	case ModeIRQ:
		return bankIRQ, true
	case ModeUND:
		return bankUND, true
	default:
		return 0, false
	}
}

// RegisterFile is the ARM register file: sixteen general registers (the
// "visible" set, indexed as the currently active mode sees them), CPSR, and
// the shadow banks for FIQ/SVC/ABT/IRQ/UND mode R13/R14 (plus FIQ's R8-R12)
// and their saved program status registers.
type RegisterFile struct {
	r    [16]uint32
	cpsr uint32

	// fiqR8_12 holds the User-mode values of R8-R12 while FIQ mode is
	// active (FIQ banks all of R8-R14, not just R13/R14 like the other
	// exception modes).
	fiqR8_12      [5]uint32
	usrR8_12Saved [5]uint32
	usrR13R14     [2]uint32

	bankedR13R14 [bankCount][2]uint32
	spsr         [bankCount]uint32

	// executingPC/thumbFetch record the PC of the instruction currently
	// being decoded, so that Read(15) can implement the pipeline-offset
	// behaviour without the caller having to pass it in every time.
	executingPC uint32
	thumbFetch  bool
}

// Reset puts the register file into the state the hardware has after a
// cold reset: SVC mode, IRQs and FIQs masked, ARM state.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
	rf.cpsr = uint32(ModeSVC)
	rf.cpsr = SetIRQDisable(rf.cpsr, true)
	rf.cpsr = SetFIQDisable(rf.cpsr, true)
}

// CPSR returns the current program status register.
func (rf *RegisterFile) CPSR() uint32 { return rf.cpsr }

// SetExecuting records the PC of the instruction about to be decoded and
// whether it was fetched as THUMB, for the purposes of Read(15)'s
// pipeline-offset behaviour.
func (rf *RegisterFile) SetExecuting(pc uint32, thumb bool) {
	rf.executingPC = pc
	rf.thumbFetch = thumb
}

// Read returns the value of general register r as the currently executing
// instruction would see it. Reading R15 returns the pipeline-advanced
// value (executing PC + 8 for ARM, +4 for THUMB) rather than the raw stored
// value.
func (rf *RegisterFile) Read(r int) uint32 {
	if r == 15 {
		if rf.thumbFetch {
			return rf.executingPC + 4
		}
		return rf.executingPC + 8
	}
	return rf.r[r]
}

// RawPC returns the raw stored value of R15 (once the dispatch loop has
// fetched an instruction, the address of the one after it), without the Read(15) pipeline
// offset. Used by the dispatch loop itself to drive instruction fetch.
func (rf *RegisterFile) RawPC() uint32 { return rf.r[15] }

// WritePC sets the raw R15 value directly. Used by the dispatch loop after
// a fetch, and distinguished from Write(15, ...) which additionally models
// the branch/pipeline-flush side effects a *data-processing instruction's*
// write to R15 has.
func (rf *RegisterFile) WritePC(v uint32) { rf.r[15] = v }

// Write stores v into general register r. Writing registers other than R15
// has no side effect; the pipeline-flush and exception-return behaviour of
// writing R15 is handled by the caller (cpu/armcore) since it differs
// by instruction class and is intertwined with cycle accounting that the
// register file itself has no business knowing about.
func (rf *RegisterFile) Write(r int, v uint32) {
	rf.r[r] = v
}

// SetCPSR overwrites CPSR directly, without going through UpdateMode. Used
// for MSR and for CPSR restoration on exception return, both of which are
// responsible for calling UpdateMode themselves if the mode field changed.
func (rf *RegisterFile) SetCPSR(v uint32) { rf.cpsr = v }

// SPSR returns the saved program status register for the current mode, and
// false if the current mode has no SPSR (User or System).
func (rf *RegisterFile) SPSR() (uint32, bool) {
	idx, ok := bankOf(ModeOf(rf.cpsr))
	if !ok {
		return 0, false
	}
	return rf.spsr[idx], true
}

// SetSPSR writes the saved program status register for the current mode.
// It is a no-op in User/System mode.
func (rf *RegisterFile) SetSPSR(v uint32) {
	if idx, ok := bankOf(ModeOf(rf.cpsr)); ok {
		rf.spsr[idx] = v
	}
}

// UpdateMode swaps the banked registers between the bank implied by oldCpsr
// and the bank implied by newCpsr. It is a no-op when both CPSRs select the
// same bank (User and System share a bank, so switching between them is
// always a no-op). The mode field of rf.cpsr must already equal the mode
// encoded in newCpsr when this is called; UpdateMode only moves register
// contents, it does not itself write CPSR.
func (rf *RegisterFile) UpdateMode(oldCpsr, newCpsr uint32) {
	oldMode := ModeOf(oldCpsr)
	newMode := ModeOf(newCpsr)

	oldIsFIQ := oldMode == ModeFIQ
	newIsFIQ := newMode == ModeFIQ

	if oldIsFIQ == newIsFIQ && bankEquivalent(oldMode, newMode) {
		return
	}

	// save R8-R12: either back into the FIQ bank (if we were in FIQ mode)
	// or back into the shared User bank (otherwise).
	if oldIsFIQ {
		copy(rf.fiqR8_12[:], rf.r[8:13])
	} else {
		copy(rf.usrR8_12Saved[:], rf.r[8:13])
	}

	// save R13-R14 into the outgoing mode's bank, unless it was User/System
	// (which has no private R13/R14 bank separate from the visible set -
	// it *is* the visible set when no other bank is swapped in).
	if idx, ok := bankOf(oldMode); ok {
		rf.bankedR13R14[idx][0] = rf.r[13]
		rf.bankedR13R14[idx][1] = rf.r[14]
	} else {
		rf.usrR13R14[0], rf.usrR13R14[1] = rf.r[13], rf.r[14]
	}

	// restore R8-R12 for the incoming mode.
	if newIsFIQ {
		copy(rf.r[8:13], rf.fiqR8_12[:])
	} else {
		copy(rf.r[8:13], rf.usrR8_12Saved[:5])
	}

	// restore R13-R14 for the incoming mode.
	if idx, ok := bankOf(newMode); ok {
		rf.r[13] = rf.bankedR13R14[idx][0]
		rf.r[14] = rf.bankedR13R14[idx][1]
	} else {
		rf.r[13], rf.r[14] = rf.usrR13R14[0], rf.usrR13R14[1]
	}
}

// bankEquivalent reports whether a and b select the same register bank:
// User and System are the only pair that do.
func bankEquivalent(a, b Mode) bool {
	if a == b {
		return true
	}
	usrOrSys := func(m Mode) bool { return m == ModeUSR || m == ModeSYS }
	return usrOrSys(a) && usrOrSys(b)
}
