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

package regfile

// vector offsets, relative to the vector base CP15 selects (0x00000000 or
// 0xFFFF0000).
const (
	VectorReset          = 0x00
	VectorUndefined      = 0x04
	VectorSWI            = 0x08
	VectorPrefetchAbort  = 0x0c
	VectorDataAbort      = 0x10
	VectorIRQ            = 0x18
	VectorFIQ            = 0x1c
)

// raise performs the common part of every exception entry: save CPSR to the
// new mode's SPSR, switch mode (swapping banks), set the interrupt-disable
// bits appropriate to the exception, clear T (always enter in ARM state),
// and return the vector address to branch to. The caller supplies the
// return address to store in R14 of the new mode, since it differs by
// exception type and by whether the core was in THUMB state.
func (rf *RegisterFile) raise(mode Mode, vectorBase uint32, vectorOffset uint32, returnAddr uint32, maskFIQ bool) uint32 {
	oldCPSR := rf.cpsr

	newCPSR := SetMode(oldCPSR, mode)
	newCPSR = SetIRQDisable(newCPSR, true)
	if maskFIQ {
		newCPSR = SetFIQDisable(newCPSR, true)
	}
	newCPSR = SetThumb(newCPSR, false)

	rf.cpsr = newCPSR
	rf.UpdateMode(oldCPSR, newCPSR)

	// the SPSR of the newly entered mode receives the CPSR as it was before
	// entry, banks having just been switched in by UpdateMode.
	rf.SetSPSR(oldCPSR)
	rf.r[14] = returnAddr

	return vectorBase + vectorOffset
}

// TriggerReset enters SVC mode at the reset vector, masking both IRQ and
// FIQ.
func (rf *RegisterFile) TriggerReset(vectorBase uint32) uint32 {
	return rf.raise(ModeSVC, vectorBase, VectorReset, 0, true)
}

// TriggerUndefined enters UND mode. retAddr is the address of the
// instruction after the undefined one (PC+4 ARM, PC+2 THUMB).
func (rf *RegisterFile) TriggerUndefined(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeUND, vectorBase, VectorUndefined, retAddr, false)
}

// TriggerSWI enters SVC mode for a software interrupt.
func (rf *RegisterFile) TriggerSWI(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeSVC, vectorBase, VectorSWI, retAddr, false)
}

// TriggerPrefetchAbort enters ABT mode for a code fetch from an
// inaccessible region.
func (rf *RegisterFile) TriggerPrefetchAbort(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeABT, vectorBase, VectorPrefetchAbort, retAddr, false)
}

// TriggerDataAbort enters ABT mode for a data access to an inaccessible or
// unmapped region.
func (rf *RegisterFile) TriggerDataAbort(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeABT, vectorBase, VectorDataAbort, retAddr, false)
}

// TriggerIRQ enters IRQ mode. Only FIQ is additionally masked for FIQ
// entry, never for IRQ (IRQ entry masks I only; reset and FIQ entry mask
// both I and F).
func (rf *RegisterFile) TriggerIRQ(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeIRQ, vectorBase, VectorIRQ, retAddr, false)
}

// TriggerFIQ enters FIQ mode, masking both IRQ and FIQ.
func (rf *RegisterFile) TriggerFIQ(vectorBase uint32, retAddr uint32) uint32 {
	return rf.raise(ModeFIQ, vectorBase, VectorFIQ, retAddr, true)
}
