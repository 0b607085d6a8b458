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

// Package armcore implements the interpreter shared by the ARMv5TE (ARM9)
// and ARMv4T (ARM7) cores. The two instruction sets and their exception
// models are close enough that the bulk of fetch/decode/execute is common;
// what differs - whether v5-only opcodes decode to something other than
// undefined, and whether CP15 is present at all - is carried by the Core
// field and the presence or absence of CP15.
package armcore

import (
	"github.com/jetsetilly/ndscore/cpu/decode"
	"github.com/jetsetilly/ndscore/cpu/regfile"
	"github.com/jetsetilly/ndscore/memory/cp15"
	"github.com/jetsetilly/ndscore/memory/pipeline"
)

// Core identifies which instruction set and CP15 availability a CPU
// instance models. ARMv5-only opcodes (BLX, CLZ, QADD family, coprocessor
// access to CP15) decode to undefined on Core7.
type Core int

const (
	Core9 Core = 9
	Core7 Core = 7
)

// CPU is one ARM core: register file, memory pipeline, and (ARM9 only)
// CP15. arm9.CPU and arm7.CPU are thin constructors around this type.
type CPU struct {
	Regs regfile.RegisterFile

	core Core
	mem  *pipeline.Pipeline
	cp15 *cp15.CP15 // nil on the ARM7

	// CurrentInstr is the instruction word last fetched and dispatched;
	// exposed for disassembly and for handlers that need to re-derive
	// operand fields the Kind-level dispatch doesn't carry separately.
	CurrentInstr uint32

	// LastInfo is the decode.Info of the instruction last executed, mainly
	// useful to tests and to a JIT frontend deciding block boundaries.
	LastInfo decode.Info
}

// New returns a CPU for the given core. cp15State is nil for the ARM7.
func New(core Core, mem *pipeline.Pipeline, cp15State *cp15.CP15) *CPU {
	return &CPU{core: core, mem: mem, cp15: cp15State}
}

// Reset puts the register file into its post-reset state and branches to
// the reset vector.
func (c *CPU) Reset() {
	c.Regs.Reset()
	vector := c.vectorBase()
	c.Regs.WritePC(vector)
}

func (c *CPU) vectorBase() uint32 {
	if c.cp15 != nil {
		return c.cp15.VectorBase()
	}
	return 0
}

func (c *CPU) halted() bool {
	return c.cp15 != nil && c.cp15.Halted()
}

// Step advances the CPU by one instruction, or by nothing if halted and no
// interrupt is pending. irqPending is sampled once per step, matching the
// one-instruction IRQ latency documented for the dispatch loop: an IRQ
// asserted during an instruction is taken after that instruction
// completes, never mid-instruction.
func (c *CPU) Step(irqPending bool) error {
	if c.halted() {
		if !irqPending {
			return nil
		}
		c.cp15.Resume()
	}

	if irqPending && !regfile.IRQDisable(c.Regs.CPSR()) {
		c.raiseIRQ()
		return nil
	}

	thumb := regfile.Thumb(c.Regs.CPSR())
	pc := c.Regs.RawPC()
	c.Regs.SetExecuting(pc, thumb)

	width := 4
	if thumb {
		width = 2
	}

	instr, err := c.mem.CodeFetch(pc, width)
	if err != nil {
		c.raisePrefetchAbort(pc + uint32(width))
		return nil
	}
	c.Regs.WritePC(pc + uint32(width))
	c.CurrentInstr = instr

	if thumb {
		return c.stepThumb(uint16(instr))
	}
	return c.stepARM(instr)
}

func (c *CPU) stepARM(instr uint32) error {
	cond := uint8(instr >> 28)
	entry := lookupARM(instr, c.core)

	if cond == 0xf {
		// condition field 0xF is reserved on ARMv4T; on ARMv5TE the
		// bits[27:25]=101 (branch/branch-link) pattern is reinterpreted as
		// BLX(immediate), everything else stays reserved/undefined.
		if c.core == Core9 && (entry.kind == decode.KindBranchLink || entry.kind == decode.KindBranch) {
			c.LastInfo = c.infoFor(entry, instr)
			execBLXImmediate(c, instr)
			return nil
		}
		c.raiseUndefined()
		return nil
	}

	if !regfile.Condition(c.Regs.CPSR(), cond) {
		// condition failed: only the fetch cost (already charged by
		// CodeFetch) is consumed.
		return nil
	}

	info := c.infoFor(entry, instr)
	c.LastInfo = info

	if entry.kind == decode.KindUndefined {
		c.raiseUndefined()
		return nil
	}

	entry.handler(c, instr)
	return nil
}

func (c *CPU) stepThumb(instr uint16) error {
	entry := lookupThumb(instr)
	info := c.infoForThumb(entry, instr)
	c.LastInfo = info

	if entry.kind == decode.KindBranch && entry.isBcond {
		cond := uint8((instr >> 8) & 0xf)
		if cond == 0xf {
			// SWI in THUMB format 17 shares the Bcond byte layout with
			// cond nibble 1111.
			execSWIThumb(c, instr)
			return nil
		}
		if !regfile.Condition(c.Regs.CPSR(), cond) {
			return nil
		}
	}

	if entry.kind == decode.KindUndefined {
		c.raiseUndefined()
		return nil
	}

	entry.handler(c, instr)
	return nil
}

// addCyclesInternal advances the core's arbiter timestamp by n cycles with
// no associated bus transaction - the C3 dispatch contract's
// addCycles_CI/addCycles_CDI internal-cycle component, used by
// multi-cycle multiply, shifted-by-register operands, and PC-writing
// data-processing instructions (the extra internal cycle for pipeline
// refill is charged by the branch helper itself via code fetches).
func (c *CPU) addCyclesInternal(n int) {
	if n <= 0 {
		return
	}
	c.mem.SetNow(c.mem.Now() + uint64(n))
}

// writeR15 implements the side effects of a general-purpose write to R15:
// PC is updated, the pipeline conceptually flushed (the next Step's fetch
// picks up the new PC), and - for data-processing instructions with the S
// bit set in a mode with a valid SPSR - CPSR is restored from SPSR,
// implementing exception return.
func (c *CPU) writeR15(v uint32, sBit bool) {
	thumb := regfile.Thumb(c.Regs.CPSR())
	if sBit {
		if spsr, ok := c.Regs.SPSR(); ok {
			oldCPSR := c.Regs.CPSR()
			c.Regs.SetCPSR(spsr)
			c.Regs.UpdateMode(oldCPSR, spsr)
			thumb = regfile.Thumb(spsr)
		}
	}
	if thumb {
		v &^= 1
	} else {
		v &^= 3
	}
	c.Regs.WritePC(v)
}

func (c *CPU) raiseUndefined() {
	retAddr := c.Regs.RawPC()
	vector := c.raiseVia(func(base uint32) uint32 {
		return c.Regs.TriggerUndefined(base, retAddr)
	})
	c.Regs.WritePC(vector)
}

func (c *CPU) raisePrefetchAbort(retAddr uint32) {
	vector := c.raiseVia(func(base uint32) uint32 {
		return c.Regs.TriggerPrefetchAbort(base, retAddr)
	})
	c.Regs.WritePC(vector)
}

// RaiseDataAbort is called by load/store handlers when the memory pipeline
// reports a data abort; the faulting instruction's destination register is
// left unwritten by the caller before this is invoked.
func (c *CPU) RaiseDataAbort(retAddr uint32) {
	vector := c.raiseVia(func(base uint32) uint32 {
		return c.Regs.TriggerDataAbort(base, retAddr)
	})
	c.Regs.WritePC(vector)
}

func (c *CPU) raiseSWI(retAddr uint32) {
	vector := c.raiseVia(func(base uint32) uint32 {
		return c.Regs.TriggerSWI(base, retAddr)
	})
	c.Regs.WritePC(vector)
}

func (c *CPU) raiseIRQ() {
	retAddr := c.Regs.RawPC()
	vector := c.raiseVia(func(base uint32) uint32 {
		return c.Regs.TriggerIRQ(base, retAddr)
	})
	c.Regs.WritePC(vector)
}

func (c *CPU) raiseVia(trigger func(base uint32) uint32) uint32 {
	return trigger(c.vectorBase())
}
