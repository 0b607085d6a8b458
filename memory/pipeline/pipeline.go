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

// Package pipeline sequences code fetches and data accesses against ITCM,
// DTCM, the CP15 caches, the write buffer, and the external bus, charging
// the cycle cost of each stage through the bus arbiter. cpu/armcore, the
// interpreter both cores share, is its caller; it has no notion of instruction
// semantics, only of what an access costs and what data it returns.
package pipeline

import (
	"github.com/jetsetilly/ndscore/assert"
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
	"github.com/jetsetilly/ndscore/memory/arbiter"
	"github.com/jetsetilly/ndscore/memory/cp15"
	"github.com/jetsetilly/ndscore/memory/writebuffer"
)

// Bus is the raw device backing one address region: main RAM, shared WRAM,
// VRAM, cartridge space, or BIOS. The pipeline calls it only after
// permission and cache handling have already decided the access is
// satisfied by the external bus rather than by a TCM or a cache hit.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// Regions maps an address to the arbiter region it belongs to and the
// bus-cycle cost table for that region, so the pipeline and the arbiter
// never need their own copy of the NDS memory map.
type Regions interface {
	Classify(addr uint32) (arbiter.Region, Bus)
	Cost(region arbiter.Region, width int, sequential bool) uint32
}

// Pipeline is one core's memory pipeline. cp15 is nil for the ARM7, which
// has no MPU, no caches, and no TCMs; all accesses on that core fall
// straight through to the bus.
type Pipeline struct {
	arb     *arbiter.Arbiter
	core    arbiter.Core
	regions Regions
	cp15    *cp15.CP15
	wb      *writebuffer.Buffer

	itcm []byte
	dtcm []byte

	now uint64

	owner assert.GoroutineOwner
}

// New returns a pipeline for the given core, sharing arb and wb with the
// rest of the system. cp15State is nil for the ARM7.
func New(core arbiter.Core, arb *arbiter.Arbiter, regions Regions, cp15State *cp15.CP15, wb *writebuffer.Buffer, itcmSize, dtcmSize uint32) *Pipeline {
	return &Pipeline{
		arb:     arb,
		core:    core,
		regions: regions,
		cp15:    cp15State,
		wb:      wb,
		itcm:    make([]byte, itcmSize),
		dtcm:    make([]byte, dtcmSize),
		owner:   assert.NewGoroutineOwner(),
	}
}

// Now returns the pipeline's view of its core's current timestamp.
func (p *Pipeline) Now() uint64 { return p.arb.Now(p.core) }

// SetNow forces the core's timestamp, used by the CPU to charge internal
// cycles that involve no bus transaction.
func (p *Pipeline) SetNow(t uint64) { p.arb.SetNow(p.core, t) }

// CleanCacheLine writes a dirty cache line's words back to the bus. It has
// the shape of cp15.CleanFunc and is passed to CP15.Write by the
// coprocessor-transfer handler for the cache-clean maintenance operations.
func (p *Pipeline) CleanCacheLine(addr uint32, words []uint32) {
	region, bus := p.regions.Classify(addr)
	for i, w := range words {
		p.busWrite(bus, addr+uint32(i*4), w, 4)
	}
	cost := p.regions.Cost(region, 4, false)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost * uint32(len(words)), Seq: cost}, false)
	p.arb.SetNow(p.core, end)
}

// DrainWriteBuffer retires one entry from the write buffer, reporting
// whether the buffer is now empty. CP15's drain-write-buffer operation calls this
// in a loop until the buffer is empty.
func (p *Pipeline) DrainWriteBuffer() bool {
	if p.wb.Empty() {
		return true
	}
	drained, t := p.wb.Drain(p.arb, p.core, p.arb.Now(p.core), wbCosts, p.commitWrite)
	if drained {
		p.arb.SetNow(p.core, t)
	}
	return p.wb.Empty()
}

func (p *Pipeline) drainPending() {
	costs := wbCosts
	for !p.wb.Empty() {
		drained, t := p.wb.Drain(p.arb, p.core, p.arb.Now(p.core), costs, p.commitWrite)
		if !drained {
			break
		}
		p.arb.SetNow(p.core, t)
	}
}

// commitWrite performs the actual bus write for one entry retired from
// the write buffer. It is the Commit callback the buffer itself has no
// business knowing about.
func (p *Pipeline) commitWrite(addr uint32, data uint32, kind writebuffer.EntryKind) {
	_, bus := p.regions.Classify(addr)
	switch kind {
	case writebuffer.EntryByte:
		bus.Write8(addr, uint8(data))
	case writebuffer.EntryHalfword:
		bus.Write16(addr, uint16(data))
	default:
		bus.Write32(addr, data)
	}
}

var wbCosts = map[writebuffer.EntryKind]arbiter.Cost{
	writebuffer.EntryByte:     {NonSeq: 1, Seq: 1},
	writebuffer.EntryHalfword: {NonSeq: 1, Seq: 1},
	writebuffer.EntryWord:     {NonSeq: 1, Seq: 1},
	writebuffer.EntryWordSeq:  {NonSeq: 1, Seq: 1},
}

// CodeFetch fetches one instruction word (4 bytes for ARM, 2 for THUMB) at
// pc. width must be 2 or 4.
func (p *Pipeline) CodeFetch(pc uint32, width int) (uint32, error) {
	p.owner.Check()

	if p.cp15 != nil && p.cp15.ITCMCovers(pc) {
		return p.readTCM(p.itcm, pc-p.itcmBase(), width), nil
	}

	if p.cp15 != nil {
		perm := p.cp15.Lookup(pc)
		if perm&cp15.PermCodeRead == 0 {
			logger.Logf("pipeline", "prefetch abort @ %#08x", pc)
			return 0, errors.Errorf(errors.PrefetchAbort, pc)
		}
		if perm&cp15.PermCacheable != 0 && p.cp15.Control.ICacheEnable {
			if v, ok := p.codeFetchCached(pc, width); ok {
				return v, nil
			}
		}
	}

	region, bus := p.regions.Classify(pc)
	cost := p.regions.Cost(region, width, false)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost, Seq: cost}, false)
	p.arb.SetNow(p.core, end)

	if width == 2 {
		return uint32(bus.Read16(pc)), nil
	}
	return bus.Read32(pc), nil
}

func (p *Pipeline) codeFetchCached(pc uint32, width int) (uint32, bool) {
	if _, line, hit := p.cp15.ICache.Lookup(pc); hit {
		return p.readLine(line, pc, width), true
	}

	region, bus := p.regions.Classify(pc)
	var words [8]uint32
	base := pc &^ 0x1f
	for i := range words {
		words[i] = bus.Read32(base + uint32(i*4))
	}
	cost := p.regions.Cost(region, 4, false)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost * 8, Seq: cost}, false)
	p.arb.SetNow(p.core, end)

	line := p.cp15.Fill(&p.cp15.ICache, pc, words, nil)
	logger.Logf("pipeline", "icache fill @ %#08x", pc&^0x1f)
	return p.readLine(line, pc, width), true
}

func (p *Pipeline) readLine(line *cp15.Line, addr uint32, width int) uint32 {
	off := (addr & 0x1f) / 4
	w := line.Words[off]
	if width == 2 {
		if addr&2 != 0 {
			return w >> 16
		}
		return w & 0xffff
	}
	return w
}

// DataRead8/16/32 perform one data read of the given width, returning the
// value and whether the access succeeded (false on a data abort).
func (p *Pipeline) DataRead32(addr uint32) (uint32, error) { return p.dataRead(addr, 4, false) }
func (p *Pipeline) DataRead16(addr uint32) (uint16, error) {
	v, err := p.dataRead(addr, 2, false)
	return uint16(v), err
}
func (p *Pipeline) DataRead8(addr uint32) (uint8, error) {
	v, err := p.dataRead(addr, 1, false)
	return uint8(v), err
}

// DataRead32Seq performs a sequential-burst 32-bit read, used by block
// transfers after the first (non-sequential) word.
func (p *Pipeline) DataRead32Seq(addr uint32) (uint32, error) { return p.dataRead(addr, 4, true) }

func (p *Pipeline) dataRead(addr uint32, width int, sequential bool) (uint32, error) {
	p.owner.Check()
	p.drainPending()

	if p.cp15 != nil && p.cp15.DTCMCovers(addr) {
		return p.readTCM(p.dtcm, addr-p.dtcmBase(), width), nil
	}

	var perm cp15.Permission
	if p.cp15 != nil {
		perm = p.cp15.Lookup(addr)
		if perm&cp15.PermDataRead == 0 {
			logger.Logf("pipeline", "data abort (read) @ %#08x", addr)
			return 0, errors.Errorf(errors.DataAbort, addr)
		}
	} else {
		perm = cp15.PermDataRead | cp15.PermDataWrite | cp15.PermCacheable | cp15.PermBufferable
	}

	if perm&cp15.PermCacheable != 0 && p.cp15 != nil && p.cp15.Control.DCacheEnable {
		if _, line, hit := p.cp15.DCache.Lookup(addr); hit {
			return p.readLine(line, addr, width), nil
		}
		return p.dataReadFill(addr, width)
	}

	if perm&cp15.PermBufferable == 0 {
		p.wb.DrainAll(p.arb, p.core, p.arb.Now(p.core), wbCosts, p.commitWrite)
	}

	region, bus := p.regions.Classify(addr)
	cost := p.regions.Cost(region, width, sequential)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost, Seq: cost}, sequential)
	p.arb.SetNow(p.core, end)

	switch width {
	case 1:
		return uint32(bus.Read8(addr)), nil
	case 2:
		return uint32(bus.Read16(addr)), nil
	default:
		return bus.Read32(addr), nil
	}
}

func (p *Pipeline) dataReadFill(addr uint32, width int) (uint32, error) {
	region, bus := p.regions.Classify(addr)

	var words [8]uint32
	base := addr &^ 0x1f
	for i := range words {
		words[i] = bus.Read32(base + uint32(i*4))
	}
	cost := p.regions.Cost(region, 4, false)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost * 8, Seq: cost}, false)
	p.arb.SetNow(p.core, end)

	// drain-dirty-before-fill: a dirty victim's half-lines are pushed
	// through the write buffer rather than silently discarded.
	clean := func(dirtyAddr uint32, data []uint32) {
		for i, w := range data {
			p.wb.Push(writebuffer.EntryWordSeq, dirtyAddr+uint32(i*4), w)
		}
	}
	line := p.cp15.Fill(&p.cp15.DCache, addr, words, clean)
	logger.Logf("pipeline", "dcache fill @ %#08x", addr&^0x1f)
	return p.readLine(line, addr, width), nil
}

// DataWrite8/16/32 perform one data write of the given width.
func (p *Pipeline) DataWrite32(addr uint32, v uint32) error { return p.dataWrite(addr, v, 4, false) }
func (p *Pipeline) DataWrite16(addr uint32, v uint16) error {
	return p.dataWrite(addr, uint32(v), 2, false)
}
func (p *Pipeline) DataWrite8(addr uint32, v uint8) error {
	return p.dataWrite(addr, uint32(v), 1, false)
}

// DataWrite32Seq performs a sequential-burst 32-bit write.
func (p *Pipeline) DataWrite32Seq(addr uint32, v uint32) error {
	return p.dataWrite(addr, v, 4, true)
}

func (p *Pipeline) dataWrite(addr uint32, v uint32, width int, sequential bool) error {
	p.owner.Check()
	p.drainPending()

	if p.cp15 != nil && p.cp15.DTCMCovers(addr) {
		p.writeTCM(p.dtcm, addr-p.dtcmBase(), v, width)
		return nil
	}

	var perm cp15.Permission
	if p.cp15 != nil {
		perm = p.cp15.Lookup(addr)
		if perm&cp15.PermDataWrite == 0 {
			logger.Logf("pipeline", "data abort (write) @ %#08x", addr)
			return errors.Errorf(errors.DataAbort, addr)
		}
	} else {
		perm = cp15.PermDataRead | cp15.PermDataWrite | cp15.PermBufferable
	}

	if perm&cp15.PermCacheable != 0 && p.cp15 != nil && p.cp15.Control.DCacheEnable {
		if _, line, hit := p.cp15.DCache.Lookup(addr); hit {
			p.writeLine(line, addr, v, width)
			if perm&cp15.PermBufferable != 0 {
				cp15.MarkDirty(line, addr)
				return nil
			}
			region, bus := p.regions.Classify(addr)
			p.busWrite(bus, addr, v, width)
			cost := p.regions.Cost(region, width, sequential)
			_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost, Seq: cost}, sequential)
			p.arb.SetNow(p.core, end)
			return nil
		}
	}

	if perm&cp15.PermBufferable != 0 {
		if p.wb.Full() {
			p.drainPending()
		}
		kind := writebuffer.EntryWord
		switch width {
		case 1:
			kind = writebuffer.EntryByte
		case 2:
			kind = writebuffer.EntryHalfword
		default:
			if sequential {
				kind = writebuffer.EntryWordSeq
			}
		}
		p.wb.Push(kind, addr, v)
		return nil
	}

	p.wb.DrainAll(p.arb, p.core, p.arb.Now(p.core), wbCosts, p.commitWrite)
	region, bus := p.regions.Classify(addr)
	p.busWrite(bus, addr, v, width)
	cost := p.regions.Cost(region, width, sequential)
	_, end := p.arb.RequestRAM(p.core, p.arb.Now(p.core), arbiter.Cost{NonSeq: cost, Seq: cost}, sequential)
	p.arb.SetNow(p.core, end)
	return nil
}

func (p *Pipeline) busWrite(bus Bus, addr uint32, v uint32, width int) {
	switch width {
	case 1:
		bus.Write8(addr, uint8(v))
	case 2:
		bus.Write16(addr, uint16(v))
	default:
		bus.Write32(addr, v)
	}
}

func (p *Pipeline) writeLine(line *cp15.Line, addr uint32, v uint32, width int) {
	off := (addr & 0x1f) / 4
	switch width {
	case 1:
		shift := (addr & 3) * 8
		line.Words[off] = (line.Words[off] &^ (0xff << shift)) | (v&0xff)<<shift
	case 2:
		shift := (addr & 2) * 8
		line.Words[off] = (line.Words[off] &^ (0xffff << shift)) | (v&0xffff)<<shift
	default:
		line.Words[off] = v
	}
}

func (p *Pipeline) readTCM(mem []byte, off uint32, width int) uint32 {
	switch width {
	case 1:
		return uint32(mem[off])
	case 2:
		return uint32(mem[off]) | uint32(mem[off+1])<<8
	default:
		return uint32(mem[off]) | uint32(mem[off+1])<<8 | uint32(mem[off+2])<<16 | uint32(mem[off+3])<<24
	}
}

func (p *Pipeline) writeTCM(mem []byte, off uint32, v uint32, width int) {
	mem[off] = uint8(v)
	if width >= 2 {
		mem[off+1] = uint8(v >> 8)
	}
	if width == 4 {
		mem[off+2] = uint8(v >> 16)
		mem[off+3] = uint8(v >> 24)
	}
}

func (p *Pipeline) itcmBase() uint32 {
	if p.cp15 == nil {
		return 0
	}
	return p.cp15.ITCMBase()
}

func (p *Pipeline) dtcmBase() uint32 {
	if p.cp15 == nil {
		return 0
	}
	return p.cp15.DTCMBase()
}
