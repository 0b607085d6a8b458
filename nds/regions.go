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

package nds

import (
	"github.com/jetsetilly/ndscore/memory/arbiter"
	"github.com/jetsetilly/ndscore/memory/pipeline"
)

// address map, flattened to the windows the two cores actually see; NDS
// mirroring within a region is handled by flatBus's masking, not modelled
// here bit-for-bit.
const (
	mainRAMBase = 0x02000000
	mainRAMSize = 4 * 1024 * 1024

	sharedWRAMBase = 0x03000000
	sharedWRAMSize = 32 * 1024

	vramBase = 0x06000000
	vramSize = 656 * 1024

	// vramAllocSize backs vramBase's flatBus. It is rounded up to a power
	// of two (flatBus masks addresses rather than range-checking them) and
	// is larger than vramSize; only the first vramSize bytes are ever
	// addressed through Classify's range check.
	vramAllocSize = 1024 * 1024

	cartridgeBase = 0x08000000

	arm9BIOSBase = 0xffff0000
	arm9BIOSSize = 32 * 1024

	arm7BIOSBase = 0x00000000
	arm7BIOSSize = 16 * 1024
)

// regions implements pipeline.Regions over the flat bus set a System wires
// up. Arm9 and Arm7 regions differ only in where the BIOS window sits, so
// one instance serves both cores' pipelines, distinguished by isARM9.
type regions struct {
	ram, wram, vram *flatBus
	cartridge       *romBus
	bios9, bios7    *flatBus

	isARM9 bool
}

// Classify implements pipeline.Regions.
func (r *regions) Classify(addr uint32) (arbiter.Region, pipeline.Bus) {
	switch {
	case addr >= mainRAMBase && addr < mainRAMBase+mainRAMSize:
		return arbiter.RegionRAM, r.ram
	case addr >= sharedWRAMBase && addr < sharedWRAMBase+sharedWRAMSize:
		return arbiter.RegionWRAM, r.wram
	case addr >= vramBase && addr < vramBase+vramSize:
		return arbiter.RegionVRAM, r.vram
	case r.isARM9 && addr >= arm9BIOSBase && addr < arm9BIOSBase+arm9BIOSSize:
		return arbiter.RegionBIOS, r.bios9
	case !r.isARM9 && addr < arm7BIOSSize:
		return arbiter.RegionBIOS, r.bios7
	case addr >= cartridgeBase:
		return arbiter.RegionCartridge, r.cartridge
	}
	// unmapped windows fall back to main RAM's mirror, matching the open
	// bus behaviour being out of scope for this core (see DESIGN.md).
	return arbiter.RegionRAM, r.ram
}

// costTable holds the non-sequential/sequential cycle costs per region,
// taken from the bus timing figures melonDS's NDS.cpp ARM9MemTimings /
// ARM7MemTimings tables use for 16-bit/32-bit access.
var costTable = map[arbiter.Region][2]uint32{
	arbiter.RegionRAM:       {8, 1},
	arbiter.RegionWRAM:      {1, 1},
	arbiter.RegionVRAM:      {1, 1},
	arbiter.RegionCartridge: {8, 5},
	arbiter.RegionBIOS:      {1, 1},
}

// Cost implements pipeline.Regions. It doubles the base figure for 32-bit
// accesses, since the bus timing tables this is grounded on quote 16-bit
// figures and 32-bit accesses cost two bus beats.
func (r *regions) Cost(region arbiter.Region, width int, sequential bool) uint32 {
	c := costTable[region]
	base := c[0]
	if sequential {
		base = c[1]
	}
	if width == 4 {
		return base * 2
	}
	return base
}
