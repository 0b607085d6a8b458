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

package pipeline_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/memory/arbiter"
	"github.com/jetsetilly/ndscore/memory/cp15"
	"github.com/jetsetilly/ndscore/memory/pipeline"
	"github.com/jetsetilly/ndscore/memory/writebuffer"
)

// flatRAM is a trivial Bus backed by a byte slice, used only by tests.
type flatRAM struct {
	mem [1 << 20]byte
}

func (r *flatRAM) Read8(addr uint32) uint8   { return r.mem[addr&0xfffff] }
func (r *flatRAM) Read16(addr uint32) uint16 {
	a := addr & 0xfffff
	return uint16(r.mem[a]) | uint16(r.mem[a+1])<<8
}
func (r *flatRAM) Read32(addr uint32) uint32 {
	a := addr & 0xfffff
	return uint32(r.mem[a]) | uint32(r.mem[a+1])<<8 | uint32(r.mem[a+2])<<16 | uint32(r.mem[a+3])<<24
}
func (r *flatRAM) Write8(addr uint32, v uint8) { r.mem[addr&0xfffff] = v }
func (r *flatRAM) Write16(addr uint32, v uint16) {
	a := addr & 0xfffff
	r.mem[a] = uint8(v)
	r.mem[a+1] = uint8(v >> 8)
}
func (r *flatRAM) Write32(addr uint32, v uint32) {
	a := addr & 0xfffff
	r.mem[a] = uint8(v)
	r.mem[a+1] = uint8(v >> 8)
	r.mem[a+2] = uint8(v >> 16)
	r.mem[a+3] = uint8(v >> 24)
}

// singleRegion classifies every address as main RAM with a fixed cost,
// enough to exercise the pipeline's cascade without a full NDS memory map.
type singleRegion struct {
	bus *flatRAM
}

func (s singleRegion) Classify(addr uint32) (arbiter.Region, pipeline.Bus) {
	return arbiter.RegionRAM, s.bus
}

func (s singleRegion) Cost(region arbiter.Region, width int, sequential bool) uint32 {
	if sequential {
		return 1
	}
	return 8
}

func newTestPipeline(t *testing.T, withCP15 bool) (*pipeline.Pipeline, *cp15.CP15) {
	t.Helper()
	arb := arbiter.New()
	var wb writebuffer.Buffer
	regions := singleRegion{bus: &flatRAM{}}

	var c *cp15.CP15
	if withCP15 {
		c = cp15.New()
	}
	p := pipeline.New(arbiter.Core9, arb, regions, c, &wb, 32*1024, 16*1024)
	return p, c
}

func TestITCMReadIsSingleCycle(t *testing.T) {
	p, c := newTestPipeline(t, true)
	c.Write(0x910, 5, true, nil, nil) // enable ITCM at base 0, size 8 bytes

	if _, err := p.CodeFetch(0x4, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDataAbortOnUnmappedWithMPU(t *testing.T) {
	p, c := newTestPipeline(t, true)
	c.Control.MPUEnable = true
	c.RebuildPermissionMap()

	if _, err := p.DataRead32(0x02000000); err == nil {
		t.Errorf("expected data abort when MPU enabled with no matching region")
	}
}

func TestBufferableWriteThenUnbufferableReadSeesWrite(t *testing.T) {
	p, c := newTestPipeline(t, true)
	c.Control.MPUEnable = true
	c.Regions[0] = cp15.Region{
		Base: 0, Size: 1 << 20, Enabled: true,
		DataAccess: cp15.PermDataRead | cp15.PermDataWrite,
		Bufferable: true,
	}
	c.RebuildPermissionMap()

	if err := p.DataWrite32(0x100, 0xcafebabe); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	// switch the region to unbufferable to force a drain-before-read.
	c.Regions[0].Bufferable = false
	c.RebuildPermissionMap()

	v, err := p.DataRead32(0x100)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if v != 0xcafebabe {
		t.Errorf("read after bufferable write = %#x, want %#x", v, 0xcafebabe)
	}
}

func TestNoCP15GrantsArm7FullAccess(t *testing.T) {
	p, _ := newTestPipeline(t, false)
	if err := p.DataWrite32(0x200, 42); err != nil {
		t.Fatalf("unexpected error writing without CP15: %v", err)
	}
	v, err := p.DataRead32(0x200)
	if err != nil {
		t.Fatalf("unexpected error reading without CP15: %v", err)
	}
	if v != 42 {
		t.Errorf("read = %d, want 42", v)
	}
}
