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

package cp15_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/memory/cp15"
)

func TestOverlappingRegionsHighestIndexWins(t *testing.T) {
	c := cp15.New()
	c.Control.MPUEnable = true
	c.Regions[1] = cp15.Region{Base: 0x02000000, Size: 0x02000000, Enabled: true, CodeAccess: cp15.PermCodeRead}
	c.Regions[2] = cp15.Region{Base: 0x03000000, Size: 0x00100000, Enabled: true, DataAccess: cp15.PermDataRead | cp15.PermDataWrite}
	c.RebuildPermissionMap()

	perm := c.Lookup(0x03000010)
	if perm&cp15.PermDataWrite == 0 {
		t.Errorf("page covered by higher-indexed region should be writeable, got %v", perm)
	}
}

func TestPrivilegeViolationOnUserAccess(t *testing.T) {
	c := cp15.New()
	if _, err := c.Read(cp15.OpControl, false); err == nil {
		t.Errorf("expected privilege violation reading control register from user mode")
	}
}

func TestMPUDisabledGrantsFullAccess(t *testing.T) {
	c := cp15.New()
	perm := c.Lookup(0x12345000)
	if perm&cp15.PermDataWrite == 0 || perm&cp15.PermCodeRead == 0 {
		t.Errorf("MPU-disabled lookup should grant full access, got %v", perm)
	}
}

func TestWaitForInterruptHalts(t *testing.T) {
	c := cp15.New()
	if err := c.Write(cp15.OpWaitForInterrupt1, 0, true, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Halted() {
		t.Errorf("expected core to be halted after wait-for-interrupt write")
	}
	c.Resume()
	if c.Halted() {
		t.Errorf("expected core to resume")
	}
}

func TestCacheFillAndInvalidate(t *testing.T) {
	c := cp15.New()
	var words [8]uint32
	words[0] = 0xdeadbeef
	line := c.Fill(&c.DCache, 0x02000000, words, nil)
	if !line.Valid || line.Words[0] != 0xdeadbeef {
		t.Fatalf("fill did not install expected line")
	}
	if _, _, hit := c.DCache.Lookup(0x02000000); !hit {
		t.Fatalf("expected hit after fill")
	}
	cp15.InvalidateAddress(&c.DCache, 0x02000000)
	if _, _, hit := c.DCache.Lookup(0x02000000); hit {
		t.Errorf("expected miss after invalidate")
	}
}

func TestDrainWriteBufferBlocksUntilEmpty(t *testing.T) {
	c := cp15.New()
	remaining := 3
	drain := func() bool {
		remaining--
		return remaining <= 0
	}
	if err := c.Write(cp15.OpDrainWriteBuffer, 0, true, nil, drain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining > 0 {
		t.Errorf("expected drain to be called until empty, remaining=%d", remaining)
	}
}
