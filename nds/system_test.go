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

package nds_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/backup"
	"github.com/jetsetilly/ndscore/cartridge"
	"github.com/jetsetilly/ndscore/cartridgeloader"
	"github.com/jetsetilly/ndscore/config"
	"github.com/jetsetilly/ndscore/nds"
)

// newTestROM builds a minimal header-only image: one ARM9 word at its RAM
// load address, no ARM7 payload (its entry point of zero lands in the ARM7
// BIOS window, which is fine for a boot smoke test).
func newTestROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 0x210)
	putLE32 := func(off int, v uint32) {
		rom[off] = byte(v)
		rom[off+1] = byte(v >> 8)
		rom[off+2] = byte(v >> 16)
		rom[off+3] = byte(v >> 24)
	}
	copy(rom[0x0c:0x10], "TEST")

	putLE32(0x20, 0x200)      // ARM9ROMOffset
	putLE32(0x24, 0x02000000) // ARM9Entry
	putLE32(0x28, 0x02000000) // ARM9RAMAddress
	putLE32(0x2c, 4)          // ARM9Size

	// ARM7ROMOffset/Entry/RAMAddress/Size are left zero: no ARM7 payload.

	return rom
}

func newTestSystem(t *testing.T) *nds.System {
	t.Helper()
	rom := newTestROM(t)

	ld, err := cartridgeloader.NewLoaderFromData("test", rom)
	if err != nil {
		t.Fatalf("NewLoaderFromData: %v", err)
	}

	sys, err := nds.New(ld, config.Default(), cartridge.KeyBuf{})
	if err != nil {
		t.Fatalf("nds.New: %v", err)
	}
	return sys
}

func TestBootCopiesARM9CodeAndSetsEntryPoint(t *testing.T) {
	sys := newTestSystem(t)

	if err := sys.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if got := sys.Header.GameCodeString(); got != "TEST" {
		t.Errorf("GameCodeString() = %q, want %q", got, "TEST")
	}
	if got := sys.Arm9.Regs.RawPC(); got != 0x02000000 {
		t.Errorf("ARM9 PC after Boot = %#08x, want %#08x", got, 0x02000000)
	}
}

func TestStepAdvancesBothCoresWithoutError(t *testing.T) {
	sys := newTestSystem(t)
	if err := sys.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step() #%d: %v", i, err)
		}
	}
}

func TestAttachBackupInstallsChip(t *testing.T) {
	sys := newTestSystem(t)
	if err := sys.AttachBackup(backup.KindEEPROMTiny, nil); err != nil {
		t.Fatalf("AttachBackup: %v", err)
	}
	if sys.Backup == nil {
		t.Errorf("expected Backup to be set after AttachBackup")
	}
}
