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

package regfile_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/cpu/regfile"
)

func TestPipelineOffsetOnPC(t *testing.T) {
	var rf regfile.RegisterFile
	rf.Reset()

	rf.SetExecuting(0x100, false)
	if got := rf.Read(15); got != 0x108 {
		t.Errorf("ARM: Read(15) = %#x, want %#x", got, 0x108)
	}

	rf.SetExecuting(0x100, true)
	if got := rf.Read(15); got != 0x104 {
		t.Errorf("THUMB: Read(15) = %#x, want %#x", got, 0x104)
	}
}

func TestIdempotentRead(t *testing.T) {
	var rf regfile.RegisterFile
	rf.Reset()
	rf.Write(3, 0xcafebabe)
	for r := 0; r < 15; r++ {
		if rf.Read(r) != rf.Read(r) {
			t.Errorf("read(%d) not idempotent", r)
		}
	}
}

func TestFIQBankSwapRoundTrip(t *testing.T) {
	var rf regfile.RegisterFile
	rf.Reset()
	rf.SetCPSR(regfile.SetMode(rf.CPSR(), regfile.ModeUSR))

	for r := 8; r <= 14; r++ {
		rf.Write(r, uint32(r)*0x11111111)
	}
	before := make([]uint32, 15)
	for r := 8; r <= 14; r++ {
		before[r] = rf.Read(r)
	}

	oldCPSR := rf.CPSR()
	newCPSR := regfile.SetMode(oldCPSR, regfile.ModeFIQ)
	rf.SetCPSR(newCPSR)
	rf.UpdateMode(oldCPSR, newCPSR)

	for r := 8; r <= 14; r++ {
		rf.Write(r, 0xdeadbeef)
	}

	backCPSR := rf.CPSR()
	usrCPSR := regfile.SetMode(backCPSR, regfile.ModeUSR)
	rf.SetCPSR(usrCPSR)
	rf.UpdateMode(backCPSR, usrCPSR)

	for r := 8; r <= 14; r++ {
		if rf.Read(r) != before[r] {
			t.Errorf("R%d after return from FIQ = %#x, want %#x", r, rf.Read(r), before[r])
		}
	}
}

func TestUserSystemBankIsSharedNotSwapped(t *testing.T) {
	var rf regfile.RegisterFile
	rf.Reset()
	rf.SetCPSR(regfile.SetMode(rf.CPSR(), regfile.ModeUSR))
	rf.Write(13, 0x1000)

	oldCPSR := rf.CPSR()
	newCPSR := regfile.SetMode(oldCPSR, regfile.ModeSYS)
	rf.SetCPSR(newCPSR)
	rf.UpdateMode(oldCPSR, newCPSR)

	if rf.Read(13) != 0x1000 {
		t.Errorf("System mode should see User mode's R13 unchanged, got %#x", rf.Read(13))
	}
}

func TestConditionCodes(t *testing.T) {
	cpsr := regfile.SetFlags(0, true, false, true, false) // N=1 Z=0 C=1 V=0
	if !regfile.Condition(cpsr, 0b0100) {                 // MI
		t.Errorf("expected MI to hold when N=1")
	}
	if regfile.Condition(cpsr, 0b0000) { // EQ
		t.Errorf("expected EQ to not hold when Z=0")
	}
	if !regfile.Condition(cpsr, 0b1000) { // HI: C && !Z
		t.Errorf("expected HI to hold when C=1, Z=0")
	}
}
