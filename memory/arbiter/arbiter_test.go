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

package arbiter_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/memory/arbiter"
)

func TestSequentialIsCheaperThanNonSequential(t *testing.T) {
	a := arbiter.New()
	cost := arbiter.Cost{NonSeq: 8, Seq: 2}

	_, end1 := a.RequestRAM(arbiter.Core9, 0, cost, false)
	start2, end2 := a.RequestRAM(arbiter.Core9, end1, cost, true)

	if end2-start2 != 2 {
		t.Errorf("sequential continuation cost = %d, want 2", end2-start2)
	}
}

func TestLowerPriorityCoreDefersOnTie(t *testing.T) {
	a := arbiter.New()
	cost := arbiter.Cost{NonSeq: 8, Seq: 2}

	// ARM9 reaches timestamp 100 first.
	a.SetNow(arbiter.Core9, 100)

	// ARM7 requests at the same timestamp; ARM9 holds priority by default,
	// so ARM7's request must be deferred to ARM9's timestamp.
	start, _ := a.RequestRAM(arbiter.Core7, 100, cost, false)
	if start != 100 {
		t.Errorf("ARM7 start = %d, want 100 (no actual deferral needed, timestamps equal)", start)
	}

	a.SetNow(arbiter.Core9, 150)
	start, _ = a.RequestRAM(arbiter.Core7, 100, cost, false)
	if start != 150 {
		t.Errorf("ARM7 start = %d, want 150 (deferred to higher-priority ARM9)", start)
	}
}

func TestDMANeverHoldsPriority(t *testing.T) {
	a := arbiter.New()
	cost := arbiter.Cost{NonSeq: 8, Seq: 2}

	a.SetNow(arbiter.Core7, 200)
	start, _ := a.RequestRAM(arbiter.DMA, 50, cost, false)
	if start != 200 {
		t.Errorf("DMA start = %d, want 200 (deferred to ARM7 despite no priority bit)", start)
	}
}

func TestOtherRegionsDoNotContend(t *testing.T) {
	a := arbiter.New()
	a.SetNow(arbiter.Core9, 500)
	a.ChargeOther(arbiter.Core7, 4)
	if a.Now(arbiter.Core7) != 4 {
		t.Errorf("ARM7 timestamp = %d, want 4 (non-RAM charge must not see ARM9's timestamp)", a.Now(arbiter.Core7))
	}
}
