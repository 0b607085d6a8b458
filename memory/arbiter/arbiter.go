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

// Package arbiter resolves contention for main RAM between the two CPU
// cores and the DMA engine. It is the single writer of the RAM timestamp;
// each core borrows the arbiter for the duration of one transaction rather
// than reaching across to the other core directly.
package arbiter

import "github.com/jetsetilly/ndscore/logger"

// Core identifies one of the three requesters that can contend for main
// RAM: the two CPU cores and the DMA engine. DMA never holds the priority
// bit - it only ever defers to whichever core is ahead of it.
type Core int

// the three requesters that can ask the arbiter for main RAM.
const (
	Core9 Core = iota
	Core7
	DMA
	coreCount
)

// Region distinguishes the bus regions the arbiter charges cycles for.
// Only Region RAM interacts with the two-core contention logic; the
// others simply advance the requesting core's own timestamp.
type Region int

// recognised bus regions.
const (
	RegionRAM Region = iota
	RegionVRAM
	RegionWRAM
	RegionCartridge
	RegionBIOS
)

// Cost carries the non-sequential and sequential cycle cost of one region,
// as read from the bus timing table for the access width in play.
type Cost struct {
	NonSeq uint32
	Seq    uint32
}

// Arbiter holds the shared bus-contention state: one timestamp per core,
// the main-RAM controller's timestamp, the DMA engine's timestamp, which
// side last held main RAM, and the priority bit used to break ties.
type Arbiter struct {
	coreTime [coreCount]uint64

	ramTime     uint64
	lastRAMUser Core
	havePrior   bool

	// priority9 selects which core wins a tie where both cores want main
	// RAM at the exact same timestamp. The DS gives the ARM9 priority. DMA
	// never holds this bit.
	priority9 bool
}

// New returns an arbiter with ARM9 holding priority, matching the DS's bus
// arbitration default.
func New() *Arbiter {
	return &Arbiter{priority9: true}
}

// Now returns a core's current timestamp.
func (a *Arbiter) Now(c Core) uint64 { return a.coreTime[c] }

// SetNow forces a core's timestamp, used by the memory pipeline to record
// where an access or an internal-cycle charge left the core.
func (a *Arbiter) SetNow(c Core, t uint64) { a.coreTime[c] = t }

// RAMNow returns the RAM controller's timestamp.
func (a *Arbiter) RAMNow() uint64 { return a.ramTime }

// RequestRAM resolves one main-RAM access by requester c at time t, for
// width cost, given whether this access continues a sequential burst from
// the immediately preceding access by the same requester. It returns the
// adjusted start time (after any deferral) and the timestamp the access
// completes at, which becomes c's new timestamp.
func (a *Arbiter) RequestRAM(c Core, t uint64, cost Cost, sequential bool) (start, end uint64) {
	// rule 1: defer to any other requester whose timestamp is >= t and
	// which holds priority over c. DMA never holds priority, so DMA
	// requests are deferred by whichever core is ahead of them regardless
	// of the priority bit.
	for _, other := range otherRequesters(c) {
		if a.coreTime[other] >= t && (c == DMA || a.hasPriority(other)) {
			logger.Logf("arbiter", "defer: %d yields to %d until %d", c, other, a.coreTime[other])
			t = a.coreTime[other]
		}
	}

	// rule 2: the RAM controller itself may still be busy servicing a
	// previous request.
	if a.ramTime > t {
		t = a.ramTime
	}

	charge := cost.NonSeq
	if sequential && a.havePrior && a.lastRAMUser == c {
		charge = cost.Seq
	}

	end = t + uint64(charge)

	a.coreTime[c] = end
	a.ramTime = end + 1
	a.lastRAMUser = c
	a.havePrior = true

	logger.Logf("arbiter", "grant: %d ram access %d..%d (seq=%v)", c, t, end, sequential)

	return t, end
}

// ChargeOther advances core c's timestamp by a region's cycle cost without
// involving the other core or main RAM - used for VRAM, shared WRAM,
// cartridge space, and BIOS, none of which contend across cores.
func (a *Arbiter) ChargeOther(c Core, cost uint32) {
	a.coreTime[c] += uint64(cost)
}

func (a *Arbiter) hasPriority(c Core) bool {
	switch c {
	case Core9:
		return a.priority9
	case Core7:
		return !a.priority9
	default:
		return false
	}
}

func otherRequesters(c Core) []Core {
	all := [...]Core{Core9, Core7, DMA}
	out := make([]Core, 0, len(all)-1)
	for _, r := range all {
		if r != c {
			out = append(out, r)
		}
	}
	return out
}
