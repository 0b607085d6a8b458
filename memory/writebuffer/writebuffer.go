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

// Package writebuffer implements the sixteen-entry FIFO that decouples a
// core's bufferable stores from the slower external bus. It is drained one
// entry per call, and only when the bus arbiter grants the issuing core
// access to main RAM.
package writebuffer

import (
	"github.com/jetsetilly/ndscore/logger"
	"github.com/jetsetilly/ndscore/memory/arbiter"
)

// capacity is the number of ring-buffer slots. Architectural: the
// ARM946E-S write buffer has sixteen entries.
const capacity = 16

// EntryKind tags what a FIFO slot holds.
type EntryKind uint8

// recognised entry kinds.
const (
	entryEmpty EntryKind = iota
	EntryAddress
	EntryByte
	EntryHalfword
	EntryWord
	EntryWordSeq
)

type entry struct {
	kind EntryKind
	addr uint32
	data uint32
}

// Buffer is a ring of pending bufferable writes. Ordering is preserved as
// a plain FIFO; same-region writes are never coalesced across
// non-adjacent entries, matching the observed hardware behaviour recorded
// as an intentional design choice rather than an oversight.
type Buffer struct {
	entries       [capacity]entry
	head, tail, n int
	lastBurstAddr uint32
	haveLastBurst bool
}

// Empty reports whether the buffer holds no pending entries.
func (b *Buffer) Empty() bool { return b.n == 0 }

// Full reports whether the buffer has no free slot.
func (b *Buffer) Full() bool { return b.n == capacity }

// Len returns the number of entries currently queued.
func (b *Buffer) Len() int { return b.n }

// Push queues a bufferable write of the given width at addr. If the
// previous entry pushed was a write to the address immediately following
// this one's burst predecessor, only the data entry is appended (word-seq
// addressing); otherwise an address entry is pushed first. Push panics if
// the buffer is full - callers must check Full and stall before pushing.
func (b *Buffer) Push(kind EntryKind, addr uint32, data uint32) {
	if b.Full() {
		logger.Log("writebuffer", "push into full buffer")
		panic("writebuffer: push into full buffer")
	}

	needAddress := !b.haveLastBurst || b.lastBurstAddr != addr || kind != EntryWordSeq
	if needAddress {
		b.push(entry{kind: EntryAddress, addr: addr})
	}
	b.push(entry{kind: kind, addr: addr, data: data})

	b.lastBurstAddr = addr + 4
	b.haveLastBurst = true
}

func (b *Buffer) push(e entry) {
	b.entries[b.tail] = e
	b.tail = (b.tail + 1) % capacity
	b.n++
}

func (b *Buffer) pop() (entry, bool) {
	if b.n == 0 {
		return entry{}, false
	}
	e := b.entries[b.head]
	b.head = (b.head + 1) % capacity
	b.n--
	return e, true
}

// Commit performs the actual bus write for one retired entry. The buffer
// itself holds no reference to a Bus - the owning pipeline supplies this
// callback so that memory/writebuffer stays free of any dependency on bus
// device types.
type Commit func(addr uint32, data uint32, kind EntryKind)

// Drain attempts to retire one bus transaction from the front of the
// buffer. It is admissible only when the arbiter grants requester c
// access to main RAM at time now; callers invoke Drain every time the
// owning core checks the buffer, so it naturally throttles to at most one
// transaction per call. It returns false if there was nothing to drain.
func (b *Buffer) Drain(a *arbiter.Arbiter, c arbiter.Core, now uint64, costs map[EntryKind]arbiter.Cost, commit Commit) (drained bool, newTime uint64) {
	if b.Empty() {
		return false, now
	}

	e, ok := b.pop()
	if !ok {
		return false, now
	}

	// address entries carry no bus cost of their own - they set up the
	// burst for the data entry that follows.
	if e.kind == EntryAddress {
		e2, ok2 := b.pop()
		if !ok2 {
			return true, now
		}
		_, end := a.RequestRAM(c, now, costs[e2.kind], false)
		if commit != nil {
			commit(e2.addr, e2.data, e2.kind)
		}
		logger.Logf("writebuffer", "drained burst write @ %#08x, %d entries remaining", e2.addr, b.Len())
		return true, end
	}

	_, end := a.RequestRAM(c, now, costs[e.kind], true)
	if commit != nil {
		commit(e.addr, e.data, e.kind)
	}
	logger.Logf("writebuffer", "drained write @ %#08x, %d entries remaining", e.addr, b.Len())
	return true, end
}

// DrainAll blocks the caller conceptually by draining every entry in a
// tight loop - used by the memory pipeline before an unbufferable access,
// which must not reach the bus ahead of the writes already queued.
func (b *Buffer) DrainAll(a *arbiter.Arbiter, c arbiter.Core, now uint64, costs map[EntryKind]arbiter.Cost, commit Commit) uint64 {
	for !b.Empty() {
		_, now = b.Drain(a, c, now, costs, commit)
	}
	return now
}
