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

package writebuffer_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/memory/arbiter"
	"github.com/jetsetilly/ndscore/memory/writebuffer"
)

var testCosts = map[writebuffer.EntryKind]arbiter.Cost{
	writebuffer.EntryWord:    {NonSeq: 8, Seq: 2},
	writebuffer.EntryWordSeq: {NonSeq: 8, Seq: 2},
}

func TestPushPushesAddressEntryOnce(t *testing.T) {
	var b writebuffer.Buffer
	b.Push(writebuffer.EntryWord, 0x02000000, 0xdeadbeef)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (address + word)", b.Len())
	}
	b.Push(writebuffer.EntryWordSeq, 0x02000004, 0xcafebabe)
	if b.Len() != 3 {
		t.Fatalf("Len() after sequential push = %d, want 3 (no new address entry)", b.Len())
	}
}

func TestFullBufferStalls(t *testing.T) {
	var b writebuffer.Buffer
	for !b.Full() {
		b.Push(writebuffer.EntryWordSeq, 0x1000, 0)
	}
	if !b.Full() {
		t.Fatalf("expected buffer to report full")
	}
}

func TestDrainEmptiesBuffer(t *testing.T) {
	var b writebuffer.Buffer
	b.Push(writebuffer.EntryWord, 0x02000000, 0xdeadbeef)

	a := arbiter.New()
	var now uint64
	for !b.Empty() {
		var drained bool
		drained, now = b.Drain(a, arbiter.Core9, now, testCosts, nil)
		if !drained {
			t.Fatalf("Drain reported nothing drained while buffer non-empty")
		}
	}
	if !b.Empty() {
		t.Errorf("buffer should be empty after draining")
	}
}

func TestDrainAllBlocksUntilEmpty(t *testing.T) {
	var b writebuffer.Buffer
	b.Push(writebuffer.EntryWord, 0x02000000, 1)
	b.Push(writebuffer.EntryWordSeq, 0x02000004, 2)

	a := arbiter.New()
	b.DrainAll(a, arbiter.Core9, 0, testCosts, nil)
	if !b.Empty() {
		t.Errorf("DrainAll should leave the buffer empty")
	}
}

func TestDrainCommitsEachDataEntry(t *testing.T) {
	var b writebuffer.Buffer
	b.Push(writebuffer.EntryWord, 0x02000000, 0xcafebabe)

	var committedAddr, committedData uint32
	commit := func(addr uint32, data uint32, kind writebuffer.EntryKind) {
		committedAddr, committedData = addr, data
	}

	a := arbiter.New()
	b.DrainAll(a, arbiter.Core9, 0, testCosts, commit)

	if committedAddr != 0x02000000 || committedData != 0xcafebabe {
		t.Errorf("commit got (%#x, %#x), want (0x02000000, 0xcafebabe)", committedAddr, committedData)
	}
}
