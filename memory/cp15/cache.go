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

package cp15

const (
	numSets   = 4
	numWays   = 4
	lineBytes = 32
	lineWords = lineBytes / 4
)

// Line is one cache line: a tag (the address bits above the set/offset
// fields), validity, and - for the data cache only - one dirty bit per
// half-line, tracking which sixteen-byte half has been written since the
// line was filled.
type Line struct {
	Tag   uint32
	Valid bool
	Dirty [2]bool
	Words [lineWords]uint32
}

// Cache is one 4-way set-associative cache: either the instruction cache
// or the data cache, both shaped identically (the difference is only
// whether Dirty is ever set, and which permission bit gates whether an
// access reaches it at all).
type Cache struct {
	sets [numSets][numWays]Line

	// roundRobinNext[set] is the next way to evict under round-robin
	// replacement.
	roundRobinNext [numSets]int

	// lockdown pins a prefix of ways within each set; fills avoid a pinned
	// way unless every other way is also pinned.
	lockedWays int
}

func setIndex(addr uint32) uint32 {
	return (addr / lineBytes) % numSets
}

func tagOf(addr uint32) uint32 {
	return addr &^ (lineBytes*numSets - 1)
}

// Lookup scans all four ways of addr's set for a valid line whose tag
// matches. It returns the way index and true on a hit.
func (c *Cache) Lookup(addr uint32) (way int, line *Line, hit bool) {
	set := setIndex(addr)
	tag := tagOf(addr)
	for w := 0; w < numWays; w++ {
		l := &c.sets[set][w]
		if l.Valid && l.Tag == tag {
			return w, l, true
		}
	}
	return 0, nil, false
}

// chooseVictim selects the way to evict for a fill into addr's set, using
// round-robin or pseudo-random replacement as configured. Locked ways
// (from a lockdown register write) are skipped unless all ways are
// locked.
func (c *CP15) chooseVictim(cache *Cache, set uint32) int {
	if cache.lockedWays > 0 && cache.lockedWays < numWays {
		candidates := make([]int, 0, numWays-cache.lockedWays)
		for w := cache.lockedWays; w < numWays; w++ {
			candidates = append(candidates, w)
		}
		if c.Control.RoundRobin {
			idx := cache.roundRobinNext[set] % len(candidates)
			cache.roundRobinNext[set] = (cache.roundRobinNext[set] + 1) % len(candidates)
			return candidates[idx]
		}
		return candidates[int(c.nextRandom())%len(candidates)]
	}

	if c.Control.RoundRobin {
		w := cache.roundRobinNext[set]
		cache.roundRobinNext[set] = (w + 1) % numWays
		return w
	}
	return int(c.nextRandom()) % numWays
}

// Fill installs a freshly streamed line - eight words read from the bus in
// address order - at addr's set, evicting the chosen victim. If the
// victim line has dirty half-lines, clean is invoked with their addresses
// and data before the line is overwritten, per the drain-dirty-before-fill
// rule; clean may be nil for the instruction cache, which has no dirty
// bits.
func (c *CP15) Fill(cache *Cache, addr uint32, words [lineWords]uint32, clean CleanFunc) *Line {
	set := setIndex(addr)
	way := c.chooseVictim(cache, set)
	line := &cache.sets[set][way]
	if clean != nil {
		cleanLine(line, clean)
	}
	*line = Line{Tag: tagOf(addr), Valid: true, Words: words}
	return line
}

// InvalidateAll clears every valid bit in cache.
func InvalidateAll(cache *Cache) {
	for s := 0; s < numSets; s++ {
		for w := 0; w < numWays; w++ {
			cache.sets[s][w] = Line{}
		}
	}
}

// InvalidateAddress clears the valid bit of the line covering addr, if
// present.
func InvalidateAddress(cache *Cache, addr uint32) {
	if w, _, hit := cache.Lookup(addr); hit {
		cache.sets[setIndex(addr)][w] = Line{}
	}
}

// InvalidateSetWay clears one specific line directly, as selected by the
// cache-tag debug register encoding (set index and way packed into a
// single operand).
func InvalidateSetWay(cache *Cache, set, way int) {
	cache.sets[set][way] = Line{}
}

// CleanFunc is called by CleanAll, Fill and CP15.Write's clean operations
// once per dirty half-line found, in address order, so the caller can push
// the four words of that half through the write buffer before the dirty
// bit is cleared.
type CleanFunc func(addr uint32, words []uint32)

// CleanAll walks every line of cache and, for each dirty half, invokes fn
// with that half's address and data before clearing the dirty bit.
func CleanAll(cache *Cache, fn CleanFunc) {
	for s := 0; s < numSets; s++ {
		for w := 0; w < numWays; w++ {
			cleanLine(&cache.sets[s][w], fn)
		}
	}
}

// CleanAddress cleans only the line covering addr, if present and dirty.
func CleanAddress(cache *Cache, addr uint32) {
	set := setIndex(addr)
	tag := tagOf(addr)
	for w := 0; w < numWays; w++ {
		l := &cache.sets[set][w]
		if l.Valid && l.Tag == tag {
			cleanLine(l, func(uint32, []uint32) {})
		}
	}
}

func cleanLine(l *Line, fn CleanFunc) {
	if !l.Valid {
		return
	}
	base := l.Tag
	for half := 0; half < 2; half++ {
		if l.Dirty[half] {
			fn(base+uint32(half*16), l.Words[half*4:half*4+4])
			l.Dirty[half] = false
		}
	}
}

// MarkDirty sets the dirty bit of the half-line covering addr within an
// already-resident line - used by the data-cache write path on a
// bufferable-region hit.
func MarkDirty(line *Line, addr uint32) {
	half := (addr / 16) % 2
	line.Dirty[half] = true
}

// SetLockdown pins the first n ways of every set against replacement.
func SetLockdown(cache *Cache, n int) {
	if n < 0 {
		n = 0
	}
	if n > numWays {
		n = numWays
	}
	cache.lockedWays = n
}

// ReadTag and WriteTag implement the cache-tag debug path: software may
// poke tags directly so that tests can construct arbitrary cache states.
func ReadTag(cache *Cache, set, way int) (tag uint32, valid bool, dirty [2]bool) {
	l := cache.sets[set][way]
	return l.Tag, l.Valid, l.Dirty
}

func WriteTag(cache *Cache, set, way int, tag uint32, valid bool) {
	cache.sets[set][way].Tag = tag
	cache.sets[set][way].Valid = valid
}
