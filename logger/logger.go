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

// Package logger is a global, tag-prefixed, capped-history log. Every
// subsystem writes through here rather than to stdout directly, so that the
// CLI and anything following the log can show recent activity without
// subsystems knowing about each other.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// maximum number of entries retained. older entries are dropped as new ones
// arrive.
const capacity = 1000

type entry struct {
	tag     string
	message string
}

func (e entry) String() string {
	return e.tag + ": " + e.message
}

var (
	mu      sync.Mutex
	entries []entry
)

// Log adds an entry to the log, prefixed by tag.
func Log(tag string, message string) {
	mu.Lock()
	defer mu.Unlock()

	entries = append(entries, entry{tag: tag, message: message})
	if len(entries) > capacity {
		entries = entries[len(entries)-capacity:]
	}
}

// Logf is like Log but accepts a format string and arguments.
func Logf(tag string, format string, args ...any) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write writes every retained entry, oldest first, to w.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	writeEntries(w, entries)
}

// Tail writes the most recent n entries, oldest first, to w. Asking for more
// entries than exist, or for zero entries, is not an error.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()

	if n <= 0 {
		return
	}
	if n > len(entries) {
		n = len(entries)
	}
	writeEntries(w, entries[len(entries)-n:])
}

// Clear discards every retained entry. Intended for tests.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}

func writeEntries(w io.Writer, es []entry) {
	var s strings.Builder
	for _, e := range es {
		s.WriteString(e.String())
		s.WriteRune('\n')
	}
	io.WriteString(w, s.String())
}
