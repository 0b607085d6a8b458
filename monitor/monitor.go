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

// Package monitor implements a raw-mode terminal session for poking at a
// running core's CP15 cache tags interactively, in the same spirit as the
// teacher's easyterm package puts the debugger's terminal into raw mode -
// here built on github.com/pkg/term rather than golang.org/x/term, since
// that is the terminal library the rest of the reference corpus reaches
// for.
package monitor

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/term"

	"github.com/jetsetilly/ndscore/logger"
	"github.com/jetsetilly/ndscore/memory/cp15"
)

// Monitor drives one raw-mode terminal session against a core's CP15
// instance, reading single-character commands and printing tag state.
type Monitor struct {
	tty  *term.Term
	cp15 *cp15.CP15
}

// Open puts the controlling terminal into raw mode. Callers must call
// Close to restore cooked mode even on error paths that return early.
func Open(c *cp15.CP15) (*Monitor, error) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}
	return &Monitor{tty: tty, cp15: c}, nil
}

// Close restores the terminal to cooked mode.
func (m *Monitor) Close() error {
	if m.tty == nil {
		return nil
	}
	if err := m.tty.Restore(); err != nil {
		return err
	}
	return m.tty.Close()
}

// Commands recognised by Run, one character each:
//
//	i  - read an ICache tag: "i <set> <way>"
//	d  - read a DCache tag: "d <set> <way>"
//	I  - write an ICache tag: "I <set> <way> <tag>"
//	D  - write a DCache tag: "D <set> <way> <tag>"
//	q  - quit
//
// Run blocks reading lines from the raw terminal until a "q" command or
// read error ends the session.
func (m *Monitor) Run() error {
	r := bufio.NewReader(m.tty)
	for {
		fmt.Fprint(m.tty, "cp15> ")
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" {
			return nil
		}
		m.dispatch(line)
	}
}

func (m *Monitor) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "i", "d":
		set, way, ok := parseSetWay(fields)
		if !ok {
			fmt.Fprintln(m.tty, "usage: i|d <set> <way>")
			return
		}
		cache := &m.cp15.ICache
		if fields[0] == "d" {
			cache = &m.cp15.DCache
		}
		tag, valid, dirty := cp15.ReadTag(cache, set, way)
		fmt.Fprintf(m.tty, "tag=%#08x valid=%v dirty=%v\r\n", tag, valid, dirty)
		logger.Logf("monitor", "read tag set=%d way=%d -> %#08x valid=%v", set, way, tag, valid)
	case "I", "D":
		if len(fields) != 4 {
			fmt.Fprintln(m.tty, "usage: I|D <set> <way> <tag>")
			return
		}
		set, way, ok := parseSetWay(fields)
		if !ok {
			fmt.Fprintln(m.tty, "usage: I|D <set> <way> <tag>")
			return
		}
		tag, err := strconv.ParseUint(fields[3], 0, 32)
		if err != nil {
			fmt.Fprintln(m.tty, "bad tag value")
			return
		}
		cache := &m.cp15.ICache
		if fields[0] == "D" {
			cache = &m.cp15.DCache
		}
		cp15.WriteTag(cache, set, way, uint32(tag), true)
		logger.Logf("monitor", "write tag set=%d way=%d -> %#08x", set, way, tag)
	default:
		fmt.Fprintln(m.tty, "unrecognised command")
	}
}

func parseSetWay(fields []string) (set, way int, ok bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	s, err1 := strconv.Atoi(fields[1])
	w, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return s, w, true
}
