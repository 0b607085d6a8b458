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

package monitor

import "testing"

func TestParseSetWay(t *testing.T) {
	cases := []struct {
		fields []string
		set    int
		way    int
		wantOk bool
	}{
		{[]string{"i", "3", "1"}, 3, 1, true},
		{[]string{"I", "0", "0", "0xdeadbeef"}, 0, 0, true},
		{[]string{"i", "x", "1"}, 0, 0, false},
		{[]string{"i", "3"}, 0, 0, false},
		{[]string{"i"}, 0, 0, false},
	}

	for _, c := range cases {
		set, way, ok := parseSetWay(c.fields)
		if ok != c.wantOk {
			t.Errorf("parseSetWay(%v) ok = %v, want %v", c.fields, ok, c.wantOk)
			continue
		}
		if !ok {
			continue
		}
		if set != c.set || way != c.way {
			t.Errorf("parseSetWay(%v) = (%d, %d), want (%d, %d)", c.fields, set, way, c.set, c.way)
		}
	}
}

func TestCloseOnUnopenedMonitorIsNoOp(t *testing.T) {
	m := &Monitor{}
	if err := m.Close(); err != nil {
		t.Errorf("Close() on zero-value Monitor = %v, want nil", err)
	}
}
