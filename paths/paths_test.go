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

package paths_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/paths"
)

func TestResourcePath(t *testing.T) {
	cases := []struct {
		segments []string
		want     string
	}{
		{[]string{"foo/bar", "baz"}, ".ndscore/foo/bar/baz"},
		{[]string{"foo/bar", ""}, ".ndscore/foo/bar"},
		{[]string{"", "baz"}, ".ndscore/baz"},
		{[]string{"", ""}, ".ndscore"},
	}

	for _, c := range cases {
		got, err := paths.ResourcePath(c.segments...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("ResourcePath(%v) = %q, want %q", c.segments, got, c.want)
		}
	}
}

func TestSavePath(t *testing.T) {
	got, err := paths.SavePath("ADAE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ".ndscore/saves/ADAE.sav" {
		t.Errorf("SavePath() = %q", got)
	}
}
