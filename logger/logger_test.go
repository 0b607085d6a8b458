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

package logger_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/ndscore/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()
	tw := &bytes.Buffer{}

	logger.Write(tw)
	if tw.String() != "" {
		t.Fatalf("expected empty log, got %q", tw.String())
	}

	logger.Log("test", "this is a test")
	logger.Write(tw)
	if tw.String() != "test: this is a test\n" {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}

	// clear the buffer before continuing, makes comparisons easier to manage
	tw.Reset()

	logger.Log("test2", "this is another test")
	logger.Write(tw)
	want := "test: this is a test\ntest2: this is another test\n"
	if tw.String() != want {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}

	// asking for too many entries in a Tail() should be okay
	tw.Reset()
	logger.Tail(tw, 100)
	if tw.String() != want {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}

	// asking for exactly the correct number of entries is okay
	tw.Reset()
	logger.Tail(tw, 2)
	if tw.String() != want {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}

	// asking for fewer entries is okay too
	tw.Reset()
	logger.Tail(tw, 1)
	if tw.String() != "test2: this is another test\n" {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}

	// and no entries
	tw.Reset()
	logger.Tail(tw, 0)
	if tw.String() != "" {
		t.Fatalf("expected empty tail, got %q", tw.String())
	}
}

func TestLogf(t *testing.T) {
	logger.Clear()
	tw := &bytes.Buffer{}

	logger.Logf("cp15", "region %d base=%#x", 3, 0x02000000)
	logger.Write(tw)
	if tw.String() != "cp15: region 3 base=0x2000000\n" {
		t.Fatalf("unexpected log contents: %q", tw.String())
	}
}
