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

package diagnostics_test

import (
	"testing"

	"github.com/jetsetilly/ndscore/diagnostics"
)

// Start launches a background HTTP server, which makes it unsuitable for a
// unit test to exercise directly; Stop's nil-safety needs no server, so
// that's what's covered here.
func TestStopOnNilServerDoesNotPanic(t *testing.T) {
	var s *diagnostics.Server
	s.Stop()
}
