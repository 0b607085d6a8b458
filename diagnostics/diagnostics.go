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

// Package diagnostics serves a live runtime-statistics dashboard behind
// the "ndscore boot --stats" flag, via go-echarts/statsview. It is
// deliberately limited to what statsview's own viewer exposes - goroutine
// count, heap size, GC pause times - since emulator-specific counters
// (cache hit/miss, write-buffer occupancy, arbiter grant/defer) are
// instead surfaced through the existing logger at the "diagnostics" tag,
// where a log-following tool can already pick them up without an
// additional plugin surface statsview does not stably expose across
// versions.
package diagnostics

import (
	"fmt"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/jetsetilly/ndscore/logger"
)

// Server owns the background statsview HTTP handler.
type Server struct {
	mgr *statsview.Viewer
}

// Start configures and launches the statsview dashboard on addr (e.g.
// "localhost:18066") and returns once the background goroutine is
// running. Call Stop to shut it down.
func Start(addr string) *Server {
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithTheme(viewer.ThemeWesteros))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil {
			logger.Logf("diagnostics", "statsview stopped: %v", err)
		}
	}()

	logger.Logf("diagnostics", "stats dashboard listening on %s", addr)
	fmt.Printf("diagnostics: stats dashboard at http://%s/debug/statsview\n", addr)

	return &Server{mgr: mgr}
}

// Stop shuts the dashboard's HTTP server down.
func (s *Server) Stop() {
	if s == nil || s.mgr == nil {
		return
	}
	s.mgr.Stop()
}
