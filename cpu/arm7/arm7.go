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

// Package arm7 wires armcore to the ARM7TDMI (ARMv4T) configuration of the
// NDS secondary CPU: no CP15, no MPU, no caches, no TCMs - every access
// falls straight through the memory pipeline to the bus.
package arm7

import (
	"github.com/jetsetilly/ndscore/cpu/armcore"
	"github.com/jetsetilly/ndscore/memory/pipeline"
)

// CPU is the ARM7 core.
type CPU struct {
	*armcore.CPU
}

// New returns a reset ARM7 core bound to mem.
func New(mem *pipeline.Pipeline) *CPU {
	c := &CPU{CPU: armcore.New(armcore.Core7, mem, nil)}
	c.Reset()
	return c
}
