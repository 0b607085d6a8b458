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

// Package arm9 wires armcore to the ARM946E-S (ARMv5TE) configuration of
// the NDS main CPU: CP15 present, BLX/CLZ/Q-saturating opcodes live.
package arm9

import (
	"github.com/jetsetilly/ndscore/cpu/armcore"
	"github.com/jetsetilly/ndscore/memory/cp15"
	"github.com/jetsetilly/ndscore/memory/pipeline"
)

// CPU is the ARM9 core.
type CPU struct {
	*armcore.CPU
}

// New returns a reset ARM9 core bound to mem and cp15State.
func New(mem *pipeline.Pipeline, cp15State *cp15.CP15) *CPU {
	c := &CPU{CPU: armcore.New(armcore.Core9, mem, cp15State)}
	c.Reset()
	return c
}
