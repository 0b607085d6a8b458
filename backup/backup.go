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

// Package backup implements the SPI backup chips a cart's save memory can
// be built from: EEPROM, FLASH, and (via the NAND type) the command-port
// routed NAND protocol used by a handful of high-capacity retail carts.
// Grounded on melonDS's NDSCart/CartRetail.cpp and CartRetailNAND.cpp,
// retrieved as original_source, since the teacher repo has no SPI
// peripheral of its own.
package backup

import "github.com/jetsetilly/ndscore/errors"

// Chip is the SPI backup port's view of one backup chip: a chip-select
// line plus byte-serial transmit/receive, per spec.md §4.8. Select
// transitions from de-asserted to asserted reset the chip's internal
// command state machine.
type Chip interface {
	Select()
	Release()
	Transmit(b byte) byte
}

// Kind identifies which SPI backup chip variant a cart declares in its
// ROMListEntry-equivalent configuration.
type Kind int

// recognised chip kinds, matching the capacities spec.md §4.8 lists.
const (
	KindEEPROMTiny Kind = iota // 512 bytes, 1-byte addressing
	KindEEPROM                 // 8 KiB - 128 KiB, 2-byte addressing
	KindFLASH                  // 256 KiB - 1 MiB, 3-byte addressing
)

// New returns the Chip implementation for kind, backed by data (which the
// caller loads from / persists to the save file at paths.SavePath).
func New(kind Kind, data []byte) (Chip, error) {
	switch kind {
	case KindEEPROMTiny:
		return &EEPROM{data: data, addrBytes: 1}, nil
	case KindEEPROM:
		return &EEPROM{data: data, addrBytes: 2}, nil
	case KindFLASH:
		return &Flash{data: data}, nil
	}
	return nil, errors.Errorf(errors.BackupUnsupportedChip, kind)
}
