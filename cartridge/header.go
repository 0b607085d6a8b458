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

// Package cartridge implements the NDS cart slot's command port: header
// parsing, the raw/KEY1/KEY2 command-encryption state machine, and the
// cart command set the boot ROM and game software drive it with. It has no
// precedent in the teacher repo (a 2600 has no equivalent protocol) so its
// wire format is grounded directly on melonDS's NDSCart/CartCommon.cpp,
// retrieved as original_source; see DESIGN.md.
package cartridge

import (
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
)

// Header is the bit-exact 0x200-byte NDS cartridge header, trimmed to the
// fields the boot sequence and command port consume.
type Header struct {
	Title    [12]byte
	GameCode [4]byte

	ARM9ROMOffset  uint32
	ARM9Entry      uint32
	ARM9RAMAddress uint32
	ARM9Size       uint32

	ARM7ROMOffset  uint32
	ARM7Entry      uint32
	ARM7RAMAddress uint32
	ARM7Size       uint32

	BannerOffset uint32

	// DSiExtension reports whether the unit-code byte advertises an
	// extended (DSi) header following the regular 0x200 bytes.
	DSiExtension bool
}

// ParseHeader reads the fields of Header out of rom's first 0x200 bytes.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x200 {
		return Header{}, errors.Errorf(errors.CartridgeHeaderInvalid, len(rom))
	}

	var h Header
	copy(h.Title[:], rom[0x00:0x0c])
	copy(h.GameCode[:], rom[0x0c:0x10])

	h.ARM9ROMOffset = le32(rom, 0x20)
	h.ARM9Entry = le32(rom, 0x24)
	h.ARM9RAMAddress = le32(rom, 0x28)
	h.ARM9Size = le32(rom, 0x2c)

	h.ARM7ROMOffset = le32(rom, 0x30)
	h.ARM7Entry = le32(rom, 0x34)
	h.ARM7RAMAddress = le32(rom, 0x38)
	h.ARM7Size = le32(rom, 0x3c)

	h.BannerOffset = le32(rom, 0x68)
	h.DSiExtension = rom[0x12] != 0

	logger.Logf("cartridge", "header parsed: %q (%s), arm9 %d bytes @ %#08x, arm7 %d bytes @ %#08x",
		h.Title, h.GameCodeString(), h.ARM9Size, h.ARM9RAMAddress, h.ARM7Size, h.ARM7RAMAddress)

	return h, nil
}

// GameCodeString returns the four-character game code as a string, for use
// as a save-file key (see paths.SavePath).
func (h Header) GameCodeString() string {
	return string(h.GameCode[:])
}

func le32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}
