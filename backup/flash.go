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

package backup

import "github.com/jetsetilly/ndscore/logger"

// Flash implements the 256 KiB-1 MiB FLASH SPI command set: three address
// bytes, page program / page write, sector and page erase, matching
// CartRetail's SRAMWrite_FLASH.
type Flash struct {
	data []byte

	pos    int
	cmd    byte
	addr   uint32
	status byte
}

// Select begins a new SPI transaction.
func (f *Flash) Select() {
	f.pos = 0
}

// Release ends the current SPI transaction.
func (f *Flash) Release() {}

// Transmit clocks one byte through the chip.
func (f *Flash) Transmit(val byte) byte {
	if len(f.data) == 0 {
		return 0xff
	}

	var ret byte = 0xff
	if f.pos == 0 {
		switch val {
		case 0x04:
			f.status &^= 1 << 1
			f.pos++
			return 0
		case 0x06:
			f.status |= 1 << 1
			f.pos++
			return 0
		default:
			f.cmd = val
			f.addr = 0
		}
	} else {
		ret = f.transmit(val)
	}

	f.pos++
	return ret
}

func (f *Flash) mask() uint32 { return uint32(len(f.data) - 1) }

func (f *Flash) transmit(val byte) byte {
	switch f.cmd {
	case 0x05: // read status register
		return f.status
	case 0x02, 0x0a: // page program / page write
		if f.pos <= 3 {
			f.addr = f.addr<<8 | uint32(val)
			return 0
		}
		if f.status&(1<<1) != 0 {
			if f.cmd == 0x02 {
				f.data[f.addr&f.mask()] = 0
			} else {
				f.data[f.addr&f.mask()] = val
			}
			logger.Logf("backup", "flash: write @ %#06x", f.addr&f.mask())
		}
		f.addr++
		return 0
	case 0x03: // read
		if f.pos <= 3 {
			f.addr = f.addr<<8 | uint32(val)
			return 0
		}
		ret := f.data[f.addr&f.mask()]
		f.addr++
		return ret
	case 0x0b: // fast read
		if f.pos <= 3 {
			f.addr = f.addr<<8 | uint32(val)
			return 0
		}
		if f.pos == 4 {
			return 0 // dummy byte
		}
		ret := f.data[f.addr&f.mask()]
		f.addr++
		return ret
	case 0x9f: // read JEDEC ID
		return 0xff
	case 0xd8: // sector erase, 64 KiB
		if f.pos <= 3 {
			f.addr = f.addr<<8 | uint32(val)
		}
		if f.pos == 3 && f.status&(1<<1) != 0 {
			f.erase(0x10000)
		}
		return 0
	case 0xdb: // page erase, 256 bytes
		if f.pos <= 3 {
			f.addr = f.addr<<8 | uint32(val)
		}
		if f.pos == 3 && f.status&(1<<1) != 0 {
			f.erase(0x100)
		}
		return 0
	default:
		if f.pos == 1 {
			logger.Logf("backup", "flash: unknown command %#02x", f.cmd)
		}
		return 0xff
	}
}

func (f *Flash) erase(n uint32) {
	for i := uint32(0); i < n; i++ {
		f.data[f.addr&f.mask()] = 0
		f.addr++
	}
	logger.Logf("backup", "flash: erase %d bytes", n)
}
