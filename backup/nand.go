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

// nandIDData and nandIDData2 are the fixed ID bytes CartRetailNAND.cpp's
// BuildSRAMID writes into the last 128 KiB of NAND-backed SRAM, and returns
// again in response to the 0x94 command. Their exact meaning is undocumented
// upstream; they're carried verbatim since at least one commercial title
// (Jam with the Band) checks them during boot.
var nandIDData = [0x10]byte{0xEC, 0x00, 0x9E, 0xA1, 0x51, 0x65, 0x34, 0x35, 0x30, 0x35, 0x30, 0x31, 0x19, 0x19, 0x02, 0x0A}

var nandIDData2 = [0x30]byte{
	0xEC, 0xF1, 0x00, 0x95, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// NAND implements a NAND-backed cart's save memory, which (unlike EEPROM and
// FLASH) is accessed through the command port's own 8-byte command set
// rather than a separate SPI line, per CartRetailNAND.cpp. It satisfies
// cartridge.NANDCommandHandler.
type NAND struct {
	data []byte
	base uint32 // SRAMBase: SRAM start address in bytes (ROM header field * 0x20000)

	romAddr  uint32
	sramAddr uint32
	window   uint32
	status   byte // bit5 ready, bit4 write-enable
	writeBuf [0x800]byte
	writePos int
	writeLen int
	cmd      [8]byte
	idData   [0x30]byte
}

// NewNAND returns a NAND backup over data, with base the 0x20000-aligned
// SRAM start address taken from the ROM header's bytes 0x94-0x97 (see
// CartRetailNAND::Reset: "ROM header 94/96 = SRAM addr start / 0x20000").
func NewNAND(data []byte, base uint32) *NAND {
	n := &NAND{data: data, base: base << 17, status: 0x20}
	n.buildID()
	return n
}

// buildID stamps the fixed ID block into the last 128 KiB of the backing
// store and into the 0x94 response buffer, mirroring BuildSRAMID.
func (n *NAND) buildID() {
	if len(n.data) <= 0x20000 {
		return
	}
	for i := len(n.data) - 0x20000; i < len(n.data); i++ {
		n.data[i] = 0xff
	}
	copy(n.data[len(n.data)-0x800:], nandIDData[:])
	copy(n.idData[:], nandIDData2[:])
	copy(n.idData[0x18:], nandIDData[:])
}

func (n *NAND) mask() uint32 { return uint32(len(n.data) - 1) }

// Command decodes one 8-byte command-port command, matching
// CartRetailNAND::ROMCommandStart's override.
func (n *NAND) Command(cmd [8]byte) {
	n.cmd = cmd
	switch cmd[0] {
	case 0x81: // buffered write: latch address on first issue only
		inWindow := n.status&(1<<4) != 0 && n.window >= n.base && n.window < n.base+uint32(len(n.data))
		addr := uint32(cmd[1])<<24 | uint32(cmd[2])<<16 | uint32(cmd[3])<<8 | uint32(cmd[4])
		if inWindow && addr >= n.window && addr < n.window+0x20000 {
			if n.sramAddr == 0 {
				n.sramAddr = addr
			}
		} else {
			n.sramAddr = 0
		}
	case 0x82: // commit write buffer
		if n.sramAddr != 0 && n.writeLen != 0 {
			n.commit()
		}
		n.status &^= 1 << 4
	case 0x84: // discard write buffer
		n.sramAddr = 0
		n.writePos = 0
	case 0x85: // write enable
		if n.window != 0 {
			n.status |= 1 << 4
			n.writePos = 0
		}
	case 0x8b: // revert to ROM read mode
		n.window = 0
	case 0x94: // return ID data
		n.romAddr = 0
	case 0xb2: // set SRAM window
		addr := uint32(cmd[1])<<24 | uint32(cmd[2]&0xfe)<<16
		if addr < n.base || addr >= n.base+uint32(len(n.data)) {
			logger.Logf("backup", "nand: window address %#08x out of range", addr)
		}
		n.window = addr
	case 0xb7:
		addr := uint32(cmd[1])<<24 | uint32(cmd[2])<<16 | uint32(cmd[3])<<8 | uint32(cmd[4])
		if n.window == 0 {
			n.romAddr = addr
			return
		}
		if n.window >= n.base && n.window < n.base+uint32(len(n.data)) && addr >= n.window && addr < n.window+0x20000 {
			n.sramAddr = addr
		} else {
			n.sramAddr = 0
		}
	}
}

// commit copies the 0x800-byte write buffer into the backing store,
// wrapping once it runs past the end, matching ROMCommandStart's 0x82 path.
func (n *NAND) commit() {
	if len(n.data) == 0 || n.sramAddr >= n.base+uint32(len(n.data))-0x20000 {
		n.sramAddr = 0
		n.writePos = 0
		n.writeLen = 0
		return
	}

	offset := n.sramAddr - n.base
	if offset+0x800 > uint32(len(n.data)) {
		len1 := uint32(len(n.data)) - offset
		copy(n.data[offset:], n.writeBuf[:len1])
		copy(n.data[0:], n.writeBuf[len1:0x800])
	} else {
		copy(n.data[offset:offset+0x800], n.writeBuf[:])
	}
	logger.Logf("backup", "nand: committed 0x800 bytes @ %#08x", offset)

	n.sramAddr = 0
	n.writePos = 0
	n.writeLen = 0
}

// WriteData accepts one 32-bit data word sent after a 0x81 command,
// matching ROMCommandTransmit. cartridge.CommandPort forwards only Command
// and ReadData to a NAND chip; a transport that also drives writes calls
// this directly once it issues 0x81.
func (n *NAND) WriteData(val uint32) {
	if n.cmd[0] != 0x81 || n.sramAddr == 0 {
		return
	}
	n.writeBuf[n.writePos] = byte(val)
	n.writeBuf[n.writePos+1] = byte(val >> 8)
	n.writeBuf[n.writePos+2] = byte(val >> 16)
	n.writeBuf[n.writePos+3] = byte(val >> 24)
	n.writePos = (n.writePos + 4) & 0x7ff
	if n.writeLen < 0x800 {
		n.writeLen += 4
	}
}

// ReadData returns the next 32-bit response word, matching
// CartRetailNAND::ROMCommandReceive's override.
func (n *NAND) ReadData() uint32 {
	switch n.cmd[0] {
	case 0x94:
		if n.romAddr >= 0x30 {
			return 0
		}
		ret := le32(n.idData[:], int(n.romAddr))
		n.romAddr += 4
		return ret
	case 0xb7:
		if n.window == 0 {
			if n.romAddr >= n.base && n.romAddr < n.base+uint32(len(n.data)) {
				return 0xffffffff
			}
			return 0
		}
		if n.sramAddr == 0 {
			return 0xffffffff
		}
		return n.sramRead32()
	case 0xd6: // read NAND status
		s := uint32(n.status)
		return s | s<<8 | s<<16 | s<<24
	}
	return 0
}

func le32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

// sramRead32 reads four bytes from the backing store at sramAddr-base,
// wrapping within a 4 KiB page as ROMCommandReceive's SRAMRead32 does.
func (n *NAND) sramRead32() uint32 {
	addr := (n.sramAddr - n.base) & n.mask()
	hi := addr &^ 0xfff
	lo := addr & 0xfff

	var ret uint32
	for shift := 0; shift < 32; shift += 8 {
		ret |= uint32(n.data[hi|lo]) << shift
		lo = (lo + 1) & 0xfff
	}
	n.sramAddr = n.base + (hi | lo)
	return ret
}
