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

package cartridge

import (
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
)

// EncryptionMode is the command port's current encryption stage, driven by
// the commands the cart has been sent since reset: raw at power-on, KEY1
// once the boot ROM issues the 0x3C handshake (0x3D on DSi-extended carts),
// KEY2 once a KEY1-encrypted 0x4x command activates it.
type EncryptionMode int

// recognised encryption modes, matching spec.md §4.8's "mode 0/1/2".
const (
	ModeRaw EncryptionMode = iota
	ModeKey1
	ModeKey2
)

// NANDCommandHandler is implemented by backup.NAND: once the command port
// enters KEY2 mode, a NAND-backed cart routes every 8-byte command through
// its own command set (CartRetailNAND.cpp's override) instead of the
// generic 0xB7 secure-read handling this package implements directly.
type NANDCommandHandler interface {
	Command(cmd [8]byte)
	ReadData() uint32
}

// CommandPort models the NDS cart slot's 8-byte command / 32-bit response
// protocol (spec.md §4.8). It owns the raw/KEY1/KEY2 mode transitions;
// response payloads for the commands that read ROM data are served
// straight out of the ROM image, mirroring CartCommon's ROMCommandReceive.
type CommandPort struct {
	rom    []byte
	header Header
	chipID uint32

	key1 *Key1

	mode    EncryptionMode
	dsiMode bool
	cmd     [8]byte
	romAddr uint32

	// nand, when non-nil, takes over command handling entirely once the
	// port has reached KEY2 mode - see CartRetailNAND.cpp's separate
	// command decode, supplemented feature from SPEC_FULL.md §5.
	nand NANDCommandHandler
}

// New returns a CommandPort over rom, with key1 supplying the KEY1 cipher
// state (already seeded with the key table; InitKeycode is invoked by
// WriteCommand as the boot sequence's 0x3C/0x3D commands arrive).
func New(rom []byte, header Header, chipID uint32, key1 *Key1) *CommandPort {
	return &CommandPort{rom: rom, header: header, chipID: chipID, key1: key1}
}

// AttachNAND installs a NAND backup chip whose command set takes over the
// port once KEY2 mode is reached. Carts without NAND backup never call
// this.
func (p *CommandPort) AttachNAND(nand NANDCommandHandler) {
	p.nand = nand
}

// Mode returns the port's current encryption stage.
func (p *CommandPort) Mode() EncryptionMode { return p.mode }

// WriteCommand starts a new 8-byte command, applying the same
// mode-dependent decode CartCommon::ROMCommandStart does.
func (p *CommandPort) WriteCommand(cmd [8]byte) error {
	if p.mode == ModeKey2 && p.nand != nil {
		p.nand.Command(cmd)
		logger.Logf("cartridge", "nand command %#02x", cmd[0])
		return nil
	}

	switch p.mode {
	case ModeRaw:
		return p.startRaw(cmd)
	case ModeKey1:
		return p.startKey1(cmd)
	case ModeKey2:
		return p.startKey2(cmd)
	}
	return errors.Errorf(errors.CartridgeCommandUnknown, cmd[0])
}

func (p *CommandPort) startRaw(cmd [8]byte) error {
	p.cmd = cmd
	switch cmd[0] {
	case 0x00:
		p.romAddr = (uint32(cmd[1])<<24 | uint32(cmd[2])<<16 | uint32(cmd[3])<<8 | uint32(cmd[4])) & 0xfff
	case 0x3c:
		p.mode = ModeKey1
		p.key1.InitKeycode(p.key1.table, p.chipID, 2, 2)
		p.dsiMode = false
		logger.Log("cartridge", "command port: raw -> key1")
	case 0x3d:
		if p.header.DSiExtension {
			p.mode = ModeKey1
			p.key1.InitKeycode(p.key1.table, p.chipID, 1, 2)
			p.dsiMode = true
			logger.Log("cartridge", "command port: raw -> key1 (dsi)")
		}
	case 0x90, 0x9f:
		// handled entirely by ReadData; no state to update here.
	default:
		return errors.Errorf(errors.CartridgeCommandUnknown, cmd[0])
	}
	return nil
}

func (p *CommandPort) startKey1(cmd [8]byte) error {
	dec := p.key1Decrypt(cmd)
	p.cmd = dec

	switch dec[0] & 0xf0 {
	case 0x40:
		p.mode = ModeKey2
		logger.Log("cartridge", "command port: key1 -> key2")
	case 0x20:
		addr := uint32(dec[2]&0xf0) << 8
		if p.dsiMode {
			addr = addr - 0x1000 + p.header.ARM9ROMOffset
		}
		p.romAddr = addr
	case 0xa0:
		// secure-area level-3 keycode re-init; callers that model the
		// secure area verification step call Key1.InitKeycode directly.
	}
	return nil
}

// key1Decrypt undoes the byte-order shuffle CartCommon::ROMCommandStart
// applies before calling Key1_Decrypt: the 8-byte command is split into two
// words, swapped, byte-swapped, decrypted, then unswapped.
func (p *CommandPort) key1Decrypt(cmd [8]byte) [8]byte {
	hi := be32(cmd[4:8])
	lo := be32(cmd[0:4])
	y, x := p.key1.Decrypt(hi, lo)
	var out [8]byte
	putBE32(out[0:4], x)
	putBE32(out[4:8], y)
	return out
}

func (p *CommandPort) startKey2(cmd [8]byte) error {
	p.cmd = cmd
	switch cmd[0] {
	case 0xb7:
		addr := uint32(cmd[1])<<24 | uint32(cmd[2])<<16 | uint32(cmd[3])<<8 | uint32(cmd[4])
		if addr < 0x8000 {
			addr = 0x8000 + addr&0x1ff
		}
		p.romAddr = addr
	case 0xb8:
		// chip id; served directly from ReadData.
	default:
		return errors.Errorf(errors.CartridgeCommandUnknown, cmd[0])
	}
	return nil
}

// ReadData pops the next 32-bit response word, matching
// CartCommon::ROMCommandReceive. The caller polls this once per word until
// the response length it was told (a multiple of 4, up to 0x4000 bytes) is
// drained.
func (p *CommandPort) ReadData() uint32 {
	if p.mode == ModeKey2 && p.nand != nil {
		return p.nand.ReadData()
	}

	switch p.mode {
	case ModeRaw:
		switch p.cmd[0] {
		case 0x9f:
			return 0xffffffff
		case 0x00:
			return p.romRead32()
		case 0x90:
			return p.chipID
		}
	case ModeKey1:
		switch p.cmd[0] & 0xf0 {
		case 0x10:
			return p.chipID
		case 0x20:
			return p.romRead32()
		}
	case ModeKey2:
		switch p.cmd[0] {
		case 0xb7:
			return p.romRead32()
		case 0xb8:
			return p.chipID
		}
	}
	return 0
}

func (p *CommandPort) romRead32() uint32 {
	addr := int(p.romAddr)
	var ret uint32
	if addr >= 0 && addr+4 <= len(p.rom) {
		ret = uint32(p.rom[addr]) | uint32(p.rom[addr+1])<<8 | uint32(p.rom[addr+2])<<16 | uint32(p.rom[addr+3])<<24
	}
	p.romAddr += 4
	return ret
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
